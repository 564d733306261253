package memory

import (
	"context"
	"sync"
	"time"

	"github.com/serhiib/registry/internal/app/models"
	"github.com/serhiib/registry/internal/pkg/apperrors"
)

// IdentityRepository is the in-memory identity store. Records are indexed
// by name so credential checks do not scan the whole directory.
type IdentityRepository struct {
	mu     sync.RWMutex
	byName map[string]*models.Identity
	byID   map[int64]*models.Identity
	order  []int64
	nextID int64
}

// NewIdentityRepository creates an empty in-memory identity store
func NewIdentityRepository() *IdentityRepository {
	return &IdentityRepository{
		byName: make(map[string]*models.Identity),
		byID:   make(map[int64]*models.Identity),
		nextID: 1,
	}
}

// Create inserts a new identity, rejecting duplicate names
func (r *IdentityRepository) Create(ctx context.Context, identity *models.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[identity.Name]; exists {
		return apperrors.ErrNameTaken
	}

	identity.ID = r.nextID
	identity.CreatedAt = time.Now()
	r.nextID++

	stored := *identity
	r.byName[stored.Name] = &stored
	r.byID[stored.ID] = &stored
	r.order = append(r.order, stored.ID)
	return nil
}

// GetByName retrieves an identity by its unique name
func (r *IdentityRepository) GetByName(ctx context.Context, name string) (*models.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.byName[name]
	if !ok {
		return nil, apperrors.ErrIdentityNotFound
	}

	copied := *identity
	return &copied, nil
}

// GetByID retrieves an identity by ID
func (r *IdentityRepository) GetByID(ctx context.Context, id int64) (*models.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrIdentityNotFound
	}

	copied := *identity
	return &copied, nil
}

// GetAll retrieves all identities in registration order
func (r *IdentityRepository) GetAll(ctx context.Context) ([]*models.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identities := make([]*models.Identity, 0, len(r.order))
	for _, id := range r.order {
		copied := *r.byID[id]
		identities = append(identities, &copied)
	}
	return identities, nil
}

// GetByRole retrieves all identities holding the given role
func (r *IdentityRepository) GetByRole(ctx context.Context, role models.RoleType) ([]*models.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var identities []*models.Identity
	for _, id := range r.order {
		if r.byID[id].Role == role {
			copied := *r.byID[id]
			identities = append(identities, &copied)
		}
	}
	return identities, nil
}

// Update replaces the stored record, keeping the name index consistent
func (r *IdentityRepository) Update(ctx context.Context, identity *models.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[identity.ID]
	if !ok {
		return apperrors.ErrIdentityNotFound
	}

	if identity.Name != existing.Name {
		if _, taken := r.byName[identity.Name]; taken {
			return apperrors.ErrNameTaken
		}
		delete(r.byName, existing.Name)
	}

	identity.CreatedAt = existing.CreatedAt
	if identity.Password == "" {
		identity.Password = existing.Password
	}

	stored := *identity
	r.byID[stored.ID] = &stored
	r.byName[stored.Name] = &stored
	return nil
}
