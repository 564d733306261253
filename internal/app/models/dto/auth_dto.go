package dto

// RegisterRequest is the payload for identity registration
type RegisterRequest struct {
	Name     string  `json:"name" binding:"required,max=50" example:"Serhii1997"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Role     string  `json:"role" binding:"required" example:"student"`
	Password string  `json:"password" binding:"required,min=6"`
}

// LoginRequest is the payload for credential verification
type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries the token pair issued on login
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int    `json:"expiresIn"`
	RefreshExpiresIn int    `json:"refreshExpiresIn"`
}

// UpdateIdentityRequest is the payload for identity edits. Role changes
// are only honored for admin requesters.
type UpdateIdentityRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,max=50"`
	Email *string `json:"email,omitempty" binding:"omitempty,email"`
	Role  *string `json:"role,omitempty"`
}
