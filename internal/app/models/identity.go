package models

import "time"

// Identity defines an authenticated principal based on the 'identities' table
type Identity struct {
	ID        int64     `json:"id" db:"id" example:"1"`                  // Unique identifier
	Name      string    `json:"name" db:"name" example:"Serhii1997"`     // Unique account name
	Email     *string   `json:"email,omitempty" db:"email"`              // Optional contact email (nullable)
	Role      RoleType  `json:"role" db:"role" example:"student"`        // admin, moderator, user, student or teacher
	Password  string    `json:"-" db:"password"`                         // Hashed password (excluded from JSON)
	CreatedAt time.Time `json:"createdAt" db:"created_at"`               // Timestamp when the identity was registered
}

// Credentials carries an unverified name/password pair taken from a request.
type Credentials struct {
	Name     string
	Password string
}
