package models

// User represents an account of the API.
type User struct {
	UserName     string `json:"user_name"`
	PasswordHash string `json:"-"` // never serialized
	Active       bool   `json:"active"`
}

// UserInput is the registration payload.
type UserInput struct {
	UserName string `json:"user_name" form:"user_name" validate:"required,max=30"`
	Password string `json:"password" form:"password" validate:"required,min=6,pwbytes"`
	Active   *bool  `json:"active,omitempty" form:"active"`
}

// UserUpdate replaces a user. An empty Password keeps the stored hash, an
// empty UserName keeps the current name and a nil Active means true.
type UserUpdate struct {
	UserName string `json:"user_name" validate:"omitempty,max=30"`
	Password string `json:"password" validate:"omitempty,min=6,pwbytes"`
	Active   *bool  `json:"active,omitempty"`
}

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "bearer"

// Token is the credential returned after a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
