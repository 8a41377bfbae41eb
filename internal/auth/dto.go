package auth

import (
	"github.com/meetpatel1235/rrrr/internal/users"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest redeems a refresh token. The token is single use.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// Session is returned by login and refresh. ExpiresIn is the access token
// lifetime in seconds.
type Session struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	TokenType    string         `json:"tokenType"`
	ExpiresIn    int64          `json:"expiresIn"`
	User         *users.UserDTO `json:"user"`
}
