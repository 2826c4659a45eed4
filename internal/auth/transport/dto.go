// Package transport defines request/response DTOs for the auth module.
package transport

import "github.com/google/uuid"

// RegisterRequest creates a new organization with its owner account.
type RegisterRequest struct {
	OrganizationName string `json:"organizationName" validate:"required,min=2,max=120"`
	Name             string `json:"name" validate:"required,min=2,max=120"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=10,max=128"`
}

// SignInRequest authenticates an existing user.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest rotates a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// TokenResponse carries an issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserResponse represents the authenticated user.
type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Roles          []string  `json:"roles"`
}
