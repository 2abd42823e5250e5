package models

import "github.com/parisxmas/partnerhub/internal/codec"

// User is an operator account for the HTTP API.
type User struct {
	Email        string          `json:"email"`
	PasswordHash string          `json:"passwordHash"`
	Name         string          `json:"name"`
	Role         string          `json:"role"`
	CreatedAt    codec.Timestamp `json:"createdAt"`
}

// UserResponse is the API-safe view of a User.
type UserResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{Email: u.Email, Name: u.Name, Role: u.Role}
}
