package user

import (
	"errors"
	"strings"
	"time"
)

type User struct {
	UserID           int64     `json:"userid" bson:"userid"`
	UserName         string    `json:"userName,omitempty" bson:"userName,omitempty"`
	Email            string    `json:"email" bson:"email"`
	PasswordHash     string    `json:"-" bson:"password"` // never expose hash in JSON
	RegistrationDate time.Time `json:"registrationDate" bson:"registrationDate"`
}

// WithTripCount is the read model returned by list and get: the user plus
// the number of trips they created.
type WithTripCount struct {
	User
	TripCount int64 `json:"tripCount"`
}

type ListFilter struct {
	Limit  int
	Offset int
}

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrIDTaken            = errors.New("userid already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type SignUpRequest struct {
	UserID   *int64 `json:"userid" binding:"omitempty,min=1"`
	UserName string `json:"userName" binding:"omitempty,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,bcryptlen"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// PatchRequest only touches the fields that are present in the body.
type PatchRequest struct {
	UserName *string `json:"userName" binding:"omitempty,min=3,max=30"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=8,bcryptlen"`
}

type ReplaceRequest struct {
	UserName string `json:"userName" binding:"omitempty,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,bcryptlen"`
}

// NormalizeEmail lower-cases and trims an address so lookups and the unique
// index agree on a single spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
