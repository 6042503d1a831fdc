package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterRequest entrada para registro de clientes (auth). El rol siempre es "user".
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=200"`
	Phone    string `json:"phone" validate:"omitempty,max=40"`
}

// CreateUserRequest alta de cuentas de personal por un admin.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Phone    string `json:"phone" validate:"omitempty,max=40"`
	Role     string `json:"role" validate:"required,oneof=admin user logistics coordinator operations_manager"`
}

// UpdateUserRequest cambios administrativos sobre una cuenta. Campos nil no se tocan.
type UpdateUserRequest struct {
	Name               *string          `json:"name,omitempty"`
	Phone              *string          `json:"phone,omitempty"`
	Role               *string          `json:"role,omitempty" validate:"omitempty,oneof=admin user logistics coordinator operations_manager"`
	Status             *string          `json:"status,omitempty" validate:"omitempty,oneof=active on-hold"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage,omitempty"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	Email              string          `json:"email"`
	Name               string          `json:"name"`
	Phone              string          `json:"phone,omitempty"`
	Role               string          `json:"role"`
	Status             string          `json:"status"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// UserListResponse listado paginado de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
