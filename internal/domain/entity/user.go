package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Roles válidos para User.
const (
	RoleAdmin             = "admin"
	RoleUser              = "user"
	RoleLogistics         = "logistics"
	RoleCoordinator       = "coordinator"
	RoleOperationsManager = "operations_manager"
)

// Estados de cuenta.
const (
	UserStatusActive = "active"
	UserStatusOnHold = "on-hold"
)

// Roles lista todos los roles reconocidos.
var Roles = []string{RoleAdmin, RoleUser, RoleLogistics, RoleCoordinator, RoleOperationsManager}

// IsValidRole indica si r es un rol conocido.
func IsValidRole(r string) bool {
	for _, role := range Roles {
		if role == r {
			return true
		}
	}
	return false
}

// User representa una cuenta (cliente o personal). El email es la clave única.
type User struct {
	Email              string
	PasswordHash       string // bcrypt hash, nunca plano en dominio después de persistir
	Name               string
	Phone              string
	Role               string          // admin, user, logistics, coordinator, operations_manager
	Status             string          // active, on-hold
	DiscountPercentage decimal.Decimal // 0..100, aplicado al total de sus pedidos
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsOnHold indica si la cuenta está suspendida.
func (u *User) IsOnHold() bool {
	return u.Status == UserStatusOnHold
}
