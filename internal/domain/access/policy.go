package access

import (
	"strings"

	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
)

// Policy decide quién puede editar el flujo logístico de un pedido.
type Policy string

const (
	// PolicyRoleBased permite editar a cualquier rol de personal.
	PolicyRoleBased Policy = "role"
	// PolicyOwnership además exige que el editor sea quien creó el pedido.
	PolicyOwnership Policy = "ownership"
)

// ParsePolicy interpreta el valor de configuración; cualquier valor desconocido es PolicyRoleBased.
func ParsePolicy(v string) Policy {
	if Policy(strings.ToLower(strings.TrimSpace(v))) == PolicyOwnership {
		return PolicyOwnership
	}
	return PolicyRoleBased
}

var staffRoles = map[string]bool{
	entity.RoleAdmin:             true,
	entity.RoleLogistics:         true,
	entity.RoleCoordinator:       true,
	entity.RoleOperationsManager: true,
}

// IsStaff indica si el rol pertenece al personal de operaciones.
func IsStaff(role string) bool {
	return staffRoles[role]
}

// CanAdminister: borrar pedidos, aprobar cotizaciones y gestionar usuarios o catálogo.
func CanAdminister(role string) bool {
	return role == entity.RoleAdmin
}

// CanAssignCoordinator indica si el rol puede reasignar el coordinador de un pedido.
func CanAssignCoordinator(role string) bool {
	return role == entity.RoleAdmin || role == entity.RoleOperationsManager
}

// CanEditWorkflow aplica la política al par usuario/pedido. Una cotización nunca es editable.
func (p Policy) CanEditWorkflow(user *entity.User, order *entity.Order) bool {
	if user == nil || order == nil {
		return false
	}
	if order.Status == entity.StatusCotizacion {
		return false
	}
	if !IsStaff(user.Role) {
		return false
	}
	if p == PolicyOwnership {
		return order.IsOwnedBy(user.Email)
	}
	return true
}

// CanViewOrder: el personal ve todos los pedidos, el cliente solo los propios.
func CanViewOrder(user *entity.User, order *entity.Order) bool {
	if user == nil || order == nil {
		return false
	}
	return IsStaff(user.Role) || order.IsOwnedBy(user.Email)
}

// VisibleStages devuelve las etapas que el rol puede ver.
// El cliente no ve el retorno a bodega.
func VisibleStages(role string) []entity.StageKey {
	if IsStaff(role) {
		return append([]entity.StageKey{}, entity.StageKeys...)
	}
	return append([]entity.StageKey{}, entity.StageKeys[:4]...)
}

// CanViewStage indica si key está entre las etapas visibles para el rol.
func CanViewStage(role string, key entity.StageKey) bool {
	for _, k := range VisibleStages(role) {
		if k == key {
			return true
		}
	}
	return false
}
