package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/abs-rental-api/internal/domain/access"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
)

func user(role, email string) *entity.User {
	return &entity.User{Email: email, Role: role, Status: entity.UserStatusActive}
}

func TestCanEditWorkflow_RoleBased(t *testing.T) {
	order := &entity.Order{UserEmail: "cliente@x.co", Status: entity.StatusPendiente}
	p := access.PolicyRoleBased

	for _, role := range []string{entity.RoleAdmin, entity.RoleLogistics, entity.RoleCoordinator, entity.RoleOperationsManager} {
		assert.True(t, p.CanEditWorkflow(user(role, "staff@abs.co"), order), "%s debe poder editar", role)
	}
	assert.False(t, p.CanEditWorkflow(user(entity.RoleUser, "cliente@x.co"), order), "el cliente no edita ni su propio pedido")
	assert.False(t, p.CanEditWorkflow(nil, order))
}

func TestCanEditWorkflow_CotizacionNuncaEditable(t *testing.T) {
	order := &entity.Order{UserEmail: "admin@abs.co", Status: entity.StatusCotizacion}

	assert.False(t, access.PolicyRoleBased.CanEditWorkflow(user(entity.RoleAdmin, "admin@abs.co"), order))
	assert.False(t, access.PolicyOwnership.CanEditWorkflow(user(entity.RoleAdmin, "admin@abs.co"), order))
}

func TestCanEditWorkflow_OwnershipExigeAutoria(t *testing.T) {
	order := &entity.Order{UserEmail: "admin@abs.co", Status: entity.StatusEnProceso}
	p := access.PolicyOwnership

	assert.True(t, p.CanEditWorkflow(user(entity.RoleAdmin, "admin@abs.co"), order))
	assert.False(t, p.CanEditWorkflow(user(entity.RoleAdmin, "otro@abs.co"), order))
	assert.False(t, p.CanEditWorkflow(user(entity.RoleUser, "admin@abs.co"), order), "sigue exigiendo rol de personal")
}

func TestParsePolicy(t *testing.T) {
	assert.Equal(t, access.PolicyOwnership, access.ParsePolicy(" Ownership "))
	assert.Equal(t, access.PolicyRoleBased, access.ParsePolicy("role"))
	assert.Equal(t, access.PolicyRoleBased, access.ParsePolicy(""))
}

func TestVisibleStages_ClienteNoVeRetornoABodega(t *testing.T) {
	assert.Len(t, access.VisibleStages(entity.RoleUser), 4)
	assert.NotContains(t, access.VisibleStages(entity.RoleUser), entity.StageCoordToBodega)
	assert.Equal(t, entity.StageKeys, access.VisibleStages(entity.RoleLogistics))
	assert.False(t, access.CanViewStage(entity.RoleUser, entity.StageCoordToBodega))
	assert.True(t, access.CanViewStage(entity.RoleCoordinator, entity.StageCoordToBodega))
}

func TestCanViewOrder(t *testing.T) {
	order := &entity.Order{UserEmail: "cliente@x.co"}

	assert.True(t, access.CanViewOrder(user(entity.RoleUser, "cliente@x.co"), order))
	assert.False(t, access.CanViewOrder(user(entity.RoleUser, "vecino@x.co"), order))
	assert.True(t, access.CanViewOrder(user(entity.RoleCoordinator, "coord@abs.co"), order))
}
