package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/domain/workflow"
)

func TestDeriveStatus_TablaDispersa(t *testing.T) {
	cases := []struct {
		current entity.OrderStatus
		stage   entity.StageKey
		want    entity.OrderStatus
	}{
		{entity.StatusPendiente, entity.StageBodegaCheck, entity.StatusEnProceso},
		{entity.StatusEnProceso, entity.StageBodegaToCoord, entity.StatusEnProceso},
		{entity.StatusEnProceso, entity.StageCoordToClient, entity.StatusEntregado},
		{entity.StatusEntregado, entity.StageClientToCoord, entity.StatusEntregado},
		{entity.StatusEntregado, entity.StageCoordToBodega, entity.StatusFinalizado},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, workflow.DeriveStatus(tc.current, tc.stage), "%s + %s", tc.current, tc.stage)
	}
}

func TestDeriveStatus_FueraDeOrdenAplicaYNoRetrocede(t *testing.T) {
	st := workflow.DeriveStatus(entity.StatusPendiente, entity.StageCoordToClient)
	assert.Equal(t, entity.StatusEntregado, st, "cerrar la entrega antes que bodega igual marca Entregado")

	st = workflow.DeriveStatus(st, entity.StageBodegaCheck)
	assert.Equal(t, entity.StatusEntregado, st, "un bodega_check tardío no regresa a En Proceso")

	assert.Equal(t, entity.StatusEnProceso,
		workflow.DeriveStatus(workflow.DeriveStatus(entity.StatusPendiente, entity.StageBodegaCheck), entity.StageBodegaCheck))
}

func TestDeriveStatus_CanceladoEsDefinitivo(t *testing.T) {
	for _, k := range entity.StageKeys {
		assert.Equal(t, entity.StatusCancelado, workflow.DeriveStatus(entity.StatusCancelado, k))
	}
}
