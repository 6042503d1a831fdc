package workflow

import "github.com/jhoicas/abs-rental-api/internal/domain/entity"

// StatusOnCompletion es la tabla de transición del pedido al cerrar una etapa.
// Solo tres de las cinco etapas mueven el estado; las demás no aparecen a propósito.
var StatusOnCompletion = map[entity.StageKey]entity.OrderStatus{
	entity.StageBodegaCheck:   entity.StatusEnProceso,
	entity.StageCoordToClient: entity.StatusEntregado,
	entity.StageCoordToBodega: entity.StatusFinalizado,
}

// DeriveStatus devuelve el estado del pedido tras cerrar la etapa completed.
// No importa el orden en que se cierran las etapas, pero el estado nunca retrocede
// y un pedido Cancelado se queda así.
func DeriveStatus(current entity.OrderStatus, completed entity.StageKey) entity.OrderStatus {
	if current == entity.StatusCancelado {
		return current
	}
	next, ok := StatusOnCompletion[completed]
	if !ok || next.Rank() <= current.Rank() {
		return current
	}
	return next
}
