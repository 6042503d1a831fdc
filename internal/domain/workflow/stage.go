package workflow

import (
	"fmt"

	"github.com/jhoicas/abs-rental-api/internal/domain"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
)

// NewStage devuelve una etapa pendiente con colecciones vacías.
func NewStage() *entity.StageData {
	return &entity.StageData{
		Status:       entity.StagePending,
		ItemChecks:   map[string]entity.ItemCheck{},
		Photos:       []string{},
		Files:        []string{},
		NotesHistory: []entity.NoteEntry{},
	}
}

// NewWorkflow inicializa las cinco etapas en pendiente.
func NewWorkflow() entity.Workflow {
	wf := make(entity.Workflow, len(entity.StageKeys))
	for _, k := range entity.StageKeys {
		wf[k] = NewStage()
	}
	return wf
}

// ParseStageKey valida una clave de etapa recibida desde fuera.
func ParseStageKey(v string) (entity.StageKey, error) {
	for _, k := range entity.StageKeys {
		if string(k) == v {
			return k, nil
		}
	}
	return "", domain.NewValidationError("stage", fmt.Sprintf("etapa desconocida %q", v))
}

// MustStage devuelve la etapa key del flujo. Un flujo sin alguna de sus cinco etapas
// es un error de programación y produce panic.
func MustStage(wf entity.Workflow, key entity.StageKey) *entity.StageData {
	stage, ok := wf[key]
	if !ok || stage == nil {
		panic(fmt.Sprintf("workflow: etapa %q ausente", key))
	}
	return stage
}
