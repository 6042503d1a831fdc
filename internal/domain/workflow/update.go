package workflow

import (
	"sort"

	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
)

// ItemUpdate cambia la verificación y/o la nota de un producto.
type ItemUpdate struct {
	Verified *bool
	Notes    *string
}

// Update es un lote de cambios sobre una etapa, tal como llega de una pantalla de captura.
type Update struct {
	ItemChecks   map[string]ItemUpdate
	AddPhotos    []string
	AddFiles     []string
	Signature    *entity.Signature
	ReceivedBy   *entity.Signature
	GeneralNotes *string
	Note         string
}

// Apply aplica u y, si complete es true, cierra la etapa. Es atómico: ante cualquier
// error la etapa original no cambia.
func (e *Engine) Apply(stage *entity.StageData, u Update, author *entity.User, complete bool) error {
	if err := guard(stage); err != nil {
		return err
	}
	work := stage.Clone()

	ids := make([]string, 0, len(u.ItemChecks))
	for id := range u.ItemChecks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		iu := u.ItemChecks[id]
		if iu.Verified != nil {
			if err := e.CheckItem(work, id, *iu.Verified); err != nil {
				return err
			}
		}
		if iu.Notes != nil {
			if err := e.SetItemNote(work, id, *iu.Notes); err != nil {
				return err
			}
		}
	}
	for _, ref := range u.AddPhotos {
		if err := e.AddPhoto(work, ref); err != nil {
			return err
		}
	}
	for _, ref := range u.AddFiles {
		if err := e.AddFile(work, ref); err != nil {
			return err
		}
	}
	if u.Signature != nil {
		if err := e.SetSignature(work, FieldSignature, *u.Signature); err != nil {
			return err
		}
	}
	if u.ReceivedBy != nil {
		if err := e.SetSignature(work, FieldReceivedBy, *u.ReceivedBy); err != nil {
			return err
		}
	}
	if u.GeneralNotes != nil {
		if err := e.SetGeneralNotes(work, *u.GeneralNotes); err != nil {
			return err
		}
	}
	if u.Note != "" {
		if err := e.AppendNote(work, u.Note, author); err != nil {
			return err
		}
	}
	if complete {
		if err := e.Complete(work); err != nil {
			return err
		}
	}
	*stage = *work
	return nil
}
