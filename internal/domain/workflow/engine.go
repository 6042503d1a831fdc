package workflow

import (
	"strings"

	"github.com/jhoicas/abs-rental-api/internal/domain"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
)

// SignatureField selecciona cuál de las dos firmas de la etapa se escribe.
type SignatureField string

const (
	FieldSignature  SignatureField = "signature"
	FieldReceivedBy SignatureField = "receivedBy"
)

// Engine aplica las mutaciones permitidas sobre una etapa. Toda mutación falla con
// domain.ErrStageCompleted una vez la etapa está cerrada.
type Engine struct {
	clock domain.Clock
}

// NewEngine construye el motor; un clock nil usa la hora del sistema.
func NewEngine(clock domain.Clock) *Engine {
	if clock == nil {
		clock = domain.SystemClock
	}
	return &Engine{clock: clock}
}

func guard(stage *entity.StageData) error {
	if stage == nil {
		return domain.NewValidationError("stage", "etapa inexistente")
	}
	if stage.IsCompleted() {
		return domain.ErrStageCompleted
	}
	return nil
}

// CheckItem marca o desmarca la verificación física de un producto.
func (e *Engine) CheckItem(stage *entity.StageData, productID string, verified bool) error {
	if err := guard(stage); err != nil {
		return err
	}
	if productID == "" {
		return domain.NewValidationError("product_id", "requerido")
	}
	check := stage.ItemChecks[productID]
	check.Verified = verified
	setCheck(stage, productID, check)
	return nil
}

// SetItemNote escribe la observación de un producto; crea la entrada si no existe.
func (e *Engine) SetItemNote(stage *entity.StageData, productID, text string) error {
	if err := guard(stage); err != nil {
		return err
	}
	if productID == "" {
		return domain.NewValidationError("product_id", "requerido")
	}
	check := stage.ItemChecks[productID]
	check.Notes = text
	setCheck(stage, productID, check)
	return nil
}

func setCheck(stage *entity.StageData, productID string, check entity.ItemCheck) {
	if stage.ItemChecks == nil {
		stage.ItemChecks = map[string]entity.ItemCheck{}
	}
	stage.ItemChecks[productID] = check
}

// AddPhoto agrega una referencia de foto de evidencia. No deduplica.
func (e *Engine) AddPhoto(stage *entity.StageData, ref string) error {
	if err := guard(stage); err != nil {
		return err
	}
	if strings.TrimSpace(ref) == "" {
		return domain.NewValidationError("photo", "referencia vacía")
	}
	stage.Photos = append(stage.Photos, ref)
	return nil
}

// AddFile agrega una referencia de archivo adjunto.
func (e *Engine) AddFile(stage *entity.StageData, ref string) error {
	if err := guard(stage); err != nil {
		return err
	}
	if strings.TrimSpace(ref) == "" {
		return domain.NewValidationError("file", "referencia vacía")
	}
	stage.Files = append(stage.Files, ref)
	return nil
}

// SetSignature sobrescribe la firma indicada. Sin timestamp se usa la hora actual.
func (e *Engine) SetSignature(stage *entity.StageData, field SignatureField, sig entity.Signature) error {
	if err := guard(stage); err != nil {
		return err
	}
	if field != FieldSignature && field != FieldReceivedBy {
		return domain.NewValidationError("field", "campo de firma desconocido: "+string(field))
	}
	if err := checkSignature(string(field), &sig); err != nil {
		return err
	}
	if sig.Timestamp.IsZero() {
		sig.Timestamp = e.clock.Now()
	}
	switch field {
	case FieldSignature:
		stage.Signature = &sig
	case FieldReceivedBy:
		stage.ReceivedBy = &sig
	}
	return nil
}

// checkSignature exige nombre del firmante y trazo; una firma vacía no autoriza nada.
func checkSignature(field string, sig *entity.Signature) error {
	if sig == nil {
		return &domain.ValidationError{Field: field, Reason: "la etapa requiere firma para completarse", Cause: domain.ErrSignatureRequired}
	}
	if strings.TrimSpace(sig.Name) == "" || strings.TrimSpace(sig.DataURL) == "" {
		return &domain.ValidationError{Field: field, Reason: "la firma requiere nombre y trazo", Cause: domain.ErrSignatureRequired}
	}
	return nil
}

// SetGeneralNotes reemplaza las notas generales de la etapa.
func (e *Engine) SetGeneralNotes(stage *entity.StageData, text string) error {
	if err := guard(stage); err != nil {
		return err
	}
	stage.GeneralNotes = text
	return nil
}

// AppendNote agrega una entrada a la bitácora con autor y hora.
func (e *Engine) AppendNote(stage *entity.StageData, text string, author *entity.User) error {
	if err := guard(stage); err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.NewValidationError("note", "la nota no puede estar vacía")
	}
	entry := entity.NoteEntry{Text: text, Timestamp: e.clock.Now()}
	if author != nil {
		entry.UserEmail = author.Email
		entry.UserName = author.Name
	}
	stage.NotesHistory = append(stage.NotesHistory, entry)
	return nil
}

// Complete cierra la etapa. Exige firma de quien entrega; sin ella no modifica nada.
func (e *Engine) Complete(stage *entity.StageData) error {
	if err := guard(stage); err != nil {
		return err
	}
	if err := checkSignature(string(FieldSignature), stage.Signature); err != nil {
		return err
	}
	now := e.clock.Now()
	stage.Status = entity.StageCompleted
	stage.Timestamp = &now
	return nil
}

// SaveDraft reemplaza el contenido editable de la etapa con draft. Estado, timestamp
// y bitácora se conservan: la bitácora solo crece vía AppendNote.
func (e *Engine) SaveDraft(stage *entity.StageData, draft entity.StageData) error {
	if err := guard(stage); err != nil {
		return err
	}
	next := draft.Clone()
	stage.ItemChecks = next.ItemChecks
	stage.Photos = next.Photos
	stage.Files = next.Files
	stage.Signature = next.Signature
	stage.ReceivedBy = next.ReceivedBy
	stage.GeneralNotes = next.GeneralNotes
	return nil
}

// CompleteWith guarda draft y cierra la etapa en un solo paso; si falla, la etapa queda intacta.
func (e *Engine) CompleteWith(stage *entity.StageData, draft entity.StageData) error {
	if err := guard(stage); err != nil {
		return err
	}
	work := stage.Clone()
	if err := e.SaveDraft(work, draft); err != nil {
		return err
	}
	if err := e.Complete(work); err != nil {
		return err
	}
	*stage = *work
	return nil
}
