package dto

import "time"

// SignatureDTO firma de entrega o recepción. DataURL admite data: (se externaliza) o blob:.
type SignatureDTO struct {
	Name          string     `json:"name"`
	DataURL       string     `json:"data_url"`
	Location      string     `json:"location"`
	Timestamp     *time.Time `json:"timestamp,omitempty"`
	EvidencePhoto string     `json:"evidence_photo,omitempty"`
}

// ItemCheckDTO verificación de un producto.
type ItemCheckDTO struct {
	Verified bool   `json:"verified"`
	Notes    string `json:"notes"`
}

// NoteDTO entrada de la bitácora.
type NoteDTO struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	UserEmail string    `json:"user_email"`
	UserName  string    `json:"user_name"`
}

// StageResponse estado de una etapa.
type StageResponse struct {
	Status       string                  `json:"status"`
	Timestamp    *time.Time              `json:"timestamp,omitempty"`
	Signature    *SignatureDTO           `json:"signature,omitempty"`
	ReceivedBy   *SignatureDTO           `json:"received_by,omitempty"`
	ItemChecks   map[string]ItemCheckDTO `json:"item_checks"`
	Photos       []string                `json:"photos"`
	Files        []string                `json:"files"`
	GeneralNotes string                  `json:"general_notes,omitempty"`
	NotesHistory []NoteDTO               `json:"notes_history"`
}

// ItemCheckUpdateDTO cambio parcial de la verificación de un producto.
type ItemCheckUpdateDTO struct {
	Verified *bool   `json:"verified,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// UpdateStageRequest lote de cambios sobre una etapa; Complete=true la cierra.
type UpdateStageRequest struct {
	ItemChecks   map[string]ItemCheckUpdateDTO `json:"item_checks,omitempty"`
	AddPhotos    []string                      `json:"add_photos,omitempty"`
	AddFiles     []string                      `json:"add_files,omitempty"`
	Signature    *SignatureDTO                 `json:"signature,omitempty"`
	ReceivedBy   *SignatureDTO                 `json:"received_by,omitempty"`
	GeneralNotes *string                       `json:"general_notes,omitempty"`
	Note         string                        `json:"note,omitempty"`
	Complete     bool                          `json:"complete"`
}
