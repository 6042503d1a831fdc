package entity

import "time"

// StageKey identifica una etapa de custodia del pedido.
type StageKey string

const (
	StageBodegaCheck   StageKey = "bodega_check"
	StageBodegaToCoord StageKey = "bodega_to_coord"
	StageCoordToClient StageKey = "coord_to_client"
	StageClientToCoord StageKey = "client_to_coord"
	StageCoordToBodega StageKey = "coord_to_bodega"
)

// StageKeys lista las etapas en su orden natural.
var StageKeys = []StageKey{
	StageBodegaCheck,
	StageBodegaToCoord,
	StageCoordToClient,
	StageClientToCoord,
	StageCoordToBodega,
}

// StageStatus es el estado de una etapa. Solo avanza de pending a completed.
type StageStatus string

const (
	StagePending   StageStatus = "pending"
	StageCompleted StageStatus = "completed"
)

// ItemCheck es la verificación física de un producto en una etapa.
type ItemCheck struct {
	Verified bool   `json:"verified"`
	Notes    string `json:"notes"`
}

// Signature es la firma de quien entrega o recibe.
// DataURL y EvidencePhoto guardan referencias a blobs (blob:sha256:...).
type Signature struct {
	Name          string    `json:"name"`
	DataURL       string    `json:"data_url"`
	Location      string    `json:"location"`
	Timestamp     time.Time `json:"timestamp"`
	EvidencePhoto string    `json:"evidence_photo,omitempty"`
}

// NoteEntry es una observación en la bitácora de la etapa (solo se agrega).
type NoteEntry struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	UserEmail string    `json:"user_email"`
	UserName  string    `json:"user_name"`
}

// StageData es el estado de una etapa de custodia.
type StageData struct {
	Status       StageStatus          `json:"status"`
	Timestamp    *time.Time           `json:"timestamp,omitempty"`
	Signature    *Signature           `json:"signature,omitempty"`
	ReceivedBy   *Signature           `json:"received_by,omitempty"`
	ItemChecks   map[string]ItemCheck `json:"item_checks"`
	Photos       []string             `json:"photos"`
	Files        []string             `json:"files"`
	GeneralNotes string               `json:"general_notes,omitempty"`
	NotesHistory []NoteEntry          `json:"notes_history"`
}

// IsCompleted indica si la etapa ya quedó cerrada.
func (s *StageData) IsCompleted() bool {
	return s.Status == StageCompleted
}

// Clone devuelve una copia profunda de la etapa.
func (s *StageData) Clone() *StageData {
	if s == nil {
		return nil
	}
	out := *s
	if s.Timestamp != nil {
		ts := *s.Timestamp
		out.Timestamp = &ts
	}
	if s.Signature != nil {
		sig := *s.Signature
		out.Signature = &sig
	}
	if s.ReceivedBy != nil {
		rb := *s.ReceivedBy
		out.ReceivedBy = &rb
	}
	out.ItemChecks = make(map[string]ItemCheck, len(s.ItemChecks))
	for k, v := range s.ItemChecks {
		out.ItemChecks[k] = v
	}
	out.Photos = append([]string{}, s.Photos...)
	out.Files = append([]string{}, s.Files...)
	out.NotesHistory = append([]NoteEntry{}, s.NotesHistory...)
	return &out
}

// Workflow agrupa las cinco etapas de un pedido.
type Workflow map[StageKey]*StageData

// Clone devuelve una copia profunda del flujo.
func (w Workflow) Clone() Workflow {
	if w == nil {
		return nil
	}
	out := make(Workflow, len(w))
	for k, v := range w {
		out[k] = v.Clone()
	}
	return out
}
