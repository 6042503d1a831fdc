package dto

// EnhanceNoteRequest nota de campo a reescribir.
type EnhanceNoteRequest struct {
	Text string `json:"text" validate:"required"`
}

// EnhanceNoteResponse sugerencia de redacción. Si Enhanced es false, Suggested es el texto original.
type EnhanceNoteResponse struct {
	Original  string `json:"original"`
	Suggested string `json:"suggested"`
	Enhanced  bool   `json:"enhanced"`
}

// GeocodeResponse nombre del lugar para unas coordenadas.
type GeocodeResponse struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Place    string  `json:"place"`
	Resolved bool    `json:"resolved"`
}

// UploadResponse referencia del archivo almacenado.
type UploadResponse struct {
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// SyncStatusResponse estado de la réplica hacia el backend de sincronización.
type SyncStatusResponse struct {
	Pending   int    `json:"pending"`
	Failed    int    `json:"failed"`
	Sent      int    `json:"sent"`
	LastError string `json:"last_error,omitempty"`
	Running   bool   `json:"running"`
}
