package ports

import "context"

// LLMService define el puerto de salida para los servicios de inteligencia artificial.
// Cualquier adaptador (Anthropic, Gemini, mock) debe implementar esta interfaz.
// La aplicación solo conoce este contrato, no la implementación concreta.
type LLMService interface {
	// RewriteNote devuelve una versión profesional y clara de una nota de campo.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	RewriteNote(ctx context.Context, text string) (string, error)
}
