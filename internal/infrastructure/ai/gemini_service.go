package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jhoicas/abs-rental-api/internal/application/ports"
)

var _ ports.LLMService = (*GeminiService)(nil)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiService reescribe notas de campo con generateContent de Gemini.
type GeminiService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiService construye el adaptador. model suele ser "gemini-1.5-flash".
func NewGeminiService(apiKey, model string) *GeminiService {
	return &GeminiService{
		apiKey:     apiKey,
		model:      model,
		baseURL:    geminiBaseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// WithBaseURL cambia la raíz de la API (proxies y tests).
func (s *GeminiService) WithBaseURL(url string) *GeminiService {
	s.baseURL = url
	return s
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// RewriteNote llama a Gemini con la nota de campo y devuelve la versión reescrita.
func (s *GeminiService) RewriteNote(ctx context.Context, text string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: GEMINI_API_KEY no configurado")
	}

	url := fmt.Sprintf("%s/%s:generateContent", s.baseURL, s.model)
	status, raw, err := postJSON(ctx, s.httpClient, url, map[string]string{"x-goog-api-key": s.apiKey}, geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: notePrompt}}},
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: truncate(text)}}}},
		GenerationConfig:  genConfig{Temperature: 0.3, MaxOutputTokens: 512},
	})
	if err != nil {
		return "", err
	}

	var out geminiResponse
	if status != http.StatusOK {
		if json.Unmarshal(raw, &out) == nil && out.Error != nil {
			return "", fmt.Errorf("AI: Gemini error %d: %s", out.Error.Code, out.Error.Message)
		}
		return "", fmt.Errorf("AI: Gemini HTTP %d", status)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta Gemini: %w", err)
	}
	for _, c := range out.Candidates {
		for _, part := range c.Content.Parts {
			if suggestion := cleanSuggestion(part.Text); suggestion != "" {
				return suggestion, nil
			}
		}
	}
	return "", errEmptySuggestion
}
