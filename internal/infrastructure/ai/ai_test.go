package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/abs-rental-api/pkg/config"
)

func TestCleanSuggestion(t *testing.T) {
	assert.Equal(t, "Texto limpio.", cleanSuggestion("```\nTexto limpio.\n```"))
	assert.Equal(t, "Texto limpio.", cleanSuggestion("```text\nTexto limpio.```"))
	assert.Equal(t, "Entre comillas", cleanSuggestion(`  "Entre comillas" `))
	assert.Equal(t, "Tipográficas", cleanSuggestion("“Tipográficas”"))
	assert.Equal(t, "sin cambios", cleanSuggestion("sin cambios"))
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("ñ", maxNoteRunes+10)
	assert.Len(t, []rune(truncate(long)), maxNoteRunes)
	assert.Equal(t, "corta", truncate("corta"))
}

// ── Anthropic ─────────────────────────────────────────────────────────────────

func TestAnthropic_RewriteNote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "clave", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "faltan dos sillas", req.Messages[0].Content)
		assert.Equal(t, notePrompt, req.System)
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"\"Faltan dos sillas en la entrega.\""}]}`))
	}))
	defer srv.Close()

	svc := NewAnthropicService("clave", "claude-test").WithEndpoint(srv.URL)
	out, err := svc.RewriteNote(context.Background(), "faltan dos sillas")
	require.NoError(t, err)
	assert.Equal(t, "Faltan dos sillas en la entrega.", out)
}

func TestAnthropic_ErrorDeAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"despacio"}}`))
	}))
	defer srv.Close()

	_, err := NewAnthropicService("clave", "m").WithEndpoint(srv.URL).RewriteNote(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit_error")

	_, err = NewAnthropicService("", "m").RewriteNote(context.Background(), "x")
	assert.ErrorContains(t, err, "ANTHROPIC_API_KEY")
}

// ── Gemini ────────────────────────────────────────────────────────────────────

func TestGemini_RewriteNote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "clave", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.Query().Get("key"), "la clave no viaja en la URL")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Mesa con rayón en la esquina."}]}}]}`))
	}))
	defer srv.Close()

	out, err := NewGeminiService("clave", "gemini-test").WithBaseURL(srv.URL).RewriteNote(context.Background(), "mesa rayada")
	require.NoError(t, err)
	assert.Equal(t, "Mesa con rayón en la esquina.", out)
}

func TestGemini_RespuestaVacia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err := NewGeminiService("clave", "g").WithBaseURL(srv.URL).RewriteNote(context.Background(), "x")
	assert.ErrorContains(t, err, "vacía")
}

func TestNewFromConfig(t *testing.T) {
	assert.Nil(t, NewFromConfig(config.AIConfig{Provider: "none"}))
	assert.Nil(t, NewFromConfig(config.AIConfig{Provider: "anthropic"}), "sin clave no hay proveedor")
	assert.IsType(t, &AnthropicService{}, NewFromConfig(config.AIConfig{Provider: "Anthropic", AnthropicAPIKey: "k"}))
	assert.IsType(t, &GeminiService{}, NewFromConfig(config.AIConfig{Provider: "gemini", GeminiAPIKey: "k"}))
}
