package ai

import (
	"errors"
	"regexp"
	"strings"
)

var errEmptySuggestion = errors.New("AI: el modelo devolvió una respuesta vacía")

// notePrompt define el tono de las sugerencias para notas de campo.
const notePrompt = `Eres un asistente de logística para una empresa de alquiler de mobiliario y equipos para eventos en Colombia.
Reescribe la nota de campo que te envíe el usuario para que sea clara, profesional y concisa, en español.
Reglas:
- Conserva todos los hechos: cantidades, nombres de productos, daños, faltantes y responsables.
- No inventes información ni agregues recomendaciones.
- Máximo 3 oraciones.
- Devuelve ÚNICAMENTE el texto reescrito, sin comillas, sin encabezados y sin markdown.`

const maxNoteRunes = 2000

var fenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\\n?(.*?)\\n?```$")

// cleanSuggestion quita envolturas de markdown o comillas que algunos modelos añaden.
func cleanSuggestion(text string) string {
	text = strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	for _, q := range []string{`"`, "“", "'"} {
		if len(text) >= 2 && strings.HasPrefix(text, q) && strings.HasSuffix(text, closing(q)) {
			text = strings.TrimSpace(text[len(q) : len(text)-len(closing(q))])
		}
	}
	return text
}

func closing(open string) string {
	if open == "“" {
		return "”"
	}
	return open
}

// truncate recorta la nota de entrada para acotar el costo de la llamada.
func truncate(text string) string {
	r := []rune(text)
	if len(r) <= maxNoteRunes {
		return text
	}
	return string(r[:maxNoteRunes])
}
