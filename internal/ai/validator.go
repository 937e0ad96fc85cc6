package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"fulvo/backend/internal/apperr"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// Kind is what is being reviewed.
type Kind string

const (
	KindMatch Kind = "match"
	KindVenue Kind = "venue"
)

// MaxDaysAhead is how far ahead a match may be scheduled without a warning.
const MaxDaysAhead = 30

var (
	ErrMissingInput = apperr.Invalid("Faltan type y data")
	ErrInvalidKind  = apperr.Invalid(`Type debe ser "match" o "venue"`)
)

// Verdict is the review outcome shown to the owner.
type Verdict struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

var fallbackVerdict = Verdict{Valid: true, Message: "No se pudo validar con IA"}

const matchPrompt = `Sos un asistente que valida datos de partidos de fútbol 7 en Argentina.
Analizá estos datos y respondé en JSON:
- Si todo está bien: {"valid": true, "message": "Todo correcto"}
- Si hay algo raro: {"valid": false, "message": "pregunta o advertencia específica"}

Datos del partido:
- Hora inicio: %s
- Hora fin: %s
- Precio por jugador: %s
- Máximo jugadores: %s

Validá:
- Precio: Si está entre $1000 y $30000, es VÁLIDO
- Horario: entre 8:00 y 00:00
- Duración: entre 1 y 3 horas es normal

IMPORTANTE: Si todos los valores están dentro de los rangos, respondé valid=true.
Respondé SOLO el JSON, nada más.`

const venuePrompt = `Sos un asistente que valida datos de canchas de fútbol en Argentina.
Analizá estos datos y respondé en JSON:
- Si todo está bien: {"valid": true, "message": "Todo correcto"}
- Si hay algo raro: {"valid": false, "message": "pregunta o advertencia específica"}

Datos de la cancha:
- Nombre: %s
- Dirección: %s
- Zona: %s
- Precio por hora: %s

Validá: que tenga nombre, dirección completa, zona de Argentina, precio razonable.
Respondé SOLO el JSON, nada más.`

// Validator reviews match and venue listings before they are published.
type Validator struct {
	llm   LLM
	clock clockwork.Clock
	loc   *time.Location
	log   zerolog.Logger
}

func NewValidator(llm LLM, clock clockwork.Clock, loc *time.Location, log zerolog.Logger) *Validator {
	return &Validator{llm: llm, clock: clock, loc: loc, log: log}
}

// Validate checks the match date locally, then asks the model. Model
// failures never block the owner.
func (v *Validator) Validate(ctx context.Context, kind Kind, data map[string]any) (Verdict, error) {
	if kind == "" || data == nil {
		return Verdict{}, ErrMissingInput
	}

	var prompt string
	switch kind {
	case KindMatch:
		if verdict, ok := v.checkDate(field(data, "fecha")); !ok {
			return verdict, nil
		}
		prompt = fmt.Sprintf(matchPrompt,
			field(data, "hora_inicio"), field(data, "hora_fin"),
			field(data, "precio_por_jugador"), field(data, "max_jugadores"))
	case KindVenue:
		prompt = fmt.Sprintf(venuePrompt,
			field(data, "nombre"), field(data, "direccion"),
			field(data, "zona"), field(data, "precio_hora"))
	default:
		return Verdict{}, ErrInvalidKind
	}

	content, err := v.llm.Complete(ctx, []Message{{Role: openai.ChatMessageRoleUser, Content: prompt}}, Options{Temperature: 0.3})
	if err != nil {
		v.log.Warn().Err(err).Str("kind", string(kind)).Msg("ai validation unavailable")
		return fallbackVerdict, nil
	}

	verdict, err := parseVerdict(content)
	if err != nil {
		v.log.Warn().Err(err).Str("content", content).Msg("ai validation unparseable")
		return fallbackVerdict, nil
	}
	return verdict, nil
}

func (v *Validator) checkDate(raw string) (Verdict, bool) {
	if len(raw) < 10 {
		return Verdict{}, true
	}
	date, err := time.ParseInLocation("2006-01-02", raw[:10], v.loc)
	if err != nil {
		return Verdict{}, true
	}
	now := v.clock.Now().In(v.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, v.loc)

	days := int(math.Round(date.Sub(today).Hours() / 24))
	if days < 0 {
		return Verdict{Valid: false, Message: "La fecha del partido ya pasó"}, false
	}
	if days > MaxDaysAhead {
		return Verdict{
			Valid:   false,
			Message: fmt.Sprintf("La fecha está a %d días. ¿Estás seguro? Máximo recomendado: %d días", days, MaxDaysAhead),
		}, false
	}
	return Verdict{}, true
}

// parseVerdict accepts bare JSON or JSON inside a markdown fence.
func parseVerdict(content string) (Verdict, error) {
	s := strings.TrimSpace(content)
	if start, end := strings.Index(s, "{"), strings.LastIndex(s, "}"); start >= 0 && end > start {
		s = s[start : end+1]
	}
	var verdict Verdict
	if err := json.Unmarshal([]byte(s), &verdict); err != nil {
		return Verdict{}, fmt.Errorf("decode verdict: %w", err)
	}
	if verdict.Message == "" {
		return Verdict{}, fmt.Errorf("decode verdict: empty message")
	}
	return verdict, nil
}

func field(data map[string]any, key string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return "-"
	}
	return fmt.Sprint(v)
}
