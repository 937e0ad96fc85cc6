package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fulvo/backend/internal/apperr"
	"fulvo/backend/internal/repository"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

var (
	ErrEmptyMessage     = apperr.Invalid("El mensaje no puede estar vacío")
	ErrAssistantOffline = apperr.Unavailable("Error al conectar con el asistente")
)

const noAnswer = "No pude procesar tu mensaje. Intentá de nuevo."

const ownerSystemPrompt = `Sos un asistente virtual de Fulvo, una app para organizar partidos de fútbol en Argentina.
Tu rol es ayudar a los dueños de canchas con:

1. CREAR PARTIDOS: Explicar cómo crear partidos, configurar precios, horarios y máximo de jugadores.

2. ENTENDER ESTADÍSTICAS: Explicar qué significa cada métrica (recaudación, jugadores únicos, partidos organizados).

3. PAGOS Y SUSCRIPCIONES: Resolver dudas sobre la suscripción de $10.000/mes, cómo confirmar pagos de jugadores, qué pasa si un jugador no paga.

4. TIPS PARA ATRAER JUGADORES:
   - Precios competitivos (entre $3.000 y $8.000 por jugador es lo común)
   - Horarios populares (después de las 18hs entre semana, mañanas los fines de semana)
   - Crear partidos con anticipación (3-7 días antes)
   - Mantener buena reputación confirmando pagos a tiempo

5. USO DE LA APP: Explicar funciones como asignar equipos, cargar resultados, ver historial.

REGLAS:
- Respondé siempre en español argentino, de forma amigable y concisa.
- Si no sabés algo, decilo honestamente.
- Máximo 2-3 párrafos por respuesta.
- Usá emojis ocasionalmente para ser más amigable.`

// OwnerContext is what the assistant knows about the owner asking.
type OwnerContext struct {
	Name          string
	Venues        []string
	Matches       int
	UniquePlayers int
}

func (o OwnerContext) String() string {
	venues := strings.Join(o.Venues, ", ")
	if venues == "" {
		venues = "Ninguna"
	}
	return fmt.Sprintf(`
CONTEXTO DEL USUARIO:
- Nombre: %s
- Canchas registradas: %s
- Partidos organizados: %d
- Jugadores únicos: %d
`, o.Name, venues, o.Matches, o.UniquePlayers)
}

// Assistant answers venue owners' questions about the app.
type Assistant struct {
	llm   LLM
	store *repository.Store
	log   zerolog.Logger
}

func NewAssistant(llm LLM, store *repository.Store, log zerolog.Logger) *Assistant {
	return &Assistant{llm: llm, store: store, log: log}
}

// OwnerContext gathers the owner's name, venues and activity.
func (a *Assistant) OwnerContext(ctx context.Context, ownerID uint) (OwnerContext, error) {
	oc := OwnerContext{Name: "Dueño"}

	user, err := a.store.Users.ByID(ctx, ownerID)
	switch {
	case err == nil:
		oc.Name = user.Name
	case !errors.Is(err, repository.ErrNotFound):
		return oc, err
	}

	venues, err := a.store.Venues.ByOwner(ctx, ownerID)
	if err != nil {
		return oc, err
	}
	for _, v := range venues {
		oc.Venues = append(oc.Venues, v.Name)
	}

	if oc.Matches, err = a.store.Matches.CountByOrganizer(ctx, ownerID); err != nil {
		return oc, err
	}
	if oc.UniquePlayers, err = a.store.Stats.UniquePlayers(ctx, ownerID); err != nil {
		return oc, err
	}
	return oc, nil
}

// Ask sends message to the model with the owner's context.
func (a *Assistant) Ask(ctx context.Context, ownerID uint, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	oc, err := a.OwnerContext(ctx, ownerID)
	if err != nil {
		return "", err
	}

	answer, err := a.llm.Complete(ctx, []Message{
		{Role: openai.ChatMessageRoleSystem, Content: ownerSystemPrompt + oc.String()},
		{Role: openai.ChatMessageRoleUser, Content: message},
	}, Options{Temperature: 0.7, MaxTokens: 500})
	if err != nil {
		a.log.Error().Err(err).Uint("owner_id", ownerID).Msg("owner assistant failed")
		return "", ErrAssistantOffline
	}
	if strings.TrimSpace(answer) == "" {
		return noAnswer, nil
	}
	return answer, nil
}
