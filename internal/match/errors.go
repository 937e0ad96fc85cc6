package match

import (
	"errors"
	"fmt"
	"strings"

	"fulvo/backend/internal/apperr"
)

var (
	ErrNotFound        = apperr.NotFound("Partido no encontrado")
	ErrPlayerNotFound  = apperr.NotFound("Jugador no encontrado")
	ErrAccountBlocked  = apperr.Forbidden("Tu cuenta está bloqueada por falta de pago")
	ErrMatchFull       = apperr.Invalid("El partido está completo")
	ErrAlreadyJoined   = apperr.Invalid("Ya estás anotado en este partido")
	ErrAlreadyPlayed   = apperr.Invalid("No podés salir de un partido ya jugado")
	ErrNotJoined       = apperr.Invalid("No estás anotado en este partido")
	ErrNotOrganizer    = apperr.Forbidden("No tenés permiso para modificar este partido")
	ErrTooFewPlayers   = apperr.Invalid("Se necesitan al menos 2 jugadores para armar equipos")
	ErrTeamsLocked     = apperr.Invalid("No se pueden reasignar equipos de un partido ya jugado")
	ErrResultRecorded  = apperr.Invalid("El resultado de este partido ya fue cargado")
	ErrInvalidScore    = apperr.Invalid("Debe enviar resultado_local y resultado_visitante")
	ErrSubscription    = apperr.Forbidden("Tu suscripción está inactiva o vencida")
	ErrVenueNotOwned   = apperr.Forbidden("No tenés permiso para crear partidos en esta cancha")
	ErrNotPlayerEntry  = apperr.NotFound("El jugador no está anotado en este partido")
	ErrInvalidSchedule = apperr.Invalid("Fecha u hora inválida")
	ErrCapacity        = apperr.Invalid("El partido debe admitir al menos 2 jugadores")
	ErrMatchPast       = apperr.Invalid("No se pueden crear partidos en el pasado")
	ErrMatchClosed     = apperr.Invalid("El partido ya se jugó")
	ErrMatchStarted    = apperr.Invalid("El partido ya comenzó")
)

// QuotaExceeded is returned when a free player used up the monthly joins.
func QuotaExceeded(limit int) error {
	return apperr.Forbidden(fmt.Sprintf("%s %d partidos gratis. Pasate a premium.", quotaPrefix, limit))
}

const quotaPrefix = "Alcanzaste el límite de"

func isQuotaError(err error) bool {
	var ae *apperr.Error
	return errors.As(err, &ae) && ae.Kind == apperr.KindForbidden && strings.HasPrefix(ae.Message, quotaPrefix)
}
