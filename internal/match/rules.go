// Package match implements the match lifecycle: joining and leaving with
// capacity and quota checks, snake-draft team assignment and result scoring.
package match

import "time"

// Rules holds the tunable constants of the match lifecycle.
type Rules struct {
	FreeMonthlyJoins  int
	LeaveWindow       time.Duration
	LeavePenalty      int
	WinPoints         int
	LossPoints        int
	DrawPoints        int
	DefaultMaxPlayers int
	MinPlayers        int
}

// DefaultRules are the production values.
func DefaultRules() Rules {
	return Rules{
		FreeMonthlyJoins:  2,
		LeaveWindow:       3 * time.Hour,
		LeavePenalty:      15,
		WinPoints:         10,
		LossPoints:        -5,
		DrawPoints:        3,
		DefaultMaxPlayers: 14,
		MinPlayers:        2,
	}
}

// quotaMonth encodes t's calendar month as YYYYMM.
func quotaMonth(t time.Time) int {
	return t.Year()*100 + int(t.Month())
}
