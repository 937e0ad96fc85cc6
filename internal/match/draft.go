package match

import (
	"math"
	"sort"

	"fulvo/backend/internal/models"
)

// Pick is a roster entry considered by the draft.
type Pick struct {
	EntryID  uint
	PlayerID uint
	Name     string
	Position *string
	Ranking  int
	// Order breaks ranking ties; lower joins earlier.
	Order int
}

// Draft is the outcome of a snake draft.
type Draft struct {
	Local          []Pick
	Visitor        []Pick
	LocalAverage   float64
	VisitorAverage float64
	Spread         float64
}

// SnakeDraft splits players into two sides. Players are ranked from best to
// worst and picked in rounds of two; even rounds pick local first and odd
// rounds pick visitante first.
func SnakeDraft(players []Pick) Draft {
	ranked := make([]Pick, len(players))
	copy(ranked, players)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Ranking != ranked[j].Ranking {
			return ranked[i].Ranking > ranked[j].Ranking
		}
		return ranked[i].Order < ranked[j].Order
	})

	var d Draft
	for i, p := range ranked {
		if teamFor(i) == models.TeamLocal {
			d.Local = append(d.Local, p)
		} else {
			d.Visitor = append(d.Visitor, p)
		}
	}

	local, visitor := mean(d.Local), mean(d.Visitor)
	d.LocalAverage = round2(local)
	d.VisitorAverage = round2(visitor)
	d.Spread = round2(math.Abs(local - visitor))
	return d
}

func teamFor(index int) models.Team {
	round, pick := index/2, index%2
	if (round%2 == 0) == (pick == 0) {
		return models.TeamLocal
	}
	return models.TeamVisitor
}

func mean(ps []Pick) float64 {
	if len(ps) == 0 {
		return 0
	}
	sum := 0
	for _, p := range ps {
		sum += p.Ranking
	}
	return float64(sum) / float64(len(ps))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
