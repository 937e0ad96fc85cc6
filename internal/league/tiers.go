// Package league classifies rankings into tiers and manages seasons.
package league

import "fulvo/backend/internal/models"

// Tier describes one league band. Max is nil for the open-ended top band.
type Tier struct {
	League           models.League
	Icon             string
	Min              int
	Max              *int
	Prize            int
	PrizeDescription string
}

func upTo(n int) *int { return &n }

// tiers is ordered from the highest band down.
var tiers = []Tier{
	{League: models.LeagueDiamond, Icon: "💎", Min: 1200, Prize: 50, PrizeDescription: "Premio especial para el #1 + 50 pts bonus"},
	{League: models.LeaguePlatinum, Icon: "🔷", Min: 1100, Max: upTo(1199), Prize: 50, PrizeDescription: "+50 puntos bonus"},
	{League: models.LeagueGold, Icon: "🥇", Min: 1000, Max: upTo(1099), Prize: 30, PrizeDescription: "+30 puntos bonus"},
	{League: models.LeagueSilver, Icon: "🥈", Min: 900, Max: upTo(999), Prize: 20, PrizeDescription: "+20 puntos bonus"},
	{League: models.LeagueBronze, Icon: "🥉", Min: 0, Max: upTo(899), Prize: 10, PrizeDescription: "+10 puntos bonus"},
}

// Classify maps a ranking to its league. Negative rankings are bronze.
func Classify(ranking int) models.League {
	for _, t := range tiers {
		if ranking >= t.Min {
			return t.League
		}
	}
	return models.LeagueBronze
}

// TierOf returns the band definition of l.
func TierOf(l models.League) (Tier, bool) {
	for _, t := range tiers {
		if t.League == l {
			return t, true
		}
	}
	return Tier{}, false
}

// Tiers lists every band from diamond down to bronze.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}
