package league

import (
	"testing"

	"fulvo/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		ranking int
		want    models.League
	}{
		{0, models.LeagueBronze},
		{50, models.LeagueBronze},
		{899, models.LeagueBronze},
		{900, models.LeagueSilver},
		{999, models.LeagueSilver},
		{1000, models.LeagueGold},
		{1099, models.LeagueGold},
		{1100, models.LeaguePlatinum},
		{1199, models.LeaguePlatinum},
		{1200, models.LeagueDiamond},
		{5000, models.LeagueDiamond},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.ranking), "ranking %d", tt.ranking)
	}
}

func TestBandsPartitionWithoutGaps(t *testing.T) {
	all := Tiers()
	for i := 0; i < len(all)-1; i++ {
		upper, lower := all[i], all[i+1]
		if assert.NotNil(t, lower.Max) {
			assert.Equal(t, upper.Min-1, *lower.Max, "gap between %s and %s", lower.League, upper.League)
		}
	}
	assert.Nil(t, all[0].Max)
	assert.Equal(t, 0, all[len(all)-1].Min)

	for r := 0; r <= 1300; r++ {
		tier, ok := TierOf(Classify(r))
		assert.True(t, ok)
		assert.GreaterOrEqual(t, r, tier.Min)
		if tier.Max != nil {
			assert.LessOrEqual(t, r, *tier.Max)
		}
	}
}

func TestTierOfUnknown(t *testing.T) {
	_, ok := TierOf("madera")
	assert.False(t, ok)
	gold, ok := TierOf(models.LeagueGold)
	assert.True(t, ok)
	assert.Equal(t, 30, gold.Prize)
}
