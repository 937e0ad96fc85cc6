package match

import (
	"testing"

	"fulvo/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func rankings(ps []Pick) []int {
	out := make([]int, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Ranking)
	}
	return out
}

func TestSnakeDraftSixPlayers(t *testing.T) {
	// Shuffled input: the draft sorts by ranking itself.
	in := []Pick{
		{PlayerID: 3, Ranking: 80, Order: 0},
		{PlayerID: 6, Ranking: 50, Order: 1},
		{PlayerID: 1, Ranking: 100, Order: 2},
		{PlayerID: 4, Ranking: 70, Order: 3},
		{PlayerID: 2, Ranking: 90, Order: 4},
		{PlayerID: 5, Ranking: 60, Order: 5},
	}

	d := SnakeDraft(in)

	assert.Equal(t, []int{100, 70, 60}, rankings(d.Local))
	assert.Equal(t, []int{90, 80, 50}, rankings(d.Visitor))
	assert.Equal(t, 76.67, d.LocalAverage)
	assert.Equal(t, 73.33, d.VisitorAverage)
	assert.Equal(t, 3.33, d.Spread)
}

func TestSnakeDraftPickOrder(t *testing.T) {
	want := []models.Team{
		models.TeamLocal, models.TeamVisitor,
		models.TeamVisitor, models.TeamLocal,
		models.TeamLocal, models.TeamVisitor,
		models.TeamVisitor, models.TeamLocal,
	}
	for i, team := range want {
		assert.Equal(t, team, teamFor(i), "pick %d", i)
	}
}

func TestSnakeDraftTopTwoSplit(t *testing.T) {
	for n := 2; n <= 14; n++ {
		in := make([]Pick, n)
		for i := range in {
			in[i] = Pick{PlayerID: uint(i + 1), Ranking: 1000 - i*10, Order: i}
		}
		d := SnakeDraft(in)
		assert.Equal(t, 1000, d.Local[0].Ranking)
		assert.Equal(t, 990, d.Visitor[0].Ranking)
		diff := len(d.Local) - len(d.Visitor)
		assert.True(t, diff >= -1 && diff <= 1, "n=%d local=%d visitante=%d", n, len(d.Local), len(d.Visitor))
	}
}

func TestSnakeDraftTiesKeepJoinOrder(t *testing.T) {
	in := []Pick{
		{PlayerID: 1, Ranking: 50, Order: 2},
		{PlayerID: 2, Ranking: 50, Order: 0},
		{PlayerID: 3, Ranking: 50, Order: 1},
	}
	d := SnakeDraft(in)
	assert.Equal(t, uint(2), d.Local[0].PlayerID)
	assert.Equal(t, uint(3), d.Visitor[0].PlayerID)
	assert.Equal(t, uint(1), d.Visitor[1].PlayerID)
}
