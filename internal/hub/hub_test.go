package hub

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastReachesOnlyMatchWatchers(t *testing.T) {
	h := NewHub(zerolog.Nop())
	a := h.Subscribe(1)
	b := h.Subscribe(2)

	h.Broadcast(1, Event{Type: EventPlayerJoined, Payload: map[string]uint{"jugador_id": 7}})

	select {
	case msg := <-a:
		var ev Event
		require.NoError(t, json.Unmarshal(msg, &ev))
		assert.Equal(t, EventPlayerJoined, ev.Type)
	default:
		t.Fatal("watcher of match 1 got nothing")
	}
	assert.Len(t, b, 0)
}

func TestUnsubscribeClosesAndCleansUp(t *testing.T) {
	h := NewHub(zerolog.Nop())
	c := h.Subscribe(5)
	assert.Equal(t, 1, h.Watchers(5))

	h.Unsubscribe(5, c)
	_, open := <-c
	assert.False(t, open)
	assert.Equal(t, 0, h.Watchers(5))

	// Second unsubscribe must not panic on a closed channel.
	h.Unsubscribe(5, c)
}

func TestBroadcastDropsWhenFull(t *testing.T) {
	h := NewHub(zerolog.Nop())
	c := h.Subscribe(9)
	for i := 0; i < cap(c)+5; i++ {
		h.Broadcast(9, Event{Type: EventPayment})
	}
	assert.Len(t, c, cap(c))
}
