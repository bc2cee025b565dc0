package hub

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(c *Client) [][]byte {
	var out [][]byte
	for {
		select {
		case msg, ok := <-c.Send():
			if !ok {
				return out
			}
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestPublishReachesOnlySubscribedEvents(t *testing.T) {
	h := NewHub(8)
	e1, e2, e3 := uuid.New(), uuid.New(), uuid.New()
	c := h.Connect(uuid.New())
	h.Subscribe(c, []uuid.UUID{e1, e2})

	for _, id := range []uuid.UUID{e1, e2, e3} {
		_, err := h.Publish(id, map[string]string{"event": id.String()})
		require.NoError(t, err)
	}

	got := drain(c)
	require.Len(t, got, 2)
	assert.Contains(t, string(got[0]), e1.String())
	assert.Contains(t, string(got[1]), e2.String())
}

func TestSubscribeReplacesSet(t *testing.T) {
	h := NewHub(8)
	e1, e2 := uuid.New(), uuid.New()
	c := h.Connect(uuid.New())

	h.Subscribe(c, []uuid.UUID{e1})
	applied := h.Subscribe(c, []uuid.UUID{e2, e2})
	assert.Equal(t, []uuid.UUID{e2}, applied)
	assert.ElementsMatch(t, []uuid.UUID{e2}, h.Subscriptions(c))

	assert.Equal(t, 0, h.PublishRaw(e1, []byte("x")))
	assert.Equal(t, 1, h.PublishRaw(e2, []byte("y")))
}

func TestSubscribeSameListTwiceIsNoop(t *testing.T) {
	h := NewHub(8)
	e1, e2 := uuid.New(), uuid.New()
	c := h.Connect(uuid.New())

	h.Subscribe(c, []uuid.UUID{e1, e2})
	h.Subscribe(c, []uuid.UUID{e1, e2})
	assert.ElementsMatch(t, []uuid.UUID{e1, e2}, h.Subscriptions(c))
	assert.Equal(t, 1, h.PublishRaw(e1, []byte("x")))
	assert.Len(t, drain(c), 1)
}

func TestDisconnectStopsDelivery(t *testing.T) {
	h := NewHub(8)
	e1 := uuid.New()
	c := h.Connect(uuid.New())
	other := h.Connect(uuid.New())
	h.Subscribe(c, []uuid.UUID{e1})
	h.Subscribe(other, []uuid.UUID{e1})

	h.Disconnect(c)
	h.Disconnect(c)

	assert.Equal(t, 1, h.PublishRaw(e1, []byte("x")))
	_, open := <-c.Send()
	assert.False(t, open)
	assert.Len(t, drain(other), 1)
	assert.Equal(t, 1, h.Len())
	assert.Nil(t, h.Subscribe(c, []uuid.UUID{e1}))
	assert.False(t, h.SendTo(c, []byte("x")))
}

func TestSlowClientIsDropped(t *testing.T) {
	h := NewHub(2)
	e1 := uuid.New()
	slow := h.Connect(uuid.New())
	fast := h.Connect(uuid.New())
	h.Subscribe(slow, []uuid.UUID{e1})
	h.Subscribe(fast, []uuid.UUID{e1})

	h.PublishRaw(e1, []byte("1"))
	h.PublishRaw(e1, []byte("2"))
	drain(fast)

	// slow's buffer is full now
	delivered := h.PublishRaw(e1, []byte("3"))
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, h.Len())

	got := drain(slow)
	assert.Len(t, got, 2)
	assert.Equal(t, 0, h.PublishRaw(uuid.New(), []byte("4")))
	assert.Equal(t, [][]byte{[]byte("3")}, drain(fast))
}

func TestConcurrentPublishAndSubscribe(t *testing.T) {
	h := NewHub(64)
	events := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c := h.Connect(uuid.New())
			for j := 0; j < 20; j++ {
				h.Subscribe(c, events[:1+j%len(events)])
			}
			h.Disconnect(c)
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				h.PublishRaw(events[j%len(events)], []byte("x"))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, h.Len())
}

func TestClose(t *testing.T) {
	h := NewHub(0)
	h.Connect(uuid.New())
	h.Connect(uuid.New())
	h.Close()
	assert.Equal(t, 0, h.Len())
}
