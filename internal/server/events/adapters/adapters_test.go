package adapters

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/agentstation/overlaysync/internal/server/events"
	"github.com/agentstation/overlaysync/internal/server/sse"
	ws "github.com/agentstation/overlaysync/internal/server/websocket"
)

func TestSubscribersImplementInterface(t *testing.T) {
	logger := zerolog.Nop()
	var _ events.Subscriber = NewWebSocketSubscriber(ws.NewHub(&logger))
	var _ events.Subscriber = NewSSESubscriber(sse.NewBroadcaster(&logger))
}

func TestSendDoesNotBlockWithoutRunningTransport(t *testing.T) {
	logger := zerolog.Nop()
	wsSub := NewWebSocketSubscriber(ws.NewHub(&logger))
	sseSub := NewSSESubscriber(sse.NewBroadcaster(&logger))

	ev := events.Event{Type: events.ConflictObserved, Timestamp: time.Now(), Data: map[string]any{"keys": []string{"hat"}}}
	done := make(chan struct{})
	go func() {
		// more than the transport queues hold
		for i := 0; i < 300; i++ {
			_ = wsSub.Send(ev)
			_ = sseSub.Send(ev)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Send blocked")
	}
	assert.NoError(t, wsSub.Close())
	assert.NoError(t, sseSub.Close())
}
