package realtime_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"noticeboard/backend/internal/models"
	"noticeboard/backend/internal/realtime"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const waitFor = time.Second

func startHub(t *testing.T) (*realtime.Hub, context.CancelFunc) {
	t.Helper()
	hub := realtime.NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func receive(t *testing.T, c *MockClient) models.ChangeEvent {
	t.Helper()
	select {
	case ev := <-c.RecvChannel:
		return ev
	case <-time.After(waitFor):
		t.Fatalf("%s did not receive an event", c.ViewerID())
		return models.ChangeEvent{}
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub, _ := startHub(t)
	client := newMockClient("viewer-a", false, 4)

	hub.RegisterCh <- client
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, waitFor, 10*time.Millisecond)

	hub.UnregisterCh <- client
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, waitFor, 10*time.Millisecond)
	assert.Equal(t, 1, client.Closed())

	// повторний unregister нічого не робить
	hub.UnregisterCh <- client
	hub.EventsCh <- models.ChangeEvent{Table: models.TablePosts, Type: "INSERT"}
	assert.Eventually(t, func() bool { return len(hub.EventsCh) == 0 }, waitFor, 10*time.Millisecond)
	assert.Equal(t, 1, client.Closed())
}

func TestHub_SubmissionEventsReachAdminsOnly(t *testing.T) {
	hub, _ := startHub(t)
	viewer := newMockClient("viewer", false, 4)
	admin := newMockClient("admin", true, 4)
	hub.RegisterCh <- viewer
	hub.RegisterCh <- admin

	hub.EventsCh <- models.ChangeEvent{Table: models.TableSubmissions, Type: "INSERT", ID: "s1"}
	hub.EventsCh <- models.ChangeEvent{Table: models.TablePostLikes, Type: "INSERT", ID: "l1"}

	assert.Equal(t, models.TableSubmissions, receive(t, admin).Table)
	assert.Equal(t, models.TablePostLikes, receive(t, admin).Table)
	assert.Equal(t, models.TablePostLikes, receive(t, viewer).Table)

	select {
	case ev := <-viewer.RecvChannel:
		t.Fatalf("viewer got unexpected event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub, _ := startHub(t)
	slow := newMockClient("slow", false, 0)
	hub.RegisterCh <- slow

	hub.EventsCh <- models.ChangeEvent{Table: models.TablePosts, Type: "INSERT"}

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, waitFor, 10*time.Millisecond)
	assert.Equal(t, 1, slow.Closed())
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub, cancel := startHub(t)
	a := newMockClient("a", false, 1)
	b := newMockClient("b", true, 1)
	hub.RegisterCh <- a
	hub.RegisterCh <- b

	cancel()

	assert.Eventually(t, func() bool { return a.Closed() == 1 && b.Closed() == 1 }, waitFor, 10*time.Millisecond)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_Listen(t *testing.T) {
	hub := realtime.NewHub(zap.NewNop())
	messages := make(chan *redis.Message, 3)
	messages <- &redis.Message{Payload: `{"table":"posts","type":"INSERT","id":"p1"}`}
	messages <- &redis.Message{Payload: `not json`}
	messages <- &redis.Message{Payload: `{"table":"poll_votes","type":"UPDATE","id":"v1"}`}
	close(messages)

	hub.Listen(context.Background(), messages)

	require.Len(t, hub.EventsCh, 2)
	assert.Equal(t, models.ChangeEvent{Table: "posts", Type: "INSERT", ID: "p1"}, <-hub.EventsCh)
	assert.Equal(t, "poll_votes", (<-hub.EventsCh).Table)
}

func TestParseNotification(t *testing.T) {
	ev, err := realtime.ParseNotification(`{"table":"anonymous_submissions","type":"UPDATE","id":"abc"}`)
	require.NoError(t, err)
	assert.True(t, ev.AdminOnly())
	assert.Equal(t, "abc", ev.ID)

	_, err = realtime.ParseNotification(`{"type":"INSERT"}`)
	assert.Error(t, err)

	_, err = realtime.ParseNotification(`{`)
	assert.Error(t, err)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.ChangeEvent
	err    error
}

func (p *recordingPublisher) PublishChange(_ context.Context, ev models.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) snapshot() []models.ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.ChangeEvent(nil), p.events...)
}

func TestPGListener_Forward(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("redis down")}
	l := realtime.NewPGListener("", "board_changes", pub, zap.NewNop())

	notify := make(chan *pq.Notification, 4)
	notify <- &pq.Notification{Channel: "board_changes", Extra: `{"table":"posts","type":"INSERT","id":"p1"}`}
	notify <- &pq.Notification{Channel: "board_changes", Extra: `garbage`}
	notify <- nil
	close(notify)

	err := realtime.ForwardForTest(l, context.Background(), notify)

	require.NoError(t, err)
	events := pub.snapshot()
	require.Len(t, events, 2, "publish errors are logged, not fatal")
	assert.Equal(t, "p1", events[0].ID)
	assert.Equal(t, models.ChangeEvent{Table: models.TableAll, Type: "RESYNC"}, events[1])
}

func TestHub_StoppedHubDoesNotBlockClients(t *testing.T) {
	hub, cancel := startHub(t)
	client := newMockClient("viewer-a", false, 4)
	require.True(t, hub.Register(client))
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, waitFor, 10*time.Millisecond)

	cancel()
	select {
	case <-hub.Done():
	case <-time.After(waitFor):
		t.Fatal("hub did not stop")
	}
	assert.Equal(t, 1, client.Closed())

	returned := make(chan struct{})
	go func() {
		hub.Unregister(client)
		assert.False(t, hub.Register(newMockClient("late", false, 1)))
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(waitFor):
		t.Fatal("unregister blocked after shutdown")
	}
}
