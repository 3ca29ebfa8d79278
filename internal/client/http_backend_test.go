package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"noticeboard/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAPI struct {
	*httptest.Server
	events chan models.ChangeEvent

	mu   sync.Mutex
	auth []string
}

func (f *fakeAPI) lastAuth() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.auth[len(f.auth)-1]
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{events: make(chan models.ChangeEvent, 4)}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		f.mu.Lock()
		f.auth = append(f.auth, c.GetHeader("Authorization"))
		f.mu.Unlock()
		c.Next()
	})

	r.GET("/auth/anon", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"token":  "tok-1",
			"viewer": models.Profile{ID: "v1", FullName: c.Query("name")},
		})
	})
	r.GET("/posts", func(c *gin.Context) {
		c.JSON(http.StatusOK, []models.Post{{ID: "p1", Type: models.PostQuery, Content: "hi"}})
	})
	r.PUT("/posts/:id/vote", func(c *gin.Context) {
		if c.Param("id") == "voted" {
			c.JSON(http.StatusConflict, gin.H{"error": models.ErrAlreadyVoted.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.POST("/posts", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post cannot be empty", "field": "content"})
	})
	r.POST("/submissions", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"id": "s1", "status": "new"})
	})
	r.GET("/admin/submissions", func(c *gin.Context) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	})
	r.POST("/auth/signout", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/ws", func(c *gin.Context) {
		if c.Query("token") != "tok-1" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		up := websocket.Upgrader{}
		conn, err := up.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for ev := range f.events {
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	})

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Close)
	t.Cleanup(func() { close(f.events) })
	return f
}

func TestHTTPBackend_SignInAndFetch(t *testing.T) {
	api := newFakeAPI(t)
	b := NewHTTPBackend(api.URL, "", zap.NewNop())
	ctx := context.Background()

	viewer, err := b.SignIn(ctx, "Sarah")
	require.NoError(t, err)
	assert.Equal(t, "Sarah", viewer.FullName)
	assert.Equal(t, "tok-1", b.Token())

	posts, err := b.FetchPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Bearer tok-1", api.lastAuth())
}

func TestHTTPBackend_ErrorMapping(t *testing.T) {
	api := newFakeAPI(t)
	b := NewHTTPBackend(api.URL, "tok-1", zap.NewNop())
	ctx := context.Background()

	assert.NoError(t, b.CastVote(ctx, "p1", "o1"))
	assert.ErrorIs(t, b.CastVote(ctx, "voted", "o1"), models.ErrAlreadyVoted)

	_, err := b.InsertPost(ctx, models.NewPost{Type: models.PostQuery})
	assert.True(t, models.IsValidation(err))

	_, err = b.FetchSubmissions(ctx)
	assert.ErrorIs(t, err, models.ErrAccessDenied)
}

func TestHTTPBackend_SubmissionIsSentWithoutToken(t *testing.T) {
	api := newFakeAPI(t)
	b := NewHTTPBackend(api.URL, "tok-1", zap.NewNop())

	err := b.InsertSubmission(context.Background(), models.NewSubmission{Category: models.CategoryOther, Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "", api.lastAuth())
}

func TestHTTPBackend_SignOutForgetsToken(t *testing.T) {
	api := newFakeAPI(t)
	b := NewHTTPBackend(api.URL, "tok-1", zap.NewNop())

	require.NoError(t, b.SignOut(context.Background()))
	assert.Equal(t, "", b.Token())
}

func TestHTTPBackend_Subscribe(t *testing.T) {
	api := newFakeAPI(t)
	b := NewHTTPBackend(api.URL, "tok-1", zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := b.Subscribe(ctx)
	require.NoError(t, err)

	api.events <- models.ChangeEvent{Table: models.TablePosts, Type: "INSERT", ID: "p2"}
	select {
	case ev := <-events:
		assert.Equal(t, models.TablePosts, ev.Table)
		assert.Equal(t, "p2", ev.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no event")
	}

	cancel()
	assert.Eventually(t, func() bool {
		_, open := <-events
		return !open
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHTTPBackend_SubscribeRejected(t *testing.T) {
	api := newFakeAPI(t)
	b := NewHTTPBackend(api.URL, "wrong", zap.NewNop())

	_, err := b.Subscribe(context.Background())
	assert.ErrorIs(t, err, models.ErrAccessDenied)
}
