// Package client talks to the board's HTTP API on behalf of one viewer.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"noticeboard/backend/internal/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const reconnectDelay = 2 * time.Second

// APIError is a non-2xx answer of the API.
type APIError struct {
	Status  int
	Message string
	Field   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// HTTPBackend implements board.Backend over the REST API and the /ws stream.
type HTTPBackend struct {
	BaseURL string
	HTTP    *http.Client
	Dialer  *websocket.Dialer
	log     *zap.Logger

	mu    sync.RWMutex
	token string
}

func NewHTTPBackend(baseURL, token string, log *zap.Logger) *HTTPBackend {
	return &HTTPBackend{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		Dialer:  websocket.DefaultDialer,
		log:     log,
		token:   token,
	}
}

func (b *HTTPBackend) Token() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.token
}

type anonResponse struct {
	Token     string          `json:"token"`
	Viewer    *models.Profile `json:"viewer"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// SignIn creates a new viewer profile and keeps its token for later calls.
func (b *HTTPBackend) SignIn(ctx context.Context, name string) (*models.Profile, error) {
	var resp anonResponse
	path := "/auth/anon?name=" + url.QueryEscape(name)
	if err := b.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.token = resp.Token
	b.mu.Unlock()
	return resp.Viewer, nil
}

func (b *HTTPBackend) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := b.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := b.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// decodeError turns an error answer back into the domain error it came from where possible.
func decodeError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	json.NewDecoder(resp.Body).Decode(&body)

	switch resp.StatusCode {
	case http.StatusBadRequest:
		if body.Field != "" {
			return &models.ValidationError{Field: body.Field, Message: body.Error}
		}
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", models.ErrAccessDenied, body.Error)
	case http.StatusConflict:
		if body.Error == models.ErrAlreadyVoted.Error() {
			return models.ErrAlreadyVoted
		}
		if body.Error == models.ErrPollOptionsSet.Error() {
			return models.ErrPollOptionsSet
		}
	case http.StatusNotFound:
		for _, known := range []error{models.ErrPostNotFound, models.ErrSubmissionNotFound, models.ErrOptionNotFound, models.ErrProfileNotFound} {
			if body.Error == known.Error() {
				return known
			}
		}
	}
	if body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: body.Error, Field: body.Field}
}

func (b *HTTPBackend) Viewer(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := b.do(ctx, http.MethodGet, "/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (b *HTTPBackend) FetchPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := b.do(ctx, http.MethodGet, "/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (b *HTTPBackend) FetchSubmissions(ctx context.Context) ([]models.AnonymousSubmission, error) {
	var subs []models.AnonymousSubmission
	if err := b.do(ctx, http.MethodGet, "/admin/submissions", nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (b *HTTPBackend) InsertPost(ctx context.Context, p models.NewPost) (*models.Post, error) {
	var post models.Post
	if err := b.do(ctx, http.MethodPost, "/posts", p, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (b *HTTPBackend) InsertPollOptions(ctx context.Context, postID string, texts []string) error {
	body := map[string][]string{"texts": texts}
	return b.do(ctx, http.MethodPost, "/posts/"+url.PathEscape(postID)+"/options", body, nil)
}

func (b *HTTPBackend) CastVote(ctx context.Context, postID, optionID string) error {
	body := map[string]string{"option_id": optionID}
	return b.do(ctx, http.MethodPut, "/posts/"+url.PathEscape(postID)+"/vote", body, nil)
}

func (b *HTTPBackend) Like(ctx context.Context, postID string) error {
	return b.do(ctx, http.MethodPost, "/posts/"+url.PathEscape(postID)+"/like", nil, nil)
}

func (b *HTTPBackend) Unlike(ctx context.Context, postID string) error {
	return b.do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(postID)+"/like", nil, nil)
}

// InsertSubmission never sends the viewer's token.
func (b *HTTPBackend) InsertSubmission(ctx context.Context, s models.NewSubmission) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL+"/submissions", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	return nil
}

func (b *HTTPBackend) UpdateSubmissionStatus(ctx context.Context, id string, status models.Status) error {
	body := map[string]models.Status{"status": status}
	return b.do(ctx, http.MethodPatch, "/admin/submissions/"+url.PathEscape(id), body, nil)
}

func (b *HTTPBackend) SignOut(ctx context.Context) error {
	if err := b.do(ctx, http.MethodPost, "/auth/signout", nil, nil); err != nil {
		return err
	}
	b.mu.Lock()
	b.token = ""
	b.mu.Unlock()
	return nil
}

func (b *HTTPBackend) wsURL() (string, error) {
	u, err := url.Parse(b.BaseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	u.RawQuery = url.Values{"token": {b.Token()}}.Encode()
	return u.String(), nil
}

// Subscribe streams change notifications. A dropped connection is redialed and
// followed by a resync event, since changes in between were missed.
func (b *HTTPBackend) Subscribe(ctx context.Context) (<-chan models.ChangeEvent, error) {
	conn, err := b.dial(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan models.ChangeEvent, 16)
	go func() {
		defer close(out)
		for {
			b.read(ctx, conn, out)
			conn.Close()

			for {
				select {
				case <-ctx.Done():
					return
				case <-time.After(reconnectDelay):
				}
				conn, err = b.dial(ctx)
				if err == nil {
					break
				}
				b.log.Warn("websocket reconnect failed", zap.Error(err))
			}

			select {
			case out <- models.ChangeEvent{Table: models.TableAll, Type: "RESYNC"}:
			case <-ctx.Done():
				conn.Close()
				return
			}
		}
	}()
	return out, nil
}

func (b *HTTPBackend) dial(ctx context.Context) (*websocket.Conn, error) {
	target, err := b.wsURL()
	if err != nil {
		return nil, err
	}
	conn, resp, err := b.Dialer.DialContext(ctx, target, nil)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			return nil, decodeError(resp)
		}
		return nil, err
	}
	return conn, nil
}

// read pumps events until the connection breaks or ctx is done.
func (b *HTTPBackend) read(ctx context.Context, conn *websocket.Conn, out chan<- models.ChangeEvent) {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	for {
		var ev models.ChangeEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
				b.log.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}
