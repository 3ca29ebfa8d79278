package board

import (
	"context"
	"errors"
	"sync"
	"time"

	"noticeboard/backend/internal/feed"
	"noticeboard/backend/internal/forms"
	"noticeboard/backend/internal/localization"
	"noticeboard/backend/internal/models"
	"noticeboard/backend/internal/triage"

	"go.uber.org/zap"
)

// Notice is a transient message for the viewer (a toast).
type Notice struct {
	Title       string
	Description string
	Destructive bool
}

// Controller orchestrates the page. Every action and every notification runs under one lock,
// so the state is only ever changed by one of them at a time.
type Controller struct {
	backend   Backend
	localizer *localization.Localizer
	lang      string
	notify    func(Notice)
	log       *zap.Logger

	// AllowVoteRevision must match the backend setting.
	AllowVoteRevision bool
	Now               func() time.Time

	mu    sync.Mutex
	state State
}

func NewController(b Backend, loc *localization.Localizer, lang string, notify func(Notice), log *zap.Logger) *Controller {
	if notify == nil {
		notify = func(Notice) {}
	}
	return &Controller{
		backend:   b,
		localizer: loc,
		lang:      lang,
		notify:    notify,
		log:       log,
		Now:       time.Now,
		state:     NewState(),
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) text(key string, args ...interface{}) string {
	if len(args) == 0 {
		return c.localizer.GetString(c.lang, key)
	}
	return c.localizer.Format(c.lang, key, args...)
}

func (c *Controller) success(titleKey, bodyKey string, args ...interface{}) {
	c.notify(Notice{Title: c.text(titleKey), Description: c.text(bodyKey, args...)})
}

// fail wraps err as a BackendError unless it is already a domain error, and reports it.
func (c *Controller) fail(op string, err error) error {
	var description string
	switch {
	case errors.Is(err, models.ErrAccessDenied):
		description = c.text("notice.error.denied")
	case errors.Is(err, models.ErrAlreadyVoted):
		description = c.text("notice.vote.already")
	case models.IsValidation(err):
		c.notify(Notice{Title: c.text("notice.missing.title"), Description: c.text("notice.missing.body"), Destructive: true})
		return err
	default:
		var be *models.BackendError
		if !errors.As(err, &be) {
			err = &models.BackendError{Op: op, Err: err}
		}
		description = err.Error()
	}
	c.log.Warn("board action failed", zap.String("op", op), zap.Error(err))
	c.notify(Notice{Title: c.text("notice.error.title"), Description: description, Destructive: true})
	return err
}

// Start loads the viewer, the feed and, for admins, the submissions.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	viewer, err := c.backend.Viewer(ctx)
	if err != nil {
		return c.fail("viewer", err)
	}
	next := c.state.WithViewer(viewer)

	posts, err := c.backend.FetchPosts(ctx)
	if err != nil {
		return c.fail("fetch posts", err)
	}
	next = next.WithPosts(posts)

	if next.IsAdmin() {
		subs, err := c.backend.FetchSubmissions(ctx)
		if err != nil {
			return c.fail("fetch submissions", err)
		}
		next = next.WithSubmissions(subs)
	}
	c.state = next
	return nil
}

// Run subscribes to change notifications and refetches on each one until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	events, err := c.backend.Subscribe(ctx)
	if err != nil {
		return c.fail("subscribe", err)
	}
	for ev := range events {
		c.HandleChange(ctx, ev)
	}
	return ctx.Err()
}

// HandleChange invalidates what the event touches and refetches it.
// A failed refetch keeps the previous data.
func (c *Controller) HandleChange(ctx context.Context, ev models.ChangeEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.Table {
	case models.TablePosts, models.TablePollOptions, models.TablePollVotes, models.TablePostLikes:
		c.refetchPosts(ctx)
	case models.TableSubmissions:
		c.refetchSubmissions(ctx)
	case models.TableProfiles:
		// Чужі профілі нас не цікавлять
		if c.state.Viewer == nil || (ev.ID != "" && ev.ID != c.state.Viewer.ID) {
			return
		}
		c.refetchViewer(ctx)
	case models.TableAll:
		c.refetchViewer(ctx)
		c.refetchPosts(ctx)
		c.refetchSubmissions(ctx)
	default:
		c.log.Debug("ignored change", zap.String("table", ev.Table))
	}
}

// refetchViewer picks up promote/demote. A newly promoted admin gets the submissions loaded,
// a demoted one loses them together with the admin tab.
func (c *Controller) refetchViewer(ctx context.Context) {
	if c.state.Viewer == nil {
		return
	}
	viewer, err := c.backend.Viewer(ctx)
	if err != nil {
		c.fail("viewer", err)
		return
	}
	wasAdmin := c.state.IsAdmin()
	c.state = c.state.WithViewer(viewer)
	if c.state.IsAdmin() && !wasAdmin {
		c.refetchSubmissions(ctx)
	}
}

func (c *Controller) refetchPosts(ctx context.Context) {
	posts, err := c.backend.FetchPosts(ctx)
	if err != nil {
		c.fail("fetch posts", err)
		return
	}
	c.state = c.state.WithPosts(posts)
}

func (c *Controller) refetchSubmissions(ctx context.Context) {
	if !c.state.IsAdmin() {
		return
	}
	subs, err := c.backend.FetchSubmissions(ctx)
	if err != nil {
		c.fail("fetch submissions", err)
		return
	}
	c.state = c.state.WithSubmissions(subs)
}

func (c *Controller) SelectTab(tab Tab) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.state.WithTab(tab)
	if err != nil {
		return c.fail("select tab", err)
	}
	c.state = next
	return nil
}

// CreatePost stores a composed post. Poll options are only inserted once the post exists.
func (c *Controller) CreatePost(ctx context.Context, d forms.PostDraft) error {
	if err := forms.ValidatePost(d); err != nil {
		return c.fail("insert post", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	req := models.NewPost{Content: d.Content, Type: d.Kind}
	if d.Kind == models.PostPoll && d.Poll != nil {
		q := d.Poll.Question
		req.PollQuestion = &q
	}
	post, err := c.backend.InsertPost(ctx, req)
	if err != nil {
		return c.fail("insert post", err)
	}
	if d.Kind == models.PostPoll && d.Poll != nil {
		if err := c.backend.InsertPollOptions(ctx, post.ID, d.Poll.Options); err != nil {
			return c.fail("insert poll options", err)
		}
	}

	if d.Kind == models.PostPoll {
		c.success("notice.posted.title", "notice.posted.poll")
	} else {
		c.success("notice.posted.title", "notice.posted.query")
	}
	c.refetchPosts(ctx)
	return nil
}

// SubmitAnonymous forwards a submission. The viewer is never attached to it.
func (c *Controller) SubmitAnonymous(ctx context.Context, s models.NewSubmission) error {
	if err := forms.ValidateSubmission(s); err != nil {
		return c.fail("insert submission", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.backend.InsertSubmission(ctx, s); err != nil {
		return c.fail("insert submission", err)
	}
	c.success("notice.submission.title", "notice.submission.body")
	return nil
}

// Vote checks the vote locally, sends it and keeps the local result once the backend confirms.
func (c *Controller) Vote(ctx context.Context, postID, optionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.state.ApplyVote(postID, optionID, c.AllowVoteRevision)
	if err != nil {
		return c.fail("vote", err)
	}
	if err := c.backend.CastVote(ctx, postID, optionID); err != nil {
		return c.fail("vote", err)
	}
	c.state = next
	c.success("notice.vote.title", "notice.vote.body")
	return nil
}

// ToggleLike likes or unlikes a post depending on the viewer's current like.
func (c *Controller) ToggleLike(ctx context.Context, postID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, liked, err := c.state.ApplyLikeToggle(postID)
	if err != nil {
		return c.fail("like", err)
	}
	if liked {
		err = c.backend.Like(ctx, postID)
	} else {
		err = c.backend.Unlike(ctx, postID)
	}
	if err != nil {
		return c.fail("like", err)
	}
	c.state = next
	return nil
}

// UpdateSubmissionStatus is admin-only; for everyone else it is a no-op returning ErrAccessDenied.
func (c *Controller) UpdateSubmissionStatus(ctx context.Context, id string, status models.Status) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.IsAdmin() {
		return c.fail("update status", models.ErrAccessDenied)
	}
	sub, ok := c.state.Submission(id)
	if !ok {
		return c.fail("update status", models.ErrSubmissionNotFound)
	}
	next, err := c.state.ApplyStatus(sub.ID, status, c.Now())
	if err != nil {
		return c.fail("update status", err)
	}
	if err := c.backend.UpdateSubmissionStatus(ctx, sub.ID, status); err != nil {
		return c.fail("update status", err)
	}
	c.state = next
	c.success("notice.status.title", "notice.status.body", status)
	return nil
}

// AdvanceSubmission applies the one-click next step of a submission.
func (c *Controller) AdvanceSubmission(ctx context.Context, id string) error {
	sub, ok := c.State().Submission(id)
	if !ok {
		if !c.State().IsAdmin() {
			return c.fail("advance", models.ErrAccessDenied)
		}
		return c.fail("advance", models.ErrSubmissionNotFound)
	}
	next, ok := triage.Advance(sub.Status)
	if !ok {
		return c.fail("advance", models.ErrInvalidStatus)
	}
	return c.UpdateSubmissionStatus(ctx, sub.ID, next.To)
}

// SignOut ends the session everywhere and clears all local state.
func (c *Controller) SignOut(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.backend.SignOut(ctx); err != nil {
		return c.fail("sign out", err)
	}
	c.state = NewState()
	c.success("notice.signout.title", "notice.signout.body")
	return nil
}

// Feed renders the current feed.
func (c *Controller) Feed() []feed.PostView {
	return feed.Render(c.State().Items, c.Now())
}

// Triage renders the admin view; non-admins get ErrAccessDenied.
func (c *Controller) Triage() (triage.View, error) {
	s := c.State()
	if !s.IsAdmin() {
		return triage.View{}, models.ErrAccessDenied
	}
	return triage.Render(s.Submissions), nil
}
