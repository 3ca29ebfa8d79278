// Package board is the page controller of the notice board: it owns the view
// state, talks to the backend and turns change notifications into refetches.
package board

import (
	"time"

	"noticeboard/backend/internal/feed"
	"noticeboard/backend/internal/models"
	"noticeboard/backend/internal/triage"
)

type Tab string

const (
	TabFeed      Tab = "feed"
	TabAnonymous Tab = "anonymous"
	TabAdmin     Tab = "admin"
)

// State is everything the page shows. Transitions return a new State and never touch the receiver's slices.
type State struct {
	Tab         Tab
	Viewer      *models.Profile
	Items       []feed.Item
	Submissions []models.AnonymousSubmission
}

func NewState() State {
	return State{Tab: TabFeed}
}

func (s State) IsAdmin() bool {
	return s.Viewer != nil && s.Viewer.IsAdmin
}

// Tabs lists the tabs the viewer can open; the admin tab only exists for admins.
func (s State) Tabs() []Tab {
	if s.IsAdmin() {
		return []Tab{TabFeed, TabAnonymous, TabAdmin}
	}
	return []Tab{TabFeed, TabAnonymous}
}

func (s State) WithTab(t Tab) (State, error) {
	switch t {
	case TabFeed, TabAnonymous:
	case TabAdmin:
		if !s.IsAdmin() {
			return s, models.ErrAccessDenied
		}
	default:
		return s, &models.ValidationError{Field: "tab", Message: "unknown tab " + string(t)}
	}
	s.Tab = t
	return s, nil
}

func (s State) WithViewer(p *models.Profile) State {
	s.Viewer = p
	if !s.IsAdmin() {
		s.Submissions = nil
		if s.Tab == TabAdmin {
			s.Tab = TabFeed
		}
	}
	return s
}

// WithPosts replaces the feed with fresh server data, dropping any unconfirmed local deltas.
func (s State) WithPosts(posts []models.Post) State {
	s.Items = feed.Items(posts)
	return s
}

// WithSubmissions keeps submissions in triage order. Non-admins never hold any.
func (s State) WithSubmissions(subs []models.AnonymousSubmission) State {
	if !s.IsAdmin() {
		s.Submissions = nil
		return s
	}
	s.Submissions = triage.Sort(subs)
	return s
}

func (s State) itemIndex(postID string) int {
	for i, it := range s.Items {
		if it.Post.ID == postID {
			return i
		}
	}
	return -1
}

// Item returns the feed item of a post.
func (s State) Item(postID string) (feed.Item, bool) {
	i := s.itemIndex(postID)
	if i < 0 {
		return feed.Item{}, false
	}
	return s.Items[i], true
}

func (s State) replaceItem(i int, it feed.Item) State {
	items := append([]feed.Item(nil), s.Items...)
	items[i] = it
	s.Items = items
	return s
}

// ApplyVote runs the poll vote machine for one post.
func (s State) ApplyVote(postID, optionID string, allowRevision bool) (State, error) {
	i := s.itemIndex(postID)
	if i < 0 {
		return s, models.ErrPostNotFound
	}
	it, err := s.Items[i].Vote(optionID, allowRevision)
	if err != nil {
		return s, err
	}
	return s.replaceItem(i, it), nil
}

// ApplyLikeToggle flips the like of one post and reports the new like state.
func (s State) ApplyLikeToggle(postID string) (State, bool, error) {
	i := s.itemIndex(postID)
	if i < 0 {
		return s, false, models.ErrPostNotFound
	}
	it := s.Items[i].ToggleLike()
	return s.replaceItem(i, it), it.Liked, nil
}

// ApplyStatus sets the status of a submission and re-sorts.
func (s State) ApplyStatus(id string, status models.Status, at time.Time) (State, error) {
	if !s.IsAdmin() {
		return s, models.ErrAccessDenied
	}
	subs := append([]models.AnonymousSubmission(nil), s.Submissions...)
	for i := range subs {
		if subs[i].ID != id {
			continue
		}
		updated, err := triage.Transition(subs[i], status, at)
		if err != nil {
			return s, err
		}
		subs[i] = updated
		s.Submissions = triage.Sort(subs)
		return s, nil
	}
	return s, models.ErrSubmissionNotFound
}

// Submission looks up a submission by ID or by its short ID.
func (s State) Submission(id string) (models.AnonymousSubmission, bool) {
	for _, sub := range s.Submissions {
		if sub.ID == id || triage.ShortID(sub.ID) == id {
			return sub, true
		}
	}
	return models.AnonymousSubmission{}, false
}
