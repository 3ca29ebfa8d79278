// Package triage orders anonymous submissions for the administration and
// drives their review status.
package triage

import (
	"sort"
	"time"

	"noticeboard/backend/internal/analysis"
	"noticeboard/backend/internal/config"
	"noticeboard/backend/internal/forms"
	"noticeboard/backend/internal/models"
)

// Sort returns the submissions by urgency weight, then newest first. Full ties keep their input order.
func Sort(subs []models.AnonymousSubmission) []models.AnonymousSubmission {
	out := append([]models.AnonymousSubmission(nil), subs...)
	sort.SliceStable(out, func(i, j int) bool {
		wi, wj := analysis.Weight(out[i].Urgency), analysis.Weight(out[j].Urgency)
		if wi != wj {
			return wi > wj
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Summary counts submissions per status.
type Summary struct {
	Total    int
	New      int
	Reviewed int
	Resolved int
}

// Summarize recounts from scratch; it never caches.
func Summarize(subs []models.AnonymousSubmission) Summary {
	s := Summary{Total: len(subs)}
	for _, sub := range subs {
		switch sub.Status {
		case models.StatusNew:
			s.New++
		case models.StatusReviewed:
			s.Reviewed++
		case models.StatusResolved:
			s.Resolved++
		}
	}
	return s
}

// Action is the one-click status advance offered next to a submission.
type Action struct {
	Label string
	To    models.Status
}

// Advance returns the next step of the review flow, false for resolved submissions.
func Advance(current models.Status) (Action, bool) {
	switch current {
	case models.StatusNew:
		return Action{Label: "Start Review", To: models.StatusReviewed}, true
	case models.StatusReviewed:
		return Action{Label: "Mark Resolved", To: models.StatusResolved}, true
	default:
		return Action{}, false
	}
}

// Transition sets any valid status, including moving backwards.
func Transition(sub models.AnonymousSubmission, to models.Status, at time.Time) (models.AnonymousSubmission, error) {
	if !to.Valid() {
		return sub, models.ErrInvalidStatus
	}
	sub.Status = to
	sub.UpdatedAt = at
	return sub, nil
}

// StatusLabel is the human-readable status.
func StatusLabel(s models.Status) string {
	switch s {
	case models.StatusNew:
		return "New"
	case models.StatusReviewed:
		return "Reviewed"
	case models.StatusResolved:
		return "Resolved"
	default:
		return string(s)
	}
}

// ShortID is the leading part of the submission ID shown in the list.
func ShortID(id string) string {
	if len(id) <= config.ShortIDLength {
		return id
	}
	return id[:config.ShortIDLength]
}

type ItemView struct {
	ID       string
	ShortID  string
	Category string
	Urgency  string
	Status   string
	Content  string
	Created  time.Time
	Action   *Action
}

type View struct {
	Summary Summary
	Items   []ItemView
}

// Render builds the triage page: counts plus the sorted list.
func Render(subs []models.AnonymousSubmission) View {
	sorted := Sort(subs)
	v := View{
		Summary: Summarize(subs),
		Items:   make([]ItemView, 0, len(sorted)),
	}
	for _, sub := range sorted {
		item := ItemView{
			ID:       sub.ID,
			ShortID:  ShortID(sub.ID),
			Category: forms.CategoryLabel(sub.Category),
			Urgency:  forms.UrgencyLabel(sub.Urgency),
			Status:   StatusLabel(sub.Status),
			Content:  sub.Content,
			Created:  sub.CreatedAt,
		}
		if next, ok := Advance(sub.Status); ok {
			item.Action = &next
		}
		v.Items = append(v.Items, item)
	}
	return v
}
