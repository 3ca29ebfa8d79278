// Package feed derives what the feed shows: post order, relative timestamps,
// like toggling and the per-viewer poll vote state machine.
package feed

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"noticeboard/backend/internal/models"
)

// Item is one post as seen by the current viewer.
type Item struct {
	Post models.Post
	Poll *Poll

	// Liked is the viewer's current like state; LikeDelta is the pending local change
	// against the server-confirmed Post.UserLiked, always -1, 0 or +1.
	Liked     bool
	LikeDelta int
}

func NewItem(p models.Post) Item {
	return Item{
		Post:  p,
		Poll:  PollOf(p),
		Liked: p.UserLiked,
	}
}

// Items orders posts and wraps them for the viewer.
func Items(posts []models.Post) []Item {
	ordered := Order(posts)
	items := make([]Item, 0, len(ordered))
	for _, p := range ordered {
		items = append(items, NewItem(p))
	}
	return items
}

// Order returns the posts newest first. Equal timestamps keep their arrival order.
func Order(posts []models.Post) []models.Post {
	out := append([]models.Post(nil), posts...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ToggleLike flips the viewer's like. Liking then unliking restores the exact count.
func (it Item) ToggleLike() Item {
	it.Liked = !it.Liked
	switch {
	case it.Liked == it.Post.UserLiked:
		it.LikeDelta = 0
	case it.Liked:
		it.LikeDelta = 1
	default:
		it.LikeDelta = -1
	}
	return it
}

func (it Item) DisplayedLikes() int {
	n := it.Post.LikesCount + it.LikeDelta
	if n < 0 {
		return 0
	}
	return n
}

// Vote applies a vote to the item's poll.
func (it Item) Vote(optionID string, allowRevision bool) (Item, error) {
	if it.Poll == nil {
		return it, models.ErrNotAPoll
	}
	poll, err := it.Poll.Vote(optionID, allowRevision)
	if err != nil {
		return it, err
	}
	it.Poll = &poll
	return it, nil
}

// RelativeTime renders the age of t: "now", "{m}m", "{h}h" or "{d}d".
func RelativeTime(now, t time.Time) string {
	diff := now.Sub(t)
	minutes := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / (24 * time.Hour))

	switch {
	case minutes < 1:
		return "now"
	case minutes < 60:
		return fmt.Sprintf("%dm", minutes)
	case hours < 24:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dd", days)
	}
}

// Initials of a display name, e.g. "Prof. Michael Chen" -> "PMC".
func Initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		r := []rune(part)
		b.WriteString(strings.ToUpper(string(r[0])))
	}
	return b.String()
}

// VotesLabel is "1 vote" / "{n} votes".
func VotesLabel(total int) string {
	if total == 1 {
		return "1 vote"
	}
	return fmt.Sprintf("%d votes", total)
}
