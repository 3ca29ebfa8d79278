package models

// Table names used in change notifications.
const (
	TablePosts       = "posts"
	TablePollOptions = "poll_options"
	TablePollVotes   = "poll_votes"
	TablePostLikes   = "post_likes"
	TableSubmissions = "anonymous_submissions"
	TableProfiles    = "profiles"

	// TableAll asks viewers to refetch everything, e.g. after a missed notification window.
	TableAll = "*"
)

// ChangeEvent is pushed to viewers whenever a row changes. It is only a signal to re-fetch.
type ChangeEvent struct {
	Table string `json:"table"`
	Type  string `json:"type"` // "INSERT", "UPDATE", "DELETE"
	ID    string `json:"id,omitempty"`
}

// AdminOnly reports whether the event may only be delivered to admin viewers.
func (e ChangeEvent) AdminOnly() bool {
	return e.Table == TableSubmissions
}
