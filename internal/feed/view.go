package feed

import (
	"time"

	"noticeboard/backend/internal/models"
)

type OptionView struct {
	ID         string
	Text       string
	Votes      int
	Percentage int
	Selected   bool
}

type PollView struct {
	Question string
	Options  []OptionView
	// ShowResults is true once the viewer voted; percentages stay hidden before that.
	ShowResults bool
	VotesLabel  string
}

// PostView is the display model of one feed entry.
type PostView struct {
	ID       string
	Kind     models.PostKind
	Author   string
	Initials string
	Age      string
	Content  string
	Likes    int
	Liked    bool
	Replies  int
	Poll     *PollView
}

// Render builds the display models of the items, in the given order.
func Render(items []Item, now time.Time) []PostView {
	views := make([]PostView, 0, len(items))
	for _, it := range items {
		author := it.Post.Author.DisplayName()
		v := PostView{
			ID:       it.Post.ID,
			Kind:     it.Post.Type,
			Author:   author,
			Initials: Initials(author),
			Age:      RelativeTime(now, it.Post.CreatedAt),
			Content:  it.Post.Content,
			Likes:    it.DisplayedLikes(),
			Liked:    it.Liked,
			Replies:  it.Post.RepliesCount,
		}
		if it.Poll != nil {
			v.Poll = renderPoll(*it.Poll)
		}
		views = append(views, v)
	}
	return views
}

func renderPoll(p Poll) *PollView {
	pv := &PollView{
		Question:    p.Question,
		ShowResults: p.HasVoted(),
		VotesLabel:  VotesLabel(p.TotalVotes),
		Options:     make([]OptionView, 0, len(p.Options)),
	}
	for _, opt := range p.Options {
		pv.Options = append(pv.Options, OptionView{
			ID:         opt.ID,
			Text:       opt.OptionText,
			Votes:      opt.VotesCount,
			Percentage: Percentage(opt.VotesCount, p.TotalVotes),
			Selected:   opt.ID == p.UserVote,
		})
	}
	return pv
}
