package feed

import (
	"math"
	"sort"

	"noticeboard/backend/internal/models"
)

// Poll is the viewer's picture of a poll. TotalVotes always equals the sum of the option counts.
type Poll struct {
	Question   string
	Options    []models.PollOption
	TotalVotes int
	// UserVote is the option the viewer voted for, "" while not voted.
	UserVote string
}

// PollOf derives the poll of a post, or nil for a query.
func PollOf(p models.Post) *Poll {
	if p.Type != models.PostPoll {
		return nil
	}
	poll := &Poll{
		Options: append([]models.PollOption(nil), p.PollOptions...),
	}
	sort.SliceStable(poll.Options, func(i, j int) bool {
		return poll.Options[i].CreatedAt.Before(poll.Options[j].CreatedAt)
	})
	if p.PollQuestion != nil {
		poll.Question = *p.PollQuestion
	}
	for _, opt := range poll.Options {
		poll.TotalVotes += opt.VotesCount
	}
	if p.UserVote != nil {
		poll.UserVote = p.UserVote.OptionID
	}
	return poll
}

func (p Poll) HasVoted() bool {
	return p.UserVote != ""
}

// Vote applies the viewer's choice and returns the new poll; p is left untouched.
//
//	NOT_VOTED -> VOTED(x): x +1, total +1
//	VOTED(x)  -> VOTED(y): x -1, y +1 (only with allowRevision)
//
// Any other vote is rejected with ErrAlreadyVoted and changes nothing.
func (p Poll) Vote(optionID string, allowRevision bool) (Poll, error) {
	target := p.indexOf(optionID)
	if target < 0 {
		return p, models.ErrOptionNotFound
	}
	if p.HasVoted() && (!allowRevision || p.UserVote == optionID) {
		return p, models.ErrAlreadyVoted
	}

	next := p
	next.Options = append([]models.PollOption(nil), p.Options...)

	if p.HasVoted() {
		if prev := p.indexOf(p.UserVote); prev >= 0 && next.Options[prev].VotesCount > 0 {
			next.Options[prev].VotesCount--
			next.TotalVotes--
		}
	}
	next.Options[target].VotesCount++
	next.TotalVotes++
	next.UserVote = optionID
	return next, nil
}

func (p Poll) indexOf(optionID string) int {
	for i, opt := range p.Options {
		if opt.ID == optionID {
			return i
		}
	}
	return -1
}

// Percentage is the rounded share of votes; 0 when nobody voted.
// Shares are rounded independently and need not sum to 100.
func Percentage(votes, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(votes) / float64(total) * 100))
}
