package forms

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"noticeboard/backend/internal/config"
	"noticeboard/backend/internal/models"
)

// PollDraft is the poll part of a composed post.
type PollDraft struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// PostDraft is emitted by the composer.
type PostDraft struct {
	Kind    models.PostKind `json:"kind"`
	Content string          `json:"content"`
	Poll    *PollDraft      `json:"poll,omitempty"`
}

// PostComposer holds the state of the "new post" box.
type PostComposer struct {
	Kind     models.PostKind
	Content  string
	Question string

	options []string

	OnSubmit func(PostDraft)
}

func NewPostComposer(onSubmit func(PostDraft)) *PostComposer {
	c := &PostComposer{OnSubmit: onSubmit}
	c.Reset()
	return c
}

// Options returns a copy of the current option inputs.
func (c *PostComposer) Options() []string {
	return append([]string(nil), c.options...)
}

func (c *PostComposer) SetKind(kind models.PostKind) {
	if kind.Valid() {
		c.Kind = kind
	}
}

func (c *PostComposer) CanAddOption() bool {
	return len(c.options) < config.MaxPollOptions
}

func (c *PostComposer) CanRemoveOption() bool {
	return len(c.options) > config.MinPollOptions
}

// AddOption appends an empty option. It reports false when the poll is already full.
func (c *PostComposer) AddOption() bool {
	if !c.CanAddOption() {
		return false
	}
	c.options = append(c.options, "")
	return true
}

// RemoveOption drops option i keeping the order of the rest.
// It reports false when the poll is at its minimum size or i is out of range.
func (c *PostComposer) RemoveOption(i int) bool {
	if !c.CanRemoveOption() || i < 0 || i >= len(c.options) {
		return false
	}
	c.options = append(c.options[:i:i], c.options[i+1:]...)
	return true
}

func (c *PostComposer) SetOption(i int, value string) bool {
	if i < 0 || i >= len(c.options) {
		return false
	}
	c.options[i] = value
	return true
}

// Counter is the soft-cap counter of the post body.
func (c *PostComposer) Counter() string {
	return fmt.Sprintf("%d/%d", utf8.RuneCountInString(c.Content), config.PostSoftLimit)
}

func (c *PostComposer) CanSubmit() bool {
	return c.validate() == nil
}

// Submit validates, emits the draft and resets the composer.
func (c *PostComposer) Submit() error {
	if err := c.validate(); err != nil {
		return err
	}

	draft := PostDraft{
		Kind:    c.Kind,
		Content: strings.TrimSpace(c.Content),
	}
	if c.Kind == models.PostPoll {
		draft.Poll = &PollDraft{
			Question: strings.TrimSpace(c.Question),
			Options:  trimOptions(c.options),
		}
	}

	if c.OnSubmit != nil {
		c.OnSubmit(draft)
	}
	c.Reset()
	return nil
}

// Cancel discards the draft.
func (c *PostComposer) Cancel() {
	c.Reset()
}

func (c *PostComposer) Reset() {
	c.Kind = models.PostQuery
	c.Content = ""
	c.Question = ""
	c.options = make([]string, config.MinPollOptions)
}

func (c *PostComposer) validate() error {
	draft := PostDraft{Kind: c.Kind, Content: c.Content}
	if c.Kind == models.PostPoll {
		draft.Poll = &PollDraft{Question: c.Question, Options: c.options}
	}
	return ValidatePost(draft)
}

// ValidatePost checks a post draft: body text always, and for polls a question plus 2-4 non-empty options.
func ValidatePost(d PostDraft) error {
	if !d.Kind.Valid() {
		return &models.ValidationError{Field: "kind", Message: fmt.Sprintf("unknown post kind %q", d.Kind)}
	}
	if strings.TrimSpace(d.Content) == "" {
		return &models.ValidationError{Field: "content", Message: "post cannot be empty"}
	}
	if d.Kind != models.PostPoll {
		return nil
	}
	if d.Poll == nil || strings.TrimSpace(d.Poll.Question) == "" {
		return &models.ValidationError{Field: "question", Message: "poll question cannot be empty"}
	}
	return ValidateOptions(d.Poll.Options)
}

// ValidateOptions checks the option list of a poll.
func ValidateOptions(options []string) error {
	if len(options) < config.MinPollOptions || len(options) > config.MaxPollOptions {
		return &models.ValidationError{
			Field:   "options",
			Message: fmt.Sprintf("a poll needs %d to %d options", config.MinPollOptions, config.MaxPollOptions),
		}
	}
	for i, opt := range options {
		if strings.TrimSpace(opt) == "" {
			return &models.ValidationError{Field: fmt.Sprintf("options[%d]", i), Message: "option is empty"}
		}
	}
	return nil
}

func trimOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		if opt = strings.TrimSpace(opt); opt != "" {
			out = append(out, opt)
		}
	}
	return out
}

// ValidateNewPost checks a post as the backend receives it; poll options arrive separately.
func ValidateNewPost(p models.NewPost) error {
	if !p.Type.Valid() {
		return &models.ValidationError{Field: "type", Message: fmt.Sprintf("unknown post kind %q", p.Type)}
	}
	if strings.TrimSpace(p.Content) == "" {
		return &models.ValidationError{Field: "content", Message: "post cannot be empty"}
	}
	if p.Type == models.PostPoll && (p.PollQuestion == nil || strings.TrimSpace(*p.PollQuestion) == "") {
		return &models.ValidationError{Field: "question", Message: "poll question cannot be empty"}
	}
	return nil
}
