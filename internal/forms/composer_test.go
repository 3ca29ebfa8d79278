package forms_test

import (
	"testing"

	"noticeboard/backend/internal/forms"
	"noticeboard/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecordingComposer() (*forms.PostComposer, *[]forms.PostDraft) {
	var emitted []forms.PostDraft
	c := forms.NewPostComposer(func(d forms.PostDraft) { emitted = append(emitted, d) })
	return c, &emitted
}

func TestPostComposer_InitialState(t *testing.T) {
	c, _ := newRecordingComposer()

	assert.Equal(t, models.PostQuery, c.Kind)
	assert.Equal(t, []string{"", ""}, c.Options())
	assert.False(t, c.CanRemoveOption())
	assert.True(t, c.CanAddOption())
	assert.False(t, c.CanSubmit())
}

func TestPostComposer_Query(t *testing.T) {
	c, emitted := newRecordingComposer()
	c.Content = "  async/await vs promises?  "

	require.NoError(t, c.Submit())

	require.Len(t, *emitted, 1)
	assert.Equal(t, forms.PostDraft{Kind: models.PostQuery, Content: "async/await vs promises?"}, (*emitted)[0])
	assert.Empty(t, c.Content)
}

func TestPostComposer_EmptyQueryRejected(t *testing.T) {
	c, emitted := newRecordingComposer()
	c.Content = "  "

	assert.True(t, models.IsValidation(c.Submit()))
	assert.Empty(t, *emitted)
}

func TestPostComposer_Poll(t *testing.T) {
	c, emitted := newRecordingComposer()
	c.SetKind(models.PostPoll)
	c.Content = "Scheduling next semester"
	c.Question = "Best time?"
	c.SetOption(0, "9am")
	c.SetOption(1, "2pm")

	require.NoError(t, c.Submit())

	require.Len(t, *emitted, 1)
	assert.Equal(t, forms.PostDraft{
		Kind:    models.PostPoll,
		Content: "Scheduling next semester",
		Poll:    &forms.PollDraft{Question: "Best time?", Options: []string{"9am", "2pm"}},
	}, (*emitted)[0])

	// reset to the initial state
	assert.Equal(t, models.PostQuery, c.Kind)
	assert.Empty(t, c.Question)
	assert.Equal(t, []string{"", ""}, c.Options())
}

func TestPostComposer_PollWithBlankOptionRejected(t *testing.T) {
	c, emitted := newRecordingComposer()
	c.SetKind(models.PostPoll)
	c.Content = "Scheduling next semester"
	c.Question = "Best time?"
	c.SetOption(0, "9am")
	c.SetOption(1, "   ")

	err := c.Submit()

	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "options[1]", ve.Field)
	assert.Empty(t, *emitted)
	assert.Equal(t, models.PostPoll, c.Kind, "a rejected submit keeps the draft")
}

func TestPostComposer_PollWithoutQuestionRejected(t *testing.T) {
	c, emitted := newRecordingComposer()
	c.SetKind(models.PostPoll)
	c.Content = "desc"
	c.SetOption(0, "a")
	c.SetOption(1, "b")

	assert.True(t, models.IsValidation(c.Submit()))
	assert.Empty(t, *emitted)
}

func TestPostComposer_OptionBounds(t *testing.T) {
	c, _ := newRecordingComposer()

	assert.False(t, c.RemoveOption(0), "cannot go below two options")
	assert.True(t, c.AddOption())
	assert.True(t, c.AddOption())
	assert.False(t, c.AddOption(), "cannot go above four options")
	assert.Len(t, c.Options(), 4)

	for i, v := range []string{"a", "b", "c", "d"} {
		c.SetOption(i, v)
	}
	assert.True(t, c.RemoveOption(1))
	assert.Equal(t, []string{"a", "c", "d"}, c.Options(), "removal preserves order")
	assert.False(t, c.RemoveOption(7))
	assert.False(t, c.SetOption(3, "x"))
}

func TestPostComposer_CancelAndCounter(t *testing.T) {
	c, emitted := newRecordingComposer()
	c.SetKind(models.PostPoll)
	c.Content = "hello"
	c.AddOption()

	assert.Equal(t, "5/280", c.Counter())

	c.Cancel()
	assert.Equal(t, models.PostQuery, c.Kind)
	assert.Empty(t, c.Content)
	assert.Len(t, c.Options(), 2)
	assert.Empty(t, *emitted)
}

func TestValidateOptions(t *testing.T) {
	assert.Error(t, forms.ValidateOptions([]string{"only"}))
	assert.Error(t, forms.ValidateOptions([]string{"a", "b", "c", "d", "e"}))
	assert.Error(t, forms.ValidateOptions([]string{"a", ""}))
	assert.NoError(t, forms.ValidateOptions([]string{"a", "b"}))
}
