package forms_test

import (
	"strings"
	"testing"

	"noticeboard/backend/internal/forms"
	"noticeboard/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionForm_MissingCategory(t *testing.T) {
	var emitted []models.NewSubmission
	form := forms.NewSubmissionForm(func(s models.NewSubmission) { emitted = append(emitted, s) })
	form.Content = "Harassment in the lab"

	err := form.Submit()

	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "category", ve.Field)
	assert.Empty(t, emitted)
	assert.Equal(t, "Harassment in the lab", form.Content, "a rejected submit keeps the draft")
	assert.False(t, form.CanSubmit())
}

func TestSubmissionForm_BlankContent(t *testing.T) {
	var emitted []models.NewSubmission
	form := forms.NewSubmissionForm(func(s models.NewSubmission) { emitted = append(emitted, s) })
	form.Category = models.CategorySafety
	form.Content = "   \n\t"

	err := form.Submit()

	assert.True(t, models.IsValidation(err))
	assert.Empty(t, emitted)
}

func TestSubmissionForm_UnknownCategory(t *testing.T) {
	form := forms.NewSubmissionForm(nil)
	form.Category = "gossip"
	form.Content = "text"

	assert.True(t, models.IsValidation(form.Submit()))
}

func TestSubmissionForm_Success(t *testing.T) {
	var emitted []models.NewSubmission
	form := forms.NewSubmissionForm(func(s models.NewSubmission) { emitted = append(emitted, s) })
	assert.Equal(t, models.UrgencyMedium, form.Urgency, "urgency defaults to medium")

	form.Category = models.CategoryMentalHealth
	form.Urgency = models.UrgencyHigh
	form.Content = "  Exam pressure is overwhelming.  "
	require.True(t, form.CanSubmit())

	require.NoError(t, form.Submit())

	require.Len(t, emitted, 1)
	assert.Equal(t, models.NewSubmission{
		Category: models.CategoryMentalHealth,
		Content:  "Exam pressure is overwhelming.",
		Urgency:  models.UrgencyHigh,
	}, emitted[0])

	assert.Empty(t, string(form.Category))
	assert.Empty(t, form.Content)
	assert.Equal(t, models.UrgencyMedium, form.Urgency)
}

func TestSubmissionForm_SoftCapIsNotAnError(t *testing.T) {
	form := forms.NewSubmissionForm(nil)
	form.Category = models.CategoryOther
	form.Content = strings.Repeat("a", 1200)

	assert.Equal(t, "1200/1000 characters", form.Counter())
	assert.NoError(t, form.Submit())
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Bullying/Harassment", forms.CategoryLabel(models.CategoryBullying))
	assert.Equal(t, "Other", forms.CategoryLabel("unknown"))
	assert.Equal(t, "High Priority", forms.UrgencyLabel(models.UrgencyHigh))

	opts := forms.CategoryOptions()
	require.Len(t, opts, 5)
	assert.Equal(t, "bullying", opts[0].Value)
	assert.Equal(t, "other", opts[4].Value)

	urgencies := forms.UrgencyOptions()
	require.Len(t, urgencies, 3)
	assert.Equal(t, "Low Priority", urgencies[0].Label)
}
