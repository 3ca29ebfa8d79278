// Package forms holds the local state and validation of the two input forms:
// the anonymous submission form and the post composer.
//
// Both forms reject an incomplete submit with a *models.ValidationError and never emit in that case.
package forms

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"noticeboard/backend/internal/config"
	"noticeboard/backend/internal/models"
)

// Option is a selectable value with its display label.
type Option struct {
	Value string
	Label string
}

var categoryLabels = map[models.Category]string{
	models.CategoryBullying:     "Bullying/Harassment",
	models.CategoryMentalHealth: "Mental Health",
	models.CategoryAcademic:     "Academic Issues",
	models.CategorySafety:       "Safety Concerns",
	models.CategoryOther:        "Other",
}

// CategoryLabel returns the display label of c, falling back to "Other" for unknown values.
func CategoryLabel(c models.Category) string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return categoryLabels[models.CategoryOther]
}

// UrgencyLabel returns e.g. "High Priority".
func UrgencyLabel(u models.Urgency) string {
	s := string(u)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:] + " Priority"
}

// CategoryOptions lists the categories in display order.
func CategoryOptions() []Option {
	opts := make([]Option, 0, len(models.Categories))
	for _, c := range models.Categories {
		opts = append(opts, Option{Value: string(c), Label: CategoryLabel(c)})
	}
	return opts
}

func UrgencyOptions() []Option {
	levels := []models.Urgency{models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh}
	opts := make([]Option, 0, len(levels))
	for _, u := range levels {
		opts = append(opts, Option{Value: string(u), Label: UrgencyLabel(u)})
	}
	return opts
}

// SubmissionForm collects an anonymous report. It never persists anything itself.
type SubmissionForm struct {
	Category models.Category
	Urgency  models.Urgency
	Content  string

	// OnSubmit receives every accepted submission.
	OnSubmit func(models.NewSubmission)
}

func NewSubmissionForm(onSubmit func(models.NewSubmission)) *SubmissionForm {
	return &SubmissionForm{
		Urgency:  models.UrgencyMedium,
		OnSubmit: onSubmit,
	}
}

// Counter is the soft-cap counter shown under the text area. Exceeding the cap is not an error.
func (f *SubmissionForm) Counter() string {
	return fmt.Sprintf("%d/%d characters", utf8.RuneCountInString(f.Content), config.SubmissionSoftLimit)
}

func (f *SubmissionForm) CanSubmit() bool {
	return f.validate() == nil
}

// Submit validates the form, emits the submission and clears the fields.
func (f *SubmissionForm) Submit() error {
	if err := f.validate(); err != nil {
		return err
	}

	urgency := f.Urgency
	if urgency == "" {
		urgency = models.UrgencyMedium
	}
	sub := models.NewSubmission{
		Category: f.Category,
		Content:  strings.TrimSpace(f.Content),
		Urgency:  urgency,
	}

	if f.OnSubmit != nil {
		f.OnSubmit(sub)
	}
	f.Reset()
	return nil
}

func (f *SubmissionForm) Reset() {
	f.Category = ""
	f.Content = ""
	f.Urgency = models.UrgencyMedium
}

func (f *SubmissionForm) validate() error {
	return ValidateSubmission(models.NewSubmission{
		Category: f.Category,
		Content:  f.Content,
		Urgency:  f.Urgency,
	})
}

// ValidateSubmission checks a submission payload. An empty urgency is accepted and means medium.
func ValidateSubmission(s models.NewSubmission) error {
	if s.Category == "" {
		return &models.ValidationError{Field: "category", Message: "please select a category"}
	}
	if !s.Category.Valid() {
		return &models.ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", s.Category)}
	}
	if s.Urgency != "" && !s.Urgency.Valid() {
		return &models.ValidationError{Field: "urgency", Message: fmt.Sprintf("unknown urgency %q", s.Urgency)}
	}
	if strings.TrimSpace(s.Content) == "" {
		return &models.ValidationError{Field: "content", Message: "message cannot be empty"}
	}
	return nil
}
