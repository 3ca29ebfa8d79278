// Package analysis weighs anonymous submissions for triage.
// A heavier submission is shown to the administration first.
package analysis

import (
	"noticeboard/backend/internal/config"
	"noticeboard/backend/internal/models"
)

// Weight returns the triage weight of an urgency level.
// It returns 0 if the urgency is not recognized, so unknown values sink to the bottom.
func Weight(u models.Urgency) int {
	return config.UrgencyWeights[string(u)]
}

// Heavier reports whether a must be triaged before b by urgency alone.
func Heavier(a, b models.Urgency) bool {
	return Weight(a) > Weight(b)
}
