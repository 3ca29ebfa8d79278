package analysis

import (
	"testing"

	"noticeboard/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestWeight(t *testing.T) {
	assert.Equal(t, 3, Weight(models.UrgencyHigh))
	assert.Equal(t, 2, Weight(models.UrgencyMedium))
	assert.Equal(t, 1, Weight(models.UrgencyLow))
	assert.Equal(t, 0, Weight("critical"))
}

func TestHeavier(t *testing.T) {
	assert.True(t, Heavier(models.UrgencyHigh, models.UrgencyLow))
	assert.False(t, Heavier(models.UrgencyMedium, models.UrgencyMedium))
	assert.False(t, Heavier("", models.UrgencyLow))
}
