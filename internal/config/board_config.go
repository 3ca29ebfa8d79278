package config

import "time"

const (
	// Poll
	MinPollOptions = 2
	MaxPollOptions = 4

	// Soft caps, shown as counters only
	PostSoftLimit       = 280
	SubmissionSoftLimit = 1000

	// Short submission ID shown in triage
	ShortIDLength = 8

	// Redis
	ChangesChannel     = "board:changes"
	RevokedTokenPrefix = "revoked:"

	// Session
	TokenIssuer     = "noticeboard-service"
	DefaultTokenTTL = 72 * time.Hour
)

// UrgencyWeights orders submissions in triage: a higher weight is shown first.
var UrgencyWeights = map[string]int{
	"low":    1,
	"medium": 2,
	"high":   3,
}
