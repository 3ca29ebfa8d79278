package realtime

import "noticeboard/backend/internal/models"

// Client is one live subscription to board changes (normally a websocket connection).
type Client interface {
	// ViewerID returns the profile the connection was opened for.
	ViewerID() string
	// IsAdmin decides whether the client receives submission events.
	IsAdmin() bool
	// SendChannel is where the hub pushes events for this client.
	SendChannel() chan<- models.ChangeEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client; the hub calls it exactly once.
	Close()
}
