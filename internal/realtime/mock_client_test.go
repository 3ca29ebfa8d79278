package realtime_test

import (
	"sync/atomic"

	"noticeboard/backend/internal/models"
)

type MockClient struct {
	viewerID    string
	admin       bool
	RecvChannel chan models.ChangeEvent
	closed      atomic.Int32
}

func newMockClient(viewerID string, admin bool, buffer int) *MockClient {
	return &MockClient{
		viewerID:    viewerID,
		admin:       admin,
		RecvChannel: make(chan models.ChangeEvent, buffer),
	}
}

func (c *MockClient) ViewerID() string { return c.viewerID }

func (c *MockClient) IsAdmin() bool { return c.admin }

func (c *MockClient) SendChannel() chan<- models.ChangeEvent {
	return c.RecvChannel
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.closed.Add(1)
}

func (c *MockClient) Closed() int {
	return int(c.closed.Load())
}
