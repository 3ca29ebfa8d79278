package realtime

import (
	"context"

	"github.com/lib/pq"
)

func ForwardForTest(l *PGListener, ctx context.Context, notify <-chan *pq.Notification) error {
	return l.forward(ctx, notify, func() error { return nil })
}
