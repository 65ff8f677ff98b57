package services

import (
	"context"
	"sync"
	"time"

	"gabber/annotator/internal/logging"
	"gabber/annotator/internal/metrics"
	"gabber/annotator/internal/providers"

	"golang.org/x/sync/errgroup"
)

const notifyTimeout = 15 * time.Second

// Dispatcher sends notifications in the background after the triggering
// mutation committed. Failures are logged and counted, never returned.
type Dispatcher struct {
	notifier providers.Notifier
	metrics  *metrics.MetricsRegistry
	group    errgroup.Group
	pending  sync.WaitGroup
}

// NewDispatcher bounds concurrent deliveries to workers
func NewDispatcher(notifier providers.Notifier, m *metrics.MetricsRegistry, workers int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	d := &Dispatcher{notifier: notifier, metrics: m}
	d.group.SetLimit(workers)
	return d
}

// Email queues an action email
func (d *Dispatcher) Email(recipient string, email providers.ActionEmail) {
	d.submit("email", func(ctx context.Context) error {
		return d.notifier.SendActionEmail(ctx, recipient, email)
	}, "recipient", recipient, "subject", email.Subject)
}

// Push queues a push notification; empty device tokens are ignored
func (d *Dispatcher) Push(deviceToken *string, title, body string, data map[string]string) {
	if deviceToken == nil || *deviceToken == "" {
		return
	}
	token := *deviceToken
	d.submit("push", func(ctx context.Context) error {
		return d.notifier.SendPush(ctx, token, title, body, data)
	}, "title", title)
}

func (d *Dispatcher) submit(channel string, send func(ctx context.Context) error, kv ...interface{}) {
	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		// Go blocks while all workers are busy; that wait stays off the request path
		d.group.Go(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()

			if err := send(ctx); err != nil {
				logging.Warn("Notification delivery failed", append(kv, "channel", channel, "error", err)...)
				d.metrics.Notification(channel, "failed")
				return nil
			}
			d.metrics.Notification(channel, "sent")
			return nil
		})
	}()
}

// Wait blocks until every queued notification was attempted
func (d *Dispatcher) Wait() {
	d.pending.Wait()
	_ = d.group.Wait()
}
