package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/uap-campus/campus-fixer/internal/config"
	"github.com/uap-campus/campus-fixer/internal/domain"
	"github.com/uap-campus/campus-fixer/internal/events"
	"github.com/uap-campus/campus-fixer/internal/observability"
	"github.com/uap-campus/campus-fixer/internal/sms"
)

// NotificationWorker delivers the admin SMS for newly created issues. Events
// are buffered on a channel and sent from a dedicated goroutine so the
// reporting request never waits on the gateway. Delivery failures are logged
// and dropped; they must not affect the already-persisted issue.
type NotificationWorker struct {
	gateway    sms.Gateway
	logger     *zap.Logger
	metrics    *observability.Metrics
	adminPhone string

	queue chan events.Event
	wg    sync.WaitGroup
	once  sync.Once
}

// NewNotificationWorker constructs the worker.
func NewNotificationWorker(gateway sms.Gateway, logger *zap.Logger, metrics *observability.Metrics, cfg config.SMSConfig) *NotificationWorker {
	return &NotificationWorker{
		gateway:    gateway,
		logger:     logger,
		metrics:    metrics,
		adminPhone: cfg.AdminPhone,
		queue:      make(chan events.Event, 64),
	}
}

// Start subscribes to issue creation events and launches the send loop.
func (w *NotificationWorker) Start(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventIssueCreated, w.enqueue)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for event := range w.queue {
			w.deliver(event)
		}
	}()
}

// Close stops accepting events and waits for queued sends to finish.
func (w *NotificationWorker) Close() {
	w.once.Do(func() {
		close(w.queue)
	})
	w.wg.Wait()
}

func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full; dropping event", zap.String("ticket_id", event.TicketID))
		w.metrics.RecordSMS("dropped")
	}
	return nil
}

func (w *NotificationWorker) deliver(event events.Event) {
	payload, ok := event.Payload.(events.IssueCreatedPayload)
	if !ok {
		return
	}
	if w.adminPhone == "" {
		w.logger.Debug("admin phone not configured; skipping notification", zap.String("ticket_id", event.TicketID))
		return
	}

	message := CreationMessage(event.TicketID, payload.Category, payload.Priority, payload.Emergency)
	result := w.gateway.Send(context.Background(), message, w.adminPhone)
	if result.Failed {
		w.logger.Warn("sms delivery failed",
			zap.String("ticket_id", event.TicketID),
			zap.String("reason", result.Message))
		w.metrics.RecordSMS("failed")
		return
	}
	w.logger.Info("sms delivered", zap.String("ticket_id", event.TicketID))
	w.metrics.RecordSMS("sent")
}

// CreationMessage renders the admin notification text for a new issue.
func CreationMessage(ticketID string, category domain.IssueCategory, priority domain.IssuePriority, emergency bool) string {
	emergencyStatus := "Normal"
	if emergency {
		emergencyStatus = "EMERGENCY"
	}
	return fmt.Sprintf("New Issue Created!\nTicket: %s\nCategory: %s\nPriority: %s\nEmergency: %s",
		ticketID, category, priority, emergencyStatus)
}
