package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/servicedesk/sla-agent/internal/config"
	"github.com/servicedesk/sla-agent/internal/events"
)

// WebhookPoster delivers a JSON payload to url.
type WebhookPoster func(ctx context.Context, url string, payload any, timeout time.Duration) error

// AlertPayload is the JSON body posted to the breach alert webhook.
type AlertPayload struct {
	Breached  int      `json:"breached"`
	AtRisk    int      `json:"at_risk"`
	Total     int      `json:"total"`
	TicketIDs []string `json:"ticket_ids"`
}

// NewAlertPayload lists breached tickets before at-risk ones.
func NewAlertPayload(p events.SnapshotPublishedPayload) AlertPayload {
	ids := make([]string, 0, len(p.BreachedIDs)+len(p.AtRiskIDs))
	ids = append(ids, p.BreachedIDs...)
	ids = append(ids, p.AtRiskIDs...)
	return AlertPayload{
		Breached:  p.Breached,
		AtRisk:    p.AtRisk,
		Total:     p.Total,
		TicketIDs: ids,
	}
}

// AlertService reports breached and at-risk tickets whenever a snapshot is published.
type AlertService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	post       WebhookPoster
}

// NewAlertService creates the service. A nil poster uses the fiber HTTP client.
func NewAlertService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig, post WebhookPoster) *AlertService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if post == nil {
		post = postJSON
	}
	return &AlertService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		post:       post,
	}
}

// RegisterHandlers subscribes to events.
func (a *AlertService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventSnapshotPublished, a.handleSnapshotPublished)
	a.dispatcher.Subscribe(events.EventSnapshotLoadFailed, a.handleSnapshotLoadFailed)
}

func (a *AlertService) handleSnapshotPublished(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SnapshotPublishedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	a.logger.Info("SnapshotPublished",
		zap.String("event_id", event.ID),
		zap.Int("total", payload.Total),
		zap.Int("breached", payload.Breached),
		zap.Int("at_risk", payload.AtRisk))

	if payload.Breached == 0 && payload.AtRisk == 0 {
		return nil
	}
	return a.sendWebhook(ctx, event.ID, NewAlertPayload(payload))
}

func (a *AlertService) handleSnapshotLoadFailed(ctx context.Context, event events.Event) error {
	a.logger.Warn("SnapshotLoadFailed", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return nil
}

func (a *AlertService) sendWebhook(ctx context.Context, eventID string, alert AlertPayload) error {
	url := strings.TrimSpace(a.cfg.WebhookURL)
	if url == "" {
		return nil
	}
	if err := a.post(ctx, url, alert, a.cfg.WebhookTimeout()); err != nil {
		a.logger.Error("breach alert delivery failed", zap.String("url", url), zap.Error(err))
		return err
	}
	a.logger.Debug("breach alert delivered", zap.String("url", url), zap.String("event_id", eventID))
	return nil
}

type webhookResult struct {
	code int
	body []byte
	errs []error
}

// postJSON sends payload with the fiber client. The request timeout is
// clamped to the context deadline and cancellation abandons the wait.
func postJSON(ctx context.Context, url string, payload any, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.Post(url).JSON(payload).Timeout(timeout)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return err
	}

	done := make(chan webhookResult, 1)
	go func() {
		code, body, errs := agent.Bytes()
		done <- webhookResult{code: code, body: body, errs: errs}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-done:
		if len(res.errs) > 0 {
			return errors.Join(res.errs...)
		}
		if res.code >= 300 {
			return fmt.Errorf("webhook responded %d: %s", res.code, truncate(string(res.body), 200))
		}
		return nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
