package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/servicedesk/sla-agent/internal/api/dto"
	"github.com/servicedesk/sla-agent/internal/api/http/handlers"
	"github.com/servicedesk/sla-agent/internal/config"
	"github.com/servicedesk/sla-agent/internal/domain"
	"github.com/servicedesk/sla-agent/internal/observability"
	"github.com/servicedesk/sla-agent/internal/service"
	"github.com/servicedesk/sla-agent/internal/sla"
	"github.com/servicedesk/sla-agent/internal/store"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type stubSource struct {
	records []domain.RawTicket
}

func (s stubSource) Name() string { return "stub" }

func (s stubSource) Load(context.Context) ([]domain.RawTicket, error) { return s.records, nil }

func sampleRecords() []domain.RawTicket {
	return []domain.RawTicket{
		{"id": "INC-001", "title": "Email outage", "priority": "High", "status": "breach",
			"assigned_to": "alex", "created_at": now.Add(-2 * time.Hour).Format(time.RFC3339)},
		{"id": "INC-002", "title": "Slow VPN", "priority": "Medium", "sla_due": now.Add(5 * time.Hour).Format(time.RFC3339)},
		{"id": "INC-003", "title": "Laptop request", "priority": "Low", "sla_due": now.Add(100 * time.Hour).Format(time.RFC3339)},
		{"ticket_id": "REQ-010", "title": "Password reset", "priority": "High", "assignee": "kim"},
	}
}

func newTestApp(t *testing.T, records []domain.RawTicket) (*fiber.App, *observability.Metrics) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	st := store.New(store.Dependencies{
		Source:     stubSource{records: records},
		Normalizer: sla.NewNormalizer(sla.WithClock(func() time.Time { return now })),
		Logger:     logger,
	})
	require.NoError(t, st.Reload(context.Background()))

	tickets := service.NewTicketService(st)
	metrics := observability.NewMetrics()
	app := NewApp("sla-agent", logger, metrics, config.CORSConfig{AllowOrigins: "*"}, RouteConfig{
		Health:  handlers.NewHealthHandler("sla-agent"),
		Tickets: handlers.NewTicketsHandler(tickets),
		Metrics: handlers.NewMetricsHandler(tickets),
		Chat:    handlers.NewChatHandler(service.NewChatService(st, "support@example.com")),
	})
	return app, metrics
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestIndexAndHealth(t *testing.T) {
	app, _ := newTestApp(t, sampleRecords())

	status, body := do(t, app, fiber.MethodGet, "/", "")
	require.Equal(t, fiber.StatusOK, status)
	index := decode[dto.IndexResponse](t, body)
	assert.Contains(t, index.Endpoints, "/metrics/summary")
	assert.Len(t, index.Endpoints, 6)

	status, body = do(t, app, fiber.MethodGet, "/health", "")
	require.Equal(t, fiber.StatusOK, status)
	health := decode[dto.HealthResponse](t, body)
	assert.Equal(t, "ok", health.Status)
	_, err := time.Parse(time.RFC3339Nano, health.Time)
	assert.NoError(t, err)
}

func TestListTickets(t *testing.T) {
	app, _ := newTestApp(t, sampleRecords())

	status, body := do(t, app, fiber.MethodGet, "/tickets", "")
	require.Equal(t, fiber.StatusOK, status)
	all := decode[dto.TicketListResponse](t, body)
	assert.Equal(t, 4, all.Count)
	for _, ticket := range all.Tickets {
		assert.Contains(t, []domain.SLAStatus{domain.SLAStatusBreached, domain.SLAStatusAtRisk, domain.SLAStatusOK}, ticket.Status)
		_, err := time.Parse(time.RFC3339, ticket.SLADue)
		assert.NoError(t, err)
	}

	_, upper := do(t, app, fiber.MethodGet, "/tickets?priority=High", "")
	_, lower := do(t, app, fiber.MethodGet, "/tickets?priority=high", "")
	assert.JSONEq(t, string(upper), string(lower))
	assert.Equal(t, 2, decode[dto.TicketListResponse](t, upper).Count)

	_, body = do(t, app, fiber.MethodGet, "/tickets?status=BREACHED&priority=high", "")
	breachedHigh := decode[dto.TicketListResponse](t, body)
	require.Equal(t, 1, breachedHigh.Count)
	assert.Equal(t, "INC-001", breachedHigh.Tickets[0].ID)

	_, body = do(t, app, fiber.MethodGet, "/tickets?status=closed", "")
	assert.JSONEq(t, `{"count":0,"tickets":[]}`, string(body))
}

func TestGetTicket(t *testing.T) {
	app, _ := newTestApp(t, sampleRecords())

	status, body := do(t, app, fiber.MethodGet, "/tickets/INC-001", "")
	require.Equal(t, fiber.StatusOK, status)
	ticket := decode[dto.TicketResponse](t, body)
	assert.Equal(t, "Email outage", ticket.Title)
	assert.Equal(t, domain.SLAStatusBreached, ticket.Status)
	assert.Equal(t, "2025-03-10T14:00:00Z", ticket.SLADue)
	assert.Equal(t, 2.0, ticket.HoursLeft)
	require.NotNil(t, ticket.CreatedAt)

	_, body = do(t, app, fiber.MethodGet, "/tickets/REQ-010", "")
	req := decode[dto.TicketResponse](t, body)
	assert.Equal(t, "kim", req.AssignedTo)
	assert.Nil(t, req.CreatedAt)

	status, body = do(t, app, fiber.MethodGet, "/tickets/inc-001", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, string(body), `"NOT_FOUND"`)
}

func TestGetTicketEscapedID(t *testing.T) {
	records := append(sampleRecords(), domain.RawTicket{"id": "INC 001", "title": "Spaced id", "priority": "Low"})
	app, _ := newTestApp(t, records)

	status, body := do(t, app, fiber.MethodGet, "/tickets/INC%20001", "")

	require.Equal(t, fiber.StatusOK, status, string(body))
	ticket := decode[dto.TicketResponse](t, body)
	assert.Equal(t, "INC 001", ticket.ID)
	assert.Equal(t, "Spaced id", ticket.Title)
}

func TestSearch(t *testing.T) {
	app, _ := newTestApp(t, sampleRecords())

	for _, target := range []string{"/search", "/search?q=", "/search?q=%20%20"} {
		status, body := do(t, app, fiber.MethodGet, target, "")
		assert.Equal(t, fiber.StatusBadRequest, status, target)
		assert.Contains(t, string(body), "missing search query")
	}

	status, body := do(t, app, fiber.MethodGet, "/search?q=INC", "")
	require.Equal(t, fiber.StatusOK, status)
	res := decode[dto.SearchResponse](t, body)
	assert.Equal(t, "inc", res.Query)
	assert.Equal(t, 3, res.Count)

	_, body = do(t, app, fiber.MethodGet, "/search?q=password", "")
	res = decode[dto.SearchResponse](t, body)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, "REQ-010", res.Results[0].ID)
}

func TestSummary(t *testing.T) {
	t.Run("populated", func(t *testing.T) {
		app, _ := newTestApp(t, sampleRecords())

		status, body := do(t, app, fiber.MethodGet, "/metrics/summary", "")
		require.Equal(t, fiber.StatusOK, status)
		assert.JSONEq(t, `{
			"total_tickets": 4,
			"by_priority": {"High": 2, "Medium": 1, "Low": 1},
			"by_status": {"breached": 1, "at-risk": 2, "ok": 1},
			"breached_count": 1,
			"sla_achievement_rate_pct": 75
		}`, string(body))
	})

	t.Run("empty dataset", func(t *testing.T) {
		app, _ := newTestApp(t, nil)

		_, body := do(t, app, fiber.MethodGet, "/metrics/summary", "")
		assert.JSONEq(t, `{
			"total_tickets": 0,
			"by_priority": {"High": 0, "Medium": 0, "Low": 0},
			"by_status": {"breached": 0, "at-risk": 0, "ok": 0},
			"breached_count": 0,
			"sla_achievement_rate_pct": 0
		}`, string(body))
	})
}

func TestChat(t *testing.T) {
	app, _ := newTestApp(t, sampleRecords())

	status, body := do(t, app, fiber.MethodPost, "/chat", `{"message":"ticket inc-1"}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Ticket INC-001: Email outage. Status: breached. Priority: High. Assigned to: alex. Hours left: 2.0.",
		decode[dto.ChatResponse](t, body).Response)

	_, body = do(t, app, fiber.MethodPost, "/chat", `{"message":"ticket 9"}`)
	assert.Contains(t, decode[dto.ChatResponse](t, body).Response, "INC-009")

	for _, payload := range []string{`{not json`, `{"message": 5}`, `{}`} {
		status, body = do(t, app, fiber.MethodPost, "/chat", payload)
		assert.Equal(t, fiber.StatusOK, status, payload)
		assert.Contains(t, decode[dto.ChatResponse](t, body).Response, "Type 'menu'", payload)
	}

	status, body = do(t, app, fiber.MethodPost, "/chat", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, decode[dto.ChatResponse](t, body).Response, "Type 'menu'")
}

func TestCORSAndRequestID(t *testing.T) {
	app, metrics := newTestApp(t, nil)

	req := httptest.NewRequest(fiber.MethodGet, "/health", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://dashboard.local")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.NotEmpty(t, resp.Header.Get(observability.RequestIDHeader))
	assert.Equal(t, int64(1), metrics.Snapshot().TotalRequests)
}

func TestUnknownRoute(t *testing.T) {
	app, metrics := newTestApp(t, nil)

	status, body := do(t, app, fiber.MethodGet, "/nope", "")

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, string(body), `"NOT_FOUND"`)
	assert.Equal(t, int64(1), metrics.Snapshot().Errors["/nope|GET|NOT_FOUND"])
}
