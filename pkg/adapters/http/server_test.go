package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/prr"
	"github.com/aretw0/prr/internal/metrics"
	"github.com/aretw0/prr/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	streams := NewStreamManager(nil)
	eng, err := prr.New(prr.WithNetworkHooks(streams.Hooks))
	require.NoError(t, err)
	return NewHandler(eng, append([]Option{WithStreams(streams)}, opts...)...)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func seed(t *testing.T, h http.Handler) {
	t.Helper()
	rr := do(t, h, "POST", "/networks/n/import", "CLIENT|A1|Ann|100\nCLIENT|B1|Bob|200\nFANCY|111111|A1|ON\nBASIC|222222|B1|ON\n")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestGetHealth(t *testing.T) {
	h := newTestHandler(t)
	rr := do(t, h, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decode[StatusResponse](t, rr).Status)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest("OPTIONS", "/networks/n/clients", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestGetInfo(t *testing.T) {
	h := newTestHandler(t, WithVersion("1.2.3"))
	rr := do(t, h, "GET", "/info", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	info := decode[InfoResponse](t, rr)
	assert.Equal(t, "prr-http", info.App)
	assert.Equal(t, "1.2.3", info.Version)
}

func TestRegistration(t *testing.T) {
	h := newTestHandler(t)

	rr := do(t, h, "POST", "/networks/n/clients", RegisterClientRequest{Key: "A1", Name: "Ann", TaxID: "100"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	c := decode[ClientResponse](t, rr)
	assert.Equal(t, "A1", c.Key)
	assert.Equal(t, domain.TierNormal, c.Tier)
	assert.Empty(t, c.Terminals)

	rr = do(t, h, "POST", "/networks/n/terminals", RegisterTerminalRequest{Kind: "FANCY", Key: "111111", Client: "A1", State: "SILENCE"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	term := decode[TerminalResponse](t, rr)
	assert.Equal(t, "FANCY", term.Kind)
	assert.Equal(t, "SILENCE", term.State)

	rr = do(t, h, "POST", "/networks/n/terminals", RegisterTerminalRequest{Kind: "BASIC", Key: "222222", Client: "A1", State: "ON"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, h, "POST", "/networks/n/terminals/111111/friends", FriendsRequest{Friends: []string{"222222"}})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, []string{"222222"}, decode[TerminalResponse](t, rr).Friends)

	rr = do(t, h, "DELETE", "/networks/n/terminals/111111/friends/222222", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, "GET", "/networks/n/clients/a1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"111111", "222222"}, decode[ClientResponse](t, rr).Terminals)
}

func TestCommunicationFlow(t *testing.T) {
	h := newTestHandler(t)
	seed(t, h)

	rr := do(t, h, "POST", "/networks/n/terminals/111111/text", TextRequest{To: "222222", Message: "hi"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	text := decode[CommunicationResponse](t, rr)
	assert.Equal(t, 1, text.ID)
	assert.Equal(t, domain.CommText, text.Kind)
	assert.Equal(t, domain.Units(10), text.Cost)

	rr = do(t, h, "POST", "/networks/n/terminals/111111/calls", CallRequest{To: "222222", Kind: "voice"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	call := decode[CommunicationResponse](t, rr)
	assert.True(t, call.InProgress)

	rr = do(t, h, "GET", "/networks/n/terminals/222222", nil)
	assert.Equal(t, "BUSY", decode[TerminalResponse](t, rr).State)

	rr = do(t, h, "POST", "/networks/n/terminals/111111/calls/end", EndCallRequest{Duration: 3})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, domain.Units(60), decode[EndCallResponse](t, rr).Cost)

	rr = do(t, h, "POST", "/networks/n/terminals/111111/payments", PayRequest{CommID: 2})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, decode[CommunicationResponse](t, rr).Paid)

	rr = do(t, h, "GET", "/networks/n/totals", nil)
	totals := decode[TotalsResponse](t, rr)
	assert.Equal(t, domain.Units(60), totals.Payments)
	assert.Equal(t, domain.Units(10), totals.Debts)

	rr = do(t, h, "GET", "/networks/n/clients?debt=with", nil)
	debtors := decode[[]ClientResponse](t, rr)
	require.Len(t, debtors, 1)
	assert.Equal(t, "A1", debtors[0].Key)

	rr = do(t, h, "GET", "/networks/n/clients/B1/communications?direction=to", nil)
	assert.Len(t, decode[[]CommunicationResponse](t, rr), 2)

	rr = do(t, h, "GET", "/networks/n/communications", nil)
	assert.Len(t, decode[[]CommunicationResponse](t, rr), 2)

	rr = do(t, h, "GET", "/networks/n/terminals?positive=true", nil)
	positive := decode[[]TerminalResponse](t, rr)
	require.Len(t, positive, 1)
	assert.Equal(t, "111111", positive[0].Key)
}

func TestNotifications(t *testing.T) {
	h := newTestHandler(t)
	seed(t, h)

	require.Equal(t, http.StatusNoContent, do(t, h, "POST", "/networks/n/clients/A1/notifications/enable", nil).Code)
	require.Equal(t, http.StatusOK, do(t, h, "POST", "/networks/n/terminals/222222/off", nil).Code)

	rr := do(t, h, "POST", "/networks/n/terminals/111111/text", TextRequest{To: "222222", Message: "hi"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "DESTINATION_OFF", decode[ErrorResponse](t, rr).Error.Code)

	require.Equal(t, http.StatusOK, do(t, h, "POST", "/networks/n/terminals/222222/on", nil).Code)

	rr = do(t, h, "GET", "/networks/n/clients/A1/notifications", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[[]domain.Notification](t, rr)
	assert.Equal(t, []domain.Notification{{Kind: domain.OffToIdle, TerminalKey: "222222"}}, got)

	rr = do(t, h, "GET", "/networks/n/clients/A1/notifications", nil)
	assert.Empty(t, decode[[]domain.Notification](t, rr), "delivered notifications leave the queue")
}

func TestErrorMapping(t *testing.T) {
	h := newTestHandler(t)
	seed(t, h)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"unknown client", "GET", "/networks/n/clients/Z9", nil, http.StatusNotFound, "UNKNOWN_CLIENT_KEY"},
		{"duplicate client", "POST", "/networks/n/clients", RegisterClientRequest{Key: "a1", Name: "x", TaxID: "1"}, http.StatusConflict, "DUPLICATE_CLIENT_KEY"},
		{"bad tax id", "POST", "/networks/n/clients", RegisterClientRequest{Key: "C1", Name: "x", TaxID: "abc"}, http.StatusBadRequest, "INVALID_TAX_ID"},
		{"already on", "POST", "/networks/n/terminals/111111/on", nil, http.StatusConflict, "TERMINAL_ALREADY_ON"},
		{"video to basic", "POST", "/networks/n/terminals/111111/calls", CallRequest{To: "222222", Kind: "VIDEO"}, http.StatusUnprocessableEntity, "UNSUPPORTED_AT_DESTINATION"},
		{"text is not a call", "POST", "/networks/n/terminals/111111/calls", CallRequest{To: "222222", Kind: "TEXT"}, http.StatusBadRequest, "INVALID_COMMUNICATION_TYPE"},
		{"no ongoing call", "POST", "/networks/n/terminals/111111/calls/end", EndCallRequest{Duration: 1}, http.StatusForbidden, "NO_ONGOING_COMMUNICATION"},
		{"pay unknown comm", "POST", "/networks/n/terminals/111111/payments", PayRequest{CommID: 7}, http.StatusForbidden, "INVALID_COMMUNICATION_KEY"},
		{"malformed json", "POST", "/networks/n/clients", "{", http.StatusBadRequest, codeInvalidRequest},
		{"unknown field", "POST", "/networks/n/clients", `{"key":"C1","age":3}`, http.StatusBadRequest, codeInvalidRequest},
		{"bad debt filter", "GET", "/networks/n/clients?debt=maybe", nil, http.StatusBadRequest, codeInvalidRequest},
		{"bad bool", "GET", "/networks/n/terminals?unused=perhaps", nil, http.StatusBadRequest, codeInvalidRequest},
		{"bad comm id", "GET", "/networks/n/communications/x", nil, http.StatusBadRequest, codeInvalidRequest},
		{"bad import", "POST", "/networks/n/import", "PHONE|1|2|3\n", http.StatusBadRequest, "UNRECOGNIZED_ENTRY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			body := decode[ErrorResponse](t, rr)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	eng, err := prr.New(prr.WithLifecycleHooks(m.Hooks()))
	require.NoError(t, err)
	h := NewHandler(eng, WithGatherer(reg))

	seed(t, h)
	do(t, h, "POST", "/networks/n/terminals/111111/text", TextRequest{To: "222222", Message: "hi"})

	rr := do(t, h, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `prr_communications_started_total{kind="TEXT"} 1`)
}

func TestNoMetricsWithoutGatherer(t *testing.T) {
	h := newTestHandler(t)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/metrics", nil).Code)
}

func TestSubscribeEvents(t *testing.T) {
	h := newTestHandler(t)
	seed(t, h)

	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/networks/n/events?types=communication_start", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	readUntil := func(prefix string) string {
		for lines.Scan() {
			if strings.HasPrefix(lines.Text(), prefix) {
				return lines.Text()
			}
		}
		t.Fatalf("stream ended before %q: %v", prefix, lines.Err())
		return ""
	}

	// The ping is written after the subscription is registered.
	readUntil("data: connected")

	do(t, h, "POST", "/networks/n/terminals/222222/off", nil)
	do(t, h, "POST", "/networks/n/terminals/111111/text", TextRequest{To: "111111", Message: "note"})

	assert.Equal(t, "event: communication_start", readUntil("event: "))
	data := strings.TrimPrefix(readUntil("data: "), "data: ")

	var ev domain.CommunicationEvent
	require.NoError(t, json.Unmarshal([]byte(data), &ev))
	assert.Equal(t, domain.CommText, ev.Kind)
	assert.Equal(t, "111111", ev.Source)
}

func TestStreamManager(t *testing.T) {
	sm := NewStreamManager(nil)
	ch, cancel := sm.Subscribe("n")
	assert.Equal(t, 1, sm.Subscribers("n"))

	sm.Hooks("n").OnPayment(&domain.PaymentEvent{EventBase: domain.NewEventBase(domain.EventPayment), Amount: domain.Units(5)})
	sm.Hooks("other").OnPayment(&domain.PaymentEvent{EventBase: domain.NewEventBase(domain.EventPayment)})

	ev := <-ch
	assert.Equal(t, "payment", ev.Type)
	assert.Contains(t, ev.Data, `"amount":"5.00"`)
	assert.Empty(t, ch)

	cancel()
	cancel()
	assert.Zero(t, sm.Subscribers("n"))
}

func TestStreamManagerLogsDroppedEvents(t *testing.T) {
	var logs bytes.Buffer
	sm := NewStreamManager(slog.New(slog.NewTextHandler(&logs, nil)))
	_, cancel := sm.Subscribe("n")
	defer cancel()

	for i := 0; i < 17; i++ {
		sm.Broadcast("n", Event{Type: "payment", Data: "{}"})
	}
	assert.Contains(t, logs.String(), "dropping message")
	assert.Contains(t, logs.String(), "network=n")
}
