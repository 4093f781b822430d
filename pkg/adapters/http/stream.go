package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/prr/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// Event is one server-sent event.
type Event struct {
	Type string
	Data string
}

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- Event]struct{} // Network -> Set of Channels
	logger      *slog.Logger
}

// NewStreamManager creates a manager that reports dropped events to logger.
// A nil logger discards them.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan<- Event]struct{}),
		logger:      logger,
	}
}

func (sm *StreamManager) Subscribe(network string) (chan Event, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Event, 16)
	if _, ok := sm.subscribers[network]; !ok {
		sm.subscribers[network] = make(map[chan<- Event]struct{})
	}
	sm.subscribers[network][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[network]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, network)
			}
		}
	}
}

// Subscribers returns the number of open streams on a network.
func (sm *StreamManager) Subscribers(network string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[network])
}

func (sm *StreamManager) Broadcast(network string, ev Event) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[network] {
		select {
		case ch <- ev:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "network", network, "event", ev.Type)
		}
	}
}

// Hooks returns lifecycle hooks that publish the events of one network to its subscribers.
// Pass it to the engine with WithNetworkHooks.
func (sm *StreamManager) Hooks(network string) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTerminalTransition: func(e *domain.TerminalEvent) { sm.publish(network, e.Type, e) },
		OnCommunicationStart: func(e *domain.CommunicationEvent) { sm.publish(network, e.Type, e) },
		OnCommunicationEnd:   func(e *domain.CommunicationEvent) { sm.publish(network, e.Type, e) },
		OnPayment:            func(e *domain.PaymentEvent) { sm.publish(network, e.Type, e) },
		OnTierChange:         func(e *domain.TierEvent) { sm.publish(network, e.Type, e) },
		OnNotification:       func(e *domain.NotificationEvent) { sm.publish(network, e.Type, e) },
	}
}

func (sm *StreamManager) publish(network string, t domain.EventType, v any) {
	if sm.Subscribers(network) == 0 {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		sm.logger.Warn("SSE: event encode failed", "network", network, "event", t, "err", err)
		return
	}
	sm.Broadcast(network, Event{Type: string(t), Data: string(b)})
}

// SubscribeEvents handles GET /networks/{network}/events (SSE). The optional types query
// parameter keeps only the listed event types, e.g. types=payment,tier_change.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeErr(w, http.StatusInternalServerError, codeInternal, "streaming not supported")
		return
	}

	name := chi.URLParam(r, "network")

	var watch map[string]bool
	if types := r.URL.Query().Get("types"); types != "" {
		watch = make(map[string]bool)
		for _, t := range strings.Split(types, ",") {
			watch[strings.TrimSpace(t)] = true
		}
	}

	ch, cancel := s.Streams.Subscribe(name)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.Logger.Info("SSE: subscribed", "network", name)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE: client disconnected", "network", name)
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if watch != nil && !watch[ev.Type] {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, ev.Data)
			flusher.Flush()
		}
	}
}
