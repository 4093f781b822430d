package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventTerminalTransition EventType = "terminal_transition"
	EventCommunicationStart EventType = "communication_start"
	EventCommunicationEnd   EventType = "communication_end"
	EventPayment            EventType = "payment"
	EventTierChange         EventType = "tier_change"
	EventNotification       EventType = "notification"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NewEventBase stamps an event of type t with the current time.
func NewEventBase(t EventType) EventBase {
	return EventBase{Timestamp: time.Now(), Type: t}
}

// TerminalEvent reports a terminal state change.
type TerminalEvent struct {
	EventBase
	TerminalKey string `json:"terminal_key"`
	From        string `json:"from"`
	To          string `json:"to"`
}

// CommunicationEvent reports the start or the end of a communication. Cost is set once the
// communication is completed.
type CommunicationEvent struct {
	EventBase
	ID          int      `json:"id"`
	Kind        CommKind `json:"kind"`
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	Tier        TierKind `json:"tier"`
	Cost        Money    `json:"cost"`
}

// PaymentEvent reports a paid communication.
type PaymentEvent struct {
	EventBase
	ClientKey   string `json:"client_key"`
	TerminalKey string `json:"terminal_key"`
	CommID      int    `json:"comm_id"`
	Amount      Money  `json:"amount"`
}

// TierEvent reports a client moving between tiers.
type TierEvent struct {
	EventBase
	ClientKey string   `json:"client_key"`
	From      TierKind `json:"from"`
	To        TierKind `json:"to"`
}

// NotificationEvent reports a notification queued for a client.
type NotificationEvent struct {
	EventBase
	ClientKey    string       `json:"client_key"`
	Notification Notification `json:"notification"`
}

// LifecycleHooks defines callbacks for network observability. Nil hooks are skipped.
type LifecycleHooks struct {
	OnTerminalTransition func(*TerminalEvent)
	OnCommunicationStart func(*CommunicationEvent)
	OnCommunicationEnd   func(*CommunicationEvent)
	OnPayment            func(*PaymentEvent)
	OnTierChange         func(*TierEvent)
	OnNotification       func(*NotificationEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTerminalTransition: chain(h.OnTerminalTransition, other.OnTerminalTransition),
		OnCommunicationStart: chain(h.OnCommunicationStart, other.OnCommunicationStart),
		OnCommunicationEnd:   chain(h.OnCommunicationEnd, other.OnCommunicationEnd),
		OnPayment:            chain(h.OnPayment, other.OnPayment),
		OnTierChange:         chain(h.OnTierChange, other.OnTierChange),
		OnNotification:       chain(h.OnNotification, other.OnNotification),
	}
}

func chain[E any](a, b func(E)) func(E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e E) {
		a(e)
		b(e)
	}
}
