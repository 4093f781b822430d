package domain

import "fmt"

// NotificationKind names the terminal transition a notification reports.
type NotificationKind uint8

const (
	OffToIdle NotificationKind = iota + 1
	OffToSilent
	SilentToIdle
	// BusyToIdle exists as a value only. Leaving Busy does not notify pending contacts.
	BusyToIdle
)

func (k NotificationKind) String() string {
	switch k {
	case OffToIdle:
		return "O2I"
	case OffToSilent:
		return "O2S"
	case SilentToIdle:
		return "S2I"
	case BusyToIdle:
		return "B2I"
	default:
		return "UNKNOWN"
	}
}

// Notification tells a client that a terminal it failed to reach became reachable.
type Notification struct {
	Kind        NotificationKind `json:"kind"`
	TerminalKey string           `json:"terminal"`
}

func (n Notification) String() string {
	return n.Kind.String() + "|" + n.TerminalKey
}

// ParseNotificationKind reads the short form produced by String.
func ParseNotificationKind(s string) (NotificationKind, error) {
	for k := OffToIdle; k <= BusyToIdle; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown notification kind %q", s)
}

func (k NotificationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *NotificationKind) UnmarshalText(text []byte) error {
	v, err := ParseNotificationKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
