package domain

import "strings"

// CommKind is the type of a communication.
type CommKind uint8

const (
	CommUnknown CommKind = iota
	CommText
	CommVoice
	CommVideo
)

// ParseCommKind accepts TEXT, VOICE and VIDEO in any case.
func ParseCommKind(s string) (CommKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TEXT":
		return CommText, nil
	case "VOICE":
		return CommVoice, nil
	case "VIDEO":
		return CommVideo, nil
	default:
		return CommUnknown, NewError(CodeInvalidCommType, s)
	}
}

// Interactive reports whether the kind occupies both terminals until it is ended.
func (k CommKind) Interactive() bool {
	return k == CommVoice || k == CommVideo
}

func (k CommKind) String() string {
	switch k {
	case CommText:
		return "TEXT"
	case CommVoice:
		return "VOICE"
	case CommVideo:
		return "VIDEO"
	default:
		return "UNKNOWN"
	}
}

// MarshalText writes the kind name, so events read "VOICE" rather than a number.
func (k CommKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *CommKind) UnmarshalText(text []byte) error {
	v, err := ParseCommKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
