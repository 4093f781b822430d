package domain

import "strings"

// State is the connectivity state of a terminal. The set of implementations is closed:
// Idle, Silent, Busy and Off.
type State interface {
	Name() string
	isState()
}

// Resting is a state a terminal can return to when an interactive communication ends.
// Only Idle and Silent implement it, so a Busy state can never remember Busy or Off.
type Resting interface {
	State
	isResting()
}

// Idle terminals are reachable by every communication type.
type Idle struct{}

// Silent terminals take text and may originate anything, but refuse incoming calls.
type Silent struct{}

// Off terminals are unreachable.
type Off struct{}

// Busy terminals are in one interactive communication. Previous is restored when it ends.
type Busy struct {
	Previous Resting
}

func (Idle) Name() string   { return "IDLE" }
func (Silent) Name() string { return "SILENCE" }
func (Off) Name() string    { return "OFF" }
func (Busy) Name() string   { return "BUSY" }

func (Idle) isState()   {}
func (Silent) isState() {}
func (Off) isState()    {}
func (Busy) isState()   {}

func (Idle) isResting()   {}
func (Silent) isResting() {}

// ParseState reads an initial terminal state as written in import files.
// ON and IDLE both mean Idle. BUSY is rejected: a terminal only becomes busy through a
// communication.
func ParseState(s string) (State, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ON", "IDLE":
		return Idle{}, nil
	case "SILENCE", "SILENT":
		return Silent{}, nil
	case "OFF":
		return Off{}, nil
	default:
		return nil, NewError(CodeInvalidTerminalState, s)
	}
}

// ParseResting reads the state a busy terminal will return to.
func ParseResting(s string) (Resting, error) {
	st, err := ParseState(s)
	if err != nil {
		return nil, err
	}
	r, ok := st.(Resting)
	if !ok {
		return nil, NewError(CodeInvalidTerminalState, s)
	}
	return r, nil
}

// Transition is the outcome of a state-changing command. Notify is set when the move
// must be reported to clients with pending contact attempts.
type Transition struct {
	From   State
	To     State
	Notify NotificationKind
}

// Changed reports whether the command moved the terminal.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// TurnOn moves Off and Silent to Idle. Busy ignores the command.
func TurnOn(key string, s State) (Transition, error) {
	switch s.(type) {
	case Off:
		return Transition{From: s, To: Idle{}, Notify: OffToIdle}, nil
	case Silent:
		return Transition{From: s, To: Idle{}, Notify: SilentToIdle}, nil
	case Idle:
		return Transition{}, NewError(CodeAlreadyOn, key)
	default:
		return Transition{From: s, To: s}, nil
	}
}

// Silence moves Off and Idle to Silent. Busy ignores the command.
func Silence(key string, s State) (Transition, error) {
	switch s.(type) {
	case Off:
		return Transition{From: s, To: Silent{}, Notify: OffToSilent}, nil
	case Idle:
		return Transition{From: s, To: Silent{}}, nil
	case Silent:
		return Transition{}, NewError(CodeAlreadySilent, key)
	default:
		return Transition{From: s, To: s}, nil
	}
}

// TurnOff moves Idle and Silent to Off. Busy ignores the command.
func TurnOff(key string, s State) (Transition, error) {
	switch s.(type) {
	case Idle, Silent:
		return Transition{From: s, To: Off{}}, nil
	case Off:
		return Transition{}, NewError(CodeAlreadyOff, key)
	default:
		return Transition{From: s, To: s}, nil
	}
}

// EnterBusy moves a resting terminal into Busy, remembering where it came from.
// Callers check reachability first; any other state is left untouched.
func EnterBusy(s State) Transition {
	if r, ok := s.(Resting); ok {
		return Transition{From: s, To: Busy{Previous: r}}
	}
	return Transition{From: s, To: s}
}

// EndBusy restores the state remembered by Busy. Leaving Busy never notifies.
func EndBusy(s State) Transition {
	if b, ok := s.(Busy); ok {
		return Transition{From: s, To: b.Previous}
	}
	return Transition{From: s, To: s}
}

// CanStartCommunication reports whether a terminal in state s may originate a communication.
func CanStartCommunication(s State) bool {
	switch s.(type) {
	case Idle, Silent:
		return true
	default:
		return false
	}
}

// CanSendText mirrors CanStartCommunication.
func CanSendText(s State) bool {
	return CanStartCommunication(s)
}

// CanReceiveText returns nil when a terminal in state s may receive a text message.
func CanReceiveText(key string, s State) error {
	if _, ok := s.(Off); ok {
		return NewCommError(CodeDestinationOff, key, CommText)
	}
	return nil
}

// CanReceiveInteractive returns nil when a terminal in state s may receive a call of kind.
func CanReceiveInteractive(key string, s State, kind CommKind) error {
	switch s.(type) {
	case Idle:
		return nil
	case Off:
		return NewCommError(CodeDestinationOff, key, kind)
	case Busy:
		return NewCommError(CodeDestinationBusy, key, kind)
	default:
		return NewCommError(CodeDestinationSilent, key, kind)
	}
}
