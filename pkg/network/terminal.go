package network

import (
	"sort"
	"strings"

	"github.com/aretw0/prr/pkg/domain"
)

// TerminalKind is the hardware variant of a terminal.
type TerminalKind uint8

const (
	// KindBasic terminals support text and voice.
	KindBasic TerminalKind = iota + 1
	// KindFancy terminals also support video.
	KindFancy
)

func (k TerminalKind) String() string {
	switch k {
	case KindBasic:
		return "BASIC"
	case KindFancy:
		return "FANCY"
	default:
		return "UNKNOWN"
	}
}

// Supports reports whether a terminal of this kind can take part in a communication of kind c.
func (k TerminalKind) Supports(c domain.CommKind) bool {
	switch c {
	case domain.CommText, domain.CommVoice:
		return k == KindBasic || k == KindFancy
	case domain.CommVideo:
		return k == KindFancy
	default:
		return false
	}
}

// ParseTerminalKind accepts BASIC and FANCY in any case.
func ParseTerminalKind(s string) (TerminalKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BASIC":
		return KindBasic, nil
	case "FANCY":
		return KindFancy, nil
	default:
		return 0, domain.NewError(domain.CodeInvalidTerminalKind, s)
	}
}

// ValidTerminalKey reports whether key is exactly six ASCII digits.
func ValidTerminalKey(key string) bool {
	if len(key) != 6 {
		return false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return false
		}
	}
	return true
}

// Terminal is a device owned by exactly one client.
type Terminal struct {
	key   string
	kind  TerminalKind
	owner string
	state domain.State

	payments domain.Money
	debts    domain.Money

	friends map[string]struct{}
	comms   []int

	// ongoing is the id of the interactive communication keeping the terminal busy, 0 when none.
	ongoing  int
	attempts map[string]struct{}
}

func newTerminal(key string, kind TerminalKind, owner string, state domain.State) *Terminal {
	return &Terminal{
		key:      key,
		kind:     kind,
		owner:    owner,
		state:    state,
		friends:  make(map[string]struct{}),
		attempts: make(map[string]struct{}),
	}
}

func (t *Terminal) Key() string            { return t.key }
func (t *Terminal) Kind() TerminalKind     { return t.kind }
func (t *Terminal) Owner() string          { return t.owner }
func (t *Terminal) State() domain.State    { return t.state }
func (t *Terminal) Payments() domain.Money { return t.payments }
func (t *Terminal) Debts() domain.Money    { return t.debts }
func (t *Terminal) Balance() domain.Money  { return t.payments - t.debts }
func (t *Terminal) Unused() bool           { return len(t.comms) == 0 }
func (t *Terminal) PositiveBalance() bool  { return t.payments > t.debts }

// Supports reports whether the terminal can take part in a communication of kind c.
func (t *Terminal) Supports(c domain.CommKind) bool {
	return t.kind.Supports(c)
}

// IsFriend reports whether key is in this terminal's friend list. Friendship is directed.
func (t *Terminal) IsFriend(key string) bool {
	_, ok := t.friends[key]
	return ok
}

// Friends returns the friend keys in ascending order.
func (t *Terminal) Friends() []string {
	return sortedKeys(t.friends)
}

// Communications returns the ids of every communication this terminal originated or received,
// in ascending order.
func (t *Terminal) Communications() []int {
	return append([]int(nil), t.comms...)
}

// Ongoing returns the id of the interactive communication the terminal is part of.
func (t *Terminal) Ongoing() (int, bool) {
	return t.ongoing, t.ongoing != 0
}

// ContactAttempts returns the keys of clients waiting for this terminal to become reachable.
func (t *Terminal) ContactAttempts() []string {
	return sortedKeys(t.attempts)
}

func (t *Terminal) file(id int) {
	if n := len(t.comms); n > 0 && t.comms[n-1] == id {
		return
	}
	t.comms = append(t.comms, id)
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
