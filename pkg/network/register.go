package network

import (
	"strconv"
	"strings"

	"github.com/aretw0/prr/pkg/domain"
)

// Import record tags understood by RegisterEntry.
const (
	TagClient  = "CLIENT"
	TagBasic   = "BASIC"
	TagFancy   = "FANCY"
	TagFriends = "FRIENDS"
)

// RegisterClient adds a client. The tax identifier must be a non-negative integer.
func (n *Network) RegisterClient(key, name, taxID string) error {
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsRune(key, '|') {
		return domain.NewError(domain.CodeInvalidClientKey, key)
	}
	if _, ok := n.clients[clientIndex(key)]; ok {
		return domain.NewError(domain.CodeDuplicateClientKey, key)
	}
	taxID = strings.TrimSpace(taxID)
	if v, err := strconv.Atoi(taxID); err != nil || v < 0 {
		return domain.NewError(domain.CodeInvalidTaxID, taxID)
	}

	n.clients[clientIndex(key)] = newClient(key, name, taxID)
	n.touch()
	n.logger.Debug("client registered", "client", key)
	return nil
}

// RegisterTerminal adds a terminal of the given kind for an existing client. The initial state
// is one of ON, SILENCE or OFF.
func (n *Network) RegisterTerminal(kind, key, clientKey, state string) error {
	k, err := ParseTerminalKind(kind)
	if err != nil {
		return err
	}
	c, err := n.Client(clientKey)
	if err != nil {
		return err
	}
	if !ValidTerminalKey(key) {
		return domain.NewError(domain.CodeInvalidTerminalKey, key)
	}
	if _, ok := n.terminals[key]; ok {
		return domain.NewError(domain.CodeDuplicateTerminalKey, key)
	}
	st, err := domain.ParseState(state)
	if err != nil {
		return err
	}

	n.terminals[key] = newTerminal(key, k, c.key, st)
	c.addTerminal(key)
	n.touch()
	n.logger.Debug("terminal registered", "terminal", key, "client", c.key, "kind", k, "state", st.Name())
	return nil
}

// RegisterFriend adds friendKey to the friends of terminalKey. Adding a terminal to itself or
// adding an existing friend again is a no-op.
func (n *Network) RegisterFriend(terminalKey, friendKey string) error {
	return n.RegisterFriends(terminalKey, friendKey)
}

// RegisterFriends adds several friends at once. Every key is checked before any is added.
func (n *Network) RegisterFriends(terminalKey string, friendKeys ...string) error {
	t, err := n.Terminal(terminalKey)
	if err != nil {
		return err
	}
	for _, f := range friendKeys {
		if _, err := n.Terminal(f); err != nil {
			return err
		}
	}

	for _, f := range friendKeys {
		if f == t.key || t.IsFriend(f) {
			continue
		}
		t.friends[f] = struct{}{}
		n.touch()
	}
	return nil
}

// RemoveFriend drops friendKey from the friends of terminalKey. Removing a terminal that is
// not a friend is a no-op.
func (n *Network) RemoveFriend(terminalKey, friendKey string) error {
	t, err := n.Terminal(terminalKey)
	if err != nil {
		return err
	}
	if _, err := n.Terminal(friendKey); err != nil {
		return err
	}
	if !t.IsFriend(friendKey) {
		return nil
	}
	delete(t.friends, friendKey)
	n.touch()
	return nil
}

// RegisterEntry dispatches one import record:
//
//	CLIENT|key|name|taxID
//	BASIC|key|clientKey|state
//	FANCY|key|clientKey|state
//	FRIENDS|key|friend1,friend2,...
//
// Fields are trimmed. Unknown tags and wrong field counts fail with UNRECOGNIZED_ENTRY.
func (n *Network) RegisterEntry(fields ...string) error {
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) == 0 {
		return domain.NewError(domain.CodeUnrecognizedEntry, "")
	}

	switch tag := strings.ToUpper(fields[0]); {
	case tag == TagClient && len(fields) == 4:
		return n.RegisterClient(fields[1], fields[2], fields[3])
	case (tag == TagBasic || tag == TagFancy) && len(fields) == 4:
		return n.RegisterTerminal(tag, fields[1], fields[2], fields[3])
	case tag == TagFriends && len(fields) == 3:
		return n.RegisterFriends(fields[1], splitList(fields[2])...)
	default:
		return domain.NewError(domain.CodeUnrecognizedEntry, strings.Join(fields, "|"))
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
