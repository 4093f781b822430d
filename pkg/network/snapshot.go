package network

import (
	"errors"
	"fmt"

	"github.com/aretw0/prr/pkg/domain"
)

// SnapshotVersion is the layout version written by Snapshot.
const SnapshotVersion = 1

// Snapshot is the serializable form of a Network. Stores persist it as JSON or CBOR.
type Snapshot struct {
	Version        int                   `cbor:"version" json:"version"`
	LastCommID     int                   `cbor:"last_comm_id" json:"last_comm_id"`
	Clients        []ClientRecord        `cbor:"clients" json:"clients"`
	Terminals      []TerminalRecord      `cbor:"terminals" json:"terminals"`
	Communications []CommunicationRecord `cbor:"communications" json:"communications"`

	// Sealed holds an encrypted snapshot. Envelopes carry nothing else and cannot be restored.
	Sealed []byte `cbor:"sealed,omitempty" json:"sealed,omitempty"`
}

// ClientRecord is the persisted form of a Client.
type ClientRecord struct {
	Key           string               `cbor:"key" json:"key"`
	Name          string               `cbor:"name" json:"name"`
	TaxID         string               `cbor:"tax_id" json:"tax_id"`
	Tier          string               `cbor:"tier" json:"tier"`
	TextStreak    int                  `cbor:"text_streak" json:"text_streak"`
	VideoStreak   int                  `cbor:"video_streak" json:"video_streak"`
	Notifications bool                 `cbor:"notifications" json:"notifications"`
	Payments      domain.Money         `cbor:"payments" json:"payments"`
	Debts         domain.Money         `cbor:"debts" json:"debts"`
	Inbox         []NotificationRecord `cbor:"inbox,omitempty" json:"inbox,omitempty"`
}

// NotificationRecord is the persisted form of a queued Notification.
type NotificationRecord struct {
	Kind     string `cbor:"kind" json:"kind"`
	Terminal string `cbor:"terminal" json:"terminal"`
}

// TerminalRecord is the persisted form of a Terminal. Previous is set only for busy terminals.
type TerminalRecord struct {
	Key             string       `cbor:"key" json:"key"`
	Kind            string       `cbor:"kind" json:"kind"`
	Owner           string       `cbor:"owner" json:"owner"`
	State           string       `cbor:"state" json:"state"`
	Previous        string       `cbor:"previous,omitempty" json:"previous,omitempty"`
	Payments        domain.Money `cbor:"payments" json:"payments"`
	Debts           domain.Money `cbor:"debts" json:"debts"`
	Friends         []string     `cbor:"friends,omitempty" json:"friends,omitempty"`
	Ongoing         int          `cbor:"ongoing,omitempty" json:"ongoing,omitempty"`
	ContactAttempts []string     `cbor:"contact_attempts,omitempty" json:"contact_attempts,omitempty"`
}

// CommunicationRecord is the persisted form of a Communication.
type CommunicationRecord struct {
	ID          int          `cbor:"id" json:"id"`
	Kind        string       `cbor:"kind" json:"kind"`
	Source      string       `cbor:"source" json:"source"`
	Destination string       `cbor:"destination" json:"destination"`
	Length      int          `cbor:"length,omitempty" json:"length,omitempty"`
	Duration    int          `cbor:"duration,omitempty" json:"duration,omitempty"`
	Cost        domain.Money `cbor:"cost" json:"cost"`
	InProgress  bool         `cbor:"in_progress" json:"in_progress"`
	Paid        bool         `cbor:"paid" json:"paid"`
}

// ErrCorruptSnapshot is returned by Restore when a snapshot breaks a registry invariant.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// Snapshot captures the whole network. The result shares nothing with n.
func (n *Network) Snapshot() *Snapshot {
	s := &Snapshot{Version: SnapshotVersion, LastCommID: n.lastID}

	for _, c := range n.Clients() {
		rec := ClientRecord{
			Key:           c.key,
			Name:          c.name,
			TaxID:         c.taxID,
			Tier:          c.tier.Kind.String(),
			TextStreak:    c.tier.TextStreak,
			VideoStreak:   c.tier.VideoStreak,
			Notifications: c.notifications,
			Payments:      c.payments,
			Debts:         c.debts,
		}
		for _, note := range c.inbox {
			rec.Inbox = append(rec.Inbox, NotificationRecord{Kind: note.Kind.String(), Terminal: note.TerminalKey})
		}
		s.Clients = append(s.Clients, rec)
	}

	for _, t := range n.Terminals() {
		rec := TerminalRecord{
			Key:             t.key,
			Kind:            t.kind.String(),
			Owner:           t.owner,
			State:           t.state.Name(),
			Payments:        t.payments,
			Debts:           t.debts,
			Friends:         t.Friends(),
			Ongoing:         t.ongoing,
			ContactAttempts: t.ContactAttempts(),
		}
		if b, ok := t.state.(domain.Busy); ok {
			rec.Previous = b.Previous.Name()
		}
		if len(rec.Friends) == 0 {
			rec.Friends = nil
		}
		if len(rec.ContactAttempts) == 0 {
			rec.ContactAttempts = nil
		}
		s.Terminals = append(s.Terminals, rec)
	}

	for _, c := range n.comms {
		s.Communications = append(s.Communications, CommunicationRecord{
			ID:          c.id,
			Kind:        c.kind.String(),
			Source:      c.source,
			Destination: c.destination,
			Length:      c.length,
			Duration:    c.duration,
			Cost:        c.cost,
			InProgress:  c.inProgress,
			Paid:        c.paid,
		})
	}
	return s
}

// Restore rebuilds a network from a snapshot and checks every registry invariant on the way.
// The returned network is clean. Options apply as in New.
func Restore(s *Snapshot, opts ...Option) (*Network, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrCorruptSnapshot)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, s.Version)
	}
	if len(s.Sealed) > 0 {
		return nil, fmt.Errorf("%w: snapshot is sealed", ErrCorruptSnapshot)
	}

	n := New(opts...)
	if err := n.restoreClients(s.Clients); err != nil {
		return nil, err
	}
	if err := n.restoreTerminals(s.Terminals); err != nil {
		return nil, err
	}
	if err := n.restoreCommunications(s.Communications, s.LastCommID); err != nil {
		return nil, err
	}
	if err := n.checkBusy(); err != nil {
		return nil, err
	}
	n.MarkClean()
	return n, nil
}

func (n *Network) restoreClients(recs []ClientRecord) error {
	for _, r := range recs {
		if err := n.RegisterClient(r.Key, r.Name, r.TaxID); err != nil {
			return corrupt("client "+r.Key, err)
		}
		kind, err := domain.ParseTierKind(r.Tier)
		if err != nil {
			return corrupt("client "+r.Key, err)
		}
		if r.TextStreak < 0 || r.VideoStreak < 0 {
			return corrupt("client "+r.Key, errors.New("negative streak"))
		}
		c := n.clients[clientIndex(r.Key)]
		c.tier = domain.Tier{Kind: kind, TextStreak: r.TextStreak, VideoStreak: r.VideoStreak}
		c.notifications = r.Notifications
		c.payments = r.Payments
		c.debts = r.Debts
		for _, note := range r.Inbox {
			k, err := domain.ParseNotificationKind(note.Kind)
			if err != nil {
				return corrupt("client "+r.Key, err)
			}
			c.inbox = append(c.inbox, domain.Notification{Kind: k, TerminalKey: note.Terminal})
		}
	}
	return nil
}

func (n *Network) restoreTerminals(recs []TerminalRecord) error {
	for _, r := range recs {
		st := r.State
		if st == (domain.Busy{}).Name() {
			// Registered in the remembered state, switched to busy below.
			st = r.Previous
		}
		if err := n.RegisterTerminal(r.Kind, r.Key, r.Owner, st); err != nil {
			return corrupt("terminal "+r.Key, err)
		}
		t := n.terminals[r.Key]
		if r.State == (domain.Busy{}).Name() {
			t.state = domain.EnterBusy(t.state).To
		}
		t.payments = r.Payments
		t.debts = r.Debts
		t.ongoing = r.Ongoing
	}
	// Friends and attempts reference other entities, so they are wired once all exist.
	for _, r := range recs {
		t := n.terminals[r.Key]
		if err := n.RegisterFriends(r.Key, r.Friends...); err != nil {
			return corrupt("terminal "+r.Key, err)
		}
		for _, ck := range r.ContactAttempts {
			c, err := n.Client(ck)
			if err != nil {
				return corrupt("terminal "+r.Key, err)
			}
			t.attempts[c.key] = struct{}{}
		}
	}
	return nil
}

func (n *Network) restoreCommunications(recs []CommunicationRecord, lastID int) error {
	for i, r := range recs {
		if r.ID != i+1 {
			return corrupt(fmt.Sprintf("communication %d", r.ID), fmt.Errorf("expected id %d", i+1))
		}
		kind, err := domain.ParseCommKind(r.Kind)
		if err != nil {
			return corrupt(fmt.Sprintf("communication %d", r.ID), err)
		}
		from, to, err := n.pair(r.Source, r.Destination)
		if err != nil {
			return corrupt(fmt.Sprintf("communication %d", r.ID), err)
		}
		if r.InProgress && (!kind.Interactive() || r.Paid) {
			return corrupt(fmt.Sprintf("communication %d", r.ID), errors.New("only unpaid interactive communications can be in progress"))
		}
		comm := &Communication{
			id:          r.ID,
			kind:        kind,
			source:      r.Source,
			destination: r.Destination,
			length:      r.Length,
			duration:    r.Duration,
			cost:        r.Cost,
			inProgress:  r.InProgress,
			paid:        r.Paid,
		}
		n.comms = append(n.comms, comm)
		from.file(comm.id)
		to.file(comm.id)
	}
	if lastID < len(recs) {
		return corrupt("counter", fmt.Errorf("last id %d below %d communications", lastID, len(recs)))
	}
	n.lastID = lastID
	return nil
}

// checkBusy enforces that a terminal is busy exactly when it takes part in an in-progress
// communication whose id it records as ongoing.
func (n *Network) checkBusy() error {
	for _, t := range n.terminals {
		_, busy := t.state.(domain.Busy)
		if !busy && t.ongoing == 0 {
			continue
		}
		if busy != (t.ongoing != 0) {
			return corrupt("terminal "+t.key, errors.New("busy state and ongoing communication disagree"))
		}
		if t.ongoing < 0 || t.ongoing > len(n.comms) {
			return corrupt("terminal "+t.key, fmt.Errorf("unknown ongoing communication %d", t.ongoing))
		}
		comm := n.comms[t.ongoing-1]
		if !comm.inProgress || !comm.Involves(t.key) {
			return corrupt("terminal "+t.key, fmt.Errorf("communication %d is not in progress on this terminal", comm.id))
		}
	}
	for _, comm := range n.comms {
		if !comm.inProgress {
			continue
		}
		for _, key := range []string{comm.source, comm.destination} {
			if n.terminals[key].ongoing != comm.id {
				return corrupt(fmt.Sprintf("communication %d", comm.id), fmt.Errorf("terminal %s is not busy with it", key))
			}
		}
	}
	return nil
}

func corrupt(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrCorruptSnapshot, what, err)
}
