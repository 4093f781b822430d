package network

import (
	"strconv"
	"unicode/utf8"

	"github.com/aretw0/prr/pkg/domain"
)

// SendText sends a text message from src to dst. The communication is completed at once and
// billed to the owner of src under its current tier.
//
// A terminal may text itself. When dst is off the call fails with DESTINATION_OFF and, if the
// sender's client opted in, the attempt is recorded on dst.
func (n *Network) SendText(src, dst, message string) (*Communication, error) {
	from, to, err := n.pair(src, dst)
	if err != nil {
		return nil, err
	}
	if !domain.CanSendText(from.state) {
		return nil, domain.NewCommError(domain.CodeSourceUnavailable, src, domain.CommText)
	}
	if err := domain.CanReceiveText(dst, to.state); err != nil {
		n.recordAttempt(from, to)
		return nil, err
	}

	comm := n.newCommunication(domain.CommText, from, to)
	comm.length = utf8.RuneCountInString(message)
	n.emitStart(comm, from)

	c := n.owner(from)
	cost := n.tariffs.Plan(c.tier.Kind).TextCost(comm.length)
	n.bill(c, from, comm, cost)
	return comm, nil
}

// StartInteractive starts a voice or video communication from src to dst. Both terminals
// become busy until src ends it.
//
// Checks run in order: type support at src, then at dst, then the availability of src, then
// self-calls, which fail with DESTINATION_BUSY, and finally the reachability of dst.
func (n *Network) StartInteractive(src, dst string, kind domain.CommKind) (*Communication, error) {
	if !kind.Interactive() {
		return nil, domain.NewError(domain.CodeInvalidCommType, kind.String())
	}
	from, to, err := n.pair(src, dst)
	if err != nil {
		return nil, err
	}
	if !from.Supports(kind) {
		return nil, domain.NewCommError(domain.CodeUnsupportedAtOrigin, src, kind)
	}
	if !to.Supports(kind) {
		return nil, domain.NewCommError(domain.CodeUnsupportedAtDestination, dst, kind)
	}
	if !domain.CanStartCommunication(from.state) {
		return nil, domain.NewCommError(domain.CodeSourceUnavailable, src, kind)
	}
	if from == to {
		return nil, domain.NewCommError(domain.CodeDestinationBusy, dst, kind)
	}
	if err := domain.CanReceiveInteractive(dst, to.state, kind); err != nil {
		n.recordAttempt(from, to)
		return nil, err
	}

	comm := n.newCommunication(kind, from, to)
	comm.inProgress = true
	for _, t := range []*Terminal{from, to} {
		t.ongoing = comm.id
		n.apply(t, domain.EnterBusy(t.state))
	}
	n.emitStart(comm, from)
	return comm, nil
}

// EndInteractive ends the communication that terminal key started, with the given duration,
// and returns its cost. Both terminals go back to the state they had before the call.
func (n *Network) EndInteractive(key string, duration int) (domain.Money, error) {
	t, err := n.Terminal(key)
	if err != nil {
		return 0, err
	}
	id, ok := t.Ongoing()
	if !ok {
		return 0, domain.NewError(domain.CodeNoOngoingCommunication, key)
	}
	comm := n.comms[id-1]
	if comm.source != key {
		return 0, domain.NewError(domain.CodeInvalidCommunicationKey, strconv.Itoa(id))
	}

	to := n.terminals[comm.destination]
	friends := t.IsFriend(to.key)
	c := n.owner(t)
	plan := n.tariffs.Plan(c.tier.Kind)
	if duration < 0 || duration > plan.MaxDuration(comm.kind) {
		return 0, domain.NewError(domain.CodeInvalidDuration, strconv.Itoa(duration))
	}

	var cost domain.Money
	if comm.kind == domain.CommVideo {
		cost = plan.VideoCost(duration, friends)
	} else {
		cost = plan.VoiceCost(duration, friends)
	}

	comm.duration = duration
	comm.inProgress = false
	for _, side := range []*Terminal{t, to} {
		side.ongoing = 0
		n.apply(side, domain.EndBusy(side.state))
	}
	n.bill(c, t, comm, cost)
	return cost, nil
}

// Pay settles a completed, unpaid communication originated by terminal key.
func (n *Network) Pay(key string, commID int) error {
	t, err := n.Terminal(key)
	if err != nil {
		return err
	}
	if commID < 1 || commID > len(n.comms) {
		return domain.NewError(domain.CodeInvalidCommunicationKey, strconv.Itoa(commID))
	}
	comm := n.comms[commID-1]
	if comm.source != key || comm.inProgress || comm.paid {
		return domain.NewError(domain.CodeInvalidCommunicationKey, strconv.Itoa(commID))
	}

	comm.paid = true
	t.payments += comm.cost
	t.debts -= comm.cost
	c := n.owner(t)
	c.pay(comm.cost)
	n.touch()
	n.logger.Debug("communication paid", "id", comm.id, "terminal", key, "amount", comm.cost)
	if h := n.hooks.OnPayment; h != nil {
		h(&domain.PaymentEvent{
			EventBase:   domain.NewEventBase(domain.EventPayment),
			ClientKey:   c.key,
			TerminalKey: key,
			CommID:      comm.id,
			Amount:      comm.cost,
		})
	}
	n.retier(c, c.tier.AfterPayment(c.Balance(), n.policy))
	return nil
}

func (n *Network) pair(src, dst string) (*Terminal, *Terminal, error) {
	from, err := n.Terminal(src)
	if err != nil {
		return nil, nil, err
	}
	to, err := n.Terminal(dst)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func (n *Network) newCommunication(kind domain.CommKind, from, to *Terminal) *Communication {
	n.lastID++
	comm := &Communication{
		id:          n.lastID,
		kind:        kind,
		source:      from.key,
		destination: to.key,
	}
	n.comms = append(n.comms, comm)
	from.file(comm.id)
	to.file(comm.id)
	n.touch()
	return comm
}

// bill fixes the cost of a completed communication, charges it to client c and terminal t,
// and runs the tier transitions that follow a billed communication.
func (n *Network) bill(c *Client, t *Terminal, comm *Communication, cost domain.Money) {
	comm.cost = cost
	t.debts += cost
	c.charge(cost)
	n.touch()

	tierKind := c.tier.Kind
	n.logger.Debug("communication billed", "id", comm.id, "kind", comm.kind, "client", c.key, "tier", tierKind, "cost", cost)
	if h := n.hooks.OnCommunicationEnd; h != nil {
		h(&domain.CommunicationEvent{
			EventBase:   domain.NewEventBase(domain.EventCommunicationEnd),
			ID:          comm.id,
			Kind:        comm.kind,
			Source:      comm.source,
			Destination: comm.destination,
			Tier:        tierKind,
			Cost:        cost,
		})
	}

	billed := c.tier.Bill(comm.kind)
	c.tier = billed
	n.retier(c, billed.AfterCommunication(c.Balance(), n.policy))
}

func (n *Network) retier(c *Client, next domain.Tier) {
	prev := c.tier.Kind
	c.tier = next
	if next.Kind == prev {
		return
	}
	n.touch()
	n.logger.Debug("tier changed", "client", c.key, "from", prev, "to", next.Kind)
	if h := n.hooks.OnTierChange; h != nil {
		h(&domain.TierEvent{
			EventBase: domain.NewEventBase(domain.EventTierChange),
			ClientKey: c.key,
			From:      prev,
			To:        next.Kind,
		})
	}
}

func (n *Network) emitStart(comm *Communication, from *Terminal) {
	n.logger.Debug("communication started", "id", comm.id, "kind", comm.kind, "source", comm.source, "destination", comm.destination)
	if h := n.hooks.OnCommunicationStart; h != nil {
		h(&domain.CommunicationEvent{
			EventBase:   domain.NewEventBase(domain.EventCommunicationStart),
			ID:          comm.id,
			Kind:        comm.kind,
			Source:      comm.source,
			Destination: comm.destination,
			Tier:        n.owner(from).tier.Kind,
		})
	}
}
