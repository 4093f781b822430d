package network

import "github.com/aretw0/prr/pkg/domain"

// TurnOn moves an Off or Silent terminal to Idle and notifies pending contacts.
// A busy terminal ignores the command.
func (n *Network) TurnOn(key string) error {
	return n.command(key, domain.TurnOn)
}

// TurnOff moves an Idle or Silent terminal to Off. A busy terminal ignores the command.
func (n *Network) TurnOff(key string) error {
	return n.command(key, domain.TurnOff)
}

// Silence moves an Off or Idle terminal to Silent. Leaving Off notifies pending contacts.
// A busy terminal ignores the command.
func (n *Network) Silence(key string) error {
	return n.command(key, domain.Silence)
}

func (n *Network) command(key string, fn func(string, domain.State) (domain.Transition, error)) error {
	t, err := n.Terminal(key)
	if err != nil {
		return err
	}
	tr, err := fn(key, t.state)
	if err != nil {
		return err
	}
	if !tr.Changed() {
		n.logger.Debug("busy terminal ignored command", "terminal", key)
		return nil
	}
	n.apply(t, tr)
	return nil
}

// apply moves t along tr and delivers the resulting notification, if any, to every client
// that failed to reach t.
func (n *Network) apply(t *Terminal, tr domain.Transition) {
	t.state = tr.To
	n.touch()
	n.logger.Debug("terminal transition", "terminal", t.key, "from", tr.From.Name(), "to", tr.To.Name())
	if h := n.hooks.OnTerminalTransition; h != nil {
		h(&domain.TerminalEvent{
			EventBase:   domain.NewEventBase(domain.EventTerminalTransition),
			TerminalKey: t.key,
			From:        tr.From.Name(),
			To:          tr.To.Name(),
		})
	}

	if tr.Notify == 0 || len(t.attempts) == 0 {
		return
	}
	note := domain.Notification{Kind: tr.Notify, TerminalKey: t.key}
	for _, ck := range t.ContactAttempts() {
		c, ok := n.clients[clientIndex(ck)]
		if !ok {
			continue
		}
		c.inbox = append(c.inbox, note)
		if h := n.hooks.OnNotification; h != nil {
			h(&domain.NotificationEvent{
				EventBase:    domain.NewEventBase(domain.EventNotification),
				ClientKey:    c.key,
				Notification: note,
			})
		}
	}
	clear(t.attempts)
}

// recordAttempt remembers that the owner of src failed to reach dst, when that client wants
// to be notified.
func (n *Network) recordAttempt(src, dst *Terminal) {
	c := n.owner(src)
	if c == nil || !c.notifications {
		return
	}
	if _, ok := dst.attempts[c.key]; ok {
		return
	}
	dst.attempts[c.key] = struct{}{}
	n.touch()
	n.logger.Debug("contact attempt recorded", "client", c.key, "terminal", dst.key)
}

// EnableNotifications opts a client into failed-contact notifications.
func (n *Network) EnableNotifications(clientKey string) error {
	c, err := n.Client(clientKey)
	if err != nil {
		return err
	}
	if c.notifications {
		return domain.NewError(domain.CodeNotificationsAlreadyEnabled, c.key)
	}
	c.notifications = true
	n.touch()
	return nil
}

// DisableNotifications opts a client out. Attempts already recorded are still delivered.
func (n *Network) DisableNotifications(clientKey string) error {
	c, err := n.Client(clientKey)
	if err != nil {
		return err
	}
	if !c.notifications {
		return domain.NewError(domain.CodeNotificationsAlreadyDisabled, c.key)
	}
	c.notifications = false
	n.touch()
	return nil
}

// Notifications returns the queued notifications of a client in delivery order and empties
// the queue.
func (n *Network) Notifications(clientKey string) ([]domain.Notification, error) {
	c, err := n.Client(clientKey)
	if err != nil {
		return nil, err
	}
	out := c.drain()
	if len(out) > 0 {
		n.touch()
	}
	return out, nil
}
