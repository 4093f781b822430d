package http

import (
	"github.com/aretw0/prr/pkg/domain"
	"github.com/aretw0/prr/pkg/network"
)

type StatusResponse struct {
	Status string `json:"status"`
}

type InfoResponse struct {
	App     string `json:"app"`
	Version string `json:"version"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type RegisterClientRequest struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
}

type RegisterTerminalRequest struct {
	Kind   string `json:"kind"`
	Key    string `json:"key"`
	Client string `json:"client"`
	State  string `json:"state"`
}

type FriendsRequest struct {
	Friends []string `json:"friends"`
}

type TextRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type CallRequest struct {
	To   string `json:"to"`
	Kind string `json:"kind"`
}

type EndCallRequest struct {
	Duration int `json:"duration"`
}

type PayRequest struct {
	CommID int `json:"comm_id"`
}

type ClientResponse struct {
	Key           string          `json:"key"`
	Name          string          `json:"name"`
	TaxID         string          `json:"tax_id"`
	Tier          domain.TierKind `json:"tier"`
	Notifications bool            `json:"notifications"`
	Terminals     []string        `json:"terminals"`
	Payments      domain.Money    `json:"payments"`
	Debts         domain.Money    `json:"debts"`
	Balance       domain.Money    `json:"balance"`
	Pending       int             `json:"pending_notifications"`
}

type TerminalResponse struct {
	Key             string       `json:"key"`
	Kind            string       `json:"kind"`
	Owner           string       `json:"owner"`
	State           string       `json:"state"`
	Payments        domain.Money `json:"payments"`
	Debts           domain.Money `json:"debts"`
	Friends         []string     `json:"friends"`
	Communications  []int        `json:"communications"`
	Ongoing         int          `json:"ongoing,omitempty"`
	ContactAttempts []string     `json:"contact_attempts,omitempty"`
}

type CommunicationResponse struct {
	ID          int             `json:"id"`
	Kind        domain.CommKind `json:"kind"`
	Source      string          `json:"source"`
	Destination string          `json:"destination"`
	Size        int             `json:"size"`
	Cost        domain.Money    `json:"cost"`
	InProgress  bool            `json:"in_progress"`
	Paid        bool            `json:"paid"`
}

type EndCallResponse struct {
	Cost domain.Money `json:"cost"`
}

type TotalsResponse struct {
	Payments domain.Money `json:"payments"`
	Debts    domain.Money `json:"debts"`
}

func clientResponse(c *network.Client) ClientResponse {
	return ClientResponse{
		Key:           c.Key(),
		Name:          c.Name(),
		TaxID:         c.TaxID(),
		Tier:          c.Tier(),
		Notifications: c.NotificationsEnabled(),
		Terminals:     nonNil(c.Terminals()),
		Payments:      c.Payments(),
		Debts:         c.Debts(),
		Balance:       c.Balance(),
		Pending:       c.PendingNotifications(),
	}
}

func terminalResponse(t *network.Terminal) TerminalResponse {
	resp := TerminalResponse{
		Key:             t.Key(),
		Kind:            t.Kind().String(),
		Owner:           t.Owner(),
		State:           t.State().Name(),
		Payments:        t.Payments(),
		Debts:           t.Debts(),
		Friends:         nonNil(t.Friends()),
		Communications:  nonNil(t.Communications()),
		ContactAttempts: t.ContactAttempts(),
	}
	if id, ok := t.Ongoing(); ok {
		resp.Ongoing = id
	}
	return resp
}

func communicationResponse(c *network.Communication) CommunicationResponse {
	return CommunicationResponse{
		ID:          c.ID(),
		Kind:        c.Kind(),
		Source:      c.Source(),
		Destination: c.Destination(),
		Size:        c.Size(),
		Cost:        c.Cost(),
		InProgress:  c.InProgress(),
		Paid:        c.Paid(),
	}
}

func mapAll[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
