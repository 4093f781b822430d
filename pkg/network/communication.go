package network

import "github.com/aretw0/prr/pkg/domain"

// Communication is a text, voice or video exchange between two terminals. Ids are assigned by
// the Network, start at 1 and never repeat.
//
// Text communications are completed when created. Interactive ones stay in progress until the
// source ends them; their cost is known only then.
type Communication struct {
	id          int
	kind        domain.CommKind
	source      string
	destination string

	length   int
	duration int

	cost       domain.Money
	inProgress bool
	paid       bool
}

func (c *Communication) ID() int               { return c.id }
func (c *Communication) Kind() domain.CommKind { return c.kind }
func (c *Communication) Source() string        { return c.source }
func (c *Communication) Destination() string   { return c.destination }
func (c *Communication) Length() int           { return c.length }
func (c *Communication) Duration() int         { return c.duration }
func (c *Communication) Cost() domain.Money    { return c.cost }
func (c *Communication) InProgress() bool      { return c.inProgress }
func (c *Communication) Paid() bool            { return c.paid }

// Size returns the message length of a text and the duration of an interactive communication.
func (c *Communication) Size() int {
	if c.kind == domain.CommText {
		return c.length
	}
	return c.duration
}

// Involves reports whether terminal key is the source or the destination.
func (c *Communication) Involves(key string) bool {
	return c.source == key || c.destination == key
}
