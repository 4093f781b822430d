package domain

import (
	"errors"
	"fmt"
	"math"
)

// TariffPlan computes the cost of a communication from its attributes.
// Implementations are stateless.
type TariffPlan interface {
	TextCost(length int) Money
	VoiceCost(duration int, friends bool) Money
	VideoCost(duration int, friends bool) Money

	// MaxDuration is the longest interactive communication of kind whose cost fits in Money.
	MaxDuration(kind CommKind) int
}

// PlanRates configures one tariff plan.
//
// Text messages shorter than TextShortLimit cost TextShort, shorter than TextMediumLimit cost
// TextMedium, and longer ones cost TextPerChar per character, or TextLong when TextPerChar is zero.
// Interactive communications cost their rate per unit of duration.
type PlanRates struct {
	TextShortLimit  int   `mapstructure:"text_short_limit" yaml:"text_short_limit" json:"text_short_limit"`
	TextMediumLimit int   `mapstructure:"text_medium_limit" yaml:"text_medium_limit" json:"text_medium_limit"`
	TextShort       Money `mapstructure:"text_short" yaml:"text_short" json:"text_short"`
	TextMedium      Money `mapstructure:"text_medium" yaml:"text_medium" json:"text_medium"`
	TextLong        Money `mapstructure:"text_long" yaml:"text_long" json:"text_long"`
	TextPerChar     Money `mapstructure:"text_per_char" yaml:"text_per_char" json:"text_per_char"`

	Voice Money `mapstructure:"voice" yaml:"voice" json:"voice"`
	Video Money `mapstructure:"video" yaml:"video" json:"video"`

	// FriendDiscount halves interactive costs when the destination is a friend of the source.
	FriendDiscount bool `mapstructure:"friend_discount" yaml:"friend_discount" json:"friend_discount"`
}

func (p PlanRates) TextCost(length int) Money {
	switch {
	case length < p.TextShortLimit:
		return p.TextShort
	case length < p.TextMediumLimit:
		return p.TextMedium
	case p.TextPerChar > 0:
		return p.TextPerChar * Money(length)
	default:
		return p.TextLong
	}
}

func (p PlanRates) VoiceCost(duration int, friends bool) Money {
	return p.interactive(p.Voice, duration, friends)
}

func (p PlanRates) VideoCost(duration int, friends bool) Money {
	return p.interactive(p.Video, duration, friends)
}

func (p PlanRates) MaxDuration(kind CommKind) int {
	rate := p.Voice
	if kind == CommVideo {
		rate = p.Video
	}
	if rate <= 0 || math.MaxInt64/int64(rate) > math.MaxInt {
		return math.MaxInt
	}
	return int(math.MaxInt64 / int64(rate))
}

func (p PlanRates) interactive(rate Money, duration int, friends bool) Money {
	cost := rate * Money(duration)
	if friends && p.FriendDiscount {
		return cost.Half()
	}
	return cost
}

// Validate rejects negative fees and inconsistent length limits.
func (p PlanRates) Validate() error {
	if p.TextShortLimit < 0 || p.TextMediumLimit < p.TextShortLimit {
		return fmt.Errorf("text length limits must satisfy 0 <= short (%d) <= medium (%d)", p.TextShortLimit, p.TextMediumLimit)
	}
	for name, v := range map[string]Money{
		"text_short":    p.TextShort,
		"text_medium":   p.TextMedium,
		"text_long":     p.TextLong,
		"text_per_char": p.TextPerChar,
		"voice":         p.Voice,
		"video":         p.Video,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative, got %s", name, v)
		}
	}
	return nil
}

// TariffTable holds the plan of every tier.
type TariffTable struct {
	Normal   PlanRates `mapstructure:"normal" yaml:"normal" json:"normal"`
	Gold     PlanRates `mapstructure:"gold" yaml:"gold" json:"gold"`
	Platinum PlanRates `mapstructure:"platinum" yaml:"platinum" json:"platinum"`
}

// DefaultTariffTable returns the reference rates.
//
//	Tier      Text <50  Text <100  Text >=100  Voice  Video  Friends
//	Normal    10        16         2/char      20     30     -
//	Gold      10        10         2/char      10     20     half
//	Platinum  0         4          4           10     10     half
func DefaultTariffTable() TariffTable {
	return TariffTable{
		Normal: PlanRates{
			TextShortLimit: 50, TextMediumLimit: 100,
			TextShort: Units(10), TextMedium: Units(16), TextPerChar: Units(2),
			Voice: Units(20), Video: Units(30),
		},
		Gold: PlanRates{
			TextShortLimit: 50, TextMediumLimit: 100,
			TextShort: Units(10), TextMedium: Units(10), TextPerChar: Units(2),
			Voice: Units(10), Video: Units(20),
			FriendDiscount: true,
		},
		Platinum: PlanRates{
			TextShortLimit: 50, TextMediumLimit: 100,
			TextShort: 0, TextMedium: Units(4), TextLong: Units(4),
			Voice: Units(10), Video: Units(10),
			FriendDiscount: true,
		},
	}
}

// Plan returns the plan used by clients of the given tier.
func (t TariffTable) Plan(kind TierKind) TariffPlan {
	switch kind {
	case TierGold:
		return t.Gold
	case TierPlatinum:
		return t.Platinum
	default:
		return t.Normal
	}
}

// Validate checks every plan of the table.
func (t TariffTable) Validate() error {
	return errors.Join(
		wrapPlan("normal", t.Normal.Validate()),
		wrapPlan("gold", t.Gold.Validate()),
		wrapPlan("platinum", t.Platinum.Validate()),
	)
}

func wrapPlan(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("tariff %s: %w", name, err)
}
