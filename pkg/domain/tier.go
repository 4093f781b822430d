package domain

import (
	"fmt"
	"strings"
)

// TierKind is the billing category of a client.
type TierKind uint8

const (
	TierNormal TierKind = iota
	TierGold
	TierPlatinum
)

func (k TierKind) String() string {
	switch k {
	case TierGold:
		return "GOLD"
	case TierPlatinum:
		return "PLATINUM"
	default:
		return "NORMAL"
	}
}

// ParseTierKind accepts NORMAL, GOLD and PLATINUM in any case.
func ParseTierKind(s string) (TierKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NORMAL":
		return TierNormal, nil
	case "GOLD":
		return TierGold, nil
	case "PLATINUM":
		return TierPlatinum, nil
	default:
		return TierNormal, fmt.Errorf("unknown tier %q", s)
	}
}

// TierPolicy holds the thresholds that move clients between tiers.
type TierPolicy struct {
	// PromotionBalance is the balance a Normal client must exceed after a payment to become Gold.
	PromotionBalance Money `mapstructure:"promotion_balance" yaml:"promotion_balance" json:"promotion_balance"`

	// GoldVideoStreak consecutive video communications promote Gold to Platinum.
	GoldVideoStreak int `mapstructure:"gold_video_streak" yaml:"gold_video_streak" json:"gold_video_streak"`

	// PlatinumTextStreak consecutive text communications move Platinum to Gold.
	PlatinumTextStreak int `mapstructure:"platinum_text_streak" yaml:"platinum_text_streak" json:"platinum_text_streak"`
}

// DefaultTierPolicy returns the reference thresholds: 500, 5 videos and 2 texts.
func DefaultTierPolicy() TierPolicy {
	return TierPolicy{
		PromotionBalance:   Units(500),
		GoldVideoStreak:    5,
		PlatinumTextStreak: 2,
	}
}

// Validate rejects streak thresholds that could never be reached.
func (p TierPolicy) Validate() error {
	if p.GoldVideoStreak < 1 {
		return fmt.Errorf("gold_video_streak must be positive, got %d", p.GoldVideoStreak)
	}
	if p.PlatinumTextStreak < 1 {
		return fmt.Errorf("platinum_text_streak must be positive, got %d", p.PlatinumTextStreak)
	}
	return nil
}

// Tier is the tariff-tier state of a client. Each variant carries its own streak counters;
// moving to another variant starts both streaks from zero.
type Tier struct {
	Kind        TierKind
	TextStreak  int
	VideoStreak int
}

// NewTier returns a fresh variant with no streaks.
func NewTier(kind TierKind) Tier {
	return Tier{Kind: kind}
}

// Bill records a billed communication of the given kind in the streak counters.
// Text extends the text streak and breaks the video streak, video does the opposite,
// and voice breaks both.
func (t Tier) Bill(kind CommKind) Tier {
	switch kind {
	case CommText:
		t.TextStreak++
		t.VideoStreak = 0
	case CommVideo:
		t.VideoStreak++
		t.TextStreak = 0
	case CommVoice:
		t.TextStreak = 0
		t.VideoStreak = 0
	}
	return t
}

// AfterPayment evaluates the payment-triggered transition. Only Normal moves, to Gold,
// when the resulting balance exceeds the promotion threshold.
func (t Tier) AfterPayment(balance Money, p TierPolicy) Tier {
	if t.Kind == TierNormal && balance > p.PromotionBalance {
		return NewTier(TierGold)
	}
	return t
}

// AfterCommunication evaluates the transitions that follow a billed communication.
// A negative balance demotes Gold and Platinum to Normal before any streak is considered.
func (t Tier) AfterCommunication(balance Money, p TierPolicy) Tier {
	switch t.Kind {
	case TierGold:
		if balance < 0 {
			return NewTier(TierNormal)
		}
		if t.VideoStreak >= p.GoldVideoStreak {
			return NewTier(TierPlatinum)
		}
	case TierPlatinum:
		if balance < 0 {
			return NewTier(TierNormal)
		}
		if t.TextStreak >= p.PlatinumTextStreak {
			return NewTier(TierGold)
		}
	}
	return t
}

func (k TierKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *TierKind) UnmarshalText(text []byte) error {
	v, err := ParseTierKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
