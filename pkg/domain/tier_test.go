package domain_test

import (
	"testing"

	"github.com/aretw0/prr/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestTierBillStreaks(t *testing.T) {
	tier := domain.NewTier(domain.TierGold)
	tier = tier.Bill(domain.CommVideo).Bill(domain.CommVideo)
	assert.Equal(t, 2, tier.VideoStreak)

	tier = tier.Bill(domain.CommText)
	assert.Equal(t, 0, tier.VideoStreak)
	assert.Equal(t, 1, tier.TextStreak)

	tier = tier.Bill(domain.CommVoice)
	assert.Zero(t, tier.TextStreak)
	assert.Zero(t, tier.VideoStreak)
}

func TestTierAfterPayment(t *testing.T) {
	p := domain.DefaultTierPolicy()

	normal := domain.NewTier(domain.TierNormal)
	assert.Equal(t, domain.TierNormal, normal.AfterPayment(domain.Units(500), p).Kind)
	assert.Equal(t, domain.TierGold, normal.AfterPayment(domain.Units(500)+1, p).Kind)

	plat := domain.NewTier(domain.TierPlatinum)
	assert.Equal(t, plat, plat.AfterPayment(domain.Units(9000), p))
}

func TestTierAfterCommunication(t *testing.T) {
	p := domain.DefaultTierPolicy()

	gold := domain.NewTier(domain.TierGold)
	for i := 0; i < 4; i++ {
		gold = gold.Bill(domain.CommVideo)
	}
	assert.Equal(t, domain.TierGold, gold.AfterCommunication(0, p).Kind)

	gold = gold.Bill(domain.CommVideo)
	plat := gold.AfterCommunication(0, p)
	assert.Equal(t, domain.NewTier(domain.TierPlatinum), plat, "promotion resets streaks")

	// A negative balance wins over a completed video streak.
	assert.Equal(t, domain.TierNormal, gold.AfterCommunication(-1, p).Kind)

	plat = plat.Bill(domain.CommText)
	assert.Equal(t, domain.TierPlatinum, plat.AfterCommunication(0, p).Kind)
	plat = plat.Bill(domain.CommText)
	assert.Equal(t, domain.NewTier(domain.TierGold), plat.AfterCommunication(0, p))

	normal := domain.NewTier(domain.TierNormal).Bill(domain.CommVideo)
	assert.Equal(t, normal, normal.AfterCommunication(-100, p))
}

func TestTierPolicyValidate(t *testing.T) {
	assert.NoError(t, domain.DefaultTierPolicy().Validate())
	assert.Error(t, domain.TierPolicy{GoldVideoStreak: 0, PlatinumTextStreak: 2}.Validate())
}
