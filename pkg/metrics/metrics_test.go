package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/minedash-admin/pkg/api"
)

func TestOwnershipPercent(t *testing.T) {
	// All three components maxed.
	assert.Equal(t, 100, OwnershipPercent(api.OwnershipProgress{
		DaysActive: 30, MiningSessions: 20, KYCInvited: true,
	}))
	// Components cap individually; overshooting one never compensates another.
	assert.Equal(t, 100, OwnershipPercent(api.OwnershipProgress{
		DaysActive: 300, MiningSessions: 200, KYCInvited: true,
	}))
	// One third filled.
	assert.Equal(t, 33, OwnershipPercent(api.OwnershipProgress{
		DaysActive: 30,
	}))
	// Quarter of the session component only: 25/3 rounds to 8.
	assert.Equal(t, 8, OwnershipPercent(api.OwnershipProgress{
		MiningSessions: 5,
	}))
	assert.Equal(t, 0, OwnershipPercent(api.OwnershipProgress{}))
}

func TestMiningProgress(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 25, MiningProgress(start, start.Add(6*time.Hour), 24))
	assert.Equal(t, 6, MiningProgress(start, start.Add(90*time.Minute), 24))
	// Past the cycle clamps at 100.
	assert.Equal(t, 100, MiningProgress(start, start.Add(30*time.Hour), 24))
	// Clock skew: a start in the future clamps at 0.
	assert.Equal(t, 0, MiningProgress(start, start.Add(-time.Hour), 24))
	assert.Equal(t, 0, MiningProgress(start, start.Add(time.Hour), 0))
}

func TestRemainingClock(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "18:00:00", RemainingClock(start, start.Add(6*time.Hour), 24))
	assert.Equal(t, "22:30:00", RemainingClock(start, start.Add(90*time.Minute), 24))
	// Done cycles read zero, they never go negative.
	assert.Equal(t, "00:00:00", RemainingClock(start, start.Add(25*time.Hour), 24))
	// Seconds floor rather than round.
	assert.Equal(t, "23:59:59", RemainingClock(start, start.Add(500*time.Millisecond), 24))
}

func TestProgressAndRemainingAgree(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, elapsed := range []time.Duration{0, time.Hour, 12 * time.Hour, 24 * time.Hour, 48 * time.Hour} {
		now := start.Add(elapsed)
		p := MiningProgress(start, now, 24)
		r := RemainingHours(start, now, 24)
		if p == 100 {
			assert.Equal(t, 0.0, r, "finished cycle must have no time left")
		} else {
			assert.Greater(t, r, 0.0)
		}
	}
}

func TestSpeed(t *testing.T) {
	s := Speed(10, 3)
	assert.Equal(t, 10.0, s.Base)
	assert.Equal(t, 6.0, s.Referral) // 3 * 10 * 0.20
	assert.Equal(t, 0.0, s.Boost)
	assert.Equal(t, 16.0, s.Total())

	// Referral part rounds to two decimals.
	s = Speed(0.33, 1)
	assert.Equal(t, 0.07, s.Referral)

	assert.Equal(t, 0.0, Speed(10, 0).Referral)
}

func TestAggregateReferrals(t *testing.T) {
	edges := []api.ReferralEdge{
		{ReferrerID: "a", ReferrerName: "Asha", Type: api.ReferralDirect, CoinsEarned: 10},
		{ReferrerID: "b", ReferrerName: "Bina", Type: api.ReferralDirect, CoinsEarned: 5},
		{ReferrerID: "a", ReferrerName: "Asha", Type: api.ReferralIndirect, CoinsEarned: 2.5},
		{ReferrerID: "a", ReferrerName: "Asha", Type: api.ReferralDirect, CoinsEarned: 10},
		{ReferrerID: "c", ReferrerName: "Chitra", Type: api.ReferralIndirect, CoinsEarned: 1},
	}

	team := AggregateReferrals(edges)
	assert.Len(t, team, 3)

	assert.Equal(t, "a", team[0].ReferrerID)
	assert.Equal(t, 2, team[0].DirectReferrals)
	assert.Equal(t, 1, team[0].IndirectReferrals)
	assert.Equal(t, 3, team[0].TotalReferrals)
	assert.Equal(t, 22.5, team[0].CoinsEarned)

	// b and c both total 1; ties keep first-seen order.
	assert.Equal(t, "b", team[1].ReferrerID)
	assert.Equal(t, "c", team[2].ReferrerID)

	// Totals are conserved across the fold.
	sum := 0
	for _, s := range team {
		sum += s.TotalReferrals
	}
	assert.Equal(t, len(edges), sum)
}

func TestAggregateReferralsEmpty(t *testing.T) {
	assert.Empty(t, AggregateReferrals(nil))
}
