// Package metrics holds the pure derived-state calculators the console
// reconstructs from raw API records: ownership completion, mining cycle
// progress, speed breakdown and referral team aggregation. Everything here is
// display logic; no function mutates or persists anything.
package metrics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/minedash-admin/pkg/api"
)

// OwnershipPercent blends activity days, mining-session count and KYC-invite
// status into a 0-100 completion score. Each sub-component is capped at 100
// before averaging: 30 active days, 20 sessions and a KYC invite each fill a
// third of the bar.
func OwnershipPercent(p api.OwnershipProgress) int {
	days := math.Min(float64(p.DaysActive)/30, 1) * 100
	sessions := math.Min(float64(p.MiningSessions)/20, 1) * 100
	kyc := 0.0
	if p.KYCInvited {
		kyc = 100
	}
	return int(math.Round((days + sessions + kyc) / 3))
}

// MiningProgress returns the cycle completion percentage, clamped to [0,100].
// A session past its cycle reports 100 but is never flipped to completed
// locally; only an explicit cancel mutates status client-side.
func MiningProgress(start, now time.Time, cycleHours float64) int {
	if cycleHours <= 0 {
		return 0
	}
	elapsed := now.Sub(start).Hours()
	pct := int(math.Round(elapsed / cycleHours * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// RemainingHours is the unelapsed part of the cycle, floored at zero.
func RemainingHours(start, now time.Time, cycleHours float64) float64 {
	rem := cycleHours - now.Sub(start).Hours()
	if rem < 0 {
		return 0
	}
	return rem
}

// RemainingClock formats the remaining cycle time as HH:MM:SS, flooring
// hours, then minutes, then seconds from the fractional remainder. A
// completed cycle reads "00:00:00".
func RemainingClock(start, now time.Time, cycleHours float64) string {
	return clock(RemainingHours(start, now, cycleHours))
}

func clock(hours float64) string {
	total := int(math.Floor(hours * 3600))
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// SpeedBreakdown splits a user's mining speed into its components. Boost is
// carried as a zero constant: the consumed schema has no purchased-boost
// field yet, and inventing a computation here would diverge from the backend.
type SpeedBreakdown struct {
	Base     float64
	Referral float64
	Boost    float64
}

func (s SpeedBreakdown) Total() float64 { return s.Base + s.Referral + s.Boost }

// Speed derives the breakdown from the global base rate and the user's active
// referral count. Each active referral contributes 20% of the base rate,
// rounded to two decimals.
func Speed(baseRate float64, activeReferrals int) SpeedBreakdown {
	return SpeedBreakdown{
		Base:     baseRate,
		Referral: round2(float64(activeReferrals) * baseRate * 0.20),
		Boost:    0,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// TeamSummary is the per-referrer view folded out of raw referral edges.
type TeamSummary struct {
	ReferrerID        string  `json:"referrerId"`
	ReferrerName      string  `json:"referrerName"`
	DirectReferrals   int     `json:"directReferrals"`
	IndirectReferrals int     `json:"indirectReferrals"`
	TotalReferrals    int     `json:"totalReferrals"`
	CoinsEarned       float64 `json:"coinsEarned"`
}

// AggregateReferrals folds all edges once, grouping by referrer, then sorts
// descending by total referrals. The sort is stable on purpose: ties keep the
// input order rather than guessing a secondary key.
func AggregateReferrals(edges []api.ReferralEdge) []TeamSummary {
	byReferrer := map[string]*TeamSummary{}
	var order []string

	for _, e := range edges {
		t, ok := byReferrer[e.ReferrerID]
		if !ok {
			t = &TeamSummary{ReferrerID: e.ReferrerID, ReferrerName: e.ReferrerName}
			byReferrer[e.ReferrerID] = t
			order = append(order, e.ReferrerID)
		}
		switch e.Type {
		case api.ReferralIndirect:
			t.IndirectReferrals++
		default:
			t.DirectReferrals++
		}
		t.TotalReferrals++
		t.CoinsEarned += e.CoinsEarned
	}

	result := make([]TeamSummary, 0, len(order))
	for _, id := range order {
		result = append(result, *byReferrer[id])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalReferrals > result[j].TotalReferrals
	})
	return result
}
