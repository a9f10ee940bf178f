package controller

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/minedash-admin/pkg/api"
	"github.com/minedash-admin/pkg/metrics"
	"github.com/minedash-admin/pkg/store"
)

// Referrals drives the referral network screen: raw edges from the backend
// folded into a per-referrer team view, plus the payout settings. Search is
// client-side against the aggregated referrer names.
type Referrals struct {
	base
	client   *api.Client
	audit    ActionLogger
	pageSize int

	edges      []api.ReferralEdge
	pagination api.Pagination
	stats      api.ReferralStats
	settings   api.ReferralSettings

	page   int
	search string
}

func NewReferrals(client *api.Client, audit ActionLogger, pageSize int) *Referrals {
	return &Referrals{client: client, audit: audit, pageSize: pageSize, page: 1}
}

func (c *Referrals) Refresh(ctx context.Context) error {
	gen := c.begin()

	var (
		list     *api.ReferralList
		stats    *api.ReferralStats
		settings *api.ReferralSettings
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = c.client.GetReferrals(gctx, c.listParams())
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = c.client.GetReferralStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		settings, err = c.client.GetReferralSettings(gctx)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stale(gen) {
		return nil
	}
	c.loading = false
	c.err = err
	if err != nil {
		log.Error().Err(err).Msg("referrals refresh failed")
		return err
	}
	c.edges = list.Referrals
	c.pagination = list.Pagination
	c.stats = *stats
	c.settings = *settings
	return nil
}

func (c *Referrals) listParams() api.ListParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return api.ListParams{Page: c.page, Limit: c.pageSize}
}

func (c *Referrals) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	c.page = page
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetSearch filters the aggregated team view locally; no refetch.
func (c *Referrals) SetSearch(q string) {
	c.mu.Lock()
	c.search = strings.TrimSpace(q)
	c.mu.Unlock()
}

func (c *Referrals) Stats() api.ReferralStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Referrals) Settings() api.ReferralSettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

func (c *Referrals) Pagination() api.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination
}

func (c *Referrals) PageText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return metrics.PageWindow(c.pagination, c.pageSize)
}

// Team folds the fetched edges into the leaderboard, then applies the local
// search filter.
func (c *Referrals) Team() []metrics.TeamSummary {
	c.mu.Lock()
	edges := append([]api.ReferralEdge(nil), c.edges...)
	search := c.search
	c.mu.Unlock()

	team := metrics.AggregateReferrals(edges)
	if search == "" {
		return team
	}
	var out []metrics.TeamSummary
	for _, t := range team {
		if containsFold(t.ReferrerName, search) || containsFold(t.ReferrerID, search) {
			out = append(out, t)
		}
	}
	return out
}

func (c *Referrals) SaveSettings(ctx context.Context, s api.ReferralSettings) error {
	err := c.client.UpdateReferralSettings(ctx, s)
	logAction(c.audit, store.Action{
		Entity: "referrals", Action: "save-settings", Outcome: outcome(err),
	})
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.settings = s
	c.mu.Unlock()
	c.setMessage("Referral settings saved")
	return nil
}
