package controller

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/minedash-admin/pkg/api"
	"github.com/minedash-admin/pkg/metrics"
	"github.com/minedash-admin/pkg/store"
)

// Mining drives the session monitor: live sessions with derived cycle
// progress, the mining stats cards, and the global mining settings.
type Mining struct {
	base
	client   *api.Client
	audit    ActionLogger
	pageSize int

	sessions   []api.MiningSession
	pagination api.Pagination
	stats      api.MiningStats
	settings   api.MiningSettings

	page          int
	statusFilter  string
	fallbackCycle float64
}

func NewMining(client *api.Client, audit ActionLogger, pageSize int, fallbackCycleHours float64) *Mining {
	return &Mining{client: client, audit: audit, pageSize: pageSize, page: 1, fallbackCycle: fallbackCycleHours}
}

// Refresh issues the three screen fetches in parallel: sessions page, stats
// and settings.
func (c *Mining) Refresh(ctx context.Context) error {
	gen := c.begin()

	var (
		list     *api.SessionList
		stats    *api.MiningStats
		settings *api.MiningSettings
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = c.client.GetMiningSessions(gctx, c.listParams())
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = c.client.GetMiningStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		settings, err = c.client.GetMiningSettings(gctx)
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
		log.Error().Err(err).Msg("mining refresh failed")
		return err
	}
	c.sessions = list.Sessions
	c.pagination = list.Pagination
	c.stats = *stats
	c.settings = *settings
	return nil
}

func (c *Mining) listParams() api.ListParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return api.ListParams{Page: c.page, Limit: c.pageSize, Status: c.statusFilter}
}

func (c *Mining) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	c.page = page
	c.mu.Unlock()
	return c.Refresh(ctx)
}

func (c *Mining) SetStatusFilter(ctx context.Context, status string) error {
	c.mu.Lock()
	c.statusFilter = status
	c.page = 1
	c.mu.Unlock()
	return c.Refresh(ctx)
}

func (c *Mining) Stats() api.MiningStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Mining) Settings() api.MiningSettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

func (c *Mining) Pagination() api.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination
}

func (c *Mining) PageText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return metrics.PageWindow(c.pagination, c.pageSize)
}

// SessionRow is a session joined with its derived display state.
type SessionRow struct {
	api.MiningSession
	Progress  int    `json:"progress"`
	Remaining string `json:"remaining"`
}

// Rows derives progress and remaining time for every listed session against
// the configured cycle length. A finished cycle shows 100% and 00:00:00 but
// keeps its server-reported status; only Cancel mutates status locally.
func (c *Mining) Rows(now time.Time) []SessionRow {
	c.mu.Lock()
	defer c.mu.Unlock()
	cycle := c.settings.CycleDurationHours
	if cycle <= 0 {
		cycle = c.fallbackCycle
	}
	rows := make([]SessionRow, 0, len(c.sessions))
	for _, s := range c.sessions {
		rows = append(rows, SessionRow{
			MiningSession: s,
			Progress:      metrics.MiningProgress(s.StartTime, now, cycle),
			Remaining:     metrics.RemainingClock(s.StartTime, now, cycle),
		})
	}
	return rows
}

// Speed returns the derived speed breakdown for a user given their active
// referral count, using the current base rate.
func (c *Mining) Speed(activeReferrals int) metrics.SpeedBreakdown {
	c.mu.Lock()
	base := c.settings.BaseRate
	c.mu.Unlock()
	return metrics.Speed(base, activeReferrals)
}

// Cancel stops a session. This is the one place session status is mutated
// client-side.
func (c *Mining) Cancel(ctx context.Context, id string) error {
	err := c.client.CancelMiningSession(ctx, id)
	name := id
	c.mu.Lock()
	for i := range c.sessions {
		if c.sessions[i].ID == id {
			name = c.sessions[i].UserName
			if err == nil {
				c.sessions[i].Status = api.SessionCompleted
			}
			break
		}
	}
	c.mu.Unlock()
	logAction(c.audit, store.Action{
		Entity: "mining", Action: "cancel-session", TargetID: id, TargetName: name,
		Outcome: outcome(err),
	})
	if err != nil {
		log.Error().Err(err).Str("session", id).Msg("session cancel failed")
		return err
	}
	c.setMessage("Session cancelled for %s", name)
	go func() {
		bctx, cancel := backgroundCtx()
		defer cancel()
		_ = c.Refresh(bctx)
	}()
	return nil
}

func (c *Mining) SaveSettings(ctx context.Context, s api.MiningSettings) error {
	err := c.client.UpdateMiningSettings(ctx, s)
	logAction(c.audit, store.Action{
		Entity: "mining", Action: "save-settings", Outcome: outcome(err),
	})
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.settings = s
	c.mu.Unlock()
	c.setMessage("Mining settings saved")
	return nil
}
