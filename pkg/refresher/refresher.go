// Package refresher runs the background jobs that keep the console warm:
// a periodic dashboard-stats pull persisted as a snapshot, and a backend
// health probe. Both are cron-scheduled so operators can tune cadence from
// the environment without touching code.
package refresher

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/minedash-admin/pkg/api"
	"github.com/minedash-admin/pkg/store"
)

// snapshotRetention bounds how much trend history the sqlite cache keeps.
const snapshotRetention = 30 * 24 * time.Hour

// jobTimeout caps each scheduled fetch so a hung backend can't pile up
// overlapping runs.
const jobTimeout = 25 * time.Second

type Refresher struct {
	client *api.Client
	store  *store.Store
	period string
	cron   *cron.Cron
}

func New(client *api.Client, st *store.Store, statsPeriod string) *Refresher {
	return &Refresher{
		client: client,
		store:  st,
		period: statsPeriod,
		cron:   cron.New(),
	}
}

// Start registers the jobs and kicks off the scheduler. Specs use cron's
// descriptor syntax ("@every 2m").
func (r *Refresher) Start(statsSpec, healthSpec string) error {
	if _, err := r.cron.AddFunc(statsSpec, r.snapshotStats); err != nil {
		return fmt.Errorf("schedule stats job: %w", err)
	}
	if _, err := r.cron.AddFunc(healthSpec, r.probeHealth); err != nil {
		return fmt.Errorf("schedule health job: %w", err)
	}
	r.cron.Start()
	log.Info().Str("stats", statsSpec).Str("health", healthSpec).Msg("⏱️ Background refresher started")

	// Prime the snapshot history so the trend view has a point immediately.
	go r.snapshotStats()
	return nil
}

// Stop halts the scheduler and waits for in-flight jobs.
func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("Background refresher stopped")
}

func (r *Refresher) snapshotStats() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	stats, err := r.client.GetDashboardStats(ctx, r.period)
	if err != nil {
		log.Warn().Err(err).Msg("stats snapshot fetch failed")
		return
	}
	if err := r.store.SaveSnapshot("dashboard", stats); err != nil {
		log.Warn().Err(err).Msg("stats snapshot write failed")
		return
	}
	if err := r.store.PruneSnapshots(snapshotRetention); err != nil {
		log.Warn().Err(err).Msg("snapshot prune failed")
	}
	log.Debug().
		Int64("users", stats.TotalUsers).
		Int64("miners", stats.ActiveMiners).
		Int64("pending_kyc", stats.PendingKYC).
		Msg("📸 Dashboard snapshot saved")
}

func (r *Refresher) probeHealth() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	h, err := r.client.GetHealth(ctx)
	if err != nil {
		log.Error().Err(err).Msg("❌ Backend health probe failed")
		return
	}
	ev := log.Info()
	if h.Status != "ok" || !h.DBConnected {
		ev = log.Warn()
	}
	ev.Str("status", h.Status).
		Bool("db", h.DBConnected).
		Float64("uptime_s", h.UptimeSecs).
		Msg("💚 Backend health")
}
