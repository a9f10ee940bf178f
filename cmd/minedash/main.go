package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/minedash-admin/pkg/api"
	"github.com/minedash-admin/pkg/cli"
	"github.com/minedash-admin/pkg/config"
	"github.com/minedash-admin/pkg/controller"
	"github.com/minedash-admin/pkg/dashboard"
	"github.com/minedash-admin/pkg/refresher"
	"github.com/minedash-admin/pkg/store"
	"github.com/minedash-admin/pkg/tui"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()

	listEntity := flag.String("list", "", "print one entity table and exit (users|kyc|payments|mining|referrals|promos|audit|overview)")
	useTUI := flag.Bool("tui", false, "run the terminal dashboard instead of the web console")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil { log.Fatal().Err(err).Msg("config load failed") }
	if err := cfg.Validate(); err != nil { log.Fatal().Err(err).Msg("config invalid") }

	st, err := store.NewStore(cfg.DBPath)
	if err != nil { log.Fatal().Err(err).Msg("local store init failed") }
	defer st.Close()

	var tokens api.TokenSource = api.StaticToken(cfg.AdminToken)
	if cfg.TokenFile != "" {
		tokens = api.FileToken{Path: cfg.TokenFile}
	}
	client := api.New(cfg.APIBaseURL, tokens, cfg.RequestTimeout)

	ctrl := dashboard.Controllers{
		Users:         controller.NewUsers(client, st, cfg.PageSize),
		KYC:           controller.NewKYC(client, st, cfg.PageSize),
		Payments:      controller.NewPayments(client, st, cfg.PageSize),
		Mining:        controller.NewMining(client, st, cfg.PageSize, cfg.DefaultCycleHours),
		Referrals:     controller.NewReferrals(client, st, cfg.PageSize),
		Notifications: controller.NewNotifications(client, st, cfg.PageSize),
		Banners:       controller.NewBanners(client, st),
		PromoCodes:    controller.NewPromoCodes(client, st, cfg.PageSize, cfg.SearchDebounce),
		Coins:         controller.NewCoins(client, st, cfg.PageSize),
		Settings:      controller.NewSettings(client, st),
	}

	if *listEntity != "" {
		if err := runList(cfg, client, st, ctrl, *listEntity); err != nil {
			log.Fatal().Err(err).Str("entity", *listEntity).Msg("list failed")
		}
		return
	}

	if *useTUI {
		log.Info().Msg("⛏️ MineDash terminal console starting...")
		if err := tui.Run(tui.Controllers{
			Users: ctrl.Users, KYC: ctrl.KYC, Payments: ctrl.Payments,
			Mining: ctrl.Mining, Referrals: ctrl.Referrals,
		}); err != nil {
			log.Fatal().Err(err).Msg("tui failed")
		}
		return
	}

	log.Info().Msg("⛏️ MineDash admin console starting...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() { <-sigCh; log.Info().Msg("shutting down..."); cancel() }()

	ref := refresher.New(client, st, cfg.StatsPeriod)
	if err := ref.Start(cfg.StatsRefreshSpec, cfg.HealthProbeSpec); err != nil {
		log.Fatal().Err(err).Msg("refresher start failed")
	}
	defer ref.Stop()

	errCh := make(chan error, 2)
	dash := dashboard.New(ctrl, client, st, cfg.DashboardPort)
	go func() { errCh <- dash.Run() }()

	printSummary(cfg, st)
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && err != context.Canceled { log.Error().Err(err).Msg("error") }
	}
	log.Info().Msg("goodbye 👋")
}

func runList(cfg *config.Config, client *api.Client, st *store.Store, ctrl dashboard.Controllers, entity string) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	switch entity {
	case "users":
		if err := ctrl.Users.Refresh(ctx); err != nil { return err }
		cli.PrintUsers(ctrl.Users.Visible(), ctrl.Users.Stats(), ctrl.Users.PageText())
	case "kyc":
		if err := ctrl.KYC.Refresh(ctx); err != nil { return err }
		cli.PrintKYC(ctrl.KYC.Requests(), ctrl.KYC.PendingCount(), ctrl.KYC.PageText())
	case "payments":
		if err := ctrl.Payments.Refresh(ctx); err != nil { return err }
		cli.PrintPayments(ctrl.Payments.Payments(), ctrl.Payments.Settings(), ctrl.Payments.PageText())
	case "mining":
		if err := ctrl.Mining.Refresh(ctx); err != nil { return err }
		cli.PrintSessions(ctrl.Mining.Rows(time.Now()), ctrl.Mining.Stats(), ctrl.Mining.PageText())
	case "referrals":
		if err := ctrl.Referrals.Refresh(ctx); err != nil { return err }
		cli.PrintTeam(ctrl.Referrals.Team(), ctrl.Referrals.Stats())
	case "promos":
		if err := ctrl.PromoCodes.Refresh(ctx); err != nil { return err }
		cli.PrintPromoCodes(ctrl.PromoCodes.Codes(), time.Now())
	case "audit":
		actions, err := st.RecentActions(100)
		if err != nil { return err }
		cli.PrintActions(actions)
	case "overview":
		stats, err := client.GetDashboardStats(ctx, cfg.StatsPeriod)
		if err != nil { return err }
		health, _ := client.GetHealth(ctx)
		cli.PrintOverview(*stats, health)
	default:
		return fmt.Errorf("unknown entity %q", entity)
	}
	return nil
}

// authStatus reports how the gateway client will authenticate. A token file
// is read per request, so it counts even when no token is loaded yet.
func authStatus(cfg *config.Config) string {
	switch {
	case cfg.TokenFile != "":
		return fmt.Sprintf("✅ Bearer token from %s", cfg.TokenFile)
	case cfg.AdminToken != "":
		return "✅ Bearer token loaded"
	default:
		return "❌ No token (set ADMIN_TOKEN or ADMIN_TOKEN_FILE)"
	}
}

func printSummary(cfg *config.Config, st *store.Store) {
	counts, _ := st.Counts()
	fmt.Println("\n" + strings.Repeat("═", 60))
	fmt.Println("  ⛏️  MINEDASH ADMIN CONSOLE - RUNNING")
	fmt.Println(strings.Repeat("═", 60))
	fmt.Printf("  Backend:   %s\n", cfg.APIBaseURL)
	fmt.Printf("  Console:   http://localhost:%d\n", cfg.DashboardPort)
	fmt.Printf("  Snapshots: %s · Health: %s\n", cfg.StatsRefreshSpec, cfg.HealthProbeSpec)
	fmt.Printf("  Auth:      %s\n", authStatus(cfg))
	if counts != nil {
		fmt.Printf("  Cache:     %d snapshots, %d actions logged\n",
			counts["stats_snapshots"], counts["action_log"])
	}
	fmt.Println(strings.Repeat("═", 60) + "\n")
}
