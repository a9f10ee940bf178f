package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/minedash-admin/pkg/config"
	"github.com/minedash-admin/pkg/diag"
	"github.com/minedash-admin/pkg/metrics"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()

	check := flag.String("check", "all", "which check to run (drift|sessions|earners|all)")
	topN := flag.Int64("top", 10, "how many top earners to list")
	timeout := flag.Duration("timeout", 60*time.Second, "overall run timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil { log.Fatal().Err(err).Msg("config load failed") }
	if err := cfg.ValidateDiag(); err != nil { log.Fatal().Err(err).Msg("config invalid") }

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	d, err := diag.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil { log.Fatal().Err(err).Msg("mongo connect failed") }
	defer d.Close(context.Background())

	fmt.Println("\n" + strings.Repeat("═", 60))
	fmt.Println("  🩺 MINEDASH DIAGNOSTICS")
	fmt.Println(strings.Repeat("═", 60) + "\n")

	ok := true
	if *check == "drift" || *check == "all" {
		ok = runDrift(ctx, d) && ok
	}
	if *check == "sessions" || *check == "all" {
		ok = runSessions(ctx, d, cfg.DefaultCycleHours) && ok
	}
	if *check == "earners" || *check == "all" {
		ok = runEarners(ctx, d, *topN) && ok
	}
	if !ok {
		os.Exit(1)
	}
}

func runDrift(ctx context.Context, d *diag.Diag) bool {
	drifts, err := d.BalanceDrift(ctx)
	if err != nil {
		log.Error().Err(err).Msg("balance drift check failed")
		return false
	}
	if len(drifts) == 0 {
		color.Green("✅ Balance vs ledger: no drift\n")
		return true
	}
	color.Red("❌ Balance vs ledger: %d users drifting\n", len(drifts))
	t := tablewriter.NewWriter(os.Stdout)
	t.SetHeader([]string{"User", "Name", "Balance", "Ledger Sum", "Diff"})
	t.SetBorder(false)
	for _, dr := range drifts {
		t.Append([]string{
			dr.UserID, dr.Name,
			metrics.FormatNumber(dr.Balance), metrics.FormatNumber(dr.LedgerSum),
			fmt.Sprintf("%+.2f", dr.Difference),
		})
	}
	t.Render()
	fmt.Println()
	return false
}

func runSessions(ctx context.Context, d *diag.Diag, cycleHours float64) bool {
	breakdown, err := d.SessionBreakdown(ctx)
	if err != nil {
		log.Error().Err(err).Msg("session breakdown failed")
		return false
	}
	fmt.Println("Mining session status breakdown:")
	t := tablewriter.NewWriter(os.Stdout)
	t.SetHeader([]string{"Status", "Count"})
	t.SetBorder(false)
	for _, b := range breakdown {
		t.Append([]string{b.Status, fmt.Sprintf("%d", b.Count)})
	}
	t.Render()

	cycle := time.Duration(cycleHours * float64(time.Hour))
	stuck, err := d.StuckSessions(ctx, cycle)
	if err != nil {
		log.Error().Err(err).Msg("stuck session count failed")
		return false
	}
	if stuck > 0 {
		color.Red("❌ %d sessions active past the %s cycle\n\n", stuck, cycle)
		return false
	}
	color.Green("✅ No sessions stuck past the cycle\n")
	return true
}

func runEarners(ctx context.Context, d *diag.Diag, limit int64) bool {
	earners, err := d.TopEarners(ctx, limit)
	if err != nil {
		log.Error().Err(err).Msg("top earners query failed")
		return false
	}
	fmt.Printf("Top %d balances:\n", limit)
	t := tablewriter.NewWriter(os.Stdout)
	t.SetHeader([]string{"User", "Name", "Balance", "KYC"})
	t.SetBorder(false)
	for _, e := range earners {
		t.Append([]string{e.UserID, e.Name, metrics.FormatNumber(e.Balance), e.KYC})
	}
	t.Render()
	fmt.Println()
	return true
}
