// Package cli prints one-shot entity tables for scripting and quick checks
// (`minedash -list users` and friends). Output goes to stdout as plain tables
// so it survives pipes and cron mails.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/minedash-admin/pkg/api"
	"github.com/minedash-admin/pkg/controller"
	"github.com/minedash-admin/pkg/metrics"
	"github.com/minedash-admin/pkg/store"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func colorStatus(s string) string {
	switch s {
	case "active", "approved", "completed", "ok":
		return green(s)
	case "pending", "paused":
		return yellow(s)
	case "suspended", "rejected", "banned", "error", "inactive":
		return red(s)
	}
	return s
}

func newTable(headers ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(os.Stdout)
	t.SetHeader(headers)
	t.SetBorder(false)
	t.SetAutoWrapText(false)
	return t
}

func PrintUsers(users []api.User, stats api.UserStats, pageText string) {
	fmt.Printf("%s  %d total · %d active · %d pending KYC · %s coins\n\n",
		bold("USERS"), stats.TotalUsers, stats.ActiveUsers, stats.PendingKYC,
		metrics.FormatNumber(stats.TotalCoins))
	t := newTable("Name", "Email", "Status", "KYC", "Balance", "Ownership")
	for _, u := range users {
		t.Append([]string{
			u.Name, u.Email,
			colorStatus(string(u.Status)), colorStatus(string(u.KYCStatus)),
			metrics.FormatNumber(u.CoinBalance),
			fmt.Sprintf("%d%%", metrics.OwnershipPercent(u.OwnershipProgress)),
		})
	}
	t.Render()
	fmt.Println(pageText)
}

func PrintKYC(requests []api.KYCRequest, pending int64, pageText string) {
	fmt.Printf("%s  %d pending\n\n", bold("KYC REQUESTS"), pending)
	t := newTable("User", "Document", "Status", "Submitted", "Reason")
	for _, r := range requests {
		t.Append([]string{
			r.UserName, r.DocumentType, colorStatus(string(r.Status)),
			r.SubmittedAt.Format("02 Jan 15:04"), r.RejectionReason,
		})
	}
	t.Render()
	fmt.Println(pageText)
}

func PrintPayments(payments []api.PaymentProof, settings api.PaymentSettings, pageText string) {
	fmt.Printf("%s  upi=%s · %.2f coins/₹\n\n", bold("PAYMENT PROOFS"),
		settings.UPIID, settings.CoinsPerRupee)
	t := newTable("User", "UTR", "Amount", "Coins", "Status", "Submitted")
	for _, p := range payments {
		t.Append([]string{
			p.UserName, p.UTR, metrics.FormatCurrency(p.Amount),
			metrics.FormatNumber(p.CoinsToCredit), colorStatus(string(p.Status)),
			p.SubmittedAt.Format("02 Jan 15:04"),
		})
	}
	t.Render()
	fmt.Println(pageText)
}

func PrintSessions(rows []controller.SessionRow, stats api.MiningStats, pageText string) {
	fmt.Printf("%s  %d active · %s mined today\n\n", bold("MINING SESSIONS"),
		stats.ActiveSessions, metrics.FormatNumber(stats.TotalMinedToday))
	t := newTable("User", "Status", "Progress", "Remaining", "Earned")
	for _, r := range rows {
		t.Append([]string{
			r.UserName, colorStatus(string(r.Status)), fmt.Sprintf("%d%%", r.Progress),
			r.Remaining, metrics.FormatNumber(r.EarnedCoins),
		})
	}
	t.Render()
	fmt.Println(pageText)
}

func PrintTeam(team []metrics.TeamSummary, stats api.ReferralStats) {
	fmt.Printf("%s  %d total · %s coins paid\n\n", bold("REFERRAL TEAMS"),
		stats.TotalReferrals, metrics.FormatNumber(stats.TotalCoinsPaid))
	t := newTable("Referrer", "Direct", "Indirect", "Total", "Earned")
	for _, s := range team {
		t.Append([]string{
			s.ReferrerName,
			fmt.Sprintf("%d", s.DirectReferrals), fmt.Sprintf("%d", s.IndirectReferrals),
			fmt.Sprintf("%d", s.TotalReferrals), metrics.FormatNumber(s.CoinsEarned),
		})
	}
	t.Render()
}

func PrintPromoCodes(codes []api.PromoCode, now time.Time) {
	t := newTable("Code", "Type", "Value", "Used", "Active", "Expires")
	for _, p := range codes {
		active := "active"
		if !p.IsActive {
			active = "inactive"
		}
		expires := p.ValidUntil.Format("02 Jan 2006")
		if p.Expired(now) {
			expires = red(expires + " (expired)")
		}
		t.Append([]string{
			p.Code, string(p.Type), fmt.Sprintf("%.2f", p.Value),
			fmt.Sprintf("%d/%d", p.UsedCount, p.MaxUses),
			colorStatus(active), expires,
		})
	}
	t.Render()
}

func PrintActions(actions []store.Action) {
	fmt.Printf("%s\n\n", bold("RECENT ADMIN ACTIONS"))
	t := newTable("When", "Entity", "Action", "Target", "Outcome", "Note")
	for _, a := range actions {
		t.Append([]string{
			a.CreatedAt.Format("02 Jan 15:04"), a.Entity, a.Action,
			a.TargetName, colorStatus(a.Outcome), a.Message,
		})
	}
	t.Render()
}

func PrintOverview(stats api.DashboardStats, health *api.Health) {
	fmt.Printf("%s\n\n", bold("MINEDASH OVERVIEW"))
	t := newTable("Metric", "Value")
	t.Append([]string{"Total users", fmt.Sprintf("%d", stats.TotalUsers)})
	t.Append([]string{"Active miners", fmt.Sprintf("%d", stats.ActiveMiners)})
	t.Append([]string{"Pending KYC", fmt.Sprintf("%d", stats.PendingKYC)})
	t.Append([]string{"Pending payments", fmt.Sprintf("%d", stats.PendingPayments)})
	t.Append([]string{"Coins in circulation", metrics.FormatNumber(stats.CoinsInCirculation)})
	t.Append([]string{"New users (" + stats.Period + ")", fmt.Sprintf("%d", stats.NewUsersInPeriod)})
	if health != nil {
		t.Append([]string{"Backend", colorStatus(health.Status)})
		t.Append([]string{"Uptime", fmt.Sprintf("%.0fs", health.UptimeSecs)})
	}
	t.Render()
}
