// Package tui is the terminal rendition of the console for operators who live
// in ssh sessions: the same controllers behind a bubbletea program with tab
// navigation, stat cards and per-entity tables.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/minedash-admin/pkg/controller"
	"github.com/minedash-admin/pkg/metrics"
)

type screen int

const (
	screenUsers screen = iota
	screenKYC
	screenPayments
	screenMining
	screenReferrals
	screenCount
)

var screenNames = [screenCount]string{"Users", "KYC", "Payments", "Mining", "Referrals"}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	tabStyle   = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("245"))
	tabOnStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).
			Foreground(lipgloss.Color("229")).Background(lipgloss.Color("130"))
	cardStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).Padding(0, 2).MarginRight(1)
	cardValueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	headerRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	statusStyles   = map[string]lipgloss.Style{
		"active":    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"approved":  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"completed": lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"pending":   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"paused":    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"suspended": lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		"rejected":  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		"banned":    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
	toastStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Italic(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Controllers is the subset of screens the TUI drives.
type Controllers struct {
	Users     *controller.Users
	KYC       *controller.KYC
	Payments  *controller.Payments
	Mining    *controller.Mining
	Referrals *controller.Referrals
}

type refreshedMsg struct {
	screen screen
	err    error
}

type tickMsg time.Time

type Model struct {
	ctrl    Controllers
	current screen
	width   int
	toast   string
	lastErr error
	loading bool
}

func NewModel(ctrl Controllers) Model {
	return Model{ctrl: ctrl}
}

func Run(ctrl Controllers) error {
	_, err := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(m.current), tick())
}

func tick() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) refreshCmd(s screen) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		var err error
		switch s {
		case screenUsers:
			err = m.ctrl.Users.Refresh(ctx)
		case screenKYC:
			err = m.ctrl.KYC.Refresh(ctx)
		case screenPayments:
			err = m.ctrl.Payments.Refresh(ctx)
		case screenMining:
			err = m.ctrl.Mining.Refresh(ctx)
		case screenReferrals:
			err = m.ctrl.Referrals.Refresh(ctx)
		}
		return refreshedMsg{screen: s, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "right", "l":
			m.current = (m.current + 1) % screenCount
			m.loading = true
			return m, m.refreshCmd(m.current)
		case "shift+tab", "left", "h":
			m.current = (m.current + screenCount - 1) % screenCount
			m.loading = true
			return m, m.refreshCmd(m.current)
		case "r":
			m.loading = true
			return m, m.refreshCmd(m.current)
		}
	case refreshedMsg:
		if msg.screen == m.current {
			m.loading = false
			m.lastErr = msg.err
		}
		m.toast = m.pendingToast()
		return m, nil
	case tickMsg:
		return m, tea.Batch(m.refreshCmd(m.current), tick())
	}
	return m, nil
}

func (m Model) pendingToast() string {
	for _, fn := range []func() string{
		m.ctrl.Users.Message, m.ctrl.KYC.Message, m.ctrl.Payments.Message,
		m.ctrl.Mining.Message, m.ctrl.Referrals.Message,
	} {
		if s := fn(); s != "" {
			return s
		}
	}
	return ""
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("⛏️  MineDash Admin") + "\n\n")

	var tabs []string
	for s := screen(0); s < screenCount; s++ {
		style := tabStyle
		if s == m.current {
			style = tabOnStyle
		}
		tabs = append(tabs, style.Render(screenNames[s]))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n\n")

	if m.lastErr != nil {
		b.WriteString(errStyle.Render("error: "+m.lastErr.Error()) + "\n\n")
	}
	if m.loading {
		b.WriteString(helpStyle.Render("refreshing…") + "\n\n")
	}

	switch m.current {
	case screenUsers:
		b.WriteString(m.viewUsers())
	case screenKYC:
		b.WriteString(m.viewKYC())
	case screenPayments:
		b.WriteString(m.viewPayments())
	case screenMining:
		b.WriteString(m.viewMining())
	case screenReferrals:
		b.WriteString(m.viewReferrals())
	}

	if m.toast != "" {
		b.WriteString("\n" + toastStyle.Render("✓ "+m.toast))
	}
	b.WriteString("\n" + helpStyle.Render("tab/←→ switch · r refresh · q quit"))
	return b.String()
}

func card(label string, value string) string {
	return cardStyle.Render(cardValueStyle.Render(value) + "\n" + label)
}

func statusCell(s string) string {
	if st, ok := statusStyles[s]; ok {
		return st.Render(s)
	}
	return s
}

func row(cols ...string) string {
	var parts []string
	for _, c := range cols {
		parts = append(parts, padCell(c, 18))
	}
	return strings.Join(parts, " ")
}

func padCell(s string, w int) string {
	if lipgloss.Width(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-lipgloss.Width(s))
}

func (m Model) viewUsers() string {
	stats := m.ctrl.Users.Stats()
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("users", fmt.Sprintf("%d", stats.TotalUsers)),
		card("active", fmt.Sprintf("%d", stats.ActiveUsers)),
		card("pending kyc", fmt.Sprintf("%d", stats.PendingKYC)),
		card("coins", metrics.FormatNumber(stats.TotalCoins)),
	)
	var b strings.Builder
	b.WriteString(cards + "\n\n")
	b.WriteString(headerRowStyle.Render(row("NAME", "STATUS", "KYC", "BALANCE", "OWNERSHIP")) + "\n")
	for _, u := range m.ctrl.Users.Visible() {
		b.WriteString(row(u.Name, statusCell(string(u.Status)), statusCell(string(u.KYCStatus)),
			metrics.FormatNumber(u.CoinBalance),
			fmt.Sprintf("%d%%", m.ctrl.Users.Ownership(u))) + "\n")
	}
	b.WriteString(helpStyle.Render(m.ctrl.Users.PageText()))
	return b.String()
}

func (m Model) viewKYC() string {
	var b strings.Builder
	b.WriteString(card("pending", fmt.Sprintf("%d", m.ctrl.KYC.PendingCount())) + "\n\n")
	b.WriteString(headerRowStyle.Render(row("USER", "DOCUMENT", "STATUS", "SUBMITTED")) + "\n")
	for _, req := range m.ctrl.KYC.Requests() {
		b.WriteString(row(req.UserName, req.DocumentType, statusCell(string(req.Status)),
			req.SubmittedAt.Format("02 Jan 15:04")) + "\n")
	}
	b.WriteString(helpStyle.Render(m.ctrl.KYC.PageText()))
	return b.String()
}

func (m Model) viewPayments() string {
	s := m.ctrl.Payments.Settings()
	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		card("upi", s.UPIID),
		card("min", metrics.FormatCurrency(s.MinAmount)),
		card("coins/₹", fmt.Sprintf("%.2f", s.CoinsPerRupee)),
	) + "\n\n")
	b.WriteString(headerRowStyle.Render(row("USER", "UTR", "AMOUNT", "STATUS")) + "\n")
	for _, p := range m.ctrl.Payments.Payments() {
		b.WriteString(row(p.UserName, p.UTR, metrics.FormatCurrency(p.Amount),
			statusCell(string(p.Status))) + "\n")
	}
	b.WriteString(helpStyle.Render(m.ctrl.Payments.PageText()))
	return b.String()
}

func (m Model) viewMining() string {
	stats := m.ctrl.Mining.Stats()
	settings := m.ctrl.Mining.Settings()
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("active", fmt.Sprintf("%d", stats.ActiveSessions)),
		card("mined today", metrics.FormatNumber(stats.TotalMinedToday)),
		card("base rate", fmt.Sprintf("%.2f/h", settings.BaseRate)),
		card("cycle", fmt.Sprintf("%.0fh", settings.CycleDurationHours)),
	)
	var b strings.Builder
	b.WriteString(cards + "\n\n")
	b.WriteString(headerRowStyle.Render(row("USER", "STATUS", "PROGRESS", "REMAINING", "EARNED")) + "\n")
	for _, r := range m.ctrl.Mining.Rows(time.Now()) {
		b.WriteString(row(r.UserName, statusCell(string(r.Status)),
			fmt.Sprintf("%d%%", r.Progress), r.Remaining,
			metrics.FormatNumber(r.EarnedCoins)) + "\n")
	}
	b.WriteString(helpStyle.Render(m.ctrl.Mining.PageText()))
	return b.String()
}

func (m Model) viewReferrals() string {
	stats := m.ctrl.Referrals.Stats()
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("referrals", fmt.Sprintf("%d", stats.TotalReferrals)),
		card("coins paid", metrics.FormatNumber(stats.TotalCoinsPaid)),
	)
	var b strings.Builder
	b.WriteString(cards + "\n\n")
	b.WriteString(headerRowStyle.Render(row("REFERRER", "DIRECT", "INDIRECT", "TOTAL", "EARNED")) + "\n")
	for _, t := range m.ctrl.Referrals.Team() {
		b.WriteString(row(t.ReferrerName,
			fmt.Sprintf("%d", t.DirectReferrals), fmt.Sprintf("%d", t.IndirectReferrals),
			fmt.Sprintf("%d", t.TotalReferrals), metrics.FormatNumber(t.CoinsEarned)) + "\n")
	}
	return b.String()
}
