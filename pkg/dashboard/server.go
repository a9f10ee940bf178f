// Package dashboard serves the local web console: a single embedded HTML page
// plus a JSON API that exposes controller state and proxies mutations to the
// backend. It binds to localhost for one operator; it is not a public surface.
package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/minedash-admin/pkg/api"
	"github.com/minedash-admin/pkg/controller"
	"github.com/minedash-admin/pkg/metrics"
	"github.com/minedash-admin/pkg/store"
)

// Controllers bundles the per-screen controllers the server exposes.
type Controllers struct {
	Users         *controller.Users
	KYC           *controller.KYC
	Payments      *controller.Payments
	Mining        *controller.Mining
	Referrals     *controller.Referrals
	Notifications *controller.Notifications
	Banners       *controller.Banners
	PromoCodes    *controller.PromoCodes
	Coins         *controller.Coins
	Settings      *controller.Settings
}

type Dashboard struct {
	ctrl   Controllers
	client *api.Client
	store  *store.Store
	port   int
}

func New(ctrl Controllers, client *api.Client, st *store.Store, port int) *Dashboard {
	return &Dashboard{ctrl: ctrl, client: client, store: st, port: port}
}

func (d *Dashboard) Run() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/overview", cors(d.handleOverview))
	mux.HandleFunc("/api/trend", cors(d.handleTrend))
	mux.HandleFunc("/api/audit", cors(d.handleAudit))

	mux.HandleFunc("/api/users", cors(d.handleUsers))
	mux.HandleFunc("/api/users/create", cors(d.handleUserCreate))
	mux.HandleFunc("/api/users/adjust", cors(d.handleAdjustCoins))
	mux.HandleFunc("/api/users/status", cors(d.handleUserStatus))

	mux.HandleFunc("/api/kyc", cors(d.handleKYC))
	mux.HandleFunc("/api/kyc/approve", cors(d.handleKYCApprove))
	mux.HandleFunc("/api/kyc/reject", cors(d.handleKYCReject))

	mux.HandleFunc("/api/payments", cors(d.handlePayments))
	mux.HandleFunc("/api/payments/approve", cors(d.handlePaymentApprove))
	mux.HandleFunc("/api/payments/reject", cors(d.handlePaymentReject))

	mux.HandleFunc("/api/mining", cors(d.handleMining))
	mux.HandleFunc("/api/mining/cancel", cors(d.handleMiningCancel))

	mux.HandleFunc("/api/referrals", cors(d.handleReferrals))

	mux.HandleFunc("/api/notifications", cors(d.handleNotifications))
	mux.HandleFunc("/api/notifications/send", cors(d.handleNotificationSend))

	mux.HandleFunc("/api/banners", cors(d.handleBanners))
	mux.HandleFunc("/api/banners/toggle", cors(d.handleBannerToggle))

	mux.HandleFunc("/api/promos", cors(d.handlePromos))
	mux.HandleFunc("/api/promos/toggle", cors(d.handlePromoToggle))

	mux.HandleFunc("/api/settings", cors(d.handleSettings))

	mux.HandleFunc("/", d.serveFrontend)

	addr := fmt.Sprintf("127.0.0.1:%d", d.port)
	log.Info().Str("addr", addr).Msg("🌐 console started")
	return http.ListenAndServe(addr, mux)
}

func cors(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// writeActionErr maps mutation failures to status codes: local validation
// errors are the caller's fault, everything else bubbles up as a gateway
// problem.
func writeActionErr(w http.ResponseWriter, err error) {
	code := http.StatusBadGateway
	switch {
	case errors.Is(err, controller.ErrReasonRequired),
		errors.Is(err, controller.ErrAmountInvalid),
		errors.Is(err, controller.ErrNoUserSelected),
		errors.Is(err, controller.ErrNameRequired),
		errors.Is(err, controller.ErrEmailRequired),
		errors.Is(err, controller.ErrActiveBannerCap):
		code = http.StatusBadRequest
	case api.IsUnauthorized(err):
		code = http.StatusUnauthorized
	}
	http.Error(w, err.Error(), code)
}

func readBody(r *http.Request, v interface{}) error {
	if r.Method != http.MethodPost {
		return errors.New("POST only")
	}
	return json.NewDecoder(r.Body).Decode(v)
}

// ---- overview ----

func (d *Dashboard) handleOverview(w http.ResponseWriter, r *http.Request) {
	stats, err := d.client.GetDashboardStats(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		writeActionErr(w, err)
		return
	}
	health, _ := d.client.GetHealth(r.Context())
	writeJSON(w, map[string]interface{}{
		"stats":  stats,
		"health": health,
		"coins":  metrics.FormatNumber(stats.CoinsInCirculation),
	})
}

func (d *Dashboard) handleTrend(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, _ = strconv.Atoi(l)
	}
	snaps, _ := d.store.RecentSnapshots("dashboard", limit)
	type point struct {
		At    time.Time          `json:"at"`
		Stats api.DashboardStats `json:"stats"`
	}
	pts := make([]point, 0, len(snaps))
	// Snapshots come newest-first; the chart wants oldest-first.
	for i := len(snaps) - 1; i >= 0; i-- {
		var st api.DashboardStats
		if json.Unmarshal([]byte(snaps[i].Payload), &st) != nil {
			continue
		}
		pts = append(pts, point{At: snaps[i].CreatedAt, Stats: st})
	}
	writeJSON(w, pts)
}

func (d *Dashboard) handleAudit(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, _ = strconv.Atoi(l)
	}
	actions, _ := d.store.RecentActions(limit)
	writeJSON(w, actions)
}

// ---- users ----

func (d *Dashboard) handleUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if page := q.Get("page"); page != "" {
		n, _ := strconv.Atoi(page)
		if err := d.ctrl.Users.SetPage(r.Context(), n); err != nil {
			writeActionErr(w, err)
			return
		}
	} else if err := d.ctrl.Users.Refresh(r.Context()); err != nil {
		writeActionErr(w, err)
		return
	}
	d.ctrl.Users.SetSearch(q.Get("search"))

	users := d.ctrl.Users.Visible()
	type userView struct {
		api.User
		Ownership int `json:"ownership"`
	}
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, userView{User: u, Ownership: d.ctrl.Users.Ownership(u)})
	}
	writeJSON(w, map[string]interface{}{
		"stats":      d.ctrl.Users.Stats(),
		"users":      views,
		"pagination": d.ctrl.Users.Pagination(),
		"pageText":   d.ctrl.Users.PageText(),
		"message":    d.ctrl.Users.Message(),
	})
}

func (d *Dashboard) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	var draft api.UserDraft
	if err := readBody(r, &draft); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	if err := d.ctrl.Users.Create(r.Context(), draft); err != nil {
		writeActionErr(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (d *Dashboard) handleAdjustCoins(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string  `json:"userId"`
		Amount float64 `json:"amount"`
		Reason string  `json:"reason"`
		Deduct bool    `json:"deduct"`
	}
	if err := readBody(r, &req); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	var err error
	if req.Deduct {
		err = d.ctrl.Users.DeductCoins(r.Context(), req.UserID, req.Amount, req.Reason)
	} else {
		err = d.ctrl.Users.AddCoins(r.Context(), req.UserID, req.Amount, req.Reason)
	}
	if err != nil {
		writeActionErr(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (d *Dashboard) handleUserStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
		Status string `json:"status"`
	}
	if err := readBody(r, &req); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	if err := d.ctrl.Users.UpdateStatus(r.Context(), req.UserID, api.UserStatus(req.Status)); err != nil {
		writeActionErr(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// ---- kyc ----

func (d *Dashboard) handleKYC(w http.ResponseWriter, r *http.Request) {
	if tab := r.URL.Query().Get("tab"); tab != "" {
		if err := d.ctrl.KYC.SetTab(r.Context(), tab); err != nil {
			writeActionErr(w, err)
			return
		}
	} else if err := d.ctrl.KYC.Refresh(r.Context()); err != nil {
		writeActionErr(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"requests":   d.ctrl.KYC.Requests(),
		"pending":    d.ctrl.KYC.PendingCount(),
		"pagination": d.ctrl.KYC.Pagination(),
		"pageText":   d.ctrl.KYC.PageText(),
		"message":    d.ctrl.KYC.Message(),
	})
}

type idReasonReq struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

func (d *Dashboard) handleKYCApprove(w http.ResponseWriter, r *http.Request) {
	var req idReasonReq
	if err := readBody(r, &req); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	if err := d.ctrl.KYC.Approve(r.Context(), req.ID); err != nil {
		writeActionErr(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (d *Dashboard) handleKYCReject(w http.ResponseWriter, r *http.Request) {
	var req idReasonReq
	if err := readBody(r, &req); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	if err := d.ctrl.KYC.Reject(r.Context(), req.ID, req.Reason); err != nil {
		writeActionErr(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// ---- payments ----

func (d *Dashboard) handlePayments(w http.ResponseWriter, r *http.Request) {
	if tab := r.URL.Query().Get("tab"); tab != "" {
		if err := d.ctrl.Payments.SetTab(r.Context(), tab); err != nil {
			writeActionErr(w, err)
			return
		}
	} else if err := d.ctrl.Payments.Refresh(r.Context()); err != nil {
		writeActionErr(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"payments":   d.ctrl.Payments.Payments(),
		"settings":   d.ctrl.Payments.Settings(),
		"pagination": d.ctrl.Payments.Pagination(),
		"pageText":   d.ctrl.Payments.PageText(),
		"message":    d.ctrl.Payments.Message(),
	})
}

func (d *Dashboard) handlePaymentApprove(w http.ResponseWriter, r *http.Request) {
	var req idReasonReq
	if err := readBody(r, &req); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	if err := d.ctrl.Payments.Approve(r.Context(), req.ID); err != nil {
		writeActionErr(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (d *Dashboard) handlePaymentReject(w http.ResponseWriter, r *http.Request) {
	var req idReasonReq
	if err := readBody(r, &req); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	if err := d.ctrl.Payments.Reject(r.Context(), req.ID, req.Reason); err != nil {
		writeActionErr(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// ---- mining ----

func (d *Dashboard) handleMining(w http.ResponseWriter, r *http.Request) {
	if err := d.ctrl.Mining.Refresh(r.Context()); err != nil {
		writeActionErr(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"sessions":   d.ctrl.Mining.Rows(time.Now()),
		"stats":      d.ctrl.Mining.Stats(),
		"settings":   d.ctrl.Mining.Settings(),
		"pagination": d.ctrl.Mining.Pagination(),
		"pageText":   d.ctrl.Mining.PageText(),
		"message":    d.ctrl.Mining.Message(),
	})
}

func (d *Dashboard) handleMiningCancel(w http.ResponseWriter, r *http.Request) {
	var req idReasonReq
	if err := readBody(r, &req); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	if err := d.ctrl.Mining.Cancel(r.Context(), req.ID); err != nil {
		writeActionErr(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// ---- referrals ----

func (d *Dashboard) handleReferrals(w http.ResponseWriter, r *http.Request) {
	if err := d.ctrl.Referrals.Refresh(r.Context()); err != nil {
		writeActionErr(w, err)
		return
	}
	d.ctrl.Referrals.SetSearch(r.URL.Query().Get("search"))
	writeJSON(w, map[string]interface{}{
		"team":     d.ctrl.Referrals.Team(),
		"stats":    d.ctrl.Referrals.Stats(),
		"settings": d.ctrl.Referrals.Settings(),
		"pageText": d.ctrl.Referrals.PageText(),
	})
}

// ---- notifications ----

func (d *Dashboard) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if err := d.ctrl.Notifications.Refresh(r.Context()); err != nil {
		writeActionErr(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"notifications": d.ctrl.Notifications.Notifications(),
		"templates":     d.ctrl.Notifications.Templates(),
		"stats":         d.ctrl.Notifications.Stats(),
		"pageText":      d.ctrl.Notifications.PageText(),
		"message":       d.ctrl.Notifications.Message(),
	})
}

func (d *Dashboard) handleNotificationSend(w http.ResponseWriter, r *http.Request) {
	var draft api.NotificationDraft
	if err := readBody(r, &draft); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	if err := d.ctrl.Notifications.Send(r.Context(), draft); err != nil {
		writeActionErr(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// ---- banners ----

func (d *Dashboard) handleBanners(w http.ResponseWriter, r *http.Request) {
	if err := d.ctrl.Banners.Refresh(r.Context()); err != nil {
		writeActionErr(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"banners": d.ctrl.Banners.Banners(),
		"active":  d.ctrl.Banners.ActiveCount(),
		"message": d.ctrl.Banners.Message(),
	})
}

func (d *Dashboard) handleBannerToggle(w http.ResponseWriter, r *http.Request) {
	var req idReasonReq
	if err := readBody(r, &req); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	if err := d.ctrl.Banners.ToggleStatus(r.Context(), req.ID); err != nil {
		writeActionErr(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// ---- promo codes ----

func (d *Dashboard) handlePromos(w http.ResponseWriter, r *http.Request) {
	// The web shell already debounced on the client; record the query and
	// fetch exactly once.
	d.ctrl.PromoCodes.SetQuery(r.URL.Query().Get("search"))
	if err := d.ctrl.PromoCodes.Refresh(r.Context()); err != nil {
		writeActionErr(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"promoCodes": d.ctrl.PromoCodes.Codes(),
		"pagination": d.ctrl.PromoCodes.Pagination(),
		"message":    d.ctrl.PromoCodes.Message(),
	})
}

func (d *Dashboard) handlePromoToggle(w http.ResponseWriter, r *http.Request) {
	var req idReasonReq
	if err := readBody(r, &req); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	if err := d.ctrl.PromoCodes.Toggle(r.Context(), req.ID); err != nil {
		writeActionErr(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// ---- settings ----

func (d *Dashboard) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if err := d.ctrl.Settings.Refresh(r.Context()); err != nil {
			writeActionErr(w, err)
			return
		}
		writeJSON(w, map[string]interface{}{
			"settings": d.ctrl.Settings.Bundle(),
			"message":  d.ctrl.Settings.Message(),
		})
	case http.MethodPost:
		var bundle api.SettingsBundle
		if err := json.NewDecoder(r.Body).Decode(&bundle); err != nil {
			http.Error(w, "invalid json", 400)
			return
		}
		if err := d.ctrl.Settings.SaveBulk(r.Context(), bundle); err != nil {
			writeActionErr(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "ok"})
	default:
		http.Error(w, "GET or POST", 405)
	}
}
