package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minedash-admin/pkg/api"
)

func newClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.New(srv.URL, api.StaticToken("t"), 5*time.Second)
}

func TestBaseGenerationDiscardsStaleFetch(t *testing.T) {
	var b base
	gen1 := b.begin()
	gen2 := b.begin()

	// The superseded fetch must not record its outcome.
	assert.False(t, b.finish(gen1, nil))
	assert.True(t, b.finish(gen2, nil))
	assert.False(t, b.Loading())
}

func TestMessageIsOneShot(t *testing.T) {
	var b base
	b.setMessage("saved %d", 3)
	assert.Equal(t, "saved 3", b.Message())
	assert.Empty(t, b.Message())
}

func TestKYCRejectRequiresReason(t *testing.T) {
	var calls int32
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"success":true}`))
	}))
	c := NewKYC(client, NopLogger{}, 10)

	err := c.Reject(context.Background(), "k1", "   ")
	assert.ErrorIs(t, err, ErrReasonRequired)
	assert.Zero(t, atomic.LoadInt32(&calls), "a blank reason must never reach the network")
}

func kycTestServer(approved *atomic.Bool) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/kyc", func(w http.ResponseWriter, r *http.Request) {
		status := "pending"
		if approved.Load() {
			status = "approved"
		}
		w.Write([]byte(`{"success":true,"requests":[
			{"id":"k1","userName":"Asha","status":"` + status + `","documentType":"aadhaar"},
			{"id":"k2","userName":"Bina","status":"pending","documentType":"pan"}],
			"pagination":{"current":1,"pages":1,"total":2}}`))
	})
	mux.HandleFunc("/kyc/k1/approve", func(w http.ResponseWriter, r *http.Request) {
		approved.Store(true)
		w.Write([]byte(`{"success":true}`))
	})
	mux.HandleFunc("/users/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"stats":{"pendingKyc":2}}`))
	})
	return mux
}

func TestKYCApproveFlow(t *testing.T) {
	var approved atomic.Bool
	client := newClient(t, kycTestServer(&approved))
	c := NewKYC(client, NopLogger{}, 10)

	require.NoError(t, c.Refresh(context.Background()))
	require.Len(t, c.Requests(), 2)

	require.NoError(t, c.Approve(context.Background(), "k1"))

	// Optimistic patch lands before the background refetch resolves; the
	// untouched row stays pending either way.
	reqs := c.Requests()
	assert.Equal(t, api.ReviewApproved, reqs[0].Status)
	assert.Equal(t, api.ReviewPending, reqs[1].Status)
	assert.Equal(t, "KYC approved for Asha", c.Message())
}

func TestUsersAdjustValidation(t *testing.T) {
	var calls int32
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"success":true}`))
	}))
	c := NewUsers(client, NopLogger{}, 10)

	assert.ErrorIs(t, c.AddCoins(context.Background(), "u1", 0, "bonus"), ErrAmountInvalid)
	assert.ErrorIs(t, c.AddCoins(context.Background(), "u1", -5, "bonus"), ErrAmountInvalid)
	assert.ErrorIs(t, c.DeductCoins(context.Background(), "u1", 10, "  "), ErrReasonRequired)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestUsersSearchFiltersLocally(t *testing.T) {
	var listCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&listCalls, 1)
		w.Write([]byte(`{"success":true,"users":[
			{"id":"u1","name":"Asha Verma","email":"asha@example.com"},
			{"id":"u2","name":"Bina Rao","email":"bina@example.com"}],
			"pagination":{"current":1,"pages":1,"total":2}}`))
	})
	mux.HandleFunc("/users/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"stats":{}}`))
	})
	client := newClient(t, mux)
	c := NewUsers(client, NopLogger{}, 10)
	require.NoError(t, c.Refresh(context.Background()))
	before := atomic.LoadInt32(&listCalls)

	c.SetSearch("ASHA")
	vis := c.Visible()
	require.Len(t, vis, 1)
	assert.Equal(t, "Asha Verma", vis[0].Name)
	assert.Equal(t, before, atomic.LoadInt32(&listCalls), "local search must not refetch")
}

func TestPromoSearchGoesToServer(t *testing.T) {
	var gotSearch atomic.Value
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSearch.Store(r.URL.Query().Get("search"))
		w.Write([]byte(`{"success":true,"promoCodes":[{"id":"p1","code":"GOLD50"}],"pagination":{"current":1,"pages":1,"total":1}}`))
	}))
	// Zero debounce fires synchronously.
	c := NewPromoCodes(client, NopLogger{}, 10, 0)

	c.SetSearch("gold")
	assert.Equal(t, "gold", gotSearch.Load())
	require.Len(t, c.Codes(), 1)
	assert.Equal(t, "GOLD50", c.Codes()[0].Code)
}

func TestBannerActiveCap(t *testing.T) {
	var updates int32
	mux := http.NewServeMux()
	mux.HandleFunc("/banners", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"banners":[
			{"id":"b1","title":"Diwali","status":"active"},
			{"id":"b2","title":"Referral","status":"active"},
			{"id":"b3","title":"Launch","status":"inactive"}]}`))
	})
	mux.HandleFunc("/banners/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&updates, 1)
		w.Write([]byte(`{"success":true}`))
	})
	client := newClient(t, mux)
	c := NewBanners(client, NopLogger{})
	require.NoError(t, c.Refresh(context.Background()))

	// Two banners already active: activating a third is refused locally.
	err := c.ToggleStatus(context.Background(), "b3")
	assert.ErrorIs(t, err, ErrActiveBannerCap)
	assert.Zero(t, atomic.LoadInt32(&updates))

	// Deactivating one of the active pair goes through.
	require.NoError(t, c.ToggleStatus(context.Background(), "b1"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&updates))
}

func TestMiningRowsDeriveProgress(t *testing.T) {
	start := time.Now().Add(-6 * time.Hour).UTC().Format(time.RFC3339)
	mux := http.NewServeMux()
	mux.HandleFunc("/mining/sessions", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"sessions":[
			{"id":"s1","userName":"Asha","status":"active","startTime":"` + start + `"}],
			"pagination":{"current":1,"pages":1,"total":1}}`))
	})
	mux.HandleFunc("/mining/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"stats":{"activeSessions":1}}`))
	})
	mux.HandleFunc("/mining/settings", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"settings":{"baseRate":10,"cycleDurationHours":24}}`))
	})
	client := newClient(t, mux)
	c := NewMining(client, NopLogger{}, 10, 24)
	require.NoError(t, c.Refresh(context.Background()))

	rows := c.Rows(time.Now())
	require.Len(t, rows, 1)
	assert.Equal(t, 25, rows[0].Progress)
	assert.Equal(t, api.SessionActive, rows[0].Status, "elapsed time never flips status locally")

	speed := c.Speed(3)
	assert.Equal(t, 10.0, speed.Base)
	assert.Equal(t, 6.0, speed.Referral)
	assert.Equal(t, 0.0, speed.Boost)
}

func TestNotificationDraftValidation(t *testing.T) {
	var calls int32
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"success":true}`))
	}))
	c := NewNotifications(client, NopLogger{}, 10)

	assert.Error(t, c.Send(context.Background(), api.NotificationDraft{Title: " ", Message: "hi"}))
	assert.Error(t, c.Send(context.Background(), api.NotificationDraft{Title: "hi", Message: ""}))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestUsersCreateValidation(t *testing.T) {
	var calls int32
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"success":true}`))
	}))
	c := NewUsers(client, NopLogger{}, 10)

	assert.ErrorIs(t, c.Create(context.Background(), api.UserDraft{Name: "  ", Email: "a@b.c"}), ErrNameRequired)
	assert.ErrorIs(t, c.Create(context.Background(), api.UserDraft{Name: "Asha"}), ErrEmailRequired)
	assert.Zero(t, atomic.LoadInt32(&calls), "an incomplete draft must never reach the network")
}

func TestUsersCreateFlow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"success":true,"user":{"id":"u9","name":"Asha","email":"asha@example.com"}}`))
			return
		}
		w.Write([]byte(`{"success":true,"users":[
			{"id":"u9","name":"Asha","email":"asha@example.com"}],
			"pagination":{"current":1,"pages":1,"total":1}}`))
	})
	mux.HandleFunc("/users/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"stats":{"totalUsers":1}}`))
	})
	client := newClient(t, mux)
	c := NewUsers(client, NopLogger{}, 10)

	require.NoError(t, c.Create(context.Background(), api.UserDraft{Name: "Asha", Email: "asha@example.com"}))

	// The echoed row lands before the background refetch resolves; the
	// reconciled page carries the same user.
	vis := c.Visible()
	require.NotEmpty(t, vis)
	assert.Equal(t, "u9", vis[0].ID)
	assert.Equal(t, "User created: Asha", c.Message())
}

func TestPromoQueryRecordsWithoutRefetch(t *testing.T) {
	var calls int32
	var gotSearch atomic.Value
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		gotSearch.Store(r.URL.Query().Get("search"))
		w.Write([]byte(`{"success":true,"promoCodes":[],"pagination":{"current":1,"pages":1,"total":0}}`))
	}))
	// Zero debounce would fire synchronously; SetQuery must not fire at all.
	c := NewPromoCodes(client, NopLogger{}, 10, 0)

	c.SetQuery("gold")
	assert.Zero(t, atomic.LoadInt32(&calls), "recording the query must not fetch")

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "gold", gotSearch.Load())
}
