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

// Users drives the user directory screen: stats cards, a paginated list with
// status/KYC filters, and the coin-adjustment actions. Search here is pure
// client-side substring filtering; it never refetches.
type Users struct {
	base
	client   *api.Client
	audit    ActionLogger
	pageSize int

	stats      api.UserStats
	users      []api.User
	pagination api.Pagination

	page         int
	statusFilter string
	kycFilter    string
	search       string
}

func NewUsers(client *api.Client, audit ActionLogger, pageSize int) *Users {
	return &Users{client: client, audit: audit, pageSize: pageSize, page: 1}
}

// Refresh fetches stats and the current page concurrently. The two responses
// can land in either order; each is merged as it arrives and a stale
// generation discards both.
func (c *Users) Refresh(ctx context.Context) error {
	gen := c.begin()

	var (
		stats *api.UserStats
		list  *api.UserList
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = c.client.GetUserStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		list, err = c.client.GetUsers(gctx, c.listParams())
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
		log.Error().Err(err).Msg("users refresh failed")
		return err
	}
	c.stats = *stats
	c.users = list.Users
	c.pagination = list.Pagination
	return nil
}

func (c *Users) listParams() api.ListParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return api.ListParams{
		Page:      c.page,
		Limit:     c.pageSize,
		Status:    c.statusFilter,
		KYCStatus: c.kycFilter,
	}
}

func (c *Users) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	c.page = page
	c.mu.Unlock()
	return c.Refresh(ctx)
}

func (c *Users) SetStatusFilter(ctx context.Context, status string) error {
	c.mu.Lock()
	c.statusFilter = status
	c.page = 1
	c.mu.Unlock()
	return c.Refresh(ctx)
}

func (c *Users) SetKYCFilter(ctx context.Context, kycStatus string) error {
	c.mu.Lock()
	c.kycFilter = kycStatus
	c.page = 1
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetSearch updates the client-side filter. No network round-trip.
func (c *Users) SetSearch(q string) {
	c.mu.Lock()
	c.search = strings.TrimSpace(q)
	c.mu.Unlock()
}

// Visible returns the current page filtered by the search text against name,
// email and phone.
func (c *Users) Visible() []api.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.search == "" {
		return append([]api.User(nil), c.users...)
	}
	var out []api.User
	for _, u := range c.users {
		if containsFold(u.Name, c.search) || containsFold(u.Email, c.search) || containsFold(u.Phone, c.search) {
			out = append(out, u)
		}
	}
	return out
}

func (c *Users) Stats() api.UserStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Users) Pagination() api.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination
}

func (c *Users) PageText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return metrics.PageWindow(c.pagination, c.pageSize)
}

// AddCoins credits a user. Validation happens before any network call; on
// success the balance is patched locally and a reconcile refresh runs in the
// background.
func (c *Users) AddCoins(ctx context.Context, userID string, amount float64, reason string) error {
	return c.adjustCoins(ctx, userID, amount, reason, "add-coins")
}

func (c *Users) DeductCoins(ctx context.Context, userID string, amount float64, reason string) error {
	return c.adjustCoins(ctx, userID, amount, reason, "deduct-coins")
}

func (c *Users) adjustCoins(ctx context.Context, userID string, amount float64, reason, action string) error {
	if amount <= 0 {
		return ErrAmountInvalid
	}
	if strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}

	var err error
	if action == "add-coins" {
		_, err = c.client.AddCoins(ctx, userID, amount, reason)
	} else {
		_, err = c.client.DeductCoins(ctx, userID, amount, reason)
	}

	name := c.patchBalance(userID, amount, action == "add-coins", err == nil)
	logAction(c.audit, store.Action{
		Entity: "users", Action: action, TargetID: userID, TargetName: name,
		Outcome: outcome(err), Message: reason,
	})
	if err != nil {
		log.Error().Err(err).Str("user", userID).Str("action", action).Msg("coin adjustment failed")
		return err
	}
	c.setMessage("%s: %s %.0f coins", name, verb(action), amount)

	go func() {
		bctx, cancel := backgroundCtx()
		defer cancel()
		_ = c.Refresh(bctx)
	}()
	return nil
}

func verb(action string) string {
	if action == "add-coins" {
		return "credited"
	}
	return "debited"
}

// patchBalance applies the optimistic local update and returns the user's
// display name for the toast.
func (c *Users) patchBalance(userID string, amount float64, credit, apply bool) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.users {
		if c.users[i].ID != userID {
			continue
		}
		if apply {
			if credit {
				c.users[i].CoinBalance += amount
			} else {
				c.users[i].CoinBalance -= amount
			}
		}
		return c.users[i].Name
	}
	return userID
}

// Create registers a user from the console. Name and email are validated
// before any network call; the new row is prepended when the backend echoes
// it, and the background refresh settles the page either way.
func (c *Users) Create(ctx context.Context, draft api.UserDraft) error {
	draft.Name = strings.TrimSpace(draft.Name)
	draft.Email = strings.TrimSpace(draft.Email)
	if draft.Name == "" {
		return ErrNameRequired
	}
	if draft.Email == "" {
		return ErrEmailRequired
	}

	created, err := c.client.CreateUser(ctx, draft)
	logAction(c.audit, store.Action{
		Entity: "users", Action: "create", TargetName: draft.Name,
		Outcome: outcome(err), Message: draft.Email,
	})
	if err != nil {
		log.Error().Err(err).Str("email", draft.Email).Msg("user create failed")
		return err
	}
	if created != nil {
		c.mu.Lock()
		c.users = append([]api.User{*created}, c.users...)
		c.mu.Unlock()
	}
	c.setMessage("User created: %s", draft.Name)
	go func() {
		bctx, cancel := backgroundCtx()
		defer cancel()
		_ = c.Refresh(bctx)
	}()
	return nil
}

func (c *Users) UpdateStatus(ctx context.Context, userID string, status api.UserStatus) error {
	err := c.client.UpdateUser(ctx, userID, api.UserUpdate{Status: &status})
	name := userID
	c.mu.Lock()
	for i := range c.users {
		if c.users[i].ID == userID {
			name = c.users[i].Name
			if err == nil {
				c.users[i].Status = status
			}
			break
		}
	}
	c.mu.Unlock()
	logAction(c.audit, store.Action{
		Entity: "users", Action: "set-status", TargetID: userID, TargetName: name,
		Outcome: outcome(err), Message: string(status),
	})
	if err != nil {
		return err
	}
	c.setMessage("%s is now %s", name, status)
	go func() {
		bctx, cancel := backgroundCtx()
		defer cancel()
		_ = c.Refresh(bctx)
	}()
	return nil
}

func (c *Users) Delete(ctx context.Context, userID string) error {
	err := c.client.DeleteUser(ctx, userID)
	name := userID
	c.mu.Lock()
	if err == nil {
		kept := c.users[:0]
		for _, u := range c.users {
			if u.ID == userID {
				name = u.Name
				continue
			}
			kept = append(kept, u)
		}
		c.users = kept
	}
	c.mu.Unlock()
	logAction(c.audit, store.Action{
		Entity: "users", Action: "delete", TargetID: userID, TargetName: name,
		Outcome: outcome(err),
	})
	if err != nil {
		return err
	}
	c.setMessage("%s deleted", name)
	go func() {
		bctx, cancel := backgroundCtx()
		defer cancel()
		_ = c.Refresh(bctx)
	}()
	return nil
}

// Ownership returns the derived completion percentage for a listed user.
func (c *Users) Ownership(u api.User) int {
	return metrics.OwnershipPercent(u.OwnershipProgress)
}
