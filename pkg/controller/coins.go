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

// Coins drives the manual balance screen: pick a user, review their ledger,
// then credit or debit with a reason. The ledger is per-user, so selecting a
// different user resets the page.
type Coins struct {
	base
	client   *api.Client
	audit    ActionLogger
	pageSize int

	users      []api.User
	selected   *api.User
	ledger     []api.Transaction
	pagination api.Pagination

	page   int
	search string
}

func NewCoins(client *api.Client, audit ActionLogger, pageSize int) *Coins {
	return &Coins{client: client, audit: audit, pageSize: pageSize, page: 1}
}

// Refresh reloads the user picker list and, when a user is selected, their
// transaction page.
func (c *Coins) Refresh(ctx context.Context) error {
	gen := c.begin()

	c.mu.Lock()
	var selectedID string
	if c.selected != nil {
		selectedID = c.selected.ID
	}
	page := c.page
	c.mu.Unlock()

	var (
		list   *api.UserList
		ledger *api.TransactionList
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = c.client.GetUsers(gctx, api.ListParams{Page: 1, Limit: 100})
		return err
	})
	if selectedID != "" {
		g.Go(func() error {
			var err error
			ledger, err = c.client.GetUserTransactions(gctx, selectedID, api.ListParams{Page: page, Limit: c.pageSize})
			return err
		})
	}
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stale(gen) {
		return nil
	}
	c.loading = false
	c.err = err
	if err != nil {
		log.Error().Err(err).Msg("coin management refresh failed")
		return err
	}
	c.users = list.Users
	if ledger != nil {
		c.ledger = ledger.Transactions
		c.pagination = ledger.Pagination
	}
	return nil
}

// Select switches the active user and loads their ledger from page one.
func (c *Coins) Select(ctx context.Context, userID string) error {
	c.mu.Lock()
	c.page = 1
	c.ledger = nil
	c.pagination = api.Pagination{}
	c.selected = nil
	for i := range c.users {
		if c.users[i].ID == userID {
			u := c.users[i]
			c.selected = &u
			break
		}
	}
	known := c.selected != nil
	c.mu.Unlock()

	if !known {
		u, err := c.client.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.selected = u
		c.mu.Unlock()
	}
	return c.Refresh(ctx)
}

func (c *Coins) Selected() *api.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return nil
	}
	u := *c.selected
	return &u
}

func (c *Coins) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	c.page = page
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetSearch filters the picker list locally.
func (c *Coins) SetSearch(q string) {
	c.mu.Lock()
	c.search = strings.TrimSpace(q)
	c.mu.Unlock()
}

// Candidates returns the picker list after the local search filter.
func (c *Coins) Candidates() []api.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.search == "" {
		return append([]api.User(nil), c.users...)
	}
	var out []api.User
	for _, u := range c.users {
		if containsFold(u.Name, c.search) || containsFold(u.Email, c.search) {
			out = append(out, u)
		}
	}
	return out
}

func (c *Coins) Ledger() []api.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]api.Transaction(nil), c.ledger...)
}

func (c *Coins) PageText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return metrics.PageWindow(c.pagination, c.pageSize)
}

func (c *Coins) Add(ctx context.Context, amount float64, reason string) error {
	return c.adjust(ctx, amount, reason, true)
}

func (c *Coins) Deduct(ctx context.Context, amount float64, reason string) error {
	return c.adjust(ctx, amount, reason, false)
}

func (c *Coins) adjust(ctx context.Context, amount float64, reason string, credit bool) error {
	if amount <= 0 {
		return ErrAmountInvalid
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	c.mu.Lock()
	sel := c.selected
	c.mu.Unlock()
	if sel == nil {
		return ErrNoUserSelected
	}

	var (
		res    *api.CoinAdjustResult
		err    error
		action = "deduct-coins"
		verb   = "Deducted"
	)
	if credit {
		action, verb = "add-coins", "Added"
		res, err = c.client.AddCoins(ctx, sel.ID, amount, reason)
	} else {
		res, err = c.client.DeductCoins(ctx, sel.ID, amount, reason)
	}
	logAction(c.audit, store.Action{
		Entity: "coins", Action: action, TargetID: sel.ID, TargetName: sel.Name,
		Outcome: outcome(err), Message: reason,
	})
	if err != nil {
		log.Error().Err(err).Str("user", sel.ID).Float64("amount", amount).Msg("coin adjust failed")
		return err
	}

	c.mu.Lock()
	if c.selected != nil && c.selected.ID == sel.ID {
		c.selected.CoinBalance = res.NewBalance
	}
	if res.Transaction.ID != "" {
		c.ledger = append([]api.Transaction{res.Transaction}, c.ledger...)
	}
	c.mu.Unlock()

	c.setMessage("%s %s coins for %s", verb, metrics.FormatNumber(amount), sel.Name)
	go func() {
		bctx, cancel := backgroundCtx()
		defer cancel()
		_ = c.Refresh(bctx)
	}()
	return nil
}
