package controller

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/minedash-admin/pkg/api"
	"github.com/minedash-admin/pkg/store"
)

var (
	errPromoCodeRequired  = errors.New("promo code is required")
	errPromoValueInvalid  = errors.New("promo value must be greater than zero")
	errPromoWindowInvalid = errors.New("promo validity window is inverted")
)

// PromoCodes drives the promo code screen. Unlike users and referrals, search
// here goes to the server, debounced so each keystroke does not cost a
// round-trip.
type PromoCodes struct {
	base
	client   *api.Client
	audit    ActionLogger
	pageSize int
	debounce *debouncer

	codes      []api.PromoCode
	pagination api.Pagination

	page   int
	search string
}

func NewPromoCodes(client *api.Client, audit ActionLogger, pageSize int, searchDelay time.Duration) *PromoCodes {
	return &PromoCodes{
		client:   client,
		audit:    audit,
		pageSize: pageSize,
		debounce: newDebouncer(searchDelay),
		page:     1,
	}
}

func (c *PromoCodes) Refresh(ctx context.Context) error {
	gen := c.begin()

	list, err := c.client.GetPromoCodes(ctx, c.listParams())

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stale(gen) {
		return nil
	}
	c.loading = false
	c.err = err
	if err != nil {
		log.Error().Err(err).Msg("promo codes refresh failed")
		return err
	}
	c.codes = list.PromoCodes
	c.pagination = list.Pagination
	return nil
}

func (c *PromoCodes) listParams() api.ListParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return api.ListParams{Page: c.page, Limit: c.pageSize, Search: c.search}
}

func (c *PromoCodes) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	c.page = page
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetQuery records the search text and resets to page one without scheduling
// a refetch, for callers that debounce on their own side and refresh
// explicitly.
func (c *PromoCodes) SetQuery(q string) {
	c.mu.Lock()
	c.search = strings.TrimSpace(q)
	c.page = 1
	c.mu.Unlock()
}

// SetSearch records the query and schedules a server refetch once typing
// pauses. Each call supersedes the previous pending one.
func (c *PromoCodes) SetSearch(q string) {
	c.SetQuery(q)
	c.debounce.trigger(func() {
		bctx, cancel := backgroundCtx()
		defer cancel()
		_ = c.Refresh(bctx)
	})
}

func (c *PromoCodes) Codes() []api.PromoCode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]api.PromoCode(nil), c.codes...)
}

func (c *PromoCodes) Pagination() api.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination
}

func validPromoDraft(d api.PromoCodeDraft) error {
	if strings.TrimSpace(d.Code) == "" {
		return errPromoCodeRequired
	}
	if d.Value <= 0 {
		return errPromoValueInvalid
	}
	if d.ValidFrom != "" && d.ValidUntil != "" && d.ValidUntil < d.ValidFrom {
		return errPromoWindowInvalid
	}
	return nil
}

func (c *PromoCodes) Create(ctx context.Context, draft api.PromoCodeDraft) error {
	if err := validPromoDraft(draft); err != nil {
		return err
	}
	err := c.client.CreatePromoCode(ctx, draft)
	logAction(c.audit, store.Action{
		Entity: "promo-codes", Action: "create", Outcome: outcome(err), Message: draft.Code,
	})
	if err != nil {
		log.Error().Err(err).Str("code", draft.Code).Msg("promo create failed")
		return err
	}
	c.setMessage("Promo code created: %s", strings.ToUpper(strings.TrimSpace(draft.Code)))
	c.reconcile()
	return nil
}

func (c *PromoCodes) Update(ctx context.Context, id string, draft api.PromoCodeDraft) error {
	if err := validPromoDraft(draft); err != nil {
		return err
	}
	err := c.client.UpdatePromoCode(ctx, id, draft)
	logAction(c.audit, store.Action{
		Entity: "promo-codes", Action: "update", TargetID: id, Outcome: outcome(err), Message: draft.Code,
	})
	if err != nil {
		log.Error().Err(err).Str("promo", id).Msg("promo update failed")
		return err
	}
	c.setMessage("Promo code updated")
	c.reconcile()
	return nil
}

// Toggle flips a code between active and inactive, patching the row locally
// on success.
func (c *PromoCodes) Toggle(ctx context.Context, id string) error {
	err := c.client.TogglePromoCode(ctx, id)
	code := id
	c.mu.Lock()
	for i := range c.codes {
		if c.codes[i].ID == id {
			code = c.codes[i].Code
			if err == nil {
				c.codes[i].IsActive = !c.codes[i].IsActive
			}
			break
		}
	}
	c.mu.Unlock()
	logAction(c.audit, store.Action{
		Entity: "promo-codes", Action: "toggle-status", TargetID: id, TargetName: code,
		Outcome: outcome(err),
	})
	if err != nil {
		log.Error().Err(err).Str("promo", id).Msg("promo toggle failed")
		return err
	}
	c.setMessage("Promo code %s toggled", code)
	c.reconcile()
	return nil
}

func (c *PromoCodes) Delete(ctx context.Context, id string) error {
	err := c.client.DeletePromoCode(ctx, id)
	c.mu.Lock()
	if err == nil {
		kept := c.codes[:0]
		for _, p := range c.codes {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		c.codes = kept
	}
	c.mu.Unlock()
	logAction(c.audit, store.Action{
		Entity: "promo-codes", Action: "delete", TargetID: id, Outcome: outcome(err),
	})
	if err != nil {
		return err
	}
	c.setMessage("Promo code deleted")
	c.reconcile()
	return nil
}

func (c *PromoCodes) reconcile() {
	go func() {
		bctx, cancel := backgroundCtx()
		defer cancel()
		_ = c.Refresh(bctx)
	}()
}
