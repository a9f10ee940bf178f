package controller

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/minedash-admin/pkg/api"
	"github.com/minedash-admin/pkg/store"
)

// maxActiveBanners is how many banners the mobile carousel rotates through;
// activating more than that would silently hide the overflow.
const maxActiveBanners = 2

var (
	errBannerTitleRequired = errors.New("banner title is required")
	errBannerImageRequired = errors.New("banner image is required")
	// ErrActiveBannerCap is returned before any network call when a toggle
	// would push the active count past the carousel limit.
	ErrActiveBannerCap = errors.New("at most 2 banners can be active at once")
)

// Banners drives the promotional banner screen. The list is small and
// unpaginated; ordering and the active cap are enforced here before the
// backend sees the mutation.
type Banners struct {
	base
	client *api.Client
	audit  ActionLogger

	banners []api.Banner
}

func NewBanners(client *api.Client, audit ActionLogger) *Banners {
	return &Banners{client: client, audit: audit}
}

func (c *Banners) Refresh(ctx context.Context) error {
	gen := c.begin()

	banners, err := c.client.GetBanners(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stale(gen) {
		return nil
	}
	c.loading = false
	c.err = err
	if err != nil {
		log.Error().Err(err).Msg("banners refresh failed")
		return err
	}
	c.banners = banners
	return nil
}

func (c *Banners) Banners() []api.Banner {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]api.Banner(nil), c.banners...)
}

func (c *Banners) ActiveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeCountLocked("")
}

// activeCountLocked counts active banners, skipping the given id so a toggle
// can ask "how many besides me". Callers must hold c.mu.
func (c *Banners) activeCountLocked(skip string) int {
	n := 0
	for _, b := range c.banners {
		if b.ID != skip && b.Status == "active" {
			n++
		}
	}
	return n
}

func validBannerDraft(d api.BannerDraft, needImage bool) error {
	if strings.TrimSpace(d.Title) == "" {
		return errBannerTitleRequired
	}
	if needImage && d.Image == nil {
		return errBannerImageRequired
	}
	return nil
}

func (c *Banners) Create(ctx context.Context, draft api.BannerDraft) error {
	if err := validBannerDraft(draft, true); err != nil {
		return err
	}
	if draft.Status == "active" {
		c.mu.Lock()
		over := c.activeCountLocked("") >= maxActiveBanners
		c.mu.Unlock()
		if over {
			return ErrActiveBannerCap
		}
	}
	err := c.client.CreateBanner(ctx, draft)
	logAction(c.audit, store.Action{
		Entity: "banners", Action: "create", Outcome: outcome(err), Message: draft.Title,
	})
	if err != nil {
		log.Error().Err(err).Msg("banner create failed")
		return err
	}
	c.setMessage("Banner created: %s", draft.Title)
	c.reconcile()
	return nil
}

func (c *Banners) Update(ctx context.Context, id string, draft api.BannerDraft) error {
	if err := validBannerDraft(draft, false); err != nil {
		return err
	}
	if draft.Status == "active" {
		c.mu.Lock()
		over := c.activeCountLocked(id) >= maxActiveBanners
		c.mu.Unlock()
		if over {
			return ErrActiveBannerCap
		}
	}
	err := c.client.UpdateBanner(ctx, id, draft)
	logAction(c.audit, store.Action{
		Entity: "banners", Action: "update", TargetID: id, Outcome: outcome(err), Message: draft.Title,
	})
	if err != nil {
		log.Error().Err(err).Str("banner", id).Msg("banner update failed")
		return err
	}
	c.setMessage("Banner updated: %s", draft.Title)
	c.reconcile()
	return nil
}

// ToggleStatus flips a banner between active and inactive. Activating is
// refused locally once the cap is reached; deactivating always goes through.
func (c *Banners) ToggleStatus(ctx context.Context, id string) error {
	c.mu.Lock()
	var target *api.Banner
	for i := range c.banners {
		if c.banners[i].ID == id {
			target = &c.banners[i]
			break
		}
	}
	if target == nil {
		c.mu.Unlock()
		return errors.New("unknown banner " + id)
	}
	activating := target.Status != "active"
	if activating && c.activeCountLocked(id) >= maxActiveBanners {
		c.mu.Unlock()
		return ErrActiveBannerCap
	}
	next := "inactive"
	if activating {
		next = "active"
	}
	draft := api.BannerDraft{
		Title:       target.Title,
		Description: target.Description,
		Link:        target.Link,
		Status:      next,
		Order:       target.Order,
	}
	title := target.Title
	c.mu.Unlock()

	err := c.client.UpdateBanner(ctx, id, draft)
	c.mu.Lock()
	if err == nil {
		for i := range c.banners {
			if c.banners[i].ID == id {
				c.banners[i].Status = next
				break
			}
		}
	}
	c.mu.Unlock()
	logAction(c.audit, store.Action{
		Entity: "banners", Action: "toggle-status", TargetID: id, TargetName: title,
		Outcome: outcome(err), Message: next,
	})
	if err != nil {
		log.Error().Err(err).Str("banner", id).Msg("banner toggle failed")
		return err
	}
	c.setMessage("Banner %s is now %s", title, next)
	c.reconcile()
	return nil
}

func (c *Banners) Delete(ctx context.Context, id string) error {
	err := c.client.DeleteBanner(ctx, id)
	c.mu.Lock()
	if err == nil {
		kept := c.banners[:0]
		for _, b := range c.banners {
			if b.ID != id {
				kept = append(kept, b)
			}
		}
		c.banners = kept
	}
	c.mu.Unlock()
	logAction(c.audit, store.Action{
		Entity: "banners", Action: "delete", TargetID: id, Outcome: outcome(err),
	})
	if err != nil {
		return err
	}
	c.setMessage("Banner deleted")
	c.reconcile()
	return nil
}

func (c *Banners) reconcile() {
	go func() {
		bctx, cancel := backgroundCtx()
		defer cancel()
		_ = c.Refresh(bctx)
	}()
}
