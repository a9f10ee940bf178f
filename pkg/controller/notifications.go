package controller

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/minedash-admin/pkg/api"
	"github.com/minedash-admin/pkg/metrics"
	"github.com/minedash-admin/pkg/store"
)

var errDraftIncomplete = errors.New("notification title and message are required")

// Notifications drives the push-message screen: history list, send stats,
// reusable templates, and the single/bulk send actions. Delivery itself is
// the backend's job; the console only composes and submits.
type Notifications struct {
	base
	client   *api.Client
	audit    ActionLogger
	pageSize int

	notifications []api.Notification
	pagination    api.Pagination
	stats         api.NotificationStats
	templates     []api.NotificationTemplate

	page int
}

func NewNotifications(client *api.Client, audit ActionLogger, pageSize int) *Notifications {
	return &Notifications{client: client, audit: audit, pageSize: pageSize, page: 1}
}

func (c *Notifications) Refresh(ctx context.Context) error {
	gen := c.begin()

	var (
		list      *api.NotificationList
		stats     *api.NotificationStats
		templates []api.NotificationTemplate
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = c.client.GetNotifications(gctx, c.listParams())
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = c.client.GetNotificationStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		templates, err = c.client.GetNotificationTemplates(gctx)
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
		log.Error().Err(err).Msg("notifications refresh failed")
		return err
	}
	c.notifications = list.Notifications
	c.pagination = list.Pagination
	c.stats = *stats
	c.templates = templates
	return nil
}

func (c *Notifications) listParams() api.ListParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return api.ListParams{Page: c.page, Limit: c.pageSize}
}

func (c *Notifications) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	c.page = page
	c.mu.Unlock()
	return c.Refresh(ctx)
}

func (c *Notifications) Notifications() []api.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]api.Notification(nil), c.notifications...)
}

func (c *Notifications) Templates() []api.NotificationTemplate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]api.NotificationTemplate(nil), c.templates...)
}

func (c *Notifications) Stats() api.NotificationStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Notifications) PageText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return metrics.PageWindow(c.pagination, c.pageSize)
}

func validDraft(d api.NotificationDraft) error {
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Message) == "" {
		return errDraftIncomplete
	}
	return nil
}

func (c *Notifications) Send(ctx context.Context, draft api.NotificationDraft) error {
	if err := validDraft(draft); err != nil {
		return err
	}
	if draft.Target == "" {
		draft.Target = "all"
	}
	err := c.client.SendNotification(ctx, draft)
	logAction(c.audit, store.Action{
		Entity: "notifications", Action: "send", TargetID: draft.Target,
		Outcome: outcome(err), Message: draft.Title,
	})
	if err != nil {
		log.Error().Err(err).Msg("notification send failed")
		return err
	}
	c.setMessage("Notification sent: %s", draft.Title)
	c.reconcile()
	return nil
}

func (c *Notifications) SendBulk(ctx context.Context, drafts []api.NotificationDraft) error {
	if len(drafts) == 0 {
		return errDraftIncomplete
	}
	for _, d := range drafts {
		if err := validDraft(d); err != nil {
			return err
		}
	}
	err := c.client.SendBulkNotifications(ctx, drafts)
	logAction(c.audit, store.Action{
		Entity: "notifications", Action: "send-bulk",
		Outcome: outcome(err),
	})
	if err != nil {
		log.Error().Err(err).Int("count", len(drafts)).Msg("bulk send failed")
		return err
	}
	c.setMessage("Sent %d notifications", len(drafts))
	c.reconcile()
	return nil
}

func (c *Notifications) Delete(ctx context.Context, id string) error {
	err := c.client.DeleteNotification(ctx, id)
	c.mu.Lock()
	if err == nil {
		kept := c.notifications[:0]
		for _, n := range c.notifications {
			if n.ID != id {
				kept = append(kept, n)
			}
		}
		c.notifications = kept
	}
	c.mu.Unlock()
	logAction(c.audit, store.Action{
		Entity: "notifications", Action: "delete", TargetID: id,
		Outcome: outcome(err),
	})
	if err != nil {
		return err
	}
	c.setMessage("Notification deleted")
	c.reconcile()
	return nil
}

func (c *Notifications) reconcile() {
	go func() {
		bctx, cancel := backgroundCtx()
		defer cancel()
		_ = c.Refresh(bctx)
	}()
}
