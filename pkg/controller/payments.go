package controller

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/minedash-admin/pkg/api"
	"github.com/minedash-admin/pkg/metrics"
	"github.com/minedash-admin/pkg/store"
)

// Payments drives the UTR review queue plus the payment-method settings
// (UPI id, QR image, coin rate). Approve/reject mirrors the KYC state
// machine: both transitions are terminal, reject needs a reason.
type Payments struct {
	base
	client   *api.Client
	audit    ActionLogger
	pageSize int

	payments   []api.PaymentProof
	pagination api.Pagination
	settings   api.PaymentSettings

	page         int
	statusFilter string
}

func NewPayments(client *api.Client, audit ActionLogger, pageSize int) *Payments {
	return &Payments{client: client, audit: audit, pageSize: pageSize, page: 1, statusFilter: string(api.ReviewPending)}
}

// Refresh fetches the queue and the payment settings concurrently.
func (c *Payments) Refresh(ctx context.Context) error {
	gen := c.begin()

	var (
		list     *api.PaymentList
		settings *api.PaymentSettings
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = c.client.GetPayments(gctx, c.listParams())
		return err
	})
	g.Go(func() error {
		var err error
		settings, err = c.client.GetPaymentSettings(gctx)
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
		log.Error().Err(err).Msg("payments refresh failed")
		return err
	}
	c.payments = list.Payments
	c.pagination = list.Pagination
	c.settings = *settings
	return nil
}

func (c *Payments) listParams() api.ListParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return api.ListParams{Page: c.page, Limit: c.pageSize, Status: c.statusFilter}
}

func (c *Payments) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	c.page = page
	c.mu.Unlock()
	return c.Refresh(ctx)
}

func (c *Payments) SetTab(ctx context.Context, status string) error {
	c.mu.Lock()
	c.statusFilter = status
	c.page = 1
	c.mu.Unlock()
	return c.Refresh(ctx)
}

func (c *Payments) Payments() []api.PaymentProof {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]api.PaymentProof(nil), c.payments...)
}

func (c *Payments) Settings() api.PaymentSettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

func (c *Payments) Pagination() api.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination
}

func (c *Payments) PageText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return metrics.PageWindow(c.pagination, c.pageSize)
}

func (c *Payments) Approve(ctx context.Context, id string) error {
	err := c.client.ApprovePayment(ctx, id)
	name := c.patchStatus(id, api.ReviewApproved, err == nil)
	logAction(c.audit, store.Action{
		Entity: "payments", Action: "approve", TargetID: id, TargetName: name,
		Outcome: outcome(err),
	})
	if err != nil {
		log.Error().Err(err).Str("payment", id).Msg("payment approve failed")
		return err
	}
	c.setMessage("Payment approved for %s", name)
	c.reconcile()
	return nil
}

func (c *Payments) Reject(ctx context.Context, id, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	err := c.client.RejectPayment(ctx, id, reason)
	name := c.patchStatus(id, api.ReviewRejected, err == nil)
	logAction(c.audit, store.Action{
		Entity: "payments", Action: "reject", TargetID: id, TargetName: name,
		Outcome: outcome(err), Message: reason,
	})
	if err != nil {
		log.Error().Err(err).Str("payment", id).Msg("payment reject failed")
		return err
	}
	c.setMessage("Payment rejected for %s", name)
	c.reconcile()
	return nil
}

func (c *Payments) patchStatus(id string, status api.ReviewStatus, apply bool) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.payments {
		if c.payments[i].ID != id {
			continue
		}
		if apply {
			c.payments[i].Status = status
		}
		return c.payments[i].UserName
	}
	return id
}

func (c *Payments) SaveSettings(ctx context.Context, s api.PaymentSettings) error {
	err := c.client.UpdatePaymentSettings(ctx, s)
	logAction(c.audit, store.Action{
		Entity: "payments", Action: "save-settings", Outcome: outcome(err),
	})
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.settings = s
	c.mu.Unlock()
	c.setMessage("Payment settings saved")
	return nil
}

// UploadQR replaces the payment QR image and patches the cached settings
// with the returned URL.
func (c *Payments) UploadQR(ctx context.Context, filename string, image io.Reader) error {
	url, err := c.client.UploadPaymentQR(ctx, filename, image)
	logAction(c.audit, store.Action{
		Entity: "payments", Action: "upload-qr", Outcome: outcome(err), Message: filename,
	})
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.settings.QRImageURL = url
	c.mu.Unlock()
	c.setMessage("Payment QR updated")
	return nil
}

func (c *Payments) reconcile() {
	go func() {
		bctx, cancel := backgroundCtx()
		defer cancel()
		_ = c.Refresh(bctx)
	}()
}
