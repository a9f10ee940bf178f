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

// KYC drives the verification review queue. The state machine is
// pending -> approved or pending -> rejected, both terminal; rejecting
// requires a non-empty reason collected before anything hits the network.
type KYC struct {
	base
	client   *api.Client
	audit    ActionLogger
	pageSize int

	requests   []api.KYCRequest
	pagination api.Pagination
	pending    int64

	page         int
	statusFilter string
}

func NewKYC(client *api.Client, audit ActionLogger, pageSize int) *KYC {
	return &KYC{client: client, audit: audit, pageSize: pageSize, page: 1, statusFilter: string(api.ReviewPending)}
}

func (c *KYC) Refresh(ctx context.Context) error {
	gen := c.begin()

	var (
		list  *api.KYCList
		stats *api.UserStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = c.client.GetKYCRequests(gctx, c.listParams())
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = c.client.GetUserStats(gctx)
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
		log.Error().Err(err).Msg("kyc refresh failed")
		return err
	}
	c.requests = list.Requests
	c.pagination = list.Pagination
	c.pending = stats.PendingKYC
	return nil
}

func (c *KYC) listParams() api.ListParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return api.ListParams{Page: c.page, Limit: c.pageSize, Status: c.statusFilter}
}

func (c *KYC) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	c.page = page
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetTab switches the status tab (pending/approved/rejected) and refetches.
func (c *KYC) SetTab(ctx context.Context, status string) error {
	c.mu.Lock()
	c.statusFilter = status
	c.page = 1
	c.mu.Unlock()
	return c.Refresh(ctx)
}

func (c *KYC) Requests() []api.KYCRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]api.KYCRequest(nil), c.requests...)
}

func (c *KYC) PendingCount() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

func (c *KYC) Pagination() api.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination
}

func (c *KYC) PageText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return metrics.PageWindow(c.pagination, c.pageSize)
}

// Approve flips one request to approved. On success the record is patched
// locally before the background refetch resolves, so the queue updates
// immediately; other rows are untouched.
func (c *KYC) Approve(ctx context.Context, id string) error {
	err := c.client.ApproveKYC(ctx, id)
	name := c.patchStatus(id, api.ReviewApproved, "", err == nil)
	logAction(c.audit, store.Action{
		Entity: "kyc", Action: "approve", TargetID: id, TargetName: name,
		Outcome: outcome(err),
	})
	if err != nil {
		log.Error().Err(err).Str("request", id).Msg("kyc approve failed")
		return err
	}
	c.setMessage("KYC approved for %s", name)
	c.reconcile()
	return nil
}

// Reject requires a non-empty reason; a blank one returns before any network
// call is issued.
func (c *KYC) Reject(ctx context.Context, id, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	err := c.client.RejectKYC(ctx, id, reason)
	name := c.patchStatus(id, api.ReviewRejected, reason, err == nil)
	logAction(c.audit, store.Action{
		Entity: "kyc", Action: "reject", TargetID: id, TargetName: name,
		Outcome: outcome(err), Message: reason,
	})
	if err != nil {
		log.Error().Err(err).Str("request", id).Msg("kyc reject failed")
		return err
	}
	c.setMessage("KYC rejected for %s", name)
	c.reconcile()
	return nil
}

func (c *KYC) patchStatus(id string, status api.ReviewStatus, reason string, apply bool) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.requests {
		if c.requests[i].ID != id {
			continue
		}
		if apply {
			c.requests[i].Status = status
			c.requests[i].RejectionReason = reason
		}
		return c.requests[i].UserName
	}
	return id
}

func (c *KYC) reconcile() {
	go func() {
		bctx, cancel := backgroundCtx()
		defer cancel()
		_ = c.Refresh(bctx)
	}()
}
