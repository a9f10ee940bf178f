package api

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) GetDashboardStats(ctx context.Context, period string) (*DashboardStats, error) {
	q := url.Values{}
	if period != "" {
		q.Set("period", period)
	}
	raw, err := c.request(ctx, http.MethodGet, "/dashboard/stats", q, nil)
	if err != nil {
		return nil, err
	}
	var p struct {
		Stats *DashboardStats `json:"stats"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.Stats != nil }); err != nil {
		return nil, err
	}
	if p.Stats == nil {
		return &DashboardStats{}, nil
	}
	return p.Stats, nil
}

func (c *Client) GetHealth(ctx context.Context) (*Health, error) {
	raw, err := c.request(ctx, http.MethodGet, "/dashboard/health", nil, nil)
	if err != nil {
		return nil, err
	}
	var h Health
	if err := decodeDual(raw, &h, func() bool { return h.Status != "" }); err != nil {
		return nil, err
	}
	return &h, nil
}
