package api

import (
	"context"
	"encoding/json"
	"net/http"
)

func normalizeReferralList(raw json.RawMessage) (*ReferralList, error) {
	var p struct {
		Referrals  []ReferralEdge `json:"referrals"`
		Pagination Pagination     `json:"pagination"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.Referrals != nil }); err != nil {
		return nil, err
	}
	return &ReferralList{Referrals: p.Referrals, Pagination: p.Pagination}, nil
}

func (c *Client) GetReferrals(ctx context.Context, params ListParams) (*ReferralList, error) {
	raw, err := c.request(ctx, http.MethodGet, "/referrals", params.values(), nil)
	if err != nil {
		return nil, err
	}
	return normalizeReferralList(raw)
}

func (c *Client) GetReferralStats(ctx context.Context) (*ReferralStats, error) {
	raw, err := c.request(ctx, http.MethodGet, "/referrals/stats", nil, nil)
	if err != nil {
		return nil, err
	}
	var p struct {
		Stats *ReferralStats `json:"stats"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.Stats != nil }); err != nil {
		return nil, err
	}
	if p.Stats == nil {
		return &ReferralStats{}, nil
	}
	return p.Stats, nil
}

func (c *Client) GetReferralSettings(ctx context.Context) (*ReferralSettings, error) {
	raw, err := c.request(ctx, http.MethodGet, "/referrals/settings", nil, nil)
	if err != nil {
		return nil, err
	}
	var p struct {
		Settings *ReferralSettings `json:"settings"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.Settings != nil }); err != nil {
		return nil, err
	}
	if p.Settings == nil {
		return &ReferralSettings{}, nil
	}
	return p.Settings, nil
}

func (c *Client) UpdateReferralSettings(ctx context.Context, s ReferralSettings) error {
	_, err := c.request(ctx, http.MethodPut, "/referrals/settings", nil, s)
	return err
}
