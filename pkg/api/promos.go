package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

func normalizePromoList(raw json.RawMessage) (*PromoCodeList, error) {
	var p struct {
		PromoCodes []PromoCode `json:"promoCodes"`
		Pagination Pagination  `json:"pagination"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.PromoCodes != nil }); err != nil {
		return nil, err
	}
	return &PromoCodeList{PromoCodes: p.PromoCodes, Pagination: p.Pagination}, nil
}

func (c *Client) GetPromoCodes(ctx context.Context, params ListParams) (*PromoCodeList, error) {
	raw, err := c.request(ctx, http.MethodGet, "/settings/promo-codes", params.values(), nil)
	if err != nil {
		return nil, err
	}
	return normalizePromoList(raw)
}

// PromoCodeDraft is the create/update body. Codes are uppercased before they
// leave the client; the backend treats them as case-insensitive uniques.
type PromoCodeDraft struct {
	Code           string          `json:"code"`
	Type           PromoRewardType `json:"type"`
	Value          float64         `json:"value"`
	MaxUses        int             `json:"maxUses"`
	UsesPerUser    int             `json:"usesPerUser"`
	ValidFrom      string          `json:"validFrom,omitempty"`
	ValidUntil     string          `json:"validUntil,omitempty"`
	TargetAudience string          `json:"targetAudience,omitempty"`
}

func (d PromoCodeDraft) normalized() PromoCodeDraft {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	return d
}

func (c *Client) CreatePromoCode(ctx context.Context, draft PromoCodeDraft) error {
	_, err := c.request(ctx, http.MethodPost, "/settings/promo-codes", nil, draft.normalized())
	return err
}

func (c *Client) UpdatePromoCode(ctx context.Context, id string, draft PromoCodeDraft) error {
	_, err := c.request(ctx, http.MethodPut, "/settings/promo-codes/"+id, nil, draft.normalized())
	return err
}

func (c *Client) DeletePromoCode(ctx context.Context, id string) error {
	_, err := c.request(ctx, http.MethodDelete, "/settings/promo-codes/"+id, nil, nil)
	return err
}

func (c *Client) TogglePromoCode(ctx context.Context, id string) error {
	_, err := c.request(ctx, http.MethodPut, "/settings/promo-codes/"+id+"/toggle-status", nil, nil)
	return err
}
