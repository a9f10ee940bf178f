package api

import (
	"context"
	"encoding/json"
	"net/http"
)

func normalizeKYCList(raw json.RawMessage) (*KYCList, error) {
	var p struct {
		Requests   []KYCRequest `json:"requests"`
		Pagination Pagination   `json:"pagination"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.Requests != nil }); err != nil {
		return nil, err
	}
	return &KYCList{Requests: p.Requests, Pagination: p.Pagination}, nil
}

func (c *Client) GetKYCRequests(ctx context.Context, params ListParams) (*KYCList, error) {
	raw, err := c.request(ctx, http.MethodGet, "/kyc", params.values(), nil)
	if err != nil {
		return nil, err
	}
	return normalizeKYCList(raw)
}

func (c *Client) ApproveKYC(ctx context.Context, id string) error {
	_, err := c.request(ctx, http.MethodPut, "/kyc/"+id+"/approve", nil, nil)
	return err
}

func (c *Client) RejectKYC(ctx context.Context, id, reason string) error {
	body := struct {
		Reason string `json:"reason"`
	}{Reason: reason}
	_, err := c.request(ctx, http.MethodPut, "/kyc/"+id+"/reject", nil, body)
	return err
}
