package api

import (
	"context"
	"encoding/json"
	"net/http"
)

func normalizeSessionList(raw json.RawMessage) (*SessionList, error) {
	var p struct {
		Sessions   []MiningSession `json:"sessions"`
		Pagination Pagination      `json:"pagination"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.Sessions != nil }); err != nil {
		return nil, err
	}
	return &SessionList{Sessions: p.Sessions, Pagination: p.Pagination}, nil
}

func (c *Client) GetMiningSessions(ctx context.Context, params ListParams) (*SessionList, error) {
	raw, err := c.request(ctx, http.MethodGet, "/mining/sessions", params.values(), nil)
	if err != nil {
		return nil, err
	}
	return normalizeSessionList(raw)
}

func (c *Client) GetMiningStats(ctx context.Context) (*MiningStats, error) {
	raw, err := c.request(ctx, http.MethodGet, "/mining/stats", nil, nil)
	if err != nil {
		return nil, err
	}
	var p struct {
		Stats *MiningStats `json:"stats"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.Stats != nil }); err != nil {
		return nil, err
	}
	if p.Stats == nil {
		return &MiningStats{}, nil
	}
	return p.Stats, nil
}

func (c *Client) GetMiningSettings(ctx context.Context) (*MiningSettings, error) {
	raw, err := c.request(ctx, http.MethodGet, "/mining/settings", nil, nil)
	if err != nil {
		return nil, err
	}
	var p struct {
		Settings *MiningSettings `json:"settings"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.Settings != nil }); err != nil {
		return nil, err
	}
	if p.Settings == nil {
		return &MiningSettings{}, nil
	}
	return p.Settings, nil
}

func (c *Client) UpdateMiningSettings(ctx context.Context, s MiningSettings) error {
	_, err := c.request(ctx, http.MethodPut, "/mining/settings", nil, s)
	return err
}

func (c *Client) CancelMiningSession(ctx context.Context, id string) error {
	_, err := c.request(ctx, http.MethodPut, "/mining/sessions/"+id+"/cancel", nil, nil)
	return err
}
