package api

import (
	"context"
	"encoding/json"
	"net/http"
)

func normalizeSettings(raw json.RawMessage) (SettingsBundle, error) {
	var p struct {
		Settings SettingsBundle `json:"settings"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.Settings != nil }); err != nil {
		return nil, err
	}
	if p.Settings == nil {
		p.Settings = SettingsBundle{}
	}
	return p.Settings, nil
}

func (c *Client) GetSettings(ctx context.Context) (SettingsBundle, error) {
	raw, err := c.request(ctx, http.MethodGet, "/settings", nil, nil)
	if err != nil {
		return nil, err
	}
	return normalizeSettings(raw)
}

func (c *Client) UpdateSettings(ctx context.Context, bundle SettingsBundle) error {
	_, err := c.request(ctx, http.MethodPut, "/settings", nil, bundle)
	return err
}

// BulkUpdateSettings writes the whole bundle in one call. The daily-checkin
// slots ride along as checkinDay1..checkinDay7 keys inside the same flat map.
func (c *Client) BulkUpdateSettings(ctx context.Context, bundle SettingsBundle) error {
	_, err := c.request(ctx, http.MethodPut, "/settings/bulk", nil, bundle)
	return err
}

func (c *Client) UpdateSocialSettings(ctx context.Context, links map[string]string) error {
	_, err := c.request(ctx, http.MethodPut, "/settings/social", nil, links)
	return err
}
