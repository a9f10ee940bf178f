package api

import (
	"context"
	"encoding/json"
	"net/http"
)

func normalizeNotificationList(raw json.RawMessage) (*NotificationList, error) {
	var p struct {
		Notifications []Notification `json:"notifications"`
		Pagination    Pagination     `json:"pagination"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.Notifications != nil }); err != nil {
		return nil, err
	}
	return &NotificationList{Notifications: p.Notifications, Pagination: p.Pagination}, nil
}

func (c *Client) GetNotifications(ctx context.Context, params ListParams) (*NotificationList, error) {
	raw, err := c.request(ctx, http.MethodGet, "/notifications", params.values(), nil)
	if err != nil {
		return nil, err
	}
	return normalizeNotificationList(raw)
}

// NotificationDraft is the outbound shape for single and bulk sends. Target
// is "all" for broadcast or a specific user id.
type NotificationDraft struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Target  string `json:"target"`
}

func (c *Client) SendNotification(ctx context.Context, draft NotificationDraft) error {
	_, err := c.request(ctx, http.MethodPost, "/notifications", nil, draft)
	return err
}

func (c *Client) SendBulkNotifications(ctx context.Context, drafts []NotificationDraft) error {
	body := struct {
		Notifications []NotificationDraft `json:"notifications"`
	}{Notifications: drafts}
	_, err := c.request(ctx, http.MethodPost, "/notifications/bulk", nil, body)
	return err
}

func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	_, err := c.request(ctx, http.MethodDelete, "/notifications/"+id, nil, nil)
	return err
}

func (c *Client) GetNotificationStats(ctx context.Context) (*NotificationStats, error) {
	raw, err := c.request(ctx, http.MethodGet, "/notifications/stats", nil, nil)
	if err != nil {
		return nil, err
	}
	var p struct {
		Stats *NotificationStats `json:"stats"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.Stats != nil }); err != nil {
		return nil, err
	}
	if p.Stats == nil {
		return &NotificationStats{}, nil
	}
	return p.Stats, nil
}

func (c *Client) GetNotificationTemplates(ctx context.Context) ([]NotificationTemplate, error) {
	raw, err := c.request(ctx, http.MethodGet, "/notifications/templates", nil, nil)
	if err != nil {
		return nil, err
	}
	var p struct {
		Templates []NotificationTemplate `json:"templates"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.Templates != nil }); err != nil {
		return nil, err
	}
	return p.Templates, nil
}
