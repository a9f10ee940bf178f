package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

func normalizeBannerList(raw json.RawMessage) ([]Banner, error) {
	var p struct {
		Banners []Banner `json:"banners"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.Banners != nil }); err != nil {
		return nil, err
	}
	return p.Banners, nil
}

func (c *Client) GetBanners(ctx context.Context) ([]Banner, error) {
	raw, err := c.request(ctx, http.MethodGet, "/banners", nil, nil)
	if err != nil {
		return nil, err
	}
	return normalizeBannerList(raw)
}

// BannerDraft carries the form fields for create/update. Image is optional on
// update (nil keeps the existing one); create/update always go out as
// multipart because the backend expects a form either way.
type BannerDraft struct {
	Title       string
	Description string
	Link        string
	Status      string
	Order       int

	ImageName string
	Image     io.Reader
}

func (d BannerDraft) fields() map[string]string {
	return map[string]string{
		"title":       d.Title,
		"description": d.Description,
		"link":        d.Link,
		"status":      d.Status,
		"order":       fmt.Sprintf("%d", d.Order),
	}
}

func (c *Client) CreateBanner(ctx context.Context, draft BannerDraft) error {
	_, err := c.upload(ctx, http.MethodPost, "/banners", draft.fields(), "image", draft.ImageName, draft.Image)
	return err
}

func (c *Client) UpdateBanner(ctx context.Context, id string, draft BannerDraft) error {
	_, err := c.upload(ctx, http.MethodPut, "/banners/"+id, draft.fields(), "image", draft.ImageName, draft.Image)
	return err
}

func (c *Client) DeleteBanner(ctx context.Context, id string) error {
	_, err := c.request(ctx, http.MethodDelete, "/banners/"+id, nil, nil)
	return err
}
