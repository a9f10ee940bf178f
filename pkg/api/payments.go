package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
)

func normalizePaymentList(raw json.RawMessage) (*PaymentList, error) {
	var p struct {
		Payments   []PaymentProof `json:"payments"`
		Pagination Pagination     `json:"pagination"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.Payments != nil }); err != nil {
		return nil, err
	}
	return &PaymentList{Payments: p.Payments, Pagination: p.Pagination}, nil
}

func (c *Client) GetPayments(ctx context.Context, params ListParams) (*PaymentList, error) {
	raw, err := c.request(ctx, http.MethodGet, "/payments", params.values(), nil)
	if err != nil {
		return nil, err
	}
	return normalizePaymentList(raw)
}

func (c *Client) ApprovePayment(ctx context.Context, id string) error {
	_, err := c.request(ctx, http.MethodPut, "/payments/"+id+"/approve", nil, nil)
	return err
}

func (c *Client) RejectPayment(ctx context.Context, id, reason string) error {
	body := struct {
		Reason string `json:"reason"`
	}{Reason: reason}
	_, err := c.request(ctx, http.MethodPut, "/payments/"+id+"/reject", nil, body)
	return err
}

func (c *Client) GetPaymentSettings(ctx context.Context) (*PaymentSettings, error) {
	raw, err := c.request(ctx, http.MethodGet, "/payments/settings", nil, nil)
	if err != nil {
		return nil, err
	}
	var p struct {
		Settings *PaymentSettings `json:"settings"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.Settings != nil }); err != nil {
		return nil, err
	}
	if p.Settings == nil {
		return &PaymentSettings{}, nil
	}
	return p.Settings, nil
}

func (c *Client) UpdatePaymentSettings(ctx context.Context, s PaymentSettings) error {
	_, err := c.request(ctx, http.MethodPut, "/payments/settings", nil, s)
	return err
}

// UploadPaymentQR uploads a new payment QR image as multipart form data.
func (c *Client) UploadPaymentQR(ctx context.Context, filename string, image io.Reader) (string, error) {
	raw, err := c.upload(ctx, http.MethodPut, "/payments/upload-qr", nil, "qr", filename, image)
	if err != nil {
		return "", err
	}
	var p struct {
		QRImageURL string `json:"qrImageUrl"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.QRImageURL != "" }); err != nil {
		return "", err
	}
	return p.QRImageURL, nil
}
