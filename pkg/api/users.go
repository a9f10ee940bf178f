package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// normalizeUserList is the one place that absorbs the top-level vs data-nested
// response shapes for user collections.
func normalizeUserList(raw json.RawMessage) (*UserList, error) {
	var p struct {
		Users      []User     `json:"users"`
		Pagination Pagination `json:"pagination"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.Users != nil }); err != nil {
		return nil, err
	}
	return &UserList{Users: p.Users, Pagination: p.Pagination}, nil
}

func (c *Client) GetUsers(ctx context.Context, params ListParams) (*UserList, error) {
	raw, err := c.request(ctx, http.MethodGet, "/users", params.values(), nil)
	if err != nil {
		return nil, err
	}
	return normalizeUserList(raw)
}

func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	raw, err := c.request(ctx, http.MethodGet, "/users/"+id, nil, nil)
	if err != nil {
		return nil, err
	}
	var p struct {
		User *User `json:"user"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.User != nil }); err != nil {
		return nil, err
	}
	if p.User == nil {
		return nil, fmt.Errorf("user %s missing from response", id)
	}
	return p.User, nil
}

// UserDraft carries the fields for registering a user from the console.
type UserDraft struct {
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Phone  string     `json:"phone,omitempty"`
	Status UserStatus `json:"status,omitempty"`
}

// CreateUser registers a new user. The created row is returned when the
// backend echoes it; callers fall back to a refresh otherwise.
func (c *Client) CreateUser(ctx context.Context, draft UserDraft) (*User, error) {
	raw, err := c.request(ctx, http.MethodPost, "/users", nil, draft)
	if err != nil {
		return nil, err
	}
	var p struct {
		User *User `json:"user"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.User != nil }); err != nil {
		return nil, err
	}
	return p.User, nil
}

// UserUpdate carries the editable profile fields. Nil pointers are omitted
// from the request body.
type UserUpdate struct {
	Name   *string     `json:"name,omitempty"`
	Email  *string     `json:"email,omitempty"`
	Phone  *string     `json:"phone,omitempty"`
	Status *UserStatus `json:"status,omitempty"`
}

func (c *Client) UpdateUser(ctx context.Context, id string, upd UserUpdate) error {
	_, err := c.request(ctx, http.MethodPut, "/users/"+id, nil, upd)
	return err
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, err := c.request(ctx, http.MethodDelete, "/users/"+id, nil, nil)
	return err
}

type coinAdjustBody struct {
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

func (c *Client) AddCoins(ctx context.Context, userID string, amount float64, reason string) (*CoinAdjustResult, error) {
	return c.adjustCoins(ctx, "/users/"+userID+"/add-coins", amount, reason)
}

func (c *Client) DeductCoins(ctx context.Context, userID string, amount float64, reason string) (*CoinAdjustResult, error) {
	return c.adjustCoins(ctx, "/users/"+userID+"/deduct-coins", amount, reason)
}

func (c *Client) adjustCoins(ctx context.Context, path string, amount float64, reason string) (*CoinAdjustResult, error) {
	raw, err := c.request(ctx, http.MethodPost, path, nil, coinAdjustBody{Amount: amount, Reason: reason})
	if err != nil {
		return nil, err
	}
	var res CoinAdjustResult
	if err := decodeDual(raw, &res, func() bool { return res.Transaction.ID != "" || res.NewBalance != 0 }); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GetUserStats(ctx context.Context) (*UserStats, error) {
	raw, err := c.request(ctx, http.MethodGet, "/users/stats", nil, nil)
	if err != nil {
		return nil, err
	}
	var p struct {
		Stats *UserStats `json:"stats"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.Stats != nil }); err != nil {
		return nil, err
	}
	if p.Stats == nil {
		return &UserStats{}, nil
	}
	return p.Stats, nil
}

func (c *Client) GetUserTransactions(ctx context.Context, userID string, params ListParams) (*TransactionList, error) {
	raw, err := c.request(ctx, http.MethodGet, "/users/"+userID+"/transactions", params.values(), nil)
	if err != nil {
		return nil, err
	}
	var p struct {
		Transactions []Transaction `json:"transactions"`
		Pagination   Pagination    `json:"pagination"`
	}
	if err := decodeDual(raw, &p, func() bool { return p.Transactions != nil }); err != nil {
		return nil, err
	}
	return &TransactionList{Transactions: p.Transactions, Pagination: p.Pagination}, nil
}
