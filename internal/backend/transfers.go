package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/erazemk/transferhub/internal/model"
)

// ErrEmptyToken is returned when the token endpoint answers without a token.
var ErrEmptyToken = errors.New("backend returned an empty access token")

// ErrMissingID is returned when a created transfer comes back without an
// identifier.
var ErrMissingID = errors.New("backend returned a transfer without an identifier")

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges staff credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var resp tokenResponse
	if err := c.do(ctx, "login", http.MethodPost, TokenPath, nil, strings.NewReader(form.Encode()), &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", ErrEmptyToken
	}
	return resp.AccessToken, nil
}

// ListTransfers fetches the transfer collection. A non-empty status narrows
// the list on the backend.
func (c *Client) ListTransfers(ctx context.Context, status string) ([]model.Transfer, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": {status}}
	}

	var transfers []model.Transfer
	if err := c.do(ctx, "list", http.MethodGet, TransfersPath, query, nil, &transfers); err != nil {
		return nil, err
	}
	if transfers == nil {
		transfers = []model.Transfer{}
	}
	return transfers, nil
}

// CreateTransfer creates a transfer and returns the backend's record.
func (c *Client) CreateTransfer(ctx context.Context, in model.TransferInput) (model.Transfer, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return model.Transfer{}, fmt.Errorf("encoding transfer: %w", err)
	}

	var created model.Transfer
	if err := c.do(ctx, "create", http.MethodPost, TransfersPath, nil, bytes.NewReader(body), &created); err != nil {
		return model.Transfer{}, err
	}
	if created.ID == "" {
		return model.Transfer{}, ErrMissingID
	}
	return created, nil
}

// UpdateTransfer replaces the editable fields of transfer id.
func (c *Client) UpdateTransfer(ctx context.Context, id string, in model.TransferInput) (model.Transfer, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return model.Transfer{}, fmt.Errorf("encoding transfer: %w", err)
	}

	var updated model.Transfer
	if err := c.do(ctx, "update", http.MethodPut, transferPath(id), nil, bytes.NewReader(body), &updated); err != nil {
		return model.Transfer{}, err
	}
	if updated.ID == "" {
		updated.ID = id
	}
	return updated, nil
}

// DeleteTransfer deletes transfer id. Any response body is ignored.
func (c *Client) DeleteTransfer(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, transferPath(id), nil, nil, nil)
}

func transferPath(id string) string {
	return TransfersPath + "/" + url.PathEscape(id)
}
