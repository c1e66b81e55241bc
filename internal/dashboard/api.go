// Package dashboard holds the transfer list view, its form and filters.
package dashboard

import (
	"context"

	"github.com/erazemk/transferhub/internal/model"
)

// TransferAPI is the part of the backend client the dashboard uses.
type TransferAPI interface {
	ListTransfers(ctx context.Context, status string) ([]model.Transfer, error)
	CreateTransfer(ctx context.Context, in model.TransferInput) (model.Transfer, error)
	UpdateTransfer(ctx context.Context, id string, in model.TransferInput) (model.Transfer, error)
	DeleteTransfer(ctx context.Context, id string) error
}
