package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/erazemk/transferhub/internal/model"
)

var errBackend = errors.New("backend unavailable")

// fakeAPI is an in-memory TransferAPI that records calls.
type fakeAPI struct {
	mu        sync.Mutex
	list      []model.Transfer
	listErr   error
	saveErr   error
	deleteErr error
	nextID    int

	created []model.TransferInput
	updated map[string]model.TransferInput
	deleted []string
	calls   int
}

func newFakeAPI(list ...model.Transfer) *fakeAPI {
	return &fakeAPI{list: list, updated: map[string]model.TransferInput{}}
}

func (f *fakeAPI) ListTransfers(ctx context.Context, status string) ([]model.Transfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Transfer(nil), f.list...), nil
}

func (f *fakeAPI) CreateTransfer(ctx context.Context, in model.TransferInput) (model.Transfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.saveErr != nil {
		return model.Transfer{}, f.saveErr
	}
	f.created = append(f.created, in)
	f.nextID++
	return fromInput(fmt.Sprintf("new%d", f.nextID), in), nil
}

func (f *fakeAPI) UpdateTransfer(ctx context.Context, id string, in model.TransferInput) (model.Transfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.saveErr != nil {
		return model.Transfer{}, f.saveErr
	}
	f.updated[id] = in
	return fromInput(id, in), nil
}

func (f *fakeAPI) DeleteTransfer(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func fromInput(id string, in model.TransferInput) model.Transfer {
	return model.Transfer{
		ID:             id,
		GuestName:      in.GuestName,
		RoomNumber:     in.RoomNumber,
		PhoneNumber:    in.PhoneNumber,
		TransferDate:   in.TransferDate,
		Passengers:     in.Passengers,
		PickupLocation: in.PickupLocation,
		Destination:    in.Destination,
		FlightNumber:   in.FlightNumber,
		Comments:       in.Comments,
		Status:         model.StatusScheduled,
	}
}
