package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/erazemk/transferhub/internal/model"
)

// Mode is the purpose of a transfer form.
type Mode string

// Form modes.
const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// User-facing messages.
const (
	MsgLoadFailed   = "Failed to fetch transfers."
	MsgSaveFailed   = "Could not save the transfer. Check the details."
	MsgDeleteFailed = "Could not delete the transfer."
)

// Form collects a transfer for create or edit. Values are kept as posted so a
// failed submit re-renders exactly what the user typed.
type Form struct {
	Mode   Mode
	ID     string
	Values url.Values
	Error  string

	loc *time.Location
}

// NewCreateForm returns an empty form with the create defaults.
func NewCreateForm(loc *time.Location) *Form {
	f := &Form{Mode: ModeCreate, Values: url.Values{}, loc: loc}
	for _, name := range model.FormFields {
		f.Values.Set(name, "")
	}
	f.Values.Set(model.FieldPassengers, "1")
	f.Values.Set(model.FieldPickupLocation, model.DefaultPickupLocation)
	return f
}

// NewEditForm returns a form pre-filled from t.
func NewEditForm(t model.Transfer, loc *time.Location) *Form {
	f := &Form{Mode: ModeEdit, ID: t.ID, Values: url.Values{}, loc: loc}
	f.Values.Set(model.FieldGuestName, t.GuestName)
	f.Values.Set(model.FieldRoomNumber, t.RoomNumber)
	f.Values.Set(model.FieldPhoneNumber, t.PhoneNumber)
	f.Values.Set(model.FieldTransferDate, model.FormatLocalDateTime(t.TransferDate, loc))
	f.Values.Set(model.FieldPassengers, strconv.Itoa(t.Passengers))
	f.Values.Set(model.FieldPickupLocation, t.PickupLocation)
	f.Values.Set(model.FieldDestination, t.Destination)
	f.Values.Set(model.FieldFlightNumber, t.FlightNumber)
	f.Values.Set(model.FieldComments, t.Comments)
	return f
}

// Get returns the current value of a field.
func (f *Form) Get(name string) string {
	return f.Values.Get(name)
}

// Bind copies the known transfer fields from posted values.
func (f *Form) Bind(posted url.Values) {
	for _, name := range model.FormFields {
		f.Values.Set(name, posted.Get(name))
	}
}

// Submit validates the form and sends it to the backend. On success onDone
// receives the normalised record; on any failure onError receives a message
// for the user. The form's values are left untouched either way.
func (f *Form) Submit(ctx context.Context, api TransferAPI, onDone func(model.Transfer), onError func(string)) {
	in, err := model.ParseTransferForm(f.Values, f.loc)
	if err != nil {
		var fe *model.FieldError
		if errors.As(err, &fe) {
			onError("Could not save the transfer: " + fe.Error() + ".")
			return
		}
		onError(MsgSaveFailed)
		return
	}

	var saved model.Transfer
	switch f.Mode {
	case ModeEdit:
		saved, err = api.UpdateTransfer(ctx, f.ID, in)
	default:
		saved, err = api.CreateTransfer(ctx, in)
	}
	if err != nil {
		slog.Warn("transfer save failed", "mode", f.Mode, "id", f.ID, "error", err)
		onError(MsgSaveFailed)
		return
	}

	slog.Info("transfer saved", "mode", f.Mode, "id", saved.ID, "guest", saved.GuestName)
	onDone(saved)
}

func (f *Form) clone() *Form {
	if f == nil {
		return nil
	}
	c := *f
	c.Values = url.Values{}
	for k, v := range f.Values {
		c.Values[k] = append([]string(nil), v...)
	}
	return &c
}
