package model

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DateTimeLocalLayout is the value format of an HTML datetime-local input.
const DateTimeLocalLayout = "2006-01-02T15:04"

// DefaultPickupLocation pre-fills the pickup field of a new transfer.
const DefaultPickupLocation = "Hotel"

// Transfer form field names.
const (
	FieldGuestName      = "guest_name"
	FieldRoomNumber     = "room_number"
	FieldPhoneNumber    = "phone_number"
	FieldTransferDate   = "transfer_date"
	FieldPassengers     = "passengers"
	FieldPickupLocation = "pickup_location"
	FieldDestination    = "destination"
	FieldFlightNumber   = "flight_number"
	FieldComments       = "comments"
)

// FormFields lists every transfer form field in display order.
var FormFields = []string{
	FieldGuestName,
	FieldRoomNumber,
	FieldPhoneNumber,
	FieldTransferDate,
	FieldPassengers,
	FieldPickupLocation,
	FieldDestination,
	FieldFlightNumber,
	FieldComments,
}

// requiredFields must be non-blank.
var requiredFields = []string{
	FieldGuestName,
	FieldRoomNumber,
	FieldPhoneNumber,
	FieldTransferDate,
	FieldPassengers,
	FieldPickupLocation,
	FieldDestination,
}

// Validation errors.
var (
	ErrRequired          = errors.New("is required")
	ErrInvalidPassengers = errors.New("must be a whole number of at least 1")
	ErrInvalidDate       = errors.New("must be a date and time")
)

// FieldError reports which form field failed validation.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %v", strings.ReplaceAll(e.Field, "_", " "), e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// ParseTransferForm validates posted form values and converts them into a
// payload. The local date-time is interpreted in loc and converted to UTC, and
// passengers is coerced to an integer.
func ParseTransferForm(values url.Values, loc *time.Location) (TransferInput, error) {
	get := func(name string) string { return strings.TrimSpace(values.Get(name)) }

	for _, f := range requiredFields {
		if get(f) == "" {
			return TransferInput{}, &FieldError{Field: f, Err: ErrRequired}
		}
	}

	when, err := ParseLocalDateTime(get(FieldTransferDate), loc)
	if err != nil {
		return TransferInput{}, &FieldError{Field: FieldTransferDate, Err: ErrInvalidDate}
	}

	passengers, err := strconv.Atoi(get(FieldPassengers))
	if err != nil || passengers < 1 {
		return TransferInput{}, &FieldError{Field: FieldPassengers, Err: ErrInvalidPassengers}
	}

	return TransferInput{
		GuestName:      get(FieldGuestName),
		RoomNumber:     get(FieldRoomNumber),
		PhoneNumber:    get(FieldPhoneNumber),
		TransferDate:   when,
		Passengers:     passengers,
		PickupLocation: get(FieldPickupLocation),
		Destination:    get(FieldDestination),
		FlightNumber:   get(FieldFlightNumber),
		Comments:       get(FieldComments),
	}, nil
}

// ParseLocalDateTime reads a datetime-local value in loc and returns the
// instant in UTC. Seconds are accepted because some browsers send them.
func ParseLocalDateTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range []string{DateTimeLocalLayout, "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing local date-time %q", s)
}

// FormatLocalDateTime renders an instant as a datetime-local value in loc.
func FormatLocalDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateTimeLocalLayout)
}
