package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Transfer is a guest ground-transfer booking as returned by the backend.
type Transfer struct {
	ID             string    `json:"id"`
	GuestName      string    `json:"guest_name"`
	RoomNumber     string    `json:"room_number"`
	PhoneNumber    string    `json:"phone_number"`
	TransferDate   time.Time `json:"transfer_date"`
	Passengers     int       `json:"passengers"`
	PickupLocation string    `json:"pickup_location"`
	Destination    string    `json:"destination"`
	FlightNumber   string    `json:"flight_number,omitempty"`
	Comments       string    `json:"comments,omitempty"`
	Status         string    `json:"status"`
}

// Transfer statuses. They are assigned by the backend; the terminal never
// sends them.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
)

// UnmarshalJSON decodes a backend transfer. This is the one place that knows
// the backend may name the identifier either "_id" or "id": both end up in ID,
// with "_id" taking precedence when both are present.
func (t *Transfer) UnmarshalJSON(data []byte) error {
	type plain Transfer
	var raw struct {
		plain
		MongoID      string `json:"_id"`
		TransferDate string `json:"transfer_date"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	when, err := parseInstant(raw.TransferDate)
	if err != nil {
		return fmt.Errorf("transfer_date: %w", err)
	}

	*t = Transfer(raw.plain)
	t.TransferDate = when
	if raw.MongoID != "" {
		t.ID = raw.MongoID
	}
	return nil
}

// instantLayouts are tried in order. The backend stores naive UTC datetimes,
// so values without an offset are read as UTC.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

func parseInstant(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// Route is the human-readable route shown in the transfer list.
func (t Transfer) Route() string {
	return fmt.Sprintf("%s to %s", t.PickupLocation, t.Destination)
}

// Matches reports whether the guest name or room number contains query,
// case-insensitively. An empty query matches everything.
func (t Transfer) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.GuestName), q) ||
		strings.Contains(strings.ToLower(t.RoomNumber), q)
}

// Input returns the editable fields of t.
func (t Transfer) Input() TransferInput {
	return TransferInput{
		GuestName:      t.GuestName,
		RoomNumber:     t.RoomNumber,
		PhoneNumber:    t.PhoneNumber,
		TransferDate:   t.TransferDate,
		Passengers:     t.Passengers,
		PickupLocation: t.PickupLocation,
		Destination:    t.Destination,
		FlightNumber:   t.FlightNumber,
		Comments:       t.Comments,
	}
}

// TransferInput is the payload sent to create or update a transfer.
type TransferInput struct {
	GuestName      string    `json:"guest_name"`
	RoomNumber     string    `json:"room_number"`
	PhoneNumber    string    `json:"phone_number"`
	TransferDate   time.Time `json:"transfer_date"`
	Passengers     int       `json:"passengers"`
	PickupLocation string    `json:"pickup_location"`
	Destination    string    `json:"destination"`
	FlightNumber   string    `json:"flight_number,omitempty"`
	Comments       string    `json:"comments,omitempty"`
}
