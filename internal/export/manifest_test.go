package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/erazemk/transferhub/internal/model"
)

func TestManifest(t *testing.T) {
	transfers := []model.Transfer{
		{
			ID:             "t1",
			GuestName:      "Zoë Müller",
			RoomNumber:     "204",
			TransferDate:   time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
			Passengers:     2,
			PickupLocation: "Hotel",
			Destination:    "Airport",
			FlightNumber:   "LH123",
			Status:         model.StatusScheduled,
		},
	}

	var buf bytes.Buffer
	now := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)
	if err := Manifest(&buf, "Transfers", transfers, time.UTC, now); err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", buf.Bytes()[:min(buf.Len(), 16)])
	}
}

func TestManifestEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Manifest(&buf, "Transfers", nil, nil, time.Now()); err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty output")
	}
}
