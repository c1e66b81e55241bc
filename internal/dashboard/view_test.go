package dashboard

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/transferhub/internal/model"
)

func seed() []model.Transfer {
	return []model.Transfer{
		{ID: "t1", GuestName: "Jane Doe", RoomNumber: "204", Passengers: 2, PickupLocation: "Hotel", Destination: "Airport", Status: model.StatusScheduled},
		{ID: "t2", GuestName: "John Roe", RoomNumber: "305", Passengers: 1, PickupLocation: "Hotel", Destination: "Station", Status: model.StatusScheduled},
		{ID: "t3", GuestName: "Ana Novak", RoomNumber: "112", Passengers: 3, PickupLocation: "Airport", Destination: "Hotel", Status: model.StatusCompleted},
	}
}

func readyView(t *testing.T, api *fakeAPI) *View {
	t.Helper()
	v := NewView(api, time.UTC)
	require.NoError(t, v.EnsureLoaded(context.Background()))
	require.Equal(t, StateReady, v.Snapshot().State)
	return v
}

func validPost() url.Values {
	return url.Values{
		model.FieldGuestName:      {"Jane Doe"},
		model.FieldRoomNumber:     {"204"},
		model.FieldPhoneNumber:    {"+1234567890"},
		model.FieldTransferDate:   {"2024-05-01T10:00"},
		model.FieldPassengers:     {"2"},
		model.FieldPickupLocation: {"Hotel"},
		model.FieldDestination:    {"Airport"},
	}
}

func ids(ts []model.Transfer) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func TestLoadStates(t *testing.T) {
	api := newFakeAPI(seed()...)
	v := NewView(api, time.UTC)
	assert.Equal(t, StateUnmounted, v.Snapshot().State)

	require.NoError(t, v.EnsureLoaded(context.Background()))
	snap := v.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, []string{"t1", "t2", "t3"}, ids(snap.Transfers))

	// A mounted view does not fetch again.
	require.NoError(t, v.EnsureLoaded(context.Background()))
	assert.Equal(t, 1, api.callCount())
}

func TestLoadFailureIsTerminal(t *testing.T) {
	api := newFakeAPI()
	api.listErr = errBackend
	v := NewView(api, time.UTC)

	err := v.EnsureLoaded(context.Background())
	require.ErrorIs(t, err, errBackend)

	snap := v.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, MsgLoadFailed, snap.Error)

	// No automatic retry on the next visit.
	require.NoError(t, v.EnsureLoaded(context.Background()))
	assert.Equal(t, 1, api.callCount())

	// Actions are unavailable outside ready.
	assert.ErrorIs(t, v.OpenCreate(), ErrNotReady)
	assert.ErrorIs(t, v.OpenEdit("t1"), ErrNotReady)
	assert.ErrorIs(t, v.Refresh(context.Background()), ErrNotReady)
	assert.ErrorIs(t, v.Delete(context.Background(), "t1", true), ErrNotReady)
}

func TestCreatePrependsExactlyOnce(t *testing.T) {
	api := newFakeAPI(seed()...)
	v := readyView(t, api)

	require.NoError(t, v.OpenCreate())
	snap := v.Snapshot()
	require.True(t, snap.ModalOpen())
	assert.Equal(t, ModeCreate, snap.Form.Mode)
	assert.Nil(t, snap.EditTarget)

	require.NoError(t, v.SubmitForm(context.Background(), ModeCreate, "", validPost()))

	snap = v.Snapshot()
	assert.Equal(t, []string{"new1", "t1", "t2", "t3"}, ids(snap.Transfers))
	assert.False(t, snap.ModalOpen())

	// Payload conversions happened before the call.
	require.Len(t, api.created, 1)
	assert.Equal(t, 2, api.created[0].Passengers)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), api.created[0].TransferDate)

	// No re-fetch after the mutation.
	assert.Equal(t, 2, api.callCount())
}

func TestSubmittedKnownIDIsNotDuplicated(t *testing.T) {
	v := readyView(t, newFakeAPI(seed()...))

	require.NoError(t, v.Submitted(model.Transfer{ID: "t2", GuestName: "John Roe Jr."}))
	snap := v.Snapshot()
	assert.Equal(t, []string{"t1", "t2", "t3"}, ids(snap.Transfers))
	assert.Equal(t, "John Roe Jr.", snap.Transfers[1].GuestName)
}

func TestEditReplacesInPlace(t *testing.T) {
	api := newFakeAPI(seed()...)
	v := readyView(t, api)
	before := v.Snapshot().Transfers

	require.NoError(t, v.OpenEdit("t2"))
	snap := v.Snapshot()
	require.NotNil(t, snap.EditTarget)
	assert.Equal(t, "t2", snap.EditTarget.ID)
	assert.Equal(t, ModeEdit, snap.Form.Mode)
	assert.Equal(t, "John Roe", snap.Form.Get(model.FieldGuestName))

	post := validPost()
	post.Set(model.FieldGuestName, "John Roe")
	post.Set(model.FieldDestination, "Harbour")
	require.NoError(t, v.SubmitForm(context.Background(), ModeEdit, "t2", post))

	after := v.Snapshot()
	assert.Equal(t, []string{"t1", "t2", "t3"}, ids(after.Transfers))
	assert.Equal(t, "Harbour", after.Transfers[1].Destination)
	assert.Equal(t, before[0], after.Transfers[0])
	assert.Equal(t, before[2], after.Transfers[2])
	assert.Nil(t, after.EditTarget)
	assert.False(t, after.ModalOpen())
	assert.Contains(t, api.updated, "t2")
}

func TestOpenCreateClearsEditTarget(t *testing.T) {
	v := readyView(t, newFakeAPI(seed()...))

	require.NoError(t, v.OpenEdit("t1"))
	require.NoError(t, v.OpenCreate())

	snap := v.Snapshot()
	assert.Nil(t, snap.EditTarget)
	assert.Equal(t, ModeCreate, snap.Form.Mode)
	assert.Equal(t, "1", snap.Form.Get(model.FieldPassengers))
	assert.Equal(t, model.DefaultPickupLocation, snap.Form.Get(model.FieldPickupLocation))
}

func TestOpenEditUnknownID(t *testing.T) {
	v := readyView(t, newFakeAPI(seed()...))
	assert.ErrorIs(t, v.OpenEdit("nope"), ErrNotFound)
}

func TestSubmitFormRequiresMatchingForm(t *testing.T) {
	v := readyView(t, newFakeAPI(seed()...))

	assert.ErrorIs(t, v.SubmitForm(context.Background(), ModeCreate, "", validPost()), ErrNoForm)

	require.NoError(t, v.OpenEdit("t1"))
	assert.ErrorIs(t, v.SubmitForm(context.Background(), ModeEdit, "t2", validPost()), ErrNoForm)
	assert.ErrorIs(t, v.SubmitForm(context.Background(), ModeCreate, "", validPost()), ErrNoForm)
}

func TestSubmitFailureKeepsFormAndList(t *testing.T) {
	api := newFakeAPI(seed()...)
	api.saveErr = errBackend
	v := readyView(t, api)

	require.NoError(t, v.OpenCreate())
	post := validPost()
	post.Set(model.FieldComments, "VIP")

	err := v.SubmitForm(context.Background(), ModeCreate, "", post)
	assert.ErrorIs(t, err, ErrSaveFailed)

	snap := v.Snapshot()
	assert.Equal(t, []string{"t1", "t2", "t3"}, ids(snap.Transfers))
	require.True(t, snap.ModalOpen())
	assert.Equal(t, MsgSaveFailed, snap.Form.Error)
	assert.Equal(t, "VIP", snap.Form.Get(model.FieldComments))
	assert.Equal(t, "Jane Doe", snap.Form.Get(model.FieldGuestName))
}

func TestSubmitValidationFailureSkipsBackend(t *testing.T) {
	api := newFakeAPI(seed()...)
	v := readyView(t, api)
	calls := api.callCount()

	require.NoError(t, v.OpenCreate())
	post := validPost()
	post.Set(model.FieldPassengers, "0")

	assert.ErrorIs(t, v.SubmitForm(context.Background(), ModeCreate, "", post), ErrSaveFailed)
	assert.Equal(t, calls, api.callCount())
	assert.Contains(t, v.Snapshot().Form.Error, "passengers")
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	api := newFakeAPI(seed()...)
	v := readyView(t, api)
	calls := api.callCount()

	err := v.Delete(context.Background(), "t2", false)
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Equal(t, calls, api.callCount(), "aborted delete must not call the backend")
	assert.Equal(t, []string{"t1", "t2", "t3"}, ids(v.Snapshot().Transfers))

	require.NoError(t, v.Delete(context.Background(), "t2", true))
	assert.Equal(t, []string{"t1", "t3"}, ids(v.Snapshot().Transfers))
	assert.Equal(t, []string{"t2"}, api.deleted)
}

func TestDeleteFailureLeavesList(t *testing.T) {
	api := newFakeAPI(seed()...)
	api.deleteErr = errBackend
	v := readyView(t, api)

	err := v.Delete(context.Background(), "t1", true)
	assert.ErrorIs(t, err, errBackend)

	snap := v.Snapshot()
	assert.Equal(t, []string{"t1", "t2", "t3"}, ids(snap.Transfers))
	assert.Equal(t, MsgDeleteFailed, snap.Notice)
	assert.Equal(t, StateReady, snap.State)
}

func TestDeleteUnknownID(t *testing.T) {
	api := newFakeAPI(seed()...)
	v := readyView(t, api)
	assert.ErrorIs(t, v.Delete(context.Background(), "nope", true), ErrNotFound)
	assert.Empty(t, api.deleted)
}

func TestDeleteClosesEditOfSameTransfer(t *testing.T) {
	v := readyView(t, newFakeAPI(seed()...))

	require.NoError(t, v.OpenEdit("t3"))
	require.NoError(t, v.Delete(context.Background(), "t3", true))
	assert.False(t, v.Snapshot().ModalOpen())
}

func TestRefreshReplacesLocalCopy(t *testing.T) {
	api := newFakeAPI(seed()...)
	v := readyView(t, api)

	require.NoError(t, v.Submitted(model.Transfer{ID: "local"}))
	require.NoError(t, v.Refresh(context.Background()))
	assert.Equal(t, []string{"t1", "t2", "t3"}, ids(v.Snapshot().Transfers))
}

func TestResetUnmountsAndDropsLateResults(t *testing.T) {
	api := newFakeAPI(seed()...)
	v := readyView(t, api)

	v.Reset()
	snap := v.Snapshot()
	assert.Equal(t, StateUnmounted, snap.State)
	assert.Empty(t, snap.Transfers)
	assert.ErrorIs(t, v.Submitted(model.Transfer{ID: "late"}), ErrNotReady)

	require.NoError(t, v.EnsureLoaded(context.Background()))
	assert.Equal(t, StateReady, v.Snapshot().State)
}

func TestSnapshotIsACopy(t *testing.T) {
	v := readyView(t, newFakeAPI(seed()...))

	snap := v.Snapshot()
	snap.Transfers[0].GuestName = "Mutated"
	assert.Equal(t, "Jane Doe", v.Snapshot().Transfers[0].GuestName)
}

func TestCloseModal(t *testing.T) {
	v := readyView(t, newFakeAPI(seed()...))

	require.NoError(t, v.OpenEdit("t1"))
	v.CloseModal()
	snap := v.Snapshot()
	assert.False(t, snap.ModalOpen())
	assert.Nil(t, snap.EditTarget)
}
