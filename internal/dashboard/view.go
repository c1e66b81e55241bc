package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/erazemk/transferhub/internal/model"
)

// State is the load state of the view.
type State string

// View states. A view starts unmounted and is mounted by its first Load.
const (
	StateUnmounted State = "unmounted"
	StateLoading   State = "loading"
	StateError     State = "error"
	StateReady     State = "ready"
)

// Errors returned by view actions.
var (
	ErrNotReady     = errors.New("transfer list is not ready")
	ErrNotFound     = errors.New("transfer not found")
	ErrNoForm       = errors.New("no matching transfer form is open")
	ErrNotConfirmed = errors.New("delete not confirmed")
	ErrSaveFailed   = errors.New("transfer was not saved")
)

// View is the transfer list as the desk sees it: a local copy of the backend
// collection plus the modal form state. After the initial load, mutations
// patch the local copy instead of re-fetching.
type View struct {
	api TransferAPI
	loc *time.Location

	mu         sync.Mutex
	mount      uint64 // bumped by Reset; results from an older mount are dropped
	gen        uint64 // bumped by every load; stale load results are dropped
	state      State
	transfers  []model.Transfer
	err        string
	notice     string
	form       *Form
	editTarget *model.Transfer
}

// Snapshot is a copy of the view state for rendering.
type Snapshot struct {
	State      State
	Transfers  []model.Transfer
	Error      string
	Notice     string
	Form       *Form
	EditTarget *model.Transfer
}

// ModalOpen reports whether the transfer modal is shown.
func (s Snapshot) ModalOpen() bool { return s.Form != nil }

// NewView creates an unmounted view. Local date-times in forms are read in loc.
func NewView(api TransferAPI, loc *time.Location) *View {
	if loc == nil {
		loc = time.Local
	}
	return &View{api: api, loc: loc, state: StateUnmounted}
}

// Location is the time zone the view renders and parses local times in.
func (v *View) Location() *time.Location { return v.loc }

// EnsureLoaded mounts the view if it is not mounted yet.
func (v *View) EnsureLoaded(ctx context.Context) error {
	return v.load(ctx, true)
}

// Load fetches the full collection, replacing the local copy.
func (v *View) Load(ctx context.Context) error {
	return v.load(ctx, false)
}

// Refresh reloads a ready view.
func (v *View) Refresh(ctx context.Context) error {
	v.mu.Lock()
	ready := v.state == StateReady
	v.mu.Unlock()
	if !ready {
		return ErrNotReady
	}
	return v.load(ctx, false)
}

func (v *View) load(ctx context.Context, onlyIfUnmounted bool) error {
	v.mu.Lock()
	if onlyIfUnmounted && v.state != StateUnmounted {
		v.mu.Unlock()
		return nil
	}
	v.gen++
	gen := v.gen
	v.state = StateLoading
	v.err = ""
	v.notice = ""
	v.form = nil
	v.editTarget = nil
	v.mu.Unlock()

	list, err := v.api.ListTransfers(ctx, "")

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return nil
	}
	if err != nil {
		v.state = StateError
		v.err = MsgLoadFailed
		v.transfers = nil
		slog.Error("failed to fetch transfers", "error", err)
		return fmt.Errorf("loading transfers: %w", err)
	}

	v.state = StateReady
	v.transfers = list
	slog.Info("transfers loaded", "count", len(list))
	return nil
}

// Reset unmounts the view, dropping the local list and any open form. Results
// of calls that were in flight are ignored.
func (v *View) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.mount++
	v.gen++
	v.state = StateUnmounted
	v.transfers = nil
	v.err = ""
	v.notice = ""
	v.form = nil
	v.editTarget = nil
}

// Snapshot returns a copy of the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := Snapshot{
		State:     v.state,
		Transfers: slices.Clone(v.transfers),
		Error:     v.err,
		Notice:    v.notice,
		Form:      v.form.clone(),
	}
	if v.editTarget != nil {
		t := *v.editTarget
		s.EditTarget = &t
	}
	if s.Transfers == nil {
		s.Transfers = []model.Transfer{}
	}
	return s
}

// Transfer returns the local copy of transfer id.
func (v *View) Transfer(id string) (model.Transfer, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state != StateReady {
		return model.Transfer{}, ErrNotReady
	}
	i := v.indexLocked(id)
	if i < 0 {
		return model.Transfer{}, ErrNotFound
	}
	return v.transfers[i], nil
}

// OpenCreate opens the modal with an empty form.
func (v *View) OpenCreate() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state != StateReady {
		return ErrNotReady
	}
	v.editTarget = nil
	v.notice = ""
	v.form = NewCreateForm(v.loc)
	return nil
}

// OpenEdit opens the modal with a form pre-filled from transfer id.
func (v *View) OpenEdit(id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state != StateReady {
		return ErrNotReady
	}
	i := v.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	target := v.transfers[i]
	v.editTarget = &target
	v.notice = ""
	v.form = NewEditForm(target, v.loc)
	return nil
}

// CloseModal closes the modal and forgets the edit target.
func (v *View) CloseModal() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.form = nil
	v.editTarget = nil
}

// SubmitForm binds posted values to the open form and submits it. mode and id
// must match the open form. A validation or backend failure leaves the form
// open with its values and an error message, and returns ErrSaveFailed.
func (v *View) SubmitForm(ctx context.Context, mode Mode, id string, posted url.Values) error {
	v.mu.Lock()
	if v.state != StateReady {
		v.mu.Unlock()
		return ErrNotReady
	}
	if v.form == nil || v.form.Mode != mode || (mode == ModeEdit && v.form.ID != id) {
		v.mu.Unlock()
		return ErrNoForm
	}
	v.form.Bind(posted)
	v.form.Error = ""
	form := v.form.clone()
	mount := v.mount
	v.mu.Unlock()

	var result error
	form.Submit(ctx, v.api,
		func(t model.Transfer) {
			v.mu.Lock()
			defer v.mu.Unlock()
			if mount != v.mount {
				result = ErrNotReady
				return
			}
			result = v.submittedLocked(t)
		},
		func(msg string) {
			v.mu.Lock()
			defer v.mu.Unlock()
			if mount == v.mount && v.form != nil && v.form.Mode == form.Mode && v.form.ID == form.ID {
				v.form.Error = msg
			}
			result = ErrSaveFailed
		},
	)
	return result
}

// Submitted merges a saved transfer into the local list: a new ID is
// prepended, a known ID is replaced in place. The modal is closed.
func (v *View) Submitted(t model.Transfer) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.submittedLocked(t)
}

func (v *View) submittedLocked(t model.Transfer) error {
	if v.state != StateReady {
		return ErrNotReady
	}
	if i := v.indexLocked(t.ID); i >= 0 {
		v.transfers[i] = t
	} else {
		v.transfers = append([]model.Transfer{t}, v.transfers...)
	}
	v.form = nil
	v.editTarget = nil
	return nil
}

// Delete removes transfer id on the backend and then locally. Nothing happens,
// and no call is made, unless confirmed is true. A failed delete sets a notice
// and leaves the list as it was.
func (v *View) Delete(ctx context.Context, id string, confirmed bool) error {
	v.mu.Lock()
	if v.state != StateReady {
		v.mu.Unlock()
		return ErrNotReady
	}
	if v.indexLocked(id) < 0 {
		v.mu.Unlock()
		return ErrNotFound
	}
	if !confirmed {
		v.mu.Unlock()
		return ErrNotConfirmed
	}
	v.notice = ""
	mount := v.mount
	v.mu.Unlock()

	err := v.api.DeleteTransfer(ctx, id)

	v.mu.Lock()
	defer v.mu.Unlock()
	if mount != v.mount {
		return err
	}
	if err != nil {
		v.notice = MsgDeleteFailed
		slog.Warn("transfer delete failed", "id", id, "error", err)
		return fmt.Errorf("deleting transfer %s: %w", id, err)
	}

	if i := v.indexLocked(id); i >= 0 {
		v.transfers = slices.Delete(v.transfers, i, i+1)
	}
	if v.editTarget != nil && v.editTarget.ID == id {
		v.form = nil
		v.editTarget = nil
	}
	slog.Info("transfer deleted", "id", id)
	return nil
}

func (v *View) indexLocked(id string) int {
	return slices.IndexFunc(v.transfers, func(t model.Transfer) bool { return t.ID == id })
}
