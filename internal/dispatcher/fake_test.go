package dispatcher

import (
	"context"
	"sort"
	"sync"

	"github.com/kruzic-io/kruzic/internal/models"
	"github.com/kruzic-io/kruzic/internal/sdk"
)

// fakeClient is an in-memory sdk.Client that records calls and fails the
// methods listed in errs.
type fakeClient struct {
	mu       sync.Mutex
	data     map[string]any
	signedIn bool
	userID   *string
	details  *sdk.UserDetails
	errs     map[string]error
	calls    []string
	ready    int
	// keepDeleted makes DeleteData a no-op.
	keepDeleted bool
	// mangle replaces values on read.
	mangle func(any) any
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: map[string]any{}, errs: map[string]error{}}
}

func (f *fakeClient) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.errs[call]
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) IsSignedIn(context.Context) (bool, error) {
	if err := f.record("IsSignedIn"); err != nil {
		return false, err
	}
	return f.signedIn, nil
}

func (f *fakeClient) GetUserID(context.Context) (*string, error) {
	if err := f.record("GetUserID"); err != nil {
		return nil, err
	}
	return f.userID, nil
}

func (f *fakeClient) GetUserDetails(context.Context) (*sdk.UserDetails, error) {
	if err := f.record("GetUserDetails"); err != nil {
		return nil, err
	}
	return f.details, nil
}

func (f *fakeClient) ListData(context.Context) ([]string, error) {
	if err := f.record("ListData"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *fakeClient) GetData(_ context.Context, key string) (any, error) {
	if err := f.record("GetData"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.data[key]
	if f.mangle != nil && v != nil {
		v = f.mangle(v)
	}
	return v, nil
}

func (f *fakeClient) SetData(_ context.Context, key string, value any) error {
	if err := f.record("SetData"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeClient) DeleteData(_ context.Context, key string) error {
	if err := f.record("DeleteData"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.keepDeleted {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeClient) Ready() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ready++
}

// recordingView keeps the latest state of every view element.
type recordingView struct {
	mu       sync.Mutex
	user     models.UserView
	users    []models.UserView
	status   models.Status
	data     []models.DataItem
	dataSet  int
	value    string
	entries  []models.LogEntry // newest first
	clearedN int
}

func (v *recordingView) ShowUser(u models.UserView) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.user = u
	v.users = append(v.users, u)
}

func (v *recordingView) ShowStatus(s models.Status) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = s
}

func (v *recordingView) ShowData(items []models.DataItem) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data = items
	v.dataSet++
}

func (v *recordingView) ShowValue(s string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.value = s
}

func (v *recordingView) AppendLog(e models.LogEntry) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries = append([]models.LogEntry{e}, v.entries...)
}

func (v *recordingView) ClearLog() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries = nil
	v.clearedN++
}

// lines returns the log messages oldest first, prefixed with their kind.
func (v *recordingView) lines() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, 0, len(v.entries))
	for i := len(v.entries) - 1; i >= 0; i-- {
		out = append(out, "["+string(v.entries[i].Kind)+"] "+v.entries[i].Message)
	}
	return out
}
