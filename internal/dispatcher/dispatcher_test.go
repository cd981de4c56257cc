package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/kruzic-io/kruzic/internal/models"
	"github.com/kruzic-io/kruzic/internal/sdk"
)

var fixedNow = time.UnixMilli(1700000000123)

func newSession(t *testing.T) (*Session, *fakeClient, *recordingView) {
	t.Helper()
	client := newFakeClient()
	view := &recordingView{}
	s := New(client, view, WithClock(func() time.Time { return fixedNow }))
	return s, client, view
}

func strPtr(s string) *string { return &s }

func TestSetThenGet(t *testing.T) {
	ctx := context.Background()
	s, client, view := newSession(t)

	s.SetData(ctx, "a", "1")
	s.GetData(ctx, "a")

	assert.Equal(t, 1.0, client.data["a"])
	assert.Equal(t, "1", view.value)
	assert.Equal(t, []models.DataItem{{Key: "a", Value: 1.0}}, view.data)
	assert.Equal(t, []string{
		`[call] setData("a", 1)`,
		`[success] Saved: a`,
		`[success] listData() = [a]`,
		`[call] getData("a")`,
		`[success] getData("a") = 1`,
	}, view.lines())
}

func TestSetDataFallsBackToRawString(t *testing.T) {
	ctx := context.Background()
	s, client, view := newSession(t)

	s.SetData(ctx, " b ", "  {bad json ")

	assert.Equal(t, "{bad json", client.data["b"])
	assert.Equal(t, `[call] setData("b", "{bad json")`, view.lines()[0])

	s.GetData(ctx, "b")
	assert.Equal(t, "{bad json", view.value, "strings are written back verbatim")
}

func TestDeleteItemRemovesExactlyThatRow(t *testing.T) {
	ctx := context.Background()
	s, client, view := newSession(t)

	s.SetData(ctx, "a", "1")
	s.SetData(ctx, "b", "{bad json")
	require.Equal(t, []models.DataItem{{Key: "a", Value: 1.0}, {Key: "b", Value: "{bad json"}}, view.data)

	s.DeleteItem(ctx, "a")

	assert.Equal(t, []models.DataItem{{Key: "b", Value: "{bad json"}}, view.data)
	assert.NotContains(t, client.data, "a")
	lines := view.lines()
	assert.Equal(t, []string{`[success] Deleted key "a"`, `[success] listData() = [b]`}, lines[len(lines)-2:])
}

func TestEmptyKeyIsRejectedLocally(t *testing.T) {
	ctx := context.Background()
	s, client, view := newSession(t)

	s.SetData(ctx, "", "1")
	s.GetData(ctx, "   ")
	s.DeleteData(ctx, "\t")

	assert.Empty(t, client.Calls())
	assert.Equal(t, []string{
		"[error] Key is required",
		"[error] Key is required",
		"[error] Key is required",
	}, view.lines())
}

func TestRunTests(t *testing.T) {
	ctx := context.Background()
	s, client, view := newSession(t)

	report := s.RunTests(ctx)

	assert.True(t, report.OK())
	assert.Equal(t, 4, report.Passed)
	assert.Equal(t, "test_1700000000123", report.Key)
	assert.NotContains(t, client.data, report.Key)
	assert.Equal(t, []string{
		"[call] Running all tests...",
		"[success] ✓ setData",
		"[success] ✓ getData - values match",
		"[success] ✓ listData - key found",
		"[success] ✓ deleteData - key deleted",
		"[success] All tests finished!",
		"[success] listData() = []",
	}, view.lines())
	assert.Equal(t, 1, view.dataSet)
	assert.Empty(t, view.data)
}

func TestRunTestsFailedChecksDoNotAbort(t *testing.T) {
	ctx := context.Background()
	s, client, view := newSession(t)
	client.mangle = func(any) any { return map[string]any{"broj": 41.0, "tekst": "test"} }
	client.keepDeleted = true

	report := s.RunTests(ctx)

	assert.False(t, report.OK())
	assert.NoError(t, report.Err)
	assert.Equal(t, 2, report.Passed)
	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, []string{
		"[call] Running all tests...",
		"[success] ✓ setData",
		"[error] ✗ getData - values do not match",
		"[success] ✓ listData - key found",
		"[error] ✗ deleteData - key still exists",
		"[success] All tests finished!",
		"[success] listData() = [test_1700000000123]",
	}, view.lines())
}

func TestRunTestsAbortsOnRemoteError(t *testing.T) {
	ctx := context.Background()
	s, client, view := newSession(t)
	client.errs["GetData"] = &sdk.Error{Message: "boom"}

	report := s.RunTests(ctx)

	var re *RemoteError
	require.ErrorAs(t, report.Err, &re)
	assert.Equal(t, "getData", re.Op)
	assert.Equal(t, []string{"SetData", "GetData"}, client.Calls())
	assert.Equal(t, []string{
		"[call] Running all tests...",
		"[success] ✓ setData",
		"[error] Test error: getData error: boom",
	}, view.lines())
}

func TestRefreshUser(t *testing.T) {
	ctx := context.Background()
	s, client, view := newSession(t)
	client.signedIn = true
	client.userID = strPtr("p-1")
	client.details = &sdk.UserDetails{Name: "Igrač"}

	s.RefreshUser(ctx)

	require.Len(t, view.users, 3, "the user view is updated after every step")
	assert.Equal(t, models.UserView{SignedIn: true}, view.users[0])
	assert.Equal(t, "p-1", view.users[1].UserIDText())
	assert.Equal(t, "Igrač", view.user.DisplayNameText())
	assert.Equal(t, models.Status{Indicator: models.IndicatorOK, Text: StatusConnected}, view.status)
	assert.Equal(t, []string{
		"[call] Loading user info...",
		"[success] isSignedIn() = true",
		"[success] getUserId() = p-1",
		`[success] getUserDetails() = {"name":"Igrač"}`,
	}, view.lines())
}

func TestRefreshUserAnonymous(t *testing.T) {
	s, _, view := newSession(t)
	s.RefreshUser(context.Background())

	assert.Equal(t, "null", view.user.UserIDText())
	assert.Equal(t, "null", view.user.DisplayNameText())
	assert.Contains(t, view.lines(), "[success] getUserDetails() = null")
	assert.Equal(t, models.IndicatorOK, view.status.Indicator)
}

func TestRefreshUserAbortsChain(t *testing.T) {
	s, client, view := newSession(t)
	client.errs["GetUserID"] = errors.New("boom")

	s.RefreshUser(context.Background())

	assert.Equal(t, []string{"IsSignedIn", "GetUserID"}, client.Calls())
	assert.Equal(t, models.Status{Indicator: models.IndicatorError, Text: StatusError}, view.status)
	assert.Equal(t, "[error] getUserId error: boom", view.lines()[2])
}

func TestRefreshDataFailureKeepsPriorList(t *testing.T) {
	ctx := context.Background()
	s, client, view := newSession(t)
	s.SetData(ctx, "a", "1")
	require.Equal(t, 1, view.dataSet)

	client.errs["ListData"] = errors.New("offline")
	s.RefreshData(ctx)
	assert.Equal(t, 1, view.dataSet)
	assert.Equal(t, []models.DataItem{{Key: "a", Value: 1.0}}, view.data)

	delete(client.errs, "ListData")
	client.errs["GetData"] = errors.New("flaky")
	s.RefreshData(ctx)
	assert.Equal(t, 1, view.dataSet)
	assert.Equal(t, "[error] listData error: flaky", view.lines()[len(view.lines())-1])
}

func TestGetDataWriteBack(t *testing.T) {
	ctx := context.Background()
	s, client, view := newSession(t)

	view.value = "untouched"
	s.GetData(ctx, "missing")
	assert.Equal(t, "untouched", view.value)
	assert.Equal(t, `[success] getData("missing") = null`, view.lines()[1])

	client.data["obj"] = map[string]any{"broj": 42.0, "tekst": "test"}
	s.GetData(ctx, "obj")
	assert.Equal(t, `{"broj":42,"tekst":"test"}`, view.value)
}

func TestRemoteFailureSkipsRefresh(t *testing.T) {
	ctx := context.Background()
	s, client, view := newSession(t)
	client.errs["SetData"] = errors.New("denied")
	client.errs["DeleteData"] = errors.New("denied")

	s.SetData(ctx, "k", "1")
	s.DeleteData(ctx, "k")
	s.DeleteItem(ctx, "k")

	assert.NotContains(t, client.Calls(), "ListData")
	assert.Equal(t, []string{
		`[call] setData("k", 1)`,
		"[error] setData error: denied",
		`[call] deleteData("k")`,
		"[error] deleteData error: denied",
		"[error] deleteData error: denied",
	}, view.lines())
}

func TestDeleteDataTwiceIsTolerated(t *testing.T) {
	ctx := context.Background()
	s, client, view := newSession(t)
	client.data["k"] = 1.0

	s.DeleteData(ctx, "k")
	s.DeleteData(ctx, "k")

	for _, line := range view.lines() {
		assert.NotContains(t, line, "[error]")
	}
}

func TestInit(t *testing.T) {
	s, client, view := newSession(t)
	s.Init(context.Background())

	assert.Equal(t, 1, client.ready)
	assert.Equal(t, []string{"IsSignedIn", "GetUserID", "GetUserDetails", "ListData"}, client.Calls())
	lines := view.lines()
	assert.Equal(t, []string{"[call] Initializing SDK...", "[success] sdk.ready() called"}, lines[:2])
	assert.Equal(t, "[success] listData() = []", lines[len(lines)-1])
}

func TestClearLog(t *testing.T) {
	s, _, view := newSession(t)
	s.SetData(context.Background(), "", "")
	s.ClearLog()
	assert.Empty(t, view.lines())
	assert.Equal(t, 1, view.clearedN)
}

func TestLogTimestampsUseSessionClock(t *testing.T) {
	s, _, view := newSession(t)
	s.SetData(context.Background(), "", "")
	require.Len(t, view.entries, 1)
	assert.Equal(t, fixedNow, view.entries[0].Time)
	assert.Equal(t, models.LogError, view.entries[0].Kind)
}

func TestConcurrentOperations(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx := context.Background()
	s, client, view := newSession(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%02d", i%5)
			if i%2 == 0 {
				s.SetData(ctx, key, fmt.Sprint(i))
			} else {
				s.DeleteData(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	// Every operation logged its call line and one outcome.
	calls := 0
	for _, line := range view.lines() {
		if len(line) > 6 && line[:6] == "[call]" {
			calls++
		}
	}
	assert.Equal(t, 20, calls)
	assert.Len(t, client.Calls(), 20+countOf(client.Calls(), "ListData")+countOf(client.Calls(), "GetData"))
}

func countOf(calls []string, name string) int {
	n := 0
	for _, c := range calls {
		if c == name {
			n++
		}
	}
	return n
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"1", 1.0},
		{" 42.5 ", 42.5},
		{`"text"`, "text"},
		{"true", true},
		{"null", nil},
		{`{"broj":42,"tekst":"test"}`, map[string]any{"broj": 42.0, "tekst": "test"}},
		{"[1, 2]", []any{1.0, 2.0}},
		{"[]", []any{}},
		{`{"a":{"b":[null,false]}}`, map[string]any{"a": map[string]any{"b": []any{nil, false}}}},
		{`"\u0161ah"`, "šah"},
		{"NaN", "NaN"},
		{"[1, Inf]", "[1, Inf]"},
		{"1 2", "1 2"},
		{"{bad json", "{bad json"},
		{"hello world", "hello world"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseValue(tt.raw))
		})
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "plain", FormatValue("plain"))
	assert.Equal(t, "3", FormatValue(3.0))
	assert.Equal(t, `["<a>"]`, FormatValue([]any{"<a>"}))
}

func TestRemoteErrorUnwraps(t *testing.T) {
	cause := &sdk.Error{Message: "nope"}
	err := remote("setData", cause)
	assert.Equal(t, "setData error: nope", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Key is required", errorText(ErrKeyRequired))
}
