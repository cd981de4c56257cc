package dispatcher

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/kruzic-io/kruzic/internal/models"
)

// TestValue is the value written by RunTests.
var TestValue = map[string]any{"broj": 42, "tekst": "test"}

// TestReport summarizes one RunTests run. Err is the error that aborted the
// run, if any; it has already been logged.
type TestReport struct {
	Key    string
	Passed int
	Failed int
	Err    error
}

// OK reports whether every check passed and nothing aborted the run.
func (r TestReport) OK() bool {
	return r.Err == nil && r.Failed == 0
}

// TestKey returns the key RunTests writes at the session's current time.
func (s *Session) TestKey() string {
	return fmt.Sprintf("test_%d", s.now().UnixMilli())
}

// RunTests writes a fresh key, reads it back, checks the listing, deletes
// it and confirms it is gone. Failed checks are logged and the run
// continues; an SDK error aborts the rest of the run.
func (s *Session) RunTests(ctx context.Context) TestReport {
	s.log(models.LogCall, "Running all tests...")
	report := TestReport{Key: s.TestKey()}

	if err := s.runTests(ctx, &report); err != nil {
		report.Err = err
		s.log(models.LogError, "Test error: %s", errorText(err))
		return report
	}

	s.log(models.LogSuccess, "All tests finished!")
	s.RefreshData(ctx)
	return report
}

func (s *Session) check(report *TestReport, ok bool, pass, fail string) {
	if ok {
		report.Passed++
		s.log(models.LogSuccess, "✓ %s", pass)
		return
	}
	report.Failed++
	s.log(models.LogError, "✗ %s", fail)
}

func (s *Session) runTests(ctx context.Context, report *TestReport) error {
	key := report.Key

	if err := s.client.SetData(ctx, key, TestValue); err != nil {
		return remote("setData", err)
	}
	s.check(report, true, "setData", "setData")

	retrieved, err := s.client.GetData(ctx, key)
	if err != nil {
		return remote("getData", err)
	}
	s.check(report, s.sameValue(TestValue, retrieved),
		"getData - values match",
		"getData - values do not match")

	keys, err := s.client.ListData(ctx)
	if err != nil {
		return remote("listData", err)
	}
	s.check(report, slices.Contains(keys, key),
		"listData - key found",
		"listData - key not found")

	if err := s.client.DeleteData(ctx, key); err != nil {
		return remote("deleteData", err)
	}
	afterDelete, err := s.client.GetData(ctx, key)
	if err != nil {
		return remote("getData", err)
	}
	s.check(report, afterDelete == nil,
		"deleteData - key deleted",
		"deleteData - key still exists")

	return nil
}

// sameValue compares want and got as JSON documents.
func (s *Session) sameValue(want, got any) bool {
	w, err := normalize(want)
	if err != nil {
		return false
	}
	g, err := normalize(got)
	if err != nil {
		return false
	}
	if diff := cmp.Diff(w, g); diff != "" {
		s.logger.Debug("round trip mismatch", zap.String("diff", diff))
		return false
	}
	return true
}
