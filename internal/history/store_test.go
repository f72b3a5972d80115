package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phpdoctor/phpdoctor/internal/brew"
	"github.com/phpdoctor/phpdoctor/internal/envcheck"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func passedResult(version string) *envcheck.Result {
	return &envcheck.Result{
		PHP: &brew.PHPInfo{Name: "php", Version: version},
		Checks: []envcheck.CheckResult{
			{Name: "php_binary", Status: envcheck.StatusPass, Breaking: true},
		},
	}
}

func TestStore_RecordAndRecent(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Record(passedResult("8.3.1")))

	runs, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	assert.Equal(t, "passed", runs[0].Status)
	assert.Equal(t, "8.3.1", runs[0].PHPVersion)
	assert.Equal(t, 0, runs[0].Breaking)
	assert.WithinDuration(t, time.Now(), runs[0].Timestamp, time.Minute)
}

func TestStore_RecordFailedRun(t *testing.T) {
	s := openTestStore(t)

	result := &envcheck.Result{
		Failed:            true,
		TriggeredBreaking: true,
		Checks: []envcheck.CheckResult{
			{Name: "php_binary", Status: envcheck.StatusFail, Breaking: true},
			{Name: "valet_binary", Status: envcheck.StatusFail, Breaking: true},
			{Name: "services_started", Status: envcheck.StatusWarn},
		},
	}
	require.NoError(t, s.Record(result))

	runs, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	assert.Equal(t, "failed", runs[0].Status)
	assert.Equal(t, 2, runs[0].Breaking)
	assert.Equal(t, 1, runs[0].Advisory)
	assert.Empty(t, runs[0].PHPVersion)
}

func TestStore_RecordWarningsOnly(t *testing.T) {
	s := openTestStore(t)

	result := passedResult("8.3.1")
	result.Failed = true
	result.Checks = append(result.Checks, envcheck.CheckResult{
		Name: "services_started", Status: envcheck.StatusWarn,
	})
	require.NoError(t, s.Record(result))

	runs, err := s.Recent(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "passed_with_warnings", runs[0].Status)
}

func TestStore_RecentOrderAndLimit(t *testing.T) {
	s := openTestStore(t)

	for _, v := range []string{"8.1.0", "8.2.0", "8.3.0"} {
		require.NoError(t, s.Record(passedResult(v)))
	}

	runs, err := s.Recent(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	// Newest first
	assert.Equal(t, "8.3.0", runs[0].PHPVersion)
	assert.Equal(t, "8.2.0", runs[1].PHPVersion)
}

func TestStore_Prune(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Record(passedResult("8.3.1")))

	// Retention in the future prunes nothing
	n, err := s.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)

	// Zero retention prunes everything recorded before now
	n, err = s.Prune(-time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	runs, err := s.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
