package lock

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshwatch/meshwatch/internal/config"
)

func testLockConfig(t *testing.T) config.LockConfig {
	t.Helper()
	return config.LockConfig{
		Enabled: true,
		Dir:     t.TempDir(),
		Timeout: 200 * time.Millisecond,
		Stale:   30 * time.Minute,
	}
}

func TestNewLockInfo(t *testing.T) {
	info := NewLockInfo("collect")

	assert.NotEmpty(t, info.Hostname)
	assert.NotZero(t, info.PID)
	assert.Equal(t, "collect", info.Command)
	assert.Less(t, time.Since(info.Started), time.Second)
}

func TestLockInfo_RoundTrip(t *testing.T) {
	info := NewLockInfo("collect")

	data, err := info.Marshal()
	require.NoError(t, err)

	parsed, err := ParseLockInfo(data)
	require.NoError(t, err)
	assert.Equal(t, info.PID, parsed.PID)
	assert.Equal(t, info.Command, parsed.Command)
}

func TestAcquireRelease(t *testing.T) {
	cfg := testLockConfig(t)

	l, err := Acquire(cfg, "collect")
	require.NoError(t, err)

	// Lock dir and info file exist while held.
	assert.DirExists(t, l.Dir)
	data, err := os.ReadFile(filepath.Join(l.Dir, "info.json"))
	require.NoError(t, err)
	var info LockInfo
	require.NoError(t, json.Unmarshal(data, &info))
	assert.Equal(t, os.Getpid(), info.PID)

	require.NoError(t, l.Release())
	assert.NoDirExists(t, l.Dir)
}

func TestAcquire_HeldLockTimesOut(t *testing.T) {
	cfg := testLockConfig(t)

	old := retryInterval
	retryInterval = 20 * time.Millisecond
	defer func() { retryInterval = old }()

	first, err := Acquire(cfg, "collect")
	require.NoError(t, err)
	defer first.Release() //nolint:errcheck

	_, err = Acquire(cfg, "collect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Timed out waiting for collection lock")
}

func TestAcquire_WaitsForRelease(t *testing.T) {
	cfg := testLockConfig(t)
	cfg.Timeout = 2 * time.Second

	old := retryInterval
	retryInterval = 10 * time.Millisecond
	defer func() { retryInterval = old }()

	first, err := Acquire(cfg, "collect")
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		first.Release() //nolint:errcheck
	}()

	second, err := Acquire(cfg, "collect")
	require.NoError(t, err)
	require.NoError(t, second.Release())
}

func TestAcquire_RemovesStaleLock(t *testing.T) {
	cfg := testLockConfig(t)
	cfg.Stale = time.Minute

	// Plant a lock whose info says it started an hour ago.
	lockDir := LockDir(cfg)
	require.NoError(t, os.Mkdir(lockDir, 0755))
	stale := LockInfo{User: "ghost", Hostname: "gone", Started: time.Now().Add(-time.Hour), PID: 99999}
	data, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(lockDir, "info.json"), data, 0644))

	l, err := Acquire(cfg, "collect")
	require.NoError(t, err)
	defer l.Release() //nolint:errcheck

	holder := Holder(cfg)
	assert.NotContains(t, holder, "ghost")
}

func TestAcquire_FreshLockIsNotStale(t *testing.T) {
	cfg := testLockConfig(t)
	cfg.Stale = time.Hour

	old := retryInterval
	retryInterval = 20 * time.Millisecond
	defer func() { retryInterval = old }()

	first, err := Acquire(cfg, "collect")
	require.NoError(t, err)
	defer first.Release() //nolint:errcheck

	_, err = Acquire(cfg, "collect")
	assert.Error(t, err)
}

func TestForceRelease(t *testing.T) {
	cfg := testLockConfig(t)

	l, err := Acquire(cfg, "collect")
	require.NoError(t, err)

	require.NoError(t, ForceRelease(cfg))
	assert.NoDirExists(t, l.Dir)

	// Force-releasing a free lock is fine.
	require.NoError(t, ForceRelease(cfg))
}

func TestHolder(t *testing.T) {
	cfg := testLockConfig(t)

	assert.Equal(t, "none", Holder(cfg))

	l, err := Acquire(cfg, "collect")
	require.NoError(t, err)
	defer l.Release() //nolint:errcheck

	assert.Contains(t, Holder(cfg), "pid")
}

func TestRelease_NilLock(t *testing.T) {
	var l *Lock
	assert.NoError(t, l.Release())
}
