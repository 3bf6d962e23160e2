package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medadhere/console/pkg/api"
	"github.com/medadhere/console/pkg/auth"
	"github.com/medadhere/console/pkg/observability"
)

func seedFile(t *testing.T, dir, name string, v interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), data, 0644))
}

func newTestStore(t *testing.T) (*JSONStore, string) {
	t.Helper()
	dir := t.TempDir()

	seedFile(t, dir, "admins", []auth.Admin{{
		ID:           "adm_1",
		Email:        "admin@medadhere.com",
		PasswordHash: auth.HashPassword("admin123"),
		Role:         "admin",
	}})
	seedFile(t, dir, "cohorts", []api.Cohort{{
		ID:     "coh_1",
		Name:   "Pilot A",
		Status: api.CohortActive,
	}})

	store, err := NewJSONStore(dir, observability.NewLogger(observability.ErrorLevel, os.Stderr))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, dir
}

func TestNewJSONStore(t *testing.T) {
	t.Run("missing directory fails", func(t *testing.T) {
		_, err := NewJSONStore(filepath.Join(t.TempDir(), "nope"), observability.NewLogger(observability.ErrorLevel, os.Stderr))
		assert.Error(t, err)
	})

	t.Run("missing collection files read as empty", func(t *testing.T) {
		store, err := NewJSONStore(t.TempDir(), observability.NewLogger(observability.ErrorLevel, os.Stderr))
		require.NoError(t, err)
		defer store.Close()

		users, err := store.Users()
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("non-array collection is rejected", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "cohorts.json"), []byte(`{"oops":1}`), 0644))
		_, err := NewJSONStore(dir, observability.NewLogger(observability.ErrorLevel, os.Stderr))
		assert.ErrorContains(t, err, "not a JSON array")
	})
}

func TestJSONStore_ReadsSeededCollections(t *testing.T) {
	store, _ := newTestStore(t)

	admins, err := store.Admins()
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin@medadhere.com", admins[0].Email)

	cohorts, err := store.Cohorts()
	require.NoError(t, err)
	require.Len(t, cohorts, 1)
	assert.Equal(t, api.CohortActive, cohorts[0].Status)
}

func TestJSONStore_SaveRoundTrip(t *testing.T) {
	store, dir := newTestStore(t)

	cohorts, err := store.Cohorts()
	require.NoError(t, err)
	cohorts = append(cohorts, api.Cohort{ID: "coh_2", Name: "Pilot B", Status: api.CohortUpcoming})
	require.NoError(t, store.SaveCohorts(cohorts))

	// Snapshot sees the write
	got, err := store.Cohorts()
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// The file on disk does too
	data, err := os.ReadFile(filepath.Join(dir, "cohorts.json"))
	require.NoError(t, err)
	var onDisk []api.Cohort
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Len(t, onDisk, 2)

	// No temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".tmp")
	}
}

func TestJSONStore_AppendActivity(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.AppendActivity(api.ActivityItem{
		ID:        "act_1",
		Message:   "Cohort Pilot B created",
		Timestamp: time.Now().UTC(),
		Type:      "cohort",
	}))
	require.NoError(t, store.AppendActivity(api.ActivityItem{
		ID:        "act_2",
		Message:   "Admin signed in",
		Timestamp: time.Now().UTC(),
		Type:      "system",
	}))

	items, err := store.Activity()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "act_1", items[0].ID)
	assert.Equal(t, "act_2", items[1].ID)
}

func TestJSONStore_SubscribersNotifiedOnWrite(t *testing.T) {
	store, _ := newTestStore(t)

	notified := 0
	store.Subscribe(func() { notified++ })

	require.NoError(t, store.SaveCohorts([]api.Cohort{}))
	assert.Equal(t, 1, notified)
}

func TestJSONStore_WatchReloadsExternalEdits(t *testing.T) {
	store, dir := newTestStore(t)
	require.NoError(t, store.Watch())

	reloaded := make(chan struct{}, 1)
	store.Subscribe(func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})

	seedFile(t, dir, "cohorts", []api.Cohort{
		{ID: "coh_1", Name: "Pilot A", Status: api.CohortActive},
		{ID: "coh_9", Name: "External", Status: api.CohortUpcoming},
	})

	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not reload after external edit")
	}

	cohorts, err := store.Cohorts()
	require.NoError(t, err)
	assert.Len(t, cohorts, 2)
}

func TestJSONStore_Ping(t *testing.T) {
	store, _ := newTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, store.Ping(cancelled))
}
