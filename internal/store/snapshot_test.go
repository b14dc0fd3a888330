package store

import (
	"path/filepath"
	"testing"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, retention int) *SnapshotStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "catalog.db"), 1, retention)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func snapshotWith(ids ...string) *Snapshot {
	snap := &Snapshot{Catalog: domain.Catalog{Store: domain.StoreInfo{Name: "Test", Currency: "THB"}}}
	for _, id := range ids {
		snap.Catalog.Products = append(snap.Catalog.Products, domain.ProductRecord{ID: id, SKU: id})
	}
	return snap
}

func TestLatestOnEmptyStore(t *testing.T) {
	s := openTestStore(t, 3)
	snap, err := s.Latest()
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSaveAndLatest(t *testing.T) {
	s := openTestStore(t, 3)
	firstID, err := s.Save(snapshotWith("P1"))
	require.NoError(t, err)
	secondID, err := s.Save(snapshotWith("P1", "P2"))
	require.NoError(t, err)
	assert.NotEqual(t, firstID, secondID)

	latest, err := s.Latest()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, secondID, latest.ID)
	assert.Len(t, latest.Catalog.Products, 2)
	assert.False(t, latest.CreatedAt.IsZero())

	got, err := s.Get(firstID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "P1", got.Catalog.Products[0].ID)
}

func TestRetentionPrunesOldest(t *testing.T) {
	s := openTestStore(t, 2)
	var ids []string
	for i := 0; i < 4; i++ {
		id, err := s.Save(snapshotWith("P1"))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	list, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[3], list[0].ID)
	assert.Equal(t, ids[2], list[1].ID)

	gone, err := s.Get(ids[0])
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestGetRejectsBadID(t *testing.T) {
	s := openTestStore(t, 2)
	_, err := s.Get("not-a-number")
	assert.Error(t, err)
}
