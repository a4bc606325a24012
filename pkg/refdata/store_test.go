package refdata

import (
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/sage/pkg/models"
)

func strPtr(s string) *string {
	return &s
}

func ref(id, name string) models.ReferenceRecord {
	return models.ReferenceRecord{ID: id, Record: models.Record{Name: strPtr(name)}}
}

func loadedStore(tenantID string, records ...models.ReferenceRecord) *Store {
	store := NewStore(nil, ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
	store.byTenant[tenantID] = records
	store.loaded[tenantID] = true
	return store
}

func TestStore_Apply(t *testing.T) {
	t.Run("InsertsSorted", func(t *testing.T) {
		store := loadedStore("t1", ref("a", "Alice"), ref("c", "Carol"))

		store.Apply("t1", ref("b", "Bob"))

		records := store.byTenant["t1"]
		require.Len(t, records, 3)
		assert.Equal(t, []string{"a", "b", "c"}, []string{records[0].ID, records[1].ID, records[2].ID})
	})

	t.Run("ReplacesExisting", func(t *testing.T) {
		store := loadedStore("t1", ref("a", "Alice"))

		store.Apply("t1", ref("a", "Alicia"))

		records := store.byTenant["t1"]
		require.Len(t, records, 1)
		assert.Equal(t, "Alicia", *records[0].Record.Name)
	})

	t.Run("SnapshotUnaffectedByLaterApply", func(t *testing.T) {
		store := loadedStore("t1", ref("a", "Alice"))

		before := store.byTenant["t1"]
		store.Apply("t1", ref("b", "Bob"))

		require.Len(t, before, 1)
		assert.Equal(t, "Alice", *before[0].Record.Name)
		assert.Equal(t, 2, store.Count("t1"))
	})

	t.Run("NoOpBeforeFirstLoad", func(t *testing.T) {
		store := NewStore(nil, ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))

		store.Apply("t1", ref("a", "Alice"))

		assert.Empty(t, store.byTenant["t1"])
		assert.False(t, store.loaded["t1"])
	})
}

func TestStore_Remove(t *testing.T) {
	t.Run("RemovesRecord", func(t *testing.T) {
		store := loadedStore("t1", ref("a", "Alice"), ref("b", "Bob"))

		store.Remove("t1", "a")

		records := store.byTenant["t1"]
		require.Len(t, records, 1)
		assert.Equal(t, "b", records[0].ID)
	})

	t.Run("SnapshotUnaffectedByLaterRemove", func(t *testing.T) {
		store := loadedStore("t1", ref("a", "Alice"), ref("b", "Bob"))

		before := store.byTenant["t1"]
		store.Remove("t1", "a")

		assert.Len(t, before, 2)
		assert.Equal(t, 1, store.Count("t1"))
	})

	t.Run("UnknownIDIsNoOp", func(t *testing.T) {
		store := loadedStore("t1", ref("a", "Alice"))

		store.Remove("t1", "zzz")

		assert.Equal(t, 1, store.Count("t1"))
	})
}

func TestStore_TenantsAreIsolated(t *testing.T) {
	store := loadedStore("t1", ref("a", "Alice"))
	store.byTenant["t2"] = []models.ReferenceRecord{ref("x", "Xavier")}
	store.loaded["t2"] = true

	store.Apply("t1", ref("b", "Bob"))

	assert.Equal(t, 2, store.Count("t1"))
	assert.Equal(t, 1, store.Count("t2"))
}
