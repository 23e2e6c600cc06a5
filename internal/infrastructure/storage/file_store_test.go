package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AdverseScreener/internal/domain"
)

func readIndex(t *testing.T, dir string) domain.ResultIndex {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, indexFileName))
	require.NoError(t, err)

	var index domain.ResultIndex
	require.NoError(t, json.Unmarshal(data, &index))
	return index
}

func TestNewFileStoreCreatesLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")

	_, err := NewFileStore(dir, "", nil)
	require.NoError(t, err)

	assert.DirExists(t, filepath.Join(dir, dataDirName))
	index := readIndex(t, dir)
	assert.Equal(t, domain.IndexVersion, index.Version)
	assert.Empty(t, index.Results)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir(), domain.SchemaVersion, nil)
	require.NoError(t, err)

	result := sampleResult("Robert Smith", "CEO charged")
	id, err := store.Save(ctx, result)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	loaded, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, result, loaded)

	listed, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, id, listed[0].ID)
	assert.Equal(t, "Robert Smith - CEO charged", listed[0].DisplayName)
	assert.Equal(t, domain.SchemaVersion, listed[0].SchemaVersion)
	assert.Equal(t, result.Article.URL, listed[0].ArticleURL)
}

func TestFileStoreGetMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "", nil)
	require.NoError(t, err)

	_, err = store.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.Get(context.Background(), "../index")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFileStoreListFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	old, err := NewFileStore(dir, "0.9.0", nil)
	require.NoError(t, err)
	_, err = old.Save(ctx, sampleResult("Old Person", "Old article"))
	require.NoError(t, err)

	store, err := NewFileStore(dir, "1.0.0", nil)
	require.NoError(t, err)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ticks := 0
	store.now = func() time.Time {
		ticks++
		return base.Add(time.Duration(ticks) * time.Minute)
	}

	first, err := store.Save(ctx, sampleResult("First", "A"))
	require.NoError(t, err)
	second, err := store.Save(ctx, sampleResult("Second", "B"))
	require.NoError(t, err)

	listed, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, second, listed[0].ID)
	assert.Equal(t, first, listed[1].ID)

	assert.Len(t, readIndex(t, dir).Results, 3)
}

func TestFileStoreTruncatesLongTitles(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "", nil)
	require.NoError(t, err)

	title := strings.Repeat("x", 80)
	_, err = store.Save(context.Background(), sampleResult("P", title))
	require.NoError(t, err)

	listed, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "P - "+strings.Repeat("x", 47)+"...", listed[0].DisplayName)
	assert.Equal(t, title, listed[0].ArticleTitle)
}

func TestFileStoreConcurrentSaves(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "", nil)
	require.NoError(t, err)

	const writers = 20
	var wg sync.WaitGroup
	ids := make([]string, writers)
	errs := make([]error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i], errs[i] = store.Save(context.Background(), sampleResult("P", "T"))
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	listed, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, listed, writers)

	seen := map[string]bool{}
	for _, m := range listed {
		seen[m.ID] = true
	}
	for _, id := range ids {
		assert.True(t, seen[id], "id %s missing from index", id)
	}
}

func TestFileStoreReconcileIndexesOrphans(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir, "", nil)
	require.NoError(t, err)

	indexed, err := store.Save(ctx, sampleResult("Indexed", "A"))
	require.NoError(t, err)

	orphan := uuid.NewString()
	orphanResult := sampleResult("Orphan", "B")
	data, err := json.Marshal(payload{SchemaVersion: domain.SchemaVersion, Result: &orphanResult})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, dataDirName, orphan+payloadExt), data, 0o644))

	stale := uuid.NewString()
	require.NoError(t, os.WriteFile(filepath.Join(dir, dataDirName, stale+payloadExt), []byte(`{"legacy_field": true}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, dataDirName, "notes.txt"), []byte("ignore"), 0o644))

	added, err := store.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	listed, err := store.List(ctx)
	require.NoError(t, err)
	var got []string
	for _, m := range listed {
		got = append(got, m.ID)
	}
	assert.ElementsMatch(t, []string{indexed, orphan}, got)

	added, err = store.Reconcile(ctx)
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestFileStoreRebuildsCorruptIndex(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir, "", nil)
	require.NoError(t, err)

	id, err := store.Save(ctx, sampleResult("P", "T"))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, indexFileName), []byte("{not json"), 0o644))

	reopened, err := NewFileStore(dir, "", nil)
	require.NoError(t, err)

	listed, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, id, listed[0].ID)
	assert.Equal(t, "P - T", listed[0].DisplayName)
}

func TestFileStoreRebuildKeepsPayloadSchemaVersion(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	old, err := NewFileStore(dir, "0.9.0", nil)
	require.NoError(t, err)
	id, err := old.Save(ctx, sampleResult("Old Person", "Old article"))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, indexFileName), []byte("{bad"), 0o644))

	current, err := NewFileStore(dir, "1.0.0", nil)
	require.NoError(t, err)

	listed, err := current.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)

	index := readIndex(t, dir)
	require.Len(t, index.Results, 1)
	assert.Equal(t, id, index.Results[0].ID)
	assert.Equal(t, "0.9.0", index.Results[0].SchemaVersion)

	reopened, err := NewFileStore(dir, "0.9.0", nil)
	require.NoError(t, err)
	listed, err = reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, id, listed[0].ID)
}

func TestFileStoreReconcileTagsUnversionedPayloads(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir, "", nil)
	require.NoError(t, err)

	bare := uuid.NewString()
	result := sampleResult("Bare", "Written before versioned payloads")
	data, err := json.Marshal(result)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, dataDirName, bare+payloadExt), data, 0o644))

	added, err := store.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	listed, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)

	index := readIndex(t, dir)
	require.Len(t, index.Results, 1)
	assert.Equal(t, UnknownSchemaVersion, index.Results[0].SchemaVersion)

	loaded, err := store.Get(ctx, bare)
	require.NoError(t, err)
	assert.Equal(t, result, loaded)
}

func TestFileStoreReconcileWaitsForInFlightSave(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir(), "", nil)
	require.NoError(t, err)

	id := uuid.NewString()
	started := make(chan struct{})
	release := make(chan struct{})
	store.newID = func() string {
		close(started)
		<-release
		return id
	}

	saveErr := make(chan error, 1)
	go func() {
		_, err := store.Save(ctx, sampleResult("P", "T"))
		saveErr <- err
	}()
	<-started

	type reconciled struct {
		added int
		err   error
	}
	reconcileDone := make(chan reconciled, 1)
	go func() {
		added, err := store.Reconcile(ctx)
		reconcileDone <- reconciled{added: added, err: err}
	}()

	select {
	case <-reconcileDone:
		t.Fatal("reconcile ran while a save was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-saveErr)

	got := <-reconcileDone
	require.NoError(t, got.err)
	assert.Zero(t, got.added)

	listed, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, id, listed[0].ID)
}

func TestFileStoresSharingDirDoNotLoseUpdates(t *testing.T) {
	dir := t.TempDir()
	first, err := NewFileStore(dir, "", nil)
	require.NoError(t, err)
	second, err := NewFileStore(dir, "", nil)
	require.NoError(t, err)

	const perStore = 10
	var wg sync.WaitGroup
	errs := make(chan error, 2*perStore)
	for _, store := range []*FileStore{first, second} {
		for range perStore {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.Save(context.Background(), sampleResult("P", "T"))
				errs <- err
			}()
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	listed, err := first.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, listed, 2*perStore)
}

func TestFileStoreRemovesPayloadWhenIndexWriteFails(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "", nil)
	require.NoError(t, err)

	// A directory where the index file should be makes the rename fail.
	require.NoError(t, os.Remove(filepath.Join(dir, indexFileName)))
	require.NoError(t, os.Mkdir(filepath.Join(dir, indexFileName), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, indexFileName, "keep"), nil, 0o644))

	_, err = store.Save(context.Background(), sampleResult("P", "T"))
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, dataDirName))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
