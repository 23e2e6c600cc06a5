package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"AdverseScreener/internal/domain"
	"AdverseScreener/internal/ports"
)

const (
	dataDirName   = "data"
	indexFileName = "index.json"
	lockFileName  = "index.lock"
	payloadExt    = ".json"

	// UnknownSchemaVersion tags recovered payloads that carry no schema version.
	UnknownSchemaVersion = "unknown"
)

// payload is the on-disk form of one result.
type payload struct {
	SchemaVersion string                  `json:"schema_version"`
	Result        *domain.ScreeningResult `json:"result"`
}

// FileStore keeps one JSON payload per result under dir/data and a versioned index at
// dir/index.json. Writers are serialised by a mutex within the process and by an
// exclusive lock on dir/index.lock across processes.
type FileStore struct {
	dir           string
	dataDir       string
	indexPath     string
	schemaVersion string
	logger        *slog.Logger

	mu       sync.Mutex
	fileLock *flock.Flock
	now      func() time.Time
	newID    func() string
}

var (
	_ ports.ResultStore     = (*FileStore)(nil)
	_ ports.IndexReconciler = (*FileStore)(nil)
)

// NewFileStore prepares dir, creating an empty index when none exists and rebuilding
// it from the payloads when it cannot be read.
func NewFileStore(dir, schemaVersion string, logger *slog.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: results dir is required")
	}
	if schemaVersion == "" {
		schemaVersion = domain.SchemaVersion
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &FileStore{
		dir:           dir,
		dataDir:       filepath.Join(dir, dataDirName),
		indexPath:     filepath.Join(dir, indexFileName),
		schemaVersion: schemaVersion,
		logger:        logger,
		fileLock:      flock.New(filepath.Join(dir, lockFileName)),
		now:           time.Now,
		newID:         func() string { return uuid.NewString() },
	}

	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()
	if _, err := s.indexLocked(); err != nil {
		return nil, err
	}

	return s, nil
}

// Save writes the payload, then appends its metadata to the index, both under the store
// lock so Reconcile never sees a payload whose Save is still in flight. If the index
// cannot be written the payload is removed again.
func (s *FileStore) Save(ctx context.Context, result domain.ScreeningResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(payload{SchemaVersion: s.schemaVersion, Result: &result}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}

	unlock, err := s.lock()
	if err != nil {
		return "", err
	}
	defer unlock()

	id := s.newID()
	path := s.payloadPath(id)
	if err := writeFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("write result %s: %w", id, err)
	}

	index, err := s.indexLocked()
	if err != nil {
		s.removePayload(path)
		return "", err
	}

	if !containsID(index.Results, id) {
		index.Results = append(index.Results, metadataFor(id, result, s.now(), s.schemaVersion))
	}
	if err := s.writeIndexLocked(index); err != nil {
		s.removePayload(path)
		return "", err
	}

	s.logger.Info("saved screening result", "id", id)
	return id, nil
}

// Get loads the payload stored under id.
func (s *FileStore) Get(ctx context.Context, id string) (domain.ScreeningResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ScreeningResult{}, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return domain.ScreeningResult{}, fmt.Errorf("result %s: %w", id, domain.ErrNotFound)
	}

	data, err := os.ReadFile(s.payloadPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.ScreeningResult{}, fmt.Errorf("result %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.ScreeningResult{}, fmt.Errorf("read result %s: %w", id, err)
	}

	result, _, err := decodePayload(data, false)
	if err != nil {
		return domain.ScreeningResult{}, fmt.Errorf("decode result %s: %w", id, err)
	}
	return result, nil
}

// List returns index entries for the current schema version, newest first.
func (s *FileStore) List(ctx context.Context) ([]domain.ResultMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	index, err := s.indexLocked()
	unlock()
	if err != nil {
		return nil, err
	}

	return currentNewestFirst(index.Results, s.schemaVersion), nil
}

// Reconcile indexes payloads that have no index entry, e.g. after a crash between the
// payload write and the index write. It returns how many entries were added.
func (s *FileStore) Reconcile(ctx context.Context) (int, error) {
	unlock, err := s.lock()
	if err != nil {
		return 0, err
	}
	defer unlock()

	index, err := s.indexLocked()
	if err != nil {
		return 0, err
	}

	added, err := s.addOrphansLocked(ctx, &index)
	if err != nil {
		return 0, err
	}
	if added == 0 {
		return 0, nil
	}

	if err := s.writeIndexLocked(index); err != nil {
		return 0, err
	}
	s.logger.Warn("indexed orphaned results", "count", added)
	return added, nil
}

// lock takes the in-process mutex and then the cross-process file lock.
func (s *FileStore) lock() (func(), error) {
	s.mu.Lock()
	if err := s.fileLock.Lock(); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("lock index: %w", err)
	}
	return func() {
		if err := s.fileLock.Unlock(); err != nil {
			s.logger.Error("failed to release index lock", "error", err)
		}
		s.mu.Unlock()
	}, nil
}

// indexLocked reads the index, creating or rebuilding it when needed. Callers hold the lock.
func (s *FileStore) indexLocked() (domain.ResultIndex, error) {
	data, err := os.ReadFile(s.indexPath)
	if errors.Is(err, fs.ErrNotExist) {
		index := domain.ResultIndex{Version: domain.IndexVersion, Results: []domain.ResultMetadata{}}
		return index, s.writeIndexLocked(index)
	}
	if err != nil {
		return domain.ResultIndex{}, fmt.Errorf("read index: %w", err)
	}

	var index domain.ResultIndex
	if err := json.Unmarshal(data, &index); err != nil {
		s.logger.Error("index unreadable, rebuilding from payloads", "path", s.indexPath, "error", err)
		return s.rebuildLocked()
	}
	return index, nil
}

func (s *FileStore) rebuildLocked() (domain.ResultIndex, error) {
	index := domain.ResultIndex{Version: domain.IndexVersion, Results: []domain.ResultMetadata{}}
	if _, err := s.addOrphansLocked(context.Background(), &index); err != nil {
		return domain.ResultIndex{}, err
	}
	if err := s.writeIndexLocked(index); err != nil {
		return domain.ResultIndex{}, err
	}
	return index, nil
}

// addOrphansLocked appends metadata for payloads missing from index, tagged with the
// schema version recorded in the payload. Payloads without one are tagged
// UnknownSchemaVersion; payloads that do not decode strictly are skipped.
func (s *FileStore) addOrphansLocked(ctx context.Context, index *domain.ResultIndex) (int, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return 0, fmt.Errorf("list payloads: %w", err)
	}

	known := make(map[string]struct{}, len(index.Results))
	for _, r := range index.Results {
		known[r.ID] = struct{}{}
	}

	added := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return added, err
		}

		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, payloadExt) {
			continue
		}
		id := strings.TrimSuffix(name, payloadExt)
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		if _, ok := known[id]; ok {
			continue
		}

		result, version, modTime, err := s.readStrict(entry)
		if err != nil {
			s.logger.Warn("skipping unreadable payload", "id", id, "error", err)
			continue
		}
		if version != s.schemaVersion {
			s.logger.Info("recovered payload from another schema version", "id", id, "schema_version", version)
		}

		index.Results = append(index.Results, metadataFor(id, result, modTime, version))
		known[id] = struct{}{}
		added++
	}

	return added, nil
}

func (s *FileStore) readStrict(entry fs.DirEntry) (domain.ScreeningResult, string, time.Time, error) {
	info, err := entry.Info()
	if err != nil {
		return domain.ScreeningResult{}, "", time.Time{}, err
	}

	data, err := os.ReadFile(filepath.Join(s.dataDir, entry.Name()))
	if err != nil {
		return domain.ScreeningResult{}, "", time.Time{}, err
	}

	result, version, err := decodePayload(data, true)
	if err != nil {
		return domain.ScreeningResult{}, "", time.Time{}, err
	}
	return result, version, info.ModTime(), nil
}

// decodePayload reads either the versioned envelope or a bare result written before
// payloads carried their schema version. Bare results report UnknownSchemaVersion.
func decodePayload(data []byte, strict bool) (domain.ScreeningResult, string, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return domain.ScreeningResult{}, "", err
	}

	if _, enveloped := probe["result"]; enveloped {
		var p payload
		if err := decodeJSON(data, &p, strict); err != nil {
			return domain.ScreeningResult{}, "", err
		}
		if p.Result == nil {
			return domain.ScreeningResult{}, "", errors.New("payload has no result")
		}
		version := p.SchemaVersion
		if version == "" {
			version = UnknownSchemaVersion
		}
		return *p.Result, version, nil
	}

	var result domain.ScreeningResult
	if err := decodeJSON(data, &result, strict); err != nil {
		return domain.ScreeningResult{}, "", err
	}
	return result, UnknownSchemaVersion, nil
}

func decodeJSON(data []byte, v any, strict bool) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if strict {
		dec.DisallowUnknownFields()
	}
	return dec.Decode(v)
}

func (s *FileStore) writeIndexLocked(index domain.ResultIndex) error {
	if index.Version == "" {
		index.Version = domain.IndexVersion
	}
	if index.Results == nil {
		index.Results = []domain.ResultMetadata{}
	}

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	if err := writeFileAtomic(s.indexPath, data); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

func (s *FileStore) payloadPath(id string) string {
	return filepath.Join(s.dataDir, id+payloadExt)
}

func (s *FileStore) removePayload(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Error("failed to remove payload after index failure", "path", path, "error", err)
	}
}

func containsID(entries []domain.ResultMetadata, id string) bool {
	for _, e := range entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// writeFileAtomic writes data to a temp file in the target directory and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
