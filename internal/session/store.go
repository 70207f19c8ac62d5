package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	models "wordlebot/internal/models"
)

// Store persists one JSON record per session key under a single directory.
// Writes for one session are serialized by that session's own lock; the
// store itself holds no state beyond the directory path.
type Store struct {
	dir string
	log *zap.Logger
}

// NewStore creates the sessions directory if needed.
func NewStore(dir string, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sessions dir: %w", err)
	}
	return &Store{dir: dir, log: log}, nil
}

func (st *Store) path(key models.SessionKey) string {
	return filepath.Join(st.dir, key.String()+".json")
}

// Save writes the record for its key, replacing any previous one.
func (st *Store) Save(rec models.SessionRecord) error {
	rec.Version = models.RecordVersion
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}
	if err := os.WriteFile(st.path(rec.Key()), data, 0o644); err != nil {
		return fmt.Errorf("write session record: %w", err)
	}
	return nil
}

// Load reads one record by key.
func (st *Store) Load(key models.SessionKey) (*models.SessionRecord, error) {
	data, err := os.ReadFile(st.path(key))
	if err != nil {
		return nil, err
	}
	var rec models.SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode session record: %w", err)
	}
	if rec.Version != models.RecordVersion {
		return nil, fmt.Errorf("unsupported session record version %d", rec.Version)
	}
	return &rec, nil
}

// LoadAll reads every record in the directory. Unreadable or wrong-version
// files are logged and skipped; one bad record never aborts the rest.
func (st *Store) LoadAll() []models.SessionRecord {
	entries, err := os.ReadDir(st.dir)
	if err != nil {
		st.log.Warn("cannot read sessions dir", zap.String("dir", st.dir), zap.Error(err))
		return nil
	}

	var records []models.SessionRecord
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(st.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			st.log.Warn("skipping unreadable session record", zap.String("file", path), zap.Error(err))
			continue
		}
		var rec models.SessionRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			st.log.Warn("skipping malformed session record", zap.String("file", path), zap.Error(err))
			continue
		}
		if rec.Version != models.RecordVersion {
			st.log.Warn("skipping session record with unsupported version",
				zap.String("file", path), zap.Int("version", rec.Version))
			continue
		}
		records = append(records, rec)
	}
	return records
}

// Delete removes the durable record for a key. Missing files are fine.
func (st *Store) Delete(key models.SessionKey) {
	if err := os.Remove(st.path(key)); err != nil && !os.IsNotExist(err) {
		st.log.Warn("cannot delete session record", zap.String("key", key.String()), zap.Error(err))
	}
}
