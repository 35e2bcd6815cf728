// Package history keeps previously seen versions of API descriptions on disk
// so a new version can be checked against the last one.
package history

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/erraggy/apidiff/internal/fileutil"
	"github.com/erraggy/apidiff/logging"
	"github.com/erraggy/apidiff/oaserrors"
)

// DefaultMaxVersions is the number of snapshots kept per ID when none is configured.
const DefaultMaxVersions = 10

// Snapshot is one stored version of a document
type Snapshot struct {
	// ID is the document's identifier as passed to Save
	ID string `json:"id"`
	// Version is the document's info.version
	Version string `json:"version"`
	// Timestamp is when the snapshot was saved
	Timestamp time.Time `json:"timestamp"`
	// Data is the raw document
	Data []byte `json:"data"`
}

// Store persists snapshots as JSON files named <file-stem>_<unixnano>.json,
// where the stem is the readable part of the ID plus a hash of the full ID.
type Store struct {
	dir         string
	maxVersions int
	logger      logging.Logger
	now         func() time.Time
}

// NewStore creates a filesystem-backed store, creating dir if needed.
// maxVersions <= 0 means DefaultMaxVersions.
func NewStore(dir string, maxVersions int, logger logging.Logger) (*Store, error) {
	if dir == "" {
		return nil, &oaserrors.ConfigError{Option: "store", Message: "directory is required"}
	}
	if maxVersions <= 0 {
		maxVersions = DefaultMaxVersions
	}
	if err := os.MkdirAll(dir, fileutil.OwnerOnlyDir); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return &Store{dir: dir, maxVersions: maxVersions, logger: logging.OrNop(logger), now: time.Now}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// Save stores a new snapshot for id and prunes old ones.
func (s *Store) Save(id, version string, data []byte) (*Snapshot, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &oaserrors.ConfigError{Option: "id", Message: "snapshot ID is required"}
	}

	snap := &Snapshot{ID: id, Version: version, Timestamp: s.now().UTC(), Data: data}
	// nanosecond timestamps can collide on coarse clocks
	if latest, err := s.entries(id); err == nil && len(latest) > 0 {
		if last := latest[len(latest)-1]; snap.Timestamp.UnixNano() <= last.nanos {
			snap.Timestamp = time.Unix(0, last.nanos+1).UTC()
		}
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	name := fmt.Sprintf("%s_%d.json", fileStem(id), snap.Timestamp.UnixNano())
	if err := os.WriteFile(filepath.Join(s.dir, name), raw, fileutil.OwnerReadWrite); err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}
	s.logger.Debug("snapshot saved", "id", id, "version", version, "file", name)

	return snap, s.prune(id)
}

// Latest returns the most recent snapshot for id, or nil if there is none.
func (s *Store) Latest(id string) (*Snapshot, error) {
	entries, err := s.entries(id)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return s.read(entries[len(entries)-1].name)
}

// List returns the snapshots for id, oldest first, without their data.
func (s *Store) List(id string) ([]Snapshot, error) {
	entries, err := s.entries(id)
	if err != nil {
		return nil, err
	}
	out := make([]Snapshot, 0, len(entries))
	for _, e := range entries {
		snap, err := s.read(e.name)
		if err != nil {
			return nil, err
		}
		snap.Data = nil
		out = append(out, *snap)
	}
	return out, nil
}

func (s *Store) read(name string) (*Snapshot, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, &oaserrors.MalformedInputError{Source: name, Message: "corrupt snapshot", Cause: err}
	}
	return &snap, nil
}

type entry struct {
	name  string
	nanos int64
}

// entries returns the snapshot files of id ordered by timestamp.
func (s *Store) entries(id string) ([]entry, error) {
	prefix := fileStem(id) + "_"
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history dir: %w", err)
	}

	var matching []entry
	for _, e := range dirEntries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		// the remainder must be a bare timestamp, otherwise the file belongs to
		// another ID sharing this prefix
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json")
		nanos, err := strconv.ParseInt(stamp, 10, 64)
		if err != nil {
			continue
		}
		matching = append(matching, entry{name: name, nanos: nanos})
	}
	sort.Slice(matching, func(i, j int) bool { return matching[i].nanos < matching[j].nanos })
	return matching, nil
}

func (s *Store) prune(id string) error {
	entries, err := s.entries(id)
	if err != nil {
		return err
	}
	if len(entries) <= s.maxVersions {
		return nil
	}
	for _, e := range entries[:len(entries)-s.maxVersions] {
		if err := os.Remove(filepath.Join(s.dir, e.name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to prune snapshot", "file", e.name, "error", err)
			continue
		}
		s.logger.Debug("snapshot pruned", "id", id, "file", e.name)
	}
	return nil
}

// fileStem maps an ID to a file name prefix. IDs that sanitize to the same
// text ("users/api", "users.api") still get distinct stems.
func fileStem(id string) string {
	sum := sha256.Sum256([]byte(id))
	return sanitizeID(id) + "-" + hex.EncodeToString(sum[:6])
}

func sanitizeID(id string) string {
	var sb strings.Builder
	for _, c := range id {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' {
			sb.WriteRune(c)
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
