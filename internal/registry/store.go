package registry

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"energyd/internal/common/fsutil"
	"energyd/internal/model"
	"energyd/pkg/types"
)

const (
	dbFile       = "registry.db"
	modelsDir    = "models"
	artifactFile = "model.json"

	// Latest is the version tag that resolves to the newest registration.
	Latest = "latest"
)

var (
	// ErrNotFound is wrapped when a ref matches no registered model.
	ErrNotFound = errors.New("model not found")
	// ErrChecksum is wrapped when a stored artifact no longer matches its digest.
	ErrChecksum = errors.New("artifact checksum mismatch")

	validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// Store is a local model registry: a sqlite index plus copied artifact files.
// Entries are never updated or deleted once committed.
type Store struct {
	root string
	db   *sqlx.DB

	mu  sync.Mutex // serializes registrations
	now func() time.Time
}

type modelRow struct {
	Name      string `db:"name"`
	Version   string `db:"version"`
	Path      string `db:"path"`
	SHA256    string `db:"sha256"`
	SizeBytes int64  `db:"size_bytes"`
	Kind      string `db:"kind"`
	Target    string `db:"target"`
	CreatedAt int64  `db:"created_at"`
}

// Open opens (creating if needed) the store rooted at root.
func Open(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("store root is empty")
	}
	abs, err := fsutil.Resolve(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(abs, modelsDir), 0o755); err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", filepath.Join(abs, dbFile))
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open registry db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{root: abs, db: db, now: time.Now}, nil
}

func ensureSchema(db *sqlx.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS models (
			name TEXT NOT NULL,
			version TEXT NOT NULL,
			path TEXT NOT NULL,
			sha256 TEXT NOT NULL,
			size_bytes INTEGER NOT NULL,
			kind TEXT NOT NULL,
			target TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			PRIMARY KEY (name, version)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_models_name_created ON models(name, created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("registry schema: %w", err)
		}
	}
	return nil
}

// Root returns the absolute store directory.
func (s *Store) Root() string { return s.root }

// Close closes the index database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ParseRef splits "name", "name:latest" or "name:<version>". An empty version
// means latest.
func ParseRef(ref string) (name, version string, err error) {
	name, version, _ = strings.Cut(strings.TrimSpace(ref), ":")
	if !validName.MatchString(name) {
		return "", "", fmt.Errorf("invalid model ref %q", ref)
	}
	if version == Latest {
		version = ""
	}
	return name, version, nil
}

// Register stores data as a new version of name.
func (s *Store) Register(ctx context.Context, name string, data []byte) (types.Model, error) {
	out, err := s.register(ctx, []pending{{name: name, source: name, data: data}})
	if err != nil {
		return types.Model{}, err
	}
	return out[0], nil
}

type pending struct {
	name   string
	source string // reported in ArtifactError
	data   []byte
}

// register validates every artifact, copies them into the store and commits
// the index rows in one transaction. On any failure nothing stays registered.
func (s *Store) register(ctx context.Context, items []pending) ([]types.Model, error) {
	rows := make([]modelRow, 0, len(items))
	for _, it := range items {
		if !validName.MatchString(it.name) {
			return nil, fmt.Errorf("invalid model name %q", it.name)
		}
		e, err := model.Decode(bytes.NewReader(it.data))
		if err != nil {
			return nil, &ArtifactError{Path: it.source, Err: err}
		}
		rows = append(rows, modelRow{
			Name:      it.name,
			SHA256:    fsutil.Digest(it.data),
			SizeBytes: int64(len(it.data)),
			Kind:      model.Format,
			Target:    e.Target(),
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var written []string
	cleanup := func() {
		for _, dir := range written {
			_ = os.RemoveAll(dir)
		}
	}
	for i := range rows {
		v, err := uuid.NewV7()
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("version tag: %w", err)
		}
		rows[i].Version = v.String()
		rows[i].CreatedAt = s.now().UnixNano()
		rows[i].Path = filepath.Join(modelsDir, rows[i].Name, rows[i].Version, artifactFile)
		dst := filepath.Join(s.root, rows[i].Path)
		written = append(written, filepath.Dir(dst))
		if err := fsutil.WriteFileAtomic(dst, items[i].data, 0o644); err != nil {
			cleanup()
			return nil, fmt.Errorf("copy artifact %s: %w", items[i].source, err)
		}
	}

	if err := s.insert(ctx, rows); err != nil {
		cleanup()
		return nil, err
	}
	out := make([]types.Model, len(rows))
	for i, r := range rows {
		out[i] = s.toModel(r)
	}
	return out, nil
}

func (s *Store) insert(ctx context.Context, rows []modelRow) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin registration: %w", err)
	}
	const q = `INSERT INTO models (name, version, path, sha256, size_bytes, kind, target, created_at)
		VALUES (:name, :version, :path, :sha256, :size_bytes, :kind, :target, :created_at)`
	for _, r := range rows {
		if _, err := tx.NamedExecContext(ctx, q, r); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("register %s: %w", r.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit registration: %w", err)
	}
	return nil
}

// Get resolves ref to its registry entry.
func (s *Store) Get(ctx context.Context, ref string) (types.Model, error) {
	name, version, err := ParseRef(ref)
	if err != nil {
		return types.Model{}, err
	}
	var row modelRow
	if version == "" {
		err = s.db.GetContext(ctx, &row,
			`SELECT * FROM models WHERE name = ? ORDER BY created_at DESC, version DESC LIMIT 1`, name)
	} else {
		err = s.db.GetContext(ctx, &row,
			`SELECT * FROM models WHERE name = ? AND version = ?`, name, version)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return types.Model{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	if err != nil {
		return types.Model{}, fmt.Errorf("lookup %s: %w", ref, err)
	}
	return s.toModel(row), nil
}

// List returns every registered version, newest first within each name.
func (s *Store) List(ctx context.Context) ([]types.Model, error) {
	var rows []modelRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM models ORDER BY name ASC, created_at DESC, version DESC`); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	out := make([]types.Model, len(rows))
	for i, r := range rows {
		out[i] = s.toModel(r)
	}
	return out, nil
}

// Load resolves ref, verifies the stored artifact against its digest and
// decodes it.
func (s *Store) Load(ctx context.Context, ref string) (types.Model, *model.Ensemble, error) {
	m, err := s.Get(ctx, ref)
	if err != nil {
		return types.Model{}, nil, err
	}
	data, err := os.ReadFile(m.Path)
	if err != nil {
		return m, nil, &ArtifactError{Path: m.Path, Err: err}
	}
	if got := fsutil.Digest(data); got != m.SHA256 {
		return m, nil, &ArtifactError{Path: m.Path, Err: fmt.Errorf("%w: have %s, want %s", ErrChecksum, got, m.SHA256)}
	}
	e, err := model.Decode(bytes.NewReader(data))
	if err != nil {
		return m, nil, &ArtifactError{Path: m.Path, Err: err}
	}
	return m, e, nil
}

func (s *Store) toModel(r modelRow) types.Model {
	return types.Model{
		Name:      r.Name,
		Version:   r.Version,
		Path:      filepath.Join(s.root, r.Path),
		SHA256:    r.SHA256,
		SizeBytes: r.SizeBytes,
		Kind:      r.Kind,
		Target:    r.Target,
		CreatedAt: time.Unix(0, r.CreatedAt).Unix(),
	}
}
