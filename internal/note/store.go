package note

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Paintersrp/notator/internal/handler"
	"github.com/Paintersrp/notator/internal/pathutil"
)

const defaultNameLayout = "2006-01-02_150405"

// Store reads and writes notes under a single notes directory. Writes are
// serialized; a Store is safe for use from the event loop and save commands
// at the same time.
type Store struct {
	dir string
	ext string
	now func() time.Time
	log *zap.Logger

	mu     sync.Mutex
	issued map[string]struct{}
}

type StoreOption func(*Store)

func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore prepares dir for writing. An unwritable directory is reported as
// an *IOError, which callers treat as fatal at startup.
func NewStore(dir, ext string, opts ...StoreOption) (*Store, error) {
	dir = pathutil.NormalizePath(strings.TrimSpace(dir))
	if dir == "" {
		return nil, &IOError{Op: "open notes directory", Path: dir, Err: errors.New("empty path")}
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, &IOError{Op: "open notes directory", Path: dir, Err: err}
	}

	s := &Store{
		dir:    abs,
		ext:    strings.TrimPrefix(strings.TrimSpace(ext), "."),
		now:    time.Now,
		log:    zap.NewNop(),
		issued: make(map[string]struct{}),
	}
	if s.ext == "" {
		s.ext = "md"
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, &IOError{Op: "create notes directory", Path: abs, Err: err}
	}

	probe, err := os.CreateTemp(abs, ".notator-probe-*")
	if err != nil {
		return nil, &IOError{Op: "probe notes directory", Path: abs, Err: err}
	}
	probe.Close()
	_ = os.Remove(probe.Name())

	return s, nil
}

func (s *Store) Dir() string { return s.dir }
func (s *Store) Ext() string { return s.ext }

// Resolve maps a user-supplied name to an identifier. Relative names land in
// the notes directory; names without an extension get the configured one.
func (s *Store) Resolve(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	name = pathutil.NormalizePath(name)
	if !filepath.IsAbs(name) {
		name = filepath.Join(s.dir, name)
	}
	if filepath.Ext(name) == "" {
		name += "." + s.ext
	}

	return name
}

// Label is the display form of id.
func (s *Store) Label(id string) string {
	return pathutil.Label(s.dir, id)
}

// GenerateDefaultName reserves a timestamp name for a note created at
// created. The name never matches an existing file nor any name already
// handed out by this Store.
func (s *Store) GenerateDefaultName(created time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reserveDefault(created)
}

func (s *Store) reserveDefault(created time.Time) string {
	if created.IsZero() {
		created = s.now()
	}
	base := created.Format(defaultNameLayout)

	for i := 0; ; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s-%d", base, i)
		}
		path := filepath.Join(s.dir, name+"."+s.ext)
		if s.taken(path) {
			continue
		}
		s.issued[path] = struct{}{}
		return path
	}
}

func (s *Store) taken(path string) bool {
	if _, ok := s.issued[path]; ok {
		return true
	}
	return handler.Exists(path)
}

// Save writes n and returns its identifier. An unbound note is bound to
// rename when given, otherwise to a generated default name; rename is ignored
// for bound notes. Saving unchanged content is harmless.
func (s *Store) Save(n Note, rename string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := n.ID
	reserved := false
	if id == "" {
		if target := s.Resolve(rename); target != "" {
			if s.taken(target) {
				return "", fmt.Errorf("%w: %s", ErrNameTaken, s.Label(target))
			}
			s.issued[target] = struct{}{}
			id = target
		} else {
			id = s.reserveDefault(n.Created)
		}
		reserved = true
	}

	if err := WriteFileAtomic(id, []byte(n.Content), 0o644); err != nil {
		if reserved {
			delete(s.issued, id)
		}
		s.log.Warn("note save failed", zap.String("id", id), zap.Error(err))
		return "", err
	}

	s.log.Debug("note saved", zap.String("id", id), zap.Int("bytes", len(n.Content)))
	return id, nil
}

// SaveAs writes n under name regardless of its current binding and returns
// the new identifier. The previous file, if any, is left untouched.
func (s *Store) SaveAs(n Note, name string) (string, error) {
	target := s.Resolve(name)
	if target == "" {
		return "", fmt.Errorf("save as: empty name")
	}
	if target == n.ID {
		return s.Save(n, "")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.taken(target) {
		return "", fmt.Errorf("%w: %s", ErrNameTaken, s.Label(target))
	}
	if err := WriteFileAtomic(target, []byte(n.Content), 0o644); err != nil {
		s.log.Warn("note save as failed", zap.String("id", target), zap.Error(err))
		return "", err
	}
	s.issued[target] = struct{}{}

	s.log.Debug("note saved as", zap.String("from", n.ID), zap.String("id", target))
	return target, nil
}

// Rename moves the file at id to name and returns the new identifier. The
// content is not rewritten, so no second copy is left behind.
func (s *Store) Rename(id, name string) (string, error) {
	target := s.Resolve(name)
	if target == "" {
		return "", fmt.Errorf("rename: empty name")
	}
	if target == id {
		return id, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.taken(target) {
		return "", fmt.Errorf("%w: %s", ErrNameTaken, s.Label(target))
	}
	if err := os.Rename(id, target); err != nil {
		s.log.Warn("note rename failed", zap.String("from", id), zap.String("id", target), zap.Error(err))
		return "", &IOError{Op: "rename", Path: id, Err: err}
	}
	s.issued[target] = struct{}{}

	s.log.Debug("note renamed", zap.String("from", id), zap.String("id", target))
	return target, nil
}

// Load reads the note stored at id.
func (s *Store) Load(id string) (Note, error) {
	path := s.Resolve(id)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Note{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Note{}, &IOError{Op: "load", Path: path, Err: err}
	}

	created := s.now()
	if info, err := os.Stat(path); err == nil {
		created = info.ModTime()
	}

	return Note{ID: path, Content: string(data), Created: created}, nil
}

// List returns every note in the notes directory, most recently modified
// first.
func (s *Store) List() ([]string, error) {
	files, err := handler.NewFileHandler(s.dir).WalkFiles(s.ext, nil)
	if err != nil {
		return nil, &IOError{Op: "list", Path: s.dir, Err: err}
	}

	mod := make(map[string]time.Time, len(files))
	for _, f := range files {
		if info, err := os.Stat(f); err == nil {
			mod[f] = info.ModTime()
		}
	}
	sort.SliceStable(files, func(i, j int) bool {
		if mod[files[i]].Equal(mod[files[j]]) {
			return files[i] < files[j]
		}
		return mod[files[i]].After(mod[files[j]])
	})

	return files, nil
}
