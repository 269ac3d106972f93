package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"autosub/internal/fileutil"
	"autosub/internal/logging"
	"autosub/internal/services"
)

const lockFileName = ".autosub.lock"

// ErrLocked reports that another process holds the workspace lock.
var ErrLocked = errors.New("workspace is in use by another autosub process")

// Workspace is a locked scratch directory.
type Workspace struct {
	root   string
	lock   *flock.Flock
	logger *slog.Logger
}

// Entry is a source file copied into the workspace.
type Entry struct {
	ID     string
	Source string
	Path   string
	Size   int64
}

// Open creates root if needed and acquires the workspace lock.
func Open(root string, logger *slog.Logger) (*Workspace, error) {
	if root == "" {
		return nil, services.Wrap(services.ErrConfiguration, "workspace", "open", "scratch directory not configured", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, services.Wrap(services.ErrTransient, "workspace", "open", "create scratch directory", err)
	}
	lock := flock.New(filepath.Join(root, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire workspace lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, root)
	}
	return &Workspace{
		root:   root,
		lock:   lock,
		logger: logging.NewComponentLogger(logger, "workspace"),
	}, nil
}

// Root returns the scratch directory.
func (w *Workspace) Root() string {
	return w.root
}

// Close releases the workspace lock.
func (w *Workspace) Close() error {
	if w == nil || w.lock == nil {
		return nil
	}
	return w.lock.Unlock()
}

// Reset removes everything in the scratch directory except the lock file.
// Removal errors are logged and ignored.
func (w *Workspace) Reset() error {
	entries, err := os.ReadDir(w.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.MkdirAll(w.root, 0o755)
		}
		return services.Wrap(services.ErrTransient, "workspace", "reset", "read scratch directory", err)
	}
	removed := 0
	for _, entry := range entries {
		if entry.Name() == lockFileName {
			continue
		}
		path := filepath.Join(w.root, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			logging.WarnWithContext(w.logger, "failed to remove scratch entry", "workspace_reset_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check work_dir permissions"),
				logging.String(logging.FieldImpact, "stale files remain in the scratch directory"),
			)
			continue
		}
		removed++
	}
	w.logger.Debug("workspace reset",
		logging.String("root", w.root),
		logging.Int("removed", removed),
		logging.String(logging.FieldEventType, "workspace_reset"),
	)
	return nil
}

// Stage copies source into the workspace as <uuid>.mp4.
func (w *Workspace) Stage(source string) (Entry, error) {
	info, err := os.Stat(source)
	if err != nil {
		return Entry{}, services.Wrap(services.ErrNotFound, "workspace", "stage", "stat source", err)
	}
	if info.IsDir() {
		return Entry{}, services.Wrap(services.ErrValidation, "workspace", "stage", source+" is a directory", nil)
	}
	if free, err := w.FreeBytes(); err == nil && uint64(info.Size()) > free {
		return Entry{}, services.Wrap(services.ErrValidation, "workspace", "stage",
			fmt.Sprintf("not enough free space for %s (%d bytes needed, %d available)", filepath.Base(source), info.Size(), free), nil)
	}

	id, err := newID()
	if err != nil {
		return Entry{}, services.Wrap(services.ErrTransient, "workspace", "stage", "generate id", err)
	}
	dest := w.Path(id, ".mp4")
	written, err := fileutil.CopyFileVerified(source, dest)
	if err != nil {
		return Entry{}, services.Wrap(services.ErrTransient, "workspace", "stage", "copy source", err)
	}
	w.logger.Debug("staged source",
		logging.String("source", source),
		logging.String("path", dest),
		logging.Int64("bytes", written),
		logging.String(logging.FieldEventType, "workspace_staged"),
	)
	return Entry{ID: id, Source: source, Path: dest, Size: written}, nil
}

// Path returns the artifact path for id with the given suffix, such as
// ".aac" or "_t.srt".
func (w *Workspace) Path(id, suffix string) string {
	return filepath.Join(w.root, id+suffix)
}

// FreeBytes reports the space available to unprivileged users on the
// filesystem holding the scratch directory.
func (w *Workspace) FreeBytes() (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(w.root, &stat); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", w.root, err)
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

// newID returns a time-based UUID, falling back to a random one when the
// node identifier cannot be determined.
func newID() (string, error) {
	id, err := uuid.NewUUID()
	if err == nil {
		return id.String(), nil
	}
	random, rerr := uuid.NewRandom()
	if rerr != nil {
		return "", rerr
	}
	return random.String(), nil
}
