// Package history persists what the user opened, ran and launched so the
// launcher can rank recent items.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kk-code-lab/filecast/internal/logging"
	_ "modernc.org/sqlite"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("history store is closed")

// RecentAccess is one recently opened path.
type RecentAccess struct {
	Path         string
	LastAccessed time.Time
	AccessCount  int
}

// Name returns the final path element, or the path itself for roots.
func (r RecentAccess) Name() string {
	base := filepath.Base(r.Path)
	if base == "." || base == string(filepath.Separator) {
		return r.Path
	}
	return base
}

// CommandRun is one command executed from a directory.
type CommandRun struct {
	Command  string
	Dir      string
	LastRun  time.Time
	RunCount int
}

// AppLaunch is one application started through the launcher.
type AppLaunch struct {
	Name         string
	DesktopPath  string
	LastLaunched time.Time
	LaunchCount  int
}

// Store is a SQLite-backed access log.
type Store struct {
	conn   *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS recent_access (
	path TEXT PRIMARY KEY,
	last_accessed INTEGER NOT NULL,
	access_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS command_history (
	command TEXT NOT NULL,
	path TEXT NOT NULL,
	last_run INTEGER NOT NULL,
	run_count INTEGER NOT NULL,
	PRIMARY KEY (command, path)
);
CREATE TABLE IF NOT EXISTS app_launch_history (
	app_name TEXT NOT NULL,
	desktop_path TEXT PRIMARY KEY,
	last_launched INTEGER NOT NULL,
	launch_count INTEGER NOT NULL
);`

// DefaultPath is <user config dir>/filecast/history.db.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		base = "."
	}
	return filepath.Join(base, "filecast", "history.db")
}

// Open opens (creating if needed) the database at dbPath.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	logger = logging.OrDiscard(logger)

	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	logger.Info("history store ready", "path", dbPath)

	return &Store{conn: conn, logger: logger, now: time.Now}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// LogAccess records that path was opened now.
func (s *Store) LogAccess(path string) error {
	if s.conn == nil {
		return ErrClosed
	}
	_, err := s.conn.Exec(`
		INSERT INTO recent_access (path, last_accessed, access_count) VALUES (?, ?, 1)
		ON CONFLICT(path) DO UPDATE SET
			last_accessed = excluded.last_accessed,
			access_count = recent_access.access_count + 1`,
		path, s.now().Unix())
	if err != nil {
		return fmt.Errorf("log access %s: %w", path, err)
	}
	return nil
}

// Recent returns up to limit paths, most recently accessed first.
func (s *Store) Recent(limit int) ([]RecentAccess, error) {
	if s.conn == nil {
		return nil, ErrClosed
	}
	rows, err := s.conn.Query(`
		SELECT path, last_accessed, access_count FROM recent_access
		ORDER BY last_accessed DESC, access_count DESC, path ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent access: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []RecentAccess
	for rows.Next() {
		var (
			r  RecentAccess
			ts int64
		)
		if err := rows.Scan(&r.Path, &ts, &r.AccessCount); err != nil {
			return nil, fmt.Errorf("scan recent access: %w", err)
		}
		r.LastAccessed = time.Unix(ts, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}

// LogCommand records that command ran in dir.
func (s *Store) LogCommand(command, dir string) error {
	if s.conn == nil {
		return ErrClosed
	}
	_, err := s.conn.Exec(`
		INSERT INTO command_history (command, path, last_run, run_count) VALUES (?, ?, ?, 1)
		ON CONFLICT(command, path) DO UPDATE SET
			last_run = excluded.last_run,
			run_count = command_history.run_count + 1`,
		command, dir, s.now().Unix())
	if err != nil {
		return fmt.Errorf("log command %q: %w", command, err)
	}
	return nil
}

// Commands returns up to limit commands, most recent first.
func (s *Store) Commands(limit int) ([]CommandRun, error) {
	if s.conn == nil {
		return nil, ErrClosed
	}
	rows, err := s.conn.Query(`
		SELECT command, path, last_run, run_count FROM command_history
		ORDER BY last_run DESC, run_count DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query command history: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []CommandRun
	for rows.Next() {
		var (
			c  CommandRun
			ts int64
		)
		if err := rows.Scan(&c.Command, &c.Dir, &ts, &c.RunCount); err != nil {
			return nil, fmt.Errorf("scan command history: %w", err)
		}
		c.LastRun = time.Unix(ts, 0)
		out = append(out, c)
	}
	return out, rows.Err()
}

// LogAppLaunch records that the application defined at desktopPath started.
func (s *Store) LogAppLaunch(name, desktopPath string) error {
	if s.conn == nil {
		return ErrClosed
	}
	_, err := s.conn.Exec(`
		INSERT INTO app_launch_history (app_name, desktop_path, last_launched, launch_count) VALUES (?, ?, ?, 1)
		ON CONFLICT(desktop_path) DO UPDATE SET
			app_name = excluded.app_name,
			last_launched = excluded.last_launched,
			launch_count = app_launch_history.launch_count + 1`,
		name, desktopPath, s.now().Unix())
	if err != nil {
		return fmt.Errorf("log app launch %q: %w", name, err)
	}
	return nil
}

// AppLaunches returns up to limit launches, most recent first.
func (s *Store) AppLaunches(limit int) ([]AppLaunch, error) {
	if s.conn == nil {
		return nil, ErrClosed
	}
	rows, err := s.conn.Query(`
		SELECT app_name, desktop_path, last_launched, launch_count FROM app_launch_history
		ORDER BY last_launched DESC, launch_count DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query app launches: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []AppLaunch
	for rows.Next() {
		var (
			a  AppLaunch
			ts int64
		)
		if err := rows.Scan(&a.Name, &a.DesktopPath, &ts, &a.LaunchCount); err != nil {
			return nil, fmt.Errorf("scan app launches: %w", err)
		}
		a.LastLaunched = time.Unix(ts, 0)
		out = append(out, a)
	}
	return out, rows.Err()
}
