package cookiestore

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver (pure Go).
)

// snapshot copies the cookie database to a private temp directory so a
// running browser holding the file lock is never disturbed. The returned
// cleanup removes the whole directory and must run on every exit path.
func snapshot(dbPath string) (snapshotPath string, cleanup func(), err error) {
	dir, err := os.MkdirTemp("", "shelfsync-cookies-")
	if err != nil {
		return "", nil, err
	}
	cleanup = func() { _ = os.RemoveAll(dir) }

	target := filepath.Join(dir, cookieDBName)
	if err := copyFile(dbPath, target); err != nil {
		cleanup()
		return "", nil, err
	}

	// If WAL mode is enabled, recent writes may live in sidecars.
	_ = copyFileIfExists(dbPath+"-wal", target+"-wal")
	_ = copyFileIfExists(dbPath+"-shm", target+"-shm")

	return target, cleanup, nil
}

func openSnapshotDB(ctx context.Context, snapshotPath string) (*sql.DB, error) {
	dsn := "file:" + filepath.ToSlash(snapshotPath) + "?mode=ro"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

func copyFileIfExists(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return copyFile(src, dst)
}
