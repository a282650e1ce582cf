package cookiestore

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestSQLite(t *testing.T, path string) *sql.DB {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	db, err := sql.Open("sqlite", "file:"+filepath.ToSlash(path)+"?mode=rwc")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type fixtureCookie struct {
	host  string
	name  string
	value string
}

func seedCookieDB(t *testing.T, path string, cookies ...fixtureCookie) {
	t.Helper()
	db := openTestSQLite(t, path)
	if _, err := db.Exec(`CREATE TABLE moz_cookies(host TEXT, name TEXT, value TEXT, path TEXT, expiry INTEGER)`); err != nil {
		t.Fatal(err)
	}
	for _, c := range cookies {
		if _, err := db.Exec(
			`INSERT INTO moz_cookies(host, name, value, path, expiry) VALUES(?,?,?,?,?)`,
			c.host, c.name, c.value, "/", 0,
		); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}
}
