package main

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"shelfsync/internal/goodreads"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func seedFirefoxProfile(t *testing.T, root string) {
	t.Helper()
	dbPath := filepath.Join(root, "abc.default-release", "cookies.sqlite")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		t.Fatal(err)
	}
	db, err := sql.Open("sqlite", "file:"+filepath.ToSlash(dbPath)+"?mode=rwc")
	if err != nil {
		t.Fatal(err)
	}
	stmts := []string{
		`CREATE TABLE moz_cookies(host TEXT, name TEXT, value TEXT, path TEXT, expiry INTEGER)`,
		`INSERT INTO moz_cookies VALUES('.goodreads.com', 'session-id', 'abc123', '/', 0)`,
		`INSERT INTO moz_cookies VALUES('www.goodreads.com', 'u', 'QQtiny', '/', 0)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestCookiesCommandWritesConfig(t *testing.T) {
	dir := t.TempDir()
	profileRoot := filepath.Join(dir, "firefox")
	seedFirefoxProfile(t, profileRoot)

	output := filepath.Join(dir, "goodreads_config.json")
	_, _, err := runCLI(t, "cookies",
		"--profile-dir", profileRoot,
		"--user-id", "12345",
		"--output", output,
	)
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	for _, want := range []string{`"user_id": "12345"`, "session-id=abc123", "u=QQtiny"} {
		if !strings.Contains(got, want) {
			t.Fatalf("config %s missing %q", got, want)
		}
	}
}

func TestCookiesCommandRejectsMissingProfile(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runCLI(t, "cookies",
		"--profile-dir", filepath.Join(dir, "nope"),
		"--user-id", "1",
	)
	if err == nil {
		t.Fatal("expected an error for a missing profile root")
	}
}

func TestRootListsSubcommands(t *testing.T) {
	out, _, err := runCLI(t, "--help")
	if err != nil {
		t.Fatal(err)
	}
	for _, sub := range []string{"cookies", "export", "login", "tag", "browse"} {
		if !strings.Contains(out, sub) {
			t.Fatalf("help output missing %q:\n%s", sub, out)
		}
	}
}

func TestIntersectByTitle(t *testing.T) {
	books := []goodreads.Book{{Title: "Dune"}, {Title: "Piranesi"}}
	other := []goodreads.Book{{Title: "dune"}, {Title: "Circe"}}

	got := intersectByTitle(books, other)
	if len(got) != 1 || got[0].Title != "Dune" {
		t.Fatalf("intersect = %+v", got)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"card id", "name", "library"}, [][]string{{"1", "Main"}})
	if !strings.Contains(out, "CARD ID") || !strings.Contains(out, "Main") {
		t.Fatalf("table output:\n%s", out)
	}
}
