package creds

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveGoodreads_RoundTripAndOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goodreads_config.json")

	if err := SaveGoodreads(path, GoodreadsConfig{UserID: "42", Cookies: "a=1; b=2"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadGoodreads(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UserID != "42" || cfg.Cookies != "a=1; b=2" {
		t.Fatalf("cfg = %+v", cfg)
	}

	// A second save fully replaces the file, no merging.
	if err := SaveGoodreads(path, GoodreadsConfig{UserID: "7", Cookies: "c=3"}); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadGoodreads(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UserID != "7" || cfg.Cookies != "c=3" {
		t.Fatalf("cfg after overwrite = %+v", cfg)
	}
}

func TestSaveGoodreads_IndentedTwoFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goodreads_config.json")
	if err := SaveGoodreads(path, GoodreadsConfig{UserID: "42", Cookies: "a=1; b=2"}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"user_id\": \"42\",\n  \"cookies\": \"a=1; b=2\"\n}\n"
	if string(data) != want {
		t.Fatalf("file = %q, want %q", data, want)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if len(raw) != 2 {
		t.Fatalf("expected exactly two fields, got %v", raw)
	}
}

func TestSaveGoodreads_RejectsEmptyFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goodreads_config.json")
	if err := SaveGoodreads(path, GoodreadsConfig{UserID: "", Cookies: "a=1"}); err == nil {
		t.Fatal("expected error for empty user_id")
	}
	if err := SaveGoodreads(path, GoodreadsConfig{UserID: "42", Cookies: ""}); err == nil {
		t.Fatal("expected error for empty cookies")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("no file should be written on validation failure")
	}
}

func TestLibbyConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "libby_config.json")
	if err := SaveLibby(path, LibbyConfig{BearerToken: "tok", CardID: "c1"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadLibby(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BearerToken != "tok" || cfg.CardID != "c1" {
		t.Fatalf("cfg = %+v", cfg)
	}

	if err := SaveLibby(path, LibbyConfig{BearerToken: "tok"}); err == nil {
		t.Fatal("expected error for missing card_id")
	}
}
