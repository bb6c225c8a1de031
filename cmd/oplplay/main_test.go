// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ik5/oplpbx/database"
)

func TestDatabasePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		flag, env, want string
	}{
		{"a.db", "b.db", "a.db"},
		{"", "b.db", "b.db"},
		{"", "", database.DefaultFile},
	}
	for _, tt := range tests {
		if got := databasePath(tt.flag, tt.env); got != tt.want {
			t.Errorf("databasePath(%q, %q) = %q, want %q", tt.flag, tt.env, got, tt.want)
		}
	}
}

func TestLoadDatabase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if got := loadDatabase(filepath.Join(dir, "missing.db")); got.Len() != 0 {
		t.Errorf("missing file: %d records", got.Len())
	}

	broken := filepath.Join(dir, "broken.db")
	if err := os.WriteFile(broken, []byte("junk"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := loadDatabase(broken); got.Len() != 0 {
		t.Errorf("broken file: %d records", got.Len())
	}

	src := database.New()
	src.Insert(database.Record{
		Key:   database.Key{CRC16: 1, CRC32: 2},
		Type:  database.SongInfo,
		Title: "Title", Author: "Author",
	})
	good := filepath.Join(dir, "good.db")
	f, err := os.Create(good)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := src.WriteTo(f); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if got := loadDatabase(good); got.Len() != 1 {
		t.Errorf("good file: %d records, want 1", got.Len())
	}
}

func TestPrintRecord(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printRecord(&buf, database.Record{
		Type:    database.ClockSpeed,
		ClockHz: 700,
	})
	out := buf.String()
	for _, want := range []string{"clock speed", "700 Hz"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q lacks %q", out, want)
		}
	}
}
