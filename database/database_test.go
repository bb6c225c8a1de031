// SPDX-License-Identifier: EPL-2.0

package database

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleDatabase() *Database {
	db := New()
	db.Insert(Record{
		Key:      Key{CRC16: 0x1234, CRC32: 0xdeadbeef},
		Type:     SongInfo,
		FileType: "IMF",
		Comment:  "Commander Keen 4",
		Title:    "Eat Your Vegetables",
		Author:   "Bobby Prince",
	})
	db.Insert(Record{
		Key:      Key{CRC16: 0x0001, CRC32: 0x00000002},
		Type:     ClockSpeed,
		FileType: "IMF",
		ClockHz:  700,
	})
	db.Insert(Record{
		Key:  Key{CRC16: 0xffff, CRC32: 0xffffffff},
		Type: Plain,
	})
	return db
}

func TestKeyOf(t *testing.T) {
	t.Parallel()

	// CRC-16/ARC and CRC-32 check values for "123456789".
	k := KeyOf([]byte("123456789"))
	if k.CRC16 != 0xbb3d {
		t.Errorf("CRC16 = %#04x, want 0xbb3d", k.CRC16)
	}
	if k.CRC32 != 0xcbf43926 {
		t.Errorf("CRC32 = %#08x, want 0xcbf43926", k.CRC32)
	}
	if k.String() != "bb3d:cbf43926" {
		t.Errorf("String() = %q, want %q", k.String(), "bb3d:cbf43926")
	}
}

func TestDatabase_InsertLookup(t *testing.T) {
	t.Parallel()

	db := sampleDatabase()
	if db.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", db.Len())
	}

	rec, ok := db.Lookup(Key{CRC16: 0x1234, CRC32: 0xdeadbeef})
	if !ok {
		t.Fatal("Lookup() ok = false, want true")
	}
	if rec.Title != "Eat Your Vegetables" || rec.Author != "Bobby Prince" {
		t.Errorf("Lookup() = %+v", rec)
	}

	if db.Insert(Record{Key: rec.Key, Type: Plain}) {
		t.Error("Insert() of duplicate key = true, want false")
	}
	if _, ok := db.Lookup(Key{}); ok {
		t.Error("Lookup() of unknown key ok = true, want false")
	}
}

func TestDatabase_RoundTrip(t *testing.T) {
	t.Parallel()

	db := sampleDatabase()

	var buf bytes.Buffer
	if _, err := db.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}

	loaded, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := db.Records()
	got := loaded.Records()
	if len(got) != len(want) {
		t.Fatalf("loaded %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLoad_BadHeader(t *testing.T) {
	t.Parallel()

	_, err := Load(bytes.NewReader([]byte("definitely not a database file at all....")))
	if !errors.Is(err, ErrBadHeader) {
		t.Errorf("Load() error = %v, want ErrBadHeader", err)
	}

	_, err = Load(bytes.NewReader(nil))
	if !errors.Is(err, ErrBadHeader) {
		t.Errorf("Load(empty) error = %v, want ErrBadHeader", err)
	}
}

func TestLoad_Truncated(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sampleDatabase().WriteTo(&buf)
	data := buf.Bytes()

	_, err := Load(bytes.NewReader(data[:len(data)-3]))
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("Load() error = %v, want ErrTruncated", err)
	}
}

// adplugRecord lays out one record byte by byte: type, size, key and a
// payload of NUL-terminated strings and raw bytes.
func adplugRecord(typ uint8, k Key, payload string) []byte {
	var b bytes.Buffer
	b.WriteByte(typ)
	binary.Write(&b, binary.LittleEndian, uint32(len(payload)+6))
	binary.Write(&b, binary.LittleEndian, k.CRC16)
	binary.Write(&b, binary.LittleEndian, k.CRC32)
	b.WriteString(payload)
	return b.Bytes()
}

func adplugFile(records ...[]byte) []byte {
	var b bytes.Buffer
	b.WriteString("AdPlug Module Information Database 1.0\x08")
	binary.Write(&b, binary.LittleEndian, uint32(len(records)))
	for _, r := range records {
		b.Write(r)
	}
	return b.Bytes()
}

func TestLoad_AdPlugLayout(t *testing.T) {
	t.Parallel()

	clock := make([]byte, 4)
	binary.LittleEndian.PutUint32(clock, math.Float32bits(700))

	data := adplugFile(
		adplugRecord(1, Key{CRC16: 0x1234, CRC32: 0xdeadbeef}, "IMF\x00comment\x00Title\x00Author\x00"),
		adplugRecord(2, Key{CRC16: 0x0001, CRC32: 0x00000002}, "IMF\x00\x00"+string(clock)),
		adplugRecord(0, Key{CRC16: 0x0003, CRC32: 0x00000004}, "\x00plain\x00"),
	)

	db, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if db.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", db.Len())
	}

	info, _ := db.Lookup(Key{CRC16: 0x1234, CRC32: 0xdeadbeef})
	want := Record{
		Key:      Key{CRC16: 0x1234, CRC32: 0xdeadbeef},
		Type:     SongInfo,
		FileType: "IMF",
		Comment:  "comment",
		Title:    "Title",
		Author:   "Author",
	}
	if info != want {
		t.Errorf("song info = %+v, want %+v", info, want)
	}

	speed, _ := db.Lookup(Key{CRC16: 0x0001, CRC32: 0x00000002})
	if speed.Type != ClockSpeed || speed.ClockHz != 700 || speed.FileType != "IMF" {
		t.Errorf("clock speed = %+v", speed)
	}

	plain, _ := db.Lookup(Key{CRC16: 0x0003, CRC32: 0x00000004})
	if plain.Type != Plain || plain.Comment != "plain" {
		t.Errorf("plain = %+v", plain)
	}

	// Writing the database back reproduces the same bytes.
	var buf bytes.Buffer
	if _, err := db.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if !bytes.Equal(buf.Bytes(), data) {
		t.Errorf("WriteTo() = %q, want %q", buf.Bytes(), data)
	}
}

func TestLoad_SkipsUnknownRecord(t *testing.T) {
	t.Parallel()

	data := adplugFile(
		adplugRecord(9, Key{CRC16: 0x0005, CRC32: 0x00000006}, "future\x00payload\x00\x01\x02\x03"),
		adplugRecord(1, Key{CRC16: 0x1234, CRC32: 0xdeadbeef}, "IMF\x00\x00Title\x00Author\x00"),
	)

	db, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if db.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", db.Len())
	}
	if rec, ok := db.Lookup(Key{CRC16: 0x1234, CRC32: 0xdeadbeef}); !ok || rec.Title != "Title" {
		t.Errorf("Lookup() = %+v, %v", rec, ok)
	}
}

func TestLoad_Malformed(t *testing.T) {
	t.Parallel()

	huge := adplugFile(adplugRecord(0, Key{}, "\x00\x00"))
	binary.LittleEndian.PutUint32(huge[len(header)+5:], 0xffffffff)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"unterminated string", adplugFile(adplugRecord(1, Key{}, "IMF\x00\x00Title")), ErrTruncated},
		{"short clock", adplugFile(adplugRecord(2, Key{}, "\x00\x00\x01\x02")), ErrTruncated},
		{"size below key", adplugFile([]byte{0, 2, 0, 0, 0, 0, 0}), ErrTruncated},
		{"oversized record", huge, ErrRecordTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWriteTo_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rec  Record
		want error
	}{
		{"embedded NUL", Record{Type: SongInfo, Title: "a\x00b"}, ErrEmbeddedNUL},
		{"unknown type", Record{Type: 7}, ErrUnknownRecord},
		{"too large", Record{Type: Plain, Comment: strings.Repeat("x", maxRecordSize)}, ErrRecordTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := New()
			db.Insert(tt.rec)
			if _, err := db.WriteTo(io.Discard); !errors.Is(err, tt.want) {
				t.Errorf("WriteTo() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLazy_MissingFile(t *testing.T) {
	t.Parallel()

	l := NewLazy(filepath.Join(t.TempDir(), "missing.db"))
	db := l.Get()
	if db == nil || db.Len() != 0 {
		t.Fatalf("Get() = %v, want empty database", db)
	}
	if l.Err() != nil {
		t.Errorf("Err() = %v, want nil for a missing file", l.Err())
	}
	if l.Get() != db {
		t.Error("second Get() returned a different instance")
	}
}

func TestLazy_LoadsOnce(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "quirks.db")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	sampleDatabase().WriteTo(f)
	f.Close()

	l := NewLazy(path)
	db := l.Get()
	if db.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", db.Len())
	}

	// Changes on disk are not picked up again.
	os.Remove(path)
	if l.Get() != db {
		t.Error("Get() reloaded the database")
	}
}

func TestLazy_CorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "corrupt.db")
	os.WriteFile(path, []byte("garbage"), 0o644)

	l := NewLazy(path)
	if l.Get().Len() != 0 {
		t.Error("corrupt file should yield an empty database")
	}
	if !errors.Is(l.Err(), ErrBadHeader) {
		t.Errorf("Err() = %v, want ErrBadHeader", l.Err())
	}
}

func TestRecordTypeString(t *testing.T) {
	t.Parallel()

	if SongInfo.String() != "song info" || RecordType(7).String() != "type 7" {
		t.Error("unexpected RecordType names")
	}
}
