// SPDX-License-Identifier: EPL-2.0

package database

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync"
)

// DefaultFile is the resource name the shared database is loaded from.
const DefaultFile = "adplug.db"

// header ends in a backspace byte (0x08).
const header = "AdPlug Module Information Database 1.0\x08"

// maxRecordSize bounds the size field of a record; real records are a few
// hundred bytes.
const maxRecordSize = 1 << 16

// RecordType selects the payload carried by a Record.
type RecordType uint8

const (
	Plain RecordType = iota
	SongInfo
	ClockSpeed
)

func (t RecordType) String() string {
	switch t {
	case Plain:
		return "plain"
	case SongInfo:
		return "song info"
	case ClockSpeed:
		return "clock speed"
	default:
		return fmt.Sprintf("type %d", uint8(t))
	}
}

// Record holds the corrections for one module file.
type Record struct {
	Key      Key
	Type     RecordType
	FileType string
	Comment  string

	// SongInfo payload.
	Title  string
	Author string

	// ClockSpeed payload: replay ticks per second.
	ClockHz float32
}

// Database maps module keys to records. It is safe for concurrent use.
type Database struct {
	mtx     sync.RWMutex
	records map[Key]Record
	order   []Key
}

func New() *Database {
	return &Database{records: make(map[Key]Record)}
}

// Insert adds r. It reports false and leaves the database unchanged when a
// record with the same key already exists.
func (db *Database) Insert(r Record) bool {
	db.mtx.Lock()
	defer db.mtx.Unlock()

	if _, ok := db.records[r.Key]; ok {
		return false
	}
	db.records[r.Key] = r
	db.order = append(db.order, r.Key)
	return true
}

func (db *Database) Lookup(k Key) (Record, bool) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()

	r, ok := db.records[k]
	return r, ok
}

func (db *Database) Len() int {
	db.mtx.RLock()
	defer db.mtx.RUnlock()

	return len(db.records)
}

// Records returns all records in insertion order.
func (db *Database) Records() []Record {
	db.mtx.RLock()
	defer db.mtx.RUnlock()

	out := make([]Record, 0, len(db.order))
	for _, k := range db.order {
		out = append(out, db.records[k])
	}
	return out
}

// LoadFile reads a database from path.
func LoadFile(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer f.Close()

	return Load(bufio.NewReader(f))
}

// Load reads a database in the binary format described in the package
// documentation. Records of unknown type are skipped.
func Load(r io.Reader) (*Database, error) {
	hdr := make([]byte, len(header))
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, ErrBadHeader
	}
	if string(hdr) != header {
		return nil, ErrBadHeader
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: record count", ErrTruncated)
	}

	db := New()
	for i := range count {
		rec, err := readRecord(r)
		switch {
		case errors.Is(err, errSkipped):
			continue
		case err != nil:
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		db.Insert(rec)
	}
	return db, nil
}

// errSkipped marks a record of unknown type that was read past.
var errSkipped = errors.New("record skipped")

func readRecord(r io.Reader) (Record, error) {
	var head struct {
		Type uint8
		Size uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &head); err != nil {
		return Record{}, ErrTruncated
	}

	rec := Record{Type: RecordType(head.Type)}
	switch rec.Type {
	case Plain, SongInfo, ClockSpeed:
	default:
		if _, err := io.CopyN(io.Discard, r, int64(head.Size)); err != nil {
			return Record{}, ErrTruncated
		}
		return Record{}, errSkipped
	}

	// Size counts the bytes after the size field itself.
	if head.Size > maxRecordSize {
		return Record{}, fmt.Errorf("%w: %d bytes", ErrRecordTooLarge, head.Size)
	}
	body := make([]byte, head.Size)
	if _, err := io.ReadFull(r, body); err != nil {
		return Record{}, ErrTruncated
	}

	if len(body) < 6 {
		return Record{}, ErrTruncated
	}
	rec.Key = Key{
		CRC16: binary.LittleEndian.Uint16(body),
		CRC32: binary.LittleEndian.Uint32(body[2:]),
	}
	body = body[6:]

	var err error
	if rec.FileType, body, err = cutString(body); err != nil {
		return Record{}, err
	}
	if rec.Comment, body, err = cutString(body); err != nil {
		return Record{}, err
	}

	switch rec.Type {
	case SongInfo:
		if rec.Title, body, err = cutString(body); err != nil {
			return Record{}, err
		}
		if rec.Author, _, err = cutString(body); err != nil {
			return Record{}, err
		}
	case ClockSpeed:
		if len(body) < 4 {
			return Record{}, ErrTruncated
		}
		rec.ClockHz = math.Float32frombits(binary.LittleEndian.Uint32(body))
	}
	return rec, nil
}

// cutString splits a NUL-terminated string off the front of b.
func cutString(b []byte) (string, []byte, error) {
	s, rest, ok := bytes.Cut(b, []byte{0})
	if !ok {
		return "", nil, ErrTruncated
	}
	return string(s), rest, nil
}

// WriteTo serialises the database. It implements io.WriterTo.
func (db *Database) WriteTo(w io.Writer) (int64, error) {
	recs := db.Records()

	var buf bytes.Buffer
	buf.WriteString(header)
	binary.Write(&buf, binary.LittleEndian, uint32(len(recs)))

	for _, rec := range recs {
		body, err := encodeBody(rec)
		if err != nil {
			return 0, fmt.Errorf("record %s: %w", rec.Key, err)
		}
		buf.WriteByte(uint8(rec.Type))
		binary.Write(&buf, binary.LittleEndian, uint32(len(body)+6))
		binary.Write(&buf, binary.LittleEndian, rec.Key.CRC16)
		binary.Write(&buf, binary.LittleEndian, rec.Key.CRC32)
		buf.Write(body)
	}

	n, err := w.Write(buf.Bytes())
	if err != nil {
		return int64(n), fmt.Errorf("%w", err)
	}
	return int64(n), nil
}

func encodeBody(rec Record) ([]byte, error) {
	var body bytes.Buffer
	fields := []string{rec.FileType, rec.Comment}

	switch rec.Type {
	case Plain, ClockSpeed:
	case SongInfo:
		fields = append(fields, rec.Title, rec.Author)
	default:
		return nil, ErrUnknownRecord
	}

	for _, s := range fields {
		if strings.IndexByte(s, 0) >= 0 {
			return nil, ErrEmbeddedNUL
		}
		body.WriteString(s)
		body.WriteByte(0)
	}
	if rec.Type == ClockSpeed {
		binary.Write(&body, binary.LittleEndian, math.Float32bits(rec.ClockHz))
	}
	if body.Len()+6 > maxRecordSize {
		return nil, ErrRecordTooLarge
	}
	return body.Bytes(), nil
}

// Lazy loads a database from a file the first time Get is called.
type Lazy struct {
	path string
	once sync.Once
	db   *Database
	err  error
}

func NewLazy(path string) *Lazy {
	return &Lazy{path: path}
}

// Get returns the database, loading it on the first call. Load failures
// produce an empty database; Err reports the failure.
func (l *Lazy) Get() *Database {
	l.once.Do(func() {
		l.db, l.err = LoadFile(l.path)
		if l.db == nil {
			l.db = New()
		}
	})
	return l.db
}

// Err returns the error from the first Get, if any. A missing file is not
// reported as an error.
func (l *Lazy) Err() error {
	if errors.Is(l.err, os.ErrNotExist) {
		return nil
	}
	return l.err
}

var shared = NewLazy(DefaultFile)

// Shared returns the process-wide database loaded from DefaultFile.
func Shared() *Database {
	return shared.Get()
}
