// SPDX-License-Identifier: EPL-2.0

// Package database implements the format database: a persistent store of
// per-title playback corrections keyed by a checksum of the module file.
//
// Module players consult the database while loading a file. A record can
// carry song information missing from the file itself (title, author) or
// override the replay clock of formats that do not store it.
//
// # Keys
//
// A record is identified by a Key holding a CRC-16 and a CRC-32 of the
// whole module file:
//
//	data, _ := os.ReadFile("keen4.imf")
//	rec, ok := db.Lookup(database.KeyOf(data))
//
// # Shared Instance
//
// The database is process-wide and outlives playback sessions. Shared
// returns an instance loaded from DefaultFile the first time it is called;
// later calls return the same instance. A missing or unreadable file
// yields an empty database.
//
// # File Format
//
// The on-disk layout starts with a fixed header line followed by a
// little-endian record count and the records themselves:
//
//	header   "AdPlug Module Information Database 1.0\x08"
//	count    uint32
//	record   type uint8, size uint32, crc16 uint16, crc32 uint32,
//	         file type string, comment string, type-specific payload
//
// Strings are NUL-terminated. Size counts the bytes after the size field.
// Song info carries title and author strings, clock speed a float32 in
// Hz. Records of any other type are skipped using their size.
package database
