// SPDX-License-Identifier: EPL-2.0

package database

import (
	"fmt"
	"hash/crc32"
)

// Key identifies a module file by checksums of its contents.
type Key struct {
	CRC16 uint16
	CRC32 uint32
}

// KeyOf computes the key of a module file.
func KeyOf(data []byte) Key {
	return Key{
		CRC16: crc16(data),
		CRC32: crc32.ChecksumIEEE(data),
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%04x:%08x", k.CRC16, k.CRC32)
}

// crc16 is CRC-16/ARC (reflected polynomial 0xA001, zero init).
func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b)
		for range 8 {
			if crc&1 != 0 {
				crc = crc>>1 ^ 0xa001
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}
