// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package ata

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// IdentifySize is the size of the IDENTIFY DEVICE response.
const IdentifySize = 512

// Word indices of the IDENTIFY DEVICE fields used here (ACS-3, table 45).
const (
	wordGeneralConfig    = 0
	wordSerialNumber     = 10  // 10..19
	wordFirmwareRevision = 23  // 23..26
	wordModelNumber      = 27  // 27..46
	wordCapabilities     = 49  // bit 9: LBA supported, bit 8: DMA supported
	wordCurrentCapacity  = 57  // 57..58
	wordLBA28Sectors     = 60  // 60..61
	wordMajorVersion     = 80  // 80
	wordMinorVersion     = 81  // 81
	wordCommandSet2      = 83  // bit 10: 48-bit Address feature set
	wordLBA48Sectors     = 100 // 100..103
	wordWWN              = 108 // 108..111
	wordRotationRate     = 217

	serialNumberWords     = 10
	firmwareRevisionWords = 4
	modelNumberWords      = 20
)

// IdentifyDevice is the IDENTIFY DEVICE response: 256 words, each stored
// little-endian on the wire.
type IdentifyDevice [IdentifySize / 2]uint16

// DecodeIdentify decodes a raw IDENTIFY DEVICE response. Words are read as
// little-endian independently of the host byte order. A short input leaves
// the missing words zero.
func DecodeIdentify(raw []byte) *IdentifyDevice {
	var id IdentifyDevice
	for i := range id {
		if 2*i+1 >= len(raw) {
			break
		}
		id[i] = binary.LittleEndian.Uint16(raw[2*i:])
	}
	return &id
}

// Bytes encodes the record back to its 512 byte wire form.
func (id *IdentifyDevice) Bytes() []byte {
	raw := make([]byte, IdentifySize)
	for i, w := range id {
		binary.LittleEndian.PutUint16(raw[2*i:], w)
	}
	return raw
}

func (id *IdentifyDevice) dword(word int) uint32 {
	return uint32(id[word]) | uint32(id[word+1])<<16
}

// Sectors returns the maximum LBA48 user addressable sector count
// (words 100..103, least significant word first).
func (id *IdentifyDevice) Sectors() uint64 {
	return uint64(id[wordLBA48Sectors]) |
		uint64(id[wordLBA48Sectors+1])<<16 |
		uint64(id[wordLBA48Sectors+2])<<32 |
		uint64(id[wordLBA48Sectors+3])<<48
}

// CurrentCapacity returns the legacy current capacity in sectors (words 57..58).
func (id *IdentifyDevice) CurrentCapacity() uint32 {
	return id.dword(wordCurrentCapacity)
}

// LBA28Sectors returns the 28-bit user addressable sector count (words 60..61).
func (id *IdentifyDevice) LBA28Sectors() uint32 {
	return id.dword(wordLBA28Sectors)
}

// SupportsLBA48 reports the 48-bit Address feature set.
func (id *IdentifyDevice) SupportsLBA48() bool {
	return id[wordCommandSet2]&(1<<10) != 0
}

// SupportsDMA reports DMA support from the capabilities word.
func (id *IdentifyDevice) SupportsDMA() bool {
	return id[wordCapabilities]&(1<<8) != 0
}

// IsATA is true when bit 15 of the general configuration word is clear.
func (id *IdentifyDevice) IsATA() bool {
	return id[wordGeneralConfig]&(1<<15) == 0
}

// Capacity returns the capacity in bytes, using the LBA28 count when the
// device leaves the LBA48 field empty.
func (id *IdentifyDevice) Capacity() uint64 {
	sectors := id.Sectors()
	if sectors == 0 {
		sectors = uint64(id.LBA28Sectors())
	}
	return sectors * SectorSize
}

// ModelNumber returns the model number (words 27..46).
func (id *IdentifyDevice) ModelNumber() string {
	return id.ataString(wordModelNumber, modelNumberWords)
}

// SerialNumber returns the serial number (words 10..19).
func (id *IdentifyDevice) SerialNumber() string {
	return id.ataString(wordSerialNumber, serialNumberWords)
}

// FirmwareRevision returns the firmware revision (words 23..26).
func (id *IdentifyDevice) FirmwareRevision() string {
	return id.ataString(wordFirmwareRevision, firmwareRevisionWords)
}

// MajorVersion returns the raw major version word, 0 or 0xffff if not reported.
func (id *IdentifyDevice) MajorVersion() uint16 {
	return id[wordMajorVersion]
}

// MinorVersion returns the raw minor version word.
func (id *IdentifyDevice) MinorVersion() uint16 {
	return id[wordMinorVersion]
}

// RotationRate returns the nominal media rotation rate; 1 means a
// non-rotating device.
func (id *IdentifyDevice) RotationRate() uint16 {
	return id[wordRotationRate]
}

// WWN formats the world wide name as NAA, OUI and unique id.
func (id *IdentifyDevice) WWN() string {
	w := id[wordWWN : wordWWN+4]
	naa := w[0] >> 12
	oui := uint32(w[0]&0x0fff)<<12 | uint32(w[1])>>4
	uniqueID := uint64(w[1]&0xf)<<32 | uint64(w[2])<<16 | uint64(w[3])
	return fmt.Sprintf("%x %06x %09x", naa, oui, uniqueID)
}

func (id *IdentifyDevice) ataString(word, count int) string {
	return SwapString(id[word : word+count])
}

// SwapString decodes an ATA string. Every word carries its first
// character in the high byte, so bytes are emitted high then low.
// Ill-formed UTF-8 is replaced and surrounding blanks and NUL padding
// are trimmed.
func SwapString(words []uint16) string {
	b := make([]byte, 0, 2*len(words))
	for _, w := range words {
		b = append(b, byte(w>>8), byte(w))
	}
	s, _, err := transform.Bytes(runes.ReplaceIllFormed(), b)
	if err != nil {
		s = b
	}
	return strings.TrimFunc(string(s), func(r rune) bool {
		return unicode.IsSpace(r) || r == 0
	})
}

// String summarises the record the way drive tools print it.
func (id *IdentifyDevice) String() string {
	return fmt.Sprintf("IdentifyDevice{sectors: %d, model: %q, firmware: %q, serial: %q}",
		id.Sectors(), id.ModelNumber(), id.FirmwareRevision(), id.SerialNumber())
}
