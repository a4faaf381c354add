// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package ata

import "fmt"

const (
	// SectorSize is the only logical sector size supported.
	SectorSize = 512
	// MaxTransferSectors is the range of the 16-bit sector count field,
	// where 0 encodes 65536.
	MaxTransferSectors = 65536
	// MaxTransferBytes is the largest single transfer.
	MaxTransferBytes = MaxTransferSectors * SectorSize
	// MaxLBA is the last addressable sector in 48-bit mode.
	MaxLBA = 1<<48 - 1
)

// SplitLBA splits a 48-bit address into the low register triad
// (lba_low, lba_mid, lba_high = bits 0..23) and the "previous content"
// triad written first in 48-bit mode (bits 24..47).
func SplitLBA(lba uint64) (low, high [3]byte) {
	low = [3]byte{byte(lba), byte(lba >> 8), byte(lba >> 16)}
	high = [3]byte{byte(lba >> 24), byte(lba >> 32), byte(lba >> 40)}
	return low, high
}

// JoinLBA is the inverse of SplitLBA.
func JoinLBA(low, high [3]byte) uint64 {
	return uint64(low[0]) |
		uint64(low[1])<<8 |
		uint64(low[2])<<16 |
		uint64(high[0])<<24 |
		uint64(high[1])<<32 |
		uint64(high[2])<<40
}

// SectorCount returns the sector count register value for a transfer of
// byteLen bytes. A full 65536 sector transfer wraps to 0.
func SectorCount(byteLen int) (uint16, error) {
	switch {
	case byteLen <= 0:
		return 0, ErrEmptyBuffer
	case byteLen%SectorSize != 0:
		return 0, fmt.Errorf("%w: %d bytes", ErrUnalignedBuffer, byteLen)
	case byteLen > MaxTransferBytes:
		return 0, fmt.Errorf("%w: %d bytes", ErrTransferTooLarge, byteLen)
	}
	return uint16(byteLen / SectorSize), nil
}

// CheckRange verifies that sectors starting at lba stay inside the 48-bit
// address space.
func CheckRange(lba uint64, sectors int) error {
	if lba > MaxLBA || sectors > 0 && uint64(sectors-1) > MaxLBA-lba {
		return fmt.Errorf("%w: lba %d, %d sectors", ErrLBAOutOfRange, lba, sectors)
	}
	return nil
}
