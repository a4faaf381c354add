// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package ata

import "errors"

// Precondition errors. They are returned before anything is handed to a
// transport.
var (
	// ErrEmptyBuffer is returned for a zero length transfer.
	ErrEmptyBuffer = errors.New("transfer buffer is empty")

	// ErrUnalignedBuffer is returned when the buffer length is not a
	// multiple of SectorSize.
	ErrUnalignedBuffer = errors.New("transfer buffer is not a multiple of 512 bytes")

	// ErrTransferTooLarge is returned when the buffer exceeds MaxTransferBytes.
	ErrTransferTooLarge = errors.New("transfer buffer exceeds 65536 sectors")

	// ErrLBAOutOfRange is returned when a transfer touches a sector
	// beyond the 48-bit address space.
	ErrLBAOutOfRange = errors.New("sector address exceeds 48 bits")
)
