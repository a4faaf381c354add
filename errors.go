// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package rawata

import (
	"errors"
	"fmt"

	"github.com/lf-edge/eve/pkg/rawata/ata"
)

// Lifecycle and platform errors
var (
	// ErrClosed is returned by every operation on a closed Device.
	ErrClosed = errors.New("raw disk is closed")
	// ErrReadOnly is returned by Write on a Device opened WithReadOnly.
	ErrReadOnly = errors.New("raw disk is opened read-only")
	// ErrOSUnsupported is returned by Open on systems without a backend.
	ErrOSUnsupported = errors.New("raw ATA access is not supported on this OS")
)

// Buffer and address errors, checked before anything reaches the drive.
var (
	ErrEmptyBuffer      = ata.ErrEmptyBuffer
	ErrUnalignedBuffer  = ata.ErrUnalignedBuffer
	ErrTransferTooLarge = ata.ErrTransferTooLarge
	ErrLBAOutOfRange    = ata.ErrLBAOutOfRange
)

// TransportError is a failure to deliver a command or to get its result:
// a failed syscall, an adapter or driver error, a timeout.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the command timed out.
func (e *TransportError) Timeout() bool {
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// CommandError is a command the drive received and rejected.
type CommandError struct {
	Op string
	// SCSI status of the pass-through command, 0 when not applicable
	ScsiStatus uint8
	Sense      ata.Sense
	ATAStatus  uint8
	ATAError   uint8
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: device error: ata status %#02x error %#02x", e.Op, e.ATAStatus, e.ATAError)
	if e.ScsiStatus != 0 {
		msg += fmt.Sprintf(", scsi status %#02x", e.ScsiStatus)
	}
	if e.Sense.Valid() {
		msg += ", sense " + e.Sense.String()
	}
	return msg
}

// IsTransportError reports whether err carries a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsCommandError reports whether err carries a *CommandError.
func IsCommandError(err error) bool {
	var ce *CommandError
	return errors.As(err, &ce)
}
