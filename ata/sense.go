// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package ata

import "fmt"

// SenseKey is the SCSI sense key reported with a failed pass-through command.
type SenseKey uint8

// Sense keys (SPC-4, table 49)
const (
	SenseNoSense        SenseKey = 0x0
	SenseRecoveredError SenseKey = 0x1
	SenseNotReady       SenseKey = 0x2
	SenseMediumError    SenseKey = 0x3
	SenseHardwareError  SenseKey = 0x4
	SenseIllegalRequest SenseKey = 0x5
	SenseUnitAttention  SenseKey = 0x6
	SenseDataProtect    SenseKey = 0x7
	SenseBlankCheck     SenseKey = 0x8
	SenseVendorSpecific SenseKey = 0x9
	SenseCopyAborted    SenseKey = 0xa
	SenseAbortedCommand SenseKey = 0xb
	SenseOther          SenseKey = 0xc
	SenseVolumeOverflow SenseKey = 0xd
	SenseMiscompare     SenseKey = 0xe
	SenseComplete       SenseKey = 0xf
)

var senseKeyNames = [...]string{
	"NO_SENSE",
	"RECOVERED_ERROR",
	"NOT_READY",
	"MEDIUM_ERROR",
	"HARDWARE_ERROR",
	"ILLEGAL_REQUEST",
	"UNIT_ATTENTION",
	"DATA_PROTECT",
	"BLANK_CHECK",
	"VENDOR_SPECIFIC",
	"COPY_ABORTED",
	"ABORTED_COMMAND",
	"OTHER",
	"VOLUME_OVERFLOW",
	"MISCOMPARE",
	"COMPLETE",
}

func (k SenseKey) String() string {
	if int(k) < len(senseKeyNames) {
		return senseKeyNames[k]
	}
	return fmt.Sprintf("SenseKey(%#x)", uint8(k))
}

// ATA status and error register bits
const (
	StatusErr  = 0x01
	StatusDF   = 0x20 // device fault
	StatusDRDY = 0x40
	StatusBSY  = 0x80
)

const (
	senseFixedCurrent       = 0x70
	senseFixedDeferred      = 0x71
	senseDescriptorCurrent  = 0x72
	senseDescriptorDeferred = 0x73

	descATAStatusReturn = 0x09
)

// Sense is the decoded part of a sense buffer this package cares about.
type Sense struct {
	ResponseCode uint8
	Key          SenseKey
	ASC          uint8
	ASCQ         uint8

	// Set when an ATA Status Return descriptor was present.
	HasATAStatus bool
	ATAStatus    uint8
	ATAError     uint8
}

// Valid reports whether the buffer carried sense data at all.
func (s Sense) Valid() bool {
	return s.ResponseCode != 0
}

// RegistersOnly reports whether the sense data only carries the ATA
// registers of a command that completed: descriptor format,
// RECOVERED_ERROR, and an ATA Status Return descriptor with ERR and DF
// clear. SAT layers answer that way when asked to return the registers.
func (s Sense) RegistersOnly() bool {
	descriptor := s.ResponseCode == senseDescriptorCurrent || s.ResponseCode == senseDescriptorDeferred
	return descriptor && s.Key == SenseRecoveredError &&
		s.HasATAStatus && s.ATAStatus&(StatusErr|StatusDF) == 0
}

// Failed reports whether the sense data describes a failed command. Any
// recognised sense data does, except RegistersOnly.
func (s Sense) Failed() bool {
	return s.Valid() && !s.RegistersOnly()
}

func (s Sense) String() string {
	str := fmt.Sprintf("%s asc %#02x ascq %#02x", s.Key, s.ASC, s.ASCQ)
	if s.HasATAStatus {
		str += fmt.Sprintf(" ata status %#02x error %#02x", s.ATAStatus, s.ATAError)
	}
	return str
}

// ParseSense decodes fixed and descriptor format sense data. An empty or
// unrecognised buffer yields a zero Sense.
func ParseSense(buf []byte) Sense {
	var s Sense
	if len(buf) == 0 {
		return s
	}
	code := buf[0] & 0x7f
	switch code {
	case senseFixedCurrent, senseFixedDeferred:
		s.ResponseCode = code
		if len(buf) > 2 {
			s.Key = SenseKey(buf[2] & 0x0f)
		}
		if len(buf) > 13 {
			s.ASC = buf[12]
			s.ASCQ = buf[13]
		}
	case senseDescriptorCurrent, senseDescriptorDeferred:
		s.ResponseCode = code
		if len(buf) > 3 {
			s.Key = SenseKey(buf[1] & 0x0f)
			s.ASC = buf[2]
			s.ASCQ = buf[3]
		}
		if len(buf) > 7 {
			parseDescriptors(&s, buf[8:min(len(buf), 8+int(buf[7]))])
		}
	}
	return s
}

func parseDescriptors(s *Sense, descs []byte) {
	for len(descs) >= 2 {
		typ, n := descs[0], int(descs[1])+2
		if n > len(descs) {
			return
		}
		// ATA Status Return: error at 3, status at 13
		if typ == descATAStatusReturn && n >= 14 {
			s.HasATAStatus = true
			s.ATAError = descs[3]
			s.ATAStatus = descs[13]
		}
		descs = descs[n:]
	}
}
