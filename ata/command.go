// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package ata

import (
	"fmt"
	"time"
)

// ATA command opcodes used by this package
const (
	CmdReadDMAExt     uint8 = 0x25
	CmdWriteDMAExt    uint8 = 0x35
	CmdIdentifyDevice uint8 = 0xec
)

const (
	// DeviceLBA is the device register for LBA addressing of drive 0.
	DeviceLBA uint8 = 0x40

	// DefaultTimeout applies to every command regardless of its size.
	DefaultTimeout = 5 * time.Second
	// DefaultRetries is the retry count handed to the kernel transport.
	DefaultRetries = 1
)

// Protocol is the ATA protocol of a command, numbered as in the SAT
// PROTOCOL field.
type Protocol uint8

// Protocols used by this package
const (
	ProtocolNonData    Protocol = 3
	ProtocolPIODataIn  Protocol = 4
	ProtocolPIODataOut Protocol = 5
	ProtocolDMA        Protocol = 6
)

// Direction of the data phase
type Direction uint8

// Data directions
const (
	DirNone Direction = iota
	DirFromDevice
	DirToDevice
)

func (d Direction) String() string {
	switch d {
	case DirFromDevice:
		return "from-device"
	case DirToDevice:
		return "to-device"
	default:
		return "none"
	}
}

// Command is an ATA-48 register block. The *Exp fields hold the
// "previous content" bytes of the 48-bit register model.
type Command struct {
	Command        uint8
	Features       uint8
	FeaturesExp    uint8
	SectorCount    uint8
	SectorCountExp uint8
	LBALow         uint8
	LBAMid         uint8
	LBAHigh        uint8
	LBALowExp      uint8
	LBAMidExp      uint8
	LBAHighExp     uint8
	Device         uint8
	Control        uint8

	Protocol Protocol
	Extend   bool // 48-bit command
	Dir      Direction
}

// NewReadDMAExt builds READ DMA EXT for byteLen bytes starting at lba.
func NewReadDMAExt(lba uint64, byteLen int) (*Command, error) {
	return newDMAExt(CmdReadDMAExt, DirFromDevice, lba, byteLen)
}

// NewWriteDMAExt builds WRITE DMA EXT for byteLen bytes starting at lba.
func NewWriteDMAExt(lba uint64, byteLen int) (*Command, error) {
	return newDMAExt(CmdWriteDMAExt, DirToDevice, lba, byteLen)
}

func newDMAExt(opcode uint8, dir Direction, lba uint64, byteLen int) (*Command, error) {
	count, err := SectorCount(byteLen)
	if err != nil {
		return nil, err
	}
	if err := CheckRange(lba, byteLen/SectorSize); err != nil {
		return nil, err
	}
	low, high := SplitLBA(lba)
	return &Command{
		Command:        opcode,
		SectorCount:    uint8(count),
		SectorCountExp: uint8(count >> 8),
		LBALow:         low[0],
		LBAMid:         low[1],
		LBAHigh:        low[2],
		LBALowExp:      high[0],
		LBAMidExp:      high[1],
		LBAHighExp:     high[2],
		Device:         DeviceLBA,
		Protocol:       ProtocolDMA,
		Extend:         true,
		Dir:            dir,
	}, nil
}

// NewIdentifyDevice builds IDENTIFY DEVICE, a one sector PIO data-in command.
func NewIdentifyDevice() *Command {
	return &Command{
		Command:     CmdIdentifyDevice,
		SectorCount: 1,
		Device:      DeviceLBA,
		Protocol:    ProtocolPIODataIn,
		Dir:         DirFromDevice,
	}
}

// LBA reassembles the 48-bit address from the registers.
func (c *Command) LBA() uint64 {
	return JoinLBA([3]byte{c.LBALow, c.LBAMid, c.LBAHigh},
		[3]byte{c.LBALowExp, c.LBAMidExp, c.LBAHighExp})
}

// Sectors returns the number of sectors the command transfers.
func (c *Command) Sectors() int {
	if c.Protocol == ProtocolNonData {
		return 0
	}
	n := int(c.SectorCount)
	if c.Extend {
		n |= int(c.SectorCountExp) << 8
		if n == 0 {
			return MaxTransferSectors
		}
		return n
	}
	if n == 0 {
		return 256
	}
	return n
}

// TransferLen returns the data phase length in bytes.
func (c *Command) TransferLen() int {
	return c.Sectors() * SectorSize
}

// Name returns the mnemonic of the opcode.
func (c *Command) Name() string {
	switch c.Command {
	case CmdReadDMAExt:
		return "READ DMA EXT"
	case CmdWriteDMAExt:
		return "WRITE DMA EXT"
	case CmdIdentifyDevice:
		return "IDENTIFY DEVICE"
	}
	return fmt.Sprintf("ATA command %#02x", c.Command)
}

func (c *Command) String() string {
	if c.Command == CmdIdentifyDevice {
		return c.Name()
	}
	return fmt.Sprintf("%s lba %d sectors %d", c.Name(), c.LBA(), c.Sectors())
}
