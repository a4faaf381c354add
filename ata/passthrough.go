// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package ata

// SCSI / ATA Translation (SAT) ATA PASS-THROUGH(16).

const (
	// ScsiATAPassThru16 is the SCSI opcode of ATA PASS-THROUGH(16).
	ScsiATAPassThru16 = 0x85

	// CDB16Len is the length of the pass-through command descriptor block.
	CDB16Len = 16

	passThruExtend = 0x01 // byte 1, EXTEND: 48-bit command

	tlenSectorCount = 0x02      // byte 2, T_LENGTH: length is in the sector count field
	tlenBlocks      = 0x01 << 2 // byte 2, BYT_BLOK: length is in blocks, not bytes
	tdirFromDevice  = 0x01 << 3 // byte 2, T_DIR

	// obsolete device register bits 7 and 5, still set by hdparm and sg3_utils
	deviceObsolete = 0xa0
)

// CDB16 is a 16 byte SCSI command descriptor block.
type CDB16 [CDB16Len]byte

// PassThrough16 packs cmd into an ATA PASS-THROUGH(16) CDB.
//
// The register bytes are interleaved "previous content" first:
//
//	3 features_exp   4 features
//	5 count_exp      6 count
//	7 lba_low_exp    8 lba_low
//	9 lba_mid_exp   10 lba_mid
//	11 lba_high_exp 12 lba_high
//	13 device       14 command
func PassThrough16(cmd *Command) CDB16 {
	var cdb CDB16

	cdb[0] = ScsiATAPassThru16
	cdb[1] = byte(cmd.Protocol) << 1
	if cmd.Extend {
		cdb[1] |= passThruExtend
	}
	if cmd.Protocol != ProtocolNonData {
		cdb[2] = tlenSectorCount | tlenBlocks
		if cmd.Dir == DirFromDevice {
			cdb[2] |= tdirFromDevice
		}
	}
	cdb[3] = cmd.FeaturesExp
	cdb[4] = cmd.Features
	cdb[5] = cmd.SectorCountExp
	cdb[6] = cmd.SectorCount
	cdb[7] = cmd.LBALowExp
	cdb[8] = cmd.LBALow
	cdb[9] = cmd.LBAMidExp
	cdb[10] = cmd.LBAMid
	cdb[11] = cmd.LBAHighExp
	cdb[12] = cmd.LBAHigh
	cdb[13] = cmd.Device | deviceObsolete
	cdb[14] = cmd.Command
	cdb[15] = cmd.Control

	return cdb
}
