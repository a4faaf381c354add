// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package rawata

import (
	"github.com/lf-edge/eve/pkg/rawata/ata"
)

// hdioIdentifyArgs is the HDIO_DRIVE_CMD argument block for IDENTIFY
// DEVICE: four register bytes followed by the data sector. On return the
// first two bytes hold the ATA status and error registers.
type hdioIdentifyArgs struct {
	command uint8
	sector  uint8
	feature uint8
	nsector uint8 // sectors of data that follow
	data    [ata.IdentifySize]byte
}

func newHDIOIdentifyArgs() *hdioIdentifyArgs {
	return &hdioIdentifyArgs{
		command: ata.CmdIdentifyDevice,
		nsector: 1,
	}
}

func (a *hdioIdentifyArgs) status() uint8 {
	return a.command
}

func (a *hdioIdentifyArgs) errorReg() uint8 {
	return a.sector
}

// classifyHDIO turns the result of an HDIO_DRIVE_CMD ioctl into an error.
// The driver reports a rejected command as EIO with the registers copied
// back; any other failure is a transport error.
func classifyHDIO(op string, errno error, isEIO bool, args *hdioIdentifyArgs) error {
	if errno == nil {
		return nil
	}
	if isEIO && args.status()&(ata.StatusErr|ata.StatusDF) != 0 {
		return &CommandError{Op: op, ATAStatus: args.status(), ATAError: args.errorReg()}
	}
	return &TransportError{Op: op, Err: errno}
}
