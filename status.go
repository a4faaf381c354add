// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package rawata

import (
	"fmt"

	"github.com/lf-edge/eve/pkg/rawata/ata"
)

// SCSI status codes seen with ATA pass-through
const (
	scsiStatusGood           = 0x00
	scsiStatusCheckCondition = 0x02
)

// HostStatus is the sg host_status: the adapter failed to run the command.
type HostStatus uint16

var hostStatusNames = map[HostStatus]string{
	0x01: "DID_NO_CONNECT",
	0x02: "DID_BUS_BUSY",
	0x03: "DID_TIME_OUT",
	0x04: "DID_BAD_TARGET",
	0x05: "DID_ABORT",
	0x06: "DID_PARITY",
	0x07: "DID_ERROR",
	0x08: "DID_RESET",
	0x09: "DID_BAD_INTR",
	0x0a: "DID_PASSTHROUGH",
	0x0b: "DID_SOFT_ERROR",
	0x0c: "DID_IMM_RETRY",
	0x0d: "DID_REQUEUE",
	0x0e: "DID_TRANSPORT_DISRUPTED",
	0x0f: "DID_TRANSPORT_FAILFAST",
}

func (s HostStatus) Error() string {
	if name, ok := hostStatusNames[s]; ok {
		return "host status " + name
	}
	return fmt.Sprintf("host status %#02x", uint16(s))
}

// Timeout is true for DID_TIME_OUT.
func (s HostStatus) Timeout() bool {
	return s == 0x03
}

// DriverStatus is the sg driver_status without the DRIVER_SENSE bit.
type DriverStatus uint16

const (
	driverSense       = 0x08
	driverStatusMask  = 0x07
	driverStatusTimeo = 0x06
)

func (s DriverStatus) Error() string {
	return fmt.Sprintf("driver status %#02x", uint16(s))
}

// Timeout is true for DRIVER_TIMEOUT.
func (s DriverStatus) Timeout() bool {
	return s == driverStatusTimeo
}

// classifySG turns the status fields of a completed SG_IO request into an
// error. sense holds the bytes the kernel wrote. Any sense data is a
// device error unless it only returns the registers of a completed
// command, see ata.Sense.RegistersOnly.
func classifySG(op string, status uint8, hostStatus, driverStatus uint16, sense []byte) error {
	if hostStatus != 0 {
		return &TransportError{Op: op, Err: HostStatus(hostStatus)}
	}
	if driverStatus&driverStatusMask != 0 {
		return &TransportError{Op: op, Err: DriverStatus(driverStatus & driverStatusMask)}
	}
	parsed := ata.ParseSense(sense)
	if len(sense) > 0 && sense[0] != 0 {
		if parsed.RegistersOnly() {
			return nil
		}
	} else if status == scsiStatusGood {
		return nil
	}
	return &CommandError{
		Op:         op,
		ScsiStatus: status,
		Sense:      parsed,
		ATAStatus:  parsed.ATAStatus,
		ATAError:   parsed.ATAError,
	}
}

// camStatus is the CAM completion code, ccb_h.status & CAM_STATUS_MASK.
type camStatus uint32

// Values of cam_status from cam/cam.h
const (
	camReqInprog       camStatus = 0x00
	camReqCmp          camStatus = 0x01
	camReqAborted      camStatus = 0x02
	camReqCmpErr       camStatus = 0x04
	camBusy            camStatus = 0x05
	camReqInvalid      camStatus = 0x06
	camDevNotThere     camStatus = 0x08
	camSelTimeout      camStatus = 0x0a
	camCmdTimeout      camStatus = 0x0b
	camScsiStatusError camStatus = 0x0c
	camATAStatusError  camStatus = 0x1c
)

var camStatusNames = map[camStatus]string{
	camReqInprog:       "CAM_REQ_INPROG",
	camReqCmp:          "CAM_REQ_CMP",
	camReqAborted:      "CAM_REQ_ABORTED",
	camReqCmpErr:       "CAM_REQ_CMP_ERR",
	camBusy:            "CAM_BUSY",
	camReqInvalid:      "CAM_REQ_INVALID",
	camDevNotThere:     "CAM_DEV_NOT_THERE",
	camSelTimeout:      "CAM_SEL_TIMEOUT",
	camCmdTimeout:      "CAM_CMD_TIMEOUT",
	camScsiStatusError: "CAM_SCSI_STATUS_ERROR",
	camATAStatusError:  "CAM_ATA_STATUS_ERROR",
}

func (s camStatus) Error() string {
	if name, ok := camStatusNames[s]; ok {
		return "cam status " + name
	}
	return fmt.Sprintf("cam status %#02x", uint32(s))
}

func (s camStatus) Timeout() bool {
	return s == camCmdTimeout || s == camSelTimeout
}

// classifyCAM turns a completed XPT_ATA_IO request into an error.
func classifyCAM(op string, status camStatus, ataStatus, ataError uint8) error {
	switch {
	case status == camATAStatusError,
		status == camReqCmp && ataStatus&ata.StatusErr != 0:
		return &CommandError{Op: op, ATAStatus: ataStatus, ATAError: ataError}
	case status != camReqCmp:
		return &TransportError{Op: op, Err: status}
	}
	return nil
}

// clearExceptHeader zeroes a CCB after its header, keeping the path and
// priority set up by cam_getccb.
func clearExceptHeader(ccb []byte, hdrLen int) {
	if hdrLen < len(ccb) {
		clear(ccb[hdrLen:])
	}
}
