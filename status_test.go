// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package rawata

import (
	"errors"
	"testing"

	"github.com/lf-edge/eve/pkg/rawata/ata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// descriptor sense with an ATA Status Return descriptor
func ataSense(key ata.SenseKey, status, errReg uint8) []byte {
	return []byte{
		0x72, byte(key), 0x00, 0x1d, 0, 0, 0, 14,
		0x09, 0x0c, 0x01, errReg, 0, 0, 0, 0, 0, 0, 0, 0, 0x40, status,
	}
}

func TestClassifySG(t *testing.T) {
	testMatrix := map[string]struct {
		status       uint8
		hostStatus   uint16
		driverStatus uint16
		sense        []byte
		transport    bool
		command      bool
	}{
		"good": {},
		"recovered error with registers": {
			status:       scsiStatusCheckCondition,
			driverStatus: driverSense,
			sense:        ataSense(ata.SenseRecoveredError, 0x50, 0),
		},
		"host timeout": {
			hostStatus: 0x03,
			transport:  true,
		},
		"host error wins over sense": {
			hostStatus: 0x07,
			status:     scsiStatusCheckCondition,
			sense:      ataSense(ata.SenseAbortedCommand, 0x51, 0x04),
			transport:  true,
		},
		"driver timeout": {
			driverStatus: driverStatusTimeo,
			transport:    true,
		},
		"aborted command": {
			status:       scsiStatusCheckCondition,
			driverStatus: driverSense,
			sense:        ataSense(ata.SenseAbortedCommand, 0x51, 0x04),
			command:      true,
		},
		"medium error fixed sense": {
			status:  scsiStatusCheckCondition,
			sense:   []byte{0x70, 0, byte(ata.SenseMediumError), 0, 0, 0, 0, 10, 0, 0, 0, 0, 0x11, 0x04},
			command: true,
		},
		"check condition without sense": {
			status:  scsiStatusCheckCondition,
			command: true,
		},
		"busy": {
			status:  0x08,
			command: true,
		},
		"fixed no sense with good status": {
			sense:   []byte{0x70, 0, byte(ata.SenseNoSense), 0, 0, 0, 0, 10, 0, 0, 0, 0, 0, 0},
			command: true,
		},
		"unrecognised response code": {
			sense:   []byte{0x7f, 0x03, 0x11, 0x04},
			command: true,
		},
		"fixed recovered error without registers": {
			status:       scsiStatusCheckCondition,
			driverStatus: driverSense,
			sense:        []byte{0x70, 0, byte(ata.SenseRecoveredError), 0, 0, 0, 0, 10, 0, 0, 0, 0, 0, 0x1d},
			command:      true,
		},
		"registers with good status": {
			sense: ataSense(ata.SenseRecoveredError, 0x50, 0),
		},
		"zero sense buffer": {
			sense: make([]byte, 32),
		},
		"ata error bit under recovered key": {
			status:  scsiStatusCheckCondition,
			sense:   ataSense(ata.SenseRecoveredError, 0x51, 0x10),
			command: true,
		},
	}
	for testname, test := range testMatrix {
		t.Run(testname, func(t *testing.T) {
			err := classifySG("SG_IO", test.status, test.hostStatus, test.driverStatus, test.sense)
			if !test.transport && !test.command {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, test.transport, IsTransportError(err))
			assert.Equal(t, test.command, IsCommandError(err))
		})
	}
}

func TestClassifySGRegisters(t *testing.T) {
	err := classifySG("SG_IO", scsiStatusCheckCondition, 0, driverSense, ataSense(ata.SenseAbortedCommand, 0x51, 0x04))

	var ce *CommandError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, uint8(0x51), ce.ATAStatus)
	assert.Equal(t, uint8(0x04), ce.ATAError)
	assert.Equal(t, ata.SenseAbortedCommand, ce.Sense.Key)
	assert.Contains(t, ce.Error(), "ABORTED_COMMAND")
}

func TestClassifyCAM(t *testing.T) {
	testMatrix := map[string]struct {
		status    camStatus
		ataStatus uint8
		transport bool
		command   bool
	}{
		"complete": {
			status:    camReqCmp,
			ataStatus: 0x50,
		},
		"ata status error": {
			status:    camATAStatusError,
			ataStatus: 0x51,
			command:   true,
		},
		"complete with err bit": {
			status:    camReqCmp,
			ataStatus: 0x51,
			command:   true,
		},
		"command timeout": {
			status:    camCmdTimeout,
			transport: true,
		},
		"selection timeout": {
			status:    camSelTimeout,
			transport: true,
		},
		"device gone": {
			status:    camDevNotThere,
			transport: true,
		},
		"unnamed status": {
			status:    0x1f,
			transport: true,
		},
	}
	for testname, test := range testMatrix {
		t.Run(testname, func(t *testing.T) {
			err := classifyCAM("XPT_ATA_IO", test.status, test.ataStatus, 0x04)
			if !test.transport && !test.command {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, test.transport, IsTransportError(err))
			assert.Equal(t, test.command, IsCommandError(err))
		})
	}
}

func TestCamStatusNames(t *testing.T) {
	assert.Equal(t, "cam status CAM_CMD_TIMEOUT", camCmdTimeout.Error())
	assert.Equal(t, "cam status 0x1f", camStatus(0x1f).Error())
	assert.Equal(t, "host status DID_TIME_OUT", HostStatus(0x03).Error())
	assert.Equal(t, "host status 0x99", HostStatus(0x99).Error())
}

func TestClearExceptHeader(t *testing.T) {
	ccb := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	clearExceptHeader(ccb, 3)
	assert.Equal(t, []byte{1, 2, 3, 0, 0, 0, 0, 0}, ccb)

	short := []byte{9, 9}
	clearExceptHeader(short, 4)
	assert.Equal(t, []byte{9, 9}, short)
}

func TestClassifyHDIO(t *testing.T) {
	eio := errors.New("input/output error")

	args := newHDIOIdentifyArgs()
	assert.Equal(t, ata.CmdIdentifyDevice, args.command)
	assert.Equal(t, uint8(1), args.nsector)
	assert.NoError(t, classifyHDIO("HDIO_DRIVE_CMD", nil, false, args))

	args.command = 0x51 // status register written back
	args.sector = 0x04  // error register
	err := classifyHDIO("HDIO_DRIVE_CMD", eio, true, args)
	var ce *CommandError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, uint8(0x51), ce.ATAStatus)
	assert.Equal(t, uint8(0x04), ce.ATAError)

	args.command = 0x50
	err = classifyHDIO("HDIO_DRIVE_CMD", eio, true, args)
	assert.True(t, IsTransportError(err))
	assert.ErrorIs(t, err, eio)

	err = classifyHDIO("HDIO_DRIVE_CMD", eio, false, newHDIOIdentifyArgs())
	assert.True(t, IsTransportError(err))
}
