// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package hardware

import (
	"fmt"

	smart "github.com/anatol/smart.go"
	"github.com/lf-edge/eve/pkg/rawata/types"
)

// DiskType asks the drive which command set it speaks.
func DiskType(devPath string) (types.DiskType, error) {
	dev, err := smart.Open(devPath)
	if err != nil {
		return types.DiskTypeUnknown, fmt.Errorf("DiskType %s: %w", devPath, err)
	}
	defer dev.Close()
	return types.ParseDiskType(dev.Type()), nil
}

// ATAIdentity reads model, serial number and firmware revision through
// the SMART library's own IDENTIFY path.
func ATAIdentity(devPath string) (Identity, error) {
	dev, err := smart.OpenSata(devPath)
	if err != nil {
		return Identity{}, fmt.Errorf("ATAIdentity %s: %w", devPath, err)
	}
	defer dev.Close()

	id, err := dev.Identify()
	if err != nil {
		return Identity{}, fmt.Errorf("ATAIdentity %s: %w", devPath, err)
	}
	sectors, err := identifySectors(id)
	if err != nil {
		return Identity{}, fmt.Errorf("ATAIdentity %s: %w", devPath, err)
	}
	return Identity{
		Model:    id.ModelNumber(),
		Serial:   id.SerialNumber(),
		Firmware: id.FirmwareRevision(),
		Sectors:  sectors,
	}, nil
}
