// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package hardware

import (
	"errors"

	"github.com/lf-edge/eve/pkg/rawata/types"
)

var errSmartUnsupported = errors.New("SMART queries are only supported on linux")

// DiskType is not available on this OS.
func DiskType(devPath string) (types.DiskType, error) {
	return types.DiskTypeUnknown, errSmartUnsupported
}

// ATAIdentity is not available on this OS.
func ATAIdentity(devPath string) (Identity, error) {
	return Identity{}, errSmartUnsupported
}

// DiskIOCounters is not available on this OS.
func DiskIOCounters(devPath string) (IOCounters, error) {
	return IOCounters{}, errors.New("diskstats are only available on linux")
}
