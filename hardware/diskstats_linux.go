// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package hardware

import (
	"fmt"
	"path/filepath"

	"github.com/prometheus/procfs/blockdevice"
)

// DiskIOCounters reads /proc/diskstats for the disk at devPath.
func DiskIOCounters(devPath string) (IOCounters, error) {
	fs, err := blockdevice.NewFS("/proc", "/sys")
	if err != nil {
		return IOCounters{}, fmt.Errorf("DiskIOCounters: %w", err)
	}
	stats, err := fs.ProcDiskstats()
	if err != nil {
		return IOCounters{}, fmt.Errorf("DiskIOCounters: %w", err)
	}
	return countersFor(stats, devPath)
}

func countersFor(stats []blockdevice.Diskstats, devPath string) (IOCounters, error) {
	name := filepath.Base(devPath)
	for _, s := range stats {
		if s.DeviceName != name {
			continue
		}
		return IOCounters{
			ReadIOs:      s.ReadIOs,
			ReadSectors:  s.ReadSectors,
			WriteIOs:     s.WriteIOs,
			WriteSectors: s.WriteSectors,
		}, nil
	}
	return IOCounters{}, fmt.Errorf("DiskIOCounters: %s not in diskstats", name)
}
