// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package hardware finds the disks of the system and tells whether they
// can be driven with raw ATA commands.
package hardware

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jaypipes/ghw"
	"github.com/lf-edge/eve/pkg/rawata/types"
)

const devDir = "/dev"

// Block devices that never carry an ATA drive
var virtualPrefixes = []string{"loop", "ram", "zram", "nbd", "dm-", "md"}

// ListDisks returns the whole disks found in sysfs, sorted by name.
func ListDisks() ([]types.DiskInfo, error) {
	blockInfo, err := ghw.Block()
	if err != nil {
		return nil, fmt.Errorf("ListDisks: %w", err)
	}
	return disksFromBlockInfo(blockInfo), nil
}

func disksFromBlockInfo(blockInfo *ghw.BlockInfo) []types.DiskInfo {
	var disks []types.DiskInfo
	for _, d := range blockInfo.Disks {
		if d == nil || isVirtual(d.Name) {
			continue
		}
		disk := types.DiskInfo{
			Name:         d.Name,
			Path:         DiskPath(d.Name),
			SizeBytes:    d.SizeBytes,
			Model:        cleanField(d.Model),
			SerialNumber: cleanField(d.SerialNumber),
			WWN:          cleanField(d.WWN),
			DriveType:    d.DriveType.String(),
			Controller:   d.StorageController.String(),
			Removable:    d.IsRemovable,
		}
		for _, p := range d.Partitions {
			if p == nil {
				continue
			}
			disk.Partitions = append(disk.Partitions, types.PartitionInfo{
				Name:       p.Name,
				SizeBytes:  p.SizeBytes,
				MountPoint: p.MountPoint,
			})
		}
		disks = append(disks, disk)
	}
	sort.Slice(disks, func(i, j int) bool { return disks[i].Name < disks[j].Name })
	return disks
}

// DiskPath turns a kernel disk name into its device node path.
func DiskPath(name string) string {
	if strings.HasPrefix(name, devDir+"/") {
		return name
	}
	return filepath.Join(devDir, name)
}

func isVirtual(name string) bool {
	for _, prefix := range virtualPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// ghw reports missing sysfs attributes as "unknown"
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "unknown") {
		return ""
	}
	return s
}
