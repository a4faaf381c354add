// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package hardware

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/moby/sys/mountinfo"
)

// Partition suffixes: sda1, nvme0n1p1, mmcblk0p2, ada0p1, ada0s1a
var partitionSuffix = regexp.MustCompile(`^[ps]?[0-9]+[a-h]?$`)

// MountedPartitions returns the mount points of devPath and of its
// partitions.
func MountedPartitions(devPath string) ([]string, error) {
	mounts, err := mountinfo.GetMounts(partitionFilter(devPath))
	if err != nil {
		return nil, fmt.Errorf("MountedPartitions %s: %w", devPath, err)
	}
	mountPoints := make([]string, 0, len(mounts))
	for _, m := range mounts {
		mountPoints = append(mountPoints, m.Mountpoint)
	}
	return mountPoints, nil
}

func partitionFilter(devPath string) mountinfo.FilterFunc {
	return func(info *mountinfo.Info) (skip, stop bool) {
		return !isPartitionOf(info.Source, devPath), false
	}
}

func isPartitionOf(source, devPath string) bool {
	if !strings.HasPrefix(source, devPath) {
		return false
	}
	rest := source[len(devPath):]
	return rest == "" || partitionSuffix.MatchString(rest)
}
