// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package hardware

import (
	"testing"

	"github.com/jaypipes/ghw"
	"github.com/lf-edge/eve/pkg/rawata/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisksFromBlockInfo(t *testing.T) {
	sdb := &ghw.Disk{
		Name:         "sdb",
		SizeBytes:    500107862016,
		Model:        "Samsung_SSD_860",
		SerialNumber: "S3Z1NB0K123456",
		WWN:          "unknown",
		IsRemovable:  false,
	}
	sdb.Partitions = []*ghw.Partition{
		{Disk: sdb, Name: "sdb1", SizeBytes: 1 << 30, MountPoint: "/persist"},
		{Disk: sdb, Name: "sdb2", SizeBytes: 1 << 20},
	}
	blockInfo := &ghw.BlockInfo{
		Disks: []*ghw.Disk{
			sdb,
			{Name: "loop0", SizeBytes: 4096},
			{Name: "sda", SizeBytes: 1000204886016, Model: " WDC WD10EZEX "},
			{Name: "zram0"},
		},
	}

	disks := disksFromBlockInfo(blockInfo)
	require.Len(t, disks, 2)

	assert.Equal(t, "sda", disks[0].Name)
	assert.Equal(t, "/dev/sda", disks[0].Path)
	assert.Equal(t, "WDC WD10EZEX", disks[0].Model)
	assert.Empty(t, disks[0].Partitions)

	assert.Equal(t, "sdb", disks[1].Name)
	assert.Equal(t, uint64(500107862016), disks[1].SizeBytes)
	assert.Empty(t, disks[1].WWN)
	assert.Equal(t, []types.PartitionInfo{
		{Name: "sdb1", SizeBytes: 1 << 30, MountPoint: "/persist"},
		{Name: "sdb2", SizeBytes: 1 << 20},
	}, disks[1].Partitions)
	assert.True(t, disks[1].Mounted())
}

func TestDiskPath(t *testing.T) {
	assert.Equal(t, "/dev/sda", DiskPath("sda"))
	assert.Equal(t, "/dev/ada0", DiskPath("/dev/ada0"))
}

func TestIsPartitionOf(t *testing.T) {
	testMatrix := map[string]struct {
		source string
		dev    string
		want   bool
	}{
		"whole disk":       {source: "/dev/sda", dev: "/dev/sda", want: true},
		"scsi partition":   {source: "/dev/sda3", dev: "/dev/sda", want: true},
		"nvme partition":   {source: "/dev/nvme0n1p2", dev: "/dev/nvme0n1", want: true},
		"mmc partition":    {source: "/dev/mmcblk0p1", dev: "/dev/mmcblk0", want: true},
		"freebsd gpt":      {source: "/dev/ada0p2", dev: "/dev/ada0", want: true},
		"freebsd mbr":      {source: "/dev/ada0s1a", dev: "/dev/ada0", want: true},
		"other disk":       {source: "/dev/sdaa1", dev: "/dev/sda", want: false},
		"unrelated":        {source: "/dev/sdb1", dev: "/dev/sda", want: false},
		"pseudo fs":        {source: "tmpfs", dev: "/dev/sda", want: false},
		"overlay on disk?": {source: "overlay", dev: "/dev/sda", want: false},
	}
	for testname, test := range testMatrix {
		t.Run(testname, func(t *testing.T) {
			assert.Equal(t, test.want, isPartitionOf(test.source, test.dev))
		})
	}
}

func TestMountedPartitionsUnknownDevice(t *testing.T) {
	mountPoints, err := MountedPartitions("/dev/rawata-test-no-such-disk")
	require.NoError(t, err)
	assert.Empty(t, mountPoints)
}

func TestIdentityMismatch(t *testing.T) {
	a := Identity{Model: "WDC", Serial: "X1", Firmware: "01", Sectors: 100}
	assert.Empty(t, a.Mismatch(a))

	b := a
	b.Serial = "X2"
	b.Sectors = 200
	assert.Equal(t, []string{"serial: X1 != X2", "sectors: 100 != 200"}, a.Mismatch(b))
}

func TestIdentifySectors(t *testing.T) {
	type identifyRecord struct {
		Words    [100]uint16
		Sectors  uint64 // words 100..103
		Reserved [152]uint16
	}
	record := identifyRecord{Sectors: 1953525168}
	sectors, err := identifySectors(&record)
	require.NoError(t, err)
	assert.Equal(t, uint64(1953525168), sectors)

	_, err = identifySectors(&struct{ Words [10]uint16 }{})
	assert.Error(t, err)
}
