// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package types

import "fmt"

// DiskType is the command set a drive answers to
type DiskType int

// DiskType values, in the order the SMART layer reports them
const (
	DiskTypeUnknown DiskType = iota
	DiskTypeSATA
	DiskTypeSCSI
	DiskTypeNVME
)

var diskTypeNames = map[DiskType]string{
	DiskTypeUnknown: "unknown",
	DiskTypeSATA:    "sata",
	DiskTypeSCSI:    "scsi",
	DiskTypeNVME:    "nvme",
}

func (t DiskType) String() string {
	if name, ok := diskTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DiskType(%d)", int(t))
}

// ParseDiskType maps the SMART device type string to a DiskType.
func ParseDiskType(s string) DiskType {
	for t, name := range diskTypeNames {
		if name == s {
			return t
		}
	}
	return DiskTypeUnknown
}

// SupportsATA is true for drives that take ATA commands, directly or
// through a SAT layer.
func (t DiskType) SupportsATA() bool {
	return t == DiskTypeSATA
}

// PartitionInfo is one partition of a disk
type PartitionInfo struct {
	Name       string `json:"name"`
	SizeBytes  uint64 `json:"size_bytes"`
	MountPoint string `json:"mount_point,omitempty"`
}

// DiskInfo describes one whole disk found on the system
type DiskInfo struct {
	Name         string          `json:"name"`
	Path         string          `json:"path"`
	SizeBytes    uint64          `json:"size_bytes"`
	Model        string          `json:"model"`
	SerialNumber string          `json:"serial_number"`
	WWN          string          `json:"wwn,omitempty"`
	DriveType    string          `json:"drive_type"`
	Controller   string          `json:"controller"`
	Removable    bool            `json:"removable"`
	Partitions   []PartitionInfo `json:"partitions,omitempty"`
}

// Mounted reports whether any partition of the disk is mounted.
func (d DiskInfo) Mounted() bool {
	for _, p := range d.Partitions {
		if p.MountPoint != "" {
			return true
		}
	}
	return false
}
