// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package rawata reads and writes whole-disk sectors with ATA READ/WRITE
// DMA EXT commands, bypassing the block layer and the page cache.
//
// On Linux commands are sent as SCSI ATA PASS-THROUGH(16) over the SG_IO
// ioctl; IDENTIFY DEVICE uses HDIO_DRIVE_CMD where the driver supports it.
// On FreeBSD commands go through CAM (libcam, cgo required). Other systems
// get ErrOSUnsupported from Open.
//
// A Device is not safe for concurrent use. Every command blocks until the
// drive answers or the per command timeout expires.
package rawata
