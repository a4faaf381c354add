// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package hardware

// IOCounters are the kernel block layer counters of one disk. Commands
// sent through SG_IO bypass the page cache but still show up here.
type IOCounters struct {
	ReadIOs      uint64
	ReadSectors  uint64
	WriteIOs     uint64
	WriteSectors uint64
}

// Sub returns the counters accumulated since before.
func (c IOCounters) Sub(before IOCounters) IOCounters {
	return IOCounters{
		ReadIOs:      c.ReadIOs - before.ReadIOs,
		ReadSectors:  c.ReadSectors - before.ReadSectors,
		WriteIOs:     c.WriteIOs - before.WriteIOs,
		WriteSectors: c.WriteSectors - before.WriteSectors,
	}
}
