// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package hardware

import "fmt"

// Identity is the drive identification as seen by a second IDENTIFY
// implementation, used to cross-check raw reads.
type Identity struct {
	Model    string
	Serial   string
	Firmware string
	Sectors  uint64
}

// Mismatch lists the fields that differ between two identities.
func (id Identity) Mismatch(other Identity) []string {
	var diff []string
	check := func(name string, a, b interface{}) {
		if a != b {
			diff = append(diff, fmt.Sprintf("%s: %v != %v", name, a, b))
		}
	}
	check("model", id.Model, other.Model)
	check("serial", id.Serial, other.Serial)
	check("firmware", id.Firmware, other.Firmware)
	check("sectors", id.Sectors, other.Sectors)
	return diff
}
