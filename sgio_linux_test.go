// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package rawata

import (
	"testing"
	"unsafe"

	"github.com/lf-edge/eve/pkg/rawata/ata"
	"github.com/stretchr/testify/assert"
)

// The kernel reads these structs in place; their layout must match
// struct sg_io_hdr and the HDIO_DRIVE_CMD argument block.
func TestIoctlLayouts(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) == 8 {
		assert.Equal(t, uintptr(88), unsafe.Sizeof(sgIoHdr{}))
		assert.Equal(t, uintptr(64), unsafe.Offsetof(sgIoHdr{}.status))
	} else {
		assert.Equal(t, uintptr(64), unsafe.Sizeof(sgIoHdr{}))
	}
	assert.Equal(t, uintptr(4+ata.IdentifySize), unsafe.Sizeof(hdioIdentifyArgs{}))
	assert.Equal(t, uintptr(4), unsafe.Offsetof(hdioIdentifyArgs{}.data))
}

func TestPackID(t *testing.T) {
	testMatrix := map[string]struct {
		lba      uint64
		expected int32
	}{
		"zero":          {lba: 0, expected: 0},
		"small":         {lba: 2048, expected: 2048},
		"max int32":     {lba: 1<<31 - 1, expected: 1<<31 - 1},
		"wraps at 2^31": {lba: 1 << 31, expected: 0},
		"max lba":       {lba: ata.MaxLBA, expected: 1<<31 - 1},
	}
	for testname, test := range testMatrix {
		t.Run(testname, func(t *testing.T) {
			got := packID(test.lba)
			assert.Equal(t, test.expected, got)
			assert.GreaterOrEqual(t, got, int32(0))
		})
	}
}
