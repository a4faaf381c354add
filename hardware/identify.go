// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package hardware

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/lf-edge/eve/pkg/rawata/ata"
)

// identifySectors re-encodes a fixed layout IDENTIFY DEVICE record, such
// as the one the SMART library decodes into, and reads the LBA48 sector
// count from the raw words.
func identifySectors(record interface{}) (uint64, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, record); err != nil {
		return 0, fmt.Errorf("identifySectors: %w", err)
	}
	if buf.Len() != ata.IdentifySize {
		return 0, fmt.Errorf("identifySectors: record is %d bytes, not %d",
			buf.Len(), ata.IdentifySize)
	}
	return ata.DecodeIdentify(buf.Bytes()).Sectors(), nil
}
