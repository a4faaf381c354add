// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/lf-edge/eve/pkg/rawata/ata"
	"github.com/spf13/cobra"
)

var (
	readLBA   uint64
	readCount uint64
	readOut   string
)

// sectorReader is the part of a Device the read command needs
type sectorReader interface {
	Read(lba uint64, buf []byte) error
}

// copySectors reads count sectors starting at lba in chunks of at most
// MaxTransferSectors and writes them to w.
func copySectors(w io.Writer, dev sectorReader, lba, count uint64) error {
	if count == 0 {
		return fmt.Errorf("nothing to read: %w", ata.ErrEmptyBuffer)
	}
	chunk := min(count, ata.MaxTransferSectors)
	buf := make([]byte, chunk*ata.SectorSize)
	for count > 0 {
		n := min(count, chunk)
		b := buf[:n*ata.SectorSize]
		if err := dev.Read(lba, b); err != nil {
			return err
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
		lba += n
		count -= n
	}
	return nil
}

// readCmd represents the read command
var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read sectors with READ DMA EXT",
	Long: `
Read sectors with READ DMA EXT, bypassing the page cache. Without --out the
data is hex dumped. For example:

rawatactl read --lba 0 --count 1
rawatactl read -d /dev/sdb --lba 2048 --count 65536 --out part.img
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		dev, err := openDevice()
		if err != nil {
			return err
		}
		defer dev.Close()

		var w io.Writer
		if readOut == "" {
			dumper := hex.Dumper(cmd.OutOrStdout())
			defer dumper.Close()
			w = dumper
		} else {
			f, cerr := os.Create(readOut)
			if cerr != nil {
				return cerr
			}
			defer func() {
				if cerr := f.Close(); err == nil {
					err = cerr
				}
			}()
			w = f
		}
		return copySectors(w, dev, readLBA, readCount)
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().Uint64Var(&readLBA, "lba", 0, "first sector")
	readCmd.Flags().Uint64Var(&readCount, "count", 1, "number of sectors")
	readCmd.Flags().StringVarP(&readOut, "out", "o", "", "write the data to this file")
}
