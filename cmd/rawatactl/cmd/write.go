// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/lf-edge/eve/pkg/rawata/ata"
	"github.com/lf-edge/eve/pkg/rawata/hardware"
	"github.com/lf-edge/eve/pkg/rawata/types"
	"github.com/spf13/cobra"
)

var (
	writeLBA uint64
	writeIn  string
	writeYes bool
)

// guard checks are swapped out in tests
var (
	mountedPartitions = hardware.MountedPartitions
	diskType          = hardware.DiskType
)

// checkWritable refuses disks with mounted partitions and drives known not
// to take ATA commands.
func checkWritable(config types.DiskConfig) error {
	if !config.AllowMounted {
		mounts, err := mountedPartitions(config.Device)
		if err != nil {
			return err
		}
		if len(mounts) != 0 {
			return fmt.Errorf("%s has mounted partitions: %s (use --allow-mounted)",
				config.Device, strings.Join(mounts, ", "))
		}
	}
	t, err := diskType(config.Device)
	if err != nil {
		log.Warnf("cannot tell the drive type of %s: %v", config.Device, err)
		return nil
	}
	if !t.SupportsATA() {
		return fmt.Errorf("%s is a %s drive, not ATA", config.Device, t)
	}
	return nil
}

// sectorWriter is the part of a Device the write command needs
type sectorWriter interface {
	Write(lba uint64, buf []byte) error
}

// writeSectors writes data starting at lba in chunks of at most
// MaxTransferSectors.
func writeSectors(dev sectorWriter, lba uint64, data []byte) error {
	if len(data)%ata.SectorSize != 0 {
		return fmt.Errorf("input is %d bytes: %w", len(data), ata.ErrUnalignedBuffer)
	}
	if len(data) == 0 {
		return ata.ErrEmptyBuffer
	}
	for len(data) > 0 {
		n := min(len(data), ata.MaxTransferBytes)
		if err := dev.Write(lba, data[:n]); err != nil {
			return err
		}
		lba += uint64(n / ata.SectorSize)
		data = data[n:]
	}
	return nil
}

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Write sectors with WRITE DMA EXT",
	Long: `
Write the content of a file to the disk with WRITE DMA EXT. The file size
must be a multiple of 512 bytes. This destroys data: --yes is required.
For example:

rawatactl write -d /dev/sdb --lba 2048 --in sector.bin --yes
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !writeYes {
			return fmt.Errorf("refusing to write to %s without --yes", diskConfig.Device)
		}
		if diskConfig.ReadOnly {
			return fmt.Errorf("write to %s: read-only is configured", diskConfig.Device)
		}
		data, err := os.ReadFile(writeIn)
		if err != nil {
			return err
		}
		if err := checkWritable(diskConfig); err != nil {
			return err
		}
		dev, err := openDevice()
		if err != nil {
			return err
		}
		defer dev.Close()

		if err := writeSectors(dev, writeLBA, data); err != nil {
			return err
		}
		log.Noticef("wrote %d sectors at lba %d of %s", len(data)/ata.SectorSize, writeLBA, dev.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().Uint64Var(&writeLBA, "lba", 0, "first sector")
	writeCmd.Flags().StringVarP(&writeIn, "in", "i", "", "file to write")
	writeCmd.Flags().BoolVar(&writeYes, "yes", false, "really write")
	_ = writeCmd.MarkFlagRequired("in")
}
