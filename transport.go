// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package rawata

import "github.com/lf-edge/eve/pkg/rawata/ata"

// transport executes ATA commands on one open disk. Implementations are
// selected at build time by openTransport.
type transport interface {
	// submit runs a DMA command. data is the transfer buffer in the
	// direction of cmd.Dir and is exactly cmd.TransferLen() long.
	submit(cmd *ata.Command, data []byte) error
	// identify fills buf with the IDENTIFY DEVICE response.
	identify(buf []byte) error
	close() error
}

type transportOpener func(path string, cfg config) (transport, error)
