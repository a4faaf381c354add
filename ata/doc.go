// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package ata encodes the ATA commands used for raw disk access and
// decodes the IDENTIFY DEVICE response.
//
// Nothing in this package performs I/O. Commands are built as ATA-48
// register blocks (Command) and packed for a transport by the caller,
// e.g. with PassThrough16 for SCSI/ATA translation.
//
// https://people.freebsd.org/~imp/asiabsdcon2015/works/d2161r5-ATAATAPI_Command_Set_-_3.pdf
// https://www.t10.org/ftp/t10/document.04/04-262r8.pdf
package ata
