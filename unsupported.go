// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

//go:build !linux && !(freebsd && cgo)

package rawata

import "os"

func openTransport(path string, _ config) (transport, error) {
	return nil, &os.PathError{Op: "open", Path: path, Err: ErrOSUnsupported}
}
