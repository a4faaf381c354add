// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package rawata

import (
	"github.com/lf-edge/eve/pkg/rawata/ata"
)

type submitCall struct {
	cmd *ata.Command
	len int
}

// fakeTransport records what reaches the transport
type fakeTransport struct {
	submits      []submitCall
	identifies   int
	closes       int
	submitErr    error
	identifyErr  error
	closeErr     error
	identifyData []byte
	readData     []byte
	// receives a value on every close when set
	closedCh chan struct{}
}

func (f *fakeTransport) submit(cmd *ata.Command, data []byte) error {
	f.submits = append(f.submits, submitCall{cmd: cmd, len: len(data)})
	if f.submitErr != nil {
		return f.submitErr
	}
	if cmd.Dir == ata.DirFromDevice {
		copy(data, f.readData)
	}
	return nil
}

func (f *fakeTransport) identify(buf []byte) error {
	f.identifies++
	if f.identifyErr != nil {
		return f.identifyErr
	}
	copy(buf, f.identifyData)
	return nil
}

func (f *fakeTransport) close() error {
	f.closes++
	if f.closedCh != nil {
		f.closedCh <- struct{}{}
	}
	return f.closeErr
}

func (f *fakeTransport) calls() int {
	return len(f.submits) + f.identifies
}

func fakeOpener(f *fakeTransport) transportOpener {
	return func(string, config) (transport, error) {
		return f, nil
	}
}

func openFake(f *fakeTransport, opts ...Option) (*Device, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return open("/dev/fake0", cfg, fakeOpener(f))
}
