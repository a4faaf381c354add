// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package rawata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/lf-edge/eve/pkg/rawata/ata"
	"github.com/lf-edge/eve/pkg/rawata/base"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPassesCommand(t *testing.T) {
	f := &fakeTransport{readData: bytes.Repeat([]byte{0xab}, 1024)}
	d, err := openFake(f)
	require.NoError(t, err)
	defer d.Close()

	buf := make([]byte, 1024)
	require.NoError(t, d.Read(0x1_0000_0000, buf))
	require.Len(t, f.submits, 1)

	cmd := f.submits[0].cmd
	assert.Equal(t, ata.CmdReadDMAExt, cmd.Command)
	assert.Equal(t, uint64(0x1_0000_0000), cmd.LBA())
	assert.Equal(t, 2, cmd.Sectors())
	assert.Equal(t, 1024, f.submits[0].len)
	assert.Equal(t, f.readData, buf)
}

func TestWritePassesCommand(t *testing.T) {
	f := &fakeTransport{}
	d, err := openFake(f)
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.Write(42, make([]byte, ata.MaxTransferBytes)))
	require.Len(t, f.submits, 1)
	cmd := f.submits[0].cmd
	assert.Equal(t, ata.CmdWriteDMAExt, cmd.Command)
	assert.Equal(t, ata.DirToDevice, cmd.Dir)
	assert.Zero(t, cmd.SectorCount)
	assert.Zero(t, cmd.SectorCountExp)
}

func TestPreconditionsNeverReachTransport(t *testing.T) {
	testMatrix := map[string]struct {
		lba      uint64
		size     int
		readOnly bool
		write    bool
		err      error
	}{
		"empty read": {
			size: 0,
			err:  ErrEmptyBuffer,
		},
		"empty write": {
			size:  0,
			write: true,
			err:   ErrEmptyBuffer,
		},
		"unaligned read": {
			size: 511,
			err:  ErrUnalignedBuffer,
		},
		"oversized write": {
			size:  ata.MaxTransferBytes + ata.SectorSize,
			write: true,
			err:   ErrTransferTooLarge,
		},
		"past 48 bits": {
			lba:  ata.MaxLBA,
			size: 2 * ata.SectorSize,
			err:  ErrLBAOutOfRange,
		},
		"write on read-only handle": {
			size:     ata.SectorSize,
			readOnly: true,
			write:    true,
			err:      ErrReadOnly,
		},
	}
	for testname, test := range testMatrix {
		t.Run(testname, func(t *testing.T) {
			f := &fakeTransport{}
			var opts []Option
			if test.readOnly {
				opts = append(opts, WithReadOnly())
			}
			d, err := openFake(f, opts...)
			require.NoError(t, err)
			defer d.Close()

			buf := make([]byte, test.size)
			if test.write {
				err = d.Write(test.lba, buf)
			} else {
				err = d.Read(test.lba, buf)
			}
			assert.ErrorIs(t, err, test.err)
			assert.False(t, IsTransportError(err))
			assert.False(t, IsCommandError(err))
			assert.Zero(t, f.calls())
		})
	}
}

func TestReadOnlyAllowsReads(t *testing.T) {
	f := &fakeTransport{}
	d, err := openFake(f, WithReadOnly())
	require.NoError(t, err)
	defer d.Close()

	assert.True(t, d.ReadOnly())
	assert.NoError(t, d.Read(0, make([]byte, ata.SectorSize)))
}

func TestErrorKinds(t *testing.T) {
	testMatrix := map[string]struct {
		err       error
		transport bool
		command   bool
	}{
		"transport": {
			err:       &TransportError{Op: "SG_IO", Err: HostStatus(0x03)},
			transport: true,
		},
		"command": {
			err:     &CommandError{Op: "SG_IO", ATAStatus: 0x51, ATAError: 0x40},
			command: true,
		},
	}
	for testname, test := range testMatrix {
		t.Run(testname, func(t *testing.T) {
			f := &fakeTransport{submitErr: test.err, identifyErr: test.err}
			d, err := openFake(f)
			require.NoError(t, err)
			defer d.Close()

			err = d.Read(7, make([]byte, ata.SectorSize))
			require.Error(t, err)
			assert.Equal(t, test.transport, IsTransportError(err))
			assert.Equal(t, test.command, IsCommandError(err))
			assert.Contains(t, err.Error(), "/dev/fake0")

			_, err = d.Info()
			assert.Equal(t, test.transport, IsTransportError(err))
			assert.Equal(t, test.command, IsCommandError(err))
		})
	}
}

func TestTransportErrorTimeout(t *testing.T) {
	assert.True(t, (&TransportError{Op: "SG_IO", Err: HostStatus(0x03)}).Timeout())
	assert.False(t, (&TransportError{Op: "SG_IO", Err: HostStatus(0x01)}).Timeout())
	assert.True(t, (&TransportError{Op: "XPT_ATA_IO", Err: camCmdTimeout}).Timeout())
	assert.False(t, (&TransportError{Op: "close", Err: errors.New("boom")}).Timeout())
}

func TestInfo(t *testing.T) {
	raw := make([]byte, ata.IdentifySize)
	binary.LittleEndian.PutUint64(raw[200:], 1953525168)
	copy(raw[54:], "DW CDW01ZEXE")
	f := &fakeTransport{identifyData: raw}
	d, err := openFake(f)
	require.NoError(t, err)
	defer d.Close()

	id, err := d.Info()
	require.NoError(t, err)
	assert.Equal(t, uint64(1953525168), id.Sectors())
	assert.Equal(t, "WDC WD10EZEX", id.ModelNumber())
	assert.Equal(t, 1, f.identifies)
}

func TestCloseIsIdempotent(t *testing.T) {
	f := &fakeTransport{}
	d, err := openFake(f)
	require.NoError(t, err)

	assert.NoError(t, d.Close())
	assert.NoError(t, d.Close())
	assert.Equal(t, 1, f.closes)

	assert.ErrorIs(t, d.Read(0, make([]byte, ata.SectorSize)), ErrClosed)
	assert.ErrorIs(t, d.Write(0, make([]byte, ata.SectorSize)), ErrClosed)
	_, err = d.Info()
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, d.Read(0, nil), ErrClosed)
	assert.Zero(t, f.calls())
}

// openAndDrop opens a Device and loses the only reference to it
func openAndDrop(t *testing.T, f *fakeTransport) {
	_, err := openFake(f)
	require.NoError(t, err)
}

func TestDroppedDeviceIsClosed(t *testing.T) {
	f := &fakeTransport{closedCh: make(chan struct{}, 1)}
	openAndDrop(t, f)

	deadline := time.After(10 * time.Second)
	for {
		runtime.GC()
		select {
		case <-f.closedCh:
			assert.Equal(t, 1, f.closes)
			return
		case <-deadline:
			t.Fatal("finalizer did not close the dropped Device")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestClosedDeviceIsNotFinalized(t *testing.T) {
	f := &fakeTransport{closedCh: make(chan struct{}, 2)}
	func() {
		d, err := openFake(f)
		require.NoError(t, err)
		require.NoError(t, d.Close())
	}()
	<-f.closedCh

	for i := 0; i < 5; i++ {
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
	assert.Empty(t, f.closedCh)
	assert.Equal(t, 1, f.closes)
}

func TestCloseFailureIsLogged(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetFormatter(&logrus.JSONFormatter{DisableTimestamp: true})
	logBase := base.NewSourceLogObject(logger, "rawata-close-test", os.Getpid())

	f := &fakeTransport{closeErr: &TransportError{Op: "close", Err: fs.ErrClosed}}
	d, err := openFake(f, WithLogger(logBase))
	require.NoError(t, err)

	assert.NoError(t, d.Close())
	assert.Equal(t, 1, f.closes)
	assert.True(t, strings.Contains(buf.String(), "close failed"), buf.String())
	assert.Contains(t, buf.String(), `"obj_type":"raw_disk"`)
}

func TestOpenFailure(t *testing.T) {
	openErr := &os.PathError{Op: "open", Path: "/dev/fake0", Err: fs.ErrPermission}
	_, err := open("/dev/fake0", defaultConfig(), func(string, config) (transport, error) {
		return nil, openErr
	})
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestOpenMissingNode(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("device node errors are checked on linux only")
	}
	_, err := Open("/dev/rawata-test-no-such-disk", WithReadOnly())
	assert.ErrorIs(t, err, fs.ErrNotExist)
	var pathErr *os.PathError
	assert.ErrorAs(t, err, &pathErr)
}

func TestPath(t *testing.T) {
	d, err := openFake(&fakeTransport{})
	require.NoError(t, err)
	defer d.Close()
	assert.Equal(t, "/dev/fake0", d.Path())
}
