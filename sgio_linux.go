// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package rawata

import (
	"errors"
	"os"
	"runtime"
	"unsafe"

	"github.com/lf-edge/eve/pkg/rawata/ata"
	"golang.org/x/sys/unix"
)

const (
	sgIO         = 0x2285
	hdioDriveCmd = 0x031f

	sgDxferNone     = -1
	sgDxferToDev    = -2
	sgDxferFromDev  = -3
	sgFlagDirectIO  = 1
	sgInterfaceID   = 'S'
	senseBufferSize = 32
)

// SCSI ioctl v3 header, struct sg_io_hdr
type sgIoHdr struct {
	interfaceID    int32   // 'S' for SCSI generic (required)
	dxferDirection int32   // data transfer direction
	cmdLen         uint8   // SCSI command length (<= 16 bytes)
	mxSbLen        uint8   // max length to write to sbp
	iovecCount     uint16  // 0 implies no scatter gather
	dxferLen       uint32  // byte count of data transfer
	dxferp         uintptr // points to data transfer memory or scatter gather list
	cmdp           uintptr // points to command to perform
	sbp            uintptr // points to sense_buffer memory
	timeout        uint32  // MAX_UINT -> no timeout (unit: millisec)
	flags          uint32  // 0 -> default, see SG_FLAG...
	packID         int32   // unused internally (normally)
	usrPtr         uintptr // unused internally
	status         uint8   // SCSI status
	maskedStatus   uint8   // shifted, masked scsi status
	msgStatus      uint8   // messaging level data (optional)
	sbLenWr        uint8   // byte count actually written to sbp
	hostStatus     uint16  // errors from host adapter
	driverStatus   uint16  // errors from software driver
	resid          int32   // dxfer_len - actual_transferred
	duration       uint32  // time taken by cmd (unit: millisec)
	info           uint32  // auxiliary information
}

type sgTransport struct {
	fd      int
	timeout uint32
	// set once the driver has refused HDIO_DRIVE_CMD
	noHDIO bool
}

func openTransport(path string, cfg config) (transport, error) {
	flags := unix.O_RDWR
	if cfg.readOnly {
		flags = unix.O_RDONLY
	}
	fd, err := unix.Open(path, flags|unix.O_DIRECT|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return &sgTransport{fd: fd, timeout: cfg.timeoutMs()}, nil
}

func sgDirection(dir ata.Direction) int32 {
	switch dir {
	case ata.DirFromDevice:
		return sgDxferFromDev
	case ata.DirToDevice:
		return sgDxferToDev
	}
	return sgDxferNone
}

// packID tags a request with the low 31 bits of its LBA
func packID(lba uint64) int32 {
	return int32(lba & 0x7fffffff)
}

func (t *sgTransport) submit(cmd *ata.Command, data []byte) error {
	cdb := ata.PassThrough16(cmd)
	sense := make([]byte, senseBufferSize)

	var pinner runtime.Pinner
	defer pinner.Unpin()
	pinner.Pin(&cdb[0])
	pinner.Pin(&sense[0])

	hdr := sgIoHdr{
		interfaceID:    sgInterfaceID,
		dxferDirection: sgDirection(cmd.Dir),
		cmdLen:         uint8(len(cdb)),
		mxSbLen:        uint8(len(sense)),
		cmdp:           uintptr(unsafe.Pointer(&cdb[0])),
		sbp:            uintptr(unsafe.Pointer(&sense[0])),
		timeout:        t.timeout,
		flags:          sgFlagDirectIO,
		packID:         packID(cmd.LBA()),
	}
	if len(data) > 0 {
		pinner.Pin(&data[0])
		hdr.dxferLen = uint32(len(data))
		hdr.dxferp = uintptr(unsafe.Pointer(&data[0]))
	}

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(t.fd), sgIO, uintptr(unsafe.Pointer(&hdr)))
	if errno != 0 {
		return &TransportError{Op: "SG_IO", Err: errno}
	}
	return classifySG("SG_IO", hdr.status, hdr.hostStatus, hdr.driverStatus, sense[:min(int(hdr.sbLenWr), len(sense))])
}

func (t *sgTransport) identify(buf []byte) error {
	if !t.noHDIO {
		err := t.hdioIdentify(buf)
		if err == nil || !hdioUnsupported(err) {
			return err
		}
		t.noHDIO = true
	}
	return t.submit(ata.NewIdentifyDevice(), buf)
}

func (t *sgTransport) hdioIdentify(buf []byte) error {
	args := newHDIOIdentifyArgs()
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(t.fd), hdioDriveCmd, uintptr(unsafe.Pointer(args)))
	var err error
	if errno != 0 {
		err = errno
	}
	if err := classifyHDIO("HDIO_DRIVE_CMD", err, errno == unix.EIO, args); err != nil {
		return err
	}
	copy(buf, args.data[:])
	return nil
}

// drivers without the legacy IDE ioctls answer HDIO_DRIVE_CMD with one of these
func hdioUnsupported(err error) bool {
	return errors.Is(err, unix.ENOTTY) || errors.Is(err, unix.EINVAL) || errors.Is(err, unix.ENOSYS)
}

func (t *sgTransport) close() error {
	if t.fd < 0 {
		return nil
	}
	err := unix.Close(t.fd)
	t.fd = -1
	if err != nil {
		return &TransportError{Op: "close", Err: err}
	}
	return nil
}
