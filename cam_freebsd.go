// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

//go:build freebsd && cgo

package rawata

/*
#cgo LDFLAGS: -lcam
#include <fcntl.h>
#include <stdlib.h>
#include <camlib.h>
#include <cam/cam.h>
#include <cam/cam_ccb.h>
#include <cam/ata/ata_all.h>

static void rawata_ataio_hdr(union ccb *ccb, uint32_t flags, uint32_t retries, uint32_t timeout) {
	ccb->ccb_h.func_code = XPT_ATA_IO;
	ccb->ccb_h.flags = flags;
	ccb->ccb_h.retry_count = retries;
	ccb->ccb_h.timeout = timeout;
	ccb->ccb_h.cbfcnp = NULL;
}

static const char *rawata_cam_errbuf(void) {
	return cam_errbuf;
}
*/
import "C"

import (
	"errors"
	"os"
	"runtime"
	"unsafe"

	"github.com/lf-edge/eve/pkg/rawata/ata"
)

type camTransport struct {
	dev     *C.struct_cam_device
	ccb     *C.union_ccb
	timeout uint32
	retries uint32
}

func camError() error {
	return errors.New(C.GoString(C.rawata_cam_errbuf()))
}

func openTransport(path string, cfg config) (transport, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	var devName [C.DEV_IDLEN + 1]C.char
	var unit C.int
	if C.cam_get_device(cpath, &devName[0], C.int(len(devName)), &unit) == -1 {
		return nil, &os.PathError{Op: "open", Path: path, Err: camError()}
	}
	dev, err := C.cam_open_spec_device(&devName[0], unit, C.O_RDWR, nil)
	if dev == nil {
		if err == nil {
			err = camError()
		}
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	ccb := C.cam_getccb(dev)
	if ccb == nil {
		C.cam_close_device(dev)
		return nil, &os.PathError{Op: "open", Path: path, Err: errors.New("cam_getccb failed")}
	}
	return &camTransport{
		dev:     dev,
		ccb:     ccb,
		timeout: cfg.timeoutMs(),
		retries: uint32(cfg.retries),
	}, nil
}

func (t *camTransport) submit(cmd *ata.Command, data []byte) error {
	return t.send("XPT_ATA_IO", cmd, data)
}

func (t *camTransport) identify(buf []byte) error {
	return t.send("XPT_ATA_IO IDENTIFY", ata.NewIdentifyDevice(), buf)
}

func (t *camTransport) send(op string, cmd *ata.Command, data []byte) error {
	if t.ccb == nil {
		return &TransportError{Op: op, Err: ErrClosed}
	}
	clearExceptHeader(unsafe.Slice((*byte)(unsafe.Pointer(t.ccb)), int(C.sizeof_union_ccb)),
		int(C.sizeof_struct_ccb_hdr))

	flags := uint32(C.CAM_DEV_QFRZDIS)
	switch cmd.Dir {
	case ata.DirFromDevice:
		flags |= C.CAM_DIR_IN
	case ata.DirToDevice:
		flags |= C.CAM_DIR_OUT
	default:
		flags |= C.CAM_DIR_NONE
	}
	C.rawata_ataio_hdr(t.ccb, C.uint32_t(flags), C.uint32_t(t.retries), C.uint32_t(t.timeout))

	ataio := (*C.struct_ccb_ataio)(unsafe.Pointer(t.ccb))
	ataFlags := C.CAM_ATAIO_NEEDRESULT
	if cmd.Extend {
		ataFlags |= C.CAM_ATAIO_48BIT
	}
	if cmd.Protocol == ata.ProtocolDMA {
		ataFlags |= C.CAM_ATAIO_DMA
	}
	ataio.cmd.flags = C.u_int8_t(ataFlags)
	ataio.cmd.command = C.u_int8_t(cmd.Command)
	ataio.cmd.features = C.u_int8_t(cmd.Features)
	ataio.cmd.features_exp = C.u_int8_t(cmd.FeaturesExp)
	ataio.cmd.sector_count = C.u_int8_t(cmd.SectorCount)
	ataio.cmd.sector_count_exp = C.u_int8_t(cmd.SectorCountExp)
	ataio.cmd.lba_low = C.u_int8_t(cmd.LBALow)
	ataio.cmd.lba_mid = C.u_int8_t(cmd.LBAMid)
	ataio.cmd.lba_high = C.u_int8_t(cmd.LBAHigh)
	ataio.cmd.lba_low_exp = C.u_int8_t(cmd.LBALowExp)
	ataio.cmd.lba_mid_exp = C.u_int8_t(cmd.LBAMidExp)
	ataio.cmd.lba_high_exp = C.u_int8_t(cmd.LBAHighExp)
	ataio.cmd.device = C.u_int8_t(cmd.Device)
	ataio.cmd.control = C.u_int8_t(cmd.Control)

	var pinner runtime.Pinner
	defer pinner.Unpin()
	if len(data) > 0 {
		pinner.Pin(&data[0])
		ataio.data_ptr = (*C.u_int8_t)(unsafe.Pointer(&data[0]))
		ataio.dxfer_len = C.u_int32_t(len(data))
	}
	// the CCB must not keep a Go pointer past this call
	defer func() {
		ataio.data_ptr = nil
		ataio.dxfer_len = 0
	}()

	if rc, err := C.cam_send_ccb(t.dev, t.ccb); rc < 0 {
		if err == nil {
			err = camError()
		}
		return &TransportError{Op: op, Err: err}
	}
	status := camStatus(uint32(ataio.ccb_h.status) & C.CAM_STATUS_MASK)
	return classifyCAM(op, status, uint8(ataio.res.status), uint8(ataio.res.error))
}

func (t *camTransport) close() error {
	if t.ccb != nil {
		C.cam_freeccb(t.ccb)
		t.ccb = nil
	}
	if t.dev != nil {
		C.cam_close_device(t.dev)
		t.dev = nil
	}
	return nil
}
