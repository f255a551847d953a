// Package cos_test: unit tests
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/NVIDIA/osdwire/cmn/cos"
	"github.com/NVIDIA/osdwire/tools/tassert"
)

type testRec struct {
	name  string
	raw   []byte
	id    uint64
	epoch uint32
	code  uint16
	res   int32
	kind  byte
}

func (r *testRec) PackedSize() int {
	return cos.SizeofI8 + cos.SizeofI16 + 2*cos.SizeofI32 + cos.SizeofI64 + cos.PackedStrLen(r.name) +
		cos.SizeofLen + len(r.raw) + 4
}

func (r *testRec) Pack(wr *cos.BytePack) {
	wr.WriteByte(r.kind)
	wr.WriteUint16(r.code)
	wr.WriteUint32(r.epoch)
	wr.WriteInt32(r.res)
	wr.WriteUint64(r.id)
	wr.WriteString(r.name)
	wr.WriteBytes(r.raw)
	wr.WriteZeros(4)
}

func (r *testRec) Unpack(rd *cos.ByteUnpack) (err error) {
	if r.kind, err = rd.ReadByte(); err != nil {
		return
	}
	if r.code, err = rd.ReadUint16(); err != nil {
		return
	}
	if r.epoch, err = rd.ReadUint32(); err != nil {
		return
	}
	if r.res, err = rd.ReadInt32(); err != nil {
		return
	}
	if r.id, err = rd.ReadUint64(); err != nil {
		return
	}
	if r.name, err = rd.ReadString(); err != nil {
		return
	}
	if r.raw, err = rd.ReadBytes(); err != nil {
		return
	}
	return rd.Skip(4)
}

func TestBytePackRoundTrip(t *testing.T) {
	in := &testRec{kind: 7, code: 0x1201, epoch: 42, res: -2, id: 1 << 40, name: "rbd_data.1", raw: []byte{1, 2, 3}}
	wr := cos.NewPacker(nil, in.PackedSize())
	wr.WriteAny(in)
	tassert.Fatalf(t, wr.Off() == in.PackedSize(), "packed %d, declared %d", wr.Off(), in.PackedSize())

	b := wr.Bytes()
	// little-endian
	tassert.Errorf(t, b[1] == 0x01 && b[2] == 0x12, "code bytes %x", b[1:3])
	tassert.Errorf(t, bytes.Equal(b[7:11], []byte{0xfe, 0xff, 0xff, 0xff}), "result bytes %x", b[7:11])

	var out testRec
	rd := cos.NewUnpacker(b)
	tassert.CheckFatal(t, rd.ReadAny(&out))
	tassert.Errorf(t, rd.Len() == 0, "%d bytes left", rd.Len())
	tassert.Errorf(t, out.kind == in.kind && out.code == in.code && out.epoch == in.epoch && out.res == in.res &&
		out.id == in.id && out.name == in.name && bytes.Equal(out.raw, in.raw), "%+v != %+v", out, in)
}

func TestByteUnpackUnderrun(t *testing.T) {
	in := &testRec{name: "x", raw: []byte("yz")}
	wr := cos.NewPacker(nil, in.PackedSize())
	in.Pack(wr)
	b := wr.Bytes()
	for n := range len(b) {
		var out testRec
		err := out.Unpack(cos.NewUnpacker(b[:n]))
		tassert.Fatalf(t, errors.Is(err, cos.ErrBufferUnderrun), "len %d: expected underrun, got %v", n, err)
	}
}

func TestByteUnpackRaw(t *testing.T) {
	rd := cos.NewUnpacker([]byte{1, 2, 3, 4, 5})
	raw, err := rd.ReadRaw(3)
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, cap(raw) == 3, "raw slice must be capped, cap=%d", cap(raw))
	tassert.Errorf(t, rd.Off() == 3 && rd.Len() == 2, "off %d len %d", rd.Off(), rd.Len())

	_, err = rd.ReadRaw(3)
	tassert.Errorf(t, err == cos.ErrBufferUnderrun, "expected underrun, got %v", err)
	_, err = rd.ReadRaw(-1)
	tassert.Errorf(t, err == cos.ErrBufferUnderrun, "expected underrun, got %v", err)
	tassert.Errorf(t, rd.Skip(3) == cos.ErrBufferUnderrun, "skip past end")
	tassert.CheckFatal(t, rd.Skip(2))
	tassert.Errorf(t, rd.Len() == 0, "len %d", rd.Len())
}

func TestByteUnpackHugeLength(t *testing.T) {
	// length prefix larger than the remaining bytes
	rd := cos.NewUnpacker([]byte{0xff, 0xff, 0xff, 0xff, 'a'})
	_, err := rd.ReadBytes()
	tassert.Errorf(t, err == cos.ErrBufferUnderrun, "expected underrun, got %v", err)
}
