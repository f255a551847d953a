// Package osd implements the wire-level data model shared between object storage
// clients and storage daemons.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package osd

import (
	"math"
	"strconv"

	"github.com/NVIDIA/osdwire/cmn/cos"
	"github.com/NVIDIA/osdwire/cmn/debug"
)

// Request frame:
//   u32 object_len | object | u32 num_ops | ops (header + payload each) |
//   layout | u32 client_inc | u32 flags | u32 osdmap_epoch | u64 snapid |
//   mtime | reassert version
//
// Reply frame:
//   u32 client_inc | u32 flags | layout | u32 osdmap_epoch | version |
//   i32 result | u32 object_len | u32 num_ops | ops | object
//
// Both are decoded strictly: the buffer must be consumed exactly.

const (
	// ReplyHdrSize is the fixed part of a reply, up to and including num_ops.
	ReplyHdrSize = 2*cos.SizeofI32 + SizeofObjectLayout + cos.SizeofI32 + SizeofEVersion + 3*cos.SizeofI32

	// requestTailSize follows the ops of a request.
	requestTailSize = SizeofObjectLayout + 3*cos.SizeofI32 + SizeofSnapID + SizeofTimespec + SizeofEVersion
)

type (
	Request struct {
		Object      string       `json:"object"`
		Ops         []Op         `json:"ops"`
		Layout      ObjectLayout `json:"layout"`
		ClientInc   uint32       `json:"client_inc"`
		Flags       Flags        `json:"flags"`
		OSDMapEpoch uint32       `json:"osdmap_epoch"`
		SnapID      SnapID       `json:"snapid"`
		MTime       Timespec     `json:"mtime"`
		Reassert    EVersion     `json:"reassert_version"`
	}
	Reply struct {
		Object      string       `json:"object"`
		Ops         []Op         `json:"ops"`
		Layout      ObjectLayout `json:"layout"`
		Version     EVersion     `json:"version"`
		ClientInc   uint32       `json:"client_inc"`
		Flags       Flags        `json:"flags"`
		OSDMapEpoch uint32       `json:"osdmap_epoch"`
		Result      int32        `json:"result"`
	}

	// Limits bound what a Codec accepts (and produces).
	Limits struct {
		MaxOps        int
		MaxObjNameLen int
		MaxPayload    int
		MaxFrame      int
	}

	// Codec encodes and decodes request and reply frames; the zero value is
	// not usable - see NewCodec. A Codec is safe for concurrent use.
	Codec struct {
		lim Limits
	}
)

var DefaultLimits = Limits{
	MaxOps:        1024,
	MaxObjNameLen: 4096,
	MaxPayload:    256 * cos.MiB,
	MaxFrame:      512 * cos.MiB,
}

var defaultCodec = NewCodec(DefaultLimits)

func NewCodec(lim Limits) *Codec {
	debug.Assert(lim.MaxOps > 0 && lim.MaxFrame > 0, lim)
	lim.MaxFrame = min(lim.MaxFrame, math.MaxInt32)
	return &Codec{lim: lim}
}

func (c *Codec) Limits() Limits { return c.lim }

func EncodeRequest(req *Request) ([]byte, error) { return defaultCodec.AppendRequest(nil, req) }
func DecodeRequest(buf []byte) (*Request, error) { return defaultCodec.DecodeRequest(buf) }
func EncodeReply(reply *Reply) ([]byte, error)   { return defaultCodec.AppendReply(nil, reply) }
func DecodeReply(buf []byte) (*Reply, error)     { return defaultCodec.DecodeReply(buf) }

//
// validation (encode side; runs before a single byte is written)
//

func (c *Codec) checkOps(ops []Op, strict bool) (size int, err error) {
	if len(ops) > c.lim.MaxOps {
		return 0, errExceeds("num_ops", len(ops), c.lim.MaxOps)
	}
	for i := range ops {
		op := &ops[i]
		if err = op.validate(strict); err != nil {
			return 0, err
		}
		if len(op.Payload) > c.lim.MaxPayload {
			return 0, errExceeds(op.Code.String()+" payload", len(op.Payload), c.lim.MaxPayload)
		}
		size += op.PackedSize()
	}
	return size, nil
}

func (c *Codec) checkFrame(object string, size int) error {
	if len(object) > c.lim.MaxObjNameLen {
		return errExceeds("object name length", len(object), c.lim.MaxObjNameLen)
	}
	if size > c.lim.MaxFrame {
		return errExceeds("frame size", size, c.lim.MaxFrame)
	}
	return nil
}

// grow returns dst extended by n bytes, and the packer over the new tail.
func grow(dst []byte, n int) ([]byte, *cos.BytePack) {
	l := len(dst)
	if cap(dst)-l < n {
		nb := make([]byte, l, l+n)
		copy(nb, dst)
		dst = nb
	}
	dst = dst[:l+n]
	return dst, cos.NewPacker(dst[l:], n)
}

//
// Request
//

func (req *Request) PackedSize() (size int) {
	size = cos.PackedStrLen(req.Object) + cos.SizeofI32 + requestTailSize
	for i := range req.Ops {
		size += req.Ops[i].PackedSize()
	}
	return
}

// Pack writes a validated request.
func (req *Request) Pack(wr *cos.BytePack) {
	wr.WriteString(req.Object)
	wr.WriteUint32(uint32(len(req.Ops)))
	for i := range req.Ops {
		req.Ops[i].Pack(wr)
	}
	req.Layout.Pack(wr)
	wr.WriteUint32(req.ClientInc)
	wr.WriteUint32(uint32(req.Flags))
	wr.WriteUint32(req.OSDMapEpoch)
	wr.WriteUint64(uint64(req.SnapID))
	req.MTime.Pack(wr)
	req.Reassert.Pack(wr)
}

// AppendRequest appends the encoded request to dst. On error dst is returned
// unchanged (and unmodified).
func (c *Codec) AppendRequest(dst []byte, req *Request) ([]byte, error) {
	opsSize, err := c.checkOps(req.Ops, true)
	if err != nil {
		return dst, err
	}
	size := cos.PackedStrLen(req.Object) + cos.SizeofI32 + opsSize + requestTailSize
	if err = c.checkFrame(req.Object, size); err != nil {
		return dst, err
	}
	out, wr := grow(dst, size)
	req.Pack(wr)
	debug.Assert(wr.Off() == size, wr.Off(), size)
	return out, nil
}

func (c *Codec) DecodeRequest(buf []byte) (*Request, error) {
	if len(buf) > c.lim.MaxFrame {
		return nil, errExceeds("frame size", len(buf), c.lim.MaxFrame)
	}
	var (
		req Request
		rd  = cos.NewUnpacker(buf)
	)
	// object
	if rd.Len() < cos.SizeofLen {
		return nil, newErrFraming("request", cos.SizeofLen, rd.Len(), nil)
	}
	olen, _ := rd.ReadUint32()
	if int64(olen) > int64(c.lim.MaxObjNameLen) {
		return nil, errExceeds("object name length", int(olen), c.lim.MaxObjNameLen)
	}
	if int(olen) > rd.Len() {
		return nil, newErrFraming("request object name", int(olen), rd.Len(), nil)
	}
	name, _ := rd.ReadRaw(int(olen))
	req.Object = string(name)

	// ops
	if rd.Len() < cos.SizeofI32 {
		return nil, newErrFraming("request", cos.SizeofI32, rd.Len(), nil)
	}
	numOps, _ := rd.ReadUint32()
	ops, err := c.unpackOps(rd, numOps, requestTailSize, true)
	if err != nil {
		return nil, err
	}
	req.Ops = ops

	// tail
	if rd.Len() != requestTailSize {
		return nil, newErrFraming("request", rd.Off()+requestTailSize, len(buf), nil)
	}
	err = req.unpackTail(rd)
	debug.AssertNoErr(err)
	return &req, nil
}

func (req *Request) unpackTail(rd *cos.ByteUnpack) (err error) {
	var (
		flags uint32
		snap  uint64
	)
	if err = req.Layout.Unpack(rd); err != nil {
		return
	}
	if req.ClientInc, err = rd.ReadUint32(); err != nil {
		return
	}
	if flags, err = rd.ReadUint32(); err != nil {
		return
	}
	req.Flags = Flags(flags)
	if req.OSDMapEpoch, err = rd.ReadUint32(); err != nil {
		return
	}
	if snap, err = rd.ReadUint64(); err != nil {
		return
	}
	req.SnapID = SnapID(snap)
	if err = req.MTime.Unpack(rd); err != nil {
		return
	}
	return req.Reassert.Unpack(rd)
}

// unpackOps decodes numOps ops, with at least `reserve` bytes to follow them.
func (c *Codec) unpackOps(rd *cos.ByteUnpack, numOps uint32, reserve int, strict bool) ([]Op, error) {
	if int64(numOps) > int64(c.lim.MaxOps) {
		return nil, errExceeds("num_ops", int(numOps), c.lim.MaxOps)
	}
	// the fixed part alone must fit before allocating anything
	if need := int64(numOps)*int64(OpHdrSize) + int64(reserve); need > int64(rd.Len()) {
		return nil, newErrFraming(strconv.FormatUint(uint64(numOps), 10)+" op(s)", int(need), rd.Len(), nil)
	}
	if numOps == 0 {
		return nil, nil
	}
	ops := make([]Op, numOps)
	for i := range ops {
		op, err := unpackOp(rd, c.lim.MaxPayload, strict)
		if err != nil {
			return nil, err
		}
		ops[i] = op
	}
	return ops, nil
}

//
// Reply
//

func (reply *Reply) PackedSize() (size int) {
	size = ReplyHdrSize + len(reply.Object)
	for i := range reply.Ops {
		size += reply.Ops[i].PackedSize()
	}
	return
}

// Pack writes a validated reply.
func (reply *Reply) Pack(wr *cos.BytePack) {
	wr.WriteUint32(reply.ClientInc)
	wr.WriteUint32(uint32(reply.Flags))
	reply.Layout.Pack(wr)
	wr.WriteUint32(reply.OSDMapEpoch)
	reply.Version.Pack(wr)
	wr.WriteInt32(reply.Result)
	wr.WriteUint32(uint32(len(reply.Object)))
	wr.WriteUint32(uint32(len(reply.Ops)))
	for i := range reply.Ops {
		reply.Ops[i].Pack(wr)
	}
	wr.WriteRaw([]byte(reply.Object))
}

// AppendReply appends the encoded reply to dst. Reply payloads are outdata:
// the parameter blocks are not checked against payload lengths.
func (c *Codec) AppendReply(dst []byte, reply *Reply) ([]byte, error) {
	opsSize, err := c.checkOps(reply.Ops, false)
	if err != nil {
		return dst, err
	}
	size := ReplyHdrSize + opsSize + len(reply.Object)
	if err = c.checkFrame(reply.Object, size); err != nil {
		return dst, err
	}
	out, wr := grow(dst, size)
	reply.Pack(wr)
	debug.Assert(wr.Off() == size, wr.Off(), size)
	return out, nil
}

func (c *Codec) DecodeReply(buf []byte) (*Reply, error) {
	if len(buf) > c.lim.MaxFrame {
		return nil, errExceeds("frame size", len(buf), c.lim.MaxFrame)
	}
	if len(buf) < ReplyHdrSize {
		return nil, newErrFraming("reply header", ReplyHdrSize, len(buf), nil)
	}
	var (
		reply  Reply
		olen   uint32
		numOps uint32
		rd     = cos.NewUnpacker(buf)
	)
	err := reply.unpackHdr(rd, &olen, &numOps)
	debug.AssertNoErr(err)
	if int64(olen) > int64(c.lim.MaxObjNameLen) {
		return nil, errExceeds("object name length", int(olen), c.lim.MaxObjNameLen)
	}
	ops, err := c.unpackOps(rd, numOps, int(olen), false)
	if err != nil {
		return nil, err
	}
	reply.Ops = ops

	// what remains is the object name, exactly
	if rd.Len() != int(olen) {
		return nil, newErrFraming("reply", rd.Off()+int(olen), len(buf), nil)
	}
	name, _ := rd.ReadRaw(int(olen))
	reply.Object = string(name)
	return &reply, nil
}

func (reply *Reply) unpackHdr(rd *cos.ByteUnpack, olen, numOps *uint32) (err error) {
	var flags uint32
	if reply.ClientInc, err = rd.ReadUint32(); err != nil {
		return
	}
	if flags, err = rd.ReadUint32(); err != nil {
		return
	}
	reply.Flags = Flags(flags)
	if err = reply.Layout.Unpack(rd); err != nil {
		return
	}
	if reply.OSDMapEpoch, err = rd.ReadUint32(); err != nil {
		return
	}
	if err = reply.Version.Unpack(rd); err != nil {
		return
	}
	if reply.Result, err = rd.ReadInt32(); err != nil {
		return
	}
	if *olen, err = rd.ReadUint32(); err != nil {
		return
	}
	*numOps, err = rd.ReadUint32()
	return
}
