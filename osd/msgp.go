// Package osd implements the wire-level data model shared between object storage
// clients and storage daemons.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package osd

import (
	"github.com/NVIDIA/osdwire/cmn/cos"
	"github.com/tinylib/msgp/msgp"
)

// MessagePack records of ops and frames, for tooling (dumps, captures, and
// the like). The parameter block is carried as its packed wire bytes; ids,
// versions and timestamps as fixed-size arrays.

const frameMsgOverhead = 256 // fixed fields and keys, upper bound

var (
	_ msgp.Marshaler   = (*Op)(nil)
	_ msgp.Unmarshaler = (*Op)(nil)
	_ msgp.Sizer       = (*Op)(nil)
	_ msgp.Marshaler   = (*Request)(nil)
	_ msgp.Unmarshaler = (*Request)(nil)
	_ msgp.Marshaler   = (*Reply)(nil)
	_ msgp.Unmarshaler = (*Reply)(nil)
)

//
// Op
//

func (op *Op) Msgsize() int {
	return msgp.MapHeaderSize + 4*msgp.StringPrefixSize + len("code") + len("flags") + len("params") + len("payload") +
		msgp.Uint16Size + msgp.Uint32Size + 2*msgp.BytesPrefixSize + SizeofParams + len(op.Payload)
}

func (op *Op) MarshalMsg(b []byte) (o []byte, err error) {
	if err = op.validate(false); err != nil {
		return b, err
	}
	var params [SizeofParams]byte
	packParams(cos.NewPacker(params[:], SizeofParams), op.Params)

	o = msgp.Require(b, op.Msgsize())
	o = msgp.AppendMapHeader(o, 4)
	o = msgp.AppendString(o, "code")
	o = msgp.AppendUint16(o, uint16(op.Code))
	o = msgp.AppendString(o, "flags")
	o = msgp.AppendUint32(o, uint32(op.Flags))
	o = msgp.AppendString(o, "params")
	o = msgp.AppendBytes(o, params[:])
	o = msgp.AppendString(o, "payload")
	o = msgp.AppendBytes(o, op.Payload)
	return o, nil
}

func (op *Op) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var (
		field, params []byte
		n             uint32
	)
	if n, bts, err = msgp.ReadMapHeaderBytes(bts); err != nil {
		return bts, msgp.WrapError(err)
	}
	*op = Op{}
	for ; n > 0; n-- {
		if field, bts, err = msgp.ReadMapKeyZC(bts); err != nil {
			return bts, msgp.WrapError(err)
		}
		switch msgp.UnsafeString(field) {
		case "code":
			var v uint16
			v, bts, err = msgp.ReadUint16Bytes(bts)
			op.Code = OpCode(v)
		case "flags":
			var v uint32
			v, bts, err = msgp.ReadUint32Bytes(bts)
			op.Flags = OpFlags(v)
		case "params":
			params, bts, err = msgp.ReadBytesZC(bts)
		case "payload":
			op.Payload, bts, err = msgp.ReadBytesBytes(bts, nil)
		default:
			bts, err = msgp.Skip(bts)
		}
		if err != nil {
			return bts, msgp.WrapError(err, string(field))
		}
	}
	shape, ok := op.Code.Shape()
	if !ok {
		return bts, NewErrUnknownOp(op.Code)
	}
	if len(params) != SizeofParams {
		return bts, newErrFraming(op.Code.Name()+" params", SizeofParams, len(params), nil)
	}
	if op.Params, err = unpackParams(cos.NewUnpacker(params), shape); err != nil {
		return bts, err
	}
	if len(op.Payload) == 0 {
		op.Payload = nil
	}
	return bts, nil
}

func appendOps(o []byte, ops []Op) (_ []byte, err error) {
	o = msgp.AppendArrayHeader(o, uint32(len(ops)))
	for i := range ops {
		if o, err = ops[i].MarshalMsg(o); err != nil {
			return o, err
		}
	}
	return o, nil
}

func readOps(bts []byte) (ops []Op, o []byte, err error) {
	var n uint32
	if n, bts, err = msgp.ReadArrayHeaderBytes(bts); err != nil {
		return nil, bts, err
	}
	if n == 0 {
		return nil, bts, nil
	}
	if int64(n) > int64(DefaultLimits.MaxOps) {
		return nil, bts, errExceeds("num_ops", int(n), DefaultLimits.MaxOps)
	}
	ops = make([]Op, n)
	for i := range ops {
		if bts, err = ops[i].UnmarshalMsg(bts); err != nil {
			return nil, bts, err
		}
	}
	return ops, bts, nil
}

func opsMsgsize(ops []Op) (size int) {
	size = msgp.ArrayHeaderSize
	for i := range ops {
		size += ops[i].Msgsize()
	}
	return
}

//
// tuples
//

func appendLayout(o []byte, ol *ObjectLayout) []byte {
	o = msgp.AppendArrayHeader(o, 4)
	o = msgp.AppendUint32(o, ol.PG.Pool)
	o = msgp.AppendUint16(o, ol.PG.Seed)
	o = msgp.AppendUint16(o, ol.PG.Preferred)
	return msgp.AppendUint32(o, ol.StripeUnit)
}

func readLayout(bts []byte, ol *ObjectLayout) (o []byte, err error) {
	if bts, err = readTuple(bts, 4); err != nil {
		return bts, err
	}
	if ol.PG.Pool, bts, err = msgp.ReadUint32Bytes(bts); err != nil {
		return bts, err
	}
	if ol.PG.Seed, bts, err = msgp.ReadUint16Bytes(bts); err != nil {
		return bts, err
	}
	if ol.PG.Preferred, bts, err = msgp.ReadUint16Bytes(bts); err != nil {
		return bts, err
	}
	ol.StripeUnit, bts, err = msgp.ReadUint32Bytes(bts)
	return bts, err
}

func appendEVersion(o []byte, ev EVersion) []byte {
	o = msgp.AppendArrayHeader(o, 2)
	o = msgp.AppendUint32(o, ev.Epoch)
	return msgp.AppendUint64(o, ev.Version)
}

func readEVersion(bts []byte, ev *EVersion) (o []byte, err error) {
	if bts, err = readTuple(bts, 2); err != nil {
		return bts, err
	}
	if ev.Epoch, bts, err = msgp.ReadUint32Bytes(bts); err != nil {
		return bts, err
	}
	ev.Version, bts, err = msgp.ReadUint64Bytes(bts)
	return bts, err
}

func appendTimespec(o []byte, ts Timespec) []byte {
	o = msgp.AppendArrayHeader(o, 2)
	o = msgp.AppendUint32(o, ts.Sec)
	return msgp.AppendUint32(o, ts.Nsec)
}

func readTimespec(bts []byte, ts *Timespec) (o []byte, err error) {
	if bts, err = readTuple(bts, 2); err != nil {
		return bts, err
	}
	if ts.Sec, bts, err = msgp.ReadUint32Bytes(bts); err != nil {
		return bts, err
	}
	ts.Nsec, bts, err = msgp.ReadUint32Bytes(bts)
	return bts, err
}

func readTuple(bts []byte, want uint32) ([]byte, error) {
	n, o, err := msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return bts, err
	}
	if n != want {
		return bts, msgp.ArrayError{Wanted: want, Got: n}
	}
	return o, nil
}

//
// Request
//

func (req *Request) Msgsize() int { return frameMsgOverhead + len(req.Object) + opsMsgsize(req.Ops) }

func (req *Request) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.Require(b, req.Msgsize())
	o = msgp.AppendMapHeader(o, 9)
	o = msgp.AppendString(o, "object")
	o = msgp.AppendString(o, req.Object)
	o = msgp.AppendString(o, "ops")
	if o, err = appendOps(o, req.Ops); err != nil {
		return b, err
	}
	o = msgp.AppendString(o, "layout")
	o = appendLayout(o, &req.Layout)
	o = msgp.AppendString(o, "client_inc")
	o = msgp.AppendUint32(o, req.ClientInc)
	o = msgp.AppendString(o, "flags")
	o = msgp.AppendUint32(o, uint32(req.Flags))
	o = msgp.AppendString(o, "epoch")
	o = msgp.AppendUint32(o, req.OSDMapEpoch)
	o = msgp.AppendString(o, "snapid")
	o = msgp.AppendUint64(o, uint64(req.SnapID))
	o = msgp.AppendString(o, "mtime")
	o = appendTimespec(o, req.MTime)
	o = msgp.AppendString(o, "reassert")
	o = appendEVersion(o, req.Reassert)
	return o, nil
}

func (req *Request) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var (
		field []byte
		n     uint32
	)
	if n, bts, err = msgp.ReadMapHeaderBytes(bts); err != nil {
		return bts, msgp.WrapError(err)
	}
	*req = Request{}
	for ; n > 0; n-- {
		if field, bts, err = msgp.ReadMapKeyZC(bts); err != nil {
			return bts, msgp.WrapError(err)
		}
		switch msgp.UnsafeString(field) {
		case "object":
			req.Object, bts, err = msgp.ReadStringBytes(bts)
		case "ops":
			req.Ops, bts, err = readOps(bts)
		case "layout":
			bts, err = readLayout(bts, &req.Layout)
		case "client_inc":
			req.ClientInc, bts, err = msgp.ReadUint32Bytes(bts)
		case "flags":
			var v uint32
			v, bts, err = msgp.ReadUint32Bytes(bts)
			req.Flags = Flags(v)
		case "epoch":
			req.OSDMapEpoch, bts, err = msgp.ReadUint32Bytes(bts)
		case "snapid":
			var v uint64
			v, bts, err = msgp.ReadUint64Bytes(bts)
			req.SnapID = SnapID(v)
		case "mtime":
			bts, err = readTimespec(bts, &req.MTime)
		case "reassert":
			bts, err = readEVersion(bts, &req.Reassert)
		default:
			bts, err = msgp.Skip(bts)
		}
		if err != nil {
			return bts, msgp.WrapError(err, string(field))
		}
	}
	return bts, nil
}

//
// Reply
//

func (reply *Reply) Msgsize() int { return frameMsgOverhead + len(reply.Object) + opsMsgsize(reply.Ops) }

func (reply *Reply) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.Require(b, reply.Msgsize())
	o = msgp.AppendMapHeader(o, 8)
	o = msgp.AppendString(o, "client_inc")
	o = msgp.AppendUint32(o, reply.ClientInc)
	o = msgp.AppendString(o, "flags")
	o = msgp.AppendUint32(o, uint32(reply.Flags))
	o = msgp.AppendString(o, "layout")
	o = appendLayout(o, &reply.Layout)
	o = msgp.AppendString(o, "epoch")
	o = msgp.AppendUint32(o, reply.OSDMapEpoch)
	o = msgp.AppendString(o, "version")
	o = appendEVersion(o, reply.Version)
	o = msgp.AppendString(o, "result")
	o = msgp.AppendInt32(o, reply.Result)
	o = msgp.AppendString(o, "object")
	o = msgp.AppendString(o, reply.Object)
	o = msgp.AppendString(o, "ops")
	if o, err = appendOps(o, reply.Ops); err != nil {
		return b, err
	}
	return o, nil
}

func (reply *Reply) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var (
		field []byte
		n     uint32
	)
	if n, bts, err = msgp.ReadMapHeaderBytes(bts); err != nil {
		return bts, msgp.WrapError(err)
	}
	*reply = Reply{}
	for ; n > 0; n-- {
		if field, bts, err = msgp.ReadMapKeyZC(bts); err != nil {
			return bts, msgp.WrapError(err)
		}
		switch msgp.UnsafeString(field) {
		case "client_inc":
			reply.ClientInc, bts, err = msgp.ReadUint32Bytes(bts)
		case "flags":
			var v uint32
			v, bts, err = msgp.ReadUint32Bytes(bts)
			reply.Flags = Flags(v)
		case "layout":
			bts, err = readLayout(bts, &reply.Layout)
		case "epoch":
			reply.OSDMapEpoch, bts, err = msgp.ReadUint32Bytes(bts)
		case "version":
			bts, err = readEVersion(bts, &reply.Version)
		case "result":
			reply.Result, bts, err = msgp.ReadInt32Bytes(bts)
		case "object":
			reply.Object, bts, err = msgp.ReadStringBytes(bts)
		case "ops":
			reply.Ops, bts, err = readOps(bts)
		default:
			bts, err = msgp.Skip(bts)
		}
		if err != nil {
			return bts, msgp.WrapError(err, string(field))
		}
	}
	return bts, nil
}
