// Package osd implements the wire-level data model shared between object storage
// clients and storage daemons.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package osd

import (
	"math"

	"github.com/NVIDIA/osdwire/cmn/cos"
	"github.com/NVIDIA/osdwire/cmn/debug"
)

// OpHdrSize is the fixed size of an encoded op: code, flags, parameter union,
// and payload length. The payload follows.
const OpHdrSize = cos.SizeofI16 + cos.SizeofI32 + SizeofParams + cos.SizeofI32

// Op is a single unit of work carried in a request or a reply.
// Params must be of the shape selected by Code (nil for ShapeNone).
// Decoded ops reference (do not copy) the source buffer's payload bytes.
type Op struct {
	Params  Params
	Payload []byte
	Flags   OpFlags
	Code    OpCode
}

func (op *Op) PackedSize() int { return OpHdrSize + len(op.Payload) }

// Pack writes a validated op (see Validate).
func (op *Op) Pack(wr *cos.BytePack) {
	wr.WriteUint16(uint16(op.Code))
	wr.WriteUint32(uint32(op.Flags))
	packParams(wr, op.Params)
	wr.WriteUint32(uint32(len(op.Payload)))
	wr.WriteRaw(op.Payload)
}

// Validate checks catalog membership, the parameter-block shape, and the
// consistency of the declared lengths with the payload.
func (op *Op) Validate() error { return op.validate(true) }

func (op *Op) validate(strict bool) error {
	shape, ok := op.Code.Shape()
	if !ok {
		return NewErrUnknownOp(op.Code)
	}
	if got := shapeOf(op.Params); got != shape {
		return &ErrVariant{Code: op.Code, Want: shape, Got: got}
	}
	if uint64(len(op.Payload)) > math.MaxUint32 {
		return &ErrPayloadLen{Code: op.Code, Declared: math.MaxUint32, Actual: len(op.Payload)}
	}
	if strict {
		return op.checkPayload()
	}
	return nil
}

// DeclaredPayload returns the payload length implied by the parameter block,
// if the op's shape and code imply one.
func (op *Op) DeclaredPayload() (uint64, bool) {
	switch p := op.Params.(type) {
	case Xattr:
		return uint64(p.NameLen) + uint64(p.ValueLen), true
	case Cls:
		return uint64(p.ClassLen) + uint64(p.MethodLen) + uint64(p.IndataLen), true
	case WriteSame:
		return p.DataLength, true
	case Checksum:
		if n := p.Type.DigestSize(); n > 0 {
			return uint64(n), true // init value
		}
	case Extent:
		switch op.Code {
		case OpWrite, OpWriteFull, OpAppend, OpCmpExt:
			return p.Length, true
		}
	}
	return 0, false
}

func (op *Op) checkPayload() error {
	if declared, ok := op.DeclaredPayload(); ok && declared != uint64(len(op.Payload)) {
		return &ErrPayloadLen{Code: op.Code, Declared: declared, Actual: len(op.Payload)}
	}
	return nil
}

// Encode validates the op and returns its wire bytes.
func (op *Op) Encode() ([]byte, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}
	wr := cos.NewPacker(nil, op.PackedSize())
	op.Pack(wr)
	return wr.Bytes(), nil
}

// DecodeOp decodes a single op from the beginning of buf and returns the
// number of bytes consumed.
func DecodeOp(buf []byte) (op Op, n int, err error) {
	rd := cos.NewUnpacker(buf)
	if op, err = unpackOp(rd, DefaultLimits.MaxPayload, true); err != nil {
		return Op{}, 0, err
	}
	return op, rd.Off(), nil
}

// unpackOp never returns a partially decoded op; strict enables the payload
// consistency check (requests only: reply payloads are outdata).
func unpackOp(rd *cos.ByteUnpack, maxPayload int, strict bool) (op Op, err error) {
	if rd.Len() < OpHdrSize {
		return op, newErrFraming("op header", OpHdrSize, rd.Len(), nil)
	}
	var (
		code, _  = rd.ReadUint16()
		flags, _ = rd.ReadUint32()
	)
	op.Code, op.Flags = OpCode(code), OpFlags(flags)
	shape, ok := op.Code.Shape()
	if !ok {
		return Op{}, newErrFraming("op header", 0, 0, NewErrUnknownOp(op.Code))
	}
	if op.Params, err = unpackParams(rd, shape); err != nil {
		return Op{}, err
	}

	plen, _ := rd.ReadUint32()
	switch {
	case int64(plen) > int64(maxPayload):
		return Op{}, errExceeds(op.Code.String()+" payload", int(plen), maxPayload)
	case int64(plen) > int64(rd.Len()):
		return Op{}, newErrFraming(op.Code.Name()+" payload", int(plen), rd.Len(), nil)
	case plen > 0:
		op.Payload, err = rd.ReadRaw(int(plen))
		debug.AssertNoErr(err)
	}
	if strict {
		if err = op.checkPayload(); err != nil {
			return Op{}, newErrFraming(op.Code.Name()+" payload", 0, 0, err)
		}
	}
	return op, nil
}

//
// CALL
//

func (op *Op) callParts() (cls Cls, ok bool) {
	if op.Code != OpCall {
		return
	}
	if cls, ok = op.Params.(Cls); !ok {
		return
	}
	need := uint64(cls.ClassLen) + uint64(cls.MethodLen) + uint64(cls.IndataLen)
	ok = need == uint64(len(op.Payload))
	return
}

// ClassName returns the class part of a CALL payload ("" otherwise).
func (op *Op) ClassName() string {
	cls, ok := op.callParts()
	if !ok {
		return ""
	}
	return string(op.Payload[:cls.ClassLen])
}

// MethodName returns the method part of a CALL payload ("" otherwise).
func (op *Op) MethodName() string {
	cls, ok := op.callParts()
	if !ok {
		return ""
	}
	return string(op.Payload[cls.ClassLen : int(cls.ClassLen)+int(cls.MethodLen)])
}

// Indata returns the input data of a CALL (nil otherwise).
func (op *Op) Indata() []byte {
	cls, ok := op.callParts()
	if !ok || cls.IndataLen == 0 {
		return nil
	}
	return op.Payload[int(cls.ClassLen)+int(cls.MethodLen):]
}

func (op *Op) String() string {
	s := op.Code.String()
	if op.Params != nil {
		s += "[" + op.Params.Shape().String() + "]"
	}
	if op.Flags != 0 {
		s += "(" + op.Flags.String() + ")"
	}
	if len(op.Payload) > 0 {
		s += " " + cos.ToSizeIEC(int64(len(op.Payload)), 2)
	}
	return s
}
