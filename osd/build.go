// Package osd implements the wire-level data model shared between object storage
// clients and storage daemons.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package osd

import (
	"encoding/binary"

	"github.com/NVIDIA/osdwire/cmn/cos"
)

// Client-side op builders: each returns an op whose parameter block and
// payload are consistent (see Op.Validate).

// NewOp returns an op with zeroed parameters of the shape its code selects.
func NewOp(code OpCode) (Op, error) {
	shape, ok := code.Shape()
	if !ok {
		return Op{}, NewErrUnknownOp(code)
	}
	p, err := unpackParams(cos.NewUnpacker(make([]byte, SizeofParams)), shape)
	return Op{Code: code, Params: p}, err
}

func NewRead(off, length uint64) Op {
	return Op{Code: OpRead, Params: Extent{Offset: off, Length: length}}
}

func NewSparseRead(off, length uint64) Op {
	return Op{Code: OpSparseRead, Params: Extent{Offset: off, Length: length}}
}

func NewStat() Op { return Op{Code: OpStat} }

func NewCreate(excl bool) Op {
	op := Op{Code: OpCreate}
	if excl {
		op.Flags = OpFlagExcl
	}
	return op
}

func NewDelete() Op { return Op{Code: OpDelete} }

func NewWrite(off uint64, data []byte) Op {
	return Op{Code: OpWrite, Params: Extent{Offset: off, Length: uint64(len(data))}, Payload: data}
}

func NewWriteFull(data []byte) Op {
	return Op{Code: OpWriteFull, Params: Extent{Length: uint64(len(data))}, Payload: data}
}

func NewAppend(data []byte) Op {
	return Op{Code: OpAppend, Params: Extent{Length: uint64(len(data))}, Payload: data}
}

// NewTruncate: the offset is the new size.
func NewTruncate(size uint64, seq uint32) Op {
	return Op{Code: OpTruncate, Params: Extent{Offset: size, TruncateSize: size, TruncateSeq: seq}}
}

func NewZero(off, length uint64) Op {
	return Op{Code: OpZero, Params: Extent{Offset: off, Length: length}}
}

func NewCmpExt(off uint64, data []byte) Op {
	return Op{Code: OpCmpExt, Params: Extent{Offset: off, Length: uint64(len(data))}, Payload: data}
}

func NewWriteSame(off, length uint64, data []byte) Op {
	return Op{
		Code:    OpWriteSame,
		Params:  WriteSame{Offset: off, Length: length, DataLength: uint64(len(data))},
		Payload: data,
	}
}

//
// xattrs
//

func NewGetXattr(name string) Op {
	return Op{Code: OpGetXattr, Params: Xattr{NameLen: uint32(len(name))}, Payload: []byte(name)}
}

func NewGetXattrs() Op { return Op{Code: OpGetXattrs} }

func NewSetXattr(name string, value []byte) Op {
	return xattrOp(OpSetXattr, name, value, Xattr{})
}

func NewRmXattr(name string) Op {
	return Op{Code: OpRmXattr, Params: Xattr{NameLen: uint32(len(name))}, Payload: []byte(name)}
}

func NewCmpXattr(name string, value []byte, cmpOp CmpXattrOp, mode CmpXattrMode) Op {
	return xattrOp(OpCmpXattr, name, value, Xattr{CmpOp: cmpOp, CmpMode: mode})
}

// NewCmpXattrU64 compares against a u64 encoded the way the daemons store it.
func NewCmpXattrU64(name string, value uint64, cmpOp CmpXattrOp) Op {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], value)
	return NewCmpXattr(name, b[:], cmpOp, CmpXattrModeU64)
}

func xattrOp(code OpCode, name string, value []byte, p Xattr) Op {
	payload := make([]byte, 0, len(name)+len(value))
	payload = append(payload, name...)
	payload = append(payload, value...)
	p.NameLen, p.ValueLen = uint32(len(name)), uint32(len(value))
	return Op{Code: code, Params: p, Payload: payload}
}

//
// exec
//

// NewCall invokes class.method with indata. Class and method names must be
// shorter than 256 bytes.
func NewCall(class, method string, indata []byte) Op {
	payload := make([]byte, 0, len(class)+len(method)+len(indata))
	payload = append(payload, class...)
	payload = append(payload, method...)
	payload = append(payload, indata...)
	return Op{
		Code: OpCall,
		Params: Cls{
			ClassLen:  uint8(len(class)),
			MethodLen: uint8(len(method)),
			IndataLen: uint32(len(indata)),
		},
		Payload: payload,
	}
}

//
// watch/notify, versions, snapshots
//

func NewWatch(cookie uint64, wop WatchOp, gen, timeout uint32) Op {
	return Op{Code: OpWatch, Params: Watch{Cookie: cookie, Op: wop, Gen: gen, Timeout: timeout}}
}

func NewNotify(cookie uint64, payload []byte) Op {
	return Op{Code: OpNotify, Params: Notify{Cookie: cookie}, Payload: payload}
}

func NewAssertVer(ver uint64) Op {
	return Op{Code: OpAssertVer, Params: AssertVer{Ver: ver}}
}

func NewRollback(snap SnapID) Op {
	return Op{Code: OpRollback, Params: Snap{SnapID: snap}}
}

//
// copy, hints, checksums, pg listing
//

// NewCopyFrom: payload carries the encoded source object locator.
func NewCopyFrom(snap SnapID, srcVersion uint64, flags CopyFromFlags, fadvise OpFlags, src []byte) Op {
	code := OpCopyFrom
	if flags&CopyFromTruncateSeq != 0 {
		code = OpCopyFrom2
	}
	return Op{
		Code:    code,
		Params:  CopyFrom{SnapID: snap, SrcVersion: srcVersion, Flags: flags, SrcFadviseFlags: fadvise},
		Payload: src,
	}
}

func NewCopyGet(maxBytes uint64) Op {
	return Op{Code: OpCopyGet, Params: CopyGet{Max: maxBytes}}
}

func NewAllocHint(objectSize, writeSize uint64, flags AllocHintFlags) Op {
	return Op{
		Code:   OpSetAllocHint,
		Params: AllocHint{ExpectedObjectSize: objectSize, ExpectedWriteSize: writeSize, Flags: flags},
	}
}

// NewChecksum requests per-chunk digests of [off, off+length); seed is the
// initial value, truncated to the digest size.
func NewChecksum(ty ChecksumType, off, length uint64, chunkSize uint32, seed uint64) Op {
	var payload []byte
	switch ty.DigestSize() {
	case cos.SizeofI32:
		payload = binary.LittleEndian.AppendUint32(nil, uint32(seed))
	case cos.SizeofI64:
		payload = binary.LittleEndian.AppendUint64(nil, seed)
	}
	return Op{
		Code:    OpChecksum,
		Params:  Checksum{Type: ty, Offset: off, Length: length, ChunkSize: chunkSize},
		Payload: payload,
	}
}

func NewPGLS(count uint64, startEpoch uint32, cursor []byte) Op {
	return Op{Code: OpPGNLS, Params: PGLS{Count: count, StartEpoch: startEpoch}, Payload: cursor}
}
