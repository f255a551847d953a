// Package osd implements the wire-level data model shared between object storage
// clients and storage daemons.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package osd

import (
	"strconv"

	"github.com/NVIDIA/osdwire/cmn/cos"
)

// Shape identifies one of the mutually exclusive parameter blocks of an op.
// It is never carried on the wire: the op code selects it (see catalog).
type Shape uint8

const (
	ShapeNone Shape = iota
	ShapeExtent
	ShapeXattr
	ShapeCls
	ShapePGLS
	ShapeSnap
	ShapeWatch
	ShapeNotify
	ShapeAssertVer
	ShapeCopyGet
	ShapeCopyFrom
	ShapeHitSetGet
	ShapeTmap2Omap
	ShapeAllocHint
	ShapeWriteSame
	ShapeChecksum

	numShapes
)

// SizeofParams is the fixed width of the parameter union: the largest shape
// (extent: 3*8 + 4). Shorter shapes are zero-filled. Changing it breaks the
// wire format.
const SizeofParams = 3*cos.SizeofI64 + cos.SizeofI32

var shapeNames = [numShapes]string{
	ShapeNone:      "none",
	ShapeExtent:    "extent",
	ShapeXattr:     "xattr",
	ShapeCls:       "cls",
	ShapePGLS:      "pgls",
	ShapeSnap:      "snap",
	ShapeWatch:     "watch",
	ShapeNotify:    "notify",
	ShapeAssertVer: "assert_ver",
	ShapeCopyGet:   "copy_get",
	ShapeCopyFrom:  "copy_from",
	ShapeHitSetGet: "hit_set_get",
	ShapeTmap2Omap: "tmap2omap",
	ShapeAllocHint: "alloc_hint",
	ShapeWriteSame: "writesame",
	ShapeChecksum:  "checksum",
}

func (s Shape) String() string {
	if s < numShapes {
		return shapeNames[s]
	}
	return "shape-?"
}

// Params is the parameter block of a single op: a closed sum type, one
// implementation per Shape. A nil Params stands for ShapeNone.
type Params interface {
	Shape() Shape
	size() int
	pack(wr *cos.BytePack)
}

type (
	Extent struct {
		Offset       uint64 `json:"offset"`
		Length       uint64 `json:"length"`
		TruncateSize uint64 `json:"truncate_size"`
		TruncateSeq  uint32 `json:"truncate_seq"`
	}
	Xattr struct {
		NameLen  uint32       `json:"name_len"`
		ValueLen uint32       `json:"value_len"`
		CmpOp    CmpXattrOp   `json:"cmp_op"`
		CmpMode  CmpXattrMode `json:"cmp_mode"`
	}
	Cls struct {
		ClassLen  uint8  `json:"class_len"`
		MethodLen uint8  `json:"method_len"`
		Argc      uint8  `json:"argc"`
		IndataLen uint32 `json:"indata_len"`
	}
	PGLS struct {
		Count      uint64 `json:"count"`
		StartEpoch uint32 `json:"start_epoch"`
	}
	Snap struct {
		SnapID SnapID `json:"snapid"`
	}
	Watch struct {
		Cookie  uint64  `json:"cookie"`
		Ver     uint64  `json:"ver"` // no longer used
		Op      WatchOp `json:"op"`
		Gen     uint32  `json:"gen"`
		Timeout uint32  `json:"timeout"`
	}
	Notify struct {
		Cookie uint64 `json:"cookie"`
	}
	AssertVer struct {
		Unused uint64 `json:"unused"`
		Ver    uint64 `json:"ver"`
	}
	CopyGet struct {
		Max uint64 `json:"max"` // max data in reply
	}
	CopyFrom struct {
		SnapID          SnapID        `json:"snapid"`
		SrcVersion      uint64        `json:"src_version"`
		Flags           CopyFromFlags `json:"flags"`
		SrcFadviseFlags OpFlags       `json:"src_fadvise_flags"`
	}
	HitSetGet struct {
		Stamp Timespec `json:"stamp"`
	}
	Tmap2Omap struct {
		Flags Tmap2OmapFlags `json:"flags"`
	}
	AllocHint struct {
		ExpectedObjectSize uint64         `json:"expected_object_size"`
		ExpectedWriteSize  uint64         `json:"expected_write_size"`
		Flags              AllocHintFlags `json:"flags"`
	}
	WriteSame struct {
		Offset     uint64 `json:"offset"`
		Length     uint64 `json:"length"`
		DataLength uint64 `json:"data_length"`
	}
	Checksum struct {
		Offset    uint64       `json:"offset"`
		Length    uint64       `json:"length"`
		ChunkSize uint32       `json:"chunk_size"`
		Type      ChecksumType `json:"type"`
	}
)

// interface guard
var (
	_ Params = Extent{}
	_ Params = Xattr{}
	_ Params = Cls{}
	_ Params = PGLS{}
	_ Params = Snap{}
	_ Params = Watch{}
	_ Params = Notify{}
	_ Params = AssertVer{}
	_ Params = CopyGet{}
	_ Params = CopyFrom{}
	_ Params = HitSetGet{}
	_ Params = Tmap2Omap{}
	_ Params = AllocHint{}
	_ Params = WriteSame{}
	_ Params = Checksum{}
)

// shapeOf returns numShapes for anything that is not one of the value types
// above (pointers included).
func shapeOf(p Params) Shape {
	switch p.(type) {
	case nil:
		return ShapeNone
	case Extent, Xattr, Cls, PGLS, Snap, Watch, Notify, AssertVer, CopyGet, CopyFrom,
		HitSetGet, Tmap2Omap, AllocHint, WriteSame, Checksum:
		return p.Shape()
	}
	return numShapes
}

// packParams writes exactly SizeofParams bytes.
func packParams(wr *cos.BytePack, p Params) {
	var n int
	if p != nil {
		p.pack(wr)
		n = p.size()
	}
	wr.WriteZeros(SizeofParams - n)
}

// unpackParams consumes exactly SizeofParams bytes; bytes past the active
// shape must be zero.
func unpackParams(rd *cos.ByteUnpack, shape Shape) (p Params, err error) {
	var raw []byte
	if raw, err = rd.ReadRaw(SizeofParams); err != nil {
		return nil, err
	}
	u := cos.NewUnpacker(raw)
	switch shape {
	case ShapeNone:
	case ShapeExtent:
		var v Extent
		err = v.unpack(u)
		p = v
	case ShapeXattr:
		var v Xattr
		err = v.unpack(u)
		p = v
	case ShapeCls:
		var v Cls
		err = v.unpack(u)
		p = v
	case ShapePGLS:
		var v PGLS
		err = v.unpack(u)
		p = v
	case ShapeSnap:
		var v Snap
		err = v.unpack(u)
		p = v
	case ShapeWatch:
		var v Watch
		err = v.unpack(u)
		p = v
	case ShapeNotify:
		var v Notify
		err = v.unpack(u)
		p = v
	case ShapeAssertVer:
		var v AssertVer
		err = v.unpack(u)
		p = v
	case ShapeCopyGet:
		var v CopyGet
		err = v.unpack(u)
		p = v
	case ShapeCopyFrom:
		var v CopyFrom
		err = v.unpack(u)
		p = v
	case ShapeHitSetGet:
		var v HitSetGet
		err = v.unpack(u)
		p = v
	case ShapeTmap2Omap:
		var v Tmap2Omap
		err = v.unpack(u)
		p = v
	case ShapeAllocHint:
		var v AllocHint
		err = v.unpack(u)
		p = v
	case ShapeWriteSame:
		var v WriteSame
		err = v.unpack(u)
		p = v
	case ShapeChecksum:
		var v Checksum
		err = v.unpack(u)
		p = v
	default:
		cos.AssertMsg(false, "invalid shape "+shape.String())
	}
	if err != nil {
		return nil, err
	}
	var n int
	if p != nil {
		n = p.size()
	}
	for i := n; i < SizeofParams; i++ {
		if raw[i] != 0 {
			return nil, newErrFraming(shape.String()+" parameter block: non-zero padding at byte "+
				strconv.Itoa(i), 0, 0, nil)
		}
	}
	return p, nil
}

//
// Extent
//

func (Extent) Shape() Shape { return ShapeExtent }
func (Extent) size() int    { return 3*cos.SizeofI64 + cos.SizeofI32 }

func (p Extent) pack(wr *cos.BytePack) {
	wr.WriteUint64(p.Offset)
	wr.WriteUint64(p.Length)
	wr.WriteUint64(p.TruncateSize)
	wr.WriteUint32(p.TruncateSeq)
}

func (p *Extent) unpack(rd *cos.ByteUnpack) (err error) {
	if p.Offset, err = rd.ReadUint64(); err != nil {
		return
	}
	if p.Length, err = rd.ReadUint64(); err != nil {
		return
	}
	if p.TruncateSize, err = rd.ReadUint64(); err != nil {
		return
	}
	p.TruncateSeq, err = rd.ReadUint32()
	return
}

//
// Xattr
//

func (Xattr) Shape() Shape { return ShapeXattr }
func (Xattr) size() int    { return 2*cos.SizeofI32 + 2 }

func (p Xattr) pack(wr *cos.BytePack) {
	wr.WriteUint32(p.NameLen)
	wr.WriteUint32(p.ValueLen)
	wr.WriteByte(byte(p.CmpOp))
	wr.WriteByte(byte(p.CmpMode))
}

func (p *Xattr) unpack(rd *cos.ByteUnpack) (err error) {
	var b byte
	if p.NameLen, err = rd.ReadUint32(); err != nil {
		return
	}
	if p.ValueLen, err = rd.ReadUint32(); err != nil {
		return
	}
	if b, err = rd.ReadByte(); err != nil {
		return
	}
	p.CmpOp = CmpXattrOp(b)
	b, err = rd.ReadByte()
	p.CmpMode = CmpXattrMode(b)
	return
}

//
// Cls
//

func (Cls) Shape() Shape { return ShapeCls }
func (Cls) size() int    { return 3 + cos.SizeofI32 }

func (p Cls) pack(wr *cos.BytePack) {
	wr.WriteByte(p.ClassLen)
	wr.WriteByte(p.MethodLen)
	wr.WriteByte(p.Argc)
	wr.WriteUint32(p.IndataLen)
}

func (p *Cls) unpack(rd *cos.ByteUnpack) (err error) {
	if p.ClassLen, err = rd.ReadByte(); err != nil {
		return
	}
	if p.MethodLen, err = rd.ReadByte(); err != nil {
		return
	}
	if p.Argc, err = rd.ReadByte(); err != nil {
		return
	}
	p.IndataLen, err = rd.ReadUint32()
	return
}

//
// PGLS
//

func (PGLS) Shape() Shape { return ShapePGLS }
func (PGLS) size() int    { return cos.SizeofI64 + cos.SizeofI32 }

func (p PGLS) pack(wr *cos.BytePack) {
	wr.WriteUint64(p.Count)
	wr.WriteUint32(p.StartEpoch)
}

func (p *PGLS) unpack(rd *cos.ByteUnpack) (err error) {
	if p.Count, err = rd.ReadUint64(); err != nil {
		return
	}
	p.StartEpoch, err = rd.ReadUint32()
	return
}

//
// Snap
//

func (Snap) Shape() Shape { return ShapeSnap }
func (Snap) size() int    { return SizeofSnapID }

func (p Snap) pack(wr *cos.BytePack) { wr.WriteUint64(uint64(p.SnapID)) }

func (p *Snap) unpack(rd *cos.ByteUnpack) error {
	v, err := rd.ReadUint64()
	p.SnapID = SnapID(v)
	return err
}

//
// Watch
//

func (Watch) Shape() Shape { return ShapeWatch }
func (Watch) size() int    { return 2*cos.SizeofI64 + 1 + 2*cos.SizeofI32 }

func (p Watch) pack(wr *cos.BytePack) {
	wr.WriteUint64(p.Cookie)
	wr.WriteUint64(p.Ver)
	wr.WriteByte(byte(p.Op))
	wr.WriteUint32(p.Gen)
	wr.WriteUint32(p.Timeout)
}

func (p *Watch) unpack(rd *cos.ByteUnpack) (err error) {
	var b byte
	if p.Cookie, err = rd.ReadUint64(); err != nil {
		return
	}
	if p.Ver, err = rd.ReadUint64(); err != nil {
		return
	}
	if b, err = rd.ReadByte(); err != nil {
		return
	}
	p.Op = WatchOp(b)
	if p.Gen, err = rd.ReadUint32(); err != nil {
		return
	}
	p.Timeout, err = rd.ReadUint32()
	return
}

//
// Notify
//

func (Notify) Shape() Shape { return ShapeNotify }
func (Notify) size() int    { return cos.SizeofI64 }

func (p Notify) pack(wr *cos.BytePack) { wr.WriteUint64(p.Cookie) }

func (p *Notify) unpack(rd *cos.ByteUnpack) (err error) {
	p.Cookie, err = rd.ReadUint64()
	return
}

//
// AssertVer
//

func (AssertVer) Shape() Shape { return ShapeAssertVer }
func (AssertVer) size() int    { return 2 * cos.SizeofI64 }

func (p AssertVer) pack(wr *cos.BytePack) {
	wr.WriteUint64(p.Unused)
	wr.WriteUint64(p.Ver)
}

func (p *AssertVer) unpack(rd *cos.ByteUnpack) (err error) {
	if p.Unused, err = rd.ReadUint64(); err != nil {
		return
	}
	p.Ver, err = rd.ReadUint64()
	return
}

//
// CopyGet
//

func (CopyGet) Shape() Shape { return ShapeCopyGet }
func (CopyGet) size() int    { return cos.SizeofI64 }

func (p CopyGet) pack(wr *cos.BytePack) { wr.WriteUint64(p.Max) }

func (p *CopyGet) unpack(rd *cos.ByteUnpack) (err error) {
	p.Max, err = rd.ReadUint64()
	return
}

//
// CopyFrom
//

func (CopyFrom) Shape() Shape { return ShapeCopyFrom }
func (CopyFrom) size() int    { return 2*cos.SizeofI64 + 1 + cos.SizeofI32 }

func (p CopyFrom) pack(wr *cos.BytePack) {
	wr.WriteUint64(uint64(p.SnapID))
	wr.WriteUint64(p.SrcVersion)
	wr.WriteByte(byte(p.Flags))
	wr.WriteUint32(uint32(p.SrcFadviseFlags))
}

func (p *CopyFrom) unpack(rd *cos.ByteUnpack) (err error) {
	var (
		v uint64
		b byte
		f uint32
	)
	if v, err = rd.ReadUint64(); err != nil {
		return
	}
	p.SnapID = SnapID(v)
	if p.SrcVersion, err = rd.ReadUint64(); err != nil {
		return
	}
	if b, err = rd.ReadByte(); err != nil {
		return
	}
	p.Flags = CopyFromFlags(b)
	f, err = rd.ReadUint32()
	p.SrcFadviseFlags = OpFlags(f)
	return
}

//
// HitSetGet
//

func (HitSetGet) Shape() Shape { return ShapeHitSetGet }
func (HitSetGet) size() int    { return SizeofTimespec }

func (p HitSetGet) pack(wr *cos.BytePack) { p.Stamp.Pack(wr) }

func (p *HitSetGet) unpack(rd *cos.ByteUnpack) error { return p.Stamp.Unpack(rd) }

//
// Tmap2Omap
//

func (Tmap2Omap) Shape() Shape { return ShapeTmap2Omap }
func (Tmap2Omap) size() int    { return 1 }

func (p Tmap2Omap) pack(wr *cos.BytePack) { wr.WriteByte(byte(p.Flags)) }

func (p *Tmap2Omap) unpack(rd *cos.ByteUnpack) error {
	b, err := rd.ReadByte()
	p.Flags = Tmap2OmapFlags(b)
	return err
}

//
// AllocHint
//

func (AllocHint) Shape() Shape { return ShapeAllocHint }
func (AllocHint) size() int    { return 2*cos.SizeofI64 + cos.SizeofI32 }

func (p AllocHint) pack(wr *cos.BytePack) {
	wr.WriteUint64(p.ExpectedObjectSize)
	wr.WriteUint64(p.ExpectedWriteSize)
	wr.WriteUint32(uint32(p.Flags))
}

func (p *AllocHint) unpack(rd *cos.ByteUnpack) (err error) {
	var f uint32
	if p.ExpectedObjectSize, err = rd.ReadUint64(); err != nil {
		return
	}
	if p.ExpectedWriteSize, err = rd.ReadUint64(); err != nil {
		return
	}
	f, err = rd.ReadUint32()
	p.Flags = AllocHintFlags(f)
	return
}

//
// WriteSame
//

func (WriteSame) Shape() Shape { return ShapeWriteSame }
func (WriteSame) size() int    { return 3 * cos.SizeofI64 }

func (p WriteSame) pack(wr *cos.BytePack) {
	wr.WriteUint64(p.Offset)
	wr.WriteUint64(p.Length)
	wr.WriteUint64(p.DataLength)
}

func (p *WriteSame) unpack(rd *cos.ByteUnpack) (err error) {
	if p.Offset, err = rd.ReadUint64(); err != nil {
		return
	}
	if p.Length, err = rd.ReadUint64(); err != nil {
		return
	}
	p.DataLength, err = rd.ReadUint64()
	return
}

//
// Checksum
//

func (Checksum) Shape() Shape { return ShapeChecksum }
func (Checksum) size() int    { return 2*cos.SizeofI64 + cos.SizeofI32 + 1 }

func (p Checksum) pack(wr *cos.BytePack) {
	wr.WriteUint64(p.Offset)
	wr.WriteUint64(p.Length)
	wr.WriteUint32(p.ChunkSize)
	wr.WriteByte(byte(p.Type))
}

func (p *Checksum) unpack(rd *cos.ByteUnpack) (err error) {
	var b byte
	if p.Offset, err = rd.ReadUint64(); err != nil {
		return
	}
	if p.Length, err = rd.ReadUint64(); err != nil {
		return
	}
	if p.ChunkSize, err = rd.ReadUint32(); err != nil {
		return
	}
	b, err = rd.ReadByte()
	p.Type = ChecksumType(b)
	return
}
