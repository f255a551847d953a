// Package osd implements the wire-level data model shared between object storage
// clients and storage daemons: identifiers, placement, the operation catalog,
// the per-operation codec, and request/reply framing.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package osd

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/NVIDIA/osdwire/cmn/cos"
)

// packed sizes
const (
	SizeofFSID         = 16
	SizeofSnapID       = 8
	SizeofTimespec     = 8
	SizeofPG           = 8
	SizeofObjectLayout = SizeofPG + 4
	SizeofEVersion     = 4 + 8
)

type (
	// FSID is the cluster identity: 16 opaque bytes.
	FSID [SizeofFSID]byte

	SnapID uint64

	Timespec struct {
		Sec  uint32 `json:"sec"`
		Nsec uint32 `json:"nsec"`
	}

	// PG addresses a placement group. Preferred is a legacy primary hint.
	PG struct {
		Preferred uint16 `json:"preferred"`
		Seed      uint16 `json:"ps"`
		Pool      uint32 `json:"pool"`
	}

	// ObjectLayout describes how a given object is stored.
	ObjectLayout struct {
		PG         PG     `json:"pgid"`
		StripeUnit uint32 `json:"stripe_unit"`
	}

	// EVersion orders mutations: epoch major, version minor.
	EVersion struct {
		Epoch   uint32 `json:"epoch"`
		Version uint64 `json:"version"`
	}
)

// reserved snapshot ids
const (
	SnapDir SnapID = ^SnapID(0)     // hidden .snap dir
	NoSnap  SnapID = ^SnapID(0) - 1 // "head", "live" revision
	MaxSnap SnapID = ^SnapID(0) - 2 // largest valid snapid
)

// object layouts
const (
	ObjectLayoutHash    = 1
	ObjectLayoutLinear  = 2
	ObjectLayoutHashIno = 3
)

// PG layouts
const (
	PGLayoutCrush  = 0
	PGLayoutHash   = 1
	PGLayoutLinear = 2
	PGLayoutHybrid = 3

	PGMaxSize = 16 // max number of OSDs in a single PG
)

// pool types
const (
	PGTypeReplicated = 1
	PGTypeErasure    = 3
)

//
// FSID
//

func (f *FSID) Compare(o *FSID) int { return bytes.Compare(f[:], o[:]) }
func (f FSID) String() string       { return hex.EncodeToString(f[:]) }

func ParseFSID(s string) (f FSID, err error) {
	var b []byte
	if b, err = hex.DecodeString(s); err != nil {
		return
	}
	if len(b) != SizeofFSID {
		err = fmt.Errorf("invalid fsid %q: expecting %d bytes, got %d", s, SizeofFSID, len(b))
		return
	}
	copy(f[:], b)
	return
}

func (f *FSID) Pack(wr *cos.BytePack) { wr.WriteRaw(f[:]) }
func (*FSID) PackedSize() int         { return SizeofFSID }

func (f *FSID) Unpack(rd *cos.ByteUnpack) error {
	b, err := rd.ReadRaw(SizeofFSID)
	if err == nil {
		copy(f[:], b)
	}
	return err
}

//
// SnapID
//

// IsValid is true for ordinary (non-reserved) snapshot ids.
func (s SnapID) IsValid() bool { return s < MaxSnap }

func (s SnapID) String() string {
	switch s {
	case SnapDir:
		return "snapdir"
	case NoSnap:
		return "head"
	}
	return strconv.FormatUint(uint64(s), 16)
}

//
// Timespec
//

func NewTimespec(t time.Time) Timespec {
	return Timespec{Sec: uint32(t.Unix()), Nsec: uint32(t.Nanosecond())}
}

func (ts Timespec) Time() time.Time { return time.Unix(int64(ts.Sec), int64(ts.Nsec)) }

func (ts *Timespec) Pack(wr *cos.BytePack) {
	wr.WriteUint32(ts.Sec)
	wr.WriteUint32(ts.Nsec)
}

func (*Timespec) PackedSize() int { return SizeofTimespec }

func (ts *Timespec) Unpack(rd *cos.ByteUnpack) (err error) {
	if ts.Sec, err = rd.ReadUint32(); err != nil {
		return
	}
	ts.Nsec, err = rd.ReadUint32()
	return
}

//
// PG
//

func (pg PG) String() string { return fmt.Sprintf("%d.%x", pg.Pool, pg.Seed) }

func (pg *PG) Pack(wr *cos.BytePack) {
	wr.WriteUint16(pg.Preferred)
	wr.WriteUint16(pg.Seed)
	wr.WriteUint32(pg.Pool)
}

func (*PG) PackedSize() int { return SizeofPG }

func (pg *PG) Unpack(rd *cos.ByteUnpack) (err error) {
	if pg.Preferred, err = rd.ReadUint16(); err != nil {
		return
	}
	if pg.Seed, err = rd.ReadUint16(); err != nil {
		return
	}
	pg.Pool, err = rd.ReadUint32()
	return
}

//
// ObjectLayout
//

func (ol *ObjectLayout) Pack(wr *cos.BytePack) {
	ol.PG.Pack(wr)
	wr.WriteUint32(ol.StripeUnit)
}

func (*ObjectLayout) PackedSize() int { return SizeofObjectLayout }

func (ol *ObjectLayout) Unpack(rd *cos.ByteUnpack) (err error) {
	if err = ol.PG.Unpack(rd); err != nil {
		return
	}
	ol.StripeUnit, err = rd.ReadUint32()
	return
}

//
// EVersion
//

func (ev EVersion) Compare(o EVersion) int {
	switch {
	case ev.Epoch < o.Epoch:
		return -1
	case ev.Epoch > o.Epoch:
		return 1
	case ev.Version < o.Version:
		return -1
	case ev.Version > o.Version:
		return 1
	}
	return 0
}

func (ev EVersion) Less(o EVersion) bool { return ev.Compare(o) < 0 }
func (ev EVersion) String() string       { return fmt.Sprintf("%d'%d", ev.Epoch, ev.Version) }

func (ev *EVersion) Pack(wr *cos.BytePack) {
	wr.WriteUint32(ev.Epoch)
	wr.WriteUint64(ev.Version)
}

func (*EVersion) PackedSize() int { return SizeofEVersion }

func (ev *EVersion) Unpack(rd *cos.ByteUnpack) (err error) {
	if ev.Epoch, err = rd.ReadUint32(); err != nil {
		return
	}
	ev.Version, err = rd.ReadUint64()
	return
}

// interface guard
var (
	_ cos.Packer   = (*FSID)(nil)
	_ cos.Unpacker = (*FSID)(nil)
	_ cos.Packer   = (*Timespec)(nil)
	_ cos.Unpacker = (*Timespec)(nil)
	_ cos.Packer   = (*PG)(nil)
	_ cos.Unpacker = (*PG)(nil)
	_ cos.Packer   = (*ObjectLayout)(nil)
	_ cos.Unpacker = (*ObjectLayout)(nil)
	_ cos.Packer   = (*EVersion)(nil)
	_ cos.Unpacker = (*EVersion)(nil)
)
