// Package osd implements the wire-level data model shared between object storage
// clients and storage daemons.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package osd

import (
	"slices"
	"strconv"
)

// NOTE: do not test op codes against the mode/type bits directly - use the
// helpers below. The behavior of some codes was redefined over time (CALL
// carries the read bit but is not a read), and the helpers special-case that.

type (
	OpCode uint16
	Mode   uint16
	Type   uint16
)

const (
	ModeMask  Mode = 0xf000
	ModeRead  Mode = 0x1000
	ModeWrite Mode = 0x2000
	ModeRMW   Mode = 0x3000
	ModeSub   Mode = 0x4000
	ModeCache Mode = 0x8000
)

const (
	TypeMask Type = 0x0f00
	TypeNone Type = 0
	TypeData Type = 0x0200
	TypeAttr Type = 0x0300
	TypeExec Type = 0x0400
	TypePG   Type = 0x0500
	// 0x0600 used to be multiobject ops; leave unused
)

const (
	mRD    = OpCode(ModeRead)
	mWR    = OpCode(ModeWrite)
	mRMW   = OpCode(ModeRMW)
	mSUB   = OpCode(ModeSub)
	mCACHE = OpCode(ModeCache)

	tDATA = OpCode(TypeData)
	tATTR = OpCode(TypeAttr)
	tEXEC = OpCode(TypeExec)
	tPG   = OpCode(TypePG)
)

// op codes (never renumber; append only)
const (
	// data: read
	OpRead     = mRD | tDATA | 1
	OpStat     = mRD | tDATA | 2
	OpMapExt   = mRD | tDATA | 3
	OpChecksum = mRD | tDATA | 31

	// data: fancy read
	OpMaskTrunc  = mRD | tDATA | 4
	OpSparseRead = mRD | tDATA | 5

	OpNotify    = mRD | tDATA | 6
	OpNotifyAck = mRD | tDATA | 7

	OpAssertVer    = mRD | tDATA | 8
	OpListWatchers = mRD | tDATA | 9
	OpListSnaps    = mRD | tDATA | 10
	OpSyncRead     = mRD | tDATA | 11

	// data: write
	OpWrite     = mWR | tDATA | 1
	OpWriteFull = mWR | tDATA | 2
	OpTruncate  = mWR | tDATA | 3
	OpZero      = mWR | tDATA | 4
	OpDelete    = mWR | tDATA | 5

	// data: fancy write
	OpAppend    = mWR | tDATA | 6
	OpStartSync = mWR | tDATA | 7
	OpSetTrunc  = mWR | tDATA | 8
	OpTrimTrunc = mWR | tDATA | 9

	OpTmapUp  = mRMW | tDATA | 10
	OpTmapPut = mWR | tDATA | 11
	OpTmapGet = mRD | tDATA | 12

	OpCreate   = mWR | tDATA | 13
	OpRollback = mWR | tDATA | 14
	OpWatch    = mWR | tDATA | 15

	// omap
	OpOmapGetKeys       = mRD | tDATA | 17
	OpOmapGetVals       = mRD | tDATA | 18
	OpOmapGetHeader     = mRD | tDATA | 19
	OpOmapGetValsByKeys = mRD | tDATA | 20
	OpOmapSetVals       = mWR | tDATA | 21
	OpOmapSetHeader     = mWR | tDATA | 22
	OpOmapClear         = mWR | tDATA | 23
	OpOmapRmKeys        = mWR | tDATA | 24
	OpOmapRmKeyRange    = mWR | tDATA | 44
	OpOmapCmp           = mRD | tDATA | 25

	// tiering
	OpCopyFrom      = mWR | tDATA | 26
	OpCopyFrom2     = mWR | tDATA | 45
	OpUndirty       = mWR | tDATA | 28 // 27 was copy-get-classic
	OpIsDirty       = mRD | tDATA | 29
	OpCopyGet       = mRD | tDATA | 30
	OpCacheFlush    = mCACHE | tDATA | 31
	OpCacheEvict    = mCACHE | tDATA | 32
	OpCacheTryFlush = mCACHE | tDATA | 33

	OpTmap2Omap = mRMW | tDATA | 34

	// hints
	OpSetAllocHint = mWR | tDATA | 35

	OpCachePin   = mWR | tDATA | 36
	OpCacheUnpin = mWR | tDATA | 37

	// ESX/SCSI
	OpWriteSame = mWR | tDATA | 38
	OpCmpExt    = mRD | tDATA | 32

	// extensible
	OpSetRedirect   = mWR | tDATA | 39
	OpSetChunk      = mCACHE | tDATA | 40
	OpTierPromote   = mWR | tDATA | 41
	OpUnsetManifest = mWR | tDATA | 42
	OpTierFlush     = mCACHE | tDATA | 43
	OpTierEvict     = mCACHE | tDATA | 44

	// attrs
	OpGetXattr    = mRD | tATTR | 1
	OpGetXattrs   = mRD | tATTR | 2
	OpCmpXattr    = mRD | tATTR | 3
	OpSetXattr    = mWR | tATTR | 1
	OpSetXattrs   = mWR | tATTR | 2
	OpResetXattrs = mWR | tATTR | 3
	OpRmXattr     = mWR | tATTR | 4

	// subop (8 used to be scrub-stop)
	OpPull           = mSUB | 1
	OpPush           = mSUB | 2
	OpBalanceReads   = mSUB | 3
	OpUnbalanceReads = mSUB | 4
	OpScrub          = mSUB | 5
	OpScrubReserve   = mSUB | 6
	OpScrubUnreserve = mSUB | 7
	OpScrubMap       = mSUB | 9

	// exec (the read bit is wrong here - see ModeIsRead)
	OpCall = mRD | tEXEC | 1

	// pg
	OpPGLS        = mRD | tPG | 1
	OpPGLSFilter  = mRD | tPG | 2
	OpPGHitSetLS  = mRD | tPG | 3
	OpPGHitSetGet = mRD | tPG | 4
	OpPGNLS       = mRD | tPG | 5
	OpPGNLSFilter = mRD | tPG | 6
	OpScrubLS     = mRD | tPG | 7
)

// Name of any code outside the catalog.
const unknownName = "unknown"

type opDesc struct {
	name  string
	code  OpCode
	shape Shape
}

// catalog, in definition order; the single source of truth for names and
// parameter-block shapes
var catalog = [...]opDesc{
	{"read", OpRead, ShapeExtent},
	{"stat", OpStat, ShapeNone},
	{"mapext", OpMapExt, ShapeExtent},
	{"checksum", OpChecksum, ShapeChecksum},
	{"masktrunc", OpMaskTrunc, ShapeExtent},
	{"sparse-read", OpSparseRead, ShapeExtent},
	{"notify", OpNotify, ShapeNotify},
	{"notify-ack", OpNotifyAck, ShapeNone},
	{"assert-version", OpAssertVer, ShapeAssertVer},
	{"list-watchers", OpListWatchers, ShapeNone},
	{"list-snaps", OpListSnaps, ShapeNone},
	{"sync_read", OpSyncRead, ShapeExtent},
	{"write", OpWrite, ShapeExtent},
	{"writefull", OpWriteFull, ShapeExtent},
	{"truncate", OpTruncate, ShapeExtent},
	{"zero", OpZero, ShapeExtent},
	{"delete", OpDelete, ShapeNone},
	{"append", OpAppend, ShapeExtent},
	{"startsync", OpStartSync, ShapeNone},
	{"settrunc", OpSetTrunc, ShapeNone},
	{"trimtrunc", OpTrimTrunc, ShapeExtent},
	{"tmapup", OpTmapUp, ShapeNone},
	{"tmapput", OpTmapPut, ShapeNone},
	{"tmapget", OpTmapGet, ShapeNone},
	{"create", OpCreate, ShapeNone},
	{"rollback", OpRollback, ShapeSnap},
	{"watch", OpWatch, ShapeWatch},
	{"omap-get-keys", OpOmapGetKeys, ShapeNone},
	{"omap-get-vals", OpOmapGetVals, ShapeNone},
	{"omap-get-header", OpOmapGetHeader, ShapeNone},
	{"omap-get-vals-by-keys", OpOmapGetValsByKeys, ShapeNone},
	{"omap-set-vals", OpOmapSetVals, ShapeNone},
	{"omap-set-header", OpOmapSetHeader, ShapeNone},
	{"omap-clear", OpOmapClear, ShapeNone},
	{"omap-rm-keys", OpOmapRmKeys, ShapeNone},
	{"omap-rm-key-range", OpOmapRmKeyRange, ShapeNone},
	{"omap-cmp", OpOmapCmp, ShapeNone},
	{"copy-from", OpCopyFrom, ShapeCopyFrom},
	{"copy-from2", OpCopyFrom2, ShapeCopyFrom},
	{"undirty", OpUndirty, ShapeNone},
	{"isdirty", OpIsDirty, ShapeNone},
	{"copy-get", OpCopyGet, ShapeCopyGet},
	{"cache-flush", OpCacheFlush, ShapeNone},
	{"cache-evict", OpCacheEvict, ShapeNone},
	{"cache-try-flush", OpCacheTryFlush, ShapeNone},
	{"tmap2omap", OpTmap2Omap, ShapeTmap2Omap},
	{"set-alloc-hint", OpSetAllocHint, ShapeAllocHint},
	{"cache-pin", OpCachePin, ShapeNone},
	{"cache-unpin", OpCacheUnpin, ShapeNone},
	{"write-same", OpWriteSame, ShapeWriteSame},
	{"cmpext", OpCmpExt, ShapeExtent},
	{"set-redirect", OpSetRedirect, ShapeNone},
	{"set-chunk", OpSetChunk, ShapeNone},
	{"tier-promote", OpTierPromote, ShapeNone},
	{"unset-manifest", OpUnsetManifest, ShapeNone},
	{"tier-flush", OpTierFlush, ShapeNone},
	{"tier-evict", OpTierEvict, ShapeNone},
	{"getxattr", OpGetXattr, ShapeXattr},
	{"getxattrs", OpGetXattrs, ShapeNone},
	{"cmpxattr", OpCmpXattr, ShapeXattr},
	{"setxattr", OpSetXattr, ShapeXattr},
	{"setxattrs", OpSetXattrs, ShapeNone},
	{"resetxattrs", OpResetXattrs, ShapeXattr},
	{"rmxattr", OpRmXattr, ShapeXattr},
	{"pull", OpPull, ShapeNone},
	{"push", OpPush, ShapeNone},
	{"balance-reads", OpBalanceReads, ShapeNone},
	{"unbalance-reads", OpUnbalanceReads, ShapeNone},
	{"scrub", OpScrub, ShapeNone},
	{"scrub-reserve", OpScrubReserve, ShapeNone},
	{"scrub-unreserve", OpScrubUnreserve, ShapeNone},
	{"scrub-map", OpScrubMap, ShapeNone},
	{"call", OpCall, ShapeCls},
	{"pgls", OpPGLS, ShapePGLS},
	{"pgls-filter", OpPGLSFilter, ShapePGLS},
	{"pg-hitset-ls", OpPGHitSetLS, ShapeNone},
	{"pg-hitset-get", OpPGHitSetGet, ShapeHitSetGet},
	{"pgnls", OpPGNLS, ShapePGLS},
	{"pgnls-filter", OpPGNLSFilter, ShapePGLS},
	{"scrubls", OpScrubLS, ShapeNone},
}

// read-only after init: catalog indices sorted by code, and name lookup
var (
	byCode []int
	byName map[string]OpCode
)

func init() {
	byCode = make([]int, len(catalog))
	byName = make(map[string]OpCode, len(catalog))
	for i := range catalog {
		byCode[i] = i
		byName[catalog[i].name] = catalog[i].code
	}
	slices.SortFunc(byCode, func(a, b int) int { return int(catalog[a].code) - int(catalog[b].code) })
}

func lookup(code OpCode) (*opDesc, bool) {
	i, ok := slices.BinarySearchFunc(byCode, code, func(idx int, c OpCode) int {
		return int(catalog[idx].code) - int(c)
	})
	if !ok {
		return nil, false
	}
	return &catalog[byCode[i]], true
}

// Codes returns all cataloged op codes in ascending order.
func Codes() []OpCode {
	codes := make([]OpCode, len(byCode))
	for i, idx := range byCode {
		codes[i] = catalog[idx].code
	}
	return codes
}

// ParseOpCode resolves a canonical op name, e.g. "sparse-read".
func ParseOpCode(name string) (OpCode, bool) {
	code, ok := byName[name]
	return code, ok
}

func (code OpCode) IsValid() bool {
	_, ok := lookup(code)
	return ok
}

// Name returns the canonical op name, or "unknown" for codes outside the catalog.
func (code OpCode) Name() string {
	if d, ok := lookup(code); ok {
		return d.name
	}
	return unknownName
}

func (code OpCode) String() string {
	if d, ok := lookup(code); ok {
		return d.name
	}
	return "op-0x" + strconv.FormatUint(uint64(code), 16)
}

// Shape returns the parameter-block shape the code carries on the wire.
func (code OpCode) Shape() (Shape, bool) {
	d, ok := lookup(code)
	if !ok {
		return ShapeNone, false
	}
	return d.shape, true
}

func (code OpCode) Mode() Mode { return Mode(code) & ModeMask }
func (code OpCode) Type() Type { return Type(code) & TypeMask }

func (code OpCode) TypeIsData() bool { return code.Type() == TypeData }
func (code OpCode) TypeIsAttr() bool { return code.Type() == TypeAttr }
func (code OpCode) TypeIsExec() bool { return code.Type() == TypeExec }
func (code OpCode) TypeIsPG() bool   { return code.Type() == TypePG }

func (code OpCode) ModeIsSubop() bool { return code.Mode() == ModeSub }

// ModeIsRead excludes CALL which is tagged read for legacy reasons.
func (code OpCode) ModeIsRead() bool {
	return Mode(code)&ModeRead != 0 && code != OpCall
}

func (code OpCode) ModeIsModify() bool { return Mode(code)&ModeWrite != 0 }
func (code OpCode) ModeIsCache() bool  { return Mode(code)&ModeCache != 0 }

// UsesExtent is true for ops whose parameter block is the extent
// (offset/length/truncate) shape.
func (code OpCode) UsesExtent() bool {
	switch code {
	case OpRead, OpMapExt, OpMaskTrunc, OpSparseRead, OpSyncRead,
		OpWrite, OpWriteFull, OpTruncate, OpZero, OpAppend, OpTrimTrunc, OpCmpExt:
		return true
	default:
		return false
	}
}

func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "rd"
	case ModeWrite:
		return "wr"
	case ModeRMW:
		return "rmw"
	case ModeSub:
		return "sub"
	case ModeCache:
		return "cache"
	}
	return "mode-0x" + strconv.FormatUint(uint64(m), 16)
}

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeData:
		return "data"
	case TypeAttr:
		return "attr"
	case TypeExec:
		return "exec"
	case TypePG:
		return "pg"
	}
	return "type-0x" + strconv.FormatUint(uint64(t), 16)
}
