// Package osd implements the wire-level data model shared between object storage
// clients and storage daemons.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package osd

import (
	"github.com/NVIDIA/osdwire/cmn/cos"
)

const unknownSub = "???"

type (
	CmpXattrOp     uint8
	CmpXattrMode   uint8
	CopyFromFlags  uint8
	Tmap2OmapFlags uint8
	WatchOp        uint8
	ChecksumType   uint8
	AllocHintFlags uint32
	BackoffOp      uint8

	OSDState    uint32
	OSDMapFlags uint32
)

// xattr comparison
const (
	CmpXattrEQ  CmpXattrOp = 1
	CmpXattrNE  CmpXattrOp = 2
	CmpXattrGT  CmpXattrOp = 3
	CmpXattrGTE CmpXattrOp = 4
	CmpXattrLT  CmpXattrOp = 5
	CmpXattrLTE CmpXattrOp = 6

	CmpXattrModeString CmpXattrMode = 1
	CmpXattrModeU64    CmpXattrMode = 2
)

const (
	CopyFromFlush         CopyFromFlags = 1  // part of a flush operation
	CopyFromIgnoreOverlay CopyFromFlags = 2  // ignore pool overlay
	CopyFromIgnoreCache   CopyFromFlags = 4  // ignore osd cache logic
	CopyFromMapSnapClone  CopyFromFlags = 8  // map snap direct to cloneid
	CopyFromRWOrdered     CopyFromFlags = 16 // order with write
	CopyFromTruncateSeq   CopyFromFlags = 32 // use provided truncate_{seq,size} (copy-from2 only)

	CopyFromMask = CopyFromFlush | CopyFromIgnoreOverlay | CopyFromIgnoreCache |
		CopyFromMapSnapClone | CopyFromRWOrdered | CopyFromTruncateSeq
)

const Tmap2OmapNullOK Tmap2OmapFlags = 1

// NOTE: only odd watch ids are used so that old peers never read an op as UNWATCH
const (
	WatchOpUnwatch     WatchOp = 0
	WatchOpLegacyWatch WatchOp = 1
	WatchOpWatch       WatchOp = 3
	WatchOpReconnect   WatchOp = 5
	WatchOpPing        WatchOp = 7
)

const (
	ChecksumXXHash32 ChecksumType = 0
	ChecksumXXHash64 ChecksumType = 1
	ChecksumCRC32C   ChecksumType = 2
)

const (
	AllocHintSequentialWrite AllocHintFlags = 1 << iota
	AllocHintRandomWrite
	AllocHintSequentialRead
	AllocHintRandomRead
	AllocHintAppendOnly
	AllocHintImmutable
	AllocHintShortLived
	AllocHintLongLived
	AllocHintCompressible
	AllocHintIncompressible
	AllocHintLog
)

const (
	BackoffBlock    BackoffOp = 1
	BackoffAckBlock BackoffOp = 2
	BackoffUnblock  BackoffOp = 3
)

// tmap update codes
const (
	TmapHdr      = 'h'
	TmapSet      = 's'
	TmapCreate   = 'c' // create key
	TmapRm       = 'r'
	TmapRmSloppy = 'R'
)

// result codes specific to object ops
const (
	EOLDSNAPC    = 85  // ORDERSNAP flag set; writer has old snapc
	EBLOCKLISTED = 108 // blocklisted
	EWRITETOOBIG = 90  // EMSGSIZE: write too large for the OSD
)

// OSD status bits
const (
	OSDExists OSDState = 1 << iota
	OSDUp
	OSDAutoOut // automatically marked out
	OSDNew     // never marked in
	OSDFull
	OSDNearFull
	OSDBackfillFull
	OSDDestroyed
	OSDNoUp
	OSDNoDown
	OSDNoIn
	OSDNoOut
	OSDStop // stopped by admin
)

// OSD weights: fixed point, 0x10000 == 1.0 ("in"), 0 == "out"
const (
	OSDIn  = 0x10000
	OSDOut = 0

	OSDMaxPrimaryAffinity     = 0x10000
	OSDDefaultPrimaryAffinity = 0x10000
)

// OSD map flag bits
const (
	OSDMapNearFull OSDMapFlags = 1 << iota // deprecated
	OSDMapFull                             // deprecated
	OSDMapPauseRd
	OSDMapPauseWr
	OSDMapPauseRec
	OSDMapNoUp
	OSDMapNoDown
	OSDMapNoOut
	OSDMapNoIn
	OSDMapNoBackfill
	OSDMapNoRecover
	OSDMapNoScrub
	OSDMapNoDeepScrub
	OSDMapNoTierAgent
	OSDMapNoRebalance
	OSDMapSortBitwise
	OSDMapRequireJewel
	OSDMapRequireKraken
	OSDMapRequireLuminous
	OSDMapRecoveryDeletes
	OSDMapPurgedSnapdirs
	OSDMapNoSnapTrim
	OSDMapPGLogHardLimit
	OSDMapNoAutoscale

	// hidden in status views
	OSDMapSemiHidden = OSDMapRequireJewel | OSDMapRequireKraken | OSDMapRequireLuminous |
		OSDMapRecoveryDeletes | OSDMapSortBitwise | OSDMapPurgedSnapdirs | OSDMapPGLogHardLimit
	OSDMapLegacyRequire = OSDMapRequireJewel | OSDMapRequireKraken | OSDMapRequireLuminous
)

// major release numbers
const (
	ReleaseArgonaut = iota + 1
	ReleaseBobtail
	ReleaseCuttlefish
	ReleaseDumpling
	ReleaseEmperor
	ReleaseFirefly
	ReleaseGiant
	ReleaseHammer
	ReleaseInfernalis
	ReleaseJewel
	ReleaseKraken
	ReleaseLuminous
	ReleaseMimic
	ReleaseNautilus
	ReleaseOctopus
	ReleasePacific
	ReleaseQuincy
	ReleaseReef
	ReleaseSquid
	ReleaseTentacle
	ReleaseMax // highest + 1
)

var (
	releaseNames = [ReleaseMax]string{
		"unknown", "argonaut", "bobtail", "cuttlefish", "dumpling", "emperor",
		"firefly", "giant", "hammer", "infernalis", "jewel", "kraken", "luminous",
		"mimic", "nautilus", "octopus", "pacific", "quincy", "reef", "squid", "tentacle",
	}
	allocHintNames = cos.NamedBits{
		{"sequential_write", cos.BitFlags(AllocHintSequentialWrite)},
		{"random_write", cos.BitFlags(AllocHintRandomWrite)},
		{"sequential_read", cos.BitFlags(AllocHintSequentialRead)},
		{"random_read", cos.BitFlags(AllocHintRandomRead)},
		{"append_only", cos.BitFlags(AllocHintAppendOnly)},
		{"immutable", cos.BitFlags(AllocHintImmutable)},
		{"shortlived", cos.BitFlags(AllocHintShortLived)},
		{"longlived", cos.BitFlags(AllocHintLongLived)},
		{"compressible", cos.BitFlags(AllocHintCompressible)},
		{"incompressible", cos.BitFlags(AllocHintIncompressible)},
		{"log", cos.BitFlags(AllocHintLog)},
	}
	copyFromNames = cos.NamedBits{
		{"flush", cos.BitFlags(CopyFromFlush)},
		{"ignore_overlay", cos.BitFlags(CopyFromIgnoreOverlay)},
		{"ignore_cache", cos.BitFlags(CopyFromIgnoreCache)},
		{"map_snap_clone", cos.BitFlags(CopyFromMapSnapClone)},
		{"rwordered", cos.BitFlags(CopyFromRWOrdered)},
		{"truncate_seq", cos.BitFlags(CopyFromTruncateSeq)},
	}
	osdStateNames = cos.NamedBits{
		{"exists", cos.BitFlags(OSDExists)},
		{"up", cos.BitFlags(OSDUp)},
		{"autoout", cos.BitFlags(OSDAutoOut)},
		{"new", cos.BitFlags(OSDNew)},
		{"full", cos.BitFlags(OSDFull)},
		{"nearfull", cos.BitFlags(OSDNearFull)},
		{"backfillfull", cos.BitFlags(OSDBackfillFull)},
		{"destroyed", cos.BitFlags(OSDDestroyed)},
		{"noup", cos.BitFlags(OSDNoUp)},
		{"nodown", cos.BitFlags(OSDNoDown)},
		{"noin", cos.BitFlags(OSDNoIn)},
		{"noout", cos.BitFlags(OSDNoOut)},
		{"stop", cos.BitFlags(OSDStop)},
	}
	osdMapNames = cos.NamedBits{
		{"nearfull", cos.BitFlags(OSDMapNearFull)},
		{"full", cos.BitFlags(OSDMapFull)},
		{"pauserd", cos.BitFlags(OSDMapPauseRd)},
		{"pausewr", cos.BitFlags(OSDMapPauseWr)},
		{"pauserec", cos.BitFlags(OSDMapPauseRec)},
		{"noup", cos.BitFlags(OSDMapNoUp)},
		{"nodown", cos.BitFlags(OSDMapNoDown)},
		{"noout", cos.BitFlags(OSDMapNoOut)},
		{"noin", cos.BitFlags(OSDMapNoIn)},
		{"nobackfill", cos.BitFlags(OSDMapNoBackfill)},
		{"norecover", cos.BitFlags(OSDMapNoRecover)},
		{"noscrub", cos.BitFlags(OSDMapNoScrub)},
		{"nodeep-scrub", cos.BitFlags(OSDMapNoDeepScrub)},
		{"notieragent", cos.BitFlags(OSDMapNoTierAgent)},
		{"norebalance", cos.BitFlags(OSDMapNoRebalance)},
		{"sortbitwise", cos.BitFlags(OSDMapSortBitwise)},
		{"require_jewel_osds", cos.BitFlags(OSDMapRequireJewel)},
		{"require_kraken_osds", cos.BitFlags(OSDMapRequireKraken)},
		{"require_luminous_osds", cos.BitFlags(OSDMapRequireLuminous)},
		{"recovery_deletes", cos.BitFlags(OSDMapRecoveryDeletes)},
		{"purged_snapdirs", cos.BitFlags(OSDMapPurgedSnapdirs)},
		{"nosnaptrim", cos.BitFlags(OSDMapNoSnapTrim)},
		{"pglog_hardlimit", cos.BitFlags(OSDMapPGLogHardLimit)},
		{"noautoscale", cos.BitFlags(OSDMapNoAutoscale)},
	}
)

func (op CmpXattrOp) String() string {
	switch op {
	case CmpXattrEQ:
		return "eq"
	case CmpXattrNE:
		return "ne"
	case CmpXattrGT:
		return "gt"
	case CmpXattrGTE:
		return "gte"
	case CmpXattrLT:
		return "lt"
	case CmpXattrLTE:
		return "lte"
	}
	return unknownSub
}

func (m CmpXattrMode) String() string {
	switch m {
	case CmpXattrModeString:
		return "string"
	case CmpXattrModeU64:
		return "u64"
	}
	return unknownSub
}

// Valid is false when the flags carry bits this version does not know;
// such bits are preserved on the wire, never rejected.
func (f CopyFromFlags) Valid() bool    { return f&^CopyFromMask == 0 }
func (f CopyFromFlags) String() string { return bitsString(copyFromNames, uint64(f)) }

// UsesTruncateSeq: the provided truncate_{seq,size} apply (copy-from2 only).
func (f CopyFromFlags) UsesTruncateSeq(code OpCode) bool {
	return code == OpCopyFrom2 && f&CopyFromTruncateSeq != 0
}

// FrameFlags maps copy-from behavior bits onto their frame-wide equivalents.
func (f CopyFromFlags) FrameFlags() (flags Flags) {
	if f&CopyFromFlush != 0 {
		flags |= FlagFlush
	}
	if f&CopyFromIgnoreOverlay != 0 {
		flags |= FlagIgnoreOverlay
	}
	if f&CopyFromIgnoreCache != 0 {
		flags |= FlagIgnoreCache
	}
	if f&CopyFromMapSnapClone != 0 {
		flags |= FlagMapSnapClone
	}
	if f&CopyFromRWOrdered != 0 {
		flags |= FlagRWOrdered
	}
	return
}

func (f Tmap2OmapFlags) NullOK() bool { return f&Tmap2OmapNullOK != 0 }

func (op WatchOp) String() string { return WatchOpName(op) }

func WatchOpName(op WatchOp) string {
	switch op {
	case WatchOpUnwatch:
		return "unwatch"
	case WatchOpLegacyWatch:
		return "legacy_watch"
	case WatchOpWatch:
		return "watch"
	case WatchOpReconnect:
		return "reconnect"
	case WatchOpPing:
		return "ping"
	}
	return unknownSub
}

func (ty ChecksumType) String() string {
	switch ty {
	case ChecksumXXHash32:
		return "xxhash32"
	case ChecksumXXHash64:
		return "xxhash64"
	case ChecksumCRC32C:
		return "crc32c"
	}
	return unknownSub
}

// DigestSize returns the size of one packed digest (and of the init value).
func (ty ChecksumType) DigestSize() int {
	switch ty {
	case ChecksumXXHash32, ChecksumCRC32C:
		return cos.SizeofI32
	case ChecksumXXHash64:
		return cos.SizeofI64
	}
	return 0
}

func ParseChecksumType(s string) (ChecksumType, bool) {
	for _, ty := range []ChecksumType{ChecksumXXHash32, ChecksumXXHash64, ChecksumCRC32C} {
		if ty.String() == s {
			return ty, true
		}
	}
	return 0, false
}

func (f AllocHintFlags) String() string { return bitsString(allocHintNames, uint64(f)) }

func AllocHintFlagName(f AllocHintFlags) string { return allocHintNames.Name(cos.BitFlags(f)) }

func BackoffOpName(op BackoffOp) string {
	switch op {
	case BackoffBlock:
		return "block"
	case BackoffAckBlock:
		return "ack-block"
	case BackoffUnblock:
		return "unblock"
	}
	return unknownSub
}

func (s OSDState) String() string { return bitsString(osdStateNames, uint64(s)) }

// OSDStateName names a single state bit.
func OSDStateName(s OSDState) string { return osdStateNames.Name(cos.BitFlags(s)) }

func (f OSDMapFlags) String() string { return bitsString(osdMapNames, uint64(f)) }

// Visible strips the semi-hidden bits.
func (f OSDMapFlags) Visible() OSDMapFlags { return f &^ OSDMapSemiHidden }

func ReleaseName(r int) string {
	if r < 1 || r >= ReleaseMax {
		return "unknown"
	}
	return releaseNames[r]
}
