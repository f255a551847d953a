// Package osd implements the wire-level data model shared between object storage
// clients and storage daemons.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package osd

import (
	"strconv"
	"strings"

	"github.com/NVIDIA/osdwire/cmn/cos"
)

// Flags is the frame-wide (request or reply) 32-bit flag word.
// Bits are additive; unknown bits are carried through untouched.
type Flags uint32

const (
	FlagAck           Flags = 0x0001 // want (or is) "ack" ack
	FlagOnNVRAM       Flags = 0x0002 // want (or is) "onnvram" ack
	FlagOnDisk        Flags = 0x0004 // want (or is) "ondisk" ack
	FlagRetry         Flags = 0x0008 // resend attempt
	FlagRead          Flags = 0x0010 // op may read
	FlagWrite         Flags = 0x0020 // op may write
	FlagOrderSnap     Flags = 0x0040 // EOLDSNAPC if snapc is out of order
	FlagPeerStatOld   Flags = 0x0080 // deprecated
	FlagBalanceReads  Flags = 0x0100
	FlagParallelExec  Flags = 0x0200 // execute op in parallel
	FlagPGOp          Flags = 0x0400 // pg op, no object
	FlagExec          Flags = 0x0800 // op may exec
	FlagExecPublic    Flags = 0x1000 // deprecated
	FlagLocalizeReads Flags = 0x2000 // read from nearby replica, if any
	FlagRWOrdered     Flags = 0x4000 // order wrt concurrent reads
	FlagIgnoreCache   Flags = 0x8000 // ignore cache logic
	FlagSkipRWLocks   Flags = 0x10000
	FlagIgnoreOverlay Flags = 0x20000 // ignore pool overlay
	FlagFlush         Flags = 0x40000 // part of flush
	FlagMapSnapClone  Flags = 0x80000 // map snap direct to clone id
	FlagEnforceSnapc  Flags = 0x100000
	FlagRedirected    Flags = 0x200000 // op has been redirected
	FlagKnownRedir    Flags = 0x400000 // redirect bit is authoritative
	FlagFullTry       Flags = 0x800000 // try op despite full flag
	FlagFullForce     Flags = 0x1000000
	FlagIgnoreRedir   Flags = 0x2000000
	FlagReturnVec     Flags = 0x4000000 // per-op results and buffers in reply
	FlagSupportsEIO   Flags = 0x8000000 // client understands pool EIO flag
)

var flagNames = cos.NamedBits{
	{"ack", cos.BitFlags(FlagAck)},
	{"onnvram", cos.BitFlags(FlagOnNVRAM)},
	{"ondisk", cos.BitFlags(FlagOnDisk)},
	{"retry", cos.BitFlags(FlagRetry)},
	{"read", cos.BitFlags(FlagRead)},
	{"write", cos.BitFlags(FlagWrite)},
	{"ordersnap", cos.BitFlags(FlagOrderSnap)},
	{"peerstat_old", cos.BitFlags(FlagPeerStatOld)},
	{"balance_reads", cos.BitFlags(FlagBalanceReads)},
	{"parallelexec", cos.BitFlags(FlagParallelExec)},
	{"pgop", cos.BitFlags(FlagPGOp)},
	{"exec", cos.BitFlags(FlagExec)},
	{"exec_public", cos.BitFlags(FlagExecPublic)},
	{"localize_reads", cos.BitFlags(FlagLocalizeReads)},
	{"rwordered", cos.BitFlags(FlagRWOrdered)},
	{"ignore_cache", cos.BitFlags(FlagIgnoreCache)},
	{"skiprwlocks", cos.BitFlags(FlagSkipRWLocks)},
	{"ignore_overlay", cos.BitFlags(FlagIgnoreOverlay)},
	{"flush", cos.BitFlags(FlagFlush)},
	{"map_snap_clone", cos.BitFlags(FlagMapSnapClone)},
	{"enforce_snapc", cos.BitFlags(FlagEnforceSnapc)},
	{"redirected", cos.BitFlags(FlagRedirected)},
	{"known_if_redirected", cos.BitFlags(FlagKnownRedir)},
	{"full_try", cos.BitFlags(FlagFullTry)},
	{"full_force", cos.BitFlags(FlagFullForce)},
	{"ignore_redirect", cos.BitFlags(FlagIgnoreRedir)},
	{"returnvec", cos.BitFlags(FlagReturnVec)},
	{"supports_pool_eio", cos.BitFlags(FlagSupportsEIO)},
}

func (f Flags) IsSet(flags Flags) bool    { return f&flags == flags }
func (f Flags) IsAnySet(flags Flags) bool { return f&flags != 0 }

func (f Flags) Ack() bool             { return f&FlagAck != 0 }
func (f Flags) OnNVRAM() bool         { return f&FlagOnNVRAM != 0 }
func (f Flags) OnDisk() bool          { return f&FlagOnDisk != 0 }
func (f Flags) Retry() bool           { return f&FlagRetry != 0 }
func (f Flags) Read() bool            { return f&FlagRead != 0 }
func (f Flags) Write() bool           { return f&FlagWrite != 0 }
func (f Flags) OrderSnap() bool       { return f&FlagOrderSnap != 0 }
func (f Flags) BalanceReads() bool    { return f&FlagBalanceReads != 0 }
func (f Flags) ParallelExec() bool    { return f&FlagParallelExec != 0 }
func (f Flags) PGOp() bool            { return f&FlagPGOp != 0 }
func (f Flags) Exec() bool            { return f&FlagExec != 0 }
func (f Flags) LocalizeReads() bool   { return f&FlagLocalizeReads != 0 }
func (f Flags) RWOrdered() bool       { return f&FlagRWOrdered != 0 }
func (f Flags) IgnoreCache() bool     { return f&FlagIgnoreCache != 0 }
func (f Flags) SkipRWLocks() bool     { return f&FlagSkipRWLocks != 0 }
func (f Flags) IgnoreOverlay() bool   { return f&FlagIgnoreOverlay != 0 }
func (f Flags) Flush() bool           { return f&FlagFlush != 0 }
func (f Flags) MapSnapClone() bool    { return f&FlagMapSnapClone != 0 }
func (f Flags) EnforceSnapc() bool    { return f&FlagEnforceSnapc != 0 }
func (f Flags) Redirected() bool      { return f&FlagRedirected != 0 }
func (f Flags) KnownRedir() bool      { return f&FlagKnownRedir != 0 }
func (f Flags) FullTry() bool         { return f&FlagFullTry != 0 }
func (f Flags) FullForce() bool       { return f&FlagFullForce != 0 }
func (f Flags) IgnoreRedirect() bool  { return f&FlagIgnoreRedir != 0 }
func (f Flags) ReturnVec() bool       { return f&FlagReturnVec != 0 }
func (f Flags) SupportsPoolEIO() bool { return f&FlagSupportsEIO != 0 }

// Unknown returns the bits this version has no name for.
func (f Flags) Unknown() Flags {
	_, unknown := flagNames.Names(cos.BitFlags(f))
	return Flags(unknown)
}

// String joins set flag names with '+'; unknown bits are shown in hex.
func (f Flags) String() string { return bitsString(flagNames, uint64(f)) }

// FlagName returns the name of a single frame flag bit.
func FlagName(f Flags) string { return flagNames.Name(cos.BitFlags(f)) }

func ParseFlag(name string) (Flags, bool) {
	bit, ok := flagNames.Bit(name)
	return Flags(bit), ok
}

// OpFlags is the per-op 32-bit flag word.
type OpFlags uint32

const (
	OpFlagExcl              OpFlags = 0x1 // EXCL object create
	OpFlagFailOK            OpFlags = 0x2 // continue despite failure
	OpFlagFadviseRandom     OpFlags = 0x4
	OpFlagFadviseSequential OpFlags = 0x8
	OpFlagFadviseWillNeed   OpFlags = 0x10
	OpFlagFadviseDontNeed   OpFlags = 0x20
	OpFlagFadviseNoCache    OpFlags = 0x40 // accessed only once by this client
	OpFlagWithReference     OpFlags = 0x80 // need reference counting
	OpFlagBypassCleanCache  OpFlags = 0x100
)

var opFlagNames = cos.NamedBits{
	{"excl", cos.BitFlags(OpFlagExcl)},
	{"failok", cos.BitFlags(OpFlagFailOK)},
	{"fadvise_random", cos.BitFlags(OpFlagFadviseRandom)},
	{"fadvise_sequential", cos.BitFlags(OpFlagFadviseSequential)},
	{"fadvise_willneed", cos.BitFlags(OpFlagFadviseWillNeed)},
	{"fadvise_dontneed", cos.BitFlags(OpFlagFadviseDontNeed)},
	{"fadvise_nocache", cos.BitFlags(OpFlagFadviseNoCache)},
	{"with_reference", cos.BitFlags(OpFlagWithReference)},
	{"bypass_clean_cache", cos.BitFlags(OpFlagBypassCleanCache)},
}

const opFlagsFadvise = OpFlagFadviseRandom | OpFlagFadviseSequential | OpFlagFadviseWillNeed |
	OpFlagFadviseDontNeed | OpFlagFadviseNoCache

func (f OpFlags) Excl() bool             { return f&OpFlagExcl != 0 }
func (f OpFlags) FailOK() bool           { return f&OpFlagFailOK != 0 }
func (f OpFlags) Fadvise() OpFlags       { return f & opFlagsFadvise }
func (f OpFlags) WithReference() bool    { return f&OpFlagWithReference != 0 }
func (f OpFlags) BypassCleanCache() bool { return f&OpFlagBypassCleanCache != 0 }
func (f OpFlags) String() string         { return bitsString(opFlagNames, uint64(f)) }

func OpFlagName(f OpFlags) string { return opFlagNames.Name(cos.BitFlags(f)) }

func ParseOpFlag(name string) (OpFlags, bool) {
	bit, ok := opFlagNames.Bit(name)
	return OpFlags(bit), ok
}

func bitsString(nb cos.NamedBits, v uint64) string {
	names, unknown := nb.Names(cos.BitFlags(v))
	if unknown != 0 {
		names = append(names, "0x"+strconv.FormatUint(uint64(unknown), 16))
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, "+")
}
