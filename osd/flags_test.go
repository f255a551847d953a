// Package osd_test: unit tests
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package osd_test

import (
	"testing"

	"github.com/NVIDIA/osdwire/osd"
	"github.com/NVIDIA/osdwire/tools/tassert"
)

func TestFlagPredicates(t *testing.T) {
	preds := []struct {
		flag osd.Flags
		is   func(osd.Flags) bool
	}{
		{osd.FlagAck, osd.Flags.Ack},
		{osd.FlagOnNVRAM, osd.Flags.OnNVRAM},
		{osd.FlagOnDisk, osd.Flags.OnDisk},
		{osd.FlagRetry, osd.Flags.Retry},
		{osd.FlagRead, osd.Flags.Read},
		{osd.FlagWrite, osd.Flags.Write},
		{osd.FlagOrderSnap, osd.Flags.OrderSnap},
		{osd.FlagBalanceReads, osd.Flags.BalanceReads},
		{osd.FlagParallelExec, osd.Flags.ParallelExec},
		{osd.FlagPGOp, osd.Flags.PGOp},
		{osd.FlagExec, osd.Flags.Exec},
		{osd.FlagLocalizeReads, osd.Flags.LocalizeReads},
		{osd.FlagRWOrdered, osd.Flags.RWOrdered},
		{osd.FlagIgnoreCache, osd.Flags.IgnoreCache},
		{osd.FlagSkipRWLocks, osd.Flags.SkipRWLocks},
		{osd.FlagIgnoreOverlay, osd.Flags.IgnoreOverlay},
		{osd.FlagFlush, osd.Flags.Flush},
		{osd.FlagMapSnapClone, osd.Flags.MapSnapClone},
		{osd.FlagEnforceSnapc, osd.Flags.EnforceSnapc},
		{osd.FlagRedirected, osd.Flags.Redirected},
		{osd.FlagKnownRedir, osd.Flags.KnownRedir},
		{osd.FlagFullTry, osd.Flags.FullTry},
		{osd.FlagFullForce, osd.Flags.FullForce},
		{osd.FlagIgnoreRedir, osd.Flags.IgnoreRedirect},
		{osd.FlagReturnVec, osd.Flags.ReturnVec},
		{osd.FlagSupportsEIO, osd.Flags.SupportsPoolEIO},
	}
	var all osd.Flags
	for i, p := range preds {
		tassert.Fatalf(t, p.flag&(p.flag-1) == 0, "0x%x: not a single bit", uint32(p.flag))
		tassert.Fatalf(t, p.is(p.flag), "%s: predicate false", p.flag)
		tassert.Fatalf(t, !p.is(^p.flag), "%s: predicate true for the complement", p.flag)
		tassert.Fatalf(t, !p.is(0), "%s: predicate true for zero", p.flag)
		for j, other := range preds {
			if i != j {
				tassert.Fatalf(t, !other.is(p.flag), "%s: %s is set", p.flag, other.flag)
			}
		}
		all |= p.flag
	}
	tassert.Errorf(t, all.IsSet(osd.FlagAck|osd.FlagSupportsEIO), "IsSet")
	tassert.Errorf(t, !osd.FlagAck.IsSet(osd.FlagAck|osd.FlagRead), "IsSet partial")
	tassert.Errorf(t, osd.FlagAck.IsAnySet(osd.FlagAck|osd.FlagRead), "IsAnySet")
}

func TestFlagsUnknownBits(t *testing.T) {
	f := osd.FlagAck | osd.FlagWrite | 0x40000000
	tassert.Fatalf(t, f.Ack() && f.Write() && !f.Read(), "predicates")
	tassert.Fatalf(t, f.Unknown() == 0x40000000, "unknown 0x%x", uint32(f.Unknown()))
	tassert.Fatalf(t, f.String() == "ack+write+0x40000000", "string %q", f.String())

	// deprecated bits are known (named) and otherwise ignored
	f = osd.FlagPeerStatOld | osd.FlagExecPublic
	tassert.Fatalf(t, f.Unknown() == 0, "unknown 0x%x", uint32(f.Unknown()))
	tassert.Fatalf(t, f.String() == "peerstat_old+exec_public", "string %q", f.String())

	// and survive the wire
	b, err := osd.EncodeReply(&osd.Reply{Flags: 0xffffffff})
	tassert.CheckFatal(t, err)
	reply, err := osd.DecodeReply(b)
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, reply.Flags == 0xffffffff, "flags 0x%x", uint32(reply.Flags))

	tassert.Errorf(t, osd.Flags(0).String() == "-", "empty flags")
	tassert.Errorf(t, osd.FlagName(osd.FlagKnownRedir) == "known_if_redirected", "flag name")
	tassert.Errorf(t, osd.FlagName(0x80000000) == "???", "unknown flag name")
}

func TestOpFlags(t *testing.T) {
	f := osd.OpFlagExcl | osd.OpFlagFadviseDontNeed | osd.OpFlagFadviseNoCache | 0x10000
	tassert.Fatalf(t, f.Excl() && !f.FailOK(), "predicates")
	tassert.Fatalf(t, f.Fadvise() == osd.OpFlagFadviseDontNeed|osd.OpFlagFadviseNoCache, "fadvise %s", f.Fadvise())
	tassert.Fatalf(t, f.String() == "excl+fadvise_dontneed+fadvise_nocache+0x10000", "string %q", f.String())
	tassert.Errorf(t, osd.OpFlagName(osd.OpFlagBypassCleanCache) == "bypass_clean_cache", "op flag name")

	op := osd.NewCreate(true)
	tassert.Errorf(t, op.Flags.Excl(), "create excl")
}

func TestParseFlagNames(t *testing.T) {
	for _, f := range []osd.Flags{osd.FlagAck, osd.FlagRead, osd.FlagWrite, osd.FlagExec, osd.FlagPGOp} {
		got, ok := osd.ParseFlag(osd.FlagName(f))
		tassert.Errorf(t, ok && got == f, "%s: parsed %v, %t", osd.FlagName(f), got, ok)
	}
	got, ok := osd.ParseOpFlag("failok")
	tassert.Errorf(t, ok && got == osd.OpFlagFailOK, "failok: parsed %v, %t", got, ok)

	_, ok = osd.ParseFlag("no-such-flag")
	tassert.Errorf(t, !ok, "expected unknown flag name")
}
