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

func TestSubopNames(t *testing.T) {
	tests := []struct{ got, want string }{
		{osd.CmpXattrGTE.String(), "gte"},
		{osd.CmpXattrModeU64.String(), "u64"},
		{osd.CmpXattrOp(9).String(), "???"},
		{osd.WatchOpName(osd.WatchOpReconnect), "reconnect"},
		{osd.WatchOpName(osd.WatchOpUnwatch), "unwatch"},
		{osd.WatchOpName(2), "???"},
		{osd.ChecksumCRC32C.String(), "crc32c"},
		{osd.AllocHintFlagName(osd.AllocHintImmutable), "immutable"},
		{osd.AllocHintFlagName(osd.AllocHintLog), "log"},
		{(osd.AllocHintSequentialRead | osd.AllocHintCompressible).String(), "sequential_read+compressible"},
		{osd.BackoffOpName(osd.BackoffAckBlock), "ack-block"},
		{osd.BackoffOpName(0), "???"},
		{osd.OSDStateName(osd.OSDBackfillFull), "backfillfull"},
		{(osd.OSDExists | osd.OSDUp).String(), "exists+up"},
		{osd.ReleaseName(osd.ReleaseLuminous), "luminous"},
		{osd.ReleaseName(osd.ReleaseTentacle), "tentacle"},
		{osd.ReleaseName(osd.ReleaseMax), "unknown"},
		{osd.ReleaseName(0), "unknown"},
		{(osd.CopyFromFlush | osd.CopyFromRWOrdered).String(), "flush+rwordered"},
	}
	for _, tc := range tests {
		tassert.Errorf(t, tc.got == tc.want, "%q != %q", tc.got, tc.want)
	}
	tassert.Errorf(t, osd.AllocHintLog == 1024, "alloc hint bits")
	tassert.Errorf(t, osd.OSDStop == 1<<12, "osd state bits")
	tassert.Errorf(t, osd.OSDMapNoAutoscale == 1<<23, "osd map flag bits")
	tassert.Errorf(t, osd.ReleaseMax == 21, "releases")
}

func TestCopyFromFlags(t *testing.T) {
	f := osd.CopyFromFlush | osd.CopyFromIgnoreCache | osd.CopyFromTruncateSeq
	tassert.Fatalf(t, f.Valid(), "valid")
	tassert.Fatalf(t, !(f | 0x40).Valid(), "invalid bit")
	tassert.Fatalf(t, f.UsesTruncateSeq(osd.OpCopyFrom2), "copy-from2")
	tassert.Fatalf(t, !f.UsesTruncateSeq(osd.OpCopyFrom), "copy-from")
	tassert.Fatalf(t, f.FrameFlags() == osd.FlagFlush|osd.FlagIgnoreCache, "frame flags %s", f.FrameFlags())

	op := osd.NewCopyFrom(osd.NoSnap, 1, f, 0, []byte("src"))
	tassert.Fatalf(t, op.Code == osd.OpCopyFrom2, "expecting copy-from2, got %s", op.Code)
	op = osd.NewCopyFrom(osd.NoSnap, 1, osd.CopyFromFlush, 0, []byte("src"))
	tassert.Fatalf(t, op.Code == osd.OpCopyFrom, "expecting copy-from, got %s", op.Code)
}

func TestOSDMapFlags(t *testing.T) {
	f := osd.OSDMapNoOut | osd.OSDMapSortBitwise | osd.OSDMapRequireLuminous
	tassert.Fatalf(t, f.Visible() == osd.OSDMapNoOut, "visible %s", f.Visible())
	tassert.Fatalf(t, f.String() == "noout+sortbitwise+require_luminous_osds", "string %q", f.String())
	tassert.Fatalf(t, osd.OSDMapLegacyRequire&osd.OSDMapSemiHidden == osd.OSDMapLegacyRequire, "masks")
}

func TestChecksumTypes(t *testing.T) {
	for _, tc := range []struct {
		ty   osd.ChecksumType
		size int
	}{
		{osd.ChecksumXXHash32, 4}, {osd.ChecksumXXHash64, 8}, {osd.ChecksumCRC32C, 4}, {7, 0},
	} {
		tassert.Errorf(t, tc.ty.DigestSize() == tc.size, "%s: %d", tc.ty, tc.ty.DigestSize())
		if tc.size > 0 {
			ty, ok := osd.ParseChecksumType(tc.ty.String())
			tassert.Errorf(t, ok && ty == tc.ty, "parse %s", tc.ty)
		}
	}
}
