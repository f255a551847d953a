// Package osd_test: unit tests
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package osd_test

import (
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/NVIDIA/osdwire/cmn/cos"
	"github.com/NVIDIA/osdwire/osd"
	"github.com/NVIDIA/osdwire/tools/tassert"
)

func TestComputeChecksumCRC32C(t *testing.T) {
	data := make([]byte, 1024)
	for i := range data {
		data[i] = byte(i * 7)
	}
	op := osd.NewChecksum(osd.ChecksumCRC32C, 0, uint64(len(data)), 256, 0)
	tassert.CheckFatal(t, op.Validate())

	out, err := osd.ComputeChecksum(&op, data)
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(out) == 4+4*4, "reply size %d", len(out))
	tassert.Fatalf(t, binary.LittleEndian.Uint32(out) == 4, "count %d", binary.LittleEndian.Uint32(out))

	// the seed is the raw register value: no pre- or post-inversion
	table := crc32.MakeTable(crc32.Castagnoli)
	for i := range 4 {
		want := ^crc32.Update(^uint32(0), table, data[i*256:(i+1)*256])
		got := binary.LittleEndian.Uint32(out[4+4*i:])
		tassert.Errorf(t, got == want, "chunk %d: %x != %x", i, got, want)
	}

	// seed -1 yields the complement of the standard checksum
	op = osd.NewChecksum(osd.ChecksumCRC32C, 0, uint64(len(data)), 0, 0xffffffff)
	out, err = osd.ComputeChecksum(&op, data)
	tassert.CheckFatal(t, err)
	want := crc32.Checksum(data, table) ^ 0xffffffff
	tassert.Errorf(t, binary.LittleEndian.Uint32(out[4:]) == want, "seed -1: %x != %x", binary.LittleEndian.Uint32(out[4:]), want)
}

func TestComputeChecksumXXHash(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	op := osd.NewChecksum(osd.ChecksumXXHash64, 0, 0, 0, 42)
	out, err := osd.ComputeChecksum(&op, data)
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(out) == 4+8 && binary.LittleEndian.Uint32(out) == 1, "reply %x", out)
	tassert.Fatalf(t, binary.LittleEndian.Uint64(out[4:]) == cos.XXHash64(data, 42), "xxhash64")

	op = osd.NewChecksum(osd.ChecksumXXHash32, 0, uint64(len(data)), 0, 7)
	out, err = osd.ComputeChecksum(&op, data)
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, binary.LittleEndian.Uint32(out[4:]) == cos.XXHash32(data, 7), "xxhash32")

	// a different seed, a different digest
	op2 := osd.NewChecksum(osd.ChecksumXXHash32, 0, uint64(len(data)), 0, 8)
	out2, err := osd.ComputeChecksum(&op2, data)
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, string(out) != string(out2), "seed ignored")
}

func TestComputeChecksumErrors(t *testing.T) {
	data := make([]byte, 100)

	op := osd.NewChecksum(osd.ChecksumCRC32C, 0, 100, 30, 0)
	_, err := osd.ComputeChecksum(&op, data)
	tassert.Errorf(t, err != nil, "expecting chunk size error")

	op = osd.NewChecksum(osd.ChecksumCRC32C, 0, 99, 0, 0)
	_, err = osd.ComputeChecksum(&op, data)
	tassert.Errorf(t, err != nil, "expecting length error")

	op = osd.NewRead(0, 100)
	_, err = osd.ComputeChecksum(&op, data)
	tassert.Errorf(t, err != nil, "expecting not-a-checksum error")

	op = osd.NewChecksum(osd.ChecksumCRC32C, 0, 0, 0, 0)
	op.Payload = op.Payload[:2]
	_, err = osd.ComputeChecksum(&op, data)
	tassert.CheckErrIs(t, err, osd.IsErrPayloadLen, "payload length mismatch")

	// empty range: a single digest of nothing
	op = osd.NewChecksum(osd.ChecksumCRC32C, 0, 0, 16, 0)
	out, err := osd.ComputeChecksum(&op, nil)
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, len(out) == 8 && binary.LittleEndian.Uint32(out) == 1, "reply %x", out)
}
