// Package cos provides common low-level types and utilities for all osdwire packages.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"fmt"
	"hash"
	"hash/crc32"

	"github.com/OneOfOne/xxhash"
)

const badMetaCksumPrefix = "BAD META CHECKSUM:"

type ErrBadCksum struct {
	prefix  string
	a, b    uint64
	context string
}

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C runs the Castagnoli CRC register from crc over b, with no inversion
// on either side: the standard checksum is ^CRC32C(^0, b), and calls chain.
func CRC32C(crc uint32, b []byte) uint32 { return ^crc32.Update(^crc, crc32cTable, b) }

func NewXXHash64() hash.Hash64 { return xxhash.New64() }

func XXHash32(b []byte, seed uint32) uint32 { return xxhash.Checksum32S(b, seed) }
func XXHash64(b []byte, seed uint64) uint64 { return xxhash.Checksum64S(b, seed) }

func NewErrMetaCksum(a, b uint64, context ...string) error {
	ctx := ""
	if len(context) > 0 {
		ctx = context[0]
	}
	return &ErrBadCksum{prefix: badMetaCksumPrefix, a: a, b: b, context: ctx}
}

func (e *ErrBadCksum) Error() string {
	var context string
	if e.context != "" {
		context = " (context: " + e.context + ")"
	}
	return fmt.Sprintf("%s %x != %x%s", e.prefix, e.a, e.b, context)
}

func IsErrBadCksum(err error) bool {
	_, ok := err.(*ErrBadCksum)
	return ok
}
