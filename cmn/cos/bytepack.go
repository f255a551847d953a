// Package cos provides common low-level types and utilities for all osdwire packages.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"encoding/binary"
	"errors"

	"github.com/NVIDIA/osdwire/cmn/debug"
)

// The module provides a way to encode/decode data as a compact, packed,
// little-endian binary slice (no alignment padding, no reflection).
//
// Packing:
// 1. Implement Packer for every struct that goes on the wire.
// 2. Compute the total size up front (sum of PackedSize) and allocate the
//    buffer once - the packer never grows it.
// 3. Write fields in wire order; get the result with `packer.Bytes()`.
//
// Unpacking:
// 1. Create the unpacker with `NewUnpacker([]byte)`.
// 2. Read fields in the same order they were written.
// 3. Reading never panics: every read is bounds-checked and returns
//    ErrBufferUnderrun when the buffer is too short.
//
// Notes on size calculation:
//  - for POD types use the `Sizeof..` constants
//  - length-prefixed strings take `SizeofLen + len(s)` (see PackedStrLen)
//  - raw byte runs (WriteRaw) take exactly len(b)

type (
	BytePack struct {
		off int
		b   []byte
	}

	ByteUnpack struct {
		off int
		b   []byte
	}

	Unpacker interface {
		Unpack(unpacker *ByteUnpack) error
	}

	Packer interface {
		Pack(packer *BytePack)
		PackedSize() int
	}
)

// length prefix of a packed string or byte slice
const SizeofLen = SizeofI32

var ErrBufferUnderrun = errors.New("buffer underrun")

// PackedStrLen returns the size occupied by a given string in the output
func PackedStrLen(s string) int {
	return SizeofLen + len(s)
}

func NewUnpacker(buf []byte) *ByteUnpack {
	return &ByteUnpack{b: buf}
}

func NewPacker(buf []byte, bufLen int) *BytePack {
	if buf == nil {
		return &BytePack{b: make([]byte, bufLen)}
	}
	return &BytePack{b: buf}
}

//
// Unpacker
//

func (br *ByteUnpack) Bytes() []byte { return br.b }
func (br *ByteUnpack) Off() int      { return br.off }
func (br *ByteUnpack) Len() int      { return len(br.b) - br.off }

func (br *ByteUnpack) ReadByte() (byte, error) {
	if br.off >= len(br.b) {
		return 0, ErrBufferUnderrun
	}
	b := br.b[br.off]
	br.off++
	return b, nil
}

func (br *ByteUnpack) ReadUint16() (uint16, error) {
	if br.Len() < SizeofI16 {
		return 0, ErrBufferUnderrun
	}
	n := binary.LittleEndian.Uint16(br.b[br.off:])
	br.off += SizeofI16
	return n, nil
}

func (br *ByteUnpack) ReadUint32() (uint32, error) {
	if br.Len() < SizeofI32 {
		return 0, ErrBufferUnderrun
	}
	n := binary.LittleEndian.Uint32(br.b[br.off:])
	br.off += SizeofI32
	return n, nil
}

func (br *ByteUnpack) ReadInt32() (int32, error) {
	n, err := br.ReadUint32()
	return int32(n), err
}

func (br *ByteUnpack) ReadUint64() (uint64, error) {
	if br.Len() < SizeofI64 {
		return 0, ErrBufferUnderrun
	}
	n := binary.LittleEndian.Uint64(br.b[br.off:])
	br.off += SizeofI64
	return n, nil
}

func (br *ByteUnpack) ReadInt64() (int64, error) {
	n, err := br.ReadUint64()
	return int64(n), err
}

// ReadRaw returns the next n bytes without copying.
func (br *ByteUnpack) ReadRaw(n int) ([]byte, error) {
	if n < 0 || br.Len() < n {
		return nil, ErrBufferUnderrun
	}
	start := br.off
	br.off += n
	return br.b[start:br.off:br.off], nil
}

func (br *ByteUnpack) Skip(n int) error {
	if n < 0 || br.Len() < n {
		return ErrBufferUnderrun
	}
	br.off += n
	return nil
}

func (br *ByteUnpack) ReadBytes() ([]byte, error) {
	l, err := br.ReadUint32()
	if err != nil {
		return nil, err
	}
	if uint64(br.Len()) < uint64(l) {
		return nil, ErrBufferUnderrun
	}
	return br.ReadRaw(int(l))
}

func (br *ByteUnpack) ReadString() (string, error) {
	bytes, err := br.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (br *ByteUnpack) ReadAny(st Unpacker) error {
	return st.Unpack(br)
}

//
// Packer
//

func (bw *BytePack) WriteByte(b byte) {
	bw.b[bw.off] = b
	bw.off++
}

func (bw *BytePack) WriteUint16(i uint16) {
	binary.LittleEndian.PutUint16(bw.b[bw.off:], i)
	bw.off += SizeofI16
}

func (bw *BytePack) WriteUint32(i uint32) {
	binary.LittleEndian.PutUint32(bw.b[bw.off:], i)
	bw.off += SizeofI32
}

func (bw *BytePack) WriteInt32(i int32) { bw.WriteUint32(uint32(i)) }

func (bw *BytePack) WriteUint64(i uint64) {
	binary.LittleEndian.PutUint64(bw.b[bw.off:], i)
	bw.off += SizeofI64
}

func (bw *BytePack) WriteInt64(i int64) { bw.WriteUint64(uint64(i)) }

// WriteRaw copies b as is, with no length prefix.
func (bw *BytePack) WriteRaw(b []byte) {
	written := copy(bw.b[bw.off:], b)
	Assert(written == len(b))
	bw.off += written
}

// WriteZeros emits n zero bytes (union padding).
func (bw *BytePack) WriteZeros(n int) {
	end := bw.off + n
	clear(bw.b[bw.off:end])
	bw.off = end
}

func (bw *BytePack) WriteString(s string) {
	l := len(s)
	bw.WriteUint32(uint32(l))
	if l == 0 {
		return
	}
	written := copy(bw.b[bw.off:], s)
	Assert(written == l)
	bw.off += l
}

func (bw *BytePack) WriteBytes(b []byte) {
	bw.WriteUint32(uint32(len(b)))
	bw.WriteRaw(b)
}

func (bw *BytePack) WriteAny(st Packer) {
	prev := bw.off
	st.Pack(bw)
	debug.Assertf(
		bw.off-prev == st.PackedSize(),
		"%T declared %d, saved %d: %+v", st, st.PackedSize(), bw.off-prev, st,
	)
}

func (bw *BytePack) Off() int      { return bw.off }
func (bw *BytePack) Bytes() []byte { return bw.b[:bw.off] }
