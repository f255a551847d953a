// Package osd implements the wire-level data model shared between object storage
// clients and storage daemons.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package osd

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/NVIDIA/osdwire/cmn/cos"
)

var errNotChecksumOp = errors.New("not a checksum op")

// ComputeChecksum executes a CHECKSUM op against data, the object bytes in
// [Offset, Offset+Length). The result is the op's reply payload: u32 count
// followed by count little-endian digests, one per chunk (a single chunk when
// ChunkSize is zero). The op payload carries the initial value.
func ComputeChecksum(op *Op, data []byte) ([]byte, error) {
	p, ok := op.Params.(Checksum)
	if op.Code != OpChecksum || !ok {
		return nil, errNotChecksumOp
	}
	dsize := p.Type.DigestSize()
	if dsize == 0 {
		return nil, fmt.Errorf("invalid checksum type %d", p.Type)
	}
	if len(op.Payload) != dsize {
		return nil, &ErrPayloadLen{Code: op.Code, Declared: uint64(dsize), Actual: len(op.Payload)}
	}
	if p.Length != 0 && p.Length != uint64(len(data)) {
		return nil, fmt.Errorf("checksum: expecting %d bytes, got %d", p.Length, len(data))
	}
	chunk := len(data)
	if p.ChunkSize > 0 {
		chunk = int(p.ChunkSize)
		if len(data)%chunk != 0 {
			return nil, fmt.Errorf("checksum: length %d is not a multiple of chunk size %d", len(data), chunk)
		}
	}
	count := 1
	if len(data) > 0 {
		count = len(data) / chunk
	}

	out := make([]byte, cos.SizeofI32, cos.SizeofI32+count*dsize)
	binary.LittleEndian.PutUint32(out, uint32(count))
	for i := range count {
		var b []byte
		if len(data) > 0 {
			b = data[i*chunk : (i+1)*chunk]
		}
		switch p.Type {
		case ChecksumXXHash32:
			out = binary.LittleEndian.AppendUint32(out, cos.XXHash32(b, binary.LittleEndian.Uint32(op.Payload)))
		case ChecksumXXHash64:
			out = binary.LittleEndian.AppendUint64(out, cos.XXHash64(b, binary.LittleEndian.Uint64(op.Payload)))
		case ChecksumCRC32C:
			out = binary.LittleEndian.AppendUint32(out, cos.CRC32C(binary.LittleEndian.Uint32(op.Payload), b))
		}
	}
	return out, nil
}
