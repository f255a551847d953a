// Package jsp (JSON persistence) provides utilities to store and load arbitrary
// JSON-encoded structures with optional checksumming and compression.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package jsp

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/NVIDIA/osdwire/cmn/cos"
	"github.com/NVIDIA/osdwire/cmn/debug"
	jsoniter "github.com/json-iterator/go"
	"github.com/pierrec/lz4/v4"
)

const (
	signature = "osdwire" // file signature
	version   = 1         // jsp format version
	//                              0 ---------------- 63  64 ------ 95 | 96 ------ 127
	prefLen = 2 * cos.SizeofI64 // [ signature | jsp ver | meta version |   bit flags  ]
	cksLen  = cos.SizeofI64
)

const (
	flagCompress = 1 << iota
	flagChecksum
)

func EncodeBuf(v any, opts Options) []byte {
	buf := &bytes.Buffer{}
	err := Encode(buf, v, opts)
	debug.AssertNoErr(err)
	return buf.Bytes()
}

func Encode(ws io.Writer, v any, opts Options) (err error) {
	var (
		zw   *lz4.Writer
		w    io.Writer
		body = &bytes.Buffer{}
	)
	if opts.Signature {
		var (
			prefix [prefLen]byte
			flags  uint32
		)
		l := len(signature)
		debug.Assert(l < cos.SizeofI64)
		copy(prefix[:], signature)
		prefix[l] = version
		binary.BigEndian.PutUint32(prefix[cos.SizeofI64:], opts.Metaver)
		if opts.Compress {
			flags |= flagCompress
		}
		if opts.Checksum {
			flags |= flagChecksum
		}
		binary.BigEndian.PutUint32(prefix[cos.SizeofI64+cos.SizeofI32:], flags)
		if _, err = ws.Write(prefix[:]); err != nil {
			return
		}
	}

	w = body
	if opts.Compress {
		zw = lz4.NewWriter(body)
		w = zw
	}
	encoder := jsoniter.NewEncoder(w)
	if opts.Indent {
		encoder.SetIndent("", "  ")
	}
	if err = encoder.Encode(v); err != nil {
		return
	}
	if zw != nil {
		if err = zw.Close(); err != nil {
			return
		}
	}

	if opts.Checksum {
		var (
			cks [cksLen]byte
			h   = cos.NewXXHash64()
		)
		h.Write(body.Bytes())
		binary.BigEndian.PutUint64(cks[:], h.Sum64())
		if _, err = ws.Write(cks[:]); err != nil {
			return
		}
	}
	_, err = ws.Write(body.Bytes())
	return
}

// Decode returns the checksum of the decoded payload, if present.
func Decode(reader io.Reader, v any, opts Options, tag string) (cksum uint64, err error) {
	var errVer error // compatible version, if any
	if opts.Signature {
		var prefix [prefLen]byte
		if _, err = io.ReadFull(reader, prefix[:]); err != nil {
			return
		}
		l := len(signature)
		if signature != string(prefix[:l]) {
			return 0, &ErrBadSignature{tag, string(prefix[:l]), signature}
		}
		if prefix[l] != version {
			return 0, &ErrVersion{tag, uint32(prefix[l]), version}
		}
		metaver := binary.BigEndian.Uint32(prefix[cos.SizeofI64:])
		if opts.Metaver != 0 && metaver != opts.Metaver {
			errVer = newErrVersion(tag, metaver, opts.Metaver, opts.OldMetaverOk)
			if !IsErrJspCompatibleVersion(errVer) {
				return 0, errVer
			}
		}
		flags := binary.BigEndian.Uint32(prefix[cos.SizeofI64+cos.SizeofI32:])
		opts.Compress = flags&flagCompress != 0
		opts.Checksum = flags&flagChecksum != 0
	}

	r := reader
	if opts.Checksum {
		var (
			cks  [cksLen]byte
			body []byte
			h    = cos.NewXXHash64()
		)
		if _, err = io.ReadFull(reader, cks[:]); err != nil {
			return
		}
		if body, err = io.ReadAll(reader); err != nil {
			return
		}
		h.Write(body)
		expected, actual := binary.BigEndian.Uint64(cks[:]), h.Sum64()
		if expected != actual {
			return 0, cos.NewErrMetaCksum(expected, actual, tag)
		}
		cksum = actual
		r = bytes.NewReader(body)
	}
	if opts.Compress {
		r = lz4.NewReader(r)
	}
	if errDec := jsoniter.NewDecoder(r).Decode(v); errDec != nil {
		return 0, errDec
	}
	return cksum, errVer
}

// IsSigned reports whether b starts with the jsp prefix.
func IsSigned(b []byte) bool {
	return len(b) >= prefLen && string(b[:len(signature)]) == signature && b[len(signature)] == version
}
