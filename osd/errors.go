// Package osd implements the wire-level data model shared between object storage
// clients and storage daemons.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package osd

import (
	"errors"
	"fmt"
	"strconv"
)

type (
	// ErrUnknownOp: op code not in the catalog.
	ErrUnknownOp struct {
		Code OpCode
	}
	// ErrFraming: declared lengths are inconsistent with the buffer (too short,
	// too long, or count mismatch).
	ErrFraming struct {
		cause error
		What  string
		Need  int
		Have  int
	}
	// ErrPayloadLen: the payload given to the encoder disagrees with the lengths
	// declared in the parameter block.
	ErrPayloadLen struct {
		Code     OpCode
		Declared uint64
		Actual   int
	}
	// ErrVariant: parameter block does not match the shape the op code requires.
	ErrVariant struct {
		Code OpCode
		Want Shape
		Got  Shape
	}
)

// ErrUnknownOp

func NewErrUnknownOp(code OpCode) *ErrUnknownOp { return &ErrUnknownOp{Code: code} }

func (e *ErrUnknownOp) Error() string {
	return "unknown op code 0x" + strconv.FormatUint(uint64(e.Code), 16)
}

func IsErrUnknownOp(err error) bool {
	var e *ErrUnknownOp
	return errors.As(err, &e)
}

// ErrFraming

func newErrFraming(what string, need, have int, cause error) *ErrFraming {
	return &ErrFraming{What: what, Need: need, Have: have, cause: cause}
}

func errExceeds(what string, n, limit int) *ErrFraming {
	return newErrFraming(what+" "+strconv.Itoa(n)+" exceeds the limit "+strconv.Itoa(limit), 0, 0, nil)
}

func (e *ErrFraming) Error() string {
	var s string
	switch {
	case e.Need > e.Have:
		s = fmt.Sprintf("framing error: %s: need %d bytes, have %d", e.What, e.Need, e.Have)
	case e.Need < e.Have:
		s = fmt.Sprintf("framing error: %s: %d trailing byte(s)", e.What, e.Have-e.Need)
	default:
		s = "framing error: " + e.What
	}
	if e.cause != nil {
		s += ": " + e.cause.Error()
	}
	return s
}

func (e *ErrFraming) Unwrap() error { return e.cause }

func IsErrFraming(err error) bool {
	var e *ErrFraming
	return errors.As(err, &e)
}

// ErrPayloadLen

func (e *ErrPayloadLen) Error() string {
	return fmt.Sprintf("%s: payload length mismatch: declared %d, actual %d", e.Code, e.Declared, e.Actual)
}

func IsErrPayloadLen(err error) bool {
	var e *ErrPayloadLen
	return errors.As(err, &e)
}

// ErrVariant

func (e *ErrVariant) Error() string {
	return fmt.Sprintf("%s: unsupported parameter block %q (expecting %q)", e.Code, e.Got, e.Want)
}

func IsErrVariant(err error) bool {
	var e *ErrVariant
	return errors.As(err, &e)
}
