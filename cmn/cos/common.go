// Package cos provides common low-level types and utilities for all osdwire packages.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import "unsafe"

const (
	SizeofI64 = int(unsafe.Sizeof(uint64(0)))
	SizeofI32 = int(unsafe.Sizeof(uint32(0)))
	SizeofI16 = int(unsafe.Sizeof(uint16(0)))
	SizeofI8  = int(unsafe.Sizeof(uint8(0)))
)

func Plural(num int) (s string) {
	if num != 1 {
		s = "s"
	}
	return
}
