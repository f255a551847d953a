// Package osd implements the wire-level data model shared between object storage
// clients and storage daemons.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package osd

import (
	"math/bits"

	"github.com/NVIDIA/osdwire/cmn/debug"
	"github.com/cespare/xxhash/v2"
)

// StableMod is similar to straight-up modulo but produces a stable mapping as
// b grows over time: b is the number of bins and bmask is the containing
// power of 2 minus 1 (b <= bmask+1), e.g. b=12 -> bmask=15, b=123 -> bmask=127.
//
// As b increases toward bmask+1 a key either keeps its bin or moves to the
// newly added bin; it never moves to a lower bin.
func StableMod(x, b, bmask int) int {
	if x&bmask < b {
		return x & bmask
	}
	return x & (bmask >> 1)
}

// CalcBmask returns the smallest (2^n - 1) such that b <= bmask+1.
func CalcBmask(b int) int {
	debug.Assert(b > 0, b)
	if b <= 1 {
		return 0
	}
	return 1<<bits.Len(uint(b-1)) - 1
}

// HashObjName maps an object name onto the 32-bit raw placement seed space.
func HashObjName(name string) uint32 {
	h := xxhash.Sum64String(name)
	return uint32(h) ^ uint32(h>>32)
}

// ObjectPG returns the (raw, full precision) placement group of a named object.
func ObjectPG(pool uint32, name string) PG {
	return PG{Seed: uint16(HashObjName(name)), Pool: pool}
}

// Fold folds the raw placement seed into one of pgNum actual PGs.
func (pg PG) Fold(pgNum int) PG {
	debug.Assert(pgNum > 0 && pgNum <= 1<<16, pgNum)
	folded := pg
	folded.Seed = uint16(StableMod(int(pg.Seed), pgNum, CalcBmask(pgNum)))
	return folded
}
