// Package osd_test: unit tests
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package osd_test

import (
	"strconv"
	"testing"

	"github.com/NVIDIA/osdwire/osd"
	"github.com/NVIDIA/osdwire/tools/tassert"
)

// For a given bmask the bin never decreases as b grows from 1 to bmask+1; in
// the valid range (bmask+1)/2 < b <= bmask+1 it is also below b and only ever
// moves into the newly added bin.
func TestStableModMonotonic(t *testing.T) {
	for n := range 8 {
		var (
			bmask = 1<<n - 1
			first = bmask>>1 + 1
		)
		for x := 0; x <= 4*bmask; x++ {
			prev := osd.StableMod(x, 1, bmask)
			for b := 2; b <= bmask+1; b++ {
				bin := osd.StableMod(x, b, bmask)
				tassert.Fatalf(t, bin >= prev, "x=%d b=%d bmask=%d: decreased %d => %d", x, b, bmask, prev, bin)
				if b >= first {
					tassert.Fatalf(t, bin < b, "x=%d b=%d bmask=%d: bin %d out of range", x, b, bmask, bin)
				}
				if b > first && bin != prev {
					tassert.Fatalf(t, bin == b-1, "x=%d b=%d bmask=%d: moved %d => %d", x, b, bmask, prev, bin)
				}
				prev = bin
			}
		}
	}
}

func TestStableModIdentity(t *testing.T) {
	for n := range 12 {
		bmask := 1<<n - 1
		for x := range 4 * (bmask + 1) {
			got := osd.StableMod(x, bmask+1, bmask)
			tassert.Fatalf(t, got == x&bmask, "x=%d bmask=%d: %d != %d", x, bmask, got, x&bmask)
		}
	}
}

func TestStableModExamples(t *testing.T) {
	tests := []struct{ x, b, bmask, want int }{
		{x: 13, b: 12, bmask: 15, want: 5},
		{x: 11, b: 12, bmask: 15, want: 11},
		{x: 12, b: 12, bmask: 15, want: 4},
		{x: 12, b: 13, bmask: 15, want: 12},
		{x: 0, b: 1, bmask: 0, want: 0},
		{x: 127, b: 123, bmask: 127, want: 63},
	}
	for _, tc := range tests {
		got := osd.StableMod(tc.x, tc.b, tc.bmask)
		tassert.Errorf(t, got == tc.want, "StableMod(%d, %d, %d) = %d, expected %d", tc.x, tc.b, tc.bmask, got, tc.want)
	}
}

func TestCalcBmask(t *testing.T) {
	tests := []struct{ b, want int }{
		{1, 0}, {2, 1}, {3, 3}, {4, 3}, {5, 7}, {12, 15}, {16, 15}, {17, 31}, {123, 127}, {1 << 16, 1<<16 - 1},
	}
	for _, tc := range tests {
		got := osd.CalcBmask(tc.b)
		tassert.Errorf(t, got == tc.want, "CalcBmask(%d) = %d, expected %d", tc.b, got, tc.want)
		tassert.Errorf(t, tc.b <= got+1 && got+1 < 2*tc.b, "CalcBmask(%d) = %d is not the smallest", tc.b, got)
	}
}

func TestObjectPG(t *testing.T) {
	const (
		pool  = 7
		pgNum = 12
	)
	counts := make([]int, pgNum)
	for i := range 10000 {
		name := "obj-" + strconv.Itoa(i)
		pg := osd.ObjectPG(pool, name)
		tassert.Fatalf(t, pg == osd.ObjectPG(pool, name), "%q: not deterministic", name)
		tassert.Fatalf(t, pg.Pool == pool, "%q: wrong pool %d", name, pg.Pool)

		folded := pg.Fold(pgNum)
		tassert.Fatalf(t, int(folded.Seed) < pgNum, "%q: folded seed %d out of range", name, folded.Seed)
		tassert.Fatalf(t, folded.Pool == pool, "%q: pool changed", name)
		counts[folded.Seed]++
	}
	for seed, cnt := range counts {
		tassert.Errorf(t, cnt > 0, "PG %d.%x is empty", pool, seed)
	}
	tassert.Errorf(t, osd.PG{Pool: 3, Seed: 0x1f}.String() == "3.1f", "unexpected PG string")
}
