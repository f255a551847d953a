// Package stats provides methods and functionality to register, track, log,
// and export codec metrics that, for the most part, include "counter" and "size" kinds.
/*
 * Copyright (c) 2024-2026, NVIDIA CORPORATION. All rights reserved.
 */
package stats

import (
	ratomic "sync/atomic"

	"github.com/NVIDIA/osdwire/cmn/debug"
	"github.com/prometheus/client_golang/prometheus"
)

type (
	iprom interface {
		add(parent *statsValue, val int64)
		incWith(parent *statsValue, labs []string)
	}

	counter    struct{ prometheus.Counter }
	counterVec struct{ *prometheus.CounterVec }
)

// interface guard
var (
	_ iprom = (*counter)(nil)
	_ iprom = (*counterVec)(nil)
)

func (v counter) add(parent *statsValue, val int64) {
	ratomic.AddInt64(&parent.Value, val)
	v.Add(float64(val))
}

func (v counterVec) incWith(parent *statsValue, labs []string) {
	ratomic.AddInt64(&parent.Value, 1)
	v.WithLabelValues(labs...).Inc()
}

// illegal impl. placeholders

func (counter) incWith(*statsValue, []string) { debug.Assert(false) }
func (counterVec) add(*statsValue, int64)     { debug.Assert(false) }
