// Package stats provides methods and functionality to register, track, log,
// and export codec metrics that, for the most part, include "counter" and "size" kinds.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package stats

import (
	"strings"
	ratomic "sync/atomic"

	"github.com/NVIDIA/osdwire/cmn/debug"
	"github.com/NVIDIA/osdwire/osd"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
)

// metric names; Prometheus names are derived by replacing '.' with '_'
const (
	FrameCount  = "frame.n"      // frames, by kind (request|reply) and direction (encode|decode)
	FrameSize   = "frame.size"   // total frame bytes
	OpCount     = "op.n"         // ops, by name
	PayloadSize = "payload.size" // total op payload bytes
	ErrCount    = "err.n"        // codec errors, by kind
)

const (
	KindCounter    = "counter"
	KindCounterVec = "counter-vec"
	KindSize       = "size"
)

// label values
const (
	FrameRequest = "request"
	FrameReply   = "reply"

	DirEncode = "encode"
	DirDecode = "decode"

	ErrKindUnknownOp  = "unknown_op"
	ErrKindPayloadLen = "payload_len"
	ErrKindVariant    = "variant"
	ErrKindFraming    = "framing"
	ErrKindOther      = "other"
)

const namespace = "osdwire"

type (
	statsValue struct {
		iprom iprom
		kind  string
		label struct {
			prom string // Prometheus name (without namespace)
		}
		Value int64 `json:"v,string"`
	}

	// Tracker counts frames, ops, payload bytes, and errors.
	// All methods are safe for concurrent use.
	Tracker struct {
		values map[string]*statsValue
	}
)

func NewTracker(reg prometheus.Registerer) *Tracker {
	t := &Tracker{values: make(map[string]*statsValue, 8)}
	t.reg(reg, FrameCount, KindCounterVec, "total number of frames", "frame", "dir")
	t.reg(reg, FrameSize, KindSize, "total size of frames (bytes)")
	t.reg(reg, OpCount, KindCounterVec, "total number of operations", "op")
	t.reg(reg, PayloadSize, KindSize, "total size of op payloads (bytes)")
	t.reg(reg, ErrCount, KindCounterVec, "total number of codec errors", "kind")
	return t
}

func (t *Tracker) reg(reg prometheus.Registerer, name, kind, help string, varLabs ...string) {
	v := &statsValue{kind: kind}
	v.label.prom = strings.ReplaceAll(name, ".", "_")
	if kind == KindCounterVec {
		debug.Assert(len(varLabs) > 0, name)
		cv := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: v.label.prom, Help: help},
			varLabs)
		v.iprom = counterVec{cv}
		reg.MustRegister(cv)
	} else {
		c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: v.label.prom, Help: help})
		v.iprom = counter{c}
		reg.MustRegister(c)
	}
	t.values[name] = v
}

func (t *Tracker) add(name string, val int64) {
	v, ok := t.values[name]
	debug.Assertf(ok, "invalid metric name %q", name)
	v.iprom.add(v, val)
}

func (t *Tracker) incWith(name string, labs ...string) {
	v, ok := t.values[name]
	debug.Assertf(ok, "invalid metric name %q", name)
	v.iprom.incWith(v, labs)
}

// Get returns the local (label-agnostic) total of the named metric.
func (t *Tracker) Get(name string) int64 {
	v, ok := t.values[name]
	if !ok {
		return 0
	}
	return ratomic.LoadInt64(&v.Value)
}

func (t *Tracker) MarshalJSON() ([]byte, error) { return jsoniter.Marshal(t.values) }

//
// codec events
//

func (t *Tracker) Request(dir string, req *osd.Request, size int) {
	t.incWith(FrameCount, FrameRequest, dir)
	t.add(FrameSize, int64(size))
	t.ops(req.Ops)
}

func (t *Tracker) Reply(dir string, reply *osd.Reply, size int) {
	t.incWith(FrameCount, FrameReply, dir)
	t.add(FrameSize, int64(size))
	t.ops(reply.Ops)
}

func (t *Tracker) ops(ops []osd.Op) {
	var n int64
	for i := range ops {
		t.incWith(OpCount, ops[i].Code.Name())
		n += int64(len(ops[i].Payload))
	}
	if n > 0 {
		t.add(PayloadSize, n)
	}
}

func (t *Tracker) Error(err error) {
	if err == nil {
		return
	}
	t.incWith(ErrCount, ErrKind(err))
}

// ErrKind maps codec errors onto the err.n label; the innermost cause wins.
func ErrKind(err error) string {
	switch {
	case osd.IsErrUnknownOp(err):
		return ErrKindUnknownOp
	case osd.IsErrPayloadLen(err):
		return ErrKindPayloadLen
	case osd.IsErrVariant(err):
		return ErrKindVariant
	case osd.IsErrFraming(err):
		return ErrKindFraming
	default:
		return ErrKindOther
	}
}
