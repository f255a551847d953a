// Package osd_test: unit tests
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package osd_test

import (
	"reflect"
	"testing"

	"github.com/NVIDIA/osdwire/osd"
	"github.com/NVIDIA/osdwire/tools/tassert"
	jsoniter "github.com/json-iterator/go"
)

func sampleReply() *osd.Reply {
	return &osd.Reply{
		Object:      "rbd_data.1234.0000000000000001",
		Ops:         []osd.Op{osd.NewStat(), sampleOp(osd.OpSparseRead), sampleOp(osd.OpCall)},
		Layout:      osd.ObjectLayout{PG: osd.PG{Preferred: 0xffff, Seed: 0x2a, Pool: 5}, StripeUnit: 4 << 20},
		Version:     osd.EVersion{Epoch: 12, Version: 3456},
		ClientInc:   1,
		Flags:       osd.FlagAck | osd.FlagOnDisk | osd.FlagReturnVec,
		OSDMapEpoch: 99,
		Result:      -2,
	}
}

func TestMsgpReply(t *testing.T) {
	reply := sampleReply()
	b, err := reply.MarshalMsg(nil)
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(b) <= reply.Msgsize(), "msgsize %d < %d", reply.Msgsize(), len(b))

	var out osd.Reply
	left, err := out.UnmarshalMsg(b)
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(left) == 0, "leftover %d", len(left))
	tassert.Fatalf(t, reflect.DeepEqual(reply, &out), "\n%+v\n%+v", reply, &out)
}

func TestMsgpRequest(t *testing.T) {
	req := &osd.Request{
		Object:      "obj",
		Ops:         []osd.Op{sampleOp(osd.OpWatch), sampleOp(osd.OpSetAllocHint), sampleOp(osd.OpCopyFrom2)},
		Layout:      osd.ObjectLayout{PG: osd.PG{Seed: 7, Pool: 1}},
		ClientInc:   3,
		Flags:       osd.FlagWrite,
		OSDMapEpoch: 1000,
		SnapID:      osd.NoSnap,
		MTime:       osd.Timespec{Sec: 1, Nsec: 2},
		Reassert:    osd.EVersion{Epoch: 3, Version: 4},
	}
	b, err := req.MarshalMsg(nil)
	tassert.CheckFatal(t, err)

	var out osd.Request
	_, err = out.UnmarshalMsg(b)
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, reflect.DeepEqual(req, &out), "\n%+v\n%+v", req, &out)

	// unknown op codes are refused both ways
	req.Ops = append(req.Ops, osd.Op{Code: 0x1299})
	_, err = req.MarshalMsg(nil)
	tassert.CheckErrIs(t, err, osd.IsErrUnknownOp, "unknown op")
}

func TestOpJSON(t *testing.T) {
	op := osd.NewCall("lock", "lock", []byte("xyz"))
	b, err := jsoniter.Marshal(op)
	tassert.CheckFatal(t, err)

	var m map[string]any
	tassert.CheckFatal(t, jsoniter.Unmarshal(b, &m))
	tassert.Fatalf(t, m["op"] == "call" && m["code"] == "0x1401" && m["shape"] == "cls", "%s", b)
	tassert.Fatalf(t, m["class"] == "lock" && m["method"] == "lock", "%s", b)
	tassert.Fatalf(t, m["payload_len"] == float64(11), "%s", b)

	cat := osd.Catalog()
	tassert.Fatalf(t, len(cat) == len(osd.Codes()), "catalog size %d", len(cat))
	tassert.Fatalf(t, cat[0].Name == "read" && cat[0].Mode == "rd", "first %+v", cat[0])
}
