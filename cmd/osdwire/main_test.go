// Package main is osdwire: a low-level tool to decode, encode, and inspect
// object-operation request and reply frames.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/NVIDIA/osdwire/cmn"
	"github.com/NVIDIA/osdwire/cmn/cos"
	"github.com/NVIDIA/osdwire/cmn/nlog"
	"github.com/NVIDIA/osdwire/osd"
	"github.com/NVIDIA/osdwire/stats"
	"github.com/NVIDIA/osdwire/tools/tassert"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"
)

func TestMain(m *testing.M) {
	nlog.SetToStderr(true)
	config = cmn.DefaultConfig()
	codec = osd.NewCodec(config.Codec.Limits())
	os.Exit(m.Run())
}

const requestYAML = `
kind: request
object: rbd_data.1
pool: 3
pgnum: 64
epoch: 42
flags: [ondisk]
ops:
  - op: writefull
    data: hello
  - op: setxattr
    name: user.tag
    value: v1
  - op: call
    class: lock
    method: lock
    hex: "0102"
  - op: read
    offset: 4096
    length: 512
    flags: [fadvise_dontneed]
  - op: checksum
    type: crc32c
    length: 8192
    chunk: 4096
  - op: omap-get-vals
`

func parseSpec(t *testing.T, s string) *frameSpec {
	var spec frameSpec
	tassert.CheckFatal(t, yaml.Unmarshal([]byte(s), &spec))
	return &spec
}

func TestEncodeRequestSpec(t *testing.T) {
	spec := parseSpec(t, requestYAML)
	now := time.Unix(1700000000, 5)
	b, err := spec.encode(now)
	tassert.CheckFatal(t, err)

	req, err := osd.DecodeRequest(b)
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, req.Object == "rbd_data.1", "object %q", req.Object)
	tassert.Fatalf(t, len(req.Ops) == 6, "ops %d", len(req.Ops))
	tassert.Errorf(t, req.OSDMapEpoch == 42 && req.SnapID == osd.NoSnap, "epoch %d snap %s", req.OSDMapEpoch, req.SnapID)
	tassert.Errorf(t, req.MTime == osd.NewTimespec(now), "mtime %+v", req.MTime)
	tassert.Errorf(t, req.Layout.PG == osd.ObjectPG(3, "rbd_data.1").Fold(64), "pg %s", req.Layout.PG)

	// explicit flags plus those the ops require
	tassert.Errorf(t, req.Flags.OnDisk() && req.Flags.Write() && req.Flags.Read() && req.Flags.Exec(),
		"flags %s", req.Flags)
	tassert.Errorf(t, len(osd.CheckFlags(req.Flags, req.Ops)) == 0, "uncovered ops")

	call := req.Ops[2]
	tassert.Errorf(t, call.ClassName() == "lock" && call.MethodName() == "lock", "call %s.%s",
		call.ClassName(), call.MethodName())
	tassert.Errorf(t, bytes.Equal(call.Indata(), []byte{1, 2}), "indata %x", call.Indata())
	tassert.Errorf(t, req.Ops[3].Flags == osd.OpFlagFadviseDontNeed, "op flags %s", req.Ops[3].Flags)
	tassert.Errorf(t, len(req.Ops[4].Payload) == 4, "checksum seed %d bytes", len(req.Ops[4].Payload))
}

func TestEncodeReplySpec(t *testing.T) {
	spec := parseSpec(t, `
kind: reply
object: foo
result: -2
version: 7
epoch: 3
flags: [ack, ondisk]
ops:
  - op: stat
`)
	b, err := spec.encode(time.Now())
	tassert.CheckFatal(t, err)
	reply, err := osd.DecodeReply(b)
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, reply.Result == -2, "result %d", reply.Result)
	tassert.Errorf(t, reply.Version == osd.EVersion{Epoch: 3, Version: 7}, "version %s", reply.Version)
	tassert.Errorf(t, reply.Flags == osd.FlagAck|osd.FlagOnDisk, "flags %s", reply.Flags)
}

func TestEncodeSpecErrors(t *testing.T) {
	bad := []string{
		"kind: bogus\n",
		"kind: request\nops:\n  - op: no-such-op\n",
		"kind: request\nflags: [no-such-flag]\n",
		"kind: request\nops:\n  - op: read\n    flags: [nope]\n",
		"kind: request\nops:\n  - op: checksum\n    type: md5\n",
		"kind: request\nops:\n  - op: write\n    hex: zz\n",
	}
	for _, s := range bad {
		_, err := parseSpec(t, s).encode(time.Now())
		tassert.Errorf(t, err != nil, "expected error for %q", s)
	}
}

func TestDecodeFiles(t *testing.T) {
	var (
		dir   = t.TempDir()
		fname = filepath.Join(dir, "q.bin")
		spec  = parseSpec(t, requestYAML)
	)
	b, err := spec.encode(time.Now())
	tassert.CheckFatal(t, err)
	tassert.CheckFatal(t, os.WriteFile(fname, b, 0o644))
	tassert.CheckFatal(t, os.WriteFile(filepath.Join(dir, "bad.bin"), b[:len(b)-1], 0o644))

	f, err := decodeFile(kindRequest, fname)
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, f.PackedSize() == len(b), "size %d != %d", f.PackedSize(), len(b))

	_, err = decodeFile(kindRequest, filepath.Join(dir, "bad.bin"))
	tassert.CheckErrIs(t, err, osd.IsErrFraming, "truncated file")

	// msgp record
	out := filepath.Join(dir, "msgp")
	tassert.CheckFatal(t, decodeCmd([]string{"-kind=request", "-format=msgp", "-out=" + out, "-in=" + fname}))
	rec, err := os.ReadFile(filepath.Join(out, "q.bin.msgp"))
	tassert.CheckFatal(t, err)
	var req osd.Request
	_, err = req.UnmarshalMsg(rec)
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, req.Object == "rbd_data.1" && len(req.Ops) == 6, "msgp record %+v", req)

	// one bad file fails the batch, the other is still written
	jsonOut := filepath.Join(dir, "out.json")
	err = decodeCmd([]string{"-kind=request", "-out=" + jsonOut, "-in=" + fname + "," + filepath.Join(dir, "bad.bin")})
	tassert.Errorf(t, err != nil, "expected batch error")
	js, err := os.ReadFile(jsonOut)
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, bytes.Contains(js, []byte(`"rbd_data.1"`)), "json output %s", js)
}

func TestChecksumDigests(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789abcdef"), 512) // 8KiB
	digests, err := checksum(osd.ChecksumCRC32C, data, 4096, 0)
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(digests) == 2, "digests %d", len(digests))
	tassert.Errorf(t, digests[0] == digests[1], "identical chunks, different digests %v", digests)
	tassert.Errorf(t, len(digests[0]) == 8, "digest %q", digests[0])

	digests, err = checksum(osd.ChecksumXXHash64, data, 0, 1)
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, len(digests) == 1 && len(digests[0]) == 16, "digests %v", digests)

	_, err = checksum(osd.ChecksumXXHash32, data, 3000, 0)
	tassert.Errorf(t, err != nil, "expected chunk size error")
}

func TestPrintCatalog(t *testing.T) {
	var buf bytes.Buffer
	tassert.CheckFatal(t, printCatalog(&buf, false))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	tassert.Errorf(t, len(lines) == len(osd.Codes())+1, "lines %d", len(lines))

	buf.Reset()
	tassert.CheckFatal(t, printCatalog(&buf, true))
	var entries []osd.CatalogEntry
	tassert.CheckFatal(t, jsoniter.Unmarshal(buf.Bytes(), &entries))
	tassert.Errorf(t, len(entries) == len(osd.Codes()), "entries %d", len(entries))
}

//
// serve
//

func newTestServer(t *testing.T, maxBody int64) (*httptest.Server, *stats.Tracker) {
	reg := prometheus.NewRegistry()
	tracker := stats.NewTracker(reg)
	conf := &cmn.ServeConf{Listen: cmn.DefaultListen, MaxBody: cos.SizeIEC(maxBody)}
	srv := newServer(codec, tracker, conf)
	ts := httptest.NewServer(srv.mux(reg))
	t.Cleanup(ts.Close)
	return ts, tracker
}

func TestServeDecode(t *testing.T) {
	ts, tracker := newTestServer(t, 1<<20)
	b, err := parseSpec(t, requestYAML).encode(time.Now())
	tassert.CheckFatal(t, err)

	resp, err := http.Post(ts.URL+"/v1/decode/request", "application/octet-stream", bytes.NewReader(b))
	tassert.CheckFatal(t, err)
	defer resp.Body.Close()
	tassert.Fatalf(t, resp.StatusCode == http.StatusOK, "status %d", resp.StatusCode)
	var view struct {
		Object string `json:"object"`
		Ops    []struct {
			Name string `json:"op"`
		} `json:"ops"`
	}
	tassert.CheckFatal(t, jsoniter.NewDecoder(resp.Body).Decode(&view))
	tassert.Errorf(t, view.Object == "rbd_data.1" && len(view.Ops) == 6, "view %+v", view)
	tassert.Errorf(t, view.Ops[0].Name == "writefull", "first op %q", view.Ops[0].Name)

	tassert.Errorf(t, tracker.Get(stats.FrameCount) == 1, "frames %d", tracker.Get(stats.FrameCount))
	tassert.Errorf(t, tracker.Get(stats.OpCount) == 6, "ops %d", tracker.Get(stats.OpCount))
}

func TestServeDecodeMsgp(t *testing.T) {
	ts, _ := newTestServer(t, 1<<20)
	reply := &osd.Reply{Object: "o", Ops: []osd.Op{osd.NewStat()}, Result: 0}
	b, err := osd.EncodeReply(reply)
	tassert.CheckFatal(t, err)

	resp, err := http.Post(ts.URL+"/v1/decode/reply?format=msgp", "application/octet-stream", bytes.NewReader(b))
	tassert.CheckFatal(t, err)
	defer resp.Body.Close()
	tassert.Fatalf(t, resp.StatusCode == http.StatusOK, "status %d", resp.StatusCode)
	tassert.Errorf(t, resp.Header.Get("Content-Type") == contentMsgp, "content type %q", resp.Header.Get("Content-Type"))

	raw, err := io.ReadAll(resp.Body)
	tassert.CheckFatal(t, err)
	var got osd.Reply
	_, err = got.UnmarshalMsg(raw)
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, got.Object == "o" && len(got.Ops) == 1, "reply %+v", got)
}

func TestServeErrors(t *testing.T) {
	ts, tracker := newTestServer(t, 64)

	resp, err := http.Post(ts.URL+"/v1/decode/reply", "", bytes.NewReader(make([]byte, 10)))
	tassert.CheckFatal(t, err)
	var e errMsg
	tassert.CheckFatal(t, jsoniter.NewDecoder(resp.Body).Decode(&e))
	resp.Body.Close()
	tassert.Errorf(t, resp.StatusCode == http.StatusBadRequest, "status %d", resp.StatusCode)
	tassert.Errorf(t, e.Kind == stats.ErrKindFraming, "kind %q (%s)", e.Kind, e.Error)
	tassert.Errorf(t, tracker.Get(stats.ErrCount) == 1, "errors %d", tracker.Get(stats.ErrCount))

	resp, err = http.Post(ts.URL+"/v1/decode/reply", "", bytes.NewReader(make([]byte, 65)))
	tassert.CheckFatal(t, err)
	resp.Body.Close()
	tassert.Errorf(t, resp.StatusCode == http.StatusRequestEntityTooLarge, "status %d", resp.StatusCode)

	resp, err = http.Post(ts.URL+"/v1/decode/bogus", "", bytes.NewReader(nil))
	tassert.CheckFatal(t, err)
	resp.Body.Close()
	tassert.Errorf(t, resp.StatusCode == http.StatusNotFound, "status %d", resp.StatusCode)

	resp, err = http.Get(ts.URL + "/v1/decode/reply")
	tassert.CheckFatal(t, err)
	resp.Body.Close()
	tassert.Errorf(t, resp.StatusCode == http.StatusMethodNotAllowed, "status %d", resp.StatusCode)
}

func TestServeCatalogAndMetrics(t *testing.T) {
	ts, tracker := newTestServer(t, 1<<20)
	tracker.Error(osd.NewErrUnknownOp(1))

	resp, err := http.Get(ts.URL + "/v1/catalog")
	tassert.CheckFatal(t, err)
	var entries []osd.CatalogEntry
	tassert.CheckFatal(t, jsoniter.NewDecoder(resp.Body).Decode(&entries))
	resp.Body.Close()
	tassert.Errorf(t, len(entries) == len(osd.Codes()), "entries %d", len(entries))

	resp, err = http.Get(ts.URL + "/metrics")
	tassert.CheckFatal(t, err)
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	resp.Body.Close()
	tassert.Errorf(t, strings.Contains(buf.String(), `osdwire_err_n{kind="unknown_op"} 1`), "metrics:\n%s", buf.String())
}
