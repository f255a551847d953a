// Package main is osdwire: a low-level tool to decode, encode, and inspect
// object-operation request and reply frames.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/NVIDIA/osdwire/cmn/nlog"
	"github.com/NVIDIA/osdwire/osd"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	// YAML description of a single op; fields not used by the op are ignored
	opSpec struct {
		Op     string   `yaml:"op"`
		Flags  []string `yaml:"flags"`
		Data   string   `yaml:"data"`
		Hex    string   `yaml:"hex"` // data, hex-encoded (takes precedence)
		Name   string   `yaml:"name"`
		Value  string   `yaml:"value"`
		Class  string   `yaml:"class"`
		Method string   `yaml:"method"`
		Type   string   `yaml:"type"`
		Offset uint64   `yaml:"offset"`
		Length uint64   `yaml:"length"`
		Size   uint64   `yaml:"size"`
		Cookie uint64   `yaml:"cookie"`
		Ver    uint64   `yaml:"ver"`
		Seed   uint64   `yaml:"seed"`
		Count  uint64   `yaml:"count"`
		Seq    uint32   `yaml:"seq"`
		Chunk  uint32   `yaml:"chunk"`
		Excl   bool     `yaml:"excl"`
	}
	// YAML description of a request or reply frame
	frameSpec struct {
		Kind       string   `yaml:"kind"`
		Object     string   `yaml:"object"`
		Flags      []string `yaml:"flags"`
		Ops        []opSpec `yaml:"ops"`
		SnapID     *uint64  `yaml:"snapid"`
		Pool       uint32   `yaml:"pool"`
		PGNum      int      `yaml:"pgnum"`
		Epoch      uint32   `yaml:"epoch"`
		ClientInc  uint32   `yaml:"client_inc"`
		Result     int32    `yaml:"result"`
		Version    uint64   `yaml:"version"`
		StripeUnit uint32   `yaml:"stripe_unit"`
	}
)

func encodeCmd(args []string) error {
	var (
		in, out string
		fset    = flag.NewFlagSet("encode", flag.ExitOnError)
	)
	fset.StringVar(&in, "in", "", "YAML frame description")
	fset.StringVar(&out, "out", "", "output filename")
	fset.Parse(args)
	if in == "" || out == "" {
		return errors.New("both input (the -in option) and output (the -out option) must be defined")
	}
	b, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	var spec frameSpec
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return errors.Wrapf(err, "parse %s", in)
	}
	wire, err := spec.encode(time.Now())
	if err != nil {
		return errors.Wrapf(err, "encode %s", in)
	}
	if err := os.WriteFile(out, wire, 0o644); err != nil {
		return err
	}
	nlog.Infof("%s: %s frame with %d op(s), %d bytes", out, spec.Kind, len(spec.Ops), len(wire))
	return nil
}

func (spec *frameSpec) encode(now time.Time) ([]byte, error) {
	ops := make([]osd.Op, 0, len(spec.Ops))
	for i := range spec.Ops {
		op, err := spec.Ops[i].build()
		if err != nil {
			return nil, fmt.Errorf("op[%d] %q: %w", i, spec.Ops[i].Op, err)
		}
		ops = append(ops, op)
	}
	flags, err := parseFlags(spec.Flags)
	if err != nil {
		return nil, err
	}
	layout := osd.ObjectLayout{StripeUnit: spec.StripeUnit}
	if spec.PGNum > 0 {
		layout.PG = osd.ObjectPG(spec.Pool, spec.Object).Fold(spec.PGNum)
	} else {
		layout.PG = osd.ObjectPG(spec.Pool, spec.Object)
	}

	switch spec.Kind {
	case kindRequest:
		req := &osd.Request{
			Object:      spec.Object,
			Ops:         ops,
			Layout:      layout,
			ClientInc:   spec.ClientInc,
			Flags:       flags | osd.RequiredFlags(ops),
			OSDMapEpoch: spec.Epoch,
			SnapID:      osd.NoSnap,
			MTime:       osd.NewTimespec(now),
		}
		if spec.SnapID != nil {
			req.SnapID = osd.SnapID(*spec.SnapID)
		}
		return codec.AppendRequest(nil, req)
	case kindReply:
		reply := &osd.Reply{
			Object:      spec.Object,
			Ops:         ops,
			Layout:      layout,
			Version:     osd.EVersion{Version: spec.Version, Epoch: spec.Epoch},
			ClientInc:   spec.ClientInc,
			Flags:       flags,
			OSDMapEpoch: spec.Epoch,
			Result:      spec.Result,
		}
		return codec.AppendReply(nil, reply)
	default:
		return nil, fmt.Errorf("invalid frame kind %q (expecting %s or %s)", spec.Kind, kindRequest, kindReply)
	}
}

func parseFlags(names []string) (flags osd.Flags, err error) {
	for _, name := range names {
		f, ok := osd.ParseFlag(name)
		if !ok {
			return 0, fmt.Errorf("unknown frame flag %q", name)
		}
		flags |= f
	}
	return
}

func (s *opSpec) data() ([]byte, error) {
	if s.Hex != "" {
		return hex.DecodeString(s.Hex)
	}
	if s.Data == "" {
		return nil, nil
	}
	return []byte(s.Data), nil
}

func (s *opSpec) build() (op osd.Op, err error) {
	code, ok := osd.ParseOpCode(s.Op)
	if !ok {
		return op, fmt.Errorf("unknown op %q", s.Op)
	}
	data, err := s.data()
	if err != nil {
		return op, err
	}
	switch code {
	case osd.OpRead:
		op = osd.NewRead(s.Offset, s.Length)
	case osd.OpSparseRead:
		op = osd.NewSparseRead(s.Offset, s.Length)
	case osd.OpStat:
		op = osd.NewStat()
	case osd.OpCreate:
		op = osd.NewCreate(s.Excl)
	case osd.OpDelete:
		op = osd.NewDelete()
	case osd.OpWrite:
		op = osd.NewWrite(s.Offset, data)
	case osd.OpWriteFull:
		op = osd.NewWriteFull(data)
	case osd.OpAppend:
		op = osd.NewAppend(data)
	case osd.OpTruncate:
		op = osd.NewTruncate(s.Size, s.Seq)
	case osd.OpZero:
		op = osd.NewZero(s.Offset, s.Length)
	case osd.OpCmpExt:
		op = osd.NewCmpExt(s.Offset, data)
	case osd.OpWriteSame:
		op = osd.NewWriteSame(s.Offset, s.Length, data)
	case osd.OpGetXattr:
		op = osd.NewGetXattr(s.Name)
	case osd.OpGetXattrs:
		op = osd.NewGetXattrs()
	case osd.OpSetXattr:
		op = osd.NewSetXattr(s.Name, []byte(s.Value))
	case osd.OpRmXattr:
		op = osd.NewRmXattr(s.Name)
	case osd.OpCall:
		if len(s.Class) > 255 || len(s.Method) > 255 {
			return op, errors.New("class and method names must be shorter than 256 bytes")
		}
		op = osd.NewCall(s.Class, s.Method, data)
	case osd.OpNotify:
		op = osd.NewNotify(s.Cookie, data)
	case osd.OpAssertVer:
		op = osd.NewAssertVer(s.Ver)
	case osd.OpCopyGet:
		op = osd.NewCopyGet(s.Size)
	case osd.OpChecksum:
		ty, ok := osd.ParseChecksumType(s.Type)
		if !ok {
			return op, fmt.Errorf("invalid checksum type %q", s.Type)
		}
		op = osd.NewChecksum(ty, s.Offset, s.Length, s.Chunk, s.Seed)
	case osd.OpPGNLS:
		op = osd.NewPGLS(s.Count, 0, data)
	default:
		// zeroed parameters, optional raw payload
		if op, err = osd.NewOp(code); err != nil {
			return op, err
		}
		op.Payload = data
	}
	for _, name := range s.Flags {
		f, ok := osd.ParseOpFlag(name)
		if !ok {
			return op, fmt.Errorf("unknown op flag %q", name)
		}
		op.Flags |= f
	}
	return op, nil
}
