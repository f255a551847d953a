// Package main is osdwire: a low-level tool to decode, encode, and inspect
// object-operation request and reply frames.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/NVIDIA/osdwire/cmn/cos"
	"github.com/NVIDIA/osdwire/cmn/nlog"
	"github.com/NVIDIA/osdwire/osd"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/tinylib/msgp/msgp"
	"golang.org/x/sync/errgroup"
)

const (
	kindReply   = "reply"
	kindRequest = "request"

	formatJSON = "json"
	formatMsgp = "msgp"
)

type frame interface {
	msgp.Marshaler
	PackedSize() int
}

// interface guard
var (
	_ frame = (*osd.Reply)(nil)
	_ frame = (*osd.Request)(nil)
)

func decodeFrame(kind string, b []byte) (frame, error) {
	switch kind {
	case kindReply:
		return codec.DecodeReply(b)
	case kindRequest:
		return codec.DecodeRequest(b)
	default:
		return nil, fmt.Errorf("invalid frame kind %q (expecting %s or %s)", kind, kindReply, kindRequest)
	}
}

func decodeCmd(args []string) error {
	var (
		kind, in, out, format string
		workers               int
		fset                  = flag.NewFlagSet("decode", flag.ExitOnError)
	)
	fset.StringVar(&kind, "kind", kindReply, "frame kind: reply | request")
	fset.StringVar(&in, "in", "", "comma-separated input filenames")
	fset.StringVar(&out, "out", "", "output: JSON file, or directory for msgp records (default STDOUT, JSON only)")
	fset.StringVar(&format, "format", formatJSON, "output format: json | msgp")
	fset.IntVar(&workers, "workers", runtime.NumCPU(), "number of files decoded in parallel")
	fset.Parse(args)

	fnames := splitNames(in, fset.Args())
	if len(fnames) == 0 {
		return errors.New("input filename(s) (the -in option) must be defined")
	}
	switch format {
	case formatJSON:
	case formatMsgp:
		if out == "" {
			return errors.New("msgp output requires a destination directory (the -out option)")
		}
		if err := os.MkdirAll(out, 0o755); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid output format %q", format)
	}

	var (
		frames = make([]frame, len(fnames))
		errs   = cos.NewErrs(len(fnames))
		g      errgroup.Group
	)
	g.SetLimit(max(workers, 1))
	for i, fname := range fnames {
		g.Go(func() error {
			f, err := decodeFile(kind, fname)
			if err != nil {
				errs.Add(err)
				return nil
			}
			if format == formatMsgp {
				dst := filepath.Join(out, filepath.Base(fname)+".msgp")
				if err := writeMsgp(dst, f); err != nil {
					errs.Add(errors.Wrapf(err, "write %s", dst))
				}
				return nil
			}
			frames[i] = f
			return nil
		})
	}
	g.Wait()

	if format == formatJSON {
		if err := writeJSON(out, fnames, frames); err != nil {
			return err
		}
	}
	if cnt, err := errs.JoinErr(); err != nil {
		return fmt.Errorf("failed to decode %d of %d file(s): %w", cnt, len(fnames), err)
	}
	nlog.Infof("decoded %d %s frame(s)", len(fnames), kind)
	return nil
}

func decodeFile(kind, fname string) (frame, error) {
	b, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	f, err := decodeFrame(kind, b)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s %s", kind, fname)
	}
	return f, nil
}

func writeMsgp(dst string, f frame) error {
	b, err := f.MarshalMsg(nil)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, b, 0o644)
}

func writeJSON(out string, fnames []string, frames []frame) (err error) {
	var w io.Writer = os.Stdout
	if out != "" {
		var file *os.File
		if file, err = os.Create(out); err != nil {
			return err
		}
		defer func() {
			if errC := file.Close(); err == nil {
				err = errC
			}
		}()
		w = file
	}
	enc := jsoniter.NewEncoder(w)
	enc.SetIndent("", " ")
	for i, f := range frames {
		if f == nil {
			continue
		}
		rec := struct {
			File  string `json:"file"`
			Size  int    `json:"size"`
			Frame frame  `json:"frame"`
		}{fnames[i], f.PackedSize(), f}
		if err = enc.Encode(&rec); err != nil {
			return err
		}
	}
	return nil
}

func splitNames(in string, rest []string) (fnames []string) {
	for _, s := range strings.Split(in, ",") {
		if s = strings.TrimSpace(s); s != "" {
			fnames = append(fnames, s)
		}
	}
	return append(fnames, rest...)
}
