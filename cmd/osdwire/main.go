// Package main is osdwire: a low-level tool to decode, encode, and inspect
// object-operation request and reply frames.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/NVIDIA/osdwire/cmn"
	"github.com/NVIDIA/osdwire/cmn/nlog"
	"github.com/NVIDIA/osdwire/osd"
)

const (
	helpMsg = `Build:
	go install ./cmd/osdwire

Examples:
	osdwire -h                                               - show usage
	osdwire catalog                                          - list op codes, modes, types, and shapes
	osdwire decode -kind=reply -in=/tmp/r1.bin,/tmp/r2.bin   - decode reply frames to STDOUT (JSON)
	osdwire decode -kind=request -format=msgp -out=/tmp/msgp -in=/tmp/q.bin
	                                                         - decode request frame into /tmp/msgp/q.bin.msgp
	osdwire encode -in=/tmp/frame.yaml -out=/tmp/frame.bin   - encode YAML frame description
	osdwire stablemod -b=12 -x=13                            - stable modulo of 13 over 12 bins
	osdwire pg -pool=3 -pgnum=128 rbd_data.1                 - placement group of a named object
	osdwire cksum -type=crc32c -chunk=4KiB -in=/tmp/obj      - per-chunk digests of a file
	osdwire serve -config=/etc/osdwire.yaml                  - HTTP decode service with /metrics

Common options (before the subcommand):
	-config=<path>    codec limits, logging, and serve options (YAML or JSON)
	-v                log to STDERR
`
)

type command struct {
	run  func(args []string) error
	name string
}

var gflags struct {
	config  string
	verbose bool
	help    bool
}

var commands = []command{
	{name: "catalog", run: catalogCmd},
	{name: "decode", run: decodeCmd},
	{name: "encode", run: encodeCmd},
	{name: "stablemod", run: stablemodCmd},
	{name: "pg", run: pgCmd},
	{name: "cksum", run: cksumCmd},
	{name: "serve", run: serveCmd},
}

// loaded once in main, read-only afterwards
var (
	config *cmn.Config
	codec  *osd.Codec
)

func main() {
	newFlag := flag.NewFlagSet(os.Args[0], flag.ExitOnError) // discard flags of imported packages
	newFlag.StringVar(&gflags.config, "config", "", "configuration file (YAML or JSON)")
	newFlag.BoolVar(&gflags.verbose, "v", false, "log to STDERR")
	newFlag.BoolVar(&gflags.help, "h", false, "print usage and exit")
	newFlag.Parse(os.Args[1:])

	args := newFlag.Args()
	if gflags.help || len(args) == 0 {
		fmt.Print(helpMsg)
		os.Exit(0)
	}
	if err := initConfig(); err != nil {
		exitf("%v", err)
	}
	defer nlog.Flush()

	for _, c := range commands {
		if c.name != args[0] {
			continue
		}
		if err := c.run(args[1:]); err != nil {
			nlog.Errorln(c.name, "failed:", err)
			nlog.Flush()
			exitf("%s: %v", c.name, err)
		}
		return
	}
	exitf("unknown command %q (see 'osdwire -h')", args[0])
}

func initConfig() (err error) {
	config = cmn.DefaultConfig()
	if gflags.config != "" {
		if config, err = cmn.LoadConfig(gflags.config); err != nil {
			return err
		}
	}
	switch {
	case gflags.verbose || config.Log.ToStderr || config.Log.Dir == "":
		nlog.SetToStderr(true)
	default:
		nlog.SetLogDirRole(config.Log.Dir, "osdwire")
	}
	nlog.SetTitle("osdwire")
	codec = osd.NewCodec(config.Codec.Limits())
	return nil
}

func exitf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}
