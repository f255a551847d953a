// Package jsp (JSON persistence) provides utilities to store and load arbitrary
// JSON-encoded structures with optional checksumming and compression.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package jsp

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/NVIDIA/osdwire/cmn/cos"
	"github.com/NVIDIA/osdwire/cmn/debug"
	"github.com/NVIDIA/osdwire/cmn/nlog"
)

//////////////////
// main methods //
//////////////////

func SaveMeta(fpath string, meta Opts) error {
	return Save(fpath, meta, meta.JspOpts())
}

// Save writes to a temp file in the same directory, then renames.
func Save(fpath string, v any, opts Options) (err error) {
	var (
		file *os.File
		tmp  = fpath + ".tmp." + strconv.FormatInt(time.Now().UnixNano(), 36)
	)
	if err = os.MkdirAll(filepath.Dir(fpath), 0o755); err != nil {
		return
	}
	if file, err = os.Create(tmp); err != nil {
		return
	}
	defer func() {
		if err != nil {
			errRm := os.Remove(tmp)
			debug.AssertNoErr(errRm)
		}
	}()
	if err = Encode(file, v, opts); err != nil {
		file.Close()
		return
	}
	if err = file.Close(); err != nil {
		return
	}
	err = os.Rename(tmp, fpath)
	return
}

func LoadMeta(fpath string, meta Opts) (uint64, error) {
	return Load(fpath, meta, meta.JspOpts())
}

// Load removes files that fail the checksum.
func Load(fpath string, v any, opts Options) (cksum uint64, err error) {
	var file *os.File
	if file, err = os.Open(fpath); err != nil {
		return
	}
	cksum, err = Decode(file, v, opts, fpath)
	file.Close()
	if err != nil && cos.IsErrBadCksum(err) {
		if errRm := os.Remove(fpath); errRm == nil {
			nlog.Errorf("bad checksum: removing %s", fpath)
		} else {
			nlog.Errorf("bad checksum: failed to remove %s: %v", fpath, errRm)
		}
	}
	return
}
