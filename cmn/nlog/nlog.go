// Package nlog - osdwire logger, provides buffering, timestamping, writing, and
// flushing/rotating
/*
 * Copyright (c) 2023-2026, NVIDIA CORPORATION. All rights reserved.
 */
package nlog

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	nlogBufSize  = 64 * 1024
	nlogLineSize = 4 * 1024
)

type severity int

const (
	sevInfo severity = iota
	sevWarn
	sevErr
)

type nlog struct {
	file *os.File
	pw   *fixed
	size int64
	sev  severity
	mw   sync.Mutex
}

func newNlog(sev severity) *nlog {
	return &nlog{sev: sev, pw: &fixed{buf: make([]byte, nlogBufSize)}}
}

// main function
func log(sev severity, depth int, format string, args ...any) {
	if !toStderr {
		onceInitFiles.Do(initFiles)
	}
	fb := pool.Get().(*fixed)
	fb.reset()
	sprintf(sev, depth, format, fb, args...)

	switch {
	case toStderr:
		os.Stderr.Write(fb.buf[:fb.woff])
	default:
		if alsoToStderr || sev >= sevErr {
			os.Stderr.Write(fb.buf[:fb.woff])
		}
		if sev >= sevWarn {
			nlogs[sevErr].write(fb)
		}
		nlogs[sevInfo].write(fb)
	}
	pool.Put(fb)
}

func (nlog *nlog) write(line *fixed) {
	nlog.mw.Lock()
	if nlog.pw.avail() < line.woff {
		nlog._flush()
	}
	nlog.pw.Write(line.buf[:line.woff])
	nlog.mw.Unlock()
}

func (nlog *nlog) flush() {
	nlog.mw.Lock()
	nlog._flush()
	nlog.mw.Unlock()
}

// under mw-lock
func (nlog *nlog) _flush() {
	if nlog.pw.woff == 0 {
		return
	}
	n, err := nlog.file.Write(nlog.pw.buf[:nlog.pw.woff])
	if err != nil {
		os.Stderr.WriteString("nlog: " + err.Error() + "\n")
		os.Stderr.Write(nlog.pw.buf[:nlog.pw.woff])
	}
	nlog.size += int64(n)
	nlog.pw.reset()
	if nlog.size >= MaxSize {
		nlog.file.Close()
		if err := nlog.rotate(time.Now()); err != nil {
			os.Stderr.WriteString("nlog: " + err.Error() + "\n")
		}
	}
}

func (nlog *nlog) rotate(now time.Time) (err error) {
	var (
		s    = fmt.Sprintf("host %s, %s for %s/%s\n", host, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		snow = now.Format("2006/01/02 15:04:05")
	)
	if nlog.file, _, err = fcreate(sevText[nlog.sev], now); err != nil {
		return
	}
	nlog.size = 0
	if title == "" {
		_, err = nlog.file.WriteString("Started up at " + snow + ", " + s)
	} else {
		nlog.file.WriteString("Rotated at " + snow + ", " + s)
		_, err = nlog.file.WriteString(title)
	}
	return
}

func formatHdr(s severity, depth int, fb *fixed) {
	const char = "IWE"
	fb.writeByte(char[s])
	fb.writeByte(' ')
	fb.writeStamp(time.Now())
	fb.writeByte(' ')

	_, fn, ln, ok := runtime.Caller(4 + depth)
	if !ok {
		return
	}
	if idx := strings.LastIndexByte(fn, filepath.Separator); idx > 0 {
		fn = fn[idx+1:]
	}
	fn = strings.TrimSuffix(fn, ".go")
	fb.writeString(fn)
	fb.writeByte(':')
	fb.writeString(strconv.Itoa(ln))
	fb.writeByte(' ')
}

func sprintf(sev severity, depth int, format string, fb *fixed, args ...any) {
	formatHdr(sev, depth, fb)
	if format == "" {
		fmt.Fprint(fb, args...)
	} else {
		fmt.Fprintf(fb, format, args...)
	}
	fb.eol()
}
