// Package cos provides common low-level types and utilities for all osdwire packages.
/*
 * Copyright (c) 2022-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// IEC (binary) units
const (
	KiB = 1024
	MiB = 1024 * KiB
	GiB = 1024 * MiB
	TiB = 1024 * GiB
)

var iecSuffixes = [...]struct {
	sfx  string
	mult int64
}{
	{"TIB", TiB}, {"GIB", GiB}, {"MIB", MiB}, {"KIB", KiB},
	{"T", TiB}, {"G", GiB}, {"M", MiB}, {"K", KiB},
	{"B", 1},
}

/////////////
// SizeIEC //
/////////////

// used in cmn/config for payload and frame limits (compare w/ duration.go)

type SizeIEC int64

func (siz SizeIEC) MarshalJSON() ([]byte, error) { return jsoniter.Marshal(siz.String()) }
func (siz SizeIEC) String() string               { return ToSizeIEC(int64(siz), 0) }

func (siz *SizeIEC) UnmarshalJSON(b []byte) (err error) {
	var n int64
	if len(b) > 0 && b[0] != '"' {
		// bare number of bytes
		err = jsoniter.Unmarshal(b, &n)
		*siz = SizeIEC(n)
		return
	}
	var val string
	if err = jsoniter.Unmarshal(b, &val); err != nil {
		return
	}
	n, err = ParseSize(val)
	*siz = SizeIEC(n)
	return
}

// exact multiples print without a fraction, everything else in bytes
func ToSizeIEC(b int64, digits int) string {
	switch {
	case b >= TiB && (digits > 0 || b%TiB == 0):
		return fmt.Sprintf("%.*f%s", digits, float64(b)/float64(TiB), "TiB")
	case b >= GiB && (digits > 0 || b%GiB == 0):
		return fmt.Sprintf("%.*f%s", digits, float64(b)/float64(GiB), "GiB")
	case b >= MiB && (digits > 0 || b%MiB == 0):
		return fmt.Sprintf("%.*f%s", digits, float64(b)/float64(MiB), "MiB")
	case b >= KiB && (digits > 0 || b%KiB == 0):
		return fmt.Sprintf("%.*f%s", digits, float64(b)/float64(KiB), "KiB")
	default:
		return fmt.Sprintf("%dB", b)
	}
}

// ParseSize accepts raw byte counts and IEC suffixes: "4096", "4KiB", "4k", "1.5MiB".
func ParseSize(size string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(size))
	if s == "" {
		return 0, nil
	}
	mult := int64(1)
	for _, x := range iecSuffixes {
		if strings.HasSuffix(s, x.sfx) {
			s, mult = strings.TrimSpace(strings.TrimSuffix(s, x.sfx)), x.mult
			break
		}
	}
	if strings.IndexByte(s, '.') >= 0 {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid size %q: %w", size, err)
		}
		return int64(f * float64(mult)), nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", size, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid size %q: negative", size)
	}
	return n * mult, nil
}
