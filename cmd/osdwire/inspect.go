// Package main is osdwire: a low-level tool to decode, encode, and inspect
// object-operation request and reply frames.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/NVIDIA/osdwire/cmn/cos"
	"github.com/NVIDIA/osdwire/osd"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

func catalogCmd(args []string) error {
	var (
		asJSON bool
		fset   = flag.NewFlagSet("catalog", flag.ExitOnError)
	)
	fset.BoolVar(&asJSON, "json", false, "JSON output")
	fset.Parse(args)
	return printCatalog(os.Stdout, asJSON)
}

func printCatalog(w io.Writer, asJSON bool) error {
	catalog := osd.Catalog()
	if asJSON {
		enc := jsoniter.NewEncoder(w)
		enc.SetIndent("", " ")
		return enc.Encode(catalog)
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCODE\tMODE\tTYPE\tSHAPE")
	for _, e := range catalog {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Name, e.Code, e.Mode, e.Type, e.Shape)
	}
	return tw.Flush()
}

func stablemodCmd(args []string) error {
	var (
		b, x int
		fset = flag.NewFlagSet("stablemod", flag.ExitOnError)
	)
	fset.IntVar(&b, "b", 0, "number of bins")
	fset.IntVar(&x, "x", -1, "value to map (default: print the mapping of 0..2*bmask+1)")
	fset.Parse(args)
	if b <= 0 {
		return fmt.Errorf("invalid number of bins %d", b)
	}
	bmask := osd.CalcBmask(b)
	if x >= 0 {
		fmt.Printf("stable_mod(%d, %d, %d) = %d\n", x, b, bmask, osd.StableMod(x, b, bmask))
		return nil
	}
	fmt.Printf("b=%d bmask=%d\n", b, bmask)
	for x := range 2 * (bmask + 1) {
		fmt.Printf("%d\t%d\n", x, osd.StableMod(x, b, bmask))
	}
	return nil
}

func pgCmd(args []string) error {
	var (
		pool  uint
		pgnum int
		fset  = flag.NewFlagSet("pg", flag.ExitOnError)
	)
	fset.UintVar(&pool, "pool", 0, "pool id")
	fset.IntVar(&pgnum, "pgnum", 0, "number of placement groups in the pool (0: print the raw seed only)")
	fset.Parse(args)
	if fset.NArg() == 0 {
		return errors.New("object name(s) must be specified")
	}
	if pgnum < 0 || pgnum > 1<<16 {
		return fmt.Errorf("invalid pgnum %d", pgnum)
	}
	for _, name := range fset.Args() {
		pg := osd.ObjectPG(uint32(pool), name)
		if pgnum == 0 {
			fmt.Printf("%s\t%s\n", name, pg)
			continue
		}
		fmt.Printf("%s\t%s\t%s\n", name, pg, pg.Fold(pgnum))
	}
	return nil
}

func cksumCmd(args []string) error {
	var (
		in, typ, chunk string
		seed           uint64
		fset           = flag.NewFlagSet("cksum", flag.ExitOnError)
	)
	fset.StringVar(&in, "in", "", "input filename")
	fset.StringVar(&typ, "type", osd.ChecksumCRC32C.String(), "checksum type: xxhash32 | xxhash64 | crc32c")
	fset.StringVar(&chunk, "chunk", "0", "chunk size, e.g. 4KiB (0: single chunk)")
	fset.Uint64Var(&seed, "seed", 0, "initial value")
	fset.Parse(args)

	if in == "" {
		return errors.New("input filename (the -in option) must be defined")
	}
	ty, ok := osd.ParseChecksumType(typ)
	if !ok {
		return fmt.Errorf("invalid checksum type %q", typ)
	}
	chunkSize, err := cos.ParseSize(chunk)
	if err != nil {
		return err
	}
	if chunkSize > 1<<32-1 {
		return fmt.Errorf("chunk size %s is too large", cos.ToSizeIEC(chunkSize, 0))
	}
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	digests, err := checksum(ty, data, uint32(chunkSize), seed)
	if err != nil {
		return errors.Wrapf(err, "checksum %s", in)
	}
	for i, d := range digests {
		fmt.Printf("%d\t%s\n", i, d)
	}
	return nil
}

// checksum runs the CHECKSUM op and unpacks its reply payload into hex digests.
func checksum(ty osd.ChecksumType, data []byte, chunkSize uint32, seed uint64) ([]string, error) {
	op := osd.NewChecksum(ty, 0, uint64(len(data)), chunkSize, seed)
	out, err := osd.ComputeChecksum(&op, data)
	if err != nil {
		return nil, err
	}
	var (
		dsize  = ty.DigestSize()
		count  = int(binary.LittleEndian.Uint32(out))
		result = make([]string, 0, count)
	)
	for i := range count {
		off := cos.SizeofI32 + i*dsize
		var v uint64
		if dsize == cos.SizeofI32 {
			v = uint64(binary.LittleEndian.Uint32(out[off:]))
		} else {
			v = binary.LittleEndian.Uint64(out[off:])
		}
		result = append(result, fmt.Sprintf("%0*x", 2*dsize, v))
	}
	return result, nil
}
