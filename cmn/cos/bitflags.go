// Package cos provides common low-level types and utilities for all osdwire packages.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

type BitFlags uint64

func (f BitFlags) Set(flags BitFlags) BitFlags {
	return f | flags
}

func (f BitFlags) Clear(flags BitFlags) BitFlags {
	return f &^ flags
}

func (f BitFlags) IsSet(flags BitFlags) bool {
	return f&flags == flags
}

func (f BitFlags) IsAnySet(flags BitFlags) bool {
	return f&flags != 0
}

type (
	// NamedBit associates a single flag bit with its canonical name.
	NamedBit struct {
		Name string
		Bit  BitFlags
	}
	NamedBits []NamedBit
)

// Names returns the names of all set bits, in table order; bits that have
// no name are returned separately so that callers can preserve them.
func (nb NamedBits) Names(f BitFlags) (names []string, unknown BitFlags) {
	unknown = f
	for _, b := range nb {
		if f.IsSet(b.Bit) {
			names = append(names, b.Name)
			unknown = unknown.Clear(b.Bit)
		}
	}
	return
}

// Name returns the name of a single bit, or "???" when not in the table.
func (nb NamedBits) Name(bit BitFlags) string {
	for _, b := range nb {
		if b.Bit == bit {
			return b.Name
		}
	}
	return "???"
}

// Mask is the OR of all named bits.
func (nb NamedBits) Mask() (m BitFlags) {
	for _, b := range nb {
		m |= b.Bit
	}
	return
}

// Bit returns the bit with the given name.
func (nb NamedBits) Bit(name string) (BitFlags, bool) {
	for _, b := range nb {
		if b.Name == name {
			return b.Bit, true
		}
	}
	return 0, false
}
