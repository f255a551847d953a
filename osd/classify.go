// Package osd implements the wire-level data model shared between object storage
// clients and storage daemons.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package osd

// Class summarizes what an op does, for schedulers and access checks.
type Class struct {
	Mode   Mode `json:"mode"`
	Type   Type `json:"type"`
	Read   bool `json:"read"`
	Modify bool `json:"modify"`
	Cache  bool `json:"cache"`
	Subop  bool `json:"subop"`
	Exec   bool `json:"exec"`
	PG     bool `json:"pg"`
	Extent bool `json:"extent"`
}

func Classify(code OpCode) Class {
	return Class{
		Mode:   code.Mode(),
		Type:   code.Type(),
		Read:   code.ModeIsRead(),
		Modify: code.ModeIsModify(),
		Cache:  code.ModeIsCache(),
		Subop:  code.ModeIsSubop(),
		Exec:   code.TypeIsExec(),
		PG:     code.TypeIsPG(),
		Extent: code.UsesExtent(),
	}
}

// Needs returns the frame flags an op requires from its frame.
func (c Class) Needs() (flags Flags) {
	if c.Read {
		flags |= FlagRead
	}
	if c.Modify {
		flags |= FlagWrite
	}
	if c.Exec {
		flags |= FlagExec | FlagRead // exec implies read
	}
	if c.PG {
		flags |= FlagPGOp
	}
	return
}

// RequiredFlags returns the frame flags implied by the ops (client side).
func RequiredFlags(ops []Op) (flags Flags) {
	for i := range ops {
		flags |= Classify(ops[i].Code).Needs()
	}
	return
}

// CheckFlags returns the indices of ops whose needs are not covered by the
// frame flags.
func CheckFlags(flags Flags, ops []Op) (uncovered []int) {
	for i := range ops {
		if need := Classify(ops[i].Code).Needs(); !flags.IsSet(need) {
			uncovered = append(uncovered, i)
		}
	}
	return
}
