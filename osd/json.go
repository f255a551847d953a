// Package osd implements the wire-level data model shared between object storage
// clients and storage daemons.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package osd

import (
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

type (
	// CatalogEntry is the tooling view of one cataloged op code.
	CatalogEntry struct {
		Name  string `json:"name"`
		Code  string `json:"code"`
		Mode  string `json:"mode"`
		Type  string `json:"type"`
		Shape string `json:"shape"`
		Class Class  `json:"class"`
	}

	opJSON struct {
		Params     Params `json:"params,omitempty"`
		Name       string `json:"op"`
		Code       string `json:"code"`
		Flags      string `json:"flags,omitempty"`
		Shape      string `json:"shape"`
		Class      string `json:"class,omitempty"`
		Method     string `json:"method,omitempty"`
		PayloadLen int    `json:"payload_len"`
	}
)

func codeHex(code OpCode) string { return "0x" + strconv.FormatUint(uint64(code), 16) }

// Catalog returns all cataloged ops in code order.
func Catalog() []CatalogEntry {
	codes := Codes()
	out := make([]CatalogEntry, 0, len(codes))
	for _, code := range codes {
		shape, _ := code.Shape()
		out = append(out, CatalogEntry{
			Name:  code.Name(),
			Code:  codeHex(code),
			Mode:  code.Mode().String(),
			Type:  code.Type().String(),
			Shape: shape.String(),
			Class: Classify(code),
		})
	}
	return out
}

func (op Op) MarshalJSON() ([]byte, error) {
	v := opJSON{
		Params:     op.Params,
		Name:       op.Code.Name(),
		Code:       codeHex(op.Code),
		Shape:      shapeOf(op.Params).String(),
		PayloadLen: len(op.Payload),
	}
	if op.Flags != 0 {
		v.Flags = op.Flags.String()
	}
	if op.Code == OpCall {
		v.Class, v.Method = op.ClassName(), op.MethodName()
	}
	return jsoniter.Marshal(v)
}
