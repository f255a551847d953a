// Package trand provides random strings and payloads for dev tools and tests
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package trand

import "math/rand/v2"

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func String(n int) string {
	b := make([]byte, n)
	for i := range n {
		b[i] = letters[rand.IntN(len(letters))]
	}
	return string(b)
}

// Bytes returns n random bytes; nil when n is zero.
func Bytes(n int) []byte {
	if n == 0 {
		return nil
	}
	b := make([]byte, n)
	for i := range n {
		b[i] = byte(rand.Uint32())
	}
	return b
}

// ObjName returns an RBD-style object name: <prefix>.<16 hex digits>.
func ObjName(prefix string) string {
	const hexdig = "0123456789abcdef"
	b := make([]byte, 0, len(prefix)+17)
	b = append(b, prefix...)
	b = append(b, '.')
	for range 16 {
		b = append(b, hexdig[rand.IntN(16)])
	}
	return string(b)
}
