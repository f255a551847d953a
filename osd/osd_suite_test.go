// Package osd_test: unit tests
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package osd_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestFrames(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "OSD Frames Suite")
}
