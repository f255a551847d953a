// Package osd_test: unit tests
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package osd_test

import (
	"encoding/binary"

	"github.com/NVIDIA/osdwire/osd"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Frames", func() {
	Describe("Reply", func() {
		var (
			reply *osd.Reply
			buf   []byte
		)

		BeforeEach(func() {
			var err error
			reply = sampleReply()
			buf, err = osd.EncodeReply(reply)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should have the expected size", func() {
			size := osd.ReplyHdrSize + len(reply.Object)
			for i := range reply.Ops {
				size += osd.OpHdrSize + len(reply.Ops[i].Payload)
			}
			Expect(buf).To(HaveLen(size))
			Expect(reply.PackedSize()).To(Equal(size))
			Expect(osd.ReplyHdrSize).To(Equal(48))
		})

		It("should lay out the fixed header", func() {
			Expect(binary.LittleEndian.Uint32(buf[0:])).To(BeEquivalentTo(reply.ClientInc))
			Expect(binary.LittleEndian.Uint32(buf[4:])).To(BeEquivalentTo(reply.Flags))
			Expect(binary.LittleEndian.Uint16(buf[10:])).To(BeEquivalentTo(reply.Layout.PG.Seed))
			Expect(binary.LittleEndian.Uint32(buf[12:])).To(BeEquivalentTo(reply.Layout.PG.Pool))
			Expect(binary.LittleEndian.Uint32(buf[20:])).To(BeEquivalentTo(reply.OSDMapEpoch))
			Expect(int32(binary.LittleEndian.Uint32(buf[36:]))).To(Equal(reply.Result))
			Expect(binary.LittleEndian.Uint32(buf[40:])).To(BeEquivalentTo(len(reply.Object)))
			Expect(binary.LittleEndian.Uint32(buf[44:])).To(BeEquivalentTo(len(reply.Ops)))
			Expect(string(buf[len(buf)-len(reply.Object):])).To(Equal(reply.Object))
		})

		It("should round-trip", func() {
			out, err := osd.DecodeReply(buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(reply))

			again, err := osd.EncodeReply(out)
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(Equal(buf))
		})

		It("should reject every truncation", func() {
			for n := range len(buf) {
				out, err := osd.DecodeReply(buf[:n])
				Expect(err).To(HaveOccurred(), "n=%d", n)
				Expect(osd.IsErrFraming(err)).To(BeTrue(), "n=%d: %v", n, err)
				Expect(out).To(BeNil())
			}
		})

		It("should reject trailing bytes", func() {
			_, err := osd.DecodeReply(append(buf, 0))
			Expect(osd.IsErrFraming(err)).To(BeTrue())
		})

		It("should reject inflated counts", func() {
			bad := append([]byte(nil), buf...)
			binary.LittleEndian.PutUint32(bad[44:], uint32(len(reply.Ops)+1))
			_, err := osd.DecodeReply(bad)
			Expect(osd.IsErrFraming(err)).To(BeTrue())

			bad = append([]byte(nil), buf...)
			binary.LittleEndian.PutUint32(bad[44:], 0xffffffff)
			_, err = osd.DecodeReply(bad)
			Expect(osd.IsErrFraming(err)).To(BeTrue())

			bad = append([]byte(nil), buf...)
			binary.LittleEndian.PutUint32(bad[40:], uint32(len(reply.Object)+1))
			_, err = osd.DecodeReply(bad)
			Expect(osd.IsErrFraming(err)).To(BeTrue())
		})

		It("should reject unknown op codes", func() {
			bad := append([]byte(nil), buf...)
			binary.LittleEndian.PutUint16(bad[osd.ReplyHdrSize:], 0x1299)
			_, err := osd.DecodeReply(bad)
			Expect(osd.IsErrFraming(err)).To(BeTrue())
			Expect(osd.IsErrUnknownOp(err)).To(BeTrue())
		})

		It("should carry outdata unchecked", func() {
			// a write echoed back with no outdata
			reply.Ops = []osd.Op{{Code: osd.OpWrite, Params: osd.Extent{Length: 4096}}}
			b, err := osd.EncodeReply(reply)
			Expect(err).NotTo(HaveOccurred())
			out, err := osd.DecodeReply(b)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Ops).To(Equal(reply.Ops))
		})
	})

	Describe("Request", func() {
		var req *osd.Request

		BeforeEach(func() {
			req = &osd.Request{
				Object: "foo",
				Ops: []osd.Op{
					osd.NewAssertVer(17),
					osd.NewWrite(4096, []byte("some data")),
					osd.NewSetXattr("user.k", []byte("v")),
					osd.NewCall("rbd", "set_size", []byte{0, 0, 1}),
				},
				Layout:      osd.ObjectLayout{PG: osd.ObjectPG(3, "foo").Fold(64), StripeUnit: 65536},
				ClientInc:   2,
				OSDMapEpoch: 501,
				SnapID:      osd.NoSnap,
				MTime:       osd.Timespec{Sec: 1700000000},
				Reassert:    osd.EVersion{Epoch: 500, Version: 77},
			}
			req.Flags = osd.RequiredFlags(req.Ops) | osd.FlagOnDisk
		})

		It("should round-trip", func() {
			b, err := osd.EncodeRequest(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(b).To(HaveLen(req.PackedSize()))

			out, err := osd.DecodeRequest(b)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(req))
			Expect(out.Ops[3].ClassName()).To(Equal("rbd"))
			Expect(osd.CheckFlags(out.Flags, out.Ops)).To(BeEmpty())
		})

		It("should encode an empty request", func() {
			b, err := osd.EncodeRequest(&osd.Request{})
			Expect(err).NotTo(HaveOccurred())
			Expect(b).To(HaveLen(4 + 4 + 52))

			out, err := osd.DecodeRequest(b)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Object).To(BeEmpty())
			Expect(out.Ops).To(BeNil())
		})

		It("should reject every truncation and any slack", func() {
			b, err := osd.EncodeRequest(req)
			Expect(err).NotTo(HaveOccurred())
			for n := range len(b) {
				_, err := osd.DecodeRequest(b[:n])
				Expect(osd.IsErrFraming(err)).To(BeTrue(), "n=%d: %v", n, err)
			}
			_, err = osd.DecodeRequest(append(b, 1, 2, 3))
			Expect(osd.IsErrFraming(err)).To(BeTrue())
		})

		It("should reject an over-long declared payload", func() {
			b, err := osd.EncodeRequest(req)
			Expect(err).NotTo(HaveOccurred())

			// first op: assert-version, right after "foo" and num_ops
			plen := 4 + len(req.Object) + 4 + osd.OpHdrSize - 4
			binary.LittleEndian.PutUint32(b[plen:], uint32(len(b)))
			_, err = osd.DecodeRequest(b)
			Expect(osd.IsErrFraming(err)).To(BeTrue())
		})

		It("should reject inconsistent payloads", func() {
			req.Ops[1].Payload = req.Ops[1].Payload[:4]
			_, err := osd.EncodeRequest(req)
			Expect(osd.IsErrPayloadLen(err)).To(BeTrue())
		})

		It("should enforce codec limits", func() {
			c := osd.NewCodec(osd.Limits{MaxOps: 2, MaxObjNameLen: 8, MaxPayload: 4, MaxFrame: 1024})

			_, err := c.AppendRequest(nil, req)
			Expect(osd.IsErrFraming(err)).To(BeTrue())

			b, err := osd.EncodeRequest(req)
			Expect(err).NotTo(HaveOccurred())
			_, err = c.DecodeRequest(b)
			Expect(osd.IsErrFraming(err)).To(BeTrue())

			small := &osd.Request{Object: "o", Ops: []osd.Op{osd.NewStat(), osd.NewAppend([]byte("abcd"))}}
			b, err = c.AppendRequest(nil, small)
			Expect(err).NotTo(HaveOccurred())
			_, err = c.DecodeRequest(b)
			Expect(err).NotTo(HaveOccurred())

			small.Object = "long-object-name"
			_, err = c.AppendRequest(nil, small)
			Expect(osd.IsErrFraming(err)).To(BeTrue())
		})

		It("should append after existing bytes", func() {
			prefix := []byte("hdr:")
			b, err := osd.NewCodec(osd.DefaultLimits).AppendRequest(prefix, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(b[:4])).To(Equal("hdr:"))

			out, err := osd.DecodeRequest(b[4:])
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(req))
		})
	})
})
