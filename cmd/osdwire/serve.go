// Package main is osdwire: a low-level tool to decode, encode, and inspect
// object-operation request and reply frames.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NVIDIA/osdwire/cmn"
	"github.com/NVIDIA/osdwire/cmn/nlog"
	"github.com/NVIDIA/osdwire/osd"
	"github.com/NVIDIA/osdwire/stats"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	contentJSON = "application/json"
	contentMsgp = "application/msgpack"

	dumpLimit = 64 // bytes of malformed input echoed into the log
)

type (
	server struct {
		codec   *osd.Codec
		tracker *stats.Tracker
		maxBody int64
	}
	errMsg struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
	}
)

func serveCmd(args []string) error {
	var (
		listen string
		fset   = flag.NewFlagSet("serve", flag.ExitOnError)
	)
	fset.StringVar(&listen, "listen", config.Serve.Listen, "listen address")
	fset.Parse(args)

	reg := prometheus.NewRegistry()
	srv := newServer(codec, stats.NewTracker(reg), &config.Serve)
	httpSrv := &http.Server{
		Addr:              listen,
		Handler:           srv.mux(reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go flushLogs(ctx, config.Log.FlushInterval.D())

	errCh := make(chan error, 1)
	go func() {
		nlog.Infof("listening on %s (limits %+v)", listen, codec.Limits())
		errCh <- httpSrv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	nlog.Infoln("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func flushLogs(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			nlog.Flush()
		case <-ctx.Done():
			return
		}
	}
}

func newServer(codec *osd.Codec, tracker *stats.Tracker, conf *cmn.ServeConf) *server {
	return &server{codec: codec, tracker: tracker, maxBody: int64(conf.MaxBody)}
}

func (s *server) mux(reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/decode/{kind}", s.decodeHandler)
	mux.HandleFunc("GET /v1/catalog", s.catalogHandler)
	mux.HandleFunc("GET /v1/stats", s.statsHandler)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}

func (s *server) decodeHandler(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	if kind != kindReply && kind != kindRequest {
		writeErr(w, http.StatusNotFound, errors.Errorf("invalid frame kind %q", kind))
		return
	}
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeErr(w, http.StatusRequestEntityTooLarge, err)
		} else {
			writeErr(w, http.StatusBadRequest, err)
		}
		return
	}

	var f frame
	switch kind {
	case kindReply:
		var reply *osd.Reply
		if reply, err = s.codec.DecodeReply(b); err == nil {
			s.tracker.Reply(stats.DirDecode, reply, len(b))
			f = reply
		}
	default:
		var req *osd.Request
		if req, err = s.codec.DecodeRequest(b); err == nil {
			s.tracker.Request(stats.DirDecode, req, len(b))
			f = req
		}
	}
	if err != nil {
		s.tracker.Error(err)
		nlog.Warningf("%s from %s: %v [%s]", kind, r.RemoteAddr, err, hexdump(b, dumpLimit))
		writeErr(w, http.StatusBadRequest, err)
		return
	}

	if r.URL.Query().Get("format") == formatMsgp {
		out, err := f.MarshalMsg(nil)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", contentMsgp)
		w.Write(out)
		return
	}
	writeJSON200(w, f)
}

func (*server) catalogHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON200(w, osd.Catalog())
}

func (s *server) statsHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON200(w, s.tracker)
}

func writeJSON200(w http.ResponseWriter, v any) {
	b, err := jsoniter.Marshal(v)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", contentJSON)
	w.Write(b)
}

func writeErr(w http.ResponseWriter, status int, err error) {
	b, _ := jsoniter.Marshal(errMsg{Error: err.Error(), Kind: stats.ErrKind(err)})
	w.Header().Set("Content-Type", contentJSON)
	w.WriteHeader(status)
	w.Write(b)
}

func hexdump(b []byte, limit int) string {
	if len(b) > limit {
		return hex.EncodeToString(b[:limit]) + "..."
	}
	return hex.EncodeToString(b)
}
