// Package cmn provides common constants, types, and utilities for osdwire clients and tools.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cmn

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NVIDIA/osdwire/cmn/cos"
	"github.com/NVIDIA/osdwire/cmn/jsp"
	"github.com/NVIDIA/osdwire/cmn/nlog"
	"github.com/NVIDIA/osdwire/osd"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

const configMetaver = 1

const (
	DefaultListen  = ":8089"
	defaultMaxBody = 64 * cos.MiB
	defaultFlush   = cos.Duration(10 * time.Second)
)

type (
	CodecConf struct {
		MaxOps        int         `json:"max_ops"`
		MaxObjNameLen int         `json:"max_object_name_len"`
		MaxPayloadLen cos.SizeIEC `json:"max_payload_len"`
		MaxFrameLen   cos.SizeIEC `json:"max_frame_len"`
	}
	LogConf struct {
		Dir           string       `json:"dir"`
		ToStderr      bool         `json:"to_stderr"`
		FlushInterval cos.Duration `json:"flush_interval"`
	}
	ServeConf struct {
		Listen  string      `json:"listen"`
		MaxBody cos.SizeIEC `json:"max_body"`
	}

	// all of the above
	Config struct {
		Codec CodecConf `json:"codec"`
		Log   LogConf   `json:"log"`
		Serve ServeConf `json:"serve"`
	}
)

// interface guard
var _ jsp.Opts = (*Config)(nil)

func DefaultConfig() *Config {
	lim := osd.DefaultLimits
	return &Config{
		Codec: CodecConf{
			MaxOps:        lim.MaxOps,
			MaxObjNameLen: lim.MaxObjNameLen,
			MaxPayloadLen: cos.SizeIEC(lim.MaxPayload),
			MaxFrameLen:   cos.SizeIEC(lim.MaxFrame),
		},
		Log:   LogConf{ToStderr: true, FlushInterval: defaultFlush},
		Serve: ServeConf{Listen: DefaultListen, MaxBody: defaultMaxBody},
	}
}

func (*Config) JspOpts() jsp.Options { return jsp.CksumSign(configMetaver) }

func (c *Config) Validate() error {
	if err := c.Codec.validate(); err != nil {
		return err
	}
	if c.Log.FlushInterval < 0 {
		return fmt.Errorf("invalid log.flush_interval %s", c.Log.FlushInterval)
	}
	if c.Serve.Listen == "" {
		c.Serve.Listen = DefaultListen
	}
	if c.Serve.MaxBody <= 0 {
		return fmt.Errorf("invalid serve.max_body %d", c.Serve.MaxBody)
	}
	return nil
}

func (c *CodecConf) validate() error {
	switch {
	case c.MaxOps <= 0:
		return fmt.Errorf("invalid codec.max_ops %d", c.MaxOps)
	case c.MaxObjNameLen <= 0:
		return fmt.Errorf("invalid codec.max_object_name_len %d", c.MaxObjNameLen)
	case c.MaxPayloadLen <= 0 || c.MaxPayloadLen > math.MaxUint32:
		return fmt.Errorf("invalid codec.max_payload_len %s", c.MaxPayloadLen)
	case c.MaxFrameLen < c.MaxPayloadLen:
		return fmt.Errorf("codec.max_frame_len %s is smaller than codec.max_payload_len %s",
			c.MaxFrameLen, c.MaxPayloadLen)
	}
	return nil
}

func (c *CodecConf) Limits() osd.Limits {
	return osd.Limits{
		MaxOps:        c.MaxOps,
		MaxObjNameLen: c.MaxObjNameLen,
		MaxPayload:    int(c.MaxPayloadLen),
		MaxFrame:      int(c.MaxFrameLen),
	}
}

// LoadConfig reads YAML (.yaml, .yml) or JSON; JSON may carry the jsp prefix.
// Sections missing from the file keep their defaults.
func LoadConfig(fpath string) (*Config, error) {
	b, err := os.ReadFile(fpath)
	if err != nil {
		return nil, err
	}
	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(fpath)) {
	case ".yaml", ".yml":
		err = fromYAML(b, config)
	default:
		err = fromJSON(b, config, fpath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config %q: %w", fpath, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	nlog.Infof("loaded config %q: %+v", fpath, config.Codec)
	return config, nil
}

func SaveConfig(fpath string, config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	return jsp.SaveMeta(fpath, config)
}

func fromJSON(b []byte, config *Config, tag string) error {
	opts := jsp.Plain()
	if jsp.IsSigned(b) {
		opts = config.JspOpts()
	}
	_, err := jsp.Decode(bytes.NewReader(b), config, opts, tag)
	return err
}

// YAML goes through a generic tree so that sizes and durations share the JSON parsers.
func fromYAML(b []byte, config *Config) error {
	var tree map[string]any
	if err := yaml.Unmarshal(b, &tree); err != nil {
		return err
	}
	if len(tree) == 0 {
		return nil
	}
	jb, err := jsoniter.Marshal(tree)
	if err != nil {
		return err
	}
	return jsoniter.Unmarshal(jb, config)
}
