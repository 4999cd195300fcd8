package main

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/borsh"
	"github.com/rawbytedev/borsh/pkg/compactwire"
	"github.com/rawbytedev/borsh/pkg/schema"
)

type document struct {
	Schema *schema.Container `yaml:"schema"`
	Value  any               `yaml:"value"`
}

// inspect decodes a schema-prefixed blob, optionally wrapped in a
// compactwire frame, and writes the schema and the value to w.
func inspect(data []byte, cfg config, log *zap.Logger, w io.Writer) error {
	if cfg.Framed {
		f, err := compactwire.Decode(data, compactwire.Limits{MaxFrame: cfg.MaxFrame})
		if err != nil {
			return err
		}
		log.Debug("decoded frame",
			zap.Stringer("type", f.Type),
			zap.Stringer("compression", f.Compression),
			zap.Int("body", len(f.Body)))
		if f.Type == compactwire.TypeError {
			code, msg, err := f.ErrorBody()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(w, "error frame: code %d: %s\n", code, msg)
			return err
		}
		if f.Flags&compactwire.FlagSchema == 0 {
			return fmt.Errorf("frame body carries no schema; re-encode with a schema prefix")
		}
		data = f.Body
	}

	sc, rest, err := borsh.SplitSchema(data)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	log.Debug("read schema",
		zap.String("declaration", sc.Declaration),
		zap.Int("definitions", len(sc.Definitions)),
		zap.Int("value_bytes", len(rest)))

	dec := sc.NewDecoder(
		schema.WithMaxPrealloc(cfg.MaxPrealloc),
		schema.WithLenientBool(cfg.LenientBool),
	)
	v, err := dec.Decode(rest)
	if err != nil {
		return fmt.Errorf("decode %s: %w", sc.Declaration, err)
	}

	switch cfg.Format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(document{Schema: sc, Value: schema.Printable(v)}); err != nil {
			return err
		}
		return enc.Close()
	case "cbor", "cbor-diag":
		head, err := sc.CBOR()
		if err != nil {
			return err
		}
		body, err := schema.CBOR(v)
		if err != nil {
			return err
		}
		if cfg.Format == "cbor" {
			if _, err := w.Write(head); err != nil {
				return err
			}
			_, err = w.Write(body)
			return err
		}
		for _, item := range [][]byte{head, body} {
			notation, err := cbor.Diagnose(item)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w, notation); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown format %q (want yaml, cbor or cbor-diag)", cfg.Format)
}
