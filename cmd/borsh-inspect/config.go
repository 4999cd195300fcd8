package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type config struct {
	Format      string
	Framed      bool
	MaxFrame    int
	MaxPrealloc int
	LenientBool bool
	LogLevel    string
}

func defaultConfig() config {
	return config{
		Format:   "yaml",
		LogLevel: "warn",
	}
}

type fileConfig struct {
	Format      string `toml:"format"`
	Framed      bool   `toml:"framed"`
	MaxFrame    int    `toml:"max_frame"`
	MaxPrealloc int    `toml:"max_prealloc"`
	LenientBool bool   `toml:"lenient_bool"`
	LogLevel    string `toml:"log_level"`
}

// loadConfig overlays the keys present in the file at path onto cfg.
func loadConfig(path string, cfg config) (config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load inspect config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load inspect config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("format") {
		cfg.Format = strings.TrimSpace(raw.Format)
	}
	if meta.IsDefined("framed") {
		cfg.Framed = raw.Framed
	}
	if meta.IsDefined("max_frame") {
		cfg.MaxFrame = raw.MaxFrame
	}
	if meta.IsDefined("max_prealloc") {
		cfg.MaxPrealloc = raw.MaxPrealloc
	}
	if meta.IsDefined("lenient_bool") {
		cfg.LenientBool = raw.LenientBool
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	return cfg, nil
}
