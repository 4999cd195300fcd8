// borsh-inspect prints a schema-prefixed borsh blob without the Go types
// that produced it: the embedded schema container and the value decoded
// through it.
//
// Input is a file path, or stdin when the path is "-" or omitted. With
// --framed the input is first unwrapped from a compactwire frame.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rawbytedev/borsh"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	cfg := defaultConfig()
	var configPath string

	flagSet := pflag.NewFlagSet("borsh-inspect", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "TOML file with default settings")
	flagSet.StringP("format", "f", cfg.Format, "output format: yaml, cbor or cbor-diag")
	flagSet.Bool("framed", cfg.Framed, "input is wrapped in a compactwire frame")
	flagSet.Int("max-frame", cfg.MaxFrame, "largest frame accepted, in bytes (0 = default)")
	flagSet.Int("max-prealloc", cfg.MaxPrealloc, "allocation guard ceiling, in bytes (0 = default)")
	flagSet.Bool("lenient-bool", cfg.LenientBool, "decode any nonzero bool byte as true")
	flagSet.String("log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	flagSet.SetOutput(io.Discard)

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}

	if configPath != "" {
		var err error
		if cfg, err = loadConfig(configPath, cfg); err != nil {
			return err
		}
	}
	// Explicit flags win over the config file.
	if flagSet.Changed("format") {
		cfg.Format, _ = flagSet.GetString("format")
	}
	if flagSet.Changed("framed") {
		cfg.Framed, _ = flagSet.GetBool("framed")
	}
	if flagSet.Changed("max-frame") {
		cfg.MaxFrame, _ = flagSet.GetInt("max-frame")
	}
	if flagSet.Changed("max-prealloc") {
		cfg.MaxPrealloc, _ = flagSet.GetInt("max-prealloc")
	}
	if flagSet.Changed("lenient-bool") {
		cfg.LenientBool, _ = flagSet.GetBool("lenient-bool")
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel, _ = flagSet.GetString("log-level")
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck
	borsh.SetLogger(log)

	rest := flagSet.Args()
	if len(rest) > 1 {
		return fmt.Errorf("unexpected argument: %s", rest[1])
	}
	var data []byte
	if len(rest) == 0 || rest[0] == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(rest[0])
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("empty input")
	}
	return inspect(data, cfg, log, stdout)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `borsh-inspect prints a schema-prefixed borsh value.

Usage:
  borsh-inspect [flags] [file|-]

Examples:
  # Show the schema and value as YAML
  borsh-inspect account.bin

  # Unwrap a compressed frame and print CBOR diagnostic notation
  borsh-inspect --framed -f cbor-diag < account.frame

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
