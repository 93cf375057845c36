// Command suuid prints RFC 4122 UUIDs.
//
//	suuid                              one random UUID
//	suuid -u uuid5 -n @dns -N python.org
//	suuid -u uuid1 -c 10 --state file  time-based, clock sequence kept on disk
//	suuid --config suuid.yaml
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/Lzww0608/suuid"
	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

var log = logging.Logger("suuid/cmd")

var formatters = map[string]func(suuid.UUID) string{
	"hyphenated":   suuid.UUID.String,
	"hex":          suuid.UUID.Hex,
	"urn":          suuid.UUID.URN,
	"int":          func(u suuid.UUID) string { return u.Int().String() },
	"bytes_le-hex": func(u suuid.UUID) string { return hex.EncodeToString(u.BytesLE()) },
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "suuid:", err)
		os.Exit(2)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	lvl, err := logging.LevelFromString(cfg.LogLevel)
	if err != nil {
		return errors.Wrapf(errUsage, "log level %q", cfg.LogLevel)
	}
	logging.SetAllLoggers(lvl)

	if err := cfg.validate(); err != nil {
		return err
	}
	gen, err := newUUIDFunc(ctx, cfg)
	if err != nil {
		return err
	}
	defer gen.close()

	format := formatters[cfg.Format]
	for i := 0; i < cfg.Count; i++ {
		u, err := gen.next()
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, format(u))
	}
	return nil
}

// parseArgs loads the optional config file and applies the flags that were
// set explicitly on top of it.
func parseArgs(args []string, stderr io.Writer) (Config, error) {
	fs := pflag.NewFlagSet("suuid", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	def := defaultConfig()
	var (
		configPath = fs.String("config", "", "Path to the yaml config file")
		version    = fs.StringP("uuid", "u", def.Version, "UUID version: uuid1, uuid3, uuid4 or uuid5")
		namespace  = fs.StringP("namespace", "n", "", "Namespace for uuid3/uuid5: @dns, @url, @oid, @x500 or a UUID")
		name       = fs.StringP("name", "N", "", "Name for uuid3/uuid5")
		count      = fs.IntP("count", "c", def.Count, "Number of UUIDs to print")
		format     = fs.String("format", def.Format, "Output format: hyphenated, hex, urn, int or bytes_le-hex")
		node       = fs.String("node", "", "Node ID for uuid1, 12 hex digits")
		clockSeq   = fs.Int("clock-seq", 0, "Clock sequence for uuid1")
		logLevel   = fs.String("log-level", def.LogLevel, "Log level: debug, info, warn or error")
		backend    = fs.String("state", def.State.Backend, "uuid1 state backend: none, file, sqlite, mysql, zookeeper or redis")
		statePath  = fs.String("state-path", "", "State file, or local cache for zookeeper")
	)
	if err := fs.Parse(args); err != nil {
		return def, err
	}
	if fs.NArg() > 0 {
		return def, errors.Wrapf(errUsage, "unexpected arguments %q", fs.Args())
	}

	cfg := def
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			return cfg, err
		}
		log.Debugf("loaded config %s", *configPath)
	}

	set := func(flag string, apply func()) {
		if fs.Changed(flag) {
			apply()
		}
	}
	set("uuid", func() { cfg.Version = *version })
	set("namespace", func() { cfg.Namespace = *namespace })
	set("name", func() { cfg.Name = *name })
	set("count", func() { cfg.Count = *count })
	set("format", func() { cfg.Format = *format })
	set("node", func() { cfg.Node = *node })
	set("clock-seq", func() { cfg.ClockSeq = clockSeq })
	set("log-level", func() { cfg.LogLevel = *logLevel })
	set("state", func() { cfg.State.Backend = *backend })
	set("state-path", func() { cfg.State.Path = *statePath })
	return cfg, nil
}

type uuidFunc struct {
	next  func() (suuid.UUID, error)
	close func()
}

func newUUIDFunc(ctx context.Context, cfg Config) (*uuidFunc, error) {
	f := &uuidFunc{close: func() {}}

	switch cfg.Version {
	case "uuid3", "uuid5":
		ns, err := cfg.namespace()
		if err != nil {
			return nil, err
		}
		u := suuid.NewV3(ns, cfg.Name)
		if cfg.Version == "uuid5" {
			u = suuid.NewV5(ns, cfg.Name)
		}
		f.next = func() (suuid.UUID, error) { return u, nil }
	case "uuid4":
		f.next = suuid.NewV4
	case "uuid1":
		v1opts, err := cfg.v1Options()
		if err != nil {
			return nil, err
		}
		st, err := openStore(ctx, cfg.State)
		if err != nil {
			return nil, err
		}
		var opts []suuid.GeneratorOption
		if st != nil {
			// A short-lived process saves every UUID so the last one is not lost.
			opts = append(opts, suuid.WithStateStore(st), suuid.WithSaveInterval(0))
			f.close = func() {
				if err := st.Close(); err != nil {
					log.Warnf("close state store: %v", err)
				}
			}
		}
		gen := suuid.NewGenerator(opts...)
		f.next = func() (suuid.UUID, error) { return gen.NewV1(v1opts...) }
	}
	return f, nil
}
