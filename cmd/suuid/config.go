package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/Lzww0608/suuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the command configuration. Flags override values read from the
// yaml file.
type Config struct {
	Version   string      `yaml:"version"`   // uuid1, uuid3, uuid4 or uuid5
	Namespace string      `yaml:"namespace"` // @dns, @url, @oid, @x500 or a UUID
	Name      string      `yaml:"name"`
	Count     int         `yaml:"count"`
	Format    string      `yaml:"format"`
	Node      string      `yaml:"node"` // 12 hex digits
	ClockSeq  *int        `yaml:"clock_seq"`
	LogLevel  string      `yaml:"log_level"`
	State     StateConfig `yaml:"state"`
}

// StateConfig selects where version 1 state is kept between runs.
type StateConfig struct {
	Backend string   `yaml:"backend"` // none, file, mysql, sqlite, zookeeper or redis
	Path    string   `yaml:"path"`    // file and sqlite database, zookeeper local cache
	DSN     string   `yaml:"dsn"`     // mysql
	Servers []string `yaml:"servers"` // zookeeper
	Addr    string   `yaml:"addr"`    // redis
	Key     string   `yaml:"key"`     // state name
}

func defaultConfig() Config {
	return Config{
		Version:  "uuid4",
		Count:    1,
		Format:   "hyphenated",
		LogLevel: "error",
		State:    StateConfig{Backend: "none"},
	}
}

// LoadConfig reads a yaml config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

var errUsage = errors.New("usage")

func (c Config) validate() error {
	switch c.Version {
	case "uuid1", "uuid4":
	case "uuid3", "uuid5":
		if c.Namespace == "" || c.Name == "" {
			return errors.Wrapf(errUsage, "%s requires both a namespace and a name", c.Version)
		}
	default:
		return errors.Wrapf(errUsage, "unknown uuid version %q", c.Version)
	}
	if _, ok := formatters[c.Format]; !ok {
		return errors.Wrapf(errUsage, "unknown format %q", c.Format)
	}
	if c.Count < 1 {
		return errors.Wrapf(errUsage, "count must be positive, got %d", c.Count)
	}
	return nil
}

// namespace resolves @dns style aliases or a UUID string.
func (c Config) namespace() (suuid.UUID, error) {
	if alias, ok := strings.CutPrefix(c.Namespace, "@"); ok {
		ns, ok := suuid.NamespaceByName(alias)
		if !ok {
			return suuid.Nil, errors.Wrapf(errUsage, "unknown namespace %q", c.Namespace)
		}
		return ns, nil
	}
	return suuid.Parse(c.Namespace)
}

// v1Options turns the node and clock_seq overrides into generator options.
func (c Config) v1Options() ([]suuid.V1Option, error) {
	var opts []suuid.V1Option
	if c.Node != "" {
		node, err := strconv.ParseUint(strings.TrimPrefix(c.Node, "0x"), 16, 64)
		if err != nil {
			return nil, errors.Wrapf(suuid.ErrOutOfRange, "node %q", c.Node)
		}
		opts = append(opts, suuid.WithNode(node))
	}
	if c.ClockSeq != nil {
		if *c.ClockSeq < 0 || *c.ClockSeq > 0x3fff {
			return nil, errors.Wrapf(suuid.ErrOutOfRange, "clock sequence %d does not fit in 14 bits", *c.ClockSeq)
		}
		opts = append(opts, suuid.WithClockSeq(uint16(*c.ClockSeq)))
	}
	return opts, nil
}
