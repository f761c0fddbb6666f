package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"ringrouter/internal/ring"
)

// Host is a host entry in the simulation config.
type Host struct {
	Name   string  `toml:"name"`
	Weight float64 `toml:"weight"`
}

// Config holds the simulation configuration.
type Config struct {
	BaseReplicas int      `toml:"base_replicas"`
	Requests     int      `toml:"requests"`
	KeyLength    int      `toml:"key_length"`
	Seed         int64    `toml:"seed"`
	Workers      int      `toml:"workers"`
	Hosts        []Host   `toml:"hosts"`
	Remove       []string `toml:"remove"`
}

// Default returns the stock simulation: six hosts, one of them double
// weight, and 100000 eight-letter keys.
func Default() *Config {
	return &Config{
		BaseReplicas: 128,
		Requests:     100000,
		KeyLength:    8,
		Workers:      1,
		Hosts: []Host{
			{Name: "srv-01", Weight: 4.0},
			{Name: "srv-02", Weight: 2.0},
			{Name: "srv-03", Weight: 2.0},
			{Name: "srv-04", Weight: 2.0},
			{Name: "srv-05", Weight: 2.0},
			{Name: "srv-06", Weight: 2.0},
		},
	}
}

// Load reads a TOML file over the defaults. Keys missing from the file keep
// their default values; a hosts table in the file replaces the default hosts.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.Hosts = nil
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if !md.IsDefined("hosts") {
		cfg.Hosts = Default().Hosts
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in config %s: %v", path, undecoded)
	}
	return cfg, nil
}

// ParseHosts parses a comma-separated list of hosts in the format:
// "name1=weight1,name2=weight2"
func ParseHosts(hostsStr string) ([]Host, error) {
	if hostsStr == "" {
		return []Host{}, nil
	}

	parts := strings.Split(hostsStr, ",")
	hosts := make([]Host, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid host format: %s (expected name=weight)", part)
		}

		name := strings.TrimSpace(kv[0])
		weightStr := strings.TrimSpace(kv[1])

		if name == "" || weightStr == "" {
			return nil, fmt.Errorf("host name and weight cannot be empty: %s", part)
		}

		weight, err := strconv.ParseFloat(weightStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight for host %s: %w", name, err)
		}

		hosts = append(hosts, Host{
			Name:   name,
			Weight: weight,
		})
	}

	return hosts, nil
}

// Validate checks the config before a router is built from it.
func (c *Config) Validate() error {
	if c.BaseReplicas < ring.MinReplicas || c.BaseReplicas > ring.MaxReplicas {
		return fmt.Errorf("base replicas %d not in [%d, %d]", c.BaseReplicas, ring.MinReplicas, ring.MaxReplicas)
	}
	if c.Requests <= 0 {
		return fmt.Errorf("requests must be positive, got %d", c.Requests)
	}
	if c.KeyLength <= 0 {
		return fmt.Errorf("key length must be positive, got %d", c.KeyLength)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}

	seen := make(map[string]bool, len(c.Hosts))
	for _, h := range c.Hosts {
		if seen[h.Name] {
			return fmt.Errorf("duplicate host %q", h.Name)
		}
		seen[h.Name] = true
		if !(h.Weight >= ring.MinWeight && h.Weight <= ring.MaxWeight) {
			return fmt.Errorf("host %q weight %v not in [%v, %v]", h.Name, h.Weight, ring.MinWeight, ring.MaxWeight)
		}
	}
	for _, name := range c.Remove {
		if !seen[name] {
			return fmt.Errorf("cannot remove unknown host %q", name)
		}
	}
	return nil
}

// Specs converts the configured hosts into ring host specs, in order.
func (c *Config) Specs() []ring.HostSpec {
	specs := make([]ring.HostSpec, 0, len(c.Hosts))
	for _, h := range c.Hosts {
		specs = append(specs, ring.HostSpec{
			Name:   h.Name,
			Weight: h.Weight,
		})
	}
	return specs
}
