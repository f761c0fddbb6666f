package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHosts(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Host
		wantErr bool
	}{
		{
			name:  "empty string",
			input: "",
			want:  []Host{},
		},
		{
			name:  "single host",
			input: "srv-01=1.0",
			want: []Host{
				{Name: "srv-01", Weight: 1.0},
			},
		},
		{
			name:  "multiple hosts",
			input: "srv-01=4,srv-02=2.5,srv-03=0",
			want: []Host{
				{Name: "srv-01", Weight: 4},
				{Name: "srv-02", Weight: 2.5},
				{Name: "srv-03", Weight: 0},
			},
		},
		{
			name:  "with spaces",
			input: "a = 1 , b = 2",
			want: []Host{
				{Name: "a", Weight: 1},
				{Name: "b", Weight: 2},
			},
		},
		{
			name:  "trailing comma",
			input: "a=1,",
			want: []Host{
				{Name: "a", Weight: 1},
			},
		},
		{
			name:    "invalid format - no equals",
			input:   "srv-01:1.0",
			wantErr: true,
		},
		{
			name:    "invalid format - empty name",
			input:   "=1.0",
			wantErr: true,
		},
		{
			name:    "invalid format - empty weight",
			input:   "srv-01=",
			wantErr: true,
		},
		{
			name:    "invalid weight",
			input:   "srv-01=heavy",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHosts(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseHosts() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if len(got) != len(tt.want) {
					t.Errorf("ParseHosts() length = %d, want %d", len(got), len(tt.want))
					return
				}
				for i := range got {
					if got[i] != tt.want[i] {
						t.Errorf("ParseHosts()[%d] = %v, want %v", i, got[i], tt.want[i])
					}
				}
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"base too small", func(c *Config) { c.BaseReplicas = 0 }, true},
		{"base too large", func(c *Config) { c.BaseReplicas = 257 }, true},
		{"no requests", func(c *Config) { c.Requests = 0 }, true},
		{"no key length", func(c *Config) { c.KeyLength = 0 }, true},
		{"no workers", func(c *Config) { c.Workers = 0 }, true},
		{"duplicate host", func(c *Config) { c.Hosts = append(c.Hosts, Host{Name: "srv-01", Weight: 1}) }, true},
		{"negative weight", func(c *Config) { c.Hosts[0].Weight = -0.1 }, true},
		{"weight too large", func(c *Config) { c.Hosts[0].Weight = 16.1 }, true},
		{"remove known", func(c *Config) { c.Remove = []string{"srv-02"} }, false},
		{"remove unknown", func(c *Config) { c.Remove = []string{"srv-99"} }, true},
		{"no hosts", func(c *Config) { c.Hosts = nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Specs(t *testing.T) {
	cfg := Default()
	specs := cfg.Specs()
	require.Len(t, specs, 6)
	assert.Equal(t, "srv-01", specs[0].Name)
	assert.Equal(t, 4.0, specs[0].Weight)
	for _, s := range specs[1:] {
		assert.Equal(t, 2.0, s.Weight, "host %s", s.Name)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ringsim.toml")
	data := `
base_replicas = 64
requests = 5000
seed = 42
remove = ["b"]

[[hosts]]
name = "a"
weight = 1.0

[[hosts]]
name = "b"
weight = 3.0
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.BaseReplicas)
	assert.Equal(t, 5000, cfg.Requests)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 8, cfg.KeyLength, "unset keys keep defaults")
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, []Host{{Name: "a", Weight: 1}, {Name: "b", Weight: 3}}, cfg.Hosts)
	assert.Equal(t, []string{"b"}, cfg.Remove)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DefaultHosts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ringsim.toml")
	require.NoError(t, os.WriteFile(path, []byte("requests = 10\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Hosts, cfg.Hosts)
	assert.Equal(t, 10, cfg.Requests)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("requests = \n"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)

	unknown := filepath.Join(dir, "unknown.toml")
	require.NoError(t, os.WriteFile(unknown, []byte("replicas = 12\n"), 0644))
	_, err = Load(unknown)
	assert.Error(t, err)
}
