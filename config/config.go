package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Browser holds the settings of the web browser and the command line tools.
type Browser struct {
	Addr     string `yaml:"addr"`
	Dir      string `yaml:"dir"`
	Encoding string `yaml:"encoding"`
	WebPath  string `yaml:"web_path"`
}

// Flags holds command line values that override the config file.
type Flags struct {
	Addr     string
	Dir      string
	Encoding string
	WebPath  string
}

// Load reads a yaml config file. Fields not set in the file keep their zero values.
func Load(path string) (Browser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Browser{}, errors.Wrapf(err, "Failed to read config %q", path)
	}

	var cfg Browser
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Browser{}, errors.Wrapf(err, "Failed to parse config %q", path)
	}
	return cfg, nil
}

// Resolve applies non-empty flags over the file values and fills defaults.
func (c *Browser) Resolve(flags Flags) {
	if flags.Addr != "" {
		c.Addr = flags.Addr
	}
	if flags.Dir != "" {
		c.Dir = flags.Dir
	}
	if flags.Encoding != "" {
		c.Encoding = flags.Encoding
	}
	if flags.WebPath != "" {
		c.WebPath = flags.WebPath
	}

	if c.Addr == "" {
		c.Addr = ":8000"
	}
	if c.Encoding == "" {
		c.Encoding = DefaultEncoding.String()
	}
	if c.WebPath == "" {
		c.WebPath = "web"
	}
}

// Apply makes the resolved encoding the process wide code page.
func (c *Browser) Apply() error {
	return SetEncoding(c.Encoding)
}
