package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultArchiveEntry = "dns.json"
	defaultSourceURL    = "https://updates.torguard.biz/prod/Config/default.zip"
	defaultOutputFile   = "torguard-ips.csv"
)

//nolint:tagliatelle
type Config struct {
	ArchiveEntry string `yaml:"archive-entry"`
	SourceURL    string `yaml:"source-url"`
	OutputFile   string `yaml:"output-file"`
}

// NewConfig builds the configuration from three layers: built-in
// defaults, an optional yaml file at path, and environment variables
// ARCHIVE_ENTRY, SOURCE_URL and OUTPUT_FILE. A missing config file is
// not an error, defaults apply.
func NewConfig(path string) (Config, error) {
	c := Config{
		ArchiveEntry: defaultArchiveEntry,
		SourceURL:    defaultSourceURL,
		OutputFile:   defaultOutputFile,
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}

	if err == nil {
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, err
		}
	}

	if v := os.Getenv("ARCHIVE_ENTRY"); v != "" {
		c.ArchiveEntry = v
	}

	if v := os.Getenv("SOURCE_URL"); v != "" {
		c.SourceURL = v
	}

	if v := os.Getenv("OUTPUT_FILE"); v != "" {
		c.OutputFile = v
	}

	return c, nil
}
