package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/klauspost/compress/flate"
	"github.com/poolqa/PngChunkKit/pngChunk"
	"github.com/poolqa/PngChunkKit/pngDeflate"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

type Config struct {
	LogLevel string        `yaml:"logLevel"`
	Workers  int           `yaml:"workers"`
	Parse    ParseConfig   `yaml:"parse"`
	Deflate  DeflateConfig `yaml:"deflate"`
}

type ParseConfig struct {
	StrictCrc      bool   `yaml:"strictCrc"`
	MaxChunkLength uint32 `yaml:"maxChunkLength"`
}

type DeflateConfig struct {
	// Level is a flate level from -2 (Huffman only) to 9. Unset means 9;
	// 0 stores the payload uncompressed.
	Level         *int `yaml:"level"`
	AppendAdler32 bool `yaml:"appendAdler32"`
}

func Default() Config {
	c := Config{}
	c.applyDefaults()
	return c
}

// Load reads a YAML file. An empty path yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config: %w", err)
	}
	return Parse(data)
}

// Parse unmarshals YAML data and fills missing fields with defaults.
func Parse(data []byte) (Config, error) {
	var config Config
	if err := yaml.UnmarshalStrict(data, &config); err != nil {
		return Config{}, fmt.Errorf("error parsing config: %w", err)
	}
	config.applyDefaults()
	return config, config.validate()
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Workers < 1 {
		c.Workers = runtime.NumCPU()
	}
	if c.Parse.MaxChunkLength == 0 {
		c.Parse.MaxChunkLength = pngChunk.MaxLength
	}
	if c.Deflate.Level == nil {
		level := flate.BestCompression
		c.Deflate.Level = &level
	}
}

func (c Config) validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}
	if level := *c.Deflate.Level; level < flate.HuffmanOnly || level > flate.BestCompression {
		return fmt.Errorf("error parsing config: deflate level %d out of range", level)
	}
	if c.Parse.MaxChunkLength > pngChunk.MaxLength {
		return fmt.Errorf("error parsing config: maxChunkLength %d exceeds %d", c.Parse.MaxChunkLength, pngChunk.MaxLength)
	}
	return nil
}

// Codec returns the deflate codec the config describes.
func (c Config) Codec() pngDeflate.Codec {
	return pngDeflate.New(pngDeflate.Options{
		Level:         c.Deflate.Level,
		AppendAdler32: c.Deflate.AppendAdler32,
	})
}

// ReaderOptions returns chunk reader options reporting to observer.
func (c Config) ReaderOptions(observer pngChunk.Observer) pngChunk.Options {
	return pngChunk.Options{
		Observer:  observer,
		Strict:    c.Parse.StrictCrc,
		MaxLength: c.Parse.MaxChunkLength,
	}
}

// Logger builds a logrus logger at the configured level.
func (c Config) Logger() *logrus.Logger {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger
}
