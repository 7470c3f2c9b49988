package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("config file not found")

var CacheDir = func() string {
	dir, err := homedir.Dir()
	if err != nil {
		log.Fatalf("couldn't get user home directory: %s", err)
	}
	return filepath.Join(dir, ".octosubstrait")
}()

var DefaultPath = filepath.Join(CacheDir, "config.yaml")

type Config struct {
	// Extensions are paths of additional extension declaration files.
	Extensions []string `yaml:"extensions"`
	// NoDefaultExtensions disables the embedded standard extension declarations.
	NoDefaultExtensions bool             `yaml:"noDefaultExtensions"`
	FunctionMappings    FunctionMappings `yaml:"functionMappings"`
	Logging             Logging          `yaml:"logging"`
}

// FunctionMappings rename native function names to declared names. Absent entries keep the name.
type FunctionMappings struct {
	Scalar    map[string]string `yaml:"scalar"`
	Aggregate map[string]string `yaml:"aggregate"`
	Window    map[string]string `yaml:"window"`
}

type Logging struct {
	Level string `yaml:"level"`
	// File makes the CLI log into CacheDir instead of stderr.
	File bool `yaml:"file"`
}

func Default() *Config {
	return &Config{
		Logging: Logging{
			Level: "info",
		},
	}
}

func ReadConfig(path string) (*Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't expand config path")
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(ErrNotFound, "%s", path)
	} else if err != nil {
		return nil, errors.Wrap(err, "couldn't open file")
	}
	defer f.Close()

	config := Default()
	if err := yaml.NewDecoder(f).Decode(config); err != nil {
		return nil, errors.Wrap(err, "couldn't decode yaml configuration")
	}

	// Extension paths are relative to the config file.
	for i := range config.Extensions {
		extensionPath, err := homedir.Expand(config.Extensions[i])
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't expand extension path %s", config.Extensions[i])
		}
		if !filepath.IsAbs(extensionPath) {
			extensionPath = filepath.Join(filepath.Dir(path), extensionPath)
		}
		config.Extensions[i] = extensionPath
	}

	return config, nil
}

// Read reads the config from the default location, falling back to defaults if there is none.
func Read() (*Config, error) {
	config, err := ReadConfig(DefaultPath)
	if errors.Cause(err) == ErrNotFound {
		return Default(), nil
	}
	return config, err
}
