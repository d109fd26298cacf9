package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// PreviewsDir is where preview PNGs are written when --previews-dir is
	// not given on the command line.
	PreviewsDir string `mapstructure:"previews_dir" yaml:"previews_dir"`
	// Pretty indents the JSON pipeline result.
	Pretty bool `mapstructure:"pretty" yaml:"pretty"`

	// Table analysis defaults.
	AnalyzeMaxRows   int     `mapstructure:"analyze_max_rows" yaml:"analyze_max_rows"`
	OutlierThreshold float64 `mapstructure:"outlier_threshold" yaml:"outlier_threshold"`
	Correlations     bool    `mapstructure:"correlations" yaml:"correlations"`
	Regressions      bool    `mapstructure:"regressions" yaml:"regressions"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.fitsloom/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".fitsloom")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("FITSLOOM")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("previews_dir", "previews")
	v.SetDefault("pretty", false)
	v.SetDefault("analyze_max_rows", 100000)
	v.SetDefault("outlier_threshold", 3.5)
	v.SetDefault("correlations", true)
	v.SetDefault("regressions", true)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".fitsloom"))
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		}
	}

	// A missing config file is fine; defaults and env still apply.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
