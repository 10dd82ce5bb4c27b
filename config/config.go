// Package config holds the settings of the tusplit command.
package config

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/Noofbiz/tugraphs/errkind"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. TUSPLIT_IMB_RATIO.
const EnvPrefix = "TUSPLIT"

// Config is the configuration of one load-and-split run.
type Config struct {
	// Root is the directory holding one sub-directory per dataset.
	Root string `mapstructure:"root"`
	// Name is the TU dataset name.
	Name string `mapstructure:"name"`
	// Cleaned selects the isomorphism-free variant.
	Cleaned        bool `mapstructure:"cleaned"`
	UseNodeAttr    bool `mapstructure:"use_node_attr"`
	UseEdgeAttr    bool `mapstructure:"use_edge_attr"`
	StrictFeatures bool `mapstructure:"strict_features"`

	// ImbRatio is the share of class 0 in train and val.
	ImbRatio float64 `mapstructure:"imb_ratio"`
	NumTrain int     `mapstructure:"num_train"`
	NumVal   int     `mapstructure:"num_val"`
	Seed     int64   `mapstructure:"seed"`

	// BatchSize > 0 walks the train split once in batches of that size.
	BatchSize int `mapstructure:"batch_size"`
	// Manifest and Plot are optional output paths.
	Manifest string `mapstructure:"manifest"`
	Plot     string `mapstructure:"plot"`

	Debug bool `mapstructure:"debug"`
}

// Keys lists every configuration key.
var Keys = []string{
	"root", "name", "cleaned", "use_node_attr", "use_edge_attr", "strict_features",
	"imb_ratio", "num_train", "num_val", "seed",
	"batch_size", "manifest", "plot", "debug",
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("root", "data")
	v.SetDefault("name", "")
	v.SetDefault("cleaned", false)
	v.SetDefault("use_node_attr", false)
	v.SetDefault("use_edge_attr", false)
	v.SetDefault("strict_features", false)
	v.SetDefault("imb_ratio", 0.5)
	v.SetDefault("num_train", 0)
	v.SetDefault("num_val", 0)
	v.SetDefault("seed", 0)
	v.SetDefault("batch_size", 0)
	v.SetDefault("manifest", "")
	v.SetDefault("plot", "")
	v.SetDefault("debug", false)
}

// New returns a viper instance with defaults and environment binding set up.
// A non-empty file is read as yaml; values from it are overridden by the
// environment and by any flags bound later.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, k := range Keys {
		if err := v.BindEnv(k); err != nil {
			return nil, errors.Wrapf(err, "bind env for %s", k)
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errkind.IO(err, "read config file %s", file)
		}
	}
	return v, nil
}

// FromViper decodes v into a Config and validates it.
func FromViper(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errkind.Configf("decode config: %v", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the fields that can be checked without touching disk.
func (c *Config) Validate() error {
	if c.Name == "" {
		return errkind.Configf("config: name is required")
	}
	if c.Root == "" {
		return errkind.Configf("config: root is required")
	}
	if math.IsNaN(c.ImbRatio) || c.ImbRatio < 0 || c.ImbRatio > 1 {
		return errkind.Configf("config: imb_ratio %v outside [0, 1]", c.ImbRatio)
	}
	if c.NumTrain < 0 || c.NumVal < 0 {
		return errkind.Configf("config: num_train and num_val must be >= 0")
	}
	if c.BatchSize < 0 {
		return errkind.Configf("config: batch_size must be >= 0")
	}
	return nil
}
