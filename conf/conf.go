// Package conf loads the process configuration from a yaml file and
// ORGCORE_* environment variables, environment winning.
package conf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/hearthsoft/orgcore/internal/compliance"
	"github.com/hearthsoft/orgcore/internal/log"
	"github.com/hearthsoft/orgcore/internal/store"
)

type Config struct {
	Name  string `conf:"name" yaml:"name" json:"name"`
	Debug bool   `conf:"debug" yaml:"debug" json:"debug"`

	Log        log.Config        `conf:"log" yaml:"log" json:"log"`
	Store      store.Config      `conf:"store" yaml:"store" json:"store"`
	Compliance compliance.Config `conf:"compliance" yaml:"compliance" json:"compliance"`
}

// Load reads config.yaml from the working directory or ./config, then
// applies ORGCORE_* environment overrides (ORGCORE_STORE_PATH, ...). A
// missing file is fine; defaults cover everything.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("ORGCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("conf: read config: %w", err)
		}
	}

	var cfg Config

	err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "conf"
	})
	if err != nil {
		return nil, fmt.Errorf("conf: unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("name", "orgcore")
	v.SetDefault("debug", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("store.path", "orgcore.db")
}
