package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/EuroplacerUk/hermes-sdk/duration"
	"github.com/EuroplacerUk/hermes-sdk/message"
	"github.com/EuroplacerUk/hermes-sdk/session"
	"github.com/EuroplacerUk/hermes-sdk/supervisor"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// LaneConfig is one upstream/downstream endpoint's settings, the YAML/env
// shape of supervisor.SinglePeerSettings.
type LaneConfig struct {
	Enabled                bool              `mapstructure:"enabled"`
	HostName               string            `mapstructure:"hostName"`
	Port                   int               `mapstructure:"port"`
	RetryDelay             duration.Duration `mapstructure:"retryDelay"`
	CheckAlivePeriod       duration.Duration `mapstructure:"checkAlivePeriod"`
	AgentName              string            `mapstructure:"agentName"`
	LaneID                 *uint32           `mapstructure:"laneId"`
	CheckAliveResponseMode string            `mapstructure:"checkAliveResponseMode"`
}

func (l LaneConfig) responseMode() message.CheckAliveResponseMode {
	if strings.EqualFold(l.CheckAliveResponseMode, "APPLICATION") {
		return message.CheckAliveApplication
	}
	return message.CheckAliveAuto
}

func (l LaneConfig) settings(role session.Role) supervisor.SinglePeerSettings {
	return supervisor.SinglePeerSettings{
		NetworkConfiguration: supervisor.NetworkConfiguration{
			HostName:         l.HostName,
			Port:             l.Port,
			RetryDelay:       l.RetryDelay,
			CheckAlivePeriod: l.CheckAlivePeriod,
		},
		Role:                   role,
		AgentName:              l.AgentName,
		LaneID:                 l.LaneID,
		CheckAliveResponseMode: l.responseMode(),
	}
}

// MultiConfig is the vertical or configuration service's settings, the
// YAML/env shape of supervisor.MultiPeerSettings.
type MultiConfig struct {
	Enabled                bool              `mapstructure:"enabled"`
	HostName               string            `mapstructure:"hostName"`
	Port                   int               `mapstructure:"port"`
	CheckAlivePeriod       duration.Duration `mapstructure:"checkAlivePeriod"`
	CheckAliveResponseMode string            `mapstructure:"checkAliveResponseMode"`
}

func (m MultiConfig) responseMode() message.CheckAliveResponseMode {
	if strings.EqualFold(m.CheckAliveResponseMode, "APPLICATION") {
		return message.CheckAliveApplication
	}
	return message.CheckAliveAuto
}

func (m MultiConfig) settings() supervisor.MultiPeerSettings {
	return supervisor.MultiPeerSettings{
		NetworkConfiguration: supervisor.NetworkConfiguration{
			HostName:         m.HostName,
			Port:             m.Port,
			CheckAlivePeriod: m.CheckAlivePeriod,
		},
		CheckAliveResponseMode: m.responseMode(),
	}
}

// MetricsConfig configures the optional Prometheus HTTP exporter.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Config is hermesd's full configuration tree.
type Config struct {
	LogLevel      string      `mapstructure:"logLevel"`
	Downstream    LaneConfig  `mapstructure:"downstream"`
	Upstream      LaneConfig  `mapstructure:"upstream"`
	Vertical      MultiConfig `mapstructure:"vertical"`
	ConfigService MultiConfig `mapstructure:"configService"`
	Metrics       MetricsConfig `mapstructure:"metrics"`
}

// defaults mirrors marmos91-dittofs/pkg/config's pattern of seeding every
// viper key before Unmarshal, so a key absent from both the config file
// and the environment still resolves to a sane zero value instead of an
// unmarshal error.
func defaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("downstream.checkAliveResponseMode", "AUTO")
	v.SetDefault("downstream.retryDelay", "5s")
	v.SetDefault("upstream.checkAliveResponseMode", "AUTO")
	v.SetDefault("upstream.retryDelay", "5s")
	v.SetDefault("vertical.checkAliveResponseMode", "AUTO")
	v.SetDefault("configService.checkAliveResponseMode", "AUTO")
	v.SetDefault("metrics.port", 9100)
}

// loadConfig reads hermesd's configuration the way
// marmos91-dittofs/pkg/config.Load does: an explicit --config path takes
// precedence; otherwise viper searches the working directory and
// /etc/hermesd for hermesd.{yaml,yml,json}. Either way, HERMES_-prefixed
// environment variables (with "." replaced by "_") override file values,
// and a missing config file is not an error — defaults plus environment
// variables are enough to run.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix("HERMES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("hermesd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/hermesd")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		duration.DecodeHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
