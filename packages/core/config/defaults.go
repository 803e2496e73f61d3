package config

import "github.com/spf13/viper"

func setDefaults(v *viper.Viper) {
	v.SetDefault("timeout", "30s")
	v.SetDefault("insecure", false)
	v.SetDefault("proxy", "")
	v.SetDefault("user_agent", "hitverb")
	v.SetDefault("follow_redirects", true)
	v.SetDefault("max_redirects", 10)
	v.SetDefault("output", "console")
	v.SetDefault("no_color", false)
	v.SetDefault("env_file", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg) // defaults always decode
	return &cfg
}
