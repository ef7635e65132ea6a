package main

import (
	"github.com/JeremyLoy/config"
	"github.com/spf13/pflag"
)

// Config is read from the environment. Command-line flags win over it.
type Config struct {
	Generate    bool   `config:"ECSBRIDGE_GENERATE"`
	Schema      string `config:"ECSBRIDGE_SCHEMA"`
	Out         string `config:"ECSBRIDGE_OUT"`
	BuiltinsOut string `config:"ECSBRIDGE_BUILTINS_OUT"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := config.FromEnv().To(&cfg)
	return cfg, err
}

// override replaces dst with the flag's value when the flag was set.
func override(flags *pflag.FlagSet, name string, dst *string) {
	if flags.Changed(name) {
		*dst, _ = flags.GetString(name)
	}
}
