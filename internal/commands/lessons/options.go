package lessonscmd

import (
	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-lessons/internal/commands"
	"github.com/goliatone/go-lessons/internal/runtimeconfig"
)

// ConfigOptions derives shared handler options from the command-layer
// configuration. Only non-zero settings produce options so the handler
// defaults stay in effect otherwise.
func ConfigOptions[T command.Message](cfg runtimeconfig.CommandsConfig) []commands.HandlerOption[T] {
	var opts []commands.HandlerOption[T]
	if cfg.Timeout > 0 {
		opts = append(opts, commands.WithTimeout[T](cfg.Timeout))
	}
	return opts
}

// ConfigGates builds the feature gates handlers consult from the module
// configuration.
func ConfigGates(cfg runtimeconfig.Config) FeatureGates {
	return FeatureGates{
		ImportEnabled:   func() bool { return cfg.Features.Import },
		CommandsEnabled: func() bool { return cfg.Commands.Enabled },
	}
}
