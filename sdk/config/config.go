// Package config provides the public SDK configuration API.
//
// It re-exports the server configuration types and helpers so external projects can
// embed chatbridge without importing internal packages.
package config

import internalconfig "github.com/chatbridge/chatbridge/internal/config"

type Config = internalconfig.Config

type ConversionConfig = internalconfig.ConversionConfig

const DefaultPort = internalconfig.DefaultPort

func LoadConfig(configFile string) (*Config, error) { return internalconfig.LoadConfig(configFile) }

func LoadConfigOptional(configFile string, optional bool) (*Config, error) {
	return internalconfig.LoadConfigOptional(configFile, optional)
}
