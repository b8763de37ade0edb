// Package config loads piecetree settings.
//
// Settings are resolved in layers, later layers overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file, chosen by extension
//  3. A .env file, which only fills variables not already set
//  4. PIECETREE_* environment variables
//
// Basic usage:
//
//	cfg, err := config.Load(
//		config.WithFile("piecetree.toml"),
//		config.WithEnvFile(".env"),
//	)
//	if err != nil {
//		return err
//	}
//	buf := buffer.NewBufferFromString(text, cfg.BufferOptions(logger)...)
package config
