// Package config loads and validates configuration for the Gray Logic
// entity rename tool.
//
// Configuration comes from three sources, in increasing precedence:
//
//  1. Built-in defaults (defaultConfig)
//  2. The YAML configuration file (configs/config.yaml)
//  3. GLRENAME_* environment variables for secrets and per-host values
//
// The package also loads the naming override snapshot (a small YAML
// file mapping area/device/entity ids to literal name fragments). The
// engine itself never touches the filesystem; it receives the loaded
// snapshot from the entry point.
package config
