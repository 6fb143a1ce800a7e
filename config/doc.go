// Package config loads the mesh's YAML configuration file and applies
// defaults for anything left unset.
package config
