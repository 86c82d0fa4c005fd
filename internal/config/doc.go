// Package config loads, normalizes, and validates promptdex configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the pipeline, query engine, and CLI need: raw capture and dataset
// directories, pipeline thresholds, the serve bind address, and log output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
