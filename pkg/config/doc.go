// Package config loads and validates generator configuration.
//
// Configuration comes from a YAML file, with environment variables
// (PROTOUNIFY_*) overriding individual settings. Every option that affects
// generated output participates in the config digest (Hash), so any change
// to such an option invalidates the incremental cache.
package config
