package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// Hash returns a stable digest over every option that affects generated
// output. Inputs are serialized in sorted order so identical configurations
// produce identical digests regardless of map iteration order. The first 16
// hex characters of the SHA-256 sum are returned.
//
// Options that only affect diagnostics (log level, watch debounce, cache
// location) deliberately stay out of the digest: changing them must not
// invalidate the cache.
func (c *Config) Hash() string {
	hasher := sha256.New()

	write := func(parts ...string) {
		for _, p := range parts {
			hasher.Write([]byte(p))
			hasher.Write([]byte{0})
		}
	}

	write("schema_root", c.SchemaRoot)
	write("output_dir", c.OutputDir)

	for _, v := range c.Versions {
		write("version", v.ID, v.Path)
	}
	for _, inc := range c.Include {
		write("include", inc)
	}
	for _, exc := range c.Exclude {
		write("exclude", exc)
	}
	for _, ign := range c.IgnoreImports {
		write("ignore_import", ign)
	}

	overrides := make([]string, 0, len(c.Naming.TypeOverrides))
	for k := range c.Naming.TypeOverrides {
		overrides = append(overrides, k)
	}
	sort.Strings(overrides)
	for _, k := range overrides {
		write("type_override", k, c.Naming.TypeOverrides[k])
	}
	write("version_suffix", fmt.Sprintf("%t", c.Naming.VersionSuffix))
	write("message_prefix", c.Naming.MessagePrefix)

	return hex.EncodeToString(hasher.Sum(nil))[:16]
}
