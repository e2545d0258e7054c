// Package config holds linkscout's runtime configuration.
//
// Configuration flows from three sources, in increasing precedence:
//  1. Compiled-in defaults (NewConfig)
//  2. The optional .linkscout YAML file (LoadConfigFile), which can set
//     defaults and per-host overrides
//  3. CLI flags, applied by the cmd package
//
// The Config struct is passed through the application by dependency
// injection; there is no package-level configuration state.
package config
