// Package config loads the application configuration.
//
// Values come from a .env file (when present) and the environment, with
// defaults declared in the `default` struct tags of each section. Nested keys
// map onto upper-case variables joined by underscores, so mirror.cache_dir is
// set by MIRROR_CACHE_DIR.
//
// # Sections
//
//   - Server: HTTP port, API key and default name language
//   - Log: level and format
//   - Database: export database driver and connection
//   - Storage: publication bucket credentials
//   - Mirror: cache directory, registry, revision file, journal, manifest endpoint
//   - Fetch: concurrent request cap, timeout, user agent
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
