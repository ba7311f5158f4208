// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML configuration of feeds, index and storage
//   - Watcher: fsnotify-based reload of the configuration file
package file
