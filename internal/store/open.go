package store

import (
	"fmt"
	"strings"

	"github.com/stellarlinkco/openeval/internal/config"
)

const DefaultSQLitePath = "openeval.db"

// Open creates a store from configuration. An empty path falls back to the
// default database file next to the working directory.
func Open(cfg *config.Config) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("store: missing config")
	}

	path := strings.TrimSpace(cfg.Storage.Path)
	if path == "" {
		path = DefaultSQLitePath
	}
	return NewSQLiteStore(path)
}
