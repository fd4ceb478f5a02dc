// Package commands implements the lexibase subcommands. Commands stay thin:
// they open the store, call into the editor, load, export or validate
// packages, and render results.
package commands

import (
	"fmt"

	"github.com/lexibase-labs/lexibase/internal/config"
	"github.com/lexibase-labs/lexibase/internal/store"
)

// ConfigFunc returns the loaded configuration. The root command injects it so
// commands never load config themselves.
type ConfigFunc func() *config.Config

// openStore opens and migrates the configured database.
func openStore(cfg *config.Config) (*store.Store, error) {
	s, err := store.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}
