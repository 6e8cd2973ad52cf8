// Command stockctl is the administrative CLI: schema migrations, stock import
// from market data and role management.
package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"portfolio_backend/internal/platform/config"
)

func main() {
	if err := newRootCommand(config.Load).Execute(); err != nil {
		log.Error().Err(err).Msg("stockctl failed")
		os.Exit(1)
	}
}
