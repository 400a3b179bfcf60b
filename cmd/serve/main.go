// Command serve runs the move provider HTTP API.
package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	chessgui "github.com/nobody090909/chessGUI"
	"github.com/nobody090909/chessGUI/engine"
)

var (
	addr    = flag.String("addr", ":8077", "listen address")
	depth   = flag.Int("depth", 3, "search depth in plies")
	verbose = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	eng := engine.New(engine.Config{Logger: logger})
	router := chessgui.NewRouter(eng, *depth, logger)

	logger.Info().Str("addr", *addr).Int("depth", *depth).Msg("move provider listening")
	if err := http.ListenAndServe(*addr, router); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
