// attackgen precomputes rook, bishop, knight and king attack tables and
// writes them as binary files for the move generator.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/attackgen/internal/config"
	"github.com/hailam/attackgen/internal/gen"
)

var (
	configFile = flag.String("config", "", "optional config file (yaml, json or toml)")
	outDir     = flag.String("out", "", "output directory (overrides out_dir)")
	workers    = flag.Int("workers", 0, "parallel square workers (overrides workers)")
	magics     = flag.Bool("magics", false, "also write magic bitboard indexes")
	storeDir   = flag.String("store", "", "also publish the tables into a BadgerDB store at this path (\"default\" for the per-user data dir)")
	diagrams   = flag.Bool("diagrams", false, "also render SVG/PNG diagrams")
	logLevel   = flag.String("log-level", "", "debug, info, warn or error")
)

func main() {
	flag.Parse()
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	v, err := config.New(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// Flags given on the command line win over file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			v.Set("out_dir", *outDir)
		case "workers":
			v.Set("workers", *workers)
		case "magics":
			v.Set("magics", *magics)
		case "store":
			v.Set("store_dir", *storeDir)
		case "diagrams":
			v.Set("diagrams", *diagrams)
		case "log-level":
			v.Set("log_level", *logLevel)
		}
	})

	cfg, err := config.Decode(v)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("log-level", cfg.LogLevel).Msg("config")
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = log.Logger.WithContext(ctx)

	res, err := gen.Run(ctx, cfg)
	if err != nil {
		stop()
		log.Fatal().Err(err).Msg("generation failed")
	}
	log.Info().Int("artifacts", len(res.Artifacts)).Str("dir", cfg.OutDir).Msg("done")
}
