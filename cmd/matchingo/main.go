// Command matchingo replays a CSV request feed (§6 wire format) through one
// order book and writes the resulting trade/fill events back out as CSV.
package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/jzeng/limitbook/config"
	"github.com/jzeng/limitbook/pkg/core"
	"github.com/jzeng/limitbook/pkg/csvfeed"
	"github.com/jzeng/limitbook/pkg/logging"
	"github.com/jzeng/limitbook/pkg/reporting"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogFormat == "pretty",
		Output: os.Stderr,
	})

	in := os.Stdin
	if cfg.Input != "" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Input).Msg("failed to open input file")
		}
		defer f.Close()
		in = f
	}

	out := os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Output).Msg("failed to create output file")
		}
		defer f.Close()
		out = f
	}

	sink := reporting.NewCSVReporter(out)
	ob := core.NewOrderBook(core.Config{
		ReserveOrders:             cfg.ReserveOrders,
		ReservePriceLevelsPerSide: cfg.ReservePriceLevelsPerSide,
		Sink:                      sink,
	})

	csvfeed.Run(in, ob, func(line string) {
		log.Error().Str("line", line).Msg("skipping malformed request line")
	})
}
