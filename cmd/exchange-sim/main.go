// exchange-sim runs a seeded random order flow against a fresh
// exchange and logs the end state. Same seed, same output.
package main

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pqoin/exchange/params"
	"github.com/pqoin/exchange/pkg/exchange"
	"github.com/pqoin/exchange/pkg/metrics"
	"github.com/pqoin/exchange/pkg/sim"
	"github.com/pqoin/exchange/pkg/util"
)

func main() {
	cfg := params.LoadFromEnv("")

	var (
		logger *zap.Logger
		err    error
	)
	if cfg.LogFile != "" {
		logger, err = util.NewLoggerWithFile(cfg.LogFile, zapcore.InfoLevel)
	} else {
		logger, err = util.NewLogger(zapcore.InfoLevel)
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	met := metrics.New()
	ex := exchange.New(cfg.Market.FeePerMille, logger, met)

	sugar.Infow("exchange started",
		"fee_per_mille", cfg.Market.FeePerMille,
		"seed", cfg.Sim.Seed,
		"traders", cfg.Sim.Traders,
		"steps", cfg.Sim.Steps,
	)

	flow := sim.New(ex, cfg.Sim.Seed)
	flow.Populate(cfg.Sim.Traders)
	flow.Run(cfg.Sim.Steps)

	quoteDemand, baseSupply := ex.MarketSize()
	bid, ask, mid := ex.Prices()
	sugar.Infow("run complete",
		"matches", ex.Matches(),
		"invalid_requests", ex.InvalidRequests(),
		"quote_demand", quoteDemand,
		"base_supply", baseSupply,
		"best_bid", bid,
		"best_ask", ask,
		"mid", mid,
	)
	for _, b := range ex.AllBalances() {
		sugar.Infow("balance", "trader", b.TraderID, "quote", b.Quote, "base", b.Base)
	}
}
