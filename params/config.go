package params

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Market struct {
	// FeePerMille is the exchange's cut per 1000 units of quote
	// processed on the selling side. 10 means 1%.
	FeePerMille int
}

type Sim struct {
	Seed    int64 // identical seeds reproduce identical runs
	Traders int   // simulated traders, the exchange's own account excluded
	Steps   int   // commands to generate
}

type Config struct {
	Market  Market
	Sim     Sim
	LogFile string // empty means console only
}

func Default() Config {
	return Config{
		Market: Market{FeePerMille: 10},
		Sim: Sim{
			Seed:    1,
			Traders: 8,
			Steps:   1000,
		},
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if fee := os.Getenv("MARKET_FEE_PER_MILLE"); fee != "" {
		if n, err := strconv.Atoi(fee); err == nil {
			cfg.Market.FeePerMille = n
		}
	}
	if seed := os.Getenv("SIM_SEED"); seed != "" {
		if n, err := strconv.ParseInt(seed, 10, 64); err == nil {
			cfg.Sim.Seed = n
		}
	}
	if traders := os.Getenv("SIM_TRADERS"); traders != "" {
		if n, err := strconv.Atoi(traders); err == nil {
			cfg.Sim.Traders = n
		}
	}
	if steps := os.Getenv("SIM_STEPS"); steps != "" {
		if n, err := strconv.Atoi(steps); err == nil {
			cfg.Sim.Steps = n
		}
	}
	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		cfg.LogFile = logFile
	}

	return cfg
}
