package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"socialfi/cmd/internal/passphrase"
	"socialfi/config"
	"socialfi/core/events"
	"socialfi/core/state"
	"socialfi/core/types"
	"socialfi/crypto"
	nativecommon "socialfi/native/common"
	"socialfi/native/gov"
	"socialfi/native/market"
	"socialfi/native/platform"
	"socialfi/native/profile"
	"socialfi/native/staking"
	"socialfi/native/subscription"
	"socialfi/observability/logging"
	"socialfi/observability/metrics"
	"socialfi/observability/otel"
	"socialfi/storage"
)

// nodeEmitter bridges engine events onto the structured logger and the
// prometheus registry.
type nodeEmitter struct {
	logger  *slog.Logger
	metrics *metrics.LedgerMetrics
}

func (n nodeEmitter) Emit(evt events.Event) {
	if evt == nil {
		return
	}
	payloader, ok := evt.(interface{ Event() *types.Event })
	if !ok {
		n.logger.Info("event", slog.String("type", evt.EventType()))
		return
	}
	payload := payloader.Event()
	if payload == nil {
		return
	}
	n.observe(payload)
	attrs := make([]any, 0, len(payload.Attributes)+1)
	attrs = append(attrs, slog.String("type", payload.Type))
	for k, v := range payload.Attributes {
		attrs = append(attrs, slog.String(k, v))
	}
	n.logger.Info("event", attrs...)
}

func (n nodeEmitter) observe(payload *types.Event) {
	attrUint := func(key string) uint64 {
		v, _ := strconv.ParseUint(payload.Attributes[key], 10, 64)
		return v
	}
	switch payload.Type {
	case market.EventTypeSharesPurchased:
		n.metrics.ObserveTrade("buy", attrUint("amount"), attrUint("totalCost"))
	case market.EventTypeSharesSold:
		n.metrics.ObserveTrade("sell", attrUint("amount"), attrUint("received"))
	case staking.EventTypeTokensStaked:
		n.metrics.AddStakeLocked(float64(attrUint("amount")))
	case staking.EventTypeTokensUnstaked:
		n.metrics.AddStakeLocked(-float64(attrUint("amount")))
	case gov.EventTypeProposalCreated:
		n.metrics.ObserveProposal("created")
	case gov.EventTypeProposalExecuted:
		n.metrics.ObserveProposal("executed")
	case gov.EventTypeVoteCast:
		n.metrics.ObserveVote(payload.Attributes["type"])
	case profile.EventTypeTipSent:
		n.metrics.ObserveTip()
	}
}

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("SOCIALFI_ENV"))
	logger := logging.Setup("socialfi", env)

	cfg, err := config.Load(*configFile, passphrase.NewSource("SOCIALFI_KEYSTORE_PASSPHRASE"))
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if env == "" {
		env = cfg.Environment
	}

	if cfg.Telemetry.Endpoint != "" {
		shutdown, err := otel.Init(context.Background(), otel.Config{
			ServiceName: "socialfi",
			Environment: env,
			Endpoint:    cfg.Telemetry.Endpoint,
			Insecure:    cfg.Telemetry.Insecure,
		})
		if err != nil {
			logger.Error("Failed to initialize telemetry", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				logger.Error("telemetry shutdown", slog.Any("error", err))
			}
		}()
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		panic(fmt.Sprintf("Failed to open database: %v", err))
	}
	defer db.Close()

	manager := state.NewManager(db)
	emitter := nodeEmitter{logger: logger, metrics: metrics.Ledger()}

	platformEngine := platform.NewEngine()
	platformEngine.SetState(manager)
	platformEngine.SetEmitter(emitter)

	if err := ensurePlatformConfig(platformEngine, cfg, logger); err != nil {
		logger.Error("Failed to initialize platform config", slog.Any("error", err))
		os.Exit(1)
	}

	marketEngine := market.NewEngine()
	marketEngine.SetState(manager)
	marketEngine.SetEmitter(emitter)
	marketEngine.SetPauses(manager)
	marketEngine.SetTradeQuota(nativecommon.Quota{
		MaxRequestsPerEpoch: cfg.TradeQuota.MaxRequestsPerEpoch,
		MaxValuePerEpoch:    cfg.TradeQuota.MaxValuePerEpoch,
		EpochSeconds:        cfg.TradeQuota.EpochSeconds,
	})

	stakingEngine := staking.NewEngine()
	stakingEngine.SetState(manager)
	stakingEngine.SetEmitter(emitter)
	stakingEngine.SetPauses(manager)

	govEngine := gov.NewEngine()
	govEngine.SetState(manager)
	govEngine.SetEmitter(emitter)
	govEngine.SetPauses(manager)

	profileEngine := profile.NewEngine()
	profileEngine.SetState(manager)
	profileEngine.SetEmitter(emitter)
	profileEngine.SetPauses(manager)

	subscriptionEngine := subscription.NewEngine()
	subscriptionEngine.SetState(manager)
	subscriptionEngine.SetEmitter(emitter)
	subscriptionEngine.SetPauses(manager)

	go serveMetrics(cfg.MetricsAddress, logger)

	qs := &queryServer{
		market:   marketEngine,
		staking:  stakingEngine,
		gov:      govEngine,
		profile:  profileEngine,
		platform: platformEngine,
		logger:   logger,
	}
	go qs.serve(cfg.RPCAddress)

	logger.Info("node started",
		slog.String("network", cfg.NetworkName),
		slog.String("dataDir", cfg.DataDir),
		slog.String("rpc", cfg.RPCAddress),
	)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("node shutting down")
}

func ensurePlatformConfig(engine *platform.Engine, cfg *config.Config, logger *slog.Logger) error {
	if _, ok, err := engine.Current(); err != nil {
		return err
	} else if ok {
		return nil
	}
	admin, err := decodeConfigAddress(cfg.AdminAddress)
	if err != nil {
		return fmt.Errorf("admin address: %w", err)
	}
	collector := admin
	if strings.TrimSpace(cfg.FeeCollector) != "" {
		collector, err = decodeConfigAddress(cfg.FeeCollector)
		if err != nil {
			return fmt.Errorf("fee collector: %w", err)
		}
	}
	if _, err := engine.Initialize(admin, collector); err != nil {
		return err
	}
	logger.Info("platform config initialized", slog.String("admin", cfg.AdminAddress))
	return nil
}

func decodeConfigAddress(encoded string) ([20]byte, error) {
	var out [20]byte
	decoded, err := crypto.DecodeAddress(strings.TrimSpace(encoded))
	if err != nil {
		return out, err
	}
	copy(out[:], decoded.Bytes())
	return out, nil
}

func serveMetrics(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", slog.Any("error", err))
	}
}
