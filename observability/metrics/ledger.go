package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics aggregates the counters and gauges exported by the native
// engines. All methods are nil-safe so instrumentation can be left unwired in
// tests.
type LedgerMetrics struct {
	sharesTraded    *prometheus.CounterVec
	tradeVolume     *prometheus.CounterVec
	stakeLocked     prometheus.Gauge
	proposalsTotal  *prometheus.CounterVec
	votesTotal      *prometheus.CounterVec
	tipsTotal       prometheus.Counter
	instructionFail *prometheus.CounterVec
}

var (
	ledgerOnce     sync.Once
	ledgerRegistry *LedgerMetrics
)

// Ledger returns the process-wide metrics registry, registering the
// collectors on first use.
func Ledger() *LedgerMetrics {
	ledgerOnce.Do(func() {
		ledgerRegistry = &LedgerMetrics{
			sharesTraded: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "socialfi_shares_traded_total",
				Help: "Count of share units traded by side (buy or sell).",
			}, []string{"side"}),
			tradeVolume: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "socialfi_trade_volume_total",
				Help: "Gross value moved through the bonding curve by side.",
			}, []string{"side"}),
			stakeLocked: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "socialfi_stake_locked",
				Help: "Total principal currently locked in stake positions.",
			}),
			proposalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "socialfi_proposals_total",
				Help: "Count of proposals by lifecycle transition.",
			}, []string{"transition"}),
			votesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "socialfi_votes_total",
				Help: "Count of cast votes by vote type.",
			}, []string{"type"}),
			tipsTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "socialfi_tips_total",
				Help: "Count of settled tips.",
			}),
			instructionFail: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "socialfi_instruction_failures_total",
				Help: "Count of rejected instructions by module.",
			}, []string{"module"}),
		}
		prometheus.MustRegister(
			ledgerRegistry.sharesTraded,
			ledgerRegistry.tradeVolume,
			ledgerRegistry.stakeLocked,
			ledgerRegistry.proposalsTotal,
			ledgerRegistry.votesTotal,
			ledgerRegistry.tipsTotal,
			ledgerRegistry.instructionFail,
		)
	})
	return ledgerRegistry
}

// ObserveTrade records a settled share trade.
func (m *LedgerMetrics) ObserveTrade(side string, shares, value uint64) {
	if m == nil {
		return
	}
	if side == "" {
		side = "unknown"
	}
	m.sharesTraded.WithLabelValues(side).Add(float64(shares))
	m.tradeVolume.WithLabelValues(side).Add(float64(value))
}

// AddStakeLocked moves the locked-principal gauge by delta.
func (m *LedgerMetrics) AddStakeLocked(delta float64) {
	if m == nil {
		return
	}
	m.stakeLocked.Add(delta)
}

// ObserveProposal records a proposal lifecycle transition.
func (m *LedgerMetrics) ObserveProposal(transition string) {
	if m == nil {
		return
	}
	if transition == "" {
		transition = "unknown"
	}
	m.proposalsTotal.WithLabelValues(transition).Inc()
}

// ObserveVote records a cast vote.
func (m *LedgerMetrics) ObserveVote(voteType string) {
	if m == nil {
		return
	}
	if voteType == "" {
		voteType = "unknown"
	}
	m.votesTotal.WithLabelValues(voteType).Inc()
}

// ObserveTip records a settled tip.
func (m *LedgerMetrics) ObserveTip() {
	if m == nil {
		return
	}
	m.tipsTotal.Inc()
}

// IncInstructionFailure records a rejected instruction for a module.
func (m *LedgerMetrics) IncInstructionFailure(module string) {
	if m == nil {
		return
	}
	if module == "" {
		module = "unknown"
	}
	m.instructionFail.WithLabelValues(module).Inc()
}
