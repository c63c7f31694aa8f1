// Package command maps a small set of free-text patterns to plan
// mutations. It is an ordered-precedence matcher over fixed rules, not a
// general language engine: rules are evaluated in order and only the first
// match fires.
package command

import (
	"strings"

	"github.com/coe-acad/p2p-solar-trade/pkg/types"
	"go.uber.org/zap"
)

// Plan is the mutable view of the trading plan the interpreter acts on.
type Plan interface {
	PauseAll()
	ResumeAll()
	ResetExclusions()
	ExcludeSlot(id string)
	BaseSlots() []types.BaseSlot
}

// Result is the outcome of interpreting one command.
type Result struct {
	Reply    string `json:"reply"`
	Matched  bool   `json:"matched"`
	Rule     string `json:"rule,omitempty"`
	Excluded int    `json:"excluded"`
}

// Rule is one (match, apply) pair. Run returns ok=false when the rule does
// not match; the interpreter then tries the next rule.
type Rule interface {
	Name() string
	Run(plan Plan, text string) (Result, bool)
}

// Interpreter evaluates rules in a fixed order.
type Interpreter struct {
	plan   Plan
	rules  []Rule
	logger *zap.Logger
}

// Config holds interpreter configuration.
type Config struct {
	Plan          Plan
	SlotIDForHour map[int]string // hour (24h) to slot id; defaults to the catalogue table
	EveningSlots  []string       // ids released by the guest/evening rule
	Logger        *zap.Logger
}

// New creates an interpreter with the default rule set, in precedence
// order: pause, resume, time window, price threshold, guest/evening.
func New(cfg *Config) *Interpreter {
	hourTable := cfg.SlotIDForHour
	if hourTable == nil {
		hourTable = types.SlotIDForHour
	}

	evening := cfg.EveningSlots
	if evening == nil {
		evening = types.EveningSlotIDs
	}

	return &Interpreter{
		plan: cfg.Plan,
		rules: []Rule{
			pauseRule{},
			resumeRule{},
			timeWindowRule{hours: hourTable},
			priceThresholdRule{},
			eveningRule{ids: evening},
		},
		logger: cfg.Logger,
	}
}

// Interpret runs the first matching rule against the plan. When nothing
// matches the text is acknowledged without mutating any state.
func (i *Interpreter) Interpret(text string) Result {
	normalized := strings.TrimSpace(text)

	for _, rule := range i.rules {
		res, ok := rule.Run(i.plan, normalized)
		if !ok {
			continue
		}

		res.Matched = true
		res.Rule = rule.Name()

		CommandsTotal.WithLabelValues(rule.Name()).Inc()
		i.logger.Info("command-matched",
			zap.String("rule", rule.Name()),
			zap.Int("excluded", res.Excluded))

		return res
	}

	CommandsTotal.WithLabelValues("fallback").Inc()
	i.logger.Debug("command-unmatched", zap.String("text", normalized))

	return Result{
		Reply: "Got it. I'll keep that in mind while planning your trades.",
	}
}
