// Package agent routes natural-language questions about the cash
// position to deterministic analytics handlers, falling back to the
// generative service when no rule matches.
package agent

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nsarda/cashlens/internal/domain"
	"github.com/nsarda/cashlens/internal/ledger"
	"github.com/nsarda/cashlens/internal/llm"
)

// Engine answers questions over the ledger. One engine serves many
// sessions; all session state lives in the transcript the caller owns.
type Engine struct {
	store     ledger.Store
	completer llm.Completer
	log       zerolog.Logger
	routes    []route
}

// route is one entry of the ordered intent rule list. The first route
// whose match reports true handles the question; matching is a
// case-insensitive substring test on the latest user turn only.
type route struct {
	name   string
	match  func(q string) bool
	handle func(ctx context.Context, question string) string
}

// New creates an engine over the given ledger store and completer.
func New(store ledger.Store, completer llm.Completer, log zerolog.Logger) *Engine {
	e := &Engine{
		store:     store,
		completer: completer,
		log:       log,
	}
	// Rule order is part of the contract: "why is my cash reducing"
	// must hit the explanation handler, not the balance handler.
	e.routes = []route{
		{
			name:   "explain_cash_reduction",
			match:  func(q string) bool { return strings.Contains(q, "why") && strings.Contains(q, "cash") },
			handle: e.explainCashReduction,
		},
		{
			name:   "current_balance",
			match:  func(q string) bool { return strings.Contains(q, "balance") },
			handle: e.currentBalance,
		},
		{
			name:   "top_outflows",
			match:  func(q string) bool { return strings.Contains(q, "cash flow") || strings.Contains(q, "outflow") },
			handle: e.topOutflows,
		},
	}
	return e
}

// Ask answers one question and appends the exchange to the transcript.
// The prior transcript is never rewritten; routing looks only at the
// question, not at earlier turns. Every failure path degrades to an
// informative answer, so Ask never returns an error.
func (e *Engine) Ask(ctx context.Context, question string, prior []domain.ConversationTurn) (string, []domain.ConversationTurn) {
	transcript := domain.AppendTurn(prior, domain.RoleUser, question)

	lowered := strings.ToLower(question)
	var answer string
	matched := ""
	for _, r := range e.routes {
		if r.match(lowered) {
			matched = r.name
			answer = r.handle(ctx, question)
			break
		}
	}
	if matched == "" {
		matched = "generative_fallback"
		answer = e.generativeFallback(ctx, question)
	}

	e.log.Debug().Str("intent", matched).Msg("Question routed")

	return answer, domain.AppendTurn(transcript, domain.RoleAssistant, answer)
}
