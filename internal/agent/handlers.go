package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/nsarda/cashlens/internal/format"
	"github.com/nsarda/cashlens/internal/ledger"
	"github.com/nsarda/cashlens/internal/llm"
	"github.com/nsarda/cashlens/internal/metrics"
)

// User-facing degraded messages. Data-layer and service errors never
// reach the transcript as raw errors; they become one of these.
const (
	msgInsufficientExplain  = "Insufficient recent transaction data to explain cash reduction."
	msgInsufficientBalance  = "Insufficient transaction data to report a cash balance."
	msgNoOutflowData        = "No cash outflow data available for the last 30 days."
	msgFallbackUnavailable  = "Sorry, I could not reach the analysis service to answer that. Please try again shortly."
	topOutflowCategoryCount = 5
)

func (e *Engine) explainCashReduction(ctx context.Context, _ string) string {
	balance, err := e.store.LatestBalance(ctx)
	if err != nil {
		if !errors.Is(err, ledger.ErrNoData) {
			e.log.Error().Err(err).Msg("explain handler: latest balance query failed")
		}
		return msgInsufficientExplain
	}

	outflows, err := e.store.TopOutflowCategories(ctx, metrics.FlowWindowDays, topOutflowCategoryCount)
	if err != nil {
		e.log.Error().Err(err).Msg("explain handler: outflow query failed")
		return msgInsufficientExplain
	}
	if len(outflows) == 0 {
		return msgInsufficientExplain
	}

	lines := []string{"Your cash is reducing mainly due to the following expenses (last 30 days):"}
	lines = append(lines, format.OutflowLines(outflows)...)
	lines = append(lines, "", "Current available cash balance is approximately "+format.INR(balance)+".")

	return strings.Join(lines, "\n")
}

func (e *Engine) currentBalance(ctx context.Context, _ string) string {
	balance, err := e.store.LatestBalance(ctx)
	if err != nil {
		if !errors.Is(err, ledger.ErrNoData) {
			e.log.Error().Err(err).Msg("balance handler: query failed")
		}
		return msgInsufficientBalance
	}

	return "Your current cash balance is approximately " + format.INR(balance) + "."
}

func (e *Engine) topOutflows(ctx context.Context, _ string) string {
	outflows, err := e.store.TopOutflowCategories(ctx, metrics.FlowWindowDays, topOutflowCategoryCount)
	if err != nil {
		e.log.Error().Err(err).Msg("outflow handler: query failed")
		return msgNoOutflowData
	}
	if len(outflows) == 0 {
		return msgNoOutflowData
	}

	lines := []string{"Top cash outflows in the last 30 days:"}
	lines = append(lines, format.OutflowLines(outflows)...)

	return strings.Join(lines, "\n")
}

func (e *Engine) generativeFallback(ctx context.Context, question string) string {
	answer, err := e.completer.Complete(ctx, llm.FallbackPrompt(question))
	if err != nil {
		e.log.Error().Err(err).Msg("generative fallback failed")
		return msgFallbackUnavailable
	}
	return answer
}
