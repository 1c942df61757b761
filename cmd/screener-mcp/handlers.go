package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/screener/internal/common"
	"github.com/ternarybob/screener/internal/ingest"
	"github.com/ternarybob/screener/internal/report"
	"github.com/ternarybob/screener/internal/services/screener"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func limitParam(request mcp.CallToolRequest) int {
	limit := request.GetInt("limit", 20)
	if limit <= 0 || limit > 500 {
		limit = 20
	}
	return limit
}

// handleScoreBundle implements the score_bundle tool
func handleScoreBundle(svc *screener.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil || path == "" {
			return textResult("Error: path parameter is required"), nil
		}

		batch, err := svc.EvaluateFile(ctx, path)
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("Score bundle failed")
			return textResult(fmt.Sprintf("Score error: %v", err)), nil
		}

		if top := request.GetInt("top", 0); top > 0 && len(batch.Evaluations) > top {
			batch.Evaluations = batch.Evaluations[:top]
		}
		return textResult(report.BatchMarkdown(batch)), nil
	}
}

// handleScoreInline implements the score_inline tool
func handleScoreInline(svc *screener.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc, err := request.RequireString("bundle")
		if err != nil || strings.TrimSpace(doc) == "" {
			return textResult("Error: bundle parameter is required"), nil
		}

		format := ingest.FormatYAML
		if strings.EqualFold(request.GetString("format", "yaml"), "json") {
			format = ingest.FormatJSON
		}

		b, err := svc.Loader().Decode(strings.NewReader(doc), format)
		if err != nil {
			return textResult(fmt.Sprintf("Invalid bundle: %v", err)), nil
		}

		batch, err := svc.EvaluateAll(ctx, b)
		if err != nil {
			logger.Error().Err(err).Msg("Score inline bundle failed")
			return textResult(fmt.Sprintf("Score error: %v", err)), nil
		}
		return textResult(report.BatchMarkdown(batch)), nil
	}
}

// handleClassifyRegime implements the classify_regime tool
func handleClassifyRegime(svc *screener.Service, config *common.Config, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil || path == "" {
			return textResult("Error: path parameter is required"), nil
		}

		b, err := svc.Loader().LoadFile(path)
		if err != nil {
			return textResult(fmt.Sprintf("Invalid bundle: %v", err)), nil
		}

		result, err := svc.ClassifyRegime(ctx, b.BenchmarkSymbol(config.Screener.Benchmark), b.RegimeInputs())
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("Classify regime failed")
			return textResult(fmt.Sprintf("Regime error: %v", err)), nil
		}
		return textResult(report.RegimeMarkdown(result)), nil
	}
}

// handleGetHistory implements the get_history tool
func handleGetHistory(svc *screener.Service, config *common.Config, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := request.RequireString("symbol")
		if err != nil || raw == "" {
			return textResult("Error: symbol parameter is required"), nil
		}
		symbol := common.ParseTicker(raw, config.Screener.DefaultExchange).String()

		evs, err := svc.History(ctx, symbol, limitParam(request))
		if err != nil {
			logger.Error().Err(err).Str("symbol", symbol).Msg("History lookup failed")
			return textResult(fmt.Sprintf("History error: %v", err)), nil
		}
		return textResult(report.HistoryMarkdown(symbol, evs)), nil
	}
}

// handleGetRegimeHistory implements the get_regime_history tool
func handleGetRegimeHistory(svc *screener.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		market, err := request.RequireString("market")
		if err != nil || market == "" {
			return textResult("Error: market parameter is required"), nil
		}

		recs, err := svc.RegimeHistory(ctx, market, limitParam(request))
		if err != nil {
			logger.Error().Err(err).Str("market", market).Msg("Regime history lookup failed")
			return textResult(fmt.Sprintf("History error: %v", err)), nil
		}
		return textResult(report.RegimeHistoryMarkdown(market, recs)), nil
	}
}
