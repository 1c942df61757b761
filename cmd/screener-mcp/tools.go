package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createScoreBundleTool returns the score_bundle tool definition
func createScoreBundleTool() mcp.Tool {
	return mcp.NewTool("score_bundle",
		mcp.WithDescription("Score every ticker in a bundle file (JSON or YAML) and classify the market regime"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the bundle file"),
		),
		mcp.WithNumber("top",
			mcp.Description("Only return the N highest-ranked symbols (default: all)"),
		),
	)
}

// createScoreInlineTool returns the score_inline tool definition
func createScoreInlineTool() mcp.Tool {
	return mcp.NewTool("score_inline",
		mcp.WithDescription("Score a bundle passed as text rather than a file"),
		mcp.WithString("bundle",
			mcp.Required(),
			mcp.Description("Bundle document"),
		),
		mcp.WithString("format",
			mcp.Description("Bundle format: json or yaml (default: yaml)"),
		),
	)
}

// createClassifyRegimeTool returns the classify_regime tool definition
func createClassifyRegimeTool() mcp.Tool {
	return mcp.NewTool("classify_regime",
		mcp.WithDescription("Classify the market regime (GO, CAUTION, NO_TRADE) from a bundle's benchmark and market data"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the bundle file"),
		),
	)
}

// createGetHistoryTool returns the get_history tool definition
func createGetHistoryTool() mcp.Tool {
	return mcp.NewTool("get_history",
		mcp.WithDescription("List stored evaluations for a symbol, newest first"),
		mcp.WithString("symbol",
			mcp.Required(),
			mcp.Description("Symbol, optionally exchange-qualified (ASX:BHP)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 20)"),
		),
	)
}

// createGetRegimeHistoryTool returns the get_regime_history tool definition
func createGetRegimeHistoryTool() mcp.Tool {
	return mcp.NewTool("get_regime_history",
		mcp.WithDescription("List stored regime snapshots for a benchmark, newest first"),
		mcp.WithString("market",
			mcp.Required(),
			mcp.Description("Benchmark symbol the regime was classified against"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 20)"),
		),
	)
}
