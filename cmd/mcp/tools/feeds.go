package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elC0mpa/etl-cost-monitor/cmd/mcp/response"
	"github.com/elC0mpa/etl-cost-monitor/model"
	"github.com/elC0mpa/etl-cost-monitor/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const lookbackDescription = "Trailing window in hours. Defaults to the configured lookback_hours."

// RegisterDatafeedTools registers the datafeed cost tools with the MCP server
func RegisterDatafeedTools(s *server.MCPServer, costService service.CostAggregator, identityService service.IdentityService, settings model.Settings) {
	s.AddTool(
		mcp.NewTool("get_account_info",
			mcp.WithDescription("Get AWS account identity information including account ID and ARN"),
		),
		makeAccountInfoHandler(identityService),
	)

	s.AddTool(
		mcp.NewTool("list_datafeeds",
			mcp.WithDescription("List the configured datafeeds with their storage prefix and the Lambda functions attributed to them"),
		),
		makeListDatafeedsHandler(settings),
	)

	s.AddTool(
		mcp.NewTool("get_datafeed_costs",
			mcp.WithDescription("Get the estimated S3 storage, S3 request and Lambda cost of every datafeed over the lookback window, with a grand total"),
			mcp.WithNumber("lookback_hours", mcp.Description(lookbackDescription)),
		),
		makeDatafeedCostsHandler(costService),
	)

	s.AddTool(
		mcp.NewTool("get_datafeed_cost",
			mcp.WithDescription("Get the detailed cost breakdown of a single datafeed, including per-function Lambda usage and any degraded figures"),
			mcp.WithString("datafeed", mcp.Required(), mcp.Description("Name of a configured datafeed")),
			mcp.WithNumber("lookback_hours", mcp.Description(lookbackDescription)),
		),
		makeDatafeedCostHandler(costService),
	)
}

func makeAccountInfoHandler(identityService service.IdentityService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		info, err := identityService.GetAccountInfo(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get account info: %v", err)), nil
		}

		return jsonResult(response.ConvertAccountInfo(info))
	}
}

func makeListDatafeedsHandler(settings model.Settings) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(response.ConvertSettings(settings))
	}
}

func makeDatafeedCostsHandler(costService service.CostAggregator) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lookbackHours, errResult := lookbackArgument(request)
		if errResult != nil {
			return errResult, nil
		}

		result, err := costService.GetDatafeedCosts(ctx, lookbackHours)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get datafeed costs: %v", err)), nil
		}

		return jsonResult(response.ConvertCycleResult(result))
	}
}

func makeDatafeedCostHandler(costService service.CostAggregator) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		datafeed, err := request.RequireString("datafeed")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		lookbackHours, errResult := lookbackArgument(request)
		if errResult != nil {
			return errResult, nil
		}

		report, err := costService.GetDatafeedCost(ctx, datafeed, lookbackHours)
		if errors.Is(err, model.ErrUnknownDatafeed) {
			return mcp.NewToolResultError(fmt.Sprintf("Unknown datafeed %q, use list_datafeeds to see the configured ones", datafeed)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get datafeed cost: %v", err)), nil
		}

		return jsonResult(response.ConvertCostReport(report))
	}
}

func lookbackArgument(request mcp.CallToolRequest) (int, *mcp.CallToolResult) {
	lookbackHours := request.GetInt("lookback_hours", 0)
	if lookbackHours < 0 {
		return 0, mcp.NewToolResultError("lookback_hours must be positive")
	}
	if lookbackHours > model.MaxLookbackHours {
		return 0, mcp.NewToolResultError(fmt.Sprintf("lookback_hours must be at most %d (metric retention)", model.MaxLookbackHours))
	}
	return lookbackHours, nil
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
