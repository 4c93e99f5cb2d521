package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/flightboard/pkg/report"
)

// Tool name constants.
const (
	ToolNameSelect = "flightboard_select"
	ToolNameYears  = "flightboard_years"
)

// Input types (auto-generate JSON schemas via struct tags).

// SelectInput is the input schema for the flightboard_select tool.
type SelectInput struct {
	Kind string `json:"kind,omitempty" jsonschema:"report kind: performance or delay"`
	Year int    `json:"year,omitempty" jsonschema:"report year between 2005 and 2020"`
}

// YearsInput is the input schema for the flightboard_years tool.
type YearsInput struct{}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// SelectResult is the payload of flightboard_select.
type SelectResult struct {
	Selection report.Selection `json:"selection"`
	Complete  bool             `json:"complete"`
	// Report is the latest published output; it may predate an incomplete selection.
	Report *report.Output `json:"report,omitempty"`
}

// YearsResult is the payload of flightboard_years.
type YearsResult struct {
	Kinds        []string `json:"kinds"`
	MinYear      int      `json:"min_year"`
	MaxYear      int      `json:"max_year"`
	DatasetYears []int    `json:"dataset_years"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// handleSelect applies the given fields to the controller, kind first.
func (s *Server) handleSelect(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input SelectInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Kind != "" {
		kind, err := report.ParseKind(input.Kind)
		if err != nil {
			return errorResult(err)
		}

		setErr := s.controller.SetReportKind(ctx, kind)
		if setErr != nil {
			return errorResult(setErr)
		}
	}

	if input.Year != 0 {
		err := s.controller.SetYear(ctx, input.Year)
		if err != nil {
			return errorResult(err)
		}
	}

	sel := s.controller.Selection()
	result := SelectResult{Selection: sel, Complete: sel.Complete()}

	if out, ok := s.controller.Current(); ok {
		result.Report = &out
	}

	return jsonResult(result)
}

func (s *Server) handleYears(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	_ YearsInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	kinds := make([]string, 0, len(report.Kinds()))
	for _, k := range report.Kinds() {
		kinds = append(kinds, k.String())
	}

	return jsonResult(YearsResult{
		Kinds:        kinds,
		MinYear:      report.MinYear,
		MaxYear:      report.MaxYear,
		DatasetYears: s.controller.Dataset().Years(),
	})
}
