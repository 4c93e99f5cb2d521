package mcp_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/flightboard/pkg/flights"
	"github.com/Sumatoshi-tech/flightboard/pkg/mcp"
	"github.com/Sumatoshi-tech/flightboard/pkg/observability"
	"github.com/Sumatoshi-tech/flightboard/pkg/report"
)

func newController() *report.Controller {
	ds := flights.NewDataset([]flights.Record{
		{Year: 2016, Month: 1, ReportingAirline: "AA", OriginState: "TX", DestState: "CA", Flights: 1, AirTime: flights.Float(120)},
		{Year: 2018, Month: 3, ReportingAirline: "DL", OriginState: "GA", DestState: "NY", Flights: 1, CarrierDelay: flights.Float(9)},
	})

	return report.NewController(ds, report.ControllerDeps{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
}

// connect starts srv on an in-memory transport and returns a client session.
func connect(t *testing.T, srv *mcp.Server) *mcpsdk.ClientSession {
	t.Helper()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()

		cancel()
		<-serverDone
	})

	return session
}

func callSelect(t *testing.T, session *mcpsdk.ClientSession, args map[string]any) (*mcpsdk.CallToolResult, mcp.SelectResult) {
	t.Helper()

	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name:      mcp.ToolNameSelect,
		Arguments: args,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)

	var decoded mcp.SelectResult

	if !result.IsError {
		text, ok := result.Content[0].(*mcpsdk.TextContent)
		require.True(t, ok)
		require.NoError(t, json.Unmarshal([]byte(text.Text), &decoded))
	}

	return result, decoded
}

func TestMCPServer_ListTools(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(newController(), mcp.ServerDeps{})
	assert.Equal(t, []string{mcp.ToolNameSelect, mcp.ToolNameYears}, srv.ListToolNames())

	session := connect(t, srv)

	toolsResult, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	toolNames := make([]string, 0, len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		toolNames = append(toolNames, tool.Name)
		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
	}

	assert.ElementsMatch(t, []string{"flightboard_select", "flightboard_years"}, toolNames)
}

func TestMCPServer_SelectIsIncrementalAndReactive(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(newController(), mcp.ServerDeps{}))

	result, sel := callSelect(t, session, map[string]any{"year": 2016})
	require.False(t, result.IsError)
	assert.False(t, sel.Complete)
	assert.Nil(t, sel.Report)

	result, sel = callSelect(t, session, map[string]any{"kind": "performance"})
	require.False(t, result.IsError)
	assert.True(t, sel.Complete)
	require.NotNil(t, sel.Report)
	assert.Equal(t, 1, sel.Report.Records)
	assert.True(t, sel.Report.Slots[4].Empty())

	result, sel = callSelect(t, session, map[string]any{"kind": "delay", "year": 2018})
	require.False(t, result.IsError)
	require.NotNil(t, sel.Report)
	assert.Equal(t, report.KindDelay, sel.Report.Selection.Kind)
	assert.Equal(t, 2018, sel.Report.Selection.Year)
	assert.False(t, sel.Report.Slots[4].Empty())
}

func TestMCPServer_SelectRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(newController(), mcp.ServerDeps{}))

	result, _ := callSelect(t, session, map[string]any{"kind": "weather"})
	assert.True(t, result.IsError)

	result, _ = callSelect(t, session, map[string]any{"year": 1999})
	assert.True(t, result.IsError)
}

func TestMCPServer_Years(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(newController(), mcp.ServerDeps{}))

	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name:      mcp.ToolNameYears,
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	var years mcp.YearsResult

	require.NoError(t, json.Unmarshal([]byte(text.Text), &years))
	assert.Equal(t, []string{"performance", "delay"}, years.Kinds)
	assert.Equal(t, report.MinYear, years.MinYear)
	assert.Equal(t, report.MaxYear, years.MaxYear)
	assert.Equal(t, []int{2016, 2018}, years.DatasetYears)
}

func TestMCPServer_RecordsToolMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := observability.NewREDMetrics(provider.Meter("test"))
	require.NoError(t, err)

	session := connect(t, mcp.NewServer(newController(), mcp.ServerDeps{Metrics: metrics}))

	callSelect(t, session, map[string]any{"kind": "performance", "year": 2016})

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := false

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == observability.MetricRequestsTotal {
				found = true
			}
		}
	}

	assert.True(t, found)
}
