package voteservice

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colors of rendered charts.
type ChartPalette struct {
	Background drawing.Color
	Bar        drawing.Color
	Empty      drawing.Color
	Text       drawing.Color
}

// DefaultPalette matches the web frontend.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorFromHex("fdfaf3"),
	Bar:        drawing.ColorFromHex("1f6f43"),
	Empty:      drawing.ColorFromHex("c9c2b2"),
	Text:       drawing.ColorFromHex("2b2b2b"),
}

const (
	chartBarWidth   = 48
	chartBarSpacing = 24
	chartHeight     = 360
)

// RenderSharesChart renders the episode's vote shares as a PNG bar chart.
func (s *VoteService) RenderSharesChart(ctx context.Context, episode int) ([]byte, error) {
	result, err := withTelemetry(s, ctx, "RenderSharesChart", strconv.Itoa(episode), func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		shares, err := s.aggregateSharesLogic(ctx, episode)
		if err != nil || shares.IsFailure() {
			return results.OperationResult[[]byte, error]{Failure: shares.Failure}, err
		}

		png, err := GenerateSharesChart(episode, *shares.Success, DefaultPalette)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, fmt.Errorf("failed to render chart: %w", err)
		}
		return results.SuccessResult[[]byte, error](png), nil
	})
	return unwrap(result, err)
}

// GenerateSharesChart draws one bar per candidate, ordered by name, on a fixed
// 0-100 axis. An empty share map renders a single empty placeholder bar.
func GenerateSharesChart(episode int, shares map[string]int, palette ChartPalette) ([]byte, error) {
	names := make([]string, 0, len(shares))
	for name := range shares {
		names = append(names, name)
	}
	slices.Sort(names)

	bars := make([]chart.Value, 0, len(names))
	for _, name := range names {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%d%%)", name, shares[name]),
			Value: float64(shares[name]),
			Style: chart.Style{
				FillColor:   palette.Bar,
				StrokeColor: palette.Bar,
			},
		})
	}
	if len(bars) == 0 {
		bars = append(bars, chart.Value{
			Label: "no votes yet",
			Value: 0,
			Style: chart.Style{FillColor: palette.Empty, StrokeColor: palette.Empty},
		})
	}

	graph := chart.BarChart{
		Title:      fmt.Sprintf("Episode %d", episode),
		TitleStyle: chart.Style{FontColor: palette.Text},
		Width:      160 + len(bars)*(chartBarWidth+chartBarSpacing),
		Height:     chartHeight,
		BarWidth:   chartBarWidth,
		BarSpacing: chartBarSpacing,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 48},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.Style{
			FontColor: palette.Text,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: palette.Text},
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
