package utils

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// quickchart.io renders Chart.js configs into images that Discord can embed
// directly, so reports do not need any image generation on our side.
const quickChartBase = "https://quickchart.io/chart"

type chartDataset struct {
	Label           string      `json:"label,omitempty"`
	Data            []int64     `json:"data"`
	BorderColor     string      `json:"borderColor,omitempty"`
	BackgroundColor interface{} `json:"backgroundColor,omitempty"`
	Fill            bool        `json:"fill,omitempty"`
	Tension         float64     `json:"tension,omitempty"`
}

type chartConfig struct {
	Type string `json:"type"`
	Data struct {
		Labels   []string       `json:"labels"`
		Datasets []chartDataset `json:"datasets"`
	} `json:"data"`
	Options map[string]interface{} `json:"options,omitempty"`
}

var pieColors = []string{
	"rgb(46, 204, 113)",
	"rgb(52, 152, 219)",
	"rgb(155, 89, 182)",
	"rgb(241, 196, 15)",
	"rgb(230, 126, 34)",
	"rgb(231, 76, 60)",
	"rgb(149, 165, 166)",
	"rgb(26, 188, 156)",
}

func quickChartURL(cfg chartConfig, width, height int) string {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s?c=%s&backgroundColor=rgb(44,47,51)&width=%d&height=%d",
		quickChartBase, url.QueryEscape(string(raw)), width, height)
}

// RevenueGrowthChartURL builds a line chart of daily revenue.
// Returns "" when there is nothing to plot.
func RevenueGrowthChartURL(labels []string, values []int64) string {
	if len(labels) == 0 {
		return ""
	}
	cfg := chartConfig{Type: "line"}
	cfg.Data.Labels = labels
	cfg.Data.Datasets = []chartDataset{{
		Label:           "Revenue (₮)",
		Data:            values,
		BorderColor:     "rgb(46, 204, 113)",
		BackgroundColor: "rgba(46, 204, 113, 0.2)",
		Fill:            true,
		Tension:         0.4,
	}}
	cfg.Options = map[string]interface{}{
		"title": map[string]interface{}{
			"display":   true,
			"text":      "Revenue Growth (Last 30 Days)",
			"fontSize":  18,
			"fontColor": "#ffffff",
		},
		"legend": map[string]interface{}{
			"labels": map[string]interface{}{"fontColor": "#ffffff"},
		},
	}
	return quickChartURL(cfg, 800, 400)
}

// PlanBreakdownChartURL builds a pie chart of revenue per role plan.
// Returns "" when there is nothing to plot.
func PlanBreakdownChartURL(labels []string, values []int64) string {
	if len(labels) == 0 {
		return ""
	}
	colors := pieColors
	if len(labels) < len(colors) {
		colors = colors[:len(labels)]
	}
	cfg := chartConfig{Type: "pie"}
	cfg.Data.Labels = labels
	cfg.Data.Datasets = []chartDataset{{
		Data:            values,
		BackgroundColor: colors,
	}}
	cfg.Options = map[string]interface{}{
		"title": map[string]interface{}{
			"display":   true,
			"text":      "Revenue by Role Plan",
			"fontSize":  18,
			"fontColor": "#ffffff",
		},
		"legend": map[string]interface{}{
			"position": "right",
			"labels":   map[string]interface{}{"fontColor": "#ffffff", "fontSize": 12},
		},
	}
	return quickChartURL(cfg, 600, 400)
}
