// Package chart models the chart objects the dashboard mutates in place and
// renders as Chart.js configurations. Visibility of datasets and data points
// lives here, not in the legends built on top of it.
package chart

import (
	"encoding/json"
	"fmt"
	"sync"
)

type Type string

const (
	TypeDoughnut Type = "doughnut"
	TypeLine     Type = "line"
)

// Colors marshals as a single string when it holds one color, which is what
// Chart.js expects for line fills.
type Colors []string

func (c Colors) MarshalJSON() ([]byte, error) {
	if len(c) == 1 {
		return json.Marshal(c[0])
	}
	return json.Marshal([]string(c))
}

// UnmarshalJSON accepts both the single string and the array form
func (c *Colors) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*c = Colors{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("colors: %w", err)
	}
	*c = Colors(many)
	return nil
}

type Dataset struct {
	Label           string    `json:"label,omitempty"`
	Data            []float64 `json:"data"`
	BackgroundColor Colors    `json:"backgroundColor,omitempty"`
	BorderColor     string    `json:"borderColor,omitempty"`
	BorderWidth     int       `json:"borderWidth"`
	Tension         float64   `json:"tension,omitempty"`
	Fill            bool      `json:"fill,omitempty"`
	Hidden          bool      `json:"hidden,omitempty"`
}

type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// TooltipContext mirrors what a tooltip label callback receives
type TooltipContext struct {
	Label        string
	DatasetLabel string
	Value        float64
	// Total is the sum of every value in the dataset, hidden or not
	Total float64
}

type Options struct {
	Cutout      string // doughnut only, e.g. "65%"
	BeginAtZero bool
	TickPrefix  string
	Tooltip     func(TooltipContext) string
}

// Config is the JSON handed to Chart.js. Tooltips and TickPrefix are read by
// the page script because callbacks cannot travel as JSON.
type Config struct {
	Type          Type           `json:"type"`
	Data          Data           `json:"data"`
	Options       map[string]any `json:"options"`
	HiddenIndices []int          `json:"hiddenIndices,omitempty"`
	Tooltips      [][]string     `json:"tooltips,omitempty"`
	TickPrefix    string         `json:"tickPrefix,omitempty"`
}

type Chart struct {
	mu            sync.RWMutex
	kind          Type
	data          Data
	hiddenIndices map[int]bool
	options       Options
	updates       uint64
}

// New creates a chart with its initial data
func New(kind Type, data Data, opts Options) *Chart {
	return &Chart{
		kind:          kind,
		data:          copyData(data),
		hiddenIndices: make(map[int]bool),
		options:       opts,
	}
}

func (c *Chart) Type() Type {
	return c.kind
}

// Data returns a copy of the current labels and datasets
func (c *Chart) Data() Data {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyData(c.data)
}

// Update replaces labels and datasets in place. Hidden data indices survive
// the update as long as they still exist; replaced datasets start visible.
func (c *Chart) Update(data Data) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = copyData(data)
	for i := range c.hiddenIndices {
		if i >= len(c.data.Labels) {
			delete(c.hiddenIndices, i)
		}
	}
	c.updates++
}

// Updates counts how many times the data was replaced
func (c *Chart) Updates() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updates
}

// ToggleDataVisibility hides or shows one data point (a doughnut slice)
func (c *Chart) ToggleDataVisibility(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.data.Labels) {
		return fmt.Errorf("data index %d out of range [0,%d)", index, len(c.data.Labels))
	}
	if c.hiddenIndices[index] {
		delete(c.hiddenIndices, index)
	} else {
		c.hiddenIndices[index] = true
	}
	return nil
}

func (c *Chart) DataVisible(index int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.hiddenIndices[index]
}

// ToggleDatasetVisibility hides or shows a whole series
func (c *Chart) ToggleDatasetVisibility(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.data.Datasets) {
		return fmt.Errorf("dataset index %d out of range [0,%d)", index, len(c.data.Datasets))
	}
	c.data.Datasets[index].Hidden = !c.data.Datasets[index].Hidden
	return nil
}

func (c *Chart) DatasetVisible(index int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if index < 0 || index >= len(c.data.Datasets) {
		return false
	}
	return !c.data.Datasets[index].Hidden
}

// Config renders the chart as a Chart.js configuration
func (c *Chart) Config() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cfg := Config{
		Type:       c.kind,
		Data:       copyData(c.data),
		Options:    c.chartJSOptions(),
		TickPrefix: c.options.TickPrefix,
	}

	for i := range c.data.Labels {
		if c.hiddenIndices[i] {
			cfg.HiddenIndices = append(cfg.HiddenIndices, i)
		}
	}

	if c.options.Tooltip != nil {
		cfg.Tooltips = make([][]string, len(c.data.Datasets))
		for d, ds := range c.data.Datasets {
			var total float64
			for _, v := range ds.Data {
				total += v
			}
			labels := make([]string, len(ds.Data))
			for i, v := range ds.Data {
				var label string
				if i < len(c.data.Labels) {
					label = c.data.Labels[i]
				}
				labels[i] = c.options.Tooltip(TooltipContext{
					Label:        label,
					DatasetLabel: ds.Label,
					Value:        v,
					Total:        total,
				})
			}
			cfg.Tooltips[d] = labels
		}
	}

	return cfg
}

func (c *Chart) chartJSOptions() map[string]any {
	opts := map[string]any{
		"responsive":          true,
		"maintainAspectRatio": false,
		"plugins": map[string]any{
			"legend": map[string]any{"display": false},
		},
	}

	switch c.kind {
	case TypeDoughnut:
		if c.options.Cutout != "" {
			opts["cutout"] = c.options.Cutout
		}
	case TypeLine:
		opts["scales"] = map[string]any{
			"y": map[string]any{
				"beginAtZero": c.options.BeginAtZero,
				"grid":        map[string]any{"drawBorder": false},
				"ticks":       map[string]any{"precision": 0},
			},
			"x": map[string]any{
				"grid": map[string]any{"display": false},
			},
		}
	}
	return opts
}

func copyData(d Data) Data {
	out := Data{
		Labels:   append([]string(nil), d.Labels...),
		Datasets: make([]Dataset, len(d.Datasets)),
	}
	for i, ds := range d.Datasets {
		ds.Data = append([]float64(nil), ds.Data...)
		ds.BackgroundColor = append(Colors(nil), ds.BackgroundColor...)
		out.Datasets[i] = ds
	}
	return out
}
