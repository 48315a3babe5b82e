package main

import (
	"fmt"

	j "github.com/wdm0006/listingjanitor/pkg/janitor"
	"github.com/wdm0006/listingjanitor/pkg/transform/dedupe"
	imp "github.com/wdm0006/listingjanitor/pkg/transform/impute"
	std "github.com/wdm0006/listingjanitor/pkg/transform/standardize"
	val "github.com/wdm0006/listingjanitor/pkg/transform/validate"
)

// StepConfig describes one custom step. Step selects the transform; the other
// fields are read only by the transforms that use them.
type StepConfig struct {
	Step      string            `json:"step" yaml:"step" toml:"step" validate:"required"`
	Column    string            `json:"column" yaml:"column" toml:"column"`
	By        string            `json:"by" yaml:"by" toml:"by"`
	Columns   []string          `json:"columns" yaml:"columns" toml:"columns"`
	Measure   string            `json:"measure" yaml:"measure" toml:"measure"`
	Labels    []string          `json:"labels" yaml:"labels" toml:"labels"`
	Default   string            `json:"default" yaml:"default" toml:"default"`
	Source    string            `json:"source" yaml:"source" toml:"source"`
	Limit     float64           `json:"limit" yaml:"limit" toml:"limit"`
	Yes       string            `json:"yes" yaml:"yes" toml:"yes"`
	No        string            `json:"no" yaml:"no" toml:"no"`
	Integer   bool              `json:"integer" yaml:"integer" toml:"integer"`
	Round     bool              `json:"round" yaml:"round" toml:"round"`
	Map       map[string]string `json:"map" yaml:"map" toml:"map"`
	Encode    map[string]int64  `json:"encode" yaml:"encode" toml:"encode"`
	Min       *float64          `json:"min" yaml:"min" toml:"min"`
	Max       *float64          `json:"max" yaml:"max" toml:"max"`
	Values    []string          `json:"values" yaml:"values" toml:"values"`
	Tolerated []string          `json:"tolerated" yaml:"tolerated" toml:"tolerated"`
}

// buildSteps turns step configs into a pipeline, or returns nil for an empty
// list.
func buildSteps(steps []StepConfig) (*j.Pipeline, error) {
	if len(steps) == 0 {
		return nil, nil
	}
	p := j.NewPipeline()
	for i, s := range steps {
		t, err := buildStep(s)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, s.Step, err)
		}
		p.Add(t)
	}
	return p, nil
}

func buildStep(s StepConfig) (j.Transform, error) {
	needs := func(fields ...string) error {
		for _, f := range fields {
			var empty bool
			switch f {
			case "column":
				empty = s.Column == ""
			case "by":
				empty = s.By == ""
			case "columns":
				empty = len(s.Columns) == 0
			case "measure":
				empty = s.Measure == ""
			case "labels":
				empty = len(s.Labels) == 0
			case "source":
				empty = s.Source == ""
			case "map":
				empty = len(s.Map) == 0
			case "values":
				empty = len(s.Values) == 0
			}
			if empty {
				return fmt.Errorf("%s is required", f)
			}
		}
		return nil
	}

	switch s.Step {
	case "dedupe_unique":
		if err := needs("column"); err != nil {
			return nil, err
		}
		return &dedupe.Unique{Column: s.Column}, nil
	case "impute_band":
		if err := needs("column", "measure", "by", "labels"); err != nil {
			return nil, err
		}
		return &imp.Band{Column: s.Column, Measure: s.Measure, By: s.By, Labels: s.Labels, Default: s.Default}, nil
	case "impute_mode":
		if err := needs("column"); err != nil {
			return nil, err
		}
		return &imp.Mode{Column: s.Column}, nil
	case "impute_median":
		if err := needs("column"); err != nil {
			return nil, err
		}
		return &imp.Median{Column: s.Column, By: s.By}, nil
	case "impute_mean":
		if err := needs("column"); err != nil {
			return nil, err
		}
		return &imp.Mean{Column: s.Column, By: s.By, Integer: s.Integer}, nil
	case "impute_group_lookup":
		if err := needs("column", "by"); err != nil {
			return nil, err
		}
		return &imp.GroupLookup{Column: s.Column, By: s.By, Round: s.Round}, nil
	case "impute_cross_fill":
		if err := needs("columns"); err != nil {
			return nil, err
		}
		return &imp.CrossFill{Columns: s.Columns, By: s.By}, nil
	case "impute_threshold":
		if err := needs("column", "source"); err != nil {
			return nil, err
		}
		return &imp.Threshold{Column: s.Column, Source: s.Source, Limit: s.Limit, Yes: s.Yes, No: s.No}, nil
	case "encode_values":
		m := s.Encode
		if len(m) == 0 {
			m = std.YesNo
		}
		return &std.Encode{Map: m, Columns: s.Columns}, nil
	case "map_values":
		if err := needs("column", "map"); err != nil {
			return nil, err
		}
		return &std.MapValues{Column: s.Column, Map: s.Map}, nil
	case "validate_unique":
		if err := needs("column"); err != nil {
			return nil, err
		}
		return &val.Unique{Column: s.Column}, nil
	case "validate_complete":
		if err := needs("columns"); err != nil {
			return nil, err
		}
		return &val.Complete{Columns: s.Columns, Tolerated: s.Tolerated}, nil
	case "validate_range":
		if err := needs("column"); err != nil {
			return nil, err
		}
		return &val.Range{Column: s.Column, Min: s.Min, Max: s.Max}, nil
	case "validate_not_in":
		if err := needs("column", "values"); err != nil {
			return nil, err
		}
		return val.NewNotIn(s.Column, s.Values...), nil
	default:
		return nil, fmt.Errorf("unknown step")
	}
}
