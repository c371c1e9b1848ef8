// Package main provides CMA-ES optimization for evolution parameters.
package main

import (
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Genetics
			{Name: "mutation_rate", Path: "genome.mutation_rate", Min: 0.0001, Max: 0.02, Default: 0.001},
			// Behavior
			{Name: "action_threshold", Path: "behavior.action_threshold", Min: 0.0, Max: 0.5, Default: 0.1},
			// Radiation hazard
			{Name: "max_dose", Path: "radiation.max_dose", Min: 0.2, Max: 3.0, Default: 1.0},
			{Name: "falloff", Path: "radiation.falloff", Min: 0.01, Max: 0.2, Default: 0.04},
			{Name: "dose_scale", Path: "radiation.dose_scale", Min: 0.002, Max: 0.05, Default: 0.01},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Genome.MutationRate = clamped[0]
	cfg.Behavior.ActionThreshold = clamped[1]
	cfg.Radiation.MaxDose = clamped[2]
	cfg.Radiation.Falloff = clamped[3]
	cfg.Radiation.DoseScale = clamped[4]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Genome.MutationRate,
		cfg.Behavior.ActionThreshold,
		cfg.Radiation.MaxDose,
		cfg.Radiation.Falloff,
		cfg.Radiation.DoseScale,
	}
}
