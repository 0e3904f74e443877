package config

import (
	"math"
	"sort"
)

func preset(integrand string, tol float64, params map[string]float64, iv *IntervalConfig) *Config {
	cfg := DefaultConfig()
	cfg.Integrand = integrand
	cfg.Tolerance = tol
	cfg.Params = params
	cfg.Interval = iv
	return cfg
}

var Presets = map[string]map[string]*Config{
	"sin": {
		"half-period": preset("sin", 1e-10, nil, &IntervalConfig{Lower: 0, Upper: math.Pi}),
		"full-period": preset("sin", 1e-10, nil, &IntervalConfig{Lower: 0, Upper: 2 * math.Pi}),
		"fast":        preset("sin", 1e-8, map[string]float64{"omega": 100}, &IntervalConfig{Lower: 0, Upper: 1}),
	},
	"gaussian": {
		"standard": preset("gaussian", 1e-10, nil, nil),
		"narrow":   preset("gaussian", 1e-10, map[string]float64{"sigma": 0.01}, &IntervalConfig{Lower: -1, Upper: 1}),
		"offset":   preset("gaussian", 1e-10, map[string]float64{"mu": 2, "sigma": 0.5}, &IntervalConfig{Lower: 0, Upper: 4}),
	},
	"runge": {
		"classic": preset("runge", 1e-12, nil, nil),
		"sharp":   preset("runge", 1e-10, map[string]float64{"k": 10000}, nil),
	},
	"oscillatory": {
		"moderate": preset("oscillatory", 1e-10, map[string]float64{"omega": 20}, nil),
		"fast":     preset("oscillatory", 1e-10, map[string]float64{"omega": 500}, &IntervalConfig{Lower: 0, Upper: 10}),
	},
	"sqrt": {
		"loose": preset("sqrt", 1e-4, nil, nil),
		"tight": preset("sqrt", 1e-12, nil, nil),
	},
	"step": {
		"dyadic":     preset("step", 1e-10, nil, nil),
		"off-dyadic": preset("step", 1e-10, map[string]float64{"c": 0.3}, nil),
	},
	"pole": {
		"guarded": preset("pole", 1e-8, nil, nil),
		"outside": preset("pole", 1e-10, map[string]float64{"c": -0.5}, nil),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(integrand, name string) *Config {
	byName, ok := Presets[integrand]
	if !ok {
		return nil
	}
	cfg, ok := byName[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(integrand string) []string {
	byName, ok := Presets[integrand]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
