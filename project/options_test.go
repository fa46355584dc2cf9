package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCompliance(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"1.8", 8},
		{"8", 8},
		{"11", 11},
		{" 17 ", 17},
		{"21.0.2", 21},
	}
	for _, tt := range tests {
		v, err := ParseCompliance(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, v.Major(), tt.in)
	}
	_, err := ParseCompliance("latest")
	assert.Error(t, err)
}

func TestSupports(t *testing.T) {
	level := func(s string) Options {
		v, err := ParseCompliance(s)
		require.NoError(t, err)
		return Options{Compliance: v}
	}
	tests := []struct {
		level   string
		feature Feature
		want    bool
	}{
		{"1.8", FeatureVar, false},
		{"10", FeatureVar, true},
		{"11", FeatureSwitchExpression, false},
		{"14", FeatureSwitchExpression, true},
		{"15", FeatureRecord, false},
		{"16", FeatureRecord, true},
		{"16", FeatureSealed, false},
		{"17", FeatureSealed, true},
		{"17", FeatureSwitchPattern, false},
		{"21", FeatureSwitchPattern, true},
		{"21", Feature("unknown"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, level(tt.level).Supports(tt.feature), "%s at %s", tt.feature, tt.level)
	}
	assert.True(t, Options{}.Supports(FeatureRecord))
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, "21", opts.ComplianceString())
	assert.True(t, opts.CamelCase)
	assert.True(t, opts.DeprecationCheck)
	assert.False(t, opts.ExtendedContext)
}
