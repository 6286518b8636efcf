package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBaseName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "widget", "WIDGET"},
		{"inner space", "Red Mug", "REDMUG"},
		{"case only", "RED MUG", "REDMUG"},
		{"tabs and newlines", "red\tmug\n", "REDMUG"},
		{"leading and trailing", "  espresso cup  ", "ESPRESSOCUP"},
		{"digits kept", "mug 2000", "MUG2000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBaseName(tt.in))
		})
	}
}

func TestNextBarcode(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		existing []string
		want     string
	}{
		{
			name:     "empty family starts at 001",
			base:     "WIDGET",
			existing: nil,
			want:     "WIDGET-001",
		},
		{
			name:     "gaps are ignored, next is max plus one",
			base:     "WIDGET",
			existing: []string{"WIDGET-001", "WIDGET-003"},
			want:     "WIDGET-004",
		},
		{
			name:     "other families do not interfere",
			base:     "WIDGET",
			existing: []string{"WIDGET-002", "WIDGETPRO-009"},
			want:     "WIDGET-003",
		},
		{
			name:     "malformed suffixes are skipped",
			base:     "WIDGET",
			existing: []string{"WIDGET-001", "WIDGET-xyz", "WIDGET-12"},
			want:     "WIDGET-002",
		},
		{
			name:     "suffix widens past 999",
			base:     "WIDGET",
			existing: []string{"WIDGET-999"},
			want:     "WIDGET-1000",
		},
		{
			name:     "widened suffixes stay in the family",
			base:     "WIDGET",
			existing: []string{"WIDGET-999", "WIDGET-1000"},
			want:     "WIDGET-1001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextBarcode(tt.base, tt.existing))
		})
	}
}
