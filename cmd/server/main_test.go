package main

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JonMunkholm/datacatalog/internal/core"
	"github.com/JonMunkholm/datacatalog/internal/insight"
)

func TestReportError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHint string
	}{
		{"busy", fmt.Errorf("import: %w", core.ErrTooManyImports), "(Code: IMP001)"},
		{"file too large", core.ErrFileTooLarge, "(Code: FILE001)"},
		{"unknown", errors.New("open insights.csv: no such file or directory"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reportError(&buf, tt.err)
			out := buf.String()
			assert.Contains(t, out, "Error: "+tt.err.Error())
			if tt.wantHint == "" {
				assert.NotContains(t, out, "Code:")
				return
			}
			assert.Contains(t, out, tt.wantHint)
		})
	}
}

func TestRootVersionNamesCSVLayouts(t *testing.T) {
	assert.Equal(t,
		fmt.Sprintf("import schema v%d, export header v%d", insight.ImportSchemaVersion, insight.ExportHeaderVersion),
		rootCmd.Version)
}
