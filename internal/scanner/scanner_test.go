package scanner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/descry-dev/descry/internal/models"
	"github.com/descry-dev/descry/internal/scanner"
)

const descriptor = `
[build-system]
requires = ["setuptools>=68"]
build-backend = "setuptools.build_meta"

[project]
name = "monty"
version = "2025.1.9"
requires-python = ">=3.9"
dependencies = []

[project.optional-dependencies]
ci = ["pytest>=8", "numpy<2.0.0", "orjson"]
docs = ["sphinx", "sphinx_rtd_theme"]

[tool.ruff.lint.isort]
required-imports = ["from __future__ import annotations"]
`

func writeProject(t *testing.T, sources map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte(descriptor), 0644))
	for name, content := range sources {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func ruleIDs(report *models.Report) []string {
	var out []string
	for _, d := range report.Diagnostics() {
		out = append(out, d.RuleID)
	}
	return out
}

func TestScanCleanProject(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"monty/good.py": "from __future__ import annotations\n\nimport os\n",
	})

	report, err := scanner.New(&models.Config{Paths: []string{dir}}).Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Projects, 1)
	assert.Equal(t, "monty", report.Projects[0].Name)
	assert.Equal(t, []string{"ci", "docs"}, report.Projects[0].Groups)
	assert.False(t, report.HasFindings())
	assert.NotEmpty(t, report.RunID)
}

func TestScanFlagsMissingRequiredImport(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"monty/good.py": "from __future__ import annotations\n",
		"monty/bad.py":  "import os\n",
	})

	report, err := scanner.New(&models.Config{Paths: []string{dir}}).Scan(context.Background())
	require.NoError(t, err)

	require.True(t, report.HasFindings())
	diags := report.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "required-imports", diags[0].RuleID)
	assert.Equal(t, filepath.Join(dir, "monty", "bad.py"), diags[0].File)
}

func TestScanSkipsVendoredTrees(t *testing.T) {
	dir := writeProject(t, map[string]string{
		".venv/site.py":        "import os\n",
		"__pycache__/cache.py": "import os\n",
	})

	report, err := scanner.New(&models.Config{Paths: []string{dir}}).Scan(context.Background())
	require.NoError(t, err)
	assert.False(t, report.HasFindings())
}

func TestScanSyntaxErrorIsFatalForDescriptor(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte("[project\n"), 0644))

	report, err := scanner.New(&models.Config{Paths: []string{dir}}).Scan(context.Background())
	require.NoError(t, err)

	diags := report.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, scanner.DiagSyntax, diags[0].RuleID)
}

func TestScanReportsUnknownExtra(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"monty/mod.py": "from __future__ import annotations\n",
	})

	cfg := &models.Config{Paths: []string{dir}, Extras: []string{"benchmarks"}}
	report, err := scanner.New(cfg).Scan(context.Background())
	require.NoError(t, err)

	assert.Contains(t, ruleIDs(report), scanner.DiagUnknownExtra)
}

func TestScanResolvesExtras(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"monty/mod.py": "from __future__ import annotations\n",
	})

	cfg := &models.Config{Paths: []string{dir}, Extras: []string{"ci"}}
	report, err := scanner.New(cfg).Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Projects, 1)
	resolved := report.Projects[0].Resolved
	require.Len(t, resolved, 3)
	assert.Equal(t, "pytest", resolved[0].Name)
}

func TestScanReportsUnknownToolOption(t *testing.T) {
	dir := t.TempDir()
	src := descriptor + `
[tool.mypy]
ignore_missing_imports = true
no_such_option = 1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte(src), 0644))

	report, err := scanner.New(&models.Config{Paths: []string{dir}}).Scan(context.Background())
	require.NoError(t, err)
	assert.Contains(t, ruleIDs(report), scanner.DiagUnknownOption)
}

func TestScanDisabledRule(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"monty/bad.py": "import os\n",
	})

	cfg := &models.Config{Paths: []string{dir}, DisabledRules: []string{"required-imports"}}
	report, err := scanner.New(cfg).Scan(context.Background())
	require.NoError(t, err)
	assert.False(t, report.HasFindings())
}
