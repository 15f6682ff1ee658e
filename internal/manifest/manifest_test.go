package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/descry-dev/descry/internal/manifest"
)

const montyDescriptor = `
[build-system]
requires = ["setuptools>=68", "setuptools-scm"]
build-backend = "setuptools.build_meta"

[project]
name = "monty"
version = "2025.1.9"
description = "Monty is the missing complement to Python."
readme = "README.md"
requires-python = ">=3.9"
classifiers = [
    "Programming Language :: Python :: 3",
    "Development Status :: 4 - Beta",
    "Operating System :: OS Independent",
]
dependencies = []

[[project.maintainers]]
name = "Shyue Ping Ong"
email = "ongsp@ucsd.edu"

[project.optional-dependencies]
ci = [
    "pytest>=8",
    "pytest-cov>=4",
    "numpy<2.0.0",
    "orjson",
    "msgpack",
    "pymongo",
    "pandas",
    "tqdm",
]
docs = [
    "sphinx",
    "sphinx_rtd_theme",
]

[tool.black]
line-length = 120
target-version = ["py39"]
include = '\.pyi?$'

[tool.coverage.run]
branch = true

[tool.coverage.report]
exclude_also = [
    "@deprecated",
    "def __repr__",
    "if TYPE_CHECKING:",
    "pragma: no cover",
]

[tool.mypy]
ignore_missing_imports = true

[tool.ruff.lint]
select = ["E", "F", "I", "UP", "W"]

[tool.ruff.lint.isort]
required-imports = ["from __future__ import annotations"]
`

func TestParse(t *testing.T) {
	m, err := manifest.Parse([]byte(montyDescriptor))
	require.NoError(t, err)

	assert.Equal(t, "setuptools.build_meta", m.BuildSystem.BuildBackend)
	assert.Equal(t, []string{"setuptools>=68", "setuptools-scm"}, m.BuildSystem.Requires)

	assert.Equal(t, "monty", m.Project.Name)
	assert.Equal(t, "2025.1.9", m.Project.Version)
	assert.Equal(t, ">=3.9", m.Project.RequiresPython)
	assert.Empty(t, m.Project.Dependencies)
	require.Len(t, m.Project.Maintainers, 1)
	assert.Equal(t, "ongsp@ucsd.edu", m.Project.Maintainers[0].Email)

	assert.Equal(t, []string{"ci", "docs"}, m.Groups())

	// Specifier order inside a group is preserved verbatim.
	ci := m.Project.OptionalDependencies["ci"]
	require.NotEmpty(t, ci)
	assert.Equal(t, "pytest>=8", ci[0])
	assert.Contains(t, ci, "numpy<2.0.0")
	assert.Contains(t, ci, "orjson")
}

func TestParseSyntaxError(t *testing.T) {
	_, err := manifest.Parse([]byte("[project\nname = "))
	require.Error(t, err)

	var syn *manifest.SyntaxError
	assert.ErrorAs(t, err, &syn)
}

func TestToolSection(t *testing.T) {
	m, err := manifest.Parse([]byte(montyDescriptor))
	require.NoError(t, err)

	black, ok := m.ToolSection("black")
	require.True(t, ok)
	assert.EqualValues(t, 120, black["line-length"])

	report, ok := m.ToolSection("coverage.report")
	require.True(t, ok)
	assert.NotEmpty(t, report["exclude_also"])

	_, ok = m.ToolSection("poetry")
	assert.False(t, ok)
	_, ok = m.ToolSection("coverage.html")
	assert.False(t, ok)
}

func TestEncodeRoundTrip(t *testing.T) {
	first, err := manifest.Parse([]byte(montyDescriptor))
	require.NoError(t, err)

	encoded, err := first.Encode()
	require.NoError(t, err)

	second, err := manifest.Parse(encoded)
	require.NoError(t, err)

	// Serialize-then-parse yields an identical section/option mapping.
	ignorePath := cmpopts.IgnoreFields(manifest.Manifest{}, "Path")
	if diff := cmp.Diff(first, second, ignorePath); diff != "" {
		t.Errorf("round trip changed the descriptor (-first +second):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, manifest.FileName)
	require.NoError(t, os.WriteFile(path, []byte(montyDescriptor), 0644))

	m, err := manifest.Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, m.Path)
	assert.Equal(t, "monty", m.Project.Name)

	_, err = manifest.Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestValidateCleanDescriptor(t *testing.T) {
	m, err := manifest.Parse([]byte(montyDescriptor))
	require.NoError(t, err)
	assert.Empty(t, m.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*manifest.Manifest)
		wantField string
	}{
		{
			name:      "missing version",
			mutate:    func(m *manifest.Manifest) { m.Project.Version = "" },
			wantField: "project.version",
		},
		{
			name:      "malformed version",
			mutate:    func(m *manifest.Manifest) { m.Project.Version = "one.two" },
			wantField: "project.version",
		},
		{
			name:      "missing name",
			mutate:    func(m *manifest.Manifest) { m.Project.Name = "" },
			wantField: "project.name",
		},
		{
			name:      "invalid requires-python",
			mutate:    func(m *manifest.Manifest) { m.Project.RequiresPython = "3.9" },
			wantField: "project.requires-python",
		},
		{
			name:      "unsatisfiable requires-python",
			mutate:    func(m *manifest.Manifest) { m.Project.RequiresPython = ">=99.0" },
			wantField: "project.requires-python",
		},
		{
			name:      "missing build backend",
			mutate:    func(m *manifest.Manifest) { m.BuildSystem.BuildBackend = "" },
			wantField: "build-system.build-backend",
		},
		{
			name: "bad group specifier",
			mutate: func(m *manifest.Manifest) {
				m.Project.OptionalDependencies["ci"] = []string{"pytest>="}
			},
			wantField: "project.optional-dependencies.ci[0]",
		},
		{
			name: "empty maintainer",
			mutate: func(m *manifest.Manifest) {
				m.Project.Maintainers = append(m.Project.Maintainers, manifest.Person{})
			},
			wantField: "project.maintainers[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := manifest.Parse([]byte(montyDescriptor))
			require.NoError(t, err)

			tt.mutate(m)
			errs := m.Validate()
			require.NotEmpty(t, errs)

			fields := make([]string, len(errs))
			for i, e := range errs {
				fields[i] = e.Field
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}
