// Package scanner discovers project descriptors under the configured
// paths and runs the full pipeline over each: parse, validate, decode
// tool sections, resolve extras, and lint the project's sources.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/descry-dev/descry/internal/lint"
	"github.com/descry-dev/descry/internal/log"
	"github.com/descry-dev/descry/internal/manifest"
	"github.com/descry-dev/descry/internal/models"
	"github.com/descry-dev/descry/internal/resolver"
	"github.com/descry-dev/descry/internal/toolcfg"
)

// Diagnostic IDs for problems found outside the rule registry.
const (
	DiagSyntax        = "descriptor-syntax"
	DiagSchema        = "descriptor-schema"
	DiagUnknownOption = "unknown-option"
	DiagUnknownExtra  = "unknown-extra"
)

// Scanner orchestrates descriptor processing.
type Scanner struct {
	config   *models.Config
	analyzer *lint.Analyzer
	log      zerolog.Logger
}

// New creates a Scanner for the given configuration.
func New(config *models.Config) *Scanner {
	lintCfg := lint.NewConfig()
	for _, id := range config.DisabledRules {
		lintCfg.Disable(id)
	}

	return &Scanner{
		config:   config,
		analyzer: lint.NewAnalyzer(lintCfg),
		log:      log.WithComponent("scanner"),
	}
}

// Scan runs the pipeline over every descriptor found under the
// configured paths.
func (s *Scanner) Scan(ctx context.Context) (*models.Report, error) {
	descriptors, err := s.discover()
	if err != nil {
		return nil, fmt.Errorf("failed to discover descriptors: %w", err)
	}

	report := models.NewReport()
	for _, path := range descriptors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Projects = append(report.Projects, s.scanOne(path))
	}
	return report, nil
}

// discover walks the configured paths for descriptor files. A path
// naming a file directly is taken as-is.
func (s *Scanner) discover() ([]string, error) {
	var found []string

	for _, path := range s.config.Paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path %s: %w", path, err)
		}

		if !info.IsDir() {
			found = append(found, path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Name() == manifest.FileName {
				found = append(found, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return found, nil
}

func skipDir(name string) bool {
	switch name {
	case ".git", ".venv", "venv", "__pycache__", "node_modules", "vendor", ".tox", "build", "dist":
		return true
	}
	return strings.HasSuffix(name, ".egg-info")
}

// scanOne runs the pipeline for one descriptor. A syntax error is
// fatal for the descriptor: nothing downstream of it runs.
func (s *Scanner) scanOne(path string) models.ProjectReport {
	project := models.ProjectReport{Path: path}
	s.log.Debug().Str("path", path).Msg("scanning descriptor")

	m, err := manifest.Load(path)
	if err != nil {
		project.Diagnostics = append(project.Diagnostics, lint.Diagnostic{
			RuleID:   DiagSyntax,
			Severity: lint.SeverityError,
			File:     path,
			Message:  err.Error(),
		})
		return project
	}

	project.Name = m.Project.Name
	project.Version = m.Project.Version
	project.Groups = m.Groups()

	for _, schemaErr := range m.Validate() {
		project.Diagnostics = append(project.Diagnostics, lint.Diagnostic{
			RuleID:   DiagSchema,
			Severity: lint.SeverityError,
			File:     path,
			Message:  schemaErr.Error(),
		})
	}

	lintCtx := &lint.Context{Manifest: m}
	s.decodeTools(m, path, lintCtx, &project)

	if s.config.Resolve || len(s.config.Extras) > 0 {
		resolved, err := resolver.Resolve(m, s.config.Extras...)
		if err == nil {
			project.Resolved = resolved
		} else {
			var unknown *resolver.UnknownGroupError
			id := DiagSchema
			if errors.As(err, &unknown) {
				id = DiagUnknownExtra
			}
			project.Diagnostics = append(project.Diagnostics, lint.Diagnostic{
				RuleID:   id,
				Severity: lint.SeverityError,
				File:     path,
				Message:  err.Error(),
			})
		}
	}

	files, err := s.collectSources(filepath.Dir(path))
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("failed to collect sources")
	}
	lintCtx.Files = files

	project.Diagnostics = append(project.Diagnostics, s.analyzer.Analyze(lintCtx)...)
	return project
}

// decodeTools decodes each recognized tool section, recording unknown
// options as diagnostics and wiring decoded sections into the lint
// context.
func (s *Scanner) decodeTools(m *manifest.Manifest, path string, lintCtx *lint.Context, project *models.ProjectReport) {
	record := func(err error) bool {
		if err == nil {
			return true
		}
		project.Diagnostics = append(project.Diagnostics, lint.Diagnostic{
			RuleID:   DiagUnknownOption,
			Severity: lint.SeverityError,
			File:     path,
			Message:  err.Error(),
		})
		return false
	}

	if black, ok, err := toolcfg.DecodeBlack(m); ok && record(err) {
		lintCtx.Black = &black
	}
	if ruff, ok, err := toolcfg.DecodeRuff(m); ok && record(err) {
		lintCtx.Ruff = &ruff
	}
	if report, ok, err := toolcfg.DecodeCoverageReport(m); ok && record(err) {
		lintCtx.CoverageReport = &report
	}
	if _, ok, err := toolcfg.DecodeCoverageRun(m); ok {
		record(err)
	}
	if _, ok, err := toolcfg.DecodeMypy(m); ok {
		record(err)
	}
}

// collectSources gathers the Python sources under the descriptor's
// directory for the source-level rules.
func (s *Scanner) collectSources(root string) ([]lint.SourceFile, error) {
	var files []lint.SourceFile

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".py") {
			return nil
		}
		content, err := os.ReadFile(p)
		if err != nil {
			// Unreadable sources are skipped, not fatal.
			return nil
		}
		files = append(files, lint.SourceFile{Path: p, Content: content})
		return nil
	})
	return files, err
}
