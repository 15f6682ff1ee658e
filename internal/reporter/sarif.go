package reporter

import (
	"encoding/json"
	"fmt"

	"github.com/descry-dev/descry/internal/lint"
	"github.com/descry-dev/descry/internal/models"
)

// SARIFReporter outputs diagnostics in SARIF format for code scanning
// integrations.
type SARIFReporter struct{}

// SARIF structures
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	ShortDescription sarifText       `json:"shortDescription"`
	DefaultConfig    sarifRuleConfig `json:"defaultConfiguration"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifRuleConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           int               `json:"ruleIndex"`
	Level               string            `json:"level"`
	Message             sarifText         `json:"message"`
	Locations           []sarifLocation   `json:"locations"`
	PartialFingerprints map[string]string `json:"partialFingerprints"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine,omitempty"`
}

// Report generates SARIF output for the given run report.
func (r *SARIFReporter) Report(report *models.Report) ([]byte, error) {
	diagnostics := report.Diagnostics()
	rules, ruleIndexMap := r.buildRules(diagnostics)

	out := sarifReport{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{
				Driver: sarifDriver{
					Name:           "descry",
					Version:        "1.0.0",
					InformationURI: "https://github.com/descry-dev/descry",
					Rules:          rules,
				},
			},
			Results: r.buildResults(diagnostics, ruleIndexMap),
		}},
	}

	return json.MarshalIndent(out, "", "  ")
}

func (r *SARIFReporter) buildRules(diagnostics []lint.Diagnostic) ([]sarifRule, map[string]int) {
	var rules []sarifRule
	ruleIndexMap := make(map[string]int)

	for _, d := range diagnostics {
		if _, exists := ruleIndexMap[d.RuleID]; exists {
			continue
		}

		description := d.RuleID
		if rule, ok := lint.Get(d.RuleID); ok {
			description = rule.Description()
		}

		ruleIndexMap[d.RuleID] = len(rules)
		rules = append(rules, sarifRule{
			ID:               d.RuleID,
			Name:             d.RuleID,
			ShortDescription: sarifText{Text: description},
			DefaultConfig:    sarifRuleConfig{Level: sarifLevel(d.Severity)},
		})
	}

	return rules, ruleIndexMap
}

func (r *SARIFReporter) buildResults(diagnostics []lint.Diagnostic, ruleIndexMap map[string]int) []sarifResult {
	results := make([]sarifResult, 0, len(diagnostics))

	for _, d := range diagnostics {
		location := sarifLocation{
			PhysicalLocation: sarifPhysicalLocation{
				ArtifactLocation: sarifArtifact{URI: d.File},
			},
		}
		if d.Line > 0 {
			location.PhysicalLocation.Region = sarifRegion{StartLine: d.Line}
		}

		results = append(results, sarifResult{
			RuleID:    d.RuleID,
			RuleIndex: ruleIndexMap[d.RuleID],
			Level:     sarifLevel(d.Severity),
			Message:   sarifText{Text: d.Message},
			Locations: []sarifLocation{location},
			PartialFingerprints: map[string]string{
				"primaryLocationLineHash": fmt.Sprintf("%s:%s:%d", d.RuleID, d.File, d.Line),
			},
		})
	}

	return results
}

func sarifLevel(s lint.Severity) string {
	switch s {
	case lint.SeverityError:
		return "error"
	case lint.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}
