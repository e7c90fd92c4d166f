// Package report renders pipeline results for humans and tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/pktdecode/internal/pipeline"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("report: unknown format %q", raw)
	}
}

// Write renders results to w in format f.
func Write(w io.Writer, f Format, results []pipeline.Result) error {
	switch f {
	case FormatText:
		return writeText(w, results)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(nonNil(results))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(nonNil(results)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("report: unknown format %q", f)
	}
}

func writeText(w io.Writer, results []pipeline.Result) error {
	for _, r := range results {
		if _, err := io.WriteString(w, Line(r)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Line is the one-line text form of r.
func Line(r pipeline.Result) string {
	if r.OK() {
		return fmt.Sprintf("line %d: version_sum=%d value=%d", r.Line, r.VersionSum, r.Value)
	}
	return fmt.Sprintf("line %d: %s error: %v", r.Line, r.Stage, r.Err)
}

func nonNil(results []pipeline.Result) []pipeline.Result {
	if results == nil {
		return []pipeline.Result{}
	}
	return results
}
