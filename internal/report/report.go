// Package report writes analysis and run results as indented JSON
// files for consumption by other tools.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/faisalirshadkhan8/File-Organizer-Pro/pkg/types"
)

// Analysis bundles everything the analyze command can produce for one
// directory. Sections not requested stay nil and are omitted.
type Analysis struct {
	Directory   string              `json:"directory"`
	Mode        string              `json:"mode"`
	GeneratedAt time.Time           `json:"generated_at"`
	TypePreview *types.Preview          `json:"type_preview,omitempty"`
	DatePreview *types.Preview          `json:"date_preview,omitempty"`
	Dates       *types.DateAnalysis     `json:"dates,omitempty"`
	Conflicts   *types.ConflictAnalysis `json:"conflicts,omitempty"`
}

// WriteJSON marshals v with indentation and writes it to path, creating
// parent directories as needed.
func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func WriteAnalysis(path string, a *Analysis) error {
	return WriteJSON(path, a)
}

// WriteResult exports the rounded summary view of a finished run.
func WriteResult(path string, r *types.OrganizationResult) error {
	return WriteJSON(path, r.Summary())
}
