// Package pipeline sequences extraction, classification and rendering over
// one FITS file and folds every failure mode into a structurally valid
// result. Status "error" is reserved for inputs that could not be understood
// at all; anything that merely lacks a renderable plot reports
// "valid_no_visualizable_data", and partial rendering failure alone never
// downgrades an otherwise successful run.
package pipeline

import (
	"path/filepath"

	"github.com/google/uuid"

	"github.com/KaramelBytes/fitsloom-cli/internal/classify"
	"github.com/KaramelBytes/fitsloom-cli/internal/extract"
	"github.com/KaramelBytes/fitsloom-cli/internal/render"
	"github.com/KaramelBytes/fitsloom-cli/internal/utils"
)

// Status is the overall outcome for one file.
type Status string

const (
	StatusSuccess Status = "success"
	StatusNoData  Status = "valid_no_visualizable_data"
	StatusError   Status = "error"
)

// UnitResult is the per-unit record in the final result. Metadata keeps the
// extraction value union so its marshaller can degrade non-finite floats.
type UnitResult struct {
	Index          int                      `json:"index"`
	Type           string                   `json:"type"`
	Classification classify.Classification  `json:"classification"`
	PreviewImage   *string                  `json:"previewImage"`
	Metadata       map[string]extract.Value `json:"metadata"`
	Units          map[string]string        `json:"units"`
}

// Result is the sole externally observed artifact of a pipeline run.
// Error is set if and only if Status is StatusError.
type Result struct {
	Status   Status       `json:"status"`
	Message  string       `json:"message,omitempty"`
	FileName string       `json:"fileName"`
	HDUs     []UnitResult `json:"hdus"`
	Warnings []string     `json:"warnings"`
	Error    *string      `json:"error"`
}

const noPlottableMessage = "This FITS file is valid but contains no plottable HDUs."

// extractFile and classifyFile are replaceable for tests.
var (
	extractFile  = extract.Extract
	classifyFile = classify.Classify
)

// Run executes the full pipeline. It is a total function: every failure mode
// maps to a well-formed Result, never to an error return.
func Run(fitsPath, previewsDir, displayName string) Result {
	name := displayName
	if name == "" {
		name = filepath.Base(fitsPath)
	}
	warnings := []string{}

	summaries, err := extractFile(fitsPath)
	if err != nil {
		return errorResult(name, warnings, err.Error())
	}
	if len(summaries) == 0 {
		return noDataResult(name, warnings)
	}

	// Lenient structural gate: any numeric image unit means the file can be
	// meaningfully understood, regardless of how classification turns out.
	hasNumeric := false
	for _, s := range summaries {
		if s.HasNumericData {
			hasNumeric = true
			break
		}
	}
	if !hasNumeric {
		return errorResult(name, warnings, "No HDU contains numeric image data.")
	}

	analyses, err := classifyFile(fitsPath, summaries)
	if err != nil {
		return errorResult(name, warnings, err.Error())
	}

	plottable := false
	for _, a := range analyses {
		if a.Classification.Plottable() {
			plottable = true
			break
		}
	}
	if !plottable {
		return noDataResult(name, warnings)
	}

	fileID := uuid.NewString()[:8]
	previews := make([]*string, len(analyses))
	if err := utils.EnsureDir(previewsDir); err != nil {
		// Environment-level rendering failure: every preview degrades to
		// null and the message becomes a non-fatal warning.
		warnings = append(warnings, err.Error())
	} else {
		for i, a := range analyses {
			if url, ok := render.Render(fitsPath, a, previewsDir, fileID); ok {
				u := url
				previews[i] = &u
			}
		}
	}

	hdus := make([]UnitResult, 0, len(analyses))
	for i, a := range analyses {
		metadata := a.Header
		if metadata == nil {
			metadata = map[string]extract.Value{}
		}
		units := a.Units
		if units == nil {
			units = map[string]string{}
		}
		hdus = append(hdus, UnitResult{
			Index:          a.Index,
			Type:           a.KindTag,
			Classification: a.Classification,
			PreviewImage:   previews[i],
			Metadata:       metadata,
			Units:          units,
		})
	}

	return Result{
		Status:   StatusSuccess,
		FileName: name,
		HDUs:     hdus,
		Warnings: warnings,
	}
}

func errorResult(name string, warnings []string, msg string) Result {
	return Result{
		Status:   StatusError,
		FileName: name,
		HDUs:     []UnitResult{},
		Warnings: warnings,
		Error:    &msg,
	}
}

func noDataResult(name string, warnings []string) Result {
	return Result{
		Status:   StatusNoData,
		Message:  noPlottableMessage,
		FileName: name,
		HDUs:     []UnitResult{},
		Warnings: warnings,
	}
}
