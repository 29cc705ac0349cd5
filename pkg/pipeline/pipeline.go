// Package pipeline runs the select → level → render pipeline shared by the
// CLI and the HTTP service.
//
// # Architecture
//
//  1. Select: pick one function graph out of a [graph.Document]
//  2. Level: assign node levels and edge hints ([graph.Level])
//  3. Render: encode the result as json, vis, dot, svg or png
//
// Leveling results and rendered images are cached through a [cache.Cache];
// the key of a leveled graph is the hash of its canonical input encoding.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Function: "main",
//	    Format:   graph.FormatSVG,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("main.svg", res.Artifact, 0o644)
package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/cfglevel/pkg/errors"
	"github.com/matzehuels/cfglevel/pkg/graph"
)

// DefaultFormat is used when Options.Format is empty.
const DefaultFormat = graph.FormatJSON

// ValidFormats lists the supported output formats.
var ValidFormats = []string{
	graph.FormatJSON,
	graph.FormatVis,
	graph.FormatDOT,
	graph.FormatSVG,
	graph.FormatPNG,
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"invalid format %q (must be one of: %s)", format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// Options configures a pipeline run.
type Options struct {
	// Function selects the graph of a multi-function document. Empty or
	// unknown names fall back to the first function in name order.
	Function string `json:"function,omitempty"`

	Format        string `json:"format,omitempty"`
	Detailed      bool   `json:"detailed,omitempty"`        // append levels to node labels
	HideBackEdges bool   `json:"hide_back_edges,omitempty"` // drop non-layout edges from images
	Refresh       bool   `json:"refresh,omitempty"`         // bypass cached results

	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults fills in defaults and validates the options.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	o.Format = strings.ToLower(o.Format)
	if o.Function != "" {
		if err := apperrors.ValidateFunctionName(o.Function); err != nil {
			return err
		}
	}
	return ValidateFormat(o.Format)
}

// Result holds the outputs of a pipeline run.
type Result struct {
	// Function is the name actually selected; empty for the placeholder.
	Function string

	// GraphHash is the content hash of the selected input graph.
	GraphHash string

	// Leveled is the annotated graph.
	Leveled graph.Leveled

	// Artifact is the rendered output in the requested format.
	Artifact []byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds timing information.
type Stats struct {
	LevelTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which stages were served from the cache.
type CacheInfo struct {
	LevelHit  bool
	RenderHit bool
}
