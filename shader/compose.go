package shader

import (
	_ "embed"
	"strconv"
	"strings"
)

var (
	//go:embed templates/helpers.wgsl
	helpersWGSL string

	//go:embed templates/material.wgsl
	materialWGSL string

	//go:embed templates/coverage.wgsl
	coverageWGSL string

	//go:embed templates/point.wgsl
	pointWGSL string

	//go:embed templates/line.wgsl
	lineWGSL string

	//go:embed templates/probe.wgsl
	probeWGSL string
)

// CoverageOptions controls how the line material computes edge coverage.
// Point materials ignore it.
type CoverageOptions struct {
	// WorldUnits measures line width in world units instead of pixels.
	WorldUnits bool

	// AlphaToCoverage smooths edges over one pixel instead of cutting them.
	AlphaToCoverage bool
}

// Compose returns the full WGSL source of a material with the given
// expressions substituted. Expressions are normalized but not validated.
func Compose(kind Kind, exprs Expressions, opts CoverageOptions) string {
	var parts []string
	parts = append(parts, helpersWGSL, materialWGSL)
	if kind == Line {
		parts = append(parts, coverageWGSL, lineWGSL)
	} else {
		parts = append(parts, pointWGSL)
	}
	return substitute(strings.Join(parts, "\n"), exprs, opts)
}

// composeProbe returns a module with one f32 function per channel, used to
// attribute errors and to evaluate expressions on the CPU.
func composeProbe(exprs Expressions) string {
	return substitute(helpersWGSL+"\n"+probeWGSL, exprs, CoverageOptions{})
}

// composeChannel returns a probe module where only channel c carries the
// user expression.
func composeChannel(c Channel, expr string) string {
	exprs := Expressions{C1: "0.0", C2: "0.0", C3: "0.0", Alpha: "0.0"}.With(c, expr)
	return composeProbe(exprs)
}

func substitute(src string, exprs Expressions, opts CoverageOptions) string {
	pairs := make([]string, 0, 12)
	for _, c := range Channels {
		pairs = append(pairs, c.placeholder(), "("+Normalize(exprs.Get(c))+")")
	}
	pairs = append(pairs,
		"{{WORLD_UNITS}}", strconv.FormatBool(opts.WorldUnits),
		"{{ALPHA_TO_COVERAGE}}", strconv.FormatBool(opts.AlphaToCoverage),
	)
	return strings.NewReplacer(pairs...).Replace(src)
}
