package shader

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"

	"github.com/mhdeeb/geo-art/internal/logging"
)

// Program is a compiled material shader.
type Program struct {
	Kind        Kind
	Options     CoverageOptions
	Expressions Expressions

	// Source is the composed WGSL text, with vs_main and fs_main entry points.
	Source string

	// SPIRV is the SPIR-V binary generated from Source.
	SPIRV []byte

	module *ir.Module
}

// Compile validates exprs, composes them into the material template for
// kind and compiles the result. Any failure is returned as *ExprError; when
// a single channel is responsible, the error names it.
func Compile(kind Kind, exprs Expressions, opts CoverageOptions) (*Program, error) {
	for _, c := range Channels {
		if err := Validate(exprs.Get(c)); err != nil {
			return nil, &ExprError{Kind: kind, Channel: c, Expr: exprs.Get(c), Err: err}
		}
	}

	src := Compose(kind, exprs, opts)
	module, err := lower(src)
	if err != nil {
		return nil, attribute(kind, exprs, err)
	}

	code, err := naga.GenerateSPIRV(module, spirv.Options{Version: spirv.Version1_3})
	if err != nil {
		return nil, &ExprError{Kind: kind, Err: fmt.Errorf("%w: %w", ErrCompile, err)}
	}

	logging.Logger().Debug("shader: compiled",
		"kind", kind.String(),
		"bytes", len(code),
		"world_units", opts.WorldUnits,
	)
	return &Program{
		Kind:        kind,
		Options:     opts,
		Expressions: exprs,
		Source:      src,
		SPIRV:       code,
		module:      module,
	}, nil
}

// Check reports whether a single expression compiles as channel c. It is
// cheaper than Compile and suitable for validating input as it is typed.
func Check(c Channel, expr string) error {
	if err := Validate(expr); err != nil {
		return &ExprError{Channel: c, Expr: expr, Err: err}
	}
	if _, err := lower(composeChannel(c, expr)); err != nil {
		return &ExprError{Channel: c, Expr: expr, Err: err}
	}
	return nil
}

// attribute finds the channel responsible for a failed compile by
// compiling each expression alone in the probe module.
func attribute(kind Kind, exprs Expressions, cause error) error {
	for _, c := range Channels {
		expr := exprs.Get(c)
		if _, err := lower(composeChannel(c, expr)); err != nil {
			return &ExprError{Kind: kind, Channel: c, Expr: expr, Err: err}
		}
	}
	return &ExprError{Kind: kind, Err: cause}
}

// lower parses, lowers and validates WGSL source.
func lower(src string) (*ir.Module, error) {
	ast, err := naga.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: parse: %w", ErrCompile, err)
	}
	module, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return nil, fmt.Errorf("%w: lower: %w", ErrCompile, err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("%w: validate: %w", ErrCompile, err)
	}
	if len(verrs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrCompile, verrs[0].Error())
	}
	return module, nil
}
