// Package shader turns user color expressions into WGSL programs for the
// point and line materials.
//
// An expression is a single WGSL f32 expression over the variables x, y, z
// and t. Four of them (c1, c2, c3 and alpha) form a color whose meaning
// depends on the ColorType: RGB channels, HSV channels, or a solid color
// where only alpha is used.
//
// Compile composes the expressions into the material template and runs the
// result through naga. On failure it reports which channel is at fault
// through *ExprError. The same expressions can be evaluated on the CPU with
// an Evaluator, which interprets the lowered naga IR.
package shader
