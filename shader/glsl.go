package shader

import (
	"fmt"

	"github.com/gogpu/naga/glsl"
)

// GLSL translates one entry point of p ("vs_main" or "fs_main") to GLSL 3.30.
func (p *Program) GLSL(entryPoint string) (string, error) {
	src, _, err := glsl.Compile(p.module, glsl.Options{EntryPoint: entryPoint})
	if err != nil {
		return "", fmt.Errorf("%w: glsl %s: %w", ErrCompile, entryPoint, err)
	}
	return src, nil
}
