package gpu

import (
	"fmt"
	"strings"
)

// CompileError reports a shader that failed to compile.
type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader compile failed: %s", e.Stage, strings.TrimSpace(e.Log))
}

// LinkError reports a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("program link failed: %s", strings.TrimSpace(e.Log))
}

// FramebufferIncompleteError is returned when a render target cannot be used.
// It is a configuration error; callers abort startup on it.
type FramebufferIncompleteError struct {
	Status FramebufferStatus
}

func (e *FramebufferIncompleteError) Error() string {
	return fmt.Sprintf("framebuffer incomplete: %s", e.Status)
}
