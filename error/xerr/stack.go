package xerr

import (
	"fmt"
	"runtime"
)

type StackFrame interface {
	Function() string
	File() string
	Line() int
	Format(sep string) string
}

type stackFrame struct {
	name string
	file string
	line int
}

func (f stackFrame) Function() string { return f.name }
func (f stackFrame) File() string     { return f.file }
func (f stackFrame) Line() int        { return f.line }

func (f stackFrame) Format(sep string) string {
	return fmt.Sprintf("%v%v%v%v%v", f.name, sep, f.file, sep, f.line)
}

type StackTrace interface {
	Frames() []StackFrame
	Format() []string
}

type stackTrace struct {
	frames []StackFrame
	sep    string
}

// skip runtime.Callers, NewStackTrace and the xerr constructor.
const callerSkip = 3

func NewStackTrace() StackTrace {
	var pcs [32]uintptr
	n := runtime.Callers(callerSkip, pcs[:])
	st := make([]StackFrame, 0, n)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.Function != "" {
			st = append(st, stackFrame{name: frame.Function, file: frame.File, line: frame.Line})
		}
		if !more {
			break
		}
	}
	return &stackTrace{frames: st, sep: ":"}
}

func (s *stackTrace) Frames() []StackFrame {
	out := make([]StackFrame, len(s.frames))
	copy(out, s.frames)
	return out
}

// Format returns frames innermost first.
func (s *stackTrace) Format() []string {
	str := make([]string, 0, len(s.frames))
	for _, f := range s.frames {
		str = append(str, f.Format(s.sep))
	}
	return str
}
