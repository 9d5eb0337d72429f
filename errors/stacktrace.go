package errors

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first stack trace found while unwrapping given
// error, or nil.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}

// Format implements fmt.Formatter.
//
//	%s is just the error message
//	%+v is the full stack trace
//	%v appends a compressed [filename:line] where the error was created
func (e *wrappedError) Format(s fmt.State, verb rune) {
	// normal output here....
	if verb != 'v' {
		fmt.Fprint(s, e.Error())
		return
	}
	// work with the stack trace... whole or part
	stack := trimInternal(stackTrace(e))
	if s.Flag('+') {
		fmt.Fprintf(s, "%+v\n", stack)
		fmt.Fprint(s, e.Error())
	} else {
		fmt.Fprint(s, e.Error())
		if len(stack) > 0 {
			fmt.Fprint(s, " ")
			writeSimpleFrame(s, stack[0])
		}
	}
}

// trimInternal removes the frames of this package and of the runtime, so
// the trace starts where the error was created.
func trimInternal(st errors.StackTrace) errors.StackTrace {
	for len(st) > 0 && isWrapFrame(st[0]) {
		st = st[1:]
	}
	for len(st) > 0 && matchesFunc(st[len(st)-1], "runtime.", "testing.") {
		st = st[:len(st)-1]
	}
	return st
}

var wrapFuncs = map[string]bool{
	"github.com/iov-one/vault/errors.Wrap":          true,
	"github.com/iov-one/vault/errors.Wrapf":         true,
	"github.com/iov-one/vault/errors.(*Error).New":  true,
	"github.com/iov-one/vault/errors.(*Error).Newf": true,
	"github.com/iov-one/vault/errors.WithType":      true,
	"github.com/iov-one/vault/errors.Recover":       true,
}

func isWrapFrame(f errors.Frame) bool {
	return wrapFuncs[funcName(f)]
}

func matchesFunc(f errors.Frame, prefixes ...string) bool {
	fn := funcName(f)
	for _, prefix := range prefixes {
		if strings.HasPrefix(fn, prefix) {
			return true
		}
	}
	return false
}

func funcName(f errors.Frame) string {
	// this looks a bit like magic, but follows pkg/errors stack.go
	pc := uintptr(f) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	return fn.Name()
}

func fileLine(f errors.Frame) (string, int) {
	pc := uintptr(f) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown", 0
	}
	return fn.FileLine(pc)
}

func writeSimpleFrame(s io.Writer, f errors.Frame) {
	file, line := fileLine(f)
	chunks := strings.SplitN(file, "github.com/", 2)
	if len(chunks) == 2 {
		file = chunks[1]
	}
	fmt.Fprintf(s, "[%s:%d]", file, line)
}
