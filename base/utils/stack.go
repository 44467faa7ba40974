package utils

import (
	"runtime"
)

// Stack returns the formatted stack trace of the calling goroutine,
// dropping the innermost skip frames.
func Stack(skip int) []byte {
	buf := make([]byte, 4096)
	for {
		n := runtime.Stack(buf, false)
		if n < len(buf) {
			buf = buf[:n]
			break
		}
		buf = make([]byte, len(buf)*2)
	}
	return trimFrames(buf, skip)
}

// runtime.Stack prints a header line followed by two lines per frame
func trimFrames(stack []byte, skip int) []byte {
	if skip <= 0 {
		return stack
	}
	lines := 0
	header := -1
	for i, b := range stack {
		if b != '\n' {
			continue
		}
		if header == -1 {
			header = i + 1
			continue
		}
		lines++
		if lines == skip*2 {
			res := make([]byte, 0, len(stack)-(i+1)+header)
			res = append(res, stack[:header]...)
			return append(res, stack[i+1:]...)
		}
	}
	return stack
}
