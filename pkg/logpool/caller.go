package logpool

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// unknownCaller is reported when the call site cannot be resolved.
const unknownCaller = "unknown file:0"

var workingDir, _ = os.Getwd()

// callSite returns "path:line" of the frame skip levels above its caller, with
// the working directory trimmed from the path. It never fails.
func callSite(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok || file == "" {
		return unknownCaller
	}
	return relativePath(workingDir, file) + ":" + strconv.Itoa(line)
}

// relativePath strips dir from file when file lies below it. Files elsewhere
// keep their full path.
func relativePath(dir, file string) string {
	if dir == "" {
		return file
	}
	prefix := strings.TrimSuffix(filepath.ToSlash(dir), "/") + "/"
	if rel, ok := strings.CutPrefix(file, prefix); ok {
		return rel
	}
	return file
}
