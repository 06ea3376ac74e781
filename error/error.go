package error

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// SourceError decorates a lexical, syntax, or semantic error with its source
// location and, when the file is still readable, the offending line.
type SourceError struct {
	Cause      error
	FilePath   string
	SourceName string
	Line       int
}

func (e *SourceError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	}
	if e.Line != 0 {
		fmt.Fprintf(&b, "%v: ", e.Line)
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)

	line := readLine(e.FilePath, e.Line)
	if line != "" {
		fmt.Fprintf(&b, "\n    %v", line)
	}

	return b.String()
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

func readLine(filePath string, line int) string {
	if filePath == "" || line <= 0 {
		return ""
	}

	f, err := os.Open(filePath)
	if err != nil {
		return ""
	}
	defer f.Close()

	i := 1
	s := bufio.NewScanner(f)
	for s.Scan() {
		if i == line {
			return s.Text()
		}
		i++
	}

	return ""
}
