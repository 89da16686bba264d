package cmd

import (
	"fmt"
	"strings"
)

// splitSamples splits input file content into samples.
// Multi-sample content starts with a separator line; separator is the leading run of non-space characters
// of that line, and every following line starting with it separates samples.
// The rest of a separator line is ignored. Line feed preceding a separator line is not a part of the sample.
// Non-empty prefix enables multi-sample mode for content starting with it.
func splitSamples(name, content string, multi bool, prefix string) []input {
	if prefix != "" && strings.HasPrefix(content, prefix) {
		multi = true
	}
	if !multi {
		return []input{{name, content}}
	}

	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return nil
	}

	separator := linePrefix(lines[0])
	var res []input
	first := 1
	for first < len(lines) {
		last := first
		for last < len(lines) && !strings.HasPrefix(lines[last], separator) {
			last++
		}

		res = append(res, input{
			fmt.Sprintf("%s, sample #%d (lines %d-%d)", name, len(res)+1, first+1, last),
			strings.Join(lines[first:last], "\n"),
		})
		first = last + 1
	}
	return res
}

func linePrefix(line string) string {
	for i, b := range []byte(line) {
		if b <= ' ' {
			return line[:i]
		}
	}
	return line
}
