// Package reader parses the line-oriented instance and solution formats: a
// `#p <trees> <leaves>` header, `# ` comments, `#s key: value` stride lines
// carrying opaque JSON, and one newick tree per remaining line.
//
// Problems split into errors and warnings. Errors always abort a read;
// warnings abort only under the paranoid policy, applied here at the
// boundary rather than inside the core.
package reader

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// StrideLine is one `#s key: value` line with its JSON payload kept opaque.
type StrideLine struct {
	Key   string
	Value json.RawMessage
}

// DuplicateHeaderError reports a second `#p` header line.
type DuplicateHeaderError struct {
	Line int
}

func (e *DuplicateHeaderError) Error() string {
	return fmt.Sprintf("reader: line %d contains a second header", e.Line)
}

// MalformedHeaderError reports a `#p` line that does not parse as two
// non-negative integers.
type MalformedHeaderError struct {
	Line int
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("reader: line %d contains a malformed header; expected '#p <trees> <leaves>'", e.Line)
}

// visitor receives one callback per classified input line. Line numbers are
// 1-based. Lines with surrounding whitespace trigger the whitespace callback
// and are then classified in trimmed form; comment lines are skipped.
type visitor interface {
	visitHeader(line int, numTrees, numLeaves uint32)
	visitTree(line int, text string)
	visitStride(line int, key, value string)
	visitUnrecognizedDash(line int)
	visitUnrecognized(line int)
	visitExtraWhitespace(line int)
}

// scan drives a visitor over the input. The returned error covers only
// structural problems the visitor cannot classify itself: I/O failures and
// malformed or duplicated headers.
func scan(r io.Reader, v visitor) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	line := 0
	sawHeader := false

	for scanner.Scan() {
		line++

		text := strings.TrimSuffix(scanner.Text(), "\r")

		trimmed := strings.TrimSpace(text)
		if trimmed != text {
			v.visitExtraWhitespace(line)
		}

		switch {
		case trimmed == "":
			// Blank line.

		case strings.HasPrefix(trimmed, "#p"):
			numTrees, numLeaves, ok := parseHeader(trimmed)
			if !ok {
				return &MalformedHeaderError{Line: line}
			}

			if sawHeader {
				return &DuplicateHeaderError{Line: line}
			}

			sawHeader = true

			v.visitHeader(line, numTrees, numLeaves)

		case strings.HasPrefix(trimmed, "#s"):
			key, value, ok := parseStride(trimmed)
			if !ok {
				v.visitUnrecognizedDash(line)

				continue
			}

			v.visitStride(line, key, value)

		case trimmed == "#" || strings.HasPrefix(trimmed, "# "):
			// Comment.

		case trimmed[0] == '#':
			v.visitUnrecognizedDash(line)

		case trimmed[0] == '(' || trimmed[0] >= '0' && trimmed[0] <= '9':
			v.visitTree(line, trimmed)

		default:
			v.visitUnrecognized(line)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reader: %w", err)
	}

	return nil
}

func parseHeader(line string) (numTrees, numLeaves uint32, ok bool) {
	fields := strings.Fields(strings.TrimPrefix(line, "#p"))
	if len(fields) != 2 {
		return 0, 0, false
	}

	trees, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return 0, 0, false
	}

	leaves, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return 0, 0, false
	}

	return uint32(trees), uint32(leaves), true
}

func parseStride(line string) (key, value string, ok bool) {
	rest := strings.TrimPrefix(line, "#s")
	rest = strings.TrimLeft(rest, " \t")

	key, value, found := strings.Cut(rest, ":")
	if !found || key == "" {
		return "", "", false
	}

	return strings.TrimSpace(key), strings.TrimSpace(value), true
}
