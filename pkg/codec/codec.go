// Package codec implements the serializers for values stored in the TTL
// cache. Each value kind has its own codec so the storage layer stays a plain
// string key/value store. Headline and quote lists use a line-oriented,
// pipe-delimited format; decision records are JSON. A malformed payload is
// reported as an error and callers treat the cache entry as a miss.
package codec

import (
	"fmt"
	"strings"
)

// escapeField makes a free-text field safe to embed between pipe delimiters.
func escapeField(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "|", `\|`)
	return s
}

// splitRow splits a row on unescaped pipes into exactly n fields and
// unescapes each. When keepTail is set the final field is taken verbatim from
// the first character after the (n-1)th delimiter, so it may itself contain
// pipes (links are stored unescaped, mirroring a maxsplit).
func splitRow(row string, n int, keepTail bool) ([]string, error) {
	fields := make([]string, 0, n)
	var cur strings.Builder

	i := 0
	for i < len(row) {
		if keepTail && len(fields) == n-1 {
			fields = append(fields, row[i:])
			cur.Reset()
			break
		}
		c := row[i]
		switch c {
		case '\\':
			if i+1 < len(row) {
				cur.WriteByte(row[i+1])
				i += 2
				continue
			}
			return nil, fmt.Errorf("dangling escape in row %q", row)
		case '|':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
		i++
	}
	if !keepTail || len(fields) < n {
		fields = append(fields, cur.String())
	}

	if len(fields) != n {
		return nil, fmt.Errorf("expected %d fields, got %d in row %q", n, len(fields), row)
	}
	return fields, nil
}
