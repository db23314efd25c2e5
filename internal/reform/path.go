package reform

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidBracket is returned for malformed bracket indices.
var ErrInvalidBracket = errors.New("invalid bracket syntax (should be e.g. tax.brackets[3].rate)")

// Segment is one dotted component of a backend parameter name, optionally
// indexing into a bracket scale.
type Segment struct {
	Name     string
	Index    int
	HasIndex bool
}

func (s Segment) String() string {
	if s.HasIndex {
		return fmt.Sprintf("%s[%d]", s.Name, s.Index)
	}
	return s.Name
}

// ParsePath splits a backend parameter name such as
// tax.income_tax.brackets[3].rate into segments.
func ParsePath(name string) ([]Segment, error) {
	if name == "" {
		return nil, fmt.Errorf("empty parameter name")
	}
	parts := strings.Split(name, ".")
	out := make([]Segment, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("could not find the parameter (empty segment in %q)", name)
		}
		open := strings.IndexByte(part, '[')
		if open < 0 {
			if strings.ContainsRune(part, ']') {
				return nil, fmt.Errorf("%s: %w", part, ErrInvalidBracket)
			}
			out = append(out, Segment{Name: part})
			continue
		}
		if open == 0 || !strings.HasSuffix(part, "]") {
			return nil, fmt.Errorf("%s: %w", part, ErrInvalidBracket)
		}
		index, err := strconv.Atoi(part[open+1 : len(part)-1])
		if err != nil || index < 0 {
			return nil, fmt.Errorf("%s: %w", part, ErrInvalidBracket)
		}
		out = append(out, Segment{Name: part[:open], Index: index, HasIndex: true})
	}
	return out, nil
}

// JoinPath is the inverse of ParsePath.
func JoinPath(segments []Segment) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}
