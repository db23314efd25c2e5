// Package reform holds the reform a user is building: the parameter edits
// submitted to the simulation API, value parsing for those edits, and the
// dotted parameter path syntax used by the simulation backend.
package reform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// BaselinePrefix marks parameters that edit the baseline rather than the reform.
const BaselinePrefix = "baseline_"

// Edit is one parameter change.
type Edit struct {
	ID    string
	Value any
}

// Submission is an ordered set of parameter edits. The zero value is empty
// and ready to use; it is not safe for concurrent mutation.
type Submission struct {
	order  []string
	values map[string]any
}

// NewSubmission returns a submission holding the given edits in order.
func NewSubmission(edits ...Edit) *Submission {
	s := &Submission{}
	for _, e := range edits {
		s.Set(e.ID, e.Value)
	}
	return s
}

// Set records a value, keeping the original position of an existing edit.
func (s *Submission) Set(id string, value any) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	if _, exists := s.values[id]; !exists {
		s.order = append(s.order, id)
	}
	s.values[id] = value
}

// Get returns the edited value of a parameter.
func (s *Submission) Get(id string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[id]
	return v, ok
}

// Unset removes an edit, reporting whether one existed.
func (s *Submission) Unset(id string) bool {
	if _, ok := s.values[id]; !ok {
		return false
	}
	delete(s.values, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Reset drops every edit.
func (s *Submission) Reset() {
	s.order = nil
	s.values = nil
}

// Len is the number of edited parameters.
func (s *Submission) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Edits returns the edits in the order they were first made.
func (s *Submission) Edits() []Edit {
	if s == nil {
		return nil
	}
	out := make([]Edit, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, Edit{ID: id, Value: s.values[id]})
	}
	return out
}

// EditsBaseline reports whether any edit targets the baseline policy.
func (s *Submission) EditsBaseline() bool {
	if s == nil {
		return false
	}
	for _, id := range s.order {
		if strings.HasPrefix(id, BaselinePrefix) {
			return true
		}
	}
	return false
}

// Clone returns an independent copy.
func (s *Submission) Clone() *Submission {
	return NewSubmission(s.Edits()...)
}

// MarshalJSON encodes the edits as a flat object in edit order.
func (s *Submission) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s.Edits() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.ID)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", e.ID, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a flat object, keeping key order.
func (s *Submission) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode submission: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode submission: expected object")
	}

	s.Reset()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode submission: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decode submission: expected key")
		}
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode submission %s: %w", key, err)
		}
		if n, ok := raw.(json.Number); ok {
			if f, err := n.Float64(); err == nil {
				raw = f
			}
		}
		s.Set(key, raw)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode submission: %w", err)
	}
	return nil
}
