package reform

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionKeepsEditOrder(t *testing.T) {
	s := &Submission{}
	s.Set("rate_higher", 0.45)
	s.Set("rate_basic", 0.2)
	s.Set("rate_higher", 0.5)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []Edit{{"rate_higher", 0.5}, {"rate_basic", 0.2}}, s.Edits())

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"rate_higher":0.5,"rate_basic":0.2}`, string(data))
}

func TestSubmissionUnsetAndReset(t *testing.T) {
	s := NewSubmission(Edit{"a", 1.0}, Edit{"b", true}, Edit{"c", "x"})

	assert.True(t, s.Unset("b"))
	assert.False(t, s.Unset("b"))
	assert.Equal(t, []Edit{{"a", 1.0}, {"c", "x"}}, s.Edits())

	s.Reset()
	assert.Equal(t, 0, s.Len())
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestNilSubmission(t *testing.T) {
	var s *Submission
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.EditsBaseline())
	_, ok := s.Get("a")
	assert.False(t, ok)

	data, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestSubmissionRoundTripKeepsOrder(t *testing.T) {
	var s Submission
	require.NoError(t, json.Unmarshal([]byte(`{"z": 1, "a": false, "m": "text"}`), &s))
	assert.Equal(t, []Edit{{"z", 1.0}, {"a", false}, {"m", "text"}}, s.Edits())

	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &s))
}

func TestEditsBaseline(t *testing.T) {
	s := NewSubmission(Edit{"rate_basic", 0.2})
	assert.False(t, s.EditsBaseline())
	s.Set("baseline_rate_basic", 0.19)
	assert.True(t, s.EditsBaseline())
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewSubmission(Edit{"a", 1.0})
	c := s.Clone()
	c.Set("b", 2.0)
	s.Set("a", 3.0)

	assert.Equal(t, 1, s.Len())
	v, _ := c.Get("a")
	assert.Equal(t, 1.0, v)
}
