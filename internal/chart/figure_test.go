package chart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelDecoding(t *testing.T) {
	var labels []Label
	require.NoError(t, json.Unmarshal([]byte(`[0, 17.5, "65+", 1e2]`), &labels))
	assert.Equal(t, []Label{"0", "17.5", "65+", "100"}, labels)

	assert.Error(t, json.Unmarshal([]byte(`[true]`), &labels))
}

func TestTitleDecoding(t *testing.T) {
	var l Layout
	require.NoError(t, json.Unmarshal([]byte(`{"title": "plain", "xaxis": {"title": {"text": "Age"}}, "yaxis": {"title": null}}`), &l))
	assert.Equal(t, Title("plain"), l.Title)
	assert.Equal(t, Title("Age"), l.XAxis.Title)
	assert.Equal(t, Title(""), l.YAxis.Title)
}

func TestBars(t *testing.T) {
	assert.Nil(t, Figure{}.Bars())

	f := Figure{Data: []Series{
		{X: []Label{"a", "b", "c"}, Y: []float64{1, 2}},
		{X: []Label{"z"}, Y: []float64{9}},
	}}
	assert.Equal(t, []Bar{{"a", 1}, {"b", 2}}, f.Bars())
	assert.False(t, f.Percent())
}
