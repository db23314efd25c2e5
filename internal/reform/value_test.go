package reform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		kind string
		in   string
		want any
	}{
		{KindNumber, "12500", 12500.0},
		{KindNumber, " 12,500 ", 12500.0},
		{KindNumber, "£250", 250.0},
		{KindPercent, "20", 0.2},
		{KindPercent, "45%", 0.45},
		{KindBool, "yes", true},
		{KindBool, "OFF", false},
		{KindText, "  hello ", "hello"},
		{"", "3.5", 3.5},
	}
	for _, tt := range tests {
		got, err := ParseValue(tt.kind, tt.in)
		require.NoError(t, err, "%s %q", tt.kind, tt.in)
		assert.InDelta(t, 0, compare(tt.want, got), 1e-9, "%s %q -> %v", tt.kind, tt.in, got)
	}
}

func compare(want, got any) float64 {
	wf, wok := want.(float64)
	gf, gok := got.(float64)
	if wok && gok {
		return wf - gf
	}
	if want == got {
		return 0
	}
	return 1
}

func TestParseValueErrors(t *testing.T) {
	for _, tc := range []struct{ kind, in string }{
		{KindNumber, ""},
		{KindNumber, "abc"},
		{KindPercent, "%"},
		{KindBool, "maybe"},
	} {
		_, err := ParseValue(tc.kind, tc.in)
		assert.Error(t, err, "%s %q", tc.kind, tc.in)
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "20%", FormatValue(KindPercent, 0.2))
	assert.Equal(t, "7%", FormatValue(KindPercent, 0.07))
	assert.Equal(t, "12500", FormatValue(KindNumber, 12500.0))
	assert.Equal(t, "yes", FormatValue(KindBool, true))
	assert.Equal(t, "no", FormatValue(KindBool, false))
	assert.Equal(t, "", FormatValue(KindNumber, nil))
	assert.Equal(t, "3", FormatValue(KindNumber, 3))
	assert.Equal(t, "x", FormatValue(KindText, "x"))
}
