package chart

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Result is the age chart endpoint's response.
type Result struct {
	AgeChart Figure `json:"age_chart"`
}

// Figure is a plotly-style figure: one or more series plus layout.
type Figure struct {
	Data   []Series `json:"data"`
	Layout Layout   `json:"layout"`
}

// Series is one trace of a figure.
type Series struct {
	Name string    `json:"name,omitempty"`
	Type string    `json:"type,omitempty"`
	X    []Label   `json:"x"`
	Y    []float64 `json:"y"`
}

// Layout carries the presentational bits the terminal plot uses.
type Layout struct {
	Title Title `json:"title"`
	XAxis Axis  `json:"xaxis"`
	YAxis Axis  `json:"yaxis"`
}

// Axis holds an axis title and tick format.
type Axis struct {
	Title      Title  `json:"title"`
	TickFormat string `json:"tickformat,omitempty"`
}

// Title accepts both the plain string and the {"text": ...} plotly forms.
type Title string

func (t *Title) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*t = Title(obj.Text)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = Title(s)
	return nil
}

// Label is an x value: ages arrive as numbers, bands as strings.
type Label string

func (l *Label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Label(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*l = Label(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// Bar is one plotted point.
type Bar struct {
	Label string
	Value float64
}

// Bars flattens the first series of the figure, pairing x and y up to the
// shorter of the two.
func (f Figure) Bars() []Bar {
	if len(f.Data) == 0 {
		return nil
	}
	s := f.Data[0]
	n := len(s.X)
	if len(s.Y) < n {
		n = len(s.Y)
	}
	bars := make([]Bar, n)
	for i := 0; i < n; i++ {
		bars[i] = Bar{Label: string(s.X[i]), Value: s.Y[i]}
	}
	return bars
}

// Percent reports whether the y axis is formatted as a percentage.
func (f Figure) Percent() bool {
	return strings.Contains(f.Layout.YAxis.TickFormat, "%")
}
