package reform

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parameter value kinds understood by the editor.
const (
	KindNumber  = "number"
	KindPercent = "percent"
	KindBool    = "bool"
	KindText    = "text"
)

// ParseValue converts editor input for a parameter of the given kind.
// Percentages are entered as whole percents ("20" or "20%") and stored as
// fractions. An unknown kind is treated as a number.
func ParseValue(kind, text string) (any, error) {
	text = strings.TrimSpace(text)
	switch kind {
	case KindText:
		return text, nil
	case KindBool:
		switch strings.ToLower(text) {
		case "true", "yes", "y", "on", "1":
			return true, nil
		case "false", "no", "n", "off", "0":
			return false, nil
		}
		return nil, fmt.Errorf("%q is not a yes/no value", text)
	case KindPercent:
		f, err := parseNumber(strings.TrimSuffix(text, "%"))
		if err != nil {
			return nil, err
		}
		return f / 100, nil
	default:
		return parseNumber(text)
	}
}

func parseNumber(text string) (float64, error) {
	clean := strings.NewReplacer(",", "", "£", "", "$", "", "_", "").Replace(strings.TrimSpace(text))
	if clean == "" {
		return 0, fmt.Errorf("a value is required")
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", text)
	}
	return f, nil
}

// FormatValue renders a stored value the way the editor accepts it back.
func FormatValue(kind string, value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case float64:
		if kind == KindPercent {
			return strconv.FormatFloat(math.Round(v*100*1e6)/1e6, 'f', -1, 64) + "%"
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		if kind == KindPercent {
			return strconv.Itoa(v*100) + "%"
		}
		return strconv.Itoa(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
