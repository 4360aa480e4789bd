package manifest

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Text is a display field of a node. The upstream tool coerces whatever it
// finds, so numbers and booleans are accepted and stringified instead of
// failing the whole manifest.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	v, err := decodeValue(b)
	if err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*t = ""
	case string:
		*t = Text(x)
	case json.Number:
		*t = Text(formatNumber(x))
	case bool:
		*t = Text(strconv.FormatBool(x))
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, b); err != nil {
			return err
		}
		*t = Text(buf.String())
	}
	return nil
}

func (t Text) String() string { return string(t) }

// formatNumber renders a JSON number the way the upstream tool prints it:
// 1.0 becomes "1" and 1e3 becomes "1000". Values outside the plain decimal
// range keep their written form.
func formatNumber(n json.Number) string {
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return n.String()
	}
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs < 1e-6 || abs >= 1e21 {
		return n.String()
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
