package manifest

import (
	"bytes"
	"encoding/json"
	"math"
)

// Key is a natural identifier from the export. Upstream writes them as strings
// or numbers depending on the node, so both are accepted.
type Key struct {
	text   string
	truthy bool
}

// NewKey builds a Key from a string value.
func NewKey(s string) Key {
	return Key{text: s, truthy: s != ""}
}

func (k *Key) UnmarshalJSON(b []byte) error {
	v, err := decodeValue(b)
	if err != nil {
		return err
	}
	k.truthy = Truthy(v)
	switch t := v.(type) {
	case nil:
		k.text = ""
	case string:
		k.text = t
	case json.Number:
		k.text = formatNumber(t)
	case bool:
		if t {
			k.text = "true"
		} else {
			k.text = "false"
		}
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, b); err != nil {
			return err
		}
		k.text = buf.String()
	}
	return nil
}

func (k Key) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.text)
}

func (k Key) String() string { return k.text }

// Truthy reports whether the key would count as present in the upstream tool:
// null, "", 0 and false do not.
func (k Key) Truthy() bool { return k.truthy }

// FirstTruthy returns the first present key in precedence order.
func FirstTruthy(keys ...Key) (string, bool) {
	for _, k := range keys {
		if k.truthy {
			return k.text, true
		}
	}
	return "", false
}

// Truthy applies the upstream presence rule to a decoded JSON value.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String() != ""
		}
		return f != 0 && !math.IsNaN(f)
	case float64:
		return t != 0 && !math.IsNaN(t)
	default:
		return true
	}
}

func decodeValue(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
