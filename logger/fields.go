package logger

import (
	"fmt"
	"log/slog"
)

// busByteKeys name the fields that carry a 7-bit slave address or a command code.
var busByteKeys = map[string]bool{"addr": true, "cmd": true}

// busFields returns keysAndValues with integer "addr" and "cmd" values rendered as
// "0x%02X". The input slice is not modified.
func busFields(keysAndValues []any) []any {
	var out []any
	for i := 0; i < len(keysAndValues); i++ {
		if _, ok := keysAndValues[i].(slog.Attr); ok {
			continue
		}
		key, ok := keysAndValues[i].(string)
		if !ok || i+1 >= len(keysAndValues) {
			continue
		}
		i++
		if !busByteKeys[key] {
			continue
		}
		s, ok := hexByte(keysAndValues[i])
		if !ok {
			continue
		}
		if out == nil {
			out = append([]any(nil), keysAndValues...)
		}
		out[i] = s
	}

	if out == nil {
		return keysAndValues
	}

	return out
}

func hexByte(v any) (string, bool) {
	var n uint64
	switch x := v.(type) {
	case uint8:
		n = uint64(x)
	case uint16:
		n = uint64(x)
	case uint:
		n = uint64(x)
	case int:
		if x < 0 {
			return "", false
		}
		n = uint64(x)
	default:
		return "", false
	}

	return fmt.Sprintf("0x%02X", n), true
}
