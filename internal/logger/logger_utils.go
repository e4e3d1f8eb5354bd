package logger

import (
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Fields logs an arbitrary map, such as MCP tool arguments, as a nested
// object with keys in sorted order.
type Fields map[string]any

func (f Fields) MarshalZerologObject(e *zerolog.Event) {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch v := f[key].(type) {
		case string:
			e.Str(key, v)
		case []string:
			e.Strs(key, v)
		case time.Duration:
			e.Str(key, v.String())
		case nil:
			e.Interface(key, nil)
		default:
			e.Interface(key, v)
		}
	}
}
