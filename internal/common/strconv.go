package common

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryInt returns the first of names present in q parsed as an int, or def when
// none is present or the value is not a number.
func QueryInt(q url.Values, def int, names ...string) int {
	for _, name := range names {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			continue
		}
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return def
		}
		return parsed
	}
	return def
}
