// Package envvar applies environment variable overrides to config fields.
// An empty key or an unset or empty variable leaves the field unchanged, as
// does a value that fails to parse.
package envvar

import (
	"os"
	"strconv"
	"strings"
)

// Lookup returns the value of key when key is named and its variable is non-empty.
func Lookup(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	v := os.Getenv(key)
	return v, v != ""
}

// String overrides *dst with the value of key.
func String(dst *string, key string) {
	if v, ok := Lookup(key); ok {
		*dst = v
	}
}

// Int overrides *dst with the integer value of key.
func Int[T ~int | ~int32 | ~int64](dst *T, key string) {
	v, ok := Lookup(key)
	if !ok {
		return
	}
	if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
		*dst = T(n)
	}
}

// Bool overrides *dst with the boolean value of key.
func Bool(dst *bool, key string) {
	v, ok := Lookup(key)
	if !ok {
		return
	}
	if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
		*dst = b
	}
}

// List overrides *dst with the comma-separated values of key. Blank
// entries are dropped.
func List(dst *[]string, key string) {
	v, ok := Lookup(key)
	if !ok {
		return
	}
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}
