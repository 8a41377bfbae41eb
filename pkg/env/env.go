// Package env reads the few process settings needed before config.Load runs.
package env

import (
	"os"
	"strings"
)

// Lookup returns the first of keys set to a non-blank value.
func Lookup(keys ...string) (string, bool) {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v, true
		}
	}
	return "", false
}
