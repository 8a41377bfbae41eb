// Package instance names the running process for logs and worker lock tokens.
package instance

import (
	"os"
	"sync"

	"github.com/meetpatel1235/rrrr/pkg/env"
)

var resolve = sync.OnceValue(func() string {
	if id, ok := env.Lookup("RASOI_INSTANCE_ID", "DYNO"); ok {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
})

// GetID prefers RASOI_INSTANCE_ID, then the platform dyno name, then the
// hostname. The value is resolved once per process.
func GetID() string {
	return resolve()
}
