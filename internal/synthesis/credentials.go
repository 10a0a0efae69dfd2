package synthesis

import (
	"os"
	"strings"
	"sync"
)

// Credentials resolves the primary provider key at most once. Concurrent
// callers block on the first resolution and then share its result.
type Credentials struct {
	lookup func() string

	once sync.Once
	key  string
}

func NewCredentials(lookup func() string) *Credentials {
	return &Credentials{lookup: lookup}
}

// EnvCredentials reads the key from the named environment variable.
func EnvCredentials(name string) *Credentials {
	return NewCredentials(func() string { return os.Getenv(name) })
}

// StaticCredentials always resolves to key.
func StaticCredentials(key string) *Credentials {
	return NewCredentials(func() string { return key })
}

func (c *Credentials) Resolve() (string, error) {
	if c == nil {
		return "", &Error{Kind: KindConfiguration, Err: ErrMissingCredential}
	}
	c.once.Do(func() {
		if c.lookup != nil {
			c.key = strings.TrimSpace(c.lookup())
		}
	})
	if c.key == "" {
		return "", &Error{Kind: KindConfiguration, Err: ErrMissingCredential}
	}
	return c.key, nil
}
