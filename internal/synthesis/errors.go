package synthesis

import (
	"errors"
	"fmt"
)

// Kind classifies failures inside synthesis. None of them reach callers of
// Generate; they decide how a request degrades.
type Kind string

const (
	KindConfiguration      Kind = "configuration"
	KindUpstream           Kind = "upstream_provider"
	KindAssetNormalization Kind = "asset_normalization"
)

var ErrMissingCredential = errors.New("missing provider credential")

type Error struct {
	Kind     Kind
	Provider string
	Err      error
}

func (e *Error) Error() string {
	if e == nil {
		return "synthesis error"
	}
	if e.Provider != "" {
		return fmt.Sprintf("%s (%s): %v", e.Kind, e.Provider, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) && se != nil {
		return se.Kind
	}
	return ""
}
