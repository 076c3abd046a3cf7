package automod

import "errors"

// Backend implementations wrap their transport errors with these
// sentinels so the pipeline can apply the tolerance rules: not-found
// targets are treated as already satisfied, forbidden actions are
// logged and abandoned.
var (
	ErrNotFound  = errors.New("automod: target not found")
	ErrForbidden = errors.New("automod: insufficient permissions")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}
