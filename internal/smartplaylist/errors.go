package smartplaylist

import "errors"

// Structural validation errors. These fail loudly at construction or
// load time; only per-rule evaluation failures degrade silently.
var (
	// ErrUnsupportedOp marks a rule naming an unknown operator.
	ErrUnsupportedOp = errors.New("unsupported rule operator")

	// ErrInvalidMatch marks a group whose match mode is neither
	// "all" nor "any".
	ErrInvalidMatch = errors.New("invalid group match mode")

	// ErrCorruptFile marks a playlist file that could not be decoded.
	ErrCorruptFile = errors.New("corrupt smart playlist file")
)
