package ports

import "context"

// DocumentWriter merges data into the file at path and atomically replaces it.
// For .json targets it returns the resulting document; for any other target
// data is appended as one line and the result is true.
//
// Implementations do not serialize concurrent callers: two writes to the
// same path race and the last replacement wins.
type DocumentWriter interface {
	Write(ctx context.Context, data any, path string) (any, error)
}
