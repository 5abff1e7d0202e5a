package connection

import "errors"

// Identity and registry errors. These are fatal to the calling operation
// and surfaced to the caller, unlike per-task execution errors.
var (
	// ErrMalformedToken is returned when a token cannot be decoded, or
	// decodes to a value whose canonical re-encoding differs from the
	// input (i.e. the token came from a non-canonical encoder).
	ErrMalformedToken = errors.New("malformed connection token")

	// ErrUnknownConnectionType is returned when no registered capability
	// claims a connection.
	ErrUnknownConnectionType = errors.New("unknown connection type")

	// ErrSchemaFetch wraps network/auth failures while fetching a schema.
	ErrSchemaFetch = errors.New("schema fetch failed")
)
