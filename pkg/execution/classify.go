package execution

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/txn2/kusto-notebook/pkg/kusto"
)

// ErrorKind labels the stable execution error taxonomy.
type ErrorKind string

// Error kinds.
const (
	ErrInvalidQuery   ErrorKind = "InvalidQuery"
	ErrAuthentication ErrorKind = "AuthenticationError"
	ErrQueryTimeout   ErrorKind = "QueryTimeout"
	ErrServer         ErrorKind = "ServerError"
	ErrGeneric        ErrorKind = "GenericQueryError"
)

// ErrorArtifact is the {name, message} payload of an error output.
type ErrorArtifact struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ClassifyError maps a query failure into the taxonomy. The match order
// is fixed: HTTP-shaped errors by status first, then engine-reported
// errors (message plus optional inner detail), then everything else as
// generic.
func ClassifyError(err error) ErrorArtifact {
	var httpErr *kusto.HTTPError
	if errors.As(err, &httpErr) {
		kind := kindForStatus(httpErr.StatusCode)
		msg := httpErr.Message()
		if msg == "" {
			msg = fmt.Sprintf("query failed with status %d", httpErr.StatusCode)
		}
		return ErrorArtifact{Name: string(kind), Message: msg}
	}

	var engErr *kusto.EngineError
	if errors.As(err, &engErr) {
		return ErrorArtifact{Name: string(ErrGeneric), Message: engErr.Error()}
	}

	return ErrorArtifact{Name: string(ErrGeneric), Message: err.Error()}
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusBadRequest:
		return ErrInvalidQuery
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrAuthentication
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return ErrQueryTimeout
	case status >= 500:
		return ErrServer
	default:
		return ErrGeneric
	}
}
