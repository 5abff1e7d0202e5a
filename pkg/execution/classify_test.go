package execution

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/txn2/kusto-notebook/pkg/kusto"
)

func TestClassifyErrorHTTPStatuses(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorKind
	}{
		{400, ErrInvalidQuery},
		{401, ErrAuthentication},
		{403, ErrAuthentication},
		{408, ErrQueryTimeout},
		{504, ErrQueryTimeout},
		{500, ErrServer},
		{503, ErrServer},
		{404, ErrGeneric},
		{429, ErrGeneric},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			artifact := ClassifyError(&kusto.HTTPError{StatusCode: tt.status})
			assert.Equal(t, string(tt.want), artifact.Name)
		})
	}
}

func TestClassifyErrorMessageFallback(t *testing.T) {
	// No payload message: a default mentioning the status stands in, so
	// the artifact message is never empty.
	artifact := ClassifyError(&kusto.HTTPError{StatusCode: 401})
	assert.Equal(t, "query failed with status 401", artifact.Message)

	withPayload := ClassifyError(&kusto.HTTPError{
		StatusCode: 400,
		Data:       kusto.ErrorData{Error: &kusto.ErrorDetail{AtMessage: "bad syntax"}},
	})
	assert.Equal(t, "bad syntax", withPayload.Message)
}

func TestClassifyErrorWrappedHTTPError(t *testing.T) {
	wrapped := fmt.Errorf("running cell: %w", &kusto.HTTPError{StatusCode: 403})
	artifact := ClassifyError(wrapped)
	assert.Equal(t, string(ErrAuthentication), artifact.Name)
}

func TestClassifyErrorEngineError(t *testing.T) {
	err := &kusto.EngineError{
		Message: "partial failure",
		Inner:   &kusto.InnerError{Message: "shard offline"},
	}
	artifact := ClassifyError(err)
	assert.Equal(t, string(ErrGeneric), artifact.Name)
	assert.Equal(t, "partial failure (shard offline)", artifact.Message)
}

func TestClassifyErrorGeneric(t *testing.T) {
	artifact := ClassifyError(errors.New("connection refused"))
	assert.Equal(t, string(ErrGeneric), artifact.Name)
	assert.Equal(t, "connection refused", artifact.Message)
}
