package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *PipelineError
		want string
	}{
		{
			name: "with resource",
			err:  NewCollectionNotFoundError("reviews"),
			want: "[collection_not_found] reviews: collection does not exist in source database",
		},
		{
			name: "without resource",
			err:  &PipelineError{Kind: KindConnection, Message: "boom"},
			want: "[connection] boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestPipelineError_Unwrap(t *testing.T) {
	cause := stderrors.New("dial tcp: connection refused")
	err := NewConnectionError("mongodb://localhost:27017", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Unwrap())
}

func TestKindOf(t *testing.T) {
	sinkErr := NewSinkWriteError("sqlite", stderrors.New("disk full"))
	wrapped := fmt.Errorf("load stage: %w", sinkErr)

	assert.Equal(t, KindSinkWrite, KindOf(sinkErr))
	assert.Equal(t, KindSinkWrite, KindOf(wrapped))
	assert.Equal(t, KindUnknown, KindOf(stderrors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("extract: %w", NewCollectionNotFoundError("calendar"))

	assert.True(t, IsKind(err, KindCollectionNotFound))
	assert.False(t, IsKind(err, KindConnection))
}
