package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoOpStore(t *testing.T) {
	s := NewNoOpStore()
	ctx := context.Background()

	saved, err := s.SaveTranscript(ctx, Transcript{App: "travel", Mode: "tips", Response: "Pack light"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Equal(t, "Pack light", saved.Response)

	list, err := s.ListTranscripts(ctx, "travel", 10)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)

	assert.NoError(t, s.Close())
}

func TestNonNil(t *testing.T) {
	assert.Equal(t, []string{}, nonNil(nil))
	assert.Equal(t, []string{"a.pdf"}, nonNil([]string{"a.pdf"}))
}
