package trace

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := WithContext(context.Background(), "abc")
	assert.Equal(t, "abc", FromContext(ctx))
	assert.Empty(t, FromContext(context.Background()))
}

func TestFromHeadersPrefersTraceHeader(t *testing.T) {
	assert.Equal(t, "t-1", FromHeaders("t-1", "r-1"))
	assert.Equal(t, "r-1", FromHeaders("", "r-1"))

	generated := FromHeaders("", "")
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
}
