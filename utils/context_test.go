package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	assert.Empty(t, GetRequestIDFromCtx(context.Background()))
	assert.Equal(t, "rq-1", GetRequestIDFromCtx(WithRqID(context.Background(), "rq-1")))

	first := GetRequestIDFromCtx(NewCtxWithRqID(context.Background()))
	second := GetRequestIDFromCtx(NewCtxWithRqID(context.Background()))
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
