package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/KotFed0t/portfolio_dashboard_bot/utils"
	"github.com/stretchr/testify/assert"
)

func TestTaskWithRecoverSetsRequestID(t *testing.T) {
	var rqID string
	task := taskWithRecover(func(ctx context.Context) error {
		rqID = utils.GetRequestIDFromCtx(ctx)
		return errors.New("failed")
	}, "test")

	task(context.Background())

	assert.NotEmpty(t, rqID)
}

func TestTaskWithRecoverSwallowsPanic(t *testing.T) {
	task := taskWithRecover(func(ctx context.Context) error {
		panic("boom")
	}, "test")

	assert.NotPanics(t, func() { task(context.Background()) })
}
