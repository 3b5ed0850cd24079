package tracing

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestPipelineDescription(t *testing.T) {
	ctx := context.Background()
	require.Equal(t, "PIPELINE (empty)", pipelineDescription(nil))

	cmds := []redis.Cmder{
		redis.NewStringCmd(ctx, "get", "a"),
		redis.NewStatusCmd(ctx, "set", "a", "1"),
		redis.NewIntCmd(ctx, "del", "a"),
		redis.NewIntCmd(ctx, "expire", "a", 1),
	}
	require.Equal(t, "PIPELINE: GET", pipelineDescription(cmds[:1]))
	require.Equal(t, "PIPELINE: GET, SET, DEL...", pipelineDescription(cmds))
}
