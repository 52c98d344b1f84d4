package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safartravel/safar/server/agent"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.TurnDone(agent.OutcomeReply)
	m.TurnDone(agent.OutcomeReply)
	m.TurnDone(agent.OutcomeMaxSteps)
	m.ToolDone("book_ticket", "success")
	m.ToolDone("cancel_ticket", "error")
	m.CompletionDone(200*time.Millisecond, nil)
	m.CompletionDone(time.Second, errors.New("timeout"))
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	assert.InDelta(t, 2, testutil.ToFloat64(m.turns.WithLabelValues(agent.OutcomeReply)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.turns.WithLabelValues(agent.OutcomeMaxSteps)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.toolCalls.WithLabelValues("book_ticket", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.activeSessions), 0)

	n, err := testutil.GatherAndCount(reg, "safar_completion_latency_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
