package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safartravel/safar/plugin/llm"
	"github.com/safartravel/safar/plugin/llm/llmtest"
	"github.com/safartravel/safar/server/agent"
)

type countingListener struct {
	open atomic.Int64
}

func (l *countingListener) SessionOpened() { l.open.Add(1) }
func (l *countingListener) SessionClosed() { l.open.Add(-1) }

func newManager(t *testing.T, model llm.Model) (*Manager, *countingListener) {
	t.Helper()
	registry, err := agent.NewRegistry(nil)
	require.NoError(t, err)
	cfg := AgentConfig{
		Model:    model,
		Registry: registry,
		Now:      func() time.Time { return time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC) },
	}
	l := &countingListener{}
	return NewManager(cfg.NewAgent, l), l
}

func TestManager_Lifecycle(t *testing.T) {
	t.Parallel()

	m, l := newManager(t, llmtest.NewScriptedModel())
	a := m.Create("alice")
	b := m.Create("")
	assert.NotEqual(t, a.UID, b.UID)
	assert.Equal(t, 2, m.Count())
	assert.EqualValues(t, 2, l.open.Load())

	got, err := m.Get(a.UID, "alice")
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = m.Get(a.UID, "mallory")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, m.Delete(a.UID, "mallory"), ErrNotFound)

	require.NoError(t, m.Delete(a.UID, "alice"))
	_, err = m.Get(a.UID, "alice")
	require.ErrorIs(t, err, ErrNotFound)
	assert.EqualValues(t, 1, l.open.Load())
}

func TestManager_IndependentHistories(t *testing.T) {
	t.Parallel()

	model := llmtest.NewScriptedModel(llmtest.Text("one"), llmtest.Text("two"), llmtest.Text("three"))
	m, _ := newManager(t, model)
	a, b := m.Create(""), m.Create("")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := a.Agent.Process(context.Background(), "from a")
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := b.Agent.Process(context.Background(), "from b")
		assert.NoError(t, err)
	}()
	wg.Wait()
	_, err := a.Agent.Process(context.Background(), "again from a")
	require.NoError(t, err)

	assert.Len(t, a.Agent.Messages(), 5)
	assert.Len(t, b.Agent.Messages(), 3)
	assert.Contains(t, a.Agent.Messages()[0].Content, "2026-10-19")
}
