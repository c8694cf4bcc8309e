package pipeline

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunner_RequiresOrchestrator(t *testing.T) {
	_, err := NewRunner(nil)
	require.ErrorIs(t, err, ErrOrchestratorRequired)
}

func TestProcessPrefix(t *testing.T) {
	orch, backend, _ := newTestOrchestrator(t)
	ctx := context.Background()

	// Two good documents, one rejected, one undecodable, one
	// unsupported extension that must not be enumerated.
	writeSource(t, backend, "corpus/a.markdown", goodDocHeader+goodDocBody(8))
	writeSource(t, backend, "corpus/b.markdown", goodDocHeader+goodDocBody(9))
	writeSource(t, backend, "corpus/short.markdown", goodDocHeader+"# قصير\n")
	writeSource(t, backend, "corpus/empty.markdown", goodDocHeader)
	writeSource(t, backend, "corpus/skipped.pdf", "binary")

	runner, err := NewRunner(orch, WithWorkers(2))
	require.NoError(t, err)
	defer runner.Release()

	results, err := runner.ProcessPrefix(ctx, "corpus", "openiti")
	require.NoError(t, err)
	require.Len(t, results, 4)

	byStatus := map[Status]int{}
	for _, r := range results {
		require.NotNil(t, r)
		byStatus[r.Status]++
	}
	assert.Equal(t, 2, byStatus[StatusSuccess])
	assert.Equal(t, 1, byStatus[StatusRejected])
	assert.Equal(t, 1, byStatus[StatusError])

	stats := orch.Stats()
	assert.EqualValues(t, 4, stats.FilesProcessed)
	assert.EqualValues(t, 2, stats.FilesSuccess)
	assert.EqualValues(t, 1, stats.FilesRejected)
	assert.EqualValues(t, 1, stats.FilesError)
}

func TestProcessPrefix_MissingPrefix(t *testing.T) {
	orch, _, _ := newTestOrchestrator(t)

	runner, err := NewRunner(orch)
	require.NoError(t, err)
	defer runner.Release()

	_, err = runner.ProcessPrefix(context.Background(), "nowhere", "")
	require.Error(t, err)
}

func TestProcessPrefix_Progress(t *testing.T) {
	orch, backend, _ := newTestOrchestrator(t)
	writeSource(t, backend, "corpus/a.markdown", goodDocHeader+goodDocBody(8))

	var buf bytes.Buffer
	runner, err := NewRunner(orch, WithWorkers(1), WithProgress(&buf, 1))
	require.NoError(t, err)
	defer runner.Release()

	_, err = runner.ProcessPrefix(context.Background(), "corpus", "")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "1/1")
}

func TestProgressMeter(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressMeter(&buf, 10, 5)

	for i := 0; i < 4; i++ {
		p.mark()
	}
	assert.Empty(t, buf.String(), "below report interval")
	p.mark()
	assert.Contains(t, buf.String(), "5/10")
	p.finish()
	assert.Contains(t, buf.String(), "10/10")
	assert.Contains(t, buf.String(), "100.0%")
}
