package badger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/diwan/lineage"
)

func newTestSink(t *testing.T) *Sink {
	t.Helper()
	sink, err := NewMemorySink()
	require.NoError(t, err)
	t.Cleanup(func() { sink.Close() })
	return sink
}

func TestSink_RunRowRoundTrip(t *testing.T) {
	sink := newTestSink(t)
	ctx := context.Background()

	started := time.Now().UTC().Truncate(time.Second)
	row := lineage.RunRow{
		RunID:        "abc123def456",
		SourceURI:    "corpus/0001Book-ara1.markdown",
		SourceFormat: "markdown",
		StageReached: "chunk",
		Status:       "success",
		ChunkCount:   7,
		QualityScore: 0.97,
		StartedAt:    started,
		CompletedAt:  started.Add(2 * time.Second),
		DurationSecs: 2.0,
		Metadata:     map[string]string{"collection": "openiti"},
	}
	require.NoError(t, sink.InsertRunRows(ctx, []lineage.RunRow{row}))

	got, err := sink.GetRunRow(ctx, "abc123def456")
	require.NoError(t, err)
	assert.Equal(t, row, *got)
}

func TestSink_RunRowOverwrite(t *testing.T) {
	sink := newTestSink(t)
	ctx := context.Background()

	row := lineage.RunRow{RunID: "run1", Status: "error"}
	require.NoError(t, sink.InsertRunRows(ctx, []lineage.RunRow{row}))
	row.Status = "success"
	require.NoError(t, sink.InsertRunRows(ctx, []lineage.RunRow{row}))

	got, err := sink.GetRunRow(ctx, "run1")
	require.NoError(t, err)
	assert.Equal(t, "success", got.Status)
}

func TestSink_ChunkRowsOrdered(t *testing.T) {
	sink := newTestSink(t)
	ctx := context.Background()

	var rows []lineage.ChunkRow
	for i := 0; i < 12; i++ {
		rows = append(rows, lineage.ChunkRow{
			ChunkID:     fmt.Sprintf("run1_%04d", i),
			RunID:       "run1",
			ChunkIndex:  i,
			ContentHash: fmt.Sprintf("%016x", i),
			ChunkMethod: "word_overlap_300_30",
		})
	}
	// Insert out of order across two batches.
	require.NoError(t, sink.InsertChunkRows(ctx, rows[6:]))
	require.NoError(t, sink.InsertChunkRows(ctx, rows[:6]))

	// A different run must not leak into the read-back.
	require.NoError(t, sink.InsertChunkRows(ctx, []lineage.ChunkRow{
		{ChunkID: "run2_0000", RunID: "run2", ChunkIndex: 0},
	}))

	got, err := sink.ChunkRowsForRun(ctx, "run1")
	require.NoError(t, err)
	require.Len(t, got, 12)
	for i, row := range got {
		assert.Equal(t, i, row.ChunkIndex)
		assert.Equal(t, "run1", row.RunID)
	}
}

func TestSink_CancelledContext(t *testing.T) {
	sink := newTestSink(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sink.InsertRunRows(ctx, []lineage.RunRow{{RunID: "run1"}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSink_MaxBatchRows(t *testing.T) {
	sink := newTestSink(t)
	assert.Equal(t, lineage.DefaultBatchRows, sink.MaxBatchRows())
}
