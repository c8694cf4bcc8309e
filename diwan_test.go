package diwan

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/diwan/config"
	"github.com/poiesic/diwan/pipeline"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Root = t.TempDir()
	cfg.Lineage.Path = filepath.Join(t.TempDir(), "lineage")
	return cfg
}

func TestNewPipeline(t *testing.T) {
	p, err := NewPipeline(testConfig(t))
	require.NoError(t, err)
	defer p.Close()

	require.NotNil(t, p.Orchestrator())
	require.NotNil(t, p.Storage())
}

func TestNewPipeline_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Chunking.Overlap = cfg.Chunking.Size
	_, err := NewPipeline(cfg)
	require.Error(t, err)
}

func TestNewPipeline_LineageDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Lineage.Enabled = false
	cfg.Lineage.Path = ""

	p, err := NewPipeline(cfg)
	require.NoError(t, err)
	defer p.Close()

	// Processing works end to end without a sink.
	doc := "######OpenITI#\n\n#META# 000.BookURI :: 0001Test\n#META#Header#End#\n\n" +
		"# قال العلم نور والجهل ظلام فاطلبوا العلم من المهد الي اللحد والصبر مفتاح الفرج والعجله من الشيطان ومن جد وجد ومن زرع حصد ومن سار علي الدرب وصل؛\n"
	_, err = p.Storage().UploadText(context.Background(), "corpus/book.markdown", doc)
	require.NoError(t, err)

	r := p.Orchestrator().ProcessFile(context.Background(), "corpus/book.markdown", "test")
	assert.Equal(t, pipeline.StatusSuccess, r.Status)
}
