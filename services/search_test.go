package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-sharebot/models"
)

func newTestSearch(t *testing.T) (*Search, *memFileStore, *memBatchStore) {
	t.Helper()
	files := newMemFileStore()
	batches := newMemBatchStore()
	return NewSearch(files, batches), files, batches
}

func TestSearchRanksByScore(t *testing.T) {
	ctx := context.Background()
	s, files, _ := newTestSearch(t)

	require.NoError(t, files.Insert(ctx, &models.StoredFile{
		FileID: "f1", Code: "11111111", FileName: "Avengers Endgame 2019.mkv"}))
	require.NoError(t, files.Insert(ctx, &models.StoredFile{
		FileID: "f2", Code: "22222222", Caption: "Avengers Infinity War"}))
	require.NoError(t, files.Insert(ctx, &models.StoredFile{
		FileID: "f3", Code: "33333333", FileName: "totally unrelated.pdf"}))

	results, err := s.Run(ctx, "Avengers")
	require.NoError(t, err)
	require.Len(t, results.Files, 2)

	for _, m := range results.Files {
		assert.Greater(t, m.Score, SearchThreshold)
		assert.NotEqual(t, "f3", m.File.FileID)
	}
	assert.GreaterOrEqual(t, results.Files[0].Score, results.Files[1].Score)
}

func TestSearchMatchesInsideBatches(t *testing.T) {
	ctx := context.Background()
	s, _, batches := newTestSearch(t)

	require.NoError(t, batches.Insert(ctx, &models.BatchEntry{
		Code: "aaaaaaaa",
		Files: []models.BatchFile{
			{FileID: "f1", FileName: "Avengers E01.mkv"},
			{FileID: "f2", FileName: "unrelated.txt"},
		},
	}))
	require.NoError(t, batches.Insert(ctx, &models.BatchEntry{
		Code:  "bbbbbbbb",
		Files: []models.BatchFile{{FileID: "f3", FileName: "nothing here"}},
	}))

	results, err := s.Run(ctx, "Avengers")
	require.NoError(t, err)
	require.Len(t, results.Batches, 1)

	match := results.Batches[0]
	assert.Equal(t, "aaaaaaaa", match.Batch.Code)
	require.Len(t, match.Matching, 1)
	assert.Equal(t, "f1", match.Matching[0].File.FileID)
}

func TestSearchEmptyResults(t *testing.T) {
	ctx := context.Background()
	s, files, _ := newTestSearch(t)

	require.NoError(t, files.Insert(ctx, &models.StoredFile{
		FileID: "f1", Code: "11111111", FileName: "Avengers.mkv"}))

	results, err := s.Run(ctx, "zzzzqqqq")
	require.NoError(t, err)
	assert.True(t, results.Empty())
	assert.Equal(t, 1, results.TotalPages(ViewAll))
}

func TestSearchPagination(t *testing.T) {
	r := &SearchResults{Query: "x"}
	for i := 0; i < 7; i++ {
		r.Files = append(r.Files, FileMatch{File: models.StoredFile{FileID: string(rune('a' + i))}, Score: 90 - i})
	}
	r.Batches = append(r.Batches, BatchMatch{Batch: models.BatchEntry{Code: "aaaaaaaa"}, Score: 80})

	// 8 combined items at 5 per page.
	assert.Equal(t, 2, r.TotalPages(ViewAll))

	files, batches := r.Page(0, ViewAll)
	assert.Len(t, files, 5)
	assert.Empty(t, batches)

	files, batches = r.Page(1, ViewAll)
	assert.Len(t, files, 2)
	assert.Len(t, batches, 1)
}

func TestSearchViewModes(t *testing.T) {
	r := &SearchResults{
		Files:   []FileMatch{{Score: 90}, {Score: 85}},
		Batches: []BatchMatch{{Score: 80}},
	}

	files, batches := r.Page(0, ViewSingle)
	assert.Len(t, files, 2)
	assert.Empty(t, batches)

	files, batches = r.Page(0, ViewBatch)
	assert.Empty(t, files)
	assert.Len(t, batches, 1)

	assert.Equal(t, 1, r.TotalPages(ViewSingle))
	assert.Equal(t, 1, r.TotalPages(ViewBatch))
}
