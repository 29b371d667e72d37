package services

import (
	"context"
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"telegram-sharebot/models"
)

const (
	// SearchThreshold is the minimum partial-ratio score (out of 100)
	// for a candidate to count as a match.
	SearchThreshold = 70
	// SearchPageSize is how many combined items one result page shows.
	SearchPageSize = 5
)

// ViewMode narrows a result set to singles, batches, or both.
type ViewMode string

const (
	ViewAll    ViewMode = "all"
	ViewSingle ViewMode = "single"
	ViewBatch  ViewMode = "batch"
)

type FileMatch struct {
	File  models.StoredFile
	Score int
}

type ScoredBatchFile struct {
	File  models.BatchFile
	Score int
}

type BatchMatch struct {
	Batch    models.BatchEntry
	Score    int
	Matching []ScoredBatchFile
}

// SearchResults is one query's ranked matches, kept around per user for
// pagination.
type SearchResults struct {
	Query   string
	Files   []FileMatch
	Batches []BatchMatch
}

// Search ranks stored items by text similarity against a query. A
// linear scan with a threshold, not a search engine.
type Search struct {
	files   FileStore
	batches BatchStore
}

func NewSearch(files FileStore, batches BatchStore) *Search {
	return &Search{files: files, batches: batches}
}

// Run scores every stored file and batch against the query. A candidate
// matches when its best field score (display name or caption) clears
// the threshold; a batch matches when any of its files does and ranks
// by its best file. Sorting is stable descending, so ties keep
// encounter order.
func (s *Search) Run(ctx context.Context, query string) (*SearchResults, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	results := &SearchResults{Query: query}

	files, err := s.files.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if score := fieldScore(query, f.FileName, f.Caption); score > SearchThreshold {
			results.Files = append(results.Files, FileMatch{File: f, Score: score})
		}
	}
	sort.SliceStable(results.Files, func(i, j int) bool {
		return results.Files[i].Score > results.Files[j].Score
	})

	batches, err := s.batches.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range batches {
		var matching []ScoredBatchFile
		best := 0
		for _, f := range b.Files {
			if score := fieldScore(query, f.FileName, f.Caption); score > SearchThreshold {
				matching = append(matching, ScoredBatchFile{File: f, Score: score})
				if score > best {
					best = score
				}
			}
		}
		if len(matching) == 0 {
			continue
		}
		sort.SliceStable(matching, func(i, j int) bool {
			return matching[i].Score > matching[j].Score
		})
		results.Batches = append(results.Batches, BatchMatch{Batch: b, Score: best, Matching: matching})
	}
	sort.SliceStable(results.Batches, func(i, j int) bool {
		return results.Batches[i].Score > results.Batches[j].Score
	})

	return results, nil
}

func fieldScore(query, fileName, caption string) int {
	best := 0
	if fileName != "" {
		if score := fuzzy.PartialRatio(query, strings.ToLower(fileName)); score > best {
			best = score
		}
	}
	if caption != "" {
		if score := fuzzy.PartialRatio(query, strings.ToLower(caption)); score > best {
			best = score
		}
	}
	return best
}

// Empty reports whether the query matched nothing.
func (r *SearchResults) Empty() bool {
	return len(r.Files) == 0 && len(r.Batches) == 0
}

// TotalPages returns the page count for a view mode.
func (r *SearchResults) TotalPages(mode ViewMode) int {
	files, batches := r.filtered(mode)
	total := len(files) + len(batches)
	pages := (total + SearchPageSize - 1) / SearchPageSize
	if pages == 0 {
		pages = 1
	}
	return pages
}

// Page slices one page out of the combined files-then-batches sequence
// for the given view mode.
func (r *SearchResults) Page(page int, mode ViewMode) (files []FileMatch, batches []BatchMatch) {
	allFiles, allBatches := r.filtered(mode)
	start := page * SearchPageSize
	end := start + SearchPageSize

	for i := start; i < end && i < len(allFiles)+len(allBatches); i++ {
		if i < len(allFiles) {
			files = append(files, allFiles[i])
		} else {
			batches = append(batches, allBatches[i-len(allFiles)])
		}
	}
	return files, batches
}

func (r *SearchResults) filtered(mode ViewMode) ([]FileMatch, []BatchMatch) {
	switch mode {
	case ViewSingle:
		return r.Files, nil
	case ViewBatch:
		return nil, r.Batches
	default:
		return r.Files, r.Batches
	}
}
