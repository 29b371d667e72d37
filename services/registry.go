package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"telegram-sharebot/models"
)

// FileStore persists single-file registry entries.
type FileStore interface {
	Insert(ctx context.Context, f *models.StoredFile) error
	FindByCode(ctx context.Context, code string) (*models.StoredFile, error)
	UpdateCaptionByFileID(ctx context.Context, fileID, caption string) error
	DeleteByCode(ctx context.Context, code string) (bool, error)
	DeleteByFileID(ctx context.Context, fileID string) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
	All(ctx context.Context) ([]models.StoredFile, error)
}

// BatchStore persists batch registry entries.
type BatchStore interface {
	Insert(ctx context.Context, b *models.BatchEntry) error
	FindByCode(ctx context.Context, code string) (*models.BatchEntry, error)
	PushFiles(ctx context.Context, code string, files []models.BatchFile) error
	SetFiles(ctx context.Context, code string, files []models.BatchFile) error
	DeleteByCode(ctx context.Context, code string) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
	All(ctx context.Context) ([]models.BatchEntry, error)
}

// PurgeScope selects what Purge wipes.
type PurgeScope string

const (
	PurgeAll     PurgeScope = "all"
	PurgeSingles PurgeScope = "singles"
	PurgeBatches PurgeScope = "batches"
)

// codeAttempts bounds collision retries before giving up with
// ErrDuplicateCode.
const codeAttempts = 5

// Registry maps short codes to stored files and batches. It owns
// collision handling: the generator stays a single code path and the
// registry regenerates with a fresh salt until the code is unused.
type Registry struct {
	files   FileStore
	batches BatchStore
	gen     CodeGenerator
	log     *zap.Logger
}

func NewRegistry(files FileStore, batches BatchStore, gen CodeGenerator, log *zap.Logger) *Registry {
	return &Registry{files: files, batches: batches, gen: gen, log: log}
}

// CreateSingle inserts a single-file entry and returns its assigned
// code.
func (r *Registry) CreateSingle(ctx context.Context, f *models.StoredFile) (string, error) {
	code, err := r.assignCode(ctx, f.FileID, f.OwnerID, func(ctx context.Context, code string) (bool, error) {
		_, err := r.files.FindByCode(ctx, code)
		if err == ErrNotFound {
			return false, nil
		}
		return err == nil, err
	})
	if err != nil {
		return "", err
	}

	f.Code = code
	if err := r.files.Insert(ctx, f); err != nil {
		return "", fmt.Errorf("insert file: %w", err)
	}
	return code, nil
}

// CreateBatch inserts a batch entry and returns its assigned code.
// Fails with ErrEmptyBatch when files is empty.
func (r *Registry) CreateBatch(ctx context.Context, files []models.BatchFile, ownerID int64) (string, error) {
	if len(files) == 0 {
		return "", ErrEmptyBatch
	}

	var key strings.Builder
	for _, f := range files {
		key.WriteString(f.FileID)
		key.WriteString(",")
	}

	code, err := r.assignCode(ctx, key.String(), ownerID, func(ctx context.Context, code string) (bool, error) {
		_, err := r.batches.FindByCode(ctx, code)
		if err == ErrNotFound {
			return false, nil
		}
		return err == nil, err
	})
	if err != nil {
		return "", err
	}

	entry := &models.BatchEntry{Code: code, Files: files, OwnerID: ownerID}
	if err := r.batches.Insert(ctx, entry); err != nil {
		return "", fmt.Errorf("insert batch: %w", err)
	}
	return code, nil
}

func (r *Registry) assignCode(ctx context.Context, contentKey string, ownerID int64, taken func(context.Context, string) (bool, error)) (string, error) {
	key := contentKey
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code := r.gen.Generate(key, ownerID)
		used, err := taken(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check code: %w", err)
		}
		if !used {
			return code, nil
		}
		r.log.Warn("short code collision, regenerating",
			zap.String("code", code), zap.Int("attempt", attempt+1))
		key = contentKey + ":" + uuid.NewString()
	}
	return "", ErrDuplicateCode
}

// AppendToBatch adds files to an existing batch and returns the updated
// file count.
func (r *Registry) AppendToBatch(ctx context.Context, code string, files []models.BatchFile) (int, error) {
	entry, err := r.batches.FindByCode(ctx, code)
	if err != nil {
		return 0, err
	}
	if err := r.batches.PushFiles(ctx, code, files); err != nil {
		return 0, fmt.Errorf("append to batch: %w", err)
	}
	return len(entry.Files) + len(files), nil
}

// UpdateFileCaption replaces the stored caption of the single-file row
// holding this file ref. Missing rows are fine; the caption-edit flow
// also handles files that were never registered individually.
func (r *Registry) UpdateFileCaption(ctx context.Context, fileID, caption string) error {
	return r.files.UpdateCaptionByFileID(ctx, fileID, caption)
}

// PrependBatchCaptions prepends text to the caption of every file in a
// batch, mirroring the change into matching single-file rows. Returns
// the number of updated files.
func (r *Registry) PrependBatchCaptions(ctx context.Context, code, text string) (int, error) {
	entry, err := r.batches.FindByCode(ctx, code)
	if err != nil {
		return 0, err
	}
	if len(entry.Files) == 0 {
		return 0, ErrEmptyBatch
	}

	updated := make([]models.BatchFile, len(entry.Files))
	for i, f := range entry.Files {
		if f.Caption != "" {
			f.Caption = text + " " + f.Caption
		} else {
			f.Caption = text
		}
		updated[i] = f

		if err := r.files.UpdateCaptionByFileID(ctx, f.FileID, f.Caption); err != nil {
			r.log.Warn("mirror caption update failed",
				zap.String("file_id", f.FileID), zap.Error(err))
		}
	}

	if err := r.batches.SetFiles(ctx, code, updated); err != nil {
		return 0, fmt.Errorf("update batch captions: %w", err)
	}
	return len(updated), nil
}

// ResolveFile looks up a single-file entry by code.
func (r *Registry) ResolveFile(ctx context.Context, code string) (*models.StoredFile, error) {
	return r.files.FindByCode(ctx, code)
}

// ResolveBatch looks up a batch entry by code.
func (r *Registry) ResolveBatch(ctx context.Context, code string) (*models.BatchEntry, error) {
	return r.batches.FindByCode(ctx, code)
}

// Delete removes an entry by code. Deleting a batch also removes any
// single-file rows mirroring the batch's file refs, best-effort: a
// missing mirror is not an error. Returns whether anything was deleted.
func (r *Registry) Delete(ctx context.Context, code string, isBatch bool) (bool, error) {
	if !isBatch {
		return r.files.DeleteByCode(ctx, code)
	}

	entry, err := r.batches.FindByCode(ctx, code)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	for _, f := range entry.Files {
		if _, err := r.files.DeleteByFileID(ctx, f.FileID); err != nil {
			r.log.Warn("cascade delete of mirrored file failed",
				zap.String("file_id", f.FileID), zap.Error(err))
		}
	}
	return r.batches.DeleteByCode(ctx, code)
}

// Purge wipes registry entries in bulk. Admin-only, irreversible.
func (r *Registry) Purge(ctx context.Context, scope PurgeScope) (int64, error) {
	var total int64
	if scope == PurgeAll || scope == PurgeSingles {
		n, err := r.files.DeleteAll(ctx)
		if err != nil {
			return total, err
		}
		total += n
	}
	if scope == PurgeAll || scope == PurgeBatches {
		n, err := r.batches.DeleteAll(ctx)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// Counts returns the number of single files and batches.
func (r *Registry) Counts(ctx context.Context) (files, batches int64, err error) {
	files, err = r.files.Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	batches, err = r.batches.Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	return files, batches, nil
}
