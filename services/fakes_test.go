package services

import (
	"context"
	"fmt"
	"sync"

	"telegram-sharebot/models"
)

// In-memory store fakes shared by the service tests. They mirror the
// Mongo implementations' contracts: lookups miss with ErrNotFound,
// caption updates on absent file IDs are a no-op.

type memFileStore struct {
	mu    sync.Mutex
	files map[string]*models.StoredFile
}

func newMemFileStore() *memFileStore {
	return &memFileStore{files: make(map[string]*models.StoredFile)}
}

func (s *memFileStore) Insert(_ context.Context, f *models.StoredFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *f
	s.files[f.Code] = &cp
	return nil
}

func (s *memFileStore) FindByCode(_ context.Context, code string) (*models.StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[code]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (s *memFileStore) UpdateCaptionByFileID(_ context.Context, fileID, caption string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.files {
		if f.FileID == fileID {
			f.Caption = caption
		}
	}
	return nil
}

func (s *memFileStore) DeleteByCode(_ context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[code]; !ok {
		return false, nil
	}
	delete(s.files, code)
	return true, nil
}

func (s *memFileStore) DeleteByFileID(_ context.Context, fileID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for code, f := range s.files {
		if f.FileID == fileID {
			delete(s.files, code)
			return true, nil
		}
	}
	return false, nil
}

func (s *memFileStore) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.files))
	s.files = make(map[string]*models.StoredFile)
	return n, nil
}

func (s *memFileStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.files)), nil
}

func (s *memFileStore) All(_ context.Context) ([]models.StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.StoredFile, 0, len(s.files))
	for _, f := range s.files {
		out = append(out, *f)
	}
	return out, nil
}

type memBatchStore struct {
	mu      sync.Mutex
	batches map[string]*models.BatchEntry
}

func newMemBatchStore() *memBatchStore {
	return &memBatchStore{batches: make(map[string]*models.BatchEntry)}
}

func (s *memBatchStore) Insert(_ context.Context, b *models.BatchEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *b
	cp.Files = append([]models.BatchFile(nil), b.Files...)
	s.batches[b.Code] = &cp
	return nil
}

func (s *memBatchStore) FindByCode(_ context.Context, code string) (*models.BatchEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[code]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	cp.Files = append([]models.BatchFile(nil), b.Files...)
	return &cp, nil
}

func (s *memBatchStore) PushFiles(_ context.Context, code string, files []models.BatchFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[code]
	if !ok {
		return ErrNotFound
	}
	b.Files = append(b.Files, files...)
	return nil
}

func (s *memBatchStore) SetFiles(_ context.Context, code string, files []models.BatchFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[code]
	if !ok {
		return ErrNotFound
	}
	b.Files = append([]models.BatchFile(nil), files...)
	return nil
}

func (s *memBatchStore) DeleteByCode(_ context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.batches[code]; !ok {
		return false, nil
	}
	delete(s.batches, code)
	return true, nil
}

func (s *memBatchStore) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.batches))
	s.batches = make(map[string]*models.BatchEntry)
	return n, nil
}

func (s *memBatchStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.batches)), nil
}

func (s *memBatchStore) All(_ context.Context) ([]models.BatchEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.BatchEntry, 0, len(s.batches))
	for _, b := range s.batches {
		cp := *b
		cp.Files = append([]models.BatchFile(nil), b.Files...)
		out = append(out, cp)
	}
	return out, nil
}

type memUserStore struct {
	mu    sync.Mutex
	users map[int64]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]*models.User)}
}

func (s *memUserStore) Upsert(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	if existing, ok := s.users[u.UserID]; ok {
		cp.JoinedAt = existing.JoinedAt
		cp.Blocked = existing.Blocked
	}
	s.users[u.UserID] = &cp
	return nil
}

func (s *memUserStore) All(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *memUserStore) MarkBlocked(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.Blocked = true
	}
	return nil
}

func (s *memUserStore) CountTotal(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *memUserStore) CountActive(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, u := range s.users {
		if !u.Blocked {
			n++
		}
	}
	return n, nil
}

type memSettingsRepo struct {
	mu     sync.Mutex
	doc    *models.Settings
	fields map[string]any
}

func newMemSettingsRepo() *memSettingsRepo {
	return &memSettingsRepo{fields: make(map[string]any)}
}

func (s *memSettingsRepo) Load(_ context.Context) (*models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, ErrNotFound
	}
	cp := *s.doc
	return &cp, nil
}

func (s *memSettingsRepo) Insert(_ context.Context, doc *models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *doc
	s.doc = &cp
	return nil
}

func (s *memSettingsRepo) SetField(_ context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[key] = value
	return nil
}

// fakeSender records everything sent and lets tests fail selected
// sends by file ID.
type fakeSender struct {
	mu       sync.Mutex
	nextID   int
	texts    []string
	sent     []models.BatchFile
	captions []string
	deleted  []MessageRef
	failFile map[string]bool
	failText map[int64]error
}

func newFakeSender() *fakeSender {
	return &fakeSender{failFile: make(map[string]bool), failText: make(map[int64]error)}
}

func (f *fakeSender) SendText(chatID int64, text string) (MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failText[chatID]; ok {
		return MessageRef{}, err
	}
	f.nextID++
	f.texts = append(f.texts, text)
	return MessageRef{ChatID: chatID, MessageID: f.nextID}, nil
}

func (f *fakeSender) SendFile(chatID int64, file models.BatchFile, caption string) (MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFile[file.FileID] {
		return MessageRef{}, fmt.Errorf("send failed for %s", file.FileID)
	}
	f.nextID++
	f.sent = append(f.sent, file)
	f.captions = append(f.captions, caption)
	return MessageRef{ChatID: chatID, MessageID: f.nextID}, nil
}

func (f *fakeSender) EditText(_ MessageRef, _ string) error { return nil }

func (f *fakeSender) DeleteMessage(ref MessageRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ref)
	return nil
}

func (f *fakeSender) deletedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deleted)
}

// stubGen returns a canned sequence of codes, repeating the last one
// when exhausted.
type stubGen struct {
	mu    sync.Mutex
	codes []string
	calls int
}

func (g *stubGen) Generate(string, int64) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.calls
	if i >= len(g.codes) {
		i = len(g.codes) - 1
	}
	g.calls++
	return g.codes[i]
}
