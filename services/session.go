package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"telegram-sharebot/models"
)

// MaxBatchFiles bounds a single batch intake request.
const MaxBatchFiles = 32

type batchSession struct {
	requested   int
	files       []models.BatchFile
	targetBatch string
}

// IntakeResult reports what ReceiveFile did with a file.
type IntakeResult struct {
	Handled   bool
	Collected int
	Requested int
	Done      bool
	Code      string
	IsAppend  bool
	Total     int
}

// BatchIntake collects N files per user before materializing a batch.
// Sessions live in memory only; they do not survive a restart. The
// mutex serializes session mutation in case the runtime handles two
// messages from the same user in parallel.
type BatchIntake struct {
	mu       sync.Mutex
	sessions map[int64]*batchSession
	registry *Registry
}

func NewBatchIntake(registry *Registry) *BatchIntake {
	return &BatchIntake{sessions: make(map[int64]*batchSession), registry: registry}
}

// Start opens a collecting session for the user. A second Start while
// collecting silently overwrites the previous session. targetBatch, when
// set, makes completion append to that existing batch instead of
// creating a new one; callers must have resolved it already.
func (b *BatchIntake) Start(userID int64, count int, targetBatch string) error {
	if count < 1 || count > MaxBatchFiles {
		return validationf("please specify a number between 1 and %d", MaxBatchFiles)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions[userID] = &batchSession{requested: count, targetBatch: targetBatch}
	return nil
}

// Active reports whether the user has a collecting session.
func (b *BatchIntake) Active(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.sessions[userID]
	return ok
}

// Cancel drops the user's session if any.
func (b *BatchIntake) Cancel(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, userID)
}

// ReceiveFile feeds one file into the user's session. Returns
// Handled=false when no session is collecting. When the requested count
// is reached the batch is created (or appended) through the registry
// and the session is discarded in the same critical section, so the
// transition to complete happens exactly once.
func (b *BatchIntake) ReceiveFile(ctx context.Context, userID int64, f models.BatchFile) (IntakeResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sess, ok := b.sessions[userID]
	if !ok {
		return IntakeResult{}, nil
	}

	sess.files = append(sess.files, f)
	res := IntakeResult{
		Handled:   true,
		Collected: len(sess.files),
		Requested: sess.requested,
	}
	if len(sess.files) < sess.requested {
		return res, nil
	}

	delete(b.sessions, userID)
	res.Done = true

	if sess.targetBatch != "" {
		total, err := b.registry.AppendToBatch(ctx, sess.targetBatch, sess.files)
		if err != nil {
			return res, fmt.Errorf("append collected files: %w", err)
		}
		res.Code = sess.targetBatch
		res.IsAppend = true
		res.Total = total
		return res, nil
	}

	code, err := b.registry.CreateBatch(ctx, sess.files, userID)
	if err != nil {
		return res, fmt.Errorf("create batch: %w", err)
	}
	res.Code = code
	res.Total = len(sess.files)
	return res, nil
}

// PromptTimeout is how long a prompt-driven session (caption edit,
// settings input) waits for the user's next message.
const PromptTimeout = 60 * time.Second

type promptStage int

const (
	stageAwaitFile promptStage = iota
	stageAwaitText
)

type promptSession struct {
	stage promptStage
	file  models.BatchFile
	timer *time.Timer
	// gen changes on every stage transition so a timer armed for an
	// earlier stage can never expire a later one.
	gen int
}

// PromptSessions tracks two-step prompt flows keyed by user: wait for a
// file, then wait for a text reply, with a soft expiry on each step.
// The expiry callback and the completion path race at the deadline;
// both resolve under the mutex against the live session map, so at most
// one of them ever fires for a given step.
type PromptSessions struct {
	mu      sync.Mutex
	pending map[int64]*promptSession
	timeout time.Duration
}

func NewPromptSessions() *PromptSessions {
	return &PromptSessions{pending: make(map[int64]*promptSession), timeout: PromptTimeout}
}

// AwaitFile begins a flow: the user's next file is captured by
// OfferFile. onTimeout runs if nothing arrives in time.
func (p *PromptSessions) AwaitFile(userID int64, onTimeout func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.dropLocked(userID)
	sess := &promptSession{stage: stageAwaitFile}
	gen := sess.gen
	sess.timer = time.AfterFunc(p.timeout, func() { p.expire(userID, sess, gen, onTimeout) })
	p.pending[userID] = sess
}

// OfferFile hands a file to a waiting flow. Returns true when consumed;
// the flow then waits for the text step. onTimeout runs if the text
// never arrives.
func (p *PromptSessions) OfferFile(userID int64, f models.BatchFile, onTimeout func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	sess, ok := p.pending[userID]
	if !ok || sess.stage != stageAwaitFile {
		return false
	}

	sess.timer.Stop()
	sess.stage = stageAwaitText
	sess.file = f
	sess.gen++
	gen := sess.gen
	sess.timer = time.AfterFunc(p.timeout, func() { p.expire(userID, sess, gen, onTimeout) })
	return true
}

// TakeText completes a flow with the user's text reply. Returns the
// captured file and true exactly once per flow; the expiry timer is
// cancelled.
func (p *PromptSessions) TakeText(userID int64) (models.BatchFile, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sess, ok := p.pending[userID]
	if !ok || sess.stage != stageAwaitText {
		return models.BatchFile{}, false
	}

	sess.timer.Stop()
	delete(p.pending, userID)
	return sess.file, true
}

// Cancel drops the user's flow if any.
func (p *PromptSessions) Cancel(userID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dropLocked(userID)
}

func (p *PromptSessions) dropLocked(userID int64) {
	if sess, ok := p.pending[userID]; ok {
		sess.timer.Stop()
		delete(p.pending, userID)
	}
}

func (p *PromptSessions) expire(userID int64, sess *promptSession, gen int, onTimeout func()) {
	p.mu.Lock()
	current, ok := p.pending[userID]
	if !ok || current != sess || current.gen != gen {
		// Completed, replaced, or advanced before the timer fired.
		p.mu.Unlock()
		return
	}
	delete(p.pending, userID)
	p.mu.Unlock()

	if onTimeout != nil {
		onTimeout()
	}
}
