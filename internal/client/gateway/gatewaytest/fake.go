// Package gatewaytest provides an in-memory Gateway double with
// server-assigned ids, scriptable failures and call counters.
package gatewaytest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oz-main-09-team3/emodiary/internal/client/models"
	"github.com/oz-main-09-team3/emodiary/internal/common"
)

// Fake implements gateway.Gateway against an in-memory collection.
//
// The optional Before* hooks run at the start of the matching call, before
// any state change, and may block or return an error; tests use them to
// hold a request in flight or to fail it.
type Fake struct {
	BeforeLike func(id string, add bool) error
	BeforeList func() error

	// Now stamps created records; defaults to time.Now.
	Now func() time.Time

	mu       sync.Mutex
	diaries  map[string]models.Diary
	order    []string
	comments map[string][]models.Comment
	emotions []models.Emotion
	failWith map[string]error
	calls    map[string]int
}

func New() *Fake {
	return &Fake{
		Now:      time.Now,
		diaries:  make(map[string]models.Diary),
		comments: make(map[string][]models.Comment),
		failWith: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// Seed inserts diaries directly, bypassing hooks and failure scripts.
// Records without an ID get one assigned.
func (f *Fake) Seed(ds ...models.Diary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range ds {
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		if _, ok := f.diaries[d.ID]; !ok {
			f.order = append(f.order, d.ID)
		}
		f.diaries[d.ID] = d
	}
}

func (f *Fake) SeedEmotions(es ...models.Emotion) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emotions = append(f.emotions, es...)
}

func (f *Fake) SetComments(id string, cs ...models.Comment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments[id] = cs
}

// SetError scripts err for every subsequent call of op ("ListDiaries",
// "AddLike", ...). A nil err clears the script.
func (f *Fake) SetError(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failWith, op)
		return
	}
	f.failWith[op] = err
}

// Calls reports how many times op was invoked.
func (f *Fake) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// Diary returns the backend-side copy of a record.
func (f *Fake) Diary(id string) (models.Diary, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.diaries[id]
	return d, ok
}

func (f *Fake) begin(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.failWith[op]
}

func (f *Fake) Ping(ctx context.Context) error {
	return f.begin("Ping")
}

func (f *Fake) ListDiaries(ctx context.Context) ([]models.Diary, error) {
	if err := f.begin("ListDiaries"); err != nil {
		return nil, err
	}
	if f.BeforeList != nil {
		if err := f.BeforeList(); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Diary, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.diaries[id])
	}
	return out, nil
}

func (f *Fake) GetDiary(ctx context.Context, id string) (*models.Diary, []models.Comment, error) {
	if err := f.begin("GetDiary"); err != nil {
		return nil, nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.diaries[id]
	if !ok {
		return nil, nil, fmt.Errorf("%w: diary %s", common.ErrNotFound, id)
	}
	return &d, append([]models.Comment(nil), f.comments[id]...), nil
}

func (f *Fake) CreateDiary(ctx context.Context, draft models.Draft) (*models.Diary, error) {
	if err := f.begin("CreateDiary"); err != nil {
		return nil, err
	}
	if draft.Content == "" {
		return nil, fmt.Errorf("%w: content is required", common.ErrValidation)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d := models.Diary{
		ID:        uuid.NewString(),
		Content:   draft.Content,
		EmotionID: draft.EmotionID,
		CreatedAt: f.Now(),
		Visible:   draft.Visible,
	}
	f.diaries[d.ID] = d
	f.order = append(f.order, d.ID)
	return &d, nil
}

func (f *Fake) UpdateDiary(ctx context.Context, id string, patch models.Patch) (*models.Diary, error) {
	if err := f.begin("UpdateDiary"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.diaries[id]
	if !ok {
		return nil, fmt.Errorf("%w: diary %s", common.ErrNotFound, id)
	}
	if patch.EmotionID != nil {
		d.EmotionID = *patch.EmotionID
	}
	if patch.Content != nil {
		d.Content = *patch.Content
	}
	if patch.Visible != nil {
		d.Visible = *patch.Visible
	}
	f.diaries[id] = d
	return &d, nil
}

func (f *Fake) DeleteDiary(ctx context.Context, id string) error {
	if err := f.begin("DeleteDiary"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.diaries[id]; !ok {
		return fmt.Errorf("%w: diary %s", common.ErrNotFound, id)
	}
	delete(f.diaries, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *Fake) AddLike(ctx context.Context, id string) error {
	return f.setLike(id, true)
}

func (f *Fake) RemoveLike(ctx context.Context, id string) error {
	return f.setLike(id, false)
}

func (f *Fake) setLike(id string, add bool) error {
	op := "RemoveLike"
	if add {
		op = "AddLike"
	}
	if err := f.begin(op); err != nil {
		return err
	}
	if f.BeforeLike != nil {
		if err := f.BeforeLike(id, add); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.diaries[id]
	if !ok {
		return fmt.Errorf("%w: diary %s", common.ErrNotFound, id)
	}
	// Idempotent, like the real backend.
	if add && !d.Liked {
		d.Liked = true
		d.LikeCount++
	} else if !add && d.Liked {
		d.Liked = false
		if d.LikeCount > 0 {
			d.LikeCount--
		}
	}
	f.diaries[id] = d
	return nil
}

func (f *Fake) ListEmotions(ctx context.Context) ([]models.Emotion, error) {
	if err := f.begin("ListEmotions"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Emotion(nil), f.emotions...), nil
}
