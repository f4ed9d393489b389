// Package store implements the canonical in-memory diary cache: the source
// of truth for the collection, the date-filtered view, the current detail
// record and the calendar projection. All gateway traffic flows through it.
package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oz-main-09-team3/emodiary/internal/client/calendar"
	"github.com/oz-main-09-team3/emodiary/internal/client/emotions"
	"github.com/oz-main-09-team3/emodiary/internal/client/gateway"
	"github.com/oz-main-09-team3/emodiary/internal/client/models"
	"github.com/oz-main-09-team3/emodiary/internal/client/optimistic"
	"github.com/oz-main-09-team3/emodiary/internal/common"
	"github.com/oz-main-09-team3/emodiary/internal/logging"
)

// Detail is the "current diary" record of the detail view, the only place
// comments appear.
type Detail struct {
	Diary    models.Diary
	Comments []models.Comment
}

// Store is a constructible cache instance. Consumers read through the
// accessor methods and mutate only through the operations; both sides are
// safe for concurrent use. Close cancels in-flight requests and makes
// every subsequent operation fail with ErrClosed.
type Store struct {
	gw      gateway.Gateway
	catalog *emotions.Catalog
	coord   *optimistic.Coordinator
	log     logging.Logger
	loc     *time.Location

	baseCtx context.Context
	cancel  context.CancelFunc

	mu         sync.Mutex
	closed     bool
	diaries    []models.Diary
	filtered   []models.Diary
	current    *Detail
	selected   models.DateKey
	tombstones map[string]struct{}
	lastErr    string
}

type Option func(*Store)

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithLocation sets the calendar zone used for date keys. Defaults to the
// process-local zone.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithCatalog injects a pre-built emotion catalog, e.g. one shared between
// stores. By default the store builds its own from the gateway.
func WithCatalog(c *emotions.Catalog) Option {
	return func(s *Store) { s.catalog = c }
}

func New(gw gateway.Gateway, opts ...Option) *Store {
	baseCtx, cancel := context.WithCancel(context.Background())
	s := &Store{
		gw:         gw,
		coord:      optimistic.NewCoordinator(),
		log:        logging.Nop(),
		loc:        time.Local,
		baseCtx:    baseCtx,
		cancel:     cancel,
		tombstones: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		s.catalog = emotions.NewCatalog(gw, emotions.WithLogger(s.log))
	}
	return s
}

// Close tears the cache down: in-flight requests are canceled and their
// late results are never applied.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// Bootstrap loads the emotion catalog and the diary collection in
// parallel, the app-startup path. A catalog failure is not fatal: lookups
// fall back to placeholders.
func (s *Store) Bootstrap(ctx context.Context) error {
	if err := s.guard(); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.catalog.Load(ctx); err != nil {
			s.log.Warn(ctx, "emotion catalog unavailable, using placeholders", "error", err)
		}
		return nil
	})
	g.Go(func() error { return s.Refresh(ctx) })
	return g.Wait()
}

// Refresh replaces the collection with the gateway's, re-applying the
// current date filter, and clears any stale error. On failure the previous
// state stays visible next to the recorded error.
//
// Concurrent refreshes are not deduplicated; the most recently resolved
// one wins. Ids with a mutation in flight keep their local version, and
// ids deleted locally while this refresh was on the wire are not
// resurrected.
func (s *Store) Refresh(ctx context.Context) error {
	if err := s.guard(); err != nil {
		return err
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	list, err := s.gw.ListDiaries(ctx)
	if err != nil {
		s.recordErr(ctx, "refreshing diaries", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return common.ErrClosed
	}

	prev := make(map[string]models.Diary, len(s.diaries))
	for _, d := range s.diaries {
		prev[d.ID] = d
	}

	merged := make([]models.Diary, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, d := range list {
		if _, dead := s.tombstones[d.ID]; dead {
			continue
		}
		if s.coord.Locked(d.ID) {
			if local, ok := prev[d.ID]; ok {
				d = local
			}
		}
		merged = append(merged, d)
		seen[d.ID] = struct{}{}
	}
	// A locked id missing from the response stays visible until its
	// mutation settles.
	for _, d := range s.diaries {
		if _, ok := seen[d.ID]; ok {
			continue
		}
		if s.coord.Locked(d.ID) {
			merged = append(merged, d)
		}
	}

	s.diaries = merged
	s.tombstones = make(map[string]struct{})
	s.applyFilterLocked()
	s.lastErr = ""
	s.log.Debug(ctx, "diaries refreshed", "count", len(merged))
	return nil
}

// Load fetches one record and stores it as the current detail. The main
// collection is not touched.
func (s *Store) Load(ctx context.Context, id string) (*Detail, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	d, comments, err := s.gw.GetDiary(ctx, id)
	if err != nil {
		s.recordErr(ctx, fmt.Sprintf("loading diary %s", id), err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, common.ErrClosed
	}
	s.current = &Detail{Diary: *d, Comments: comments}
	cp := *s.current
	cp.Comments = slices.Clone(cp.Comments)
	return &cp, nil
}

// Create sends the draft and appends the server-returned record; no id is
// speculated locally.
func (s *Store) Create(ctx context.Context, draft models.Draft) (*models.Diary, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	created, err := s.gw.CreateDiary(ctx, draft)
	if err != nil {
		s.recordErr(ctx, "creating diary", err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, common.ErrClosed
	}
	s.diaries = append(s.diaries, *created)
	if s.matchesFilterLocked(*created) {
		s.filtered = append(s.filtered, *created)
	}
	cp := *created
	return &cp, nil
}

// Update applies a partial update and merges the response into every view
// holding the id. The per-id mutation lock guards the call.
func (s *Store) Update(ctx context.Context, id string, patch models.Patch) (*models.Diary, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if !s.coord.TryLock(id) {
		return nil, fmt.Errorf("%w: diary %s", common.ErrMutationInFlight, id)
	}
	defer s.coord.Unlock(id)

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	updated, err := s.gw.UpdateDiary(ctx, id, patch)
	if err != nil {
		s.recordErr(ctx, fmt.Sprintf("updating diary %s", id), err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, common.ErrClosed
	}
	s.applyAllViewsLocked(*updated)
	cp := *updated
	return &cp, nil
}

// Delete removes the record from the backend and from every view; a
// matching current detail is cleared. The per-id mutation lock guards the
// call, and the id is tombstoned so a refresh already on the wire cannot
// resurrect it.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.guard(); err != nil {
		return err
	}
	if !s.coord.TryLock(id) {
		return fmt.Errorf("%w: diary %s", common.ErrMutationInFlight, id)
	}
	defer s.coord.Unlock(id)

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.gw.DeleteDiary(ctx, id); err != nil {
		s.recordErr(ctx, fmt.Sprintf("deleting diary %s", id), err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return common.ErrClosed
	}
	s.diaries = removeByID(s.diaries, id)
	s.filtered = removeByID(s.filtered, id)
	if s.current != nil && s.current.Diary.ID == id {
		s.current = nil
	}
	s.tombstones[id] = struct{}{}
	return nil
}

// ToggleLike flips the like state optimistically across every view, then
// confirms with the backend; on failure the exact pre-toggle values come
// back. The returned bool reports whether a mutation started at all:
// false with a nil error means another mutation for the id is in flight.
func (s *Store) ToggleLike(ctx context.Context, id string) (bool, error) {
	if err := s.guard(); err != nil {
		return false, err
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var nextLiked bool
	started, err := s.coord.Run(ctx, id,
		func() (func(), error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			before, ok := s.snapshotLocked(id)
			if !ok {
				return nil, fmt.Errorf("%w: diary %s", common.ErrNotFound, id)
			}

			after := before
			after.Liked = !before.Liked
			if after.Liked {
				after.LikeCount = before.LikeCount + 1
			} else if after.LikeCount > 0 {
				after.LikeCount--
			}
			nextLiked = after.Liked
			s.applyAllViewsLocked(after)

			return func() {
				s.mu.Lock()
				defer s.mu.Unlock()
				s.applyAllViewsLocked(before)
			}, nil
		},
		func(ctx context.Context) error {
			if nextLiked {
				return s.gw.AddLike(ctx, id)
			}
			return s.gw.RemoveLike(ctx, id)
		},
	)
	if err != nil {
		s.recordErr(ctx, fmt.Sprintf("toggling like on diary %s", id), err)
	}
	return started, err
}

// SelectDate drives the filtered view with toggle semantics: selecting the
// already-selected key, or the empty key, clears the filter.
func (s *Store) SelectDate(key models.DateKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key == "" || key == s.selected {
		s.selected = ""
	} else {
		s.selected = key
	}
	s.applyFilterLocked()
}

// Diaries returns a copy of the canonical collection.
func (s *Store) Diaries() []models.Diary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.diaries)
}

// Filtered returns a copy of the date-filtered view. With no filter active
// it equals the canonical collection.
func (s *Store) Filtered() []models.Diary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.filtered)
}

// Current returns a copy of the detail record, or nil when none is loaded.
func (s *Store) Current() *Detail {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	cp.Comments = slices.Clone(cp.Comments)
	return &cp
}

// SelectedDate returns the active filter key, "" when none.
func (s *Store) SelectedDate() models.DateKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Calendar returns the one-entry-per-day projection of the canonical
// collection.
func (s *Store) Calendar() map[models.DateKey]models.Diary {
	s.mu.Lock()
	snapshot := slices.Clone(s.diaries)
	loc := s.loc
	s.mu.Unlock()
	return calendar.Aggregate(snapshot, loc)
}

// Resolve looks an emotion id up in the catalog, falling back to a
// placeholder descriptor.
func (s *Store) Resolve(emotionID int) models.Emotion {
	return s.catalog.Resolve(emotionID)
}

// Catalog exposes the store's emotion catalog.
func (s *Store) Catalog() *emotions.Catalog {
	return s.catalog
}

// Err returns the human-readable message of the last failed operation, ""
// when the last refresh succeeded and nothing failed since.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Store) guard() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return common.ErrClosed
	}
	return nil
}

// opCtx derives a request context that dies with either the caller's ctx
// or the store itself.
func (s *Store) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.baseCtx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (s *Store) recordErr(ctx context.Context, op string, err error) {
	s.mu.Lock()
	s.lastErr = fmt.Sprintf("%s: %v", op, err)
	s.mu.Unlock()
	s.log.Error(ctx, op+" failed", "error", err)
}

// snapshotLocked returns the canonical value for id, falling back to the
// detail record for ids loaded via Load only.
func (s *Store) snapshotLocked(id string) (models.Diary, bool) {
	for _, d := range s.diaries {
		if d.ID == id {
			return d, true
		}
	}
	if s.current != nil && s.current.Diary.ID == id {
		return s.current.Diary, true
	}
	return models.Diary{}, false
}

// applyAllViewsLocked writes d into every view holding its id, in one
// critical section, so consumers never observe a partially applied change.
func (s *Store) applyAllViewsLocked(d models.Diary) {
	for i := range s.diaries {
		if s.diaries[i].ID == d.ID {
			s.diaries[i] = d
		}
	}
	for i := range s.filtered {
		if s.filtered[i].ID == d.ID {
			s.filtered[i] = d
		}
	}
	if s.current != nil && s.current.Diary.ID == d.ID {
		s.current.Diary = d
	}
}

func (s *Store) applyFilterLocked() {
	if s.selected == "" {
		s.filtered = slices.Clone(s.diaries)
		return
	}
	out := make([]models.Diary, 0, len(s.diaries))
	for _, d := range s.diaries {
		if models.DateKeyOf(d.CreatedAt, s.loc) == s.selected {
			out = append(out, d)
		}
	}
	s.filtered = out
}

func (s *Store) matchesFilterLocked(d models.Diary) bool {
	return s.selected == "" || models.DateKeyOf(d.CreatedAt, s.loc) == s.selected
}

func removeByID(ds []models.Diary, id string) []models.Diary {
	return slices.DeleteFunc(ds, func(d models.Diary) bool { return d.ID == id })
}
