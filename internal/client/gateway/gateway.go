// Package gateway talks to the remote diary collection over REST and
// normalizes its responses into canonical models. It is the only component
// that knows the wire contract.
package gateway

import (
	"context"

	"github.com/oz-main-09-team3/emodiary/internal/client/models"
)

// Gateway abstracts the backend API. All calls honor ctx cancellation and
// map failures onto the sentinel errors in internal/common.
type Gateway interface {
	// Ping probes backend reachability.
	Ping(ctx context.Context) error

	// ListDiaries fetches the whole collection.
	ListDiaries(ctx context.Context) ([]models.Diary, error)

	// GetDiary fetches one record, including its comments when the
	// backend sends them.
	GetDiary(ctx context.Context, id string) (*models.Diary, []models.Comment, error)

	// CreateDiary creates a record; the returned Diary carries the
	// server-assigned id.
	CreateDiary(ctx context.Context, draft models.Draft) (*models.Diary, error)

	// UpdateDiary applies a partial update and returns the updated record.
	UpdateDiary(ctx context.Context, id string, patch models.Patch) (*models.Diary, error)

	// DeleteDiary removes a record.
	DeleteDiary(ctx context.Context, id string) error

	// AddLike and RemoveLike set the caller's like state. Both are
	// idempotent on the server side.
	AddLike(ctx context.Context, id string) error
	RemoveLike(ctx context.Context, id string) error

	// ListEmotions fetches the emotion catalog.
	ListEmotions(ctx context.Context) ([]models.Emotion, error)
}
