package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oz-main-09-team3/emodiary/internal/client/config"
	"github.com/oz-main-09-team3/emodiary/internal/client/gateway/gatewaytest"
	"github.com/oz-main-09-team3/emodiary/internal/client/models"
	"github.com/oz-main-09-team3/emodiary/internal/client/store"
	"github.com/oz-main-09-team3/emodiary/internal/logging"
)

func at(value string) time.Time {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return ts
}

func newTestApp(t *testing.T) (*App, *gatewaytest.Fake, *bytes.Buffer) {
	t.Helper()

	fake := gatewaytest.New()
	fake.SeedEmotions(
		models.Emotion{ID: 1, Name: "happy"},
		models.Emotion{ID: 2, Name: "gloomy"},
	)

	st := store.New(fake, store.WithLocation(time.UTC))
	t.Cleanup(st.Close)

	out := &bytes.Buffer{}
	cfg := &config.Config{}
	cfg.LoadDefaults()

	return &App{config: cfg, store: st, log: logging.Nop(), out: out}, fake, out
}

func TestListAndStatus(t *testing.T) {
	a, fake, out := newTestApp(t)
	fake.Seed(
		models.Diary{ID: "a", EmotionID: 1, Content: "sunny walk", CreatedAt: at("2024-05-01T09:00:00Z"), LikeCount: 2},
		models.Diary{ID: "b", EmotionID: 2, Content: "rainy day", CreatedAt: at("2024-05-02T09:00:00Z")},
	)
	require.NoError(t, a.store.Bootstrap(context.Background()))

	require.NoError(t, a.List(context.Background()))

	got := out.String()
	assert.Contains(t, got, "happy")
	assert.Contains(t, got, "gloomy")
	assert.Contains(t, got, "sunny walk")
	assert.Equal(t, "2 entries", a.status())
}

func TestFilterCommand(t *testing.T) {
	a, fake, out := newTestApp(t)
	fake.Seed(
		models.Diary{ID: "a", EmotionID: 1, CreatedAt: at("2024-05-01T09:00:00Z")},
		models.Diary{ID: "b", EmotionID: 1, CreatedAt: at("2024-05-02T09:00:00Z")},
	)
	require.NoError(t, a.store.Bootstrap(context.Background()))

	require.NoError(t, a.Filter(context.Background(), "2024-05-01"))
	assert.Contains(t, out.String(), "Showing 1 entries for 2024-05-01.")
	assert.Contains(t, a.status(), "@ 2024-05-01")

	out.Reset()
	require.NoError(t, a.Filter(context.Background(), "off"))
	assert.Contains(t, out.String(), "Filter cleared.")
	assert.Equal(t, "2 entries", a.status())

	err := a.Filter(context.Background(), "yesterday")
	assert.Error(t, err)
	assert.Contains(t, out.String(), "Bad date")
}

func TestShowCommand(t *testing.T) {
	a, fake, out := newTestApp(t)
	fake.Seed(models.Diary{ID: "a", EmotionID: 1, Content: "the whole story", CreatedAt: at("2024-05-01T09:00:00Z"), Visible: true})
	fake.SetComments("a", models.Comment{ID: "c1", AuthorRef: "friend", Content: "nice one"})

	require.NoError(t, a.Show(context.Background(), "a"))

	got := out.String()
	assert.Contains(t, got, "the whole story")
	assert.Contains(t, got, "1 comments:")
	assert.Contains(t, got, "friend: nice one")

	out.Reset()
	err := a.Show(context.Background(), "ghost")
	assert.Error(t, err)
	assert.Contains(t, out.String(), "Cannot load ghost")
}

func TestNewCommand(t *testing.T) {
	a, fake, out := newTestApp(t)
	require.NoError(t, a.store.Bootstrap(context.Background()))

	t.Run("by name", func(t *testing.T) {
		require.NoError(t, a.New(context.Background(), "happy", "a fine day"))
		assert.Contains(t, out.String(), "Created ")
		require.Len(t, a.store.Diaries(), 1)
		assert.Equal(t, 1, a.store.Diaries()[0].EmotionID)
	})

	t.Run("by id", func(t *testing.T) {
		require.NoError(t, a.New(context.Background(), "2", "a gray day"))
		require.Len(t, a.store.Diaries(), 2)
		assert.Equal(t, 2, a.store.Diaries()[1].EmotionID)
	})

	t.Run("unknown emotion", func(t *testing.T) {
		out.Reset()
		err := a.New(context.Background(), "meh", "whatever")
		assert.Error(t, err)
		assert.Contains(t, out.String(), "unknown emotion")
		assert.Equal(t, 2, fake.Calls("CreateDiary"), "no request for an unresolvable emotion")
	})
}

func TestEditAndDeleteCommands(t *testing.T) {
	a, fake, out := newTestApp(t)
	fake.Seed(models.Diary{ID: "a", EmotionID: 1, Content: "draft", CreatedAt: at("2024-05-01T09:00:00Z")})
	require.NoError(t, a.store.Bootstrap(context.Background()))

	require.NoError(t, a.Edit(context.Background(), "a", "final text"))
	assert.Contains(t, out.String(), "Updated a.")
	assert.Equal(t, "final text", a.store.Diaries()[0].Content)

	out.Reset()
	require.NoError(t, a.Delete(context.Background(), "a"))
	assert.Contains(t, out.String(), "Deleted a.")
	assert.Empty(t, a.store.Diaries())

	out.Reset()
	err := a.Delete(context.Background(), "a")
	assert.Error(t, err)
	assert.Contains(t, out.String(), "Delete failed")
}

func TestLikeCommand(t *testing.T) {
	a, fake, out := newTestApp(t)
	fake.Seed(models.Diary{ID: "a", EmotionID: 1, Content: "likeable", CreatedAt: at("2024-05-01T09:00:00Z")})
	require.NoError(t, a.store.Bootstrap(context.Background()))

	require.NoError(t, a.Like(context.Background(), "a"))
	assert.Contains(t, out.String(), "*1", "the liked row shows the mark and the new count")
	assert.True(t, a.store.Diaries()[0].Liked)

	out.Reset()
	fake.SetError("RemoveLike", assert.AnError)
	err := a.Like(context.Background(), "a")
	assert.Error(t, err)
	assert.Contains(t, out.String(), "change undone")
	assert.True(t, a.store.Diaries()[0].Liked, "failed unlike rolls back")
	assert.Contains(t, a.status(), "[!]")
}

func TestRefreshCommand(t *testing.T) {
	a, fake, out := newTestApp(t)
	fake.Seed(models.Diary{ID: "a", EmotionID: 1, CreatedAt: at("2024-05-01T09:00:00Z")})

	require.NoError(t, a.Refresh(context.Background()))
	assert.Contains(t, out.String(), "Loaded 1 entries.")

	out.Reset()
	fake.SetError("ListDiaries", assert.AnError)
	err := a.Refresh(context.Background())
	assert.Error(t, err)
	assert.Contains(t, out.String(), "Refresh failed")
}

func TestCalendarCommand(t *testing.T) {
	a, fake, out := newTestApp(t)
	fake.Seed(
		models.Diary{ID: "morning", EmotionID: 1, CreatedAt: at("2024-05-01T09:00:00Z")},
		models.Diary{ID: "evening", EmotionID: 2, CreatedAt: at("2024-05-01T21:00:00Z")},
		models.Diary{ID: "next", EmotionID: 1, CreatedAt: at("2024-05-02T08:00:00Z")},
	)
	require.NoError(t, a.store.Bootstrap(context.Background()))

	require.NoError(t, a.Calendar(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2, "one row per day")
	assert.Contains(t, lines[0], "2024-05-01")
	assert.Contains(t, lines[0], "evening", "latest entry of the day wins")
	assert.Contains(t, lines[1], "2024-05-02")
}
