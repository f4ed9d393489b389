package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/oz-main-09-team3/emodiary/internal/client/models"
)

// New creates an entry. The emotion argument is a catalog name ("happy")
// or a numeric id; ids are accepted even when the catalog never loaded.
func (a *App) New(ctx context.Context, emotion, text string) error {
	emotionID, err := a.resolveEmotionArg(emotion)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	created, err := a.store.Create(ctx, models.Draft{
		EmotionID: emotionID,
		Content:   text,
		Visible:   true,
	})
	if err != nil {
		fmt.Fprintf(a.out, "Create failed: %v\n", err)
		return err
	}
	fmt.Fprintf(a.out, "Created %s.\n", created.ID)
	return nil
}

// Edit replaces an entry's content.
func (a *App) Edit(ctx context.Context, id, text string) error {
	updated, err := a.store.Update(ctx, id, models.Patch{Content: &text})
	if err != nil {
		fmt.Fprintf(a.out, "Edit failed: %v\n", err)
		return err
	}
	fmt.Fprintf(a.out, "Updated %s.\n", updated.ID)
	return nil
}

// Delete removes an entry everywhere.
func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.store.Delete(ctx, id); err != nil {
		fmt.Fprintf(a.out, "Delete failed: %v\n", err)
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s.\n", id)
	return nil
}

func (a *App) resolveEmotionArg(arg string) (int, error) {
	if e, ok := a.store.Catalog().ByName(arg); ok {
		return e.ID, nil
	}
	if id, err := strconv.Atoi(arg); err == nil {
		return id, nil
	}
	return 0, fmt.Errorf("unknown emotion %q, use a name or a numeric id", arg)
}
