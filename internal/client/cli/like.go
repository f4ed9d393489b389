package cli

import (
	"context"
	"fmt"
)

// Like toggles the like state of an entry. A toggle already in flight for
// the same entry is reported, not queued.
func (a *App) Like(ctx context.Context, id string) error {
	started, err := a.store.ToggleLike(ctx, id)
	if err != nil {
		fmt.Fprintf(a.out, "Like failed, change undone: %v\n", err)
		return err
	}
	if !started {
		fmt.Fprintf(a.out, "A change for %s is still in flight, try again.\n", id)
		return nil
	}

	for _, d := range a.store.Diaries() {
		if d.ID == id {
			fmt.Fprintln(a.out, a.renderLine(d))
			break
		}
	}
	return nil
}
