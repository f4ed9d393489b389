package cli

import (
	"context"
	"fmt"
)

// Show loads one diary with its comments into the detail view and prints it.
func (a *App) Show(ctx context.Context, id string) error {
	detail, err := a.store.Load(ctx, id)
	if err != nil {
		fmt.Fprintf(a.out, "Cannot load %s: %v\n", id, err)
		return err
	}

	d := detail.Diary
	fmt.Fprintln(a.out, a.renderLine(d))
	if !d.Visible {
		fmt.Fprintln(a.out, "  (private)")
	}
	fmt.Fprintf(a.out, "  %s\n", d.Content)

	if len(detail.Comments) == 0 {
		return nil
	}
	fmt.Fprintf(a.out, "  %d comments:\n", len(detail.Comments))
	for _, c := range detail.Comments {
		fmt.Fprintf(a.out, "  - %s: %s\n", c.AuthorRef, c.Content)
	}
	return nil
}
