package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/oz-main-09-team3/emodiary/internal/client/models"
)

// List prints the date-filtered view, one line per entry.
func (a *App) List(ctx context.Context) error {
	diaries := a.store.Filtered()
	if len(diaries) == 0 {
		fmt.Fprintln(a.out, "No entries.")
		return nil
	}
	for _, d := range diaries {
		fmt.Fprintln(a.out, a.renderLine(d))
	}
	return nil
}

// Calendar prints the one-entry-per-day projection in date order.
func (a *App) Calendar(ctx context.Context) error {
	cal := a.store.Calendar()
	if len(cal) == 0 {
		fmt.Fprintln(a.out, "No entries.")
		return nil
	}

	keys := make([]string, 0, len(cal))
	for k := range cal {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	for _, k := range keys {
		d := cal[models.DateKey(k)]
		fmt.Fprintf(a.out, "%s  %-10s %s\n", k, a.store.Resolve(d.EmotionID).Name, d.ID)
	}
	return nil
}

// Filter narrows the list view to one calendar day; "off" or repeating the
// active date clears it.
func (a *App) Filter(ctx context.Context, arg string) error {
	if arg == "off" {
		a.store.SelectDate("")
		fmt.Fprintln(a.out, "Filter cleared.")
		return nil
	}

	key, err := models.ParseDateKey(arg)
	if err != nil {
		fmt.Fprintf(a.out, "Bad date %q, want YYYY-MM-DD.\n", arg)
		return err
	}

	a.store.SelectDate(key)
	if a.store.SelectedDate() == "" {
		fmt.Fprintln(a.out, "Filter cleared.")
		return nil
	}
	fmt.Fprintf(a.out, "Showing %d entries for %s.\n", len(a.store.Filtered()), key)
	return nil
}

// Refresh re-fetches the collection.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.store.Refresh(ctx); err != nil {
		fmt.Fprintf(a.out, "Refresh failed: %v\n", err)
		return err
	}
	fmt.Fprintf(a.out, "Loaded %d entries.\n", len(a.store.Diaries()))
	return nil
}
