package cli

import (
	"fmt"

	"github.com/oz-main-09-team3/emodiary/internal/client/models"
)

const previewLen = 40

// renderLine formats one diary as a list row: timestamp, emotion name,
// like state and a content preview.
func (a *App) renderLine(d models.Diary) string {
	mark := " "
	if d.Liked {
		mark = "*"
	}
	return fmt.Sprintf("%s  %s %-10s %s%d  %s",
		d.ID,
		d.CreatedAt.Format("2006-01-02 15:04"),
		a.store.Resolve(d.EmotionID).Name,
		mark,
		d.LikeCount,
		preview(d.Content),
	)
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLen {
		return content
	}
	return string(runes[:previewLen-1]) + "…"
}
