// Package models defines the canonical client-side diary types and the
// normalization of raw gateway payloads into them. Nothing outside this
// package ever branches on the wire shape of a record.
package models

import "time"

// Diary is one user-authored entry in its canonical form. Exactly one Diary
// exists per ID across the cache and all derived views.
type Diary struct {
	ID        string
	Content   string
	EmotionID int
	CreatedAt time.Time
	Liked     bool
	LikeCount int
	Visible   bool
	AuthorRef string
}

// Emotion describes a catalog entry. Immutable after load.
type Emotion struct {
	ID       int
	Name     string
	ImageRef string
}

// Comment is attached to a diary detail view only; the list endpoint never
// carries comments.
type Comment struct {
	ID        string
	AuthorRef string
	Content   string
	CreatedAt time.Time
}

// Draft is the body of a create request. The server assigns the ID.
type Draft struct {
	EmotionID int
	Content   string
	Visible   bool
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	EmotionID *int
	Content   *string
	Visible   *bool
}
