package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// RawDiary mirrors every wire shape the backend variants are known to emit
// for a diary record: the emotion arrives as a bare id or as an embedded
// descriptor, ids arrive as JSON numbers or strings, and the like fields go
// by different names. Normalize is the single place those shapes collapse
// into the canonical Diary.
type RawDiary struct {
	ID         json.RawMessage `json:"id"`
	Content    string          `json:"content"`
	Emotion    json.RawMessage `json:"emotion"`
	EmotionID  *int            `json:"emotion_id"`
	CreatedAt  string          `json:"created_at"`
	IsLiked    *bool           `json:"is_liked"`
	Liked      *bool           `json:"liked"`
	LikeCount  *int            `json:"like_count"`
	Likes      *int            `json:"likes"`
	Visibility *bool           `json:"visibility"`
	Author     json.RawMessage `json:"author"`
	Comments   []RawComment    `json:"comments"`
}

type RawComment struct {
	ID        json.RawMessage `json:"id"`
	Author    json.RawMessage `json:"author"`
	Content   string          `json:"content"`
	CreatedAt string          `json:"created_at"`
}

// RawEmotion is a catalog record as served by GET /emotions.
type RawEmotion struct {
	ID       int    `json:"id"`
	Name     string `json:"emotion"`
	ImageURL string `json:"image_url"`
}

// Normalize converts a wire record into the canonical Diary. A record
// without a usable id is rejected; everything else degrades to zero values.
func (r RawDiary) Normalize() (Diary, error) {
	id, err := decodeOpaqueID(r.ID)
	if err != nil {
		return Diary{}, fmt.Errorf("diary id: %w", err)
	}
	if id == "" {
		return Diary{}, fmt.Errorf("diary record has no id")
	}

	createdAt, err := parseTimestamp(r.CreatedAt)
	if err != nil {
		return Diary{}, fmt.Errorf("diary %s: %w", id, err)
	}

	d := Diary{
		ID:        id,
		Content:   r.Content,
		CreatedAt: createdAt,
		Visible:   true,
	}

	switch {
	case r.EmotionID != nil:
		d.EmotionID = *r.EmotionID
	case len(r.Emotion) > 0:
		if eid, ok := DecodeEmotionRef(r.Emotion); ok {
			d.EmotionID = eid
		}
	}

	if r.IsLiked != nil {
		d.Liked = *r.IsLiked
	} else if r.Liked != nil {
		d.Liked = *r.Liked
	}

	if r.LikeCount != nil {
		d.LikeCount = *r.LikeCount
	} else if r.Likes != nil {
		d.LikeCount = *r.Likes
	}
	if d.LikeCount < 0 {
		d.LikeCount = 0
	}

	if r.Visibility != nil {
		d.Visible = *r.Visibility
	}

	// The author reference is opaque to the cache; a decode failure just
	// leaves it empty.
	if author, err := decodeOpaqueID(r.Author); err == nil {
		d.AuthorRef = author
	}

	return d, nil
}

// NormalizeComments converts the optional comments array of a detail
// response. Malformed comments are skipped rather than failing the record.
func (r RawDiary) NormalizeComments() []Comment {
	if len(r.Comments) == 0 {
		return nil
	}
	out := make([]Comment, 0, len(r.Comments))
	for _, rc := range r.Comments {
		id, err := decodeOpaqueID(rc.ID)
		if err != nil || id == "" {
			continue
		}
		createdAt, err := parseTimestamp(rc.CreatedAt)
		if err != nil {
			continue
		}
		author, _ := decodeOpaqueID(rc.Author)
		out = append(out, Comment{
			ID:        id,
			AuthorRef: author,
			Content:   rc.Content,
			CreatedAt: createdAt,
		})
	}
	return out
}

// Normalize converts a catalog wire record.
func (r RawEmotion) Normalize() Emotion {
	return Emotion{ID: r.ID, Name: r.Name, ImageRef: r.ImageURL}
}

// decodeOpaqueID accepts a JSON string or number and returns its string
// form. Absent values decode to "".
func decodeOpaqueID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("id is neither string nor number: %s", raw)
}

// DecodeEmotionRef accepts a bare numeric id or an embedded descriptor
// object carrying one.
func DecodeEmotionRef(raw json.RawMessage) (int, bool) {
	var id int
	if err := json.Unmarshal(raw, &id); err == nil {
		return id, true
	}
	var obj struct {
		ID *int `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.ID != nil {
		return *obj.ID, true
	}
	return 0, false
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
