package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// MovieDTO is a catalog record. Older backends use _id, releaseYear and
// thumbnailUrl; newer ones use id, year and posterUrl. Some send both.
type MovieDTO struct {
	MongoID      flexString `json:"_id"`
	ID           flexString `json:"id"`
	Title        string     `json:"title"`
	Year         flexInt    `json:"year"`
	ReleaseYear  flexInt    `json:"releaseYear"`
	PosterURL    string     `json:"posterUrl"`
	ThumbnailURL string     `json:"thumbnailUrl"`
	VideoURL     string     `json:"videoUrl"`
	Description  string     `json:"description"`
}

// FavoriteDTO is one entry of the favorites list, also the POST body
type FavoriteDTO struct {
	MovieID   flexString `json:"movieId"`
	Title     string     `json:"title"`
	Year      flexInt    `json:"year"`
	PosterURL string     `json:"posterUrl"`
	VideoURL  string     `json:"videoUrl"`
}

// RatingDTO is both the GET /ratings/{id} response and the POST body
type RatingDTO struct {
	MovieID string `json:"movieId,omitempty"`
	Rating  int    `json:"rating"`
}

// CommentDTO is a comment record
type CommentDTO struct {
	MongoID   flexString      `json:"_id"`
	ID        flexString      `json:"id"`
	MovieID   flexString      `json:"movieId"`
	User      json.RawMessage `json:"user"` // "name" or {"name": "..."}
	Text      string          `json:"text"`
	CreatedAt flexTime        `json:"createdAt"`
}

// commentRequest is the POST /comments body
type commentRequest struct {
	MovieID string `json:"movieId"`
	Text    string `json:"text"`
}

// playbackRequest is the POST /playback/{kind} body
type playbackRequest struct {
	MovieID  string `json:"movieId"`
	Position int    `json:"position"`
}

// loginRequest is the POST /auth/login body
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the POST /auth/login response
type LoginResponse struct {
	Token string `json:"token"`
	User  struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

// resetPasswordRequest is the POST /auth/reset-password body
type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// flexInt accepts a JSON number, a numeric string, or null
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			*f = 0
			return nil // Unparseable years render as unknown
		}
		*f = flexInt(n)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// flexString accepts an identifier sent as a JSON string or number.
// Any other value decodes to "".
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = ""
	if len(data) == 0 {
		return nil
	}
	switch {
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		var n json.Number
		if json.Unmarshal(data, &n) == nil {
			*f = flexString(n.String())
		}
	}
	return nil
}

// flexTime accepts an RFC 3339 string or epoch milliseconds. Empty or
// unparseable values decode to the zero time.
type flexTime time.Time

func (f *flexTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = flexTime{}
	if len(data) == 0 {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s)); err == nil {
			*f = flexTime(t)
		}
		return nil
	}
	var ms int64
	if json.Unmarshal(data, &ms) == nil && ms > 0 {
		*f = flexTime(time.UnixMilli(ms).UTC())
	}
	return nil
}
