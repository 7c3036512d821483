package domain

import (
	"fmt"
	"strconv"
	"time"
)

// Movie is a catalog entry. Wire records may carry the identifier under two
// field names; ID holds the canonical one and LegacyID the other when both
// were present.
type Movie struct {
	ID          string // Canonical identifier
	LegacyID    string // Alternate identifier, empty unless the record had both
	Title       string // Display title
	Year        int    // Release year (0 = unknown)
	PosterURL   string // Poster/thumbnail image URL
	VideoURL    string // Trailer or video URL, empty when none is available
	Description string // Synopsis
}

// Matches reports whether id refers to this movie under either identifier.
func (m Movie) Matches(id string) bool {
	if id == "" {
		return false
	}
	return m.ID == id || m.LegacyID == id
}

// HasVideo returns true if the movie can be played
func (m Movie) HasVideo() bool {
	return m.VideoURL != ""
}

// DisplayYear returns the year as text, or an empty string when unknown
func (m Movie) DisplayYear() string {
	if m.Year <= 0 {
		return ""
	}
	return strconv.Itoa(m.Year)
}

// Favorite returns the denormalized bookmark record for this movie
func (m Movie) Favorite() Favorite {
	return Favorite{
		MovieID:   m.ID,
		Title:     m.Title,
		Year:      m.Year,
		PosterURL: m.PosterURL,
		VideoURL:  m.VideoURL,
	}
}

// Favorite is a user's bookmark of a movie. Display fields are copied from the
// movie so favorite lists render without a catalog fetch.
type Favorite struct {
	MovieID   string
	Title     string
	Year      int
	PosterURL string
	VideoURL  string
}

// Comment is a user comment on a movie
type Comment struct {
	ID        string
	MovieID   string
	Author    string
	Text      string
	CreatedAt time.Time
}

// PlaybackKind is the lifecycle transition being reported
type PlaybackKind string

const (
	PlaybackStart PlaybackKind = "start"
	PlaybackPause PlaybackKind = "pause"
	PlaybackStop  PlaybackKind = "stop"
)

// PlaybackEvent is one playback lifecycle report
type PlaybackEvent struct {
	MovieID  string
	Position int // Whole seconds
	Kind     PlaybackKind
}

func (e PlaybackEvent) String() string {
	return fmt.Sprintf("%s(%s@%ds)", e.Kind, e.MovieID, e.Position)
}

// MinRating and MaxRating bound a user's star rating
const (
	MinRating = 1
	MaxRating = 5
)
