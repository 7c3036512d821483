package api

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/streamflix/streamflix/internal/domain"
)

// MapMovie normalizes a catalog record. The _id value wins when present;
// the other identifier is kept so either one still resolves the movie.
func MapMovie(dto MovieDTO) domain.Movie {
	id, legacy := string(dto.MongoID), string(dto.ID)
	if id == "" {
		id, legacy = legacy, ""
	}
	if legacy == id {
		legacy = ""
	}

	year := int(dto.ReleaseYear)
	if year == 0 {
		year = int(dto.Year)
	}

	poster := dto.ThumbnailURL
	if poster == "" {
		poster = dto.PosterURL
	}

	return domain.Movie{
		ID:          id,
		LegacyID:    legacy,
		Title:       strings.TrimSpace(dto.Title),
		Year:        year,
		PosterURL:   poster,
		VideoURL:    strings.TrimSpace(dto.VideoURL),
		Description: dto.Description,
	}
}

// MapMovies converts catalog records, skipping ones without any identifier
func MapMovies(dtos []MovieDTO) []domain.Movie {
	movies := make([]domain.Movie, 0, len(dtos))
	for _, dto := range dtos {
		m := MapMovie(dto)
		if m.ID == "" {
			continue
		}
		movies = append(movies, m)
	}
	return movies
}

// MapFavorites converts favorites list entries
func MapFavorites(dtos []FavoriteDTO) []domain.Favorite {
	favs := make([]domain.Favorite, 0, len(dtos))
	for _, dto := range dtos {
		favs = append(favs, domain.Favorite{
			MovieID:   string(dto.MovieID),
			Title:     dto.Title,
			Year:      int(dto.Year),
			PosterURL: dto.PosterURL,
			VideoURL:  dto.VideoURL,
		})
	}
	return favs
}

// toFavoriteDTO builds the POST /favorites body
func toFavoriteDTO(fav domain.Favorite) FavoriteDTO {
	return FavoriteDTO{
		MovieID:   flexString(fav.MovieID),
		Title:     fav.Title,
		Year:      flexInt(fav.Year),
		PosterURL: fav.PosterURL,
		VideoURL:  fav.VideoURL,
	}
}

// MapComment converts a comment record
func MapComment(dto CommentDTO) domain.Comment {
	id := string(dto.MongoID)
	if id == "" {
		id = string(dto.ID)
	}
	return domain.Comment{
		ID:        id,
		MovieID:   string(dto.MovieID),
		Author:    commentAuthor(dto.User),
		Text:      dto.Text,
		CreatedAt: time.Time(dto.CreatedAt),
	}
}

// MapComments converts comment records
func MapComments(dtos []CommentDTO) []domain.Comment {
	comments := make([]domain.Comment, 0, len(dtos))
	for _, dto := range dtos {
		comments = append(comments, MapComment(dto))
	}
	return comments
}

// commentAuthor reads the user field, which is either a name or a populated user object
func commentAuthor(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var name string
	if json.Unmarshal(raw, &name) == nil {
		return name
	}
	var user struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if json.Unmarshal(raw, &user) == nil {
		if user.Name != "" {
			return user.Name
		}
		return user.Email
	}
	return ""
}
