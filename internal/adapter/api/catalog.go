package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/streamflix/streamflix/internal/domain"
)

// GetMovies returns the full catalog in server order
func (c *Client) GetMovies(ctx context.Context) ([]domain.Movie, error) {
	var dtos []MovieDTO
	if err := c.getJSON(ctx, "/movies", &dtos); err != nil {
		return nil, err
	}
	return MapMovies(dtos), nil
}

// GetFavorites returns the signed-in user's favorites
func (c *Client) GetFavorites(ctx context.Context) ([]domain.Favorite, error) {
	var dtos []FavoriteDTO
	if err := c.getJSON(ctx, "/favorites", &dtos); err != nil {
		return nil, err
	}
	return MapFavorites(dtos), nil
}

// AddFavorite bookmarks a movie
func (c *Client) AddFavorite(ctx context.Context, fav domain.Favorite) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/favorites", toFavoriteDTO(fav))
	return err
}

// RemoveFavorite deletes the bookmark for movieID
func (c *Client) RemoveFavorite(ctx context.Context, movieID string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/favorites/"+url.PathEscape(movieID), nil)
	return err
}

// GetRating returns the user's rating for a movie, 0 when unrated
func (c *Client) GetRating(ctx context.Context, movieID string) (int, error) {
	var dto RatingDTO
	err := c.getJSON(ctx, "/ratings/"+url.PathEscape(movieID), &dto)
	if IsNotFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return dto.Rating, nil
}

// SetRating stores the user's rating for a movie
func (c *Client) SetRating(ctx context.Context, movieID string, rating int) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/ratings", RatingDTO{MovieID: movieID, Rating: rating})
	return err
}

// GetComments returns the comments on a movie, oldest first
func (c *Client) GetComments(ctx context.Context, movieID string) ([]domain.Comment, error) {
	var dtos []CommentDTO
	if err := c.getJSON(ctx, "/comments/"+url.PathEscape(movieID), &dtos); err != nil {
		return nil, err
	}
	comments := MapComments(dtos)
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

// AddComment posts a comment and returns it as stored by the server.
// Servers that answer without a body get the comment echoed back locally.
func (c *Client) AddComment(ctx context.Context, movieID, text string) (*domain.Comment, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/comments", commentRequest{MovieID: movieID, Text: text})
	if err != nil {
		return nil, err
	}

	var dto CommentDTO
	if len(body) > 0 && json.Unmarshal(body, &dto) == nil && dto.Text != "" {
		comment := MapComment(dto)
		return &comment, nil
	}

	return &domain.Comment{
		MovieID:   movieID,
		Text:      text,
		CreatedAt: time.Now(),
	}, nil
}
