// Package tmdb provides a search client for The Movie Database API.
package tmdb

import (
	"github.com/vmunix/arrsnap/internal/library"
)

const (
	posterBase   = "https://image.tmdb.org/t/p/w300"
	backdropBase = "https://image.tmdb.org/t/p/w780"
)

// searchResponse is the envelope of /3/search/{movie,tv}.
type searchResponse struct {
	Page    int      `json:"page"`
	Results []Result `json:"results"`
}

// Result is one search hit. Movies carry Title and ReleaseDate, series
// carry Name and FirstAirDate.
type Result struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	GenreIDs     []int   `json:"genre_ids"`
}

// DisplayTitle returns the movie title or series name.
func (r *Result) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// Year returns the first four characters of the release or first-air date.
func (r *Result) Year() string {
	d := r.ReleaseDate
	if d == "" {
		d = r.FirstAirDate
	}
	if len(d) < 4 {
		return d
	}
	return d[:4]
}

// Enrichment maps the result into the catalog's enrichment record.
func (r *Result) Enrichment() *library.Enrichment {
	e := &library.Enrichment{
		Title:    r.DisplayTitle(),
		Overview: r.Overview,
		Rating:   r.VoteAverage,
		Year:     r.Year(),
		Genres:   GenreNames(r.GenreIDs),
	}
	if r.PosterPath != "" {
		e.Poster = posterBase + r.PosterPath
	}
	if r.BackdropPath != "" {
		e.Backdrop = backdropBase + r.BackdropPath
	}
	return e
}
