package types

import "time"

// Movie represents a single title in the catalog.
type Movie struct {
	// ID is the unique identifier of the movie.
	ID int `json:"id" db:"id"`

	// Title is the movie's name. Lookups by title are exact.
	Title string `json:"title" db:"title"`

	// Description contains the plot summary.
	Description string `json:"description" db:"description"`

	// GenreID references the genre this movie belongs to.
	GenreID int `json:"genre_id" db:"genre_id"`

	// DirectorID references the movie's director.
	DirectorID int `json:"director_id" db:"director_id"`

	// Actors lists the featured cast.
	Actors []string `json:"actors" db:"actors"`

	// ReleaseYear is the year of first release.
	ReleaseYear int `json:"release_year" db:"release_year"`

	// ImageURL points at a publicly reachable poster image, when one
	// is hosted outside the API.
	ImageURL string `json:"image_url" db:"image_url"`

	// PosterKey is the object-storage key of an uploaded poster.
	// Empty when no poster has been uploaded.
	PosterKey string `json:"poster_key,omitempty" db:"poster_key"`

	// Featured marks titles surfaced on the landing page.
	Featured bool `json:"featured" db:"featured"`

	// CreatedAt is the timestamp at which the movie was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the movie.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Genre is a movie category with a short description.
type Genre struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

// Director holds biographical data about a movie director.
type Director struct {
	ID    int        `json:"id" db:"id"`
	Name  string     `json:"name" db:"name"`
	Bio   string     `json:"bio" db:"bio"`
	Birth *time.Time `json:"birth,omitempty" db:"birth"`
	Death *time.Time `json:"death,omitempty" db:"death"`
}
