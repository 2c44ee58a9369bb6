// Package validate checks admin-write payloads before they reach the
// store. Failures come back as a list of {field, message} pairs that the
// handlers return verbatim in the 400 body.
package validate

import (
	"fmt"
	"strings"

	"anistream/pkg/models"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Errors []FieldError

func (e *Errors) add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// requireText demands a non-empty string. On partial payloads an absent
// field is fine; a present-but-empty one is still an error.
func (e *Errors) requireText(field string, v *string, partial bool) {
	if v == nil {
		if !partial {
			e.add(field, field+" is required")
		}
		return
	}
	if strings.TrimSpace(*v) == "" {
		e.add(field, field+" is required")
	}
}

func (e *Errors) minText(field string, v *string, min int, partial bool) {
	e.requireText(field, v, partial)
	if v != nil && strings.TrimSpace(*v) != "" && len(strings.TrimSpace(*v)) < min {
		e.add(field, fmt.Sprintf("%s must be at least %d characters", field, min))
	}
}

// number flags non-numeric text, and missing values for required fields.
func (e *Errors) number(field string, f models.IntField, required, partial bool) {
	if f.Malformed() {
		e.add(field, field+" must be a number")
		return
	}
	if required && !f.Valid {
		if !partial || f.Set {
			e.add(field, field+" is required")
		}
	}
}

func (e *Errors) oneOf(field string, v *string, allowed []string) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return
	}
	for _, a := range allowed {
		if *v == a {
			return
		}
	}
	e.add(field, field+" must be one of: "+strings.Join(allowed, ", "))
}

func AnimeSeries(in *models.AnimeSeriesInput, partial bool) Errors {
	var errs Errors
	errs.requireText("title", in.Title, partial)
	errs.minText("description", in.Description, 10, partial)
	errs.oneOf("status", in.Status, models.AnimeStatuses)
	errs.number("year", in.Year, false, partial)
	return errs
}

func Movie(in *models.MovieInput, partial bool) Errors {
	var errs Errors
	errs.requireText("title", in.Title, partial)
	errs.minText("description", in.Description, 10, partial)
	errs.number("duration", in.Duration, false, partial)
	errs.number("year", in.Year, false, partial)
	return errs
}

func Episode(in *models.EpisodeInput, partial bool) Errors {
	var errs Errors
	errs.number("animeId", in.AnimeID, true, partial)
	errs.requireText("title", in.Title, partial)
	errs.number("episodeNumber", in.EpisodeNumber, true, partial)
	return errs
}

func VideoSource(in *models.VideoSourceInput, partial bool) Errors {
	var errs Errors
	errs.number("episodeId", in.EpisodeID, false, partial)
	errs.number("movieId", in.MovieID, false, partial)
	errs.requireText("serverName", in.ServerName, partial)
	errs.number("serverNumber", in.ServerNumber, true, partial)
	errs.requireText("videoUrl", in.VideoURL, partial)

	// Ownership is exactly-one-of. Partial payloads may name a single
	// owner (or none) without error.
	if in.EpisodeID.Valid && in.MovieID.Valid {
		errs.add("episodeId", "only one of episodeId or movieId may be set")
	} else if !partial && !in.EpisodeID.Valid && !in.MovieID.Valid {
		errs.add("episodeId", "one of episodeId or movieId is required")
	}
	return errs
}

func Server(in *models.ServerInput, partial bool) Errors {
	var errs Errors
	errs.requireText("name", in.Name, partial)
	errs.number("number", in.Number, true, partial)
	errs.oneOf("status", in.Status, models.ServerStatuses)
	errs.number("storageUsed", in.StorageUsed, false, partial)
	errs.number("totalStorage", in.TotalStorage, false, partial)
	return errs
}
