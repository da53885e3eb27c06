// Package sample builds the fixed movies dataset used to exercise loads.
package sample

import (
	"fmt"
	"time"
	_ "time/tzdata" // zone data for the release_date wall clocks

	"cloud.google.com/go/civil"
	"github.com/vvka-141/bqkit/internal/frame"
)

// Column and index names of the movies dataset, in load order.
const (
	IndexName           = "wikidata_id"
	ColumnTitle         = "title"
	ColumnReleaseYear   = "release_year"
	ColumnLengthMinutes = "length_minutes"
	ColumnReleaseDate   = "release_date"
	ColumnDVDRelease    = "dvd_release"
)

// Columns is the declared column order of the movies dataset.
var Columns = []string{
	ColumnTitle,
	ColumnReleaseYear,
	ColumnLengthMinutes,
	ColumnReleaseDate,
	ColumnDVDRelease,
}

type movie struct {
	id            string
	title         string
	releaseYear   int64
	lengthMinutes float64
	zone          string
	released      civil.DateTime // wall clock in zone
	dvdRelease    civil.DateTime // naive, taken as UTC by convention
}

var movies = []movie{
	{
		id:            "Q24980",
		title:         "The Meaning of Life",
		releaseYear:   1983,
		lengthMinutes: 112.5,
		zone:          "Europe/Paris",
		released:      dateTime(1983, time.May, 9, 13, 0, 0),
		dvdRelease:    dateTime(2002, time.January, 22, 7, 0, 0),
	},
	{
		id:            "Q25043",
		title:         "Monty Python and the Holy Grail",
		releaseYear:   1975,
		lengthMinutes: 91.5,
		zone:          "Europe/London",
		released:      dateTime(1975, time.April, 9, 23, 59, 2),
		dvdRelease:    dateTime(2002, time.July, 16, 9, 0, 0),
	},
	{
		id:            "Q24953",
		title:         "Life of Brian",
		releaseYear:   1979,
		lengthMinutes: 94.25,
		zone:          "America/New_York",
		released:      dateTime(1979, time.August, 17, 23, 59, 5),
		dvdRelease:    dateTime(2008, time.January, 14, 8, 0, 0),
	},
	{
		id:            "Q16403",
		title:         "And Now for Something Completely Different",
		releaseYear:   1971,
		lengthMinutes: 88.0,
		zone:          "Europe/London",
		released:      dateTime(1971, time.September, 28, 23, 59, 7),
		dvdRelease:    dateTime(2003, time.October, 22, 10, 0, 0),
	},
}

func dateTime(year int, month time.Month, day, hour, minute, second int) civil.DateTime {
	return civil.DateTime{
		Date: civil.Date{Year: year, Month: month, Day: day},
		Time: civil.Time{Hour: hour, Minute: minute, Second: second},
	}
}

// Movies returns the four-record movies frame indexed by wikidata_id.
//
// release_date is the local release wall clock converted to a UTC instant.
// dvd_release stays a naive civil.DateTime and is never zone adjusted.
func Movies() (*frame.Frame, error) {
	ids := make([]string, 0, len(movies))
	records := make([][]any, 0, len(movies))

	for _, m := range movies {
		loc, err := time.LoadLocation(m.zone)
		if err != nil {
			return nil, fmt.Errorf("load zone %s: %w", m.zone, err)
		}
		ids = append(ids, m.id)
		records = append(records, []any{
			m.title,
			m.releaseYear,
			m.lengthMinutes,
			m.released.In(loc).UTC(),
			m.dvdRelease,
		})
	}

	return frame.New(Columns, records, frame.WithIndex(IndexName, ids))
}
