package document

import "time"

// TimestampLayout is the format written to the timestamp column (UTC, millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Column positions of a stored row.
const (
	ColTimestamp = iota
	ColURL
	ColTitle
	ColTags

	NumColumns
)

// HeaderRow is row 0 of the tabular store. Search never returns it.
var HeaderRow = []string{"timestamp", "url", "title", "tags"}

// Record is one saved page. Records are only ever appended.
type Record struct {
	Timestamp string `json:"timestamp" bson:"timestamp"`
	URL       string `json:"url" bson:"url"`
	Title     string `json:"title" bson:"title"`
	Tags      string `json:"tags" bson:"tags"`
}

// NewRecord stamps a record with t formatted as TimestampLayout in UTC.
func NewRecord(t time.Time, url, title, tags string) Record {
	return Record{
		Timestamp: t.UTC().Format(TimestampLayout),
		URL:       url,
		Title:     title,
		Tags:      tags,
	}
}

// Row returns the record in fixed column order.
func (r Record) Row() []string {
	return []string{r.Timestamp, r.URL, r.Title, r.Tags}
}

// RecordFromRow reads a row in column order. Short rows leave trailing fields empty.
func RecordFromRow(row []string) Record {
	var r Record
	fields := []*string{&r.Timestamp, &r.URL, &r.Title, &r.Tags}
	for i := 0; i < len(row) && i < len(fields); i++ {
		*fields[i] = row[i]
	}
	return r
}

// SearchResult is the public projection of a record returned by search.
type SearchResult struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Tags  string `json:"tags"`
}

// Result drops the timestamp.
func (r Record) Result() SearchResult {
	return SearchResult{URL: r.URL, Title: r.Title, Tags: r.Tags}
}
