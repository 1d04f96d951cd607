package repository

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/swetasamaddar-clear/document-finder/internal/document"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMongoReadOrder(t *testing.T) {
	require.Equal(t, bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}}, readOrder)
}

// readOrder relies on stored timestamps sorting as strings in time order.
func TestTimestampsSortChronologically(t *testing.T) {
	base := time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)
	offsets := []time.Duration{0, time.Millisecond, 999 * time.Millisecond, time.Second, 10 * time.Hour}

	var want, got []string
	for _, d := range offsets {
		ts := document.NewRecord(base.Add(d).In(time.FixedZone("X", 3600)), "u", "t", "g").Timestamp
		want = append(want, ts)
		got = append(got, ts)
	}
	sort.Strings(got)
	require.Equal(t, want, got)
}
