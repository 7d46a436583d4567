package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortRoomListing(t *testing.T) {
	now := time.Now().UTC()

	tcases := []struct {
		name     string
		rooms    []Room
		expected []string
	}{
		{
			name: "non-recording rooms first, newest first within each group",
			rooms: []Room{
				{ExternalId: "roomA", CreatedAt: now},
				{ExternalId: "roomB", IsRecording: true, CreatedAt: now.Add(time.Minute)},
				{ExternalId: "roomC", CreatedAt: now.Add(2 * time.Minute)},
			},
			expected: []string{"roomC", "roomA", "roomB"},
		},
		{
			name: "recording rooms sort newest first among themselves",
			rooms: []Room{
				{ExternalId: "roomA", IsRecording: true, CreatedAt: now},
				{ExternalId: "roomB", IsRecording: true, CreatedAt: now.Add(time.Minute)},
				{ExternalId: "roomC", CreatedAt: now},
			},
			expected: []string{"roomC", "roomB", "roomA"},
		},
		{
			name: "equal creation times keep their relative order",
			rooms: []Room{
				{ExternalId: "roomA", CreatedAt: now},
				{ExternalId: "roomB", CreatedAt: now},
				{ExternalId: "roomC", CreatedAt: now},
			},
			expected: []string{"roomA", "roomB", "roomC"},
		},
		{
			name:     "empty listing",
			rooms:    nil,
			expected: []string{},
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			sortRoomListing(tc.rooms)

			ids := make([]string, 0, len(tc.rooms))
			for _, room := range tc.rooms {
				ids = append(ids, room.ExternalId)
			}
			assert.Equal(t, tc.expected, ids)
		})
	}
}
