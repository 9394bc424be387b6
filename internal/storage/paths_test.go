package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	const base = "http://localhost:8000"
	const root = "uploads"

	testCases := []struct {
		name   string
		stored string
		want   string
	}{
		{
			name:   "forward_slash_path",
			stored: "uploads/users/alice/tryon_7/person.jpg",
			want:   "http://localhost:8000/uploads/users/alice/tryon_7/person.jpg",
		},
		{
			name:   "single_backslashes",
			stored: `uploads\users\alice\tryon_7\cloth.jpg`,
			want:   "http://localhost:8000/uploads/users/alice/tryon_7/cloth.jpg",
		},
		{
			name:   "doubled_backslashes",
			stored: `uploads\\users\\alice\\tryon_7\\output.png`,
			want:   "http://localhost:8000/uploads/users/alice/tryon_7/output.png",
		},
		{
			name:   "mixed_separators",
			stored: `uploads\\users\alice/tryon_7/person.jpg`,
			want:   "http://localhost:8000/uploads/users/alice/tryon_7/person.jpg",
		},
		{
			name:   "root_stripped_only_once",
			stored: "uploads/users/uploads-fan/tryon_1/person.jpg",
			want:   "http://localhost:8000/uploads/users/uploads-fan/tryon_1/person.jpg",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PublicURL(base, root, tc.stored))
		})
	}
}

func TestPublicURL_TrailingSlashBase(t *testing.T) {
	got := PublicURL("http://api.example.com/", "uploads", "uploads/users/bob/tryon_2/output.png")

	assert.Equal(t, "http://api.example.com/uploads/users/bob/tryon_2/output.png", got)
}
