package format_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/collabmap/format"
	_ "github.com/lehigh-university-libraries/collabmap/format/collaborations"
	_ "github.com/lehigh-university-libraries/collabmap/format/edgelist"
	_ "github.com/lehigh-university-libraries/collabmap/format/locations"
	_ "github.com/lehigh-university-libraries/collabmap/format/papers"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		peek     string
		want     string
	}{
		{"edgelist header", "x.csv", "Source,Target,Conference\r\n", "edgelist"},
		{"papers header", "x.csv", "Title,Authors,Collaborating Universities\n", "papers"},
		{"locations header with BOM", "x.csv", "\ufeffUniversity,Latitude,Longitude\n", "locations"},
		{"collaborations by name", "collaborations.csv", "", "collaborations"},
		{"locations by name", "out/university_locations.csv", "garbage", "locations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := format.DetectFormat(tt.filename, []byte(tt.peek))
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Name())
		})
	}

	_, err := format.DetectFormat("notes.txt", []byte("hello"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	f, ok := format.Get("edgelist")
	require.True(t, ok)

	n, err := format.Validate(f, strings.NewReader("Source,Target,Conference\nA,B,C\nB,C,D\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = format.Validate(f, strings.NewReader("Title,Authors\n"))
	assert.ErrorIs(t, err, format.ErrHeaderMismatch)
}

func TestListIsSorted(t *testing.T) {
	assert.Equal(t, []string{"collaborations", "edgelist", "locations", "papers"}, format.DefaultRegistry.List())
}
