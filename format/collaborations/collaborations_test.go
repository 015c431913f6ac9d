package collaborations

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/collabmap/collab"
)

func TestReadWrite(t *testing.T) {
	in := []collab.Collaboration{
		{Author1: "Ada", Author2: "Grace", Count: 3},
		{Author1: "Grace", Author2: "Edsger", Count: 1.5},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, in))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestReadRejectsBadCount(t *testing.T) {
	_, err := Read(strings.NewReader("Author1,Author2,Collaboration_Count\nA,B,many\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
}
