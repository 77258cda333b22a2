package storage

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteHost(t *testing.T) {
	u, err := url.Parse("http://minio:9000/meeting-notes/exports/a.txt?X-Amz-Signature=abc")
	require.NoError(t, err)

	out, err := rewriteHost(u, "")
	require.NoError(t, err)
	assert.Equal(t, u.String(), out)

	out, err = rewriteHost(u, "https://files.example.org")
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.org/meeting-notes/exports/a.txt?X-Amz-Signature=abc", out)
}
