package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangeChannel(t *testing.T) {
	assert.Equal(t, "meeting-notes:default-app-id:changes", ChangeChannel("default-app-id"))
}
