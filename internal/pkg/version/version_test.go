//go:build unit

package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetGitInfo(t *testing.T) {
	info := GetGitInfo()

	assert.NotEmpty(t, info.Commit)
	assert.NotEmpty(t, info.Branch)
	assert.NotEmpty(t, info.Tag)
	assert.False(t, strings.ContainsAny(info.Commit+info.Branch+info.Tag, "\n\r "))
	assert.Equal(t, strings.TrimSpace(dirty) == "dirty", info.Dirty)
}
