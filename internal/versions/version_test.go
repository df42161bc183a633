package versions

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRelease(t *testing.T) {
	t.Parallel()

	assert.True(t, IsRelease("1.4.0"))
	assert.True(t, IsRelease("v0.2.1"))
	assert.False(t, IsRelease("1.4.0-rc.2"))
	assert.False(t, IsRelease("dev"))
}

func TestGetVersionInfo(t *testing.T) {
	t.Parallel()

	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.False(t, info.Release)
}
