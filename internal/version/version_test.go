package version

import (
	"encoding/json"
	"runtime"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "none", info.GitCommit)
	assert.Equal(t, "unknown", info.BuildDate)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "1.4.0",
		GitCommit: "abc1234",
		Dirty:     true,
		BuildDate: "2026-01-02T03:04:05Z",
		GoVersion: "go1.25.6",
		Platform:  "linux/amd64",
	}

	want := "projgrid 1.4.0\n" +
		"  commit:   abc1234 (modified)\n" +
		"  built:    2026-01-02T03:04:05Z\n" +
		"  runtime:  go1.25.6 linux/amd64"
	assert.Equal(t, want, info.String())
}

func TestStamp(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc1234def5678"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	t.Run("fills defaults", func(t *testing.T) {
		got := stamp(Info{Version: "dev", GitCommit: "none", BuildDate: "unknown"}, bi)

		assert.Equal(t, "1.4.0", got.Version)
		assert.Equal(t, "abc1234def5678", got.GitCommit)
		assert.Equal(t, "2026-01-02T03:04:05Z", got.BuildDate)
		assert.True(t, got.Dirty)
	})

	t.Run("ldflags win", func(t *testing.T) {
		got := stamp(Info{Version: "2.0.0", GitCommit: "fffffff", BuildDate: "today"}, bi)

		assert.Equal(t, "2.0.0", got.Version)
		assert.Equal(t, "fffffff", got.GitCommit)
		assert.Equal(t, "today", got.BuildDate)
	})

	t.Run("devel main module", func(t *testing.T) {
		got := stamp(Info{Version: "dev"}, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
		assert.Equal(t, "dev", got.Version)
		assert.False(t, got.Dirty)
	})
}

func TestInfoJSON(t *testing.T) {
	info := GetInfo()

	jsonStr, err := info.JSON()
	require.NoError(t, err)

	var parsed Info
	require.NoError(t, json.Unmarshal([]byte(jsonStr), &parsed))
	assert.Equal(t, info, parsed)
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	assert.True(t, strings.HasPrefix(ua, "projgrid/dev ("))
	assert.Contains(t, ua, runtime.GOOS+"/"+runtime.GOARCH)
}

func TestShortCommit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"long SHA truncated", "abc1234def5678", "abc1234"},
		{"exact 7 unchanged", "abc1234", "abc1234"},
		{"short unchanged", "abc", "abc"},
		{"empty unchanged", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shortCommit(tt.input))
		})
	}
}
