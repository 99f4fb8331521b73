package metastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    []string
		wantErr bool
	}{
		{name: "root", path: "/", want: nil},
		{name: "single component", path: "/data", want: []string{"data"}},
		{name: "nested", path: "/a/b/c", want: []string{"a", "b", "c"}},
		{name: "empty", path: "", wantErr: true},
		{name: "relative", path: "data/x", wantErr: true},
		{name: "trailing slash", path: "/data/", wantErr: true},
		{name: "empty segment", path: "/a//b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitParent(t *testing.T) {
	parent, name, err := SplitParent("/a/b/c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, parent)
	assert.Equal(t, "c", name)

	parent, name, err = SplitParent("/top")
	require.NoError(t, err)
	assert.Empty(t, parent)
	assert.Equal(t, "top", name)

	_, _, err = SplitParent("/")
	assert.Error(t, err)
}
