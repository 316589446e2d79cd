package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{in: "v1.2.3", want: Version{Major: 1, Minor: 2, Patch: 3, Raw: "v1.2.3"}},
		{in: "1.2.3", want: Version{Major: 1, Minor: 2, Patch: 3, Raw: "1.2.3"}},
		{in: "v2", want: Version{Major: 2, Raw: "v2"}},
		{in: "v1.4", want: Version{Major: 1, Minor: 4, Raw: "v1.4"}},
		{in: "v1.0.0-rc.1", want: Version{Major: 1, Prerelease: "rc.1", Raw: "v1.0.0-rc.1"}},
		{in: "v0.3.0-beta", want: Version{Minor: 3, Prerelease: "beta", Raw: "v0.3.0-beta"}},
		{in: "main", wantErr: true},
		{in: "v1.2.3.4", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := ParseVersion(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestVersionString(t *testing.T) {
	// Canonical form always carries the prefix and all three components.
	v, err := ParseVersion("1.2")
	require.NoError(t, err)
	assert.Equal(t, "v1.2.0", v.String())

	v, err = ParseVersion("v1.0.0-beta.2")
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0-beta.2", v.String())
}

func TestVersionCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"v1.0.0", "v1.0.0", 0},
		{"v1.0.0", "v1.0.1", -1},
		{"v1.2.0", "v1.10.0", -1},
		{"v2.0.0", "v1.9.9", 1},
		{"v1.0.0-alpha", "v1.0.0", -1},
		{"v1.0.0-alpha", "v1.0.0-beta", -1},
		{"v1.0.0-alpha", "v1.0.0-alpha.1", -1},
		{"v1.0.0-2", "v1.0.0-10", -1},
		{"v1.0.0-1", "v1.0.0-alpha", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			a, err := ParseVersion(tt.a)
			require.NoError(t, err)
			b, err := ParseVersion(tt.b)
			require.NoError(t, err)

			assert.Equal(t, tt.want, a.Compare(b))
			assert.Equal(t, -tt.want, b.Compare(a))
			assert.Equal(t, tt.want < 0, a.Less(b))
		})
	}
}

func TestSortVersions(t *testing.T) {
	raw := []string{"v2.0.0", "v1.0.0-rc.1", "v1.0.0", "v1.10.0", "v1.2.0"}
	vs := make([]Version, len(raw))
	for i, r := range raw {
		v, err := ParseVersion(r)
		require.NoError(t, err)
		vs[i] = v
	}

	SortVersions(vs)

	got := make([]string, len(vs))
	for i, v := range vs {
		got[i] = v.String()
	}
	assert.Equal(t, []string{"v1.0.0-rc.1", "v1.0.0", "v1.2.0", "v1.10.0", "v2.0.0"}, got)
}
