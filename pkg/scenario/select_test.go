package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatcher(t *testing.T) {
	tests := []struct {
		name    string
		list    string
		matches map[string]bool
	}{
		{
			name: "empty matches all",
			list: "",
			matches: map[string]bool{
				"basic/drag-three":        true,
				"connect/output-to-value": true,
			},
		},
		{
			name: "single segment wildcard",
			list: "basic/*",
			matches: map[string]bool{
				"basic/drag-three":        true,
				"basic/deep/nested":       false,
				"connect/output-to-value": false,
			},
		},
		{
			name: "double star crosses segments",
			list: "basic/**",
			matches: map[string]bool{
				"basic/drag-three":  true,
				"basic/deep/nested": true,
			},
		},
		{
			name: "exclude only",
			list: "!rtl/*",
			matches: map[string]bool{
				"rtl/drag-mirrored": false,
				"menu/delete-block": true,
			},
		},
		{
			name: "exclusions take precedence",
			list: "*/drag-*, !rtl/*",
			matches: map[string]bool{
				"basic/drag-three":  true,
				"flyout/drag-nth":   true,
				"rtl/drag-mirrored": false,
				"menu/delete-block": false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMatcher(tt.list)
			require.NoError(t, err)
			for name, want := range tt.matches {
				assert.Equal(t, want, m.Match(name), name)
			}
		})
	}
}

func TestNewMatcherInvalidPattern(t *testing.T) {
	_, err := NewMatcher([]string{"basic/["}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")

	_, err = NewMatcher(nil, []string{"rtl/["})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid exclude pattern")
}

func TestSelectKeepsOrder(t *testing.T) {
	m, err := ParseMatcher("basic/*,menu/*")
	require.NoError(t, err)

	var names []string
	for _, sc := range m.Select(All()) {
		names = append(names, sc.Name)
	}
	assert.Equal(t, []string{"basic/drag-three", "menu/delete-block"}, names)
}

func TestRegistry(t *testing.T) {
	sc, ok := Lookup("connect/output-to-value")
	require.True(t, ok)
	assert.NotEmpty(t, sc.Description)

	_, ok = Lookup("missing")
	assert.False(t, ok)

	all := All()
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}

	assert.Panics(t, func() { Register(sc) })
	assert.Panics(t, func() { Register(Scenario{Name: "incomplete"}) })
}
