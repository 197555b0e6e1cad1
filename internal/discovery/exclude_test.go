package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewExcludeSet(t *testing.T) {
	t.Parallel()

	t.Run("defaults without user patterns", func(t *testing.T) {
		set := NewExcludeSet(nil)
		assert.Equal(t, []string{".git", "target", "node_modules", ".idea", ".vscode"}, set.Patterns())
	})

	t.Run("user patterns are appended", func(t *testing.T) {
		set := NewExcludeSet([]string{"dist", "", "target", "dist"})
		assert.Equal(t, []string{".git", "target", "node_modules", ".idea", ".vscode", "dist"}, set.Patterns())
	})

	t.Run("patterns copy is detached", func(t *testing.T) {
		set := NewExcludeSet(nil)
		p := set.Patterns()
		p[0] = "mutated"
		assert.Equal(t, ".git", set.Patterns()[0])
	})
}

func TestExcludeSet_Matches(t *testing.T) {
	t.Parallel()

	set := NewExcludeSet([]string{"generated"})

	tests := []struct {
		path string
		want bool
	}{
		{"src/main.go", false},
		{".git/config", true},
		{"target", true},
		{"module/target/classes/A.class", true},
		{"retargeting/x.go", true},
		{"web/node_modules/lib/index.js", true},
		{".idea/workspace.xml", true},
		{"api/generated.pb.go", true},
		{"Target/x", false},
		{".", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, set.Matches(tt.path))
		})
	}
}
