package skeleton

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/quantmind-br/smashy/internal/domain"
)

// Registry maps file extensions to skeletonizers.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	byExt map[string]domain.Skeletonizer
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]domain.Skeletonizer)}
}

// NewDefaultRegistry returns a registry with every built-in language
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewJava(), ".java")
	r.Register(NewPython(), ".py", ".pyi")
	r.Register(NewGo(), ".go")
	r.Register(NewShell(), ".sh", ".bash")
	return r
}

// Register binds s to each extension. Extensions are matched
// case-insensitively and may be given with or without the leading dot.
// Panics on an empty or already registered extension.
func (r *Registry) Register(s domain.Skeletonizer, exts ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range exts {
		key := normalizeExt(ext)
		if key == "" || key == "." {
			panic("skeleton: cannot register empty extension")
		}
		if _, exists := r.byExt[key]; exists {
			panic(fmt.Sprintf("skeleton: extension %q already registered", key))
		}
		r.byExt[key] = s
	}
}

// Lookup returns the skeletonizer for the extension of file
func (r *Registry) Lookup(file string) (domain.Skeletonizer, bool) {
	ext := path.Ext(domain.ToSlash(file))
	if ext == "" {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byExt[strings.ToLower(ext)]
	return s, ok
}

// Extensions returns the registered extensions in sorted order
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
