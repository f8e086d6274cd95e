package sandbox

import "path/filepath"

// mountRegistry tracks which sandbox paths already have a directory or
// bind declared, keeping the rendered plan free of duplicate operations.
type mountRegistry struct {
	seen map[string]struct{}
}

func newMountRegistry() *mountRegistry {
	return &mountRegistry{seen: make(map[string]struct{})}
}

// parentDirs returns the components of target that still need a --dir
// operation, root-to-leaf, and marks them seen. The filesystem root
// itself is never created.
func (r *mountRegistry) parentDirs(target string) []string {
	var dirs []string
	for _, dir := range pathHierarchy(target) {
		key := "dir:" + dir
		if _, ok := r.seen[key]; ok {
			continue
		}
		r.seen[key] = struct{}{}
		dirs = append(dirs, dir)
	}
	return dirs
}

// markBound records a bind target. It reports false if the target was
// already bound.
func (r *mountRegistry) markBound(target string) bool {
	key := "bind:" + target
	if _, ok := r.seen[key]; ok {
		return false
	}
	r.seen[key] = struct{}{}
	return true
}

// markDir records a path as present without emitting a directory
// operation. Used for symlinks, whose targets provide the directory;
// nothing beneath the link needs parent creation.
func (r *mountRegistry) markDir(path string) {
	r.seen["dir:"+path] = struct{}{}
}

// pathHierarchy returns every directory from the root down to path
// itself: "/a/b/c" yields ["/a", "/a/b", "/a/b/c"].
func pathHierarchy(path string) []string {
	path = filepath.Clean(path)
	if path == "/" || path == "." {
		return nil
	}

	var components []string
	for current := path; current != "/" && current != "."; current = filepath.Dir(current) {
		components = append(components, current)
	}

	// Reverse to get root-to-leaf order.
	for i, j := 0, len(components)-1; i < j; i, j = i+1, j-1 {
		components[i], components[j] = components[j], components[i]
	}
	return components
}
