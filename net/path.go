// Package net implements the module graph, gate/channel routing fabric, and
// message transport: modules addressed by hierarchical path, gates chained
// through optional channels, and the routing/processing/shutdown machinery
// that drives message delivery.
package net

import "strings"

// Path is a validated hierarchical module name, e.g. "net/hostA/nic0".
// Segments may be separated by "/" (preferred) or "." (legacy NDL form);
// parsing normalizes to "/"-joined storage.
type Path struct {
	segments []string
}

// ParsePath validates and parses s, accepting both "a/b/c" and the legacy
// dot-separated "a.b.c" form described in
// original_source/des/src/net/common/path.rs: empty segments, a leading
// separator, and ".." segments are rejected.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Path{}, ErrEmptyPath
	}
	sep := "/"
	if !strings.Contains(s, "/") && strings.Contains(s, ".") {
		sep = "."
	}
	raw := strings.Split(s, sep)
	segments := make([]string, 0, len(raw))
	for _, seg := range raw {
		if seg == "" {
			return Path{}, ErrEmptyPathSegment
		}
		if seg == ".." {
			return Path{}, ErrInvalidPathSegment
		}
		segments = append(segments, seg)
	}
	return Path{segments: segments}, nil
}

// MustParsePath is ParsePath for call sites (tests, topology builders)
// constructing paths from compile-time-known constants.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Child returns the path of a child segment appended to p.
func (p Path) Child(name string) Path {
	segments := make([]string, len(p.segments)+1)
	copy(segments, p.segments)
	segments[len(p.segments)] = name
	return Path{segments: segments}
}

// Parent returns p with its last segment removed, and false if p is a root
// path (a single segment).
func (p Path) Parent() (Path, bool) {
	if len(p.segments) <= 1 {
		return Path{}, false
	}
	return Path{segments: p.segments[:len(p.segments)-1]}, true
}

// Leaf returns the last segment of p.
func (p Path) Leaf() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// String renders p in canonical "/"-joined form.
func (p Path) String() string { return strings.Join(p.segments, "/") }

// Depth reports the number of segments in p.
func (p Path) Depth() int { return len(p.segments) }
