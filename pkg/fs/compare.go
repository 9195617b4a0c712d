package fs

import "sort"

// separatorKey is appended to a directory's sort key to stand in for the
// path separator (spec.md §4.2's "comparator that treats directories as if
// their name were suffixed by the path-separator character"). It must sort
// below every character a valid path segment can contain — in particular
// below '.' (0x2e) — or a directory "foo" would sort *after* a sibling file
// "foo.bar" instead of before it, since the literal separator byte ('/',
// 0x2f) sorts above '.'. A NUL byte satisfies that for any realistic path
// segment; it is only ever used as a comparison key, never written back to
// a path.
const separatorKey = "\x00"

// sortKey returns name's comparison key: name itself for a file, or name
// with separatorKey appended for a directory.
func sortKey(name string, isDir bool) string {
	if isDir {
		return name + separatorKey
	}
	return name
}

// SortChildren orders children in place per the adjusted comparator so that
// recursive depth-first traversal corresponds to lexicographic comparison
// of each node's full path. A child whose IsDirectory check fails is
// treated as a plain file for ordering purposes and the error is logged;
// it will still surface normally when the iterator visits it.
func SortChildren(children []File) {
	type keyed struct {
		file File
		key  string
	}
	entries := make([]keyed, len(children))
	for i, c := range children {
		isDir, err := c.IsDirectory()
		if err != nil {
			logger.Warn().Err(err).Str("path", c.Path()).Msg("could not determine directory-ness for sort")
			isDir = false
		}
		entries[i] = keyed{file: c, key: sortKey(c.Name(), isDir)}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})
	for i, e := range entries {
		children[i] = e.file
	}
}
