// FILE: lixenwraith/execution/scan.go
package execution

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ClassSuffix marks files and archive entries that name an option class.
const ClassSuffix = ".class"

// IgnoredArchives lists classpath segments, archives or directories, that
// are never scanned. An entry matches any segment ending with it.
var IgnoredArchives = []string{}

// FileFilter decides whether a file is yielded. Directories are always
// traversed and never passed to the filter.
type FileFilter func(dir, name string) bool

// AcceptAll is the default filter.
func AcceptAll(string, string) bool { return true }

// SuffixFilter accepts file names ending in suffix.
func SuffixFilter(suffix string) FileFilter {
	return func(_, name string) bool { return strings.HasSuffix(name, suffix) }
}

type fileEntry struct {
	path string
	dir  bool
}

type dirFrame struct {
	entries []fileEntry
	index   int
}

// LazyFileIterator walks a directory tree depth first, producing files on
// demand. Pending sibling lists live on an explicit stack, so nesting depth
// is bounded only by memory.
type LazyFileIterator struct {
	root    string
	filter  FileFilter
	entries []fileEntry
	parents []dirFrame
	index   int // position in entries of the next file, -1 when exhausted
}

// NewLazyFileIterator iterates every file under root accepted by filter.
// A nil filter accepts everything.
func NewLazyFileIterator(root string, filter FileFilter) (*LazyFileIterator, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchDirectory, root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}
	if filter == nil {
		filter = AcceptAll
	}

	it := &LazyFileIterator{root: root, filter: filter}
	it.Reset()
	return it, nil
}

// NewLazyFileIteratorPattern yields files whose full path matches pattern
// in its entirety.
func NewLazyFileIteratorPattern(root, pattern string) (*LazyFileIterator, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}
	return NewLazyFileIterator(root, func(dir, name string) bool {
		return re.MatchString(filepath.Join(dir, name))
	})
}

// Reset restarts the traversal from the root.
func (it *LazyFileIterator) Reset() {
	it.parents = it.parents[:0]
	it.entries = it.list(it.root)
	it.index = -1
	it.advance()
}

// list reads one directory. Unreadable directories are skipped.
func (it *LazyFileIterator) list(dir string) []fileEntry {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		Log().Debug().Err(err).Str("dir", dir).Msg("skipping unreadable directory")
		return nil
	}

	entries := make([]fileEntry, 0, len(dirEntries))
	for _, e := range dirEntries {
		path := filepath.Join(dir, e.Name())
		isDir := e.IsDir()
		if e.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(path); err == nil {
				isDir = info.IsDir()
			}
		}
		if isDir || it.filter(dir, e.Name()) {
			entries = append(entries, fileEntry{path: path, dir: isDir})
		}
	}
	return entries
}

// advance moves to the next file, descending into and returning from
// directories as needed.
func (it *LazyFileIterator) advance() {
	it.index++
	for it.index >= len(it.entries) || it.entries[it.index].dir {
		if it.index >= len(it.entries) {
			if len(it.parents) == 0 {
				it.index = -1
				return
			}
			frame := it.parents[len(it.parents)-1]
			it.parents = it.parents[:len(it.parents)-1]
			it.entries, it.index = frame.entries, frame.index
			continue
		}

		dir := it.entries[it.index].path
		it.parents = append(it.parents, dirFrame{entries: it.entries, index: it.index + 1})
		it.entries, it.index = it.list(dir), 0
	}
}

// HasNext reports whether another file is available.
func (it *LazyFileIterator) HasNext() bool {
	return it.index >= 0
}

// Next returns the path of the next file.
func (it *LazyFileIterator) Next() (string, error) {
	if it.index < 0 || it.index >= len(it.entries) {
		return "", ErrNoMoreFiles
	}
	path := it.entries[it.index].path
	it.advance()
	return path, nil
}

// All yields the remaining files.
func (it *LazyFileIterator) All() func(yield func(string) bool) {
	return func(yield func(string) bool) {
		for it.HasNext() {
			path, err := it.Next()
			if err != nil || !yield(path) {
				return
			}
		}
	}
}

// filePathToClassName converts a file below a classpath root to a class
// identifier.
func filePathToClassName(root, path string) (string, error) {
	root = filepath.Clean(root)
	if len(path) <= len(root) || !strings.HasPrefix(path, root) || path[len(root)] != filepath.Separator {
		return "", fmt.Errorf("illegal path: cp=%s path=%s", root, path)
	}
	rel := strings.TrimSuffix(path[len(root)+1:], ClassSuffix)
	return strings.ReplaceAll(rel, string(filepath.Separator), "."), nil
}

func isIgnored(entry string) bool {
	for _, ignore := range IgnoredArchives {
		if strings.HasSuffix(entry, ignore) {
			return true
		}
	}
	return false
}

// ScanClasspath resolves every class named below the classpath segments.
// Directories are walked for files ending in ClassSuffix, other segments are
// read as zip archives. Segments ending in an IgnoredArchives suffix are
// skipped either way. Unresolvable classes and unreadable archives are
// logged and skipped. Each class appears once.
func ScanClasspath(classpath []string) []*Class {
	log := Log()
	seen := make(map[string]bool)
	var classes []*Class

	add := func(name, origin string) {
		if seen[name] {
			return
		}
		class, err := LookupClass(name)
		if err != nil {
			log.Warn().Str("class", name).Str("segment", origin).Msg("could not load class")
			return
		}
		seen[name] = true
		classes = append(classes, class)
	}

	for _, entry := range classpath {
		log.Debug().Str("segment", entry).Msg("checking classpath")
		if entry == "." || strings.TrimSpace(entry) == "" {
			continue
		}
		if isIgnored(entry) {
			log.Debug().Str("segment", entry).Msg("ignored segment")
			continue
		}

		if info, err := os.Stat(entry); err == nil && info.IsDir() {
			it, err := NewLazyFileIterator(entry, SuffixFilter(ClassSuffix))
			if err != nil {
				log.Warn().Err(err).Str("segment", entry).Msg("could not scan directory")
				continue
			}
			for path := range it.All() {
				name, err := filePathToClassName(entry, path)
				if err != nil {
					log.Warn().Err(err).Msg("skipping class file")
					continue
				}
				add(name, entry)
			}
			continue
		}

		names, err := archiveClassNames(entry)
		if err != nil {
			log.Warn().Err(err).Str("segment", entry).Msg("could not open archive (are you sure the file exists?)")
			continue
		}
		for _, name := range names {
			add(name, entry)
		}
	}

	return classes
}

func archiveClassNames(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, ClassSuffix) {
			continue
		}
		names = append(names, strings.ReplaceAll(strings.TrimSuffix(f.Name, ClassSuffix), "/", "."))
	}
	return names, nil
}

// DiscoverClasses returns the classes visible on classpath. An empty
// classpath makes every catalogued class visible.
func DiscoverClasses(classpath []string) []*Class {
	if len(classpath) == 0 {
		return Classes()
	}
	return ScanClasspath(classpath)
}

// WriteClasspath creates an empty marker file below dir for each class so dir
// can serve as a classpath segment that exposes exactly those classes.
func WriteClasspath(dir string, classes ...*Class) error {
	for _, class := range classes {
		rel := strings.ReplaceAll(class.Name(), ".", string(filepath.Separator)) + ClassSuffix
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create classpath directory for %s: %w", class.Name(), err)
		}
		if err := os.WriteFile(path, nil, 0644); err != nil {
			return fmt.Errorf("failed to write class marker for %s: %w", class.Name(), err)
		}
	}
	return nil
}
