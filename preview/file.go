package preview

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"sort"
	"time"

	"github.com/ancientlore/sitegen/content"
)

// renderFile holds the rendered contents of a virtual file.
type renderFile struct {
	reader *bytes.Reader
	info   renderFileInfo
}

// Stat returns a FileInfo describing the file.
func (f *renderFile) Stat() (fs.FileInfo, error) {
	return f.info, nil
}

// Read reads up to len(b) bytes from the File. It returns the number of bytes read
// and any error encountered. At end of file, Read returns 0, io.EOF.
func (f *renderFile) Read(b []byte) (int, error) {
	return f.reader.Read(b)
}

// Seek sets the offset for the next Read to offset, interpreted according to whence.
func (f *renderFile) Seek(offset int64, whence int) (int64, error) {
	return f.reader.Seek(offset, whence)
}

// Close closes the file. Rendered files are in memory, so this function does nothing.
func (f *renderFile) Close() error {
	return nil
}

// newRenderFile wraps rendered data as a read-only file.
func newRenderFile(name string, data []byte, modTime time.Time) *renderFile {
	return &renderFile{
		reader: bytes.NewReader(data),
		info: renderFileInfo{
			name:    name,
			size:    int64(len(data)),
			modTime: modTime,
		},
	}
}

// renderFileInfo holds the metadata about a rendered file.
type renderFileInfo struct {
	name    string
	size    int64
	modTime time.Time
}

func (fi renderFileInfo) Name() string       { return fi.name }
func (fi renderFileInfo) Size() int64        { return fi.size }
func (fi renderFileInfo) Mode() fs.FileMode  { return 0444 }
func (fi renderFileInfo) ModTime() time.Time { return fi.modTime }
func (fi renderFileInfo) IsDir() bool        { return false }
func (fi renderFileInfo) Sys() any           { return nil }

// virtualDir presents a directory of the content folder, listing content
// files by route name and leaving out hidden files.
type virtualDir struct {
	fs.File

	vfs     *FS
	path    string
	entries []fs.DirEntry
	loaded  bool
	pos     int
}

// ReadDir reads the contents of the directory and returns a slice of up to n
// DirEntry values in directory order.
func (d *virtualDir) ReadDir(n int) ([]fs.DirEntry, error) {
	if !d.loaded {
		rdf, ok := d.File.(fs.ReadDirFile)
		if !ok {
			return nil, &fs.PathError{Op: "readdir", Path: d.path, Err: errors.New("not implemented")}
		}
		all, err := rdf.ReadDir(-1)
		if err != nil {
			return nil, err
		}
		d.entries = d.vfs.filterEntries(d.path, all)
		d.loaded = true
	}
	rest := d.entries[d.pos:]
	if n <= 0 {
		d.pos = len(d.entries)
		return rest, nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	if n > len(rest) {
		n = len(rest)
	}
	d.pos += n
	return rest[:n], nil
}

// filterEntries drops hidden entries and renames content files to their slugs.
func (vfs *FS) filterEntries(dir string, all []fs.DirEntry) []fs.DirEntry {
	r := make([]fs.DirEntry, 0, len(all))
	for _, entry := range all {
		full := entry.Name()
		if dir != "." {
			full = dir + "/" + full
		}
		if isHiddenFile(full) {
			continue
		}
		if !entry.IsDir() {
			if slug, ok := content.Slug(entry.Name(), vfs.cfg.Options.Extensions); ok {
				r = append(r, renamedEntry{DirEntry: entry, name: slug})
				continue
			}
		}
		r = append(r, entry)
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Name() < r[j].Name() })
	return r
}

// renamedEntry is a directory entry shown under a different name.
type renamedEntry struct {
	fs.DirEntry
	name string
}

// Name returns the base name of the entry.
func (e renamedEntry) Name() string {
	return e.name
}

// Info returns the FileInfo for the entry, under the new name.
func (e renamedEntry) Info() (fs.FileInfo, error) {
	fi, err := e.DirEntry.Info()
	if err != nil {
		return nil, err
	}
	return renamedFileInfo{FileInfo: fi, name: e.name}, nil
}

// renamedFileInfo holds the metadata about a renamed file.
type renamedFileInfo struct {
	fs.FileInfo
	name string
}

// Name returns the base name of the file.
func (fi renamedFileInfo) Name() string {
	return fi.name
}
