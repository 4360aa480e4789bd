package assets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrOutsideExport is returned when a relative path escapes the export root.
var ErrOutsideExport = errors.New("path escapes export directory")

// ExportTree gives read-only access to the unpacked export directory.
type ExportTree struct {
	root string
}

func NewExportTree(root string) (*ExportTree, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve export path %s", root)
	}
	return &ExportTree{root: abs}, nil
}

func (t *ExportTree) Root() string { return t.root }

// Resolve joins rel onto the export root. Leading slashes are treated as
// export-relative; paths that climb out of the root are rejected.
func (t *ExportTree) Resolve(rel string) (string, error) {
	full := filepath.Join(t.root, filepath.FromSlash(strings.TrimLeft(rel, "/")))
	return t.confine(full)
}

// ResolveFrom resolves ref relative to the directory of the export file owner.
// Without an owner, ref is relative to the export root.
func (t *ExportTree) ResolveFrom(owner, ref string) (string, error) {
	if owner == "" || strings.HasPrefix(ref, "/") {
		return t.Resolve(ref)
	}
	ownerFull, err := t.Resolve(owner)
	if err != nil {
		return "", err
	}
	return t.confine(filepath.Join(filepath.Dir(ownerFull), filepath.FromSlash(ref)))
}

// Exists reports whether full points at a regular file.
func (t *ExportTree) Exists(full string) bool {
	info, err := os.Stat(full)
	return err == nil && info.Mode().IsRegular()
}

func (t *ExportTree) confine(full string) (string, error) {
	rel, err := filepath.Rel(t.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Mark(errors.Newf("%s is outside %s", full, t.root), ErrOutsideExport)
	}
	return full, nil
}
