// Package assets migrates images referenced by rich content out of the export
// tree into asset storage and rewrites the references.
package assets

import (
	"context"
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

var imgSrcPattern = regexp.MustCompile(`<img[^>]+src="([^">]+)"`)

// Logger receives the migrator's per-reference events.
type Logger interface {
	Info(node, message string, metadata map[string]any)
	Warn(node, message string)
	Error(node, message string, metadata map[string]any)
}

// Migrator rewrites <img src> references. Files are stored under their base
// name, so two sources sharing a file name land on the same asset.
type Migrator struct {
	tree         *ExportTree
	store        Store
	assetDir     string
	publicPrefix string
	log          Logger
}

func NewMigrator(tree *ExportTree, store Store, assetDir, publicPrefix string, log Logger) *Migrator {
	return &Migrator{
		tree:         tree,
		store:        store,
		assetDir:     assetDir,
		publicPrefix: strings.TrimRight(publicPrefix, "/"),
		log:          log,
	}
}

// Result is the rewritten content and the number of references migrated.
type Result struct {
	Content string
	Copied  int
}

// Rewrite migrates every local image reference in content. owner is the
// export-relative path of the document the content belongs to.
func (m *Migrator) Rewrite(ctx context.Context, node, content, owner string) Result {
	if content == "" {
		return Result{Content: content}
	}

	matches := imgSrcPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return Result{Content: content}
	}

	var b strings.Builder
	copied := 0
	last := 0
	for _, loc := range matches {
		start, end := loc[2], loc[3]
		src := content[start:end]
		replacement, ok := m.migrate(ctx, node, src, owner)
		if !ok {
			continue
		}
		b.WriteString(content[last:start])
		b.WriteString(replacement)
		last = end
		copied++
	}
	b.WriteString(content[last:])

	return Result{Content: b.String(), Copied: copied}
}

func (m *Migrator) migrate(ctx context.Context, node, src, owner string) (string, bool) {
	if IsExternal(src) {
		m.log.Info(node, "Skipping external asset: "+src, nil)
		return "", false
	}

	ref := localPath(src)
	full, err := m.tree.ResolveFrom(owner, ref)
	if err != nil || !m.tree.Exists(full) {
		m.log.Warn(node, "Asset missing from export: "+src)
		return "", false
	}

	fileName := filepath.Base(full)
	target := filepath.Join(m.assetDir, fileName)
	if err := m.store.EnsureDir(ctx, m.assetDir); err != nil {
		m.log.Error(node, "Asset copy failed: "+err.Error(), map[string]any{"src": src})
		return "", false
	}
	if err := m.store.CopyFile(ctx, full, target); err != nil {
		m.log.Error(node, "Asset copy failed: "+err.Error(), map[string]any{"src": src})
		return "", false
	}

	m.log.Info(node, "Asset copied: "+fileName, map[string]any{"src": src, "target": target})
	return m.publicPrefix + "/" + fileName, true
}

// IsExternal reports whether src points outside the export: any URL with a
// scheme (http, https, data, ...) or a protocol-relative //host reference.
func IsExternal(src string) bool {
	if strings.HasPrefix(src, "//") {
		return true
	}
	u, err := url.Parse(src)
	if err != nil {
		return strings.HasPrefix(strings.ToLower(src), "http")
	}
	return u.Scheme != "" && len(u.Scheme) > 1
}

// localPath drops query and fragment and decodes percent escapes.
func localPath(src string) string {
	p := src
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if decoded, err := url.PathUnescape(p); err == nil {
		p = decoded
	}
	return path.Clean(p)
}
