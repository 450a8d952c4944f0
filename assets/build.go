// Package assets builds the public directory served by the HTTP server from
// the front-end sources and rebuilds it when the sources change.
package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"bike-counter/observability"
)

// copyRule maps a source file, given as a slash separated path relative to
// the source dir, to its destination relative to the public dir.
type copyRule struct {
	name  string
	match func(rel string) bool
	dest  func(rel string) string
}

func globRule(name, pattern, destDir string) copyRule {
	return copyRule{
		name: name,
		match: func(rel string) bool {
			ok, _ := path.Match(pattern, rel)
			return ok
		},
		dest: flattenInto(destDir),
	}
}

// treeRule matches files below prefix, at any depth, whose extension is one of exts.
func treeRule(name, prefix string, exts []string, destDir string) copyRule {
	return copyRule{
		name: name,
		match: func(rel string) bool {
			if !strings.HasPrefix(rel, prefix) {
				return false
			}
			for _, ext := range exts {
				if path.Ext(rel) == ext {
					return true
				}
			}
			return false
		},
		dest: flattenInto(destDir),
	}
}

func flattenInto(destDir string) func(string) string {
	return func(rel string) string {
		return path.Join(destDir, path.Base(rel))
	}
}

var copyRules = []copyRule{
	globRule("js", "js/*.js", "js"),
	treeRule("js-libs", "js/libs/", []string{".js"}, "js"),
	globRule("css", "css/*.css", "css"),
	treeRule("css-libs", "js/libs/", []string{".css", ".map"}, "css"),
	globRule("fonts", "js/libs/*/fonts/*", "fonts"),
	{
		name:  "img",
		match: func(rel string) bool { return strings.HasPrefix(rel, "img/") },
		dest:  func(rel string) string { return rel },
	},
	globRule("html", "index.html", "."),
}

// BuildReport lists what a build produced.
type BuildReport struct {
	// Files are the destination paths relative to the public dir, sorted.
	Files []string
	// Copies counts every copy performed, including overwrites of a flattened name.
	Copies int
}

// Clean removes the public dir. A missing dir is not an error.
func Clean(publicDir string) error {
	if err := os.RemoveAll(publicDir); err != nil {
		return fmt.Errorf("failed to clean %s: %w", publicDir, err)
	}
	return nil
}

// Builder cleans and repopulates the public dir from the source dir.
type Builder struct {
	srcDir    string
	publicDir string
	metrics   *observability.Metrics
	logger    *zap.Logger
}

func NewBuilder(srcDir, publicDir string, metrics *observability.Metrics, logger *zap.Logger) *Builder {
	return &Builder{
		srcDir:    srcDir,
		publicDir: publicDir,
		metrics:   metrics,
		logger:    logger.Named("AssetBuilder"),
	}
}

// Build runs Clean and then copies every source file matched by a copy rule.
func (b *Builder) Build() (BuildReport, error) {
	report, err := Build(b.srcDir, b.publicDir)
	if err != nil {
		b.metrics.AssetBuilds.WithLabelValues(observability.OutcomeError).Inc()
		b.logger.Error("asset build failed", zap.Error(err))
		return report, err
	}
	b.metrics.AssetBuilds.WithLabelValues(observability.OutcomeSuccess).Inc()
	b.logger.Info("assets built",
		zap.String("src", b.srcDir),
		zap.String("public", b.publicDir),
		zap.Int("files", len(report.Files)))
	return report, nil
}

// Build cleans publicDir and copies the front-end sources into it.
func Build(srcDir, publicDir string) (BuildReport, error) {
	var report BuildReport

	info, err := os.Stat(srcDir)
	if err != nil {
		return report, fmt.Errorf("source dir: %w", err)
	}
	if !info.IsDir() {
		return report, fmt.Errorf("source dir %s is not a directory", srcDir)
	}
	if err := Clean(publicDir); err != nil {
		return report, err
	}

	written := map[string]struct{}{}
	err = filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		for _, rule := range copyRules {
			if !rule.match(rel) {
				continue
			}
			dest := rule.dest(rel)
			if err := copyFile(p, filepath.Join(publicDir, filepath.FromSlash(dest))); err != nil {
				return fmt.Errorf("rule %s: %w", rule.name, err)
			}
			written[dest] = struct{}{}
			report.Copies++
		}
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("failed to build assets: %w", err)
	}

	for f := range written {
		report.Files = append(report.Files, f)
	}
	sort.Strings(report.Files)
	return report, nil
}

func copyFile(src, dst string) (err error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, out.Close())
	}()

	_, err = io.Copy(out, in)
	return err
}
