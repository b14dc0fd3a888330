package sources

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/pkg/errors"
)

// ScanTree lists every regular file under root as a sorted, slash-separated
// relative path. Dot files are skipped. A missing root is not an error.
func ScanTree(root, label string) ([]string, domain.SourceStatus) {
	status := domain.SourceStatus{Source: label}
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			status.Outcome = domain.OutcomeFallback
			status.Detail = "directory not found: " + filepath.ToSlash(root)
			return []string{}, status
		}
		status.Outcome = domain.OutcomeError
		status.Err = errors.Wrap(domain.ErrSourceUnavailable, err.Error())
		status.Detail = status.Err.Error()
		return []string{}, status
	}
	if !info.IsDir() {
		status.Outcome = domain.OutcomeError
		status.Err = errors.Wrapf(domain.ErrSourceUnavailable, "%s is not a directory", filepath.ToSlash(root))
		status.Detail = status.Err.Error()
		return []string{}, status
	}

	files := make([]string, 0, 64)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		status.Outcome = domain.OutcomeError
		status.Err = errors.Wrap(domain.ErrSourceUnavailable, err.Error())
		status.Detail = status.Err.Error()
		return []string{}, status
	}
	sort.Strings(files)
	status.Outcome = domain.OutcomeUsed
	status.Rows = len(files)
	return files, status
}
