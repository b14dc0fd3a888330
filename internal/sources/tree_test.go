package sources

import (
	"path/filepath"
	"testing"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestScanTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "prompts", "P1.zip"), "x")
	writeFile(t, filepath.Join(root, "ebooks", "E1__guide.pdf"), "x")
	writeFile(t, filepath.Join(root, "A0.zip"), "x")
	writeFile(t, filepath.Join(root, ".DS_Store"), "x")
	writeFile(t, filepath.Join(root, ".cache", "junk.zip"), "x")

	files, status := ScanTree(root, "products")
	assert.Equal(t, domain.OutcomeUsed, status.Outcome)
	assert.Equal(t, []string{"A0.zip", "ebooks/E1__guide.pdf", "prompts/P1.zip"}, files)
}

func TestScanTreeMissingRoot(t *testing.T) {
	files, status := ScanTree(filepath.Join(t.TempDir(), "nope"), "images")
	assert.Empty(t, files)
	assert.Equal(t, domain.OutcomeFallback, status.Outcome)
	assert.Equal(t, "images", status.Source)
}
