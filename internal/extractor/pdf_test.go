package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPDFExtractor_Convert_MissingFile(t *testing.T) {
	e := NewPDFExtractor()

	_, err := e.Convert(filepath.Join(t.TempDir(), "does-not-exist.pdf"))

	assert.Error(t, err)
}

func TestPDFExtractor_Convert_NotAPDF(t *testing.T) {
	e := NewPDFExtractor()

	path := filepath.Join(t.TempDir(), "garbage.pdf")
	err := os.WriteFile(path, []byte("this is not a pdf at all"), 0o600)
	assert.NoError(t, err)

	_, err = e.Convert(path)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "open pdf")
}

func TestPDFExtractor_Convert_EmptyFile(t *testing.T) {
	e := NewPDFExtractor()

	path := filepath.Join(t.TempDir(), "empty.pdf")
	err := os.WriteFile(path, nil, 0o600)
	assert.NoError(t, err)

	_, err = e.Convert(path)

	assert.Error(t, err)
}
