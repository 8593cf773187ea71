package filestorage

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	url, err := ls.SaveFileWithPath(fileHeader(t, "License.PDF", []byte("%PDF")), "suppliers")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/suppliers/"))
	assert.True(t, strings.HasSuffix(url, ".pdf"))

	path, err := ls.GetFullPath(url)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "suppliers"), filepath.Dir(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))

	require.NoError(t, ls.DeleteFile(url))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// deleting again is fine
	assert.NoError(t, ls.DeleteFile(url))
}

func TestLocalStorage_RelativePaths(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	url, err := ls.SaveFileWithPath(fileHeader(t, "a.png", []byte("x")), "education")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "uploads/education/"))

	_, err = ls.SaveFileWithPath(fileHeader(t, "a.png", []byte("x")), "../escape")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = ls.GetFullPath("uploads/../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestValidateUpload(t *testing.T) {
	fh := fileHeader(t, "doc.pdf", []byte("12345"))
	assert.NoError(t, ValidateUpload(fh, DocumentExtensions, MaxDocumentSize))
	assert.ErrorIs(t, ValidateUpload(fh, ImageExtensions, MaxImageSize), ErrFileTypeNotAllowed)
	assert.ErrorIs(t, ValidateUpload(fh, DocumentExtensions, 2), ErrFileTooLarge)
}
