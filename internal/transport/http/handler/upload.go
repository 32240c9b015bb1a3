package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vidtube/internal/app"
)

type UploadOptions struct {
	TempDir  string
	MaxBytes int64
}

// limitBody caps the request body before any multipart parsing happens.
func (o UploadOptions) limitBody(c *gin.Context) {
	if o.MaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, o.MaxBytes)
	}
}

// save stores the named multipart file under the temp dir and returns its
// path. A missing file yields an empty path and no error.
func (o UploadOptions) save(c *gin.Context, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", app.ErrInvalidPayload
	}

	if err := os.MkdirAll(o.TempDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir failed: %w", err)
	}
	dst := filepath.Join(o.TempDir, uuid.NewString()+strings.ToLower(filepath.Ext(file.Filename)))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", fmt.Errorf("save upload failed: %w", err)
	}
	return dst, nil
}

func removeTemp(paths ...string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}
