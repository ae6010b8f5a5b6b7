package handler

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dormfix/internal/config"
)

const maxUploadBytes = 5 << 20 // 5MB

// UploadHandler stores ticket photos on local disk under the configured
// upload directory.
type UploadHandler struct {
	Cfg config.Config
}

func NewUploadHandler(cfg config.Config) *UploadHandler {
	return &UploadHandler{Cfg: cfg}
}

// Upload accepts a multipart "file" field, images only, 5MB max. The
// stored name is a uuid plus the original extension so uploads can never
// collide or traverse paths.
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file exceeds 5MB limit"})
	}
	ctype := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(ctype, "image/") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "only image uploads are allowed"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open upload failed"})
	}
	defer src.Close()

	if err := os.MkdirAll(h.Cfg.UploadDir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "prepare upload dir failed"})
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	name := uuid.NewString() + ext
	dstPath := filepath.Join(h.Cfg.UploadDir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, maxUploadBytes)); err != nil {
		_ = os.Remove(dstPath)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"path": filepath.ToSlash(dstPath)})
}
