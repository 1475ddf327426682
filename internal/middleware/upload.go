package middleware

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// MaxImageBytes is the upload size ceiling for image assets.
const MaxImageBytes = 5 * 1024 * 1024

const contextUpload = "upload"

// UploadedImage carries an image read fully into memory from a multipart
// form, ready to be streamed to object storage.
type UploadedImage struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImageUpload returns a middleware that extracts an optional image from the
// named multipart form field. When a file is present it must declare an
// image/* content type and fit under MaxImageBytes; violations are rejected
// with 400 before the handler runs. Requests without the field (including
// non-multipart requests) pass through untouched, so create/update handlers
// decide themselves whether an image is required.
func ImageUpload(field string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			fh, err := c.FormFile(field)
			if err != nil {
				// no file attached; nothing to validate
				return next(c)
			}
			if fh.Size > MaxImageBytes {
				return c.JSON(http.StatusBadRequest, echo.Map{
					"status": "error", "message": "image exceeds the 5 MB limit",
				})
			}
			contentType := fh.Header.Get("Content-Type")
			if !strings.HasPrefix(contentType, "image/") {
				return c.JSON(http.StatusBadRequest, echo.Map{
					"status": "error", "message": "uploaded file is not an image",
				})
			}
			src, err := fh.Open()
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{
					"status": "error", "message": "unreadable upload",
				})
			}
			defer src.Close()

			// LimitReader guards against a lying Content-Length.
			data, err := io.ReadAll(io.LimitReader(src, MaxImageBytes+1))
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{
					"status": "error", "message": "unreadable upload",
				})
			}
			if len(data) > MaxImageBytes {
				return c.JSON(http.StatusBadRequest, echo.Map{
					"status": "error", "message": "image exceeds the 5 MB limit",
				})
			}
			c.Set(contextUpload, &UploadedImage{
				Filename:    fh.Filename,
				ContentType: contentType,
				Data:        data,
			})
			return next(c)
		}
	}
}

// UploadedFile returns the image stashed by ImageUpload, or nil when the
// request carried none.
func UploadedFile(c echo.Context) *UploadedImage {
	img, _ := c.Get(contextUpload).(*UploadedImage)
	return img
}
