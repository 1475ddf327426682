package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// PredictHandler forwards an uploaded image to the external artifact
// classification model and relays whatever the model answers. The server
// holds no model state; this is a pure proxy.
type PredictHandler struct {
	URL    string
	Client *http.Client
}

// NewPredictHandler builds the proxy with the model's known latency budget.
// Cold starts on the inference service can take tens of seconds.
func NewPredictHandler(url string) *PredictHandler {
	return &PredictHandler{
		URL:    url,
		Client: &http.Client{Timeout: 60 * time.Second},
	}
}

// Predict handles POST /api/predict. The image travels as multipart field
// "file" in both directions.
func (h *PredictHandler) Predict(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "file is required")
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		src, err := fh.Open()
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		defer src.Close()

		part, err := mw.CreateFormFile("file", fh.Filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, src); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodPost, h.URL, pr)
	if err != nil {
		return respondInternal(c, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := h.Client.Do(req)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) || isTimeout(err) {
			return respondError(c, http.StatusGatewayTimeout, "prediction service timed out")
		}
		log.Warn().Err(err).Str("url", h.URL).Msg("prediction service unreachable")
		return respondError(c, http.StatusBadGateway, "prediction service unavailable")
	}
	defer resp.Body.Close()

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = echo.MIMEApplicationJSON
	}
	return c.Stream(resp.StatusCode, ct, resp.Body)
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
