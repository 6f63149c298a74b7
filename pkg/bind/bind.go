// Package bind decodes request bodies into structs and runs validation.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/inkwell-studio/atelier/config"
	"github.com/inkwell-studio/atelier/pkg/validate"
)

// ErrEmptyBody is returned when a JSON endpoint receives no body at all.
var ErrEmptyBody = errors.New("request body is empty")

// JSON decodes r.Body into dest, capped at MAX_BODY_BYTES, then validates it.
// Decode failures come back as err; rule failures come back as errs.
func JSON(r *http.Request, dest any) (errs map[string]string, err error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, ErrEmptyBody
	}
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	if err = json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return nil, ErrEmptyBody
		case errors.As(err, &maxErr):
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		default:
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	if errs = validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}

// Files parses a multipart form and returns the parts uploaded under field.
// Each part must be at most perFile bytes.
func Files(r *http.Request, field string, perFile int64, maxFiles int) ([]*multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, perFile*int64(maxFiles)+1<<20)
	if err := r.ParseMultipartForm(perFile); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	files := r.MultipartForm.File[field]
	switch {
	case len(files) == 0:
		return nil, fmt.Errorf("no files uploaded under %q", field)
	case len(files) > maxFiles:
		return nil, fmt.Errorf("at most %d files per upload", maxFiles)
	}

	for _, fh := range files {
		if fh.Size > perFile {
			return nil, fmt.Errorf("%s exceeds the %d MB limit", fh.Filename, perFile>>20)
		}
	}
	return files, nil
}
