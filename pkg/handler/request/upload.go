package request

import (
	"errors"
	"mime/multipart"
	"net/http"
	"sort"
)

// UploadField is the form field the original clients post the GenBank file under.
const UploadField = "file"

var (
	ErrNoFile    = errors.New("no file in upload")
	ErrBadUpload = errors.New("malformed upload")
)

// UploadedFile returns the file posted under UploadField, or the first file of the form
// (by field name) when that field is absent. The caller closes the file.
func UploadedFile(r *http.Request, maxMemory int64) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, nil, err
	}

	f, h, err := r.FormFile(UploadField)
	if err == nil {
		return f, h, nil
	}
	if !errors.Is(err, http.ErrMissingFile) {
		return nil, nil, err
	}

	fields := make([]string, 0, len(r.MultipartForm.File))
	for name, headers := range r.MultipartForm.File {
		if len(headers) > 0 {
			fields = append(fields, name)
		}
	}
	if len(fields) == 0 {
		return nil, nil, ErrNoFile
	}
	sort.Strings(fields)

	h = r.MultipartForm.File[fields[0]][0]
	f, err = h.Open()
	if err != nil {
		return nil, nil, err
	}
	return f, h, nil
}
