package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"treinoexpresso/cmd/internal/contract"
	"treinoexpresso/cmd/internal/utils/apierror"
	"treinoexpresso/cmd/internal/utils/uid"
)

// formFile reads a single multipart file. A missing field yields (nil, nil) so the
// service decides how to report it.
func formFile(c echo.Context, field string) (*contract.UploadFile, apierror.ErrorResponse) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, apierror.MalformedBodyError
	}
	return readFileHeader(header)
}

func formFiles(c echo.Context, field string) ([]*contract.UploadFile, apierror.ErrorResponse) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apierror.MalformedBodyError
	}

	headers := form.File[field]
	files := make([]*contract.UploadFile, 0, len(headers))
	for _, h := range headers {
		f, apierr := readFileHeader(h)
		if apierr != nil {
			return nil, apierr
		}
		files = append(files, f)
	}
	return files, nil
}

func readFileHeader(header *multipart.FileHeader) (*contract.UploadFile, apierror.ErrorResponse) {
	src, err := header.Open()
	if err != nil {
		log.Errorf("failed to open uploaded file %s: %v", header.Filename, err)
		return nil, apierror.UnreadableFileError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Errorf("failed to read uploaded file %s: %v", header.Filename, err)
		return nil, apierror.UnreadableFileError
	}
	return &contract.UploadFile{Name: header.Filename, Data: data}, nil
}

func pathID(c echo.Context) (int64, apierror.ErrorResponse) {
	id, ok := uid.Parse(c.Param("id"))
	if !ok {
		return 0, apierror.NewInvalidParamTypeError("id", "int64")
	}
	return id, nil
}
