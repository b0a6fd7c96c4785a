package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"treinoexpresso/cmd/internal/contract"
	"treinoexpresso/cmd/internal/domain/entity"
	"treinoexpresso/cmd/internal/utils"
	"treinoexpresso/cmd/internal/utils/apierror"
)

type DatasetService interface {
	List() ([]*contract.DatasetResponse, apierror.ErrorResponse)
	Upload(ctx context.Context, actor *entity.User, name string, file *contract.UploadFile) (*contract.DatasetResponse, apierror.ErrorResponse)
}

type DefaultDatasetRoute struct {
	DatasetService DatasetService
}

func NewDatasetRoute(datasetService DatasetService) *DefaultDatasetRoute {
	return &DefaultDatasetRoute{DatasetService: datasetService}
}

func (d *DefaultDatasetRoute) GetDatasets(c echo.Context) error {
	datasets, apierr := d.DatasetService.List()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"datasets": datasets}
	return c.JSON(http.StatusOK, &resp)
}

func (d *DefaultDatasetRoute) UploadDataset(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	file, ferr := formFile(c, "file")
	if ferr != nil {
		return c.JSON(ferr.Code(), ferr)
	}

	resp, apierr := d.DatasetService.Upload(c.Request().Context(), user, c.Param("dataset"), file)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
