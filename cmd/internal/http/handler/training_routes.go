package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"treinoexpresso/cmd/internal/contract"
	"treinoexpresso/cmd/internal/domain/entity"
	"treinoexpresso/cmd/internal/utils"
	"treinoexpresso/cmd/internal/utils/apierror"
)

const excelMIME = "application/vnd.ms-excel"

type TrainingService interface {
	RawList(ctx context.Context) ([]byte, apierror.ErrorResponse)
	Lojas(ctx context.Context, actor *entity.User, q string) (*contract.TrainingListResponse, apierror.ErrorResponse)
	Schedule(actor *entity.User, chave string, req *contract.ScheduleRequest) (*contract.AgendamentoResponse, apierror.ErrorResponse)
	Concluir(actor *entity.User, chave string) (*contract.AgendamentoResponse, apierror.ErrorResponse)
	Reset(actor *entity.User, chave string) apierror.ErrorResponse
	Agenda(ctx context.Context, actor *entity.User, query *contract.AgendaQuery) (*contract.AgendaResponse, apierror.ErrorResponse)
}

type DefaultTrainingRoute struct {
	TrainingService TrainingService
}

func NewTrainingRoute(trainingService TrainingService) *DefaultTrainingRoute {
	return &DefaultTrainingRoute{TrainingService: trainingService}
}

// GetRawList is public and answers with the stored workbook as is.
func (t *DefaultTrainingRoute) GetRawList(c echo.Context) error {
	data, apierr := t.TrainingService.RawList(c.Request().Context())
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="lista-atual.xls"`)
	return c.Blob(http.StatusOK, excelMIME, data)
}

func (t *DefaultTrainingRoute) GetLojas(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	resp, apierr := t.TrainingService.Lojas(c.Request().Context(), user, c.QueryParam("q"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (t *DefaultTrainingRoute) Schedule(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	chave := strings.TrimSpace(c.Param("chave"))
	if chave == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("chave"))
	}

	var req contract.ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := t.TrainingService.Schedule(user, chave, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (t *DefaultTrainingRoute) Concluir(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	resp, apierr := t.TrainingService.Concluir(user, strings.TrimSpace(c.Param("chave")))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (t *DefaultTrainingRoute) Reset(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	apierr := t.TrainingService.Reset(user, strings.TrimSpace(c.Param("chave")))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (t *DefaultTrainingRoute) GetAgenda(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var query contract.AgendaQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := t.TrainingService.Agenda(c.Request().Context(), user, &query)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
