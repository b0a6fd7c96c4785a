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

const HeaderIdempotencyKey = "Idempotency-Key"

type PrestacaoService interface {
	Create(actor *entity.User, idemKey string, req *contract.CreatePrestacaoRequest) (*contract.PrestacaoResponse, bool, apierror.ErrorResponse)
	ListOwn(actor *entity.User) (*contract.PrestacaoListResponse, apierror.ErrorResponse)
	ListAll(actor *entity.User, query *contract.PrestacaoListQuery) (*contract.PrestacaoListResponse, apierror.ErrorResponse)
	Get(actor *entity.User, id int64) (*contract.PrestacaoResponse, apierror.ErrorResponse)
	TogglePagamento(actor *entity.User, id int64) (*contract.PrestacaoResponse, apierror.ErrorResponse)
	Delete(ctx context.Context, actor *entity.User, id int64) apierror.ErrorResponse
	UploadComprovantes(ctx context.Context, actor *entity.User, id int64, files []*contract.UploadFile) (*contract.ComprovantesResponse, apierror.ErrorResponse)
	Comprovantes(ctx context.Context, actor *entity.User, id int64) (*contract.ComprovantesResponse, apierror.ErrorResponse)
}

type DefaultPrestacaoRoute struct {
	PrestacaoService PrestacaoService
}

func NewPrestacaoRoute(prestacaoService PrestacaoService) *DefaultPrestacaoRoute {
	return &DefaultPrestacaoRoute{PrestacaoService: prestacaoService}
}

// CreatePrestacao answers 201 for a new report and 200 when the idempotency key was seen before.
func (p *DefaultPrestacaoRoute) CreatePrestacao(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.CreatePrestacaoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	idemKey := strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey))
	resp, created, apierr := p.PrestacaoService.Create(user, idemKey, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if !created {
		return c.JSON(http.StatusOK, resp)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (p *DefaultPrestacaoRoute) GetOwn(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	resp, apierr := p.PrestacaoService.ListOwn(user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (p *DefaultPrestacaoRoute) GetAll(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var query contract.PrestacaoListQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := p.PrestacaoService.ListAll(user, &query)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (p *DefaultPrestacaoRoute) GetPrestacao(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, perr := pathID(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	resp, apierr := p.PrestacaoService.Get(user, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (p *DefaultPrestacaoRoute) TogglePagamento(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, perr := pathID(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	resp, apierr := p.PrestacaoService.TogglePagamento(user, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (p *DefaultPrestacaoRoute) DeletePrestacao(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, perr := pathID(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	apierr := p.PrestacaoService.Delete(c.Request().Context(), user, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (p *DefaultPrestacaoRoute) UploadComprovantes(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, perr := pathID(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	files, ferr := formFiles(c, "files")
	if ferr != nil {
		return c.JSON(ferr.Code(), ferr)
	}

	resp, apierr := p.PrestacaoService.UploadComprovantes(c.Request().Context(), user, id, files)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (p *DefaultPrestacaoRoute) GetComprovantes(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, perr := pathID(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	resp, apierr := p.PrestacaoService.Comprovantes(c.Request().Context(), user, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
