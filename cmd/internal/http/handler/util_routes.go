package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"treinoexpresso/cmd/internal/contract"
	"treinoexpresso/cmd/internal/utils/apierror"
)

type UtilService interface {
	GetCompanyByCNPJ(ctx context.Context, cnpj string) (*contract.CompanyResponse, apierror.ErrorResponse)
	EnvCheck() *contract.EnvCheckResponse
}

type BaixaService interface {
	Send(ctx context.Context, req *contract.BaixaRequest) (*contract.BaixaResponse, apierror.ErrorResponse)
}

type DefaultUtilRoute struct {
	UtilService  UtilService
	BaixaService BaixaService
}

func NewUtilRoute(utilService UtilService, baixaService BaixaService) *DefaultUtilRoute {
	return &DefaultUtilRoute{UtilService: utilService, BaixaService: baixaService}
}

func (u *DefaultUtilRoute) GetCompany(c echo.Context) error {
	cnpj := strings.TrimSpace(c.Param("cnpj"))
	company, apierr := u.UtilService.GetCompanyByCNPJ(c.Request().Context(), cnpj)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, company)
}

func (u *DefaultUtilRoute) EnvCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, u.UtilService.EnvCheck())
}

// SendBaixa answers with the {ok, message} envelope on every failure, malformed JSON included.
func (u *DefaultUtilRoute) SendBaixa(c echo.Context) error {
	var req contract.BaixaRequest
	if err := c.Bind(&req); err != nil {
		apierr := apierror.NewEnvelope(http.StatusBadRequest, apierror.MalformedJSONError.Message)
		return c.JSON(apierr.Code(), apierr)
	}

	resp, apierr := u.BaixaService.Send(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
