package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"treinoexpresso/cmd/internal/contract"
	"treinoexpresso/cmd/internal/utils/apierror"
)

type RosterService interface {
	Geral(ctx context.Context, query *contract.RosterQuery) (*contract.GeralResponse, apierror.ErrorResponse)
	Transacionando(ctx context.Context, query *contract.RosterQuery) (*contract.RosterListResponse, apierror.ErrorResponse)
	TreinadosZerados(ctx context.Context, query *contract.RosterQuery) (*contract.RosterListResponse, apierror.ErrorResponse)
	CertificacaoVencida(ctx context.Context, query *contract.RosterQuery) (*contract.CertAttentionResponse, apierror.ErrorResponse)
}

type MicrosseguroService interface {
	Search(ctx context.Context, q string) (*contract.MicrosseguroResponse, apierror.ErrorResponse)
}

type CertificateService interface {
	Search(ctx context.Context, q string) (*contract.CertificateResponse, apierror.ErrorResponse)
}

// DefaultRosterRoute serves the read-only views built from the uploaded spreadsheets.
type DefaultRosterRoute struct {
	RosterService       RosterService
	MicrosseguroService MicrosseguroService
	CertificateService  CertificateService
}

func NewRosterRoute(roster RosterService, microsseguro MicrosseguroService, certificates CertificateService) *DefaultRosterRoute {
	return &DefaultRosterRoute{
		RosterService:       roster,
		MicrosseguroService: microsseguro,
		CertificateService:  certificates,
	}
}

func (r *DefaultRosterRoute) Geral(c echo.Context) error {
	var query contract.RosterQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := r.RosterService.Geral(c.Request().Context(), &query)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (r *DefaultRosterRoute) Transacionando(c echo.Context) error {
	var query contract.RosterQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := r.RosterService.Transacionando(c.Request().Context(), &query)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (r *DefaultRosterRoute) TreinadosZerados(c echo.Context) error {
	var query contract.RosterQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := r.RosterService.TreinadosZerados(c.Request().Context(), &query)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (r *DefaultRosterRoute) CertificacaoVencida(c echo.Context) error {
	var query contract.RosterQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := r.RosterService.CertificacaoVencida(c.Request().Context(), &query)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (r *DefaultRosterRoute) Microsseguro(c echo.Context) error {
	resp, apierr := r.MicrosseguroService.Search(c.Request().Context(), c.QueryParam("q"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (r *DefaultRosterRoute) PessoaCertificada(c echo.Context) error {
	resp, apierr := r.CertificateService.Search(c.Request().Context(), c.QueryParam("q"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
