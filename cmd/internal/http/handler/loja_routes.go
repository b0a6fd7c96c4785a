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

type LojaService interface {
	Import(actor *entity.User, file *contract.UploadFile) (*contract.LojaImportResponse, apierror.ErrorResponse)
	Get(chave string) (*contract.LojaResponse, apierror.ErrorResponse)
	Search(q string) ([]*contract.LojaResponse, apierror.ErrorResponse)
}

type ArquivoService interface {
	List() ([]*contract.ArquivoResponse, apierror.ErrorResponse)
	Upload(ctx context.Context, actor *entity.User, req *contract.CreateArquivoRequest, file *contract.UploadFile) (*contract.ArquivoResponse, apierror.ErrorResponse)
	DownloadURL(ctx context.Context, id int64) (string, apierror.ErrorResponse)
	Delete(ctx context.Context, actor *entity.User, id int64) apierror.ErrorResponse
}

type DefaultLojaRoute struct {
	LojaService    LojaService
	ArquivoService ArquivoService
}

func NewLojaRoute(lojaService LojaService, arquivoService ArquivoService) *DefaultLojaRoute {
	return &DefaultLojaRoute{LojaService: lojaService, ArquivoService: arquivoService}
}

func (l *DefaultLojaRoute) ImportLojas(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	file, ferr := formFile(c, "file")
	if ferr != nil {
		return c.JSON(ferr.Code(), ferr)
	}

	resp, apierr := l.LojaService.Import(user, file)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (l *DefaultLojaRoute) GetLoja(c echo.Context) error {
	resp, apierr := l.LojaService.Get(strings.TrimSpace(c.Param("chave")))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (l *DefaultLojaRoute) SearchLojas(c echo.Context) error {
	lojas, apierr := l.LojaService.Search(c.QueryParam("q"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"lojas": lojas}
	return c.JSON(http.StatusOK, &resp)
}

func (l *DefaultLojaRoute) GetArquivos(c echo.Context) error {
	arquivos, apierr := l.ArquivoService.List()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"arquivos": arquivos}
	return c.JSON(http.StatusOK, &resp)
}

func (l *DefaultLojaRoute) UploadArquivo(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.CreateArquivoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	file, ferr := formFile(c, "file")
	if ferr != nil {
		return c.JSON(ferr.Code(), ferr)
	}

	resp, apierr := l.ArquivoService.Upload(c.Request().Context(), user, &req, file)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (l *DefaultLojaRoute) DownloadArquivo(c echo.Context) error {
	id, perr := pathID(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	url, apierr := l.ArquivoService.DownloadURL(c.Request().Context(), id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.Redirect(http.StatusFound, url)
}

func (l *DefaultLojaRoute) DeleteArquivo(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, perr := pathID(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	apierr := l.ArquivoService.Delete(c.Request().Context(), user, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
