package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Routes struct {
	Users      *DefaultUserRoute
	Roster     *DefaultRosterRoute
	Datasets   *DefaultDatasetRoute
	Training   *DefaultTrainingRoute
	Prestacoes *DefaultPrestacaoRoute
	Lojas      *DefaultLojaRoute
	Util       *DefaultUtilRoute
}

// Register mounts every route on e. Routes under /api that need a user go through auth.
func (r *Routes) Register(e *echo.Echo, auth echo.MiddlewareFunc) {
	// Docker Compose healthcheck
	e.GET("/health", healthCheckRoute)

	// Public
	e.POST("/api/users/login", r.Users.CreateLogin)
	e.POST("/api/users/logout", r.Users.Logout)
	e.GET("/api/treinamentos", r.Training.GetRawList)
	e.GET("/api/env-check", r.Util.EnvCheck)
	e.POST("/api/baixa-empresa", r.Util.SendBaixa)

	api := e.Group("/api", auth)

	// Users
	api.GET("/users", r.Users.GetUsers)
	api.GET("/users/@me", r.Users.GetSelf)
	api.PATCH("/users/:id/role", r.Users.UpdateRole)

	// Expressos
	api.GET("/expressos/geral", r.Roster.Geral)
	api.GET("/expressos/transacionando", r.Roster.Transacionando)
	api.GET("/expressos/treinados-zerados", r.Roster.TreinadosZerados)
	api.GET("/expressos/certificacao-vencida", r.Roster.CertificacaoVencida)
	api.GET("/expressos/microsseguro", r.Roster.Microsseguro)
	api.GET("/expressos/pessoa-certificada", r.Roster.PessoaCertificada)

	// Datasets
	api.GET("/datasets", r.Datasets.GetDatasets)
	api.PUT("/datasets/:dataset", r.Datasets.UploadDataset)

	// Treinamentos
	api.GET("/treinamentos/lojas", r.Training.GetLojas)
	api.PUT("/treinamentos/agendamentos/:chave", r.Training.Schedule)
	api.POST("/treinamentos/agendamentos/:chave/concluir", r.Training.Concluir)
	api.DELETE("/treinamentos/agendamentos/:chave", r.Training.Reset)
	api.GET("/agenda", r.Training.GetAgenda)

	// Prestações
	api.POST("/prestacoes", r.Prestacoes.CreatePrestacao)
	api.GET("/prestacoes", r.Prestacoes.GetOwn)
	api.GET("/admin/prestacoes", r.Prestacoes.GetAll)
	api.GET("/prestacoes/:id", r.Prestacoes.GetPrestacao)
	api.PATCH("/prestacoes/:id/pagamento", r.Prestacoes.TogglePagamento)
	api.DELETE("/prestacoes/:id", r.Prestacoes.DeletePrestacao)
	api.POST("/prestacoes/:id/comprovantes", r.Prestacoes.UploadComprovantes)
	api.GET("/prestacoes/:id/comprovantes", r.Prestacoes.GetComprovantes)

	// Lojas
	api.POST("/lojas/import", r.Lojas.ImportLojas)
	api.GET("/lojas", r.Lojas.SearchLojas)
	api.GET("/lojas/:chave", r.Lojas.GetLoja)

	// Arquivos obrigatórios
	api.GET("/arquivos-obrigatorios", r.Lojas.GetArquivos)
	api.POST("/arquivos-obrigatorios", r.Lojas.UploadArquivo)
	api.GET("/arquivos-obrigatorios/:id/download", r.Lojas.DownloadArquivo)
	api.DELETE("/arquivos-obrigatorios/:id", r.Lojas.DeleteArquivo)

	// Empresas
	api.GET("/empresas/:cnpj", r.Util.GetCompany)
}

func healthCheckRoute(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
