package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treinoexpresso/cmd/internal/domain/database"
	"treinoexpresso/cmd/internal/domain/database/repository"
	"treinoexpresso/cmd/internal/domain/policy"
	"treinoexpresso/cmd/internal/http/middleware"
	cognitoclient "treinoexpresso/cmd/internal/infrastructure/aws/cognito"
	"treinoexpresso/cmd/internal/infrastructure/mail"
	"treinoexpresso/cmd/internal/infrastructure/objectstore/objectstoretest"
	"treinoexpresso/cmd/internal/service"
	"treinoexpresso/cmd/internal/utils"
	"treinoexpresso/cmd/internal/utils/uid"
	"treinoexpresso/cmd/internal/utils/validators"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<<>>\n%%EOF\n")

var tokens = map[string]*utils.TokenData{
	"token-admin": {Sub: "sub-admin", Email: "admin@treino.com", Name: "Admin"},
	"token-ana":   {Sub: "sub-ana", Email: "ana@treino.com", Name: "Ana"},
	"token-bruno": {Sub: "sub-bruno", Email: "bruno@treino.com", Name: "Bruno"},
}

func verifyTestToken(header string) (*utils.TokenData, error) {
	data, ok := tokens[strings.TrimPrefix(header, "Bearer ")]
	if !ok {
		return nil, errors.New("unknown token")
	}
	copied := *data
	return &copied, nil
}

type stubIDP struct{ signedOut []string }

func (s *stubIDP) SignIn(context.Context, string, string) (*cognitoclient.AuthCreate, error) {
	return &cognitoclient.AuthCreate{AccessToken: "token-ana", IDToken: "id", ExpiresIn: 3600}, nil
}

func (s *stubIDP) GlobalSignOut(_ context.Context, token string) error {
	s.signedOut = append(s.signedOut, token)
	return nil
}

type server struct {
	echo  *echo.Echo
	store *objectstoretest.Memory
	idp   *stubIDP
	mails *mail.ConsoleSender
}

func newServer(t *testing.T) *server {
	t.Helper()
	require.NoError(t, uid.Init(1))

	db, err := database.Init("sqlite", "file::memory:")
	require.NoError(t, err)

	validate := validator.New()
	require.NoError(t, validators.Register(validate))

	s := &server{
		echo:  echo.New(),
		store: objectstoretest.NewMemory(),
		idp:   &stubIDP{},
		mails: mail.NewConsoleSender(),
	}

	pol := policy.NewAccessPolicy()
	clock := service.NewClock(time.UTC)
	reader := service.NewDatasetReader(s.store)
	agRepo := repository.NewAgendamentoRepository(db)
	dsRepo := repository.NewDatasetRepository(db)
	listedAdmin := func(email string) bool { return email == "admin@treino.com" }

	userService := service.NewUserService(repository.NewUserRepository(db), validate, s.idp, pol, listedAdmin)
	routes := &Routes{
		Users: NewUserDefault(userService),
		Roster: NewRosterRoute(
			service.NewRosterService(reader, agRepo, clock, validate),
			service.NewMicrosseguroService(reader),
			service.NewCertificateService(reader),
		),
		Datasets:   NewDatasetRoute(service.NewDatasetService(dsRepo, s.store, pol)),
		Training:   NewTrainingRoute(service.NewTrainingService(agRepo, dsRepo, s.store, reader, pol, clock, validate)),
		Prestacoes: NewPrestacaoRoute(service.NewPrestacaoService(repository.NewPrestacaoRepository(db), s.store, pol, clock, validate)),
		Lojas: NewLojaRoute(
			service.NewLojaService(repository.NewLojaRepository(db), pol),
			service.NewArquivoService(repository.NewArquivoRepository(db), s.store, pol, validate),
		),
		Util: NewUtilRoute(
			service.NewMiscService(nil, repository.NewCompanyRepository(db), service.MailEnv{FromEmail: true}),
			service.NewBaixaService(s.mails, "no-reply@treino.com", "ops@treino.com", clock),
		),
	}

	auth := middleware.NewAuthMiddleware(&middleware.AuthMiddlewareConfig{Users: userService, Verify: verifyTestToken})
	routes.Register(s.echo, auth)
	return s
}

func (s *server) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func (s *server) json(method, path, token string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return s.do(req, token)
}

type part struct {
	field, name string
	data        []byte
}

func multipartRequest(t *testing.T, method, path string, fields map[string]string, parts ...part) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, p := range parts {
		fw, err := w.CreateFormFile(p.field, p.name)
		require.NoError(t, err)
		_, err = fw.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealthAndAuth(t *testing.T) {
	s := newServer(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/health", nil), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/users/@me", nil), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/users/@me", nil), "forged")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/users/@me", nil), "token-ana")
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		Email   string `json:"email"`
		IsAdmin bool   `json:"isAdmin"`
	}
	decode(t, rec, &me)
	assert.Equal(t, "ana@treino.com", me.Email)
	assert.False(t, me.IsAdmin)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/users/@me", nil), "token-admin")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &me)
	assert.True(t, me.IsAdmin)
}

func TestLoginAndLogout(t *testing.T) {
	s := newServer(t)

	rec := s.json(http.MethodPost, "/api/users/login", "", map[string]string{"email": "ana@treino.com", "password": "segredo123"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token":"token-ana"`)

	rec = s.json(http.MethodPost, "/api/users/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.json(http.MethodPost, "/api/users/logout", "token-ana", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"token-ana"}, s.idp.signedOut)
}

func TestRawTrainingList(t *testing.T) {
	s := newServer(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/treinamentos", nil), "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Não foi possível carregar o arquivo."}`, rec.Body.String())

	s.store.Put("trainings/lista-atual.xls", []byte("planilha"))
	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/treinamentos", nil), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.ms-excel", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, `inline; filename="lista-atual.xls"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.Equal(t, "planilha", rec.Body.String())
}

func TestPrestacaoRoutes(t *testing.T) {
	s := newServer(t)
	body := map[string]any{
		"dataViagem":  "2025-06-10",
		"destino":     "Campinas",
		"kmInicial":   100,
		"kmFinal":     180,
		"gasolina":    50,
		"alimentacao": 30,
	}

	req := httptest.NewRequest(http.MethodPost, "/api/prestacoes", strings.NewReader("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusBadRequest, s.do(req, "token-ana").Code)

	key := "8f14e45f-ceea-467f-a0e6-7d5c3b1d2a90"
	create := func() *httptest.ResponseRecorder {
		payload, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/api/prestacoes", bytes.NewReader(payload))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(HeaderIdempotencyKey, key)
		return s.do(req, "token-ana")
	}

	rec := create()
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID          string `json:"id"`
		TotalViagem string `json:"totalViagem"`
	}
	decode(t, rec, &created)
	assert.Equal(t, "80.00", created.TotalViagem)

	rec = create()
	require.Equal(t, http.StatusOK, rec.Code)
	var repeated struct {
		ID string `json:"id"`
	}
	decode(t, rec, &repeated)
	assert.Equal(t, created.ID, repeated.ID)

	base := "/api/prestacoes/" + created.ID

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/prestacoes/abc", nil), "token-ana")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, base, nil), "token-bruno")
	assert.Equal(t, http.StatusNotFound, rec.Code, "reports of other users stay hidden")

	rec = s.do(httptest.NewRequest(http.MethodDelete, base, nil), "token-bruno")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(multipartRequest(t, http.MethodPost, base+"/comprovantes", nil, part{"files", "recibo.pdf", pdfBytes}), "token-ana")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(httptest.NewRequest(http.MethodGet, base+"/comprovantes", nil), "token-admin")
	require.Equal(t, http.StatusOK, rec.Code)
	var comps struct {
		Files []struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"files"`
	}
	decode(t, rec, &comps)
	require.Len(t, comps.Files, 1)
	assert.True(t, strings.HasPrefix(comps.Files[0].URL, "https://signed.test/prestacoes/"))

	rec = s.do(httptest.NewRequest(http.MethodPatch, base+"/pagamento", nil), "token-ana")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodPatch, base+"/pagamento", nil), "token-admin")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"statusPagamento":"PAGA"`)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/admin/prestacoes?status=PAGA", nil), "token-admin")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	rec = s.do(httptest.NewRequest(http.MethodDelete, base, nil), "token-ana")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, s.store.Keys())

	rec = s.do(httptest.NewRequest(http.MethodGet, base+"/comprovantes", nil), "token-ana")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &comps)
	assert.Empty(t, comps.Files)
}

func TestArquivoRoutes(t *testing.T) {
	s := newServer(t)

	upload := func(token string) *httptest.ResponseRecorder {
		req := multipartRequest(t, http.MethodPost, "/api/arquivos-obrigatorios",
			map[string]string{"titulo": "Manual"}, part{"file", "manual.pdf", pdfBytes})
		return s.do(req, token)
	}

	assert.Equal(t, http.StatusForbidden, upload("token-ana").Code)

	rec := upload("token-admin")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID     string `json:"id"`
		Titulo string `json:"titulo"`
	}
	decode(t, rec, &created)
	assert.Equal(t, "Manual", created.Titulo)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/arquivos-obrigatorios/"+created.ID+"/download", nil), "token-ana")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderLocation), "https://signed.test/arquivos-obrigatorios/"))

	rec = s.do(httptest.NewRequest(http.MethodDelete, "/api/arquivos-obrigatorios/"+created.ID, nil), "token-admin")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDatasetAndLojaUploads(t *testing.T) {
	s := newServer(t)
	csv := []byte("chave_loja;nome_expresso;ag_pacb\n1001;Loja Centro;0001/11\n")

	rec := s.do(multipartRequest(t, http.MethodPost, "/api/lojas/import", nil, part{"file", "lojas.csv", csv}), "token-admin")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"imported":1,"skipped":0}`, rec.Body.String())

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/lojas/1001", nil), "token-ana")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Loja Centro")

	rec = s.do(multipartRequest(t, http.MethodPut, "/api/datasets/base-lojas", nil), "token-admin")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/datasets", nil), "token-ana")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"datasets":[]}`, rec.Body.String())
}

func TestUtilRoutes(t *testing.T) {
	s := newServer(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/env-check", nil), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"has_RESEND_API_KEY":false,"has_FROM_EMAIL":true,"has_MAIL_TO":false}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/api/baixa-empresa", strings.NewReader("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = s.do(req, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":false`)

	rec = s.json(http.MethodPost, "/api/baixa-empresa", "", map[string]string{"assuntoTipo": "Baixa de empresa"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"ok":false,"message":"Campo obrigatório: Nome do Expresso"}`, rec.Body.String())
	assert.Empty(t, s.mails.Sent())

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/empresas/123", nil), "token-ana")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
