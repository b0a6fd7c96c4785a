package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

func (s *StructuredError) Empty() bool {
	return len(s.Errors) == 0
}

// EnvelopeError is the `{ok: false, message}` body of the mail endpoint.
type EnvelopeError struct {
	Ok      bool   `json:"ok"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *EnvelopeError) Code() int {
	return e.Status
}

// FileError is the `{error}` body of the public file endpoints.
type FileError struct {
	Error  string `json:"error"`
	Status int    `json:"-"`
}

func (f *FileError) Code() int {
	return f.Status
}

var (
	MalformedJSONError  = NewSimple(400, "Corpo JSON inválido.")
	MalformedBodyError  = NewSimple(400, "Corpo da requisição inválido.")
	InternalServerError = NewSimple(500, "Erro interno do servidor.")

	NotFoundError  = NewSimple(404, "Recurso não encontrado.")
	InvalidIDError = NewSimple(400, "O ID informado é inválido.")

	UnauthorizedError     = NewSimple(401, "Autenticação necessária.")
	InvalidAuthTokenError = NewSimple(401, "Token de acesso inválido ou expirado.")
	InactiveUserError     = NewSimple(403, "Usuário desativado.")
	AdminOnlyError        = NewSimple(403, "Acesso restrito a administradores.")

	FileLoadError          = &FileError{Error: "Não foi possível carregar o arquivo.", Status: http.StatusInternalServerError}
	DatasetUnavailableErr  = NewSimple(500, "Não foi possível carregar o arquivo.")
	DatasetNotUploadedErr  = NewSimple(404, "O arquivo ainda não foi enviado.")
	UnknownDatasetError    = NewSimple(404, "Base de dados desconhecida.")
	MissingFileError       = NewSimple(400, "Nenhum arquivo enviado.")
	UnreadableFileError    = NewSimple(400, "Não foi possível ler o arquivo enviado.")
	InvalidMediaTypeError  = NewSimple(415, "Tipo de arquivo não suportado.")
	TooManyAttachmentsErr  = NewSimple(400, "Você pode anexar no máximo 10 imagens.")
	KmRangeError           = NewSimple(400, "KM final não pode ser menor que KM inicial.")
	OtherExpensesDescError = NewSimple(400, "Descreva as outras despesas.")
	InvalidCNPJError       = NewSimple(400, "CNPJ inválido.")

	/*
	 * Used for authentications
	 */
	IDPUserNotFoundError        = NewSimple(404, "Usuário não encontrado.")
	IDPUserNotConfirmedError    = NewSimple(400, "Usuário ainda não confirmado.")
	IDPCredentialsMismatchError = NewSimple(400, "E-mail ou senha incorretos.")
	IDPInvalidParameterError    = NewSimple(400, "Parâmetros inválidos.")
	IDPTooManyRequestsError     = NewSimple(429, "Muitas tentativas, tente novamente mais tarde.")
)

func FromValidationError(err error) *StructuredError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := lowerFirst(fe.Field())

		switch fe.Tag() {
		case "required", "notblank":
			problems[field] = append(problems[field], "Campo obrigatório")
		case "min", "gte":
			problems[field] = append(problems[field], "Valor abaixo do mínimo: "+fe.Param())
		case "max", "lte":
			problems[field] = append(problems[field], "Valor acima do máximo: "+fe.Param())
		case "email":
			problems[field] = append(problems[field], "Informe um e-mail válido")
		case "yyyymmdd":
			problems[field] = append(problems[field], "Data deve estar no formato aaaa-mm-dd")
		case "yyyymm":
			problems[field] = append(problems[field], "Mês deve estar no formato aaaa-mm")
		case "digits":
			problems[field] = append(problems[field], "Apenas números são permitidos")
		case "oneof":
			problems[field] = append(problems[field], "Valor deve ser um de: "+fe.Param())
		case "uuid", "uuid4":
			problems[field] = append(problems[field], "Identificador inválido")

		default:
			problems[field] = append(problems[field], "Valor inválido")
		}
	}

	return &StructuredError{
		Errors: problems,
		Status: http.StatusBadRequest,
	}
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Errors: make(map[string][]string),
		Status: code,
	}
}

func NewEnvelope(status int, msg string) *EnvelopeError {
	return &EnvelopeError{Status: status, Message: msg}
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parâmetro '%s' tem tipo inválido, esperado: %s", name, dataType)
}

func NewMissingParamError(name string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parâmetro obrigatório ausente: %s", name)
}

func NewMissingColumnError(column, hint string) *APIError {
	if hint == "" {
		return NewSimple(http.StatusBadRequest, "Coluna obrigatória ausente: %s", column)
	}
	return NewSimple(http.StatusBadRequest, "Coluna obrigatória ausente: %s (você quis dizer \"%s\"?)", column, hint)
}

func NewFileTooLargeError(name, limit string) *APIError {
	return NewSimple(http.StatusRequestEntityTooLarge, "O arquivo %s excede o limite de %s.", name, limit)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
