package utils

import (
	"errors"
	"path/filepath"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/labstack/gommon/log"

	"treinoexpresso/cmd/internal/utils/apierror"
)

var (
	userNotFound  *types.UserNotFoundException
	notConfirmed  *types.UserNotConfirmedException
	notAuthorized *types.NotAuthorizedException
	invalidParam  *types.InvalidParameterException
	tooMany       *types.TooManyRequestsException

	unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)
)

func FormatEpoch(millis int64) string {
	return time.UnixMilli(millis).
		UTC().
		Format(time.RFC3339)
}

func NowUTC() int64 {
	return time.Now().
		UTC().
		UnixMilli()
}

// CheckFileExt compares the extension case-insensitively against valid (given without dots).
func CheckFileExt(fileName string, valid []string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		return "", false
	}
	return ext, slices.Contains(valid, ext[1:])
}

// SafeFileName keeps the base name of an upload with anything outside [a-zA-Z0-9._-] turned into "_".
func SafeFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = unsafeFileChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "_.")
	if base == "" {
		return "arquivo"
	}
	return base
}

func MapCognitoError(err error) apierror.ErrorResponse {
	switch {
	case errors.As(err, &userNotFound):
		return apierror.IDPUserNotFoundError
	case errors.As(err, &notConfirmed):
		return apierror.IDPUserNotConfirmedError
	case errors.As(err, &notAuthorized):
		return apierror.IDPCredentialsMismatchError
	case errors.As(err, &invalidParam):
		return apierror.IDPInvalidParameterError
	case errors.As(err, &tooMany):
		return apierror.IDPTooManyRequestsError
	default:
		log.Errorf("unmapped cognito error: %v", err)
		return apierror.InternalServerError
	}
}

func Sanitize(o any) {
	v := reflect.ValueOf(o)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		panic("sanitize: expected pointer to struct")
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		panic("sanitize: expected struct")
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(sanitizeString(field.String()))

		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				for j := 0; j < field.Len(); j++ {
					field.Index(j).SetString(sanitizeString(field.Index(j).String()))
				}
			}

		case reflect.Ptr:
			if !field.IsNil() && field.Elem().Kind() == reflect.String {
				field.Elem().SetString(sanitizeString(field.Elem().String()))
			}
		}
	}
}

func sanitizeString(s string) string {
	return strings.TrimSpace(s)
}
