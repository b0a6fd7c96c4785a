package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	note := "  obs  "
	req := struct {
		Name  string
		Tags  []string
		Note  *string
		Count int
	}{Name: "  a ", Tags: []string{" x", "y "}, Note: &note, Count: 3}

	Sanitize(&req)
	assert.Equal(t, "a", req.Name)
	assert.Equal(t, []string{"x", "y"}, req.Tags)
	assert.Equal(t, "obs", *req.Note)
	assert.Equal(t, 3, req.Count)
}

func TestCheckFileExt(t *testing.T) {
	ext, ok := CheckFileExt("Lista.XLS", []string{"xls", "xlsx"})
	assert.True(t, ok)
	assert.Equal(t, ".xls", ext)

	_, ok = CheckFileExt("banco", []string{"csv"})
	assert.False(t, ok)

	_, ok = CheckFileExt("banco.txt", []string{"csv"})
	assert.False(t, ok)
}

func TestSafeFileName(t *testing.T) {
	assert.Equal(t, "nota_fiscal_1.pdf", SafeFileName("nota fiscal 1.pdf"))
	assert.Equal(t, "passwd", SafeFileName("../../etc/passwd"))
	assert.Equal(t, "recibo.jpg", SafeFileName(`C:\fotos\recibo.jpg`))
	assert.Equal(t, "arquivo", SafeFileName("..."))
}

func TestCNPJ(t *testing.T) {
	assert.True(t, IsCNPJValid("11222333000181"))
	assert.False(t, IsCNPJValid("11222333000182"))
	assert.False(t, IsCNPJValid("11111111111111"))
	assert.False(t, IsCNPJValid("1122233300018"))

	assert.Equal(t, "11222333000181", NormalizeCNPJ("11.222.333/0001-81"))
	assert.Equal(t, "00000000000191", NormalizeCNPJ("191"))
	assert.Equal(t, "", NormalizeCNPJ("n/a"))
}

func TestClaimsToTokenData(t *testing.T) {
	data := ClaimsToTokenData(jwt.MapClaims{
		"sub":            "abc",
		"email":          "Marcelo@TreinExpresso.com.br",
		"name":           "Marcelo",
		"cognito:groups": []any{"Admin", 3},
		"exp":            float64(1700000000),
	})

	assert.Equal(t, "abc", data.Sub)
	assert.Equal(t, "marcelo@treinexpresso.com.br", data.Email)
	assert.Equal(t, []string{"Admin"}, data.Groups)
	assert.True(t, data.InGroup("admin"))
	assert.Equal(t, int64(1700000000), data.Exp)
}
