package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/garage_market/internal/apperr"
)

type signup struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestValidate_FieldMapUsesJSONNames(t *testing.T) {
	v := New()

	err := v.Validate(&signup{Name: "Ann", Email: "nope", Password: "short"})
	require.Error(t, err)

	ae := apperr.As(err)
	assert.Equal(t, apperr.KindMalformed, ae.Kind)
	assert.Equal(t, "Validation failed", ae.Message)
	assert.Equal(t, "The field 'email' must be a valid email address.", ae.Fields["email"])
	assert.Equal(t, "The field 'password' must be at least 8 characters long.", ae.Fields["password"])
	assert.NotContains(t, ae.Fields, "name")

	assert.NoError(t, v.Validate(&signup{Name: "Ann", Email: "ann@garage.io", Password: "long-enough"}))
}

func TestBind(t *testing.T) {
	e := echo.New()
	e.Validator = New()

	newCtx := func(body string) echo.Context {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		return e.NewContext(req, httptest.NewRecorder())
	}

	var dst signup
	err := Bind(newCtx(`{"name":`), &dst)
	assert.Equal(t, "Invalid JSON format", apperr.As(err).Message)

	err = Bind(newCtx(`{"name":"Ann"}`), &dst)
	ae := apperr.As(err)
	assert.Equal(t, "Validation failed", ae.Message)
	assert.Len(t, ae.Fields, 2)

	require.NoError(t, Bind(newCtx(`{"name":"Ann","email":"ann@garage.io","password":"long-enough"}`), &dst))
	assert.Equal(t, "ann@garage.io", dst.Email)
}
