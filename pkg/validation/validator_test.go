package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/forecast-cloud/pkg/validation"
)

type pedidoReq struct {
	Supplier string `json:"proveedor" validate:"required"`
	EggType  string `json:"tipo_huevo" validate:"required,egg"`
	Week     string `form:"semana" validate:"omitempty,isodate"`
	Email    string `json:"email" validate:"omitempty,email"`
	Title    string `json:"titulo" validate:"max=5"`
}

func newValidator(t *testing.T) *validation.Validator {
	t.Helper()
	v := validation.New()
	require.NoError(t, v.RegisterChoices("egg", []string{"HELU", "YELU"}))
	return v
}

func TestStruct_UsaNombresJSONYForm(t *testing.T) {
	v := newValidator(t)
	err := v.Struct(pedidoReq{EggType: "XXXX", Week: "04/03/2024", Email: "no-es-correo", Title: "demasiado"})
	require.Error(t, err)

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)

	campos := map[string]string{}
	for _, f := range verrs {
		campos[f.Field] = f.Message
	}
	assert.Equal(t, "Este campo es obligatorio.", campos["proveedor"])
	assert.Equal(t, "Selecciona una opción válida.", campos["tipo_huevo"])
	assert.Contains(t, campos["semana"], "AAAA-MM-DD")
	assert.Contains(t, campos["email"], "correo")
	assert.Contains(t, campos["titulo"], "5 caracteres")
}

func TestStruct_Valido(t *testing.T) {
	v := newValidator(t)
	assert.NoError(t, v.Struct(pedidoReq{Supplier: "p", EggType: "HELU", Week: "2024-03-04"}))
}
