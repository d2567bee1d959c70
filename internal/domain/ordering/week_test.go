package ordering_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/forecast-cloud/internal/domain"
	"github.com/jhoicas/forecast-cloud/internal/domain/ordering"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, ok := ordering.ParseDate(s)
	require.True(t, ok, "fecha de prueba inválida: %s", s)
	return d
}

func TestAdjustToMonday_LunesMasCercano(t *testing.T) {
	// 2024-03-04 es lunes.
	casos := map[string]string{
		"2024-03-04": "2024-03-04", // lunes
		"2024-03-05": "2024-03-04", // martes retrocede
		"2024-03-06": "2024-03-04", // miércoles retrocede
		"2024-03-07": "2024-03-04", // jueves retrocede (3 atrás vs 4 adelante)
		"2024-03-08": "2024-03-11", // viernes avanza
		"2024-03-09": "2024-03-11", // sábado avanza
		"2024-03-10": "2024-03-11", // domingo avanza
	}
	for in, want := range casos {
		got := ordering.AdjustToMonday(date(t, in))
		assert.Equal(t, want, got.Format(ordering.DateLayout), "entrada %s", in)
		assert.Equal(t, time.Monday, got.Weekday())
	}
}

func TestAdjustWeekParam_Invalida(t *testing.T) {
	_, ok := ordering.AdjustWeekParam("")
	assert.False(t, ok)
	_, ok = ordering.AdjustWeekParam("04/03/2024")
	assert.False(t, ok)
}

func TestStartOfWeek_Domingo(t *testing.T) {
	got := ordering.StartOfWeek(date(t, "2024-03-10"))
	assert.Equal(t, "2024-03-04", got.Format(ordering.DateLayout))
}

func TestParseDeliveries_DescartaFilasInvalidas(t *testing.T) {
	fechas := []string{"2024-03-04", "", "2024-03-05", "2024-03-06", "no-fecha", "2024-03-07", "2024-03-08"}
	cantidades := []string{"100", "50", "abc", "0", "20", "-5", "300"}

	got := ordering.ParseDeliveries(fechas, cantidades)
	require.Len(t, got, 2)
	assert.Equal(t, int64(100), got[0].Quantity)
	assert.Equal(t, int64(300), got[1].Quantity)
	assert.Equal(t, int64(400), ordering.SumDeliveries(got))
	assert.Equal(t, "2024-03-08", ordering.LatestDelivery(got).Format(ordering.DateLayout))
}

func TestParseDeliveries_LongitudesDistintas(t *testing.T) {
	got := ordering.ParseDeliveries([]string{"2024-03-04", "2024-03-05"}, []string{"10"})
	assert.Len(t, got, 1)
}

func TestResolveTotal(t *testing.T) {
	ds := []ordering.DeliveryInput{{Quantity: 10}, {Quantity: 15}}
	assert.Equal(t, int64(500), ordering.ResolveTotal("500", ds))
	assert.Equal(t, int64(25), ordering.ResolveTotal("", ds))
	assert.Equal(t, int64(25), ordering.ResolveTotal("0", ds))
	assert.Equal(t, int64(25), ordering.ResolveTotal("x", ds))
}

func TestValidateDeliveries_FueraDeSemana(t *testing.T) {
	lunes := date(t, "2024-03-04")
	ds := []ordering.DeliveryInput{
		{Date: date(t, "2024-03-09"), Quantity: 10}, // sábado, permitido
		{Date: date(t, "2024-03-10"), Quantity: 10}, // domingo, fuera
	}
	err := ordering.ValidateDeliveries(ds, &lunes, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDeliveriesOutsideWeek))

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields[0].Message, "04/03/2024")
	assert.Contains(t, verr.Fields[0].Message, "09/03/2024")
}

func TestValidateDeliveries_SumaDistinta(t *testing.T) {
	lunes := date(t, "2024-03-04")
	ds := []ordering.DeliveryInput{{Date: lunes, Quantity: 10}}
	err := ordering.ValidateDeliveries(ds, &lunes, 20)
	assert.ErrorIs(t, err, domain.ErrDeliveriesMismatch)

	assert.NoError(t, ordering.ValidateDeliveries(ds, &lunes, 10))
	assert.NoError(t, ordering.ValidateDeliveries(nil, nil, 0))
}
