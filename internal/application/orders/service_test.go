package orders_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/application/notifications"
	"github.com/jhoicas/forecast-cloud/internal/application/orders"
	"github.com/jhoicas/forecast-cloud/internal/application/ports"
	"github.com/jhoicas/forecast-cloud/internal/domain"
	"github.com/jhoicas/forecast-cloud/internal/domain/access"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/testutil"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, msg ports.MailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type fixture struct {
	store      *testutil.Store
	svc        *orders.Service
	mailer     *mockMailer
	admin      access.Actor
	comercial  access.Actor
	produccion access.Actor
	logistica  access.Actor
	supplier   *entity.Supplier
	caliSup    *entity.Supplier
}

var fixedNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	store.SetNow(func() time.Time { return fixedNow })
	mailer := &mockMailer{}

	admin := store.AddUser(entity.User{Username: "admin", Role: entity.RoleAdmin, City: entity.CityBogota, Active: true})
	com := store.AddUser(entity.User{Username: "carlos", FirstName: "Carlos", Role: entity.RoleComercial, City: entity.CityBogota, Active: true})
	prod := store.AddUser(entity.User{Username: "prod", Role: entity.RoleProduccion, City: entity.CityBogota, Active: true})
	logi := store.AddUser(entity.User{Username: "logi", Role: entity.RoleLogistica, City: entity.CityBogota, Active: true})

	sup := store.AddSupplier(entity.Supplier{Name: "Avícola Sur", Active: true, City: entity.CityBogota, Presentation: "SAC_20"})
	cali := store.AddSupplier(entity.Supplier{Name: "Granja Valle", Active: true, City: entity.CityCali, Presentation: "OV15_200"})

	notifier := notifications.NewService(store.Users(), store.Notifications(), zerolog.Nop())
	svc := orders.NewService(orders.Deps{
		Tx:         store,
		Orders:     store.Orders(),
		Suppliers:  store.Suppliers(),
		Users:      store.Users(),
		Notifier:   notifier,
		Mailer:     mailer,
		Recipients: []string{"planta@example.com"},
		Log:        zerolog.Nop(),
		Now:        func() time.Time { return fixedNow },
	})
	return &fixture{
		store:      store,
		svc:        svc,
		mailer:     mailer,
		admin:      access.FromUser(admin),
		comercial:  access.FromUser(com),
		produccion: access.FromUser(prod),
		logistica:  access.FromUser(logi),
		supplier:   sup,
		caliSup:    cali,
	}
}

func validRequest(supplierID string) dto.OrderRequest {
	return dto.OrderRequest{
		SupplierID:    supplierID,
		EggType:       entity.EggWholeLiquid,
		TotalQuantity: "300",
		Week:          "2025-03-10",
		Deliveries: []dto.DeliveryRow{
			{Date: "2025-03-11", Quantity: "100"},
			{Date: "2025-03-13", Quantity: "200"},
		},
	}
}

func TestCreate_ComercialCreaPedidoPendiente(t *testing.T) {
	f := newFixture(t)
	f.mailer.On("Send", mock.Anything, mock.MatchedBy(func(m ports.MailMessage) bool {
		return m.Subject == "Nuevo pedido creado - Avícola Sur"
	})).Return(nil).Once()

	out, err := f.svc.Create(context.Background(), f.comercial, validRequest(f.supplier.ID))
	require.NoError(t, err)

	assert.Equal(t, entity.StatusPending, out.Status)
	assert.Equal(t, int64(300), out.TotalQuantity)
	assert.Equal(t, int64(300), out.Quantity)
	assert.Equal(t, entity.CityBogota, out.City)
	assert.Equal(t, "SAC_20", out.Presentation)
	require.NotNil(t, out.DeliveryDate)
	assert.Equal(t, "2025-03-13", *out.DeliveryDate)
	require.NotNil(t, out.Week)
	assert.Equal(t, "2025-03-10", *out.Week)
	assert.Len(t, out.Deliveries, 2)

	notes := f.store.AllNotifications()
	require.Len(t, notes, 4, "una notificación por usuario activo")
	assert.Equal(t, entity.EventOrderCreated, notes[0].EventType)
	assert.Contains(t, notes[0].Message, "creado por Carlos")
	f.mailer.AssertExpectations(t)
}

func TestCreate_SemanaSeAjustaAlLunesMasCercano(t *testing.T) {
	f := newFixture(t)
	f.mailer.On("Send", mock.Anything, mock.Anything).Return(nil)
	req := validRequest(f.supplier.ID)
	req.Week = "2025-03-15" // sábado -> lunes 17
	req.Deliveries = []dto.DeliveryRow{{Date: "2025-03-18", Quantity: "300"}}

	out, err := f.svc.Create(context.Background(), f.comercial, req)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-17", *out.Week)
}

func TestCreate_SinCantidadTotalUsaSumaDeEntregas(t *testing.T) {
	f := newFixture(t)
	f.mailer.On("Send", mock.Anything, mock.Anything).Return(nil)
	req := validRequest(f.supplier.ID)
	req.TotalQuantity = ""

	out, err := f.svc.Create(context.Background(), f.comercial, req)
	require.NoError(t, err)
	assert.Equal(t, int64(300), out.TotalQuantity)
}

func TestCreate_FalloDeCorreoNoRevierteElPedido(t *testing.T) {
	f := newFixture(t)
	f.mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp caído"))

	_, err := f.svc.Create(context.Background(), f.comercial, validRequest(f.supplier.ID))
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.OrderCount())
}

func TestCreate_Rechazos(t *testing.T) {
	cases := []struct {
		name string
		edit func(f *fixture, r *dto.OrderRequest)
		want error
	}{
		{"semana vacía", func(_ *fixture, r *dto.OrderRequest) { r.Week = "" }, domain.ErrInvalidWeek},
		{"semana inválida", func(_ *fixture, r *dto.OrderRequest) { r.Week = "2025-13-40" }, domain.ErrInvalidWeek},
		{"entrega fuera de semana", func(_ *fixture, r *dto.OrderRequest) {
			r.Deliveries[1].Date = "2025-03-16"
		}, domain.ErrDeliveriesOutsideWeek},
		{"suma distinta del total", func(_ *fixture, r *dto.OrderRequest) { r.TotalQuantity = "500" }, domain.ErrDeliveriesMismatch},
		{"total sin entregas", func(_ *fixture, r *dto.OrderRequest) { r.Deliveries = nil }, domain.ErrDeliveriesMismatch},
		{"proveedor de otra ciudad", func(f *fixture, r *dto.OrderRequest) { r.SupplierID = f.caliSup.ID }, domain.ErrSupplierUnavailable},
		{"proveedor inexistente", func(_ *fixture, r *dto.OrderRequest) { r.SupplierID = "no-existe" }, domain.ErrSupplierUnavailable},
		{"tipo de huevo inválido", func(_ *fixture, r *dto.OrderRequest) { r.EggType = "XXX" }, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			req := validRequest(f.supplier.ID)
			tc.edit(f, &req)
			_, err := f.svc.Create(context.Background(), f.comercial, req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, 0, f.store.OrderCount())
			f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_ComercialSinCiudad(t *testing.T) {
	f := newFixture(t)
	actor := f.comercial
	actor.City = ""
	_, err := f.svc.Create(context.Background(), actor, validRequest(f.supplier.ID))
	assert.ErrorIs(t, err, domain.ErrMissingCity)
}

func TestCreate_ProduccionNoPuedeCrear(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), f.produccion, validRequest(f.supplier.ID))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 0, f.store.OrderCount())
}

func TestCreate_AdminPuedeUsarProveedorDeOtraCiudad(t *testing.T) {
	f := newFixture(t)
	f.mailer.On("Send", mock.Anything, mock.Anything).Return(nil)
	_, err := f.svc.Create(context.Background(), f.admin, validRequest(f.caliSup.ID))
	require.NoError(t, err)
}

func seedOrder(f *fixture, status string) *entity.Order {
	week := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	return f.store.AddOrder(entity.Order{
		SupplierID:    f.supplier.ID,
		CommercialID:  f.comercial.UserID,
		City:          entity.CityBogota,
		EggType:       entity.EggWholeLiquid,
		Presentation:  "SAC_20",
		Quantity:      100,
		TotalQuantity: 100,
		Week:          &week,
		Status:        status,
		Deliveries:    []entity.Delivery{{Date: week.AddDate(0, 0, 1), Quantity: 100}},
	})
}

func TestChangeStatus_ComercialConfirma(t *testing.T) {
	f := newFixture(t)
	o := seedOrder(f, entity.StatusPending)

	out, err := f.svc.ChangeStatus(context.Background(), f.comercial, o.ID, dto.ChangeStatusRequest{Status: entity.StatusConfirmed})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, out.Status)

	logs := f.store.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, entity.StatusPending, logs[0].FromStatus)
	assert.Equal(t, entity.StatusConfirmed, logs[0].ToStatus)
	assert.Equal(t, f.comercial.UserID, logs[0].UserID)

	notes := f.store.AllNotifications()
	require.NotEmpty(t, notes)
	assert.Equal(t, entity.EventOrderConfirmed, notes[0].EventType)
	assert.True(t, notes[0].PlaySound)
}

func TestChangeStatus_EstadoNoPermitidoParaElRol(t *testing.T) {
	f := newFixture(t)
	o := seedOrder(f, entity.StatusPending)

	_, err := f.svc.ChangeStatus(context.Background(), f.produccion, o.ID, dto.ChangeStatusRequest{Status: entity.StatusConfirmed})
	assert.ErrorIs(t, err, domain.ErrStatusNotAllowed)

	got, _ := f.store.Orders().GetByID(context.Background(), o.ID)
	assert.Equal(t, entity.StatusPending, got.Status)
	assert.Empty(t, f.store.Logs())
}

func TestChangeStatus_CierreExigeDescripcion(t *testing.T) {
	f := newFixture(t)
	o := seedOrder(f, entity.StatusDispatched)

	_, err := f.svc.ChangeStatus(context.Background(), f.logistica, o.ID, dto.ChangeStatusRequest{Status: entity.StatusDelivered, Description: "  "})
	assert.ErrorIs(t, err, domain.ErrDescriptionRequired)

	out, err := f.svc.ChangeStatus(context.Background(), f.logistica, o.ID, dto.ChangeStatusRequest{Status: entity.StatusDelivered, Description: "Recibido en planta"})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDelivered, out.Status)
	assert.Equal(t, "Recibido en planta", f.store.Logs()[0].Description)
}

func TestChangeStatus_MismoEstadoNoRegistra(t *testing.T) {
	f := newFixture(t)
	o := seedOrder(f, entity.StatusConfirmed)

	_, err := f.svc.ChangeStatus(context.Background(), f.comercial, o.ID, dto.ChangeStatusRequest{Status: entity.StatusConfirmed})
	require.NoError(t, err)
	assert.Empty(t, f.store.Logs())
	assert.Empty(t, f.store.AllNotifications())
}

func TestChangeStatus_EstadoInvalido(t *testing.T) {
	f := newFixture(t)
	o := seedOrder(f, entity.StatusPending)
	_, err := f.svc.ChangeStatus(context.Background(), f.admin, o.ID, dto.ChangeStatusRequest{Status: "ARCHIVADO"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestChangeStatus_AdminNoPuedeDevolver(t *testing.T) {
	f := newFixture(t)
	o := seedOrder(f, entity.StatusDelivered)
	_, err := f.svc.ChangeStatus(context.Background(), f.admin, o.ID, dto.ChangeStatusRequest{Status: entity.StatusReturned, Description: "x"})
	assert.ErrorIs(t, err, domain.ErrStatusNotAllowed)
}

func TestMarkDelivered_LogisticaConDescripcionAutomatica(t *testing.T) {
	f := newFixture(t)
	o := seedOrder(f, entity.StatusDispatched)

	out, err := f.svc.MarkDelivered(context.Background(), f.logistica, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDelivered, out.Status)
	logs := f.store.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, "Pedido entregado por logi el 12/03/2025.", logs[0].Description)
}

func TestMarkDelivered_ComercialNoPuede(t *testing.T) {
	f := newFixture(t)
	o := seedOrder(f, entity.StatusDispatched)
	_, err := f.svc.MarkDelivered(context.Background(), f.comercial, o.ID)
	assert.ErrorIs(t, err, domain.ErrStatusNotAllowed)
}

func TestDelete_SoloAdmin(t *testing.T) {
	f := newFixture(t)
	o := seedOrder(f, entity.StatusPending)

	err := f.svc.Delete(context.Background(), f.comercial, o.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 1, f.store.OrderCount(), "el pedido no debe tocarse")

	require.NoError(t, f.svc.Delete(context.Background(), f.admin, o.ID))
	assert.Equal(t, 0, f.store.OrderCount())

	assert.ErrorIs(t, f.svc.Delete(context.Background(), f.admin, o.ID), domain.ErrNotFound)
}

func TestUpdate_HistorialSoloAdmin(t *testing.T) {
	f := newFixture(t)
	o := seedOrder(f, entity.StatusDelivered)
	req := validRequest(f.supplier.ID)

	_, err := f.svc.Update(context.Background(), f.comercial, o.ID, req)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := f.svc.Update(context.Background(), f.admin, o.ID, req)
	require.NoError(t, err)
	assert.Equal(t, int64(300), out.TotalQuantity)
	assert.Equal(t, o.Number, out.Number)
	assert.Equal(t, entity.StatusDelivered, out.Status)
}

func TestUpdate_CambioDeEstadoRegistraYNotifica(t *testing.T) {
	f := newFixture(t)
	o := seedOrder(f, entity.StatusPending)
	req := validRequest(f.supplier.ID)
	req.Status = entity.StatusCancelled

	out, err := f.svc.Update(context.Background(), f.comercial, o.ID, req)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, out.Status)
	require.Len(t, f.store.Logs(), 1)
	assert.Equal(t, entity.EventOrderCancelled, f.store.AllNotifications()[0].EventType)
}

func TestUpdate_CierreSinObservaciones(t *testing.T) {
	f := newFixture(t)
	o := seedOrder(f, entity.StatusDispatched)
	req := validRequest(f.supplier.ID)
	req.Status = entity.StatusDelivered

	_, err := f.svc.Update(context.Background(), f.admin, o.ID, req)
	assert.ErrorIs(t, err, domain.ErrDescriptionRequired)
}

func TestUpdate_SemanaVaciaPermitida(t *testing.T) {
	f := newFixture(t)
	o := seedOrder(f, entity.StatusPending)
	req := validRequest(f.supplier.ID)
	req.Week = ""
	req.Deliveries = []dto.DeliveryRow{{Date: "2025-04-02", Quantity: "300"}}

	out, err := f.svc.Update(context.Background(), f.admin, o.ID, req)
	require.NoError(t, err)
	assert.Nil(t, out.Week)
	assert.Equal(t, "2025-04-02", *out.DeliveryDate)
}

func TestTable_TotalesPorFamilia(t *testing.T) {
	f := newFixture(t)
	seedOrder(f, entity.StatusPending)
	seedOrder(f, entity.StatusConfirmed)
	yolk := seedOrder(f, entity.StatusInProduction)
	yolk.EggType = entity.EggYolkLiquid
	require.NoError(t, f.store.Orders().Update(context.Background(), yolk))
	seedOrder(f, entity.StatusDelivered) // fuera del tablero

	out, err := f.svc.Table(context.Background(), dto.OrderListQuery{})
	require.NoError(t, err)
	assert.Len(t, out.Orders, 3)
	assert.Equal(t, int64(200), out.TotalLiquid)
	assert.Equal(t, int64(100), out.TotalYolk)
	assert.Equal(t, int64(0), out.TotalMix)
}

func TestForm_ComercialSoloVeProveedoresDeSuCiudad(t *testing.T) {
	f := newFixture(t)
	out, err := f.svc.Form(context.Background(), f.comercial, "")
	require.NoError(t, err)
	require.Len(t, out.Suppliers, 1)
	assert.Equal(t, f.supplier.ID, out.Suppliers[0].ID)
	require.Len(t, out.Commercials, 1)
	assert.Equal(t, f.comercial.UserID, out.Commercials[0].ID)
}

func TestStatusForm_IncluyeEstadoActual(t *testing.T) {
	f := newFixture(t)
	o := seedOrder(f, entity.StatusPending)
	out, err := f.svc.StatusForm(context.Background(), f.produccion, o.ID)
	require.NoError(t, err)
	codes := make([]string, 0, len(out.Statuses))
	for _, c := range out.Statuses {
		codes = append(codes, c.Code)
	}
	assert.Equal(t, []string{entity.StatusPending, entity.StatusInProduction, entity.StatusReturned}, codes)
}
