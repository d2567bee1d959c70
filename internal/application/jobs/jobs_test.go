package jobs_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/forecast-cloud/internal/application/jobs"
	"github.com/jhoicas/forecast-cloud/internal/application/notifications"
	"github.com/jhoicas/forecast-cloud/internal/application/ports"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/testutil"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, msg ports.MailMessage) error {
	return m.Called(ctx, msg).Error(0)
}

var today = time.Date(2025, 3, 11, 6, 0, 0, 0, time.UTC)

func seedDeliveries(t *testing.T) *testutil.Store {
	t.Helper()
	store := testutil.NewStore()
	store.SetNow(func() time.Time { return today })
	sup := store.AddSupplier(entity.Supplier{Name: "Avícola Sur", Active: true, City: entity.CityBogota})
	week := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	store.AddOrder(entity.Order{
		SupplierID: sup.ID, City: entity.CityBogota, EggType: entity.EggWholeLiquid, Presentation: "SAC_20",
		TotalQuantity: 300, Week: &week, Status: entity.StatusConfirmed,
		Deliveries: []entity.Delivery{
			{Date: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), Quantity: 100},
			{Date: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), Quantity: 200},
		},
	})
	return store
}

func TestDeliveryDigest_EnviaEntregasDelDia(t *testing.T) {
	store := seedDeliveries(t)
	mailer := &mockMailer{}
	mailer.On("Send", mock.Anything, mock.MatchedBy(func(m ports.MailMessage) bool {
		return m.Subject == "Entregas pendientes del 11/03/2025" &&
			strings.Contains(m.Body, "Pedido #1 | Avícola Sur | Bogotá | Huevo Líquido Entero | Saco 20kg | 100 kg") &&
			strings.Contains(m.Body, "Total: 100 kg en 1 entregas.") &&
			!strings.Contains(m.Body, "200 kg")
	})).Return(nil).Once()

	job := jobs.NewDeliveryDigest(store.Orders(), mailer, []string{"planta@example.com"}, func() time.Time { return today }, zerolog.Nop())
	require.NoError(t, job.Run(context.Background()))
	mailer.AssertExpectations(t)
}

func TestDeliveryDigest_SinEntregasNoEnvia(t *testing.T) {
	store := seedDeliveries(t)
	mailer := &mockMailer{}
	sunday := time.Date(2025, 3, 16, 6, 0, 0, 0, time.UTC)

	job := jobs.NewDeliveryDigest(store.Orders(), mailer, []string{"planta@example.com"}, func() time.Time { return sunday }, zerolog.Nop())
	require.NoError(t, job.Run(context.Background()))
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestDeliveryDigest_SinDestinatarios(t *testing.T) {
	store := seedDeliveries(t)
	mailer := &mockMailer{}

	job := jobs.NewDeliveryDigest(store.Orders(), mailer, nil, func() time.Time { return today }, zerolog.Nop())
	require.NoError(t, job.Run(context.Background()))
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestDeliveryDigest_ErrorDeEnvio(t *testing.T) {
	store := seedDeliveries(t)
	mailer := &mockMailer{}
	mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp caído"))

	job := jobs.NewDeliveryDigest(store.Orders(), mailer, []string{"planta@example.com"}, func() time.Time { return today }, zerolog.Nop())
	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp caído")
}

func TestPruneNotifications_RecortaPorUsuario(t *testing.T) {
	store := testutil.NewStore()
	admin := store.AddUser(entity.User{Username: "admin", Role: entity.RoleAdmin, Active: true})
	svc := notifications.NewService(store.Users(), store.Notifications(), zerolog.Nop())
	ctx := context.Background()
	for i := 0; i < 8; i++ {
		require.NoError(t, store.Notifications().CreateForUsers(ctx, []string{admin.ID}, entity.Notification{
			Message: "aviso", EventType: entity.EventOrderCreated,
		}))
	}

	job := jobs.NewPruneNotifications(svc, zerolog.Nop())
	require.NoError(t, job.Run(ctx))
	assert.Len(t, store.AllNotifications(), notifications.KeepPerUser)
}
