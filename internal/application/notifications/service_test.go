package notifications_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/forecast-cloud/internal/application/notifications"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/domain/ordering"
	"github.com/jhoicas/forecast-cloud/internal/testutil"
)

func TestBroadcast_ConservaCincoPorUsuario(t *testing.T) {
	store := testutil.NewStore()
	a := store.AddUser(entity.User{Username: "ana", Active: true})
	b := store.AddUser(entity.User{Username: "beto", Active: true})
	store.AddUser(entity.User{Username: "inactivo", Active: false})
	svc := notifications.NewService(store.Users(), store.Notifications(), zerolog.Nop())

	for i := 1; i <= 7; i++ {
		require.NoError(t, svc.Broadcast(context.Background(), ordering.CreatedEvent(int64(i), "ana")))
	}

	all := store.AllNotifications()
	assert.Len(t, all, 10)
	for _, id := range []string{a.ID, b.ID} {
		ctx, err := svc.Context(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, 5, ctx.Total)
		require.Len(t, ctx.Items, 5)
		assert.Equal(t, "Pedido #7 creado por ana", ctx.Items[0].Message)
		assert.Equal(t, "Pedido #3 creado por ana", ctx.Items[4].Message)
	}
}

func TestPoll_SinEventosDevuelveNulos(t *testing.T) {
	store := testutil.NewStore()
	u := store.AddUser(entity.User{Username: "ana", Active: true})
	svc := notifications.NewService(store.Users(), store.Notifications(), zerolog.Nop())

	out, err := svc.Poll(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Nil(t, out.LastEventID)
	assert.Nil(t, out.LastEventTS)
}

func TestPoll_UltimoEventoConSonido(t *testing.T) {
	store := testutil.NewStore()
	u := store.AddUser(entity.User{Username: "ana", Active: true})
	svc := notifications.NewService(store.Users(), store.Notifications(), zerolog.Nop())

	require.NoError(t, svc.Broadcast(context.Background(), ordering.ChangeEvent(1, entity.StatusPending, entity.StatusConfirmed, "ana")))
	require.NoError(t, svc.Broadcast(context.Background(), ordering.ChangeEvent(1, entity.StatusConfirmed, entity.StatusInProduction, "ana")))

	out, err := svc.Poll(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, out.LastEventMessage)
	assert.Equal(t, "Pedido #1 confirmado por ana", *out.LastEventMessage)
}

func TestClear_SoloBorraLasDelUsuario(t *testing.T) {
	store := testutil.NewStore()
	a := store.AddUser(entity.User{Username: "ana", Active: true})
	b := store.AddUser(entity.User{Username: "beto", Active: true})
	svc := notifications.NewService(store.Users(), store.Notifications(), zerolog.Nop())
	require.NoError(t, svc.Broadcast(context.Background(), ordering.StatusEvent{Message: "hola"}))

	require.NoError(t, svc.Clear(context.Background(), a.ID))

	ctxA, _ := svc.Context(context.Background(), a.ID)
	ctxB, _ := svc.Context(context.Background(), b.ID)
	assert.Equal(t, 0, ctxA.Total)
	assert.Equal(t, 1, ctxB.Total)
	assert.Equal(t, entity.EventInfo, ctxB.Items[0].EventType)
}

func TestPruneAll(t *testing.T) {
	store := testutil.NewStore()
	u := store.AddUser(entity.User{Username: "ana", Active: true})
	for i := 0; i < 8; i++ {
		require.NoError(t, store.Notifications().CreateForUsers(context.Background(), []string{u.ID},
			entity.Notification{Message: fmt.Sprintf("n%d", i), EventType: entity.EventInfo}))
	}
	svc := notifications.NewService(store.Users(), store.Notifications(), zerolog.Nop())

	removed, err := svc.PruneAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.Len(t, store.AllNotifications(), 5)
}
