package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/forecast-cloud/internal/application/analytics"
	"github.com/jhoicas/forecast-cloud/internal/application/auth"
	"github.com/jhoicas/forecast-cloud/internal/application/notifications"
	"github.com/jhoicas/forecast-cloud/internal/application/orders"
	"github.com/jhoicas/forecast-cloud/internal/application/usecase"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/domain/password"
	"github.com/jhoicas/forecast-cloud/internal/infrastructure/media"
	apphttp "github.com/jhoicas/forecast-cloud/internal/interfaces/http"
	"github.com/jhoicas/forecast-cloud/internal/testutil"
	pkgjwt "github.com/jhoicas/forecast-cloud/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests-0123456789"
	testIssuer    = "forecast-cloud-test"
	testPassword  = "Planta2025x"
)

var fixedNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

// testEnv aplicación completa sobre el almacén en memoria.
type testEnv struct {
	app       *fiber.App
	store     *testutil.Store
	admin     *entity.User
	comercial *entity.User
	logistica *entity.User
	supplier  *entity.Supplier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := testutil.NewStore()
	store.SetNow(func() time.Time { return fixedNow })
	log := zerolog.Nop()
	mediaRoot := t.TempDir()
	files, err := media.NewLocalStore(mediaRoot, "/media/")
	require.NoError(t, err)

	h, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	admin := store.AddUser(entity.User{Username: "admin", PasswordHash: string(h), Role: entity.RoleAdmin, City: entity.CityBogota, Active: true})
	com := store.AddUser(entity.User{Username: "carlos", FirstName: "Carlos", PasswordHash: string(h), Role: entity.RoleComercial, City: entity.CityBogota, Active: true})
	logi := store.AddUser(entity.User{Username: "logi", PasswordHash: string(h), Role: entity.RoleLogistica, City: entity.CityBogota, Active: true})
	sup := store.AddSupplier(entity.Supplier{Name: "Avícola Sur", Active: true, City: entity.CityBogota, Presentation: "SAC_20"})

	authUC := auth.NewAuthUseCase(store.Users(), nil, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}, log)
	notifier := notifications.NewService(store.Users(), store.Notifications(), log)
	orderSvc := orders.NewService(orders.Deps{
		Tx:        store,
		Orders:    store.Orders(),
		Suppliers: store.Suppliers(),
		Users:     store.Users(),
		Notifier:  notifier,
		Log:       log,
		Now:       func() time.Time { return fixedNow },
	})
	reports := analytics.NewReportUseCase(store.Orders(), store.Suppliers(), store.RawMaterials(), store.StatusLogs()).
		WithClock(func() time.Time { return fixedNow })

	app := apphttp.NewApp(apphttp.RouterDeps{
		AppName:        "forecast-test",
		LoginRateLimit: 0,
		AuthUC:         authUC,
		UserUC:         usecase.NewUserUseCase(store.Users(), files, password.DefaultPolicy(), log).WithHashCost(bcrypt.MinCost),
		ProfileUC:      usecase.NewProfileUseCase(store.Users(), files, password.DefaultPolicy(), log).WithHashCost(bcrypt.MinCost),
		ClientUC:       usecase.NewClientUseCase(store.Clients(), files, log),
		SupplierUC:     usecase.NewSupplierUseCase(store.Suppliers(), log),
		RawMaterialUC:  usecase.NewRawMaterialUseCase(store.RawMaterials(), log),
		Orders:         orderSvc,
		Reports:        reports,
		Notifications:  notifier,
		MediaRoot:      mediaRoot,
		Log:            log,
	})
	return &testEnv{app: app, store: store, admin: admin, comercial: com, logistica: logi, supplier: sup}
}

func bearer(t *testing.T, u *entity.User) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Subject{
		UserID:    u.ID,
		Username:  u.Username,
		Role:      u.Role,
		City:      u.City,
		Superuser: u.IsSuperuser,
	}, testIssuer, 60)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func (e *testEnv) do(t *testing.T, method, path, auth string, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) form(t *testing.T, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// multipartFile envía un formulario multipart con campos y un archivo.
func (e *testEnv) multipartFile(t *testing.T, method, path, auth string, fields map[string]string, field, filename, contentType string, data []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
