package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/abs-rental-api/internal/application/auth"
	"github.com/jhoicas/abs-rental-api/internal/application/cart"
	"github.com/jhoicas/abs-rental-api/internal/application/dto"
	"github.com/jhoicas/abs-rental-api/internal/application/evidence"
	"github.com/jhoicas/abs-rental-api/internal/application/order"
	"github.com/jhoicas/abs-rental-api/internal/application/outbox"
	"github.com/jhoicas/abs-rental-api/internal/application/usecase"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/infrastructure/memory"
	"github.com/jhoicas/abs-rental-api/internal/infrastructure/metrics"
	"github.com/jhoicas/abs-rental-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/abs-rental-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/abs-rental-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación completa sobre repositorios en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	adminEmail    = "admin@abs.co"
	clienteEmail  = "cliente@example.com"
	cliente2Email = "otra@example.com"
	logEmail      = "log@abs.co"
	suspEmail     = "suspendida@example.com"
	password      = "secreto123"
)

type testEnv struct {
	app    *fiber.App
	outbox *memory.OutboxRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	users := memory.NewUserRepository(
		entity.User{Email: adminEmail, Name: "Admin", Role: entity.RoleAdmin, Status: entity.UserStatusActive, PasswordHash: string(hash)},
		entity.User{Email: clienteEmail, Name: "Cliente", Role: entity.RoleUser, Status: entity.UserStatusActive, PasswordHash: string(hash), DiscountPercentage: decimal.NewFromInt(10)},
		entity.User{Email: cliente2Email, Name: "Otra", Role: entity.RoleUser, Status: entity.UserStatusActive, PasswordHash: string(hash)},
		entity.User{Email: logEmail, Name: "Logística", Role: entity.RoleLogistics, Status: entity.UserStatusActive, PasswordHash: string(hash)},
		entity.User{Email: suspEmail, Name: "Susp", Role: entity.RoleUser, Status: entity.UserStatusOnHold, PasswordHash: string(hash)},
	)
	products := memory.NewProductRepository(
		entity.Product{ID: "silla", Name: "Silla Tiffany", Category: entity.CategoryMobiliario, Stock: 10, PriceRent: decimal.NewFromInt(14000)},
		entity.Product{ID: "led", Name: "Pantalla LED", Category: entity.CategoryElectronica, Stock: 2, PriceRent: decimal.NewFromInt(100000)},
	)
	orders := memory.NewOrderRepository()
	outboxRepo := memory.NewOutboxRepository()
	reg := metrics.New()
	blobs := evidence.NewService(memory.NewBlobStore(0))

	orderSvc := order.NewService(order.Deps{
		Orders:   orders,
		Products: products,
		Events:   outbox.New(outboxRepo, nil),
		Evidence: blobs,
		Guides:   pdf.NewGuideGenerator(""),
		Metrics:  reg,
	})
	relay := outbox.NewRelay(outboxRepo, outbox.NewLogPublisher(nil), outbox.Config{}, nil, reg, nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		ProductUC: usecase.NewProductUseCase(products),
		UserUC:    usecase.NewUserUseCase(users),
		AssistUC:  usecase.NewAssistUseCase(nil, nil, 0, nil),
		Carts:     cart.NewService(cart.NewSessionStore(), products, orders),
		Orders:    orderSvc,
		Evidence:  blobs,
		Ops:       apphttp.NewOpsHandler("abs-test", relay, reg, reg.Handler()),
		Users:     users,
		JWTSecret: testJWTSecret,
	})
	return &testEnv{app: app, outbox: outboxRepo}
}

func bearer(t *testing.T, email, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, email, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (e *testEnv) call(t *testing.T, method, path, auth string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func (e *testEnv) fillCart(t *testing.T, auth, productID string, qty int) {
	t.Helper()
	resp, body := e.call(t, http.MethodPut, "/api/cart/dates", auth, dto.SetCartDatesRequest{StartDate: "2026-06-10", EndDate: "2026-06-13"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	resp, body = e.call(t, http.MethodPost, "/api/cart/items", auth, dto.AddCartItemRequest{ProductID: productID, Quantity: qty})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
}

func checkout(kind string) dto.CheckoutRequest {
	return dto.CheckoutRequest{OrderType: kind, OriginLocation: "Bodega Norte", DestinationLocation: "Club Campestre"}
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo y auth
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalogo_EsPublico(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.call(t, http.MethodGet, "/api/products?limit=10", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.ProductListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list.Items, 2)

	resp, _ = env.call(t, http.MethodGet, "/api/products/no-existe", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCatalogo_Disponibilidad(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.call(t, http.MethodGet, "/api/products/silla/availability?start=2026-06-10&end=2026-06-12", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var av dto.AvailabilityResponse
	require.NoError(t, json.Unmarshal(body, &av))
	assert.Equal(t, 10, av.Available)

	resp, _ = env.call(t, http.MethodGet, "/api/products/silla/availability?start=mañana&end=2026-06-12", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "fecha mal formada debe ser 400")
}

func TestCatalogo_EscrituraSoloAdmin(t *testing.T) {
	env := newTestEnv(t)
	in := dto.CreateProductRequest{ID: "mesa", Name: "Mesa Imperial", Category: entity.CategoryMobiliario, Stock: 5, PriceRent: decimal.NewFromInt(30000)}

	resp, _ := env.call(t, http.MethodPost, "/api/products", "", in)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.call(t, http.MethodPost, "/api/products", bearer(t, clienteEmail, entity.RoleUser), in)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := env.call(t, http.MethodPost, "/api/products", bearer(t, adminEmail, entity.RoleAdmin), in)
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
}

func TestAuth_LoginYCuentaSuspendida(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: clienteEmail, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, entity.RoleUser, out.User.Role)

	resp, _ = env.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: clienteEmail, Password: "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: suspEmail, Password: password})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "una cuenta on-hold no inicia sesión")

	resp, _ = env.call(t, http.MethodGet, "/api/cart", bearer(t, suspEmail, entity.RoleUser), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "un token previo a la suspensión tampoco sirve")
}

func TestAuth_RolVigenteSaleDeLaBase(t *testing.T) {
	env := newTestEnv(t)
	// El token dice admin pero la cuenta es cliente.
	resp, _ := env.call(t, http.MethodGet, "/api/users", bearer(t, clienteEmail, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pedidos
// ──────────────────────────────────────────────────────────────────────────────

func TestPedidos_CheckoutYConsulta(t *testing.T) {
	env := newTestEnv(t)
	cliente := bearer(t, clienteEmail, entity.RoleUser)
	env.fillCart(t, cliente, "silla", 4)

	resp, body := env.call(t, http.MethodPost, "/api/orders", cliente, checkout("rental"))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var o dto.OrderResponse
	require.NoError(t, json.Unmarshal(body, &o))
	assert.Equal(t, string(entity.StatusPendiente), o.Status)
	assert.Equal(t, 4, o.EventDays)
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(64080)), "4 sillas x 17800 con 10%% de descuento, obtuvo %s", o.TotalAmount)
	assert.NotContains(t, o.Workflow, string(entity.StageCoordToBodega), "el cliente no ve el retorno a bodega")

	resp, _ = env.call(t, http.MethodGet, "/api/orders/"+o.ID, bearer(t, cliente2Email, entity.RoleUser), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "otro cliente no ve el pedido")

	resp, body = env.call(t, http.MethodGet, "/api/orders", bearer(t, logEmail, entity.RoleLogistics), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.OrderListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list.Items, 1)

	resp, _ = env.call(t, http.MethodGet, "/api/orders/ABS-NOPE00", cliente, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = env.call(t, http.MethodGet, "/api/cart", cliente, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var c dto.CartResponse
	require.NoError(t, json.Unmarshal(body, &c))
	assert.Empty(t, c.Items, "el checkout vacía el carrito")
}

func TestPedidos_SinCapacidadResponde409ConFaltantes(t *testing.T) {
	env := newTestEnv(t)
	a := bearer(t, clienteEmail, entity.RoleUser)
	b := bearer(t, cliente2Email, entity.RoleUser)
	env.fillCart(t, a, "led", 2)
	env.fillCart(t, b, "led", 2)

	resp, body := env.call(t, http.MethodPost, "/api/orders", a, checkout("rental"))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = env.call(t, http.MethodPost, "/api/orders", b, checkout("rental"))
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var ce dto.CapacityErrorResponse
	require.NoError(t, json.Unmarshal(body, &ce))
	assert.Equal(t, "INSUFFICIENT_STOCK", ce.Code)
	require.Len(t, ce.Shortages, 1)
	assert.Equal(t, "led", ce.Shortages[0].ProductID)
	assert.Equal(t, 0, ce.Shortages[0].Available)
}

func TestPedidos_AprobacionSoloAdmin(t *testing.T) {
	env := newTestEnv(t)
	cliente := bearer(t, clienteEmail, entity.RoleUser)
	env.fillCart(t, cliente, "silla", 2)

	resp, body := env.call(t, http.MethodPost, "/api/orders", cliente, checkout("quote"))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var o dto.OrderResponse
	require.NoError(t, json.Unmarshal(body, &o))
	assert.Equal(t, string(entity.StatusCotizacion), o.Status)

	resp, _ = env.call(t, http.MethodPost, "/api/orders/"+o.ID+"/approve", cliente, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	admin := bearer(t, adminEmail, entity.RoleAdmin)
	resp, _ = env.call(t, http.MethodPost, "/api/orders/"+o.ID+"/approve", admin, dto.ApproveOrderRequest{CoordinatorEmail: logEmail})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.call(t, http.MethodPost, "/api/orders/"+o.ID+"/approve", admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "solo se aprueban cotizaciones")
}

func TestPedidos_FlujoYGuia(t *testing.T) {
	env := newTestEnv(t)
	cliente := bearer(t, clienteEmail, entity.RoleUser)
	env.fillCart(t, cliente, "silla", 2)
	resp, body := env.call(t, http.MethodPost, "/api/orders", cliente, checkout("rental"))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var o dto.OrderResponse
	require.NoError(t, json.Unmarshal(body, &o))

	logistica := bearer(t, logEmail, entity.RoleLogistics)
	path := "/api/orders/" + o.ID + "/workflow/bodega_check"

	resp, _ = env.call(t, http.MethodPatch, path, cliente, dto.UpdateStageRequest{Note: "hola"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "el cliente no edita el flujo")

	resp, _ = env.call(t, http.MethodPatch, path, logistica, dto.UpdateStageRequest{Complete: true})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "cerrar sin firma es conflicto")

	sig := &dto.SignatureDTO{Name: "Carlos", DataURL: "data:text/plain;base64,ZmlybWE=", Location: "Bodega"}
	resp, body = env.call(t, http.MethodPatch, path, logistica, dto.UpdateStageRequest{Signature: sig, Complete: true})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &o))
	assert.Equal(t, string(entity.StatusEnProceso), o.Status)
	assert.Contains(t, o.Workflow["bodega_check"].Signature.DataURL, "blob:sha256:", "la firma en línea se externaliza")

	resp, body = env.call(t, http.MethodGet, "/api/orders/"+o.ID+"/guide.pdf", cliente, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Uploads, sync y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestUploads_ArteYDescarga(t *testing.T) {
	env := newTestEnv(t)
	cliente := bearer(t, clienteEmail, entity.RoleUser)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "logo.pdf")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("%PDF-1.4 arte"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/artwork", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", cliente)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var up dto.UploadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&up))
	assert.Equal(t, "application/pdf", up.ContentType)

	resp, body := env.call(t, http.MethodGet, "/api/uploads/"+up.URL, cliente, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "%PDF-1.4 arte", string(body))

	resp, _ = env.call(t, http.MethodGet, "/api/uploads/no-es-hash", cliente, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSync_EstadoYMetricas(t *testing.T) {
	env := newTestEnv(t)
	cliente := bearer(t, clienteEmail, entity.RoleUser)
	env.fillCart(t, cliente, "silla", 1)
	resp, _ := env.call(t, http.MethodPost, "/api/orders", cliente, checkout("quote"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = env.call(t, http.MethodGet, "/api/sync/status", cliente, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := env.call(t, http.MethodGet, "/api/sync/status", bearer(t, logEmail, entity.RoleLogistics), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st dto.SyncStatusResponse
	require.NoError(t, json.Unmarshal(body, &st))
	assert.Equal(t, 1, st.Pending)
	assert.False(t, st.Running)

	resp, body = env.call(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `abs_orders_created_total{type="quote"} 1`)
	assert.Contains(t, string(body), "abs_sync_outbox_pending 1")

	resp, _ = env.call(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
