package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/munidigital/portal-denuncias/auth"
	"github.com/munidigital/portal-denuncias/auth/repofakes"
	"github.com/munidigital/portal-denuncias/denuncias"
	"github.com/munidigital/portal-denuncias/internal/config"
	"github.com/munidigital/portal-denuncias/internal/logging"
	"github.com/munidigital/portal-denuncias/ratelimit"
	"github.com/munidigital/portal-denuncias/server"
	"github.com/munidigital/portal-denuncias/usuarios"
	"github.com/munidigital/portal-denuncias/vehiculos"
)

type fixture struct {
	server    *server.Server
	provider  *repofakes.FakePrincipalProvider
	accounts  *repofakes.FakeAccountRepo
	denuncias *denuncias.InMemoryRepo
	vehiculos *vehiculos.InMemoryRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logging.New(io.Discard, true)

	provider := repofakes.NewFakePrincipalProvider(&auth.Principal{ID: "sub-1", Email: "ana@muni.cl"})
	accounts := repofakes.NewFakeAccountRepo()
	accounts.Put("sub-1", &auth.Account{UsuarioID: "u-1", Activo: true})

	store := ratelimit.NewMemoryStore()
	t.Cleanup(store.Stop)

	denunciasRepo := denuncias.NewInMemoryRepo()
	vehiculosRepo := vehiculos.NewInMemoryRepo()

	srv := server.New(
		config.Config{Env: config.EnvDevelopment},
		log,
		auth.NewGuard(provider, accounts, log),
		ratelimit.New(store, log),
		server.Repos{
			Denuncias: denunciasRepo,
			Vehiculos: vehiculosRepo,
			Usuarios:  usuarios.NewInMemoryRepo(),
		},
	)
	return &fixture{
		server:    srv,
		provider:  provider,
		accounts:  accounts,
		denuncias: denunciasRepo,
		vehiculos: vehiculosRepo,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-Forwarded-For", "10.0.0.1")
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func validDenuncia() map[string]any {
	return map[string]any{
		"titulo":       "Basural en la esquina",
		"descripcion":  "Acumulación de escombros en la vereda",
		"categoria_id": "c56a4180-65aa-42ec-a945-5fd21dec0538",
		"latitud":      -33.6,
		"longitud":     -70.7,
	}
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	f := newFixture(t)
	f.provider.Principal = nil

	rec := f.do(t, http.MethodGet, "/api/denuncias/", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "No autenticado", decode(t, rec)["error"])
}

func TestDisabledAccountRejected(t *testing.T) {
	f := newFixture(t)
	f.accounts.Put("sub-1", &auth.Account{UsuarioID: "u-1", Activo: false})

	rec := f.do(t, http.MethodPost, "/api/denuncias/", validDenuncia())
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Cuenta deshabilitada", decode(t, rec)["error"])
}

func TestUnregisteredPrincipalRejected(t *testing.T) {
	f := newFixture(t)
	f.provider.Principal = &auth.Principal{ID: "sub-desconocido", Email: "x@muni.cl"}

	rec := f.do(t, http.MethodGet, "/api/denuncias/", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Usuario no registrado en el portal", decode(t, rec)["error"])
}

func TestCreateDenuncia(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/denuncias/", validDenuncia())
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	require.NotEmpty(t, body["id"])
	require.Contains(t, body["folio"], "DEN-")
	require.Equal(t, "pendiente", body["estado"])
	require.InDelta(t, -33.6, body["latitud"].(float64), 0.0001)
}

func TestCreateDenunciaNormalizesTransposedCoordinates(t *testing.T) {
	f := newFixture(t)

	payload := validDenuncia()
	payload["latitud"] = -70.7
	payload["longitud"] = -33.6

	rec := f.do(t, http.MethodPost, "/api/denuncias/", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	require.InDelta(t, -33.6, body["latitud"].(float64), 0.0001)
	require.InDelta(t, -70.7, body["longitud"].(float64), 0.0001)
}

func TestCreateDenunciaValidationFailureListsEveryField(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/denuncias/", map[string]any{
		"titulo":  "",
		"latitud": -33.6,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode(t, rec)
	details := body["details"].(map[string]any)
	require.Contains(t, details, "titulo")
	require.Contains(t, details, "descripcion")
	require.Contains(t, details, "categoria_id")
	require.Contains(t, details, "longitud")
}

func TestUpdateDenunciaRequiresAMutableField(t *testing.T) {
	f := newFixture(t)

	created := decode(t, f.do(t, http.MethodPost, "/api/denuncias/", validDenuncia()))
	id := created["id"].(string)

	rec := f.do(t, http.MethodPut, "/api/denuncias/"+id, map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPut, "/api/denuncias/"+id, map[string]any{"estado": "en_proceso"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "en_proceso", decode(t, rec)["estado"])
}

func TestUpdateDenunciaRejectsUnknownEstado(t *testing.T) {
	f := newFixture(t)

	created := decode(t, f.do(t, http.MethodPost, "/api/denuncias/", validDenuncia()))
	id := created["id"].(string)

	rec := f.do(t, http.MethodPut, "/api/denuncias/"+id, map[string]any{"estado": "archivada"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDenunciaNotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/denuncias/c56a4180-65aa-42ec-a945-5fd21dec0538", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Denuncia no encontrada", decode(t, rec)["error"])
}

func TestListDenunciasDefaultsPagination(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		payload := validDenuncia()
		payload["titulo"] = fmt.Sprintf("Denuncia %d", i)
		require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/denuncias/", payload).Code)
	}

	rec := f.do(t, http.MethodGet, "/api/denuncias/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	require.Equal(t, float64(3), body["total"])
	require.Equal(t, float64(1), body["page"])
	require.Equal(t, float64(20), body["limit"])
}

func TestListRejectsOversizedLimit(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/denuncias/?limit=101", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDuplicatePlateConflict(t *testing.T) {
	f := newFixture(t)

	payload := map[string]any{"patente": "ghjk45", "marca": "Toyota", "modelo": "Hilux"}
	rec := f.do(t, http.MethodPost, "/api/vehiculos/", payload)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "GHJK45", decode(t, rec)["patente"])

	rec = f.do(t, http.MethodPost, "/api/vehiculos/", payload)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "Ya existe un vehículo con esa patente", decode(t, rec)["error"])
}

func TestDeleteRateLimited(t *testing.T) {
	f := newFixture(t)

	var rec *httptest.ResponseRecorder
	for i := 0; i <= ratelimit.Critical.MaxRequests; i++ {
		rec = f.do(t, http.MethodDelete, "/api/vehiculos/c56a4180-65aa-42ec-a945-5fd21dec0538", nil)
	}
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.NotEmpty(t, decode(t, rec)["retryAfter"])
}

func TestAllowedRequestCarriesWindowHeaders(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/denuncias/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "100", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "99", rec.Header().Get("X-RateLimit-Remaining"))
}

type panickingRepo struct {
	denuncias.Repo
}

func (panickingRepo) Get(context.Context, string) (*denuncias.Denuncia, error) {
	panic("falla simulada")
}

func TestPanicBecomesLoggedGeneric500(t *testing.T) {
	f := newFixture(t)
	log := logging.New(io.Discard, true)
	store := ratelimit.NewMemoryStore()
	t.Cleanup(store.Stop)

	srv := server.New(
		config.Config{Env: config.EnvDevelopment},
		log,
		auth.NewGuard(f.provider, f.accounts, log),
		ratelimit.New(store, log),
		server.Repos{
			Denuncias: panickingRepo{Repo: denuncias.NewInMemoryRepo()},
			Vehiculos: vehiculos.NewInMemoryRepo(),
			Usuarios:  usuarios.NewInMemoryRepo(),
		},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/denuncias/c56a4180-65aa-42ec-a945-5fd21dec0538", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Error interno del servidor", decode(t, rec)["error"])
}
