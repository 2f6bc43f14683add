package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspectnet/internal/domain"
	"inspectnet/internal/service"
	"inspectnet/internal/store"
	"inspectnet/internal/validation"
)

func newTestServer(t *testing.T) (http.Handler, *service.SettingsService) {
	t.Helper()
	svc := service.NewSettingsService(store.New(store.NewMemoryBlobStore(nil)), service.NewEventBus())
	require.NoError(t, svc.Load(context.Background()))

	mux := http.NewServeMux()
	NewSettingsHandler(svc).Register(mux)
	return mux, svc
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func created(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp CreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func TestSettingsRoutes(t *testing.T) {
	h, svc := newTestServer(t)

	typeID := created(t, do(t, h, "POST", "/api/item-types", `{"inspected": true}`))
	rec := do(t, h, "PUT", "/api/item-types/"+typeID, `{"name": "Lock", "kind": "point"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	componentID := created(t, do(t, h, "POST", "/api/item-types/"+typeID+"/components", ""))
	rec = do(t, h, "PUT", "/api/components/"+componentID, `{"name": "Gate", "weightPercent": 100}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	collectionID := created(t, do(t, h, "POST", "/api/collections", ""))
	rec = do(t, h, "PUT", "/api/collections/"+collectionID, `{"name": "Canal"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	itemID := created(t, do(t, h, "POST", "/api/collections/"+collectionID+"/items", ""))
	rec = do(t, h, "PUT", "/api/items/"+itemID, `{"name": "A", "station": 12.5}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, "GET", "/api/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var settings domain.Settings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	assert.Equal(t, svc.Settings(), settings)
	require.Len(t, settings.Collections, 1)
	item := settings.Collections[0].Items[0]
	assert.Equal(t, typeID, item.TypeID)
	require.NotNil(t, item.Station)
	assert.Equal(t, 12.5, *item.Station)

	rec = do(t, h, "GET", "/api/validation", "")
	var report validation.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.Valid(), report.Diagnostics)

	rec = do(t, h, "GET", "/api/database", "")
	var db domain.Database
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &db))
	assert.Equal(t, []string{componentID}, db.ComponentIDsByItemType[typeID])

	assert.Equal(t, http.StatusNoContent, do(t, h, "DELETE", "/api/items/"+itemID, "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, "DELETE", "/api/components/"+componentID, "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, "DELETE", "/api/collections/"+collectionID, "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, "DELETE", "/api/item-types/"+typeID, "").Code)
	assert.Equal(t, domain.DefaultSettings(), svc.Settings())
}

func TestInvalidSettingsStillSave(t *testing.T) {
	h, svc := newTestServer(t)

	body := `{
		"inspectedItemTypes": [{"id": "t", "name": "", "kind": "point", "components": []}],
		"nonInspectedItemTypes": [],
		"collections": []
	}`
	rec := do(t, h, "PUT", "/api/settings", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var report validation.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, []string{"Inspected item types must have a name."}, report.Diagnostics)
	assert.Len(t, svc.Settings().InspectedItemTypes, 1)
}

func TestErrorMapping(t *testing.T) {
	h, _ := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"unknown item type", "PUT", "/api/item-types/missing", `{}`, http.StatusNotFound},
		{"unknown component", "DELETE", "/api/components/missing", "", http.StatusNotFound},
		{"unknown collection", "POST", "/api/collections/missing/items", "", http.StatusNotFound},
		{"unknown item", "PUT", "/api/items/missing", `{"name": "x"}`, http.StatusNotFound},
		{"malformed body", "PUT", "/api/items/missing", `{`, http.StatusBadRequest},
		{"invalid kind", "PUT", "/api/item-types/missing", `{"kind": "area"}`, http.StatusBadRequest},
		{"unknown import format", "POST", "/api/import/xml", `<x/>`, http.StatusBadRequest},
		{"unknown export format", "GET", "/api/export/xml", "", http.StatusBadRequest},
		{"bad import document", "POST", "/api/import/json", `[1,2]`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestReplaceSettingsDefaults(t *testing.T) {
	h, svc := newTestServer(t)

	body := `{
		"inspectedItemTypes": [{"id": "t", "name": "Lock", "kind": "area", "components": [
			{"id": "c", "name": "Gate", "weightPercent": 100},
			{"id": "d", "name": "Wall", "ratingScale": {"max": 5}, "weightPercent": 0}
		]}],
		"nonInspectedItemTypes": [{"id": "m", "name": "Marker", "kind": ""}]
	}`
	rec := do(t, h, "PUT", "/api/settings", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	settings := svc.Settings()
	require.Len(t, settings.InspectedItemTypes, 1)
	itemType := settings.InspectedItemTypes[0]
	assert.Equal(t, domain.ItemKindPoint, itemType.Kind)
	assert.Equal(t, domain.RatingScale{Min: 0, Max: 10}, itemType.Components[0].RatingScale)
	assert.Equal(t, domain.RatingScale{Min: 0, Max: 5}, itemType.Components[1].RatingScale)
	assert.Equal(t, domain.ItemKindPoint, settings.NonInspectedItemTypes[0].Kind)
	assert.NotNil(t, settings.Collections)
}

// failingBlobStore accepts the initial load and rejects saves once armed
type failingBlobStore struct {
	*store.MemoryBlobStore
	fail bool
}

func (f *failingBlobStore) Save(ctx context.Context, data []byte) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.MemoryBlobStore.Save(ctx, data)
}

func TestImportSaveFailure(t *testing.T) {
	blobs := &failingBlobStore{MemoryBlobStore: store.NewMemoryBlobStore(nil)}
	svc := service.NewSettingsService(store.New(blobs), service.NewEventBus())
	require.NoError(t, svc.Load(context.Background()))
	mux := http.NewServeMux()
	NewSettingsHandler(svc).Register(mux)

	blobs.fail = true
	rec := do(t, mux, "POST", "/api/import/json", `{"collections": []}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code, rec.Body.String())

	rec = do(t, mux, "POST", "/api/import/json", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestItemTypeLimitConflict(t *testing.T) {
	h, _ := newTestServer(t)

	for i := 0; i < domain.MaxItemTypes; i++ {
		created(t, do(t, h, "POST", "/api/item-types", `{"inspected": false}`))
	}

	rec := do(t, h, "POST", "/api/item-types", `{"inspected": false}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestImportExport(t *testing.T) {
	h, svc := newTestServer(t)

	doc := "nonInspectedItemTypes:\n  - id: m\n    name: Marker\n    kind: point\n"
	rec := do(t, h, "POST", "/api/import/yaml", doc)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Marker", svc.Settings().NonInspectedItemTypes[0].Name)

	rec = do(t, h, "GET", "/api/export/yaml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "name: Marker")

	rec = do(t, h, "GET", "/api/export/json", "")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"name": "Marker"`)
}

func TestMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	h := Chain(panicking, Recover, CORS, Logger)

	t.Run("recovers from panics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("answers preflight", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("OPTIONS", "/api/settings", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("chain order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}
		final := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") })

		Chain(final, mark("a"), mark("b")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, []string{"a", "b", "handler"}, order)
	})
}
