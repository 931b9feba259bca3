package products

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quoteroom/quoteroom/internal/platform/storage/storagetest"
)

func newTestRouter(f fixture) http.Handler {
	h := NewHandler(nil, f.svc)
	r := chi.NewRouter()
	r.Route("/api/products", h.MountRoutes)
	r.Route("/api/product-price-list", h.MountPriceListRoutes)
	return r
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerPutPriceThenPriceList(t *testing.T) {
	f := newFixture()
	h := newTestRouter(f)

	rec := do(h, http.MethodPost, "/api/products", `{"name":"Hue Go","price":"100"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Data Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created.Data.ID.String()

	rec = do(h, http.MethodPut, "/api/products/"+id, `{"price":150}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(h, http.MethodPost, "/api/product-price-list", `{"productId":"`+id+`","price":"120","note":"promo ended"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(h, http.MethodGet, "/api/product-price-list?productId="+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		OK   bool          `json:"ok"`
		Data []PriceChange `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Data, 2)
	assert.Equal(t, 120.0, list.Data[0].Price)
	assert.Equal(t, "promo ended", list.Data[0].Note)
	assert.Nil(t, list.Data[0].EffectiveTo)
	assert.Equal(t, 150.0, list.Data[1].Price)
	assert.NotNil(t, list.Data[1].EffectiveTo)
}

func TestHandlerPriceListRequiresValidProductID(t *testing.T) {
	h := newTestRouter(newFixture())

	rec := do(h, http.MethodGet, "/api/product-price-list", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodGet, "/api/product-price-list?productId=123", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerUpdateUnknownProduct(t *testing.T) {
	h := newTestRouter(newFixture())
	rec := do(h, http.MethodPut, "/api/products/6f1d8f0e-3b55-4a4c-8c55-5d2f3c9f0a11", `{"price":"1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":false`)
}

func TestHandlerMultipartUpdateUploadsImagesField(t *testing.T) {
	f := newFixture()
	h := newTestRouter(f)

	rec := do(h, http.MethodPost, "/api/products", `{"name":"Hue Go"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Data Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("description", "portable lamp"))
	for _, field := range []string{"images", "newImages"} {
		part, err := mw.CreateFormFile(field, "lamp.png")
		require.NoError(t, err)
		_, err = part.Write(storagetest.PNG)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/products/"+created.Data.ID.String(), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated struct {
		Data Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "portable lamp", updated.Data.Description)
	require.Len(t, updated.Data.Images, 2)
	assert.Equal(t, updated.Data.Images[0], updated.Data.MainImage)
	assert.Regexp(t, `^https://cdn\.test/brands/unbranded/hue-go/`, updated.Data.Images[0])
	assert.Len(t, f.store.Objects, 2)
}
