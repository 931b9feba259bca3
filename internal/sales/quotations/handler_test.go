package quotations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrinter struct{ name string }

func (p *fakePrinter) Execute(w io.Writer, name string, data any) error {
	p.name = name
	props := data.(*RenderProps)
	_, err := fmt.Fprintf(w, "<h1>%s</h1>", props.QuotationNumber)
	return err
}

type fakeConverter struct {
	html []byte
	err  error
}

func (c *fakeConverter) RenderHTML(_ context.Context, html []byte) ([]byte, error) {
	c.html = html
	if c.err != nil {
		return nil, c.err
	}
	return []byte("%PDF-1.7"), nil
}

func newTestRouter(printer Printer, pdf PDFConverter) chi.Router {
	svc, _ := newTestService(RenderSources{})
	r := chi.NewRouter()
	NewHandler(nil, svc, printer, pdf).MountRoutes(r)
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

const scenarioJSON = `{
	"client": {"name": "Asha Rao"},
	"areas": [{"areaRoomTypeName": "Kitchen", "items": [
		{"productName": "Hinge", "quantity": 2, "unitPrice": 10, "total": 999},
		{"productName": "Handle", "quantity": 3, "unitPrice": 5}
	]}],
	"subtotal": 1, "total": 1
}`

func TestHandlerCreateIgnoresClientTotals(t *testing.T) {
	r := newTestRouter(nil, nil)

	rec := do(r, http.MethodPost, "/", scenarioJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var q Quotation
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &q))
	assert.Equal(t, 20.0, q.Areas[0].Items[0].Total)
	assert.Equal(t, 35.0, q.Subtotal)
	assert.Equal(t, 41.3, q.Total)

	rec = do(r, http.MethodGet, "/"+q.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var again Quotation
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &again))
	assert.Equal(t, q.Areas, again.Areas)
	assert.Equal(t, q.Total, again.Total)
}

func TestHandlerCreateValidation(t *testing.T) {
	r := newTestRouter(nil, nil)

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"zero quantity", `{"areas":[{"items":[{"quantity":0,"unitPrice":1}]}]}`, "quantity must be >= 1"},
		{"negative price", `{"items":[{"quantity":1,"unitPrice":-1}]}`, "unitPrice must be >= 0"},
		{"negative discount", `{"discount":-5}`, "discount must be >= 0"},
		{"non numeric quantity", `{"items":[{"quantity":"two","unitPrice":1}]}`, "quantity"},
		{"unknown status", `{"status":"Paid"}`, "status must be one of"},
		{"malformed", `{"areas":`, "malformed JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(r, http.MethodPost, "/", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			env := decode(t, rec)
			assert.False(t, env.OK)
			assert.Contains(t, env.Error, tt.msg)
		})
	}
}

func TestHandlerRenderAndPDF(t *testing.T) {
	printer := &fakePrinter{}
	converter := &fakeConverter{}
	r := newTestRouter(printer, converter)

	rec := do(r, http.MethodPost, "/", scenarioJSON)
	require.Equal(t, http.StatusCreated, rec.Code)
	var q Quotation
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &q))

	rec = do(r, http.MethodGet, "/"+q.ID.String()+"/render?templateId=not-a-uuid", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var props RenderProps
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &props))
	assert.Len(t, props.Items, 2)
	assert.Empty(t, props.TemplateName)

	rec = do(r, http.MethodGet, "/"+q.ID.String()+"/pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "QT-202503-0001.pdf")
	assert.Equal(t, "%PDF-1.7", rec.Body.String())
	assert.Equal(t, PrintTemplate, printer.name)
	assert.Equal(t, "<h1>QT-202503-0001</h1>", string(converter.html))

	converter.err = errors.New("gotenberg unavailable")
	rec = do(r, http.MethodGet, "/"+q.ID.String()+"/pdf", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandlerPDFNotConfigured(t *testing.T) {
	r := newTestRouter(nil, nil)
	rec := do(r, http.MethodGet, "/00000000-0000-0000-0000-000000000001/pdf", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlerNotFound(t *testing.T) {
	r := newTestRouter(nil, nil)
	rec := do(r, http.MethodGet, "/00000000-0000-0000-0000-000000000001/render", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(r, http.MethodPut, "/00000000-0000-0000-0000-000000000001", `{"notes":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
