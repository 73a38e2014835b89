package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/samandr77/microservices/bills/internal/api"
	"github.com/samandr77/microservices/bills/internal/entity"
	"github.com/samandr77/microservices/bills/internal/httpclients/s3"
	"github.com/samandr77/microservices/bills/internal/mocks"
	"github.com/samandr77/microservices/bills/internal/navigation"
	"github.com/samandr77/microservices/bills/internal/service"
	"github.com/samandr77/microservices/bills/internal/session"
	"github.com/samandr77/microservices/bills/pkg/config"
)

const (
	employeeToken = "employee-token"
	adminToken    = "admin-token"
	employeeEmail = "a@test.tld"
)

type testAPI struct {
	srv         *httptest.Server
	store       *mocks.MockStoreGateway
	sessions    *session.Store
	validations *atomic.Int32
	revoked     *atomic.Bool
	bucketURL   string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	return newTestAPIWithTTL(t, time.Minute)
}

func newTestAPIWithTTL(t *testing.T, sessionTTL time.Duration) *testAPI {
	t.Helper()

	validations := &atomic.Int32{}
	revoked := &atomic.Bool{}

	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		validations.Add(1)

		if revoked.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var req struct {
			AccessToken string `json:"accessToken"`
		}

		_ = json.NewDecoder(r.Body).Decode(&req)

		switch req.AccessToken {
		case employeeToken:
			_ = json.NewEncoder(w).Encode(entity.Session{Type: entity.UserTypeEmployee, Email: employeeEmail})
		case adminToken:
			_ = json.NewEncoder(w).Encode(entity.Session{Type: entity.UserTypeAdmin, Email: "admin@test.tld"})
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	t.Cleanup(authSrv.Close)

	bucket := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/receipts/1.png" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		_, _ = w.Write([]byte("\x89PNG\r\n\x1a\nreceipt"))
	}))
	t.Cleanup(bucket.Close)

	sessions, err := session.Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = sessions.Close() })

	store := mocks.NewMockStoreGateway(gomock.NewController(t))
	history := navigation.NewHistory(sessions)

	deps := service.Deps{
		Store:     store,
		Session:   sessions,
		Navigator: history,
	}

	h := api.NewHandler(service.NewBillList(deps), service.NewForms(deps), sessions, history, s3.NewClient(bucket.URL, 1<<20), 1<<20)
	mw := api.NewMiddleware(config.Config{Auth: config.Auth{ServiceURL: authSrv.URL, SessionTTL: sessionTTL}}, sessions)

	srv := httptest.NewServer(api.NewRouter(h, mw))
	t.Cleanup(srv.Close)

	return &testAPI{
		srv:         srv,
		store:       store,
		sessions:    sessions,
		validations: validations,
		revoked:     revoked,
		bucketURL:   bucket.URL + "/receipts",
	}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, a.srv.URL+path, body)
	require.NoError(t, err)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := a.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))

	return v
}

func multipartFile(t *testing.T, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)

	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return body, w.FormDataContentType()
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)

	resp := a.do(t, http.MethodGet, "/api/health", "", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandler_Bills_Gating(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)

	resp := a.do(t, http.MethodGet, "/api/bills", "", nil, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/bills", "unknown-token", nil, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/bills", adminToken, nil, "")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHandler_Bills(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)

	a.store.EXPECT().List(gomock.Any()).Return([]entity.Bill{
		{ID: "1", Email: employeeEmail, Date: "2003-03-03", Status: entity.BillStatusAccepted},
		{ID: "2", Email: employeeEmail, Date: "2004-04-04", Status: entity.BillStatusPending},
		{ID: "3", Email: "other@test.tld", Date: "2005-05-05", Status: entity.BillStatusPending},
	}, nil).Times(2)

	resp := a.do(t, http.MethodGet, "/api/bills", employeeToken, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	page := decode[api.BillsPageResponse](t, resp)
	require.Equal(t, "Mes notes de frais", page.Title)
	require.Equal(t, "icon-window", page.ActiveIcon)
	require.Equal(t, entity.RouteBills, page.Route.Route)
	require.Len(t, page.Bills, 2)
	require.Equal(t, "2", page.Bills[0].ID)
	require.Equal(t, "4 Avr. 04", page.Bills[0].Date)
	require.Equal(t, "En attente", page.Bills[0].Status)
	require.Equal(t, "Accepté", page.Bills[1].Status)

	resp = a.do(t, http.MethodGet, "/api/bills", employeeToken, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The session is validated once and then read from the session store.
	require.Equal(t, int32(1), a.validations.Load())
}

func TestHandler_Bills_RevokedToken(t *testing.T) {
	t.Parallel()

	a := newTestAPIWithTTL(t, 0)
	a.store.EXPECT().List(gomock.Any()).Return(nil, nil)

	resp := a.do(t, http.MethodGet, "/api/bills", employeeToken, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, err := a.sessions.Get(employeeToken)
	require.NoError(t, err)

	a.revoked.Store(true)

	resp = a.do(t, http.MethodGet, "/api/bills", employeeToken, nil, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, int32(2), a.validations.Load())

	_, err = a.sessions.Get(employeeToken)
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestHandler_Bills_StoreUnavailable(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	a.store.EXPECT().List(gomock.Any()).Return(nil, errors.New("connection refused"))

	resp := a.do(t, http.MethodGet, "/api/bills", employeeToken, nil, "")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestHandler_PreviewAndReceipt(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)

	a.store.EXPECT().List(gomock.Any()).Return([]entity.Bill{
		{ID: "1", Email: employeeEmail, Date: "2004-04-04", FileURL: a.bucketURL + "/1.png", FileName: "1.png"},
		{ID: "2", Email: employeeEmail, Date: "2004-04-04"},
	}, nil).AnyTimes()

	resp := a.do(t, http.MethodGet, "/api/bills/1/preview", employeeToken, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, entity.Preview{BillID: "1", FileURL: a.bucketURL + "/1.png", FileName: "1.png"},
		decode[entity.Preview](t, resp))

	resp = a.do(t, http.MethodGet, "/api/bills/2/preview", employeeToken, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, decode[entity.Preview](t, resp).Placeholder)

	resp = a.do(t, http.MethodGet, "/api/bills/9/preview", employeeToken, nil, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/bills/1/receipt", employeeToken, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	resp = a.do(t, http.MethodGet, "/api/bills/2/receipt", employeeToken, nil, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_NewBillFlow(t *testing.T) { //nolint:funlen
	t.Parallel()

	a := newTestAPI(t)

	resp := a.do(t, http.MethodPost, "/api/bills/new", employeeToken, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, api.RouteResponse{Route: entity.RouteNewBill, Path: "#employee/bill/new"},
		decode[api.RouteResponse](t, resp))

	resp = a.do(t, http.MethodGet, "/api/newbill", employeeToken, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	form := decode[api.FormResponse](t, resp)
	require.Equal(t, "drafting", form.State)
	require.Equal(t, 20, form.DefaultPct)
	require.Equal(t, entity.ExpenseTypes, form.ExpenseTypes)

	body, contentType := multipartFile(t, "receipt.exe", []byte("MZ"))
	resp = a.do(t, http.MethodPost, "/api/newbill/file", employeeToken, body, contentType)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Equal(t, "file", decode[api.ResponseError](t, resp).Field)

	resp = a.do(t, http.MethodPost, "/api/newbill", employeeToken,
		bytes.NewBufferString(`{"amount":"20","date":"2021-10-22"}`), "application/json")
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	a.store.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req entity.UploadRequest) (entity.UploadResult, error) {
			require.Equal(t, employeeEmail, req.Email)
			require.Equal(t, "receipt.png", req.File.Name)

			return entity.UploadResult{ID: "1", FileURL: "http://x/1.png", FileName: "receipt.png"}, nil
		})

	body, contentType = multipartFile(t, "receipt.png", []byte("png"))
	resp = a.do(t, http.MethodPost, "/api/newbill/file", employeeToken, body, contentType)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	form = decode[api.FormResponse](t, resp)
	require.Equal(t, "file_attached", form.State)
	require.Equal(t, entity.Draft{BillID: "1", FileURL: "http://x/1.png", FileName: "receipt.png"}, form.Draft)

	want := entity.Bill{
		ID:       "1",
		Email:    employeeEmail,
		Amount:   20,
		Date:     "2021-10-22",
		Pct:      20,
		FileURL:  "http://x/1.png",
		FileName: "receipt.png",
		Status:   entity.BillStatusPending,
	}

	a.store.EXPECT().Update(gomock.Any(), want).Return(want, nil)

	resp = a.do(t, http.MethodPost, "/api/newbill", employeeToken,
		bytes.NewBufferString(`{"amount":"20","date":"2021-10-22","pct":""}`), "application/json")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	submitted := decode[api.SubmitResponse](t, resp)
	require.Equal(t, want, submitted.Bill)
	require.Equal(t, api.RouteResponse{Route: entity.RouteBills, Path: "#employee/bills"}, submitted.Route)

	resp = a.do(t, http.MethodPost, "/api/newbill", employeeToken,
		bytes.NewBufferString(`{"amount":"20","date":"2021-10-22"}`), "application/json")
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// The submitted form is discarded; the next visit starts a blank one.
	resp = a.do(t, http.MethodGet, "/api/newbill", employeeToken, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	form = decode[api.FormResponse](t, resp)
	require.Equal(t, "drafting", form.State)
	require.Equal(t, entity.Draft{}, form.Draft)
}

func TestHandler_Submit_BadBody(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)

	resp := a.do(t, http.MethodPost, "/api/newbill", employeeToken, bytes.NewBufferString(`{`), "application/json")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.do(t, http.MethodPost, "/api/newbill/file", employeeToken, bytes.NewBufferString(`x`), "text/plain")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
