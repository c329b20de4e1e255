package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jmehdipour/phone-engine/internal/action"
	"github.com/jmehdipour/phone-engine/internal/config"
	httpSrv "github.com/jmehdipour/phone-engine/internal/http"
	"github.com/jmehdipour/phone-engine/internal/metrics"
	"github.com/jmehdipour/phone-engine/internal/model"
	"github.com/jmehdipour/phone-engine/internal/phone"
	"github.com/jmehdipour/phone-engine/internal/repository"
	"github.com/jmehdipour/phone-engine/internal/service/contact"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiKey = "11111111111111111111111111111111"

type fakeClients struct{}

func (fakeClients) GetByAPIKey(_ context.Context, key string) (*model.APIClient, error) {
	if key != apiKey {
		return nil, nil
	}
	return &model.APIClient{ID: 42, Status: "active"}, nil
}

type fakeRecorder struct {
	got contact.Request
}

func (f *fakeRecorder) Record(ctx context.Context, req contact.Request) (model.ContactAction, action.Effect, error) {
	f.got = req
	in, ok := action.ParseIntent(req.Intent)
	if !ok {
		return model.ContactAction{}, action.Effect{}, contact.ErrInvalidIntent
	}
	d := action.NewDispatcher(phone.Default(), action.LinkPlatform{}, "")
	eff, err := d.Dispatch(ctx, req.Phone, in, req.Message)
	if err != nil {
		return model.ContactAction{}, eff, err
	}
	return model.ContactAction{ID: "01HZZZZZZZZZZZZZZZZZZZZZZZ", Intent: in.String()}, eff, nil
}

type fakeReports struct {
	clientID int64
	filter   repository.ActionFilter
}

func (f *fakeReports) ListByClient(_ context.Context, clientID int64, flt repository.ActionFilter) ([]model.ContactAction, error) {
	f.clientID, f.filter = clientID, flt
	return []model.ContactAction{{ID: "a", Phone: "+218926183185", Status: model.ActionDelivered}}, nil
}

func newServer(t *testing.T) (*httpSrv.Server, *fakeRecorder, *fakeReports) {
	t.Helper()
	rec := &fakeRecorder{}
	rep := &fakeReports{}
	s := httpSrv.New(config.Config{}, phone.Default(), httpSrv.Deps{
		Clients:  fakeClients{},
		Recorder: rec,
		Reports:  rep,
	})
	return s, rec, rep
}

func call(t *testing.T, s http.Handler, method, target, body string) (int, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("X-API-Key", apiKey)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func TestHealthz(t *testing.T) {
	s, _, _ := newServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestAuthRequired(t *testing.T) {
	s, _, _ := newServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/phone/format?phone=0926183185", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPhoneEndpoints(t *testing.T) {
	s, _, _ := newServer(t)

	t.Run("process valid", func(t *testing.T) {
		code, out := call(t, s, http.MethodPost, "/v1/phone/process", `{"phone":"+218 92 618 3185"}`)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, out["isValid"])
		assert.Equal(t, "+218926183185", out["fullNumber"])
		assert.Equal(t, "0926183185", out["displayNumber"])
		assert.Equal(t, "LY", out["region"])
		assert.NotEmpty(t, out["international"])
	})

	t.Run("process empty", func(t *testing.T) {
		code, out := call(t, s, http.MethodPost, "/v1/phone/process", `{"phone":""}`)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, false, out["isValid"])
		assert.Equal(t, "empty_input", out["kind"])
		assert.Equal(t, "يرجى إدخال رقم الهاتف", out["error"])
	})

	t.Run("format", func(t *testing.T) {
		_, out := call(t, s, http.MethodGet, "/v1/phone/format?phone=%2B201012345678", "")
		assert.Equal(t, "01012345678", out["display"])
	})

	t.Run("full", func(t *testing.T) {
		_, out := call(t, s, http.MethodGet, "/v1/phone/full?phone=0926183185", "")
		assert.Equal(t, "+218926183185", out["full"])
	})

	t.Run("home valid", func(t *testing.T) {
		_, out := call(t, s, http.MethodGet, "/v1/phone/home-valid?phone=0926183185", "")
		assert.Equal(t, true, out["valid"])
		_, out = call(t, s, http.MethodGet, "/v1/phone/home-valid?phone=%2B201012345678", "")
		assert.Equal(t, false, out["valid"])
	})

	t.Run("mask", func(t *testing.T) {
		_, out := call(t, s, http.MethodGet, "/v1/phone/mask?phone=0926183185", "")
		assert.Equal(t, "0926183xxx", out["masked"])
		_, out = call(t, s, http.MethodGet, "/v1/phone/mask?phone=%2B9613123456&scope=any", "")
		assert.Equal(t, "03123xxx", out["masked"])
		code, _ := call(t, s, http.MethodGet, "/v1/phone/mask?phone=1&scope=world", "")
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("carrier", func(t *testing.T) {
		_, out := call(t, s, http.MethodGet, "/v1/phone/carrier?phone=0926183185", "")
		assert.Equal(t, "ليبيانا", out["carrierName"])
		assert.Equal(t, "#8E2C88", out["brandColor"])
	})
}

func TestActionEndpoint(t *testing.T) {
	s, rec, _ := newServer(t)

	code, out := call(t, s, http.MethodPost, "/v1/phone/actions",
		`{"phone":"0926183185","intent":"whatsapp","message":"مرحبا","listing_ref":" car-1 "}`)
	require.Equal(t, http.StatusAccepted, code)
	assert.Equal(t, "whatsapp", out["intent"])
	assert.Equal(t, "https://wa.me/218926183185?text=%D9%85%D8%B1%D8%AD%D8%A8%D8%A7", out["uri"])
	assert.Equal(t, int64(42), rec.got.ClientID)
	assert.Equal(t, "car-1", rec.got.ListingRef)

	code, _ = call(t, s, http.MethodPost, "/v1/phone/actions", `{"phone":"0926183185","intent":"fax"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, s, http.MethodPost, "/v1/phone/actions", `{"phone":"","intent":"call"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestReportsEndpoint(t *testing.T) {
	s, _, rep := newServer(t)

	code, out := call(t, s, http.MethodGet,
		"/v1/reports/actions?limit=10&offset=5&status=delivered&intent=CALL&phone=092-618-3185", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), out["count"])
	assert.Equal(t, int64(42), rep.clientID)
	assert.Equal(t, repository.ActionFilter{
		Phone:  "+218926183185",
		Intent: "call",
		Status: model.ActionDelivered,
		Limit:  10,
		Offset: 5,
	}, rep.filter)

	_, _ = call(t, s, http.MethodGet, "/v1/reports/actions?limit=5000&status=bogus&phone=%2B44123", "")
	assert.Equal(t, 50, rep.filter.Limit)
	assert.Empty(t, rep.filter.Status)
	assert.Equal(t, "+44123", rep.filter.Phone)
}

func TestPhoneEndpointsCountOutcomes(t *testing.T) {
	s, _, _ := newServer(t)

	valid := metrics.PhoneProcessedTotal.WithLabelValues("valid", "+218")
	invalid := metrics.PhoneProcessedTotal.WithLabelValues("invalid_national_number", "+218")

	for _, target := range []string{
		"/v1/phone/format?phone=0926183185",
		"/v1/phone/full?phone=0926183185",
		"/v1/phone/home-valid?phone=0926183185",
		"/v1/phone/mask?phone=0926183185",
		"/v1/phone/carrier?phone=0926183185",
	} {
		t.Run(target, func(t *testing.T) {
			before := testutil.ToFloat64(valid)
			code, _ := call(t, s, http.MethodGet, target, "")
			require.Equal(t, http.StatusOK, code)
			assert.Equal(t, before+1, testutil.ToFloat64(valid))
		})
	}

	before := testutil.ToFloat64(invalid)
	_, out := call(t, s, http.MethodGet, "/v1/phone/format?phone=0999", "")
	assert.Equal(t, "0999", out["display"])
	assert.Equal(t, before+1, testutil.ToFloat64(invalid))
}
