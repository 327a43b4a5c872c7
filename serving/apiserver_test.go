package serving

import (
	"encoding/json"
	"math"
	"net"
	"testing"

	"github.com/kcz17/normcdf/logging"
	"github.com/kcz17/normcdf/normal"
	"github.com/kcz17/normcdf/timing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

// newTestClient serves a fresh APIServer over an in-memory listener.
func newTestClient(t *testing.T) (*fasthttp.Client, *APIServer) {
	t.Helper()
	api := &APIServer{
		Logger:    logging.NewNoopLogger(),
		Collector: timing.NewTachymeterCollector(100),
		Workers:   2,
	}
	ln := fasthttputil.NewInmemoryListener()
	go func() {
		_ = fasthttp.Serve(ln, api.Router().HandleRequest)
	}()
	t.Cleanup(func() { _ = ln.Close() })

	client := &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) {
			return ln.Dial()
		},
	}
	return client, api
}

func do(t *testing.T, client *fasthttp.Client, method, uri string, body []byte) (int, []byte) {
	t.Helper()
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI("http://normcdf" + uri)
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}
	require.NoError(t, client.Do(req, resp))
	return resp.StatusCode(), append([]byte(nil), resp.Body()...)
}

func TestScalarCDFHandler(t *testing.T) {
	client, _ := newTestClient(t)

	tests := []struct {
		name       string
		uri        string
		wantStatus int
		wantCDF    float64
	}{
		{name: "Standard normal at mean", uri: "/cdf?x=0", wantStatus: fasthttp.StatusOK, wantCDF: 0.5},
		{name: "Explicit parameters", uri: "/cdf?x=3&mu=3&sigma=2", wantStatus: fasthttp.StatusOK, wantCDF: 0.5},
		{name: "Upper tail saturates", uri: "/cdf?x=100&mu=0&sigma=1", wantStatus: fasthttp.StatusOK, wantCDF: 1},
		{name: "Positive infinity", uri: "/cdf?x=Inf", wantStatus: fasthttp.StatusOK, wantCDF: 1},
		{name: "Negative infinity", uri: "/cdf?x=-Inf&mu=2", wantStatus: fasthttp.StatusOK, wantCDF: 0},
		{name: "Overflowing x", uri: "/cdf?x=1e400", wantStatus: fasthttp.StatusOK, wantCDF: 1},
		{name: "Overflowing negative x", uri: "/cdf?x=-1e400", wantStatus: fasthttp.StatusOK, wantCDF: 0},
		{name: "Infinite sigma", uri: "/cdf?x=1&sigma=Inf", wantStatus: fasthttp.StatusBadRequest},
		{name: "Missing x", uri: "/cdf?mu=0", wantStatus: fasthttp.StatusBadRequest},
		{name: "Malformed x", uri: "/cdf?x=abc", wantStatus: fasthttp.StatusBadRequest},
		{name: "Zero sigma", uri: "/cdf?x=1&sigma=0", wantStatus: fasthttp.StatusBadRequest},
		{name: "NaN x", uri: "/cdf?x=NaN", wantStatus: fasthttp.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, client, fasthttp.MethodGet, tt.uri, nil)
			require.Equal(t, tt.wantStatus, status, string(body))
			if status != fasthttp.StatusOK {
				var resp errorResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.NotEmpty(t, resp.Error)
				return
			}
			var resp scalarResponse
			require.NoError(t, json.Unmarshal(body, &resp))
			assert.InDelta(t, tt.wantCDF, resp.CDF, 1e-12)
		})
	}
}

func TestScalarCDFHandler_EncodesInfiniteX(t *testing.T) {
	client, _ := newTestClient(t)

	status, body := do(t, client, fasthttp.MethodGet, "/cdf?x=Inf", nil)
	require.Equal(t, fasthttp.StatusOK, status, string(body))
	assert.JSONEq(t, `{"x":"+Inf","mu":0,"sigma":1,"cdf":1}`, string(body))

	status, body = do(t, client, fasthttp.MethodGet, "/cdf?x=-1e400&mu=1&sigma=2", nil)
	require.Equal(t, fasthttp.StatusOK, status, string(body))
	assert.JSONEq(t, `{"x":"-Inf","mu":1,"sigma":2,"cdf":0}`, string(body))

	var resp scalarResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.True(t, math.IsInf(float64(resp.X), -1))
}

func TestBatchCDFHandler(t *testing.T) {
	client, api := newTestClient(t)

	input := []float64{-1.959964, 0, 1.959964, 4}
	status, body := do(t, client, fasthttp.MethodPost, "/cdf/batch", []byte(`{"mu":0,"sigma":1,"input":[-1.959964,0,1.959964,4]}`))
	require.Equal(t, fasthttp.StatusOK, status, string(body))

	var resp batchResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Len(t, resp.Output, len(input))
	for i, x := range input {
		want, err := normal.CDF(x, 0, 1)
		require.NoError(t, err)
		assert.Equal(t, want, resp.Output[i])
	}
	assert.Equal(t, 1, api.Collector.Len())
}

func TestBatchCDFHandler_Errors(t *testing.T) {
	client, api := newTestClient(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "Malformed JSON", body: `{"mu":`},
		{name: "Missing sigma", body: `{"mu":0,"input":[1]}`},
		{name: "Negative sigma", body: `{"mu":0,"sigma":-1,"input":[1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := do(t, client, fasthttp.MethodPost, "/cdf/batch", []byte(tt.body))
			assert.Equal(t, fasthttp.StatusBadRequest, status)
		})
	}
	assert.Equal(t, 0, api.Collector.Len())
}

func TestTimingsHandlers(t *testing.T) {
	client, _ := newTestClient(t)

	for i := 0; i < 3; i++ {
		status, _ := do(t, client, fasthttp.MethodPost, "/cdf/batch", []byte(`{"mu":1,"sigma":2,"input":[0,1,2]}`))
		require.Equal(t, fasthttp.StatusOK, status)
	}

	status, body := do(t, client, fasthttp.MethodGet, "/timings", nil)
	require.Equal(t, fasthttp.StatusOK, status)
	var resp timingsResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, 3, resp.Count)
	assert.GreaterOrEqual(t, resp.P95, resp.P50)

	status, _ = do(t, client, fasthttp.MethodDelete, "/timings", nil)
	require.Equal(t, fasthttp.StatusNoContent, status)

	_, body = do(t, client, fasthttp.MethodGet, "/timings", nil)
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, 0, resp.Count)
}
