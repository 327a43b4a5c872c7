package serving

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/jackwhelpton/fasthttp-routing/v2"
	"github.com/kcz17/normcdf/logging"
	"github.com/kcz17/normcdf/normal"
	"github.com/kcz17/normcdf/timing"
	"github.com/valyala/fasthttp"
)

// APIServer exposes scalar and batch CDF evaluation over HTTP.
type APIServer struct {
	Logger logging.Logger
	// Collector records the duration of each batch evaluation.
	Collector timing.Collector
	// Workers is passed to normal.ParallelCDFArray.
	Workers int
}

// number encodes infinities as the strings "+Inf" and "-Inf", which
// encoding/json cannot represent as numbers.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return json.Marshal(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return json.Marshal(f)
}

func (n *number) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("expected number or infinity; got %q", s)
		}
		*n = number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = number(f)
	return nil
}

type scalarResponse struct {
	X     number  `json:"x"`
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
	CDF   float64 `json:"cdf"`
}

type batchRequest struct {
	Mu    *float64  `json:"mu"`
	Sigma *float64  `json:"sigma"`
	Input []float64 `json:"input"`
}

type batchResponse struct {
	Mu     float64   `json:"mu"`
	Sigma  float64   `json:"sigma"`
	Output []float64 `json:"output"`
}

type timingsResponse struct {
	Count int     `json:"count"`
	P50   float64 `json:"p50"`
	P75   float64 `json:"p75"`
	P95   float64 `json:"p95"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *APIServer) Router() *routing.Router {
	router := routing.New()

	router.Get("/cdf", a.scalarCDFHandler())
	router.Post("/cdf/batch", a.batchCDFHandler())

	router.Get("/timings", a.timingsHandler())
	router.Delete("/timings", a.resetTimingsHandler())

	return router
}

func (a *APIServer) ListenAndServe(addr string) error {
	return fasthttp.ListenAndServe(addr, a.Router().HandleRequest)
}

func (a *APIServer) scalarCDFHandler() routing.Handler {
	return func(c *routing.Context) error {
		args := c.QueryArgs()
		if !args.Has("x") {
			return writeError(c, errors.New("expected query parameter x"))
		}
		x, err := parseFloatArg(args, "x", 0)
		if err != nil {
			return writeError(c, err)
		}
		mu, err := parseFloatArg(args, "mu", 0)
		if err != nil {
			return writeError(c, err)
		}
		sigma, err := parseFloatArg(args, "sigma", 1)
		if err != nil {
			return writeError(c, err)
		}

		cdf, err := normal.CDF(x, mu, sigma)
		if err != nil {
			return writeError(c, err)
		}
		return writeJSON(c, fasthttp.StatusOK, &scalarResponse{X: number(x), Mu: mu, Sigma: sigma, CDF: cdf})
	}
}

func (a *APIServer) batchCDFHandler() routing.Handler {
	return func(c *routing.Context) error {
		var req batchRequest
		if err := json.Unmarshal(c.PostBody(), &req); err != nil {
			return writeError(c, fmt.Errorf("could not decode batch request: %w", err))
		}
		if req.Mu == nil || req.Sigma == nil {
			return writeError(c, errors.New("expected batch request with mu and sigma"))
		}

		output := make([]float64, len(req.Input))
		startTime := time.Now()
		if err := normal.ParallelCDFArray(a.Workers, *req.Mu, *req.Sigma, req.Input, output); err != nil {
			return writeError(c, err)
		}
		elapsed := time.Now().Sub(startTime)
		a.Collector.Add(elapsed)
		a.Logger.LogEvaluation(*req.Mu, *req.Sigma, len(req.Input), elapsed)

		return writeJSON(c, fasthttp.StatusOK, &batchResponse{Mu: *req.Mu, Sigma: *req.Sigma, Output: output})
	}
}

func (a *APIServer) timingsHandler() routing.Handler {
	return func(c *routing.Context) error {
		aggregation := a.Collector.Aggregate()
		return writeJSON(c, fasthttp.StatusOK, &timingsResponse{
			Count: aggregation.Count,
			P50:   timing.Seconds(aggregation.P50),
			P75:   timing.Seconds(aggregation.P75),
			P95:   timing.Seconds(aggregation.P95),
		})
	}
}

func (a *APIServer) resetTimingsHandler() routing.Handler {
	return func(c *routing.Context) error {
		a.Collector.Reset()
		c.SetStatusCode(fasthttp.StatusNoContent)
		return nil
	}
}

func parseFloatArg(args *fasthttp.Args, key string, fallback float64) (float64, error) {
	if !args.Has(key) {
		return fallback, nil
	}
	// Out of range values parse to ±Inf (or 0 on underflow) alongside
	// ErrRange; infinities are valid positions for x.
	v, err := strconv.ParseFloat(string(args.Peek(key)), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("expected query parameter %s to be a number; got %q", key, args.Peek(key))
	}
	return v, nil
}

func writeError(c *routing.Context, err error) error {
	return writeJSON(c, fasthttp.StatusBadRequest, &errorResponse{Error: err.Error()})
}

func writeJSON(c *routing.Context, status int, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not marshal response: err = %w", err)
	}
	c.SetStatusCode(status)
	c.SetContentType("application/json")
	return c.Write(b)
}
