package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/okian/wask/internal/adapters/http/api"
	service "github.com/okian/wask/internal/app"
	"github.com/okian/wask/internal/domain/model"
	"github.com/okian/wask/internal/domain/submission"
	"github.com/okian/wask/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} UTC$`)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// brokenDeps fails every storage call.
type brokenDeps struct{ err error }

func (b brokenDeps) Submit(context.Context, model.Submission) (model.Score, error) {
	return model.Score{}, b.err
}
func (b brokenDeps) Standings(context.Context) ([]model.Score, error) { return nil, b.err }
func (b brokenDeps) Ready(context.Context) error                      { return b.err }

// brokenBody fails every read, like a client that hangs up mid-upload.
type brokenBody struct{}

func (brokenBody) Read([]byte) (int, error) { return 0, errors.New("connection reset by peer") }

func newRouter(deps api.Dependencies, stats api.StatsProvider, opts ...api.ServerOption) http.Handler {
	r := api.NewRouter(logger.Get(), nil)
	api.NewServer(deps, stats, opts...).Register(context.Background(), r)
	return r
}

func startedService() *service.Service {
	svc := service.New()
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeScores(w *httptest.ResponseRecorder) []map[string]any {
	var out []map[string]any
	So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
	return out
}

func TestSubmitAndList(t *testing.T) {
	Convey("Given an API backed by an in-memory service", t, func() {
		svc := startedService()
		Reset(svc.Stop)
		h := newRouter(svc, svc)

		Convey("When a full result is submitted", func() {
			w := do(h, http.MethodPost, "/submit_result",
				`{"name":"Ann","email":"a@x.io","time_s":"12.5","outcome":"win"}`)

			Convey("Then the normalized fields are echoed back", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
				var resp map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["status"], ShouldEqual, "ok")
				So(resp["received"], ShouldResemble, map[string]any{
					"name": "Ann", "email": "a@x.io", "time_s": 12.5, "outcome": "win",
				})
			})

			Convey("And the leaderboard contains exactly that record", func() {
				scores := decodeScores(do(h, http.MethodGet, "/api/leaderboard", ""))
				So(scores, ShouldHaveLength, 1)
				So(scores[0]["name"], ShouldEqual, "Ann")
				So(scores[0]["email"], ShouldEqual, "a@x.io")
				So(scores[0]["time_s"], ShouldEqual, 12.5)
				So(scores[0]["outcome"], ShouldEqual, "win")
				So(timestampPattern.MatchString(scores[0]["timestamp"].(string)), ShouldBeTrue)
				So(scores[0], ShouldNotContainKey, "id")
			})
		})

		Convey("When an empty object is submitted", func() {
			w := do(h, http.MethodPost, "/submit_result", `{}`)

			Convey("Then every field takes its default", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["received"], ShouldResemble, map[string]any{
					"name": "Player", "email": "", "time_s": 0.0, "outcome": "unknown",
				})
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(h, http.MethodPost, "/submit_result", `not json`)

			Convey("Then it is treated as an empty object", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				scores := decodeScores(do(h, http.MethodGet, "/api/leaderboard", ""))
				So(scores, ShouldHaveLength, 1)
				So(scores[0]["name"], ShouldEqual, "Player")
			})
		})

		Convey("When the request body cannot be read", func() {
			req := httptest.NewRequest(http.MethodPost, "/submit_result", brokenBody{})
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then the request is refused and nothing is stored", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				var resp map[string]string
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["code"], ShouldEqual, "bad_request")
				So(decodeScores(do(h, http.MethodGet, "/api/leaderboard", "")), ShouldBeEmpty)
			})
		})

		Convey("When the body exceeds the size limit", func() {
			w := do(h, http.MethodPost, "/submit_result", `{"name":"`+strings.Repeat("a", 1<<20)+`"}`)

			Convey("Then it is treated as an empty object", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				scores := decodeScores(do(h, http.MethodGet, "/api/leaderboard", ""))
				So(scores, ShouldHaveLength, 1)
				So(scores[0]["name"], ShouldEqual, "Player")
			})
		})

		Convey("When a slow run is submitted before a fast one", func() {
			do(h, http.MethodPost, "/submit_result", `{"name":"Slow","time_s":20.0}`)
			do(h, http.MethodPost, "/submit_result", `{"name":"Fast","time_s":10.0}`)

			Convey("Then the fast run is listed first", func() {
				scores := decodeScores(do(h, http.MethodGet, "/api/leaderboard", ""))
				So(scores, ShouldHaveLength, 2)
				So(scores[0]["name"], ShouldEqual, "Fast")
				So(scores[0]["time_s"], ShouldEqual, 10.0)
				So(scores[1]["name"], ShouldEqual, "Slow")
			})
		})

		Convey("When the leaderboard is empty", func() {
			w := do(h, http.MethodGet, "/api/leaderboard", "")

			Convey("Then an empty array is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
			})
		})

		Convey("When the submit route is called with GET", func() {
			w := do(h, http.MethodGet, "/submit_result", "")

			Convey("Then the method is not allowed", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})
}

func TestStrictSubmit(t *testing.T) {
	Convey("Given an API in strict mode", t, func() {
		svc := startedService()
		Reset(svc.Stop)
		h := newRouter(svc, svc, api.WithNormalizer(submission.New(submission.WithStrict(true))))

		Convey("When time_s is malformed", func() {
			w := do(h, http.MethodPost, "/submit_result", `{"name":"Ann","time_s":"fast"}`)

			Convey("Then a validation error is returned and nothing is stored", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				var resp map[string]string
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["code"], ShouldEqual, "validation_error")
				So(decodeScores(do(h, http.MethodGet, "/api/leaderboard", "")), ShouldBeEmpty)
			})
		})

		Convey("When the payload is valid", func() {
			w := do(h, http.MethodPost, "/submit_result", `{"name":"Ann","time_s":3}`)

			Convey("Then it is accepted", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestStoreFailures(t *testing.T) {
	Convey("Given an API whose store is unreachable", t, func() {
		h := newRouter(brokenDeps{err: errors.New("connection refused")}, nil)

		Convey("Then /health still reports ok", func() {
			w := do(h, http.MethodGet, "/health", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(strings.TrimSpace(w.Body.String()), ShouldEqual, `{"ok":true}`)
		})

		Convey("Then /readyz reports unavailable", func() {
			w := do(h, http.MethodGet, "/readyz", "")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(w.Body.String(), ShouldContainSubstring, `"ok":false`)
			So(w.Body.String(), ShouldContainSubstring, `"error":"api.readyz: connection refused"`)
		})

		Convey("Then submitting fails with an internal error", func() {
			w := do(h, http.MethodPost, "/submit_result", `{"name":"Ann"}`)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			var resp map[string]string
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["code"], ShouldEqual, "internal_error")
			So(resp["message"], ShouldContainSubstring, "connection refused")
		})

		Convey("Then listing fails with an internal error", func() {
			w := do(h, http.MethodGet, "/api/leaderboard", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestOperationalRoutes(t *testing.T) {
	Convey("Given an API backed by an in-memory service", t, func() {
		svc := startedService()
		Reset(svc.Stop)
		h := newRouter(svc, svc)

		Convey("When /health is requested", func() {
			w := do(h, http.MethodGet, "/health", "")

			Convey("Then it answers ok", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, `{"ok":true}`)
			})
		})

		Convey("When /readyz is requested", func() {
			w := do(h, http.MethodGet, "/readyz", "")

			Convey("Then the store is reported ready", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When /stats is requested", func() {
			do(h, http.MethodPost, "/submit_result", `{"name":"Ann"}`)
			w := do(h, http.MethodGet, "/stats", "")

			Convey("Then the driver and record count are reported", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var stats map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
				So(stats["driver"], ShouldEqual, "memory")
				So(stats["totalRecords"], ShouldEqual, 1.0)
			})
		})

		Convey("When /metrics is scraped after traffic", func() {
			do(h, http.MethodGet, "/health", "")
			w := do(h, http.MethodGet, "/metrics", "")

			Convey("Then the service collectors are exposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "wask_leaderboard_http_requests_total")
			})
		})

		Convey("When a request arrives without an ID", func() {
			w := do(h, http.MethodGet, "/health", "")

			Convey("Then one is generated", func() {
				So(w.Header().Get("X-Request-ID"), ShouldNotBeEmpty)
			})
		})

		Convey("When a request carries an ID", func() {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set("X-Request-ID", "abc-123")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it is echoed back", func() {
				So(w.Header().Get("X-Request-ID"), ShouldEqual, "abc-123")
			})
		})

		Convey("When a browser sends a CORS preflight", func() {
			req := httptest.NewRequest(http.MethodOptions, "/submit_result", nil)
			req.Header.Set("Origin", "https://game.example")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then the origin is allowed", func() {
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
			})
		})
	})
}

func TestErrorHelpers(t *testing.T) {
	Convey("Given the API error helpers", t, func() {
		cause := errors.New("boom")

		Convey("Then WrapKind keeps both kind and cause", func() {
			err := api.WrapKind("op", api.ErrInternal, cause)
			So(errors.Is(err, api.ErrInternal), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "op: internal error: boom")
		})

		Convey("Then Wrap of nil is nil", func() {
			So(api.Wrap("op", nil), ShouldBeNil)
		})

		Convey("Then NewKind tags the operation", func() {
			err := api.NewKind("op", api.ErrBadRequest)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "op: bad request")
		})
	})
}
