package swagger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v3"
)

type openAPIDoc struct {
	OpenAPI string                    `yaml:"openapi"`
	Info    map[string]any            `yaml:"info"`
	Paths   map[string]map[string]any `yaml:"paths"`
}

func TestSwaggerHandler(t *testing.T) {
	convey.Convey("Given a swagger handler", t, func() {
		ctx := context.Background()
		r := chi.NewRouter()

		convey.Convey("When registering the swagger handler", func() {
			Register(ctx, r)

			convey.Convey("Then it should handle /openapi.yaml route", func() {
				req := httptest.NewRequest("GET", "/openapi.yaml", http.NoBody)
				w := httptest.NewRecorder()
				r.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/yaml; charset=utf-8")
				convey.So(w.Body.Len(), convey.ShouldBeGreaterThan, 0)
			})

			convey.Convey("And it should handle /api-docs route", func() {
				req := httptest.NewRequest("GET", "/api-docs", http.NoBody)
				w := httptest.NewRecorder()
				r.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "text/html; charset=utf-8")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "redoc-container")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "/openapi.yaml")
			})
		})
	})
}

func TestOpenAPIDocument(t *testing.T) {
	convey.Convey("Given the embedded OpenAPI document", t, func() {
		var doc openAPIDoc
		err := yaml.Unmarshal(OpenAPI, &doc)

		convey.Convey("Then it parses as OpenAPI 3", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(doc.OpenAPI, convey.ShouldStartWith, "3.")
			convey.So(doc.Info["title"], convey.ShouldEqual, "WASK Leaderboard API")
		})

		convey.Convey("Then every served route is documented", func() {
			expected := map[string]string{
				"/":                "get",
				"/leaderboard":     "get",
				"/api/leaderboard": "get",
				"/submit_result":   "post",
				"/health":          "get",
				"/readyz":          "get",
				"/stats":           "get",
				"/metrics":         "get",
			}
			for path, method := range expected {
				ops, ok := doc.Paths[path]
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(ops, convey.ShouldContainKey, method)
			}
		})
	})
}

func TestSwaggerHandlerWithNilRouter(t *testing.T) {
	convey.Convey("Given a nil router", t, func() {
		ctx := context.Background()

		convey.Convey("When registering the swagger handler", func() {
			convey.Convey("Then it should panic", func() {
				convey.So(func() {
					Register(ctx, nil)
				}, convey.ShouldPanic)
			})
		})
	})
}
