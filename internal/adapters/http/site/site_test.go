package site_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/okian/wask/internal/adapters/http/site"
	"github.com/okian/wask/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeRanked struct {
	rows []model.RankedScore
	err  error
}

func (f fakeRanked) Ranked(context.Context) ([]model.RankedScore, error) { return f.rows, f.err }

func rows(scores ...model.Score) []model.RankedScore {
	return model.Rank(scores)
}

func TestRenderLeaderboard(t *testing.T) {
	Convey("Given no runs", t, func() {
		page, err := site.RenderLeaderboard(nil)

		Convey("Then the empty-state row and a zero count are shown", func() {
			So(err, ShouldBeNil)
			So(page, ShouldContainSubstring, "No runs yet — be the first!")
			So(page, ShouldContainSubstring, "0 runs")
		})
	})

	Convey("Given four ranked runs", t, func() {
		page, err := site.RenderLeaderboard(rows(
			model.Score{Name: "Fast", TimeS: 10, Outcome: "win"},
			model.Score{Name: "Mid", TimeS: 12.346, Outcome: "win"},
			model.Score{Name: "Slow", TimeS: 20, Outcome: "lose"},
			model.Score{Name: "Last", TimeS: 31.5, Outcome: "unknown"},
		))
		So(err, ShouldBeNil)

		Convey("Then the podium rows carry medal classes in order", func() {
			gold := strings.Index(page, `class="gold"`)
			silver := strings.Index(page, `class="silver"`)
			bronze := strings.Index(page, `class="bronze"`)
			So(gold, ShouldBeGreaterThan, 0)
			So(silver, ShouldBeGreaterThan, gold)
			So(bronze, ShouldBeGreaterThan, silver)
			So(strings.Count(page, `class="bronze"`), ShouldEqual, 1)
		})

		Convey("Then times use two decimals", func() {
			So(page, ShouldContainSubstring, ">10.00<")
			So(page, ShouldContainSubstring, ">12.35<")
			So(page, ShouldContainSubstring, ">31.50<")
		})

		Convey("Then ranks and the run count are shown", func() {
			So(page, ShouldContainSubstring, "#1")
			So(page, ShouldContainSubstring, "#4")
			So(page, ShouldContainSubstring, "4 runs")
			So(page, ShouldNotContainSubstring, "No runs yet")
		})
	})

	Convey("Given a player name containing markup", t, func() {
		page, err := site.RenderLeaderboard(rows(model.Score{Name: "<script>x</script>", Outcome: "win"}))

		Convey("Then it is escaped", func() {
			So(err, ShouldBeNil)
			So(page, ShouldNotContainSubstring, "<script>x</script>")
			So(page, ShouldContainSubstring, "&lt;script&gt;")
		})
	})
}

func TestSiteRoutes(t *testing.T) {
	Convey("Given the site routes on a router", t, func() {
		ctx := context.Background()
		r := chi.NewRouter()
		deps := fakeRanked{rows: rows(model.Score{Name: "Ann", TimeS: 12.5, Outcome: "win"})}
		site.Register(ctx, r, deps, nil)

		Convey("When / is requested", func() {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			Convey("Then it redirects to the leaderboard", func() {
				So(w.Code, ShouldEqual, http.StatusFound)
				So(w.Header().Get("Location"), ShouldEqual, "/leaderboard")
			})
		})

		Convey("When /leaderboard is requested", func() {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaderboard", nil))

			Convey("Then the page lists the run", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "text/html")
				So(w.Body.String(), ShouldContainSubstring, "Ann")
				So(w.Body.String(), ShouldContainSubstring, "12.50")
			})
		})
	})

	Convey("Given a store that fails", t, func() {
		r := chi.NewRouter()
		site.Register(context.Background(), r, fakeRanked{err: errors.New("disk gone")}, nil)

		Convey("When /leaderboard is requested", func() {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaderboard", nil))

			Convey("Then a plain 500 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldNotContainSubstring, "disk gone")
			})
		})
	})

	Convey("Given a nil router", t, func() {
		Convey("Then registering panics", func() {
			So(func() { site.Register(context.Background(), nil, fakeRanked{}, nil) }, ShouldPanic)
		})
	})
}
