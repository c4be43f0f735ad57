package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with an unknown format", func() {
			err := Init(WithFormat("xml"))

			Convey("Then it returns an error", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "unknown log format")
			})
		})
	})
}

func TestLoggerJSONOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat("json"), WithWriter(&buf)), ShouldBeNil)
		So(SetLevelString("info"), ShouldBeNil)

		Convey("When logging an error with fields", func() {
			Get().Error(context.Background(), "append failed",
				String("driver", "sqlite"),
				Float64("time_s", 12.5),
				Error(errors.New("disk full")),
			)

			Convey("Then the line carries message, fields and source", func() {
				var line map[string]any
				So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)
				So(line["msg"], ShouldEqual, "append failed")
				So(line["driver"], ShouldEqual, "sqlite")
				So(line["time_s"], ShouldEqual, 12.5)
				So(line["error"], ShouldEqual, "disk full")
				So(line["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging below the configured level", func() {
			Get().Debug(context.Background(), "hidden")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When using a named logger", func() {
			Named("store").Info(context.Background(), "opened")

			Convey("Then the component is attached", func() {
				So(buf.String(), ShouldContainSubstring, `"component":"store"`)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		for _, lvl := range []string{"debug", "INFO", " warn ", "warning", "error", ""} {
			So(SetLevelString(lvl), ShouldBeNil)
		}

		Convey("Then an unknown level is rejected", func() {
			err := SetLevelString("verbose")
			So(err, ShouldNotBeNil)
			So(strings.Contains(err.Error(), "verbose"), ShouldBeTrue)
		})

		Reset(func() { _ = SetLevelString("info") })
	})
}
