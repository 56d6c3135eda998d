package config_test

import (
	"context"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/fieldside/crease/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.DatasetPath, convey.ShouldEqual, "data/balls.csv")
			convey.So(cfg.MinMatches, convey.ShouldEqual, 2)
			convey.So(cfg.FuzzyCutoff, convey.ShouldEqual, 0.6)
			convey.So(cfg.ResolutionCacheSize, convey.ShouldEqual, 4096)
			convey.So(cfg.MaxHistory, convey.ShouldEqual, 100)
			convey.So(cfg.LLMProvider, convey.ShouldEqual, "static")
			convey.So(cfg.LLMTimeoutSeconds, convey.ShouldEqual, 60)
		})
	})
}
