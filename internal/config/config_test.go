package config_test

import (
	"runtime"
	"testing"

	"github.com/okian/replay/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.CorpusDir, convey.ShouldEqual, "./corpus")
			convey.So(cfg.NearBallRadius, convey.ShouldEqual, 15)
			convey.So(cfg.DTWRadius, convey.ShouldEqual, 1)
			convey.So(cfg.MaxDistance, convey.ShouldEqual, 150)
			convey.So(cfg.TopN, convey.ShouldEqual, 10)
			convey.So(cfg.HybridCandidates, convey.ShouldEqual, 50)
			convey.So(cfg.HybridDTWWeight, convey.ShouldEqual, 0.6)
			convey.So(cfg.HybridLexicalWeight, convey.ShouldEqual, 0.4)
			convey.So(cfg.MinDocFreq, convey.ShouldEqual, 2)
			convey.So(cfg.MaxDocRatio, convey.ShouldEqual, 0.95)
			convey.So(cfg.ScanWorkers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.BuildOnStart, convey.ShouldBeTrue)
		})

		convey.Convey("Then optional sub-type features should default off", func() {
			convey.So(cfg.UsePassType, convey.ShouldBeFalse)
			convey.So(cfg.UseShotType, convey.ShouldBeFalse)
			convey.So(cfg.UsePressureType, convey.ShouldBeFalse)
		})

		convey.Convey("Then feature weights should carry the full component set", func() {
			convey.So(cfg.FeatureWeights["ball"], convey.ShouldEqual, 1.0)
			convey.So(cfg.FeatureWeights["type"], convey.ShouldEqual, 1.0)
			convey.So(cfg.FeatureWeights["formation"], convey.ShouldEqual, 1.0)
			convey.So(cfg.FeatureWeights["pass"], convey.ShouldEqual, 0.5)
			convey.So(cfg.FeatureWeights["shot"], convey.ShouldEqual, 0.5)
			convey.So(cfg.FeatureWeights["pressure"], convey.ShouldEqual, 0.3)
		})
	})
}
