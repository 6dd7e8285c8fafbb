package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/unirank/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New(ctx))
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("UNIRANK_ADDR", ":8080")
			_ = os.Setenv("UNIRANK_DATA_PATH", "/srv/times.csv")
			_ = os.Setenv("UNIRANK_TOP_N", "25")
			_ = os.Setenv("UNIRANK_RANK_FALLBACK", "250")
			_ = os.Setenv("UNIRANK_ALLOWED_ORIGINS", "http://a.example,http://b.example")
			_ = os.Setenv("UNIRANK_SHUTDOWN_TIMEOUT", "3s")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataPath, convey.ShouldEqual, "/srv/times.csv")
				convey.So(cfg.TopN, convey.ShouldEqual, 25)
				convey.So(cfg.RankFallback, convey.ShouldEqual, 250)
				convey.So(cfg.AllowedOrigins, convey.ShouldResemble, []string{"http://a.example", "http://b.example"})
				convey.So(cfg.ShutdownTimeout, convey.ShouldEqual, 3*time.Second)
				convey.So(cfg.MapWidth, convey.ShouldEqual, 600)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# map sizing for the wide layout
addr: ":9090"
log_level: debug
boundaries_path: data/world.geojson
map_width: 960
map_height: 500
map_scale: 150
country_aliases:
  - name: Czechia
    canonical: Czech Republic
  - name: Hong Kong
    canonical: China
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("UNIRANK_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.BoundariesPath, convey.ShouldEqual, "data/world.geojson")
				convey.So(cfg.MapWidth, convey.ShouldEqual, 960)
				convey.So(cfg.MapHeight, convey.ShouldEqual, 500)
				convey.So(cfg.MapScale, convey.ShouldEqual, 150)
				convey.So(cfg.AliasMap(), convey.ShouldResemble, map[string]string{
					"Czechia":   "Czech Republic",
					"Hong Kong": "China",
				})
			})
		})

		convey.Convey("When env vars and YAML file disagree", func() {
			tmpFile := createTempConfigFile(t, "addr: \":9090\"\ntop_n: 5\n")
			_ = os.Setenv("UNIRANK_CONFIG", tmpFile)
			_ = os.Setenv("UNIRANK_ADDR", ":7070")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.TopN, convey.ShouldEqual, 5)
			})
		})
	})
}

func TestConfigLoaderErrors(t *testing.T) {
	convey.Convey("Given config loader failures", t, func() {
		ctx := context.Background()

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("UNIRANK_CONFIG", "/nonexistent/unirank.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should fail to load", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a value has the wrong type", func() {
			_ = os.Setenv("UNIRANK_TOP_N", "lots")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should fail to decode", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the YAML file empties the address", func() {
			tmpFile := createTempConfigFile(t, "addr: \"\"\n")
			_ = os.Setenv("UNIRANK_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return validation error for empty addr", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When top_n is not positive", func() {
			_ = os.Setenv("UNIRANK_TOP_N", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When rank_fallback is negative", func() {
			_ = os.Setenv("UNIRANK_RANK_FALLBACK", "-1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation rejects it instead of ignoring it later", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "rank_fallback")
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"UNIRANK_CONFIG",
		"UNIRANK_ADDR",
		"UNIRANK_DATA_PATH",
		"UNIRANK_TOP_N",
		"UNIRANK_RANK_FALLBACK",
		"UNIRANK_ALLOWED_ORIGINS",
		"UNIRANK_SHUTDOWN_TIMEOUT",
		"UNIRANK_DEPLOYMENT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "unirank-config-*.yaml")
	if err != nil {
		t.Fatalf("create config file: %v", err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatalf("close config file: %v", err)
	}
	return tmpFile.Name()
}
