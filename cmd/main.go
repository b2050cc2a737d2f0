package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"path/filepath"
	"reflect"
	"syscall"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/go-tooling/pkg/metrics"
	spatialhttp "github.com/pointfold/spatial/http"
	"github.com/pointfold/spatial/index"
	"github.com/pointfold/spatial/pcio"
	spatialws "github.com/pointfold/spatial/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
)

var (
	// The server version number. Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "spatial_info",
		Help:        "Spatial server information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

// This will effectively disable obfuscation of the config struct. Without it, the keys would get obfuscated causing the cli package to generate garbled command-line options.
// https://github.com/burrowers/garble/issues/403
var _ = reflect.TypeOf(config{})

type config struct {
	Addr      string `cli:"" env:"SPATIAL_ADDR"      help:"Listening address for client connections."`
	AdminAddr string `cli:"" env:"SPATIAL_ADMIN_ADDR" help:"Admin listening address."`
	DataDir   string `cli:"" env:"SPATIAL_DATA_DIR"  help:"The directory holding the geometry files to index (xyz, csv, ply, stl, las, optionally gzipped)."`
	MaxDepth  int    `cli:"" env:"SPATIAL_MAX_DEPTH" help:"The maximum depth of the dataset indexes."`
	LogLevel  string `cli:"" env:"SPATIAL_LOG_LEVEL" help:"Log level (debug|info|warning|error)."`
	LogIndent bool   `cli:"" env:"SPATIAL_LOG_INDENT" help:"Indent logs."`
	Version   bool   `cli:"" env:"-"                 help:"Show version."`
	Help      bool   `cli:"" env:"-"                 help:"Show help."`
}

func main() {
	conf := config{
		Addr:      ":7500",
		AdminAddr: ":17500",
		DataDir:   "data",
		MaxDepth:  8,
		LogLevel:  logs.InfoLevel.String(),
	}

	// set the information gauge to 1, useful for SUM query
	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Starts the spatial query server.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	if conf.MaxDepth < 0 {
		logs.Fatal(errors.New("max depth must not be negative").
			WithTag("max_depth", conf.MaxDepth))
	}

	store := &index.Store{}
	if err := loadDatasets(store, conf.DataDir, conf.MaxDepth); err != nil {
		logs.Fatal(errors.New("loading datasets failed").Wrap(err))
	}

	api := spatialhttp.API{
		Store:   store,
		Version: version,
	}

	apiMux := spatialhttp.HandleWithCORS(api.Mux())

	var service http.ServeMux
	service.Handle("/datasets", apiMux)
	service.Handle("/datasets/", apiMux)
	service.Handle("/raycast", spatialws.Handler(store))
	service.Handle("/health", spatialhttp.HandleWithCORS(http.HandlerFunc(spatialhttp.HandleHealthCheck)))
	service.Handle("/version", spatialhttp.HandleWithCORS(spatialhttp.HandleVersion(version)))

	readinessCheck := func() bool {
		return store.Len() != 0
	}
	service.Handle("/ready", spatialhttp.HandleWithCORS(spatialhttp.HandleReadyCheck(readinessCheck)))

	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/health", spatialhttp.HandleHealthCheck)
	admin.HandleFunc("/debug/pprof/", pprof.Index)
	admin.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	admin.HandleFunc("/debug/pprof/profile", pprof.Profile)
	admin.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	admin.HandleFunc("/debug/pprof/trace", pprof.Trace)
	admin.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
	admin.Handle("/debug/pprof/heap", pprof.Handler("heap"))
	admin.Handle("/debug/pprof/threadcreate", pprof.Handler("threadcreate"))
	admin.Handle("/debug/pprof/block", pprof.Handler("block"))
	admin.HandleFunc("/ready", spatialhttp.HandleReadyCheck(readinessCheck))

	logs.WithTag("version", version).
		WithTag("log_level", conf.LogLevel).
		WithTag("data_dir", conf.DataDir).
		WithTag("datasets", store.Len()).
		Info("starting spatial server")

	spatialhttp.ListenAndServe(ctx,
		&http.Server{Addr: conf.Addr, Handler: metrics.HTTPHandler(&service,
			spatialhttp.MetricsPathFormatter)},
		&http.Server{Addr: conf.AdminAddr, Handler: &admin},
	)
}

func loadDatasets(store *index.Store, dir string, maxDepth int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logs.WithTag("data_dir", dir).
				Info("data directory does not exist, starting with no datasets")
			return nil
		}
		return errors.New("reading data directory failed").
			WithTag("data_dir", dir).
			Wrap(err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		contents, err := pcio.LoadPath(path)
		if err != nil {
			logs.WithTag("path", path).
				Warn(errors.New("loading geometry file failed").Wrap(err))
			continue
		}

		d, err := index.NewDataset(entry.Name(), path, contents.Points, contents.Triangles, maxDepth)
		if err != nil {
			logs.WithTag("path", path).
				Warn(errors.New("indexing geometry file failed").Wrap(err))
			continue
		}
		store.Add(d)

		logs.WithTag("dataset_id", d.ID).
			WithTag("name", d.Name).
			WithTag("points", d.Points.Len()).
			WithTag("triangles", len(d.Triangles)).
			Info("dataset indexed")
	}
	return nil
}
