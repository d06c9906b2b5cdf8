package main

import (
	"context"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luiz-simples/replikv.git/internal/app"
	"github.com/luiz-simples/replikv.git/internal/logger"
	"github.com/luiz-simples/replikv.git/internal/service"
	"github.com/luiz-simples/replikv.git/internal/transport"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the replikv server",
	Long: `Start a replikv server. Without --replicaof it runs as a leader, otherwise
it follows the given leader and rejects client writes. Every flag can also be
set as REPLIKV_<FLAG> (e.g. REPLIKV_MAX_BATCH=64).`,
	PreRunE: bindFlags,
	RunE:    serve,
}

func init() {
	flags := serveCmd.PersistentFlags()

	flags.String("host", "0.0.0.0", "address to listen on")
	flags.Int("port", 6379, "port to listen on")
	flags.String("replicaof", "", `follow a leader, given as "<host> <port>"`)
	flags.String("storage", app.StorageMemory, "keyspace backend (memory, lmdb)")
	flags.String("data-dir", "data", "parent of the lmdb scratch directory")
	flags.Int("read-buffer", transport.DefaultCapacity, "connection read window in bytes, also the largest request accepted; bigger requests get an error and the connection is closed")
	flags.Int("max-batch", transport.Unbounded, "requests decoded per read, 0 for no limit")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address")
	flags.String("log-level", "", "DEBUG, INFO, WARN or ERROR")
	flags.String("dir", "/tmp", "reported by CONFIG GET dir")
	flags.String("dbfilename", "dump.rdb", "reported by CONFIG GET dbfilename")
}

func bindFlags(cmd *cobra.Command, _ []string) error {
	return viper.BindPFlags(cmd.Flags())
}

func serve(_ *cobra.Command, _ []string) error {
	if level := viper.GetString("log-level"); level != "" && !logger.SetLevel(level) {
		logger.Warn("ignoring unknown log level", "level", level)
	}

	options := app.Options{
		Host:        viper.GetString("host"),
		Port:        viper.GetInt("port"),
		ReplicaOf:   viper.GetString("replicaof"),
		Storage:     viper.GetString("storage"),
		DataDir:     viper.GetString("data-dir"),
		ReadBuffer:  viper.GetInt("read-buffer"),
		MaxBatch:    viper.GetInt("max-batch"),
		MetricsAddr: viper.GetString("metrics-addr"),
		Settings:    settings(),
	}

	node, err := app.Bootstrap(options)
	if hasError(err) {
		return err
	}
	defer node.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("replikv started", "version", Version, "addr", node.Addr().String(), "replicaof", options.ReplicaOf)

	err = node.Run(ctx)
	logger.Info("replikv stopped")

	return err
}

// settings are the values CONFIG GET reports.
func settings() service.Settings {
	return service.Settings{
		"dir":        viper.GetString("dir"),
		"dbfilename": viper.GetString("dbfilename"),
		"port":       strconv.Itoa(viper.GetInt("port")),
		"replicaof":  viper.GetString("replicaof"),
		"appendonly": "no",
		"save":       "",
	}
}
