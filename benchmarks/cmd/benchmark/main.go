package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	gometrics "github.com/rcrowley/go-metrics"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

type (
	BenchmarkConfig struct {
		Address    string `json:"address"`
		Follower   string `json:"follower,omitempty"`
		Operations int    `json:"operations"`
		Clients    int    `json:"clients"`
		ValueSize  int    `json:"value_size"`
		BatchSize  int    `json:"batch_size"`
	}

	CommandResult struct {
		Command      string        `json:"command"`
		TotalOps     int           `json:"total_ops"`
		Duration     time.Duration `json:"duration"`
		OpsPerSecond float64       `json:"ops_per_second"`
		AvgLatency   time.Duration `json:"avg_latency"`
		P95Latency   time.Duration `json:"p95_latency"`
		P99Latency   time.Duration `json:"p99_latency"`
		MaxLatency   time.Duration `json:"max_latency"`
		ErrorCount   int64         `json:"error_count"`
	}

	BenchmarkResult struct {
		Config        BenchmarkConfig `json:"config"`
		Commands      []CommandResult `json:"commands"`
		StartTime     time.Time       `json:"start_time"`
		TotalDuration time.Duration   `json:"total_duration"`
	}

	// operation runs one measured unit of work for client n, iteration i.
	operation func(ctx context.Context, leader, follower *redis.Client, n, i int) error
)

var (
	config    BenchmarkConfig
	outputDir string

	benchmarkCmd = &cobra.Command{
		Use:   "benchmark",
		Short: "Measure replikv throughput, pipelining and replication lag",
		RunE:  run,
	}
)

func init() {
	flags := benchmarkCmd.Flags()
	flags.StringVar(&config.Address, "addr", "localhost:6379", "leader address")
	flags.StringVar(&config.Follower, "follower", "", "follower address; enables the replication lag benchmark")
	flags.IntVar(&config.Operations, "ops", 10000, "operations per command")
	flags.IntVar(&config.Clients, "clients", 10, "concurrent clients")
	flags.IntVar(&config.ValueSize, "valuesize", 64, "value size in bytes")
	flags.IntVar(&config.BatchSize, "batch", 16, "commands per pipeline or transaction")
	flags.StringVar(&outputDir, "output", "", "directory for the JSON results")
}

func main() {
	if err := benchmarkCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	leader := newClient(config.Address)
	defer leader.Close()

	if err := leader.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect to %s: %w", config.Address, err)
	}

	var follower *redis.Client
	if config.Follower != "" {
		follower = newClient(config.Follower)
		defer follower.Close()
	}

	value := generateValue(config.ValueSize)
	operations := []struct {
		name string
		run  operation
	}{
		{"SET", func(ctx context.Context, leader, _ *redis.Client, n, i int) error {
			return leader.Set(ctx, key(n, i), value, 0).Err()
		}},
		{"GET", func(ctx context.Context, leader, _ *redis.Client, n, i int) error {
			return ignoreNil(leader.Get(ctx, key(n, i)).Err())
		}},
		{"ECHO", func(ctx context.Context, leader, _ *redis.Client, _, _ int) error {
			return leader.Echo(ctx, value).Err()
		}},
		{"PIPELINE", func(ctx context.Context, leader, _ *redis.Client, n, i int) error {
			_, err := leader.Pipelined(ctx, batch(n, i, value))
			return err
		}},
		{"MULTI", func(ctx context.Context, leader, _ *redis.Client, n, i int) error {
			_, err := leader.TxPipelined(ctx, batch(n, i, value))
			return err
		}},
	}

	if follower != nil {
		operations = append(operations, struct {
			name string
			run  operation
		}{"REPLICATION", replicationLag(value)})
	}

	result := BenchmarkResult{Config: config, StartTime: time.Now()}

	for _, op := range operations {
		fmt.Fprintf(cmd.OutOrStdout(), "running %s...\n", op.name)
		measured := measure(ctx, op.name, op.run, leader, follower)
		result.Commands = append(result.Commands, measured)

		fmt.Fprintf(cmd.OutOrStdout(), "%-12s %10.0f ops/sec  avg %v  p99 %v  errors %d\n",
			measured.Command, measured.OpsPerSecond, measured.AvgLatency, measured.P99Latency, measured.ErrorCount)
	}

	result.TotalDuration = time.Since(result.StartTime)

	if outputDir == "" {
		return nil
	}

	return save(result, outputDir)
}

func measure(ctx context.Context, command string, op operation, leader, follower *redis.Client) CommandResult {
	histogram := gometrics.NewHistogram(gometrics.NewUniformSample(config.Operations))
	errors := gometrics.NewCounter()

	perClient := config.Operations / config.Clients
	started := time.Now()

	var wg sync.WaitGroup
	for n := range config.Clients {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			for i := range perClient {
				began := time.Now()
				if err := op(ctx, leader, follower, n, i); err != nil {
					errors.Inc(1)
				}

				histogram.Update(int64(time.Since(began)))
			}
		}(n)
	}

	wg.Wait()
	elapsed := time.Since(started)

	total := perClient * config.Clients
	percentiles := histogram.Percentiles([]float64{0.95, 0.99})

	return CommandResult{
		Command:      command,
		TotalOps:     total,
		Duration:     elapsed,
		OpsPerSecond: float64(total-int(errors.Count())) / elapsed.Seconds(),
		AvgLatency:   time.Duration(histogram.Mean()),
		P95Latency:   time.Duration(percentiles[0]),
		P99Latency:   time.Duration(percentiles[1]),
		MaxLatency:   time.Duration(histogram.Max()),
		ErrorCount:   errors.Count(),
	}
}

// replicationLag writes on the leader and polls the follower until the
// value shows up.
func replicationLag(value string) operation {
	return func(ctx context.Context, leader, follower *redis.Client, n, i int) error {
		lagKey := "lag:" + key(n, i)
		if err := leader.Set(ctx, lagKey, value, 0).Err(); err != nil {
			return err
		}

		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			got, err := follower.Get(ctx, lagKey).Result()
			if err == nil && got == value {
				return nil
			}

			time.Sleep(100 * time.Microsecond)
		}

		return fmt.Errorf("key %s not replicated", lagKey)
	}
}

func batch(n, i int, value string) func(redis.Pipeliner) error {
	return func(pipe redis.Pipeliner) error {
		for j := range config.BatchSize {
			pipe.Set(context.Background(), key(n, i)+":"+strconv.Itoa(j), value, 0)
		}

		return nil
	}
}

func newClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:            addr,
		Protocol:        2,
		DisableIdentity: true,
		PoolSize:        config.Clients,
	})
}

func key(n, i int) string {
	return "bench:" + strconv.Itoa(n) + ":" + strconv.Itoa(i)
}

func ignoreNil(err error) error {
	if err == redis.Nil {
		return nil
	}

	return err
}

func generateValue(size int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	buf := make([]byte, size)
	for i := range buf {
		buf[i] = charset[i%len(charset)]
	}

	return string(buf)
}

func save(result BenchmarkResult, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	name := filepath.Join(dir, "benchmark_"+result.StartTime.Format("2006-01-02T15-04-05")+".json")
	return os.WriteFile(name, data, 0o644)
}
