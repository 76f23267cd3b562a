package perf

import (
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/mllp/cmd/util"
	"github.com/ValentinKolb/mllp/lib/hl7"
	"github.com/ValentinKolb/mllp/mllp/client"
	"github.com/ValentinKolb/mllp/mllp/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

var (
	PerfCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for MLLP receivers",
		Long:    "Sends sample messages from parallel connections and reports the acknowledged messages per second. Every connection sends its next message only after the previous one was acknowledged.",
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfConfig           = &common.ClientConfig{}
	perfLargeValueSizeKB = 100
	perfNumConnections   = 10
	perfSkip             = make([]string, 0)

	// newTransport creates the client transport of one benchmark connection
	newTransport = util.GetClientTransport
)

// benchStats counts the failures of one benchmark across all connections
type benchStats struct {
	connectErrors atomic.Int64
	sendErrors    atomic.Int64
}

func init() {
	util.SetupClientFlags(PerfCmd)

	// add flags
	key := "skip"
	PerfCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. small,large)"))
	key = "connections"
	PerfCmd.Flags().Int(key, 10, util.WrapString("Number of parallel connections to use for the benchmark"))
	key = "large-value-size"
	PerfCmd.Flags().Int(key, 100, util.WrapString("How large the note of the large message should be (in KB)"))
	key = "csv"
	PerfCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfConfig = util.GetClientConfig()
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfNumConnections = viper.GetInt("connections")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	// keep the benchmark output readable
	return common.InitLoggers("warn")
}

func run(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for MLLP receivers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(perfConfig.String())
	fmt.Printf("Connections: %d\n", perfNumConnections)
	fmt.Println()

	// fail early instead of reporting empty results
	if err := checkReceiver(); err != nil {
		return err
	}

	fmt.Println("starting tests...")

	now := time.Now()
	payloads := map[string][]byte{
		"small": hl7.NewSampleMDM(now),
		"large": largeMessage(now, perfLargeValueSizeKB*1024),
	}

	// Create results map
	results := make(map[string]testing.BenchmarkResult)
	failures := make(map[string]int64)
	var failed int64

	for _, test := range []string{"small", "large"} {
		payload := payloads[test]
		stats := &benchStats{}
		result := testing.Benchmark(func(b *testing.B) {
			if shouldSkip(test) {
				return
			}
			benchmarkSend(b, test, payload, stats)
		})
		results[test] = result
		failures[test] = stats.sendErrors.Load()
		printResult(test, result, failures[test])

		if n := stats.connectErrors.Load(); n > 0 {
			return fmt.Errorf("(%s) %d connections could not be opened", test, n)
		}
		failed += failures[test]
	}

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, failures, perfConfig); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	if failed > 0 {
		return fmt.Errorf("%d messages were not acknowledged", failed)
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// checkReceiver sends one sample message to make sure the receiver is reachable
func checkReceiver() error {
	t, err := newTransport()
	if err != nil {
		return fmt.Errorf("error creating transport: %w", err)
	}
	sender, err := client.NewSender(*perfConfig, t)
	if err != nil {
		return fmt.Errorf("receiver not reachable: %w", err)
	}
	defer sender.Close()

	if _, err := sender.Send(hl7.NewSampleMDM(time.Now())); err != nil {
		return fmt.Errorf("receiver did not acknowledge the sample message: %w", err)
	}
	return nil
}

// benchmarkSend sends payload from perfNumConnections connections, each with its own sender.
// Failed sends still count as operations, they are reported in stats.
func benchmarkSend(b *testing.B, test string, payload []byte, stats *benchStats) {
	// testing.Benchmark reports the last of several runs
	stats.sendErrors.Store(0)

	b.SetParallelism(perfNumConnections)
	b.SetBytes(int64(len(payload)))
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		t, err := newTransport()
		if err != nil {
			stats.connectErrors.Add(1)
			log.Printf("(%s) - error creating transport: %v\n", test, err)
			return
		}
		sender, err := client.NewSender(*perfConfig, t)
		if err != nil {
			stats.connectErrors.Add(1)
			log.Printf("(%s) - error connecting: %v\n", test, err)
			return
		}
		defer sender.Close()

		for pb.Next() {
			if _, err := sender.Send(payload); err != nil {
				stats.sendErrors.Add(1)
				log.Printf("(%s) - error sending message: %v\n", test, err)
			}
		}
	})
}

// acknowledgedPerSec returns the rate of messages that were acknowledged
func acknowledgedPerSec(result testing.BenchmarkResult, failed int64) float64 {
	if result.T <= 0 {
		return 0
	}
	ok := float64(int64(result.N) - failed)
	return math.Max(ok, 0) / result.T.Seconds()
}

// largeMessage returns the sample message with an OBX segment of size bytes appended
func largeMessage(now time.Time, size int) []byte {
	msg := hl7.NewSampleMDM(now)
	obx := "OBX|2|TX|NOTE^Padding||" + strings.Repeat("X", size) + hl7.SegmentTerminator
	return append(msg, obx...)
}

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult, failed int64) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f msg/sec\t%d failed\n",
		test, nsPerOp, time.Duration(nsPerOp), acknowledgedPerSec(result, failed), failed)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, failures map[string]int64, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "MsgPerSec", "Failed", "Skipped",
		"Endpoint", "ResponseTimeout", "RetryCount", "Transport",
		"Connections", "LargeValueSizeKB",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if result.NsPerOp() == 0 {
			skipped = "true"
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = acknowledgedPerSec(result, failures[test])
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			strconv.FormatInt(failures[test], 10),
			skipped,
			config.Transport.Endpoint,
			config.ResponseTimeout.String(),
			strconv.Itoa(config.Transport.RetryCount),
			viper.GetString("transport"),
			strconv.Itoa(perfNumConnections),
			strconv.Itoa(perfLargeValueSizeKB),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
