package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/accord/packages/accord"
	"github.com/abdul-hamid-achik/accord/packages/config"
	"github.com/abdul-hamid-achik/accord/packages/db"
	"github.com/abdul-hamid-achik/accord/packages/pairspec"
	"github.com/abdul-hamid-achik/accord/packages/probe"
	"github.com/abdul-hamid-achik/accord/packages/report"
)

var checkCmd = &cobra.Command{
	Use:   "check [spec-file|directory...]",
	Short: "Run accordance checks from spec files",
	Long: `Run the accordances declared in .accord.yaml files against a pair
of JSON documents, or against a database row selected by a query.

Examples:
  accord check orders.accord.yaml --source order.json --destination receipt.json
  accord check ./checks/ --source order.json --destination receipt.json
  accord check orders.accord.yaml --name order-to-receipt --source a.json --destination b.json
  accord check orders.accord.yaml --source order.json --db sqlite:./app.db --query "SELECT * FROM receipts WHERE id = 1"
  accord check orders.accord.yaml --source a.json --destination b.json --watch`,
	Args: cobra.ArbitraryArgs,
	RunE: checkCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	specFlag        string
	sourceFlag      string
	destinationFlag string
	nameFlag        string
	outputFlag      string
	outputFileFlag  string
	noColorFlag     bool
	verboseFlag     bool
	bailFlag        bool
	watchFlag       bool
	configFlag      string
	dbFlag          string
	queryFlag       string
)

func init() {
	checkCmd.Flags().StringVarP(&specFlag, "spec", "s", getEnvString("ACCORD_SPEC", ""), "Accordance spec file or directory (env: ACCORD_SPEC)")
	checkCmd.Flags().StringVar(&sourceFlag, "source", "", "Path to the source JSON document")
	checkCmd.Flags().StringVar(&destinationFlag, "destination", "", "Path to the destination JSON document")
	checkCmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Run only the accordance with this name")
	checkCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("ACCORD_OUTPUT", ""), "Output format: console, json (env: ACCORD_OUTPUT)")
	checkCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("ACCORD_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: ACCORD_OUTPUT_FILE)")
	checkCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("ACCORD_NO_COLOR", false), "Disable colored output (env: ACCORD_NO_COLOR)")
	checkCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("ACCORD_VERBOSE", false), "Verbose output (env: ACCORD_VERBOSE)")
	checkCmd.Flags().BoolVar(&bailFlag, "bail", getEnvBool("ACCORD_BAIL", false), "Stop on first failed check (env: ACCORD_BAIL)")
	checkCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch files for changes and re-run checks")
	checkCmd.Flags().StringVar(&configFlag, "config", getEnvString("ACCORD_CONFIG", ""), "Path to config file (env: ACCORD_CONFIG)")
	checkCmd.Flags().StringVar(&dbFlag, "db", getEnvString("ACCORD_DB", ""), "Database connection string for row destinations (env: ACCORD_DB)")
	checkCmd.Flags().StringVar(&queryFlag, "query", "", "SQL query selecting the destination row (requires --db)")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func checkCommand(cmd *cobra.Command, args []string) error {
	// Load config from file (if present) and apply CLI overrides
	fileConfig, _ := config.LoadConfig(configFlag)
	if fileConfig == nil {
		fileConfig = config.DefaultConfig()
	}

	output := fileConfig.Output
	if outputFlag != "" {
		output = outputFlag
	}
	if output == "" {
		output = "console"
	}
	switch output {
	case "console", "json":
	default:
		return fmt.Errorf("unknown output format %q (use console or json)", output)
	}

	outputFile := fileConfig.OutputFile
	if outputFileFlag != "" {
		outputFile = outputFileFlag
	}
	noColor := fileConfig.GetNoColor() || noColorFlag
	verbose := fileConfig.GetVerbose() || verboseFlag
	bail := fileConfig.GetBail() || bailFlag

	database := fileConfig.Database
	if dbFlag != "" {
		database = dbFlag
	}

	specPaths := args
	if len(specPaths) == 0 && specFlag != "" {
		specPaths = []string{specFlag}
	}
	if len(specPaths) == 0 && fileConfig.SpecPath != "" {
		specPaths = []string{fileConfig.SpecPath}
	}
	if len(specPaths) == 0 {
		return fmt.Errorf("no spec files given; pass paths or set --spec")
	}

	useDB := database != "" && queryFlag != ""
	if queryFlag != "" && database == "" {
		return fmt.Errorf("--query requires --db")
	}
	if !useDB && destinationFlag == "" {
		return fmt.Errorf("a destination is required; pass --destination, or --db with --query")
	}
	if sourceFlag == "" {
		return fmt.Errorf("a source document is required; pass --source")
	}

	// Setup output writer
	outWriter := io.Writer(os.Stdout)
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer f.Close()
		outWriter = f
	}

	console := report.NewConsoleFormatter(
		report.WithWriter(outWriter),
		report.WithVerbose(verbose),
		report.WithNoColor(noColor),
	)
	jsonFormatter := report.NewJSONFormatter()

	if output == "console" {
		console.FormatHeader(version)
	}

	files, err := collectSpecFiles(specPaths)
	if err != nil {
		console.FormatError(err)
		os.Exit(ExitSpecError)
	}
	if len(files) == 0 {
		console.FormatError(fmt.Errorf("no .accord.yaml files found"))
		os.Exit(ExitSpecError)
	}

	var client *db.Client
	if useDB {
		client, err = db.NewClient(database)
		if err != nil {
			console.FormatError(err)
			os.Exit(ExitSpecError)
		}
		defer client.Close()
	}

	// Documents are re-read on every run so watch mode picks up edits
	runAll := func() (int, error) {
		srcDoc, err := os.ReadFile(sourceFlag)
		if err != nil {
			return 0, fmt.Errorf("cannot read source document: %w", err)
		}
		dstDoc, err := loadDestination(client)
		if err != nil {
			return 0, err
		}

		failed := 0
		named := nameFlag == ""
		for _, file := range files {
			run, matched, err := checkSpecFile(file, srcDoc, dstDoc, bail)
			if err != nil {
				return failed, err
			}
			named = named || matched

			if output == "json" {
				if err := jsonFormatter.Write(outWriter, run); err != nil {
					return failed, err
				}
			} else {
				console.FormatResult(run)
			}

			failed += run.Failed
			if bail && failed > 0 {
				break
			}
		}
		if !named {
			return failed, fmt.Errorf("accordance %q not found in the given specs", nameFlag)
		}
		return failed, nil
	}

	failed, err := runAll()
	if err != nil {
		console.FormatError(err)
		if !watchFlag {
			os.Exit(ExitSpecError)
		}
	}

	// If watch mode is not enabled, exit normally
	if !watchFlag {
		if failed > 0 {
			os.Exit(ExitCheckFailure)
		}
		return nil
	}

	// Watch mode: set up file watcher
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watchTargets := append([]string{}, files...)
	watchTargets = append(watchTargets, sourceFlag)
	if destinationFlag != "" {
		watchTargets = append(watchTargets, destinationFlag)
	}

	watchedDirs := make(map[string]bool)
	for _, target := range watchTargets {
		dir := filepath.Dir(target)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				console.FormatError(fmt.Errorf("failed to watch %s: %w", dir, err))
			}
			watchedDirs[dir] = true
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	// Debounce timer for rapid file changes
	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Write) && isWatchTarget(event.Name, watchTargets) {
				// Debounce: reset timer on each event
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "\n\nFile changed: %s\nRe-running checks...\n\n", event.Name)

					if _, err := runAll(); err != nil {
						console.FormatError(err)
					}

					fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			console.FormatError(fmt.Errorf("watcher error: %w", err))
		}
	}
}

// checkSpecFile loads, validates, binds and evaluates one spec file. The
// returned bool reports whether the name filter matched any accordance.
func checkSpecFile(path string, srcDoc, dstDoc []byte, bail bool) (*report.RunResult, bool, error) {
	f, err := pairspec.LoadFile(path)
	if err != nil {
		return nil, false, err
	}
	if errs := pairspec.Validate(f); len(errs) > 0 {
		return nil, false, errs[0]
	}

	run := &report.RunResult{SpecFile: path}
	matched := false
	start := time.Now()

	for i := range f.Accordances {
		decl := &f.Accordances[i]
		if nameFlag != "" && decl.Name != nameFlag {
			continue
		}
		matched = true

		acc, err := pairspec.BindJSON(decl)
		if err != nil {
			return nil, matched, err
		}

		run.Add(evaluateAccordance(acc, decl.Name, srcDoc, dstDoc))
		if bail && run.Failed > 0 {
			break
		}
	}

	run.Duration = time.Since(start)
	return run, matched, nil
}

// evaluateAccordance runs one bound accordance against the document pair.
// A usage fault (nil pair without a nil check, inner type mismatch) panics
// inside accord; it is reported as a failed check rather than crashing the
// process.
func evaluateAccordance(acc *accord.Accordances[[]byte, []byte], name string, src, dst []byte) (cr report.CheckResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			cr = report.CheckResult{
				Name:     name,
				Passed:   false,
				Rules:    acc.Count(),
				Failure:  fmt.Sprintf("fault: %v", r),
				Duration: time.Since(start),
			}
		}
	}()

	pt := probe.Run(func(pt *probe.T) { acc.AssertAll(pt, src, dst) })
	return report.CheckResult{
		Name:     name,
		Passed:   !pt.Failed(),
		Rules:    acc.Count(),
		Failure:  pt.Output(),
		Duration: time.Since(start),
	}
}

func loadDestination(client *db.Client) ([]byte, error) {
	if client != nil {
		row, err := client.QueryRow(queryFlag)
		if err != nil {
			return nil, fmt.Errorf("destination query failed: %w", err)
		}
		doc, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("cannot encode destination row: %w", err)
		}
		return doc, nil
	}
	doc, err := os.ReadFile(destinationFlag)
	if err != nil {
		return nil, fmt.Errorf("cannot read destination document: %w", err)
	}
	return doc, nil
}

func collectSpecFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && pairspec.IsSpecFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else {
			if pairspec.IsSpecFile(arg) {
				files = append(files, arg)
			}
		}
	}

	return files, nil
}

func isWatchTarget(name string, targets []string) bool {
	if pairspec.IsSpecFile(name) {
		return true
	}
	clean := filepath.Clean(name)
	for _, target := range targets {
		if filepath.Clean(target) == clean {
			return true
		}
	}
	return false
}
