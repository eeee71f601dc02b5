// Command ignite is an interactive and single-shot CLI over a store opened
// with pkg/ignite. It also owns the engine-selection sentinel file that
// spec.md §6.4 places outside the core: before opening a data directory it
// checks (and, on first use, writes) a small marker recording which backend
// created it, refusing to open a directory written by a different backend.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/filesys"
	"github.com/ignitedb/ignite/pkg/ignite"
	"github.com/ignitedb/ignite/pkg/options"
	"github.com/ignitedb/ignite/pkg/seginfo"
)

// sentinelFileName is the marker spec.md §6.4 describes. It is a plain text
// file containing just the engine label; the core engine never reads it.
const sentinelFileName = ".engine"

func main() {
	dataDir := flag.String("data-dir", options.DefaultDataDir, "directory where the store's segment files live")
	engineLabel := flag.String("engine", options.DefaultEngineLabel, "backend label recorded in the directory's engine-selection sentinel")
	rotationThreshold := flag.Uint64("rotation-threshold", options.DefaultRotationThreshold, "bytes the active segment may grow to before rotating")
	compactionThreshold := flag.Int("compaction-threshold", options.DefaultCompactionThreshold, "inactive segment count that triggers compaction")
	flag.Parse()

	ctx := context.Background()

	if err := checkEngineSentinel(*dataDir, *engineLabel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	inst, err := ignite.NewInstance(
		ctx,
		"ignite-cli",
		options.WithDataDir(*dataDir),
		options.WithEngineLabel(*engineLabel),
		options.WithRotationThreshold(*rotationThreshold),
		options.WithCompactionThreshold(*compactionThreshold),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer inst.Close(ctx)

	segmentDir := filepath.Join(*dataDir, options.DefaultSegmentDirectory)

	args := flag.Args()
	if len(args) == 0 {
		runInteractive(ctx, inst, segmentDir)
		return
	}

	if err := executeCommand(ctx, inst, segmentDir, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// checkEngineSentinel verifies that dataDir's engine-selection marker, if
// any, names label. A fresh directory gets the marker written for the next
// open; a directory already marked with a different label is rejected with
// errors.ErrWrongEngine rather than letting two backends interpret the same
// segment files differently.
func checkEngineSentinel(dataDir, label string) error {
	exists, err := filesys.Exists(dataDir)
	if err != nil {
		return err
	}

	sentinelPath := filepath.Join(dataDir, sentinelFileName)

	if !exists {
		if err := filesys.CreateDir(dataDir, 0755, true); err != nil {
			return err
		}
		return filesys.WriteFile(sentinelPath, 0644, []byte(label))
	}

	sentinelExists, err := filesys.Exists(sentinelPath)
	if err != nil {
		return err
	}
	if !sentinelExists {
		return filesys.WriteFile(sentinelPath, 0644, []byte(label))
	}

	raw, err := filesys.ReadFile(sentinelPath)
	if err != nil {
		return err
	}

	recorded := strings.TrimSpace(string(raw))
	if recorded != label {
		return errors.NewEngineError(
			errors.ErrWrongEngine, errors.ErrorCodeWrongEngine,
			fmt.Sprintf("data directory was created by engine %q, refusing to open with %q", recorded, label),
		).WithOperation("checkEngineSentinel")
	}

	return nil
}

// executeCommand runs a single set/get/delete/segments invocation.
func executeCommand(ctx context.Context, inst *ignite.Instance, segmentDir string, args []string) error {
	command := strings.ToLower(args[0])

	switch command {
	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: set <key> <value>")
		}
		return inst.Set(ctx, args[1], []byte(args[2]))

	case "get":
		if len(args) != 2 {
			return fmt.Errorf("usage: get <key>")
		}
		value, err := inst.Get(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Println(string(value))
		return nil

	case "delete", "del":
		if len(args) != 2 {
			return fmt.Errorf("usage: delete <key>")
		}
		return inst.Delete(ctx, args[1])

	case "segments":
		return listSegments(segmentDir)

	default:
		return fmt.Errorf("unknown command %q. Available commands: set, get, delete, segments", command)
	}
}

// listSegments prints every on-disk segment file under segmentDir, in the
// order a fresh store's replay pass would read them.
func listSegments(segmentDir string) error {
	paths, err := filesys.SearchFileExtensions(segmentDir, nil, seginfo.Extension)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		fmt.Println("(no segment files)")
		return nil
	}

	for _, path := range paths {
		fmt.Println(filepath.Base(path))
	}
	return nil
}

// runInteractive runs a REPL session over stdin until "exit" or EOF.
func runInteractive(ctx context.Context, inst *ignite.Instance, segmentDir string) {
	fmt.Println("ignite - interactive mode")
	fmt.Println("Commands: set <key> <value> | get <key> | delete <key> | segments | exit | help")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("ignite> ")

		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		switch strings.ToLower(args[0]) {
		case "exit", "quit":
			return
		case "help":
			printHelp()
			continue
		}

		if err := executeCommand(ctx, inst, segmentDir, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
	}
}

func printHelp() {
	fmt.Println("Available commands:")
	fmt.Println("  set <key> <value>   - store a value for key")
	fmt.Println("  get <key>           - retrieve the value for key")
	fmt.Println("  delete <key>        - remove key")
	fmt.Println("  segments            - list on-disk segment files")
	fmt.Println("  help                - show this help message")
	fmt.Println("  exit                - exit interactive mode")
}
