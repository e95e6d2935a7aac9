// Command ifm loads a world declaration and an optional variables file,
// runs the generation pipeline, and prints the resulting map layout and
// walkthrough. It is a thin configuration layer around pkg/world,
// grounded on cmd/dungeongen's flag-based CLI pattern — argument
// parsing, config-file loading, and output formatting are this
// command's concern, not the core's.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ifm/ifm/pkg/world"
	"github.com/ifm/ifm/pkg/worldmodel"
)

const version = "1.0.0"

var (
	worldPath = flag.String("world", "", "Path to a JSON world declaration file (required)")
	varsPath  = flag.String("vars", "", "Path to a YAML variables file (optional)")
	outputDir = flag.String("output", ".", "Output directory for the exported artifact")
	format    = flag.String("format", "text", "Output format: text, json, or all")
	verbose   = flag.Bool("verbose", false, "Enable verbose output")
	versionF  = flag.Bool("version", false, "Print version and exit")
	help      = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("ifm version %s\n", version)
		os.Exit(0)
	}

	if *help {
		printHelp()
		os.Exit(0)
	}

	if *worldPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -world flag is required")
		printUsage()
		os.Exit(1)
	}

	validFormats := map[string]bool{"text": true, "json": true, "all": true}
	if !validFormats[*format] {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q, must be one of: text, json, all\n", *format)
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	if *verbose {
		fmt.Printf("Loading world declaration from %s\n", *worldPath)
	}
	decl, err := loadWorldDecl(*worldPath)
	if err != nil {
		return fmt.Errorf("failed to load world declaration: %w", err)
	}

	vars := world.DefaultVariables()
	if *varsPath != "" {
		if *verbose {
			fmt.Printf("Loading variables from %s\n", *varsPath)
		}
		vars, err = world.LoadVariables(*varsPath)
		if err != nil {
			return fmt.Errorf("failed to load variables: %w", err)
		}
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if *verbose {
		fmt.Println("Generating map and walkthrough...")
	}
	start := time.Now()
	artifact, err := world.Generate(ctx, decl, vars)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	elapsed := time.Since(start)
	if *verbose {
		fmt.Printf("Generation completed in %v\n", elapsed)
	}

	if *format == "text" || *format == "all" {
		printWalkthrough(artifact)
	}
	if *format == "json" || *format == "all" {
		if err := exportJSON(artifact); err != nil {
			return err
		}
	}

	return nil
}

// loadWorldDecl reads a world declaration from its JSON encoding — the
// structured form the already-parsed declaration arrives in; the
// grammar that produces it is not this command's concern.
func loadWorldDecl(path string) (*worldmodel.WorldDecl, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var decl worldmodel.WorldDecl
	if err := json.Unmarshal(data, &decl); err != nil {
		return nil, fmt.Errorf("parsing world declaration: %w", err)
	}
	return &decl, nil
}

func exportJSON(artifact *world.Artifact) error {
	filename := filepath.Join(*outputDir, "walkthrough.json")
	if *verbose {
		fmt.Printf("Exporting JSON to %s\n", filename)
	}
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	return nil
}

func printWalkthrough(artifact *world.Artifact) {
	fmt.Printf("Sections: %d   Pages: %d   Score: %d\n\n", len(artifact.Sections), len(artifact.Pages), artifact.Score)
	for i, step := range artifact.Walkthrough {
		fmt.Printf("%3d. [%s] %s", i+1, step.Kind, step.Description)
		if step.ScoreDelta != 0 {
			fmt.Printf(" (+%d)", step.ScoreDelta)
		}
		fmt.Println()
		for _, cmd := range step.Commands {
			fmt.Printf("       > %s\n", cmd)
		}
		for _, note := range step.Notes {
			fmt.Printf("       (%s)\n", note)
		}
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage: ifm -world <world.json> [options]")
	fmt.Fprintln(os.Stderr, "\nRun 'ifm -help' for detailed help")
}

func printHelp() {
	fmt.Printf("ifm version %s\n\n", version)
	fmt.Println("Builds a map and walkthrough from an interactive-fiction world declaration.")
	fmt.Println("\nUsage:")
	fmt.Println("  ifm -world <world.json> [options]")
	fmt.Println("\nRequired Flags:")
	fmt.Println("  -world string")
	fmt.Println("        Path to a JSON world declaration file")
	fmt.Println("\nOptional Flags:")
	fmt.Println("  -vars string")
	fmt.Println("        Path to a YAML variables file")
	fmt.Println("  -output string")
	fmt.Println("        Output directory for the exported artifact (default: current directory)")
	fmt.Println("  -format string")
	fmt.Println("        Output format: text, json, or all (default: text)")
	fmt.Println("  -verbose")
	fmt.Println("        Enable verbose output")
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println("\nExamples:")
	fmt.Println("  ifm -world castle.json")
	fmt.Println("  ifm -world castle.json -vars castle-vars.yaml -format all -output ./out")
}
