package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/pflag"

	"github.com/transportops/auditfill/internal/config"
	"github.com/transportops/auditfill/internal/pipeline"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging keeps log output on stderr so artifact paths printed on
// stdout stay machine readable.
func setupLogging(cfg *config.Config) {
	log.SetOutput(os.Stderr)
	if cfg.IsDebug() {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
}

// requiredInputs returns how many positional arguments the stage needs.
func requiredInputs(stage string) (int, string) {
	switch stage {
	case config.StagePDF:
		return 1, "<report.pdf>"
	case config.StageDOCX:
		return 1, "<template.docx>"
	case config.StageMerge:
		return 0, ""
	case config.StageWrite:
		return 2, "<template.docx> <output.docx>"
	default:
		return 3, "<report.pdf> <template.docx> <output.docx>"
	}
}

// splitInputs assigns the positional arguments to their roles by extension
// first, position second, so the argument order does not matter.
func splitInputs(stage string, args []string) (pdfPath, templatePath, outputPath string) {
	var docxPaths []string
	for _, a := range args {
		switch strings.ToLower(lastExt(a)) {
		case ".pdf":
			if pdfPath == "" {
				pdfPath = a
			}
		case ".docx":
			docxPaths = append(docxPaths, a)
		}
	}
	switch stage {
	case config.StageDOCX:
		if len(docxPaths) > 0 {
			templatePath = docxPaths[0]
		}
	case config.StageWrite:
		if len(docxPaths) > 0 {
			templatePath = docxPaths[0]
		}
		if len(docxPaths) > 1 {
			outputPath = docxPaths[1]
		}
	default:
		if len(docxPaths) > 0 {
			templatePath = docxPaths[0]
		}
		if len(docxPaths) > 1 {
			outputPath = docxPaths[1]
		}
	}
	// fall back to positional order for anything extension matching missed
	if pdfPath == "" && len(args) > 0 && stage != config.StageDOCX && stage != config.StageWrite {
		pdfPath = args[0]
	}
	return pdfPath, templatePath, outputPath
}

func lastExt(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i:]
	}
	return ""
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, args, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	if version != "dev" {
		cfg.Version = version
	}

	need, usage := requiredInputs(cfg.Stage)
	if len(args) < need {
		fmt.Fprintf(os.Stderr, "stage %q needs %d input(s): %s\n\n", cfg.Stage, need, usage)
		pflag.Usage()
		os.Exit(2)
	}

	if cfg.IsDebug() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	pdfPath, templatePath, outputPath := splitInputs(cfg.Stage, args)
	if err := pipeline.New(cfg).Run(pdfPath, templatePath, outputPath); err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("auditfill\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
