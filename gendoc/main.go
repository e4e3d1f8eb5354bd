package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra/doc"

	"github.com/getstack/getstack-mcp/cmd"
	"github.com/getstack/getstack-mcp/internal/logger"
)

// Writes one markdown page per getstack-mcp command into docs/, or into the
// directory given as the first argument.
func main() {
	log := logger.NewConsoleLogger()

	outputDir := filepath.Join("docs")
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}

	log.Info().Str("dir", outputDir).Msg("Generating docs...")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Fatal().Err(err).Msg("Error creating docs dir")
	}

	if err := doc.GenMarkdownTree(cmd.RootCmd, outputDir); err != nil {
		log.Fatal().Err(err).Msg("Error generating documentation")
	}
	log.Info().Str("dir", outputDir).Msg("Documentation generated")
}
