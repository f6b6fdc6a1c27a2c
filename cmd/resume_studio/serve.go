package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jonathan/resume-studio/internal/autosave"
	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/parse"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes REST endpoints for importing, editing,
and annotating résumé documents.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runServe,
}

var (
	serveConfigPath string
	servePort       int
	serveMaxDepth   int
	serveAutosave   int
	serveSchemaPath string
)

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().IntVar(&serveMaxDepth, "max-depth", parse.DefaultMaxDepth, "Maximum JSON nesting depth accepted on import")
	serveCmd.Flags().IntVar(&serveAutosave, "autosave-msec", int(autosave.DefaultQuietPeriod/time.Millisecond), "Quiet period in milliseconds before a debounced save fires")
	serveCmd.Flags().StringVar(&serveSchemaPath, "schema", "", "Path to the résumé wire-format JSON Schema (optional)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	var cfg config.Config
	if serveConfigPath != "" {
		loadedCfg, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
	}

	// Command-line args take priority over config file values. Only
	// override when the flag was explicitly set.
	if cmd.Flags().Changed("port") || cfg.Port == 0 {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("max-depth") || cfg.MaxDepth == 0 {
		cfg.MaxDepth = serveMaxDepth
	}
	if cmd.Flags().Changed("autosave-msec") || cfg.AutosaveMsec == 0 {
		cfg.AutosaveMsec = serveAutosave
	}
	if cmd.Flags().Changed("schema") {
		cfg.SchemaPath = serveSchemaPath
	}

	// Database URL comes from the environment unless the config file set it.
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	// The server validates imports against the schema content when present.
	var schemaContent string
	if cfg.SchemaPath == "" {
		if resolved := schemas.ResolveSchemaPath(schemas.DefaultResumeSchema); resolved != "" {
			cfg.SchemaPath = resolved
		}
	}
	if cfg.SchemaPath != "" {
		content, err := os.ReadFile(cfg.SchemaPath)
		if err != nil {
			return fmt.Errorf("failed to read schema file: %w", err)
		}
		schemaContent = string(content)
	}

	srv, err := server.New(server.Config{
		Port:          cfg.Port,
		DatabaseURL:   cfg.DatabaseURL,
		MaxDepth:      cfg.MaxDepth,
		AutosaveQuiet: time.Duration(cfg.AutosaveMsec) * time.Millisecond,
		SchemaContent: schemaContent,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
