package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/chromatools/chromakey-mcp/internal/config"
	"github.com/chromatools/chromakey-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("chromakey-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("chromakey-mcp - MCP server for chromakey (green screen) detection")
			fmt.Println()
			fmt.Println("Usage: chromakey-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  CHROMAKEY_MCP_LOG_LEVEL=debug         Log level (debug, info, warn, error)")
			fmt.Println("  CHROMAKEY_MIN_AREA=0.25               Default minimum area fraction")
			fmt.Println("  CHROMAKEY_MIN_SATURATION=0.6          Default minimum saturation")
			fmt.Println("  CHROMAKEY_EDGE_SAMPLE=0.15            Default edge sample fraction")
			fmt.Println("  CHROMAKEY_CONFIDENCE_THRESHOLD=0.7    Default confidence threshold")
			fmt.Println()
			fmt.Println("A .env file in the working directory is read before the environment.")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// A missing .env just means defaults plus the real environment.
	_ = config.LoadDotenv()

	// Log to stderr (stdout is for MCP protocol)
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(os.Getenv("CHROMAKEY_MCP_LOG_LEVEL")); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	log.Debug().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Msg("chromakey-mcp starting")

	srv := server.New(config.FromEnv(), log)
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
