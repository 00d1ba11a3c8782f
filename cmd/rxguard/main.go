package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/rxguard/rxguard/internal/app"
	"github.com/rxguard/rxguard/internal/config"
)

var (
	configPath = flag.String("config", "", "Path to config file")
	dataDir    = flag.String("data", "", "Path to data directory")
	analyze    = flag.String("analyze", "", "Analyze prescription text and exit")
	signals    = flag.String("signals", "", "Patient risk signals for -analyze (free text)")
	stdinMode  = flag.Bool("stdin", false, "Read prescription text from stdin and analyze")
	version    = "dev"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "help", "--help", "-h":
			printHelp()
			return
		case "version", "--version", "-v":
			fmt.Printf("rxguard version %s\n", version)
			return
		}
	}

	flag.Parse()

	application := initApp()

	if *analyze != "" {
		application.RunAnalyze(*analyze, *signals)
		return
	}

	if *stdinMode {
		text, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Printf("Error reading stdin: %v\n", err)
			os.Exit(1)
		}
		application.RunAnalyze(string(text), *signals)
		return
	}

	application.RunServer()
}

func initApp() *app.App {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting rxguard", zap.String("version", version))

	if err := config.LoadEnvFiles(); err != nil {
		logger.Warn("Failed to load env files", zap.Error(err))
	}

	cfg, err := config.Load(*configPath, *dataDir)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	application := app.New(cfg, logger, version)
	if err := application.Init(); err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	return application
}

func printHelp() {
	fmt.Println("rxguard - medication safety analysis and reminders")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  rxguard                      Run the API server")
	fmt.Println("  rxguard -analyze \"TEXT\"      Analyze prescription text and print JSON")
	fmt.Println("  rxguard -stdin               Analyze prescription text from stdin")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -config PATH   Path to config file (default: DATA_DIR/rxguard.yaml)")
	fmt.Println("  -data PATH     Path to data directory")
	fmt.Println("  -signals TEXT  Patient risk signals for analysis")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  RXGUARD_SERVER_PORT, RXGUARD_TRANSPORT_DEFAULT, ... override config keys")
}
