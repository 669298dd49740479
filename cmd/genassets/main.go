package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/prejudice-risk-backend/internal/assets"
	"github.com/yungbote/prejudice-risk-backend/internal/logger"
)

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "assets", "output directory for generated images")
	flag.Parse()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	gen, err := assets.NewGenerator(log)
	if err != nil {
		log.Error("Could not init asset generator", "error", err)
		os.Exit(1)
	}
	if err := gen.GenerateAll(outDir); err != nil {
		log.Error("Asset generation failed", "error", err)
		os.Exit(1)
	}
}
