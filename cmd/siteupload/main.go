package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/publish"
	"github.com/yungbote/prejudice-risk-backend/internal/utils"
)

func main() {
	var dir string
	flag.StringVar(&dir, "dir", ".", "local directory to upload")
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

	cfg := publish.Config{
		Host:               utils.GetEnv("FTP_HOST", "", log),
		Port:               utils.GetEnvAsInt("FTP_PORT", 21, log),
		Username:           utils.GetEnv("FTP_USER", "", log),
		Password:           utils.GetEnv("FTP_PASS", "", log),
		BasePath:           utils.GetEnv("FTP_BASE_PATH", "", log),
		Timeout:            time.Duration(utils.GetEnvAsInt("FTP_TIMEOUT_SECONDS", 30, log)) * time.Second,
		TLS:                utils.GetEnvAsBool("FTP_TLS", true, log),
		InsecureSkipVerify: utils.GetEnvAsBool("FTP_TLS_SKIP_VERIFY", false, log),
	}

	up, err := publish.NewUploader(cfg, log)
	if err != nil {
		log.Error("Could not init uploader", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := up.UploadTree(ctx, dir); err != nil {
		log.Error("Site upload failed", "error", err)
		os.Exit(1)
	}
}
