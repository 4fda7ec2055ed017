package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Schera-ole/empstatus/internal/client"
)

func main() {
	clientConfig, err := client.NewClientConfig()
	if err != nil {
		log.Fatal("Failed to parse configuration: ", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal("Failed to create logger: ", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := client.New(&http.Client{Timeout: 30 * time.Second}, clientConfig, logger.Sugar())
	resp, err := c.GetEmpStatus(ctx, clientConfig.NationalNumber, clientConfig.BustCache)
	if err != nil {
		logger.Sugar().Fatalw("request failed", "error", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(resp); err != nil {
		logger.Sugar().Fatalw("failed to print response", "error", err)
	}
}
