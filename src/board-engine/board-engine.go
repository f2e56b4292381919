package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/atnz/at-engine/src/common/atapi"
	"github.com/atnz/at-engine/src/common/config"
	"github.com/atnz/at-engine/src/common/engine"
	"github.com/atnz/at-engine/src/common/types"
	"github.com/atnz/at-engine/src/common/utils"
)

func main() {
	utils.InitLogger()
	defer utils.SyncLogger()
	logger := utils.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalw("failed to load config", "error", err)
	}

	client := atapi.NewClient(cfg.API.Key, cfg.API.BaseURL, cfg.API.RealtimeURL)

	if err := client.ValidateKey(ctx); err != nil {
		if errors.Is(err, atapi.ErrInvalidCredentials) {
			logger.Fatalw("invalid credentials", "error", err)
		}
		logger.Fatalw("failed to validate API key", "error", err)
	}

	rdb := utils.NewRedisClient()
	defer rdb.Close()

	conn, channel, err := utils.NewRabbitConnection()
	if err != nil {
		logger.Fatalw("failed to connect to RabbitMQ", "error", err)
	}
	defer conn.Close()
	defer channel.Close()

	if _, err := channel.QueueDeclare(engine.BoardsQueue, false, false, false, false, nil); err != nil {
		logger.Fatalw("failed to declare boards queue", "error", err)
	}

	directory, err := client.Stops(ctx)
	if err != nil {
		logger.Warnw("failed to fetch stop directory", "error", err)
	} else if body, err := json.Marshal(directory); err == nil {
		if err := rdb.Set(ctx, engine.StopsDirectoryKey, body, 24*time.Hour).Err(); err != nil {
			logger.Warnw("failed to cache stop directory", "error", err)
		}
	}

	stopsByID := make(map[string]types.Stop, len(directory))
	for _, s := range directory {
		stopsByID[s.ID] = s
	}

	var wg sync.WaitGroup
	for _, sc := range cfg.Stops {
		stopInfo, ok := stopsByID[sc.ID]
		if !ok {
			// monitor it anyway; the board carries what the API returns
			logger.Warnw("configured stop not found in directory", "stop", sc.ID)
			stopInfo = types.Stop{ID: sc.ID}
		}

		window := engine.NewQuietWindow(sc.QuietStart, sc.QuietEnd)
		monitor := engine.NewMonitor(
			stopInfo,
			window,
			time.Duration(sc.PollIntervalSeconds)*time.Second,
			sc.MaxDepartures,
			client,
			rdb,
			channel,
		)

		wg.Add(1)
		go func() {
			defer wg.Done()
			monitor.Run(ctx)
		}()

		logger.Infow("monitoring stop",
			"stop", sc.ID, "name", stopInfo.Name,
			"interval_s", sc.PollIntervalSeconds,
			"quiet", window.Start.String()+"-"+window.End.String())
	}

	<-ctx.Done()
	wg.Wait()
}
