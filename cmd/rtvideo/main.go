// Command rtvideo opens a realtime video session and appends frames from a
// directory at a fixed rate, printing transcript deltas as they arrive.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	appconfig "github.com/voxstream-ai/realtime-go/internal/config"
	applogger "github.com/voxstream-ai/realtime-go/internal/logger"
	"github.com/voxstream-ai/realtime-go/pkg/realtime"
	"github.com/voxstream-ai/realtime-go/pkg/realtime/events"
)

func main() {
	var (
		configPath = flag.String("config", "", "optional YAML config file")
		framesDir  = flag.String("frames", "frames", "directory of JPEG frames to append, in name order")
		fps        = flag.Int("fps", 2, "frames appended per second")
	)
	flag.Parse()

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err := appconfig.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.New(cfg.Log)
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *framesDir, *fps); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("rtvideo failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg appconfig.Config, logger *zap.Logger, framesDir string, fps int) error {
	if fps < 1 {
		fps = 1
	}

	client := realtime.NewClient(cfg.ClientConfig(func(attempts int) {
		logger.Info("realtime connection recovered", zap.Int("attempts", attempts))
	}), logger)

	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()

	autoSearch := false
	update := &events.Event{
		Type: events.TypeSessionUpdate,
		Session: &events.Session{
			Modalities:        []events.Modality{events.ModalityAudio, events.ModalityText},
			InputAudioFormat:  "wav",
			OutputAudioFormat: "pcm",
			TurnDetection:     &events.TurnDetection{Type: "client_vad"},
			Tools:             []events.Tool{},
			BetaFields: &events.BetaFields{
				ChatMode:   events.ChatModeVideoPassive,
				TTSSource:  "e2e",
				AutoSearch: &autoSearch,
			},
		},
	}
	if err := client.Send(ctx, update); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- receive(ctx, client, logger)
	}()

	if err := streamFrames(ctx, client, logger, framesDir, fps); err != nil {
		return err
	}
	if err := client.Send(ctx, &events.Event{Type: events.TypeInputAudioBufferCommit}); err != nil {
		return err
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func streamFrames(ctx context.Context, client *realtime.Client, logger *zap.Logger, dir string, fps int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	interval := time.Second / time.Duration(fps)
	for _, name := range names {
		frame, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		ev := &events.Event{
			Type:       events.TypeInputVideoFrameAppend,
			VideoFrame: frame,
		}
		if err := client.Send(ctx, ev); err != nil {
			return err
		}
		logger.Debug("appended video frame", zap.String("frame", name))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return nil
}

// receive consumes the inbound stream with the iterate-to-exhaustion
// surface, re-wrapping it in an outer loop so transient reconnect cycles
// do not end the session.
func receive(ctx context.Context, client *realtime.Client, logger *zap.Logger) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		for ev, err := range client.Messages(ctx) {
			if err != nil {
				var decodeErr *realtime.DecodeError
				if errors.As(err, &decodeErr) {
					logger.Warn("skipping undecodable server message", zap.Error(err))
					break
				}
				return err
			}
			switch ev.Type {
			case events.TypeResponseAudioTranscriptDelta, events.TypeResponseTextDelta:
				fmt.Print(ev.Delta)
			case events.TypeResponseDone:
				fmt.Println()
				logger.Info("response complete")
				return nil
			case events.TypeError:
				if ev.Error != nil {
					return fmt.Errorf("server error %s: %s", ev.Error.Code, ev.Error.Message)
				}
				return errors.New("server error")
			}
		}
		if client.Closed() {
			return nil
		}
	}
}
