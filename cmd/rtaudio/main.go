// Command rtaudio streams a recorded event script to a realtime endpoint
// and collects the returned audio deltas into a raw PCM file.
//
// The script is a JSONL file of client events, typically captured from a
// previous session: session.update first, then paced
// input_audio_buffer.append events carrying base64 audio.
package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	appconfig "github.com/voxstream-ai/realtime-go/internal/config"
	applogger "github.com/voxstream-ai/realtime-go/internal/logger"
	"github.com/voxstream-ai/realtime-go/pkg/realtime"
	"github.com/voxstream-ai/realtime-go/pkg/realtime/events"
)

const sendInterval = 135 * time.Millisecond

func main() {
	var (
		configPath = flag.String("config", "", "optional YAML config file")
		inputPath  = flag.String("input", "events.jsonl", "JSONL event script to stream")
		outputPath = flag.String("output", "out/response.pcm", "file collecting response audio deltas")
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

	if err := run(ctx, cfg, logger, *inputPath, *outputPath); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("rtaudio failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg appconfig.Config, logger *zap.Logger, inputPath, outputPath string) error {
	client := realtime.NewClient(cfg.ClientConfig(func(attempts int) {
		logger.Info("realtime connection recovered", zap.Int("attempts", attempts))
	}), logger)

	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	done := make(chan error, 1)
	go func() {
		done <- receive(ctx, client, logger, out)
	}()

	if err := stream(ctx, client, logger, inputPath); err != nil {
		return err
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stream sends the scripted client events in order with a fixed pacing,
// mimicking a live audio capture.
func stream(ctx context.Context, client *realtime.Client, logger *zap.Logger, inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), bufio.MaxScanTokenSize)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var ev events.Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			return fmt.Errorf("parse event script: %w", err)
		}
		if err := client.Send(ctx, &ev); err != nil {
			return err
		}
		logger.Debug("sent event", zap.String("type", string(ev.Type)))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sendInterval):
		}
	}
	return scanner.Err()
}

// receive drains server events until the response completes, decoding
// audio deltas into the output file. Nil events from transient reconnect
// cycles are skipped as long as the client stays open.
func receive(ctx context.Context, client *realtime.Client, logger *zap.Logger, out *os.File) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev, err := client.Recv(ctx)
		if err != nil {
			var decodeErr *realtime.DecodeError
			if errors.As(err, &decodeErr) {
				logger.Warn("skipping undecodable server message", zap.Error(err))
				continue
			}
			return err
		}
		if ev == nil {
			if client.Closed() {
				return nil
			}
			continue
		}

		switch ev.Type {
		case events.TypeResponseAudioDelta:
			pcm, err := base64.StdEncoding.DecodeString(ev.Delta)
			if err != nil {
				logger.Warn("bad audio delta", zap.Error(err))
				continue
			}
			if _, err := out.Write(pcm); err != nil {
				return err
			}
		case events.TypeResponseDone:
			logger.Info("response complete")
			return nil
		case events.TypeError:
			if ev.Error != nil {
				return fmt.Errorf("server error %s: %s", ev.Error.Code, ev.Error.Message)
			}
			return errors.New("server error")
		default:
			logger.Debug("server event", zap.String("type", string(ev.Type)))
		}
	}
}
