package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/onnwee/chat-archiver/irc"
	"github.com/onnwee/chat-archiver/record"
	"github.com/onnwee/chat-archiver/telemetry"
)

// BuildIndexMapping resolves the channel-to-index mapping from the CLI
// arguments. A single index is applied to every channel, with '*' replaced by
// the channel name; otherwise the lists must pair up one to one.
func BuildIndexMapping(channels, indices []string) (map[string]string, error) {
	if len(indices) == 0 {
		return nil, fmt.Errorf("at least one index required")
	}
	mapping := make(map[string]string, len(channels))
	if len(indices) == 1 {
		for _, ch := range channels {
			mapping[ch] = strings.ReplaceAll(indices[0], "*", ch)
		}
		return mapping, nil
	}
	if len(indices) != len(channels) {
		return nil, fmt.Errorf("expected 1 or %d indices, got %d", len(channels), len(indices))
	}
	for i, ch := range channels {
		mapping[ch] = indices[i]
	}
	return mapping, nil
}

// ElasticOutput indexes each message as its own document via the _create
// endpoint. Delivery is best effort: a conflict means the document is already
// there (replays are expected), any other failure is logged with the id and
// payload and the message is dropped. Only transport-level errors propagate.
type ElasticOutput struct {
	ctx     context.Context
	client  *http.Client
	address string
	apiKey  string
	indices map[string]string

	classify record.ClassifyFunc
}

// NewElasticOutput reads the API key from keyFile and prepares the client.
// The context bounds all requests for the lifetime of the session.
func NewElasticOutput(ctx context.Context, address, keyFile string, indices map[string]string, classify record.ClassifyFunc) (*ElasticOutput, error) {
	raw, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("read api key file: %w", err)
	}
	return &ElasticOutput{
		ctx:      ctx,
		client:   &http.Client{Timeout: 30 * time.Second},
		address:  strings.TrimRight(address, "/"),
		apiKey:   strings.TrimSpace(string(raw)),
		indices:  indices,
		classify: classify,
	}, nil
}

func (o *ElasticOutput) Write(m *irc.Message) error {
	rec := record.Project(m, o.classify)

	if rec.Channel == "" {
		slog.Warn("skipping message without channel", slog.String("cmd", rec.IRCCmd))
		return nil
	}
	index, ok := o.indices[rec.Channel]
	if !ok {
		slog.Warn("no index mapping for channel", slog.String("channel", rec.Channel))
		return nil
	}

	id := rec.ID
	rec.ID = "" // the id travels in the path, not the body
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	ctx, span := telemetry.StartSpan(o.ctx, "elastic-sink", "create "+index)
	defer span.End()

	endpoint := fmt.Sprintf("%s/%s/_create/%s", o.address, index, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build index request: %w", err)
	}
	req.Header.Set("Authorization", "ApiKey "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := o.client.Do(req)
	if err != nil {
		err = fmt.Errorf("index request: %w", err)
		telemetry.RecordError(span, err)
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", slog.Any("err", err))
		}
	}()
	telemetry.IndexRequestDuration.Observe(time.Since(start).Seconds())

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusConflict:
		telemetry.IndexConflicts.Inc()
		slog.Info("message already indexed", slog.String("id", id))
		return nil
	default:
		telemetry.IndexErrors.Inc()
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if readErr != nil {
			respBody = []byte("<failed to read response body>")
		}
		slog.Error("failed to index message",
			slog.String("id", id),
			slog.Int("status", resp.StatusCode),
			slog.String("payload", string(body)),
			slog.String("response", string(respBody)))
		return nil
	}
}

func (o *ElasticOutput) Close() error { return nil }
