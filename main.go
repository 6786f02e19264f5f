// Command chat-archiver records Twitch chat. It:
//   - Connects to Twitch IRC over TLS and joins one or more channels.
//   - Normalizes messages and writes them to a sink: raw IRC lines,
//     NDJSON records, or an Elasticsearch index.
//   - Replays previously captured raw logs into Elasticsearch bulk files
//     with the backfill subcommand.
//   - Exposes a minimal HTTP server with /healthz and /metrics while live.
//
// Shutdown is graceful on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/onnwee/chat-archiver/archive"
	"github.com/onnwee/chat-archiver/backfill"
	"github.com/onnwee/chat-archiver/config"
	"github.com/onnwee/chat-archiver/server"
	"github.com/onnwee/chat-archiver/sink"
	"github.com/onnwee/chat-archiver/telemetry"
)

const version = "1.0.0"

var (
	// archive flags
	channels      []string
	nick          string
	pass          string
	dontFilter    bool
	rotationLimit int

	// backfill flags
	outputPattern string
	indexName     string
	chunkSize     int
)

var rootCmd = &cobra.Command{
	Use:           "chat-archiver",
	Short:         "Record Twitch chat to files or Elasticsearch",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Connect to Twitch chat and stream messages to a sink",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Twitch echoes channels lowercased and without the '#'; normalize
		// here so index mappings and joins agree.
		for i, ch := range channels {
			channels[i] = strings.ToLower(strings.TrimPrefix(ch, "#"))
		}
	},
}

var archiveIRCCmd = &cobra.Command{
	Use:   "irc [file]",
	Short: "Write raw IRC lines (stdout, or a size-rotated file)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := sink.NewIRCOutput(fileOrStdout(args))
		return runArchive(cmd, out)
	},
}

var archiveJSONCmd = &cobra.Command{
	Use:   "json [file]",
	Short: "Write NDJSON records (stdout, or a size-rotated file)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := sink.NewJSONOutput(fileOrStdout(args), nil)
		return runArchive(cmd, out)
	},
}

var archiveElasticCmd = &cobra.Command{
	Use:   "elastic <address> <api-key-file> <index>...",
	Short: "Index records into Elasticsearch",
	Long: `Index records into Elasticsearch over its HTTP API.

A single index maps to every joined channel when it contains "*", which is
replaced by the channel name. Otherwise one index must be given per channel,
pairing positionally with --channel.`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		indices, err := sink.BuildIndexMapping(channels, args[2:])
		if err != nil {
			return err
		}
		out, err := sink.NewElasticOutput(cmd.Context(), args[0], args[1], indices, nil)
		if err != nil {
			return err
		}
		return runArchive(cmd, out)
	},
}

var (
	rewriteOutput string
	compactIDs    bool
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [input]",
	Short: "Re-compress an archived raw IRC log",
	Long: `Re-compress an archived raw IRC log: parse each line, drop protocol noise
and redundant metadata, optionally re-encode message-id tags to their compact
form, and write the result back out in wire format.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer func() {
				if err := f.Close(); err != nil {
					slog.Error("failed to close input", slog.Any("err", err))
				}
			}()
			in = f
		}

		var w io.Writer = os.Stdout
		if rewriteOutput != "" {
			f, err := os.Create(rewriteOutput)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			w = f
		}
		out := sink.NewIRCOutput(w)
		defer func() {
			if err := out.Close(); err != nil {
				slog.Error("failed to close output", slog.Any("err", err))
			}
		}()

		return backfill.RewriteWire(cmd.Context(), in, out, dontFilter, compactIDs)
	},
}

var backfillCmd = &cobra.Command{
	Use:   "backfill [input]",
	Short: "Convert a raw IRC log into Elasticsearch bulk NDJSON chunks",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer func() {
				if err := f.Close(); err != nil {
					slog.Error("failed to close input", slog.Any("err", err))
				}
			}()
			in = f
		}

		r := backfill.NewRunner(in)
		r.OutputPattern = outputPattern
		r.Index = indexName
		r.ChunkSize = chunkSize
		r.DontFilter = dontFilter
		return r.Run(cmd.Context())
	},
}

func init() {
	archiveCmd.PersistentFlags().StringArrayVarP(&channels, "channel", "c", nil, "channel to join (repeatable)")
	archiveCmd.PersistentFlags().StringVar(&nick, "nick", "", "login nick (default TWITCH_NICK, or anonymous)")
	archiveCmd.PersistentFlags().StringVar(&pass, "pass", "", "login pass (default TWITCH_PASS)")
	archiveCmd.PersistentFlags().BoolVar(&dontFilter, "dont-filter", false, "keep protocol noise instead of dropping it")
	archiveCmd.PersistentFlags().IntVar(&rotationLimit, "rotation-limit", sink.DefaultRotationLimit, "rotate file outputs after this many bytes")
	archiveCmd.AddCommand(archiveIRCCmd, archiveJSONCmd, archiveElasticCmd)

	backfillCmd.Flags().StringVar(&outputPattern, "output", backfill.DefaultOutputPattern, "output file pattern; % becomes the chunk number")
	backfillCmd.Flags().StringVar(&indexName, "index", backfill.DefaultIndex, "target index named in each bulk action")
	backfillCmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "flush a chunk once it reaches this many bytes (0 = single file)")
	backfillCmd.Flags().BoolVar(&dontFilter, "dont-filter", false, "keep protocol noise instead of dropping it")

	rewriteCmd.Flags().StringVar(&rewriteOutput, "output", "", "output file (default stdout)")
	rewriteCmd.Flags().BoolVar(&compactIDs, "compact-ids", false, "re-encode message-id tags to the compact form")
	rewriteCmd.Flags().BoolVar(&dontFilter, "dont-filter", false, "keep protocol noise instead of dropping it")

	rootCmd.AddCommand(archiveCmd, backfillCmd, rewriteCmd)
}

// fileOrStdout opens a size-rotated writer for the optional path argument,
// falling back to stdout.
func fileOrStdout(args []string) io.Writer {
	if len(args) == 0 {
		return os.Stdout
	}
	return sink.NewRotatingWriter(args[0], rotationLimit)
}

func runArchive(cmd *cobra.Command, out sink.Output) error {
	defer func() {
		if err := out.Close(); err != nil {
			slog.Error("failed to close output", slog.Any("err", err))
		}
	}()

	if len(channels) == 0 {
		return errors.New("at least one --channel is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if nick == "" {
		nick = cfg.Nick
	}
	if pass == "" {
		pass = cfg.Pass
	}

	ctx := cmd.Context()

	go func() {
		if err := server.Start(ctx, cfg.HTTPAddr); err != nil {
			slog.Error("http server exited", slog.Any("err", err))
		}
	}()

	sess := &archive.Session{
		Addr:       cfg.IRCAddr,
		Nick:       nick,
		Pass:       pass,
		Channels:   channels,
		DontFilter: dontFilter,
		Output:     out,
	}
	return sess.Run(ctx)
}

func main() {
	// Load .env file if present (local dev convenience only; production relies on real env)
	_ = godotenv.Load()

	// Configure logging (level + format). Defaults: level=info, format=text.
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info", "":
		// keep default
	default:
		tmp := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	var handler slog.Handler
	switch strings.ToLower(os.Getenv("LOG_FORMAT")) {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	default:
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))

	telemetry.Init()

	// Initialize OpenTelemetry tracing (optional; requires OTEL_EXPORTER_OTLP_ENDPOINT)
	shutdown, err := telemetry.InitTracing("chat-archiver", version)
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		shutdown()
		slog.Error("command failed", slog.Any("err", err))
		os.Exit(1)
	}
}
