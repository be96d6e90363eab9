package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/romdo/go-debounce"
	"github.com/spf13/cobra"

	"github.com/wanderly/wanderly/cli/helpers"
	"github.com/wanderly/wanderly/pkg/config"
	"github.com/wanderly/wanderly/pkg/logger"
)

// DefaultWatchDebounce coalesces the burst of events editors emit on save.
const DefaultWatchDebounce = 100 * time.Millisecond

func WatchCmd() *cobra.Command {
	var (
		out  string
		wait time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-certify a draft every time it changes",
		Long: `Watch certifies the draft once and again after every write to it, until
interrupted. Results go to --out, or to stdout when it is not set. Drafts that
fail certification are logged and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchFile(ctx, cmd, args[0], out, wait)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "File the certified itinerary is written to")
	cmd.Flags().DurationVar(&wait, "debounce", DefaultWatchDebounce, "Quiet period before re-certifying")
	return cmd
}

func watchFile(ctx context.Context, cmd *cobra.Command, path, out string, wait time.Duration) error {
	log := logger.FromContext(ctx).With("file", path)
	watcher, err := config.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	watcher.SetLogger(log)

	p := newPipeline(ctx)
	writer := newWriter(ctx, cmd.OutOrStdout())
	var mu sync.Mutex
	certify := func() {
		mu.Lock()
		defer mu.Unlock()
		doc, err := helpers.ReadDocument(path, nil)
		if err != nil {
			log.Error("Failed to read draft", "error", err)
			return
		}
		certified, err := p.Certify(ctx, doc)
		if err != nil {
			log.Error("Draft rejected", "error", err)
			return
		}
		if out == "" {
			err = writer.WriteData(certified)
		} else {
			err = writer.WriteFile(out, certified)
		}
		if err != nil {
			log.Error("Failed to write itinerary", "error", err)
			return
		}
		log.Info("Itinerary certified", "blocks", certified.BlockCount())
	}

	certify()
	onChange, cancel := debounce.New(wait, certify)
	defer cancel()
	watcher.OnChange(onChange)
	if err := watcher.Watch(ctx, path); err != nil {
		return err
	}
	log.Info("Watching for changes")
	<-ctx.Done()
	return nil
}
