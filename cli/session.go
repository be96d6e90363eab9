package cli

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/wanderly/wanderly/cli/helpers"
	"github.com/wanderly/wanderly/engine/itinerary/pipeline"
	"github.com/wanderly/wanderly/engine/session"
	"github.com/wanderly/wanderly/pkg/config"
)

// newSessionService builds a session service backed by the configured store.
// The returned func releases the store's resources.
func newSessionService(ctx context.Context) (*session.Service, func() error, error) {
	cfg := config.FromContext(ctx)
	store, closeFn, err := newSessionStore(&cfg.Session, &cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	svc := session.NewService(store, newPipeline(ctx), session.WithCertifiedEdits(cfg.Itinerary.CertifyEdits))
	return svc, closeFn, nil
}

func newSessionStore(cfg *config.SessionConfig, redisCfg *config.RedisConfig) (pipeline.SessionStore, func() error, error) {
	switch cfg.Store {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password.Value(),
			DB:       redisCfg.DB,
		})
		return session.NewRedisStore(client, cfg.KeyPrefix, cfg.TTL), client.Close, nil
	case "memory", "":
		return session.NewMemoryStore(cfg.CacheSize, cfg.TTL), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}

func SessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage conversation sessions in the configured store",
		Long: `Session commands keep one document per conversation in the configured
session store. Use the redis store to share sessions between invocations.`,
	}
	cmd.AddCommand(sessionOpenCmd(), sessionEditCmd(), sessionShowCmd(), sessionEndCmd())
	return cmd
}

// withSession runs fn with a session service and closes it afterwards.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, svc *session.Service) error) (err error) {
	ctx := cmd.Context()
	svc, closeFn, err := newSessionService(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeFn(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close session store: %w", cerr)
		}
	}()
	return fn(ctx, svc)
}

func sessionOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <session-id> [file]",
		Short: "Certify a document and store it as the session's itinerary",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := helpers.ReadDocument(inputs(args[1:])[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, svc *session.Service) error {
				certified, err := svc.Open(ctx, args[0], doc)
				if err != nil {
					return err
				}
				return newWriter(ctx, cmd.OutOrStdout()).WriteData(certified)
			})
		},
	}
}

func sessionEditCmd() *cobra.Command {
	var opFlags operationFlags
	cmd := &cobra.Command{
		Use:   "edit <session-id>",
		Short: "Apply an edit to the session's itinerary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := opFlags.operation(cmd)
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, svc *session.Service) error {
				outcome, err := svc.Edit(ctx, args[0], op)
				if err != nil {
					return err
				}
				return newWriter(ctx, cmd.OutOrStdout()).WriteData(outcome)
			})
		},
	}
	opFlags.register(cmd)
	return cmd
}

func sessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print the session's itinerary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, svc *session.Service) error {
				doc, err := svc.Current(ctx, args[0])
				if err != nil {
					return err
				}
				return newWriter(ctx, cmd.OutOrStdout()).WriteData(doc)
			})
		},
	}
}

func sessionEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <session-id>",
		Short: "Forget a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, svc *session.Service) error {
				return svc.End(ctx, args[0])
			})
		},
	}
}
