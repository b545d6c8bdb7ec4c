package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/wledrelay/internal/events"
	"github.com/alfredjeanlab/wledrelay/internal/model"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Print the effect each time it changes",
	GroupID: "effect",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		natsURL, _ := cmd.Flags().GetString("nats-url")
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		w := &effectWatcher{}

		// Initial read.
		if err := w.poll(ctx); err != nil {
			return err
		}
		if once {
			return nil
		}

		if natsURL != "" {
			return w.watchNATS(ctx, natsURL)
		}
		return w.watchPoll(ctx, interval)
	},
}

// effectWatcher prints records that differ from the last one printed.
type effectWatcher struct {
	last    *model.EffectRecord
	printed bool
}

// observe prints rec if it differs from the previous observation.
func (w *effectWatcher) observe(rec *model.EffectRecord) bool {
	if w.printed && sameRecord(w.last, rec) {
		return false
	}
	w.last = rec
	w.printed = true
	printEffectLine(os.Stdout, rec)
	return true
}

func (w *effectWatcher) poll(ctx context.Context) error {
	rec, err := relayClient.GetEffect(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("getting effect: %w", err)
	}
	w.observe(rec)
	return nil
}

// watchNATS prints records carried on effect update events. After a
// reconnect the relay is polled once to catch writes missed while offline.
func (w *effectWatcher) watchNATS(ctx context.Context, natsURL string) error {
	reconnectCh := make(chan struct{}, 1)

	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
			select {
			case reconnectCh <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(events.TopicEffectUpdated)
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case data, ok := <-ch:
			if !ok {
				return nil
			}
			rec, err := events.DecodeEffectUpdated(data)
			if err != nil {
				log.Printf("skipping malformed event: %v", err)
				continue
			}
			w.observe(rec)
		case <-reconnectCh:
			if err := w.poll(ctx); err != nil {
				return err
			}
		}
	}
}

// watchPoll polls the relay at the given interval.
func (w *effectWatcher) watchPoll(ctx context.Context, interval time.Duration) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
		if err := w.poll(ctx); err != nil {
			return err
		}
	}
}

func sameRecord(a, b *model.EffectRecord) bool {
	if a == nil || b == nil {
		return a == b
	}
	return bytes.Equal(a.Effect, b.Effect) && a.UpdatedAt == b.UpdatedAt
}

func defaultNATSURL() string {
	return os.Getenv("WLED_NATS_URL")
}

func init() {
	watchCmd.Flags().String("nats-url", defaultNATSURL(), "NATS server for push updates (default $WLED_NATS_URL; polls when empty)")
	watchCmd.Flags().Duration("interval", 5*time.Second, "poll interval when NATS is not configured")
	watchCmd.Flags().Bool("once", false, "print the current effect and exit")
}
