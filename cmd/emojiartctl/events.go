package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"emojiart-be/pkg/events"
	pktNats "emojiart-be/pkg/nats"

	"github.com/spf13/cobra"
)

func init() {
	var natsURL, eventType string
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Follow domain events until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := pktNats.NewSubscriber(natsURL)
			if err != nil {
				return err
			}
			defer sub.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = sub.Subscribe(ctx, eventType, "", func(_ context.Context, e events.Event) error {
				fmt.Printf("%s %-24s %v\n", e.Timestamp().Format(time.RFC3339), e.EventType(), e.Payload())
				return nil
			})
			if err != nil {
				return err
			}

			<-ctx.Done()
			return nil
		},
	}
	eventsCmd.Flags().StringVar(&natsURL, "nats", envOr("NATS_URL", "nats://localhost:4222"), "NATS server URL")
	eventsCmd.Flags().StringVar(&eventType, "type", "", "Only this event type (default all)")
	rootCmd.AddCommand(eventsCmd)
}
