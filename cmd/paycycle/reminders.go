package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"paycycle/internal/amqp"
	"paycycle/internal/cli"
	"paycycle/internal/log"
	"paycycle/internal/scheduler"
	"paycycle/internal/worker"
)

// deliverSpec checks for due reminders every minute.
const deliverSpec = "* * * * *"

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Reminder queue tools",
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Consume reminder batches from AMQP and print each reminder when it fires",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	remindersCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(remindersCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.AMQPURL == "" {
		return errors.New("reminders watch needs AMQP_URL")
	}
	logger := cli.NewLogger(cmd.OutOrStdout(), cfg.LogLevel, cfg.LogFormat, log.ComponentNotify)

	client, err := amqp.NewClient(cmd.Context(), cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		return fmt.Errorf("connect to reminder queue: %w", err)
	}

	w := worker.NewReminderWorker(worker.LogDeliverer{Logger: logger}, logger)
	sched := scheduler.New(cfg.Location(), logger)
	if err := sched.AddJob("deliver", deliverSpec, w.DeliverDue); err != nil {
		client.Close()
		return err
	}
	sched.Start()

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(context.Context) {
		sched.Stop()
		if err := client.Close(); err != nil {
			logger.Error("Failed to close AMQP client", log.FieldError, err)
		}
	})

	err = client.ConsumeReminderBatches(ctx, w.HandleBatch)
	if ctx.Err() != nil {
		cli.WaitForShutdown(ctx, done)
		return nil
	}
	sched.Stop()
	client.Close()
	return err
}
