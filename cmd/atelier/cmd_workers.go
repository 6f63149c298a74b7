package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkwell-studio/atelier/app/tasks"
	"github.com/inkwell-studio/atelier/config"
	"github.com/inkwell-studio/atelier/internal/server"
	"github.com/inkwell-studio/atelier/pkg/queue"
	"github.com/inkwell-studio/atelier/pkg/schedule"
)

var (
	queueWorkersFlag int
	scheduleOnceFlag string
)

// atelier queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Process queued mail and notification jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if _, err := server.Boot(ctx); err != nil {
			return err
		}
		if config.QueueDriver() != "redis" {
			fmt.Println("⚠  QUEUE_DRIVER is not redis: this worker only sees jobs pushed by this process.")
		}

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 1
		}
		fmt.Printf("🚀 Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		queue.Default().Wait()
		fmt.Println("\n⚡ Queue worker stopped.")
		return nil
	},
}

// atelier schedule:run
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Run the maintenance scheduler (bookings:complete, carts:prune)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		db, err := server.BootDB()
		if err != nil {
			return err
		}
		s := schedule.New()
		if err := tasks.Register(s, db); err != nil {
			return err
		}

		if scheduleOnceFlag != "" {
			return s.RunNow(ctx, scheduleOnceFlag)
		}

		s.Start(ctx)
		fmt.Println("Registered scheduled tasks:")
		for _, e := range s.Entries() {
			fmt.Printf("  • %-20s %-8s next %s\n", e.Name, e.Spec, e.Next.Format(time.RFC3339))
		}
		fmt.Println("🕐 Scheduler started. Press Ctrl+C to stop.")

		<-ctx.Done()
		s.Stop()
		fmt.Println("\n⚡ Scheduler stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 4, "Number of concurrent workers")
	scheduleRunCmd.Flags().StringVar(&scheduleOnceFlag, "once", "", "Run one task by name and exit")
}
