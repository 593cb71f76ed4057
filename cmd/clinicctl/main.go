package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ahmedakg/dental-app-sub001/internal/appointment"
	"github.com/ahmedakg/dental-app-sub001/internal/config"
	"github.com/ahmedakg/dental-app-sub001/internal/db"
	"github.com/ahmedakg/dental-app-sub001/internal/logging"
	"github.com/ahmedakg/dental-app-sub001/internal/schedule"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "clinicctl",
		Short:         "Operator tooling for the clinic schedule",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(slotsCmd())
	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(dayCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(gapFillCmd())
	rootCmd.AddCommand(sweepCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// withService loads config, opens Postgres and hands a service to fn. The
// commands here never book, so no slot locker is wired.
func withService(ctx context.Context, fn func(ctx context.Context, svc *appointment.Service, pool *pgxpool.Pool) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Init("clinicctl", cfg.Env, cfg.LogLevel)

	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := appointment.NewPgRepository(pool)
	return fn(ctx, appointment.NewService(repo, repo, nil, cfg), pool)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, _ *appointment.Service, pool *pgxpool.Pool) error {
				if err := db.Migrate(ctx, pool); err != nil {
					return err
				}
				log.Info().Msg("schema applied")
				return nil
			})
		},
	}
}

func slotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Print the bookable slot grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			open, _ := cmd.Flags().GetString("open")
			closing, _ := cmd.Flags().GetString("close")
			step, _ := cmd.Flags().GetDuration("step")

			h := schedule.Hours{GeneralStart: open, GeneralEnd: closing, SlotDuration: step}
			if err := h.Validate(); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "24H\t12H")
			for _, s := range schedule.GenerateTimeSlots(h) {
				fmt.Fprintf(tw, "%s\t%s\n", s.Clock(), s.Display)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().String("open", schedule.DefaultHours.GeneralStart, "First slot, HH:MM")
	cmd.Flags().String("close", schedule.DefaultHours.GeneralEnd, "End of the day (exclusive), HH:MM")
	cmd.Flags().Duration("step", schedule.DefaultHours.SlotDuration, "Slot length")
	return cmd
}

func convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <time>",
		Short: `Convert between "15:30" and "3:30 PM"`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			if _, ok := schedule.ParseClock(in); ok {
				fmt.Fprintln(cmd.OutOrStdout(), schedule.Format24To12(in))
				return nil
			}
			out, ok := schedule.Parse12To24(in)
			if !ok {
				return fmt.Errorf("%w: %q", schedule.ErrInvalidTime, in)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func dayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "day <YYYY-MM-DD>",
		Short: "Show one day laid over the slot grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, svc *appointment.Service, _ *pgxpool.Pool) error {
				day, err := svc.DaySchedule(ctx, args[0])
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "TIME\tPATIENT\tTYPE\tSTATUS")
				for _, s := range day.Slots {
					if s.Appointment == nil {
						fmt.Fprintf(tw, "%s\t-\t\tfree\n", s.Time)
						continue
					}
					a := s.Appointment
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Time, a.PatientName, a.Type, a.Status)
				}
				return tw.Flush()
			})
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print today's counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, svc *appointment.Service, _ *pgxpool.Pool) error {
				st, err := svc.TodayStats(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"%s total=%d completed=%d scheduled=%d cancelled=%d no_show=%d empty_slots=%d\n",
					st.Date, st.Total, st.Completed, st.Scheduled, st.Cancelled, st.NoShow, st.EmptySlots)
				return nil
			})
		},
	}
}

func gapFillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gap-fill <YYYY-MM-DD>",
		Short: "List gap-fill suggestions for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			withMessages, _ := cmd.Flags().GetBool("messages")
			date := args[0]

			return withService(cmd.Context(), func(ctx context.Context, svc *appointment.Service, _ *pgxpool.Pool) error {
				suggestions, err := svc.GapFillSuggestions(ctx, date)
				if err != nil {
					return err
				}
				if len(suggestions) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no suggestions")
					return nil
				}

				out := cmd.OutOrStdout()
				for _, s := range suggestions {
					fmt.Fprintf(out, "%-9s %-24s %-24s priority=%d\n", s.AvailableSlot, s.PatientName, s.PendingTreatment, s.Priority)
					if withMessages {
						fmt.Fprintf(out, "    %s\n", svc.ComposeOutreach(s, date))
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().Bool("messages", false, "Also print the outreach message for each suggestion")
	return cmd
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-noshows",
		Short: "Mark overdue scheduled appointments as no-shows once",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			return withService(ctx, func(ctx context.Context, svc *appointment.Service, _ *pgxpool.Pool) error {
				marked, err := svc.SweepNoShows(ctx)
				if err != nil {
					return err
				}
				log.Info().Int("marked", marked).Msg("sweep complete")
				return nil
			})
		},
	}
}
