package main

import (
	"context"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/ahmedakg/dental-app-sub001/internal/config"
	"github.com/ahmedakg/dental-app-sub001/internal/db"
	"github.com/ahmedakg/dental-app-sub001/internal/logging"
	"github.com/ahmedakg/dental-app-sub001/internal/schedule"
)

const (
	patientCount = 400
	daysBack     = 14
	daysAhead    = 14
	fillRatio    = 0.6
)

var treatments = []string{
	"Root canal",
	"Crown fitting",
	"Scaling and polishing",
	"Filling",
	"Wisdom tooth extraction",
	"Braces adjustment",
	"Whitening",
	"Implant consultation",
	"Gum treatment",
	"Veneers",
}

type seededPatient struct {
	id    uuid.UUID
	name  string
	phone string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}
	logging.Init("seed", cfg.Env, cfg.LogLevel)
	log.Info().Msg("seed starting")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	gofakeit.Seed(time.Now().UnixNano())

	patients, err := seedPatients(ctx, pool, patientCount)
	if err != nil {
		log.Fatal().Err(err).Msg("seed patients")
	}
	if err := seedTreatmentPlans(ctx, pool, patients); err != nil {
		log.Fatal().Err(err).Msg("seed treatment plans")
	}
	if err := seedAppointments(ctx, pool, cfg, patients); err != nil {
		log.Fatal().Err(err).Msg("seed appointments")
	}

	log.Info().Msg("seed complete")
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) ([]seededPatient, error) {
	log.Info().Int("count", count).Msg("seeding patients")

	const batchSize = 200

	patients := make([]seededPatient, 0, count)
	now := time.Now()

	for offset := 0; offset < count; offset += batchSize {
		end := min(offset+batchSize, count)

		tx, err := pool.Begin(ctx)
		if err != nil {
			return nil, err
		}

		for i := offset; i < end; i++ {
			p := seededPatient{
				id:    uuid.New(),
				name:  gofakeit.Name(),
				phone: gofakeit.Phone(),
			}

			var lastVisit *time.Time
			if gofakeit.Bool() {
				d := gofakeit.DateRange(now.AddDate(-2, 0, 0), now.AddDate(0, 0, -daysBack))
				lastVisit = &d
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO patients (id, name, phone, email, last_visit, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, now(), now())
			`, p.id, p.name, p.phone, gofakeit.Email(), lastVisit)
			if err != nil {
				_ = tx.Rollback(ctx)
				return nil, err
			}
			patients = append(patients, p)
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}

		log.Info().Int("seeded", end).Int("total", count).Msg("patients batch committed")
	}

	return patients, nil
}

// seedTreatmentPlans gives roughly a third of patients an open plan so the
// gap-fill query has candidates to rank.
func seedTreatmentPlans(ctx context.Context, pool *pgxpool.Pool, patients []seededPatient) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	seeded := 0
	for _, p := range patients {
		if gofakeit.Number(0, 2) != 0 {
			continue
		}
		status := gofakeit.RandomString([]string{"pending", "in_progress"})
		_, err := tx.Exec(ctx, `
			INSERT INTO treatment_plans (id, patient_id, description, status, priority, created_at)
			VALUES ($1, $2, $3, $4, $5, now())
		`, uuid.New(), p.id, treatments[gofakeit.Number(0, len(treatments)-1)], status, gofakeit.Number(1, 10))
		if err != nil {
			return err
		}
		seeded++
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Info().Int("count", seeded).Msg("treatment plans seeded")
	return nil
}

// seedAppointments fills part of the grid around today. Past days get
// terminal statuses, today and later stay scheduled.
func seedAppointments(ctx context.Context, pool *pgxpool.Pool, cfg config.Config, patients []seededPatient) error {
	slots := schedule.GenerateTimeSlots(cfg.Hours)
	today := time.Now().In(cfg.Location)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	seeded := 0
	for offset := -daysBack; offset <= daysAhead; offset++ {
		day := today.AddDate(0, 0, offset)
		if day.Weekday() == time.Sunday {
			continue
		}
		date := day.Format(schedule.DateLayout)

		for _, slot := range slots {
			if gofakeit.Float64Range(0, 1) > fillRatio {
				continue
			}
			p := patients[gofakeit.Number(0, len(patients)-1)]
			status := seededStatus(offset)
			apptType := schedule.TypeGeneral
			if gofakeit.Number(0, 4) == 0 {
				apptType = schedule.TypeOrthodontist
			}

			tag, err := tx.Exec(ctx, `
				INSERT INTO appointments
					(id, patient_id, patient_name, patient_phone, date, time, duration, type, status, reason, created_by)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'seed')
				ON CONFLICT DO NOTHING
			`, uuid.New(), p.id, p.name, p.phone, date, slot.Clock(), schedule.DefaultDuration,
				string(apptType), string(status), treatments[gofakeit.Number(0, len(treatments)-1)])
			if err != nil {
				return err
			}
			seeded += int(tag.RowsAffected())
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Info().Int("count", seeded).Msg("appointments seeded")
	return nil
}

func seededStatus(dayOffset int) schedule.Status {
	if dayOffset >= 0 {
		return schedule.StatusScheduled
	}
	switch n := gofakeit.Number(0, 9); {
	case n < 7:
		return schedule.StatusCompleted
	case n < 9:
		return schedule.StatusCancelled
	default:
		return schedule.StatusNoShow
	}
}
