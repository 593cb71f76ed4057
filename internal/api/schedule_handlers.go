package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ahmedakg/dental-app-sub001/internal/appointment"
	"github.com/ahmedakg/dental-app-sub001/internal/schedule"
)

func slotsHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, SlotsResponse{Slots: svc.Slots()})
	}
}

// availabilityHandler accepts time as "15:30" or "3:30 PM".
func availabilityHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		clock := r.URL.Query().Get("time")
		if _, ok := schedule.ParseClock(clock); !ok {
			converted, ok := schedule.Parse12To24(clock)
			if !ok {
				writeError(w, http.StatusBadRequest, "invalid_time", schedule.ErrInvalidTime.Error())
				return
			}
			clock = converted
		}

		available, err := svc.IsSlotAvailable(r.Context(), date, clock)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, AvailabilityResponse{Date: date, Time: clock, Available: available})
	}
}

func nextAvailableHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot, err := svc.NextAvailableToday(r.Context())
		if errors.Is(err, appointment.ErrNoSlotAvailable) {
			writeJSON(w, http.StatusOK, NextAvailableResponse{Available: false})
			return
		}
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, NextAvailableResponse{Slot: &slot, Available: true})
	}
}

func dayScheduleHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := svc.DaySchedule(r.Context(), chi.URLParam(r, "date"))
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, day)
	}
}

func weekHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := chi.URLParam(r, "start")
		days, err := svc.Week(r.Context(), start)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, WeekResponse{Start: start, Days: days})
	}
}

// monthHandler takes a 1-based month on the wire.
func monthHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := strconv.Atoi(chi.URLParam(r, "year"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_year", "year must be a number")
			return
		}
		month, err := strconv.Atoi(chi.URLParam(r, "month"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_month", "month must be a number")
			return
		}

		days, err := svc.Month(r.Context(), year, month-1)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, MonthResponse{Year: year, Month: month, Days: days})
	}
}

func statsHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.TodayStats(r.Context())
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}
