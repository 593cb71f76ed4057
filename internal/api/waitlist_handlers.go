package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ahmedakg/dental-app-sub001/internal/appointment"
	"github.com/ahmedakg/dental-app-sub001/internal/schedule"
)

func listWaitlistHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.ListWaitlist(r.Context())
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, WaitlistResponse{Entries: entries})
	}
}

func addWaitlistHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddWaitlistRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		patientID, err := uuid.Parse(req.PatientID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
			return
		}

		entry, err := svc.AddToWaitlist(r.Context(), appointment.WaitlistRequest{
			PatientID:     patientID,
			PatientName:   req.PatientName,
			PatientPhone:  req.PatientPhone,
			RequestedDate: req.RequestedDate,
			Priority:      schedule.WaitlistPriority(req.Priority),
			Reason:        req.Reason,
		})
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, entry)
	}
}

func notifyWaitlistHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "invalid_waitlist_id")
		if !ok {
			return
		}

		entry, err := svc.MarkWaitlistNotified(r.Context(), id)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, entry)
	}
}

func removeWaitlistHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "invalid_waitlist_id")
		if !ok {
			return
		}

		if err := svc.RemoveFromWaitlist(r.Context(), id); err != nil {
			handleServiceError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
