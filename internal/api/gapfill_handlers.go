package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func gapFillHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := chi.URLParam(r, "date")
		suggestions, err := svc.GapFillSuggestions(r.Context(), date)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, GapFillResponse{Date: date, Suggestions: suggestions})
	}
}

// gapFillMessageHandler only renders the outreach text; booking is a
// separate call to gapFillBookHandler.
func gapFillMessageHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GapFillMessageRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Suggestion.PatientName == "" || req.Suggestion.AvailableSlot == "" {
			writeError(w, http.StatusBadRequest, "invalid_suggestion", "suggestion needs patient_name and available_slot")
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: svc.ComposeOutreach(req.Suggestion, req.Date)})
	}
}

func gapFillBookHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GapFillBookRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		appt, err := svc.QuickBook(r.Context(), req.Suggestion, req.Date, req.CreatedBy)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, appt)
	}
}
