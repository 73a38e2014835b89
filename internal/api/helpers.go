package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/samandr77/microservices/bills/internal/entity"
)

const errInternalText = "Erreur interne"

type ResponseError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
}

func SendErr(ctx context.Context, w http.ResponseWriter, code int, err error, msg string) {
	slog.ErrorContext(ctx, "api error", "error", err, "code", code)

	resp := ResponseError{Message: msg, Error: err.Error()}

	var validationErr *entity.ValidationError
	if errors.As(err, &validationErr) {
		resp.Field = validationErr.Field
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err = json.NewEncoder(w).Encode(resp)
	if err != nil {
		slog.ErrorContext(ctx, "api error", "error", err, "code", http.StatusInternalServerError)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func SendJSON(ctx context.Context, w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		SendErr(ctx, w, http.StatusInternalServerError, err, "")
		return
	}
}

// sendServiceErr maps the errors of BillList and NewBillForm to HTTP answers.
func sendServiceErr(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		validationErr *entity.ValidationError
		transportErr  *entity.TransportError
	)

	switch {
	case errors.Is(err, entity.ErrUnauthorized):
		SendErr(ctx, w, http.StatusUnauthorized, err, "Session expirée, veuillez vous reconnecter")
	case errors.Is(err, entity.ErrForbidden):
		SendErr(ctx, w, http.StatusForbidden, err, "Page réservée aux employés")
	case errors.As(err, &validationErr):
		SendErr(ctx, w, http.StatusUnprocessableEntity, err, "Champ invalide")
	case errors.Is(err, entity.ErrNoDraft):
		SendErr(ctx, w, http.StatusConflict, err, "Veuillez d'abord joindre un justificatif")
	case errors.Is(err, entity.ErrStaleUpload):
		SendErr(ctx, w, http.StatusConflict, err, "Un autre justificatif a été sélectionné")
	case errors.Is(err, entity.ErrFormSubmitted):
		SendErr(ctx, w, http.StatusConflict, err, "Note de frais déjà envoyée")
	case errors.Is(err, entity.ErrNotFound):
		SendErr(ctx, w, http.StatusNotFound, err, "Note de frais introuvable")
	case errors.As(err, &transportErr):
		SendErr(ctx, w, http.StatusBadGateway, err, "Le serveur des notes de frais ne répond pas, réessayez")
	default:
		SendErr(ctx, w, http.StatusInternalServerError, err, errInternalText)
	}
}
