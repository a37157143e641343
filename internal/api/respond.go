package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/louisbranch/demobank/internal/platform/errors"
	"github.com/louisbranch/demobank/internal/platform/requestctx"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, logger zerolog.Logger, r *http.Request, err error) {
	code := apperrors.GetCode(err)
	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", requestctx.RequestIDFromContext(r.Context())).
			Str("code", string(code)).
			Msg("request failed")
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:    code,
		Message: apperrors.UserMessage(err, apperrors.DefaultLocale),
	}})
}

// decodeBody strictly decodes a JSON request body holding exactly one value
// into target.
func decodeBody(r *http.Request, w http.ResponseWriter, target any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		reason := "malformed JSON body"
		if errors.Is(err, io.EOF) {
			reason = "request body is required"
		}
		return apperrors.WrapWithMetadata(
			apperrors.CodeInvalidArgument,
			fmt.Sprintf("decode request: %s", reason),
			map[string]string{"Field": "body", "Reason": reason},
			err,
		)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		reason := "unexpected trailing content"
		return apperrors.WithMetadata(
			apperrors.CodeInvalidArgument,
			"decode request: "+reason,
			map[string]string{"Field": "body", "Reason": reason},
		)
	}
	return nil
}
