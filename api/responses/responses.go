package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
	"github.com/meetpatel1235/rrrr/pkg/logger"
)

var exposeStack atomic.Bool

// ExposeStack toggles including the error chain of 5xx responses in the
// payload. Servers enable it outside production.
func ExposeStack(enabled bool) {
	exposeStack.Store(enabled)
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Success{Data: data})
}

// WriteError renders err as the standard error envelope. Client errors carry
// their own message; server errors fall back to the public message of the code.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	code := typed.Code()
	meta := code.Metadata()

	apiErr := ErrorBody{Code: string(code), Message: meta.PublicMessage}
	if code.ClientFacing() && typed.Message() != "" {
		apiErr.Message = typed.Message()
	}
	if meta.DetailsAllowed {
		apiErr.Details = typed.Details()
	}

	dump := pkgerrors.Dump(err)
	if meta.HTTPStatus >= http.StatusInternalServerError && exposeStack.Load() {
		apiErr.Stack = dump.Chain
	}

	if logg != nil {
		logRequestError(ctx, logg, meta.HTTPStatus, dump, err)
	}

	writeJSON(w, meta.HTTPStatus, Failure{Error: apiErr})
}

func logRequestError(ctx context.Context, logg *logger.Logger, status int, dump pkgerrors.ErrorDump, err error) {
	fields := map[string]any{
		"status":      status,
		"error_code":  dump.Code,
		"error_chain": dump.Chain,
	}
	if dump.PGCode != "" {
		fields["pg_code"] = dump.PGCode
		fields["pg_message"] = dump.PGMessage
		fields["pg_detail"] = dump.PGDetail
		fields["pg_table"] = dump.PGTable
		fields["pg_column"] = dump.PGColumn
		fields["pg_constraint"] = dump.PGConstraint
	}
	ctx = logg.WithFields(ctx, fields)

	if status < http.StatusInternalServerError {
		logg.Warn(ctx, "request.rejected: "+dump.TopMessage)
		return
	}
	logg.Error(ctx, "request.error", err)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Int("status", status).Msg("response.encode_failed")
	}
}
