package controllers

import (
	"net/http"

	"github.com/meetpatel1235/rrrr/api/middleware"
	"github.com/meetpatel1235/rrrr/api/responses"
	"github.com/meetpatel1235/rrrr/api/validators"
	"github.com/meetpatel1235/rrrr/internal/auth"
	"github.com/meetpatel1235/rrrr/internal/users"
	"github.com/meetpatel1235/rrrr/pkg/logger"
)

func serve(wired bool, service string, logg *logger.Logger, h responses.Handler) http.HandlerFunc {
	if !wired {
		return responses.Handle(logg, responses.Unavailable(service))
	}
	return responses.Handle(logg, h)
}

// AuthLogin exchanges email and password for an access/refresh token pair.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(svc != nil, "auth", logg, func(w http.ResponseWriter, r *http.Request) error {
		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		result, err := svc.Login(r.Context(), body)
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, result)
		return nil
	})
}

func AuthRefresh(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(svc != nil, "auth", logg, func(w http.ResponseWriter, r *http.Request) error {
		var body auth.RefreshRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		result, err := svc.Refresh(r.Context(), body)
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, result)
		return nil
	})
}

// AuthLogout revokes the session behind the presented access token.
func AuthLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(svc != nil, "auth", logg, func(w http.ResponseWriter, r *http.Request) error {
		if err := svc.Logout(r.Context(), middleware.SessionIDFrom(r.Context())); err != nil {
			return err
		}
		responses.WriteSuccess(w, map[string]string{"message": "Logged out"})
		return nil
	})
}

func AuthMe(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(svc != nil, "users", logg, func(w http.ResponseWriter, r *http.Request) error {
		actor, err := middleware.ActorID(r.Context())
		if err != nil {
			return err
		}
		user, err := svc.Get(r.Context(), actor)
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, user)
		return nil
	})
}

// AuthRegister lets an admin create a staff account.
func AuthRegister(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(svc != nil, "users", logg, func(w http.ResponseWriter, r *http.Request) error {
		var body users.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		body.Name = validators.SanitizeString(body.Name, 120)
		user, err := svc.Register(r.Context(), body)
		if err != nil {
			return err
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, user)
		return nil
	})
}

func UsersList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(svc != nil, "users", logg, func(w http.ResponseWriter, r *http.Request) error {
		list, err := svc.List(r.Context())
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, list)
		return nil
	})
}
