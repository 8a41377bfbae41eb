package inventory

import (
	"net/http"

	"github.com/meetpatel1235/rrrr/api/responses"
	"github.com/meetpatel1235/rrrr/api/validators"
	internalinventory "github.com/meetpatel1235/rrrr/internal/inventory"
	"github.com/meetpatel1235/rrrr/pkg/logger"
)

func guarded(svc internalinventory.Service, logg *logger.Logger, h responses.Handler) http.HandlerFunc {
	if svc == nil {
		return responses.Handle(logg, responses.Unavailable("inventory"))
	}
	return responses.Handle(logg, h)
}

// List returns catalogue items, optionally filtered by ?category= or a name
// search in ?q=.
func List(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return guarded(svc, logg, func(w http.ResponseWriter, r *http.Request) error {
		q := r.URL.Query()
		items, err := svc.List(r.Context(), internalinventory.ListFilters{
			Category: validators.SanitizeString(q.Get("category"), 60),
			Search:   validators.SanitizeString(q.Get("q"), 120),
		})
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, items)
		return nil
	})
}

func Detail(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return guarded(svc, logg, func(w http.ResponseWriter, r *http.Request) error {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			return err
		}
		item, err := svc.Get(r.Context(), id)
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, item)
		return nil
	})
}

func Create(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return guarded(svc, logg, func(w http.ResponseWriter, r *http.Request) error {
		var body internalinventory.CreateItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		body.Name = validators.SanitizeString(body.Name, 120)
		body.NameLocalized = validators.SanitizeString(body.NameLocalized, 120)
		body.Category = validators.SanitizeString(body.Category, 60)

		item, err := svc.Create(r.Context(), body)
		if err != nil {
			return err
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
		return nil
	})
}

func Update(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return guarded(svc, logg, func(w http.ResponseWriter, r *http.Request) error {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			return err
		}
		var body internalinventory.UpdateItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		validators.SanitizeOptional(body.Name, 120)
		validators.SanitizeOptional(body.NameLocalized, 120)
		validators.SanitizeOptional(body.Category, 60)

		item, err := svc.Update(r.Context(), id, body)
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, item)
		return nil
	})
}

// Delete removes an item no open order still holds.
func Delete(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return guarded(svc, logg, func(w http.ResponseWriter, r *http.Request) error {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			return err
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			return err
		}
		responses.WriteSuccess(w, map[string]string{"message": "Item removed"})
		return nil
	})
}
