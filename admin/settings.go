package admin

import (
	"errors"
	"net/http"

	"flickr-embed/settings"
)

func (s *server) settingsHandler(w http.ResponseWriter, r *http.Request) {
	data := M{"KeyLength": settings.KeyLength}
	status := http.StatusOK

	if r.Method == http.MethodPost {
		err := s.credentials.SetCredential(r.Context(), r.FormValue(settings.CredentialName))
		switch {
		case err == nil:
			data["Saved"] = true
		case errors.Is(err, settings.ErrKeyRejected):
			data["Error"] = "Invalid Flickr API key: Flickr rejected the key."
		case errors.Is(err, settings.ErrEmptyKey), errors.Is(err, settings.ErrNotAlphanumeric):
			data["Error"] = "Flickr API keys are alphanumeric."
		default:
			data["Error"] = err.Error()
		}
		if err != nil {
			status = http.StatusUnprocessableEntity
		}
	}

	key, err := s.credentials.Credential(r.Context())
	if err != nil {
		data["Error"] = err.Error()
	}
	data["Key"] = key
	templateResponseStatus(w, r, "settings.tmpl.html", data, status)
}
