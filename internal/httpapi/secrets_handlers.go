package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"sitescout-engine/internal/secrets"
)

type SecretsHandler struct{}

type setGuesserKeyReq struct {
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
}

func (h SecretsHandler) SetGuesserKey(w http.ResponseWriter, r *http.Request) {
	var req setGuesserKeyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	if err := secrets.SetAPIKey(req.Provider, req.APIKey); err != nil {
		if errors.Is(err, secrets.ErrUnknownProvider) {
			WriteError(w, r, http.StatusBadRequest, "unknown_provider", err.Error())
			return
		}
		WriteError(w, r, http.StatusBadRequest, "keyring_error", "failed to store key: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
