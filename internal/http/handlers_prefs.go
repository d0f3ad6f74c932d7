package http

import (
	"net/http"

	"soldi/internal/prefs"
)

type preferencesView struct {
	Theme  string `json:"theme"`
	Level  int    `json:"level"`
	XP     int    `json:"xp"`
	PINSet bool   `json:"pin_set"`
}

func (h *handlers) getPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, preferencesView{
		Theme:  string(h.preferences.Theme()),
		Level:  h.preferences.Level(),
		XP:     h.preferences.XP(),
		PINSet: h.preferences.HasPIN(),
	})
}

type themeRequest struct {
	Theme string `json:"theme"`
}

func (h *handlers) setTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.preferences.SetTheme(prefs.Theme(req.Theme)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
}

type pinRequest struct {
	PIN string `json:"pin"`
}

func (h *handlers) setPIN(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.preferences.SetPIN(req.PIN); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) clearPIN(w http.ResponseWriter, r *http.Request) {
	if err := h.preferences.ClearPIN(); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) verifyPIN(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": h.preferences.VerifyPIN(req.PIN)})
}

type xpRequest struct {
	Amount int `json:"amount"`
}

func (h *handlers) addXP(w http.ResponseWriter, r *http.Request) {
	var req xpRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	level, err := h.preferences.AddXP(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"level": level, "xp": h.preferences.XP()})
}
