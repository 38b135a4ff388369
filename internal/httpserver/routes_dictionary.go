package httpserver

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/motus/internal/dictionary"
)

type dictionaryRes struct {
	Key     string `json:"key"`
	Words   int    `json:"words"`
	Word    string `json:"word,omitempty"`
	HasWord *bool  `json:"hasWord,omitempty"`
}

// handleDictionary serves GET /dictionary/{key}[?word=...]: the size of a
// decoded partition and, when word is given, whether it belongs to it.
func (s *Server) handleDictionary(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	set, err := s.lib.Dictionary(r.Context(), key)
	switch {
	case errors.Is(err, dictionary.ErrInvalidKey):
		jsonError(w, http.StatusBadRequest, "invalid_key")
		return
	case errors.Is(err, fs.ErrNotExist):
		jsonError(w, http.StatusNotFound, "dictionary_not_found")
		return
	case err != nil:
		log.Error().Err(err).Str("key", key).Msg("load dictionary")
		jsonError(w, http.StatusInternalServerError, "dictionary_unavailable")
		return
	}

	res := dictionaryRes{Key: key, Words: set.Len()}
	if word := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("word"))); word != "" {
		has := set.Has(word)
		res.Word, res.HasWord = word, &has
	}
	_ = json.NewEncoder(w).Encode(res)
}
