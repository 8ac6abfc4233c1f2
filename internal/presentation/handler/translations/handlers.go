package translations

import (
	"context"
	"net/http"

	"github.com/murmurchat/murmur/internal/infrastructure/json"
	"github.com/murmurchat/murmur/internal/infrastructure/validate"
)

const maxTextLength = 5000

// Translator abstracts the translation API client.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
	TranslateAuto(ctx context.Context, text, targetLang string) (string, error)
}

type Handler struct {
	translator Translator
}

func NewHandler(translator Translator) *Handler {
	return &Handler{translator: translator}
}

var langCode = validate.Matches(`^[a-z]{2}$`, "must be a 2-letter ISO 639-1 code")

// TranslateHandler translates text between languages. An empty or "auto"
// source language triggers detection.
func (h *Handler) TranslateHandler(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := validate.Field("text", validate.Required(), validate.MaxLength(maxTextLength))(req.Text); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if err := validate.Field("target_lang", validate.Required(), langCode)(req.TargetLang); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = "auto"
	}
	if sourceLang != "auto" {
		if err := validate.Field("source_lang", langCode)(sourceLang); err != nil {
			json.WriteValidationError(w, err)
			return
		}
	}

	ctx := r.Context()
	var (
		translated string
		err        error
	)
	if sourceLang == "auto" {
		translated, err = h.translator.TranslateAuto(ctx, req.Text, req.TargetLang)
	} else {
		translated, err = h.translator.Translate(ctx, req.Text, sourceLang, req.TargetLang)
	}
	if err != nil {
		json.WriteError(w, http.StatusBadGateway, err, "Translation failed. Check if the language codes are supported.")
		return
	}

	json.Write(w, http.StatusOK, translateResponse{
		OriginalText:   req.Text,
		TranslatedText: translated,
		SourceLang:     sourceLang,
		TargetLang:     req.TargetLang,
		Message:        "Translation successful",
	})
}
