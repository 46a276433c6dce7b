package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arya/nyaya/internal/chat"
	"github.com/arya/nyaya/internal/domain"
	"github.com/arya/nyaya/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeServiceError(w http.ResponseWriter, msg string, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   msg,
		"details": err.Error(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password required.")
		return
	}

	if err := s.chats.Signup(req.Username, req.Password); err != nil {
		if errors.Is(err, chat.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, "Username already exists.")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Account created. Please login.",
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Username and password required.")
		return
	}

	token, err := s.chats.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, chat.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password.")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"token":    token,
		"username": req.Username,
	})
}

func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "Username required.")
		return
	}

	summaries, err := s.chats.ListChats(username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "Username required.")
		return
	}

	c, err := s.chats.GetChat(username, r.PathValue("id"))
	if err != nil {
		if store.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Chat not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleNewChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		writeError(w, http.StatusBadRequest, "Username required.")
		return
	}

	c, err := s.chats.NewChat(req.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteChat(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "Username required.")
		return
	}

	deleted, err := s.chats.DeleteChat(username, r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": deleted})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
		Username string `json:"username"`
		ChatID   string `json:"chatId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		writeError(w, http.StatusBadRequest, "Missing 'question' in request body.")
		return
	}

	answer, err := s.ai.Query(r.Context(), req.Question)
	if err != nil {
		s.log.Error("query_failed", nil, err)
		writeServiceError(w, "Failed to communicate with the AI service.", err)
		return
	}

	// History is best-effort: the answer is returned whether or not the
	// chat exists.
	if req.Username != "" && req.ChatID != "" {
		if _, err := s.chats.AppendExchange(req.Username, req.ChatID, req.Question, answer.Text, answer.Sources); err != nil {
			s.log.WithUser(req.Username).Warn("append_exchange_failed", map[string]any{"chat": req.ChatID}, err)
		}
	}

	sources := answer.Sources
	if sources == nil {
		sources = []domain.Source{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"text":    answer.Text,
		"sources": sources,
	})
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text           string `json:"text"`
		TargetLanguage string `json:"targetLanguage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" || req.TargetLanguage == "" {
		writeError(w, http.StatusBadRequest, "Missing text or targetLanguage.")
		return
	}

	translated, err := s.ai.Translate(r.Context(), req.Text, req.TargetLanguage)
	if err != nil {
		s.log.Error("translate_failed", nil, err)
		writeServiceError(w, "Failed to perform translation.", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"translatedText": translated})
}
