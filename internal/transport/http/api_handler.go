package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"quizec-service/internal/app"
	"quizec-service/internal/domain"
)

// APIHandler exposes the JSON API: auth, quiz authoring, participation,
// and join-code rooms.
type APIHandler struct {
	auth     *app.AuthService
	quizzes  *app.QuizService
	rooms    *app.RoomService
	sessions *app.SessionService
}

func NewAPIHandler(auth *app.AuthService, quizzes *app.QuizService, rooms *app.RoomService, sessions *app.SessionService) *APIHandler {
	return &APIHandler{auth: auth, quizzes: quizzes, rooms: rooms, sessions: sessions}
}

// Register wires every route onto mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("GET /api/auth/profile", h.withAuth(h.handleProfile))
	mux.HandleFunc("GET /api/auth/history", h.withAuth(h.handleHistory))

	mux.HandleFunc("POST /api/quizzes", h.withAuth(h.handleCreateQuiz))
	mux.HandleFunc("GET /api/quizzes", h.withAuth(h.handleListQuizzes))
	mux.HandleFunc("GET /api/quizzes/{id}", h.withAuth(h.handleGetQuiz))
	mux.HandleFunc("PUT /api/quizzes/{id}", h.withAuth(h.handleUpdateQuiz))
	mux.HandleFunc("DELETE /api/quizzes/{id}", h.withAuth(h.handleDeleteQuiz))
	mux.HandleFunc("POST /api/quizzes/{id}/duplicate", h.withAuth(h.handleDuplicateQuiz))
	mux.HandleFunc("GET /api/quizzes/{id}/questions", h.withAuth(h.handleQuizQuestions))
	mux.HandleFunc("GET /api/quizzes/{id}/results", h.withAuth(h.handleQuizResults))
	mux.HandleFunc("POST /api/quizzes/{id}/lock", h.withAuth(h.handleToggleLock))
	mux.HandleFunc("POST /api/quizzes/{id}/join", h.withAuth(h.handleJoinQuiz))

	mux.HandleFunc("POST /api/rooms", h.withAuth(h.handleCreateRoom))
	mux.HandleFunc("GET /api/rooms/{code}", h.withAuth(h.handleGetRoom))
	mux.HandleFunc("POST /api/rooms/{code}/join", h.withAuth(h.handleJoinRoom))
	mux.HandleFunc("DELETE /api/rooms/{code}", h.withAuth(h.handleCloseRoom))
}

// withAuth extracts the bearer token and resolves the calling user.
func (h *APIHandler) withAuth(next func(w http.ResponseWriter, r *http.Request, userID string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		userID, err := h.auth.VerifyToken(parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next(w, r, userID)
	}
}

type credentialsPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

// userResponse mirrors a user without the password hash.
type userResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	Role                string    `json:"role"`
	JoinDate            time.Time `json:"joinDate"`
	ParticipatedQuizzes []string  `json:"participatedQuizzes"`
	CompletedQuizzes    []string  `json:"completedQuizzes"`
	Score               int       `json:"score"`
}

func toUserResponse(user domain.User) userResponse {
	return userResponse{
		ID:                  user.ID,
		Name:                user.Name,
		Email:               user.Email,
		Role:                user.Role,
		JoinDate:            user.JoinDate,
		ParticipatedQuizzes: user.ParticipatedQuizzes,
		CompletedQuizzes:    user.CompletedQuizzes,
		Score:               user.Score,
	}
}

func (h *APIHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Email == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	user, token, err := h.auth.Register(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{User: toUserResponse(user), Token: token})
}

func (h *APIHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, token, err := h.auth.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: toUserResponse(user), Token: token})
}

func (h *APIHandler) handleProfile(w http.ResponseWriter, r *http.Request, userID string) {
	user, err := h.auth.Profile(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *APIHandler) handleHistory(w http.ResponseWriter, r *http.Request, userID string) {
	results, err := h.auth.History(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if results == nil {
		results = []domain.Result{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *APIHandler) handleCreateQuiz(w http.ResponseWriter, r *http.Request, userID string) {
	var input app.QuizInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	quiz, err := h.quizzes.CreateQuiz(r.Context(), userID, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

func (h *APIHandler) handleListQuizzes(w http.ResponseWriter, r *http.Request, userID string) {
	quizzes, err := h.quizzes.ListCreatorQuizzes(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if quizzes == nil {
		quizzes = []domain.Quiz{}
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (h *APIHandler) handleGetQuiz(w http.ResponseWriter, r *http.Request, _ string) {
	quiz, err := h.quizzes.GetQuiz(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *APIHandler) handleUpdateQuiz(w http.ResponseWriter, r *http.Request, userID string) {
	var input app.QuizInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	quiz, err := h.quizzes.UpdateQuiz(r.Context(), userID, r.PathValue("id"), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *APIHandler) handleDeleteQuiz(w http.ResponseWriter, r *http.Request, userID string) {
	if err := h.quizzes.DeleteQuiz(r.Context(), userID, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) handleDuplicateQuiz(w http.ResponseWriter, r *http.Request, userID string) {
	quiz, err := h.quizzes.DuplicateQuiz(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

// handleQuizQuestions returns the full question documents, correct answers
// included, so it is restricted to the quiz creator.
func (h *APIHandler) handleQuizQuestions(w http.ResponseWriter, r *http.Request, userID string) {
	quizID := r.PathValue("id")
	quiz, err := h.quizzes.GetQuiz(r.Context(), quizID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if quiz.CreatorID != userID {
		writeDomainError(w, domain.ErrNotCreator)
		return
	}
	questions, err := h.quizzes.GetQuizQuestions(r.Context(), quizID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *APIHandler) handleQuizResults(w http.ResponseWriter, r *http.Request, userID string) {
	results, err := h.sessions.QuizResults(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if results == nil {
		results = []domain.Result{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *APIHandler) handleToggleLock(w http.ResponseWriter, r *http.Request, userID string) {
	status, err := h.quizzes.ToggleLock(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]domain.QuizStatus{"status": status})
}

type joinPayload struct {
	Location *domain.Location `json:"location"`
}

func (h *APIHandler) handleJoinQuiz(w http.ResponseWriter, r *http.Request, userID string) {
	var payload joinPayload
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if err := h.quizzes.JoinQuiz(r.Context(), r.PathValue("id"), userID, payload.Location); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createRoomPayload struct {
	QuizID string `json:"quizId"`
}

func (h *APIHandler) handleCreateRoom(w http.ResponseWriter, r *http.Request, userID string) {
	var payload createRoomPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.QuizID == "" {
		writeError(w, http.StatusBadRequest, "quizId is required")
		return
	}
	room, err := h.rooms.CreateRoom(r.Context(), userID, payload.QuizID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (h *APIHandler) handleGetRoom(w http.ResponseWriter, r *http.Request, _ string) {
	room, err := h.rooms.GetRoom(r.Context(), r.PathValue("code"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *APIHandler) handleJoinRoom(w http.ResponseWriter, r *http.Request, userID string) {
	room, err := h.rooms.JoinRoom(r.Context(), r.PathValue("code"), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *APIHandler) handleCloseRoom(w http.ResponseWriter, r *http.Request, userID string) {
	if err := h.rooms.CloseRoom(r.Context(), userID, r.PathValue("code")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps sentinel errors onto HTTP statuses; everything
// else is a 500 with the original message.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrQuestionNotInQuiz),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotCreator),
		errors.Is(err, domain.ErrQuizLocked),
		errors.Is(err, domain.ErrOutsideQuizArea):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrEmailInUse),
		errors.Is(err, domain.ErrNotAccessControlled):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
