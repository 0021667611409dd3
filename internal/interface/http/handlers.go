package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ielts-momentum/momentum-hub/internal/application/command"
	"github.com/ielts-momentum/momentum-hub/internal/application/query"
	"github.com/ielts-momentum/momentum-hub/internal/domain/challenge"
	"github.com/ielts-momentum/momentum-hub/internal/domain/shared"
	"github.com/ielts-momentum/momentum-hub/internal/domain/user"
	"github.com/ielts-momentum/momentum-hub/pkg/logger"
)

// identityHeader carries the acting username, set by the frontend after a
// successful login.
const identityHeader = "X-Momentum-User"

// ══════════════════════════════════════════════════════════════════════════════
// IDENTITY HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// currentUser extracts the acting username from the identity header. Returns
// false (after writing 401) when the header is missing.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	username := r.Header.Get(identityHeader)
	if username == "" {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing "+identityHeader+" header")
		return "", false
	}
	return username, true
}

// requireAdmin resolves the identity header and checks the admin role.
// Returns false after writing the appropriate error response.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) (string, bool) {
	username, ok := s.currentUser(w, r)
	if !ok {
		return "", false
	}

	if s.deps.Users == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "User repository not configured")
		return "", false
	}

	u, err := s.deps.Users.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Unknown user")
			return "", false
		}
		s.writeHandlerError(w, r, err)
		return "", false
	}
	if !u.IsAdmin() {
		writeJSONError(w, http.StatusForbidden, "forbidden", "Admin role required")
		return "", false
	}

	return username, true
}

// writeHandlerError maps application errors onto HTTP status codes.
func (s *Server) writeHandlerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, shared.ErrValidation):
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", "User not found")
	case errors.Is(err, shared.ErrForbidden):
		writeJSONError(w, http.StatusForbidden, "forbidden", "Admin role required")
	default:
		s.logger.Error("handler error",
			logger.Err(err),
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// decodeBody decodes a JSON request body. Returns false after writing 400.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Endpoint not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "momentum-hub",
		"status":  "running",
		"uptime":  s.Uptime().String(),
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK

	if s.deps.Pinger != nil {
		if err := s.deps.Pinger.Ping(r.Context()); err != nil {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, code, map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleLive handles GET /live
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleSignUp handles POST /api/v1/auth/signup
func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if s.deps.SignUp == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Sign-up not configured")
		return
	}

	var req struct {
		Username    string `json:"username"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	// Public sign-up always creates students; admins come from the admin
	// endpoint.
	result, err := s.deps.SignUp.Handle(r.Context(), command.SignUpCommand{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        user.RoleStudent,
	})
	if err != nil {
		s.writeHandlerError(w, r, err)
		return
	}

	if !result.Created {
		writeJSONError(w, http.StatusConflict, "conflict", result.Reason)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"username": result.Username,
		"role":     string(result.Role),
	})
}

// handleLogin handles POST /api/v1/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.deps.Authenticate == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Authentication not configured")
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.Authenticate.Handle(r.Context(), command.AuthenticateCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		s.writeHandlerError(w, r, err)
		return
	}

	if !result.Authenticated {
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", result.Reason)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"username":     result.Username,
		"display_name": result.DisplayName,
		"role":         string(result.Role),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// CHALLENGE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// challengeDTO is the wire shape of one daily challenge.
type challengeDTO struct {
	Seq         int    `json:"seq"`
	Skill       string `json:"skill"`
	Difficulty  string `json:"difficulty"`
	Duration    string `json:"duration"`
	XP          int    `json:"xp"`
	Completed   bool   `json:"completed"`
	CompletedAt string `json:"completed_at,omitempty"`
}

func toChallengeDTO(c *challenge.Challenge) challengeDTO {
	dto := challengeDTO{
		Seq:        c.Seq,
		Skill:      string(c.Skill),
		Difficulty: string(c.Difficulty),
		Duration:   c.Duration,
		XP:         c.XP,
		Completed:  c.State.IsCompleted(),
	}
	if at, ok := c.State.CompletionTime(); ok {
		dto.CompletedAt = at.UTC().Format(time.RFC3339)
	}
	return dto
}

// handleGetChallenges handles GET /api/v1/challenges?day=YYYY-MM-DD
//
// Reading the day's challenges seeds them on first access, so this GET has
// a deliberate write-on-read side effect.
func (s *Server) handleGetChallenges(w http.ResponseWriter, r *http.Request) {
	if s.deps.EnsureDailyChallenges == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Challenges not configured")
		return
	}

	username, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	result, err := s.deps.EnsureDailyChallenges.Handle(r.Context(), command.EnsureDailyChallengesCommand{
		Username: username,
		Day:      getQueryParam(r, "day", ""),
	})
	if err != nil {
		s.writeHandlerError(w, r, err)
		return
	}

	if result.Seeded && len(result.Challenges) > 0 {
		s.logger.Info("daily challenges seeded",
			logger.Username(username),
			logger.Day(result.Challenges[0].Day),
		)
	}

	challenges := make([]challengeDTO, 0, len(result.Challenges))
	for _, c := range result.Challenges {
		challenges = append(challenges, toChallengeDTO(c))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"challenges": challenges,
		"seeded":     result.Seeded,
	})
}

// handleCompleteChallenge handles POST /api/v1/challenges/{seq}/complete
func (s *Server) handleCompleteChallenge(w http.ResponseWriter, r *http.Request) {
	if s.deps.CompleteChallenge == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Challenges not configured")
		return
	}

	username, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	seq, err := strconv.Atoi(r.PathValue("seq"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid challenge sequence")
		return
	}

	result, err := s.deps.CompleteChallenge.Handle(r.Context(), command.CompleteChallengeCommand{
		Username: username,
		Day:      getQueryParam(r, "day", ""),
		Seq:      seq,
	})
	if err != nil {
		s.writeHandlerError(w, r, err)
		return
	}

	if result.Completed {
		s.logger.Info("challenge completed",
			logger.Username(username),
			logger.ChallengeSeq(seq),
			logger.XPAmount(result.XPAwarded),
		)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"completed":  result.Completed,
		"xp_awarded": result.XPAwarded,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// DASHBOARD & LEADERBOARD HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetDashboard handles GET /api/v1/dashboard
func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetDashboard == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Dashboard not configured")
		return
	}

	username, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	result, err := s.deps.GetDashboard.Handle(r.Context(), query.GetDashboardQuery{Username: username})
	if err != nil {
		s.writeHandlerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetLeaderboard handles GET /api/v1/leaderboard?limit=N
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetLeaderboard == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Leaderboard not configured")
		return
	}

	result, err := s.deps.GetLeaderboard.Handle(r.Context(), query.GetLeaderboardQuery{
		Limit: getQueryParamInt(r, "limit", 0),
	})
	if err != nil {
		s.writeHandlerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// SCORE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleSubmitScore handles POST /api/v1/scores
func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	if s.deps.SubmitScore == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Scores not configured")
		return
	}

	username, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		TestDay   string  `json:"test_day"`
		Listening float64 `json:"listening"`
		Reading   float64 `json:"reading"`
		Writing   float64 `json:"writing"`
		Speaking  float64 `json:"speaking"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.SubmitScore.Handle(r.Context(), command.SubmitScoreCommand{
		Username:  username,
		TestDay:   req.TestDay,
		Listening: req.Listening,
		Reading:   req.Reading,
		Writing:   req.Writing,
		Speaking:  req.Speaking,
	})
	if err != nil {
		s.writeHandlerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"entry_id": result.EntryID,
		"overall":  result.Overall,
	})
}

// handleGetScores handles GET /api/v1/scores
func (s *Server) handleGetScores(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetScoreHistory == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Scores not configured")
		return
	}

	username, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	result, err := s.deps.GetScoreHistory.Handle(r.Context(), query.GetScoreHistoryQuery{Username: username})
	if err != nil {
		s.writeHandlerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleUpdateProfile handles PUT /api/v1/profile
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if s.deps.UpdateProfile == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Profile updates not configured")
		return
	}

	username, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		DisplayName string  `json:"display_name"`
		TargetScore float64 `json:"target_score"`
		Settings    *struct {
			LearningTime string `json:"learning_time"`
			Difficulty   string `json:"difficulty"`
		} `json:"settings"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	cmd := command.UpdateProfileCommand{
		Username:    username,
		DisplayName: req.DisplayName,
		TargetScore: req.TargetScore,
	}
	if req.Settings != nil {
		cmd.Settings = &user.Settings{
			LearningTime: req.Settings.LearningTime,
			Difficulty:   req.Settings.Difficulty,
		}
	}

	result, err := s.deps.UpdateProfile.Handle(r.Context(), cmd)
	if err != nil {
		s.writeHandlerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"username":     result.Username,
		"display_name": result.DisplayName,
		"target_score": result.TargetScore,
		"settings": map[string]string{
			"learning_time": result.Settings.LearningTime,
			"difficulty":    result.Settings.Difficulty,
		},
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleAdminOverview handles GET /api/v1/admin/overview
func (s *Server) handleAdminOverview(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetAdminOverview == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Admin overview not configured")
		return
	}

	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}

	result, err := s.deps.GetAdminOverview.Handle(r.Context(), query.GetAdminOverviewQuery{
		RecentLimit: getQueryParamInt(r, "recent", 0),
	})
	if err != nil {
		s.writeHandlerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleAdminListUsers handles GET /api/v1/admin/users?search=q
func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	if s.deps.ListUsers == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "User listing not configured")
		return
	}

	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}

	result, err := s.deps.ListUsers.Handle(r.Context(), query.ListUsersQuery{
		Search: getQueryParam(r, "search", ""),
	})
	if err != nil {
		s.writeHandlerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleAdminCreateUser handles POST /api/v1/admin/users
//
// Unlike public sign-up, the admin form may choose the role.
func (s *Server) handleAdminCreateUser(w http.ResponseWriter, r *http.Request) {
	if s.deps.SignUp == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Sign-up not configured")
		return
	}

	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}

	var req struct {
		Username    string `json:"username"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
		Role        string `json:"role"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.SignUp.Handle(r.Context(), command.SignUpCommand{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        user.Role(req.Role),
	})
	if err != nil {
		s.writeHandlerError(w, r, err)
		return
	}

	if !result.Created {
		writeJSONError(w, http.StatusConflict, "conflict", result.Reason)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"username": result.Username,
		"role":     string(result.Role),
	})
}

// handleAdminUserAction handles POST /api/v1/admin/users/{username}/{action}
// where action is one of promote, demote, delete.
func (s *Server) handleAdminUserAction(w http.ResponseWriter, r *http.Request) {
	if s.deps.ManageUser == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "User management not configured")
		return
	}

	admin, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}

	result, err := s.deps.ManageUser.Handle(r.Context(), command.ManageUserCommand{
		ActingAdmin: admin,
		Target:      r.PathValue("username"),
		Action:      command.UserAction(r.PathValue("action")),
	})
	if err != nil {
		s.writeHandlerError(w, r, err)
		return
	}

	if !result.Applied {
		writeJSONError(w, http.StatusConflict, "conflict", result.Reason)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"target": result.Target,
		"action": string(result.Action),
	})
}

// handleAdminPublishChallenge handles POST /api/v1/admin/challenges
func (s *Server) handleAdminPublishChallenge(w http.ResponseWriter, r *http.Request) {
	if s.deps.PublishChallenge == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Challenge publishing not configured")
		return
	}

	admin, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}

	var req struct {
		Skill      string `json:"skill"`
		Difficulty string `json:"difficulty"`
		Duration   string `json:"duration"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.PublishChallenge.Handle(r.Context(), command.PublishChallengeCommand{
		ActingAdmin: admin,
		Skill:       challenge.Skill(req.Skill),
		Difficulty:  challenge.Difficulty(req.Difficulty),
		Duration:    req.Duration,
	})
	if err != nil {
		s.writeHandlerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"skill":      string(result.Skill),
		"difficulty": string(result.Difficulty),
		"duration":   result.Duration,
		"xp":         result.XP,
		"persisted":  result.Persisted,
	})
}
