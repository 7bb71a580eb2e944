package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/example/oms-backend/internal/api/middleware"
	"github.com/example/oms-backend/internal/auth"
	"github.com/example/oms-backend/internal/domain/user"
	"github.com/example/oms-backend/internal/query"
)

// AuthHandlers handles signup, signin and the authenticated whoami route
type AuthHandlers struct {
	userService  *user.Service
	jwtService   *auth.JWTService
	queryHandler *query.Handler
}

func NewAuthHandlers(userService *user.Service, jwtService *auth.JWTService, queryHandler *query.Handler) *AuthHandlers {
	return &AuthHandlers{
		userService:  userService,
		jwtService:   jwtService,
		queryHandler: queryHandler,
	}
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SigninRequest represents the signin request body
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is the shape of signup and signin responses
type AuthResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

// Signup handles user registration
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Name == "" {
		respondJSONError(w, "Name and email are required", http.StatusBadRequest)
		return
	}

	if _, exists := h.queryHandler.GetUserByEmail(req.Email); exists {
		respondJSONError(w, "Email already registered", http.StatusConflict)
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		if err == auth.ErrPasswordTooShort {
			respondJSONError(w, "Password must be at least 8 characters", http.StatusBadRequest)
			return
		}
		respondJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	newUser, err := h.userService.Register(r.Context(), req.Email, passwordHash, req.Name, req.Role)
	if err != nil {
		if err == user.ErrInvalidRole {
			respondJSONError(w, "Role must be customer, staff or admin", http.StatusBadRequest)
			return
		}
		respondJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	token := h.issueToken(w, r, newUser.ID, newUser.Email, newUser.Role)

	respondJSON(w, http.StatusCreated, AuthResponse{
		Message: "Signup successful",
		User: UserResponse{
			ID:        newUser.ID,
			Email:     newUser.Email,
			Name:      newUser.Name,
			Role:      newUser.Role,
			CreatedAt: newUser.CreatedAt,
		},
		Token: token,
	})
}

// Signin handles user login
func (h *AuthHandlers) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userModel, exists := h.queryHandler.GetUserByEmail(req.Email)
	if !exists {
		respondJSONError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	if !auth.CheckPassword(req.Password, userModel.PasswordHash) {
		respondJSONError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	token := h.issueToken(w, r, userModel.ID, userModel.Email, userModel.Role)

	// Audit event, best-effort: signin must not fail on a slow append
	_ = h.userService.RecordSignIn(r.Context(), userModel.ID, r.RemoteAddr, r.UserAgent())

	respondJSON(w, http.StatusOK, AuthResponse{
		Message: "Signin successful",
		User: UserResponse{
			ID:        userModel.ID,
			Email:     userModel.Email,
			Name:      userModel.Name,
			Role:      userModel.Role,
			CreatedAt: userModel.CreatedAt,
		},
		Token: token,
	})
}

// Me returns the current authenticated user's information. Mounted on the
// token check route so clients can verify a stored token still works.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userModel, exists := h.queryHandler.GetUser(claims.UserID)
	if !exists {
		respondJSONError(w, "User not found", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, UserResponse{
		ID:        userModel.ID,
		Email:     userModel.Email,
		Name:      userModel.Name,
		Role:      userModel.Role,
		CreatedAt: userModel.CreatedAt,
	})
}

// issueToken generates the JWT and also sets it as an HttpOnly cookie for
// browser clients. API clients use the token from the response body.
func (h *AuthHandlers) issueToken(w http.ResponseWriter, r *http.Request, userID, email, role string) string {
	token, expiry, err := h.jwtService.GenerateToken(userID, email, role)
	if err != nil {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Expires:  expiry,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	return token
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
