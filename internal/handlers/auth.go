package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ergy12/inspection-du-travail/internal/ctxkeys"
	"github.com/Ergy12/inspection-du-travail/internal/database"
	"github.com/Ergy12/inspection-du-travail/internal/models"
)

// userCols is the SELECT/RETURNING column list for user rows (minus the
// password hash, which only Login reads).
const userCols = `id, email, first_name, last_name, role,
	direction_id::text, branch_id::text, is_active,
	created_at::text, updated_at::text`

// AuthHandler manages user registration, login, and profile retrieval.
type AuthHandler struct {
	db        database.Service
	jwtSecret []byte
}

// NewAuthHandler creates an AuthHandler with the given database and JWT signing key.
func NewAuthHandler(db database.Service, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		db:        db,
		jwtSecret: []byte(jwtSecret),
	}
}

func scanUser(scanner interface{ Scan(dest ...interface{}) error }, u *models.User) error {
	return scanner.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role,
		&u.DirectionID, &u.BranchID, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt,
	)
}

// Register creates a new staff account. Credential and profile live in
// one row, so the account either exists completely or not at all — there
// is no window where a credential exists without a profile.
// New accounts always get the lowest-privilege role; admins promote them
// via User Management.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		ValidationError(w, errs)
		return
	}

	// Hash the password (cost 12 balances security and speed)
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	// Insert user — UNIQUE constraint on email prevents duplicates
	var user models.User
	err = scanUser(pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, role, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING `+userCols,
		req.Email, string(hashedPassword), req.FirstName, req.LastName, ctxkeys.DefaultRole,
	), &user)
	if err != nil {
		if isDuplicateKeyError(err) {
			JSONError(w, http.StatusConflict, "An account with this email already exists")
			return
		}
		log.Printf("Failed to create user: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := h.generateToken(user.ID, user.Role)
	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		JSONError(w, http.StatusInternalServerError, "Account created but login failed")
		return
	}

	JSON(w, http.StatusCreated, models.AuthResponse{
		Token: token,
		User:  user,
	})
}

// Login authenticates a user with email + password and returns a JWT token.
// Deactivated accounts are rejected even with valid credentials.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		ValidationError(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	// Fetch user by email (including password hash for verification)
	var user models.User
	err := pool.QueryRow(ctx, `
		SELECT id, email, password_hash, first_name, last_name, role,
			direction_id::text, branch_id::text, is_active,
			created_at::text, updated_at::text
		FROM users WHERE email = $1
	`, req.Email,
	).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.Role, &user.DirectionID, &user.BranchID, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		// Generic message to prevent email enumeration attacks
		JSONError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		JSONError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !user.IsActive {
		JSONError(w, http.StatusForbidden, "This account has been deactivated")
		return
	}

	token, err := h.generateToken(user.ID, user.Role)
	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		JSONError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	JSON(w, http.StatusOK, models.AuthResponse{
		Token: token,
		User:  user,
	})
}

// GetMe returns the profile of the currently authenticated user.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(ctxkeys.UserID).(string)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	var user models.User
	err := scanUser(pool.QueryRow(ctx, `
		SELECT `+userCols+` FROM users WHERE id = $1
	`, userID), &user)
	if err != nil {
		JSONError(w, http.StatusNotFound, "User not found")
		return
	}

	JSON(w, http.StatusOK, user)
}

// generateToken creates a signed JWT with user ID and role as claims.
// Tokens expire after 7 days.
func (h *AuthHandler) generateToken(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"role":   role,
		"exp":    time.Now().Add(7 * 24 * time.Hour).Unix(),
		"iat":    time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}
