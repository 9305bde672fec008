package services

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"eduhub/pkg/apperrors"
	"eduhub/pkg/models"
	"eduhub/pkg/repository"

	"golang.org/x/crypto/bcrypt"
)

// AuthService owns credentials and sessions: bcrypt hashing, opaque
// session tokens with a fixed expiry, and the role data the middleware
// gates on. Tokens are never renewed; a token lives until its expiry
// timestamp passes or it is deleted.
type AuthService interface {
	Register(req models.RegisterRequest, userAgent, ip string) (models.AuthResponse, error)
	Login(req models.LoginRequest, userAgent, ip string) (models.AuthResponse, error)
	ChangePassword(userID int, oldPassword, newPassword string) error

	CreateSession(userID int, ip, userAgent string) (string, error)
	ValidateSession(token string) (models.User, bool)
	DestroySession(token string) bool
	DestroyAllSessions(userID int) bool
	CleanupExpired() int

	Me(userID int) (models.User, error)
	Sessions(userID int) ([]models.Session, error)
	SessionTTL() time.Duration
}

type authService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	activity repository.ActivityRepository
	ttl      time.Duration
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	activity repository.ActivityRepository,
	sessionTTL time.Duration,
) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		activity: activity,
		ttl:      sessionTTL,
	}
}

func (s *authService) SessionTTL() time.Duration {
	return s.ttl
}

// HashPassword salts and hashes with bcrypt. Never reversible.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword is constant-time safe and returns false, never an error,
// on malformed hash input.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *authService) Register(req models.RegisterRequest, userAgent, ip string) (models.AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := validateUsername(req.Username); err != nil {
		return models.AuthResponse{}, err
	}
	if err := validateEmail(req.Email); err != nil {
		return models.AuthResponse{}, err
	}
	if err := validatePassword(req.Password); err != nil {
		return models.AuthResponse{}, err
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		log.Println("[AUTH] hash error:", err)
		return models.AuthResponse{}, apperrors.ErrPersistence
	}

	role := req.Role
	if role != models.RoleAdmin && role != models.RoleStandard {
		role = models.RoleStandard
	}

	user, err := s.users.CreateUser(req.Username, req.Email, hashed, req.FullName, role)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return models.AuthResponse{}, apperrors.ErrDuplicateCredential
		}
		log.Println("[AUTH] create user error:", err)
		return models.AuthResponse{}, apperrors.ErrPersistence
	}

	s.logActivity(user.ID, "register", "", ip, userAgent)
	return s.createSessionAndRespond(user, ip, userAgent)
}

func (s *authService) Login(req models.LoginRequest, userAgent, ip string) (models.AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return models.AuthResponse{}, apperrors.ErrInvalidCredential
	}

	user, hashedPw, err := s.users.GetUserByLogin(req.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AuthResponse{}, apperrors.ErrInvalidCredential
	}
	if err != nil {
		log.Println("[AUTH] login query error:", err)
		return models.AuthResponse{}, apperrors.ErrPersistence
	}

	if !user.IsActive || !VerifyPassword(req.Password, hashedPw) {
		return models.AuthResponse{}, apperrors.ErrInvalidCredential
	}

	s.logActivity(user.ID, "login", "", ip, userAgent)
	return s.createSessionAndRespond(user, ip, userAgent)
}

// ChangePassword rehashes and revokes every session of the user, forcing
// re-login everywhere.
func (s *authService) ChangePassword(userID int, oldPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.users.GetPasswordHash(userID)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrInvalidCredential
	}
	if err != nil {
		log.Println("[AUTH] password lookup error:", err)
		return apperrors.ErrPersistence
	}

	if !VerifyPassword(oldPassword, hash) {
		return apperrors.ErrInvalidCredential
	}

	newHash, err := HashPassword(newPassword)
	if err != nil {
		log.Println("[AUTH] hash error:", err)
		return apperrors.ErrPersistence
	}

	affected, err := s.users.UpdatePassword(userID, newHash)
	if err != nil || affected == 0 {
		log.Println("[AUTH] password update error:", err)
		return apperrors.ErrPersistence
	}

	s.DestroyAllSessions(userID)
	s.logActivity(userID, "change_password", "", "", "")
	return nil
}

func (s *authService) CreateSession(userID int, ip, userAgent string) (string, error) {
	token := generateSessionToken()
	expiresAt := time.Now().Add(s.ttl)

	if err := s.sessions.CreateSession(userID, token, userAgent, ip, expiresAt); err != nil {
		log.Println("[AUTH] create session error:", err)
		return "", apperrors.ErrPersistence
	}

	if err := s.users.UpdateLastLogin(userID); err != nil {
		log.Println("[AUTH] last_login update error:", err)
	}

	return token, nil
}

// ValidateSession resolves a token to its owner. Returns false when the
// token is absent, the expiry has passed, or the owner is inactive;
// expired rows are left for the sweep.
func (s *authService) ValidateSession(token string) (models.User, bool) {
	if token == "" {
		return models.User{}, false
	}

	session, user, err := s.sessions.GetSessionByToken(token)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, false
	}
	if err != nil {
		log.Println("[AUTH] session lookup error:", err)
		return models.User{}, false
	}

	if session.Expired(time.Now()) || !user.IsActive {
		return models.User{}, false
	}

	return user, true
}

func (s *authService) DestroySession(token string) bool {
	affected, err := s.sessions.DeleteSessionByToken(token)
	if err != nil {
		log.Println("[AUTH] destroy session error:", err)
		return false
	}
	return affected > 0
}

func (s *authService) DestroyAllSessions(userID int) bool {
	affected, err := s.sessions.DeleteSessionsByUserID(userID)
	if err != nil {
		log.Println("[AUTH] destroy sessions error:", err)
		return false
	}
	return affected > 0
}

func (s *authService) CleanupExpired() int {
	affected, err := s.sessions.DeleteExpired()
	if err != nil {
		log.Println("[AUTH] session cleanup error:", err)
		return 0
	}
	if affected > 0 {
		log.Printf("[AUTH] removed %d expired sessions", affected)
	}
	return int(affected)
}

func (s *authService) Me(userID int) (models.User, error) {
	user, err := s.users.GetUserByID(userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperrors.ErrInvalidSession
	}
	if err != nil {
		return models.User{}, apperrors.ErrPersistence
	}
	return user, nil
}

func (s *authService) Sessions(userID int) ([]models.Session, error) {
	sessions, err := s.sessions.GetActiveSessionsByUserID(userID)
	if err != nil {
		log.Println("[AUTH] sessions query error:", err)
		return nil, apperrors.ErrPersistence
	}
	return sessions, nil
}

func (s *authService) createSessionAndRespond(user models.User, ip, userAgent string) (models.AuthResponse, error) {
	token, err := s.CreateSession(user.ID, ip, userAgent)
	if err != nil {
		return models.AuthResponse{}, err
	}

	return models.AuthResponse{
		SessionToken: token,
		User:         user,
		ExpiresIn:    int(s.ttl.Seconds()),
	}, nil
}

func (s *authService) logActivity(userID int, action, details, ip, userAgent string) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Log(userID, action, details, ip, userAgent); err != nil {
		log.Println("[AUTH] activity log error:", err)
	}
}

// generateSessionToken returns 32 bytes of entropy, URL-safe.
func generateSessionToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func validateUsername(u string) error {
	if len(u) < 3 {
		return fmt.Errorf("username must have at least 3 characters")
	}
	if len(u) > 30 {
		return fmt.Errorf("username too long (max 30)")
	}
	for _, r := range u {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return fmt.Errorf("username may only contain letters, digits, _ and -")
		}
	}
	return nil
}

func validateEmail(e string) error {
	at := strings.Index(e, "@")
	if at < 1 || at == len(e)-1 || !strings.Contains(e[at+1:], ".") {
		return fmt.Errorf("invalid email address")
	}
	if len(e) > 100 {
		return fmt.Errorf("email too long (max 100)")
	}
	return nil
}

func validatePassword(p string) error {
	if len(p) < 8 {
		return fmt.Errorf("password must have at least 8 characters")
	}
	if len(p) > 128 {
		return fmt.Errorf("password too long")
	}
	return nil
}
