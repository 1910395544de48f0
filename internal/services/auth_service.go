package services

import (
	"fmt"
	"regexp"
	"sync"
	"time"

	"retromart/internal/models"
	"retromart/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

// maxLoginAttempts is the number of consecutive failures before the
// lockout message. The counter lives in process memory only, matching the
// tab-scoped behavior of the original storefront.
const maxLoginAttempts = 3

// defaultSessionTTL is the fixed session lifetime.
const defaultSessionTTL = 15 * time.Minute

// trnPattern is the required registrant identifier format: three groups of
// three digits.
var trnPattern = regexp.MustCompile(`^\d{3}-\d{3}-\d{3}$`)

// ValidTRN reports whether s matches the ddd-ddd-ddd TRN format.
func ValidTRN(s string) bool {
	return trnPattern.MatchString(s)
}

// AuthConfig holds the credentials and session settings for AuthService.
type AuthConfig struct {
	JWTSecret     string
	AdminTRN      string
	AdminPassword string
	SessionTTL    time.Duration
}

// AuthService handles registration, login, and the stored session record.
//
// Passwords are compared as plaintext. This reproduces the demo being
// reimplemented and is a deliberate security non-goal.
type AuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	jwtSecret   []byte
	adminTRN    string
	adminPass   string
	sessionTTL  time.Duration

	mu       sync.Mutex
	failures int
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, sessionRepo repositories.SessionRepository, cfg AuthConfig) *AuthService {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtSecret:   []byte(cfg.JWTSecret),
		adminTRN:    cfg.AdminTRN,
		adminPass:   cfg.AdminPassword,
		sessionTTL:  ttl,
	}
}

// Register validates and stores a new user. The TRN must match the
// ddd-ddd-ddd format and be unused, the password must be at least 8
// characters, and the registrant must be at least 18 years old.
func (s *AuthService) Register(user *models.User) error {
	if !ValidTRN(user.TRN) {
		return fmt.Errorf("TRN must be in the format 000-000-000")
	}
	if len(user.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	age, err := ageAt(user.DOB, time.Now())
	if err != nil {
		return fmt.Errorf("invalid date of birth: %w", err)
	}
	if age < 18 {
		return fmt.Errorf("you must be over 18 to register")
	}

	users, err := s.userRepo.GetAll()
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.TRN == user.TRN {
			return fmt.Errorf("%w: %s", ErrDuplicateTRN, user.TRN)
		}
	}

	user.RegisteredAt = time.Now()
	user.IsAdmin = false
	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// Login authenticates the TRN/password pair and, on success, stores a new
// session record and returns a signed token for it.
//
// The fixed admin pair is checked first and succeeds regardless of the
// registered users. Every failure bumps the consecutive-failure counter;
// at maxLoginAttempts the account is reported locked. The counter resets
// on success.
func (s *AuthService) Login(trn, password string) (string, *models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The admin pair is checked before the lockout counter, so an admin
	// can always get in.
	isAdmin := trn == s.adminTRN && password == s.adminPass
	if !isAdmin {
		if s.failures >= maxLoginAttempts {
			return "", nil, ErrAccountLocked
		}
		user, err := s.findUser(trn, password)
		if err != nil {
			return "", nil, err
		}
		if user == nil {
			s.failures++
			if s.failures >= maxLoginAttempts {
				return "", nil, ErrAccountLocked
			}
			return "", nil, fmt.Errorf("%w: %d attempts left", ErrInvalidCredentials, maxLoginAttempts-s.failures)
		}
	}
	s.failures = 0

	session := &models.Session{
		ID:      uuid.New().String(),
		TRN:     trn,
		IsAdmin: isAdmin,
		Expiry:  time.Now().Add(s.sessionTTL),
	}
	if err := s.sessionRepo.Set(session); err != nil {
		return "", nil, fmt.Errorf("failed to store session: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"trn":   session.TRN,
		"admin": session.IsAdmin,
		"sid":   session.ID,
		"exp":   session.Expiry.Unix(),
		"iat":   time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return tokenString, session, nil
}

// findUser returns the registered user with an exact TRN and password
// match, or nil when the credentials match nobody.
func (s *AuthService) findUser(trn, password string) (*models.User, error) {
	users, err := s.userRepo.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].TRN == trn && users[i].Password == password {
			return &users[i], nil
		}
	}
	return nil, nil
}

// CurrentSession returns the stored session, or nil when none exists. An
// expired session is cleared from the store and reported as nil.
func (s *AuthService) CurrentSession() (*models.Session, error) {
	session, err := s.sessionRepo.Get()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	if session.Expired(time.Now()) {
		if err := s.sessionRepo.Clear(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return session, nil
}

// Logout clears the stored session unconditionally.
func (s *AuthService) Logout() error {
	return s.sessionRepo.Clear()
}

// ValidateToken checks the token signature and claims, then cross-checks
// the stored session: the token is only good while the session it names is
// still the stored, unexpired one. Logout therefore invalidates
// outstanding tokens.
func (s *AuthService) ValidateToken(tokenString string) (*models.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return nil, fmt.Errorf("invalid token: missing session id")
	}

	session, err := s.CurrentSession()
	if err != nil {
		return nil, err
	}
	if session == nil || session.ID != sid {
		return nil, fmt.Errorf("session is no longer active")
	}
	return session, nil
}

// ageAt computes full years between a yyyy-mm-dd date of birth and now.
func ageAt(dob string, now time.Time) (int, error) {
	birth, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return 0, err
	}
	age := now.Year() - birth.Year()
	if now.YearDay() < birth.YearDay() {
		age--
	}
	return age, nil
}
