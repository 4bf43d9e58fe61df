package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	userRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/user"
	"github.com/m04kA/SMC-NailSalon/pkg/sanitize"
)

// maxPasswordBytes bcrypt учитывает только первые 72 байта
const maxPasswordBytes = 72

// Service сервис аутентификации
type Service struct {
	users      UserRepository
	tokens     TokenIssuer
	attempts   AttemptCounter
	google     GoogleClient
	bcryptCost int
	logger     Logger
}

// NewService создает новый экземпляр сервиса
// google может быть nil, тогда вход через Google отключен
func NewService(users UserRepository, tokens TokenIssuer, attempts AttemptCounter, google GoogleClient, logger Logger) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		attempts:   attempts,
		google:     google,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
	}
}

// WithBcryptCost задает стоимость хеширования паролей
func (s *Service) WithBcryptCost(cost int) *Service {
	s.bcryptCost = cost
	return s
}

// Register регистрирует клиента и сразу выдает токен
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Register: registering client %s", email)

	name := sanitize.Text(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		s.logger.Error("Register: failed to hash password: %v", err)
		return nil, fmt.Errorf("%w: Register - hash password: %v", ErrInternal, err)
	}
	hashStr := string(hash)

	user, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: &hashStr,
		Name:         name,
		Phone:        sanitize.TextPtr(req.Phone),
		Role:         domain.RoleClient,
		Active:       true,
	})
	if err != nil {
		if errors.Is(err, userRepo.ErrEmailTaken) {
			s.logger.Warn("Register: email %s already registered", email)
			return nil, ErrEmailTaken
		}
		s.logger.Error("Register: repository error: %v", err)
		return nil, fmt.Errorf("%w: Register - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Register: created client id=%d", user.ID)
	return s.issue(user)
}

// Login проверяет пароль и выдает токен
// Неудачные попытки считаются по email; после лимита вход блокируется на окно
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	// 1. Блокировка по количеству попыток
	locked, err := s.attempts.Locked(ctx, email)
	if err != nil {
		s.logger.Warn("Login: attempts counter unavailable, continuing: %v", err)
	}
	if locked {
		s.logger.Warn("Login: %s is locked out", email)
		return nil, ErrTooManyAttempts
	}

	// 2. Пользователь и пароль
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, userRepo.ErrUserNotFound) {
		s.logger.Error("Login: repository error for %s: %v", email, err)
		return nil, fmt.Errorf("%w: Login - repository error: %v", ErrInternal, err)
	}
	if user == nil || user.PasswordHash == nil ||
		bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)) != nil {
		s.registerFailure(ctx, email)
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		s.logger.Warn("Login: user id=%d is inactive", user.ID)
		return nil, ErrUserInactive
	}

	// 3. Успешный вход сбрасывает счетчик
	if err := s.attempts.Reset(ctx, email); err != nil {
		s.logger.Warn("Login: failed to reset attempts for %s: %v", email, err)
	}

	s.logger.Info("Login: user id=%d signed in", user.ID)
	return s.issue(user)
}

// GoogleAuthURL адрес страницы согласия Google
func (s *Service) GoogleAuthURL(state string) (string, error) {
	if s.google == nil {
		return "", ErrGoogleDisabled
	}
	return s.google.AuthCodeURL(state), nil
}

// GoogleCallback обменивает код на профиль Google и входит под найденным или новым клиентом
// Существующий пользователь с тем же email получает привязку к аккаунту Google
func (s *Service) GoogleCallback(ctx context.Context, code string) (*AuthResponse, error) {
	if s.google == nil {
		return nil, ErrGoogleDisabled
	}
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrInvalidInput)
	}

	info, err := s.google.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("GoogleCallback: exchange failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrGoogleFailed, err)
	}

	// 1. По идентификатору Google
	user, err := s.users.GetByGoogleID(ctx, info.Subject)
	if err == nil {
		return s.signInExisting(user)
	}
	if !errors.Is(err, userRepo.ErrUserNotFound) {
		s.logger.Error("GoogleCallback: repository error: %v", err)
		return nil, fmt.Errorf("%w: GoogleCallback - get by google id: %v", ErrInternal, err)
	}

	// 2. По email с привязкой
	email := strings.ToLower(strings.TrimSpace(info.Email))
	user, err = s.users.GetByEmail(ctx, email)
	if err == nil {
		if err := s.users.LinkGoogle(ctx, user.ID, info.Subject); err != nil {
			s.logger.Error("GoogleCallback: failed to link google account to user id=%d: %v", user.ID, err)
			return nil, fmt.Errorf("%w: GoogleCallback - link: %v", ErrInternal, err)
		}
		s.logger.Info("GoogleCallback: linked google account to user id=%d", user.ID)
		return s.signInExisting(user)
	}
	if !errors.Is(err, userRepo.ErrUserNotFound) {
		s.logger.Error("GoogleCallback: repository error: %v", err)
		return nil, fmt.Errorf("%w: GoogleCallback - get by email: %v", ErrInternal, err)
	}

	// 3. Новый клиент без пароля
	name := sanitize.Text(info.Name)
	if name == "" {
		name = email
	}
	googleID := info.Subject
	user, err = s.users.Create(ctx, &domain.User{
		Email:    email,
		Name:     name,
		Role:     domain.RoleClient,
		GoogleID: &googleID,
		Active:   true,
	})
	if err != nil {
		s.logger.Error("GoogleCallback: failed to create user: %v", err)
		return nil, fmt.Errorf("%w: GoogleCallback - create user: %v", ErrInternal, err)
	}

	s.logger.Info("GoogleCallback: created client id=%d from google account", user.ID)
	return s.issue(user)
}

// GetProfile профиль текущего пользователя
func (s *Service) GetProfile(ctx context.Context, userID int64) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("GetProfile: repository error for user id=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetProfile - repository error: %v", ErrInternal, err)
	}
	resp := FromDomainUser(user)
	return &resp, nil
}

// EnsureAdmin создает администратора, если в системе нет ни одного
// Возвращает true, если учетная запись была создана
func (s *Service) EnsureAdmin(ctx context.Context, email, password, name string) (bool, error) {
	count, err := s.users.CountAdmins(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: EnsureAdmin - count admins: %v", ErrInternal, err)
	}
	if count > 0 {
		return false, nil
	}

	normalized, err := normalizeEmail(email)
	if err != nil {
		return false, err
	}
	if err := validatePassword(password); err != nil {
		return false, err
	}
	if name = sanitize.Text(name); name == "" {
		name = "Administrator"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return false, fmt.Errorf("%w: EnsureAdmin - hash password: %v", ErrInternal, err)
	}
	hashStr := string(hash)

	admin, err := s.users.Create(ctx, &domain.User{
		Email:        normalized,
		PasswordHash: &hashStr,
		Name:         name,
		Role:         domain.RoleAdmin,
		Active:       true,
	})
	if err != nil {
		if errors.Is(err, userRepo.ErrEmailTaken) {
			return false, ErrEmailTaken
		}
		return false, fmt.Errorf("%w: EnsureAdmin - create: %v", ErrInternal, err)
	}

	s.logger.Info("EnsureAdmin: created admin id=%d (%s)", admin.ID, admin.Email)
	return true, nil
}

func (s *Service) signInExisting(user *domain.User) (*AuthResponse, error) {
	if !user.Active {
		s.logger.Warn("GoogleCallback: user id=%d is inactive", user.ID)
		return nil, ErrUserInactive
	}
	return s.issue(user)
}

func (s *Service) registerFailure(ctx context.Context, email string) {
	n, err := s.attempts.RegisterFailure(ctx, email)
	if err != nil {
		s.logger.Warn("Login: failed to register attempt for %s: %v", email, err)
		return
	}
	s.logger.Warn("Login: invalid credentials for %s (attempt %d)", email, n)
}

func (s *Service) issue(user *domain.User) (*AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		s.logger.Error("Auth: failed to issue token for user id=%d: %v", user.ID, err)
		return nil, fmt.Errorf("%w: issue token: %v", ErrInternal, err)
	}
	return &AuthResponse{Token: token, ExpiresAt: expiresAt, User: FromDomainUser(user)}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	return email, nil
}

func validatePassword(password string) error {
	if len([]rune(password)) < domain.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, domain.MinPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, maxPasswordBytes)
	}
	return nil
}
