package service

import (
	"context"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/backend"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/domain"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/repository"
)

// Session хранит текущего пользователя и токен. Является источником
// bearer-токена для backend.Client, поэтому создаётся раньше клиента.
type Session struct {
	mu    sync.RWMutex
	user  *domain.User
	token string
	repo  repository.AuthRepository
	log   zerolog.Logger
}

func NewSession(repo repository.AuthRepository, log zerolog.Logger) *Session {
	return &Session{repo: repo, log: log}
}

// Load восстанавливает сессию из хранилища
func (s *Session) Load(ctx context.Context) error {
	user, token, err := s.repo.LoadAuth(ctx)
	if err != nil {
		return errors.Wrap(err, "load session")
	}
	s.mu.Lock()
	s.user, s.token = user, token
	s.mu.Unlock()
	return nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CurrentUser возвращает копию пользователя, nil если вход не выполнен
func (s *Session) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	cp := *s.user
	return &cp
}

func (s *Session) HasRole(role domain.Role) bool {
	u := s.CurrentUser()
	return u != nil && u.Role == role
}

func (s *Session) set(ctx context.Context, user *domain.User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user, s.token = user, token
	if err := s.repo.SaveAuth(ctx, user, token); err != nil {
		s.log.Error().Err(err).Msg("persist session")
	}
}

var _ backend.TokenSource = (*Session)(nil)
var _ CurrentUserProvider = (*Session)(nil)

// SessionService вход, регистрация, профиль и заявки на роль
type SessionService struct {
	session *Session
	api     AuthAPI
	log     zerolog.Logger
}

func NewSessionService(session *Session, api AuthAPI, log zerolog.Logger) *SessionService {
	return &SessionService{session: session, api: api, log: log}
}

func (s *SessionService) Session() *Session { return s.session }

func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("login failed")
		return nil, err
	}
	return s.accept(ctx, res, "")
}

func (s *SessionService) Register(ctx context.Context, req backend.RegisterRequest) (*domain.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, ErrInvalidInput
	}
	res, err := s.api.Register(ctx, req)
	if err != nil {
		s.log.Warn().Err(err).Str("email", req.Email).Msg("register failed")
		return nil, err
	}
	return s.accept(ctx, res, "")
}

// Logout очищает сессию локально даже если бэкенд не ответил
func (s *SessionService) Logout(ctx context.Context) {
	if s.session.Token() != "" {
		if err := s.api.Logout(ctx); err != nil {
			s.log.Warn().Err(err).Msg("backend logout failed")
		}
	}
	s.session.set(ctx, nil, "")
}

func (s *SessionService) UpdateProfile(ctx context.Context, upd backend.ProfileUpdate) (*domain.User, error) {
	if s.session.CurrentUser() == nil {
		return nil, ErrNotAuthenticated
	}
	res, err := s.api.UpdateProfile(ctx, upd)
	if err != nil {
		return nil, err
	}
	return s.accept(ctx, res, s.session.Token())
}

// RequestRoleChange подаёт заявку на роль аптеки или курьера
func (s *SessionService) RequestRoleChange(ctx context.Context, role domain.Role) error {
	u := s.session.CurrentUser()
	if u == nil {
		return ErrNotAuthenticated
	}
	if !role.Requestable() || u.Role == role {
		return ErrInvalidInput
	}
	if err := s.api.RequestRole(ctx, role); err != nil {
		s.log.Warn().Err(err).Str("role", string(role)).Msg("role request failed")
		return err
	}
	return nil
}

// accept сохраняет пользователя из ответа; пустой токен заменяется fallbackToken
func (s *SessionService) accept(ctx context.Context, res *backend.AuthResponse, fallbackToken string) (*domain.User, error) {
	if res == nil || res.ID == "" {
		return nil, errors.New("auth response without user")
	}
	token := res.Token
	if token == "" {
		token = fallbackToken
	}
	user := res.User
	s.session.set(ctx, &user, token)
	return s.session.CurrentUser(), nil
}
