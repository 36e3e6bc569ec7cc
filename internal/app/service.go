// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ecosort/ecosort/internal/adapters/auth"
	"github.com/ecosort/ecosort/internal/adapters/repository"
	"github.com/ecosort/ecosort/internal/domain/model"
	"github.com/ecosort/ecosort/internal/domain/seed"
	"github.com/ecosort/ecosort/pkg/logger"
	"github.com/ecosort/ecosort/pkg/metrics"
)

// ErrNotStarted is returned when the service is used before Start.
var ErrNotStarted = errors.New("service not started")

// Content collections, used as metrics labels.
const (
	contentQuestions = "quiz_questions"
	contentRules     = "recycling_rules"
	contentCenters   = "recycling_centers"
)

// Service implements the API dependencies for the EcoSort backend.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	hasher *auth.Hasher
	tokens *auth.TokenIssuer

	// Configuration
	leaderboardSize int
	resultRetention int
	seedContent     bool
	jwtSecret       string
	jwtIssuer       string
	tokenTTL        time.Duration
	bcryptCost      int
	admin           adminAccount
	storeOpts       []repository.Option

	// State
	started bool

	// Logging
	logger logger.Logger
}

type adminAccount struct {
	username string
	email    string
	password string
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLeaderboardSize caps the leaderboard length.
func WithLeaderboardSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.leaderboardSize = n
		}
	}
}

// WithResultRetention keeps at most n quiz results per user; 0 keeps all.
func WithResultRetention(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.resultRetention = n
		}
	}
}

// WithSeedContent toggles the starter questions and rules.
func WithSeedContent(enabled bool) Option {
	return func(s *Service) {
		s.seedContent = enabled
	}
}

// WithJWT configures session token signing.
func WithJWT(secret, issuer string, ttl time.Duration) Option {
	return func(s *Service) {
		if secret != "" {
			s.jwtSecret = secret
		}
		if issuer != "" {
			s.jwtIssuer = issuer
		}
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

// WithAdminAccount sets the account seeded when no admin exists.
// An empty email disables admin seeding.
func WithAdminAccount(username, email, password string) Option {
	return func(s *Service) {
		s.admin = adminAccount{username: username, email: email, password: password}
	}
}

// WithStoreOptions passes extra options to the repository, e.g. a fixed clock in tests.
func WithStoreOptions(opts ...repository.Option) Option {
	return func(s *Service) {
		s.storeOpts = append(s.storeOpts, opts...)
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		leaderboardSize: 50,
		seedContent:     true,
		jwtSecret:       "ecosort-dev-secret",
		jwtIssuer:       "ecosort",
		tokenTTL:        24 * time.Hour,
		bcryptCost:      10,
		admin: adminAccount{
			username: "admin",
			email:    "admin@ecosort.com",
			password: "admin123",
		},
		logger: nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the store, seeds the admin account and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting ecosort service...")

	storeOpts := append([]repository.Option{
		repository.WithLeaderboardSize(s.leaderboardSize),
		repository.WithResultRetention(s.resultRetention),
		repository.WithSeed(s.seedContent),
	}, s.storeOpts...)
	s.store = repository.NewMemStore(ctx, storeOpts...)
	s.hasher = auth.NewHasher(s.bcryptCost)
	s.tokens = auth.NewTokenIssuer(s.jwtSecret, s.jwtIssuer, s.tokenTTL)

	if err := s.seedAdmin(ctx); err != nil {
		if closer, ok := s.store.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
		return fmt.Errorf("seed admin account: %w", err)
	}

	counts := s.store.Counts(ctx)
	s.started = true
	s.logger.Info(ctx, "ecosort service started",
		logger.Int("quizQuestions", counts.QuizQuestions),
		logger.Int("recyclingRules", counts.RecyclingRules),
		logger.Int("leaderboardSize", s.leaderboardSize),
		logger.Int("resultRetention", s.resultRetention),
	)

	return nil
}

func (s *Service) seedAdmin(ctx context.Context) error {
	if s.admin.email == "" || s.store.HasAdmin(ctx) {
		return nil
	}

	hash, err := s.hasher.Hash(s.admin.password)
	if err != nil {
		return err
	}
	// The admin has no player record, so it never shows on the leaderboard.
	_, err = s.store.CreateAccount(ctx, model.Account{
		Username:     s.admin.username,
		Email:        s.admin.email,
		Role:         model.RoleAdmin,
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "seeded admin account", logger.String("email", model.NormalizeEmail(s.admin.email)))
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping ecosort service...")

	if s.store != nil {
		if closer, ok := s.store.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "ecosort service stopped")
}

func (s *Service) ready() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// --- users ---

// GetUser returns the user with id.
func (s *Service) GetUser(ctx context.Context, id string) (model.User, error) {
	st, err := s.ready()
	if err != nil {
		return model.User{}, err
	}
	return st.GetUser(ctx, id)
}

// GetUserByUsername returns the first user registered with name.
func (s *Service) GetUserByUsername(ctx context.Context, name string) (model.User, error) {
	st, err := s.ready()
	if err != nil {
		return model.User{}, err
	}
	return st.GetUserByUsername(ctx, name)
}

// CreateUser stores a new player.
func (s *Service) CreateUser(ctx context.Context, in model.NewUser) (model.User, error) {
	st, err := s.ready()
	if err != nil {
		return model.User{}, err
	}
	u, err := st.CreateUser(ctx, in)
	if err != nil {
		return model.User{}, err
	}
	metrics.RecordUserCreated()
	s.logger.Info(ctx, "user created", logger.String("userId", u.ID), logger.String("username", u.Username))
	return u, nil
}

// UpdateUserScore replaces a player's progress and recomputes the level.
func (s *Service) UpdateUserScore(ctx context.Context, id string, upd model.ScoreUpdate) (model.User, error) {
	st, err := s.ready()
	if err != nil {
		return model.User{}, err
	}
	if err := upd.Validate(); err != nil {
		return model.User{}, err
	}
	u, err := st.UpdateUserScore(ctx, id, *upd.Score, *upd.QuizzesCompleted, *upd.BestStreak)
	if err != nil {
		return model.User{}, err
	}
	metrics.RecordScoreUpdate()
	s.logger.Debug(ctx, "score updated",
		logger.String("userId", u.ID),
		logger.Int("score", u.Score),
		logger.Int("level", u.Level),
	)
	return u, nil
}

// UserStats summarises a player's saved quiz results.
func (s *Service) UserStats(ctx context.Context, id string) (model.UserStats, error) {
	st, err := s.ready()
	if err != nil {
		return model.UserStats{}, err
	}
	u, err := st.GetUser(ctx, id)
	if err != nil {
		return model.UserStats{}, err
	}
	results, err := st.UserQuizResults(ctx, id)
	if err != nil {
		return model.UserStats{}, err
	}
	return model.StatsFor(u, results), nil
}

// Leaderboard returns the top players by score.
func (s *Service) Leaderboard(ctx context.Context) ([]model.User, error) {
	st, err := s.ready()
	if err != nil {
		return nil, err
	}
	metrics.RecordLeaderboardRead()
	return st.Leaderboard(ctx)
}

// Categories returns the waste category catalogue.
func (s *Service) Categories(ctx context.Context) []model.CategoryInfo {
	return seed.Categories()
}

// --- quiz ---

// QuizQuestions lists questions, filtered by category when it is non-empty.
func (s *Service) QuizQuestions(ctx context.Context, category string) ([]model.QuizQuestion, error) {
	st, err := s.ready()
	if err != nil {
		return nil, err
	}
	if category == "" {
		return st.QuizQuestions(ctx)
	}
	return st.QuizQuestionsByCategory(ctx, category)
}

// GetQuizQuestion returns the question with id.
func (s *Service) GetQuizQuestion(ctx context.Context, id string) (model.QuizQuestion, error) {
	st, err := s.ready()
	if err != nil {
		return model.QuizQuestion{}, err
	}
	return st.GetQuizQuestion(ctx, id)
}

// CreateQuizQuestion stores a question.
func (s *Service) CreateQuizQuestion(ctx context.Context, in model.NewQuizQuestion) (model.QuizQuestion, error) {
	st, err := s.ready()
	if err != nil {
		return model.QuizQuestion{}, err
	}
	q, err := st.CreateQuizQuestion(ctx, in)
	if err != nil {
		return model.QuizQuestion{}, err
	}
	s.contentChanged(ctx, contentQuestions, "create", q.ID)
	return q, nil
}

// UpdateQuizQuestion merges patch over the question with id.
func (s *Service) UpdateQuizQuestion(ctx context.Context, id string, patch model.QuizQuestionPatch) (model.QuizQuestion, error) {
	st, err := s.ready()
	if err != nil {
		return model.QuizQuestion{}, err
	}
	q, err := st.UpdateQuizQuestion(ctx, id, patch)
	if err != nil {
		return model.QuizQuestion{}, err
	}
	s.contentChanged(ctx, contentQuestions, "update", id)
	return q, nil
}

// DeleteQuizQuestion reports whether the question existed.
func (s *Service) DeleteQuizQuestion(ctx context.Context, id string) (bool, error) {
	st, err := s.ready()
	if err != nil {
		return false, err
	}
	ok, err := st.DeleteQuizQuestion(ctx, id)
	if ok {
		s.contentChanged(ctx, contentQuestions, "delete", id)
	}
	return ok, err
}

// SaveQuizResult records a completed quiz.
func (s *Service) SaveQuizResult(ctx context.Context, in model.NewQuizResult) (model.QuizResult, error) {
	st, err := s.ready()
	if err != nil {
		return model.QuizResult{}, err
	}
	r, err := st.SaveQuizResult(ctx, in)
	if err != nil {
		return model.QuizResult{}, err
	}
	metrics.RecordQuizResult(r.CorrectAnswers, r.TotalQuestions)
	s.logger.Info(ctx, "quiz result saved",
		logger.String("userId", r.UserID),
		logger.Int("score", r.Score),
		logger.Int("correct", r.CorrectAnswers),
		logger.Int("total", r.TotalQuestions),
	)
	return r, nil
}

// UserQuizResults lists a player's results, oldest first.
func (s *Service) UserQuizResults(ctx context.Context, userID string) ([]model.QuizResult, error) {
	st, err := s.ready()
	if err != nil {
		return nil, err
	}
	return st.UserQuizResults(ctx, userID)
}

// --- recycling ---

// RecyclingRules lists rules, filtered by category when it is non-empty.
func (s *Service) RecyclingRules(ctx context.Context, category string) ([]model.RecyclingRule, error) {
	st, err := s.ready()
	if err != nil {
		return nil, err
	}
	if category == "" {
		return st.RecyclingRules(ctx)
	}
	return st.RecyclingRulesByCategory(ctx, category)
}

// GetRecyclingRule returns the rule with id.
func (s *Service) GetRecyclingRule(ctx context.Context, id string) (model.RecyclingRule, error) {
	st, err := s.ready()
	if err != nil {
		return model.RecyclingRule{}, err
	}
	return st.GetRecyclingRule(ctx, id)
}

// CreateRecyclingRule stores a rule.
func (s *Service) CreateRecyclingRule(ctx context.Context, in model.NewRecyclingRule) (model.RecyclingRule, error) {
	st, err := s.ready()
	if err != nil {
		return model.RecyclingRule{}, err
	}
	r, err := st.CreateRecyclingRule(ctx, in)
	if err != nil {
		return model.RecyclingRule{}, err
	}
	s.contentChanged(ctx, contentRules, "create", r.ID)
	return r, nil
}

// UpdateRecyclingRule merges patch over the rule with id.
func (s *Service) UpdateRecyclingRule(ctx context.Context, id string, patch model.RecyclingRulePatch) (model.RecyclingRule, error) {
	st, err := s.ready()
	if err != nil {
		return model.RecyclingRule{}, err
	}
	r, err := st.UpdateRecyclingRule(ctx, id, patch)
	if err != nil {
		return model.RecyclingRule{}, err
	}
	s.contentChanged(ctx, contentRules, "update", id)
	return r, nil
}

// DeleteRecyclingRule reports whether the rule existed.
func (s *Service) DeleteRecyclingRule(ctx context.Context, id string) (bool, error) {
	st, err := s.ready()
	if err != nil {
		return false, err
	}
	ok, err := st.DeleteRecyclingRule(ctx, id)
	if ok {
		s.contentChanged(ctx, contentRules, "delete", id)
	}
	return ok, err
}

// RecyclingCenters lists centers, narrowed to a zip area when zip is non-empty.
func (s *Service) RecyclingCenters(ctx context.Context, zip string) ([]model.RecyclingCenter, error) {
	st, err := s.ready()
	if err != nil {
		return nil, err
	}
	if zip == "" {
		return st.RecyclingCenters(ctx)
	}
	return st.RecyclingCentersByZip(ctx, zip)
}

// GetRecyclingCenter returns the center with id.
func (s *Service) GetRecyclingCenter(ctx context.Context, id string) (model.RecyclingCenter, error) {
	st, err := s.ready()
	if err != nil {
		return model.RecyclingCenter{}, err
	}
	return st.GetRecyclingCenter(ctx, id)
}

// CreateRecyclingCenter stores a center.
func (s *Service) CreateRecyclingCenter(ctx context.Context, in model.NewRecyclingCenter) (model.RecyclingCenter, error) {
	st, err := s.ready()
	if err != nil {
		return model.RecyclingCenter{}, err
	}
	c, err := st.CreateRecyclingCenter(ctx, in)
	if err != nil {
		return model.RecyclingCenter{}, err
	}
	s.contentChanged(ctx, contentCenters, "create", c.ID)
	return c, nil
}

// UpdateRecyclingCenter merges patch over the center with id.
func (s *Service) UpdateRecyclingCenter(ctx context.Context, id string, patch model.RecyclingCenterPatch) (model.RecyclingCenter, error) {
	st, err := s.ready()
	if err != nil {
		return model.RecyclingCenter{}, err
	}
	c, err := st.UpdateRecyclingCenter(ctx, id, patch)
	if err != nil {
		return model.RecyclingCenter{}, err
	}
	s.contentChanged(ctx, contentCenters, "update", id)
	return c, nil
}

// DeleteRecyclingCenter reports whether the center existed.
func (s *Service) DeleteRecyclingCenter(ctx context.Context, id string) (bool, error) {
	st, err := s.ready()
	if err != nil {
		return false, err
	}
	ok, err := st.DeleteRecyclingCenter(ctx, id)
	if ok {
		s.contentChanged(ctx, contentCenters, "delete", id)
	}
	return ok, err
}

func (s *Service) contentChanged(ctx context.Context, collection, action, id string) {
	metrics.RecordContentChange(collection, action)
	s.logger.Info(ctx, "content changed",
		logger.String("collection", collection),
		logger.String("action", action),
		logger.String("id", id),
	)
}

// --- auth ---

// Register creates a player and its login account, then opens a session.
func (s *Service) Register(ctx context.Context, reg model.Registration) (model.AuthResult, error) {
	st, err := s.ready()
	if err != nil {
		return model.AuthResult{}, err
	}
	if err := reg.Validate(); err != nil {
		return model.AuthResult{}, err
	}
	if _, err := st.AccountByEmail(ctx, reg.Email); err == nil {
		return model.AuthResult{}, fmt.Errorf("account %s: %w", reg.Email, repository.ErrConflict)
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("hash password: %w", err)
	}
	u, acc, err := st.RegisterPlayer(ctx, model.NewUser{Username: reg.Username}, model.Account{
		Email:        reg.Email,
		Role:         model.RoleUser,
		PasswordHash: hash,
	})
	if err != nil {
		return model.AuthResult{}, err
	}
	metrics.RecordUserCreated()
	metrics.RecordRegistration()
	s.logger.Info(ctx, "account registered", logger.String("userId", u.ID), logger.String("email", acc.Email))

	return s.openSession(acc, &u)
}

// Login checks credentials and opens a session.
func (s *Service) Login(ctx context.Context, cred model.Credentials) (model.AuthResult, error) {
	st, err := s.ready()
	if err != nil {
		return model.AuthResult{}, err
	}
	if err := cred.Validate(); err != nil {
		return model.AuthResult{}, err
	}

	acc, err := st.AccountByEmail(ctx, cred.Email)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.RecordLogin("invalid")
		return model.AuthResult{}, auth.ErrInvalidCredentials
	}
	if err != nil {
		return model.AuthResult{}, err
	}
	if err := s.hasher.Compare(acc.PasswordHash, cred.Password); err != nil {
		metrics.RecordLogin("invalid")
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return model.AuthResult{}, auth.ErrInvalidCredentials
		}
		return model.AuthResult{}, fmt.Errorf("compare password: %w", err)
	}

	acc, err = st.RecordLogin(ctx, acc.ID)
	if err != nil {
		return model.AuthResult{}, err
	}
	var player *model.User
	if acc.UserID != "" {
		u, err := st.GetUser(ctx, acc.UserID)
		if err != nil {
			return model.AuthResult{}, err
		}
		player = &u
	}
	metrics.RecordLogin("success")
	s.logger.Info(ctx, "login", logger.String("accountId", acc.ID), logger.String("role", acc.Role))

	return s.openSession(acc, player)
}

func (s *Service) openSession(acc model.Account, u *model.User) (model.AuthResult, error) {
	token, claims, err := s.tokens.Issue(acc.UserID, acc.ID, acc.Username, acc.Role)
	if err != nil {
		return model.AuthResult{}, err
	}
	return model.AuthResult{
		Token:   token,
		Session: acc.Session(claims.IssuedAt.Time),
		User:    u,
	}, nil
}

// Session resolves a bearer token into the session it was issued for.
func (s *Service) Session(ctx context.Context, token string) (model.Session, error) {
	if _, err := s.ready(); err != nil {
		return model.Session{}, err
	}
	claims, err := s.tokens.Validate(token)
	if err != nil {
		s.logger.Debug(ctx, "session rejected", logger.Error(err))
		return model.Session{}, err
	}
	session := model.Session{
		UserID:          claims.UserID,
		Username:        claims.Username,
		Role:            claims.Role,
		IsAuthenticated: true,
	}
	if claims.IssuedAt != nil {
		session.LoginTime = claims.IssuedAt.Time
	}
	return session, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"leaderboardSize": s.leaderboardSize,
		"resultRetention": s.resultRetention,
		"seedContent":     s.seedContent,
	}

	if s.started {
		stats["records"] = s.store.Counts(context.Background())
	}

	return stats
}
