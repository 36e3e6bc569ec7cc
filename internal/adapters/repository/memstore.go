package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ecosort/ecosort/internal/domain/model"
	"github.com/ecosort/ecosort/internal/domain/seed"
	"github.com/ecosort/ecosort/pkg/metrics"
	"github.com/google/uuid"
)

const (
	defaultLeaderboardSize       = 50
	defaultMetricsUpdateInterval = 5 * time.Second
	component                    = "repository"
)

// Collection names used for metrics labels.
const (
	collUsers       = "users"
	collQuestions   = "quiz_questions"
	collRules       = "recycling_rules"
	collCenters     = "recycling_centers"
	collResults     = "quiz_results"
	collAccounts    = "accounts"
	errKindNotFound = "not_found"
	errKindInvalid  = "invalid"
)

// MemStore is the in-memory Store. All collections share one RWMutex, so
// every operation is atomic with respect to every other. Nothing survives
// a restart.
type MemStore struct {
	mu sync.RWMutex

	users     *collection[model.User]
	questions *collection[model.QuizQuestion]
	rules     *collection[model.RecyclingRule]
	centers   *collection[model.RecyclingCenter]
	results   *collection[model.QuizResult]
	accounts  *collection[model.Account]
	byEmail   map[string]string

	now                   func() time.Time
	newID                 func() string
	leaderboardSize       int
	resultRetention       int
	seed                  bool
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

var _ Store = (*MemStore)(nil)

// NewMemStore builds a store, loads the seed content once and starts the
// background metrics updater. Call Close to stop it.
func NewMemStore(ctx context.Context, opts ...Option) *MemStore {
	s := &MemStore{
		users:                 newCollection[model.User](),
		questions:             newCollection[model.QuizQuestion](),
		rules:                 newCollection[model.RecyclingRule](),
		centers:               newCollection[model.RecyclingCenter](),
		results:               newCollection[model.QuizResult](),
		accounts:              newCollection[model.Account](),
		byEmail:               make(map[string]string),
		now:                   time.Now,
		newID:                 uuid.NewString,
		leaderboardSize:       defaultLeaderboardSize,
		seed:                  true,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.seed {
		s.loadSeed()
	}
	s.updateMetrics()
	s.startMetricsUpdater(ctx)
	return s
}

func (s *MemStore) loadSeed() {
	for _, q := range seed.QuizQuestions() {
		id := s.newID()
		s.questions.put(id, q.Build(id))
	}
	for _, r := range seed.RecyclingRules() {
		id := s.newID()
		s.rules.put(id, r.Build(id))
	}
	for _, c := range seed.RecyclingCenters() {
		id := s.newID()
		s.centers.put(id, c.Build(id))
	}
}

// Close stops the background metrics updater.
func (s *MemStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// --- users ---

// GetUser returns the user with id.
func (s *MemStore) GetUser(ctx context.Context, id string) (model.User, error) {
	defer observeQuery(time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users.get(id)
	if !ok {
		return model.User{}, notFound("user", id)
	}
	return u, nil
}

// GetUserByUsername scans users in creation order and returns the first match.
func (s *MemStore) GetUserByUsername(ctx context.Context, name string) (model.User, error) {
	defer observeQuery(time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users.find(func(u model.User) bool { return u.Username == name })
	if !ok {
		return model.User{}, notFound("user", name)
	}
	return u, nil
}

// CreateUser stores a new player with zero progress. Duplicate usernames
// are not rejected.
func (s *MemStore) CreateUser(ctx context.Context, in model.NewUser) (model.User, error) {
	defer observeUpdate(time.Now())
	if err := in.Validate(); err != nil {
		return model.User{}, invalid(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := model.User{
		ID:        s.newID(),
		Username:  in.Username,
		Level:     model.LevelForScore(0),
		CreatedAt: s.now(),
	}
	s.users.put(u.ID, u)
	metrics.UpdateCollectionSize(collUsers, s.users.len())
	return u, nil
}

// UpdateUserScore replaces score, quizzesCompleted and bestStreak and
// recomputes the level in a single write.
func (s *MemStore) UpdateUserScore(ctx context.Context, id string, score, quizzesCompleted, bestStreak int) (model.User, error) {
	defer observeUpdate(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users.get(id)
	if !ok {
		return model.User{}, notFound("user", id)
	}
	u.Score = score
	u.QuizzesCompleted = quizzesCompleted
	u.BestStreak = bestStreak
	u.Level = model.LevelForScore(score)
	s.users.put(id, u)
	return u, nil
}

// Leaderboard returns at most leaderboardSize users by score desc.
func (s *MemStore) Leaderboard(ctx context.Context) ([]model.User, error) {
	defer observeQuery(time.Now())
	s.mu.RLock()
	all := s.users.filter(nil)
	s.mu.RUnlock()

	slices.SortStableFunc(all, func(a, b model.User) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(all) > s.leaderboardSize {
		all = all[:s.leaderboardSize]
	}
	return all, nil
}

// --- quiz questions ---

// QuizQuestions returns every question in creation order.
func (s *MemStore) QuizQuestions(ctx context.Context) ([]model.QuizQuestion, error) {
	return s.listQuestions(nil), nil
}

// QuizQuestionsByCategory returns the questions tagged with category.
func (s *MemStore) QuizQuestionsByCategory(ctx context.Context, category string) ([]model.QuizQuestion, error) {
	return s.listQuestions(func(q model.QuizQuestion) bool { return q.Category == category }), nil
}

func (s *MemStore) listQuestions(keep func(model.QuizQuestion) bool) []model.QuizQuestion {
	defer observeQuery(time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.questions.filter(keep)
	for i := range out {
		out[i] = out[i].Clone()
	}
	return out
}

// GetQuizQuestion returns the question with id.
func (s *MemStore) GetQuizQuestion(ctx context.Context, id string) (model.QuizQuestion, error) {
	defer observeQuery(time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questions.get(id)
	if !ok {
		return model.QuizQuestion{}, notFound("quiz question", id)
	}
	return q.Clone(), nil
}

// CreateQuizQuestion stores a question; difficulty defaults to easy.
func (s *MemStore) CreateQuizQuestion(ctx context.Context, in model.NewQuizQuestion) (model.QuizQuestion, error) {
	defer observeUpdate(time.Now())
	if err := in.Validate(); err != nil {
		return model.QuizQuestion{}, invalid(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	q := in.Build(s.newID())
	s.questions.put(q.ID, q)
	metrics.UpdateCollectionSize(collQuestions, s.questions.len())
	return q.Clone(), nil
}

// UpdateQuizQuestion merges patch over the stored question. The merged
// record must still have a correct answer inside its options.
func (s *MemStore) UpdateQuizQuestion(ctx context.Context, id string, patch model.QuizQuestionPatch) (model.QuizQuestion, error) {
	defer observeUpdate(time.Now())
	if err := patch.Validate(); err != nil {
		return model.QuizQuestion{}, invalid(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions.get(id)
	if !ok {
		return model.QuizQuestion{}, notFound("quiz question", id)
	}
	merged := patch.Apply(q)
	if err := merged.Check(); err != nil {
		return model.QuizQuestion{}, invalid(err)
	}
	s.questions.put(id, merged)
	return merged.Clone(), nil
}

// DeleteQuizQuestion reports whether a question was removed.
func (s *MemStore) DeleteQuizQuestion(ctx context.Context, id string) (bool, error) {
	defer observeUpdate(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.questions.remove(id)
	metrics.UpdateCollectionSize(collQuestions, s.questions.len())
	return removed, nil
}

// --- quiz results ---

// SaveQuizResult appends a result stamped with the completion time. When a
// retention limit is set, the user's oldest results beyond it are dropped.
func (s *MemStore) SaveQuizResult(ctx context.Context, in model.NewQuizResult) (model.QuizResult, error) {
	defer observeUpdate(time.Now())
	if err := in.Validate(); err != nil {
		return model.QuizResult{}, invalid(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := in.Build(s.newID(), s.now())
	s.results.put(r.ID, r)
	if s.resultRetention > 0 {
		s.trimResults(r.UserID)
	}
	metrics.UpdateCollectionSize(collResults, s.results.len())
	return r, nil
}

func (s *MemStore) trimResults(userID string) {
	owned := s.results.filter(func(r model.QuizResult) bool { return r.UserID == userID })
	for len(owned) > s.resultRetention {
		s.results.remove(owned[0].ID)
		owned = owned[1:]
	}
}

// UserQuizResults returns a user's results, oldest first.
func (s *MemStore) UserQuizResults(ctx context.Context, userID string) ([]model.QuizResult, error) {
	defer observeQuery(time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.results.filter(func(r model.QuizResult) bool { return r.UserID == userID }), nil
}

// --- recycling rules ---

// RecyclingRules returns every rule in creation order.
func (s *MemStore) RecyclingRules(ctx context.Context) ([]model.RecyclingRule, error) {
	return s.listRules(nil), nil
}

// RecyclingRulesByCategory returns the rules tagged with category.
func (s *MemStore) RecyclingRulesByCategory(ctx context.Context, category string) ([]model.RecyclingRule, error) {
	return s.listRules(func(r model.RecyclingRule) bool { return r.Category == category }), nil
}

func (s *MemStore) listRules(keep func(model.RecyclingRule) bool) []model.RecyclingRule {
	defer observeQuery(time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.rules.filter(keep)
	for i := range out {
		out[i] = out[i].Clone()
	}
	return out
}

// GetRecyclingRule returns the rule with id.
func (s *MemStore) GetRecyclingRule(ctx context.Context, id string) (model.RecyclingRule, error) {
	defer observeQuery(time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rules.get(id)
	if !ok {
		return model.RecyclingRule{}, notFound("recycling rule", id)
	}
	return r.Clone(), nil
}

// CreateRecyclingRule stores a rule.
func (s *MemStore) CreateRecyclingRule(ctx context.Context, in model.NewRecyclingRule) (model.RecyclingRule, error) {
	defer observeUpdate(time.Now())
	if err := in.Validate(); err != nil {
		return model.RecyclingRule{}, invalid(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := in.Build(s.newID())
	s.rules.put(r.ID, r)
	metrics.UpdateCollectionSize(collRules, s.rules.len())
	return r.Clone(), nil
}

// UpdateRecyclingRule merges patch over the stored rule.
func (s *MemStore) UpdateRecyclingRule(ctx context.Context, id string, patch model.RecyclingRulePatch) (model.RecyclingRule, error) {
	defer observeUpdate(time.Now())
	if err := patch.Validate(); err != nil {
		return model.RecyclingRule{}, invalid(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rules.get(id)
	if !ok {
		return model.RecyclingRule{}, notFound("recycling rule", id)
	}
	merged := patch.Apply(r)
	s.rules.put(id, merged)
	return merged.Clone(), nil
}

// DeleteRecyclingRule reports whether a rule was removed.
func (s *MemStore) DeleteRecyclingRule(ctx context.Context, id string) (bool, error) {
	defer observeUpdate(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.rules.remove(id)
	metrics.UpdateCollectionSize(collRules, s.rules.len())
	return removed, nil
}

// --- recycling centers ---

// RecyclingCenters returns every center in creation order.
func (s *MemStore) RecyclingCenters(ctx context.Context) ([]model.RecyclingCenter, error) {
	return s.listCenters(nil), nil
}

// RecyclingCentersByZip returns centers at zip or sharing its first three characters.
func (s *MemStore) RecyclingCentersByZip(ctx context.Context, zip string) ([]model.RecyclingCenter, error) {
	return s.listCenters(func(c model.RecyclingCenter) bool { return c.NearZip(zip) }), nil
}

func (s *MemStore) listCenters(keep func(model.RecyclingCenter) bool) []model.RecyclingCenter {
	defer observeQuery(time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.centers.filter(keep)
	for i := range out {
		out[i] = out[i].Clone()
	}
	return out
}

// GetRecyclingCenter returns the center with id.
func (s *MemStore) GetRecyclingCenter(ctx context.Context, id string) (model.RecyclingCenter, error) {
	defer observeQuery(time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.centers.get(id)
	if !ok {
		return model.RecyclingCenter{}, notFound("recycling center", id)
	}
	return c.Clone(), nil
}

// CreateRecyclingCenter stores a center; distance always starts null.
func (s *MemStore) CreateRecyclingCenter(ctx context.Context, in model.NewRecyclingCenter) (model.RecyclingCenter, error) {
	defer observeUpdate(time.Now())
	if err := in.Validate(); err != nil {
		return model.RecyclingCenter{}, invalid(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := in.Build(s.newID())
	s.centers.put(c.ID, c)
	metrics.UpdateCollectionSize(collCenters, s.centers.len())
	return c.Clone(), nil
}

// UpdateRecyclingCenter merges patch over the stored center.
func (s *MemStore) UpdateRecyclingCenter(ctx context.Context, id string, patch model.RecyclingCenterPatch) (model.RecyclingCenter, error) {
	defer observeUpdate(time.Now())
	if err := patch.Validate(); err != nil {
		return model.RecyclingCenter{}, invalid(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.centers.get(id)
	if !ok {
		return model.RecyclingCenter{}, notFound("recycling center", id)
	}
	merged := patch.Apply(c)
	s.centers.put(id, merged)
	return merged.Clone(), nil
}

// DeleteRecyclingCenter reports whether a center was removed.
func (s *MemStore) DeleteRecyclingCenter(ctx context.Context, id string) (bool, error) {
	defer observeUpdate(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.centers.remove(id)
	metrics.UpdateCollectionSize(collCenters, s.centers.len())
	return removed, nil
}

// --- accounts ---

// CreateAccount stores credentials keyed by normalised email.
func (s *MemStore) CreateAccount(ctx context.Context, acc model.Account) (model.Account, error) {
	defer observeUpdate(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.putAccount(acc)
}

// RegisterPlayer creates a player and the account linked to it in one write.
// Nothing is stored when the email is taken or the username is invalid.
func (s *MemStore) RegisterPlayer(ctx context.Context, in model.NewUser, acc model.Account) (model.User, model.Account, error) {
	defer observeUpdate(time.Now())
	if err := in.Validate(); err != nil {
		return model.User{}, model.Account{}, invalid(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := model.User{
		ID:        s.newID(),
		Username:  in.Username,
		Level:     model.LevelForScore(0),
		CreatedAt: s.now(),
	}
	acc.UserID = u.ID
	acc.Username = u.Username
	acc, err := s.putAccount(acc)
	if err != nil {
		return model.User{}, model.Account{}, err
	}
	s.users.put(u.ID, u)
	metrics.UpdateCollectionSize(collUsers, s.users.len())
	return u, acc, nil
}

// putAccount stores acc; the caller holds the write lock.
func (s *MemStore) putAccount(acc model.Account) (model.Account, error) {
	acc.Email = model.NormalizeEmail(acc.Email)
	if _, taken := s.byEmail[acc.Email]; taken {
		return model.Account{}, fmt.Errorf("account %s: %w", acc.Email, ErrConflict)
	}
	if acc.ID == "" {
		acc.ID = s.newID()
	}
	if acc.Role == "" {
		acc.Role = model.RoleUser
	}
	acc.CreatedAt = s.now()
	acc.PasswordHash = slices.Clone(acc.PasswordHash)
	s.accounts.put(acc.ID, acc)
	s.byEmail[acc.Email] = acc.ID
	metrics.UpdateCollectionSize(collAccounts, s.accounts.len())
	acc.PasswordHash = slices.Clone(acc.PasswordHash)
	return acc, nil
}

// AccountByEmail looks up credentials by email, case-insensitively.
func (s *MemStore) AccountByEmail(ctx context.Context, email string) (model.Account, error) {
	defer observeQuery(time.Now())
	email = model.NormalizeEmail(email)

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return model.Account{}, notFound("account", email)
	}
	acc, _ := s.accounts.get(id)
	acc.PasswordHash = slices.Clone(acc.PasswordHash)
	return acc, nil
}

// HasAdmin reports whether any admin account exists.
func (s *MemStore) HasAdmin(ctx context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.accounts.find(func(a model.Account) bool { return a.Role == model.RoleAdmin })
	return ok
}

// RecordLogin stamps the account's last login time.
func (s *MemStore) RecordLogin(ctx context.Context, id string) (model.Account, error) {
	defer observeUpdate(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts.get(id)
	if !ok {
		return model.Account{}, notFound("account", id)
	}
	acc.LastLogin = s.now()
	s.accounts.put(id, acc)
	acc.PasswordHash = slices.Clone(acc.PasswordHash)
	return acc, nil
}

// Counts reports collection sizes.
func (s *MemStore) Counts(ctx context.Context) Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Counts{
		Users:            s.users.len(),
		QuizQuestions:    s.questions.len(),
		RecyclingRules:   s.rules.len(),
		RecyclingCenters: s.centers.len(),
		QuizResults:      s.results.len(),
		Accounts:         s.accounts.len(),
	}
}

// --- metrics ---

func (s *MemStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *MemStore) updateMetrics() {
	c := s.Counts(context.Background())
	metrics.UpdateCollectionSize(collUsers, c.Users)
	metrics.UpdateCollectionSize(collQuestions, c.QuizQuestions)
	metrics.UpdateCollectionSize(collRules, c.RecyclingRules)
	metrics.UpdateCollectionSize(collCenters, c.RecyclingCenters)
	metrics.UpdateCollectionSize(collResults, c.QuizResults)
	metrics.UpdateCollectionSize(collAccounts, c.Accounts)
}

func observeQuery(start time.Time) {
	metrics.RecordRepositoryQueryLatency(sinceMs(start))
}

func observeUpdate(start time.Time) {
	metrics.RecordRepositoryUpdateLatency(sinceMs(start))
}

func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

func notFound(kind, key string) error {
	metrics.RecordErrorByComponent(component, errKindNotFound)
	return fmt.Errorf("%s %q: %w", kind, key, ErrNotFound)
}

func invalid(err error) error {
	metrics.RecordErrorByComponent(component, errKindInvalid)
	return err
}
