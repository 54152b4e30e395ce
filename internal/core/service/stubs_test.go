package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/imezy/imezy-api/internal/core/domain"
	"github.com/imezy/imezy-api/internal/core/ports"
)

// Map-backed repositories so multi-step flows (login twice, logout, reissue)
// behave like real storage.

type memCreditRepo struct {
	mu       sync.Mutex
	balances map[string]int64
	steps    map[string]int64
}

func newMemCreditRepo() *memCreditRepo {
	return &memCreditRepo{
		balances: map[string]int64{},
		steps:    map[string]int64{},
	}
}

func (r *memCreditRepo) put(email string, balance, step int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[email] = balance
	r.steps[email] = step
}

func (r *memCreditRepo) Balance(_ context.Context, email string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bal, ok := r.balances[email]
	if !ok {
		return 0, domain.ErrCreditNotFound
	}
	return bal, nil
}

func (r *memCreditRepo) Adjust(_ context.Context, email string, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bal, ok := r.balances[email]
	if !ok {
		return 0, domain.ErrCreditNotFound
	}
	if bal+delta < 0 {
		return 0, domain.ErrInsufficientCredits
	}
	r.balances[email] = bal + delta
	return r.balances[email], nil
}

func (r *memCreditRepo) Refill(_ context.Context, email string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bal, ok := r.balances[email]
	if !ok {
		return 0, domain.ErrCreditNotFound
	}
	r.balances[email] = bal + r.steps[email]
	return r.balances[email], nil
}

func (r *memCreditRepo) List(_ context.Context) ([]domain.Credit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Credit, 0, len(r.balances))
	for email, bal := range r.balances {
		out = append(out, domain.Credit{Email: email, Balance: bal, IncrementStep: r.steps[email]})
	}
	return out, nil
}

func (r *memCreditRepo) rekey(oldEmail, newEmail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if bal, ok := r.balances[oldEmail]; ok {
		r.balances[newEmail] = bal
		r.steps[newEmail] = r.steps[oldEmail]
		delete(r.balances, oldEmail)
		delete(r.steps, oldEmail)
	}
}

func (r *memCreditRepo) drop(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.balances, email)
	delete(r.steps, email)
}

type memUserRepo struct {
	mu      sync.Mutex
	seq     int
	users   map[string]*domain.User
	credits *memCreditRepo

	// failCredit simulates the credit insert failing after the user insert.
	failCredit bool
}

func newMemUserRepo(credits *memCreditRepo) *memUserRepo {
	return &memUserRepo{users: map[string]*domain.User{}, credits: credits}
}

func (r *memUserRepo) CreateWithCredit(_ context.Context, user *domain.User, credit *domain.Credit) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrDuplicateEmail
		}
		if u.Username == user.Username {
			return nil, domain.ErrDuplicateUsername
		}
	}
	r.seq++
	cp := *user
	cp.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[cp.ID] = &cp
	if r.failCredit {
		delete(r.users, cp.ID)
		return nil, domain.ErrStorageCommit
	}
	r.credits.put(credit.Email, credit.Balance, credit.IncrementStep)
	out := cp
	return &out, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memUserRepo) UpdateEmail(_ context.Context, id, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	old := u.Email
	u.Email = email
	r.credits.rekey(old, email)
	return nil
}

func (r *memUserRepo) UpdateUsername(_ context.Context, id, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Username = username
	return nil
}

func (r *memUserRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *memUserRepo) SetAdmin(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsAdmin = true
	return nil
}

func (r *memUserRepo) SetLastLogin(_ context.Context, email string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u.LastLogin = at
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	r.credits.drop(u.Email)
	delete(r.users, id)
	return nil
}

type memRefreshRepo struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemRefreshRepo() *memRefreshRepo {
	return &memRefreshRepo{tokens: map[string]string{}}
}

func (r *memRefreshRepo) Put(_ context.Context, email, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[email] = token
	return nil
}

func (r *memRefreshRepo) Get(_ context.Context, email string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tok, ok := r.tokens[email]
	if !ok {
		return "", domain.ErrTokenInvalid
	}
	return tok, nil
}

func (r *memRefreshRepo) Delete(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tokens[email]
	delete(r.tokens, email)
	return ok, nil
}

type stubEngine struct {
	mu         sync.Mutex
	calls      int
	generateFn func(ctx context.Context, kind domain.GenerationKind, params ports.GenerateParams) (*domain.GenerationResult, error)
}

func (s *stubEngine) Generate(ctx context.Context, kind domain.GenerationKind, params ports.GenerateParams) (*domain.GenerationResult, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.generateFn(ctx, kind, params)
}

func (s *stubEngine) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type memGenerationRepo struct {
	mu   sync.Mutex
	recs []domain.GenerationRecord
}

func (r *memGenerationRepo) Insert(_ context.Context, rec *domain.GenerationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.ID = fmt.Sprintf("gen-%d", len(r.recs)+1)
	r.recs = append(r.recs, *rec)
	return nil
}

func (r *memGenerationRepo) ListByEmail(_ context.Context, email string) ([]domain.GenerationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.GenerationRecord
	for _, rec := range r.recs {
		if rec.Email == email {
			out = append(out, rec)
		}
	}
	return out, nil
}

type memArtifactStore struct {
	mu    sync.Mutex
	saved map[string]*domain.GenerationResult
}

func newMemArtifactStore() *memArtifactStore {
	return &memArtifactStore{saved: map[string]*domain.GenerationResult{}}
}

func artifactKey(kind domain.GenerationKind, email string, at time.Time) string {
	return string(kind) + "/" + email + "/" + at.UTC().Format("20060102150405")
}

func (s *memArtifactStore) Save(kind domain.GenerationKind, email string, at time.Time, res *domain.GenerationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[artifactKey(kind, email, at)] = res
	return nil
}

func (s *memArtifactStore) Load(kind domain.GenerationKind, email string, at time.Time) (*domain.GenerationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.saved[artifactKey(kind, email, at)]
	if !ok {
		return nil, fmt.Errorf("artifact not found")
	}
	return res, nil
}
