package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"contacthub/backend/internal/audit"
	"contacthub/backend/internal/security"
	"contacthub/backend/internal/user/domain"
	userrepo "contacthub/backend/internal/user/repository"
)

type memRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	failErr error
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[string]*domain.User{}}
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	return r.byID[id], nil
}

func (r *memRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	u2 := *u
	r.byID[u.ID] = &u2
	return nil
}

func (r *memRepo) Update(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	if _, ok := r.byID[u.ID]; ok {
		u2 := *u
		r.byID[u.ID] = &u2
	}
	return nil
}

func (r *memRepo) List(ctx context.Context, f userrepo.ListFilter) ([]*domain.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, 0, r.failErr
	}
	var matched []*domain.User
	for _, u := range r.byID {
		if f.Email != "" && !strings.Contains(strings.ToLower(u.Email), strings.ToLower(f.Email)) {
			continue
		}
		if f.FullName != "" && !strings.Contains(strings.ToLower(u.FullName), strings.ToLower(f.FullName)) {
			continue
		}
		if f.Active != nil && u.Active != *f.Active {
			continue
		}
		matched = append(matched, u)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.Before(matched[j].CreatedAt) })
	total := len(matched)
	if f.Offset > len(matched) {
		return nil, total, nil
	}
	matched = matched[f.Offset:]
	if f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}

func newTestService(repo userrepo.Repository) *Service {
	return NewService(repo, security.NewHasher(4), audit.Nop())
}

func TestRegister_Success(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	u, err := svc.Register(context.Background(), "Alice@Example.com", "secret123", "  Alice A.  ")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.ID == "" {
		t.Error("ID not assigned")
	}
	if u.Email != "alice@example.com" {
		t.Errorf("Email = %q, want lowercased", u.Email)
	}
	if u.FullName != "Alice A." {
		t.Errorf("FullName = %q, want trimmed", u.FullName)
	}
	if !u.Active {
		t.Error("new user should be active")
	}
	if u.Superuser {
		t.Error("new user must not be superuser")
	}
	if u.PasswordHash == "" || u.PasswordHash == "secret123" {
		t.Error("password must be stored hashed")
	}
	if err := security.NewHasher(4).Compare(u.PasswordHash, []byte("secret123")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), "alice@example.com", "secret123", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register(context.Background(), "alice@example.com", "different1", "")
	if !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Errorf("want ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService(newMemRepo())
	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "secret123"},
		{"bad email", "not-an-email", "secret123"},
		{"short password", "a@b.com", "short"},
		{"long password", "a@b.com", strings.Repeat("x", 101)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.email, tc.password, ""); err == nil {
				t.Error("Register should fail validation")
			}
		})
	}
}

func TestUpdate_PasswordRehashed(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	u, err := svc.Register(context.Background(), "alice@example.com", "secret123", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	oldHash := u.PasswordHash

	newPassword := "evenmoresecret"
	updated, err := svc.Update(context.Background(), u, UpdateParams{Password: &newPassword})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.PasswordHash == oldHash {
		t.Error("password hash should change")
	}
	if err := security.NewHasher(4).Compare(updated.PasswordHash, []byte(newPassword)); err != nil {
		t.Errorf("new hash does not verify: %v", err)
	}
	if !updated.UpdatedAt.After(u.CreatedAt) && !updated.UpdatedAt.Equal(u.CreatedAt) {
		t.Error("UpdatedAt should be bumped")
	}
}

func TestUpdate_EmailConflict(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), "taken@example.com", "secret123", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	u, err := svc.Register(context.Background(), "alice@example.com", "secret123", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	taken := "taken@example.com"
	if _, err := svc.Update(context.Background(), u, UpdateParams{Email: &taken}); !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Errorf("want ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestUpdate_SameEmailNoConflict(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	u, err := svc.Register(context.Background(), "alice@example.com", "secret123", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	same := "alice@example.com"
	name := "Alice"
	if _, err := svc.Update(context.Background(), u, UpdateParams{Email: &same, FullName: &name}); err != nil {
		t.Errorf("Update with own email: %v", err)
	}
}

func TestList_FiltersAndPages(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	emails := []string{"a@example.com", "b@example.com", "c@other.org"}
	for _, e := range emails {
		if _, err := svc.Register(ctx, e, "secret123", "Person "+e); err != nil {
			t.Fatalf("Register %s: %v", e, err)
		}
	}

	users, total, err := svc.List(ctx, ListParams{Email: "example.com"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Errorf("filtered list: total=%d len=%d, want 2/2", total, len(users))
	}

	users, total, err = svc.List(ctx, ListParams{Skip: 1, Limit: 1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(users) != 1 {
		t.Errorf("page len = %d, want 1", len(users))
	}
}

func TestList_ClampsLimit(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	if _, _, err := svc.List(context.Background(), ListParams{Limit: 100000, Skip: -5}); err != nil {
		t.Fatalf("List: %v", err)
	}
}
