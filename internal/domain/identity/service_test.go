package identity

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	users  map[uuid.UUID]*User
	getErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return fmt.Errorf("duplicate username")
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return u, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) List(_ context.Context, limit, offset int) ([]*User, int, error) {
	all := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *mockUserRepo) ListByRole(_ context.Context, role string) ([]*User, error) {
	var out []*User
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("user not found")
	}
	u.PasswordHash = hash
	return nil
}

func (m *mockUserRepo) Count(_ context.Context) (int, error) {
	return len(m.users), nil
}

type mockPatientRepo struct {
	patients map[uuid.UUID]*Patient
	seq      int
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	m.seq++
	p.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Millisecond)
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, fmt.Errorf("patient not found")
	}
	return p, nil
}

func (m *mockPatientRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	all := make([]*Patient, 0, len(m.patients))
	for _, p := range m.patients {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *mockPatientRepo) Count(_ context.Context) (int, error) {
	return len(m.patients), nil
}

func newTestService() (*Service, *mockUserRepo, *mockPatientRepo) {
	users := newMockUserRepo()
	patients := newMockPatientRepo()
	return NewService(users, patients), users, patients
}

// -- Users --

func TestCreateUser(t *testing.T) {
	svc, _, _ := newTestService()

	u := &User{Username: "dr_smith", Email: "smith@crm.com", Role: "doctor"}
	if err := svc.CreateUser(context.Background(), u, "s3cret"); err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
	if u.PasswordHash == "" || u.PasswordHash == "s3cret" {
		t.Error("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestCreateUser_DefaultsRoleToStaff(t *testing.T) {
	svc, _, _ := newTestService()

	u := &User{Username: "clerk", Email: "clerk@crm.com"}
	if err := svc.CreateUser(context.Background(), u, "pw"); err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}
	if u.Role != "staff" {
		t.Errorf("role = %q, want staff", u.Role)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name     string
		user     *User
		password string
	}{
		{"missing username", &User{Email: "a@b.c"}, "pw"},
		{"missing email", &User{Username: "a"}, "pw"},
		{"missing password", &User{Username: "a", Email: "a@b.c"}, ""},
		{"invalid role", &User{Username: "a", Email: "a@b.c", Role: "superuser"}, "pw"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.CreateUser(ctx, tc.user, tc.password); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	u := &User{Username: "dr_smith", Email: "smith@crm.com", Role: "doctor"}
	if err := svc.CreateUser(ctx, u, "s3cret"); err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}

	got, err := svc.Authenticate(ctx, "dr_smith", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate() error: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("authenticated user id = %v, want %v", got.ID, u.ID)
	}
}

func TestAuthenticate_GenericRejection(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	u := &User{Username: "dr_smith", Email: "smith@crm.com", Role: "doctor"}
	if err := svc.CreateUser(ctx, u, "s3cret"); err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}

	_, errUnknown := svc.Authenticate(ctx, "nobody", "s3cret")
	_, errWrongPw := svc.Authenticate(ctx, "dr_smith", "wrong")

	if errUnknown != ErrInvalidCredentials {
		t.Errorf("unknown user error = %v, want ErrInvalidCredentials", errUnknown)
	}
	if errWrongPw != ErrInvalidCredentials {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", errWrongPw)
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Error("unknown-user and wrong-password must be indistinguishable")
	}
}

func TestAuthenticate_LookupFailureIsNotGenericRejection(t *testing.T) {
	svc, users, _ := newTestService()
	users.getErr = fmt.Errorf("connection refused")

	_, err := svc.Authenticate(context.Background(), "dr_smith", "s3cret")
	if err == nil {
		t.Fatal("expected error when the lookup fails")
	}
	if err == ErrInvalidCredentials {
		t.Error("a failed lookup must not masquerade as bad credentials")
	}
}

func TestEnsureAdmin(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx)
	if err != nil {
		t.Fatalf("EnsureAdmin() error: %v", err)
	}
	if !created {
		t.Error("expected admin to be created on first run")
	}

	admin, err := users.GetByUsername(ctx, AdminUsername)
	if err != nil {
		t.Fatalf("admin not found: %v", err)
	}
	if admin.Role != "admin" {
		t.Errorf("role = %q, want admin", admin.Role)
	}
	if admin.Email != AdminEmail {
		t.Errorf("email = %q, want %q", admin.Email, AdminEmail)
	}
	if _, err := svc.Authenticate(ctx, AdminUsername, DefaultAdminSecret); err != nil {
		t.Errorf("seeded admin should authenticate with the default credential: %v", err)
	}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.EnsureAdmin(ctx); err != nil {
		t.Fatalf("EnsureAdmin() error: %v", err)
	}
	created, err := svc.EnsureAdmin(ctx)
	if err != nil {
		t.Fatalf("EnsureAdmin() second run error: %v", err)
	}
	if created {
		t.Error("second run must not create another admin")
	}
	if n, _ := users.Count(ctx); n != 1 {
		t.Errorf("user count = %d, want 1", n)
	}
}

func TestResetAdmin_ResetsExistingCredential(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.EnsureAdmin(ctx); err != nil {
		t.Fatalf("EnsureAdmin() error: %v", err)
	}
	admin, _ := svc.users.GetByUsername(ctx, AdminUsername)
	changed, _ := bcrypt.GenerateFromPassword([]byte("changed"), bcrypt.DefaultCost)
	if err := svc.users.UpdatePassword(ctx, admin.ID, string(changed)); err != nil {
		t.Fatalf("UpdatePassword() error: %v", err)
	}

	created, total, err := svc.ResetAdmin(ctx)
	if err != nil {
		t.Fatalf("ResetAdmin() error: %v", err)
	}
	if created {
		t.Error("existing admin must not be recreated")
	}
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
	if _, err := svc.Authenticate(ctx, AdminUsername, DefaultAdminSecret); err != nil {
		t.Errorf("credential should be back to the default: %v", err)
	}
}

// -- Patients --

func TestCreatePatient(t *testing.T) {
	svc, _, _ := newTestService()

	p := &Patient{Name: "Jane Doe"}
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("CreatePatient() error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestCreatePatient_RequiresName(t *testing.T) {
	svc, _, _ := newTestService()

	if err := svc.CreatePatient(context.Background(), &Patient{}); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestListPatients_MostRecentFirst(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for _, name := range []string{"First", "Second", "Third"} {
		if err := svc.CreatePatient(ctx, &Patient{Name: name}); err != nil {
			t.Fatalf("CreatePatient(%s) error: %v", name, err)
		}
	}

	patients, total, err := svc.ListPatients(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListPatients() error: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if patients[0].Name != "Third" || patients[2].Name != "First" {
		t.Errorf("expected most recent first, got %s..%s", patients[0].Name, patients[2].Name)
	}
}
