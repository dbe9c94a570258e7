package services

import (
	"context"
	"errors"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"ems-backend/internal/core/domain"
	"ems-backend/internal/pkg/pagination"
	"ems-backend/internal/pkg/password"

	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	password.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

type fixture struct {
	admins     *fakeAdminRepo
	employees  *fakeEmployeeRepo
	attendance *fakeAttendanceRepo
	auth       *AuthService
	staff      *EmployeeService
	ledger     *AttendanceService
}

func newFixture() *fixture {
	f := &fixture{
		admins:     &fakeAdminRepo{},
		employees:  &fakeEmployeeRepo{},
		attendance: &fakeAttendanceRepo{},
	}
	f.auth = NewAuthService(f.admins, f.employees, fakeTokens{})
	f.staff = NewEmployeeService(f.employees)
	f.ledger = NewAttendanceService(f.attendance, f.employees)
	return f
}

func (f *fixture) registerEmployee(t *testing.T, name, phone string) string {
	t.Helper()
	p, err := f.auth.Register(context.Background(), &RegisterInput{
		Name: name, Phone: phone, Password: "secret1", Role: "employee",
	})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return p.EmployeeID
}

func TestRegisterAssignsSequentialEmployeeIDs(t *testing.T) {
	f := newFixture()
	for i, want := range []string{"MST1", "MST2", "MST3"} {
		got := f.registerEmployee(t, "Emp", "08"+strconv.Itoa(i))
		if got != want {
			t.Errorf("employee %d: got %s, want %s", i, got, want)
		}
	}
}

func TestRegisterConcurrentIDsAreDistinct(t *testing.T) {
	f := newFixture()
	const n = 20

	var wg sync.WaitGroup
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := f.auth.Register(context.Background(), &RegisterInput{
				Name: "Emp", Phone: "09" + strconv.Itoa(i), Password: "secret1", Role: "employee",
			})
			if err != nil {
				t.Errorf("register: %v", err)
				return
			}
			ids <- p.EmployeeID
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate employee id %s", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d ids, want %d", len(seen), n)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tests := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"missing name", RegisterInput{Phone: "1", Password: "secret1", Role: "admin"}, domain.ErrAllFieldsRequired},
		{"missing role", RegisterInput{Name: "A", Phone: "1", Password: "secret1"}, domain.ErrAllFieldsRequired},
		{"bad role", RegisterInput{Name: "A", Phone: "1", Password: "secret1", Role: "manager"}, domain.ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			if _, err := f.auth.Register(ctx, &input); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRegisterDuplicatePhoneIsConflict(t *testing.T) {
	f := newFixture()
	f.registerEmployee(t, "A", "111")

	_, err := f.auth.Register(context.Background(), &RegisterInput{
		Name: "B", Phone: "111", Password: "secret1", Role: "employee",
	})
	if !errors.Is(err, domain.ErrPhoneRegistered) {
		t.Fatalf("got %v, want ErrPhoneRegistered", err)
	}
	if domain.KindOf(err) != domain.KindConflict {
		t.Fatalf("kind = %s", domain.KindOf(err))
	}

	// Admins and employees are separate namespaces
	if _, err := f.auth.Register(context.Background(), &RegisterInput{
		Name: "B", Phone: "111", Password: "secret1", Role: "admin",
	}); err != nil {
		t.Fatalf("admin with employee phone: %v", err)
	}
}

func TestLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.registerEmployee(t, "A", "222")

	res, err := f.auth.Login(ctx, &LoginInput{Phone: "222", Password: "secret1", Role: "employee"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token != "employee:1:"+id {
		t.Errorf("token = %q", res.Token)
	}

	if _, err := f.auth.Login(ctx, &LoginInput{Phone: "222", Password: "wrong", Role: "employee"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := f.auth.Login(ctx, &LoginInput{Phone: "999", Password: "secret1", Role: "employee"}); !errors.Is(err, domain.ErrPrincipalNotFound) {
		t.Errorf("unknown phone: got %v", err)
	}
	if _, err := f.auth.Login(ctx, &LoginInput{Phone: "222", Password: "secret1", Role: "admin"}); !errors.Is(err, domain.ErrPrincipalNotFound) {
		t.Errorf("wrong role: got %v", err)
	}
}

func TestForgotPassword(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.registerEmployee(t, "A", "333")

	if err := f.auth.ForgotPassword(ctx, &ForgotPasswordInput{Phone: "333", NewPassword: "newpass", Role: "employee"}); err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	if _, err := f.auth.Login(ctx, &LoginInput{Phone: "333", Password: "newpass", Role: "employee"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if err := f.auth.ForgotPassword(ctx, &ForgotPasswordInput{Phone: "404", NewPassword: "x", Role: "employee"}); !errors.Is(err, domain.ErrPrincipalNotFound) {
		t.Fatalf("unknown phone: got %v", err)
	}
}

func TestEmployeeManagement(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.registerEmployee(t, "Alice", "444")
	f.registerEmployee(t, "Bob", "555")

	list, err := f.staff.ListEmployees(ctx, nil)
	if err != nil || len(list.Employees) != 2 || list.Meta != nil {
		t.Fatalf("list = %+v, %v", list, err)
	}

	page, err := f.staff.ListEmployees(ctx, pagination.NewParams(2, 1))
	if err != nil {
		t.Fatalf("paged list: %v", err)
	}
	if len(page.Employees) != 1 || page.Employees[0].Name != "Bob" || page.Meta.Total != 2 {
		t.Fatalf("page = %+v", page)
	}

	newName, empty := "Alicia", ""
	updated, err := f.staff.UpdateEmployee(ctx, id, &UpdateEmployeeInput{Name: &newName, Phone: &empty})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Alicia" || updated.Phone != "444" {
		t.Fatalf("updated = %+v", updated)
	}

	taken := "555"
	if _, err := f.staff.UpdateEmployee(ctx, id, &UpdateEmployeeInput{Phone: &taken}); !errors.Is(err, domain.ErrPhoneRegistered) {
		t.Fatalf("phone conflict: got %v", err)
	}

	if err := f.staff.ResetPassword(ctx, id, "short"); !errors.Is(err, domain.ErrPasswordTooShort) {
		t.Fatalf("short password: got %v", err)
	}
	if err := f.staff.ResetPassword(ctx, "MST99", "longenough"); !errors.Is(err, domain.ErrEmployeeNotFound) {
		t.Fatalf("unknown employee: got %v", err)
	}
	if err := f.staff.ResetPassword(ctx, id, "longenough"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if err := f.staff.DeleteEmployee(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.staff.DeleteEmployee(ctx, id); err != nil {
		t.Fatalf("delete again: %v", err)
	}
	if _, err := f.staff.GetEmployee(ctx, id); !errors.Is(err, domain.ErrEmployeeNotFound) {
		t.Fatalf("get deleted: got %v", err)
	}
}

func TestProfileUsesTokenEmployeeID(t *testing.T) {
	f := newFixture()
	id := f.registerEmployee(t, "Alice", "444")

	got, err := f.staff.GetProfile(context.Background(), domain.Principal{ID: "1", Role: domain.RoleEmployee, EmployeeID: id})
	if err != nil || got.Name != "Alice" {
		t.Fatalf("profile = %+v, %v", got, err)
	}
	if _, err := f.staff.GetProfile(context.Background(), domain.Principal{ID: "1", Role: domain.RoleAdmin}); !errors.Is(err, domain.ErrEmployeeNotFound) {
		t.Fatalf("admin profile: got %v", err)
	}
}

func TestClockInOut(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.registerEmployee(t, "Alice", "444")

	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	f.ledger.now = func() time.Time { return start }

	rec, err := f.ledger.ClockIn(ctx, id)
	if err != nil {
		t.Fatalf("clock in: %v", err)
	}
	if _, err := f.ledger.ClockIn(ctx, id); !errors.Is(err, domain.ErrAlreadyClockedIn) {
		t.Fatalf("second clock in: got %v", err)
	}

	f.ledger.now = func() time.Time { return start.Add(2 * time.Hour) }
	closed, err := f.ledger.ClockOut(ctx, rec.ID)
	if err != nil {
		t.Fatalf("clock out: %v", err)
	}
	if closed.TotalHours != 2.0 {
		t.Errorf("total hours = %v, want 2.0", closed.TotalHours)
	}
	if _, err := f.ledger.ClockOut(ctx, rec.ID); !errors.Is(err, domain.ErrAlreadyClockedOut) {
		t.Fatalf("second clock out: got %v", err)
	}
	if _, err := f.ledger.ClockOut(ctx, "missing"); !errors.Is(err, domain.ErrAttendanceNotFound) {
		t.Fatalf("unknown record: got %v", err)
	}

	// A closed session allows a new one
	if _, err := f.ledger.ClockIn(ctx, id); err != nil {
		t.Fatalf("clock in after clock out: %v", err)
	}
	if _, err := f.ledger.ClockIn(ctx, " "); !errors.Is(err, domain.ErrEmployeeIDRequired) {
		t.Fatalf("empty id: got %v", err)
	}
}

func TestConcurrentClockInOpensOneSession(t *testing.T) {
	f := newFixture()
	id := f.registerEmployee(t, "Alice", "444")

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.ledger.ClockIn(context.Background(), id); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else if !errors.Is(err, domain.ErrAlreadyClockedIn) {
				t.Errorf("clock in: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Fatalf("%d sessions opened, want 1", succeeded)
	}
}

func TestMarkAttendance(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	rec, err := f.ledger.MarkAttendance(ctx, &MarkAttendanceInput{
		EmployeeID: "MST1", ClockIn: "2024-01-01T09:00:00Z", ClockOut: "2024-01-01T17:30:00Z",
	})
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if rec.TotalHours != 8.5 {
		t.Errorf("total hours = %v, want 8.5", rec.TotalHours)
	}

	open, err := f.ledger.MarkAttendance(ctx, &MarkAttendanceInput{EmployeeID: "MST1", ClockIn: "2024-01-02"})
	if err != nil {
		t.Fatalf("mark open: %v", err)
	}
	if !open.IsOpen() || open.TotalHours != 0 {
		t.Errorf("open record = %+v", open)
	}

	tests := []struct {
		name  string
		input MarkAttendanceInput
		want  error
	}{
		{"missing clock in", MarkAttendanceInput{EmployeeID: "MST1"}, domain.ErrMarkFieldsRequired},
		{"bad date", MarkAttendanceInput{EmployeeID: "MST1", ClockIn: "yesterday"}, domain.ErrInvalidDate},
		{"out before in", MarkAttendanceInput{EmployeeID: "MST2", ClockIn: "2024-01-01T10:00:00Z", ClockOut: "2024-01-01T09:00:00Z"}, domain.ErrClockOutBeforeIn},
		{"second open", MarkAttendanceInput{EmployeeID: "MST1", ClockIn: "2024-01-03"}, domain.ErrAlreadyClockedIn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			if _, err := f.ledger.MarkAttendance(ctx, &input); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGetAllSortsAndNames(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.registerEmployee(t, "Alice", "444")

	for _, in := range []MarkAttendanceInput{
		{EmployeeID: alice, ClockIn: "2024-01-02T09:00:00Z", ClockOut: "2024-01-02T10:00:00Z"},
		{EmployeeID: alice, ClockIn: "2024-01-01T09:00:00Z", ClockOut: "2024-01-01T17:00:00Z"},
		{EmployeeID: "MST42", ClockIn: "2024-01-03T09:00:00Z", ClockOut: "2024-01-03T13:00:00Z"},
	} {
		in := in
		if _, err := f.ledger.MarkAttendance(ctx, &in); err != nil {
			t.Fatalf("mark: %v", err)
		}
	}

	byHours, err := f.ledger.GetAll(ctx, domain.AttendanceFilter{SortBy: domain.ParseSortKey("")})
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	for i, want := range []float64{1, 4, 8} {
		if math.Abs(byHours[i].TotalHours-want) > 1e-9 {
			t.Errorf("row %d hours = %v, want %v", i, byHours[i].TotalHours, want)
		}
	}
	if byHours[0].EmployeeName != "Alice" || byHours[1].EmployeeName != UnknownEmployeeName {
		t.Errorf("names = %q, %q", byHours[0].EmployeeName, byHours[1].EmployeeName)
	}

	filter, err := domain.NewAttendanceFilter("", "2024-01-02", "", "date")
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	byDate, err := f.ledger.GetAll(ctx, filter)
	if err != nil {
		t.Fatalf("get by date: %v", err)
	}
	if len(byDate) != 2 || byDate[0].EmployeeID != alice || byDate[1].EmployeeID != "MST42" {
		t.Fatalf("by date = %+v", byDate)
	}

	if _, err := f.ledger.GetAll(ctx, domain.AttendanceFilter{EmployeeID: "MST7"}); !errors.Is(err, domain.ErrNoAttendanceRecords) {
		t.Fatalf("empty result: got %v", err)
	}
}

func TestGetForEmployeeEmptyIsNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.ledger.GetForEmployee(context.Background(), "MST1")
	if !errors.Is(err, domain.ErrNoAttendanceRecords) || domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("got %v", err)
	}
}

func TestExportRows(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.registerEmployee(t, "Alice", "444")

	if _, err := f.ledger.ExportRows(ctx, domain.AttendanceFilter{}); !errors.Is(err, domain.ErrNoAttendanceRecords) {
		t.Fatalf("empty export: got %v", err)
	}

	if _, err := f.ledger.MarkAttendance(ctx, &MarkAttendanceInput{EmployeeID: id, ClockIn: "2024-01-01T09:00:00Z"}); err != nil {
		t.Fatalf("mark: %v", err)
	}
	rows, err := f.ledger.ExportRows(ctx, domain.AttendanceFilter{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Alice" || rows[0].ClockOut != nil {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestReportStaleSessions(t *testing.T) {
	repo := &fakeAttendanceRepo{}
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	for _, in := range []struct {
		id      string
		clockIn time.Time
	}{
		{"MST1", now.Add(-20 * time.Hour)},
		{"MST2", now.Add(-2 * time.Hour)},
	} {
		if err := repo.Create(ctx, newOpenRecord(in.id, in.clockIn)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	s := NewCronService(repo, "@hourly", 16*time.Hour)
	s.now = func() time.Time { return now }

	n, err := s.ReportStaleSessions(ctx)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if n != 1 {
		t.Fatalf("stale sessions = %d, want 1", n)
	}
}

func TestCronDisabled(t *testing.T) {
	s := NewCronService(&fakeAttendanceRepo{}, "not a cron spec", 0)
	if err := s.Start(); err != nil {
		t.Fatalf("disabled start: %v", err)
	}
	s.Stop()

	s = NewCronService(&fakeAttendanceRepo{}, "not a cron spec", time.Hour)
	if err := s.Start(); err == nil {
		t.Fatal("expected invalid schedule error")
	}
}

func TestOverlongPasswordIsValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	long := strings.Repeat("x", password.MaxLength+1)
	id := f.registerEmployee(t, "Alice", "444")

	for _, role := range []string{"employee", "admin"} {
		_, err := f.auth.Register(ctx, &RegisterInput{Name: "A", Phone: "999", Password: long, Role: role})
		if !errors.Is(err, domain.ErrPasswordTooLong) || domain.KindOf(err) != domain.KindValidation {
			t.Errorf("register %s: got %v", role, err)
		}
	}

	err := f.auth.ForgotPassword(ctx, &ForgotPasswordInput{Phone: "444", NewPassword: long, Role: "employee"})
	if !errors.Is(err, domain.ErrPasswordTooLong) {
		t.Errorf("forgot password: got %v", err)
	}

	if err := f.staff.ResetPassword(ctx, id, long); !errors.Is(err, domain.ErrPasswordTooLong) {
		t.Errorf("reset password: got %v", err)
	}

	// Exactly the bcrypt limit is still accepted
	if _, err := f.auth.Register(ctx, &RegisterInput{
		Name: "B", Phone: "998", Password: strings.Repeat("x", password.MaxLength), Role: "employee",
	}); err != nil {
		t.Errorf("register at limit: %v", err)
	}
}
