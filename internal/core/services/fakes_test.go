package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"ems-backend/internal/adapters/persistence/models"
	"ems-backend/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeAdminRepo struct {
	mu     sync.Mutex
	nextID uint
	admins []*models.Admin
}

func (r *fakeAdminRepo) FindByPhone(ctx context.Context, phone string) (*models.Principal, error) {
	a, err := r.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	return a.ToPrincipal(), nil
}

func (r *fakeAdminRepo) CreatePrincipal(ctx context.Context, name, phone, hash string) (*models.Principal, error) {
	a := &models.Admin{Name: name, Phone: phone, Password: hash}
	if err := r.Create(ctx, a); err != nil {
		return nil, err
	}
	return a.ToPrincipal(), nil
}

func (r *fakeAdminRepo) UpdatePassword(ctx context.Context, id uint, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.ID == id {
			a.Password = hash
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeAdminRepo) Create(ctx context.Context, admin *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Phone == admin.Phone {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	admin.ID = r.nextID
	r.admins = append(r.admins, admin)
	return nil
}

func (r *fakeAdminRepo) GetByID(ctx context.Context, id uint) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAdminRepo) GetByPhone(ctx context.Context, phone string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Phone == phone {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAdminRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	_, err := r.GetByPhone(ctx, phone)
	return err == nil, nil
}

type fakeEmployeeRepo struct {
	mu        sync.Mutex
	nextID    uint
	seq       uint
	employees []*models.Employee
}

func (r *fakeEmployeeRepo) FindByPhone(ctx context.Context, phone string) (*models.Principal, error) {
	e, err := r.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	return e.ToPrincipal(), nil
}

func (r *fakeEmployeeRepo) CreatePrincipal(ctx context.Context, name, phone, hash string) (*models.Principal, error) {
	e := &models.Employee{Name: name, Phone: phone, Password: hash}
	if err := r.Create(ctx, e); err != nil {
		return nil, err
	}
	return e.ToPrincipal(), nil
}

func (r *fakeEmployeeRepo) UpdatePassword(ctx context.Context, id uint, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employees {
		if e.ID == id {
			e.Password = hash
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeEmployeeRepo) Create(ctx context.Context, employee *models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employees {
		if e.Phone == employee.Phone {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	r.seq++
	employee.ID = r.nextID
	employee.Seq = r.seq
	employee.EmployeeID = domain.FormatEmployeeID(r.seq)
	employee.CreatedAt = time.Now()
	r.employees = append(r.employees, employee)
	return nil
}

func (r *fakeEmployeeRepo) GetByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employees {
		if e.EmployeeID == employeeID {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEmployeeRepo) GetByPhone(ctx context.Context, phone string) (*models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employees {
		if e.Phone == phone {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEmployeeRepo) Update(ctx context.Context, employee *models.Employee) error {
	return nil
}

func (r *fakeEmployeeRepo) DeleteByEmployeeID(ctx context.Context, employeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.employees[:0]
	for _, e := range r.employees {
		if e.EmployeeID != employeeID {
			kept = append(kept, e)
		}
	}
	r.employees = kept
	return nil
}

func (r *fakeEmployeeRepo) List(ctx context.Context, offset, limit int) ([]*models.Employee, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := int64(len(r.employees))
	if offset >= len(r.employees) {
		return nil, total, nil
	}
	out := r.employees[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return append([]*models.Employee(nil), out...), total, nil
}

func (r *fakeEmployeeRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	_, err := r.GetByPhone(ctx, phone)
	return err == nil, nil
}

func (r *fakeEmployeeRepo) NamesByEmployeeIDs(ctx context.Context, employeeIDs []string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make(map[string]string)
	for _, id := range employeeIDs {
		for _, e := range r.employees {
			if e.EmployeeID == id {
				names[id] = e.Name
			}
		}
	}
	return names, nil
}

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records []*models.Attendance
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, record *models.Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record.ClockOut == nil {
		for _, a := range r.records {
			if a.EmployeeID == record.EmployeeID && a.IsOpen() {
				return gorm.ErrDuplicatedKey
			}
		}
		key := record.EmployeeID
		record.OpenKey = &key
	}
	record.ID = uuid.NewString()
	record.CreatedAt = time.Now()
	r.records = append(r.records, record)
	return nil
}

func (r *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (*models.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.records {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAttendanceRepo) GetOpenByEmployeeID(ctx context.Context, employeeID string) (*models.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.records {
		if a.EmployeeID == employeeID && a.IsOpen() {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAttendanceRepo) Close(ctx context.Context, id string, clockOut time.Time, totalHours float64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.records {
		if a.ID == id && a.IsOpen() {
			a.ClockOut = &clockOut
			a.TotalHours = totalHours
			a.OpenKey = nil
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAttendanceRepo) ListByEmployeeID(ctx context.Context, employeeID string) ([]*models.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Attendance
	for _, a := range r.records {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) List(ctx context.Context, filter domain.AttendanceFilter) ([]*models.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Attendance
	for _, a := range r.records {
		if filter.EmployeeID != "" && a.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.StartDate != nil && a.ClockIn.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && a.ClockIn.After(*filter.EndDate) {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if filter.SortBy == domain.SortByDate {
			return out[i].ClockIn.Before(out[j].ClockIn)
		}
		return out[i].TotalHours < out[j].TotalHours
	})
	return out, nil
}

func (r *fakeAttendanceRepo) ListOpenStartedBefore(ctx context.Context, before time.Time) ([]*models.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Attendance
	for _, a := range r.records {
		if a.IsOpen() && a.ClockIn.Before(before) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeTokens struct{}

func (fakeTokens) Issue(principalID string, role domain.Role, employeeID string) (string, error) {
	return role.String() + ":" + principalID + ":" + employeeID, nil
}

func newOpenRecord(employeeID string, clockIn time.Time) *models.Attendance {
	return &models.Attendance{EmployeeID: employeeID, ClockIn: clockIn}
}
