package repositories

import (
	"context"
	"errors"
	"log"

	"ems-backend/internal/adapters/persistence/models"
	"ems-backend/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxSequenceAttempts bounds retries when a concurrent registration wins the same id
const maxSequenceAttempts = 3

// employeeRepository implements EmployeeRepository interface
type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

// Create allocates the next sequence value and inserts the employee in one transaction
func (r *employeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	var err error
	for attempt := 1; attempt <= maxSequenceAttempts; attempt++ {
		employee.ID = 0
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			seq, err := nextSequence(tx, models.EmployeeSequence)
			if err != nil {
				return err
			}
			employee.Seq = seq
			employee.EmployeeID = domain.FormatEmployeeID(seq)
			return tx.Create(employee).Error
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		// Only an id collision is worth another attempt; a taken phone fails every time
		if taken, lookupErr := r.ExistsByPhone(ctx, employee.Phone); lookupErr != nil || taken {
			return err
		}
		log.Printf("⚠️ Employee id allocation conflict (attempt %d/%d)", attempt, maxSequenceAttempts)
	}
	return err
}

// nextSequence increments a named counter under a row lock.
// A missing counter is initialised from the highest stored employee sequence.
func nextSequence(tx *gorm.DB, name string) (uint, error) {
	var seq models.Sequence
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", name).
		First(&seq).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		var maxSeq uint
		if err := tx.Model(&models.Employee{}).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).Error; err != nil {
			return 0, err
		}
		seq = models.Sequence{Name: name, Value: maxSeq + 1}
		if err := tx.Create(&seq).Error; err != nil {
			return 0, err
		}
		return seq.Value, nil
	case err != nil:
		return 0, err
	}

	seq.Value++
	if err := tx.Model(&models.Sequence{}).
		Where("name = ?", name).
		Update("value", seq.Value).Error; err != nil {
		return 0, err
	}
	return seq.Value, nil
}

// GetByEmployeeID gets an employee by employee id (MSTn)
func (r *employeeRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).Where("employee_id = ?", employeeID).First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// GetByPhone gets an employee by phone
func (r *employeeRepository) GetByPhone(ctx context.Context, phone string) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// Update updates an employee
func (r *employeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

// DeleteByEmployeeID hard deletes an employee; deleting a missing employee is not an error
func (r *employeeRepository) DeleteByEmployeeID(ctx context.Context, employeeID string) error {
	return r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Delete(&models.Employee{}).Error
}

// List lists employees in id order; limit <= 0 returns all rows
func (r *employeeRepository) List(ctx context.Context, offset, limit int) ([]*models.Employee, int64, error) {
	var employees []*models.Employee
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Employee{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).Order("seq ASC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// ExistsByPhone checks if phone is registered
func (r *employeeRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Employee{}).Where("phone = ?", phone).Count(&count).Error
	return count > 0, err
}

// NamesByEmployeeIDs resolves display names; unknown ids are absent from the map
func (r *employeeRepository) NamesByEmployeeIDs(ctx context.Context, employeeIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(employeeIDs))
	if len(employeeIDs) == 0 {
		return names, nil
	}

	var employees []*models.Employee
	err := r.db.WithContext(ctx).
		Select("employee_id", "name").
		Where("employee_id IN ?", employeeIDs).
		Find(&employees).Error
	if err != nil {
		return nil, err
	}

	for _, e := range employees {
		names[e.EmployeeID] = e.Name
	}
	return names, nil
}

func (r *employeeRepository) FindByPhone(ctx context.Context, phone string) (*models.Principal, error) {
	employee, err := r.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	return employee.ToPrincipal(), nil
}

func (r *employeeRepository) CreatePrincipal(ctx context.Context, name, phone, passwordHash string) (*models.Principal, error) {
	employee := &models.Employee{
		Name:     name,
		Phone:    phone,
		Password: passwordHash,
	}
	if err := r.Create(ctx, employee); err != nil {
		return nil, err
	}
	return employee.ToPrincipal(), nil
}

func (r *employeeRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("id = ?", id).
		Update("password", passwordHash).Error
}
