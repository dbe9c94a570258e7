package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Role represents the role carried in a token
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// ParseRole resolves a client-supplied role string
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleEmployee:
		return RoleEmployee, nil
	}
	return "", ErrInvalidRole
}

func (r Role) String() string {
	return string(r)
}

// EmployeeIDPrefix prefixes every generated employee identifier
const EmployeeIDPrefix = "MST"

// FormatEmployeeID renders a sequence number as an employee identifier (MST1, MST2, ...)
func FormatEmployeeID(seq uint) string {
	return fmt.Sprintf("%s%d", EmployeeIDPrefix, seq)
}

// ParseEmployeeSeq extracts the sequence number from an employee identifier
func ParseEmployeeSeq(employeeID string) (uint, error) {
	if !strings.HasPrefix(employeeID, EmployeeIDPrefix) {
		return 0, fmt.Errorf("employee id %q has no %s prefix", employeeID, EmployeeIDPrefix)
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(employeeID, EmployeeIDPrefix), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("employee id %q: %w", employeeID, err)
	}
	return uint(n), nil
}

// HoursBetween returns the elapsed time between clock-in and clock-out in hours.
// The value is not rounded.
func HoursBetween(clockIn, clockOut time.Time) float64 {
	return clockOut.Sub(clockIn).Hours()
}

// SortKey selects the ordering of attendance listings
type SortKey string

const (
	SortByDate  SortKey = "date"
	SortByHours SortKey = "hours"
)

// ParseSortKey maps "date" to clock-in order; anything else sorts by total hours
func ParseSortKey(s string) SortKey {
	if strings.TrimSpace(s) == string(SortByDate) {
		return SortByDate
	}
	return SortByHours
}

// AttendanceFilter narrows attendance listings
type AttendanceFilter struct {
	EmployeeID string
	StartDate  *time.Time // inclusive, on clock-in
	EndDate    *time.Time // inclusive, on clock-in
	SortBy     SortKey
}

// ParseTimestamp accepts RFC 3339 timestamps (with or without fraction) and plain dates.
// Plain dates resolve to midnight UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// Principal is the authenticated actor decoded from a token
type Principal struct {
	ID         string `json:"id"`
	Role       Role   `json:"role"`
	EmployeeID string `json:"employeeId,omitempty"`
}

// IsAdmin reports whether the principal holds the admin role
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// NewAttendanceFilter builds a filter from raw query values; empty values are ignored
func NewAttendanceFilter(employeeID, startDate, endDate, sortBy string) (AttendanceFilter, error) {
	filter := AttendanceFilter{
		EmployeeID: strings.TrimSpace(employeeID),
		SortBy:     ParseSortKey(sortBy),
	}

	if strings.TrimSpace(startDate) != "" {
		t, err := ParseTimestamp(startDate)
		if err != nil {
			return AttendanceFilter{}, err
		}
		filter.StartDate = &t
	}
	if strings.TrimSpace(endDate) != "" {
		t, err := ParseTimestamp(endDate)
		if err != nil {
			return AttendanceFilter{}, err
		}
		filter.EndDate = &t
	}

	return filter, nil
}
