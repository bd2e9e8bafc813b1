package models

import (
	"database/sql/driver"
	"fmt"
)

// --- Memorial Material Enum ---
type Material string

const (
	MaterialGranite   Material = "granite"
	MaterialMarble    Material = "marble"
	MaterialLimestone Material = "limestone"
	MaterialSandstone Material = "sandstone"
	MaterialBronze    Material = "bronze"
	MaterialOther     Material = "other"
)

func (m Material) Valid() bool {
	switch m {
	case MaterialGranite, MaterialMarble, MaterialLimestone, MaterialSandstone, MaterialBronze, MaterialOther:
		return true
	}
	return false
}

// --- Employee Role Enum ---
type EmployeeRole string

const (
	RoleAdmin   EmployeeRole = "admin"
	RoleManager EmployeeRole = "manager"
	RoleTech    EmployeeRole = "tech"
	RoleOther   EmployeeRole = "other"
)

func (r EmployeeRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTech, RoleOther:
		return true
	}
	return false
}

// CanManage reports whether the role may use the manager endpoints.
func (r EmployeeRole) CanManage() bool {
	return r == RoleAdmin || r == RoleManager
}

// --- Service Type Enum ---
type ServiceType string

const (
	ServiceTypeCleaning  ServiceType = "cleaning"
	ServiceTypeReset     ServiceType = "reset"
	ServiceTypeLeveling  ServiceType = "leveling"
	ServiceTypeRepair    ServiceType = "repair"
	ServiceTypeEngraving ServiceType = "engraving"
	ServiceTypeOther     ServiceType = "other"
)

func (t ServiceType) Valid() bool {
	switch t {
	case ServiceTypeCleaning, ServiceTypeReset, ServiceTypeLeveling, ServiceTypeRepair, ServiceTypeEngraving, ServiceTypeOther:
		return true
	}
	return false
}

// --- Service Status Enum ---
type ServiceStatus string

const (
	ServiceStatusDraft      ServiceStatus = "draft"
	ServiceStatusScheduled  ServiceStatus = "scheduled"
	ServiceStatusInProgress ServiceStatus = "in_progress"
	ServiceStatusCompleted  ServiceStatus = "completed"
	ServiceStatusCanceled   ServiceStatus = "canceled"
)

// ActiveServiceStatuses are the statuses counted as work in flight.
var ActiveServiceStatuses = []ServiceStatus{ServiceStatusScheduled, ServiceStatusInProgress}

// BoardServiceStatuses are the statuses shown on the scheduling board.
var BoardServiceStatuses = []ServiceStatus{ServiceStatusDraft, ServiceStatusScheduled, ServiceStatusInProgress}

func (s ServiceStatus) Valid() bool {
	switch s {
	case ServiceStatusDraft, ServiceStatusScheduled, ServiceStatusInProgress, ServiceStatusCompleted, ServiceStatusCanceled:
		return true
	}
	return false
}

// IsClosed reports whether the service has reached a terminal status.
func (s ServiceStatus) IsClosed() bool {
	return s == ServiceStatusCompleted || s == ServiceStatusCanceled
}

// Display returns the human label used by the front end.
func (s ServiceStatus) Display() string {
	switch s {
	case ServiceStatusDraft:
		return "Draft"
	case ServiceStatusScheduled:
		return "Scheduled"
	case ServiceStatusInProgress:
		return "In progress"
	case ServiceStatusCompleted:
		return "Completed"
	case ServiceStatusCanceled:
		return "Canceled"
	}
	return string(s)
}

// IsActive reports whether the status counts as active work.
func (s ServiceStatus) IsActive() bool {
	return s == ServiceStatusScheduled || s == ServiceStatusInProgress
}

// Scan implements the sql.Scanner interface for ServiceStatus
func (s *ServiceStatus) Scan(value interface{}) error {
	str, err := scanEnumString(value, "ServiceStatus")
	if err != nil {
		return err
	}
	v := ServiceStatus(str)
	if !v.Valid() {
		return fmt.Errorf("invalid ServiceStatus value: %s", str)
	}
	*s = v
	return nil
}

// Value implements the driver.Valuer interface for ServiceStatus
func (s ServiceStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// --- Assignment Role Enum ---
type AssignmentRole string

const (
	AssignmentRoleLead   AssignmentRole = "lead"
	AssignmentRoleHelper AssignmentRole = "helper"
	AssignmentRoleOther  AssignmentRole = "other"
)

func (r AssignmentRole) Valid() bool {
	return r == AssignmentRoleLead || r == AssignmentRoleHelper || r == AssignmentRoleOther
}

// --- Photo Type Enum ---
type PhotoType string

const (
	PhotoTypeBefore PhotoType = "before"
	PhotoTypeDuring PhotoType = "during"
	PhotoTypeAfter  PhotoType = "after"
	PhotoTypeOther  PhotoType = "other"
)

func (p PhotoType) Valid() bool {
	switch p {
	case PhotoTypeBefore, PhotoTypeDuring, PhotoTypeAfter, PhotoTypeOther:
		return true
	}
	return false
}

// --- Invoice Status Enum ---
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
	InvoiceStatusPaid  InvoiceStatus = "paid"
	InvoiceStatusVoid  InvoiceStatus = "void"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusVoid:
		return true
	}
	return false
}

// Scan implements the sql.Scanner interface for InvoiceStatus
func (s *InvoiceStatus) Scan(value interface{}) error {
	str, err := scanEnumString(value, "InvoiceStatus")
	if err != nil {
		return err
	}
	v := InvoiceStatus(str)
	if !v.Valid() {
		return fmt.Errorf("invalid InvoiceStatus value: %s", str)
	}
	*s = v
	return nil
}

// Value implements the driver.Valuer interface for InvoiceStatus
func (s InvoiceStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// --- Payment Enums ---
type PaymentProvider string

const (
	PaymentProviderStripe PaymentProvider = "stripe"
	PaymentProviderManual PaymentProvider = "manual"
)

type PaymentStatus string

const (
	PaymentStatusRequiresAction PaymentStatus = "requires_action"
	PaymentStatusPending        PaymentStatus = "pending"
	PaymentStatusSucceeded      PaymentStatus = "succeeded"
	PaymentStatusFailed         PaymentStatus = "failed"
	PaymentStatusCanceled       PaymentStatus = "canceled"
	PaymentStatusRefunded       PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodCard  PaymentMethod = "card"
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodCheck PaymentMethod = "check"
	PaymentMethodACH   PaymentMethod = "ach"
	PaymentMethodOther PaymentMethod = "other"
)

func scanEnumString(value interface{}, name string) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("failed to scan %s: value is not string or []byte", name)
	}
}
