package tenant

import "gorm.io/gorm"

// ByClient scopes a query to rows owned by one client company.
func ByClient(clientID int64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("client_id = ?", clientID)
	}
}

// ByAgency scopes a query to rows owned by one staffing agency.
func ByAgency(agencyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("agency_id = ?", agencyID)
	}
}
