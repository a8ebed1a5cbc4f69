package repos

import (
	"storefront/internal/domain"

	"github.com/jmoiron/sqlx"
)

type DeviceRepo struct{ db *sqlx.DB }

func NewDeviceRepo(db *sqlx.DB) *DeviceRepo { return &DeviceRepo{db: db} }

const deviceCols = `
  id, device_id, COALESCE(name,'') AS name, COALESCE(phone,'') AS phone, verified_at`

func (r *DeviceRepo) Get(deviceID string) (domain.VerifiedDevice, error) {
	var d domain.VerifiedDevice
	err := r.db.Get(&d, `SELECT`+deviceCols+` FROM verified_devices WHERE device_id=?`, deviceID)
	return d, err
}

// MarkVerified records that the device passed the code challenge without
// completing onboarding yet. No-op if the row already exists.
func (r *DeviceRepo) MarkVerified(deviceID string) error {
	_, err := r.db.Exec(`INSERT OR IGNORE INTO verified_devices(device_id) VALUES(?)`, deviceID)
	return err
}

// CompleteOnboarding consumes the pending code and stores the customer
// profile in one transaction, so a crash cannot leave a consumed code
// with no verified record.
func (r *DeviceRepo) CompleteOnboarding(deviceID, name, phone string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM pending_verifications WHERE subject_id=?`, deviceID); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO verified_devices(device_id, name, phone) VALUES(?,?,?)`,
		deviceID, name, phone); err != nil {
		return err
	}
	return tx.Commit()
}
