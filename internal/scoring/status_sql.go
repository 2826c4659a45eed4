package scoring

import (
	"database/sql/driver"
	"fmt"
)

// Value stores the status as its string identifier.
func (s LeadStatus) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan reads a status from its stored string identifier.
func (s *LeadStatus) Scan(src any) error {
	switch v := src.(type) {
	case string:
		*s = ParseLeadStatus(v)
		return nil
	case []byte:
		*s = ParseLeadStatus(string(v))
		return nil
	case nil:
		*s = StatusUnknown
		return nil
	default:
		return fmt.Errorf("cannot scan %T into LeadStatus", src)
	}
}
