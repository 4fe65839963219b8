package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// DiscountMode represents how a sale discount is expressed
type DiscountMode string

const (
	DiscountModePercent DiscountMode = "percent"
	DiscountModeFlat    DiscountMode = "flat"
)

func (m DiscountMode) String() string {
	return string(m)
}

// IsValid reports whether the mode is one of the known discount modes
func (m DiscountMode) IsValid() bool {
	return m == DiscountModePercent || m == DiscountModeFlat
}

func (m DiscountMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

func (m *DiscountMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*m = DiscountMode(str)
	return nil
}

func (m DiscountMode) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *DiscountMode) Scan(value interface{}) error {
	if value == nil {
		*m = DiscountModePercent
		return nil
	}
	switch v := value.(type) {
	case string:
		*m = DiscountMode(v)
	case []byte:
		*m = DiscountMode(string(v))
	}
	return nil
}
