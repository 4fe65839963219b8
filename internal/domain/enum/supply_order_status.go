package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SupplyOrderStatus represents the status of a supply order
type SupplyOrderStatus int

const (
	SupplyOrderStatusPending   SupplyOrderStatus = 0
	SupplyOrderStatusReceived  SupplyOrderStatus = 1
	SupplyOrderStatusCancelled SupplyOrderStatus = 2
)

func (s SupplyOrderStatus) String() string {
	names := [...]string{"pending", "received", "cancelled"}
	if int(s) < 0 || int(s) >= len(names) {
		return "pending"
	}
	return names[s]
}

func (s SupplyOrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SupplyOrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SupplyOrderStatus(i)
		return nil
	}
	switch str {
	case "pending":
		*s = SupplyOrderStatusPending
	case "received":
		*s = SupplyOrderStatusReceived
	case "cancelled":
		*s = SupplyOrderStatusCancelled
	}
	return nil
}

func (s SupplyOrderStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SupplyOrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SupplyOrderStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = SupplyOrderStatus(v)
	case int:
		*s = SupplyOrderStatus(v)
	}
	return nil
}
