package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// MovementType represents the kind of stock ledger movement
type MovementType int

const (
	MovementTypeAddition  MovementType = 0
	MovementTypeReduction MovementType = 1
	MovementTypeWastage   MovementType = 2
	MovementTypeReturn    MovementType = 3
)

func (t MovementType) String() string {
	names := [...]string{"addition", "reduction", "wastage", "return"}
	if int(t) < 0 || int(t) >= len(names) {
		return "addition"
	}
	return names[t]
}

// Increases reports whether this movement type raises the stock level.
// Additions and returns add stock; reductions and wastage remove it.
func (t MovementType) Increases() bool {
	return t == MovementTypeAddition || t == MovementTypeReturn
}

func (t MovementType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *MovementType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = MovementType(i)
		return nil
	}
	switch str {
	case "addition":
		*t = MovementTypeAddition
	case "reduction":
		*t = MovementTypeReduction
	case "wastage":
		*t = MovementTypeWastage
	case "return":
		*t = MovementTypeReturn
	}
	return nil
}

func (t MovementType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *MovementType) Scan(value interface{}) error {
	if value == nil {
		*t = MovementTypeAddition
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = MovementType(v)
	case int:
		*t = MovementType(v)
	}
	return nil
}
