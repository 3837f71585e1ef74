package utils

import (
	"encoding/json"
	"time"
)

// RFC3339Date время, сериализуемое в JSON как строка RFC3339 в UTC.
type RFC3339Date struct {
	time.Time
}

// MarshalJSON объявлен на значении, чтобы формат соблюдался и при сериализации заказа по значению.
func (d RFC3339Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.UTC().Format(time.RFC3339))
}

func (d *RFC3339Date) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return err
	}
	d.Time = t.UTC()
	return nil
}
