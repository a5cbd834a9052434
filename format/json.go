package format

import (
	"time"

	json "github.com/goccy/go-json"
)

// jsonRecord is the compact JSON record shape.
type jsonRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Route     string    `json:"route"`
	Code      int       `json:"code"`
}

// JSON renders compact single-line JSON records with the keys timestamp,
// route and code.
type JSON struct {
	now func() time.Time
}

// NewJSON creates a JSON record formatter.
func NewJSON() *JSON {
	return &JSON{now: time.Now}
}

// Render renders one JSON record for the path and status code.
func (j *JSON) Render(path string, status int) ([]byte, error) {
	return json.Marshal(jsonRecord{
		Timestamp: j.now().UTC(),
		Route:     path,
		Code:      status,
	})
}
