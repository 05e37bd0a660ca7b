package league

import "fmt"

// League is a football competition discovered during fixture ingestion.
// Name is the natural key and is unique case-insensitively.
type League struct {
	ID         int64
	Name       string
	Country    string
	ExternalID string
}

func (l League) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}

	return nil
}
