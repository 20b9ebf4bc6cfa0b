package notifier

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"internship-watcher/helpers"
)

// FetchSubscribers downloads a published CSV and returns the values of its
// "email" column. The CSV must carry a header row naming that column.
func FetchSubscribers(csvURL string) ([]string, error) {
	data, err := helpers.FetchSimply(csvURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscribers CSV: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse subscribers CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	emailIdx := -1
	for i, name := range records[0] {
		if strings.EqualFold(strings.TrimSpace(name), "email") {
			emailIdx = i
			break
		}
	}
	if emailIdx < 0 {
		return nil, fmt.Errorf("subscribers CSV missing 'email' header")
	}

	var subscribers []string
	for _, row := range records[1:] {
		if len(row) <= emailIdx {
			continue
		}
		email := strings.TrimSpace(row[emailIdx])
		if email != "" && strings.Contains(email, "@") {
			subscribers = append(subscribers, email)
		}
	}

	return subscribers, nil
}
