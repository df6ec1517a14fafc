package nbastats

import (
	"fmt"
	"strconv"
	"strings"
)

// statsEnvelope is the stats.nba.com response shape: tabular result sets
// with a header row and untyped row values.
type statsEnvelope struct {
	Resource   string      `json:"resource"`
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string  `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

func (e statsEnvelope) resultSet(name string) (resultSet, bool) {
	for _, set := range e.ResultSets {
		if strings.EqualFold(set.Name, name) {
			return set, true
		}
	}
	return resultSet{}, false
}

// rows zips each rowSet entry with the header row.
func (s resultSet) rows() []map[string]any {
	out := make([]map[string]any, 0, len(s.RowSet))
	for _, row := range s.RowSet {
		item := make(map[string]any, len(s.Headers))
		for idx, header := range s.Headers {
			if idx >= len(row) {
				break
			}
			item[header] = row[idx]
		}
		out = append(out, item)
	}
	return out
}

func (s resultSet) hasHeader(name string) bool {
	for _, header := range s.Headers {
		if strings.EqualFold(header, name) {
			return true
		}
	}
	return false
}

func getString(row map[string]any, key string) string {
	switch v := row[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func getInt(row map[string]any, key string) int {
	switch v := row[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func getFloat(row map[string]any, key string) float64 {
	switch v := row[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func getInt64(row map[string]any, key string) int64 {
	switch v := row[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
