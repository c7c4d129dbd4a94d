package core

import "encoding/json"

// UserStats aggregates account counts.
type UserStats struct {
	TotalUsers   int64 `json:"totalUsers"`
	AdminUsers   int64 `json:"adminUsers"`
	RegularUsers int64 `json:"regularUsers"`
}

// NoteStats aggregates note counts.
type NoteStats struct {
	TotalNotes   int64 `json:"totalNotes"`
	SharedNotes  int64 `json:"sharedNotes"`
	ExpiredNotes int64 `json:"expiredNotes"`
}

// UnmarshalJSON accepts the shared-note count under either of the names the
// backend has used for it.
func (s *NoteStats) UnmarshalJSON(data []byte) error {
	var raw struct {
		TotalNotes      int64  `json:"totalNotes"`
		SharedNotes     *int64 `json:"sharedNotes"`
		NotesWithShares *int64 `json:"notesWithShares"`
		ExpiredNotes    int64  `json:"expiredNotes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.TotalNotes = raw.TotalNotes
	s.ExpiredNotes = raw.ExpiredNotes
	switch {
	case raw.SharedNotes != nil:
		s.SharedNotes = *raw.SharedNotes
	case raw.NotesWithShares != nil:
		s.SharedNotes = *raw.NotesWithShares
	default:
		s.SharedNotes = 0
	}
	return nil
}

// DashboardStats is the admin overview.
type DashboardStats struct {
	UserStats UserStats `json:"userStats"`
	NoteStats NoteStats `json:"noteStats"`
}

// CleanupStats reports how many notes expire within the next HoursAhead hours.
type CleanupStats struct {
	NotesExpiringCount int64 `json:"notesExpiringCount"`
	HoursAhead         int   `json:"hoursAhead"`
}
