package core_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/noteguard/pkg/core"
)

func TestNote_IsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		expiration *core.Time
		want       bool
	}{
		{"no expiration", nil, false},
		{"future", core.NewTime(now.Add(time.Hour)), false},
		{"exactly now", core.NewTime(now), true},
		{"past", core.NewTime(now.Add(-time.Minute)), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := core.Note{ExpirationTime: tc.expiration}
			assert.Equal(t, tc.want, n.IsExpired(now))
		})
	}
}

func TestNote_ShareActive(t *testing.T) {
	now := time.Now()

	assert.False(t, core.Note{}.ShareActive(now))
	assert.True(t, core.Note{ShareToken: "tok"}.ShareActive(now))
	assert.True(t, core.Note{ShareToken: "tok", ShareExpirationTime: core.NewTime(now.Add(time.Hour))}.ShareActive(now))
	assert.False(t, core.Note{ShareToken: "tok", ShareExpirationTime: core.NewTime(now.Add(-time.Hour))}.ShareActive(now))
}

func TestNote_DecodeBackendTimestamps(t *testing.T) {
	payload := `{
		"id": 7,
		"title": "groceries",
		"content": "milk",
		"ownerId": 3,
		"expirationTime": "2020-01-02T03:04:05",
		"shareToken": "",
		"createdAt": "2019-12-31T23:59:59.123456",
		"updatedAt": "2020-01-01T00:00:00Z"
	}`

	var n core.Note
	require.NoError(t, json.Unmarshal([]byte(payload), &n))

	assert.Equal(t, int64(7), n.ID)
	assert.Equal(t, int64(3), n.OwnerID)
	require.NotNil(t, n.ExpirationTime)
	assert.Equal(t, 2020, n.ExpirationTime.Year())
	assert.Equal(t, time.Local, n.ExpirationTime.Location())
	assert.True(t, n.IsExpired(time.Now()))
	assert.False(t, n.IsShared())
	assert.Equal(t, time.UTC, n.UpdatedAt.Location())
}

func TestTime_RejectsGarbage(t *testing.T) {
	var tm core.Time
	err := json.Unmarshal([]byte(`"yesterday"`), &tm)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func setLocal(t *testing.T, loc *time.Location) {
	t.Helper()
	prev := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = prev })
}

func TestNoteFields_ExpirationIsZoneLess(t *testing.T) {
	setLocal(t, time.FixedZone("CET", 3600))

	parsed, err := core.ParseTime("2026-01-02T15:04:05")
	require.NoError(t, err)
	title := "x"
	out, err := json.Marshal(core.NoteFields{Title: &title, ExpirationTime: core.NewLocalTime(parsed.Time)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"x","expirationTime":"2026-01-02T15:04:05"}`, string(out))

	// An instant given with an offset is written as local wall-clock time.
	utc := time.Date(2026, 1, 2, 14, 4, 5, 0, time.UTC)
	out, err = json.Marshal(core.NewLocalTime(utc))
	require.NoError(t, err)
	assert.Equal(t, `"2026-01-02T15:04:05"`, string(out))

	out, err = json.Marshal(core.LocalTime{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestLocalTime_RejectsOffsets(t *testing.T) {
	setLocal(t, time.FixedZone("CET", 3600))

	var f core.NoteFields
	err := json.Unmarshal([]byte(`{"expirationTime":"2026-01-02T15:04:05+01:00"}`), &f)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	err = json.Unmarshal([]byte(`{"expirationTime":"2026-01-02T14:04:05Z"}`), &f)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	require.NoError(t, json.Unmarshal([]byte(`{"expirationTime":"2026-01-02T15:04:05"}`), &f))
	require.NotNil(t, f.ExpirationTime)
	assert.Equal(t, time.Local, f.ExpirationTime.Location())
	assert.Equal(t, 15, f.ExpirationTime.Hour())
	assert.True(t, f.ExpirationTime.AsTime().Equal(time.Date(2026, 1, 2, 14, 4, 5, 0, time.UTC)))

	var none *core.LocalTime
	assert.Nil(t, none.AsTime())
}

func TestNoteStats_AcceptsBothSharedNames(t *testing.T) {
	var a, b core.NoteStats
	require.NoError(t, json.Unmarshal([]byte(`{"totalNotes":4,"sharedNotes":2,"expiredNotes":1}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"totalNotes":4,"notesWithShares":2,"expiredNotes":1}`), &b))
	assert.Equal(t, a, b)
	assert.Equal(t, int64(2), a.SharedNotes)
}

func TestAuthResult_Identity(t *testing.T) {
	res := core.AuthResult{Token: "abc", UserID: 1, Username: "alice", Email: "a@x.com", Role: core.RoleStandard}
	id := res.Identity()
	assert.Equal(t, core.User{ID: 1, Username: "alice", Email: "a@x.com", Role: core.RoleStandard}, id)
	assert.False(t, id.IsAdmin())
	assert.Equal(t, "alice", id.DisplayName())
}
