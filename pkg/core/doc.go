// Package core holds the NoteGuard domain types shared by the client packages:
// accounts, notes, share links, admin statistics and the sentinel errors every
// layer maps its failures onto.
package core
