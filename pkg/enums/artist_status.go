package enums

import "fmt"

// ArtistStatus tracks an artist profile through the application lifecycle.
type ArtistStatus string

const (
	ArtistStatusDraft    ArtistStatus = "draft"
	ArtistStatusPending  ArtistStatus = "pending"
	ArtistStatusApproved ArtistStatus = "approved"
	ArtistStatusRejected ArtistStatus = "rejected"
)

var validArtistStatuses = []ArtistStatus{
	ArtistStatusDraft,
	ArtistStatusPending,
	ArtistStatusApproved,
	ArtistStatusRejected,
}

// String implements fmt.Stringer.
func (s ArtistStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s ArtistStatus) IsValid() bool {
	for _, candidate := range validArtistStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseArtistStatus converts raw input into an ArtistStatus.
func ParseArtistStatus(value string) (ArtistStatus, error) {
	for _, candidate := range validArtistStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid artist status %q", value)
}
