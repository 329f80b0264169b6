package models

import "time"

// ShareLink grants time-limited public download access to one video.
// Token is the unguessable value embedded in the public URL. Expiry is
// checked at redemption time; expired links stay in storage.
type ShareLink struct {
	ID        string    `json:"id" db:"id"`
	Token     string    `json:"-" db:"token"`
	VideoID   string    `json:"videoId" db:"video_id"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
