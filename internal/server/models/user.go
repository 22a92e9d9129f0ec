package models

import "time"

// User is a row of the users table. PasswordHash is excluded from every
// JSON representation by construction; handlers never strip it by hand.
type User struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	Role            string    `json:"role"`
	AcademicPoints  int64     `json:"academic_points"`
	Level           int       `json:"level"`
	UnlockedModules []string  `json:"unlocked_modules"`
	CreatedAt       time.Time `json:"created_at"`
}

// Progress is the mutable slice of a user's record. The id it applies to
// always comes from the verified token, never from the payload.
type Progress struct {
	AcademicPoints  int64
	Level           int
	UnlockedModules []string
}

// LeaderboardEntry is one public leaderboard row.
type LeaderboardEntry struct {
	Username       string `json:"username"`
	Level          int    `json:"level"`
	AcademicPoints int64  `json:"academic_points"`
}

// RegistrationStat is a per-day registration count for the admin stats view.
type RegistrationStat struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}
