package model

import "time"

// Campaign statuses.
const (
	CampaignActive    = "active"
	CampaignCompleted = "completed"
	CampaignOnHiatus  = "hiatus"
)

// Campaign mirrors the `campaigns` table. DMUsername is joined from
// users for display.
type Campaign struct {
	ID          int64     `json:"id"`
	DMID        int64     `json:"dm_id"`
	DMUsername  string    `json:"dm_username"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	MaxPlayers  int       `json:"max_players"`
	CreatedAt   time.Time `json:"created_at"`
}

// CampaignMember mirrors the `campaign_members` join table.
type CampaignMember struct {
	CampaignID int64     `json:"campaign_id"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	JoinedAt   time.Time `json:"joined_at"`
}
