package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/guildofheroes/goh-api/internal/model"
)

const campaignJoin = `SELECT c.id, c.dm_id, u.username, c.name, c.description, c.status, c.max_players, c.created_at
	FROM campaigns c JOIN users u ON c.dm_id = u.id`

// CampaignRepo persists campaigns and their membership rows.
type CampaignRepo struct{ DB *sql.DB }

func NewCampaignRepo(db *sql.DB) *CampaignRepo { return &CampaignRepo{DB: db} }

func scanCampaign(row *sql.Row) (*model.Campaign, error) {
	var c model.Campaign
	err := row.Scan(&c.ID, &c.DMID, &c.DMUsername, &c.Name, &c.Description,
		&c.Status, &c.MaxPlayers, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepo) Create(ctx context.Context, dmID int64, name, description string, maxPlayers int) (*model.Campaign, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO campaigns (dm_id, name, description, max_players) VALUES (?,?,?,?)",
		dmID, name, description, maxPlayers)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *CampaignRepo) FindByID(ctx context.Context, id int64) (*model.Campaign, error) {
	return scanCampaign(r.DB.QueryRowContext(ctx, campaignJoin+" WHERE c.id=?", id))
}

func (r *CampaignRepo) ListActive(ctx context.Context, limit int) ([]model.Campaign, error) {
	rows, err := r.DB.QueryContext(ctx,
		campaignJoin+" WHERE c.status='active' ORDER BY c.created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Campaign
	for rows.Next() {
		var c model.Campaign
		if err := rows.Scan(&c.ID, &c.DMID, &c.DMUsername, &c.Name, &c.Description,
			&c.Status, &c.MaxPlayers, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CampaignRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE campaigns SET status=?, updated_at=NOW() WHERE id=?", status, id)
	return err
}

// AddMember is idempotent: re-joining an already-joined campaign is not
// an error.
func (r *CampaignRepo) AddMember(ctx context.Context, campaignID, userID int64, role string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT IGNORE INTO campaign_members (campaign_id, user_id, role) VALUES (?,?,?)",
		campaignID, userID, role)
	return err
}

func (r *CampaignRepo) RemoveMember(ctx context.Context, campaignID, userID int64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM campaign_members WHERE campaign_id=? AND user_id=?", campaignID, userID)
	return err
}

func (r *CampaignRepo) ListMembers(ctx context.Context, campaignID int64) ([]model.CampaignMember, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT m.campaign_id, m.user_id, u.username, m.role, m.joined_at
		 FROM campaign_members m JOIN users u ON m.user_id = u.id
		 WHERE m.campaign_id=? ORDER BY m.joined_at`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CampaignMember
	for rows.Next() {
		var m model.CampaignMember
		if err := rows.Scan(&m.CampaignID, &m.UserID, &m.Username, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MemberCount counts current members for the max_players check.
func (r *CampaignRepo) MemberCount(ctx context.Context, campaignID int64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM campaign_members WHERE campaign_id=?", campaignID).Scan(&n)
	return n, err
}
