package partnerships

import (
	"DuoPlay/models/postgres"
	"DuoPlay/utils"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrPartnershipExists   = utils.NewAppError(http.StatusBadRequest, "PARTNERSHIP_EXISTS", "You already have an active partnership")
	ErrPartnershipNotFound = utils.NewAppError(http.StatusNotFound, "PARTNERSHIP_NOT_FOUND", "No active partnership found")
	ErrNoPartnership       = utils.NewAppError(http.StatusForbidden, "NO_PARTNERSHIP", "You need an active partnership to do this")
	// Same code as ErrPartnershipExists, but the partnered user is the owner of the invite
	ErrInviterPartnered = utils.NewAppError(http.StatusBadRequest, "PARTNERSHIP_EXISTS", "The owner of this invite already has a partner")

	// ErrInviteUnavailable is returned by Materialize when the invite was used
	// or expired between the caller's checks and the transaction.
	ErrInviteUnavailable = errors.New("invite no longer redeemable")
)

// Store is the authoritative record of partnerships and their game aggregates
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Materialize consumes the invite and creates the ACTIVE partnership together
// with its garden, treasure map and doodle gallery. Either every row is
// written or none is.
func (s *Store) Materialize(ctx context.Context, inviterID, joinerID, code string, now time.Time) (*postgres.Partnership, error) {
	if inviterID == joinerID {
		return nil, errors.New("materialize: inviter and joiner are the same user")
	}
	now = now.UTC()

	var partnership *postgres.Partnership
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Compare-and-swap on used_at: only one redeemer can win the invite
		res := tx.Model(&postgres.InviteCode{}).
			Where("code = ? AND used_at IS NULL AND expires_at > ?", code, now).
			Updates(map[string]any{"used_by_user_id": joinerID, "used_at": now})
		if res.Error != nil {
			return fmt.Errorf("consuming invite: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInviteUnavailable
		}

		var members []string
		if err := tx.Model(&postgres.PartnershipMember{}).
			Where("user_id IN ?", []string{inviterID, joinerID}).
			Pluck("user_id", &members).Error; err != nil {
			return fmt.Errorf("checking members: %w", err)
		}
		for _, member := range members {
			if member == joinerID {
				return ErrPartnershipExists
			}
		}
		if len(members) > 0 {
			return ErrInviterPartnered
		}

		partnership = &postgres.Partnership{
			User1ID:    inviterID,
			User2ID:    joinerID,
			Status:     postgres.PartnershipActive,
			InviteCode: code,
			CreatedAt:  now,
			AcceptedAt: &now,
		}
		if err := tx.Omit("User1", "User2", "SharedGarden", "TreasureMap", "DoodleGallery").
			Create(partnership).Error; err != nil {
			return fmt.Errorf("creating partnership: %w", err)
		}

		err := tx.Omit("Partnership").Create([]*postgres.PartnershipMember{
			{UserID: inviterID, PartnershipID: partnership.ID, CreatedAt: now},
			{UserID: joinerID, PartnershipID: partnership.ID, CreatedAt: now},
		}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrPartnershipExists
		}
		if err != nil {
			return fmt.Errorf("creating members: %w", err)
		}

		partnership.SharedGarden = &postgres.SharedGarden{
			PartnershipID: partnership.ID,
			Name:          postgres.DefaultGardenName,
			GardenLevel:   1,
		}
		if err := tx.Create(partnership.SharedGarden).Error; err != nil {
			return fmt.Errorf("creating shared garden: %w", err)
		}

		partnership.TreasureMap = &postgres.TreasureMap{
			PartnershipID: partnership.ID,
			CurrentWorld:  postgres.DefaultTreasureWorld,
		}
		if err := tx.Create(partnership.TreasureMap).Error; err != nil {
			return fmt.Errorf("creating treasure map: %w", err)
		}

		partnership.DoodleGallery = &postgres.DoodleGallery{
			PartnershipID: partnership.ID,
			DrawingIDs:    datatypes.JSON("[]"),
		}
		if err := tx.Create(partnership.DoodleGallery).Error; err != nil {
			return fmt.Errorf("creating doodle gallery: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return partnership, nil
}

// FindActive returns the ACTIVE partnership of the user, or nil if there is none
func (s *Store) FindActive(ctx context.Context, userID string) (*postgres.Partnership, error) {
	var partnership postgres.Partnership
	err := s.db.WithContext(ctx).
		Where("status = ? AND (user1_id = ? OR user2_id = ?)", postgres.PartnershipActive, userID, userID).
		First(&partnership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &partnership, nil
}

func (s *Store) HasActive(ctx context.Context, userID string) (bool, error) {
	partnership, err := s.FindActive(ctx, userID)
	return partnership != nil, err
}

// FindPartner resolves the ACTIVE partnership of the user and the other member.
// Both are nil when the user is not partnered.
func (s *Store) FindPartner(ctx context.Context, userID string) (*postgres.Partnership, *postgres.User, error) {
	partnership, err := s.FindActive(ctx, userID)
	if err != nil || partnership == nil {
		return nil, nil, err
	}

	var partner postgres.User
	if err := s.db.WithContext(ctx).First(&partner, "id = ?", partnership.PartnerOf(userID)).Error; err != nil {
		return nil, nil, fmt.Errorf("loading partner: %w", err)
	}
	return partnership, &partner, nil
}

// GetCurrent returns the denormalized view of the user's ACTIVE partnership, or
// nil if the user has none.
func (s *Store) GetCurrent(ctx context.Context, userID string) (*View, error) {
	partnership, err := s.FindActive(ctx, userID)
	if err != nil || partnership == nil {
		return nil, err
	}
	return s.View(ctx, partnership.ID, userID)
}

// View builds the projection of a partnership as seen by one of its members
func (s *Store) View(ctx context.Context, partnershipID, userID string) (*View, error) {
	db := s.db.WithContext(ctx)

	var partnership postgres.Partnership
	err := db.Preload("User1").Preload("User2").
		Preload("SharedGarden").Preload("TreasureMap").Preload("DoodleGallery").
		First(&partnership, "id = ?", partnershipID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPartnershipNotFound
	}
	if err != nil {
		return nil, err
	}

	partner := partnership.User2
	switch userID {
	case partnership.User1ID:
	case partnership.User2ID:
		partner = partnership.User1
	default:
		return nil, ErrPartnershipNotFound
	}

	view := newView(&partnership, &partner)
	if err := db.Model(&postgres.SharedAchievement{}).
		Where("partnership_id = ?", partnership.ID).
		Count(&view.Stats.SharedAchievements).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&postgres.ActivityFeedItem{}).
		Where("partnership_id = ?", partnership.ID).
		Count(&view.Stats.ActivityFeedItems).Error; err != nil {
		return nil, err
	}
	return view, nil
}
