package invites

import (
	"DuoPlay/models/postgres"
	"DuoPlay/services/partnerships"
	"DuoPlay/utils"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultTTL      = 7 * 24 * time.Hour
	MaxCodeAttempts = 10
)

var (
	ErrInviteNotFound          = utils.NewAppError(http.StatusNotFound, "INVITE_NOT_FOUND", "Invalid invite code")
	ErrInviteAlreadyUsed       = utils.NewAppError(http.StatusBadRequest, "INVITE_ALREADY_USED", "This invite code has already been used")
	ErrInviteExpired           = utils.NewAppError(http.StatusBadRequest, "INVITE_EXPIRED", "This invite code has expired")
	ErrSelfInvite              = utils.NewAppError(http.StatusBadRequest, "SELF_INVITE", "You cannot use your own invite code")
	ErrCodeGenerationExhausted = utils.NewAppError(http.StatusInternalServerError, "CODE_GENERATION_EXHAUSTED", "Could not generate a unique invite code")
	ErrInvalidCodeFormat       = utils.ValidationError(utils.FieldError{Field: "code", Message: "Invalid invite code format"})
)

// Notifier is the part of the notification service the registry needs
type Notifier interface {
	Notify(ctx context.Context, userID string, kind postgres.NotificationType, title, message string, data any) (*postgres.Notification, error)
}

type Invite struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Registry manages the invite code lifecycle
type Registry struct {
	db          *gorm.DB
	store       *partnerships.Store
	notifier    Notifier
	generate    CodeGenerator
	maxAttempts int
	ttl         time.Duration
	now         func() time.Time
}

type Option func(*Registry)

// WithGenerator replaces the random code source
func WithGenerator(g CodeGenerator) Option {
	return func(r *Registry) { r.generate = g }
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) { r.ttl = ttl }
}

func NewRegistry(db *gorm.DB, store *partnerships.Store, notifier Notifier, opts ...Option) *Registry {
	r := &Registry{
		db:          db,
		store:       store,
		notifier:    notifier,
		generate:    RandomCode,
		maxAttempts: MaxCodeAttempts,
		ttl:         DefaultTTL,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateInvite returns the user's outstanding invite, minting one if needed
func (r *Registry) CreateInvite(ctx context.Context, userID string) (*Invite, error) {
	partnered, err := r.store.HasActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if partnered {
		return nil, partnerships.ErrPartnershipExists
	}

	now := r.now().UTC()

	var invite *Invite
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serializes invite creation per user so only one code is outstanding
		var creator postgres.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").First(&creator, "id = ?", userID).Error; err != nil {
			return fmt.Errorf("locking invite creator: %w", err)
		}

		var existing postgres.InviteCode
		err := tx.Where("created_by_user_id = ? AND used_at IS NULL AND expires_at > ?", userID, now).
			Order("created_at DESC").
			First(&existing).Error
		if err == nil {
			invite = &Invite{Code: existing.Code, ExpiresAt: existing.ExpiresAt}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		invite, err = r.insertInvite(tx, userID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return invite, nil
}

// insertInvite tries up to maxAttempts generated codes. Each attempt runs in
// a savepoint so a collision does not abort the surrounding transaction.
func (r *Registry) insertInvite(tx *gorm.DB, userID string, now time.Time) (*Invite, error) {
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		code, err := r.generate()
		if err != nil {
			return nil, err
		}

		invite := postgres.InviteCode{
			Code:            code,
			CreatedByUserID: userID,
			CreatedAt:       now,
			ExpiresAt:       now.Add(r.ttl),
		}
		err = tx.Transaction(func(sp *gorm.DB) error {
			return sp.Omit("CreatedBy").Create(&invite).Error
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("storing invite: %w", err)
		}
		return &Invite{Code: invite.Code, ExpiresAt: invite.ExpiresAt}, nil
	}

	log.Printf("[INVITE-ERROR] %d colliding codes in a row for user %s", r.maxAttempts, userID)
	return nil, ErrCodeGenerationExhausted
}

// RedeemInvite pairs the user with the creator of the code and notifies the
// creator. The returned view is the new partnership as seen by the redeemer.
func (r *Registry) RedeemInvite(ctx context.Context, userID, rawCode string) (*partnerships.View, error) {
	code, ok := NormalizeCode(rawCode)
	if !ok {
		return nil, ErrInvalidCodeFormat
	}
	now := r.now().UTC()

	invite, err := r.find(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := checkRedeemable(invite, now); err != nil {
		return nil, err
	}
	if invite.CreatedByUserID == userID {
		return nil, ErrSelfInvite
	}

	partnered, err := r.store.HasActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if partnered {
		return nil, partnerships.ErrPartnershipExists
	}
	inviterPartnered, err := r.store.HasActive(ctx, invite.CreatedByUserID)
	if err != nil {
		return nil, err
	}
	if inviterPartnered {
		return nil, partnerships.ErrInviterPartnered
	}

	partnership, err := r.store.Materialize(ctx, invite.CreatedByUserID, userID, code, now)
	if errors.Is(err, partnerships.ErrInviteUnavailable) {
		// Lost a race with another redeemer or with the clock
		if invite, err = r.find(ctx, code); err != nil {
			return nil, err
		}
		if err := checkRedeemable(invite, now); err != nil {
			return nil, err
		}
		return nil, ErrInviteAlreadyUsed
	}
	if err != nil {
		return nil, err
	}

	r.notifyInviter(ctx, invite.CreatedByUserID, userID, partnership.ID)
	return r.store.View(ctx, partnership.ID, userID)
}

func (r *Registry) find(ctx context.Context, code string) (*postgres.InviteCode, error) {
	var invite postgres.InviteCode
	err := r.db.WithContext(ctx).First(&invite, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInviteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func checkRedeemable(invite *postgres.InviteCode, now time.Time) error {
	if invite.UsedAt != nil {
		return ErrInviteAlreadyUsed
	}
	if !invite.ExpiresAt.After(now) {
		return ErrInviteExpired
	}
	return nil
}

// The partnership is committed at this point, so failures are only logged
func (r *Registry) notifyInviter(ctx context.Context, inviterID, joinerID, partnershipID string) {
	if r.notifier == nil {
		return
	}

	var joiner postgres.User
	if err := r.db.WithContext(ctx).Select("id", "display_name").First(&joiner, "id = ?", joinerID).Error; err != nil {
		log.Printf("[INVITE-ERROR] loading joiner %s: %v", joinerID, err)
		return
	}

	_, err := r.notifier.Notify(ctx, inviterID, postgres.NotificationPartnerJoined,
		"New Partner!",
		fmt.Sprintf("%s has joined as your partner!", joiner.DisplayName),
		map[string]string{"partnershipId": partnershipID},
	)
	if err != nil {
		log.Printf("[INVITE-ERROR] notifying inviter %s: %v", inviterID, err)
	}
}
