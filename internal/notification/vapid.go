package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wikistars5/wikistars5/internal/crypto"
	"github.com/wikistars5/wikistars5/internal/database/sqlc"
	"github.com/wikistars5/wikistars5/internal/notification/webpush"
)

const (
	vapidPublicKeySetting  = "vapid_public_key"
	vapidPrivateKeySetting = "vapid_private_key"
)

// LoadVAPIDKeys returns the configured key pair, else the one stored in
// settings, else a newly generated pair that is persisted with the private
// key sealed.
func LoadVAPIDKeys(ctx context.Context, db *sql.DB, sealer *crypto.Sealer, configured webpush.Keys) (webpush.Keys, error) {
	if configured.PublicKey != "" && configured.PrivateKey != "" {
		return configured, nil
	}

	q := sqlc.New(db)
	pub, errPub := q.GetSetting(ctx, vapidPublicKeySetting)
	priv, errPriv := q.GetSetting(ctx, vapidPrivateKeySetting)
	if errPub == nil && errPriv == nil {
		opened, err := sealer.Open(priv.Value)
		if err != nil {
			return webpush.Keys{}, fmt.Errorf("failed to open stored VAPID key: %w", err)
		}
		return webpush.Keys{PublicKey: pub.Value, PrivateKey: opened}, nil
	}
	for _, err := range []error{errPub, errPriv} {
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return webpush.Keys{}, fmt.Errorf("failed to load VAPID keys: %w", err)
		}
	}

	keys, err := webpush.GenerateKeys()
	if err != nil {
		return webpush.Keys{}, err
	}
	sealed, err := sealer.Seal(keys.PrivateKey)
	if err != nil {
		return webpush.Keys{}, fmt.Errorf("failed to seal VAPID key: %w", err)
	}
	if err := q.SetSetting(ctx, sqlc.SetSettingParams{Key: vapidPublicKeySetting, Value: keys.PublicKey}); err != nil {
		return webpush.Keys{}, fmt.Errorf("failed to store VAPID key: %w", err)
	}
	if err := q.SetSetting(ctx, sqlc.SetSettingParams{Key: vapidPrivateKeySetting, Value: sealed}); err != nil {
		return webpush.Keys{}, fmt.Errorf("failed to store VAPID key: %w", err)
	}
	return keys, nil
}
