package assets

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ImageKit issues the token/expire/signature triple ImageKit's client SDK
// expects for authenticated browser uploads: the signature is
// HMAC-SHA1(token+expire) under the account's private key.
type ImageKit struct {
	publicKey   string
	privateKey  string
	urlEndpoint string
	ttl         time.Duration
	now         func() time.Time
}

func NewImageKit(publicKey, privateKey, urlEndpoint string, ttl time.Duration) *ImageKit {
	return &ImageKit{
		publicKey:   publicKey,
		privateKey:  privateKey,
		urlEndpoint: urlEndpoint,
		ttl:         ttl,
		now:         time.Now,
	}
}

func (k *ImageKit) UploadCredentials(_ context.Context, _ string) (UploadCredentials, error) {
	token := uuid.NewString()
	expire := k.now().Add(k.ttl).Unix()
	return UploadCredentials{
		Provider:    "imagekit",
		Token:       token,
		Expire:      expire,
		Signature:   k.sign(token, expire),
		PublicKey:   k.publicKey,
		URLEndpoint: k.urlEndpoint,
	}, nil
}

func (k *ImageKit) sign(token string, expire int64) string {
	mac := hmac.New(sha1.New, []byte(k.privateKey))
	_, _ = mac.Write([]byte(token + strconv.FormatInt(expire, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
