// Package auth は外部IdPが発行するIDトークンの検証を提供する。
package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/tarotman/internal/model"
)

const (
	defaultGoogleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"
	defaultGoogleIssuer  = "https://accounts.google.com"
	defaultLeeway        = 30 * time.Second
	defaultJWKSCacheTTL  = 5 * time.Minute
)

var errUnknownKey = errors.New("unknown token key")

// VerifierConfig はIDトークン検証の設定。
type VerifierConfig struct {
	// Audience は期待するクライアントID。トークンのaudクレームと照合される。
	Audience string
	// Leeway は時刻クレーム検証の許容ずれ。
	Leeway time.Duration

	// テスト用にオーバーライド可能な項目
	JWKSURL    string
	Issuer     string
	HTTPClient *http.Client
}

// Verifier はGoogle発行のIDトークン（RS256）を検証し、subjectと表示名を取り出す。
// 署名鍵はJWKSエンドポイントから取得し、Cache-Controlのmax-ageに従ってキャッシュする。
// 未知のkidに遭遇した場合はキャッシュを更新して1回だけ再試行する。
type Verifier struct {
	audience   string
	issuer     string
	leeway     time.Duration
	jwksURL    string
	httpClient *http.Client

	mu         sync.RWMutex
	rsaKeys    map[string]*rsa.PublicKey
	keysExpire time.Time
}

// NewVerifier はVerifierを生成する。
func NewVerifier(config VerifierConfig) (*Verifier, error) {
	if config.Audience == "" {
		return nil, fmt.Errorf("token verifier requires audience")
	}
	if config.JWKSURL == "" {
		config.JWKSURL = defaultGoogleJWKSURL
	}
	if config.Issuer == "" {
		config.Issuer = defaultGoogleIssuer
	}
	if config.Leeway <= 0 {
		config.Leeway = defaultLeeway
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 5 * time.Second}
	}

	return &Verifier{
		audience:   config.Audience,
		issuer:     config.Issuer,
		leeway:     config.Leeway,
		jwksURL:    config.JWKSURL,
		httpClient: config.HTTPClient,
	}, nil
}

// idTokenClaims はGoogleのIDトークンから取り出すクレーム。
// given_nameはアカウント設定によっては含まれない。
type idTokenClaims struct {
	jwt.RegisteredClaims
	Name      string `json:"name"`
	GivenName string `json:"given_name"`
}

// Verify はIDトークンを検証し、subjectと表示名を返す。
// 署名・発行者・audience・有効期限のいずれかが不正な場合はエラーを返す。
func (v *Verifier) Verify(ctx context.Context, rawToken string) (*model.Identity, error) {
	claims, err := v.verifyWithRefresh(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return nil, fmt.Errorf("token subject missing")
	}

	name := claims.GivenName
	if name == "" {
		name = claims.Name
	}

	return &model.Identity{
		Subject: subject,
		Name:    name,
	}, nil
}

// verifyWithRefresh はトークンを検証し、未知のkidか鍵キャッシュの期限切れの場合は
// JWKSを再取得して1回だけ再試行する。
func (v *Verifier) verifyWithRefresh(ctx context.Context, rawToken string) (*idTokenClaims, error) {
	if v.keysEmpty() || v.keysExpired() {
		if err := v.refreshJWKS(ctx); err != nil {
			return nil, fmt.Errorf("failed to fetch jwks: %w", err)
		}
	}

	claims, err := v.parse(rawToken)
	if err == nil {
		return claims, nil
	}
	if !errors.Is(err, errUnknownKey) {
		return nil, err
	}

	if refreshErr := v.refreshJWKS(ctx); refreshErr != nil {
		return nil, fmt.Errorf("failed to refresh jwks: %w", refreshErr)
	}
	return v.parse(rawToken)
}

// parse は現在キャッシュされている鍵でトークンを検証する。
func (v *Verifier) parse(rawToken string) (*idTokenClaims, error) {
	claims := &idTokenClaims{}
	keys := v.copyKeys()

	parsed, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errUnknownKey
		}
		key, ok := keys[kid]
		if !ok {
			return nil, errUnknownKey
		}
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func (v *Verifier) keysEmpty() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.rsaKeys) == 0
}

func (v *Verifier) keysExpired() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return time.Now().After(v.keysExpire)
}

func (v *Verifier) copyKeys() map[string]*rsa.PublicKey {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make(map[string]*rsa.PublicKey, len(v.rsaKeys))
	for kid, key := range v.rsaKeys {
		out[kid] = key
	}
	return out
}

// refreshJWKS はJWKSエンドポイントから署名鍵を取得してキャッシュを入れ替える。
func (v *Verifier) refreshJWKS(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create jwks request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("jwks request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwks fetch failed with status %d", resp.StatusCode)
	}

	var payload struct {
		Keys []struct {
			Kty string `json:"kty"`
			Kid string `json:"kid"`
			N   string `json:"n"`
			E   string `json:"e"`
		} `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("failed to parse jwks response: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(payload.Keys))
	for _, k := range payload.Keys {
		if !strings.EqualFold(strings.TrimSpace(k.Kty), "RSA") || k.Kid == "" {
			continue
		}
		pub, err := parseRSAPublicKey(k.N, k.E)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return fmt.Errorf("jwks contains no usable rsa keys")
	}

	ttl := parseCacheMaxAge(resp.Header.Get("Cache-Control"))
	if ttl <= 0 {
		ttl = defaultJWKSCacheTTL
	}

	v.mu.Lock()
	v.rsaKeys = keys
	v.keysExpire = time.Now().Add(ttl)
	v.mu.Unlock()
	return nil
}

// parseRSAPublicKey はJWKのn/eパラメータからRSA公開鍵を組み立てる。
func parseRSAPublicKey(nRaw, eRaw string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(nRaw))
	if err != nil {
		return nil, fmt.Errorf("invalid modulus encoding: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(eRaw))
	if err != nil {
		return nil, fmt.Errorf("invalid exponent encoding: %w", err)
	}

	n := new(big.Int).SetBytes(nBytes)
	e := new(big.Int).SetBytes(eBytes)
	if n.Sign() <= 0 || !e.IsInt64() || e.Int64() <= 0 {
		return nil, fmt.Errorf("invalid rsa key parameters")
	}

	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}

// parseCacheMaxAge はCache-Controlヘッダーからmax-ageを取り出す。
// 見つからない場合は0を返す。
func parseCacheMaxAge(cacheControl string) time.Duration {
	for _, part := range strings.Split(cacheControl, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if !strings.HasPrefix(part, "max-age=") {
			continue
		}
		secs, err := time.ParseDuration(strings.TrimPrefix(part, "max-age=") + "s")
		if err != nil {
			return 0
		}
		return secs
	}
	return 0
}
