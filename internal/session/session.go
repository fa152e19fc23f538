// Package session persists cart state in an HMAC-signed cookie, the
// server-side analogue of the original localStorage key. Reads that fail for
// any reason (missing cookie, bad signature, corrupt payload) produce an
// empty state; the caller keeps working in memory.
package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/zedzima/vividigit-site/internal/cart"
)

const (
	cartCookieName = "vividigit_cart"
	// legacyModifiersCookie carried the old global modifier counts before
	// modifiers moved onto individual items. Honoured on read, dropped on
	// the next write.
	legacyModifiersCookie = "vividigit_modifiers"

	cookieTTL = 30 * 24 * time.Hour
)

// ErrNoState indicates no usable cart cookie was found.
var ErrNoState = errors.New("session: no cart state")

// Codec signs and verifies cart cookies.
type Codec struct {
	key    []byte
	secure bool
}

// NewCodec builds a codec with the given signing key. An empty key yields a
// process-ephemeral one, which is fine for development but resets carts on
// restart.
func NewCodec(signingKey string, secure bool) *Codec {
	key := []byte(signingKey)
	if len(key) == 0 {
		key = make([]byte, 32)
		_, _ = rand.Read(key)
	}
	return &Codec{key: key, secure: secure}
}

func (c *Codec) sign(payload []byte) string {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(payload)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Decode verifies and parses a cart cookie value.
func (c *Codec) Decode(value string) (cart.State, error) {
	parts := strings.Split(value, ".")
	if len(parts) != 2 {
		return cart.State{}, ErrNoState
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return cart.State{}, ErrNoState
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return cart.State{}, ErrNoState
	}
	mac := hmac.New(sha256.New, c.key)
	mac.Write(payload)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return cart.State{}, ErrNoState
	}
	var st cart.State
	if err := json.Unmarshal(payload, &st); err != nil {
		return cart.State{}, ErrNoState
	}
	return st, nil
}

// Encode serializes and signs a cart state for the cookie value.
func (c *Codec) Encode(st cart.State) (string, error) {
	payload, err := json.Marshal(st)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(payload) + "." + c.sign(payload), nil
}

// legacyModifiers is the old persisted shape: one global count pair charged
// across the whole cart.
type legacyModifiers struct {
	LangCount    int `json:"langCount"`
	CountryCount int `json:"countryCount"`
}

// Persistence binds the codec to one request/response pair, implementing
// cart.Persistence for a single page view.
type Persistence struct {
	codec  *Codec
	r      *http.Request
	w      http.ResponseWriter
	legacy bool
}

// ForRequest returns a persistence scoped to the given exchange.
func (c *Codec) ForRequest(w http.ResponseWriter, r *http.Request) *Persistence {
	return &Persistence{codec: c, r: r, w: w}
}

// Load reads the cart state from the request cookies. A legacy modifiers
// cookie seeds per-item counts on items that have none.
func (p *Persistence) Load() (cart.State, error) {
	ck, err := p.r.Cookie(cartCookieName)
	if err != nil || ck.Value == "" {
		return cart.State{}, ErrNoState
	}
	st, err := p.codec.Decode(ck.Value)
	if err != nil {
		return cart.State{}, err
	}
	if legacy, lerr := p.r.Cookie(legacyModifiersCookie); lerr == nil && legacy.Value != "" {
		p.legacy = true
		var mods legacyModifiers
		if raw, derr := base64.RawURLEncoding.DecodeString(legacy.Value); derr == nil {
			if json.Unmarshal(raw, &mods) == nil {
				for slug, it := range st.Items {
					if it.LanguageCount == 0 && it.CountryCount == 0 {
						it.LanguageCount = mods.LangCount
						it.CountryCount = mods.CountryCount
						st.Items[slug] = it
					}
				}
			}
		}
	}
	return st, nil
}

// Save writes the cart cookie and expires the legacy modifiers cookie once
// its counts have been folded into the items.
func (p *Persistence) Save(st cart.State) error {
	value, err := p.codec.Encode(st)
	if err != nil {
		return err
	}
	http.SetCookie(p.w, &http.Cookie{
		Name:     cartCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   p.codec.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(cookieTTL),
	})
	if p.legacy {
		http.SetCookie(p.w, &http.Cookie{
			Name:     legacyModifiersCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		p.legacy = false
	}
	return nil
}
