// Package collection defines the demo NFT collection entities.
//
// Collections are simulated: nothing is deployed on chain and the derived
// address is only a stable lookup key.
package collection

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/sha3"

	"github.com/Strob0t/basenames/internal/domain"
)

// Collection is a demo ERC-721 style collection.
type Collection struct {
	Address     string    `json:"address"`
	Name        string    `json:"name"`
	Symbol      string    `json:"symbol"`
	Creator     string    `json:"creator"`
	Image       string    `json:"image"`
	TokenURI    string    `json:"token_uri"`
	TotalSupply int       `json:"total_supply"`
	CreatedAt   time.Time `json:"created_at"`
}

// Token is a single minted demo token.
type Token struct {
	Collection string    `json:"collection"`
	TokenID    int       `json:"token_id"`
	Owner      string    `json:"owner"`
	TokenURI   string    `json:"token_uri"`
	MintedAt   time.Time `json:"minted_at"`
}

// Metadata is the token metadata document stored behind an ipfs:// URI.
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// MaxImageSize bounds uploaded images. Encoded entries must stay under the
// NATS payload limit.
const MaxImageSize = 512 << 10

// Content is a raw entry of the simulated IPFS store.
type Content struct {
	ContentType string
	Data        []byte
}

// CreateRequest holds the fields needed to create a collection.
type CreateRequest struct {
	Name    string `json:"name"`
	Creator string `json:"creator"`
	Image   string `json:"image"`
}

// MintResult is returned by a simulated mint.
type MintResult struct {
	TxHash string `json:"tx_hash"`
	Token  Token  `json:"token"`
}

const maxSymbolLen = 5

// Symbol derives a ticker from the collection name: upper-cased, whitespace
// removed, at most five characters.
func Symbol(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	s := []rune(b.String())
	if len(s) > maxSymbolLen {
		s = s[:maxSymbolLen]
	}
	return string(s)
}

// DemoAddress derives a stable pseudo-address from name and creator.
func DemoAddress(name, creator string) string {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte(name))
	_, _ = h.Write([]byte(strings.ToLower(creator)))
	sum := h.Sum(nil)
	return "0x" + hex.EncodeToString(sum[len(sum)-20:])
}

// Description is the metadata description attached to new collections.
func Description(name string) string {
	return name + " - Created on Base Names NFT demo"
}

// ValidateCreateRequest checks the collection name. Creator presence is
// checked by the service since a missing creator means no wallet.
func ValidateCreateRequest(req CreateRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if len(name) > 128 {
		return fmt.Errorf("%w: name exceeds 128 characters", domain.ErrValidation)
	}
	return nil
}
