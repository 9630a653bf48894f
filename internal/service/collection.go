package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	cfotel "github.com/Strob0t/basenames/internal/adapter/otel"
	"github.com/Strob0t/basenames/internal/domain"
	"github.com/Strob0t/basenames/internal/domain/basename"
	"github.com/Strob0t/basenames/internal/domain/collection"
	"github.com/Strob0t/basenames/internal/port/broadcast"
	"github.com/Strob0t/basenames/internal/port/cache"
	"github.com/Strob0t/basenames/internal/port/messagequeue"
)

// IPFSScheme prefixes simulated content URIs.
const IPFSScheme = "ipfs://"

const (
	contentTypeJSON = "application/json"
	dataURLScheme   = "data:"
	dataURLBase64   = ";base64"
)

// Storage key prefixes for demo NFT state.
const (
	keyContract = "contract_"
	keyTokens   = "nfts_"
	keyIPFS     = "ipfs_"
)

// CollectionService simulates ERC-721 collections on top of a key-value
// store. Nothing is deployed or minted on chain.
type CollectionService struct {
	kv      cache.Cache
	queue   messagequeue.Publisher
	hub     broadcast.Broadcaster
	metrics *cfotel.Metrics

	// serializes read-modify-write cycles on supply and token lists
	mu  sync.Mutex
	now func() time.Time
}

// NewCollectionService creates a collection service over kv.
func NewCollectionService(kv cache.Cache) *CollectionService {
	return &CollectionService{kv: kv, now: time.Now}
}

// SetQueue configures the publisher for collection events.
func (s *CollectionService) SetQueue(q messagequeue.Publisher) { s.queue = q }

// SetHub configures direct WebSocket broadcasting.
func (s *CollectionService) SetHub(hub broadcast.Broadcaster) { s.hub = hub }

// SetMetrics configures the metrics recorder.
func (s *CollectionService) SetMetrics(m *cfotel.Metrics) { s.metrics = m }

// UploadMetadata stores md and returns its ipfs:// URI.
func (s *CollectionService) UploadMetadata(ctx context.Context, md collection.Metadata) (string, error) {
	data, err := json.Marshal(md)
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	return s.putContent(ctx, data)
}

// UploadImage stores an image as a data URL and returns its ipfs:// URI.
func (s *CollectionService) UploadImage(ctx context.Context, contentType string, data []byte) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return "", fmt.Errorf("%w: content type must be an image", domain.ErrValidation)
	}
	switch {
	case len(data) == 0:
		return "", fmt.Errorf("%w: image is empty", domain.ErrValidation)
	case len(data) > collection.MaxImageSize:
		return "", fmt.Errorf("%w: image exceeds %d bytes", domain.ErrValidation, collection.MaxImageSize)
	}
	encoded := dataURLScheme + mediaType + dataURLBase64 + "," + base64.StdEncoding.EncodeToString(data)
	return s.putContent(ctx, []byte(encoded))
}

// ResolveContent loads the raw entry stored behind uri. Images come back
// decoded with their media type; anything else is a JSON document.
func (s *CollectionService) ResolveContent(ctx context.Context, uri string) (*collection.Content, error) {
	hash, ok := strings.CutPrefix(uri, IPFSScheme)
	if !ok || hash == "" {
		return nil, fmt.Errorf("%w: uri must start with %s", domain.ErrValidation, IPFSScheme)
	}
	data, found, err := s.kv.Get(ctx, keyIPFS+hash)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("content %s: %w", uri, domain.ErrNotFound)
	}

	rest, isDataURL := strings.CutPrefix(string(data), dataURLScheme)
	if !isDataURL {
		return &collection.Content{ContentType: contentTypeJSON, Data: data}, nil
	}
	header, payload, _ := strings.Cut(rest, ",")
	mediaType, _ := strings.CutSuffix(header, dataURLBase64)
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode content %s: %w", uri, err)
	}
	return &collection.Content{ContentType: mediaType, Data: raw}, nil
}

// ResolveMetadata loads the metadata document stored behind uri.
func (s *CollectionService) ResolveMetadata(ctx context.Context, uri string) (*collection.Metadata, error) {
	c, err := s.ResolveContent(ctx, uri)
	if err != nil {
		return nil, err
	}
	if c.ContentType != contentTypeJSON {
		return nil, fmt.Errorf("%w: %s holds %s, not metadata", domain.ErrValidation, uri, c.ContentType)
	}
	var md collection.Metadata
	if err := json.Unmarshal(c.Data, &md); err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", uri, err)
	}
	return &md, nil
}

func (s *CollectionService) putContent(ctx context.Context, data []byte) (string, error) {
	hash := "Qm" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := s.kv.Set(ctx, keyIPFS+hash, data, 0); err != nil {
		return "", fmt.Errorf("store content: %w", err)
	}
	return IPFSScheme + hash, nil
}

// CreateCollection uploads the token metadata and records a new collection
// under a demo address derived from name and creator. Creating the same
// name for the same creator again replaces the earlier record.
func (s *CollectionService) CreateCollection(ctx context.Context, req collection.CreateRequest) (col *collection.Collection, err error) {
	if req.Creator == "" {
		return nil, domain.ErrNoWallet
	}
	if err := collection.ValidateCreateRequest(req); err != nil {
		return nil, err
	}
	if err := basename.ValidateAddress("creator", req.Creator); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	address := collection.DemoAddress(name, req.Creator)
	ctx, span := cfotel.StartCollectionSpan(ctx, "create", address)
	defer func() { cfotel.EndSpan(span, err) }()

	tokenURI, err := s.UploadMetadata(ctx, collection.Metadata{
		Name:        name,
		Description: collection.Description(name),
		Image:       req.Image,
	})
	if err != nil {
		return nil, err
	}

	col = &collection.Collection{
		Address:   address,
		Name:      name,
		Symbol:    collection.Symbol(name),
		Creator:   req.Creator,
		Image:     req.Image,
		TokenURI:  tokenURI,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	err = s.putCollection(ctx, col)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "collection created", "address", address, "name", name, "creator", req.Creator)
	if s.metrics != nil {
		s.metrics.CollectionsCreated.Add(ctx, 1)
	}
	s.announce(ctx, messagequeue.SubjectCollectionCreated, messagequeue.CollectionCreatedPayload{
		Address: col.Address,
		Name:    col.Name,
		Symbol:  col.Symbol,
		Creator: col.Creator,
	})
	return col, nil
}

// Get returns the collection recorded at address.
func (s *CollectionService) Get(ctx context.Context, address string) (*collection.Collection, error) {
	return s.getCollection(ctx, address)
}

// Mint simulates minting the next token of a collection to the given account.
func (s *CollectionService) Mint(ctx context.Context, address, to string) (res *collection.MintResult, err error) {
	if to == "" {
		return nil, domain.ErrNoWallet
	}
	if err := basename.ValidateAddress("to", to); err != nil {
		return nil, err
	}

	ctx, span := cfotel.StartCollectionSpan(ctx, "mint", address)
	defer func() { cfotel.EndSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.getCollection(ctx, address)
	if err != nil {
		return nil, err
	}
	txHash, err := randomTxHash()
	if err != nil {
		return nil, err
	}

	col.TotalSupply++
	token := collection.Token{
		Collection: col.Address,
		TokenID:    col.TotalSupply,
		Owner:      to,
		TokenURI:   col.TokenURI,
		MintedAt:   s.now().UTC(),
	}
	tokens, err := s.tokensOf(ctx, to)
	if err != nil {
		return nil, err
	}
	tokens = append(tokens, token)

	if err := s.putCollection(ctx, col); err != nil {
		return nil, err
	}
	if err := s.putTokens(ctx, to, tokens); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "token minted", "address", col.Address, "token_id", token.TokenID, "owner", to)
	if s.metrics != nil {
		s.metrics.TokensMinted.Add(ctx, 1)
	}
	s.announce(ctx, messagequeue.SubjectCollectionMinted, messagequeue.CollectionMintedPayload{
		Address: col.Address,
		TokenID: token.TokenID,
		Owner:   to,
		TxHash:  txHash,
	})
	return &collection.MintResult{TxHash: txHash, Token: token}, nil
}

// Balance counts the tokens owner holds in the collection at address.
// An unknown collection has a balance of zero.
func (s *CollectionService) Balance(ctx context.Context, address, owner string) (int, error) {
	if err := basename.ValidateAddress("owner", owner); err != nil {
		return 0, err
	}
	if _, err := s.getCollection(ctx, address); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	tokens, err := s.tokensOf(ctx, owner)
	if err != nil {
		return 0, err
	}
	n := 0
	for i := range tokens {
		if strings.EqualFold(tokens[i].Collection, address) {
			n++
		}
	}
	return n, nil
}

func (s *CollectionService) getCollection(ctx context.Context, address string) (*collection.Collection, error) {
	data, found, err := s.kv.Get(ctx, keyContract+strings.ToLower(address))
	if err != nil {
		return nil, fmt.Errorf("load collection %s: %w", address, err)
	}
	if !found {
		return nil, fmt.Errorf("collection %s: %w", address, domain.ErrNotFound)
	}
	var col collection.Collection
	if err := json.Unmarshal(data, &col); err != nil {
		return nil, fmt.Errorf("decode collection %s: %w", address, err)
	}
	return &col, nil
}

func (s *CollectionService) putCollection(ctx context.Context, col *collection.Collection) error {
	data, err := json.Marshal(col)
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}
	if err := s.kv.Set(ctx, keyContract+strings.ToLower(col.Address), data, 0); err != nil {
		return fmt.Errorf("store collection %s: %w", col.Address, err)
	}
	return nil
}

func (s *CollectionService) tokensOf(ctx context.Context, owner string) ([]collection.Token, error) {
	data, found, err := s.kv.Get(ctx, keyTokens+strings.ToLower(owner))
	if err != nil {
		return nil, fmt.Errorf("load tokens of %s: %w", owner, err)
	}
	if !found {
		return nil, nil
	}
	var tokens []collection.Token
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("decode tokens of %s: %w", owner, err)
	}
	return tokens, nil
}

func (s *CollectionService) putTokens(ctx context.Context, owner string, tokens []collection.Token) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}
	if err := s.kv.Set(ctx, keyTokens+strings.ToLower(owner), data, 0); err != nil {
		return fmt.Errorf("store tokens of %s: %w", owner, err)
	}
	return nil
}

func (s *CollectionService) announce(ctx context.Context, subject string, payload any) {
	if s.queue != nil {
		data, err := json.Marshal(payload)
		if err == nil {
			err = s.queue.Publish(ctx, subject, data)
		}
		if err != nil {
			slog.WarnContext(ctx, "collection event publish failed", "subject", subject, "error", err)
		}
	}
	if s.hub != nil {
		s.hub.BroadcastEvent(ctx, subject, payload)
	}
}

func randomTxHash() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate tx hash: %w", err)
	}
	return "0x" + hex.EncodeToString(b[:]), nil
}
