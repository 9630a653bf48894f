package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cfotel "github.com/Strob0t/basenames/internal/adapter/otel"
	"github.com/Strob0t/basenames/internal/domain"
	"github.com/Strob0t/basenames/internal/domain/basename"
	"github.com/Strob0t/basenames/internal/port/broadcast"
	"github.com/Strob0t/basenames/internal/port/chain"
	"github.com/Strob0t/basenames/internal/port/database"
	"github.com/Strob0t/basenames/internal/port/messagequeue"
)

var errNoRegistrar = errors.New("registrar controller not configured")

// RegistrationService submits paid registrations through a connected wallet.
type RegistrationService struct {
	availability *AvailabilityService
	registrar    chain.RegistrarReader
	wallet       chain.Wallet
	store        database.Store
	queue        messagequeue.Publisher
	hub          broadcast.Broadcaster
	metrics      *cfotel.Metrics
}

// NewRegistrationService creates a registration service. A nil wallet makes
// every Register call fail with domain.ErrNoWallet.
func NewRegistrationService(availability *AvailabilityService, registrar chain.RegistrarReader, wallet chain.Wallet) *RegistrationService {
	return &RegistrationService{availability: availability, registrar: registrar, wallet: wallet}
}

// SetStore configures where broadcast registrations are recorded.
func (s *RegistrationService) SetStore(store database.Store) { s.store = store }

// SetQueue configures the publisher for names.registered events.
func (s *RegistrationService) SetQueue(q messagequeue.Publisher) { s.queue = q }

// SetHub configures direct WebSocket broadcasting.
func (s *RegistrationService) SetHub(hub broadcast.Broadcaster) { s.hub = hub }

// SetMetrics configures the metrics recorder.
func (s *RegistrationService) SetMetrics(m *cfotel.Metrics) { s.metrics = m }

// WalletAddress returns the connected account, or "" without a wallet.
func (s *RegistrationService) WalletAddress() string {
	if s.wallet == nil {
		return ""
	}
	return s.wallet.Address()
}

// Register re-checks availability and submits a one-year registration of
// rawName to owner. An empty owner registers to the wallet's own account.
// The result is always populated; the error is returned for errors.Is
// matching.
func (s *RegistrationService) Register(ctx context.Context, rawName, owner string) (basename.RegistrationResult, error) {
	if s.wallet == nil {
		return s.fail(ctx, "no_wallet", domain.ErrNoWallet)
	}
	name, err := basename.Validate(rawName)
	if err != nil {
		return s.fail(ctx, "invalid", err)
	}
	if owner == "" {
		owner = s.wallet.Address()
	}
	if err := basename.ValidateAddress("owner", owner); err != nil {
		return s.fail(ctx, "invalid", err)
	}

	ctx, span := cfotel.StartRegisterSpan(ctx, name.String(), owner)
	res, err := s.submit(ctx, name, owner)
	cfotel.EndSpan(span, err)
	return res, err
}

func (s *RegistrationService) submit(ctx context.Context, name basename.CandidateName, owner string) (basename.RegistrationResult, error) {
	if check := s.availability.ResolveName(ctx, name); !check.Available {
		slog.InfoContext(ctx, "registration refused, name unavailable",
			"name", name.String(),
			"detail", check.Error,
		)
		return s.fail(ctx, "taken", domain.ErrNameTaken)
	}

	if s.registrar == nil {
		return s.fail(ctx, "failed", &SubmissionError{Err: errNoRegistrar})
	}
	duration := basename.RegistrationSeconds()
	price, err := s.registrar.RentPrice(ctx, name, duration)
	if err != nil {
		return s.fail(ctx, "failed", &SubmissionError{Err: err})
	}

	value := price.Total()
	txHash, err := s.wallet.Register(ctx, basename.RegisterRequest{
		Name:     name,
		Owner:    owner,
		Duration: duration,
		Value:    value,
	})
	if err != nil {
		return s.fail(ctx, "failed", &SubmissionError{Err: err})
	}

	slog.InfoContext(ctx, "registration submitted",
		"name", name.String(),
		"owner", owner,
		"tx_hash", txHash,
		"value_wei", value.String(),
	)
	s.metrics.RecordRegistration(ctx, "submitted")

	s.record(ctx, &basename.Registration{
		ID:          uuid.NewString(),
		Name:        name.String(),
		Owner:       owner,
		TxHash:      txHash,
		ValueWei:    value.String(),
		DurationSec: duration.Int64(),
		SubmittedAt: time.Now().UTC(),
	})
	return basename.RegistrationResult{Success: true, TxHash: txHash}, nil
}

// record persists and announces a broadcast registration. Failures here are
// logged only; the transaction is already on its way.
func (s *RegistrationService) record(ctx context.Context, r *basename.Registration) {
	if s.store != nil {
		if err := s.store.SaveRegistration(ctx, r); err != nil {
			slog.WarnContext(ctx, "registration history save failed", "tx_hash", r.TxHash, "error", err)
		}
	}

	payload := messagequeue.NameRegisteredPayload{
		ID:       r.ID,
		Name:     r.Name,
		Owner:    r.Owner,
		TxHash:   r.TxHash,
		ValueWei: r.ValueWei,
	}
	if s.queue != nil {
		data, err := json.Marshal(payload)
		if err == nil {
			err = s.queue.Publish(ctx, messagequeue.SubjectNameRegistered, data)
		}
		if err != nil {
			slog.WarnContext(ctx, "registration event publish failed", "tx_hash", r.TxHash, "error", err)
		}
	}
	if s.hub != nil {
		s.hub.BroadcastEvent(ctx, messagequeue.SubjectNameRegistered, payload)
	}
}

func (s *RegistrationService) fail(ctx context.Context, result string, err error) (basename.RegistrationResult, error) {
	s.metrics.RecordRegistration(ctx, result)
	if result == "failed" {
		slog.WarnContext(ctx, "registration submission failed", "error", err)
	}
	return basename.RegistrationResult{Error: err.Error()}, err
}

// History lists registrations submitted for owner, newest first.
// Without a store the history is empty.
func (s *RegistrationService) History(ctx context.Context, owner string) ([]basename.Registration, error) {
	if err := basename.ValidateAddress("owner", owner); err != nil {
		return nil, err
	}
	if s.store == nil {
		return []basename.Registration{}, nil
	}
	return s.store.ListRegistrations(ctx, owner)
}
