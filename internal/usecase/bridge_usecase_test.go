package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/yieldledger/internal/domain"
	"github.com/iho/yieldledger/internal/usecase"
	"github.com/iho/yieldledger/internal/usecase/mocks"
)

type bridgeFixture struct {
	uc     *usecase.BridgeUseCase
	ledger *ledgerFixture
	dedupe *mocks.MockIdempotencyStore
}

func newBridgeFixture(t *testing.T, peers ...string) *bridgeFixture {
	t.Helper()

	lf := newLedgerFixture(t)
	dedupe := mocks.NewMockIdempotencyStore()

	uc := usecase.NewBridgeUseCase(
		lf.uc,
		mocks.NewMockTransactionManager(),
		lf.accounts,
		lf.outbox,
		dedupe,
		mocks.NewMockIDGenerator(),
		lf.clock,
		peers,
	)

	return &bridgeFixture{uc: uc, ledger: lf, dedupe: dedupe}
}

func TestBridgeUseCase_RoundTripPreservesRateAndValue(t *testing.T) {
	ctx := context.Background()

	source := newBridgeFixture(t, "ledger-b")
	dest := newBridgeFixture(t)

	sourceRate := decimal.New(5, 10)
	source.ledger.rates.SetRate(sourceRate)

	// the destination ledger's global rate is lower; bridged value must not
	// be downgraded to it
	dest.ledger.rates.SetRate(decimal.New(1, 10))

	if _, err := source.ledger.uc.Mint(ctx, usecase.MintInput{
		Actor:     operator,
		AccountID: "alice",
		Amount:    decimal.NewFromInt(100_000),
	}); err != nil {
		t.Fatalf("Mint() error = %v", err)
	}

	packet, err := source.uc.SendPacket(ctx, usecase.SendPacketInput{
		Actor:              operator,
		AccountID:          "alice",
		Amount:             domain.Exact(decimal.NewFromInt(40_000)),
		PeerID:             "ledger-b",
		DestinationAccount: "alice-remote",
	})
	if err != nil {
		t.Fatalf("SendPacket() error = %v", err)
	}

	if !packet.SourceLockedRate.Equal(sourceRate) {
		t.Errorf("packet rate = %s, want %s", packet.SourceLockedRate, sourceRate)
	}

	// source side burned immediately
	srcBalance, err := source.ledger.uc.BalanceOf(ctx, "alice")
	if err != nil {
		t.Fatalf("BalanceOf(source) error = %v", err)
	}
	if !srcBalance.Equal(decimal.NewFromInt(60_000)) {
		t.Errorf("source balance = %s, want 60000", srcBalance)
	}

	if err := dest.uc.ReceivePacket(ctx, usecase.ReceivePacketInput{
		Actor:  operator,
		Packet: *packet,
	}); err != nil {
		t.Fatalf("ReceivePacket() error = %v", err)
	}

	dstView, err := dest.ledger.uc.GetAccountView(ctx, "alice-remote")
	if err != nil {
		t.Fatalf("GetAccountView(dest) error = %v", err)
	}

	if !dstView.Principal.Equal(decimal.NewFromInt(40_000)) {
		t.Errorf("destination principal = %s, want 40000", dstView.Principal)
	}

	if !dstView.LockedRate.Equal(sourceRate) {
		t.Errorf("destination rate = %s, want originating %s", dstView.LockedRate, sourceRate)
	}
}

func TestBridgeUseCase_ReceiveOverridesFundedAccountRate(t *testing.T) {
	ctx := context.Background()
	dest := newBridgeFixture(t)

	dest.ledger.rates.SetRate(decimal.New(1, 10))

	if _, err := dest.ledger.uc.Mint(ctx, usecase.MintInput{
		Actor:     operator,
		AccountID: "carol",
		Amount:    decimal.NewFromInt(500),
	}); err != nil {
		t.Fatalf("Mint() error = %v", err)
	}

	inboundRate := decimal.New(8, 10)

	if err := dest.uc.ReceivePacket(ctx, usecase.ReceivePacketInput{
		Actor: operator,
		Packet: domain.Packet{
			ID:                 "pkt-1",
			Amount:             decimal.NewFromInt(250),
			SourceLockedRate:   inboundRate,
			DestinationAccount: "carol",
		},
	}); err != nil {
		t.Fatalf("ReceivePacket() error = %v", err)
	}

	view, err := dest.ledger.uc.GetAccountView(ctx, "carol")
	if err != nil {
		t.Fatalf("GetAccountView() error = %v", err)
	}

	if !view.Principal.Equal(decimal.NewFromInt(750)) {
		t.Errorf("principal = %s, want 750", view.Principal)
	}

	if !view.LockedRate.Equal(inboundRate) {
		t.Errorf("rate = %s, want inbound override %s", view.LockedRate, inboundRate)
	}
}

func TestBridgeUseCase_DuplicatePacketMintsOnce(t *testing.T) {
	ctx := context.Background()
	dest := newBridgeFixture(t)

	packet := domain.Packet{
		ID:                 "pkt-dup",
		Amount:             decimal.NewFromInt(100),
		SourceLockedRate:   decimal.New(5, 10),
		DestinationAccount: "carol",
	}

	for i := 0; i < 3; i++ {
		if err := dest.uc.ReceivePacket(ctx, usecase.ReceivePacketInput{
			Actor:  operator,
			Packet: packet,
		}); err != nil {
			t.Fatalf("delivery %d: ReceivePacket() error = %v", i, err)
		}
	}

	balance, err := dest.ledger.uc.BalanceOf(ctx, "carol")
	if err != nil {
		t.Fatalf("BalanceOf() error = %v", err)
	}

	if !balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance after redeliveries = %s, want 100", balance)
	}
}

func TestBridgeUseCase_FailedMintReleasesDedupeKey(t *testing.T) {
	ctx := context.Background()
	dest := newBridgeFixture(t)

	packet := domain.Packet{
		ID:                 "pkt-retry",
		Amount:             decimal.NewFromInt(100),
		SourceLockedRate:   decimal.New(5, 10),
		DestinationAccount: "carol",
	}

	boom := errors.New("storage down")
	dest.ledger.accounts.GetOrCreateForUpdateFunc = func(ctx context.Context, tx usecase.Transaction, id string, now time.Time) (*domain.Account, error) {
		return nil, boom
	}

	if err := dest.uc.ReceivePacket(ctx, usecase.ReceivePacketInput{Actor: operator, Packet: packet}); !errors.Is(err, boom) {
		t.Fatalf("ReceivePacket() error = %v, want %v", err, boom)
	}

	// the key was released, so redelivery succeeds once storage is back
	dest.ledger.accounts.GetOrCreateForUpdateFunc = nil

	if err := dest.uc.ReceivePacket(ctx, usecase.ReceivePacketInput{Actor: operator, Packet: packet}); err != nil {
		t.Fatalf("retry ReceivePacket() error = %v", err)
	}

	balance, err := dest.ledger.uc.BalanceOf(ctx, "carol")
	if err != nil {
		t.Fatalf("BalanceOf() error = %v", err)
	}

	if !balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance = %s, want 100", balance)
	}
}

func TestBridgeUseCase_ZeroPacketLeavesRateUntouched(t *testing.T) {
	ctx := context.Background()
	dest := newBridgeFixture(t)

	dest.ledger.rates.SetRate(decimal.New(5, 10))

	if _, err := dest.ledger.uc.Mint(ctx, usecase.MintInput{
		Actor:     operator,
		AccountID: "carol",
		Amount:    decimal.NewFromInt(500),
	}); err != nil {
		t.Fatalf("Mint() error = %v", err)
	}

	if err := dest.uc.ReceivePacket(ctx, usecase.ReceivePacketInput{
		Actor: operator,
		Packet: domain.Packet{
			ID:                 "pkt-zero",
			Amount:             decimal.Zero,
			SourceLockedRate:   decimal.Zero,
			DestinationAccount: "carol",
		},
	}); err != nil {
		t.Fatalf("ReceivePacket() error = %v", err)
	}

	rate, err := dest.ledger.uc.AccountRateOf(ctx, "carol")
	if err != nil {
		t.Fatalf("AccountRateOf() error = %v", err)
	}

	if !rate.Equal(decimal.New(5, 10)) {
		t.Errorf("rate = %s after zero packet, want unchanged 5e10", rate)
	}
}

func TestBridgeUseCase_SendErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		input   usecase.SendPacketInput
		wantErr error
	}{
		{
			name: "peer not allowed",
			input: usecase.SendPacketInput{
				Actor:              operator,
				AccountID:          "alice",
				Amount:             domain.Exact(decimal.NewFromInt(10)),
				PeerID:             "ledger-unknown",
				DestinationAccount: "alice-remote",
			},
			wantErr: domain.ErrPeerNotAllowed,
		},
		{
			name: "unauthorized",
			input: usecase.SendPacketInput{
				Actor:              viewer,
				AccountID:          "alice",
				Amount:             domain.Exact(decimal.NewFromInt(10)),
				PeerID:             "ledger-b",
				DestinationAccount: "alice-remote",
			},
			wantErr: domain.ErrUnauthorized,
		},
		{
			name: "insufficient",
			input: usecase.SendPacketInput{
				Actor:              operator,
				AccountID:          "alice",
				Amount:             domain.Exact(decimal.NewFromInt(10_000)),
				PeerID:             "ledger-b",
				DestinationAccount: "alice-remote",
			},
			wantErr: domain.ErrInsufficientBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newBridgeFixture(t, "ledger-b")
			source.ledger.rates.SetRate(decimal.New(5, 10))

			if _, err := source.ledger.uc.Mint(ctx, usecase.MintInput{
				Actor:     operator,
				AccountID: "alice",
				Amount:    decimal.NewFromInt(100),
			}); err != nil {
				t.Fatalf("seed Mint() error = %v", err)
			}

			_, err := source.uc.SendPacket(ctx, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SendPacket() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBridgeUseCase_ReceiveMalformedPacket(t *testing.T) {
	ctx := context.Background()
	dest := newBridgeFixture(t)

	tests := []struct {
		name    string
		packet  domain.Packet
		wantErr error
	}{
		{
			name: "missing id",
			packet: domain.Packet{
				Amount:             decimal.NewFromInt(10),
				SourceLockedRate:   decimal.New(5, 10),
				DestinationAccount: "carol",
			},
			wantErr: domain.ErrMalformedPacket,
		},
		{
			name: "positive amount with zero rate",
			packet: domain.Packet{
				ID:                 "pkt-x",
				Amount:             decimal.NewFromInt(10),
				SourceLockedRate:   decimal.Zero,
				DestinationAccount: "carol",
			},
			wantErr: domain.ErrMalformedPacket,
		},
		{
			name: "missing destination",
			packet: domain.Packet{
				ID:               "pkt-y",
				Amount:           decimal.NewFromInt(10),
				SourceLockedRate: decimal.New(5, 10),
			},
			wantErr: domain.ErrMalformedPacket,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := dest.uc.ReceivePacket(ctx, usecase.ReceivePacketInput{Actor: operator, Packet: tt.packet})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReceivePacket() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
