package usecase

import (
	"context"

	"github.com/iho/yieldledger/internal/domain"
)

// BridgeUseCase implements both legs of a cross-ledger transfer. The source
// leg burns locally and leaves a durable packet in the outbox; the
// destination leg mints from a delivered packet with the originating locked
// rate. The two legs share no transaction: the burn commits whether or not
// the remote mint ever happens.
type BridgeUseCase struct {
	ledger      *LedgerUseCase
	txManager   TransactionManager
	accountRepo AccountRepository
	outboxRepo  OutboxRepository
	dedupe      IdempotencyStore
	idGen       IDGenerator
	clock       Clock
	peers       map[string]bool
}

// NewBridgeUseCase creates a new BridgeUseCase. peerIDs is the allow-list
// of remote ledgers this instance will burn toward.
func NewBridgeUseCase(
	ledger *LedgerUseCase,
	txManager TransactionManager,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	dedupe IdempotencyStore,
	idGen IDGenerator,
	clock Clock,
	peerIDs []string,
) *BridgeUseCase {
	peers := make(map[string]bool, len(peerIDs))
	for _, id := range peerIDs {
		peers[id] = true
	}

	return &BridgeUseCase{
		ledger:      ledger,
		txManager:   txManager,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		dedupe:      dedupe,
		idGen:       idGen,
		clock:       clock,
		peers:       peers,
	}
}

// SendPacketInput represents input for the source leg.
type SendPacketInput struct {
	Actor              *domain.User
	AccountID          string
	Amount             domain.Amount
	PeerID             string
	DestinationAccount string
}

// SendPacket runs the source leg: settle, burn, and record a packet
// carrying the sender's locked rate for the relay to deliver. The packet
// preserves the rate so the destination mint does not reassign the (possibly
// lower) remote global rate.
func (uc *BridgeUseCase) SendPacket(ctx context.Context, input SendPacketInput) (*domain.Packet, error) {
	if input.Actor == nil || !input.Actor.Role.CanMoveFunds() {
		return nil, domain.ErrUnauthorized
	}

	if !uc.peers[input.PeerID] {
		return nil, domain.ErrPeerNotAllowed
	}

	if err := domain.ValidateAccountID(input.AccountID); err != nil {
		return nil, err
	}

	if err := domain.ValidateAccountID(input.DestinationAccount); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	packetID := uc.idGen.Generate()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	acc, err := uc.accountRepo.GetOrCreateForUpdate(ctx, tx, input.AccountID, now)
	if err != nil {
		return nil, err
	}

	resolved, err := uc.ledger.burnLocked(ctx, tx, acc, input.Amount, domain.EntryKindBridgeOut, packetID, now)
	if err != nil {
		return nil, err
	}

	packet := &domain.Packet{
		ID:                 packetID,
		Amount:             resolved,
		SourceLockedRate:   acc.LockedRate,
		DestinationAccount: input.DestinationAccount,
	}

	err = uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   packet.ID,
		AggregateType: domain.AggregateTypePacket,
		EventType:     domain.EventTypePacketSent,
		Payload: map[string]any{
			"packet_id":           packet.ID,
			"peer_id":             input.PeerID,
			"source_account_id":   input.AccountID,
			"destination_account": packet.DestinationAccount,
			"amount":              packet.Amount.String(),
			"source_locked_rate":  packet.SourceLockedRate.String(),
		},
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return packet, nil
}

// ReceivePacketInput represents input for the destination leg.
type ReceivePacketInput struct {
	Actor  *domain.User
	Packet domain.Packet
}

// ReceivePacket runs the destination leg: dedupe on packet id, then mint
// with the packet's locked rate instead of the local global rate. Replays
// of an already-minted packet succeed without minting again.
func (uc *BridgeUseCase) ReceivePacket(ctx context.Context, input ReceivePacketInput) error {
	if input.Actor == nil || !input.Actor.Role.CanRelayPackets() {
		return domain.ErrUnauthorized
	}

	packet := input.Packet
	if packet.ID == "" {
		return domain.ErrMalformedPacket
	}

	if err := packet.Validate(); err != nil {
		return err
	}

	if packet.Amount.IsZero() {
		// nothing to mint, and a zero packet must not touch the
		// destination account's locked rate
		return nil
	}

	dedupeKey := packetDedupePrefix + packet.ID

	// The key is claimed before the mint commits. A crash between the two
	// leaves the key set with no mint behind it, and redeliveries inside
	// the TTL window are dropped; expiry is the recovery path.
	seen, _, err := uc.dedupe.CheckAndSet(ctx, dedupeKey, nil, PacketDedupeTTL)
	if err != nil {
		return err
	}

	if seen {
		return nil
	}

	if err := uc.mintFromPacket(ctx, &packet); err != nil {
		// release the key so a redelivery can retry the mint
		_ = uc.dedupe.Delete(ctx, dedupeKey)
		return err
	}

	return uc.dedupe.Update(ctx, dedupeKey, []byte("minted"), PacketDedupeTTL)
}

func (uc *BridgeUseCase) mintFromPacket(ctx context.Context, packet *domain.Packet) error {
	now := uc.clock.Now()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	acc, err := uc.accountRepo.GetOrCreateForUpdate(ctx, tx, packet.DestinationAccount, now)
	if err != nil {
		return err
	}

	rate := packet.SourceLockedRate
	if err := uc.ledger.mintLocked(ctx, tx, acc, packet.Amount, &rate, domain.EntryKindBridgeIn, packet.ID, now); err != nil {
		return err
	}

	err = uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   packet.ID,
		AggregateType: domain.AggregateTypePacket,
		EventType:     domain.EventTypePacketReceived,
		Payload: map[string]any{
			"packet_id":           packet.ID,
			"destination_account": packet.DestinationAccount,
			"amount":              packet.Amount.String(),
			"source_locked_rate":  packet.SourceLockedRate.String(),
		},
		CreatedAt: now,
	})
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
