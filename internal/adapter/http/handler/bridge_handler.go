package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/iho/yieldledger/internal/adapter/http/dto"
	"github.com/iho/yieldledger/internal/adapter/http/middleware"
	"github.com/iho/yieldledger/internal/domain"
	"github.com/iho/yieldledger/internal/usecase"
)

// maxPacketBytes bounds the binary packet frame. The fixed header plus a
// destination account id never comes close.
const maxPacketBytes = 4096

// BridgeHandler handles both legs of cross-ledger transfers.
type BridgeHandler struct {
	bridgeUC *usecase.BridgeUseCase
}

// NewBridgeHandler creates a new BridgeHandler.
func NewBridgeHandler(bridgeUC *usecase.BridgeUseCase) *BridgeHandler {
	return &BridgeHandler{bridgeUC: bridgeUC}
}

// Send burns claims toward a peer ledger and returns the packet the relay
// will deliver.
func (h *BridgeHandler) Send(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.SendPacketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	packet, err := h.bridgeUC.SendPacket(r.Context(), req.ToUseCaseInput(actor))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to send packet", err.Error())

		return
	}

	writeJSON(w, http.StatusAccepted, dto.PacketFromDomain(packet))
}

// Receive mints from a delivered packet. The body is the binary packet
// frame; the id arrives in the X-Packet-Id header and drives dedupe, so a
// redelivered packet mints exactly once.
func (h *BridgeHandler) Receive(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	packetID := r.Header.Get("X-Packet-Id")
	if packetID == "" {
		writeError(w, http.StatusBadRequest, "missing X-Packet-Id header", "")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPacketBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read packet", err.Error())
		return
	}

	var packet domain.Packet
	if err := packet.UnmarshalBinary(body); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "malformed packet", err.Error())

		return
	}
	packet.ID = packetID

	err = h.bridgeUC.ReceivePacket(r.Context(), usecase.ReceivePacketInput{
		Actor:  actor,
		Packet: packet,
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to receive packet", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"packet_id": packetID,
		"status":    "minted",
	})
}
