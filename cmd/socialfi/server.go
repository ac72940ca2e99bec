package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"socialfi/native/gov"
	"socialfi/native/market"
	"socialfi/native/platform"
	"socialfi/native/profile"
	"socialfi/native/staking"
)

// queryServer exposes read-only ledger state over HTTP. Mutations happen
// through ledger instructions, never through this surface.
type queryServer struct {
	market   *market.Engine
	staking  *staking.Engine
	gov      *gov.Engine
	profile  *profile.Engine
	platform *platform.Engine
	logger   *slog.Logger
}

func (s *queryServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/market/pool", s.handlePool)
	mux.HandleFunc("/v1/market/position", s.handlePosition)
	mux.HandleFunc("/v1/staking/position", s.handleStake)
	mux.HandleFunc("/v1/gov/proposal", s.handleProposal)
	mux.HandleFunc("/v1/profile", s.handleProfile)
	mux.HandleFunc("/v1/platform/config", s.handlePlatformConfig)
	return mux
}

func (s *queryServer) serve(addr string) {
	if err := http.ListenAndServe(addr, s.routes()); err != nil {
		s.logger.Error("query server stopped", slog.Any("error", err))
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func addressParam(r *http.Request, name string) ([20]byte, bool) {
	var out [20]byte
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return out, false
	}
	addr, err := decodeConfigAddress(raw)
	if err != nil {
		return out, false
	}
	return addr, true
}

func (s *queryServer) handlePool(w http.ResponseWriter, r *http.Request) {
	creator, ok := addressParam(r, "creator")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid creator address")
		return
	}
	pool, err := s.market.Pool(creator)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

func (s *queryServer) handlePosition(w http.ResponseWriter, r *http.Request) {
	holder, ok := addressParam(r, "holder")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid holder address")
		return
	}
	creator, ok := addressParam(r, "creator")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid creator address")
		return
	}
	position, err := s.market.Position(holder, creator)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if position == nil {
		writeError(w, http.StatusNotFound, "position not found")
		return
	}
	writeJSON(w, http.StatusOK, position)
}

func (s *queryServer) handleStake(w http.ResponseWriter, r *http.Request) {
	staker, ok := addressParam(r, "staker")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid staker address")
		return
	}
	position, err := s.staking.Position(staker)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if position == nil {
		writeError(w, http.StatusNotFound, "stake position not found")
		return
	}
	writeJSON(w, http.StatusOK, position)
}

func (s *queryServer) handleProposal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(strings.TrimSpace(r.URL.Query().Get("id")), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid proposal id")
		return
	}
	proposal, err := s.gov.Proposal(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, proposal)
}

func (s *queryServer) handleProfile(w http.ResponseWriter, r *http.Request) {
	owner, ok := addressParam(r, "owner")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid owner address")
		return
	}
	prof, found, err := s.profile.Profile(owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

func (s *queryServer) handlePlatformConfig(w http.ResponseWriter, r *http.Request) {
	cfg, found, err := s.platform.Current()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "platform config not initialized")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
