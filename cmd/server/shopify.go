package main

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Simplici0/printdesk/internal/shopify"
)

type syncResponse struct {
	Success bool `json:"success"`
	shopify.SyncResult
}

type webhookResponse struct {
	Success bool   `json:"success"`
	Action  string `json:"action,omitempty"`
}

func (s *server) handleProductsList(w http.ResponseWriter, r *http.Request) {
	list, err := s.products.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *server) handleShopifySync(w http.ResponseWriter, r *http.Request) {
	res, err := s.shopify.Sync(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, syncResponse{Success: true, SyncResult: res})
}

func (s *server) handleShopifyWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "could not read body")
		return
	}

	if !shopify.VerifyWebhook(s.cfg.ShopifyWebhookSecret, body, r.Header.Get(shopify.HeaderHmac)) {
		s.log.Warn("shopify webhook rejected", zap.String("topic", r.Header.Get(shopify.HeaderTopic)))
		respondMessage(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	action, err := s.shopify.HandleWebhook(r.Context(), r.Header.Get(shopify.HeaderTopic), body)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, webhookResponse{Success: true, Action: action})
}
