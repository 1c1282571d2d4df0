package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Simplici0/printdesk/internal/products"
)

// ErrNotConfigured is returned by Sync when no API client is available.
var ErrNotConfigured = errors.New("shopify credentials not configured")

// ErrBadPayload is returned when a product webhook body is not valid JSON.
var ErrBadPayload = errors.New("invalid shopify webhook payload")

// ProductSource lists the products of a remote store.
type ProductSource interface {
	FetchProducts(ctx context.Context) ([]Product, error)
}

// Catalogue is the local product store the syncer writes to.
type Catalogue interface {
	UpsertBySKU(ctx context.Context, p products.Product) (bool, error)
	DeleteBySKU(ctx context.Context, sku string) (bool, error)
}

type SyncResult struct {
	Synced  int `json:"synced"`
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Webhook actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

type Syncer struct {
	source    ProductSource
	catalogue Catalogue
	log       *zap.Logger
}

// NewSyncer wires a syncer. source may be nil when only webhooks are used.
func NewSyncer(source ProductSource, catalogue Catalogue, log *zap.Logger) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{source: source, catalogue: catalogue, log: log}
}

// Sync upserts every remote product into the catalogue.
func (s *Syncer) Sync(ctx context.Context) (SyncResult, error) {
	if s.source == nil {
		return SyncResult{}, ErrNotConfigured
	}
	remote, err := s.source.FetchProducts(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	res := SyncResult{Synced: len(remote)}
	for _, p := range remote {
		created, err := s.catalogue.UpsertBySKU(ctx, ToProduct(p))
		if err != nil {
			return SyncResult{}, fmt.Errorf("sync product %d: %w", p.ID, err)
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}

	s.log.Info("shopify sync finished",
		zap.Int("synced", res.Synced),
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
	)
	return res, nil
}

// HandleWebhook applies one product webhook. Topics other than product
// create, update and delete are accepted and ignored with an empty action.
func (s *Syncer) HandleWebhook(ctx context.Context, topic string, body []byte) (string, error) {
	switch topic {
	case TopicProductCreate, TopicProductUpdate, TopicProductDelete:
	default:
		s.log.Debug("shopify webhook ignored", zap.String("topic", topic))
		return "", nil
	}

	var p Product
	if err := json.Unmarshal(body, &p); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	if topic == TopicProductDelete {
		if _, err := s.catalogue.DeleteBySKU(ctx, SKU(p.ID)); err != nil {
			return "", fmt.Errorf("apply %s for product %d: %w", topic, p.ID, err)
		}
		s.log.Info("shopify webhook applied", zap.String("topic", topic), zap.Int64("product_id", p.ID), zap.String("action", ActionDeleted))
		return ActionDeleted, nil
	}

	created, err := s.catalogue.UpsertBySKU(ctx, ToProduct(p))
	if err != nil {
		return "", fmt.Errorf("apply %s for product %d: %w", topic, p.ID, err)
	}
	action := ActionUpdated
	if created {
		action = ActionCreated
	}
	s.log.Info("shopify webhook applied", zap.String("topic", topic), zap.Int64("product_id", p.ID), zap.String("action", action))
	return action, nil
}
