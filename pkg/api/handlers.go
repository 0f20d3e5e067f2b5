package api

import (
	"go.uber.org/zap"

	"github.com/adfharrison1/go-index/pkg/domain"
)

// maxBatchSize caps the number of documents or operations in one batch request
const maxBatchSize = 1000

// Handler provides HTTP handlers for the database API
type Handler struct {
	storage domain.DatabaseEngine
	logger  *zap.SugaredLogger
}

// NewHandler creates a new API handler. A nil logger disables logging.
func NewHandler(storage domain.DatabaseEngine, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{
		storage: storage,
		logger:  logger,
	}
}
