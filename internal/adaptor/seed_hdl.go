package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"review-service/internal/dto/request"
	"review-service/internal/usecase"
	"review-service/pkg/utils"

	"go.uber.org/zap"
)

type SeedHandler struct {
	service usecase.SeedService
	log     *zap.Logger
}

func NewSeedHandler(service usecase.SeedService, log *zap.Logger) *SeedHandler {
	return &SeedHandler{
		service: service,
		log:     log.With(zap.String("handler", "seed")),
	}
}

// SeedReviews handles POST /api/seed/reviews (admin)
func (h *SeedHandler) SeedReviews(w http.ResponseWriter, r *http.Request) {
	var req request.SeedReviewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	stats, err := h.service.SeedReviews(r.Context(), &req)
	if err != nil {
		if strings.Contains(err.Error(), "validation failed") || strings.Contains(err.Error(), "invalid") {
			utils.ResponseBadRequest(w, err.Error(), nil)
			return
		}
		h.log.Error("Failed to seed reviews", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseCreated(w, "Reviews seeded successfully", stats)
}

// DeleteSeeded handles DELETE /api/seed/reviews (admin)
func (h *SeedHandler) DeleteSeeded(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.DeleteSeeded(r.Context())
	if err != nil {
		h.log.Error("Failed to delete seeded reviews", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "All seeded reviews deleted", map[string]int64{"deleted_count": count})
}
