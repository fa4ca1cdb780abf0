package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"review-service/internal/data/repository"
	"review-service/internal/dto/request"
	"review-service/internal/usecase"
	"review-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// SubmitReview handles POST /api/reviews (identified)
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	// The author must be the identity the gateway resolved
	requesterID, _ := utils.GetRequesterIDFromContext(r.Context())
	if req.AuthorID != requesterID {
		utils.ResponseForbidden(w, "Cannot submit a review for another identity")
		return
	}

	review, err := h.service.SubmitReview(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "submit review")
		return
	}

	utils.ResponseCreated(w, "success", review)
}

// ReplyReview handles PUT /api/reviews/{id}/reply (identified)
func (h *ReviewHandler) ReplyReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "id")
	if reviewID == "" {
		utils.ResponseBadRequest(w, "Review ID is required", nil)
		return
	}

	var req request.ReplyReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	review, err := h.service.ReplyReview(r.Context(), reviewID, &req)
	if err != nil {
		h.handleServiceError(w, err, "reply review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// QueryReviews handles GET /api/reviews (public; identified callers also see
// their own private rows)
func (h *ReviewHandler) QueryReviews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &request.QueryReviewsRequest{
		Query:    query.Get("query"),
		OrderID:  query.Get("order_id"),
		GigID:    query.Get("gig_id"),
		TargetID: query.Get("target_id"),
		Page:     utils.ParseInt(query.Get("page"), 1),
		PerPage:  utils.ParseInt(query.Get("limit"), 10),
	}

	requesterID, _ := utils.GetRequesterIDFromContext(r.Context())

	reviews, err := h.service.QueryReviews(r.Context(), requesterID, req)
	if err != nil {
		h.handleServiceError(w, err, "query reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// handleServiceError maps usecase errors onto the HTTP taxonomy
func (h *ReviewHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, repository.ErrPairComplete) || errors.Is(err, repository.ErrRoleReviewed):
		h.log.Warn(operation+" failed - conflict",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, errMsg)

	case errors.Is(err, repository.ErrReviewNotFound):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"):
		h.log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "invalid"):
		h.log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
