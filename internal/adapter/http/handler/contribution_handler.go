package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/treasury/internal/adapter/http/dto"
	"github.com/iho/treasury/internal/domain"
)

// ContributionHandler handles contribution batch requests.
type ContributionHandler struct {
	contributionUC ContributionService
}

// NewContributionHandler creates a new ContributionHandler.
func NewContributionHandler(contributionUC ContributionService) *ContributionHandler {
	return &ContributionHandler{contributionUC: contributionUC}
}

// Create records a draft batch.
func (h *ContributionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	batch, err := h.contributionUC.CreateBatch(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BatchFromDomain(batch))
}

func (h *ContributionHandler) Get(w http.ResponseWriter, r *http.Request) {
	batch, err := h.contributionUC.GetBatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BatchFromDomain(batch))
}

func (h *ContributionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.BatchFilter{
		OccurrenceRef: optionalQuery(r, "occurrence_ref"),
		Limit:         parseIntQuery(r, "limit", 50),
		Offset:        parseIntQuery(r, "offset", 0),
	}
	if s := optionalQuery(r, "status"); s != nil {
		status := domain.BatchStatus(*s)
		filter.Status = &status
	}

	batches, err := h.contributionUC.ListBatches(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := dto.ListBatchesResponse{
		Batches: make([]*dto.BatchResponse, len(batches)),
		Total:   int64(len(batches)),
	}
	for i, b := range batches {
		resp.Batches[i] = dto.BatchFromDomain(b)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Post posts a draft batch to the journal.
func (h *ContributionHandler) Post(w http.ResponseWriter, r *http.Request) {
	key := idempotencyKey(r)
	if key == "" {
		writeError(w, r, domain.ErrIdempotencyKeyRequired)
		return
	}

	result, err := h.contributionUC.PostBatch(r.Context(), chi.URLParam(r, "id"), key)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, http.StatusOK, result.Replayed, dto.PostBatchFromUseCase(result))
}
