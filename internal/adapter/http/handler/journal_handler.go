package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/treasury/internal/adapter/http/dto"
	"github.com/iho/treasury/internal/domain"
)

// JournalHandler handles journal entry requests.
type JournalHandler struct {
	journalUC JournalService
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(journalUC JournalService) *JournalHandler {
	return &JournalHandler{journalUC: journalUC}
}

// Post posts a balanced journal entry.
func (h *JournalHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req dto.PostEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	key := idempotencyKey(r)
	if key == "" {
		writeError(w, r, domain.ErrIdempotencyKeyRequired)
		return
	}

	result, err := h.journalUC.PostEntry(r.Context(), req.ToUseCaseInput(key))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, http.StatusCreated, result.Replayed, dto.PostEntryFromUseCase(result))
}

// Get returns one entry with its lines.
func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.journalUC.GetEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// List returns entries ordered by sequence.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	from, err := parseTimeQuery(r, "from")
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := parseTimeQuery(r, "to")
	if err != nil {
		writeError(w, r, err)
		return
	}

	filter := domain.EntryFilter{
		AccountCode: optionalQuery(r, "account"),
		From:        from,
		To:          to,
		Limit:       parseIntQuery(r, "limit", 50),
		Offset:      parseIntQuery(r, "offset", 0),
	}
	if s := optionalQuery(r, "source_type"); s != nil {
		sourceType := domain.SourceType(*s)
		filter.SourceType = &sourceType
	}

	entries, err := h.journalUC.ListEntries(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Total:   int64(len(entries)),
	})
}

// Reverse posts the negation of an entry.
func (h *JournalHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	var req dto.ReverseEntryRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}

	key := idempotencyKey(r)
	if key == "" {
		writeError(w, r, domain.ErrIdempotencyKeyRequired)
		return
	}

	result, err := h.journalUC.ReverseEntry(r.Context(), chi.URLParam(r, "id"), req.Memo, key)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, http.StatusCreated, result.Replayed, dto.PostEntryFromUseCase(result))
}
