package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/loopwork/insights-backend-go/internal/domain/deal"
	"github.com/loopwork/insights-backend-go/internal/handler/http/response"
	"github.com/loopwork/insights-backend-go/internal/pkg/validator"
)

type DealHandler interface {
	// IngestOffer stores one raw fare result
	IngestOffer(w http.ResponseWriter, r *http.Request)
	// GetOffer returns one offer with its metrics
	GetOffer(w http.ResponseWriter, r *http.Request)
	// RescoreOffer recomputes and persists deal metrics
	RescoreOffer(w http.ResponseWriter, r *http.Request)
	// DatePairs enumerates depart/return combinations for a scan
	DatePairs(w http.ResponseWriter, r *http.Request)
}

type dealHandlerImpl struct {
	dealService deal.DealService
}

func NewDealHandler(dealService deal.DealService) DealHandler {
	return &dealHandlerImpl{dealService: dealService}
}

// IngestOffer handles POST /deals/offers
func (h *dealHandlerImpl) IngestOffer(w http.ResponseWriter, r *http.Request) {
	var req deal.IngestOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	var errs validator.ValidationErrors
	if !validator.IsValidIATACode(req.Origin) {
		errs = append(errs, validator.ValidationError{Field: "origin", Message: "must be a 3-letter IATA code"})
	}
	if !validator.IsValidIATACode(req.Destination) {
		errs = append(errs, validator.ValidationError{Field: "destination", Message: "must be a 3-letter IATA code"})
	}
	if !validator.IsValidDateKey(req.DepartDate) {
		errs = append(errs, validator.ValidationError{Field: "depart_date", Message: "must be YYYY-MM-DD"})
	}
	if !validator.IsValidDateKey(req.ReturnDate) {
		errs = append(errs, validator.ValidationError{Field: "return_date", Message: "must be YYYY-MM-DD"})
	}
	if len(req.Segments) == 0 {
		errs = append(errs, validator.ValidationError{Field: "segments", Message: "at least one segment is required"})
	}
	for _, seg := range req.Segments {
		if !validator.IsValidLocalTimestamp(seg.DepartLocal) || !validator.IsValidLocalTimestamp(seg.ArriveLocal) {
			errs = append(errs, validator.ValidationError{Field: "segments", Message: "segment times must be YYYY-MM-DDTHH:MM:SS"})
			break
		}
	}
	if len(errs) > 0 {
		response.BadRequest(w, "Validation failed", errs.ToMap())
		return
	}

	result, err := h.dealService.IngestOffer(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetOffer handles GET /deals/offers/{offerID}
func (h *dealHandlerImpl) GetOffer(w http.ResponseWriter, r *http.Request) {
	result, err := h.dealService.GetOffer(r.Context(), chi.URLParam(r, "offerID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// RescoreOffer handles POST /deals/offers/{offerID}/rescore
func (h *dealHandlerImpl) RescoreOffer(w http.ResponseWriter, r *http.Request) {
	result, err := h.dealService.RescoreOffer(r.Context(), chi.URLParam(r, "offerID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DatePairs handles POST /deals/date-pairs
func (h *dealHandlerImpl) DatePairs(w http.ResponseWriter, r *http.Request) {
	var req deal.DatePairsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.dealService.GenerateDatePairs(req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
