package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/travellog/internal/config"
	"github.com/geocoder89/travellog/internal/domain/place"
	"github.com/gin-gonic/gin"
)

type PlacesService interface {
	Create(ctx context.Context, req place.CreateRequest) (place.Place, error)
	List(ctx context.Context, f place.ListFilter) ([]place.Place, int64, error)
	ListForTrip(ctx context.Context, tripID int64, f place.ListFilter) ([]place.Place, int64, error)
	Get(ctx context.Context, id int64) (place.Place, error)
	Patch(ctx context.Context, id int64, req place.PatchRequest) (place.Place, error)
	Replace(ctx context.Context, id int64, req place.ReplaceRequest) (place.Place, error)
	Delete(ctx context.Context, id int64) error
}

type PlacesHandler struct {
	places PlacesService
	lists  *Lists
}

func NewPlacesHandler(places PlacesService, lists *Lists) *PlacesHandler {
	return &PlacesHandler{places: places, lists: lists}
}

func (h *PlacesHandler) Create(ctx *gin.Context) {
	var req place.CreateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	p, err := h.places.Create(cctx, req)
	if err != nil {
		respondServiceError(ctx, err, "", "Could not create place")
		return
	}

	h.lists.Invalidate(cctx)

	ctx.JSON(http.StatusCreated, p)
}

func (h *PlacesHandler) List(ctx *gin.Context) {
	tripID, ok := optionalQueryID(ctx, "placeCorrTrip")
	if !ok {
		return
	}

	page := pageFrom(ctx)

	h.lists.Serve(ctx, "places", tripID, page, func() (any, int64, error) {
		cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		return h.places.List(cctx, place.ListFilter{
			Trip:   tripID,
			Limit:  page.Limit(),
			Offset: page.Offset(),
		})
	})
}

// ListForTrip serves GET /trips/:tripid/places.
func (h *PlacesHandler) ListForTrip(ctx *gin.Context) {
	tripID, ok := pathID(ctx, "tripid", "trip")
	if !ok {
		return
	}

	page := pageFrom(ctx)

	h.lists.Serve(ctx, "trip-places", &tripID, page, func() (any, int64, error) {
		cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		return h.places.ListForTrip(cctx, tripID, place.ListFilter{
			Limit:  page.Limit(),
			Offset: page.Offset(),
		})
	})
}

func (h *PlacesHandler) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "placeid", "place")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	p, err := h.places.Get(cctx, id)
	if err != nil {
		respondServiceError(ctx, err, ctx.Param("placeid"), "Could not fetch place")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, p)
}

func (h *PlacesHandler) Patch(ctx *gin.Context) {
	id, ok := pathID(ctx, "placeid", "place")
	if !ok {
		return
	}

	var req place.PatchRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	p, err := h.places.Patch(cctx, id, req)
	if err != nil {
		respondServiceError(ctx, err, ctx.Param("placeid"), "Could not update place")
		return
	}

	h.lists.Invalidate(cctx)

	ctx.JSON(http.StatusOK, p)
}

func (h *PlacesHandler) Replace(ctx *gin.Context) {
	id, ok := pathID(ctx, "placeid", "place")
	if !ok {
		return
	}

	var req place.ReplaceRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	p, err := h.places.Replace(cctx, id, req)
	if err != nil {
		respondServiceError(ctx, err, ctx.Param("placeid"), "Could not update place")
		return
	}

	h.lists.Invalidate(cctx)

	ctx.JSON(http.StatusOK, p)
}

func (h *PlacesHandler) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "placeid", "place")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.places.Delete(cctx, id); err != nil {
		respondServiceError(ctx, err, ctx.Param("placeid"), "Could not delete place")
		return
	}

	h.lists.Invalidate(cctx)

	ctx.Status(http.StatusNoContent)
}
